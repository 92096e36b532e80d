package dao

import (
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/core/state"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestPutGetAndDecode(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	serializable := &TestSerializable{field: "test"}
	key := []byte{1}
	require.NoError(t, dao.Put(serializable, key))

	gotAndDecoded := &TestSerializable{}
	err := dao.GetAndDecode(gotAndDecoded, key)
	require.NoError(t, err)
	require.Equal(t, serializable, gotAndDecoded)
}

// TestSerializable structure used in testing.
type TestSerializable struct {
	field string
}

func (t *TestSerializable) EncodeBinary(writer *io.BinWriter) {
	writer.WriteString(t.field)
}

func (t *TestSerializable) DecodeBinary(reader *io.BinReader) {
	t.field = reader.ReadString()
}

func TestPutGetContract(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	contract := &state.Contract{Script: []byte{0xde, 0xad}, Properties: smartcontract.HasDynamicInvoke}
	h := hash.Hash160(contract.Script)
	require.NoError(t, dao.PutContract(contract))

	got, err := dao.GetContract(h)
	require.NoError(t, err)
	require.Equal(t, contract, got)

	script, dynamic, err := dao.GetScript(h)
	require.NoError(t, err)
	require.True(t, dynamic)
	require.Equal(t, contract.Script, script)

	// Not cached, decoded from the store.
	fresh := &Simple{Store: dao.Store, contracts: NewSimple(nil, 1).contracts}
	got, err = fresh.GetContract(h)
	require.NoError(t, err)
	require.Equal(t, contract.Script, got.Script)
}

func TestDeleteContract(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	contract := &state.Contract{Script: []byte{0x01}}
	require.NoError(t, dao.PutContract(contract))
	dao.DeleteContract(contract.ScriptHash())

	_, err := dao.GetContract(contract.ScriptHash())
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
	script, dynamic, err := dao.GetScript(contract.ScriptHash())
	require.NoError(t, err)
	require.False(t, dynamic)
	require.Nil(t, script)
}

func TestGetContractCorrupted(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	h := util.Uint160{1, 2, 3}
	dao.Store.Put(makeContractKey(h), []byte{0x01})
	_, _, err := dao.GetScript(h)
	require.Error(t, err)

	other := &state.Contract{Script: []byte{0x02}}
	require.NoError(t, dao.Put(other, makeContractKey(h)))
	_, err = dao.GetContract(h)
	require.Error(t, err)
}

func TestPutGetStorageItem(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	h := util.Uint160{1, 2, 3}
	key := []byte{0}
	storageItem := &state.StorageItem{Value: []byte{1, 2, 3}}
	require.NoError(t, dao.PutStorageItem(h, key, storageItem))
	gotStorageItem := dao.GetStorageItem(h, key)
	require.Equal(t, storageItem, gotStorageItem)
	require.Nil(t, dao.GetStorageItem(util.Uint160{3, 2, 1}, key))
}

func TestDeleteStorageItem(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	h := util.Uint160{1, 2, 3}
	key := []byte{0}
	storageItem := &state.StorageItem{Value: []byte{1}}
	require.NoError(t, dao.PutStorageItem(h, key, storageItem))
	dao.DeleteStorageItem(h, key)
	gotStorageItem := dao.GetStorageItem(h, key)
	require.Nil(t, gotStorageItem)
}

func TestStorageItems(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	h1 := util.Uint160{1}
	h2 := util.Uint160{2}
	require.NoError(t, dao.PutStorageItem(h1, []byte("a"), &state.StorageItem{Value: []byte{1}}))
	require.NoError(t, dao.PutStorageItem(h1, []byte("b"), &state.StorageItem{Value: []byte{2}, IsConst: true}))
	require.NoError(t, dao.PutStorageItem(h2, []byte("a"), &state.StorageItem{Value: []byte{3}}))
	_, err := dao.Persist()
	require.NoError(t, err)
	require.NoError(t, dao.PutStorageItem(h1, []byte("c"), &state.StorageItem{Value: []byte{4}}))

	items, err := dao.GetStorageItems(h1)
	require.NoError(t, err)
	require.Equal(t, map[string]*state.StorageItem{
		"a": {Value: []byte{1}},
		"b": {Value: []byte{2}, IsConst: true},
		"c": {Value: []byte{4}},
	}, items)

	dao.DeleteStorageItems(h1)
	items, err = dao.GetStorageItems(h1)
	require.NoError(t, err)
	require.Empty(t, items)
	require.NotNil(t, dao.GetStorageItem(h2, []byte("a")))
}

func TestHeight(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore(), 0)
	h, err := dao.GetHeight()
	require.NoError(t, err)
	require.Zero(t, h)

	dao.SetHeight(42)
	h, err = dao.GetHeight()
	require.NoError(t, err)
	require.Equal(t, uint32(42), h)

	dao.Store.Put(storage.SYSCurrentBlock.Bytes(), []byte{1})
	_, err = dao.GetHeight()
	require.Error(t, err)
}

func TestWrappedPersist(t *testing.T) {
	ps := storage.NewMemoryStore()
	dao := NewSimple(ps, 0)
	contract := &state.Contract{Script: []byte{0x01}}
	require.NoError(t, dao.PutContract(contract))
	_, err := dao.GetContract(contract.ScriptHash())
	require.NoError(t, err)

	wrapped := dao.GetWrapped()
	wrapped.DeleteContract(contract.ScriptHash())
	// Not visible until persisted.
	_, err = dao.GetContract(contract.ScriptHash())
	require.NoError(t, err)

	n, err := wrapped.Persist()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, err = dao.GetContract(contract.ScriptHash())
	require.ErrorIs(t, err, storage.ErrKeyNotFound)

	b := dao.GetBatch()
	require.Empty(t, b.Put)
	require.Len(t, b.Deleted, 1)
	_, err = dao.Persist()
	require.NoError(t, err)
	_, err = ps.Get(makeContractKey(contract.ScriptHash()))
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
}
