/*
Package dao provides the data access object for contract states and contract
storage kept in a storage.Store. Every Simple has a memory cache layer, the
changes are flushed to the lower Store with Persist.
*/
package dao

import (
	"encoding/binary"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neo2-vm/pkg/core/state"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// DefaultContractCacheSize is the number of contract states kept in memory.
const DefaultContractCacheSize = 128

// Simple is memCached wrapper around DB, simple DAO implementation.
type Simple struct {
	Store *storage.MemCachedStore

	contracts *lru.Cache
	cacheSize int
	parent    *Simple
}

// NewSimple creates new simple dao using provided backend store and contract
// cache size (DefaultContractCacheSize is used for non-positive values).
func NewSimple(backend storage.Store, cacheSize int) *Simple {
	if cacheSize <= 0 {
		cacheSize = DefaultContractCacheSize
	}
	// New only fails for non-positive sizes.
	cache, _ := lru.New(cacheSize)
	return &Simple{
		Store:     storage.NewMemCachedStore(backend),
		contracts: cache,
		cacheSize: cacheSize,
	}
}

// GetBatch returns currently accumulated DB changeset.
func (dao *Simple) GetBatch() *storage.MemBatch {
	return dao.Store.GetBatch()
}

// GetWrapped returns new DAO instance with another layer of wrapped
// MemCachedStore around the current DAO Store.
func (dao *Simple) GetWrapped() *Simple {
	d := NewSimple(dao.Store, dao.cacheSize)
	d.parent = dao
	return d
}

// GetAndDecode performs get operation and decoding with serializable structures.
func (dao *Simple) GetAndDecode(entity io.Serializable, key []byte) error {
	entityBytes, err := dao.Store.Get(key)
	if err != nil {
		return err
	}
	return io.FromByteArray(entity, entityBytes)
}

// Put performs put operation with serializable structures.
func (dao *Simple) Put(entity io.Serializable, key []byte) error {
	data, err := io.ToByteArray(entity)
	if err != nil {
		return err
	}
	dao.Store.Put(key, data)
	return nil
}

// -- start contracts.

// GetContract returns contract state as recorded in the given
// store by the given script hash.
func (dao *Simple) GetContract(hash util.Uint160) (*state.Contract, error) {
	if cs, ok := dao.contracts.Get(hash); ok {
		return cs.(*state.Contract), nil
	}
	contract := &state.Contract{}
	key := makeContractKey(hash)
	err := dao.GetAndDecode(contract, key)
	if err != nil {
		return nil, err
	}
	if contract.ScriptHash() != hash {
		return nil, errors.New("found script hash is not equal to expected")
	}
	dao.contracts.Add(hash, contract)
	return contract, nil
}

// PutContract puts given contract state into the given store.
func (dao *Simple) PutContract(cs *state.Contract) error {
	err := dao.Put(cs, makeContractKey(cs.ScriptHash()))
	if err != nil {
		return err
	}
	dao.contracts.Add(cs.ScriptHash(), cs)
	return nil
}

// DeleteContract deletes given contract state in the given store.
func (dao *Simple) DeleteContract(hash util.Uint160) {
	dao.contracts.Remove(hash)
	dao.Store.Delete(makeContractKey(hash))
}

// GetScript implements the vm.ScriptGetter interface, it returns nil script
// for unknown contracts.
func (dao *Simple) GetScript(hash util.Uint160) ([]byte, bool, error) {
	cs, err := dao.GetContract(hash)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get contract %s: %w", hash.StringLE(), err)
	}
	return cs.Script, cs.HasDynamicInvoke(), nil
}

func makeContractKey(hash util.Uint160) []byte {
	return storage.AppendPrefix(storage.STContract, hash.BytesBE())
}

// -- end contracts.

// -- start storage item.

// GetStorageItem returns StorageItem if it exists in the given store.
func (dao *Simple) GetStorageItem(scripthash util.Uint160, key []byte) *state.StorageItem {
	si := &state.StorageItem{}
	if err := dao.GetAndDecode(si, makeStorageItemKey(scripthash, key)); err != nil {
		return nil
	}
	return si
}

// PutStorageItem puts given StorageItem for given script with given
// key into the given store.
func (dao *Simple) PutStorageItem(scripthash util.Uint160, key []byte, si *state.StorageItem) error {
	return dao.Put(si, makeStorageItemKey(scripthash, key))
}

// DeleteStorageItem drops storage item for the given script with the
// given key from the store.
func (dao *Simple) DeleteStorageItem(scripthash util.Uint160, key []byte) {
	dao.Store.Delete(makeStorageItemKey(scripthash, key))
}

// GetStorageItems returns all storage items for a given scripthash.
func (dao *Simple) GetStorageItems(hash util.Uint160) (map[string]*state.StorageItem, error) {
	var siMap = make(map[string]*state.StorageItem)
	var err error

	dao.Store.Seek(storage.SeekRange{Prefix: makeStorageItemKey(hash, nil)}, func(k, v []byte) bool {
		si := &state.StorageItem{}
		err = io.FromByteArray(si, v)
		if err != nil {
			return false
		}
		// Cut prefix and hash.
		siMap[string(k[1+util.Uint160Size:])] = si
		return true
	})
	if err != nil {
		return nil, err
	}
	return siMap, nil
}

// DeleteStorageItems drops all storage items of the contract.
func (dao *Simple) DeleteStorageItems(hash util.Uint160) {
	var keys [][]byte
	dao.Store.Seek(storage.SeekRange{Prefix: makeStorageItemKey(hash, nil)}, func(k, _ []byte) bool {
		keys = append(keys, append([]byte(nil), k...))
		return true
	})
	for _, k := range keys {
		dao.Store.Delete(k)
	}
}

// makeStorageItemKey returns a key used to store StorageItem in the DB.
func makeStorageItemKey(scripthash util.Uint160, key []byte) []byte {
	return storage.AppendPrefix(storage.STStorage, scripthash.BytesLE(), key)
}

// -- end storage item.

// -- other.

// GetHeight returns the current block height found in the underlying store,
// it's zero for an empty store.
func (dao *Simple) GetHeight() (uint32, error) {
	b, err := dao.Store.Get(storage.SYSCurrentBlock.Bytes())
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(b) != 4 {
		return 0, fmt.Errorf("invalid height record length: %d", len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

// SetHeight stores the current block height.
func (dao *Simple) SetHeight(h uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, h)
	dao.Store.Put(storage.SYSCurrentBlock.Bytes(), buf)
}

// Persist flushes all the changes made into the (supposedly) persistent
// underlying store.
func (dao *Simple) Persist() (int, error) {
	n, err := dao.Store.Persist()
	if err == nil && n != 0 && dao.parent != nil {
		// Contract states of the parent could have been changed.
		dao.parent.contracts.Purge()
	}
	return n, err
}
