package interop

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/core/state"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// StoragePrice is the price of one started KiB of storage key and value.
const StoragePrice int64 = 100000000

// StorageContext contains the contract script hash and read/write flag,
// it's used as a context for storage manipulation functions.
type StorageContext struct {
	ScriptHash util.Uint160
	ReadOnly   bool
}

// StorageFlag represents storage flag which denotes whether the stored value
// is a constant.
type StorageFlag byte

const (
	// None is a storage flag for non-constant items.
	None StorageFlag = 0
	// Constant is a storage flag for constant items.
	Constant StorageFlag = 0x01
)

var (
	// ErrReadOnlyContext is returned on an attempt to change the storage
	// via a read-only context.
	ErrReadOnlyContext = errors.New("StorageContext is read only")
	// ErrConstantItem is returned on an attempt to change a constant item.
	ErrConstantItem = errors.New("storage item is constant")
	// ErrWrongTrigger is returned on an attempt to change the storage
	// outside of the application trigger.
	ErrWrongTrigger = errors.New("storage can only be changed by the application trigger")
	// ErrNoStorage is returned when the context refers to a contract that
	// doesn't exist or has no storage.
	ErrNoStorage = errors.New("contract has no storage")
)

// storagePutPrice is the price of Put and PutEx, it depends on the key and
// value sizes.
func storagePutPrice(ctx *vm.Context) (int64, error) {
	key, value := ctx.Peek(1), ctx.Peek(2)
	if key == nil || value == nil {
		return 0, fmt.Errorf("%w: not enough storage arguments", vm.ErrStackUnderflow)
	}
	k, err := key.TryBytes()
	if err != nil {
		return 0, err
	}
	v, err := value.TryBytes()
	if err != nil {
		return 0, err
	}
	return storagePrice(len(k) + len(v)), nil
}

func storagePrice(size int) int64 {
	return int64((size-1)/1024+1) * StoragePrice
}

func storageContextFromItem(item stackitem.Item) (*StorageContext, error) {
	return interopValue[*StorageContext](item)
}

// checkStorageContext checks that the contract behind the context exists and
// has storage.
func (ic *Context) checkStorageContext(stc *StorageContext) error {
	cs, err := ic.DAO.GetContract(stc.ScriptHash)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s doesn't exist", ErrNoStorage, stc.ScriptHash.StringLE())
		}
		return err
	}
	if !cs.HasStorage() {
		return fmt.Errorf("%w: %s", ErrNoStorage, stc.ScriptHash.StringLE())
	}
	return nil
}

// checkStorageWrite checks whether the storage can be changed via the
// context.
func (ic *Context) checkStorageWrite(ctx *vm.Context, stc *StorageContext) error {
	if t := ctx.Trigger(); t != trigger.Application && t != trigger.ApplicationR {
		return ErrWrongTrigger
	}
	if stc.ReadOnly {
		return ErrReadOnlyContext
	}
	return ic.checkStorageContext(stc)
}

// storageGetContext returns storage context of the executing script.
func storageGetContext(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return push(stackitem.NewInterop(&StorageContext{ScriptHash: ctx.ScriptHash}))
}

// storageGetReadOnlyContext returns read-only storage context of the
// executing script.
func storageGetReadOnlyContext(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return push(stackitem.NewInterop(&StorageContext{ScriptHash: ctx.ScriptHash, ReadOnly: true}))
}

// storageContextAsReadOnly sets given context to read-only mode.
func storageContextAsReadOnly(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	stc, err := storageContextFromItem(args[0])
	if err != nil {
		return fail(err)
	}
	if !stc.ReadOnly {
		stc = &StorageContext{
			ScriptHash: stc.ScriptHash,
			ReadOnly:   true,
		}
	}
	return push(stackitem.NewInterop(stc))
}

// storageGet returns the stored value or an empty byte array.
func (ic *Context) storageGet(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	stc, err := storageContextFromItem(args[0])
	if err != nil {
		return fail(err)
	}
	key, err := args[1].TryBytes()
	if err != nil {
		return fail(err)
	}
	if err := ic.checkStorageContext(stc); err != nil {
		return fail(err)
	}
	si := ic.DAO.GetStorageItem(stc.ScriptHash, key)
	if si == nil {
		return push(stackitem.NewByteArray([]byte{}))
	}
	return push(stackitem.NewByteArray(si.Value))
}

func (ic *Context) putWithContextAndFlags(ctx *vm.Context, stc *StorageContext, key []byte, value []byte, isConst bool) error {
	if len(key) > storage.MaxStorageKeyLen {
		return fmt.Errorf("%w: key is %d bytes", stackitem.ErrTooBig, len(key))
	}
	if err := ic.checkStorageWrite(ctx, stc); err != nil {
		return err
	}
	si := ic.DAO.GetStorageItem(stc.ScriptHash, key)
	if si != nil && si.IsConst {
		return ErrConstantItem
	}
	return ic.DAO.PutStorageItem(stc.ScriptHash, key, &state.StorageItem{
		Value:   value,
		IsConst: isConst,
	})
}

// storagePutInternal is a unified implementation of storagePut and
// storagePutEx.
func (ic *Context) storagePutInternal(ctx *vm.Context, args []stackitem.Item, getFlag bool) error {
	stc, err := storageContextFromItem(args[0])
	if err != nil {
		return err
	}
	key, err := args[1].TryBytes()
	if err != nil {
		return err
	}
	value, err := args[2].TryBytes()
	if err != nil {
		return err
	}
	var flag int64
	if getFlag {
		if flag, err = toInt64(args[3]); err != nil {
			return err
		}
	}
	return ic.putWithContextAndFlags(ctx, stc, key, value, int64(Constant)&flag != 0)
}

// storagePut puts key-value pair into the storage.
func (ic *Context) storagePut(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if err := ic.storagePutInternal(ctx, args, false); err != nil {
		return fail(err)
	}
	return push()
}

// storagePutEx puts key-value pair with given flags into the storage.
func (ic *Context) storagePutEx(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if err := ic.storagePutInternal(ctx, args, true); err != nil {
		return fail(err)
	}
	return push()
}

// storageDelete deletes stored key-value pair.
func (ic *Context) storageDelete(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	stc, err := storageContextFromItem(args[0])
	if err != nil {
		return fail(err)
	}
	key, err := args[1].TryBytes()
	if err != nil {
		return fail(err)
	}
	if err := ic.checkStorageWrite(ctx, stc); err != nil {
		return fail(err)
	}
	si := ic.DAO.GetStorageItem(stc.ScriptHash, key)
	if si != nil && si.IsConst {
		return fail(ErrConstantItem)
	}
	ic.DAO.DeleteStorageItem(stc.ScriptHash, key)
	return push()
}
