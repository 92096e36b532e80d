/*
Package interop implements the blockchain-specific syscalls scripts use to
access storage, contracts and the script container.

Syscall implementations get their arguments with the former top of the
evaluation stack first and return the items to push (the first one ends up
deepest). They never panic, all failures are returned as errors that fault
the script.
*/
package interop

import (
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo2-vm/pkg/core/dao"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// ErrInvalidArgument is returned when some syscall argument has an
// unexpected type or value.
var ErrInvalidArgument = errors.New("invalid argument")

// Context is the environment syscalls work in.
type Context struct {
	// DAO holds contracts and their storage.
	DAO *dao.Simple
	// Log gets Runtime.Log messages.
	Log *zap.Logger
	// Time returns the current time for Runtime.GetTime when no block is
	// being persisted.
	Time func() time.Time
}

// NewContext returns a new syscall environment over the given DAO.
func NewContext(d *dao.Simple, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		DAO:  d,
		Log:  log,
		Time: time.Now,
	}
}

// NewSyscallTable returns a table with all the syscalls (and their legacy
// aliases) registered working with the given DAO.
func NewSyscallTable(d *dao.Simple, log *zap.Logger) (*vm.SyscallTable, error) {
	return NewContext(d, log).SyscallTable()
}

// SyscallTable returns a table with all the syscalls bound to ic.
func (ic *Context) SyscallTable() (*vm.SyscallTable, error) {
	t := vm.NewSyscallTable()
	for _, sc := range ic.syscalls() {
		if err := t.Register(sc); err != nil {
			return nil, err
		}
	}
	for alias, name := range aliases {
		if err := t.Alias(alias, name); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// syscalls returns descriptors of all the syscalls, the list is sorted by
// name, keep it this way, please.
func (ic *Context) syscalls() []vm.Syscall {
	return []vm.Syscall{
		{Name: "Neo.Block.GetTransaction", In: 2, Out: 1, Fee: vm.DefaultSyscallFee, Func: blockGetTransaction},
		{Name: "Neo.Block.GetTransactionCount", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: blockGetTransactionCount},
		{Name: "Neo.Block.GetTransactions", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: blockGetTransactions},
		{Name: "Neo.Blockchain.GetContract", In: 1, Out: 1, Fee: 1000000, Func: ic.blockchainGetContract},
		{Name: "Neo.Blockchain.GetHeight", Out: 1, Fee: vm.DefaultSyscallFee, Func: ic.blockchainGetHeight},
		{Name: "Neo.Contract.Create", In: 9, Out: 1, Price: contractCreatePrice, Func: ic.contractCreate},
		{Name: "Neo.Contract.Destroy", Fee: vm.DefaultSyscallFee, Func: ic.contractDestroy},
		{Name: "Neo.Contract.GetScript", In: 1, Out: 1, Fee: 400, Func: contractGetScript},
		{Name: "Neo.Contract.GetStorageContext", In: 1, Out: 1, Fee: 400, Func: contractGetStorageContext},
		{Name: "Neo.Contract.IsPayable", In: 1, Out: 1, Fee: 400, Func: contractIsPayable},
		{Name: "Neo.Crypto.Secp256k1Verify", In: 3, Out: 1, Fee: 1000000, Func: secp256k1Verify},
		{Name: "Neo.Crypto.VerifySignature", In: 3, Out: 1, Fee: 1000000, Func: verifySignature},
		{Name: "Neo.Header.GetHash", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: headerGetHash},
		{Name: "Neo.Header.GetIndex", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: headerGetIndex},
		{Name: "Neo.Header.GetNextConsensus", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: headerGetNextConsensus},
		{Name: "Neo.Header.GetPrevHash", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: headerGetPrevHash},
		{Name: "Neo.Header.GetTimestamp", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: headerGetTimestamp},
		{Name: "Neo.Header.GetVersion", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: headerGetVersion},
		{Name: "Neo.Runtime.CheckWitness", In: 1, Out: 1, Fee: 200000, Func: runtimeCheckWitness},
		{Name: "Neo.Runtime.Deserialize", In: 1, Out: 1, Fee: 500000, Func: runtimeDeserialize},
		{Name: "Neo.Runtime.GetTime", Out: 1, Fee: 250, Func: ic.runtimeGetTime},
		{Name: "Neo.Runtime.GetTrigger", Out: 1, Fee: 250, Func: runtimeGetTrigger},
		{Name: "Neo.Runtime.Log", In: 1, Fee: 1000000, Func: ic.runtimeLog},
		{Name: "Neo.Runtime.Notify", In: 1, Fee: 1000000, Func: runtimeNotify},
		{Name: "Neo.Runtime.Serialize", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: runtimeSerialize},
		{Name: "Neo.Storage.Delete", In: 2, Fee: 1000000, Func: ic.storageDelete},
		{Name: "Neo.Storage.Get", In: 2, Out: 1, Fee: 1000000, Func: ic.storageGet},
		{Name: "Neo.Storage.GetContext", Out: 1, Fee: 400, Func: storageGetContext},
		{Name: "Neo.Storage.GetReadOnlyContext", Out: 1, Fee: 400, Func: storageGetReadOnlyContext},
		{Name: "Neo.Storage.Put", In: 3, Price: storagePutPrice, Func: ic.storagePut},
		{Name: "Neo.Storage.PutEx", In: 4, Price: storagePutPrice, Func: ic.storagePutEx},
		{Name: "Neo.StorageContext.AsReadOnly", In: 1, Out: 1, Fee: 400, Func: storageContextAsReadOnly},
		{Name: "Neo.Transaction.GetHash", In: 1, Out: 1, Fee: vm.DefaultSyscallFee, Func: transactionGetHash},
		{Name: "System.ExecutionEngine.GetCallingScriptHash", Out: 1, Fee: 400, Func: engineGetCallingScriptHash},
		{Name: "System.ExecutionEngine.GetEntryScriptHash", Out: 1, Fee: 400, Func: engineGetEntryScriptHash},
		{Name: "System.ExecutionEngine.GetExecutingScriptHash", Out: 1, Fee: 400, Func: engineGetExecutingScriptHash},
		{Name: "System.ExecutionEngine.GetScriptContainer", Out: 1, Fee: 400, Func: engineGetScriptContainer},
		{Name: "System.Runtime.Platform", Out: 1, Fee: 250, Func: runtimePlatform},
	}
}

// aliases maps legacy syscall names to the current ones.
var aliases = map[string]string{
	"System.Runtime.GetTrigger":         "Neo.Runtime.GetTrigger",
	"System.Runtime.CheckWitness":       "Neo.Runtime.CheckWitness",
	"System.Runtime.Notify":             "Neo.Runtime.Notify",
	"System.Runtime.Log":                "Neo.Runtime.Log",
	"System.Runtime.GetTime":            "Neo.Runtime.GetTime",
	"System.Runtime.Deserialize":        "Neo.Runtime.Deserialize",
	"System.Blockchain.GetHeight":       "Neo.Blockchain.GetHeight",
	"System.Blockchain.GetContract":     "Neo.Blockchain.GetContract",
	"System.Header.GetHash":             "Neo.Header.GetHash",
	"System.Header.GetPrevHash":         "Neo.Header.GetPrevHash",
	"System.Header.GetTimestamp":        "Neo.Header.GetTimestamp",
	"System.Block.GetTransactionCount":  "Neo.Block.GetTransactionCount",
	"System.Block.GetTransactions":      "Neo.Block.GetTransactions",
	"System.Block.GetTransaction":       "Neo.Block.GetTransaction",
	"System.Transaction.GetHash":        "Neo.Transaction.GetHash",
	"System.Contract.Destroy":           "Neo.Contract.Destroy",
	"System.Contract.GetStorageContext": "Neo.Contract.GetStorageContext",
	"System.Storage.GetContext":         "Neo.Storage.GetContext",
	"System.Storage.GetReadOnlyContext": "Neo.Storage.GetReadOnlyContext",
	"System.Storage.Get":                "Neo.Storage.Get",
	"System.Storage.Put":                "Neo.Storage.Put",
	"System.Storage.Delete":             "Neo.Storage.Delete",
	"System.StorageContext.AsReadOnly":  "Neo.StorageContext.AsReadOnly",

	"AntShares.Runtime.CheckWitness":       "Neo.Runtime.CheckWitness",
	"AntShares.Runtime.Notify":             "Neo.Runtime.Notify",
	"AntShares.Runtime.Log":                "Neo.Runtime.Log",
	"AntShares.Blockchain.GetHeight":       "Neo.Blockchain.GetHeight",
	"AntShares.Blockchain.GetContract":     "Neo.Blockchain.GetContract",
	"AntShares.Header.GetHash":             "Neo.Header.GetHash",
	"AntShares.Header.GetVersion":          "Neo.Header.GetVersion",
	"AntShares.Header.GetPrevHash":         "Neo.Header.GetPrevHash",
	"AntShares.Header.GetTimestamp":        "Neo.Header.GetTimestamp",
	"AntShares.Header.GetNextConsensus":    "Neo.Header.GetNextConsensus",
	"AntShares.Block.GetTransactionCount":  "Neo.Block.GetTransactionCount",
	"AntShares.Block.GetTransactions":      "Neo.Block.GetTransactions",
	"AntShares.Block.GetTransaction":       "Neo.Block.GetTransaction",
	"AntShares.Transaction.GetHash":        "Neo.Transaction.GetHash",
	"AntShares.Contract.GetScript":         "Neo.Contract.GetScript",
	"AntShares.Contract.Create":            "Neo.Contract.Create",
	"AntShares.Contract.Destroy":           "Neo.Contract.Destroy",
	"AntShares.Contract.GetStorageContext": "Neo.Contract.GetStorageContext",
	"AntShares.Storage.GetContext":         "Neo.Storage.GetContext",
	"AntShares.Storage.Get":                "Neo.Storage.Get",
	"AntShares.Storage.Put":                "Neo.Storage.Put",
	"AntShares.Storage.Delete":             "Neo.Storage.Delete",
}

func push(items ...stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return items, nil, nil
}

func fail(err error) ([]stackitem.Item, []stackitem.Item, error) {
	return nil, nil, err
}

// interopValue extracts the value of the given type from an Interop item.
func interopValue[T any](item stackitem.Item) (T, error) {
	var v T
	it, ok := item.(*stackitem.Interop)
	if !ok {
		return v, fmt.Errorf("%w: %s is not an interop", ErrInvalidArgument, item.Type())
	}
	v, ok = it.Value().(T)
	if !ok {
		return v, fmt.Errorf("%w: %T is not a %T", ErrInvalidArgument, it.Value(), v)
	}
	return v, nil
}

// toUint160 converts an item into a script hash (in the byte order hashes
// are pushed with).
func toUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return u, nil
}

// toInt64 converts an item into an int64 checking the range.
func toInt64(item stackitem.Item) (int64, error) {
	bi, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if !bi.IsInt64() {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidArgument, bi)
	}
	return bi.Int64(), nil
}
