package interop

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/core/container"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

var errNoContainer = errors.New("no script container")

// engineGetScriptContainer returns transaction, block or consensus payload
// that contains the script being run.
func engineGetScriptContainer(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	c := ctx.Container()
	if c == nil {
		return fail(errNoContainer)
	}
	return push(stackitem.NewInterop(c))
}

func engineGetExecutingScriptHash(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return push(stackitem.Make(ctx.ScriptHash))
}

// engineGetCallingScriptHash returns the hash of the calling script or an
// empty byte array for the deepest one.
func engineGetCallingScriptHash(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if ctx.CallingScriptHash.IsZero() {
		return push(stackitem.NewByteArray([]byte{}))
	}
	return push(stackitem.Make(ctx.CallingScriptHash))
}

func engineGetEntryScriptHash(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return push(stackitem.Make(ctx.EntryScriptHash))
}

func transactionGetHash(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	tx, err := interopValue[*container.Transaction](args[0])
	if err != nil {
		return fail(err)
	}
	return push(stackitem.Make(tx.Hash()))
}

func blockGetTransactionCount(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := interopValue[*container.Block](args[0])
	if err != nil {
		return fail(err)
	}
	return push(stackitem.Make(len(b.Transactions)))
}

// blockGetTransactions returns an array of block transactions.
func blockGetTransactions(e *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := interopValue[*container.Block](args[0])
	if err != nil {
		return fail(err)
	}
	if len(b.Transactions) > e.Limits().MaxArraySize {
		return fail(fmt.Errorf("%w: %d transactions", stackitem.ErrTooBig, len(b.Transactions)))
	}
	txes := make([]stackitem.Item, len(b.Transactions))
	for i, tx := range b.Transactions {
		txes[i] = stackitem.NewInterop(tx)
	}
	return push(stackitem.NewArray(txes))
}

// blockGetTransaction returns the transaction with the given index from the
// block.
func blockGetTransaction(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := interopValue[*container.Block](args[0])
	if err != nil {
		return fail(err)
	}
	index, err := toInt64(args[1])
	if err != nil {
		return fail(err)
	}
	if index < 0 || index >= int64(len(b.Transactions)) {
		return fail(fmt.Errorf("%w: transaction index %d, block has %d", ErrInvalidArgument, index, len(b.Transactions)))
	}
	return push(stackitem.NewInterop(b.Transactions[index]))
}

// headerFromItem accepts both headers and full blocks.
func headerFromItem(item stackitem.Item) (*container.Header, error) {
	it, ok := item.(*stackitem.Interop)
	if ok {
		switch h := it.Value().(type) {
		case *container.Header:
			return h, nil
		case *container.Block:
			return &h.Header, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not a header", ErrInvalidArgument, item.Type())
}

func headerGetter(f func(h *container.Header) any) vm.SyscallFunc {
	return func(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		h, err := headerFromItem(args[0])
		if err != nil {
			return fail(err)
		}
		return push(stackitem.Make(f(h)))
	}
}

var (
	headerGetIndex = headerGetter(func(h *container.Header) any { return h.Index })
	headerGetHash  = headerGetter(func(h *container.Header) any {
		b := container.Block{Header: *h}
		return b.Hash()
	})
	headerGetPrevHash      = headerGetter(func(h *container.Header) any { return h.PrevHash })
	headerGetTimestamp     = headerGetter(func(h *container.Header) any { return h.Timestamp })
	headerGetVersion       = headerGetter(func(h *container.Header) any { return h.Version })
	headerGetNextConsensus = headerGetter(func(h *container.Header) any { return h.NextConsensus })
)
