package vm

import (
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Stack manipulation operations.

func init() {
	register(opcode.DUPFROMALTSTACKBOTTOM, 0, 1, 60, dupFromAltStackBottom)
	op := register(opcode.DUPFROMALTSTACK, 0, 1, 60, dupFromAltStack)
	op.InAlt, op.OutAlt = 1, 1
	register(opcode.TOALTSTACK, 1, 0, 60, toAltStack).OutAlt = 1
	register(opcode.FROMALTSTACK, 0, 1, 60, fromAltStack).InAlt = 1
	register(opcode.XDROP, 1, 0, 400, xdrop)
	register(opcode.ISNULL, 1, 1, 60, isNull)
	register(opcode.XSWAP, 1, 0, 60, xswap)
	register(opcode.XTUCK, 1, 0, 400, xtuck)
	register(opcode.DEPTH, 0, 1, 60, depth)
	register(opcode.DROP, 1, 0, 60, drop)
	register(opcode.DUP, 1, 2, 60, dup)
	register(opcode.NIP, 2, 1, 60, nip)
	register(opcode.OVER, 2, 3, 60, over)
	register(opcode.PICK, 1, 1, 60, pick)
	register(opcode.ROLL, 1, 1, 400, roll)
	register(opcode.ROT, 3, 3, 60, rot)
	register(opcode.SWAP, 2, 2, 60, swap)
	register(opcode.TUCK, 2, 3, 60, tuck)
}

func dupFromAltStackBottom(_ *Engine, ctx *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if len(ctx.StackAlt) == 0 {
		return nil, nil, fmt.Errorf("%w: alt stack is empty", ErrAltStackUnderflow)
	}
	return []stackitem.Item{ctx.StackAlt[0].Dup()}, nil, nil
}

func dupFromAltStack(_ *Engine, _ *Context, _ []byte, _, argsAlt []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{argsAlt[0].Dup()}, []stackitem.Item{argsAlt[0]}, nil
}

func toAltStack(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return nil, []stackitem.Item{args[0]}, nil
}

func fromAltStack(_ *Engine, _ *Context, _ []byte, _, argsAlt []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{argsAlt[0]}, nil, nil
}

// stackIndex converts the item into an index from the top of the stack,
// checking it against [min, len(stack)+max).
func stackIndex(ctx *Context, item stackitem.Item, min, max int) (int, error) {
	n, err := toInt(item)
	if err != nil {
		return 0, err
	}
	if n < min || n >= len(ctx.Stack)+max {
		return 0, fmt.Errorf("%w: %d, stack has %d items", ErrInvalidIndex, n, len(ctx.Stack))
	}
	return n, nil
}

// without returns a copy of the stack with the n-th item from the top
// removed along with the item itself.
func without(s []stackitem.Item, n int) ([]stackitem.Item, stackitem.Item) {
	idx := len(s) - 1 - n
	res := make([]stackitem.Item, 0, len(s)-1)
	res = append(res, s[:idx]...)
	res = append(res, s[idx+1:]...)
	return res, s[idx]
}

func xdrop(_ *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	n, err := stackIndex(ctx, args[0], 0, 0)
	if err != nil {
		return nil, nil, err
	}
	var item stackitem.Item
	ctx.Stack, item = without(ctx.Stack, n)
	ctx.counter().Remove(item)
	return nil, nil, nil
}

func isNull(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	_, ok := args[0].(stackitem.Null)
	return []stackitem.Item{stackitem.NewBool(ok)}, nil, nil
}

func xswap(_ *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	n, err := stackIndex(ctx, args[0], 0, 0)
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, nil
	}
	s := make([]stackitem.Item, len(ctx.Stack))
	copy(s, ctx.Stack)
	top := len(s) - 1
	s[top], s[top-n] = s[top-n], s[top]
	ctx.Stack = s
	return nil, nil, nil
}

func xtuck(_ *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	n, err := stackIndex(ctx, args[0], 1, 1)
	if err != nil {
		return nil, nil, err
	}
	item := ctx.Stack[len(ctx.Stack)-1].Dup()
	idx := len(ctx.Stack) - n
	s := make([]stackitem.Item, 0, len(ctx.Stack)+1)
	s = append(s, ctx.Stack[:idx]...)
	s = append(s, item)
	s = append(s, ctx.Stack[idx:]...)
	ctx.Stack = s
	ctx.counter().Add(item)
	return nil, nil, nil
}

func depth(_ *Engine, ctx *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.Make(len(ctx.Stack))}, nil, nil
}

func drop(_ *Engine, _ *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return nil, nil, nil
}

func dup(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{args[0], args[0].Dup()}, nil, nil
}

func nip(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{args[0]}, nil, nil
}

func over(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{args[1], args[0], args[1].Dup()}, nil, nil
}

func pick(_ *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	n, err := stackIndex(ctx, args[0], 0, 0)
	if err != nil {
		return nil, nil, err
	}
	return []stackitem.Item{ctx.Peek(n).Dup()}, nil, nil
}

func roll(_ *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	n, err := stackIndex(ctx, args[0], 0, 0)
	if err != nil {
		return nil, nil, err
	}
	var item stackitem.Item
	ctx.Stack, item = without(ctx.Stack, n)
	ctx.counter().Remove(item)
	return []stackitem.Item{item}, nil, nil
}

func rot(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{args[1], args[0], args[2]}, nil, nil
}

func swap(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{args[0], args[1]}, nil, nil
}

func tuck(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{args[0].Dup(), args[1], args[0]}, nil, nil
}
