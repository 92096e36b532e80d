package vm

import (
	"fmt"
	"slices"

	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Byte string operations.

const spliceFee = 80000

func init() {
	register(opcode.CAT, 2, 1, spliceFee, cat)
	register(opcode.SUBSTR, 3, 1, spliceFee, substr)
	register(opcode.LEFT, 2, 1, spliceFee, left)
	register(opcode.RIGHT, 2, 1, spliceFee, right)
	register(opcode.SIZE, 1, 1, 60, size)
}

func cat(e *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := args[0].TryBytes()
	if err != nil {
		return nil, nil, err
	}
	a, err := args[1].TryBytes()
	if err != nil {
		return nil, nil, err
	}
	if l := len(a) + len(b); l > e.limits.MaxItemSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrItemTooLarge, l)
	}
	res := make([]byte, 0, len(a)+len(b))
	res = append(res, a...)
	res = append(res, b...)
	return []stackitem.Item{stackitem.NewByteArray(res)}, nil, nil
}

func substr(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	count, err := toInt(args[0])
	if err != nil {
		return nil, nil, err
	}
	if count < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	index, err := toInt(args[1])
	if err != nil {
		return nil, nil, err
	}
	if index < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	s, err := args[2].TryBytes()
	if err != nil {
		return nil, nil, err
	}
	if index > len(s) {
		index = len(s)
	}
	end := index + count
	if end > len(s) {
		end = len(s)
	}
	return []stackitem.Item{stackitem.NewByteArray(slices.Clone(s[index:end]))}, nil, nil
}

func left(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	count, err := toInt(args[0])
	if err != nil {
		return nil, nil, err
	}
	if count < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	s, err := args[1].TryBytes()
	if err != nil {
		return nil, nil, err
	}
	if count > len(s) {
		count = len(s)
	}
	return []stackitem.Item{stackitem.NewByteArray(slices.Clone(s[:count]))}, nil, nil
}

func right(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	count, err := toInt(args[0])
	if err != nil {
		return nil, nil, err
	}
	if count < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	s, err := args[1].TryBytes()
	if err != nil {
		return nil, nil, err
	}
	if len(s) < count {
		return nil, nil, fmt.Errorf("%w: %d bytes requested from %d", ErrInvalidCount, count, len(s))
	}
	return []stackitem.Item{stackitem.NewByteArray(slices.Clone(s[len(s)-count:]))}, nil, nil
}

func size(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	s, err := args[0].TryBytes()
	if err != nil {
		return nil, nil, err
	}
	return []stackitem.Item{stackitem.Make(len(s))}, nil, nil
}
