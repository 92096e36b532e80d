package vm

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Array, struct and map operations.

const packFee = 7000

func init() {
	register(opcode.ARRAYSIZE, 1, 1, 150, arraySize)
	registerCreator(opcode.PACK, createPack)
	registerCreator(opcode.UNPACK, createUnpack)
	register(opcode.PICKITEM, 2, 1, 270000, pickItem)
	register(opcode.SETITEM, 3, 0, 270000, setItem)
	register(opcode.NEWARRAY, 1, 1, 15000, newArrayOrStruct(false))
	register(opcode.NEWSTRUCT, 1, 1, 15000, newArrayOrStruct(true))
	register(opcode.NEWMAP, 0, 1, 200, newMap)
	register(opcode.APPEND, 2, 0, 15000, appendItem)
	register(opcode.REVERSE, 1, 0, 500, reverseItems)
	register(opcode.REMOVE, 2, 0, 500, removeItem)
	register(opcode.HASKEY, 2, 1, 270000, hasKey)
	register(opcode.KEYS, 1, 1, 500, keys)
	register(opcode.VALUES, 1, 1, 7000, values)
}

// arrayLike is implemented by Array and Struct.
type arrayLike interface {
	stackitem.Item
	Append(stackitem.Item)
	Remove(int)
	Len() int
}

func asArray(item stackitem.Item) (arrayLike, bool) {
	switch t := item.(type) {
	case *stackitem.Array:
		return t, true
	case *stackitem.Struct:
		return t, true
	default:
		return nil, false
	}
}

func elements(a arrayLike) []stackitem.Item {
	return a.Value().([]stackitem.Item)
}

func wrongType(item stackitem.Item) error {
	return fmt.Errorf("%w: unexpected %s", stackitem.ErrInvalidConversion, item.Type())
}

// dupValue returns the value to be stored into a container.
func dupValue(item stackitem.Item) stackitem.Item {
	if s, ok := item.(*stackitem.Struct); ok {
		return s.Dup()
	}
	return item
}

func mapKeyError(err error) error {
	if errors.Is(err, stackitem.ErrInvalidKey) {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return err
}

func arraySize(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	var n int
	switch t := args[0].(type) {
	case *stackitem.Array, *stackitem.Struct:
		a, _ := asArray(t)
		n = a.Len()
	case *stackitem.Map:
		n = t.Len()
	default:
		b, err := t.TryBytes()
		if err != nil {
			return nil, nil, err
		}
		n = len(b)
	}
	return []stackitem.Item{stackitem.Make(n)}, nil, nil
}

func createPack(e *Engine, ctx *Context, ins Instruction) (*Op, error) {
	in := 1
	if top := ctx.Peek(0); top != nil {
		n, err := toInt(top)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
		}
		if n > e.limits.MaxArraySize {
			return nil, fmt.Errorf("%w: %d elements", ErrContainerTooLarge, n)
		}
		in = n + 1
	}
	return &Op{
		Code: opcode.PACK,
		Name: opcode.PACK.String(),
		In:   in,
		Out:  1,
		Fee:  packFee,
		Invoke: func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			items := make([]stackitem.Item, len(args)-1)
			copy(items, args[1:])
			return []stackitem.Item{stackitem.NewArray(items)}, nil, nil
		},
	}, nil
}

func createUnpack(_ *Engine, ctx *Context, ins Instruction) (*Op, error) {
	out := 1
	if top := ctx.Peek(0); top != nil {
		a, ok := asArray(top)
		if !ok {
			return nil, wrongType(top)
		}
		out = a.Len() + 1
	}
	return &Op{
		Code: opcode.UNPACK,
		Name: opcode.UNPACK.String(),
		In:   1,
		Out:  out,
		Fee:  packFee,
		Invoke: func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			a, ok := asArray(args[0])
			if !ok {
				return nil, nil, wrongType(args[0])
			}
			elems := elements(a)
			res := make([]stackitem.Item, 0, len(elems)+1)
			for i := len(elems) - 1; i >= 0; i-- {
				res = append(res, elems[i])
			}
			res = append(res, stackitem.Make(len(elems)))
			return res, nil, nil
		},
	}, nil
}

func arrayIndex(item stackitem.Item, l int) (int, error) {
	idx, err := toInt(item)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= l {
		return 0, fmt.Errorf("%w: %d, length is %d", ErrInvalidIndex, idx, l)
	}
	return idx, nil
}

func pickItem(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	key, container := args[0], args[1]
	switch t := container.(type) {
	case *stackitem.Array, *stackitem.Struct:
		a, _ := asArray(t)
		idx, err := arrayIndex(key, a.Len())
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{elements(a)[idx]}, nil, nil
	case *stackitem.Map:
		if _, err := stackitem.StructuralKey(key); err != nil {
			return nil, nil, mapKeyError(err)
		}
		v, ok := t.Get(key)
		if !ok {
			return nil, nil, fmt.Errorf("%w: key not found in map", ErrInvalidKey)
		}
		return []stackitem.Item{v}, nil, nil
	default:
		b, err := t.TryBytes()
		if err != nil {
			return nil, nil, err
		}
		idx, err := arrayIndex(key, len(b))
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{stackitem.Make(int(b[idx]))}, nil, nil
	}
}

func setItem(e *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	value, key, container := dupValue(args[0]), args[1], args[2]
	rc := ctx.counter()
	switch t := container.(type) {
	case *stackitem.Array, *stackitem.Struct:
		a, _ := asArray(t)
		idx, err := arrayIndex(key, a.Len())
		if err != nil {
			return nil, nil, err
		}
		elems := elements(a)
		old := elems[idx]
		elems[idx] = value
		if isReferenced(t) {
			rc.Remove(old)
			rc.Add(value)
		}
	case *stackitem.Map:
		if !t.Has(key) && t.Len() >= e.limits.MaxArraySize {
			return nil, nil, fmt.Errorf("%w: map has %d elements", ErrContainerTooLarge, t.Len())
		}
		old, err := t.Add(key, value)
		if err != nil {
			return nil, nil, mapKeyError(err)
		}
		if isReferenced(t) {
			if old == nil {
				rc.Add(key)
			} else {
				rc.Remove(old)
			}
			rc.Add(value)
		}
	default:
		return nil, nil, wrongType(container)
	}
	return nil, nil, nil
}

func newArrayOrStruct(isStruct bool) OpInvoke {
	return func(e *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		var items []stackitem.Item
		if a, ok := asArray(args[0]); ok {
			items = make([]stackitem.Item, a.Len())
			copy(items, elements(a))
		} else {
			n, err := toInt(args[0])
			if err != nil {
				return nil, nil, err
			}
			if n < 0 {
				return nil, nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
			}
			if n > e.limits.MaxArraySize {
				return nil, nil, fmt.Errorf("%w: %d elements", ErrContainerTooLarge, n)
			}
			items = make([]stackitem.Item, n)
			for i := range items {
				items[i] = stackitem.NewBool(false)
			}
		}
		if isStruct {
			return []stackitem.Item{stackitem.NewStruct(items)}, nil, nil
		}
		return []stackitem.Item{stackitem.NewArray(items)}, nil, nil
	}
}

func newMap(_ *Engine, _ *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.NewMap()}, nil, nil
}

func appendItem(e *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	value := dupValue(args[0])
	a, ok := asArray(args[1])
	if !ok {
		return nil, nil, wrongType(args[1])
	}
	if a.Len() >= e.limits.MaxArraySize {
		return nil, nil, fmt.Errorf("%w: array has %d elements", ErrContainerTooLarge, a.Len())
	}
	a.Append(value)
	if isReferenced(a) {
		ctx.counter().Add(value)
	}
	return nil, nil, nil
}

func reverseItems(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	a, ok := asArray(args[0])
	if !ok {
		return nil, nil, wrongType(args[0])
	}
	elems := elements(a)
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
	return nil, nil, nil
}

func removeItem(_ *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	key, container := args[0], args[1]
	rc := ctx.counter()
	switch t := container.(type) {
	case *stackitem.Array, *stackitem.Struct:
		a, _ := asArray(t)
		idx, err := arrayIndex(key, a.Len())
		if err != nil {
			return nil, nil, err
		}
		old := elements(a)[idx]
		a.Remove(idx)
		if isReferenced(t) {
			rc.Remove(old)
		}
	case *stackitem.Map:
		if _, err := stackitem.StructuralKey(key); err != nil {
			return nil, nil, mapKeyError(err)
		}
		idx := t.Index(key)
		if idx < 0 {
			return nil, nil, nil
		}
		elem := t.Value().([]stackitem.MapElement)[idx]
		t.Drop(idx)
		if isReferenced(t) {
			rc.Remove(elem.Key)
			rc.Remove(elem.Value)
		}
	default:
		return nil, nil, wrongType(container)
	}
	return nil, nil, nil
}

func hasKey(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	key, container := args[0], args[1]
	switch t := container.(type) {
	case *stackitem.Array, *stackitem.Struct:
		a, _ := asArray(t)
		idx, err := toInt(key)
		if err != nil {
			return nil, nil, err
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("%w: %d", ErrInvalidIndex, idx)
		}
		return []stackitem.Item{stackitem.NewBool(idx < a.Len())}, nil, nil
	case *stackitem.Map:
		if _, err := stackitem.StructuralKey(key); err != nil {
			return nil, nil, mapKeyError(err)
		}
		return []stackitem.Item{stackitem.NewBool(t.Has(key))}, nil, nil
	default:
		return nil, nil, wrongType(container)
	}
}

func keys(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	m, ok := args[0].(*stackitem.Map)
	if !ok {
		return nil, nil, wrongType(args[0])
	}
	return []stackitem.Item{stackitem.NewArray(m.Keys())}, nil, nil
}

func values(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	var src []stackitem.Item
	switch t := args[0].(type) {
	case *stackitem.Array, *stackitem.Struct:
		a, _ := asArray(t)
		src = elements(a)
	case *stackitem.Map:
		src = t.Values()
	default:
		return nil, nil, wrongType(args[0])
	}
	res := make([]stackitem.Item, len(src))
	for i := range src {
		res[i] = dupValue(src[i])
	}
	return []stackitem.Item{stackitem.NewArray(res)}, nil, nil
}
