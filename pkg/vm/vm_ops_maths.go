package vm

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo2-vm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Arithmetic and comparison operations.

var bigOne = big.NewInt(1)

func init() {
	register(opcode.INC, 1, 1, 100, unaryMath(func(x *big.Int) *big.Int {
		return new(big.Int).Add(x, bigOne)
	}))
	register(opcode.DEC, 1, 1, 100, unaryMath(func(x *big.Int) *big.Int {
		return new(big.Int).Sub(x, bigOne)
	}))
	register(opcode.SIGN, 1, 1, 100, unaryMath(func(x *big.Int) *big.Int {
		return big.NewInt(int64(x.Sign()))
	}))
	register(opcode.NEGATE, 1, 1, 100, unaryMath(func(x *big.Int) *big.Int {
		return new(big.Int).Neg(x)
	}))
	register(opcode.ABS, 1, 1, 100, unaryMath(func(x *big.Int) *big.Int {
		return new(big.Int).Abs(x)
	}))
	register(opcode.NOT, 1, 1, 100, not)
	register(opcode.NZ, 1, 1, 100, compare1(func(x *big.Int) bool {
		return x.Sign() != 0
	}))

	register(opcode.ADD, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Add(a, b), nil
	}))
	register(opcode.SUB, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Sub(a, b), nil
	}))
	register(opcode.MUL, 2, 1, 300, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Mul(a, b), nil
	}))
	register(opcode.DIV, 2, 1, 300, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Quo(a, b), nil
	}))
	register(opcode.MOD, 2, 1, 300, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Rem(a, b), nil
	}))
	register(opcode.SHL, 2, 1, 300, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return shift(a, b, true)
	}))
	register(opcode.SHR, 2, 1, 300, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return shift(a, b, false)
	}))

	register(opcode.BOOLAND, 2, 1, 200, boolAnd)
	register(opcode.BOOLOR, 2, 1, 200, boolOr)
	register(opcode.NUMEQUAL, 2, 1, 200, compare(func(a, b *big.Int) bool { return a.Cmp(b) == 0 }))
	register(opcode.NUMNOTEQUAL, 2, 1, 200, compare(func(a, b *big.Int) bool { return a.Cmp(b) != 0 }))
	register(opcode.LT, 2, 1, 200, compare(func(a, b *big.Int) bool { return a.Cmp(b) < 0 }))
	register(opcode.GT, 2, 1, 200, compare(func(a, b *big.Int) bool { return a.Cmp(b) > 0 }))
	register(opcode.LTE, 2, 1, 200, compare(func(a, b *big.Int) bool { return a.Cmp(b) <= 0 }))
	register(opcode.GTE, 2, 1, 200, compare(func(a, b *big.Int) bool { return a.Cmp(b) >= 0 }))
	register(opcode.MIN, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		if a.Cmp(b) <= 0 {
			return a, nil
		}
		return b, nil
	}))
	register(opcode.MAX, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		if a.Cmp(b) >= 0 {
			return a, nil
		}
		return b, nil
	}))
	register(opcode.WITHIN, 3, 1, 200, within)
}

// checkInt makes sure the result fits into MaxBigIntegerSize bytes.
func checkInt(x *big.Int) (stackitem.Item, error) {
	if l := len(bigint.ToBytes(x)); l > MaxBigIntegerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrIntegerOverflow, l)
	}
	return stackitem.NewBigInteger(x), nil
}

func unaryMath(f func(*big.Int) *big.Int) OpInvoke {
	return func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		x, err := args[0].TryInteger()
		if err != nil {
			return nil, nil, err
		}
		res, err := checkInt(f(x))
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{res}, nil, nil
	}
}

// binaryMath calls f with the deeper item as the first operand.
func binaryMath(f func(a, b *big.Int) (*big.Int, error)) OpInvoke {
	return func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		a, b, err := twoInts(args)
		if err != nil {
			return nil, nil, err
		}
		r, err := f(a, b)
		if err != nil {
			return nil, nil, err
		}
		res, err := checkInt(r)
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{res}, nil, nil
	}
}

func compare(f func(a, b *big.Int) bool) OpInvoke {
	return func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		a, b, err := twoInts(args)
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{stackitem.NewBool(f(a, b))}, nil, nil
	}
}

func compare1(f func(*big.Int) bool) OpInvoke {
	return func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		x, err := args[0].TryInteger()
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{stackitem.NewBool(f(x))}, nil, nil
	}
}

func twoInts(args []stackitem.Item) (*big.Int, *big.Int, error) {
	b, err := args[0].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	a, err := args[1].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func shift(x, n *big.Int, toLeft bool) (*big.Int, error) {
	if !n.IsInt64() || n.Int64() > MaxShift || n.Int64() < MinShift {
		return nil, fmt.Errorf("%w: %s", ErrShiftOutOfRange, n)
	}
	s := n.Int64()
	if s < 0 {
		s = -s
		toLeft = !toLeft
	}
	if toLeft {
		return new(big.Int).Lsh(x, uint(s)), nil
	}
	return new(big.Int).Rsh(x, uint(s)), nil
}

func not(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.NewBool(!toBool(args[0]))}, nil, nil
}

func boolAnd(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.NewBool(toBool(args[0]) && toBool(args[1]))}, nil, nil
}

func boolOr(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.NewBool(toBool(args[0]) || toBool(args[1]))}, nil, nil
}

// within checks that x is in [a, b), the stack is x a b.
func within(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := args[0].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	a, err := args[1].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	x, err := args[2].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	return []stackitem.Item{stackitem.NewBool(a.Cmp(x) <= 0 && x.Cmp(b) < 0)}, nil, nil
}
