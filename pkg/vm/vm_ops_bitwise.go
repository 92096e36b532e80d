package vm

import (
	"math/big"

	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Bitwise operations, integers are treated as two's complement numbers.

func init() {
	register(opcode.INVERT, 1, 1, 100, unaryMath(func(x *big.Int) *big.Int {
		return new(big.Int).Not(x)
	}))
	register(opcode.AND, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).And(a, b), nil
	}))
	register(opcode.OR, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Or(a, b), nil
	}))
	register(opcode.XOR, 2, 1, 200, binaryMath(func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Xor(a, b), nil
	}))
	register(opcode.EQUAL, 2, 1, 200, equal)
}

func equal(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.NewBool(args[0].Equals(args[1]))}, nil, nil
}
