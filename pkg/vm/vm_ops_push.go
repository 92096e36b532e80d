package vm

import (
	"math/big"
	"slices"

	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Push operations.

func init() {
	register(opcode.PUSH0, 0, 1, 30, pushBytes)
	for op := opcode.PUSHBYTES1; op <= opcode.PUSHBYTES75; op++ {
		register(op, 0, 1, 120, pushBytes)
	}
	register(opcode.PUSHDATA1, 0, 1, 180, pushBytes)
	register(opcode.PUSHDATA2, 0, 1, 13000, pushBytes)
	register(opcode.PUSHDATA4, 0, 1, 110000, pushBytes)
	register(opcode.PUSHM1, 0, 1, 30, pushInt(-1))
	for op := opcode.PUSH1; op <= opcode.PUSH16; op++ {
		register(op, 0, 1, 30, pushInt(int64(op-opcode.PUSH1)+1))
	}
	register(opcode.PUSHNULL, 0, 1, 30, pushNull)
}

// pushBytes pushes the instruction operand as is.
func pushBytes(_ *Engine, _ *Context, param []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b := slices.Clone(param)
	if b == nil {
		b = []byte{}
	}
	return []stackitem.Item{stackitem.NewByteArray(b)}, nil, nil
}

func pushInt(n int64) OpInvoke {
	return func(_ *Engine, _ *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		return []stackitem.Item{stackitem.NewBigInteger(big.NewInt(n))}, nil, nil
	}
}

func pushNull(_ *Engine, _ *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return []stackitem.Item{stackitem.Null{}}, nil, nil
}
