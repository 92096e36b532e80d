package vm

import (
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

func init() {
	register(opcode.THROW, 0, 0, 30, throw)
	register(opcode.THROWIFNOT, 1, 0, 30, throwIfNot)
}

func throw(_ *Engine, _ *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return nil, nil, ErrThrow
}

func throwIfNot(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if !toBool(args[0]) {
		return nil, nil, ErrThrow
	}
	return nil, nil, nil
}
