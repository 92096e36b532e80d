package vm

import (
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

func init() {
	register(opcode.SHA1, 1, 1, 1000000, hashOp(hash.Sha1))
	register(opcode.SHA256, 1, 1, 1000000, hashOp(func(b []byte) []byte {
		h := hash.Sha256(b)
		return h[:]
	}))
	register(opcode.HASH160, 1, 1, 2000000, hashOp(func(b []byte) []byte {
		h := hash.Hash160(b)
		return h[:]
	}))
	register(opcode.HASH256, 1, 1, 2000000, hashOp(func(b []byte) []byte {
		h := hash.DoubleSha256(b)
		return h[:]
	}))
}

func hashOp(f func([]byte) []byte) OpInvoke {
	return func(_ *Engine, _ *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		b, err := args[0].TryBytes()
		if err != nil {
			return nil, nil, err
		}
		return []stackitem.Item{stackitem.NewByteArray(f(b))}, nil, nil
	}
}
