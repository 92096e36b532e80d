package interop

import (
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/keys"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// verifyArgs returns SHA256 of the message, the public key and the signature,
// the message is on top.
func verifyArgs(args []stackitem.Item) ([]byte, []byte, []byte, error) {
	msg, err := args[0].TryBytes()
	if err != nil {
		return nil, nil, nil, err
	}
	pub, err := args[1].TryBytes()
	if err != nil {
		return nil, nil, nil, err
	}
	sig, err := args[2].TryBytes()
	if err != nil {
		return nil, nil, nil, err
	}
	h := hash.Sha256(msg)
	return h[:], pub, sig, nil
}

// verifySignature checks secp256r1 signature of the message, a malformed key
// or signature is just an invalid one.
func verifySignature(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	h, pub, sig, err := verifyArgs(args)
	if err != nil {
		return fail(err)
	}
	pkey, err := keys.NewPublicKeyFromBytes(pub)
	if err != nil {
		return push(stackitem.NewBool(false))
	}
	return push(stackitem.NewBool(pkey.Verify(sig, h)))
}

// secp256k1Verify is the same as verifySignature for secp256k1 keys.
func secp256k1Verify(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	h, pub, sig, err := verifyArgs(args)
	if err != nil {
		return fail(err)
	}
	return push(stackitem.NewBool(keys.VerifySecp256k1(pub, sig, h)))
}
