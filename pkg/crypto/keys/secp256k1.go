package keys

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// VerifySecp256k1 checks r||s signature of the given hash against the
// serialized (compressed or uncompressed) secp256k1 public key.
func VerifySecp256k1(pubKey, signature, hash []byte) bool {
	if len(signature) != 64 {
		return false
	}
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow || s.IsZero() {
		return false
	}
	return dcrecdsa.NewSignature(&r, &s).Verify(hash, pub)
}
