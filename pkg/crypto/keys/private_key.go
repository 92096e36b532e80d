package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/rfc6979"
)

// PrivateKey represents a private key and provides a high level API around
// ecdsa.PrivateKey. It's used to produce witnesses for test and CLI
// invocations, there is no wallet management here.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey creates a new random secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	return newPrivateKeyOnCurve(elliptic.P256())
}

// NewSecp256k1PrivateKey creates a new random secp256k1 private key.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return newPrivateKeyOnCurve(secp256k1.S256())
}

func newPrivateKeyOnCurve(c elliptic.Curve) (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{*priv}, nil
}

// NewPrivateKeyFromHex returns a secp256r1 PrivateKey created from the
// given hex string.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes returns a secp256r1 PrivateKey from the given
// byte slice.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return newPrivateKeyFromBytes(elliptic.P256(), b)
}

// NewSecp256k1PrivateKeyFromBytes returns a secp256k1 PrivateKey from the
// given byte slice.
func NewSecp256k1PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return newPrivateKeyFromBytes(secp256k1.S256(), b)
}

func newPrivateKeyFromBytes(c elliptic.Curve, b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf(
			"invalid byte length: expected %d bytes got %d", 32, len(b),
		)
	}
	d := new(big.Int).SetBytes(b)
	x, y := c.ScalarBaseMult(b)

	return &PrivateKey{
		ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{
				Curve: c,
				X:     x,
				Y:     y,
			},
			D: d,
		},
	}, nil
}

// PublicKey derives the secp256r1 public key from the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{X: p.X, Y: p.Y}
}

// PublicKeyBytes returns the compressed public key on the key's own curve.
func (p *PrivateKey) PublicKeyBytes() []byte {
	return elliptic.MarshalCompressed(p.Curve, p.X, p.Y)
}

// GetScriptHash returns verification script hash for the public key
// associated with the private key.
func (p *PrivateKey) GetScriptHash() util.Uint160 {
	return p.PublicKey().GetScriptHash()
}

// Sign signs arbitrary length data using the private key. It uses SHA256 to
// calculate hash and then SignHash to create a signature.
func (p *PrivateKey) Sign(data []byte) []byte {
	return p.SignHash(sha256.Sum256(data))
}

// SignHash deterministically signs the digest with the private key.
func (p *PrivateKey) SignHash(digest util.Uint256) []byte {
	r, s := rfc6979.SignECDSA(&p.PrivateKey, digest[:], sha256.New)
	return getSignatureSlice(p.Curve, r, s)
}

func getSignatureSlice(curve elliptic.Curve, r, s *big.Int) []byte {
	size := curve.Params().P.BitLen() / 8
	signature := make([]byte, size*2)
	r.FillBytes(signature[:size])
	s.FillBytes(signature[size:])
	return signature
}

// String implements the stringer interface.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Bytes returns the underlying bytes of the PrivateKey.
func (p *PrivateKey) Bytes() []byte {
	result := make([]byte, 32)
	p.D.FillBytes(result)
	return result
}
