package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/encoding/address"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
)

// PublicKeySize is the size of a compressed public key.
const PublicKeySize = 33

// checkSig is the CHECKSIG instruction byte ending standard verification
// scripts. The interpreter doesn't implement it, but the script hash of
// the verification script still identifies the key owner.
const checkSig = 0xAC

// PublicKey represents a secp256r1 public key and provides a high level
// API around the X/Y point.
type PublicKey struct {
	X *big.Int
	Y *big.Int
}

// NewPublicKeyFromString returns a public key created from the
// given hex string.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// NewPublicKeyFromBytes decodes compressed or uncompressed secp256r1 key.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	pubKey := new(PublicKey)
	if err := pubKey.DecodeBytes(b); err != nil {
		return nil, err
	}
	return pubKey, nil
}

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	if p.IsInfinity() || key.IsInfinity() {
		return p.IsInfinity() == key.IsInfinity()
	}
	return p.X.Cmp(key.X) == 0 && p.Y.Cmp(key.Y) == 0
}

// IsInfinity checks if the key is infinite (null, basically).
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil && p.Y == nil
}

// Bytes returns the compressed byte representation of the public key.
func (p *PublicKey) Bytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	return elliptic.MarshalCompressed(elliptic.P256(), p.X, p.Y)
}

// DecodeBytes decodes a PublicKey from the given slice of bytes.
func (p *PublicKey) DecodeBytes(data []byte) error {
	r := io.NewBinReaderFromBuf(data)
	p.DecodeBinary(r)
	if r.Err == nil && r.Len() != 0 {
		return errors.New("extra data after the key")
	}
	return r.Err
}

// DecodeBinary decodes a PublicKey from the given BinReader.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}

	var (
		p256 = elliptic.P256()
		x, y *big.Int
	)
	switch prefix {
	case 0x00:
		p.X, p.Y = nil, nil
		return
	case 0x02, 0x03:
		buf := make([]byte, PublicKeySize)
		buf[0] = prefix
		r.ReadBytes(buf[1:])
		if r.Err != nil {
			return
		}
		x, y = elliptic.UnmarshalCompressed(p256, buf)
	case 0x04:
		buf := make([]byte, 65)
		buf[0] = prefix
		r.ReadBytes(buf[1:])
		if r.Err != nil {
			return
		}
		x, y = elliptic.Unmarshal(p256, buf)
	default:
		r.Err = fmt.Errorf("invalid prefix %d", prefix)
		return
	}
	if x == nil {
		r.Err = errors.New("encoded point is not on the P256 curve")
		return
	}
	p.X, p.Y = x, y
}

// EncodeBinary encodes a PublicKey to the given BinWriter.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// GetVerificationScript returns NEO VM bytecode with CHECKSIG command for the
// public key.
func (p *PublicKey) GetVerificationScript() []byte {
	b := p.Bytes()
	script := make([]byte, 0, len(b)+2)
	script = append(script, byte(opcode.PUSHBYTES33))
	script = append(script, b...)
	return append(script, checkSig)
}

// GetScriptHash returns a Hash160 of verification script for the key.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns a base58-encoded NEO-specific address based on the key hash.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify returns true if the signature is valid and corresponds
// to the hash and public key. Signature is expected to be r||s,
// 32 bytes each.
func (p *PublicKey) Verify(signature []byte, hash []byte) bool {
	if p.IsInfinity() || len(signature) != 64 {
		return false
	}
	publicKey := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     p.X,
		Y:     p.Y,
	}
	r := new(big.Int).SetBytes(signature[0:32])
	s := new(big.Int).SetBytes(signature[32:64])
	return ecdsa.Verify(publicKey, hash, r, s)
}

// String implements the Stringer interface.
func (p *PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Bytes()))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	return p.DecodeBytes(b)
}
