/*
Package hash contains wrappers for the hash functions used by the VM: sha1,
sha256, ripemd160 and their NEO combinations.
*/
package hash

import (
	"crypto/sha1"
	"crypto/sha256"

	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // NEO2 script hashes are ripemd160-based.
)

// Sha1 hashes the incoming byte slice using the sha1 algorithm.
func Sha1(data []byte) []byte {
	h := sha1.Sum(data)
	return h[:]
}

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return sha256.Sum256(data)
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) util.Uint256 {
	h1 := Sha256(data)
	return Sha256(h1[:])
}

// RipeMD160 performs the RIPEMD160 hash algorithm on the given data.
func RipeMD160(data []byte) util.Uint160 {
	var hash util.Uint160
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)

	copy(hash[:], hasher.Sum(nil))
	return hash
}

// Hash160 performs sha256 and then ripemd160 on the given data, it's the way
// script hashes are calculated.
func Hash160(data []byte) util.Uint160 {
	h1 := Sha256(data)
	return RipeMD160(h1[:])
}

// Hash256 is an alias for DoubleSha256.
func Hash256(data []byte) util.Uint256 {
	return DoubleSha256(data)
}

// Checksum returns the checksum for a given piece of data using sha256 twice
// as the hash algorithm.
func Checksum(data []byte) []byte {
	h := DoubleSha256(data)
	return h[:4]
}
