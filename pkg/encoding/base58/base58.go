/*
Package base58 wraps the base58 codec with the double sha256 checksum used
for NEO addresses.
*/
package base58

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
)

// ErrInvalidChecksum is returned when the decoded data doesn't match its
// checksum.
var ErrInvalidChecksum = errors.New("invalid base-58 check string: invalid checksum")

// CheckDecode implements base58-encoded string decoding with a hash-based
// checksum check.
func CheckDecode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < 5 {
		return nil, errors.New("invalid base-58 check string: missing checksum")
	}

	if !bytes.Equal(hash.Checksum(b[:len(b)-4]), b[len(b)-4:]) {
		return nil, ErrInvalidChecksum
	}

	return b[:len(b)-4], nil
}

// CheckEncode encodes the given byte slice into a base58 string with a
// checksum appended.
func CheckEncode(b []byte) string {
	b = append(b[:len(b):len(b)], hash.Checksum(b)...)

	return base58.Encode(b)
}
