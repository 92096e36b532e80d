/*
Package address implements conversion of script hashes to/from NEO2
addresses.
*/
package address

import (
	"errors"

	"github.com/nspcc-dev/neo2-vm/pkg/encoding/base58"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// NEO2Prefix is the first byte of a NEO2 address, it's 0x17 that gives the
// well-known "A" at the beginning of the encoded string.
const NEO2Prefix byte = 0x17

// Prefix is the byte used to prepend to addresses when encoding them, it can
// be changed and defaults to NEO2Prefix.
var Prefix = NEO2Prefix

// Uint160ToString returns the "NEO address" from the given Uint160.
func Uint160ToString(u util.Uint160) string {
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 attempts to decode the given NEO address string into a
// Uint160.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != util.Uint160Size+1 {
		return u, errors.New("wrong address length")
	}
	if b[0] != Prefix {
		return u, errors.New("wrong address prefix")
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
