/*
Package bigint implements the integer encoding used by the VM: little-endian
two's complement of minimal length, zero is an empty slice.
*/
package bigint

import (
	"math/big"
)

// MaxBytesLen is the maximum length of a serialized integer suitable for
// arithmetic in the VM.
const MaxBytesLen = 32 // 256-bit signed integer

var bigOne = big.NewInt(1)

// FromBytes converts data in little-endian format to an integer.
func FromBytes(data []byte) *big.Int {
	n := new(big.Int)
	size := len(data)
	if size == 0 {
		return n
	}

	be := make([]byte, size)
	for i := range data {
		be[size-i-1] = data[i]
	}
	if be[0]&0x80 == 0 {
		return n.SetBytes(be)
	}
	for i := range be {
		be[i] = ^be[i]
	}
	n.SetBytes(be)
	n.Add(n, bigOne)
	return n.Neg(n)
}

// ToBytes converts an integer to a slice in little-endian format.
// NEO2 integers differ from the default C# BigInteger.ToByteArray()
// when n == 0, zero is an empty slice.
func ToBytes(n *big.Int) []byte {
	var (
		sign = n.Sign()
		data []byte
		pad  byte
	)
	switch {
	case sign == 0:
		return []byte{}
	case sign > 0:
		data = n.Bytes()
	default:
		x := new(big.Int).Neg(n)
		x.Sub(x, bigOne)
		data = x.Bytes()
		for i := range data {
			data[i] = ^data[i]
		}
		pad = 0xFF
	}
	reverse(data)
	if len(data) == 0 || (data[len(data)-1]&0x80 != 0) != (sign < 0) {
		data = append(data, pad)
	}
	return data
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
