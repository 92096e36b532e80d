package base58

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEncodeDecode(t *testing.T) {
	data := []byte{0x17, 1, 2, 3, 4, 5}
	encoded := CheckEncode(data)
	decoded, err := CheckDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
	assert.Equal(t, []byte{0x17, 1, 2, 3, 4, 5}, data, "input must not be modified")
}

func TestCheckDecodeFailures(t *testing.T) {
	_, err := CheckDecode("0OIl")
	assert.Error(t, err)

	_, err = CheckDecode("1111")
	assert.Error(t, err)

	encoded := CheckEncode([]byte{1, 2, 3})
	last := encoded[len(encoded)-1]
	next := byte('2')
	if last == next {
		next = '3'
	}
	_, err = CheckDecode(encoded[:len(encoded)-1] + string(next))
	assert.Error(t, err)
}
