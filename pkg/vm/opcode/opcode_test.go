package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringer(t *testing.T) {
	tests := map[Opcode]string{
		ADD:         "ADD",
		SUB:         "SUB",
		PUSH0:       "PUSH0",
		0x10:        "PUSHBYTES16",
		PUSHBYTES75: "PUSHBYTES75",
		0xff:        "Opcode(255)",
	}
	for o, s := range tests {
		assert.Equal(t, s, o.String())
	}
}

func TestFromString(t *testing.T) {
	_, err := FromString("abcdef")
	require.Error(t, err)

	op, err := FromString(MUL.String())
	require.NoError(t, err)
	require.Equal(t, MUL, op)

	op, err = FromString("PUSHBYTES20")
	require.NoError(t, err)
	require.Equal(t, Opcode(20), op)
}

func TestIsValid(t *testing.T) {
	for i := 0; i <= int(PUSH16); i++ {
		require.True(t, IsValid(Opcode(i)), "opcode %d", i)
	}
	assert.False(t, IsValid(0x6F))
	assert.False(t, IsValid(0xAC))
	assert.False(t, IsValid(0xFF))
	assert.True(t, IsValid(THROWIFNOT))
}

func TestIsPush(t *testing.T) {
	assert.True(t, IsPush(PUSHDATA4))
	assert.True(t, IsPush(PUSH16))
	assert.False(t, IsPush(NOP))
	assert.False(t, IsPush(SYSCALL))
}
