package emit

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitInt(t *testing.T) {
	t.Run("minus one", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Int(buf.BinWriter, -1)
		assert.Equal(t, []byte{byte(opcode.PUSHM1)}, buf.Bytes())
	})

	t.Run("zero", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Int(buf.BinWriter, 0)
		assert.Equal(t, []byte{byte(opcode.PUSH0)}, buf.Bytes())
	})

	t.Run("small ints", func(t *testing.T) {
		for i := int64(1); i <= 16; i++ {
			buf := io.NewBufBinWriter()
			Int(buf.BinWriter, i)
			assert.Equal(t, []byte{byte(opcode.PUSH1) + byte(i-1)}, buf.Bytes())
		}
	})

	t.Run("1-byte int", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Int(buf.BinWriter, 100)
		assert.Equal(t, []byte{byte(opcode.PUSHBYTES1), 100}, buf.Bytes())
	})

	t.Run("2-byte int", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Int(buf.BinWriter, 1000)
		result := buf.Bytes()
		assert.EqualValues(t, 2, result[0])
		assert.EqualValues(t, 1000, binary.LittleEndian.Uint16(result[1:3]))
	})

	t.Run("negative", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Int(buf.BinWriter, -2)
		assert.Equal(t, []byte{byte(opcode.PUSHBYTES1), 0xfe}, buf.Bytes())
	})

	t.Run("big", func(t *testing.T) {
		n := new(big.Int).Lsh(big.NewInt(1), 64)
		buf := io.NewBufBinWriter()
		BigInt(buf.BinWriter, n)
		assert.Equal(t, append([]byte{9}, 0, 0, 0, 0, 0, 0, 0, 0, 1), buf.Bytes())
	})
}

func getSlice(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}

	return data
}

func TestBytes(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Bytes(buf.BinWriter, nil)
		assert.Equal(t, []byte{byte(opcode.PUSH0)}, buf.Bytes())
	})

	t.Run("small slice", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Bytes(buf.BinWriter, []byte{0, 1, 2, 3})

		result := buf.Bytes()
		assert.EqualValues(t, 4, result[0])
		assert.EqualValues(t, []byte{0, 1, 2, 3}, result[1:])
	})

	t.Run("75 bytes", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Bytes(buf.BinWriter, getSlice(75))

		result := buf.Bytes()
		assert.EqualValues(t, opcode.PUSHBYTES75, result[0])
		assert.Len(t, result, 76)
	})

	t.Run("slice with len <= 255", func(t *testing.T) {
		const size = 200

		buf := io.NewBufBinWriter()
		Bytes(buf.BinWriter, getSlice(size))

		result := buf.Bytes()
		assert.EqualValues(t, opcode.PUSHDATA1, result[0])
		assert.EqualValues(t, size, result[1])
		assert.Equal(t, getSlice(size), result[2:])
	})

	t.Run("slice with len <= 65535", func(t *testing.T) {
		const size = 60000

		buf := io.NewBufBinWriter()
		Bytes(buf.BinWriter, getSlice(size))

		result := buf.Bytes()
		assert.EqualValues(t, opcode.PUSHDATA2, result[0])
		assert.EqualValues(t, size, binary.LittleEndian.Uint16(result[1:3]))
		assert.Equal(t, getSlice(size), result[3:])
	})

	t.Run("slice with len > 65535", func(t *testing.T) {
		const size = 100000

		buf := io.NewBufBinWriter()
		Bytes(buf.BinWriter, getSlice(size))

		result := buf.Bytes()
		assert.EqualValues(t, opcode.PUSHDATA4, result[0])
		assert.EqualValues(t, size, binary.LittleEndian.Uint32(result[1:5]))
		assert.Equal(t, getSlice(size), result[5:])
	})
}

func TestEmitArray(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		var h util.Uint160
		Array(buf.BinWriter, h, []byte{1, 2}, "str", int64(2), true, nil)
		require.NoError(t, buf.Err)

		res := buf.Bytes()
		assert.EqualValues(t, opcode.PUSHNULL, res[0])
		assert.EqualValues(t, opcode.PUSHT, res[1])
		assert.EqualValues(t, opcode.PUSH2, res[2])
		assert.EqualValues(t, 3, res[3])
		assert.EqualValues(t, []byte("str"), res[4:7])
		assert.EqualValues(t, 2, res[7])
		assert.EqualValues(t, []byte{1, 2}, res[8:10])
		assert.EqualValues(t, opcode.PUSHBYTES20, res[10])
		assert.EqualValues(t, h.BytesBE(), res[11:31])
		assert.EqualValues(t, opcode.PUSH6, res[31])
		assert.EqualValues(t, opcode.PACK, res[32])
	})

	t.Run("empty", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Array(buf.BinWriter)
		require.NoError(t, buf.Err)
		assert.Equal(t, []byte{byte(opcode.PUSH0), byte(opcode.PACK)}, buf.Bytes())
	})

	t.Run("nested", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Array(buf.BinWriter, []any{int64(1)})
		require.NoError(t, buf.Err)
		assert.Equal(t, []byte{byte(opcode.PUSH1), byte(opcode.PUSH1), byte(opcode.PACK),
			byte(opcode.PUSH1), byte(opcode.PACK)}, buf.Bytes())
	})

	t.Run("invalid type", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Array(buf.BinWriter, struct{}{})
		assert.Error(t, buf.Err)
	})
}

func TestEmitBool(t *testing.T) {
	buf := io.NewBufBinWriter()
	Bool(buf.BinWriter, true)
	Bool(buf.BinWriter, false)
	assert.Equal(t, []byte{byte(opcode.PUSHT), byte(opcode.PUSHF)}, buf.Bytes())
}

func TestEmitString(t *testing.T) {
	buf := io.NewBufBinWriter()
	str := "City Of Zion"
	String(buf.BinWriter, str)
	assert.Equal(t, buf.Len(), len(str)+1)
	assert.Equal(t, buf.Bytes()[1:], []byte(str))
}

func TestEmitSyscall(t *testing.T) {
	syscalls := []string{
		"Neo.Runtime.Log",
		"Neo.Runtime.Notify",
		"Neo.Runtime.Whatever",
	}

	buf := io.NewBufBinWriter()
	for _, syscall := range syscalls {
		Syscall(buf.BinWriter, syscall)
		result := buf.Bytes()
		assert.Equal(t, opcode.Opcode(result[0]), opcode.SYSCALL)
		assert.EqualValues(t, len(syscall), result[1])
		assert.Equal(t, []byte(syscall), result[2:])
		buf.Reset()
	}

	t.Run("empty", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Syscall(buf.BinWriter, "")
		assert.Error(t, buf.Err)
	})

	t.Run("too long", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Syscall(buf.BinWriter, string(getSlice(MaxSyscallNameLength+1)))
		assert.Error(t, buf.Err)
	})

	t.Run("by id", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		SyscallID(buf.BinWriter, 0x01020304)
		assert.Equal(t, []byte{byte(opcode.SYSCALL), 4, 4, 3, 2, 1}, buf.Bytes())
	})
}

func TestJmp(t *testing.T) {
	t.Run("negative offset", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Jmp(buf.BinWriter, opcode.JMPIFNOT, -3)
		require.NoError(t, buf.Err)
		assert.Equal(t, []byte{byte(opcode.JMPIFNOT), 0xfd, 0xff}, buf.Bytes())
	})

	t.Run("call", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Call(buf.BinWriter, 5)
		require.NoError(t, buf.Err)
		assert.Equal(t, []byte{byte(opcode.CALL), 5, 0}, buf.Bytes())
	})

	t.Run("not a jump", func(t *testing.T) {
		buf := io.NewBufBinWriter()
		Jmp(buf.BinWriter, opcode.DUP, 5)
		assert.Error(t, buf.Err)
	})
}

func TestAppCall(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	buf := io.NewBufBinWriter()
	AppCall(buf.BinWriter, h, true)
	assert.Equal(t, append([]byte{byte(opcode.TAILCALL)}, h.BytesBE()...), buf.Bytes())

	buf.Reset()
	AppCallWithOperationAndArgs(buf.BinWriter, h, "put", int64(1))
	require.NoError(t, buf.Err)
	res := buf.Bytes()
	assert.Equal(t, []byte{byte(opcode.PUSH1), byte(opcode.PUSH1), byte(opcode.PACK), 3, 'p', 'u', 't', byte(opcode.APPCALL)}, res[:8])
	assert.Equal(t, h.BytesBE(), res[8:])
}
