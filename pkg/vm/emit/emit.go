package emit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo2-vm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
)

// MaxSyscallNameLength is the maximum syscall operand length.
const MaxSyscallNameLength = 252

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcode emits a single VM Instruction without arguments to the given buffer.
func Opcode(w *io.BinWriter, op opcode.Opcode) {
	w.WriteB(byte(op))
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	if ok {
		Opcode(w, opcode.PUSHT)
		return
	}
	Opcode(w, opcode.PUSHF)
}

// Int emits an int type to the given buffer.
func Int(w *io.BinWriter, i int64) {
	switch {
	case i == -1:
		Opcode(w, opcode.PUSHM1)
	case i == 0:
		Opcode(w, opcode.PUSH0)
	case i > 0 && i <= 16:
		Opcode(w, opcode.PUSH1-1+opcode.Opcode(i))
	default:
		Bytes(w, bigint.ToBytes(big.NewInt(i)))
	}
}

// BigInt emits a big integer to the given buffer.
func BigInt(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() {
		Int(w, n.Int64())
		return
	}
	Bytes(w, bigint.ToBytes(n))
}

// Array emits an array of elements to the given buffer.
func Array(w *io.BinWriter, es ...any) {
	for i := len(es) - 1; i >= 0; i-- {
		switch e := es[i].(type) {
		case int64:
			Int(w, e)
		case int:
			Int(w, int64(e))
		case *big.Int:
			BigInt(w, e)
		case string:
			String(w, e)
		case util.Uint160:
			Bytes(w, e.BytesBE())
		case []byte:
			Bytes(w, e)
		case bool:
			Bool(w, e)
		case []any:
			Array(w, e...)
		default:
			if es[i] != nil {
				w.Err = fmt.Errorf("unsupported type %T", es[i])
				return
			}
			Opcode(w, opcode.PUSHNULL)
		}
	}
	Int(w, int64(len(es)))
	Opcode(w, opcode.PACK)
}

// String emits a string to the given buffer.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits a byte array to the given buffer.
func Bytes(w *io.BinWriter, b []byte) {
	var n = len(b)

	switch {
	case n == 0:
		Opcode(w, opcode.PUSH0)
		return
	case n <= int(opcode.PUSHBYTES75):
		Opcode(w, opcode.Opcode(n))
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// Syscall emits the syscall API to the given buffer using its name.
// Syscall API string cannot be 0.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	} else if len(api) == 0 {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	} else if len(api) > MaxSyscallNameLength {
		w.Err = fmt.Errorf("syscall api is too long: %d", len(api))
		return
	}
	Opcode(w, opcode.SYSCALL)
	w.WriteVarBytes([]byte(api))
}

// SyscallID emits the syscall API to the given buffer using its 4-byte
// interop ID.
func SyscallID(w *io.BinWriter, id uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, id)
	Opcode(w, opcode.SYSCALL)
	w.WriteVarBytes(buf)
}

// Call emits a call Instruction with the offset to the given buffer.
func Call(w *io.BinWriter, offset int16) {
	Jmp(w, opcode.CALL, offset)
}

// Jmp emits a jump Instruction along with the offset to the given buffer.
// The offset is counted from the position of the jump opcode itself.
func Jmp(w *io.BinWriter, op opcode.Opcode, offset int16) {
	if w.Err != nil {
		return
	} else if !isInstructionJmp(op) {
		w.Err = fmt.Errorf("opcode %s is not a jump or call type", op.String())
		return
	}
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(offset))
	Instruction(w, op, buf)
}

// AppCall emits APPCALL (or TAILCALL if tail is set) to the provided
// contract. Zero script hash makes the VM take the hash from the stack.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, tail bool) {
	op := opcode.APPCALL
	if tail {
		op = opcode.TAILCALL
	}
	Instruction(w, op, scriptHash.BytesBE())
}

// AppCallWithOperationAndArgs emits an APPCALL with the given operation and
// arguments following NEO2 calling convention.
func AppCallWithOperationAndArgs(w *io.BinWriter, scriptHash util.Uint160, operation string, args ...any) {
	Array(w, args...)
	String(w, operation)
	AppCall(w, scriptHash, false)
}

func isInstructionJmp(op opcode.Opcode) bool {
	return opcode.JMP <= op && op <= opcode.CALL
}
