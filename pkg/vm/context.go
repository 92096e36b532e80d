package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/core/container"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// AnyReturnValueCount means that the script can leave any number of items
// on the stack.
const AnyReturnValueCount = -1

// MaxSyscallNameLength is the maximum length of the SYSCALL operand.
const MaxSyscallNameLength = 252

// Listeners receive the events scripts emit.
type Listeners struct {
	// OnNotify is called for every Runtime.Notify syscall.
	OnNotify func(scriptHash util.Uint160, item stackitem.Item)
	// OnLog is called for every Runtime.Log syscall.
	OnLog func(scriptHash util.Uint160, msg string)
}

// ExecutionInit is the data shared by all the contexts of one execution.
type ExecutionInit struct {
	// Container is the entity scripts are executed for, can be nil.
	Container container.Container
	// Trigger is the reason of the execution.
	Trigger trigger.Type
	// Listeners get notifications and log messages.
	Listeners Listeners
	// SkipWitnessVerify makes CheckWitness always succeed.
	SkipWitnessVerify bool
	// PersistingBlock is the block being persisted if any.
	PersistingBlock *container.Block

	steps int
}

// Context represents the current execution context of the VM. It's a value
// and every step produces a new one, so a context returned from a failed
// step is the one the instruction started with.
type Context struct {
	// State is the execution state, None until the script halts or faults.
	State State
	// PC is the offset of the next instruction.
	PC int
	// Code is the raw program script.
	Code []byte
	// PushOnly restricts the script to push instructions.
	PushOnly bool

	// Stack is the evaluation stack, its top is the last element.
	Stack []stackitem.Item
	// StackAlt is the alternative stack, its top is the last element.
	StackAlt []stackitem.Item
	// StackCount is the number of stack slots used by both stacks including
	// compound item children.
	StackCount int
	// GasLeft is the amount of GAS (in datoshi) available.
	GasLeft int64
	// Depth is the invocation depth.
	Depth int

	// ScriptHash is the hash of Code.
	ScriptHash util.Uint160
	// CallingScriptHash is the hash of the caller.
	CallingScriptHash util.Uint160
	// EntryScriptHash is the hash of the first script of the execution.
	EntryScriptHash util.Uint160
	// CreatedContracts maps contracts created in this execution to their
	// creator script hashes.
	CreatedContracts map[util.Uint160]util.Uint160

	// ErrorMessage describes the fault.
	ErrorMessage string
	// ReturnValueCount is the number of items a halted script must leave
	// on the stack, AnyReturnValueCount disables the check.
	ReturnValueCount int

	// Init is the per-execution data.
	Init *ExecutionInit

	err error
}

// Err returns the error the context faulted with.
func (c *Context) Err() error {
	return c.err
}

// Trigger returns the trigger of the execution.
func (c *Context) Trigger() trigger.Type {
	if c.Init == nil {
		return trigger.Application
	}
	return c.Init.Trigger
}

// Container returns the script container of the execution (if any).
func (c *Context) Container() container.Container {
	if c.Init == nil {
		return nil
	}
	return c.Init.Container
}

// Peek returns the n-th item from the top of the stack or nil.
func (c *Context) Peek(n int) stackitem.Item {
	if n < 0 || n >= len(c.Stack) {
		return nil
	}
	return c.Stack[len(c.Stack)-1-n]
}

// Push puts the item on top of the stack, the stack counter is updated
// accordingly.
func (c *Context) Push(item stackitem.Item) {
	c.Stack = append(c.Stack, item)
	c.counter().Add(item)
}

// NextInstruction decodes the instruction at PC.
func (c *Context) NextInstruction() (Instruction, error) {
	if c.PC < 0 || c.PC >= len(c.Code) {
		return Instruction{}, fmt.Errorf("%w: %d", ErrCodeOverflow, c.PC)
	}
	return decodeInstruction(c.Code, c.PC, len(c.Code))
}

// Instruction is a decoded instruction.
type Instruction struct {
	// Pos is the instruction offset.
	Pos int
	// Op is its opcode.
	Op opcode.Opcode
	// Param is the operand, it references the code and shouldn't be
	// written to.
	Param []byte
	// Next is the offset of the following instruction.
	Next int
}

// String returns the listing form of the instruction.
func (i Instruction) String() string {
	if len(i.Param) == 0 {
		return i.Op.String()
	}
	switch {
	case i.Op == opcode.JMP || i.Op == opcode.JMPIF || i.Op == opcode.JMPIFNOT || i.Op == opcode.CALL:
		offset := int16(binary.LittleEndian.Uint16(i.Param))
		return fmt.Sprintf("%s %d (%d)", i.Op, offset, i.Pos+int(offset))
	case i.Op == opcode.SYSCALL:
		if len(i.Param) == 4 {
			return fmt.Sprintf("%s %08x", i.Op, binary.LittleEndian.Uint32(i.Param))
		}
		return fmt.Sprintf("%s %q", i.Op, i.Param)
	case i.Op == opcode.APPCALL || i.Op == opcode.TAILCALL:
		u, _ := util.Uint160DecodeBytesBE(i.Param)
		return fmt.Sprintf("%s %s", i.Op, u.StringLE())
	default:
		return fmt.Sprintf("%s %x", i.Op, i.Param)
	}
}

// decodeInstruction reads the instruction at pos, its operand is checked
// against the code length and maxItemSize.
func decodeInstruction(code []byte, pos int, maxItemSize int) (Instruction, error) {
	ins := Instruction{Pos: pos, Op: opcode.Opcode(code[pos])}
	next := pos + 1

	var numtoread int
	switch op := ins.Op; {
	case op >= opcode.PUSHBYTES1 && op <= opcode.PUSHBYTES75:
		numtoread = int(op)
	case op == opcode.PUSHDATA1:
		if next >= len(code) {
			return ins, fmt.Errorf("%w: %s length", ErrCodeOverflow, op)
		}
		numtoread = int(code[next])
		next++
	case op == opcode.PUSHDATA2:
		if next+2 > len(code) {
			return ins, fmt.Errorf("%w: %s length", ErrCodeOverflow, op)
		}
		numtoread = int(binary.LittleEndian.Uint16(code[next:]))
		next += 2
	case op == opcode.PUSHDATA4:
		if next+4 > len(code) {
			return ins, fmt.Errorf("%w: %s length", ErrCodeOverflow, op)
		}
		n := binary.LittleEndian.Uint32(code[next:])
		if uint64(n) > uint64(maxItemSize) {
			return ins, fmt.Errorf("%w: %s %d bytes", ErrItemTooLarge, op, n)
		}
		numtoread = int(n)
		next += 4
	case op == opcode.JMP, op == opcode.JMPIF, op == opcode.JMPIFNOT, op == opcode.CALL:
		numtoread = 2
	case op == opcode.APPCALL, op == opcode.TAILCALL:
		numtoread = util.Uint160Size
	case op == opcode.SYSCALL:
		if next >= len(code) {
			return ins, fmt.Errorf("%w: %s length", ErrCodeOverflow, op)
		}
		numtoread = int(code[next])
		if numtoread > MaxSyscallNameLength {
			return ins, fmt.Errorf("syscall name is too long: %d", numtoread)
		}
		next++
	default:
		ins.Next = next
		return ins, nil
	}
	if numtoread > maxItemSize {
		return ins, fmt.Errorf("%w: %s %d bytes", ErrItemTooLarge, ins.Op, numtoread)
	}
	if next+numtoread > len(code) {
		return ins, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrCodeOverflow, ins.Op, numtoread, len(code)-next)
	}
	ins.Param = code[next : next+numtoread]
	ins.Next = next + numtoread
	return ins, nil
}
