package vm

import (
	"fmt"
	"math"

	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// OpInvoke implements an instruction. args and argsAlt are the items popped
// from the stacks, the first one is the former top. Results are pushed in
// order, so the last one ends up on the top. The context can be modified
// directly for jumps, state changes and stack manipulations beyond the
// declared arity.
type OpInvoke func(e *Engine, ctx *Context, param []byte, args, argsAlt []stackitem.Item) (results, resultsAlt []stackitem.Item, err error)

// Op describes an instruction: its arity, fee and implementation.
type Op struct {
	Code opcode.Opcode
	Name string
	// In and InAlt are the number of items taken from the stacks.
	In, InAlt int
	// Out and OutAlt are the number of items pushed back.
	Out, OutAlt int
	// Fee is the instruction price in datoshi.
	Fee int64
	// Invocation is the invocation depth the instruction adds.
	Invocation int
	Invoke     OpInvoke
}

// opCreator builds an Op whose arity or fee depends on the operand or the
// context.
type opCreator func(e *Engine, ctx *Context, ins Instruction) (*Op, error)

var (
	ops      [256]*Op
	creators [256]opCreator
)

func register(code opcode.Opcode, in, out int, fee int64, invoke OpInvoke) *Op {
	op := &Op{
		Code:   code,
		Name:   code.String(),
		In:     in,
		Out:    out,
		Fee:    fee,
		Invoke: invoke,
	}
	ops[code] = op
	return op
}

func registerCreator(code opcode.Opcode, c opCreator) {
	creators[code] = c
}

// GetOp returns the static descriptor of the opcode, nil is returned for
// undefined opcodes and for the ones which depend on the context (PACK,
// UNPACK, APPCALL, TAILCALL and SYSCALL).
func GetOp(code opcode.Opcode) *Op {
	return ops[code]
}

// lookupOp decodes the instruction at ctx.PC and returns the Op to execute.
func (e *Engine) lookupOp(ctx *Context) (*Op, Instruction, error) {
	code := opcode.Opcode(ctx.Code[ctx.PC])
	ins := Instruction{Pos: ctx.PC, Op: code, Next: ctx.PC + 1}
	if ctx.PushOnly && !opcode.IsPush(code) {
		return nil, ins, fmt.Errorf("%w: %s", ErrPushOnly, code)
	}
	ins, err := decodeInstruction(ctx.Code, ctx.PC, e.limits.MaxItemSize)
	if err != nil {
		return nil, ins, err
	}
	if c := creators[code]; c != nil {
		op, err := c(e, ctx, ins)
		return op, ins, err
	}
	op := ops[code]
	if op == nil {
		return nil, ins, fmt.Errorf("%w: 0x%02x", ErrUnknownOp, byte(code))
	}
	return op, ins, nil
}

func toInt(item stackitem.Item) (int, error) {
	n, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() || n.Int64() > math.MaxInt32 || n.Int64() < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s doesn't fit int32", ErrInvalidIndex, n)
	}
	return int(n.Int64()), nil
}

func toBool(item stackitem.Item) bool {
	b, err := item.TryBool()
	return err == nil && b
}
