package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Flow control operations.

const (
	jumpSize   = 3
	callFee    = 22000
	jumpFee    = 70
	appCallFee = 22000
)

func init() {
	register(opcode.NOP, 0, 0, 30, nop)
	register(opcode.JMP, 0, 0, jumpFee, jmp)
	register(opcode.JMPIF, 1, 0, jumpFee, jmpIf(true))
	register(opcode.JMPIFNOT, 1, 0, jumpFee, jmpIf(false))
	register(opcode.CALL, 0, 0, callFee, call).Invocation = 1
	register(opcode.RET, 0, 0, 40, ret)
	registerCreator(opcode.APPCALL, createAppCall(false))
	registerCreator(opcode.TAILCALL, createAppCall(true))
}

func nop(_ *Engine, _ *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return nil, nil, nil
}

// jumpTarget returns the jump destination, the offset is relative to the
// jump instruction itself.
func jumpTarget(ctx *Context, param []byte) (int, error) {
	pos := ctx.PC - jumpSize
	target := pos + int(int16(binary.LittleEndian.Uint16(param)))
	if target < 0 || target > len(ctx.Code) {
		return 0, fmt.Errorf("%w: jump to %d", ErrCodeOverflow, target)
	}
	return target, nil
}

func jmp(_ *Engine, ctx *Context, param []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	target, err := jumpTarget(ctx, param)
	if err != nil {
		return nil, nil, err
	}
	ctx.PC = target
	return nil, nil, nil
}

func jmpIf(cond bool) OpInvoke {
	return func(e *Engine, ctx *Context, param []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		target, err := jumpTarget(ctx, param)
		if err != nil {
			return nil, nil, err
		}
		if toBool(args[0]) == cond {
			ctx.PC = target
		}
		return nil, nil, nil
	}
}

// call runs the same script from the target position until it returns and
// continues after the CALL.
func call(e *Engine, ctx *Context, param []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	target, err := jumpTarget(ctx, param)
	if err != nil {
		return nil, nil, err
	}
	nested := *ctx
	nested.PC = target
	nested.Depth++
	nested.CallingScriptHash = ctx.ScriptHash
	nested = e.Run(nested)
	if nested.State == FaultState {
		return nil, nil, &frameFault{callee: nested}
	}
	ctx.mergeFrom(&nested)
	return nil, nil, nil
}

func ret(_ *Engine, ctx *Context, _ []byte, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	ctx.State = HaltState
	return nil, nil, nil
}

// frameFault is returned by the call instructions when the callee faults.
// The callee context is kept so that the GAS it spent stays spent.
type frameFault struct {
	callee Context
}

func (f *frameFault) Error() string { return f.callee.ErrorMessage }

func (f *frameFault) Unwrap() error { return f.callee.err }

// mergeFrom takes the shared execution state from the finished callee.
func (c *Context) mergeFrom(callee *Context) {
	c.Stack = callee.Stack
	c.StackAlt = callee.StackAlt
	c.StackCount = callee.StackCount
	c.GasLeft = callee.GasLeft
	c.CreatedContracts = callee.CreatedContracts
}

func createAppCall(tail bool) opCreator {
	return func(e *Engine, ctx *Context, ins Instruction) (*Op, error) {
		hash, err := util.Uint160DecodeBytesBE(ins.Param)
		if err != nil {
			return nil, err
		}
		op := &Op{
			Code: ins.Op,
			Name: ins.Op.String(),
			Fee:  appCallFee,
		}
		if !tail {
			op.Invocation = 1
		}
		if hash.IsZero() {
			op.In = 1
		}
		op.Invoke = func(e *Engine, ctx *Context, _ []byte, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			return nil, nil, e.appCall(ctx, hash, args, tail)
		}
		return op, nil
	}
}

func (e *Engine) appCall(ctx *Context, hash util.Uint160, args []stackitem.Item, tail bool) error {
	if e.scripts == nil {
		return fmt.Errorf("%w: no contracts available", ErrUnknownScript)
	}
	if hash.IsZero() {
		_, dynamic, err := e.scripts.GetScript(ctx.ScriptHash)
		if err != nil {
			return err
		}
		if !dynamic {
			return fmt.Errorf("contract %s can't invoke dynamically", ctx.ScriptHash.StringLE())
		}
		b, err := args[0].TryBytes()
		if err != nil {
			return err
		}
		if hash, err = util.Uint160DecodeBytesBE(b); err != nil {
			return err
		}
	}
	script, _, err := e.scripts.GetScript(hash)
	if err != nil {
		return err
	}
	if script == nil {
		return fmt.Errorf("%w: %s", ErrUnknownScript, hash.StringLE())
	}
	callee := e.ExecuteScript(Script{Code: script}, ctx.Init, ctx.GasLeft, Options{
		Depth:            ctx.Depth + 1,
		ScriptHash:       ctx.ScriptHash,
		EntryScriptHash:  ctx.EntryScriptHash,
		Stack:            ctx.Stack,
		StackAlt:         ctx.StackAlt,
		StackCount:       ctx.StackCount,
		CreatedContracts: ctx.CreatedContracts,
	})
	if callee.State == FaultState {
		return &frameFault{callee: callee}
	}
	ctx.mergeFrom(&callee)
	if tail {
		ctx.State = HaltState
	}
	return nil
}
