package vm

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

const (
	// MaxShift is the maximum shift for SHL/SHR.
	MaxShift = 256
	// MinShift is the minimum shift for SHL/SHR.
	MinShift = -256
	// MaxBigIntegerSize is the maximum integer size in bytes.
	MaxBigIntegerSize = stackitem.MaxBigIntegerSizeBits / 8
	// DefaultFreeGas is the amount of GAS (10 GAS in datoshi) every
	// execution gets for free.
	DefaultFreeGas int64 = 10_0000_0000
)

// Limits are the execution limits.
type Limits struct {
	// MaxStackSize is the maximum number of stack slots.
	MaxStackSize int
	// MaxInvocationStackSize is the maximum invocation depth.
	MaxInvocationStackSize int
	// MaxArraySize is the maximum number of container elements.
	MaxArraySize int
	// MaxItemSize is the maximum byte array size.
	MaxItemSize int
}

// DefaultLimits returns the standard NEO2 limits.
func DefaultLimits() Limits {
	return Limits{
		MaxStackSize:           2 * 1024,
		MaxInvocationStackSize: 1024,
		MaxArraySize:           stackitem.MaxArraySize,
		MaxItemSize:            stackitem.MaxSize,
	}
}

// ScriptGetter returns contract scripts for APPCALL and TAILCALL. A nil
// script with no error means that the contract doesn't exist, the flag tells
// whether the contract can invoke other contracts dynamically.
type ScriptGetter interface {
	GetScript(util.Uint160) ([]byte, bool, error)
}

// Engine executes scripts. It only holds immutable configuration so it can be
// shared between goroutines.
type Engine struct {
	log      *zap.Logger
	syscalls *SyscallTable
	scripts  ScriptGetter
	limits   Limits
	freeGas  int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithSyscalls sets the syscall table.
func WithSyscalls(t *SyscallTable) Option {
	return func(e *Engine) {
		e.syscalls = t
	}
}

// WithScriptGetter sets the contract script source.
func WithScriptGetter(g ScriptGetter) Option {
	return func(e *Engine) {
		e.scripts = g
	}
}

// WithLimits sets execution limits, zero fields keep default values.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		if l.MaxStackSize > 0 {
			e.limits.MaxStackSize = l.MaxStackSize
		}
		if l.MaxInvocationStackSize > 0 {
			e.limits.MaxInvocationStackSize = l.MaxInvocationStackSize
		}
		if l.MaxArraySize > 0 {
			e.limits.MaxArraySize = l.MaxArraySize
		}
		if l.MaxItemSize > 0 {
			e.limits.MaxItemSize = l.MaxItemSize
		}
	}
}

// WithFreeGas sets the amount of free GAS (in datoshi) of every execution.
func WithFreeGas(gas int64) Option {
	return func(e *Engine) {
		e.freeGas = gas
	}
}

// New returns a new Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:      zap.NewNop(),
		syscalls: NewSyscallTable(),
		limits:   DefaultLimits(),
		freeGas:  DefaultFreeGas,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Limits returns the engine limits.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Syscalls returns the syscall table of the engine.
func (e *Engine) Syscalls() *SyscallTable {
	return e.syscalls
}

// executeNext executes the next instruction. On error the context is
// returned as it was before the instruction, except for the faulted calls:
// the GAS and the stacks of the callee are kept then.
func (e *Engine) executeNext(ctx Context) (res Context, err error) {
	if ctx.State != NoneState {
		return ctx, nil
	}
	if ctx.PC >= len(ctx.Code) {
		ctx.State = HaltState
		return ctx, nil
	}

	var ins = Instruction{Pos: ctx.PC, Op: 0xff}
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("panic in VM instruction",
				zap.Int("pc", ins.Pos),
				zap.Stringer("script", ctx.ScriptHash),
				zap.Any("panic", r))
			res = ctx
			err = newError(&ctx, ins.Pos, ins.String(), wrapVMError(fmt.Errorf("%v", r)))
		}
	}()

	op, ins, err := e.lookupOp(&ctx)
	if err != nil {
		return ctx, newError(&ctx, ins.Pos, ins.String(), wrapVMError(err))
	}
	fail := func(err error) (Context, error) {
		var ff *frameFault
		if errors.As(err, &ff) {
			res := ctx
			res.mergeFrom(&ff.callee)
			return res, ff.callee.err
		}
		var vmErr *Error
		if errors.As(err, &vmErr) {
			return ctx, err
		}
		return ctx, newError(&ctx, ins.Pos, ins.String(), wrapVMError(err))
	}

	if len(ctx.Stack) < op.In {
		return fail(fmt.Errorf("%w: %s needs %d items, stack has %d", ErrStackUnderflow, op.Name, op.In, len(ctx.Stack)))
	}
	if len(ctx.StackAlt) < op.InAlt {
		return fail(fmt.Errorf("%w: %s needs %d items, alt stack has %d", ErrAltStackUnderflow, op.Name, op.InAlt, len(ctx.StackAlt)))
	}
	if ctx.Depth+op.Invocation > e.limits.MaxInvocationStackSize {
		return fail(fmt.Errorf("%w: depth %d", ErrInvocationStackOverflow, ctx.Depth+op.Invocation))
	}
	if ctx.GasLeft-op.Fee < 0 {
		return fail(fmt.Errorf("%w: %s costs %d, %d left", ErrOutOfGas, op.Name, op.Fee, ctx.GasLeft))
	}

	next := ctx
	next.PC = ins.Next
	next.GasLeft -= op.Fee
	args := popItems(&next.Stack, op.In)
	argsAlt := popItems(&next.StackAlt, op.InAlt)
	rc := next.counter()
	for _, it := range args {
		rc.Remove(it)
	}
	for _, it := range argsAlt {
		rc.Remove(it)
	}
	if next.Init != nil {
		next.Init.steps++
	}

	results, resultsAlt, err := op.Invoke(e, &next, ins.Param, args, argsAlt)
	if err != nil {
		return fail(err)
	}
	if len(results) != op.Out || len(resultsAlt) != op.OutAlt {
		return fail(fmt.Errorf("%w: %s returned %d/%d items, expected %d/%d",
			ErrUnknown, op.Name, len(results), len(resultsAlt), op.Out, op.OutAlt))
	}
	rc = next.counter()
	for _, it := range results {
		next.Stack = append(next.Stack, it)
		rc.Add(it)
	}
	for _, it := range resultsAlt {
		next.StackAlt = append(next.StackAlt, it)
		rc.Add(it)
	}
	if next.StackCount > e.limits.MaxStackSize {
		return fail(fmt.Errorf("%w: %d items", ErrStackOverflow, next.StackCount))
	}
	return next, nil
}

// popItems removes n items from the stack top returning them top first. The
// remaining slice is capped so that pushing to it never overwrites the
// original stack.
func popItems(s *[]stackitem.Item, n int) []stackitem.Item {
	if n == 0 {
		return nil
	}
	l := len(*s) - n
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = (*s)[len(*s)-1-i]
	}
	*s = (*s)[:l:l]
	return items
}

// Step executes one instruction, errors turn the context into the faulted
// one.
func (e *Engine) Step(ctx Context) Context {
	next, err := e.executeNext(ctx)
	if err != nil {
		return fault(next, err)
	}
	return next
}

// Run executes the context until it halts or faults.
func (e *Engine) Run(ctx Context) Context {
	for ctx.State == NoneState {
		ctx = e.Step(ctx)
	}
	return ctx
}

func fault(ctx Context, err error) Context {
	ctx.State = FaultState
	ctx.ErrorMessage = err.Error()
	ctx.err = err
	return ctx
}

// Script is the code to execute.
type Script struct {
	Code []byte
	// PushOnly allows only push instructions, it's set for invocation
	// (witness) scripts.
	PushOnly bool
}

// Options are the script execution options.
type Options struct {
	// Depth is the invocation depth of the script, 1 by default.
	Depth int
	// ScriptHash is the calling script hash.
	ScriptHash util.Uint160
	// EntryScriptHash is the entry script hash, the script's own hash is
	// used when not set.
	EntryScriptHash util.Uint160
	// Stack, StackAlt and StackCount are the initial stack state.
	Stack      []stackitem.Item
	StackAlt   []stackitem.Item
	StackCount int
	// CreatedContracts are the contracts created before.
	CreatedContracts map[util.Uint160]util.Uint160
	// ReturnValueCount is the number of items the script should leave on
	// the stack, any number is allowed if nil.
	ReturnValueCount *int
}

// LoadScript prepares the context for the script execution without running
// it, use Step or Run to execute it.
func (e *Engine) LoadScript(script Script, ei *ExecutionInit, gasLeft int64, opts Options) Context {
	ctx := Context{
		State:             NoneState,
		Code:              script.Code,
		PushOnly:          script.PushOnly,
		Stack:             opts.Stack,
		StackAlt:          opts.StackAlt,
		StackCount:        opts.StackCount,
		GasLeft:           gasLeft,
		Depth:             opts.Depth,
		ScriptHash:        hash.Hash160(script.Code),
		CallingScriptHash: opts.ScriptHash,
		EntryScriptHash:   opts.EntryScriptHash,
		CreatedContracts:  opts.CreatedContracts,
		ReturnValueCount:  AnyReturnValueCount,
		Init:              ei,
	}
	if ctx.Depth == 0 {
		ctx.Depth = 1
	}
	if ctx.EntryScriptHash.IsZero() {
		ctx.EntryScriptHash = ctx.ScriptHash
	}
	if ctx.CreatedContracts == nil {
		ctx.CreatedContracts = make(map[util.Uint160]util.Uint160)
	}
	if opts.ReturnValueCount != nil {
		ctx.ReturnValueCount = *opts.ReturnValueCount
	}
	return ctx
}

// ExecuteScript runs the script with the given amount of GAS.
func (e *Engine) ExecuteScript(script Script, ei *ExecutionInit, gasLeft int64, opts Options) Context {
	ctx := e.Run(e.LoadScript(script, ei, gasLeft, opts))
	if ctx.State == HaltState && ctx.ReturnValueCount >= 0 && len(ctx.Stack) != ctx.ReturnValueCount {
		ctx = fault(ctx, newError(&ctx, ctx.PC, "", fmt.Errorf("%w: expected %d, got %d",
			ErrReturnValueCount, ctx.ReturnValueCount, len(ctx.Stack))))
	}
	if ctx.State == FaultState {
		e.log.Debug("script faulted",
			zap.Stringer("script", ctx.ScriptHash),
			zap.Int("depth", ctx.Depth),
			zap.Error(ctx.err))
	}
	return ctx
}
