package vm

import (
	"github.com/nspcc-dev/neo2-vm/pkg/core/container"
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// ExecuteParams are the parameters of a multi-script execution.
type ExecuteParams struct {
	// Scripts are executed in order, the last one is the entry script.
	// Usually it's invocation scripts followed by the verification or the
	// application script.
	Scripts []Script
	// Container is the script container, can be nil.
	Container container.Container
	// Trigger is the execution trigger.
	Trigger trigger.Type
	// Gas is the amount of GAS (in datoshi) the caller pays for, the free
	// GAS of the engine is added to it.
	Gas int64
	// Listeners receive notifications and logs.
	Listeners Listeners
	// SkipWitnessVerify makes CheckWitness succeed for any hash.
	SkipWitnessVerify bool
	// PersistingBlock is the block being persisted if any.
	PersistingBlock *container.Block
}

// Result is the outcome of Execute.
type Result struct {
	State State `json:"state"`
	// Stack and StackAlt are the final stacks, top first.
	Stack    []smartcontract.Parameter `json:"stack"`
	StackAlt []smartcontract.Parameter `json:"altstack"`
	// GasConsumed is the GAS (in datoshi) charged to the caller, the free
	// GAS is not included.
	GasConsumed int64 `json:"gasconsumed"`
	// GasCost is the total amount of GAS spent.
	GasCost      int64  `json:"gascost"`
	ErrorMessage string `json:"error,omitempty"`
}

// Execute runs the scripts one after another passing the stacks and the
// created contracts between them. The sequence stops as soon as some
// script doesn't halt. It never panics, all failures are reported via
// the Result.
func (e *Engine) Execute(p ExecuteParams) *Result {
	ei := &ExecutionInit{
		Container:         p.Container,
		Trigger:           p.Trigger,
		Listeners:         p.Listeners,
		SkipWitnessVerify: p.SkipWitnessVerify,
		PersistingBlock:   p.PersistingBlock,
	}
	if len(p.Scripts) == 0 {
		updateExecutionMetrics(HaltState, 0, 0)
		return &Result{
			State:    HaltState,
			Stack:    []smartcontract.Parameter{},
			StackAlt: []smartcontract.Parameter{},
		}
	}

	startingGas := p.Gas + e.freeGas
	entry := hash.Hash160(p.Scripts[len(p.Scripts)-1].Code)

	var ctx *Context
	for idx := 0; idx < len(p.Scripts) && (ctx == nil || ctx.State == HaltState); idx++ {
		var callingHash util.Uint160
		if idx+1 < len(p.Scripts) {
			callingHash = hash.Hash160(p.Scripts[idx+1].Code)
		}
		opts := Options{
			Depth:           len(p.Scripts) - idx,
			ScriptHash:      callingHash,
			EntryScriptHash: entry,
		}
		gasLeft := startingGas
		if ctx != nil {
			opts.Stack = ctx.Stack
			opts.StackAlt = ctx.StackAlt
			opts.StackCount = ctx.StackCount
			opts.CreatedContracts = ctx.CreatedContracts
			gasLeft = ctx.GasLeft
		}
		next := e.ExecuteScript(p.Scripts[idx], ei, gasLeft, opts)
		ctx = &next
	}

	gasCost := startingGas - ctx.GasLeft
	consumed := gasCost - e.freeGas
	if consumed < 0 {
		consumed = 0
	}
	res := &Result{
		State:        ctx.State,
		GasConsumed:  consumed,
		GasCost:      gasCost,
		ErrorMessage: ctx.ErrorMessage,
	}
	var err error
	if res.State != FaultState {
		res.Stack, err = toParameters(ctx.Stack)
		if err == nil {
			res.StackAlt, err = toParameters(ctx.StackAlt)
		}
		if err != nil {
			res.State = FaultState
			res.ErrorMessage = err.Error()
		}
	}
	if res.State == FaultState {
		res.Stack = toParametersLenient(ctx.Stack)
		res.StackAlt = toParametersLenient(ctx.StackAlt)
	}
	updateExecutionMetrics(res.State, consumed, ei.steps)
	e.log.Debug("execution finished",
		zap.Stringer("script hash", entry),
		zap.Stringer("state", res.State),
		zap.Int64("gas consumed", consumed),
		zap.Int("steps", ei.steps))
	return res
}

// toParameters converts the stack into parameters, top first.
func toParameters(s []stackitem.Item) ([]smartcontract.Parameter, error) {
	res := make([]smartcontract.Parameter, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		p, err := smartcontract.ParameterFromStackItem(s[i])
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

func toParametersLenient(s []stackitem.Item) []smartcontract.Parameter {
	res := make([]smartcontract.Parameter, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		res = append(res, smartcontract.ParameterFromStackItemLenient(s[i]))
	}
	return res
}
