package vm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/cli/cmdargs"
	"github.com/nspcc-dev/neo2-vm/cli/flags"
	"github.com/nspcc-dev/neo2-vm/pkg/core/container"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"github.com/urfave/cli"
)

var errNoScripts = errors.New("no scripts to execute, use --in or --contract")

type notification struct {
	Contract util.Uint160           `json:"contract"`
	State    smartcontract.Parameter `json:"state"`
}

type logMessage struct {
	Contract util.Uint160 `json:"contract"`
	Message  string       `json:"message"`
}

// events collects notifications and logs of the execution.
type events struct {
	Notifications []notification `json:"notifications"`
	Logs          []logMessage   `json:"logs"`
}

func (ev *events) listeners() vm.Listeners {
	return vm.Listeners{
		OnNotify: func(h util.Uint160, item stackitem.Item) {
			ev.Notifications = append(ev.Notifications, notification{
				Contract: h,
				State:    smartcontract.ParameterFromStackItemLenient(item),
			})
		},
		OnLog: func(h util.Uint160, msg string) {
			ev.Logs = append(ev.Logs, logMessage{Contract: h, Message: msg})
		},
	}
}

// runResult is the outcome of the run command.
type runResult struct {
	*vm.Result
	events
	// Storage lists the storage changes made by the execution.
	Storage []storage.Operation `json:"storage"`
}

// execute runs the scripts and persists storage changes if the execution
// halts.
func (env *environment) execute(p vm.ExecuteParams) (*runResult, error) {
	res := &runResult{
		events: events{
			Notifications: []notification{},
			Logs:          []logMessage{},
		},
	}
	p.Listeners = res.listeners()
	res.Result = env.engine.Execute(p)
	res.Storage = storage.BatchToOperations(env.dao.GetBatch())
	if res.State != vm.HaltState {
		return res, nil
	}
	if _, err := env.dao.Persist(); err != nil {
		return res, fmt.Errorf("failed to persist storage changes: %w", err)
	}
	return res, nil
}

// getScripts returns the scripts to execute and the signers given in the
// context.
func getScripts(ctx *cli.Context) ([]vm.Script, []util.Uint160, error) {
	var scripts []vm.Script
	for i, s := range ctx.StringSlice("in") {
		b, err := decodeScript(s)
		if err != nil {
			return nil, nil, fmt.Errorf("script #%d: %w", i, err)
		}
		scripts = append(scripts, vm.Script{Code: b})
	}

	var offset int
	contract := ctx.Generic("contract").(*flags.Address)
	if contract.IsSet {
		args := ctx.Args()
		if !args.Present() {
			return nil, nil, errors.New("no method specified")
		}
		n, params, err := cmdargs.ParseParams(args[1:], true)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to parse parameters: %w", err)
		}
		b := smartcontract.NewBuilder()
		if err = b.InvokeWithParameters(contract.Uint160(), args[0], params...); err != nil {
			return nil, nil, fmt.Errorf("failed to build entry script: %w", err)
		}
		entry, err := b.Script()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build entry script: %w", err)
		}
		scripts = append(scripts, vm.Script{Code: entry})
		offset = 1 + n
	}
	if len(scripts) == 0 {
		return nil, nil, errNoScripts
	}

	signers, err := cmdargs.GetSignersFromContext(ctx, offset)
	if err != nil {
		return nil, nil, err
	}
	return scripts, signers, nil
}

func runScripts(ctx *cli.Context) error {
	scripts, signers, err := getScripts(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	tr, err := trigger.FromString(ctx.String("trigger"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	env, err := getEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	entry := scripts[len(scripts)-1].Code
	res, err := env.execute(vm.ExecuteParams{
		Scripts:           scripts,
		Container:         container.NewTransaction(entry, 0, signers...),
		Trigger:           tr,
		Gas:               int64(flags.Fixed8FromContext(ctx, "gas")),
		SkipWitnessVerify: ctx.Bool("skip-witness"),
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to marshal result: %w", err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	if res.State != vm.HaltState {
		return cli.NewExitError(fmt.Errorf("execution failed: %s", res.ErrorMessage), 1)
	}
	return nil
}

func disasmScript(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	script, err := decodeScript(ctx.String("in"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := vm.PrintOps(ctx.App.Writer, script, -1); err != nil {
		return cli.NewExitError(fmt.Errorf("malformed script: %w", err), 1)
	}
	return nil
}
