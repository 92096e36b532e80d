package vm

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nspcc-dev/neo2-vm/cli/cmdargs"
	"github.com/nspcc-dev/neo2-vm/cli/flags"
	"github.com/nspcc-dev/neo2-vm/cli/options"
	"github.com/nspcc-dev/neo2-vm/pkg/config"
	"github.com/nspcc-dev/neo2-vm/pkg/core/dao"
	"github.com/nspcc-dev/neo2-vm/pkg/core/interop"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var gasFlag = flags.Fixed8Flag{
	Name:  "gas, g",
	Usage: "GAS paid for the execution in addition to the free GAS",
}

// NewCommands returns 'run', 'disasm' and 'prompt' commands.
func NewCommands() []cli.Command {
	runFlags := []cli.Flag{
		options.ConfigFile,
		options.Debug,
		gasFlag,
		cli.StringSliceFlag{
			Name:  "in, i",
			Usage: "hex or base64 encoded script, can be repeated; scripts are executed in the given order, the last one is the entry script",
		},
		cli.StringFlag{
			Name:  "trigger, t",
			Value: "Application",
			Usage: "execution trigger (Verification, VerificationR, Application or ApplicationR)",
		},
		flags.AddressFlag{
			Name:  "contract, c",
			Usage: "deployed contract to invoke, an entry script calling it is built from the arguments",
		},
		cli.BoolFlag{
			Name:  "skip-witness",
			Usage: "make Neo.Runtime.CheckWitness succeed for any hash",
		},
	}
	disasmFlags := flags.MarkRequired([]cli.Flag{
		cli.StringFlag{
			Name:  "in, i",
			Usage: "hex or base64 encoded script",
		},
	}, "in, i")
	promptFlags := []cli.Flag{
		options.ConfigFile,
		gasFlag,
	}
	return []cli.Command{
		{
			Name:      "run",
			Usage:     "Execute scripts and print the result",
			UsageText: "neo2vm run [--config-file file] [-g gas] [-t trigger] [--skip-witness] (-i script)... [-c contract <method> [<parameter>...]] [-- <signer>...]",
			Description: `Executes the scripts given with --in or builds an entry script invoking the
   contract given with --contract, the execution result is printed as JSON.
   Storage changes are persisted to the configured DB if the execution halts.

   <method> is the contract operation to invoke, parameters are passed as an
   array argument.
` + cmdargs.ParamsParsingDoc + `

   Signers are the script hashes the container transaction is signed by.
` + cmdargs.SignersParsingDoc,
			Action: runScripts,
			Flags:  runFlags,
		},
		{
			Name:      "disasm",
			Usage:     "Print the script instruction listing",
			UsageText: "neo2vm disasm -i script",
			Action:    disasmScript,
			Flags:     disasmFlags,
		},
		{
			Name:   "prompt",
			Usage:  "Start the interactive VM prompt",
			Action: startVMPrompt,
			Flags:  promptFlags,
		},
	}
}

// decodeScript decodes a hex (with or without 0x prefix) or base64 encoded
// script.
func decodeScript(s string) ([]byte, error) {
	if b, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil {
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New("script is neither hex nor base64")
	}
	return b, nil
}

// environment is the configured engine with its storage.
type environment struct {
	log    *zap.Logger
	cfg    config.VM
	store  storage.Store
	dao    *dao.Simple
	engine *vm.Engine
	closer func() error
}

// newEnvironment opens the DB given in the configuration and creates an
// engine with the syscalls working on top of it.
func newEnvironment(cfg config.Config, log *zap.Logger) (*environment, error) {
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	env := &environment{
		log:   log,
		cfg:   cfg.VM,
		store: store,
	}
	if err = env.reset(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return env, nil
}

// reset drops all the changes not persisted yet.
func (env *environment) reset() error {
	d := dao.NewSimple(env.store, env.cfg.ContractCacheSize)
	table, err := interop.NewSyscallTable(d, env.log)
	if err != nil {
		return fmt.Errorf("failed to register syscalls: %w", err)
	}
	opts := append([]vm.Option{
		vm.WithLogger(env.log),
		vm.WithSyscalls(table),
		vm.WithScriptGetter(d),
	}, env.cfg.EngineOptions()...)
	env.dao = d
	env.engine = vm.New(opts...)
	return nil
}

// Close closes the DB and the log file.
func (env *environment) Close() {
	_ = env.store.Close()
	if env.closer != nil {
		_ = env.closer()
	}
}

// getEnvironment loads the configuration and sets up logging and storage
// according to it. Runtime log messages are printed with the result so
// they're only logged in debug mode.
func getEnvironment(ctx *cli.Context) (*environment, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	debug := ctx.Bool("debug")
	log, _, closer, err := options.HandleLoggingParams(debug, cfg.ApplicationConfiguration)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	if !debug {
		log = log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return options.NewFilteringCore(c, options.SkipMessages(interop.RuntimeLogMessage))
		}))
	}
	env, err := newEnvironment(cfg, log)
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, cli.NewExitError(err, 1)
	}
	env.closer = closer
	return env, nil
}

func startVMPrompt(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	cfg.VM.FreeGas += flags.Fixed8FromContext(ctx, "gas")

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	p, err := NewWithConfig(interactive, os.Exit, &readline.Config{
		FuncIsTerminal: func() bool { return interactive },
	}, cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return p.Run()
}
