package vm

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/nspcc-dev/neo2-vm/cli/cmdargs"
	"github.com/nspcc-dev/neo2-vm/pkg/config"
	"github.com/nspcc-dev/neo2-vm/pkg/core/container"
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/keys"
	"github.com/nspcc-dev/neo2-vm/pkg/encoding/address"
	"github.com/nspcc-dev/neo2-vm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	envKey              = "env"
	contextKey          = "context"
	eventsKey           = "events"
	exitFuncKey         = "exitFunc"
	readlineInstanceKey = "readlineKey"
	printLogoKey        = "printLogoKey"
)

var commands = []cli.Command{
	{
		Name:        "exit",
		Usage:       "Exit the VM prompt",
		Description: "Exit the VM prompt",
		Action:      handleExit,
	},
	{
		Name:        "ip",
		Usage:       "Show current instruction",
		Description: "Show current instruction",
		Action:      handleIP,
	},
	{
		Name:        "estack",
		Usage:       "Show evaluation stack contents",
		Description: "Show evaluation stack contents, top item first",
		Action:      handleXStack,
	},
	{
		Name:        "astack",
		Usage:       "Show alt stack contents",
		Description: "Show alt stack contents, top item first",
		Action:      handleXStack,
	},
	{
		Name:      "loadbase64",
		Usage:     "Load a base64-encoded script string into the VM",
		UsageText: `loadbase64 <string>`,
		Description: `loadbase64 <string>
<string> is mandatory parameter, example:
> loadbase64 AwAQpdToAAAADBQV9ehtQR1OrVZVhtHtoUHRfoE+agwUzmFvf3Rhfg/EuAVYOvJgKiON9j8TwAwIdHJhbnNmZXIMFDt9NxHG8Mz5sdypA9G/odiW8SOMQWJ9W1I4`,
		Action: handleLoadBase64,
	},
	{
		Name:      "loadhex",
		Usage:     "Load a hex-encoded script string into the VM",
		UsageText: `loadhex <string>`,
		Description: `loadhex <string>
<string> is mandatory parameter, example:
> loadhex 52935166`,
		Action: handleLoadHex,
	},
	{
		Name:        "reset",
		Usage:       "Unload compiled script from the VM and drop storage changes",
		Description: "Unload compiled script from the VM and drop storage changes",
		Action:      handleReset,
	},
	{
		Name:      "run",
		Usage:     "Execute the current loaded script",
		UsageText: `run [<parameter>...]`,
		Description: `run [<parameter>...]

<parameter> are the values pushed onto the evaluation stack before running
the script, the first one ends up on top. Parameters are parsed the same way
the 'run' command of the application does it.
` + cmdargs.ParamsParsingDoc + `

Example:
> run string:foo int:42`,
		Action: handleRun,
	},
	{
		Name:      "step",
		Usage:     "Step (n) instruction in the program",
		UsageText: `step [<n>]`,
		Description: `step [<n>]
<n> is optional parameter to specify number of instructions to run, example:
> step 10`,
		Action: handleStep,
	},
	{
		Name:        "ops",
		Usage:       "Dump opcodes of the current loaded program",
		Description: "Dump opcodes of the current loaded program",
		Action:      handleOps,
	},
	{
		Name:        "gas",
		Usage:       "Show the amount of GAS left and consumed",
		Description: "Show the amount of GAS left and consumed by the current loaded program",
		Action:      handleGas,
	},
	{
		Name:        "events",
		Usage:       "Dump events emitted by the current loaded program",
		Description: "Dump notifications and log messages emitted by the current loaded program",
		Action:      handleEvents,
	},
	{
		Name:      "parse",
		Usage:     "Parse provided argument and convert it into other possible formats",
		UsageText: `parse <arg>`,
		Description: `parse <arg>

<arg> is an argument which is tried to be interpreted as an item of different types
        and converted to other formats. Strings are escaped and output in quotes.`,
		Action: handleParse,
	},
}

var completer *readline.PrefixCompleter

func init() {
	var pcItems []readline.PrefixCompleterInterface
	for _, c := range commands {
		if !c.Hidden {
			var flagsItems []readline.PrefixCompleterInterface
			for _, f := range c.Flags {
				names := strings.SplitN(f.GetName(), ", ", 2) // only long name will be offered
				flagsItems = append(flagsItems, readline.PcItem("--"+names[0]))
			}
			pcItems = append(pcItems, readline.PcItem(c.Name, flagsItems...))
		}
	}
	completer = readline.NewPrefixCompleter(pcItems...)
}

// Various errors.
var (
	ErrMissingParameter = errors.New("missing argument")
	ErrInvalidParameter = errors.New("can't parse argument")
)

// VMCLI object for interacting with the VM.
type VMCLI struct {
	env   *environment
	shell *cli.App
}

// NewWithConfig returns new VMCLI instance using provided config. Scripts
// work with the storage of the configured DB, but the changes they make are
// never persisted.
func NewWithConfig(printLogotype bool, onExit func(int), c *readline.Config, cfg config.Config) (*VMCLI, error) {
	if c.AutoComplete == nil {
		// Autocomplete commands/flags on TAB.
		c.AutoComplete = completer
	}
	l, err := readline.NewEx(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	ctl := cli.NewApp()
	ctl.Name = "VM CLI"

	// Note: need to set empty `ctl.HelpName` and `ctl.UsageText`, otherwise
	// `filepath.Base(os.Args[0])` will be used which is `neo2vm`.
	ctl.HelpName = ""
	ctl.UsageText = ""

	ctl.Writer = l.Stdout()
	ctl.ErrWriter = l.Stderr()
	ctl.Version = config.Version
	ctl.Usage = "NEO2 VM CLI"

	// Override default error handler in order not to exit on error.
	ctl.ExitErrHandler = func(context *cli.Context, err error) {}

	ctl.Commands = commands

	env, err := newEnvironment(cfg, zap.NewNop())
	if err != nil {
		_ = l.Close()
		return nil, cli.NewExitError(err, 1)
	}

	exitF := func(i int) {
		env.Close()
		onExit(i)
	}

	vmcli := VMCLI{
		env:   env,
		shell: ctl,
	}

	vmcli.shell.Metadata = map[string]any{
		envKey:              env,
		contextKey:          (*vm.Context)(nil),
		eventsKey:           newEvents(),
		exitFuncKey:         exitF,
		readlineInstanceKey: l,
		printLogoKey:        printLogotype,
	}
	changePrompt(vmcli.shell)
	return &vmcli, nil
}

func newEvents() *events {
	return &events{
		Notifications: []notification{},
		Logs:          []logMessage{},
	}
}

func getExitFuncFromContext(app *cli.App) func(int) {
	return app.Metadata[exitFuncKey].(func(int))
}

func getReadlineInstanceFromContext(app *cli.App) *readline.Instance {
	return app.Metadata[readlineInstanceKey].(*readline.Instance)
}

func getEnvironmentFromContext(app *cli.App) *environment {
	return app.Metadata[envKey].(*environment)
}

// getVMContextFromContext returns the context of the loaded script, nil if
// there is none.
func getVMContextFromContext(app *cli.App) *vm.Context {
	return app.Metadata[contextKey].(*vm.Context)
}

func getEventsFromContext(app *cli.App) *events {
	return app.Metadata[eventsKey].(*events)
}

func getPrintLogoFromContext(app *cli.App) bool {
	return app.Metadata[printLogoKey].(bool)
}

func setVMContextInContext(app *cli.App, ctx *vm.Context) {
	app.Metadata[contextKey] = ctx
}

func checkVMIsReady(app *cli.App) bool {
	if getVMContextFromContext(app) == nil {
		writeErr(app.Writer, errors.New("VM is not ready: no program loaded"))
		return false
	}
	return true
}

// isRunning checks whether the loaded script can be executed further.
func isRunning(ctx *vm.Context) bool {
	return ctx != nil && ctx.State == vm.NoneState
}

func handleExit(c *cli.Context) error {
	l := getReadlineInstanceFromContext(c.App)
	_ = l.Close()
	exit := getExitFuncFromContext(c.App)
	fmt.Fprintln(c.App.Writer, "Bye!")
	exit(0)
	return nil
}

func handleIP(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	ctx := getVMContextFromContext(c.App)
	if !isRunning(ctx) {
		fmt.Fprintf(c.App.Writer, "execution has finished (%s)\n", ctx.State)
		return nil
	}
	ins, err := ctx.NextInstruction()
	if err != nil {
		fmt.Fprintln(c.App.Writer, "execution has finished")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "instruction pointer at %d (%s)\n", ins.Pos, ins.Op)
	return nil
}

// dumpStack returns JSON representation of the stack items, top first.
func dumpStack(items []stackitem.Item) string {
	params := make([]smartcontract.Parameter, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		params = append(params, smartcontract.ParameterFromStackItemLenient(items[i]))
	}
	b, err := json.MarshalIndent(params, "", "    ")
	if err != nil {
		return fmt.Sprintf("failed to marshal stack: %s", err)
	}
	return string(b)
}

func handleXStack(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	ctx := getVMContextFromContext(c.App)
	var stackDump string
	switch c.Command.Name {
	case "estack":
		stackDump = dumpStack(ctx.Stack)
	case "astack":
		stackDump = dumpStack(ctx.StackAlt)
	default:
		return errors.New("unknown stack")
	}
	fmt.Fprintln(c.App.Writer, stackDump)
	return nil
}

func handleLoadBase64(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return fmt.Errorf("%w: <string>", ErrMissingParameter)
	}
	b, err := base64.StdEncoding.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	return loadScript(c, b)
}

func handleLoadHex(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return fmt.Errorf("%w: <string>", ErrMissingParameter)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	return loadScript(c, b)
}

// loadScript resets the state and loads the script into the VM. It's
// executed with the Application trigger and CheckWitness succeeds for any
// hash.
func loadScript(c *cli.Context, script []byte) error {
	if err := resetState(c.App); err != nil {
		return err
	}
	env := getEnvironmentFromContext(c.App)
	ev := getEventsFromContext(c.App)
	ctx := env.engine.LoadScript(vm.Script{Code: script}, &vm.ExecutionInit{
		Container:         container.NewTransaction(script, 0),
		Trigger:           trigger.Application,
		Listeners:         ev.listeners(),
		SkipWitnessVerify: true,
	}, int64(env.cfg.FreeGas), vm.Options{})
	setVMContextInContext(c.App, &ctx)

	ins, err := vm.Disassemble(script)
	fmt.Fprintf(c.App.Writer, "READY: loaded %d instructions\n", len(ins))
	if err != nil {
		writeErr(c.App.ErrWriter, fmt.Errorf("malformed script: %w", err))
	}
	changePrompt(c.App)
	return nil
}

func handleReset(c *cli.Context) error {
	if err := resetState(c.App); err != nil {
		return err
	}
	changePrompt(c.App)
	return nil
}

// resetState unloads the script, drops the events and the storage changes.
func resetState(app *cli.App) error {
	if err := getEnvironmentFromContext(app).reset(); err != nil {
		return err
	}
	setVMContextInContext(app, nil)
	app.Metadata[eventsKey] = newEvents()
	return nil
}

func handleRun(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	ctx := getVMContextFromContext(c.App)
	if !isRunning(ctx) {
		return fmt.Errorf("execution has finished (%s), load the script again", ctx.State)
	}
	args := c.Args()
	if len(args) != 0 {
		items, err := parseArgs(args)
		if err != nil {
			return err
		}
		for i := len(items) - 1; i >= 0; i-- {
			ctx.Push(items[i])
		}
	}
	runVMWithHandling(c, -1)
	changePrompt(c.App)
	return nil
}

// parseArgs converts the parameters to the stack items.
func parseArgs(args []string) ([]stackitem.Item, error) {
	_, params, err := cmdargs.ParseParams(args, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	items := make([]stackitem.Item, len(params))
	for i := range params {
		items[i], err = params[i].ToStackItem()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
	}
	return items, nil
}

// runVMWithHandling executes n instructions (or until the end if n is
// negative) and prints the state messages.
func runVMWithHandling(c *cli.Context, n int) {
	env := getEnvironmentFromContext(c.App)
	ctx := *getVMContextFromContext(c.App)
	if n < 0 {
		ctx = env.engine.Run(ctx)
	} else {
		for i := 0; i < n && ctx.State == vm.NoneState; i++ {
			ctx = env.engine.Step(ctx)
		}
	}
	setVMContextInContext(c.App, &ctx)

	var (
		message string
		dumpNtf bool
	)
	switch ctx.State {
	case vm.FaultState:
		writeErr(c.App.ErrWriter, ctx.Err())
		dumpNtf = true
	case vm.HaltState:
		message = dumpStack(ctx.Stack)
		dumpNtf = true
	default:
		if ins, err := ctx.NextInstruction(); err == nil {
			message = fmt.Sprintf("at instruction %d (%s)", ins.Pos, ins.Op)
		}
	}
	if dumpNtf {
		e, err := dumpEvents(c.App)
		if err == nil && len(e) != 0 {
			if message != "" {
				message += "\n"
			}
			message += "Events:\n" + e
		}
	}
	if message != "" {
		fmt.Fprintln(c.App.Writer, message)
	}
}

func handleStep(c *cli.Context) error {
	var (
		n   = 1
		err error
	)

	if !checkVMIsReady(c.App) {
		return nil
	}
	if ctx := getVMContextFromContext(c.App); !isRunning(ctx) {
		return fmt.Errorf("execution has finished (%s), load the script again", ctx.State)
	}
	args := c.Args()
	if len(args) > 0 {
		n, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
		if n <= 0 {
			return fmt.Errorf("%w: positive number expected", ErrInvalidParameter)
		}
	}
	runVMWithHandling(c, n)
	changePrompt(c.App)
	return nil
}

func handleOps(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	ctx := getVMContextFromContext(c.App)
	current := -1
	if isRunning(ctx) {
		current = ctx.PC
	}
	out := bytes.NewBuffer(nil)
	err := vm.PrintOps(out, ctx.Code, current)
	fmt.Fprint(c.App.Writer, out.String())
	if err != nil {
		return fmt.Errorf("malformed script: %w", err)
	}
	return nil
}

func handleGas(c *cli.Context) error {
	if !checkVMIsReady(c.App) {
		return nil
	}
	env := getEnvironmentFromContext(c.App)
	ctx := getVMContextFromContext(c.App)
	fmt.Fprintf(c.App.Writer, "GAS left: %s, consumed: %s\n",
		util.Fixed8(ctx.GasLeft), env.cfg.FreeGas-util.Fixed8(ctx.GasLeft))
	return nil
}

func changePrompt(app *cli.App) {
	ctx := getVMContextFromContext(app)
	l := getReadlineInstanceFromContext(app)
	if isRunning(ctx) && ctx.PC >= 0 && ctx.PC < len(ctx.Code) {
		l.SetPrompt(fmt.Sprintf("\033[32mNEO2-VM %d >\033[0m ", ctx.PC))
	} else {
		l.SetPrompt("\033[32mNEO2-VM >\033[0m ")
	}
}

func handleEvents(c *cli.Context) error {
	e, err := dumpEvents(c.App)
	if err != nil {
		writeErr(c.App.ErrWriter, err)
		return nil
	}
	fmt.Fprintln(c.App.Writer, e)
	return nil
}

func dumpEvents(app *cli.App) (string, error) {
	ev := getEventsFromContext(app)
	if len(ev.Notifications) == 0 && len(ev.Logs) == 0 {
		return "", nil
	}
	b, err := json.MarshalIndent(ev, "", "\t")
	if err != nil {
		return "", fmt.Errorf("failed to marshal events: %w", err)
	}
	return string(b), nil
}

// Run waits for user input from Stdin and executes the passed command.
func (c *VMCLI) Run() error {
	if getPrintLogoFromContext(c.shell) {
		printLogo(c.shell.Writer)
	}
	l := getReadlineInstanceFromContext(c.shell)
	for {
		line, err := l.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil // OK, stop execution.
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err) // Critical error, stop execution.
		}

		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(c.shell.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue // Not a critical error, continue execution.
		}

		err = c.shell.Run(append([]string{"vm"}, args...))
		if err != nil {
			writeErr(c.shell.ErrWriter, err) // Various command/flags parsing errors and execution errors.
		}
	}
}

func handleParse(c *cli.Context) error {
	res, err := Parse(c.Args())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, res)
	return nil
}

// Parse converts it's argument to other formats.
func Parse(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingParameter
	}
	arg := args[0]
	buf := bytes.NewBuffer(nil)
	if val, err := strconv.ParseInt(arg, 10, 64); err == nil {
		bs := bigint.ToBytes(big.NewInt(val))
		buf.WriteString(fmt.Sprintf("Integer to Hex\t%s\n", hex.EncodeToString(bs)))
		buf.WriteString(fmt.Sprintf("Integer to Base64\t%s\n", base64.StdEncoding.EncodeToString(bs)))
	}
	noX := strings.TrimPrefix(arg, "0x")
	if rawStr, err := hex.DecodeString(noX); err == nil {
		if val, err := util.Uint160DecodeBytesBE(rawStr); err == nil {
			buf.WriteString(fmt.Sprintf("BE ScriptHash to Address\t%s\n", address.Uint160ToString(val)))
			buf.WriteString(fmt.Sprintf("LE ScriptHash to Address\t%s\n", address.Uint160ToString(val.Reverse())))
		}
		if pub, err := keys.NewPublicKeyFromBytes(rawStr); err == nil {
			sh := pub.GetScriptHash()
			buf.WriteString(fmt.Sprintf("Public key to BE ScriptHash\t%s\n", sh))
			buf.WriteString(fmt.Sprintf("Public key to LE ScriptHash\t%s\n", sh.Reverse()))
			buf.WriteString(fmt.Sprintf("Public key to Address\t%s\n", address.Uint160ToString(sh)))
		}
		swapped := slices.Clone(rawStr)
		slices.Reverse(swapped)
		buf.WriteString(fmt.Sprintf("Hex to String\t%s\n", fmt.Sprintf("%q", string(rawStr))))
		buf.WriteString(fmt.Sprintf("Hex to Integer\t%s\n", bigint.FromBytes(rawStr)))
		buf.WriteString(fmt.Sprintf("Swap Endianness\t%s\n", hex.EncodeToString(swapped)))
	}
	if addr, err := address.StringToUint160(arg); err == nil {
		buf.WriteString(fmt.Sprintf("Address to BE ScriptHash\t%s\n", addr))
		buf.WriteString(fmt.Sprintf("Address to LE ScriptHash\t%s\n", addr.Reverse()))
		buf.WriteString(fmt.Sprintf("Address to Base64 (BE)\t%s\n", base64.StdEncoding.EncodeToString(addr.BytesBE())))
		buf.WriteString(fmt.Sprintf("Address to Base64 (LE)\t%s\n", base64.StdEncoding.EncodeToString(addr.BytesLE())))
	}
	if rawStr, err := base64.StdEncoding.DecodeString(arg); err == nil {
		buf.WriteString(fmt.Sprintf("Base64 to String\t%s\n", fmt.Sprintf("%q", string(rawStr))))
		buf.WriteString(fmt.Sprintf("Base64 to BigInteger\t%s\n", bigint.FromBytes(rawStr)))
		if u, err := util.Uint160DecodeBytesBE(rawStr); err == nil {
			buf.WriteString(fmt.Sprintf("Base64 to BE ScriptHash\t%s\n", u.String()))
			buf.WriteString(fmt.Sprintf("Base64 to LE ScriptHash\t%s\n", u.StringLE()))
			buf.WriteString(fmt.Sprintf("Base64 to Address (BE)\t%s\n", address.Uint160ToString(u)))
			buf.WriteString(fmt.Sprintf("Base64 to Address (LE)\t%s\n", address.Uint160ToString(u.Reverse())))
		}
	}

	buf.WriteString(fmt.Sprintf("String to Hex\t%s\n", hex.EncodeToString([]byte(arg))))
	buf.WriteString(fmt.Sprintf("String to Base64\t%s\n", base64.StdEncoding.EncodeToString([]byte(arg))))

	out := buf.Bytes()
	buf = bytes.NewBuffer(nil)
	w := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	if _, err := w.Write(out); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const logo = `
    _   ____________  ___      _    ____  ___
   / | / / ____/ __ \|__ \    | |  / /  |/  /
  /  |/ / __/ / / / /__/ /____| | / / /|_/ /
 / /|  / /___/ /_/ // __/_____/ |/ / /  / /
/_/ |_/_____/\____//____/     |___/_/  /_/
`

func printLogo(w io.Writer) {
	fmt.Fprint(w, logo)
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}
