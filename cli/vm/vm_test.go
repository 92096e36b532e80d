package vm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/config"
	"github.com/nspcc-dev/neo2-vm/pkg/core/dao"
	"github.com/nspcc-dev/neo2-vm/pkg/core/state"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/emit"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

type cliResult struct {
	State         string            `json:"state"`
	Stack         []json.RawMessage `json:"stack"`
	StackAlt      []json.RawMessage `json:"altstack"`
	GasConsumed   int64             `json:"gasconsumed"`
	Error         string            `json:"error"`
	Notifications []json.RawMessage `json:"notifications"`
	Logs          []logMessage      `json:"logs"`
	Storage       []json.RawMessage `json:"storage"`
}

func runApp(t *testing.T, args ...string) (string, error) {
	app := cli.NewApp()
	app.Commands = NewCommands()
	buf := bytes.NewBuffer(nil)
	app.Writer = buf
	app.ErrWriter = buf
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"neo2vm"}, args...))
	return buf.String(), err
}

func runJSON(t *testing.T, args ...string) (cliResult, error) {
	out, err := runApp(t, append([]string{"run"}, args...)...)
	var res cliResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res, err
}

func TestRun(t *testing.T) {
	t.Run("hex", func(t *testing.T) {
		res, err := runJSON(t, "-i", "51529366")
		require.NoError(t, err)
		require.Equal(t, "HALT", res.State)
		require.Len(t, res.Stack, 1)
		require.JSONEq(t, `{"type":"Integer","value":"3"}`, string(res.Stack[0]))
		require.Empty(t, res.StackAlt)
		require.Empty(t, res.Storage)
	})
	t.Run("base64 with 0x hex", func(t *testing.T) {
		res, err := runJSON(t, "-i", "UVKTZg==")
		require.NoError(t, err)
		require.Equal(t, "HALT", res.State)

		res, err = runJSON(t, "-i", "0x51529366")
		require.NoError(t, err)
		require.Equal(t, "HALT", res.State)
	})
	t.Run("several scripts", func(t *testing.T) {
		res, err := runJSON(t, "-i", "51", "-i", "52", "-i", "936b")
		require.NoError(t, err)
		require.Equal(t, "HALT", res.State)
		require.Empty(t, res.Stack)
		require.Len(t, res.StackAlt, 1)
		require.JSONEq(t, `{"type":"Integer","value":"3"}`, string(res.StackAlt[0]))
	})
	t.Run("fault", func(t *testing.T) {
		res, err := runJSON(t, "-i", "51f0")
		require.Error(t, err)
		require.Equal(t, "FAULT", res.State)
		require.NotEmpty(t, res.Error)
	})
	t.Run("out of gas", func(t *testing.T) {
		cfgPath := writeConfig(t, "VM:\n  FreeGas: \"0.0001\"\n")
		// Endless loop.
		res, err := runJSON(t, "--config-file", cfgPath, "-i", "620000")
		require.Error(t, err)
		require.Equal(t, "FAULT", res.State)
		require.Equal(t, int64(0), res.GasConsumed)

		res, err = runJSON(t, "--config-file", cfgPath, "-g", "0.001", "-i", "620000")
		require.Error(t, err)
		require.Equal(t, "FAULT", res.State)
		require.Positive(t, res.GasConsumed)
		require.LessOrEqual(t, res.GasConsumed, int64(100000))
	})
	t.Run("logs", func(t *testing.T) {
		script := makeScript(t, func(w *io.BinWriter) {
			emit.String(w, "hello")
			emit.Syscall(w, "Neo.Runtime.Log")
			emit.String(w, "event")
			emit.Syscall(w, "Neo.Runtime.Notify")
		})
		res, err := runJSON(t, "-i", fmt.Sprintf("%x", script))
		require.NoError(t, err)
		require.Len(t, res.Logs, 1)
		require.Equal(t, "hello", res.Logs[0].Message)
		require.Equal(t, hash.Hash160(script), res.Logs[0].Contract)
		require.Len(t, res.Notifications, 1)
	})
	t.Run("bad arguments", func(t *testing.T) {
		_, err := runApp(t, "run")
		require.ErrorContains(t, err, errNoScripts.Error())
		_, err = runApp(t, "run", "-i", "xyz!")
		require.Error(t, err)
		_, err = runApp(t, "run", "-i", "51", "-t", "Unknown")
		require.Error(t, err)
		_, err = runApp(t, "run", "-i", "51", "--", "notasigner")
		require.Error(t, err)
		_, err = runApp(t, "run", "-c", util.Uint160{1}.StringLE())
		require.ErrorContains(t, err, "no method specified")
		_, err = runApp(t, "run", "-c", util.Uint160{1}.StringLE(), "method", "[", "1")
		require.ErrorContains(t, err, "unable to parse parameters")
	})
}

func makeScript(t *testing.T, f func(w *io.BinWriter)) []byte {
	buf := io.NewBufBinWriter()
	f(buf.BinWriter)
	require.NoError(t, buf.Err)
	return buf.Bytes()
}

// writeConfig writes the configuration file and returns its path.
func writeConfig(t *testing.T, data string) string {
	cfgPath := filepath.Join(t.TempDir(), "neo2vm.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0644))
	return cfgPath
}

func writeBoltConfig(t *testing.T) (string, config.Config) {
	cfgPath := writeConfig(t, fmt.Sprintf(`ApplicationConfiguration:
  LogLevel: error
  DBConfiguration:
    Type: boltdb
    BoltDBOptions:
      FilePath: %q
`, filepath.Join(t.TempDir(), "chain.bolt")))
	cfg, err := config.LoadFile(cfgPath)
	require.NoError(t, err)
	return cfgPath, cfg
}

// withDAO opens the configured DB and persists the changes made by f.
func withDAO(t *testing.T, cfg config.Config, f func(d *dao.Simple)) {
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	require.NoError(t, err)
	d := dao.NewSimple(store, 0)
	f(d)
	_, err = d.Persist()
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRunContract(t *testing.T) {
	cfgPath, cfg := writeBoltConfig(t)
	// Drop the method and the arguments, store the value and return 5.
	contract := makeScript(t, func(w *io.BinWriter) {
		emit.Opcode(w, opcode.DROP)
		emit.Opcode(w, opcode.DROP)
		emit.String(w, "v")
		emit.String(w, "k")
		emit.Syscall(w, "Neo.Storage.GetContext")
		emit.Syscall(w, "Neo.Storage.Put")
		emit.Int(w, 5)
		emit.Opcode(w, opcode.RET)
	})
	h := hash.Hash160(contract)
	withDAO(t, cfg, func(d *dao.Simple) {
		require.NoError(t, d.PutContract(&state.Contract{
			Script:     contract,
			Properties: smartcontract.HasStorage,
		}))
	})

	signer := util.Uint160{1, 2, 3}
	res, err := runJSON(t, "--config-file", cfgPath, "-c", h.StringLE(), "main", "42", "[", "a", "]", "--", signer.StringLE())
	require.NoError(t, err)
	require.Equal(t, "HALT", res.State, res.Error)
	require.Len(t, res.Stack, 1)
	require.JSONEq(t, `{"type":"Integer","value":"5"}`, string(res.Stack[0]))
	require.Len(t, res.Storage, 1)

	withDAO(t, cfg, func(d *dao.Simple) {
		si := d.GetStorageItem(h, []byte("k"))
		require.NotNil(t, si)
		require.Equal(t, []byte("v"), si.Value)
	})

	t.Run("missing contract", func(t *testing.T) {
		res, err := runJSON(t, "--config-file", cfgPath, "-c", util.Uint160{9}.StringLE(), "main")
		require.Error(t, err)
		require.Equal(t, "FAULT", res.State)
	})
}

func TestDisasm(t *testing.T) {
	out, err := runApp(t, "disasm", "-i", "51529366")
	require.NoError(t, err)
	require.Contains(t, out, "INDEX")
	require.Contains(t, out, "PUSH1")
	require.Contains(t, out, "PUSH2")
	require.Contains(t, out, "ADD")
	require.Contains(t, out, "RET")

	_, err = runApp(t, "disasm", "-i", "0501")
	require.ErrorContains(t, err, "malformed script")
	_, err = runApp(t, "disasm", "-i", "xyz!")
	require.Error(t, err)
	_, err = runApp(t, "disasm", "-i", "51", "extra")
	require.Error(t, err)
}

func TestDecodeScript(t *testing.T) {
	for _, s := range []string{"51529366", "0x51529366", "UVKTZg=="} {
		b, err := decodeScript(s)
		require.NoError(t, err, s)
		require.Equal(t, []byte{0x51, 0x52, 0x93, 0x66}, b)
	}
	_, err := decodeScript("not a script")
	require.Error(t, err)
}
