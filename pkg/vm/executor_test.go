package vm

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestExecuteEmpty(t *testing.T) {
	res := New().Execute(ExecuteParams{})
	require.Equal(t, HaltState, res.State)
	require.NotNil(t, res.Stack)
	require.NotNil(t, res.StackAlt)
	require.Empty(t, res.Stack)
	require.Zero(t, res.GasCost)
}

func TestExecuteChained(t *testing.T) {
	res := New().Execute(ExecuteParams{
		Scripts: []Script{
			{Code: makeProgram(opcode.PUSH1), PushOnly: true},
			{Code: makeProgram(opcode.PUSH2, opcode.ADD)},
		},
		Trigger: trigger.Application,
	})
	require.Equal(t, HaltState, res.State, res.ErrorMessage)
	require.Len(t, res.Stack, 1)
	require.Equal(t, smartcontract.IntegerType, res.Stack[0].Type)
	require.Equal(t, int64(3), res.Stack[0].Value.(*big.Int).Int64())
	require.Equal(t, int64(260), res.GasCost)
	require.Zero(t, res.GasConsumed)
}

func TestExecuteGasConsumed(t *testing.T) {
	e := New(WithFreeGas(100))
	res := e.Execute(ExecuteParams{
		Scripts: []Script{{Code: makeProgram(opcode.PUSH1, opcode.PUSH2, opcode.ADD)}},
		Gas:     1000,
	})
	require.Equal(t, HaltState, res.State)
	require.Equal(t, int64(260), res.GasCost)
	require.Equal(t, int64(160), res.GasConsumed)

	// Gas is shared by all the scripts.
	res = e.Execute(ExecuteParams{
		Scripts: []Script{
			{Code: makeProgram(opcode.PUSH1, opcode.PUSH2)},
			{Code: makeProgram(opcode.ADD)},
		},
		Gas: 159,
	})
	require.Equal(t, FaultState, res.State)
	require.Contains(t, res.ErrorMessage, ErrOutOfGas.Error())
	require.Equal(t, int64(60), res.GasCost)
	require.Zero(t, res.GasConsumed)
}

func TestExecuteStopsOnFault(t *testing.T) {
	res := New().Execute(ExecuteParams{
		Scripts: []Script{
			{Code: makeProgram(opcode.PUSH5, opcode.THROW)},
			{Code: makeProgram(opcode.PUSH1)},
		},
	})
	require.Equal(t, FaultState, res.State)
	require.Contains(t, res.ErrorMessage, ErrThrow.Error())
	require.Len(t, res.Stack, 1)
	// The failed instruction is not charged.
	require.Equal(t, int64(30), res.GasCost)
}

func TestExecuteNestedFaultCharged(t *testing.T) {
	body := []byte{byte(opcode.PUSH5)}
	for i := 0; i < 10; i++ {
		body = append(body, byte(opcode.PUSH1), byte(opcode.DROP))
	}
	body = append(body, byte(opcode.THROW))
	const spent = 22000 + 30 + 10*(30+60)

	t.Run("CALL", func(t *testing.T) {
		prog := makeProgram(opcode.CALL, byte(4), byte(0), opcode.RET, body)
		res := New(WithFreeGas(0)).Execute(ExecuteParams{
			Scripts: []Script{{Code: prog}},
			Gas:     1_000_000,
		})
		require.Equal(t, FaultState, res.State)
		require.Contains(t, res.ErrorMessage, ErrThrow.Error())
		require.Equal(t, int64(spent), res.GasCost)
		require.Equal(t, int64(spent), res.GasConsumed)
		require.Len(t, res.Stack, 1)
		require.Equal(t, int64(5), res.Stack[0].Value.(*big.Int).Int64())
	})
	t.Run("APPCALL", func(t *testing.T) {
		scripts := make(scriptMap)
		h := scripts.add(body, false)
		prog := appCallProgram(t, h, false, nil, nil)
		res := New(WithFreeGas(0), WithScriptGetter(scripts)).Execute(ExecuteParams{
			Scripts: []Script{{Code: prog}},
			Gas:     1_000_000,
		})
		require.Equal(t, FaultState, res.State)
		require.Equal(t, int64(spent), res.GasConsumed)
		require.Len(t, res.Stack, 1)
		require.Equal(t, int64(5), res.Stack[0].Value.(*big.Int).Int64())
	})
}

func TestExecuteSharedItemsResult(t *testing.T) {
	prog := []byte{byte(opcode.PUSH1)}
	for i := 0; i < 40; i++ {
		prog = append(prog, byte(opcode.DUP), byte(opcode.PUSH2), byte(opcode.PACK))
	}
	res := New().Execute(ExecuteParams{Scripts: []Script{{Code: prog}}})
	require.Equal(t, FaultState, res.State)
	require.Contains(t, res.ErrorMessage, smartcontract.ErrTooManyItems.Error())
	require.Equal(t, []smartcontract.Parameter{{Type: smartcontract.ByteArrayType, Value: []byte{}}}, res.Stack)
	require.Empty(t, res.StackAlt)
}

func TestExecutePushOnly(t *testing.T) {
	res := New().Execute(ExecuteParams{
		Scripts: []Script{
			{Code: makeProgram(opcode.PUSH1, opcode.DUP), PushOnly: true},
			{Code: makeProgram(opcode.ADD)},
		},
	})
	require.Equal(t, FaultState, res.State)
	require.Contains(t, res.ErrorMessage, ErrPushOnly.Error())
}

func TestExecuteScriptHashes(t *testing.T) {
	var (
		depths  []int
		calling []util.Uint160
		entry   []util.Uint160
	)
	sc := NewSyscallTable()
	require.NoError(t, sc.Register(Syscall{
		Name: "Test.Record",
		Func: func(_ *Engine, ctx *Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			depths = append(depths, ctx.Depth)
			calling = append(calling, ctx.CallingScriptHash)
			entry = append(entry, ctx.EntryScriptHash)
			return nil, nil, nil
		},
	}))
	first := makeProgram(opcode.SYSCALL, byte(11), "Test.Record")
	second := makeProgram(opcode.PUSH1, opcode.SYSCALL, byte(11), "Test.Record")
	res := New(WithSyscalls(sc)).Execute(ExecuteParams{
		Scripts: []Script{{Code: first}, {Code: second}},
	})
	require.Equal(t, HaltState, res.State, res.ErrorMessage)
	require.Equal(t, []int{2, 1}, depths)
	require.Equal(t, []util.Uint160{hash.Hash160(second), {}}, calling)
	require.Equal(t, []util.Uint160{hash.Hash160(second), hash.Hash160(second)}, entry)
}

func TestExecuteResultStacks(t *testing.T) {
	res := New().Execute(ExecuteParams{
		Scripts: []Script{{Code: makeProgram(
			opcode.PUSH1, opcode.TOALTSTACK,
			opcode.PUSH2, opcode.PUSH3, opcode.PUSH2, opcode.PACK,
			opcode.PUSHNULL, opcode.NEWMAP)}},
	})
	require.Equal(t, HaltState, res.State, res.ErrorMessage)
	require.Len(t, res.Stack, 3)
	require.Equal(t, smartcontract.MapType, res.Stack[0].Type)
	require.Equal(t, smartcontract.VoidType, res.Stack[1].Type)
	require.Equal(t, smartcontract.ArrayType, res.Stack[2].Type)
	require.Len(t, res.StackAlt, 1)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "HALT", raw["state"])
	require.Contains(t, raw, "altstack")
	require.NotContains(t, raw, "error")
}

func TestExecuteRecursiveResult(t *testing.T) {
	// a = [0]; a[0] = a
	prog := makeProgram(opcode.PUSH1, opcode.NEWARRAY, opcode.DUP, opcode.PUSH0, opcode.PUSH2, opcode.PICK, opcode.SETITEM)
	res := New().Execute(ExecuteParams{Scripts: []Script{{Code: prog}}})
	require.Equal(t, FaultState, res.State)
	require.Len(t, res.Stack, 1)
	require.Equal(t, smartcontract.ByteArrayType, res.Stack[0].Type)
	require.Equal(t, []byte{}, res.Stack[0].Value)
}

func TestExecuteMetrics(t *testing.T) {
	halts := testutil.ToFloat64(executions.WithLabelValues(HaltState.String()))
	faults := testutil.ToFloat64(executions.WithLabelValues(FaultState.String()))
	steps := testutil.ToFloat64(opcodesExecuted)
	gas := testutil.ToFloat64(gasConsumed)

	e := New(WithFreeGas(0))
	e.Execute(ExecuteParams{Scripts: []Script{{Code: makeProgram(opcode.PUSH1, opcode.PUSH2, opcode.ADD)}}, Gas: testGas})
	e.Execute(ExecuteParams{Scripts: []Script{{Code: makeProgram(opcode.THROW)}}, Gas: testGas})

	require.Equal(t, halts+1, testutil.ToFloat64(executions.WithLabelValues(HaltState.String())))
	require.Equal(t, faults+1, testutil.ToFloat64(executions.WithLabelValues(FaultState.String())))
	require.Equal(t, steps+4, testutil.ToFloat64(opcodesExecuted))
	require.Equal(t, gas+260, testutil.ToFloat64(gasConsumed))
}

func TestExecuteListeners(t *testing.T) {
	var logged []string
	sc := NewSyscallTable()
	require.NoError(t, sc.Register(Syscall{
		Name: "Test.Log",
		In:   1,
		Func: func(_ *Engine, ctx *Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			b, err := args[0].TryBytes()
			if err != nil {
				return nil, nil, err
			}
			ctx.Init.Listeners.OnLog(ctx.ScriptHash, string(b))
			return nil, nil, nil
		},
	}))
	res := New(WithSyscalls(sc)).Execute(ExecuteParams{
		Scripts: []Script{{Code: makeProgram(opcode.PUSHBYTES2, "hi", opcode.SYSCALL, byte(8), "Test.Log")}},
		Listeners: Listeners{OnLog: func(_ util.Uint160, msg string) {
			logged = append(logged, msg)
		}},
	})
	require.Equal(t, HaltState, res.State, res.ErrorMessage)
	require.Equal(t, []string{"hi"}, logged)
}
