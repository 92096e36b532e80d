package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/emit"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func subSyscall(_ *Engine, _ *Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	a, err := args[1].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	b, err := args[0].TryInteger()
	if err != nil {
		return nil, nil, err
	}
	return []stackitem.Item{stackitem.Make(a.Int64() - b.Int64())}, nil, nil
}

func TestSyscallID(t *testing.T) {
	// SHA256("System.Runtime.Log") starts with 0xcf 0xe7 0x47 0x96.
	require.Equal(t, uint32(0x9647e7cf), SyscallID("System.Runtime.Log"))
}

func TestSyscallRegister(t *testing.T) {
	noop := func(_ *Engine, _ *Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
		return nil, nil, nil
	}
	testCases := map[string]Syscall{
		"empty name":     {Func: noop},
		"long name":      {Name: strings.Repeat("a", MaxSyscallNameLength+1), Func: noop},
		"negative arity": {Name: "Test.Arity", In: -1, Func: noop},
		"negative fee":   {Name: "Test.Fee", Fee: -1, Func: noop},
		"no function":    {Name: "Test.Func"},
	}
	for name, sc := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, NewSyscallTable().Register(sc))
		})
	}

	table := NewSyscallTable()
	require.NoError(t, table.Register(Syscall{Name: "Test.Noop", Func: noop}))
	require.Error(t, table.Register(Syscall{Name: "Test.Noop", Func: noop}))

	require.NoError(t, table.Alias("Old.Noop", "Test.Noop"))
	require.Error(t, table.Alias("Old.Noop", "Test.Noop"))
	require.Error(t, table.Alias("", "Test.Noop"))
	err := table.Alias("Old.Missing", "Test.Missing")
	require.True(t, errors.Is(err, ErrUnknownSyscall))

	sc, ok := table.ByName("Old.Noop")
	require.True(t, ok)
	require.Equal(t, "Test.Noop", sc.Name)
	_, ok = table.ByID(SyscallID("Test.Noop"))
	require.True(t, ok)
	_, ok = table.ByID(SyscallID("Old.Noop"))
	require.False(t, ok)
	require.Equal(t, []string{"Old.Noop", "Test.Noop"}, table.Names())
}

func TestSyscallExecution(t *testing.T) {
	table := NewSyscallTable()
	require.NoError(t, table.Register(Syscall{Name: "Test.Sub", In: 2, Out: 1, Fee: 500, Func: subSyscall}))
	require.NoError(t, table.Alias("Neo.Sub", "Test.Sub"))
	e := New(WithSyscalls(table))

	for _, name := range []string{"Test.Sub", "Neo.Sub"} {
		w := io.NewBufBinWriter()
		emit.Int(w.BinWriter, 5)
		emit.Int(w.BinWriter, 3)
		emit.Syscall(w.BinWriter, name)
		require.NoError(t, w.Err)
		ctx := runScript(e, w.Bytes())
		require.Equal(t, HaltState, ctx.State, ctx.ErrorMessage)
		require.Equal(t, []int64{2}, stackInts(t, ctx.Stack))
		require.Equal(t, testGas-30-30-500, ctx.GasLeft)
	}

	w := io.NewBufBinWriter()
	emit.Int(w.BinWriter, 5)
	emit.Int(w.BinWriter, 3)
	emit.SyscallID(w.BinWriter, SyscallID("Test.Sub"))
	require.NoError(t, w.Err)
	ctx := runScript(e, w.Bytes())
	require.Equal(t, HaltState, ctx.State, ctx.ErrorMessage)
	require.Equal(t, []int64{2}, stackInts(t, ctx.Stack))

	w = io.NewBufBinWriter()
	emit.Int(w.BinWriter, 5)
	emit.Syscall(w.BinWriter, "Test.Sub")
	require.NoError(t, w.Err)
	checkFailed(t, runScript(e, w.Bytes()), ErrStackUnderflow)

	w = io.NewBufBinWriter()
	emit.SyscallID(w.BinWriter, SyscallID("Neo.Sub"))
	require.NoError(t, w.Err)
	checkFailed(t, runScript(e, w.Bytes()), ErrUnknownSyscall)
}

func TestSyscallPrice(t *testing.T) {
	table := NewSyscallTable()
	require.NoError(t, table.Register(Syscall{
		Name: "Test.Priced",
		In:   1,
		Price: func(ctx *Context) (int64, error) {
			b, err := ctx.Peek(0).TryBytes()
			if err != nil {
				return 0, err
			}
			return int64(len(b)) * 1000, nil
		},
		Func: func(_ *Engine, _ *Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			return nil, nil, nil
		},
	}))
	e := New(WithSyscalls(table))

	w := io.NewBufBinWriter()
	emit.Bytes(w.BinWriter, []byte("abc"))
	emit.Syscall(w.BinWriter, "Test.Priced")
	require.NoError(t, w.Err)
	ctx := runScript(e, w.Bytes())
	require.Equal(t, HaltState, ctx.State, ctx.ErrorMessage)
	require.Equal(t, testGas-120-3000, ctx.GasLeft)

	ctx = e.ExecuteScript(Script{Code: ctx.Code}, nil, 120+2999, Options{})
	checkFailed(t, ctx, ErrOutOfGas)
}

func TestSyscallError(t *testing.T) {
	table := NewSyscallTable()
	require.NoError(t, table.Register(Syscall{
		Name: "Test.Fail",
		Func: func(_ *Engine, _ *Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			return nil, nil, errors.New("storage is unavailable")
		},
	}))
	w := io.NewBufBinWriter()
	emit.Syscall(w.BinWriter, "Test.Fail")
	require.NoError(t, w.Err)
	ctx := runScript(New(WithSyscalls(table)), w.Bytes())
	checkFailed(t, ctx, ErrVM)
	require.Contains(t, ctx.ErrorMessage, "storage is unavailable")
}
