package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// DefaultSyscallFee is the syscall price used when nothing else is
// specified (0.001 GAS).
const DefaultSyscallFee int64 = 100000

// SyscallFunc implements a syscall, arguments and results follow the OpInvoke
// conventions.
type SyscallFunc func(e *Engine, ctx *Context, args, argsAlt []stackitem.Item) (results, resultsAlt []stackitem.Item, err error)

// Syscall describes an interop function.
type Syscall struct {
	Name       string
	In, InAlt  int
	Out        int
	OutAlt     int
	Invocation int
	// Fee is the syscall price in datoshi.
	Fee int64
	// Price computes the fee from the context when set, the arguments are
	// still on the stack when it's called.
	Price func(ctx *Context) (int64, error)
	Func  SyscallFunc
}

// SyscallTable is a registry of syscalls. It's not safe for concurrent
// modification, all the syscalls are to be registered before the execution.
type SyscallTable struct {
	byName map[string]*Syscall
	byID   map[uint32]*Syscall
}

// NewSyscallTable returns an empty syscall table.
func NewSyscallTable() *SyscallTable {
	return &SyscallTable{
		byName: make(map[string]*Syscall),
		byID:   make(map[uint32]*Syscall),
	}
}

// SyscallID returns the interop ID of the syscall name: the first four bytes
// of its SHA256 read as a little-endian number.
func SyscallID(name string) uint32 {
	h := hash.Sha256([]byte(name))
	return binary.LittleEndian.Uint32(h[:4])
}

// Register adds a syscall to the table.
func (t *SyscallTable) Register(sc Syscall) error {
	switch {
	case len(sc.Name) == 0:
		return errors.New("empty syscall name")
	case len(sc.Name) > MaxSyscallNameLength:
		return fmt.Errorf("syscall name is too long: %d", len(sc.Name))
	case sc.In < 0 || sc.InAlt < 0 || sc.Out < 0 || sc.OutAlt < 0 || sc.Invocation < 0:
		return fmt.Errorf("%s: negative arity", sc.Name)
	case sc.Fee < 0:
		return fmt.Errorf("%s: negative fee", sc.Name)
	case sc.Func == nil:
		return fmt.Errorf("%s: no implementation", sc.Name)
	}
	if _, ok := t.byName[sc.Name]; ok {
		return fmt.Errorf("%s: already registered", sc.Name)
	}
	id := SyscallID(sc.Name)
	if dup, ok := t.byID[id]; ok {
		return fmt.Errorf("%s: ID %08x is already used by %s", sc.Name, id, dup.Name)
	}
	s := sc
	t.byName[sc.Name] = &s
	t.byID[id] = &s
	return nil
}

// Alias makes the syscall available under another name. Aliases can't be
// used by ID.
func (t *SyscallTable) Alias(alias, name string) error {
	sc, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSyscall, name)
	}
	if _, ok := t.byName[alias]; ok {
		return fmt.Errorf("%s: already registered", alias)
	}
	if len(alias) == 0 || len(alias) > MaxSyscallNameLength {
		return fmt.Errorf("invalid alias length: %d", len(alias))
	}
	t.byName[alias] = sc
	return nil
}

// ByName returns the syscall by its name or alias.
func (t *SyscallTable) ByName(name string) (*Syscall, bool) {
	sc, ok := t.byName[name]
	return sc, ok
}

// ByID returns the syscall by its interop ID.
func (t *SyscallTable) ByID(id uint32) (*Syscall, bool) {
	sc, ok := t.byID[id]
	return sc, ok
}

// Names returns sorted names of all the syscalls including aliases.
func (t *SyscallTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// lookup resolves the SYSCALL operand.
func (t *SyscallTable) lookup(param []byte) (*Syscall, error) {
	var (
		sc *Syscall
		ok bool
	)
	if len(param) == 4 {
		id := binary.LittleEndian.Uint32(param)
		if sc, ok = t.ByID(id); !ok {
			return nil, fmt.Errorf("%w: %08x", ErrUnknownSyscall, id)
		}
		return sc, nil
	}
	if sc, ok = t.ByName(string(param)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyscall, param)
	}
	return sc, nil
}

func createSyscall(e *Engine, ctx *Context, ins Instruction) (*Op, error) {
	sc, err := e.syscalls.lookup(ins.Param)
	if err != nil {
		return nil, err
	}
	fee := sc.Fee
	if sc.Price != nil {
		if fee, err = sc.Price(ctx); err != nil {
			return nil, err
		}
	}
	return &Op{
		Code:       opcode.SYSCALL,
		Name:       sc.Name,
		In:         sc.In,
		InAlt:      sc.InAlt,
		Out:        sc.Out,
		OutAlt:     sc.OutAlt,
		Fee:        fee,
		Invocation: sc.Invocation,
		Invoke: func(e *Engine, ctx *Context, _ []byte, args, argsAlt []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
			return sc.Func(e, ctx, args, argsAlt)
		},
	}, nil
}

func init() {
	registerCreator(opcode.SYSCALL, createSyscall)
}
