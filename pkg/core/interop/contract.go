package interop

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/core/state"
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract"
	"github.com/nspcc-dev/neo2-vm/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

const (
	// MaxContractScriptSize is the maximum script size for a contract.
	MaxContractScriptSize = 1024 * 1024
	// MaxContractStringLen is the maximum length for contract metadata
	// strings.
	MaxContractStringLen = 252
	// MaxContractDescriptionLen is the maximum length for contract
	// description.
	MaxContractDescriptionLen = 65536
)

// blockchainGetHeight returns the height of the stored chain.
func (ic *Context) blockchainGetHeight(_ *vm.Engine, _ *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	h, err := ic.DAO.GetHeight()
	if err != nil {
		return fail(err)
	}
	return push(stackitem.Make(h))
}

// blockchainGetContract returns the contract with the given script hash or
// an empty byte array if there is no such contract.
func (ic *Context) blockchainGetContract(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	h, err := toUint160(args[0])
	if err != nil {
		return fail(err)
	}
	cs, err := ic.DAO.GetContract(h)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return push(stackitem.NewByteArray([]byte{}))
		}
		return fail(err)
	}
	return push(stackitem.NewInterop(cs))
}

// contractCreatePrice is the deployment price, it depends on contract
// properties.
func contractCreatePrice(ctx *vm.Context) (int64, error) {
	props := ctx.Peek(3)
	if props == nil {
		return 0, fmt.Errorf("%w: no contract properties", vm.ErrStackUnderflow)
	}
	p, err := toInt64(props)
	if err != nil {
		return 0, err
	}
	return int64(smartcontract.GetDeploymentPrice(smartcontract.PropertyState(p))), nil
}

func contractStringArg(item stackitem.Item, maxLen int, name string) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if len(b) > maxLen {
		return "", fmt.Errorf("%w: %s is %d bytes", stackitem.ErrTooBig, name, len(b))
	}
	return string(b), nil
}

// createContractStateFromVM decodes contract state from the syscall
// arguments.
func createContractStateFromVM(ctx *vm.Context, args []stackitem.Item) (*state.Contract, error) {
	if ctx.Trigger() != trigger.Application {
		return nil, errors.New("can't create contract when not triggered by an application")
	}
	script, err := args[0].TryBytes()
	if err != nil {
		return nil, err
	}
	if len(script) > MaxContractScriptSize {
		return nil, fmt.Errorf("%w: the script is %d bytes", stackitem.ErrTooBig, len(script))
	}
	paramBytes, err := args[1].TryBytes()
	if err != nil {
		return nil, err
	}
	if len(paramBytes) > state.MaxParameters {
		return nil, fmt.Errorf("%w: %d parameters", stackitem.ErrTooBig, len(paramBytes))
	}
	paramList := make([]smartcontract.ParamType, len(paramBytes))
	for i := range paramBytes {
		paramList[i] = smartcontract.ParamType(paramBytes[i])
	}
	retType, err := toInt64(args[2])
	if err != nil {
		return nil, err
	}
	props, err := toInt64(args[3])
	if err != nil {
		return nil, err
	}
	if retType < 0 || retType > 0xff || props < 0 || props > 0xff {
		return nil, fmt.Errorf("%w: return type %d, properties %d", ErrInvalidArgument, retType, props)
	}
	cs := &state.Contract{
		Script:     script,
		ParamList:  paramList,
		ReturnType: smartcontract.ParamType(retType),
		Properties: smartcontract.PropertyState(props),
	}
	strs := []struct {
		dst    *string
		maxLen int
		name   string
	}{
		{&cs.Name, MaxContractStringLen, "name"},
		{&cs.CodeVersion, MaxContractStringLen, "version"},
		{&cs.Author, MaxContractStringLen, "author"},
		{&cs.Email, MaxContractStringLen, "email"},
		{&cs.Description, MaxContractDescriptionLen, "description"},
	}
	for i, s := range strs {
		if *s.dst, err = contractStringArg(args[4+i], s.maxLen, s.name); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// contractCreate creates a contract and pushes it. An existing contract is
// returned as is.
func (ic *Context) contractCreate(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	newcontract, err := createContractStateFromVM(ctx, args)
	if err != nil {
		return fail(err)
	}
	h := newcontract.ScriptHash()
	contract, err := ic.DAO.GetContract(h)
	if err == nil {
		return push(stackitem.NewInterop(contract))
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		return fail(err)
	}
	if err := ic.DAO.PutContract(newcontract); err != nil {
		return fail(err)
	}
	if ctx.CreatedContracts == nil {
		ctx.CreatedContracts = make(map[util.Uint160]util.Uint160)
	}
	ctx.CreatedContracts[h] = ctx.ScriptHash
	return push(stackitem.NewInterop(newcontract))
}

// contractGetScript returns the script of the contract.
func contractGetScript(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	cs, err := interopValue[*state.Contract](args[0])
	if err != nil {
		return fail(err)
	}
	return push(stackitem.NewByteArray(cs.Script))
}

// contractIsPayable returns whether the contract is payable.
func contractIsPayable(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	cs, err := interopValue[*state.Contract](args[0])
	if err != nil {
		return fail(err)
	}
	return push(stackitem.NewBool(cs.IsPayable()))
}

// contractGetStorageContext returns storage context for the contract created
// by the executing script in this execution.
func contractGetStorageContext(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	cs, err := interopValue[*state.Contract](args[0])
	if err != nil {
		return fail(err)
	}
	h := cs.ScriptHash()
	creator, ok := ctx.CreatedContracts[h]
	if !ok || !creator.Equals(ctx.ScriptHash) {
		return fail(fmt.Errorf("%w: contract %s is not created by %s", ErrInvalidArgument, h.StringLE(), ctx.ScriptHash.StringLE()))
	}
	return push(stackitem.NewInterop(&StorageContext{ScriptHash: h}))
}

// contractDestroy destroys the executing contract along with its storage.
func (ic *Context) contractDestroy(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if ctx.Trigger() != trigger.Application {
		return fail(errors.New("can't destroy contract when not triggered by an application"))
	}
	cs, err := ic.DAO.GetContract(ctx.ScriptHash)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return push()
		}
		return fail(err)
	}
	ic.DAO.DeleteContract(ctx.ScriptHash)
	if cs.HasStorage() {
		ic.DAO.DeleteStorageItems(ctx.ScriptHash)
	}
	return push()
}
