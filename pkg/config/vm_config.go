package config

import (
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
)

// DefaultContractCacheSize is the number of contracts cached by the DAO
// unless configured otherwise.
const DefaultContractCacheSize = 128

// VM contains execution limits and fees.
type VM struct {
	// FreeGas is the amount of GAS every execution gets for free.
	FreeGas                util.Fixed8 `yaml:"FreeGas"`
	MaxStackSize           int         `yaml:"MaxStackSize"`
	MaxInvocationStackSize int         `yaml:"MaxInvocationStackSize"`
	MaxArraySize           int         `yaml:"MaxArraySize"`
	MaxItemSize            int         `yaml:"MaxItemSize"`
	// ContractCacheSize is the size of the DAO contract LRU cache.
	ContractCacheSize int `yaml:"ContractCacheSize"`
}

// Limits returns VM limits, zero values are replaced by the defaults.
func (v VM) Limits() vm.Limits {
	l := vm.DefaultLimits()
	if v.MaxStackSize > 0 {
		l.MaxStackSize = v.MaxStackSize
	}
	if v.MaxInvocationStackSize > 0 {
		l.MaxInvocationStackSize = v.MaxInvocationStackSize
	}
	if v.MaxArraySize > 0 {
		l.MaxArraySize = v.MaxArraySize
	}
	if v.MaxItemSize > 0 {
		l.MaxItemSize = v.MaxItemSize
	}
	return l
}

// EngineOptions returns the options configuring vm.Engine according to v.
func (v VM) EngineOptions() []vm.Option {
	return []vm.Option{
		vm.WithLimits(v.Limits()),
		vm.WithFreeGas(int64(v.FreeGas)),
	}
}
