package config

import (
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "config", "neo2vm.yml"))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.ApplicationConfiguration.LogLevel)
	require.Equal(t, dbconfig.LevelDB, cfg.ApplicationConfiguration.DBConfiguration.Type)
	require.Equal(t, "./chains/neo2vm", cfg.ApplicationConfiguration.DBConfiguration.LevelDBOptions.DataDirectoryPath)
	require.Equal(t, util.Fixed8FromInt64(10), cfg.VM.FreeGas)
	require.Equal(t, vm.DefaultLimits(), cfg.VM.Limits())
	require.Equal(t, DefaultContractCacheSize, cfg.VM.ContractCacheSize)
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "partial.yml"))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.ApplicationConfiguration.LogLevel)
	require.Equal(t, "console", cfg.ApplicationConfiguration.LogEncoding)
	require.Equal(t, dbconfig.BoltDB, cfg.ApplicationConfiguration.DBConfiguration.Type)
	require.Equal(t, util.Fixed8(5000_0000), cfg.VM.FreeGas)

	l := cfg.VM.Limits()
	require.Equal(t, 16, l.MaxStackSize)
	require.Equal(t, vm.DefaultLimits().MaxItemSize, l.MaxItemSize)
	require.Equal(t, DefaultContractCacheSize, cfg.VM.ContractCacheSize)
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join("testdata", "missing.yml"))
		require.Error(t, err)
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadFile(filepath.Join("testdata", "unknown_field.yml"))
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	// There is no ./config/neo2vm.yml relative to the package directory.
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join("testdata", "missing.yml"))
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	testCases := map[string]string{
		"bad DB type":      "ApplicationConfiguration:\n  DBConfiguration:\n    Type: redis\n",
		"bad log encoding": "ApplicationConfiguration:\n  LogEncoding: xml\n",
		"negative gas":     "VM:\n  FreeGas: \"-1\"\n",
		"negative limit":   "VM:\n  MaxArraySize: -1\n",
		"bad gas":          "VM:\n  FreeGas: \"1.123456789\"\n",
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(data))
			require.Error(t, err)
		})
	}
}

func TestEngineOptions(t *testing.T) {
	v := VM{FreeGas: util.Fixed8FromInt64(1), MaxItemSize: 10}
	e := vm.New(v.EngineOptions()...)
	require.Equal(t, 10, e.Limits().MaxItemSize)
	require.Equal(t, vm.DefaultLimits().MaxStackSize, e.Limits().MaxStackSize)
}
