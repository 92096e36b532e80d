package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neo2-vm/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default path to the config file.
const DefaultConfigPath = "./config/neo2vm.yml"

// Version is the version of the tool, set at build time.
var Version string

// Config top level struct representing the config
// for the tool.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	VM                       VM                       `yaml:"VM"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	l := vm.DefaultLimits()
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogEncoding: "console",
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.InMemoryDB,
			},
		},
		VM: VM{
			FreeGas:                util.Fixed8(vm.DefaultFreeGas),
			MaxStackSize:           l.MaxStackSize,
			MaxInvocationStackSize: l.MaxInvocationStackSize,
			MaxArraySize:           l.MaxArraySize,
			MaxItemSize:            l.MaxItemSize,
			ContractCacheSize:      DefaultContractCacheSize,
		},
	}
}

// Load attempts to load the config from the given path. An empty path means
// DefaultConfigPath, a missing default file means the default configuration.
func Load(path string) (Config, error) {
	if len(path) == 0 {
		cfg, err := LoadFile(DefaultConfigPath)
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile loads config from the provided path. Fields absent from the file
// keep their default values, unknown fields are an error.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return Config{}, fmt.Errorf("config '%s' doesn't exist: %w", configPath, err)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Decode(configData)
}

// Decode parses YAML configuration on top of the default one.
func Decode(data []byte) (Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.ApplicationConfiguration.DBConfiguration.Type {
	case "", dbconfig.InMemoryDB, dbconfig.LevelDB, dbconfig.BoltDB:
	default:
		return fmt.Errorf("unknown DB type: %q", c.ApplicationConfiguration.DBConfiguration.Type)
	}
	switch c.ApplicationConfiguration.LogEncoding {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid LogEncoding: %s", c.ApplicationConfiguration.LogEncoding)
	}
	if c.VM.FreeGas < 0 {
		return errors.New("negative FreeGas")
	}
	if c.VM.MaxStackSize < 0 || c.VM.MaxInvocationStackSize < 0 ||
		c.VM.MaxArraySize < 0 || c.VM.MaxItemSize < 0 || c.VM.ContractCacheSize < 0 {
		return errors.New("negative VM limit")
	}
	return nil
}
