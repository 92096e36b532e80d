package config

import (
	"github.com/nspcc-dev/neo2-vm/pkg/core/storage/dbconfig"
)

// ApplicationConfiguration config specific to the neo2vm tool.
type ApplicationConfiguration struct {
	LogLevel        string                   `yaml:"LogLevel"`
	LogEncoding     string                   `yaml:"LogEncoding"`
	LogPath         string                   `yaml:"LogPath"`
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
}
