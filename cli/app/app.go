package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/neo2-vm/cli/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "neo2vm\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a neo2vm instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "neo2vm"
	ctl.Version = config.Version
	ctl.Usage = "NEO2 virtual machine runner"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, vm.NewCommands()...)
	return ctl
}
