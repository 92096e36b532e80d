package flags

import (
	"strings"

	"github.com/urfave/cli"
)

// eachName calls fn for every comma-separated name of the flag.
func eachName(longName string, fn func(string)) {
	for _, name := range strings.Split(longName, ",") {
		fn(strings.TrimSpace(name))
	}
}

// MarkRequired returns a copy of flagSet with the named string flags (script
// inputs, paths) marked as required. Other flag types are left unchanged.
func MarkRequired(flagSet []cli.Flag, names ...string) []cli.Flag {
	res := make([]cli.Flag, len(flagSet))
	copy(res, flagSet)
	for i, fl := range res {
		if !isNamed(fl.GetName(), names) {
			continue
		}
		switch f := fl.(type) {
		case cli.StringFlag:
			f.Required = true
			res[i] = f
		case cli.StringSliceFlag:
			f.Required = true
			res[i] = f
		}
	}
	return res
}

func isNamed(name string, names []string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
