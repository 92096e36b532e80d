package smartcontract

import (
	"strings"

	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// PropertyState represents contract properties (flags).
type PropertyState byte

// List of supported properties.
const (
	HasStorage PropertyState = 1 << iota
	HasDynamicInvoke
	IsPayable
	NoProperties = 0
)

// String implements the fmt.Stringer interface.
func (p PropertyState) String() string {
	var names []string
	if p&HasStorage != 0 {
		names = append(names, "HasStorage")
	}
	if p&HasDynamicInvoke != 0 {
		names = append(names, "HasDynamicInvoke")
	}
	if p&IsPayable != 0 {
		names = append(names, "IsPayable")
	}
	if len(names) == 0 {
		return "NoProperties"
	}
	return strings.Join(names, ", ")
}

// GetDeploymentPrice returns contract deployment price based on its properties.
func GetDeploymentPrice(props PropertyState) util.Fixed8 {
	fee := int64(100)

	if props&HasStorage != 0 {
		fee += 400
	}

	if props&HasDynamicInvoke != 0 {
		fee += 500
	}

	return util.Fixed8FromInt64(fee)
}
