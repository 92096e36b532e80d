package trigger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringer(t *testing.T) {
	tests := map[Type]string{
		Verification:  "Verification",
		VerificationR: "VerificationR",
		Application:   "Application",
		ApplicationR:  "ApplicationR",
		Type(0x42):    "Type(66)",
	}
	for o, s := range tests {
		require.Equal(t, s, o.String())
	}
}

func TestFromString(t *testing.T) {
	for _, typ := range []Type{Verification, VerificationR, Application, ApplicationR} {
		actual, err := FromString(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, actual)
	}
	_, err := FromString("System")
	require.Error(t, err)
}
