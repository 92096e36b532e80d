package util_test

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256DecodeString(t *testing.T) {
	hexStr := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	val, err := util.Uint256DecodeStringLE(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.StringLE())

	be, err := util.Uint256DecodeBytesBE(val.BytesBE())
	require.NoError(t, err)
	assert.True(t, val.Equals(be))

	_, err = util.Uint256DecodeStringLE(hexStr[2:])
	assert.Error(t, err)
}

func TestUint256JSON(t *testing.T) {
	val, err := util.Uint256DecodeStringLE("f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d")
	require.NoError(t, err)

	data, err := json.Marshal(val)
	require.NoError(t, err)

	var actual util.Uint256
	require.NoError(t, json.Unmarshal(data, &actual))
	assert.Equal(t, val, actual)
}
