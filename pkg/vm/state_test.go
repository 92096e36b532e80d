package vm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateFromString(t *testing.T) {
	var (
		s   State
		err error
	)

	s, err = StateFromString("HALT")
	assert.NoError(t, err)
	assert.Equal(t, HaltState, s)

	s, err = StateFromString("FAULT")
	assert.NoError(t, err)
	assert.Equal(t, FaultState, s)

	s, err = StateFromString("NONE")
	assert.NoError(t, err)
	assert.Equal(t, NoneState, s)

	_, err = StateFromString("HALT, KEK")
	assert.Error(t, err)
}

func TestState_HasFlag(t *testing.T) {
	assert.True(t, HaltState.HasFlag(HaltState))
	assert.True(t, FaultState.HasFlag(FaultState))
	assert.False(t, HaltState.HasFlag(FaultState))
	assert.False(t, NoneState.HasFlag(HaltState))
}

func TestState_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(HaltState)
	assert.NoError(t, err)
	assert.Equal(t, data, []byte(`"HALT"`))

	data, err = json.Marshal(FaultState)
	assert.NoError(t, err)
	assert.Equal(t, data, []byte(`"FAULT"`))
}

func TestState_UnmarshalJSON(t *testing.T) {
	var (
		s   State
		err error
	)

	err = json.Unmarshal([]byte(`"FAULT"`), &s)
	assert.NoError(t, err)
	assert.Equal(t, FaultState, s)

	err = json.Unmarshal([]byte(`"NONE"`), &s)
	assert.NoError(t, err)
	assert.Equal(t, NoneState, s)

	err = json.Unmarshal([]byte(`NONE`), &s)
	assert.Error(t, err)
}
