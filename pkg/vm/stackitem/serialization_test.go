package stackitem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	m := NewMap()
	_, _ = m.Add(Make("key"), NewStruct([]Item{Make(-5), Bool(false)}))
	item := NewArray([]Item{Make(1), Make([]byte{1, 2, 3}), Bool(true), m})

	data, err := Serialize(item)
	require.NoError(t, err)

	actual, err := Deserialize(data)
	require.NoError(t, err)
	arr, ok := actual.(*Array)
	require.True(t, ok)
	require.Equal(t, 4, arr.Len())
	require.True(t, arr.value[0].Equals(Make(1)))
	require.Equal(t, BooleanT, arr.value[2].Type())

	am := arr.value[3].(*Map)
	v, ok := am.Get(Make("key"))
	require.True(t, ok)
	require.True(t, v.Equals(NewStruct([]Item{Make(-5), Bool(false)})))
}

func TestSerializeFormat(t *testing.T) {
	data, err := Serialize(Make(0))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(IntegerT), 0}, data)

	data, err = Serialize(NewArray([]Item{Make([]byte{0xaa})}))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(ArrayT), 1, byte(ByteArrayT), 1, 0xaa}, data)
}

func TestSerializeErrors(t *testing.T) {
	t.Run("recursive", func(t *testing.T) {
		arr := NewArray(nil)
		arr.Append(arr)
		_, err := Serialize(arr)
		require.ErrorIs(t, err, ErrRecursive)
	})
	t.Run("repeated reference", func(t *testing.T) {
		inner := NewArray(nil)
		_, err := Serialize(NewArray([]Item{inner, inner}))
		require.ErrorIs(t, err, ErrRecursive)
	})
	t.Run("interop", func(t *testing.T) {
		_, err := Serialize(NewInterop(1))
		require.ErrorIs(t, err, ErrUnserializable)
	})
	t.Run("null", func(t *testing.T) {
		_, err := Serialize(Null{})
		require.ErrorIs(t, err, ErrUnserializable)
	})
	t.Run("too big", func(t *testing.T) {
		_, err := Serialize(Make(make([]byte, MaxSize)))
		require.ErrorIs(t, err, ErrTooBig)
	})
}

func TestDeserializeErrors(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":        {},
		"unknown type": {0x10},
		"interop":      {byte(InteropT)},
		"short bytes":  {byte(ByteArrayT), 2, 1},
		"too many":     {byte(ArrayT), 0xfd, 0x01, 0x04},
		"trailing":     {byte(BooleanT), 1, 0},
		"bad map key":  {byte(MapT), 1, byte(ArrayT), 0, byte(BooleanT), 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Deserialize(data)
			require.Error(t, err)
		})
	}
}
