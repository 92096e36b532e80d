package smartcontract

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marshalJSONTestCases = []struct {
	input  Parameter
	result string
}{
	{
		input:  Parameter{Type: IntegerType, Value: big.NewInt(12345)},
		result: `{"type":"Integer","value":"12345"}`,
	},
	{
		input:  Parameter{Type: StringType, Value: "Some string"},
		result: `{"type":"String","value":"Some string"}`,
	},
	{
		input:  Parameter{Type: BoolType, Value: true},
		result: `{"type":"Boolean","value":true}`,
	},
	{
		input:  Parameter{Type: ByteArrayType, Value: []byte{0x01, 0x02, 0x03}},
		result: `{"type":"ByteArray","value":"010203"}`,
	},
	{
		input:  Parameter{Type: ByteArrayType},
		result: `{"type":"ByteArray"}`,
	},
	{
		input: Parameter{
			Type: ArrayType,
			Value: []Parameter{
				{Type: StringType, Value: "str 1"},
				{Type: IntegerType, Value: big.NewInt(2)},
			},
		},
		result: `{"type":"Array","value":[{"type":"String","value":"str 1"},{"type":"Integer","value":"2"}]}`,
	},
	{
		input:  Parameter{Type: ArrayType, Value: []Parameter(nil)},
		result: `{"type":"Array","value":[]}`,
	},
	{
		input: Parameter{
			Type: MapType,
			Value: []ParameterPair{
				{
					Key:   Parameter{Type: StringType, Value: "key1"},
					Value: Parameter{Type: IntegerType, Value: big.NewInt(1)},
				},
			},
		},
		result: `{"type":"Map","value":[{"key":{"type":"String","value":"key1"},"value":{"type":"Integer","value":"1"}}]}`,
	},
	{
		input:  Parameter{Type: Hash160Type, Value: util.Uint160{1, 2, 3}},
		result: `{"type":"Hash160","value":"0x0000000000000000000000000000000000030201"}`,
	},
	{
		input:  Parameter{Type: InteropInterfaceType},
		result: `{"type":"InteropInterface"}`,
	},
	{
		input:  Parameter{Type: VoidType},
		result: `{"type":"Void"}`,
	},
}

var marshalJSONErrorCases = []Parameter{
	{
		Type:  UnknownType,
		Value: nil,
	},
	{
		Type:  IntegerType,
		Value: 42,
	},
	{
		Type:  ByteArrayType,
		Value: "not bytes",
	},
}

func TestParam_MarshalJSON(t *testing.T) {
	for _, tc := range marshalJSONTestCases {
		res, err := json.Marshal(tc.input)
		require.NoError(t, err)
		require.JSONEq(t, tc.result, string(res))

		var actual Parameter
		require.NoError(t, json.Unmarshal(res, &actual))
		if tc.input.Type == ArrayType && tc.input.Value == nil {
			continue
		}
		assert.Equal(t, tc.input.Type, actual.Type)
	}

	for _, input := range marshalJSONErrorCases {
		_, err := json.Marshal(&input)
		assert.Error(t, err)
	}
}

func TestParam_UnmarshalJSON(t *testing.T) {
	var testCases = []struct {
		input  string
		result Parameter
	}{
		{
			input:  `{"type":"Boolean","value":true}`,
			result: Parameter{Type: BoolType, Value: true},
		},
		{
			input:  `{"type":"Integer","value":12345}`,
			result: Parameter{Type: IntegerType, Value: big.NewInt(12345)},
		},
		{
			input:  `{"type":"Integer","value":"-12345"}`,
			result: Parameter{Type: IntegerType, Value: big.NewInt(-12345)},
		},
		{
			input:  `{"type":"ByteArray","value":"010203"}`,
			result: Parameter{Type: ByteArrayType, Value: []byte{1, 2, 3}},
		},
		{
			input:  `{"type":"Hash256","value":"0xf037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"}`,
			result: Parameter{Type: Hash256Type, Value: mustUint256LE("f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d")},
		},
		{
			input:  `{"type":"InteropInterface","value":null}`,
			result: Parameter{Type: InteropInterfaceType},
		},
		{
			input:  `{"type":"Void"}`,
			result: Parameter{Type: VoidType},
		},
	}
	for _, tc := range testCases {
		var p Parameter
		require.NoError(t, json.Unmarshal([]byte(tc.input), &p), tc.input)
		assert.Equal(t, tc.result, p, tc.input)
	}

	for _, input := range []string{
		`{"type":"ByteArray","value":"qwerty"}`,
		`{"type":"Integer","value":"12a"}`,
		`{"type":"Integer","value":"1234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901"}`,
		`{"type":"Boolean","value":"true"}`,
		`{"type":"Unknown","value":1}`,
	} {
		var p Parameter
		assert.Error(t, json.Unmarshal([]byte(input), &p), input)
	}
}

func TestNewParameterFromString(t *testing.T) {
	var inouts = []struct {
		in  string
		out Parameter
		err bool
	}{{
		in:  "qwerty",
		out: Parameter{StringType, "qwerty"},
	}, {
		in:  "42",
		out: Parameter{IntegerType, big.NewInt(42)},
	}, {
		in:  "Hello, 世界",
		out: Parameter{StringType, "Hello, 世界"},
	}, {
		in:  `\4\2`,
		out: Parameter{IntegerType, big.NewInt(42)},
	}, {
		in:  `\\4\2`,
		out: Parameter{StringType, `\42`},
	}, {
		in:  "int:42",
		out: Parameter{IntegerType, big.NewInt(42)},
	}, {
		in:  "true",
		out: Parameter{BoolType, true},
	}, {
		in:  "string:true",
		out: Parameter{StringType, "true"},
	}, {
		in:  "bytes:0a0b",
		out: Parameter{ByteArrayType, []byte{0x0a, 0x0b}},
	}, {
		in:  "\xfe\xff",
		err: true,
	}, {
		in:  `string\:true`,
		out: Parameter{StringType, "string:true"},
	}, {
		in:  "string:true:true",
		out: Parameter{StringType, "true:true"},
	}, {
		in:  `qwerty:asdf`,
		err: true,
	}, {
		in:  `bool:asdf`,
		err: true,
	}, {
		in:  `InteropInterface:123`,
		err: true,
	}, {
		in:  `Map:[]`,
		err: true,
	}}
	for _, inout := range inouts {
		out, err := NewParameterFromString(inout.in)
		if inout.err {
			assert.Error(t, err, "should error on '%s' input", inout.in)
		} else {
			require.NoError(t, err, "shouldn't error on '%s' input", inout.in)
			assert.Equal(t, inout.out, *out, "bad output for '%s' input", inout.in)
		}
	}
}

func TestExpandParameterToEmitable(t *testing.T) {
	h256 := util.Uint256{1, 2, 3}
	testCases := []struct {
		In       Parameter
		Expected any
	}{
		{
			In:       Parameter{Type: BoolType, Value: true},
			Expected: true,
		},
		{
			In:       Parameter{Type: IntegerType, Value: big.NewInt(123)},
			Expected: big.NewInt(123),
		},
		{
			In:       Parameter{Type: ByteArrayType, Value: []byte{1, 2, 3}},
			Expected: []byte{1, 2, 3},
		},
		{
			In:       Parameter{Type: Hash256Type, Value: h256},
			Expected: h256.BytesBE(),
		},
		{
			In: Parameter{Type: ArrayType, Value: []Parameter{
				{Type: IntegerType, Value: big.NewInt(1)},
				{Type: StringType, Value: "x"},
			}},
			Expected: []any{big.NewInt(1), "x"},
		},
	}
	for _, tc := range testCases {
		res, err := ExpandParameterToEmitable(tc.In)
		require.NoError(t, err)
		require.Equal(t, tc.Expected, res)
	}

	for _, p := range []Parameter{
		{Type: MapType, Value: []ParameterPair{}},
		{Type: InteropInterfaceType},
		{Type: VoidType},
	} {
		_, err := ExpandParameterToEmitable(p)
		require.Error(t, err, p.Type.String())
	}
}

func TestParameterFromStackItem(t *testing.T) {
	m := stackitem.NewMap()
	_, err := m.Add(stackitem.NewByteArray([]byte("aaaa")), stackitem.Make(1))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		item     stackitem.Item
		expected Parameter
	}{
		{"integer", stackitem.Make(-7), Parameter{Type: IntegerType, Value: big.NewInt(-7)}},
		{"bool", stackitem.NewBool(true), Parameter{Type: BoolType, Value: true}},
		{"bytes", stackitem.NewByteArray([]byte{1, 2}), Parameter{Type: ByteArrayType, Value: []byte{1, 2}}},
		{"null", stackitem.Null{}, Parameter{Type: VoidType}},
		{"interop", stackitem.NewInterop(42), Parameter{Type: InteropInterfaceType}},
		{"struct", stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)}),
			Parameter{Type: ArrayType, Value: []Parameter{{Type: IntegerType, Value: big.NewInt(1)}}}},
		{"map", m, Parameter{Type: MapType, Value: []ParameterPair{{
			Key:   Parameter{Type: ByteArrayType, Value: []byte("aaaa")},
			Value: Parameter{Type: IntegerType, Value: big.NewInt(1)},
		}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParameterFromStackItem(tc.item)
			require.NoError(t, err)
			require.Equal(t, tc.expected, p)
			require.Equal(t, tc.expected, ParameterFromStackItemLenient(tc.item))
		})
	}

	t.Run("recursive", func(t *testing.T) {
		arr := stackitem.NewArray(nil)
		arr.Append(arr)
		_, err := ParameterFromStackItem(arr)
		require.ErrorIs(t, err, ErrRecursiveItem)
		require.Equal(t, Parameter{Type: ByteArrayType, Value: []byte{}}, ParameterFromStackItemLenient(arr))
	})

	t.Run("shared element", func(t *testing.T) {
		inner := stackitem.NewArray([]stackitem.Item{stackitem.Make(1)})
		outer := stackitem.NewArray([]stackitem.Item{inner, inner})
		p, err := ParameterFromStackItem(outer)
		require.NoError(t, err)
		require.Len(t, p.Value, 2)
	})

	t.Run("shared element chain", func(t *testing.T) {
		var item stackitem.Item = stackitem.Make(1)
		for i := 0; i < 40; i++ {
			item = stackitem.NewArray([]stackitem.Item{item, item})
		}
		_, err := ParameterFromStackItem(item)
		require.ErrorIs(t, err, ErrTooManyItems)
		require.Equal(t, Parameter{Type: ByteArrayType, Value: []byte{}}, ParameterFromStackItemLenient(item))
	})

	t.Run("items limit", func(t *testing.T) {
		elems := make([]stackitem.Item, MaxConvertedItems-1)
		for i := range elems {
			elems[i] = stackitem.Make(i)
		}
		p, err := ParameterFromStackItem(stackitem.NewArray(elems))
		require.NoError(t, err)
		require.Len(t, p.Value, MaxConvertedItems-1)

		elems = append(elems, stackitem.Make(0))
		_, err = ParameterFromStackItem(stackitem.NewArray(elems))
		require.ErrorIs(t, err, ErrTooManyItems)
	})
}

func TestParameterToStackItem(t *testing.T) {
	p := Parameter{Type: ArrayType, Value: []Parameter{
		{Type: IntegerType, Value: big.NewInt(1)},
		{Type: StringType, Value: "x"},
		{Type: Hash160Type, Value: util.Uint160{1, 2}},
	}}
	item, err := p.ToStackItem()
	require.NoError(t, err)
	arr, ok := item.(*stackitem.Array)
	require.True(t, ok)
	require.Len(t, arr.Value().([]stackitem.Item), 3)

	back, err := ParameterFromStackItem(item)
	require.NoError(t, err)
	require.Equal(t, Parameter{Type: ArrayType, Value: []Parameter{
		{Type: IntegerType, Value: big.NewInt(1)},
		{Type: ByteArrayType, Value: []byte("x")},
		{Type: ByteArrayType, Value: util.Uint160{1, 2}.BytesBE()},
	}}, back)

	_, err = Parameter{Type: VoidType}.ToStackItem()
	require.Error(t, err)
}
