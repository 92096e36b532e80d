package smartcontract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/nspcc-dev/neo2-vm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Parameter represents a smart contract parameter.
type Parameter struct {
	// Type of the parameter.
	Type ParamType `json:"type"`
	// The actual value of the parameter.
	Value any `json:"value"`
}

// ParameterPair represents key-value pair, a slice of which is stored in
// MapType Parameter.
type ParameterPair struct {
	Key   Parameter `json:"key"`
	Value Parameter `json:"value"`
}

// MaxConvertedItems is the maximum number of parameters a single stack item
// can be converted into.
const MaxConvertedItems = 1 << 14

var (
	// ErrRecursiveItem is returned for arrays and structs containing themselves.
	ErrRecursiveItem = errors.New("recursive item")
	// ErrTooManyItems is returned for items expanding into more than
	// MaxConvertedItems parameters.
	ErrTooManyItems = errors.New("too many items")
)

// NewParameter returns a Parameter with proper initialized Value
// of the given ParamType.
func NewParameter(t ParamType) Parameter {
	return Parameter{
		Type:  t,
		Value: nil,
	}
}

type rawParameter struct {
	Type  ParamType       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements Marshaler interface.
func (p Parameter) MarshalJSON() ([]byte, error) {
	var (
		resultRawValue json.RawMessage
		resultErr      error
	)
	if p.Value == nil {
		if validParamTypes[p.Type] {
			return json.Marshal(rawParameter{Type: p.Type})
		}
		return nil, fmt.Errorf("can't marshal %s", p.Type)
	}
	switch p.Type {
	case BoolType, StringType, Hash160Type, Hash256Type:
		resultRawValue, resultErr = json.Marshal(p.Value)
	case IntegerType:
		val, ok := p.Value.(*big.Int)
		if !ok {
			resultErr = errors.New("invalid integer value")
			break
		}
		resultRawValue = json.RawMessage(`"` + val.String() + `"`)
	case PublicKeyType, ByteArrayType, SignatureType:
		b, ok := p.Value.([]byte)
		if !ok {
			resultErr = fmt.Errorf("invalid %s value", p.Type)
			break
		}
		resultRawValue, resultErr = json.Marshal(hex.EncodeToString(b))
	case ArrayType:
		var value = p.Value.([]Parameter)
		if value == nil {
			resultRawValue, resultErr = json.Marshal([]Parameter{})
		} else {
			resultRawValue, resultErr = json.Marshal(value)
		}
	case MapType:
		ppair := p.Value.([]ParameterPair)
		resultRawValue, resultErr = json.Marshal(ppair)
	case InteropInterfaceType, VoidType:
		resultRawValue = nil
	default:
		resultErr = fmt.Errorf("can't marshal %s", p.Type)
	}
	if resultErr != nil {
		return nil, resultErr
	}
	return json.Marshal(rawParameter{
		Type:  p.Type,
		Value: resultRawValue,
	})
}

// UnmarshalJSON implements Unmarshaler interface.
func (p *Parameter) UnmarshalJSON(data []byte) (err error) {
	var (
		r       rawParameter
		i       int64
		s       string
		b       []byte
		boolean bool
	)
	if err = json.Unmarshal(data, &r); err != nil {
		return
	}
	p.Type = r.Type
	p.Value = nil
	if len(r.Value) == 0 || bytes.Equal(r.Value, []byte("null")) {
		return
	}
	switch r.Type {
	case BoolType:
		if err = json.Unmarshal(r.Value, &boolean); err != nil {
			return
		}
		p.Value = boolean
	case ByteArrayType, PublicKeyType, SignatureType:
		if err = json.Unmarshal(r.Value, &s); err != nil {
			return
		}
		if b, err = hex.DecodeString(s); err != nil {
			return
		}
		p.Value = b
	case StringType:
		if err = json.Unmarshal(r.Value, &s); err != nil {
			return
		}
		p.Value = s
	case IntegerType:
		if err = json.Unmarshal(r.Value, &i); err == nil {
			p.Value = big.NewInt(i)
			return
		}
		// sometimes integer comes as string
		if jErr := json.Unmarshal(r.Value, &s); jErr != nil {
			return jErr
		}
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			// In this case previous err should mean string contains non-digit characters.
			return err
		}
		if len(bigint.ToBytes(bi)) > bigint.MaxBytesLen {
			return errors.New("integer is too big")
		}
		p.Value = bi
		err = nil
	case ArrayType:
		var rs []Parameter
		if err = json.Unmarshal(r.Value, &rs); err != nil {
			return
		}
		p.Value = rs
	case MapType:
		var ppair []ParameterPair
		if err = json.Unmarshal(r.Value, &ppair); err != nil {
			return
		}
		p.Value = ppair
	case Hash160Type:
		var h util.Uint160
		if err = json.Unmarshal(r.Value, &h); err != nil {
			return
		}
		p.Value = h
	case Hash256Type:
		var h util.Uint256
		if err = json.Unmarshal(r.Value, &h); err != nil {
			return
		}
		p.Value = h
	case InteropInterfaceType, VoidType:
		// stub, ignore value, it can only be null
		p.Value = nil
	default:
		return fmt.Errorf("can't unmarshal %s", p.Type)
	}
	return
}

// NewParameterFromString returns a new Parameter initialized from the given
// string in the `type:value` format, the type is inferred from the value
// when omitted. Colons in the type-less value can be escaped with a
// backslash.
func NewParameterFromString(in string) (*Parameter, error) {
	var (
		char    rune
		val     string
		err     error
		r       *strings.Reader
		buf     strings.Builder
		escaped bool
		hadType bool
		res     = &Parameter{}
	)
	r = strings.NewReader(in)
	for char, _, err = r.ReadRune(); err == nil && char != utf8.RuneError; char, _, err = r.ReadRune() {
		if char == '\\' && !escaped {
			escaped = true
			continue
		}
		if char == ':' && !escaped && !hadType {
			res.Type, err = ParseParamType(buf.String())
			if err != nil {
				return nil, err
			}
			// We currently do not support following types:
			if res.Type == ArrayType || res.Type == MapType || res.Type == InteropInterfaceType || res.Type == VoidType {
				return nil, fmt.Errorf("unsupported parameter type %s", res.Type)
			}
			buf.Reset()
			hadType = true
			continue
		}
		escaped = false
		// We don't care about length and it never fails.
		_, _ = buf.WriteRune(char)
	}
	if char == utf8.RuneError {
		return nil, errors.New("bad UTF-8 string")
	}

	val = buf.String()
	if !hadType {
		res.Type = inferParamType(val)
	}
	res.Value, err = adjustValToType(res.Type, val)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ExpandParameterToEmitable converts parameter to a type which can be
// handled as an array item by emit.Array.
func ExpandParameterToEmitable(param Parameter) (any, error) {
	var err error
	switch t := param.Type; t {
	case Hash256Type:
		return param.Value.(util.Uint256).BytesBE(), nil
	case ArrayType:
		arr := param.Value.([]Parameter)
		res := make([]any, len(arr))
		for i := range arr {
			res[i], err = ExpandParameterToEmitable(arr[i])
			if err != nil {
				return nil, err
			}
		}
		return res, nil
	case MapType, InteropInterfaceType, UnknownType, VoidType:
		return nil, fmt.Errorf("unsupported parameter type: %s", t.String())
	default:
		return param.Value, nil
	}
}

// ToStackItem converts the parameter into a stack item, only the types
// supported by ExpandParameterToEmitable can be converted.
func (p Parameter) ToStackItem() (stackitem.Item, error) {
	v, err := ExpandParameterToEmitable(p)
	if err != nil {
		return nil, err
	}
	return stackitem.Make(v), nil
}

// ParameterFromStackItem converts the stack item into a Parameter. Arrays and
// structs become ArrayType parameters, Null becomes VoidType and interop
// items are exported as InteropInterfaceType without a value. Recursive
// containers can't be converted, neither can items expanding into more than
// MaxConvertedItems parameters (shared sub-items are counted every time they
// are met).
func ParameterFromStackItem(item stackitem.Item) (Parameter, error) {
	c := &converter{
		seen:   make(map[stackitem.Item]bool),
		budget: MaxConvertedItems,
	}
	return c.fromStackItem(item)
}

// ParameterFromStackItemLenient is the same as ParameterFromStackItem, but
// returns an empty ByteArrayType parameter when the item can't be converted.
func ParameterFromStackItemLenient(item stackitem.Item) Parameter {
	p, err := ParameterFromStackItem(item)
	if err != nil {
		return Parameter{Type: ByteArrayType, Value: []byte{}}
	}
	return p
}

type converter struct {
	seen   map[stackitem.Item]bool
	budget int
}

func (c *converter) fromStackItem(item stackitem.Item) (Parameter, error) {
	if c.budget--; c.budget < 0 {
		return Parameter{}, ErrTooManyItems
	}
	switch t := item.(type) {
	case *stackitem.BigInteger:
		return Parameter{Type: IntegerType, Value: new(big.Int).Set(t.Big())}, nil
	case stackitem.Bool:
		return Parameter{Type: BoolType, Value: bool(t)}, nil
	case *stackitem.ByteArray:
		b := make([]byte, len(*t))
		copy(b, *t)
		return Parameter{Type: ByteArrayType, Value: b}, nil
	case *stackitem.Array, *stackitem.Struct:
		if c.seen[item] {
			return Parameter{}, ErrRecursiveItem
		}
		c.seen[item] = true
		defer delete(c.seen, item)
		elems := item.Value().([]stackitem.Item)
		params := make([]Parameter, 0, len(elems))
		for i := range elems {
			p, err := c.fromStackItem(elems[i])
			if err != nil {
				return Parameter{}, err
			}
			params = append(params, p)
		}
		return Parameter{Type: ArrayType, Value: params}, nil
	case *stackitem.Map:
		if c.seen[item] {
			return Parameter{}, ErrRecursiveItem
		}
		c.seen[item] = true
		defer delete(c.seen, item)
		elems := t.Value().([]stackitem.MapElement)
		pairs := make([]ParameterPair, 0, len(elems))
		for i := range elems {
			k, err := c.fromStackItem(elems[i].Key)
			if err != nil {
				return Parameter{}, err
			}
			v, err := c.fromStackItem(elems[i].Value)
			if err != nil {
				return Parameter{}, err
			}
			pairs = append(pairs, ParameterPair{Key: k, Value: v})
		}
		return Parameter{Type: MapType, Value: pairs}, nil
	case *stackitem.Interop:
		return Parameter{Type: InteropInterfaceType}, nil
	case stackitem.Null:
		return Parameter{Type: VoidType}, nil
	default:
		return Parameter{}, fmt.Errorf("unsupported stack item %s", item)
	}
}
