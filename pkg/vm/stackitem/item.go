package stackitem

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/nspcc-dev/neo2-vm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

const (
	// MaxBigIntegerSizeBits is the maximum size of an integer converted from
	// a byte array in bits.
	MaxBigIntegerSizeBits = bigint.MaxBytesLen * 8
	// MaxSize is the maximum item size allowed in the VM.
	MaxSize = 1024 * 1024
	// MaxArraySize is the maximum number of elements in arrays, structs and
	// maps.
	MaxArraySize = 1024
)

// Item represents the "real" value that is pushed on the stack.
type Item interface {
	fmt.Stringer
	Value() any
	// Dup duplicates current Item. Primitive types and reference types
	// (Array, Map, Interop) return the item itself, Struct returns a deep
	// copy of itself.
	Dup() Item
	// TryBool converts Item to a boolean value.
	TryBool() (bool, error)
	// TryBytes converts Item to a byte slice. If the underlying type is a
	// byte slice, it's returned as is without copying.
	TryBytes() ([]byte, error)
	// TryInteger converts Item to an integer.
	TryInteger() (*big.Int, error)
	// Equals checks if 2 StackItems are equal.
	Equals(s Item) bool
	// Type returns stack item type.
	Type() Type
}

var (
	// ErrInvalidConversion is returned upon an attempt to make an incorrect
	// conversion between item types.
	ErrInvalidConversion = errors.New("invalid conversion")
	// ErrInvalidValue is returned when an item value doesn't fit some
	// constraints during serialization or deserialization.
	ErrInvalidValue = errors.New("invalid value")
	// ErrTooBig is returned when an item exceeds some size constraints, like
	// the maximum allowed integer value or the number of elements in an array.
	ErrTooBig = errors.New("too big")
	// ErrInvalidKey is returned on an attempt to use a non-primitive item as
	// a map key.
	ErrInvalidKey = errors.New("invalid map key")

	errTooBigInteger = fmt.Errorf("%w: integer", ErrTooBig)
)

// mkInvConversion creates a conversion error with additional metadata (from and
// to types).
func mkInvConversion(from Item, to Type) error {
	return fmt.Errorf("%w: %s/%s", ErrInvalidConversion, from, to)
}

// Make tries to make an appropriate stack item from the provided value.
// It will panic if it's not possible.
func Make(v any) Item {
	switch val := v.(type) {
	case int:
		return (*BigInteger)(big.NewInt(int64(val)))
	case int64:
		return (*BigInteger)(big.NewInt(val))
	case uint8:
		return (*BigInteger)(big.NewInt(int64(val)))
	case uint16:
		return (*BigInteger)(big.NewInt(int64(val)))
	case uint32:
		return (*BigInteger)(big.NewInt(int64(val)))
	case uint64:
		return (*BigInteger)(new(big.Int).SetUint64(val))
	case []byte:
		return NewByteArray(val)
	case string:
		return NewByteArray([]byte(val))
	case bool:
		return Bool(val)
	case []Item:
		return &Array{
			value: val,
		}
	case *big.Int:
		return NewBigInteger(val)
	case Item:
		return val
	case []int:
		var res = make([]Item, len(val))
		for i := range val {
			res[i] = Make(val[i])
		}
		return Make(res)
	case []any:
		res := make([]Item, len(val))
		for i := range val {
			res[i] = Make(val[i])
		}
		return Make(res)
	case util.Uint160:
		return Make(val.BytesBE())
	case util.Uint256:
		return Make(val.BytesBE())
	case nil:
		return Null{}
	default:
		panic(
			fmt.Sprintf(
				"invalid stack item type: %v (%v)",
				val,
				reflect.TypeOf(val),
			),
		)
	}
}

// Null represents null on the stack.
type Null struct{}

// String implements the Item interface.
func (i Null) String() string {
	return "Null"
}

// Value implements the Item interface.
func (i Null) Value() any {
	return nil
}

// Dup implements the Item interface.
// There is no need to perform a real copy here,
// as Null has no internal state.
func (i Null) Dup() Item {
	return i
}

// TryBool implements the Item interface.
func (i Null) TryBool() (bool, error) { return false, nil }

// TryBytes implements the Item interface.
func (i Null) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryInteger implements the Item interface.
func (i Null) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i Null) Equals(s Item) bool {
	_, ok := s.(Null)
	return ok
}

// Type implements the Item interface.
func (i Null) Type() Type { return AnyT }

// BigInteger represents a big integer on the stack.
type BigInteger big.Int

// NewBigInteger returns a new BigInteger object.
func NewBigInteger(value *big.Int) *BigInteger {
	return (*BigInteger)(value)
}

// Big casts it to big.Int.
func (i *BigInteger) Big() *big.Int {
	return (*big.Int)(i)
}

// Bytes converts i to a slice of bytes.
func (i *BigInteger) Bytes() []byte {
	return bigint.ToBytes(i.Big())
}

// TryBool implements the Item interface.
func (i *BigInteger) TryBool() (bool, error) {
	return i.Big().Sign() != 0, nil
}

// TryBytes implements the Item interface.
func (i *BigInteger) TryBytes() ([]byte, error) {
	return i.Bytes(), nil
}

// TryInteger implements the Item interface.
func (i *BigInteger) TryInteger() (*big.Int, error) {
	return i.Big(), nil
}

// Equals implements the Item interface.
func (i *BigInteger) Equals(s Item) bool {
	if Item(i) == s {
		return true
	}
	switch val := s.(type) {
	case *BigInteger:
		return i.Big().Cmp(val.Big()) == 0
	case *ByteArray, Bool:
		return primitiveEquals(i, s)
	default:
		return false
	}
}

// Value implements the Item interface.
func (i *BigInteger) Value() any {
	return i.Big()
}

func (i *BigInteger) String() string {
	return "BigInteger"
}

// Dup implements the Item interface.
func (i *BigInteger) Dup() Item {
	n := new(big.Int)
	return (*BigInteger)(n.Set(i.Big()))
}

// Type implements the Item interface.
func (i *BigInteger) Type() Type { return IntegerT }

// Bool represents a boolean Item.
type Bool bool

// NewBool returns an new Bool object.
func NewBool(val bool) Bool {
	return Bool(val)
}

// Value implements the Item interface.
func (i Bool) Value() any {
	return bool(i)
}

// Bytes converts Bool to bytes, false is an empty slice.
func (i Bool) Bytes() []byte {
	if i {
		return []byte{1}
	}
	return []byte{}
}

func (i Bool) String() string {
	return "Boolean"
}

// Dup implements the Item interface.
func (i Bool) Dup() Item {
	return i
}

// TryBool implements the Item interface.
func (i Bool) TryBool() (bool, error) { return bool(i), nil }

// TryBytes implements the Item interface.
func (i Bool) TryBytes() ([]byte, error) {
	return i.Bytes(), nil
}

// TryInteger implements the Item interface.
func (i Bool) TryInteger() (*big.Int, error) {
	if i {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

// Equals implements the Item interface.
func (i Bool) Equals(s Item) bool {
	switch val := s.(type) {
	case Bool:
		return i == val
	case *BigInteger, *ByteArray:
		return primitiveEquals(i, s)
	default:
		return false
	}
}

// Type implements the Item interface.
func (i Bool) Type() Type { return BooleanT }

// ByteArray represents an immutable sequence of bytes on the stack.
type ByteArray []byte

// NewByteArray returns an new ByteArray object.
func NewByteArray(b []byte) *ByteArray {
	return (*ByteArray)(&b)
}

// Value implements the Item interface.
func (i *ByteArray) Value() any {
	return []byte(*i)
}

func (i *ByteArray) String() string {
	return "ByteArray"
}

// TryBool implements the Item interface.
func (i *ByteArray) TryBool() (bool, error) {
	for _, b := range *i {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// TryBytes implements the Item interface.
func (i ByteArray) TryBytes() ([]byte, error) {
	return i, nil
}

// TryInteger implements the Item interface.
func (i ByteArray) TryInteger() (*big.Int, error) {
	if len(i) > MaxBigIntegerSizeBits/8 {
		return nil, errTooBigInteger
	}
	return bigint.FromBytes(i), nil
}

// Equals implements the Item interface.
func (i *ByteArray) Equals(s Item) bool {
	if Item(i) == s {
		return true
	}
	switch s.(type) {
	case *ByteArray, *BigInteger, Bool:
		return primitiveEquals(i, s)
	default:
		return false
	}
}

// Dup implements the Item interface.
func (i *ByteArray) Dup() Item {
	return i
}

// Type implements the Item interface.
func (i *ByteArray) Type() Type { return ByteArrayT }

// primitiveEquals compares primitive items by their byte representation.
func primitiveEquals(a, b Item) bool {
	ab, err := a.TryBytes()
	if err != nil {
		return false
	}
	bb, err := b.TryBytes()
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Array represents a new Array object.
type Array struct {
	value []Item
	rc
}

// NewArray returns a new Array object.
func NewArray(items []Item) *Array {
	return &Array{
		value: items,
	}
}

// Value implements the Item interface.
func (i *Array) Value() any {
	return i.value
}

// Remove removes the element at `pos` index from Array value.
// It will panic on bad index.
func (i *Array) Remove(pos int) {
	i.value = append(i.value[:pos], i.value[pos+1:]...)
}

// Append adds an Item at the end of Array value.
func (i *Array) Append(item Item) {
	i.value = append(i.value, item)
}

// Len returns length of Array value.
func (i *Array) Len() int {
	return len(i.value)
}

// String implements the Item interface.
func (i *Array) String() string {
	return "Array"
}

// Dup implements the Item interface.
func (i *Array) Dup() Item {
	// reference type
	return i
}

// TryBool implements the Item interface.
func (i *Array) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Array) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryInteger implements the Item interface.
func (i *Array) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Array) Equals(s Item) bool {
	return i == s
}

// Type implements the Item interface.
func (i *Array) Type() Type { return ArrayT }

// Struct represents a struct on the stack.
type Struct struct {
	value []Item
	rc
}

// NewStruct returns a new Struct object.
func NewStruct(items []Item) *Struct {
	return &Struct{
		value: items,
	}
}

// Value implements the Item interface.
func (i *Struct) Value() any {
	return i.value
}

// Remove removes the element at `pos` index from the Struct value.
// It will panic if a bad index given.
func (i *Struct) Remove(pos int) {
	i.value = append(i.value[:pos], i.value[pos+1:]...)
}

// Append adds an Item to the end of the Struct value.
func (i *Struct) Append(item Item) {
	i.value = append(i.value, item)
}

// Len returns the length of the Struct value.
func (i *Struct) Len() int {
	return len(i.value)
}

// String implements the Item interface.
func (i *Struct) String() string {
	return "Struct"
}

// Dup implements the Item interface, Struct is a value type, so it's
// cloned. Nested structs are cloned too, arrays and maps are shared.
func (i *Struct) Dup() Item {
	return i.clone()
}

// TryBool implements the Item interface.
func (i *Struct) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Struct) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryInteger implements the Item interface.
func (i *Struct) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Struct) Equals(s Item) bool {
	if s == nil {
		return false
	}
	val, ok := s.(*Struct)
	if !ok {
		return false
	}
	if i == val {
		return true
	} else if len(i.value) != len(val.value) {
		return false
	}
	for j := range i.value {
		if !i.value[j].Equals(val.value[j]) {
			return false
		}
	}
	return true
}

// Type implements the Item interface.
func (i *Struct) Type() Type { return StructT }

func (i *Struct) clone() *Struct {
	ret := &Struct{value: make([]Item, len(i.value))}
	for j := range i.value {
		if t, ok := i.value[j].(*Struct); ok {
			ret.value[j] = t.clone()
			continue
		}
		ret.value[j] = i.value[j]
	}
	return ret
}

// MapElement is a key-value pair of StackItems.
type MapElement struct {
	Key   Item
	Value Item
}

// Map represents a Map object. Elements are kept in the insertion order and
// indexed by the structural key of their keys.
type Map struct {
	value []MapElement
	index map[string]int
	rc
}

// NewMap returns a new Map object.
func NewMap() *Map {
	return &Map{
		value: make([]MapElement, 0),
		index: make(map[string]int),
	}
}

// NewMapWithValue returns a new Map object filled with the specified value,
// keys are not checked for duplicates or validity, later duplicates win.
func NewMapWithValue(value []MapElement) *Map {
	m := NewMap()
	for i := range value {
		_, _ = m.Add(value[i].Key, value[i].Value)
	}
	return m
}

// Value implements the Item interface.
func (i *Map) Value() any {
	return i.value
}

// Len returns the number of elements in the map.
func (i *Map) Len() int {
	return len(i.value)
}

// Keys returns map keys in the insertion order.
func (i *Map) Keys() []Item {
	res := make([]Item, 0, len(i.value))
	for k := range i.value {
		res = append(res, i.value[k].Key)
	}
	return res
}

// Values returns map values in the insertion order.
func (i *Map) Values() []Item {
	res := make([]Item, 0, len(i.value))
	for k := range i.value {
		res = append(res, i.value[k].Value)
	}
	return res
}

// TryBool implements the Item interface.
func (i *Map) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Map) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryInteger implements the Item interface.
func (i *Map) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Map) Equals(s Item) bool {
	return i == s
}

func (i *Map) String() string {
	return "Map"
}

// Index returns an index of the key in map, -1 if the key is missing or it
// can't be a map key.
func (i *Map) Index(key Item) int {
	k, err := StructuralKey(key)
	if err != nil {
		return -1
	}
	if idx, ok := i.index[k]; ok {
		return idx
	}
	return -1
}

// Has checks if the map has the specified key.
func (i *Map) Has(key Item) bool {
	return i.Index(key) >= 0
}

// Get returns the value stored for the key.
func (i *Map) Get(key Item) (Item, bool) {
	idx := i.Index(key)
	if idx < 0 {
		return nil, false
	}
	return i.value[idx].Value, true
}

// Dup implements the Item interface.
func (i *Map) Dup() Item {
	// reference type
	return i
}

// Type implements the Item interface.
func (i *Map) Type() Type { return MapT }

// Add adds a key-value pair to the map, replacing the value for an existing
// key. It returns the replaced value (nil if there was none) or an error if
// the key is not a primitive item.
func (i *Map) Add(key, value Item) (Item, error) {
	k, err := StructuralKey(key)
	if err != nil {
		return nil, err
	}
	if idx, ok := i.index[k]; ok {
		old := i.value[idx].Value
		i.value[idx].Value = value
		return old, nil
	}
	i.index[k] = len(i.value)
	i.value = append(i.value, MapElement{Key: key, Value: value})
	return nil, nil
}

// Drop removes the element at the specified index from the map.
// It will panic on bad index.
func (i *Map) Drop(index int) {
	k, _ := StructuralKey(i.value[index].Key)
	delete(i.index, k)
	copy(i.value[index:], i.value[index+1:])
	i.value = i.value[:len(i.value)-1]
	for j := index; j < len(i.value); j++ {
		k, _ = StructuralKey(i.value[j].Key)
		i.index[k] = j
	}
}

// StructuralKey returns the canonical form of a primitive item used to index
// maps: equal primitive contents give equal keys irrespective of the item
// type or identity.
func StructuralKey(key Item) (string, error) {
	switch key.(type) {
	case *BigInteger, Bool, *ByteArray:
		b, err := key.TryBytes()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
}

// Interop represents interop data on the stack, it's an opaque handle for the
// domain objects (transactions, blocks, contracts, storage contexts) that are
// only useful for syscalls.
type Interop struct {
	value any
}

// NewInterop returns a new Interop object.
func NewInterop(value any) *Interop {
	return &Interop{
		value: value,
	}
}

// Value implements the Item interface.
func (i *Interop) Value() any {
	return i.value
}

// String implements stringer interface.
func (i *Interop) String() string {
	return "InteropInterface"
}

// Dup implements the Item interface.
func (i *Interop) Dup() Item {
	// reference type
	return i
}

// TryBool implements the Item interface.
func (i *Interop) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Interop) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryInteger implements the Item interface.
func (i *Interop) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface, two Interop items are equal when
// they wrap the same object.
func (i *Interop) Equals(s Item) bool {
	if i == s {
		return true
	} else if s == nil {
		return false
	}
	val, ok := s.(*Interop)
	if !ok || i.value == nil || val.value == nil {
		return false
	}
	if !reflect.TypeOf(i.value).Comparable() {
		return false
	}
	return i.value == val.value
}

// Type implements the Item interface.
func (i *Interop) Type() Type { return InteropT }

// ToString returns a human readable representation of the item, it's used
// in error messages and the VM prompt.
func ToString(item Item) string {
	switch t := item.(type) {
	case *ByteArray:
		return fmt.Sprintf("ByteArray(%s)", hex.EncodeToString(*t))
	case *BigInteger:
		return fmt.Sprintf("Integer(%s)", t.Big().String())
	case Bool:
		return fmt.Sprintf("Boolean(%t)", bool(t))
	case *Array:
		return fmt.Sprintf("Array(%d)", t.Len())
	case *Struct:
		return fmt.Sprintf("Struct(%d)", t.Len())
	case *Map:
		return fmt.Sprintf("Map(%d)", t.Len())
	default:
		return item.String()
	}
}
