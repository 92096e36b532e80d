package stackitem

import "fmt"

// Type represents a type of the stack item, the values are the ones used in
// the binary serialization.
type Type byte

// This block defines all known stack item types.
const (
	ByteArrayT Type = 0x00
	BooleanT   Type = 0x01
	IntegerT   Type = 0x02
	InteropT   Type = 0x40
	ArrayT     Type = 0x80
	StructT    Type = 0x81
	MapT       Type = 0x82
	AnyT       Type = 0xff
)

// String implements fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case AnyT:
		return "Any"
	case ByteArrayT:
		return "ByteArray"
	case BooleanT:
		return "Boolean"
	case IntegerT:
		return "Integer"
	case InteropT:
		return "Interop"
	case ArrayT:
		return "Array"
	case StructT:
		return "Struct"
	case MapT:
		return "Map"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// IsValid checks if s is a well defined stack item type.
func (t Type) IsValid() bool {
	switch t {
	case AnyT, ByteArrayT, BooleanT, IntegerT, InteropT, ArrayT, StructT, MapT:
		return true
	default:
		return false
	}
}

// IsPrimitive checks if the type can be used as a map key.
func (t Type) IsPrimitive() bool {
	switch t {
	case ByteArrayT, BooleanT, IntegerT:
		return true
	default:
		return false
	}
}
