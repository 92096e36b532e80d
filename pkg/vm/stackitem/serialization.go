package stackitem

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
)

var (
	// ErrRecursive is returned on an attempt to serialize some recursive
	// (or otherwise repeatedly referenced) compound item.
	ErrRecursive = errors.New("recursive structures can't be serialized")
	// ErrUnserializable is returned on an attempt to serialize some item that
	// can't be serialized (like Interop or Null).
	ErrUnserializable = errors.New("unserializable type")
)

// serContext is an internal serialization context.
type serContext struct {
	*io.BinWriter
	buf  *io.BufBinWriter
	seen map[Item]bool
}

// Serialize encodes the given Item into the byte slice.
func Serialize(item Item) ([]byte, error) {
	w := io.NewBufBinWriter()
	sc := serContext{
		BinWriter: w.BinWriter,
		buf:       w,
		seen:      make(map[Item]bool),
	}
	sc.serialize(item)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// EncodeBinary encodes the given Item into the given BinWriter. It's
// similar to io.Serializable's EncodeBinary but works with Item
// interface.
func EncodeBinary(item Item, w *io.BinWriter) {
	sc := serContext{
		BinWriter: w,
		seen:      make(map[Item]bool),
	}
	sc.serialize(item)
}

func (w *serContext) serialize(item Item) {
	if w.Err != nil {
		return
	}
	if w.seen[item] {
		w.Err = ErrRecursive
		return
	}

	switch t := item.(type) {
	case *ByteArray:
		w.WriteB(byte(ByteArrayT))
		w.WriteVarBytes(*t)
	case Bool:
		w.WriteB(byte(BooleanT))
		w.WriteBool(bool(t))
	case *BigInteger:
		w.WriteB(byte(IntegerT))
		w.WriteVarBytes(t.Bytes())
	case *Array, *Struct:
		w.seen[item] = true

		if _, isArray := t.(*Array); isArray {
			w.WriteB(byte(ArrayT))
		} else {
			w.WriteB(byte(StructT))
		}

		arr := t.Value().([]Item)
		w.WriteVarUint(uint64(len(arr)))
		for i := range arr {
			w.serialize(arr[i])
		}
	case *Map:
		w.seen[item] = true

		w.WriteB(byte(MapT))
		w.WriteVarUint(uint64(len(t.value)))
		for i := range t.value {
			w.serialize(t.value[i].Key)
			w.serialize(t.value[i].Value)
		}
	case nil:
		w.Err = errors.New("invalid stack item")
	default:
		w.Err = fmt.Errorf("%w: %s", ErrUnserializable, item)
	}

	if w.Err == nil && w.buf != nil && w.buf.Len() > MaxSize {
		w.Err = fmt.Errorf("%w: serialized item", ErrTooBig)
	}
}

// Deserialize decodes Item from the given byte slice. Trailing data is not
// allowed.
func Deserialize(data []byte) (Item, error) {
	r := io.NewBinReaderFromBuf(data)
	item := DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidValue, r.Len())
	}
	return item, nil
}

// DecodeBinary decodes a previously serialized Item from the given
// reader. It's similar to the io.Serializable's DecodeBinary() but implemented
// as a function because Item itself is an interface. Caveat: always check
// reader's error value before using the returned Item.
func DecodeBinary(r *io.BinReader) Item {
	var t = Type(r.ReadB())
	if r.Err != nil {
		return nil
	}

	switch t {
	case ByteArrayT:
		data := r.ReadVarBytes(MaxSize)
		return NewByteArray(data)
	case BooleanT:
		var b = r.ReadBool()
		return NewBool(b)
	case IntegerT:
		data := r.ReadVarBytes(bigint.MaxBytesLen)
		num := bigint.FromBytes(data)
		return NewBigInteger(num)
	case ArrayT, StructT:
		size := int(r.ReadVarUint())
		if size > MaxArraySize {
			r.Err = fmt.Errorf("%w: %d elements", ErrTooBig, size)
			return nil
		}
		arr := make([]Item, size)
		for i := 0; i < size; i++ {
			arr[i] = DecodeBinary(r)
		}

		if t == ArrayT {
			return NewArray(arr)
		}
		return NewStruct(arr)
	case MapT:
		size := int(r.ReadVarUint())
		if size > MaxArraySize {
			r.Err = fmt.Errorf("%w: %d elements", ErrTooBig, size)
			return nil
		}
		m := NewMap()
		for i := 0; i < size; i++ {
			key := DecodeBinary(r)
			value := DecodeBinary(r)
			if r.Err != nil {
				break
			}
			if _, err := m.Add(key, value); err != nil {
				r.Err = err
				break
			}
		}
		return m
	default:
		r.Err = fmt.Errorf("%w: unknown type %v", ErrInvalidValue, t)
		return nil
	}
}
