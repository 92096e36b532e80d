package io

import "errors"

// Serializable defines the binary encoding/decoding interface. Errors are
// returned via BinReader/BinWriter Err field. These functions must have safe
// behavior when the passed BinReader/BinWriter with Err is already set.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}

// WriteArray writes a slice arr into w prefixed with its length.
func WriteArray[Slice ~[]E, E interface{ EncodeBinary(*BinWriter) }](w *BinWriter, arr Slice) {
	w.WriteVarUint(uint64(len(arr)))
	for i := range arr {
		arr[i].EncodeBinary(w)
	}
}

// ReadArray reads an array of pointers to values of type E using the element
// constructor newE, the number of elements is limited by maxSize.
func ReadArray[E Serializable](r *BinReader, newE func() E, maxSize int) []E {
	l := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if l > uint64(maxSize) {
		r.Err = ErrTooBig
		return nil
	}
	arr := make([]E, 0, l)
	for i := uint64(0); i < l && r.Err == nil; i++ {
		e := newE()
		e.DecodeBinary(r)
		arr = append(arr, e)
	}
	return arr
}

// ToByteArray encodes s into a byte slice.
func ToByteArray(s interface{ EncodeBinary(*BinWriter) }) ([]byte, error) {
	w := NewBufBinWriter()
	s.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromByteArray decodes s from the given byte slice, trailing data is an
// error.
func FromByteArray(s Serializable, data []byte) error {
	r := NewBinReaderFromBuf(data)
	s.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	if r.Len() != 0 {
		return errors.New("unexpected trailing data")
	}
	return nil
}
