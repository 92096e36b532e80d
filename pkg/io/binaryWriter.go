package io

import (
	"encoding/binary"
	"io"
)

// BinWriter writes NEO binary encoded values into an io.Writer. The first
// error is kept in Err and every following write is a no-op, so callers
// check Err once after writing the whole structure.
type BinWriter struct {
	w   io.Writer
	Err error
	buf [9]byte
}

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteU64LE writes a little-endian uint64.
func (w *BinWriter) WriteU64LE(u64 uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], u64)
	w.WriteBytes(w.buf[:8])
}

// WriteU32LE writes a little-endian uint32 (timestamps, nonces, interop
// IDs).
func (w *BinWriter) WriteU32LE(u32 uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], u32)
	w.WriteBytes(w.buf[:4])
}

// WriteU16LE writes a little-endian uint16 (jump offsets, PUSHDATA2
// lengths).
func (w *BinWriter) WriteU16LE(u16 uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], u16)
	w.WriteBytes(w.buf[:2])
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(b byte) {
	w.buf[0] = b
	w.WriteBytes(w.buf[:1])
}

// WriteBool writes a boolean as a 0 or 1 byte.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteVarUint writes val using the variable-length encoding: values below
// 0xfd take one byte, larger ones get a 0xfd, 0xfe or 0xff marker followed
// by 2, 4 or 8 bytes.
func (w *BinWriter) WriteVarUint(val uint64) {
	if w.Err != nil {
		return
	}
	w.WriteBytes(w.buf[:putVarUint(w.buf[:], val)])
}

func putVarUint(data []byte, val uint64) int {
	switch {
	case val < 0xfd:
		data[0] = byte(val)
		return 1
	case val <= 0xffff:
		data[0] = 0xfd
		binary.LittleEndian.PutUint16(data[1:], uint16(val))
		return 3
	case val <= 0xffffffff:
		data[0] = 0xfe
		binary.LittleEndian.PutUint32(data[1:], uint32(val))
		return 5
	default:
		data[0] = 0xff
		binary.LittleEndian.PutUint64(data[1:], val)
		return 9
	}
}

// WriteBytes writes b as is, without a length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// WriteVarBytes writes b prefixed with its var-uint length.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes s prefixed with its var-uint length.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarUint(uint64(len(s)))
	if w.Err != nil {
		return
	}
	_, w.Err = io.WriteString(w.w, s)
}
