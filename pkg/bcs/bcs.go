// Package bcs implements the subset of Binary Canonical Serialization needed
// to build Sui transaction data.
//
// Integers are little-endian, sequence and string lengths are ULEB128
// prefixed, enums are a ULEB128 variant index followed by the payload, and
// options are a 0/1 tag followed by the value.
package bcs

import (
	"encoding/binary"
)

// Marshaler is implemented by types that can write themselves as BCS.
type Marshaler interface {
	MarshalBCS(e *Encoder)
}

// Encoder accumulates BCS bytes.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Marshal encodes v and returns the bytes.
func Marshal(v Marshaler) []byte {
	e := NewEncoder()
	v.MarshalBCS(e)
	return e.Bytes()
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// WriteU8 writes a single byte.
func (e *Encoder) WriteU8(v uint8) {
	e.buf = append(e.buf, v)
}

// WriteU16 writes a little-endian uint16.
func (e *Encoder) WriteU16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

// WriteU64 writes a little-endian uint64.
func (e *Encoder) WriteU64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// WriteBool writes 0x01 or 0x00.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
		return
	}
	e.buf = append(e.buf, 0)
}

// WriteULEB128 writes v as unsigned LEB128.
func (e *Encoder) WriteULEB128(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// WriteVariant writes an enum variant index.
func (e *Encoder) WriteVariant(idx uint32) {
	e.WriteULEB128(uint64(idx))
}

// WriteLen writes a sequence length.
func (e *Encoder) WriteLen(n int) {
	e.WriteULEB128(uint64(n))
}

// WriteFixed writes raw bytes with no length prefix (fixed-size arrays).
func (e *Encoder) WriteFixed(b []byte) {
	e.buf = append(e.buf, b...)
}

// WriteBytes writes a length-prefixed byte vector.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteLen(len(b))
	e.buf = append(e.buf, b...)
}

// WriteString writes a length-prefixed UTF-8 string.
func (e *Encoder) WriteString(s string) {
	e.WriteLen(len(s))
	e.buf = append(e.buf, s...)
}

// WriteOptionTag writes the option discriminant. The caller writes the value
// when present is true.
func (e *Encoder) WriteOptionTag(present bool) {
	e.WriteBool(present)
}

// U64 returns the BCS encoding of a single uint64.
func U64(v uint64) []byte {
	e := NewEncoder()
	e.WriteU64(v)
	return e.Bytes()
}

// String returns the BCS encoding of a string.
func String(s string) []byte {
	e := NewEncoder()
	e.WriteString(s)
	return e.Bytes()
}

// OptionString returns the BCS encoding of Option<String>.
func OptionString(s *string) []byte {
	e := NewEncoder()
	e.WriteOptionTag(s != nil)
	if s != nil {
		e.WriteString(*s)
	}
	return e.Bytes()
}
