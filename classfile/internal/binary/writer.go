package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer provides buffered big-endian writing utilities for class-file encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// NewWriterSize creates a Writer with room for n bytes.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: bytes.NewBuffer(make([]byte, 0, n))}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU16 writes a big-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteI16 writes a big-endian two's complement int16.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 writes a big-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU64 writes a big-endian uint64 as two u4 halves, high word first.
func (w *Writer) WriteU64(v uint64) {
	w.WriteU32(uint32(v >> 32))
	w.WriteU32(uint32(v))
}

// WriteF32 writes the IEEE-754 bit pattern of v.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes the IEEE-754 bit pattern of v.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}
