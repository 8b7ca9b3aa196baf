package binary

import (
	"bytes"
	"math"
	"testing"
)

func TestWriterBasic(t *testing.T) {
	w := NewWriter()
	if w.Len() != 0 {
		t.Errorf("initial Len: got %d, want 0", w.Len())
	}

	w.Byte(0x42)
	if w.Len() != 1 {
		t.Errorf("Len after Byte: got %d, want 1", w.Len())
	}

	w.WriteBytes([]byte{0x01, 0x02, 0x03})
	if w.Len() != 4 {
		t.Errorf("Len after WriteBytes: got %d, want 4", w.Len())
	}

	got := w.Bytes()
	want := []byte{0x42, 0x01, 0x02, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes: got %v, want %v", got, want)
	}
}

func TestWriterFixedWidth(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  []byte
	}{
		{"u16", func(w *Writer) { w.WriteU16(0xCAFE) }, []byte{0xCA, 0xFE}},
		{"i16 negative", func(w *Writer) { w.WriteI16(-3) }, []byte{0xFF, 0xFD}},
		{"u32", func(w *Writer) { w.WriteU32(0xCAFEBABE) }, []byte{0xCA, 0xFE, 0xBA, 0xBE}},
		{"u64", func(w *Writer) { w.WriteU64(0x0102030405060708) }, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"f32 one", func(w *Writer) { w.WriteF32(1.0) }, []byte{0x3F, 0x80, 0x00, 0x00}},
		{"f32 negative zero", func(w *Writer) { w.WriteF32(float32(math.Copysign(0, -1))) }, []byte{0x80, 0, 0, 0}},
		{"f64 one", func(w *Writer) { w.WriteF64(1.0) }, []byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{"f64 signaling nan", func(w *Writer) { w.WriteF64(math.Float64frombits(0x7FF0000000000001)) }, []byte{0x7F, 0xF0, 0, 0, 0, 0, 0, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriterSize(8)
			tt.write(w)
			if got := w.Bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestModifiedUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", []byte{}},
		{"Main", []byte("Main")},
		{"a\x00b", []byte{'a', 0xC0, 0x80, 'b'}},
		{"é", []byte{0xC3, 0xA9}},
		{"€", []byte{0xE2, 0x82, 0xAC}},
		{"\U0001F600", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	}

	for _, tt := range tests {
		if got := ModifiedUTF8(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("ModifiedUTF8(%q): got % x, want % x", tt.in, got, tt.want)
		}
	}
}
