package classfile

import (
	"io"
	"math"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-classgen/classfile/internal/binary"
	"github.com/wippyai/jvm-classgen/errors"
)

const (
	// maxAttributeLength is the largest attribute_length a u4 can hold.
	maxAttributeLength = math.MaxUint32
	// maxUtf8Length is the largest encoded Utf8 entry a u2 length can describe.
	maxUtf8Length = math.MaxUint16
)

// Encode serializes the class file. Every method's code is finalized
// first. On failure no bytes are returned.
func (c *Class) Encode() ([]byte, error) {
	if err := c.prepare(); err != nil {
		return nil, err
	}

	w := binary.NewWriterSize(c.Size())
	if err := c.write(w); err != nil {
		return nil, err
	}

	out := w.Bytes()
	Logger().Debug("class encoded",
		zap.String("class", c.Name()),
		zap.Int("pool_count", c.PoolCount()),
		zap.Int("bytes", len(out)))
	return out, nil
}

// WriteTo encodes the class and writes it to w.
func (c *Class) WriteTo(w io.Writer) (int64, error) {
	data, err := c.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		wrapped := errors.Wrap(errors.PhaseEncode, errors.KindIO, err, "write class file")
		wrapped.Path = c.path()
		return int64(n), wrapped
	}
	return int64(n), nil
}

// Size returns the number of bytes Encode produces for the current state.
// Code lengths are computed from instruction sizes, so no finalize is needed.
func (c *Class) Size() int {
	n := 4 + 2 + 2 + 2 // magic, minor, major, constant_pool_count
	for _, k := range c.pool.entries {
		n += k.Size()
	}
	n += 2 + 2 + 2 // access_flags, this_class, super_class
	n += 2 + 2*len(c.interfaces)
	n += 2
	for _, f := range c.fields {
		n += f.Size()
	}
	n += 2
	for _, m := range c.methods {
		n += m.Size()
	}
	return n + c.attributes.size()
}

// prepare finalizes method code and validates the limits the format
// imposes before anything is written.
func (c *Class) prepare() error {
	for _, m := range c.methods {
		code := m.attachedCode()
		if code == nil {
			continue
		}
		if err := code.Finalize(); err != nil {
			return err
		}
	}

	if !c.options.MajorVersion.Valid() {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Path(c.path()...).
			Value(c.options.MajorVersion).
			Detail("unsupported major version %d", c.options.MajorVersion).
			Build()
	}

	if c.pool.next > maxPoolCount {
		return errors.Overflow(errors.PhaseEncode, c.path(), c.pool.next, "constant_pool_count")
	}
	for _, k := range c.pool.entries {
		u, ok := k.(*ConstantUtf8)
		if !ok {
			continue
		}
		if !utf8.ValidString(u.value) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(append(c.path(), describe(u))...).
				Value(u.value).
				Detail("%q is not valid UTF-8", u.value).
				Build()
		}
		if len(u.encoded) > maxUtf8Length {
			return errors.Overflow(errors.PhaseEncode, append(c.path(), describe(u)), len(u.encoded), "Utf8 length")
		}
	}
	return nil
}

func (c *Class) write(w *binary.Writer) error {
	path := c.path()

	w.WriteU32(Magic)
	w.WriteU16(c.options.MinorVersion)
	w.WriteU16(uint16(c.options.MajorVersion))

	w.WriteU16(uint16(c.pool.next))
	for _, k := range c.pool.entries {
		writeConstant(w, k)
	}

	w.WriteU16(uint16(c.bits))
	w.WriteU16(c.this.Index())
	w.WriteU16(c.super.Index())

	if err := writeCount(w, len(c.interfaces), path, "interfaces_count"); err != nil {
		return err
	}
	for _, iface := range c.interfaces {
		w.WriteU16(iface.Index())
	}

	if err := writeCount(w, len(c.fields), path, "fields_count"); err != nil {
		return err
	}
	for _, f := range c.fields {
		if err := f.write(w); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(c.methods), path, "methods_count"); err != nil {
		return err
	}
	for _, m := range c.methods {
		if err := m.write(w); err != nil {
			return err
		}
	}

	return writeAttributes(w, &c.attributes, path)
}

// write encodes a field_info or method_info structure.
func (m *member) write(w *binary.Writer) error {
	w.WriteU16(uint16(m.bits))
	w.WriteU16(m.name.Index())
	w.WriteU16(m.descriptor.Index())
	return writeAttributes(w, &m.attributes, m.path())
}

func writeCount(w *binary.Writer, n int, path []string, field string) error {
	if n > math.MaxUint16 {
		return errors.Overflow(errors.PhaseEncode, path, n, field)
	}
	w.WriteU16(uint16(n))
	return nil
}
