package classfile

import (
	"github.com/wippyai/jvm-classgen/classfile/internal/binary"
	"github.com/wippyai/jvm-classgen/errors"
)

// Attribute is an attribute_info structure. The set of implementations is
// closed: RawAttribute, SourceFileAttribute, ConstantValueAttribute and Code.
type Attribute interface {
	// Name returns the Utf8 entry holding the attribute name.
	Name() *ConstantUtf8
	// Length returns the attribute_length value: the payload size in bytes,
	// excluding the six-byte header.
	Length() int
	// Owner returns the class whose pool the attribute references.
	Owner() *Class

	attribute()
}

// RawAttribute carries an arbitrary named payload written verbatim.
type RawAttribute struct {
	owner *Class
	name  *ConstantUtf8
	data  []byte
}

// NewRawAttribute creates an attribute with the given name and payload.
// The payload is copied.
func (c *Class) NewRawAttribute(name string, data []byte) *RawAttribute {
	return &RawAttribute{
		owner: c,
		name:  c.InternUtf8(name),
		data:  append([]byte(nil), data...),
	}
}

func (a *RawAttribute) Name() *ConstantUtf8 { return a.name }
func (a *RawAttribute) Length() int { return len(a.data) }
func (a *RawAttribute) Owner() *Class { return a.owner }
func (a *RawAttribute) Data() []byte { return append([]byte(nil), a.data...) }
func (a *RawAttribute) attribute() {}

// SourceFileAttribute names the source file a class was compiled from.
type SourceFileAttribute struct {
	owner *Class
	name  *ConstantUtf8
	file  *ConstantUtf8
}

// NewSourceFile creates a SourceFile attribute.
func (c *Class) NewSourceFile(file string) *SourceFileAttribute {
	return &SourceFileAttribute{
		owner: c,
		name:  c.InternUtf8("SourceFile"),
		file:  c.InternUtf8(file),
	}
}

func (a *SourceFileAttribute) Name() *ConstantUtf8 { return a.name }
func (a *SourceFileAttribute) Length() int { return 2 }
func (a *SourceFileAttribute) Owner() *Class { return a.owner }
func (a *SourceFileAttribute) File() *ConstantUtf8 { return a.file }
func (a *SourceFileAttribute) attribute() {}

// ConstantValueAttribute gives a static field its initial value.
type ConstantValueAttribute struct {
	owner *Class
	name  *ConstantUtf8
	value Constant
}

// NewConstantValue creates a ConstantValue attribute. value must be an
// Integer, Float, Long, Double or String entry of this class.
func (c *Class) NewConstantValue(value Constant) (*ConstantValueAttribute, error) {
	if err := c.checkOwned(value, "constant value"); err != nil {
		return nil, err
	}
	switch value.(type) {
	case *ConstantInteger, *ConstantFloat, *ConstantLong, *ConstantDouble, *ConstantString:
	default:
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			Path(c.path()...).
			Detail("%s cannot be a field constant value", describe(value)).
			Build()
	}
	return &ConstantValueAttribute{
		owner: c,
		name:  c.InternUtf8("ConstantValue"),
		value: value,
	}, nil
}

func (a *ConstantValueAttribute) Name() *ConstantUtf8 { return a.name }
func (a *ConstantValueAttribute) Length() int { return 2 }
func (a *ConstantValueAttribute) Owner() *Class { return a.owner }
func (a *ConstantValueAttribute) Value() Constant { return a.value }
func (a *ConstantValueAttribute) attribute() {}

// attributeList is an insertion-ordered set of attributes.
type attributeList struct {
	items []Attribute
}

func (l *attributeList) add(a Attribute) {
	for _, existing := range l.items {
		if existing == a {
			return
		}
	}
	l.items = append(l.items, a)
}

func (l *attributeList) remove(a Attribute) bool {
	for i, existing := range l.items {
		if existing == a {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *attributeList) list() []Attribute {
	return append([]Attribute(nil), l.items...)
}

// size returns the encoded size of the count field and every attribute.
func (l *attributeList) size() int {
	n := 2
	for _, a := range l.items {
		n += 6 + a.Length()
	}
	return n
}

// writeAttributes encodes the attributes_count field followed by each attribute.
func writeAttributes(w *binary.Writer, l *attributeList, path []string) error {
	if err := writeCount(w, len(l.items), path, "attributes_count"); err != nil {
		return err
	}
	for _, a := range l.items {
		if err := writeAttribute(w, a, path); err != nil {
			return err
		}
	}
	return nil
}

func writeAttribute(w *binary.Writer, a Attribute, path []string) error {
	length := a.Length()
	if uint64(length) > maxAttributeLength {
		return errors.Overflow(errors.PhaseEncode, append(path, a.Name().value), length, "attribute_length")
	}
	w.WriteU16(a.Name().Index())
	w.WriteU32(uint32(length))

	switch attr := a.(type) {
	case *RawAttribute:
		w.WriteBytes(attr.data)
	case *SourceFileAttribute:
		w.WriteU16(attr.file.Index())
	case *ConstantValueAttribute:
		w.WriteU16(attr.value.Index())
	case *Code:
		return attr.write(w)
	}
	return nil
}
