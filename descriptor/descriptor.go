package descriptor

import (
	"strings"

	"github.com/wippyai/jvm-classgen/errors"
)

// Descriptor is anything that renders to a descriptor string.
type Descriptor interface {
	String() string
}

// Kind is a primitive field type. The zero value Unknown is not a valid
// primitive and marks object references.
type Kind uint8

const (
	Unknown Kind = iota
	Byte
	Char
	Double
	Float
	Int
	Long
	Short
	Boolean
)

// Char returns the descriptor letter for k, or 0 for Unknown.
func (k Kind) Char() byte {
	switch k {
	case Byte:
		return 'B'
	case Char:
		return 'C'
	case Double:
		return 'D'
	case Float:
		return 'F'
	case Int:
		return 'I'
	case Long:
		return 'J'
	case Short:
		return 'S'
	case Boolean:
		return 'Z'
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Double:
		return "double"
	case Float:
		return "float"
	case Int:
		return "int"
	case Long:
		return "long"
	case Short:
		return "short"
	case Boolean:
		return "boolean"
	}
	return "unknown"
}

// Field describes a field type: a primitive or a class reference, wrapped
// in zero or more array dimensions.
type Field struct {
	class string
	depth uint8
	kind  Kind
}

// Primitive returns the descriptor of a primitive type.
func Primitive(kind Kind) (Field, error) {
	return PrimitiveArray(kind, 0)
}

// PrimitiveArray returns the descriptor of a primitive array with depth dimensions.
func PrimitiveArray(kind Kind, depth uint8) (Field, error) {
	if kind.Char() == 0 {
		return Field{}, errors.InvalidDescriptor("primitive kind must not be unknown")
	}
	return Field{kind: kind, depth: depth}, nil
}

// Object returns the descriptor of a class reference given its internal name
// (e.g. "java/lang/String").
func Object(class string) (Field, error) {
	return ObjectArray(class, 0)
}

// ObjectArray returns the descriptor of a reference array with depth dimensions.
func ObjectArray(class string, depth uint8) (Field, error) {
	if class == "" {
		return Field{}, errors.InvalidDescriptor("class reference must not be empty")
	}
	return Field{class: class, depth: depth}, nil
}

// MustField panics if err is non-nil. Intended for package-level tables.
func MustField(f Field, err error) Field {
	if err != nil {
		panic(err)
	}
	return f
}

// Kind returns the primitive kind, Unknown for references.
func (f Field) Kind() Kind { return f.kind }

// Class returns the internal class name, empty for primitives.
func (f Field) Class() string { return f.class }

// Depth returns the number of array dimensions.
func (f Field) Depth() uint8 { return f.depth }

// Valid reports whether f was produced by one of the constructors.
func (f Field) Valid() bool {
	return f.kind.Char() != 0 || f.class != ""
}

// Wide reports whether a value of this type takes two local or stack slots.
func (f Field) Wide() bool {
	return f.depth == 0 && (f.kind == Long || f.kind == Double)
}

func (f Field) String() string {
	var b strings.Builder
	f.write(&b)
	return b.String()
}

func (f Field) write(b *strings.Builder) {
	for i := uint8(0); i < f.depth; i++ {
		b.WriteByte('[')
	}
	if c := f.kind.Char(); c != 0 {
		b.WriteByte(c)
		return
	}
	b.WriteByte('L')
	b.WriteString(f.class)
	b.WriteByte(';')
}

// Method describes a method type: ordered parameters and an optional return type.
type Method struct {
	ret    *Field
	params []Field
}

// NewMethod builds a method descriptor. A nil ret means void.
func NewMethod(params []Field, ret *Field) (Method, error) {
	for i, p := range params {
		if !p.Valid() {
			return Method{}, errors.New(errors.PhaseDescriptor, errors.KindInvalidDescriptor).
				Value(i).
				Detail("parameter %d has unknown type", i).
				Build()
		}
	}
	if ret != nil && !ret.Valid() {
		return Method{}, errors.InvalidDescriptor("return type has unknown type")
	}

	m := Method{params: append([]Field(nil), params...)}
	if ret != nil {
		r := *ret
		m.ret = &r
	}
	return m, nil
}

// MustMethod panics if err is non-nil.
func MustMethod(m Method, err error) Method {
	if err != nil {
		panic(err)
	}
	return m
}

// Params returns a copy of the parameter types.
func (m Method) Params() []Field {
	return append([]Field(nil), m.params...)
}

// Return returns the return type and false for void methods.
func (m Method) Return() (Field, bool) {
	if m.ret == nil {
		return Field{}, false
	}
	return *m.ret, true
}

// ArgSlots returns the number of local variable slots the parameters take,
// not counting the receiver.
func (m Method) ArgSlots() int {
	n := 0
	for _, p := range m.params {
		if p.Wide() {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func (m Method) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.params {
		p.write(&b)
	}
	b.WriteByte(')')
	if m.ret == nil {
		b.WriteByte('V')
	} else {
		m.ret.write(&b)
	}
	return b.String()
}
