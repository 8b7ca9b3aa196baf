package classfile

import (
	"github.com/wippyai/jvm-classgen/errors"
)

// member is the state shared by fields and methods.
type member struct {
	owner      *Class
	name       *ConstantUtf8
	descriptor *ConstantUtf8
	attributes attributeList
	flagSet
}

// Owner returns the class the member belongs to.
func (m *member) Owner() *Class { return m.owner }

// Name returns the member's name entry.
func (m *member) Name() *ConstantUtf8 { return m.name }

// Descriptor returns the member's descriptor entry.
func (m *member) Descriptor() *ConstantUtf8 { return m.descriptor }

// Attributes returns the member's attributes in insertion order.
func (m *member) Attributes() []Attribute { return m.attributes.list() }

// RemoveAttribute detaches a. It reports whether a was attached.
func (m *member) RemoveAttribute(a Attribute) bool { return m.attributes.remove(a) }

// Size returns the encoded size of the field_info or method_info structure.
func (m *member) Size() int {
	return 6 + m.attributes.size()
}

func (m *member) path() []string {
	return append(m.owner.path(), m.name.value+m.descriptor.value)
}

func (m *member) addAttribute(a Attribute) error {
	if err := m.owner.checkAttribute(a); err != nil {
		return err
	}
	m.attributes.add(a)
	return nil
}

// Field is a field_info structure.
type Field struct {
	member
}

// AddAttribute attaches a to the field.
func (f *Field) AddAttribute(a Attribute) error {
	if _, ok := a.(*Code); ok {
		return errors.InvalidInput(errors.PhaseBuild, "Code attribute can only be attached to its method")
	}
	return f.addAttribute(a)
}

// Method is a method_info structure. Methods are unique per class by name
// and descriptor.
type Method struct {
	code *Code
	member
}

// AddAttribute attaches a to the method. A Code attribute is accepted only
// if it was created by this method.
func (m *Method) AddAttribute(a Attribute) error {
	if code, ok := a.(*Code); ok && code != nil && code.method != m {
		return errors.InvalidInput(errors.PhaseBuild, "Code attribute belongs to a different method")
	}
	return m.addAttribute(a)
}

// Code returns the method's code attribute, creating and attaching it on
// the first call. Later calls return the same instance.
func (m *Method) Code() *Code {
	if m.code == nil {
		m.code = newCode(m)
		m.attributes.add(m.code)
	}
	return m.code
}

// HasCode reports whether Code has been called.
func (m *Method) HasCode() bool {
	return m.code != nil
}

// attachedCode returns the code attribute if it is still attached.
func (m *Method) attachedCode() *Code {
	if m.code == nil {
		return nil
	}
	for _, a := range m.attributes.items {
		if a == Attribute(m.code) {
			return m.code
		}
	}
	return nil
}
