package classfile

import (
	"reflect"

	"github.com/wippyai/jvm-classgen/errors"
)

// Class is an in-memory class file. It owns the constant pool and every
// field, method and attribute built for it; elements are created only
// through its factory methods and may not be shared with another Class.
//
// A Class is not safe for concurrent use.
type Class struct {
	this       *ConstantClass
	super      *ConstantClass
	pool       pool
	interfaces []*ConstantClass
	fields     []*Field
	methods    []*Method
	attributes attributeList
	flagSet
	options Options
}

// New creates a class named name extending super, both given as internal
// names (e.g. "java/lang/Object"), with DefaultOptions.
func New(name, super string) *Class {
	return NewWithOptions(name, super, DefaultOptions())
}

// NewWithOptions creates a class with the given configuration. The class
// and superclass entries are interned before anything else.
func NewWithOptions(name, super string, opts Options) *Class {
	c := &Class{
		pool:    newPool(),
		options: opts,
	}
	c.bits = opts.AccessFlags
	c.this = c.InternClass(name)
	c.super = c.InternClass(super)
	return c
}

// Options returns the configuration the class was created with.
func (c *Class) Options() Options {
	return c.options
}

// Name returns the internal name of the class.
func (c *Class) Name() string {
	return c.this.name.value
}

// This returns the class's own Class entry.
func (c *Class) This() *ConstantClass {
	return c.this
}

// Super returns the superclass entry.
func (c *Class) Super() *ConstantClass {
	return c.super
}

// AddInterface records that the class implements iface. Adding the same
// interface twice keeps a single entry.
func (c *Class) AddInterface(iface string) *ConstantClass {
	k := c.InternClass(iface)
	c.addInterface(k)
	return k
}

// AddInterfaceOf records an interface given its Class entry.
func (c *Class) AddInterfaceOf(iface *ConstantClass) error {
	if err := c.checkOwned(iface, "interface"); err != nil {
		return err
	}
	c.addInterface(iface)
	return nil
}

func (c *Class) addInterface(k *ConstantClass) {
	for _, existing := range c.interfaces {
		if existing == k {
			return
		}
	}
	c.interfaces = append(c.interfaces, k)
}

// Interfaces returns the implemented interfaces in insertion order.
func (c *Class) Interfaces() []*ConstantClass {
	return append([]*ConstantClass(nil), c.interfaces...)
}

// AddField creates a new field. Fields are never deduplicated: two calls
// with the same name and descriptor produce two fields.
func (c *Class) AddField(name, desc string) *Field {
	f := &Field{member: member{owner: c, name: c.InternUtf8(name), descriptor: c.InternUtf8(desc)}}
	c.fields = append(c.fields, f)
	return f
}

// AddFieldOf creates a new field from existing Utf8 entries.
func (c *Class) AddFieldOf(name, desc *ConstantUtf8) (*Field, error) {
	if err := c.checkMemberNames(name, desc); err != nil {
		return nil, err
	}
	f := &Field{member: member{owner: c, name: name, descriptor: desc}}
	c.fields = append(c.fields, f)
	return f, nil
}

// Fields returns the fields in creation order.
func (c *Class) Fields() []*Field {
	return append([]*Field(nil), c.fields...)
}

// Method returns the method with the given name and descriptor, creating
// it on first use.
func (c *Class) Method(name, desc string) *Method {
	return c.method(c.InternUtf8(name), c.InternUtf8(desc))
}

// MethodOf is Method for existing Utf8 entries.
func (c *Class) MethodOf(name, desc *ConstantUtf8) (*Method, error) {
	if err := c.checkMemberNames(name, desc); err != nil {
		return nil, err
	}
	return c.method(name, desc), nil
}

func (c *Class) method(name, desc *ConstantUtf8) *Method {
	for _, m := range c.methods {
		if m.name == name && m.descriptor == desc {
			return m
		}
	}
	m := &Method{member: member{owner: c, name: name, descriptor: desc}}
	c.methods = append(c.methods, m)
	return m
}

// Methods returns the methods in creation order.
func (c *Class) Methods() []*Method {
	return append([]*Method(nil), c.methods...)
}

// checkMemberNames validates the name and descriptor of a new member:
// both must come from the same class, and that class must be c.
func (c *Class) checkMemberNames(name, desc *ConstantUtf8) error {
	if name == nil || desc == nil {
		return errors.InvalidInput(errors.PhaseBuild, "member name and descriptor must not be nil")
	}
	if name.owner != desc.owner {
		return errors.OwnershipMismatch(errors.PhaseBuild, c.path(), "name "+describe(name), "descriptor "+describe(desc))
	}
	if name.owner != c {
		return errors.OwnershipViolation(errors.PhaseBuild, c.path(), "member name "+describe(name))
	}
	return nil
}

// AddAttribute attaches a class-level attribute.
func (c *Class) AddAttribute(a Attribute) error {
	if err := c.checkAttribute(a); err != nil {
		return err
	}
	if _, ok := a.(*Code); ok {
		return errors.InvalidInput(errors.PhaseBuild, "Code attribute can only be attached to its method")
	}
	c.attributes.add(a)
	return nil
}

// RemoveAttribute detaches a class-level attribute. It reports whether the
// attribute was attached.
func (c *Class) RemoveAttribute(a Attribute) bool {
	return c.attributes.remove(a)
}

// Attributes returns the class-level attributes in insertion order.
func (c *Class) Attributes() []Attribute {
	return c.attributes.list()
}

func (c *Class) checkAttribute(a Attribute) error {
	if a == nil || reflect.ValueOf(a).IsNil() {
		return errors.InvalidInput(errors.PhaseBuild, "attribute is nil")
	}
	if a.Owner() != c {
		return errors.OwnershipViolation(errors.PhaseBuild, c.path(), a.Name().value+" attribute")
	}
	return nil
}

func (c *Class) path() []string {
	return []string{c.Name()}
}

func isNil(k Constant) bool {
	if k == nil {
		return true
	}
	v := reflect.ValueOf(k)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
