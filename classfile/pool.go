package classfile

import (
	"fmt"
	"math"

	"github.com/wippyai/jvm-classgen/classfile/internal/binary"
	"github.com/wippyai/jvm-classgen/descriptor"
	"github.com/wippyai/jvm-classgen/errors"
)

// maxPoolCount is the largest constant_pool_count a u2 can hold.
const maxPoolCount = math.MaxUint16

// poolKey identifies an entry by tag and payload. References are keyed by
// the indices of the referenced entries, which is identity since the pool
// never holds two equal entries.
type poolKey struct {
	text string
	bits uint64
	a, b int
	tag  Tag
}

// pool is a class's constant table. Insertion order is index order.
type pool struct {
	lookup  map[poolKey]Constant
	entries []Constant
	next    int
}

func newPool() pool {
	return pool{
		lookup: make(map[poolKey]Constant),
		next:   1,
	}
}

// intern returns the entry for key, calling create with the next free
// index when none exists yet.
func (p *pool) intern(owner *Class, key poolKey, create func(e entry) Constant) Constant {
	if k, ok := p.lookup[key]; ok {
		return k
	}
	k := create(entry{owner: owner, index: p.next})
	p.next += k.Slots()
	p.entries = append(p.entries, k)
	p.lookup[key] = k
	return k
}

// Constants returns the pool entries in index order.
func (c *Class) Constants() []Constant {
	return append([]Constant(nil), c.pool.entries...)
}

// PoolCount returns the constant_pool_count value: the highest assigned
// index plus one. Long and Double entries count twice.
func (c *Class) PoolCount() int {
	return c.pool.next
}

// Constant returns the entry at index, or nil if no entry starts there.
func (c *Class) Constant(index uint16) Constant {
	for _, k := range c.pool.entries {
		if k.Index() == index {
			return k
		}
	}
	return nil
}

// InternUtf8 returns the Utf8 entry for s, adding it if needed.
func (c *Class) InternUtf8(s string) *ConstantUtf8 {
	k := c.pool.intern(c, poolKey{tag: TagUtf8, text: s}, func(e entry) Constant {
		return &ConstantUtf8{entry: e, value: s, encoded: binary.ModifiedUTF8(s)}
	})
	return k.(*ConstantUtf8)
}

// InternDescriptor returns the Utf8 entry holding d's descriptor string.
func (c *Class) InternDescriptor(d descriptor.Descriptor) *ConstantUtf8 {
	return c.InternUtf8(d.String())
}

// InternClass returns the Class entry for an internal class name.
func (c *Class) InternClass(name string) *ConstantClass {
	return c.internClass(c.InternUtf8(name))
}

// InternClassOf returns the Class entry whose name is the given Utf8 entry.
func (c *Class) InternClassOf(name *ConstantUtf8) (*ConstantClass, error) {
	if err := c.checkOwned(name, "class name"); err != nil {
		return nil, err
	}
	return c.internClass(name), nil
}

func (c *Class) internClass(name *ConstantUtf8) *ConstantClass {
	k := c.pool.intern(c, poolKey{tag: TagClass, a: name.index}, func(e entry) Constant {
		return &ConstantClass{entry: e, name: name}
	})
	return k.(*ConstantClass)
}

// InternNameAndType returns the NameAndType entry for a member name and descriptor.
func (c *Class) InternNameAndType(name, desc string) *ConstantNameAndType {
	return c.internNameAndType(c.InternUtf8(name), c.InternUtf8(desc))
}

// InternNameAndTypeOf returns the NameAndType entry for two Utf8 entries.
func (c *Class) InternNameAndTypeOf(name, desc *ConstantUtf8) (*ConstantNameAndType, error) {
	if err := c.checkOwned(name, "member name"); err != nil {
		return nil, err
	}
	if err := c.checkOwned(desc, "member descriptor"); err != nil {
		return nil, err
	}
	return c.internNameAndType(name, desc), nil
}

func (c *Class) internNameAndType(name, desc *ConstantUtf8) *ConstantNameAndType {
	key := poolKey{tag: TagNameAndType, a: name.index, b: desc.index}
	k := c.pool.intern(c, key, func(e entry) Constant {
		return &ConstantNameAndType{entry: e, name: name, descriptor: desc}
	})
	return k.(*ConstantNameAndType)
}

// InternFieldref returns the Fieldref entry for class.name:desc, interning
// the class and name-and-type entries it depends on.
func (c *Class) InternFieldref(class, name, desc string) *ConstantFieldref {
	return c.internMemberRef(TagFieldref, c.InternClass(class), c.InternNameAndType(name, desc)).(*ConstantFieldref)
}

// InternFieldrefOf returns the Fieldref entry for existing class and name-and-type entries.
func (c *Class) InternFieldrefOf(class *ConstantClass, nat *ConstantNameAndType) (*ConstantFieldref, error) {
	if err := c.checkMemberRef(class, nat); err != nil {
		return nil, err
	}
	return c.internMemberRef(TagFieldref, class, nat).(*ConstantFieldref), nil
}

// InternMethodref returns the Methodref entry for class.name:desc.
func (c *Class) InternMethodref(class, name, desc string) *ConstantMethodref {
	return c.internMemberRef(TagMethodref, c.InternClass(class), c.InternNameAndType(name, desc)).(*ConstantMethodref)
}

// InternMethodrefOf returns the Methodref entry for existing class and name-and-type entries.
func (c *Class) InternMethodrefOf(class *ConstantClass, nat *ConstantNameAndType) (*ConstantMethodref, error) {
	if err := c.checkMemberRef(class, nat); err != nil {
		return nil, err
	}
	return c.internMemberRef(TagMethodref, class, nat).(*ConstantMethodref), nil
}

// InternInterfaceMethodref returns the InterfaceMethodref entry for iface.name:desc.
func (c *Class) InternInterfaceMethodref(iface, name, desc string) *ConstantInterfaceMethodref {
	k := c.internMemberRef(TagInterfaceMethodref, c.InternClass(iface), c.InternNameAndType(name, desc))
	return k.(*ConstantInterfaceMethodref)
}

// InternInterfaceMethodrefOf returns the InterfaceMethodref entry for existing entries.
func (c *Class) InternInterfaceMethodrefOf(iface *ConstantClass, nat *ConstantNameAndType) (*ConstantInterfaceMethodref, error) {
	if err := c.checkMemberRef(iface, nat); err != nil {
		return nil, err
	}
	return c.internMemberRef(TagInterfaceMethodref, iface, nat).(*ConstantInterfaceMethodref), nil
}

func (c *Class) checkMemberRef(class *ConstantClass, nat *ConstantNameAndType) error {
	if err := c.checkOwned(class, "class"); err != nil {
		return err
	}
	return c.checkOwned(nat, "name and type")
}

func (c *Class) internMemberRef(tag Tag, class *ConstantClass, nat *ConstantNameAndType) Constant {
	key := poolKey{tag: tag, a: class.index, b: nat.index}
	return c.pool.intern(c, key, func(e entry) Constant {
		ref := memberRef{entry: e, class: class, nameAndType: nat}
		switch tag {
		case TagFieldref:
			return &ConstantFieldref{ref}
		case TagMethodref:
			return &ConstantMethodref{ref}
		default:
			return &ConstantInterfaceMethodref{ref}
		}
	})
}

// InternString returns the String entry for a literal.
func (c *Class) InternString(value string) *ConstantString {
	return c.internString(c.InternUtf8(value))
}

// InternStringOf returns the String entry backed by the given Utf8 entry.
func (c *Class) InternStringOf(value *ConstantUtf8) (*ConstantString, error) {
	if err := c.checkOwned(value, "string value"); err != nil {
		return nil, err
	}
	return c.internString(value), nil
}

func (c *Class) internString(value *ConstantUtf8) *ConstantString {
	k := c.pool.intern(c, poolKey{tag: TagString, a: value.index}, func(e entry) Constant {
		return &ConstantString{entry: e, value: value}
	})
	return k.(*ConstantString)
}

// InternInteger returns the Integer entry for v.
func (c *Class) InternInteger(v int32) *ConstantInteger {
	k := c.pool.intern(c, poolKey{tag: TagInteger, bits: uint64(uint32(v))}, func(e entry) Constant {
		return &ConstantInteger{entry: e, value: v}
	})
	return k.(*ConstantInteger)
}

// InternFloat returns the Float entry for v. Values are matched by bit
// pattern, so 0.0 and -0.0 (or NaNs with different payloads) are distinct.
func (c *Class) InternFloat(v float32) *ConstantFloat {
	k := c.pool.intern(c, poolKey{tag: TagFloat, bits: uint64(math.Float32bits(v))}, func(e entry) Constant {
		return &ConstantFloat{entry: e, value: v}
	})
	return k.(*ConstantFloat)
}

// InternLong returns the Long entry for v.
func (c *Class) InternLong(v int64) *ConstantLong {
	k := c.pool.intern(c, poolKey{tag: TagLong, bits: uint64(v)}, func(e entry) Constant {
		return &ConstantLong{entry: e, value: v}
	})
	return k.(*ConstantLong)
}

// InternDouble returns the Double entry for v, matched by bit pattern.
func (c *Class) InternDouble(v float64) *ConstantDouble {
	k := c.pool.intern(c, poolKey{tag: TagDouble, bits: math.Float64bits(v)}, func(e entry) Constant {
		return &ConstantDouble{entry: e, value: v}
	})
	return k.(*ConstantDouble)
}

// checkOwned validates a reference argument before anything is mutated.
func (c *Class) checkOwned(k Constant, what string) error {
	if isNil(k) {
		return errors.InvalidInput(errors.PhaseBuild, what+" is nil")
	}
	if k.Owner() != c {
		return errors.OwnershipViolation(errors.PhaseBuild, c.path(), describe(k))
	}
	return nil
}

func describe(k Constant) string {
	return fmt.Sprintf("%s constant #%d", k.Tag(), k.Index())
}
