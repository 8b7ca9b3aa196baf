package classfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wippyai/jvm-classgen/classfile/internal/binary"
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

// Constant pool tags.
const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
)

func (t Tag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// Constant is a constant pool entry. Entries are created only by the
// Intern methods of the owning Class and never change afterwards.
//
// The set of implementations is closed; see the Constant* types below.
type Constant interface {
	// Tag returns the entry's pool tag.
	Tag() Tag
	// Index returns the entry's 1-based pool index.
	Index() uint16
	// Slots returns how many pool indices the entry occupies (2 for Long and Double).
	Slots() int
	// Size returns the number of bytes the entry takes in the pool, tag included.
	Size() int
	// Owner returns the class whose pool holds the entry.
	Owner() *Class
	String() string

	constant()
}

type entry struct {
	owner *Class
	index int
}

func (e *entry) Index() uint16 { return uint16(e.index) }
func (e *entry) Owner() *Class { return e.owner }
func (e *entry) Slots() int { return 1 }
func (e *entry) constant() {}

// ConstantUtf8 holds a string. It backs class names, member names,
// descriptors, attribute names and string literals.
type ConstantUtf8 struct {
	entry
	value   string
	encoded []byte
}

func (c *ConstantUtf8) Tag() Tag { return TagUtf8 }
func (c *ConstantUtf8) Size() int { return 3 + len(c.encoded) }
func (c *ConstantUtf8) Value() string { return c.value }
func (c *ConstantUtf8) String() string { return fmt.Sprintf("Utf8 %s", c.value) }

// ConstantClass references a class or interface by its internal name.
type ConstantClass struct {
	entry
	name *ConstantUtf8
}

func (c *ConstantClass) Tag() Tag { return TagClass }
func (c *ConstantClass) Size() int { return 3 }
func (c *ConstantClass) Name() *ConstantUtf8 { return c.name }
func (c *ConstantClass) String() string {
	return fmt.Sprintf("Class #%d // %s", c.name.Index(), c.name.value)
}

// ConstantString is a java.lang.String literal.
type ConstantString struct {
	entry
	value *ConstantUtf8
}

func (c *ConstantString) Tag() Tag { return TagString }
func (c *ConstantString) Size() int { return 3 }
func (c *ConstantString) Value() *ConstantUtf8 { return c.value }
func (c *ConstantString) String() string {
	return fmt.Sprintf("String #%d // %s", c.value.Index(), c.value.value)
}

// ConstantNameAndType pairs a member name with its descriptor.
type ConstantNameAndType struct {
	entry
	name       *ConstantUtf8
	descriptor *ConstantUtf8
}

func (c *ConstantNameAndType) Tag() Tag { return TagNameAndType }
func (c *ConstantNameAndType) Size() int { return 5 }
func (c *ConstantNameAndType) Name() *ConstantUtf8 { return c.name }
func (c *ConstantNameAndType) Descriptor() *ConstantUtf8 { return c.descriptor }
func (c *ConstantNameAndType) String() string {
	return fmt.Sprintf("NameAndType #%d:#%d // %s", c.name.Index(), c.descriptor.Index(), c.text())
}

func (c *ConstantNameAndType) text() string {
	return c.name.value + ":" + c.descriptor.value
}

// memberRef is the shared payload of field, method and interface method references.
type memberRef struct {
	entry
	class       *ConstantClass
	nameAndType *ConstantNameAndType
}

func (c *memberRef) Size() int { return 5 }
func (c *memberRef) Class() *ConstantClass { return c.class }
func (c *memberRef) NameAndType() *ConstantNameAndType { return c.nameAndType }

func (c *memberRef) describe(tag Tag) string {
	return fmt.Sprintf("%s #%d.#%d // %s.%s", tag, c.class.Index(), c.nameAndType.Index(),
		c.class.name.value, c.nameAndType.text())
}

// ConstantFieldref references a field of some class.
type ConstantFieldref struct {
	memberRef
}

func (c *ConstantFieldref) Tag() Tag { return TagFieldref }
func (c *ConstantFieldref) String() string { return c.describe(TagFieldref) }

// ConstantMethodref references a method of a class.
type ConstantMethodref struct {
	memberRef
}

func (c *ConstantMethodref) Tag() Tag { return TagMethodref }
func (c *ConstantMethodref) String() string { return c.describe(TagMethodref) }

// ConstantInterfaceMethodref references a method of an interface.
type ConstantInterfaceMethodref struct {
	memberRef
}

func (c *ConstantInterfaceMethodref) Tag() Tag { return TagInterfaceMethodref }
func (c *ConstantInterfaceMethodref) String() string { return c.describe(TagInterfaceMethodref) }

// ConstantInteger holds an int literal.
type ConstantInteger struct {
	entry
	value int32
}

func (c *ConstantInteger) Tag() Tag { return TagInteger }
func (c *ConstantInteger) Size() int { return 5 }
func (c *ConstantInteger) Value() int32 { return c.value }
func (c *ConstantInteger) String() string { return fmt.Sprintf("Integer %d", c.value) }

// ConstantFloat holds a float literal. Equality is by bit pattern.
type ConstantFloat struct {
	entry
	value float32
}

func (c *ConstantFloat) Tag() Tag { return TagFloat }
func (c *ConstantFloat) Size() int { return 5 }
func (c *ConstantFloat) Value() float32 { return c.value }
func (c *ConstantFloat) Bits() uint32 { return math.Float32bits(c.value) }
func (c *ConstantFloat) String() string {
	return fmt.Sprintf("Float %v (0x%08x)", c.value, c.Bits())
}

// ConstantLong holds a long literal. It occupies two pool indices.
type ConstantLong struct {
	entry
	value int64
}

func (c *ConstantLong) Tag() Tag { return TagLong }
func (c *ConstantLong) Size() int { return 9 }
func (c *ConstantLong) Slots() int { return 2 }
func (c *ConstantLong) Value() int64 { return c.value }
func (c *ConstantLong) String() string { return fmt.Sprintf("Long %dl", c.value) }

// ConstantDouble holds a double literal. It occupies two pool indices and
// is compared by bit pattern.
type ConstantDouble struct {
	entry
	value float64
}

func (c *ConstantDouble) Tag() Tag { return TagDouble }
func (c *ConstantDouble) Size() int { return 9 }
func (c *ConstantDouble) Slots() int { return 2 }
func (c *ConstantDouble) Value() float64 { return c.value }
func (c *ConstantDouble) Bits() uint64 { return math.Float64bits(c.value) }
func (c *ConstantDouble) String() string {
	return fmt.Sprintf("Double %vd (0x%016x)", c.value, c.Bits())
}

// writeConstant encodes one cp_info structure.
func writeConstant(w *binary.Writer, k Constant) {
	w.Byte(byte(k.Tag()))
	switch c := k.(type) {
	case *ConstantUtf8:
		w.WriteU16(uint16(len(c.encoded)))
		w.WriteBytes(c.encoded)
	case *ConstantClass:
		w.WriteU16(c.name.Index())
	case *ConstantString:
		w.WriteU16(c.value.Index())
	case *ConstantNameAndType:
		w.WriteU16(c.name.Index())
		w.WriteU16(c.descriptor.Index())
	case *ConstantFieldref:
		writeMemberRef(w, &c.memberRef)
	case *ConstantMethodref:
		writeMemberRef(w, &c.memberRef)
	case *ConstantInterfaceMethodref:
		writeMemberRef(w, &c.memberRef)
	case *ConstantInteger:
		w.WriteU32(uint32(c.value))
	case *ConstantFloat:
		w.WriteF32(c.value)
	case *ConstantLong:
		w.WriteU64(uint64(c.value))
	case *ConstantDouble:
		w.WriteF64(c.value)
	}
}

func writeMemberRef(w *binary.Writer, c *memberRef) {
	w.WriteU16(c.class.Index())
	w.WriteU16(c.nameAndType.Index())
}
