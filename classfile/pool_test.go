package classfile

import (
	"math"
	"testing"

	"github.com/wippyai/jvm-classgen/descriptor"
	"github.com/wippyai/jvm-classgen/errors"
)

func TestNewInternsClassNames(t *testing.T) {
	c := New("Main", "java/lang/Object")

	if got := c.PoolCount(); got != 5 {
		t.Fatalf("PoolCount() = %d, want 5", got)
	}
	if c.This().Index() != 2 || c.Super().Index() != 4 {
		t.Errorf("this = #%d, super = #%d, want #2 and #4", c.This().Index(), c.Super().Index())
	}
	if c.This().Name().Value() != "Main" {
		t.Errorf("this name = %q", c.This().Name().Value())
	}
	if c.Name() != "Main" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestInternIdempotent(t *testing.T) {
	c := New("Main", "java/lang/Object")

	tests := []struct {
		name  string
		slots int
		fn    func() Constant
	}{
		{"utf8", 1, func() Constant { return c.InternUtf8("hello") }},
		{"class", 2, func() Constant { return c.InternClass("java/lang/String") }},
		{"string", 2, func() Constant { return c.InternString("greeting") }},
		{"integer", 1, func() Constant { return c.InternInteger(42) }},
		{"float", 1, func() Constant { return c.InternFloat(1.5) }},
		{"long", 2, func() Constant { return c.InternLong(1 << 40) }},
		{"double", 2, func() Constant { return c.InternDouble(math.Pi) }},
		{"name and type", 3, func() Constant { return c.InternNameAndType("out", "Ljava/io/PrintStream;") }},
		{"fieldref", 5, func() Constant { return c.InternFieldref("java/lang/System", "err", "Ljava/io/PrintStream;") }},
		{"methodref", 6, func() Constant { return c.InternMethodref("java/io/PrintStream", "println", "(I)V") }},
		{"interface methodref", 6, func() Constant { return c.InternInterfaceMethodref("java/lang/Runnable", "run", "()V") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := c.PoolCount()
			first := tt.fn()
			mid := c.PoolCount()
			second := tt.fn()

			if first != second {
				t.Errorf("second intern returned a different entry: #%d vs #%d", first.Index(), second.Index())
			}
			if mid-before != tt.slots {
				t.Errorf("first intern grew pool by %d, want %d", mid-before, tt.slots)
			}
			if c.PoolCount() != mid {
				t.Errorf("second intern grew pool from %d to %d", mid, c.PoolCount())
			}
		})
	}
}

func TestIndexMonotonicity(t *testing.T) {
	c := New("Main", "java/lang/Object")

	i := c.InternInteger(1)
	l := c.InternLong(2)
	d := c.InternDouble(3)
	u := c.InternUtf8("after")

	if i.Index() != 5 {
		t.Errorf("integer index = %d, want 5", i.Index())
	}
	if l.Index() != 6 {
		t.Errorf("long index = %d, want 6", l.Index())
	}
	if d.Index() != 8 {
		t.Errorf("double index = %d, want 8", d.Index())
	}
	if u.Index() != 10 {
		t.Errorf("utf8 index = %d, want 10", u.Index())
	}
	if c.PoolCount() != 11 {
		t.Errorf("PoolCount() = %d, want 11", c.PoolCount())
	}

	seen := make(map[uint16]bool)
	next := uint16(1)
	for _, k := range c.Constants() {
		if k.Index() != next {
			t.Errorf("%s at #%d, want #%d", k, k.Index(), next)
		}
		if seen[k.Index()] {
			t.Errorf("duplicate index #%d", k.Index())
		}
		seen[k.Index()] = true
		next += uint16(k.Slots())
	}

	if c.Constant(7) != nil {
		t.Error("Constant(7) should be nil: second slot of a Long")
	}
	if c.Constant(6) != l {
		t.Error("Constant(6) should return the Long entry")
	}
}

func TestFloatBitExactness(t *testing.T) {
	c := New("Main", "java/lang/Object")

	posZero := c.InternFloat(0)
	negZero := c.InternFloat(float32(math.Copysign(0, -1)))
	if posZero == negZero {
		t.Error("+0.0f and -0.0f share an entry")
	}

	nanA := c.InternFloat(math.Float32frombits(0x7fc00000))
	nanB := c.InternFloat(math.Float32frombits(0x7fc00001))
	if nanA == nanB {
		t.Error("float NaNs with different payloads share an entry")
	}
	if again := c.InternFloat(math.Float32frombits(0x7fc00001)); again != nanB {
		t.Error("identical NaN bits produced a new entry")
	}
	if nanB.Bits() != 0x7fc00001 {
		t.Errorf("Bits() = %#x", nanB.Bits())
	}

	dPos := c.InternDouble(0)
	dNeg := c.InternDouble(math.Copysign(0, -1))
	if dPos == dNeg {
		t.Error("+0.0 and -0.0 share an entry")
	}
	dNanA := c.InternDouble(math.Float64frombits(0x7ff8000000000000))
	dNanB := c.InternDouble(math.Float64frombits(0x7ff0000000000001))
	if dNanA == dNanB {
		t.Error("double NaNs with different payloads share an entry")
	}
	if again := c.InternDouble(math.Float64frombits(0x7ff0000000000001)); again != dNanB {
		t.Error("identical double NaN bits produced a new entry")
	}
}

func TestInternOfReuse(t *testing.T) {
	c := New("Main", "java/lang/Object")

	name := c.InternUtf8("run")
	desc := c.InternDescriptor(descriptor.MustMethod(descriptor.NewMethod(nil, nil)))
	if desc.Value() != "()V" {
		t.Fatalf("descriptor = %q", desc.Value())
	}

	nat, err := c.InternNameAndTypeOf(name, desc)
	if err != nil {
		t.Fatalf("InternNameAndTypeOf: %v", err)
	}
	if nat != c.InternNameAndType("run", "()V") {
		t.Error("string and reference forms disagree")
	}

	iface, err := c.InternClassOf(c.InternUtf8("java/lang/Runnable"))
	if err != nil {
		t.Fatalf("InternClassOf: %v", err)
	}
	ref, err := c.InternInterfaceMethodrefOf(iface, nat)
	if err != nil {
		t.Fatalf("InternInterfaceMethodrefOf: %v", err)
	}
	if ref != c.InternInterfaceMethodref("java/lang/Runnable", "run", "()V") {
		t.Error("interface methodref forms disagree")
	}
	if ref.Class() != iface || ref.NameAndType() != nat {
		t.Error("methodref references wrong entries")
	}

	s, err := c.InternStringOf(name)
	if err != nil {
		t.Fatalf("InternStringOf: %v", err)
	}
	if s.Value() != name {
		t.Error("String entry does not reference its Utf8")
	}
}

func TestInternOwnership(t *testing.T) {
	c := New("Main", "java/lang/Object")
	other := New("Other", "java/lang/Object")

	foreignUtf8 := other.InternUtf8("x")
	foreignClass := other.InternClass("java/lang/String")
	foreignNat := other.InternNameAndType("f", "I")
	localClass := c.InternClass("java/lang/String")
	localNat := c.InternNameAndType("f", "I")

	before := c.PoolCount()

	tests := []struct {
		name string
		fn   func() error
		kind errors.Kind
	}{
		{"class of", func() error { _, err := c.InternClassOf(foreignUtf8); return err }, errors.KindOwnershipViolation},
		{"string of", func() error { _, err := c.InternStringOf(foreignUtf8); return err }, errors.KindOwnershipViolation},
		{"name and type of", func() error {
			_, err := c.InternNameAndTypeOf(c.InternUtf8("x"), foreignUtf8)
			return err
		}, errors.KindOwnershipViolation},
		{"fieldref class", func() error { _, err := c.InternFieldrefOf(foreignClass, localNat); return err }, errors.KindOwnershipViolation},
		{"methodref nat", func() error { _, err := c.InternMethodrefOf(localClass, foreignNat); return err }, errors.KindOwnershipViolation},
		{"nil utf8", func() error { _, err := c.InternClassOf(nil); return err }, errors.KindInvalidInput},
		{"interface", func() error { return c.AddInterfaceOf(foreignClass) }, errors.KindOwnershipViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasKind(err, tt.kind) {
				t.Errorf("error = %v, want kind %s", err, tt.kind)
			}
		})
	}

	// "x" was interned by the name-and-type case; nothing else may be added.
	if got := c.PoolCount(); got != before+1 {
		t.Errorf("failed interns changed the pool: %d -> %d", before, got)
	}
}

func TestConstantString(t *testing.T) {
	c := New("Main", "java/lang/Object")

	tests := []struct {
		k    Constant
		want string
	}{
		{c.InternUtf8("abc"), "Utf8 abc"},
		{c.InternInteger(-7), "Integer -7"},
		{c.InternLong(9), "Long 9l"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
