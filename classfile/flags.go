package classfile

import "strings"

// AccessFlag is one bit of an access_flags word. Several flags share a bit
// and are told apart by the element they are set on.
type AccessFlag uint16

const (
	AccPublic       AccessFlag = 0x0001
	AccPrivate      AccessFlag = 0x0002
	AccProtected    AccessFlag = 0x0004
	AccStatic       AccessFlag = 0x0008
	AccFinal        AccessFlag = 0x0010
	AccSuper        AccessFlag = 0x0020 // class
	AccSynchronized AccessFlag = 0x0020 // method
	AccVolatile     AccessFlag = 0x0040 // field
	AccBridge       AccessFlag = 0x0040 // method
	AccTransient    AccessFlag = 0x0080 // field
	AccVarargs      AccessFlag = 0x0080 // method
	AccNative       AccessFlag = 0x0100
	AccInterface    AccessFlag = 0x0200
	AccAbstract     AccessFlag = 0x0400
	AccStrict       AccessFlag = 0x0800
	AccSynthetic    AccessFlag = 0x1000
	AccAnnotation   AccessFlag = 0x2000
	AccEnum         AccessFlag = 0x4000
	AccModule       AccessFlag = 0x8000 // class
	AccMandated     AccessFlag = 0x8000 // parameter
)

var flagNames = []struct {
	name string
	flag AccessFlag
}{
	{"public", AccPublic},
	{"private", AccPrivate},
	{"protected", AccProtected},
	{"static", AccStatic},
	{"final", AccFinal},
	{"super", AccSuper},
	{"volatile", AccVolatile},
	{"transient", AccTransient},
	{"native", AccNative},
	{"interface", AccInterface},
	{"abstract", AccAbstract},
	{"strict", AccStrict},
	{"synthetic", AccSynthetic},
	{"annotation", AccAnnotation},
	{"enum", AccEnum},
	{"module", AccModule},
}

func (f AccessFlag) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, " ")
}

// flagSet is the access flag set shared by classes, fields and methods.
// Adding or removing a flag twice has no further effect.
type flagSet struct {
	bits AccessFlag
}

// AddFlag adds f to the set.
func (s *flagSet) AddFlag(f AccessFlag) {
	s.bits |= f
}

// RemoveFlag removes f from the set.
func (s *flagSet) RemoveFlag(f AccessFlag) {
	s.bits &^= f
}

// HasFlag reports whether every bit of f is set.
func (s *flagSet) HasFlag(f AccessFlag) bool {
	return s.bits&f == f
}

// Flags returns the bitwise OR of all flags in the set.
func (s *flagSet) Flags() AccessFlag {
	return s.bits
}
