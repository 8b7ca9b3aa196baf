package classfile

// Magic is the class-file magic number.
const Magic uint32 = 0xCAFEBABE

// MajorVersion identifies the class-file format revision.
type MajorVersion uint16

// Major versions by Java release. 1.0.2 and 1.1 share 45.
const (
	Java1_1 MajorVersion = 45
	Java1_2 MajorVersion = 46
	Java1_3 MajorVersion = 47
	Java1_4 MajorVersion = 48
	Java5   MajorVersion = 49
	Java6   MajorVersion = 50
	Java7   MajorVersion = 51
	Java8   MajorVersion = 52
	Java9   MajorVersion = 53
	Java10  MajorVersion = 54
	Java11  MajorVersion = 55
	Java12  MajorVersion = 56
	Java13  MajorVersion = 57
	Java14  MajorVersion = 58
	Java15  MajorVersion = 59
	Java16  MajorVersion = 60
)

// Valid reports whether v is one of the supported major versions.
func (v MajorVersion) Valid() bool {
	return v >= Java1_1 && v <= Java16
}

// Options configures a class at construction time.
type Options struct {
	MajorVersion MajorVersion
	MinorVersion uint16
	AccessFlags  AccessFlag
}

// DefaultOptions returns the default class configuration: a public class
// targeting Java 16.
func DefaultOptions() Options {
	return Options{
		MajorVersion: Java16,
		AccessFlags:  AccPublic | AccSuper,
	}
}
