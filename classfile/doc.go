// Package classfile builds JVM class files in memory and serializes them.
//
// # Main Types
//
//   - Class: the container; owns the constant pool and every element
//   - Constant: an interned pool entry (Utf8, Class, Methodref, Long, ...)
//   - Field, Method: members created through the class
//   - Code: a method's instruction stream, labels and exception table
//   - Attribute: RawAttribute, SourceFileAttribute, ConstantValueAttribute, Code
//
// # Ownership
//
// Pool entries, attributes and labels carry the identity of the class or
// code attribute that created them. Passing one to another class fails
// with an ownership error at the call that receives it.
//
// # Thread Safety
//
// A Class and everything it owns is NOT safe for concurrent use.
//
// # Example
//
//	c := classfile.New("Hello", "java/lang/Object")
//	m := c.Method("main", "([Ljava/lang/String;)V")
//	m.AddFlag(classfile.AccPublic | classfile.AccStatic)
//	code := m.Code()
//	code.Emit(classfile.OpReturn)
//	data, err := c.Encode()
package classfile
