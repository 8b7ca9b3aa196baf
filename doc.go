// Package classgen builds JVM class files from Go.
//
// It is the back end a code generator calls to produce .class binaries:
// callers intern constants, declare fields and methods, emit bytecode with
// symbolic labels, and serialize the result.
//
// # Architecture Overview
//
//	classgen/            Root package with the Artifact interface and file helpers
//	├── classfile/       Class container, constant pool, members, Code attribute, encoder
//	├── descriptor/      Field and method descriptor values
//	├── errors/          Structured error types for debugging
//	└── cmd/classgen/    CLI that writes a runnable Hello class
//
// # Quick Start
//
//	c := classfile.New("Hello", "java/lang/Object")
//	m := c.Method("main", "([Ljava/lang/String;)V")
//	m.AddFlag(classfile.AccPublic | classfile.AccStatic)
//
//	code := m.Code()
//	code.MaxStack, code.MaxLocals = 2, 1
//	code.EmitConstant(classfile.OpGetstatic,
//	    c.InternFieldref("java/lang/System", "out", "Ljava/io/PrintStream;"), classfile.RefWide)
//	code.EmitLdc(c.InternString("Hello, World!"))
//	code.EmitConstant(classfile.OpInvokevirtual,
//	    c.InternMethodref("java/io/PrintStream", "println", "(Ljava/lang/String;)V"), classfile.RefWide)
//	code.Emit(classfile.OpReturn)
//
//	if err := classgen.WriteFile("Hello.class", c); err != nil {
//	    log.Fatal(err)
//	}
//
// # Constant Pool
//
// Every Intern method is get-or-create: the same value always yields the
// same entry and index. Long and Double entries occupy two indices, and
// floating point constants are compared by bit pattern, so -0.0 and 0.0
// are distinct entries.
//
// # Labels and Finalize
//
// Branch targets and exception ranges refer to labels. A label is bound
// once to an instruction of the same Code attribute. Encode finalizes each
// method's code, assigning byte positions, before resolving offsets.
//
// # Error Handling
//
// Errors are *errors.Error values carrying a phase and kind:
//
//	if errors.HasKind(err, errors.KindUnresolvedLabel) {
//	    // a branch or handler label was never bound
//	}
package classgen
