// Package descriptor renders JVM field and method type descriptors.
//
// Descriptors are pure values: they own nothing, never mutate and can be
// built before any class exists.
//
//	str, _ := descriptor.ObjectArray("java/lang/String", 1)
//	main, _ := descriptor.NewMethod([]descriptor.Field{str}, nil)
//	main.String() // "([Ljava/lang/String;)V"
//
// Invalid inputs (the Unknown kind, an empty class name) are rejected
// with an errors.KindInvalidDescriptor error at construction time.
package descriptor
