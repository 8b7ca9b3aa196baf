// Package errors provides structured error types for the class-file builder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the element path inside the class being built
// (class, member, attribute), the offending value and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindReferenceTooNarrow).
//		Path("Main", "main([Ljava/lang/String;)V", "Code").
//		Value(300).
//		Detail("constant #300 does not fit a one-byte operand").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OwnershipViolation(errors.PhaseBuild, path, "constant #4")
//	err := errors.UnresolvedLabel(path, "handler start")
//
// All errors implement the standard error interface and support errors.Is/As.
// HasKind reports whether any error in a chain carries a given Kind.
package errors
