package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDescriptor Phase = "descriptor" // descriptor construction
	PhaseBuild      Phase = "build"      // pool interning and structural mutation
	PhaseFinalize   Phase = "finalize"   // code layout
	PhaseEncode     Phase = "encode"     // binary serialization
)

// Kind categorizes the error
type Kind string

const (
	KindOwnershipViolation Kind = "ownership_violation"
	KindOwnershipMismatch  Kind = "ownership_mismatch"
	KindInvalidDescriptor  Kind = "invalid_descriptor"
	KindLabelAlreadyBound  Kind = "label_already_bound"
	KindForeignInstruction Kind = "foreign_instruction"
	KindForeignLabel       Kind = "foreign_label"
	KindUnresolvedLabel    Kind = "unresolved_label"
	KindReferenceTooNarrow Kind = "reference_too_narrow"
	KindOverflow           Kind = "overflow"
	KindInvalidInput       Kind = "invalid_input"
	KindIO                 Kind = "io"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// HasKind reports whether err, or any error it wraps, is an *Error of the given kind.
// Joined errors (errors.Join, multierr) are searched branch by branch.
func HasKind(err error, kind Kind) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		return e.Kind == kind || HasKind(e.Cause, kind)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if HasKind(inner, kind) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasKind(e.Unwrap(), kind)
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OwnershipViolation creates an error for a reference owned by a different class
func OwnershipViolation(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOwnershipViolation,
		Path:   path,
		Detail: fmt.Sprintf("%s belongs to a different class", what),
	}
}

// OwnershipMismatch creates an error for two references whose owners differ
func OwnershipMismatch(phase Phase, path []string, first, second string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOwnershipMismatch,
		Path:   path,
		Detail: fmt.Sprintf("%s and %s belong to different classes", first, second),
	}
}

// InvalidDescriptor creates a descriptor construction error
func InvalidDescriptor(detail string) *Error {
	return &Error{
		Phase:  PhaseDescriptor,
		Kind:   KindInvalidDescriptor,
		Detail: detail,
	}
}

// LabelAlreadyBound creates an error for a second bind of the same label
func LabelAlreadyBound(path []string, label string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindLabelAlreadyBound,
		Path:   path,
		Detail: fmt.Sprintf("%s is already bound", label),
	}
}

// ForeignInstruction creates an error for an instruction from another code attribute
func ForeignInstruction(path []string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindForeignInstruction,
		Path:   path,
		Detail: "instruction belongs to a different code attribute",
	}
}

// ForeignLabel creates an error for a label from another code attribute
func ForeignLabel(path []string, label string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindForeignLabel,
		Path:   path,
		Detail: fmt.Sprintf("%s belongs to a different code attribute", label),
	}
}

// UnresolvedLabel creates an error for a label that has no position at encode time
func UnresolvedLabel(path []string, role string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnresolvedLabel,
		Path:   path,
		Detail: fmt.Sprintf("%s label is not bound to a positioned instruction", role),
	}
}

// ReferenceTooNarrow creates an error for a pool index that does not fit its operand
func ReferenceTooNarrow(path []string, index uint16, width int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindReferenceTooNarrow,
		Path:   path,
		Detail: fmt.Sprintf("constant #%d does not fit a %d-byte operand", index, width),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
