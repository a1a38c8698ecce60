package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // host to foreign
	PhaseDecode   Phase = "decode"   // foreign to host
	PhaseValidate Phase = "validate" // dtype and range checks
	PhaseRuntime  Phase = "runtime"  // foreign runtime operations
	PhaseTransfer Phase = "transfer" // temporary file handling
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedDtype   Kind = "unsupported_dtype"
	KindOverflow           Kind = "overflow"
	KindMalformedBuffer    Kind = "malformed_buffer"
	KindMissingDependency  Kind = "missing_dependency"
	KindInvalidElementKind Kind = "invalid_element_kind"
	KindInvalidInput       Kind = "invalid_input"
	KindIO                 Kind = "io"
)

// Sentinels for errors.Is. Only Kind takes part in the comparison.
var (
	ErrUnsupportedDtype   = &Error{Kind: KindUnsupportedDtype}
	ErrOverflow           = &Error{Kind: KindOverflow}
	ErrMalformedBuffer    = &Error{Kind: KindMalformedBuffer}
	ErrMissingDependency  = &Error{Kind: KindMissingDependency}
	ErrInvalidElementKind = &Error{Kind: KindInvalidElementKind}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrIO                 = &Error{Kind: KindIO}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

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

// Is reports whether target has the same Kind. A target with an empty Phase
// matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
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
	e := b.err
	return &e
}

// UnsupportedDtype reports a foreign array whose element type is neither
// int64 nor uint64.
func UnsupportedDtype(dtype string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindUnsupportedDtype,
		Detail: fmt.Sprintf("only int64 or uint64 numpy-style arrays are accepted (got %s)", dtype),
		Value:  dtype,
	}
}

// Overflow reports an unsigned identifier that does not fit into int64.
func Overflow(value string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("an unsigned identifier exceeds the representable signed 64-bit range (max %s)", value),
		Value:  value,
	}
}

// MalformedBuffer reports binary identifier data of the wrong length.
func MalformedBuffer(phase Phase, length int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedBuffer,
		Detail: fmt.Sprintf("binary identifier data is not a multiple of 8 bytes (%d bytes)", length),
		Value:  length,
	}
}

// MissingDependency reports an unavailable foreign runtime backend along
// with what to do about it.
func MissingDependency(backend, remedy string, cause error) *Error {
	detail := fmt.Sprintf("foreign numeric runtime %q is not available", backend)
	if remedy != "" {
		detail += "; " + remedy
	}
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindMissingDependency,
		Detail: detail,
		Value:  backend,
		Cause:  cause,
	}
}

// InvalidElementKind reports an element kind outside the closed set.
func InvalidElementKind(kind any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidElementKind,
		Detail: fmt.Sprintf("invalid element kind %v", kind),
		Value:  kind,
	}
}

// InvalidInput reports a host value that cannot be read as an identifier.
func InvalidInput(phase Phase, index int, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("identifier %d: %s", index, detail),
		Value:  value,
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
