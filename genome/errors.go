// Package genome holds the data model and error kinds shared by every
// aggregation pipeline: the coordinate model (assembly, tilegeom), the dense
// pyramid (pyramid, densestore), and the two sparse placers (placer1d,
// placer2d, tabular).
package genome

import "fmt"

// ErrKind identifies one of the fatal error categories a pipeline invocation
// can fail with. Every kind is terminal: the core never retries.
type ErrKind int

const (
	// ErrUnknown is the zero value and should never be returned.
	ErrUnknown ErrKind = iota
	// ErrInvalidGeometry means tile_size <= 0 or total_length <= 0.
	ErrInvalidGeometry
	// ErrUnknownChromosome means a name was not present in the assembly.
	ErrUnknownChromosome
	// ErrCoordinateOutOfRange means pos > size(chrom).
	ErrCoordinateOutOfRange
	// ErrMalformedRecord means an adapter could not parse an input record.
	ErrMalformedRecord
	// ErrUnknownAssembly means a named standard assembly was not found.
	ErrUnknownAssembly
	// ErrIoFailure wraps an underlying I/O error from a reader or sink.
	ErrIoFailure
	// ErrUnimplemented marks a feature that is parsed but not executed,
	// e.g. the bedgraph "average" aggregation method (spec v1 is sum-only).
	ErrUnimplemented
)

func (k ErrKind) String() string {
	switch k {
	case ErrInvalidGeometry:
		return "InvalidGeometry"
	case ErrUnknownChromosome:
		return "UnknownChromosome"
	case ErrCoordinateOutOfRange:
		return "CoordinateOutOfRange"
	case ErrMalformedRecord:
		return "MalformedRecord"
	case ErrUnknownAssembly:
		return "UnknownAssembly"
	case ErrIoFailure:
		return "IoFailure"
	case ErrUnimplemented:
		return "Unimplemented"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type raised by every core package. Kind
// selects the category; Message is human-readable detail; Cause, if set, is
// the underlying error that triggered this one.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError constructs an *Error of the given kind.
func NewError(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError constructs an *Error of the given kind around an existing cause.
func WrapError(kind ErrKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the ErrKind carried by err, or ErrUnknown if err is not (or
// does not wrap) a *genome.Error.
func KindOf(err error) ErrKind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrUnknown
}
