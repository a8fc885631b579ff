// Package errors provides structured error handling for the Ravel framework.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-drift/ravel/pkg/float"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPoison indicates access to a Float left empty by an aborted callback.
	KindPoison
	// KindBackend indicates a rejected backend (DOM) operation.
	KindBackend
	// KindShape indicates a state rebuilt with an incompatible description.
	KindShape
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBuild indicates a failure while building a view.
	KindBuild
	// KindConfig indicates an invalid configuration or registry.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindPoison:
		return "poison"
	case KindBackend:
		return "backend"
	case KindShape:
		return "shape"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ErrTokenMisuse is returned when a with-callback does not call Cx.Build
// exactly once.
var ErrTokenMisuse = stderrors.New("context Build must be called exactly once per callback")

// RavelError represents a structured error in the Ravel framework.
type RavelError struct {
	// Op is the operation that failed (e.g., "html.Attr.Rebuild").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RavelError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RavelError) Unwrap() error {
	return e.Err
}

// Backend wraps a failed backend call. It returns nil if err is nil.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RavelError{Op: op, Kind: KindBackend, Err: err}
}

// Poison wraps err (normally float.ErrPoisoned) as a poison error.
// It returns nil if err is nil.
func Poison(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RavelError{Op: op, Kind: KindPoison, Err: err}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "run.Run").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ShapeError reports a rebuild whose description does not match the shape
// of the state it was given.
type ShapeError struct {
	// Op is the rebuilding operation.
	Op string
	// Want describes the expected state or shape.
	Want string
	// Got describes what was found instead.
	Got string
	// Err is an optional underlying cause.
	Err error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shape mismatch in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("shape mismatch in %s: want %s, got %s", e.Op, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// Shape returns a ShapeError describing a type mismatch between want and got.
func Shape(op string, want, got any) *ShapeError {
	return &ShapeError{Op: op, Want: fmt.Sprintf("%T", want), Got: fmt.Sprintf("%T", got)}
}

// KindOf classifies err by walking its chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var re *RavelError
	if stderrors.As(err, &re) {
		return re.Kind
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	var se *ShapeError
	if stderrors.As(err, &se) {
		return KindShape
	}
	if stderrors.Is(err, float.ErrPoisoned) {
		return KindPoison
	}
	if stderrors.Is(err, ErrTokenMisuse) {
		return KindShape
	}
	return KindUnknown
}

// ErrorHandler receives errors reported by the Ravel framework.
type ErrorHandler interface {
	// HandleError is called when an error stops a run loop.
	HandleError(err *RavelError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is, As and New re-export the standard library helpers so callers that
// import this package under its natural name need no alias.
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)
