// Package errors provides structured error reporting for charts.
//
// Configuration problems found while drawing (a grid without a scale, an
// element without a container) are not returned to the caller. They are
// reported to the global ErrorHandler with a stable Code and the draw pass
// returns early, leaving the element dirty so a later pass can finish.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a missing or invalid collaborator or option.
	KindConfig
	// KindRender indicates a failure on the drawing surface.
	KindRender
	// KindSerialization indicates a failure reading or writing a chart document.
	KindSerialization
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindRender:
		return "render"
	case KindSerialization:
		return "serialization"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ChartError represents a reported error in a charts operation.
type ChartError struct {
	// Op is the operation that failed (e.g., "grid.Draw").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Code is the stable error code, CodeNone if not applicable.
	Code Code
	// Args are the description arguments for Code.
	Args []any
	// Err is the underlying error. May be nil when Code describes the failure.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ChartError) Error() string {
	switch {
	case e.Code != CodeNone && e.Err != nil:
		return fmt.Sprintf("%s [%s] error %d: %s: %v", e.Op, e.Kind, int(e.Code), e.Code.Description(e.Args...), e.Err)
	case e.Code != CodeNone:
		return fmt.Sprintf("%s [%s] error %d: %s", e.Op, e.Kind, int(e.Code), e.Code.Description(e.Args...))
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ChartError carrying the same code.
// This lets callers match with errors.Is(err, &ChartError{Code: CodeScaleNotSet}).
func (e *ChartError) Is(target error) bool {
	t, ok := target.(*ChartError)
	if !ok {
		return false
	}
	return t.Code != CodeNone && t.Code == e.Code
}

// Warning is a non-fatal diagnostic with a stable WarningCode.
type Warning struct {
	// Op is the operation that produced the warning.
	Op string
	// Code is the stable warning code.
	Code WarningCode
	// Args are the description arguments for Code.
	Args []any
	// Timestamp is when the warning was produced.
	Timestamp time.Time
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s warning %d: %s", w.Op, int(w.Code), w.Code.Description(w.Args...))
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "chartctl.watch").
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

// ErrorHandler receives errors reported by charts.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *ChartError)
	// HandleWarning is called when a warning is reported.
	HandleWarning(w *Warning)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
