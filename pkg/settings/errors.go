package settings

import (
	"fmt"
	"reflect"
)

// TypeError is returned when a value has the wrong Go type for an option
// without a normalizer.
type TypeError struct {
	Option string
	Value  any
	Want   reflect.Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("option %q: cannot use %T as %v", e.Option, e.Value, e.Want)
}

// ValueError wraps a normalization failure.
type ValueError struct {
	Option string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("option %q: %v", e.Option, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
