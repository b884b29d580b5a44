package settings

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
)

// producer adapts a signal producer to Owner. Producers keep no dirty
// state, so every change dispatches its signal directly.
type producer struct {
	b *invalidation.Base
}

// Producer returns an Owner that dispatches the option signal on b for
// every change, regardless of b's dirty state.
func Producer(b *invalidation.Base) Owner {
	return producer{b: b}
}

func (p producer) Invalidate(_ invalidation.State, signal invalidation.Signal) invalidation.State {
	p.b.DispatchSignal(signal)
	return invalidation.StateNone
}

func (p producer) SuspendSignalsDispatching() {
	p.b.SuspendSignalsDispatching()
}

func (p producer) ResumeSignalsDispatching(dispatch bool) {
	p.b.ResumeSignalsDispatching(dispatch)
}

// OptionalFloat normalizes nil and "auto" to NaN and anything else with
// FiniteFloat. NaN marks an automatically computed value.
func OptionalFloat(v any) (float64, error) {
	if v == nil {
		return math.NaN(), nil
	}
	if s, ok := v.(string); ok && s == "auto" {
		return math.NaN(), nil
	}
	return FiniteFloat(v)
}

// EncodeOptionalFloat serializes NaN as nil.
func EncodeOptionalFloat(f float64) any {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

// FloatEqual treats two NaNs as equal.
func FloatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
