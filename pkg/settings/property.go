// Package settings provides typed option descriptors for chart elements.
//
// Each element declares its options as Property fields grouped in a Table.
// A property knows its default, the consistency state it invalidates and
// the signal it raises, so setters stay one line:
//
//	func (g *Grid) SetStroke(v any) error { return g.stroke.SetAny(v) }
package settings

import (
	"reflect"

	"github.com/go-drift/charts/pkg/invalidation"
)

// Owner is the element an option invalidates.
type Owner interface {
	Invalidate(state invalidation.State, signal invalidation.Signal) invalidation.State
	SuspendSignalsDispatching()
	ResumeSignalsDispatching(dispatch bool)
}

// Option is the untyped view of a Property used by tables.
type Option interface {
	Name() string
	// Encode returns the serialized value.
	Encode() any
	// SetAny normalizes v and assigns it.
	SetAny(v any) error
	// IsDefault reports whether the option holds its default value.
	IsDefault() bool
	// Reset restores the default value.
	Reset()
}

// Normalizer converts a configuration value into T.
type Normalizer[T any] func(v any) (T, error)

// Property is a single typed option of an element.
type Property[T any] struct {
	owner     Owner
	name      string
	def       T
	value     T
	state     invalidation.State
	signal    invalidation.Signal
	normalize Normalizer[T]
	encode    func(T) any
	equal     func(a, b T) bool
}

// PropertyOption configures a Property.
type PropertyOption[T any] func(*Property[T])

// WithNormalizer sets how SetAny converts configuration values.
func WithNormalizer[T any](n Normalizer[T]) PropertyOption[T] {
	return func(p *Property[T]) { p.normalize = n }
}

// WithEncoder sets how Encode serializes the value.
func WithEncoder[T any](enc func(T) any) PropertyOption[T] {
	return func(p *Property[T]) { p.encode = enc }
}

// WithEqual overrides the change detection used by Set.
func WithEqual[T any](eq func(a, b T) bool) PropertyOption[T] {
	return func(p *Property[T]) { p.equal = eq }
}

type equaler[T any] interface {
	Equal(other T) bool
}

func defaultEqual[T any](a, b T) bool {
	if e, ok := any(a).(equaler[T]); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// NewProperty creates a property of owner. Set invalidates owner with state
// and raises signal when the value changes.
func NewProperty[T any](owner Owner, name string, def T, state invalidation.State, signal invalidation.Signal, opts ...PropertyOption[T]) *Property[T] {
	p := &Property[T]{
		owner:  owner,
		name:   name,
		def:    def,
		value:  def,
		state:  state,
		signal: signal,
		equal:  defaultEqual[T],
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the option name used in configuration documents.
func (p *Property[T]) Name() string {
	return p.name
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	return p.value
}

// Default returns the default value.
func (p *Property[T]) Default() T {
	return p.def
}

// Set assigns v and invalidates the owner when it differs from the
// current value. Reports whether the value changed.
func (p *Property[T]) Set(v T) bool {
	if p.equal(p.value, v) {
		return false
	}
	p.value = v
	if p.owner != nil {
		p.owner.Invalidate(p.state, p.signal)
	}
	return true
}

// SetAny normalizes v and assigns it.
func (p *Property[T]) SetAny(v any) error {
	if p.normalize == nil {
		t, ok := v.(T)
		if !ok {
			var zero T
			return &TypeError{Option: p.name, Value: v, Want: reflect.TypeOf(zero)}
		}
		p.Set(t)
		return nil
	}
	t, err := p.normalize(v)
	if err != nil {
		return &ValueError{Option: p.name, Err: err}
	}
	p.Set(t)
	return nil
}

// Encode returns the serialized value.
func (p *Property[T]) Encode() any {
	if p.encode != nil {
		return p.encode(p.value)
	}
	return p.value
}

// IsDefault reports whether the current value equals the default.
func (p *Property[T]) IsDefault() bool {
	return p.equal(p.value, p.def)
}

// Reset restores the default value, invalidating the owner if it changes.
func (p *Property[T]) Reset() {
	p.Set(p.def)
}

// SetDefault replaces the default. The current value follows when it still
// held the old default. Used for per-chart-type presets.
func (p *Property[T]) SetDefault(def T) {
	wasDefault := p.IsDefault()
	p.def = def
	if wasDefault {
		p.Set(def)
	}
}
