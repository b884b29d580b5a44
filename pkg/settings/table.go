package settings

import (
	"errors"
	"log/slog"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/logging"
)

// Table is the ordered set of options of one element.
type Table struct {
	owner   Owner
	options []Option
	index   map[string]Option
}

// NewTable creates an empty table for owner.
func NewTable(owner Owner) *Table {
	return &Table{owner: owner, index: make(map[string]Option)}
}

// Add creates a property on owner and registers it in t.
func Add[T any](t *Table, name string, def T, state invalidation.State, signal invalidation.Signal, opts ...PropertyOption[T]) *Property[T] {
	p := NewProperty(t.owner, name, def, state, signal, opts...)
	t.Register(p)
	return p
}

// Register appends o. A later option with the same name replaces the
// earlier one in lookups.
func (t *Table) Register(o Option) {
	t.options = append(t.options, o)
	t.index[o.Name()] = o
}

// Option returns the option called name.
func (t *Table) Option(name string) (Option, bool) {
	o, ok := t.index[name]
	return o, ok
}

// Names returns the option names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.options))
	for i, o := range t.options {
		names[i] = o.Name()
	}
	return names
}

// Serialize writes every option into out and returns it. A nil out
// allocates a new map.
func (t *Table) Serialize(out map[string]any) map[string]any {
	if out == nil {
		out = make(map[string]any, len(t.options))
	}
	for _, o := range t.options {
		out[o.Name()] = o.Encode()
	}
	return out
}

// Setup applies config. Changes are batched: the owner dispatches at most
// one consolidated signal. Keys without an option are ignored; per-key
// failures are joined into the returned error and do not stop the others.
func (t *Table) Setup(config map[string]any) error {
	if len(config) == 0 {
		return nil
	}
	if t.owner != nil {
		t.owner.SuspendSignalsDispatching()
		defer t.owner.ResumeSignalsDispatching(true)
	}

	var errs []error
	for _, o := range t.options {
		v, ok := config[o.Name()]
		if !ok {
			continue
		}
		if err := o.SetAny(v); err != nil {
			errs = append(errs, err)
		}
	}
	if logging.Enabled(slog.LevelDebug) {
		for key := range config {
			if _, ok := t.index[key]; !ok {
				logging.Logger().Debug("setup key has no option", slog.String("key", key))
			}
		}
	}
	return errors.Join(errs...)
}

// Reset restores every option to its default in one batch.
func (t *Table) Reset() {
	if t.owner != nil {
		t.owner.SuspendSignalsDispatching()
		defer t.owner.ResumeSignalsDispatching(true)
	}
	for _, o := range t.options {
		o.Reset()
	}
}
