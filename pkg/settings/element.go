package settings

import (
	"errors"
	"fmt"
)

// Element is the common option surface every visual element has.
type Element interface {
	Enabled() bool
	SetEnabled(enabled bool)
	ZIndex() float64
	SetZIndex(z float64)
}

// SerializeCommon writes enabled and zIndex into out.
func SerializeCommon(e Element, out map[string]any) map[string]any {
	if out == nil {
		out = make(map[string]any)
	}
	out["enabled"] = e.Enabled()
	out["zIndex"] = e.ZIndex()
	return out
}

// SetupCommon reads enabled and zIndex from config.
func SetupCommon(e Element, config map[string]any) error {
	var errs []error
	if v, ok := config["enabled"]; ok {
		b, err := Bool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("option %q: %w", "enabled", err))
		} else {
			e.SetEnabled(b)
		}
	}
	if v, ok := config["zIndex"]; ok {
		z, err := FiniteFloat(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("option %q: %w", "zIndex", err))
		} else {
			e.SetZIndex(z)
		}
	}
	return errors.Join(errs...)
}

// Configurable is an element owning an option table.
type Configurable interface {
	Element
	Owner
}

// SetupElement applies the common options and t in one batch.
func SetupElement(e Configurable, t *Table, config map[string]any) error {
	e.SuspendSignalsDispatching()
	defer e.ResumeSignalsDispatching(true)
	return errors.Join(SetupCommon(e, config), t.Setup(config))
}
