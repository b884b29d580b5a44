package scales

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/settings"
)

// autoTickCount is the number of major ticks targeted by auto intervals.
const autoTickCount = 5

// Linear is a continuous linear scale.
//
// Explicit bounds and intervals are options. Unset bounds come from the
// data range collected between StartAutoCalc and FinishAutoCalc and are
// extended outward to a tick.
type Linear struct {
	invalidation.Base

	options            *settings.Table
	minimum            *settings.Property[float64]
	maximum            *settings.Property[float64]
	ticksInterval      *settings.Property[float64]
	minorTicksInterval *settings.Property[float64]
	minorTicksCount    *settings.Property[int]
	inverted           *settings.Property[bool]

	dataMin, dataMax float64
	hasData          bool

	// resolved range
	min, max float64
	interval float64
	resolved bool
}

// NewLinear creates a linear scale with an automatic range.
func NewLinear() *Linear {
	s := &Linear{dataMin: math.Inf(1), dataMax: math.Inf(-1)}
	s.Init(s, invalidation.StateNone)
	s.options = settings.NewTable(settings.Producer(&s.Base))
	optional := func(name string) *settings.Property[float64] {
		return settings.Add(s.options, name, math.NaN(), invalidation.StateNone, invalidation.SignalNeedsReapplication,
			settings.WithNormalizer(settings.OptionalFloat),
			settings.WithEqual(settings.FloatEqual),
			settings.WithEncoder(settings.EncodeOptionalFloat))
	}
	s.minimum = optional("minimum")
	s.maximum = optional("maximum")
	s.ticksInterval = optional("ticksInterval")
	s.minorTicksInterval = optional("minorTicksInterval")
	s.minorTicksCount = settings.Add(s.options, "minorTicksCount", 5, invalidation.StateNone,
		invalidation.SignalNeedsReapplication, settings.WithNormalizer(settings.Int))
	s.inverted = settings.Add(s.options, "inverted", false, invalidation.StateNone,
		invalidation.SignalNeedsReapplication, settings.WithNormalizer(settings.Bool))
	return s
}

// SetMinimum fixes the lower bound. NaN restores the automatic bound.
func (s *Linear) SetMinimum(v float64) {
	s.resolved = false
	s.minimum.Set(v)
}

// SetMaximum fixes the upper bound. NaN restores the automatic bound.
func (s *Linear) SetMaximum(v float64) {
	s.resolved = false
	s.maximum.Set(v)
}

// SetTicksInterval fixes the major tick step. NaN selects a step
// automatically.
func (s *Linear) SetTicksInterval(v float64) {
	s.resolved = false
	s.ticksInterval.Set(v)
}

// SetMinorTicksInterval fixes the minor tick step. NaN divides each major
// interval into MinorTicksCount parts.
func (s *Linear) SetMinorTicksInterval(v float64) {
	s.minorTicksInterval.Set(v)
}

// SetInverted reverses the direction of Transform.
func (s *Linear) SetInverted(v bool) {
	s.inverted.Set(v)
}

// Inverted reports whether the scale is reversed.
func (s *Linear) Inverted() bool {
	return s.inverted.Get()
}

// StartAutoCalc resets the collected data range.
func (s *Linear) StartAutoCalc() {
	s.hasData = false
	s.dataMin, s.dataMax = math.Inf(1), math.Inf(-1)
}

// ExtendDataRange widens the collected data range. NaN values are skipped.
func (s *Linear) ExtendDataRange(values ...float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s.hasData = true
		s.dataMin = math.Min(s.dataMin, v)
		s.dataMax = math.Max(s.dataMax, v)
	}
}

// FinishAutoCalc resolves the range and dispatches
// SignalNeedsRecalculation when it changed. Reports whether it changed.
func (s *Linear) FinishAutoCalc() bool {
	oldMin, oldMax, oldInterval, had := s.min, s.max, s.interval, s.resolved
	s.resolve()
	changed := !had || oldMin != s.min || oldMax != s.max || oldInterval != s.interval
	if changed && had {
		s.DispatchSignal(invalidation.SignalNeedsRecalculation)
	}
	return changed
}

func (s *Linear) ensureResolved() {
	if !s.resolved {
		s.resolve()
	}
}

func (s *Linear) resolve() {
	lo, hi := s.minimum.Get(), s.maximum.Get()
	autoLo, autoHi := math.IsNaN(lo), math.IsNaN(hi)
	switch {
	case s.hasData:
		if autoLo {
			lo = s.dataMin
		}
		if autoHi {
			hi = s.dataMax
		}
	default:
		if autoLo {
			lo = 0
		}
		if autoHi {
			hi = math.Max(lo+1, 1)
		}
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		if autoLo {
			lo -= 0.5
		}
		if autoHi || !autoLo {
			hi += 0.5
		}
	}

	interval := s.ticksInterval.Get()
	if math.IsNaN(interval) || interval <= 0 {
		interval = niceInterval(hi-lo, autoTickCount)
	}
	if autoLo {
		lo = math.Floor(lo/interval) * interval
	}
	if autoHi {
		hi = math.Ceil(hi/interval) * interval
	}
	s.min, s.max, s.interval = lo, hi, interval
	s.resolved = true
}

// Minimum returns the resolved lower bound.
func (s *Linear) Minimum() float64 {
	s.ensureResolved()
	return s.min
}

// Maximum returns the resolved upper bound.
func (s *Linear) Maximum() float64 {
	s.ensureResolved()
	return s.max
}

// Interval returns the resolved major tick step.
func (s *Linear) Interval() float64 {
	s.ensureResolved()
	return s.interval
}

// Transform returns the ratio of v in the resolved range. Values outside
// the range produce ratios outside [0, 1].
func (s *Linear) Transform(v float64) float64 {
	s.ensureResolved()
	ratio := (v - s.min) / (s.max - s.min)
	if s.inverted.Get() {
		return 1 - ratio
	}
	return ratio
}

// InverseTransform returns the value at ratio.
func (s *Linear) InverseTransform(ratio float64) float64 {
	s.ensureResolved()
	if s.inverted.Get() {
		ratio = 1 - ratio
	}
	return s.min + ratio*(s.max-s.min)
}

// Ticks returns the major ticks in the resolved range.
func (s *Linear) Ticks() []float64 {
	s.ensureResolved()
	return ticksBetween(s.min, s.max, s.interval)
}

// MinorTicks returns the minor ticks in the resolved range.
func (s *Linear) MinorTicks() []float64 {
	s.ensureResolved()
	interval := s.minorTicksInterval.Get()
	if math.IsNaN(interval) || interval <= 0 {
		n := s.minorTicksCount.Get()
		if n <= 0 {
			return nil
		}
		interval = s.interval / float64(n)
	}
	return ticksBetween(s.min, s.max, interval)
}

// Serialize returns the scale configuration.
func (s *Linear) Serialize() map[string]any {
	out := s.options.Serialize(nil)
	out["type"] = "linear"
	return out
}

// SetupByJSON applies config and dispatches at most one signal.
func (s *Linear) SetupByJSON(config map[string]any) error {
	s.resolved = false
	return s.options.Setup(config)
}
