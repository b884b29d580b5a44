// Package scales provides the value-to-ratio mappings shared by grids,
// series and axes.
//
// Scales are signal producers. They keep no dirty state; every change
// dispatches a signal that consumers translate with a relay:
//
//	SignalNeedsReapplication   options changed, ratios must be reapplied
//	SignalNeedsRecalculation   the resolved range changed
package scales

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
)

// Scale maps values to ratios in [0, 1].
type Scale interface {
	invalidation.SignalSource
	// Transform returns the ratio of v within the scale range.
	Transform(v float64) float64
	// Ticks returns the major tick values in ascending order.
	Ticks() []float64
	// MinorTicks returns the minor tick values in ascending order.
	MinorTicks() []float64
}

// maxTicks bounds tick generation for degenerate intervals.
const maxTicks = 10000

// ticksBetween returns the multiples of interval in [min, max].
func ticksBetween(min, max, interval float64) []float64 {
	if interval <= 0 || math.IsNaN(interval) || max < min {
		return nil
	}
	eps := interval * 1e-9
	start := math.Ceil((min-eps)/interval) * interval
	var out []float64
	for v := start; v <= max+eps && len(out) < maxTicks; v += interval {
		out = append(out, snap(v, interval))
	}
	return out
}

// snap removes accumulated floating point error.
func snap(v, interval float64) float64 {
	n := math.Round(v / interval)
	if math.Abs(n*interval-v) < interval*1e-9 {
		return n * interval
	}
	return v
}

// niceInterval returns a 1, 2 or 5 × 10^n step giving about count ticks.
func niceInterval(span float64, count int) float64 {
	if span <= 0 || count <= 0 {
		return 1
	}
	raw := span / float64(count)
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	f := raw / base
	switch {
	case f <= 1:
		f = 1
	case f <= 2:
		f = 2
	case f <= 5:
		f = 5
	default:
		f = 10
	}
	return f * base
}
