// Package series draws data series: polar lines and areas and the
// cartesian range step area.
//
// A series maps its points through two scales it listens to. Scale changes
// reach the series through a relay, the series marks the stale aspects
// dirty and raises its own signal for the chart. Draw redraws only what is
// stale.
package series

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/scales"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Series is the behavior charts rely on.
type Series interface {
	settings.Configurable
	invalidation.Drawable
	invalidation.SignalSource

	Type() string
	Name() string
	SetScales(x, y scales.Scale)
	XScale() scales.Scale
	YScale() scales.Scale
	SetContainer(l surface.Layer)
	SetParentBounds(r surface.Rect)
	SetAutoColor(c surface.Color)
	Points() []Point
	SetData(points ...Point)
	// XValues and YValues feed the automatic scale ranges.
	XValues() []float64
	YValues() []float64
	Serialize() map[string]any
	SetupByJSON(config map[string]any) error
	Dispose()
}

// Point is one data point. A NaN Value marks a missing point of a value
// series; a NaN Low or High marks a missing point of a range series.
type Point struct {
	X     float64
	Value float64
	Low   float64
	High  float64
}

// ValuePoint returns a point of a value series.
func ValuePoint(x, value float64) Point {
	return Point{X: x, Value: value, Low: math.NaN(), High: math.NaN()}
}

// RangePoint returns a point of a range series.
func RangePoint(x, low, high float64) Point {
	return Point{X: x, Value: math.NaN(), Low: low, High: high}
}

// Values returns n value points at x = 0..n-1.
func Values(values ...float64) []Point {
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = ValuePoint(float64(i), v)
	}
	return out
}

// ParseData reads the data option of a series configuration. Each entry is
// a number (the value at x = index), nil (a missing value), a
// [x, value] or [x, low, high] list, or a map with the keys x, value, low
// and high.
func ParseData(v any) ([]Point, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("data must be a list, got %T", v)
	}
	out := make([]Point, 0, len(list))
	for i, entry := range list {
		p, err := parsePoint(entry, i)
		if err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parsePoint(v any, i int) (Point, error) {
	p := ValuePoint(float64(i), math.NaN())
	switch x := v.(type) {
	case nil:
		return p, nil
	case []any:
		nums := make([]float64, len(x))
		for j, e := range x {
			f, err := optionalNumber(e)
			if err != nil {
				return p, err
			}
			nums[j] = f
		}
		switch len(nums) {
		case 2:
			return ValuePoint(nums[0], nums[1]), nil
		case 3:
			return RangePoint(nums[0], nums[1], nums[2]), nil
		}
		return p, fmt.Errorf("expected 2 or 3 numbers, got %d", len(nums))
	case map[string]any:
		for key, dst := range map[string]*float64{"x": &p.X, "value": &p.Value, "low": &p.Low, "high": &p.High} {
			e, ok := x[key]
			if !ok {
				continue
			}
			f, err := optionalNumber(e)
			if err != nil {
				return p, fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
		return p, nil
	}
	f, err := settings.Float(v)
	if err != nil {
		return p, err
	}
	p.Value = f
	return p, nil
}

func optionalNumber(v any) (float64, error) {
	if v == nil {
		return math.NaN(), nil
	}
	return settings.Float(v)
}

// EncodeData serializes points to a form ParseData reads.
func EncodeData(points []Point) []any {
	out := make([]any, len(points))
	for i, p := range points {
		m := map[string]any{"x": p.X}
		for key, v := range map[string]float64{"value": p.Value, "low": p.Low, "high": p.High} {
			if !math.IsNaN(v) {
				m[key] = v
			}
		}
		out[i] = m
	}
	return out
}

// Constructor creates a series of one type.
type Constructor func() Series

// Registry maps series type names to constructors. Register every type
// before the first New.
type Registry struct {
	ctors map[string]Constructor
	names []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds or replaces the constructor of name.
func (r *Registry) Register(name string, ctor Constructor) {
	if _, ok := r.ctors[name]; !ok {
		r.names = append(r.names, name)
	}
	r.ctors[name] = ctor
}

// New creates a series of type name. Unknown names return a ChartError
// with CodeUnknownSeriesType.
func (r *Registry) New(name string) (Series, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, &errors.ChartError{
			Op:   "series.New",
			Kind: errors.KindConfig,
			Code: errors.CodeUnknownSeriesType,
			Args: []any{name},
		}
	}
	return ctor(), nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Default registries, populated by this package's init.
var (
	PolarTypes     = NewRegistry()
	CartesianTypes = NewRegistry()
)

func init() {
	PolarTypes.Register(TypePolarLine, func() Series { return NewPolarLine() })
	PolarTypes.Register(TypePolarArea, func() Series { return NewPolarArea() })
	CartesianTypes.Register(TypeRangeStepArea, func() Series { return NewRangeStepArea() })
}

var (
	_ Series = (*Polar)(nil)
	_ Series = (*RangeStepArea)(nil)
)
