package chart

import (
	"slices"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/grid"
)

// Chart types.
const (
	TypeCartesian = "cartesian"
	TypeBox       = "box"
	TypePolar     = "polar"
	TypeMap       = "map"
)

// Constructor creates a chart with the presets of one type.
type Constructor func() *Chart

// Registry maps chart type names to constructors. Register every type
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

// New creates a chart of type name. Unknown names return a ChartError with
// CodeUnknownChartType.
func (r *Registry) New(name string) (*Chart, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, &errors.ChartError{
			Op:   "chart.New",
			Kind: errors.KindConfig,
			Code: errors.CodeUnknownChartType,
			Args: []any{name},
		}
	}
	return ctor(), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.ctors[name]
	return ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Types is the default registry, populated by this package's init.
var Types = NewRegistry()

func init() {
	Types.Register(TypeCartesian, NewCartesian)
	Types.Register(TypeBox, NewBox)
	Types.Register(TypePolar, NewPolar)
	Types.Register(TypeMap, NewMap)
}

// New creates a chart from the default registry.
func New(typ string) (*Chart, error) {
	return Types.New(typ)
}

// NewCartesian creates a cartesian chart with a horizontal grid.
func NewCartesian() *Chart {
	c := newChart(TypeCartesian, kindCartesian)
	_ = c.Grid(0).(*grid.Grid).SetLayout(grid.LayoutHorizontal)
	return c
}

// NewBox creates a cartesian chart with white bands on the major grid and
// a faint horizontal minor grid.
func NewBox() *Chart {
	c := newChart(TypeBox, kindCartesian)
	major := c.Grid(0).(*grid.Grid)
	_ = major.SetEvenFill("white")
	_ = major.SetOddFill("white")
	_ = major.SetLayout(grid.LayoutHorizontal)

	minor := c.MinorGrid(0).(*grid.Grid)
	_ = minor.SetEvenFill("none")
	_ = minor.SetOddFill("none")
	_ = minor.SetStroke("black 0.075")
	_ = minor.SetLayout(grid.LayoutHorizontal)
	return c
}

// NewPolar creates a polar chart. Its y scale starts at zero.
func NewPolar() *Chart {
	return newChart(TypePolar, kindPolar)
}

// NewMap creates a map chart with latitude and longitude grids.
func NewMap() *Chart {
	c := newChart(TypeMap, kindMap)
	_ = c.Grid(0).(*grid.GeoGrid).SetLayout(grid.LayoutHorizontal)
	_ = c.Grid(1).(*grid.GeoGrid).SetLayout(grid.LayoutVertical)
	return c
}
