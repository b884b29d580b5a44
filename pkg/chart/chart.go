// Package chart assembles scales, grids and series into a chart.
//
// A chart is the element a stage draws. Its children never reach the stage
// directly: a child that needs a redraw signals the chart, the chart marks
// the matching aspect (grids, series, scales, bounds) dirty and signals the
// stage in turn. Draw lays out the children, recalculates automatic scale
// ranges from the series data and draws every dirty child.
package chart

import (
	stderrors "errors"
	"log/slog"
	"math"

	"github.com/go-drift/charts/pkg/grid"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/logging"
	"github.com/go-drift/charts/pkg/markers"
	"github.com/go-drift/charts/pkg/scales"
	"github.com/go-drift/charts/pkg/series"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

const supportedStates = invalidation.StateEnabled |
	invalidation.StateContainer |
	invalidation.StateZIndex |
	invalidation.StateBounds |
	invalidation.StateAppearance |
	invalidation.StateScales |
	invalidation.StateGrids |
	invalidation.StateSeries

// Stacking order of the children inside the chart layer.
const (
	zIndexBackground = 0
	zIndexMinorGrid  = 10
	zIndexGrid       = 11
	zIndexSeries     = 30
)

// DefaultPalette colors series in the order they are added.
var DefaultPalette = []surface.Color{
	surface.RGB(0x64, 0xB5, 0xF6),
	surface.RGB(0x19, 0x76, 0xD2),
	surface.RGB(0xEF, 0x6C, 0x00),
	surface.RGB(0xFF, 0xD5, 0x4F),
	surface.RGB(0x45, 0x5A, 0x64),
	surface.RGB(0x96, 0xA6, 0xA6),
	surface.RGB(0xDD, 0x2C, 0x00),
	surface.RGB(0x00, 0x83, 0x8F),
	surface.RGB(0x00, 0xBF, 0xA5),
	surface.RGB(0xFF, 0xA0, 0x00),
}

// Grid is the behavior the chart needs from cartesian and map grids.
type Grid interface {
	settings.Configurable
	invalidation.Drawable
	invalidation.SignalSource
	SetContainer(l surface.Layer)
	SetParentBounds(r surface.Rect)
	Layout() string
	Serialize() map[string]any
	SetupByJSON(config map[string]any) error
	Dispose()
}

var (
	_ Grid = (*grid.Grid)(nil)
	_ Grid = (*grid.GeoGrid)(nil)
)

// Chart is a container of scales, grids and series.
type Chart struct {
	invalidation.Base

	typ           string
	kind          kind
	options       *settings.Table
	background    *settings.Property[surface.Fill]
	padding       *settings.Property[Padding]
	palette       *settings.Property[[]surface.Color]
	defaultSeries *settings.Property[string]

	xScale *scales.Linear
	yScale *scales.Linear
	geo    *scales.Geo

	grids       []Grid
	minorGrids  []Grid
	series      []series.Series
	seriesTypes *series.Registry

	root surface.Layer
	bg   surface.Path

	// set while Draw runs; children signals raised by the pass are ignored
	drawing bool
}

// kind selects the coordinate system.
type kind int

const (
	kindCartesian kind = iota
	kindPolar
	kindMap
)

func newChart(typ string, k kind) *Chart {
	c := &Chart{typ: typ, kind: k}
	c.Init(c, supportedStates)
	c.options = settings.NewTable(&c.Base)
	c.background = settings.Add(c.options, "background", surface.SolidFill(surface.ColorWhite), invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.FillValue), settings.WithEncoder(settings.EncodeFill))
	c.padding = settings.Add(c.options, "padding", UniformPadding(10), invalidation.StateBounds,
		invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged, settings.WithNormalizer(PaddingValue),
		settings.WithEncoder(encodePadding))
	c.palette = settings.Add(c.options, "palette", DefaultPalette, invalidation.StateSeries,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(paletteValue), settings.WithEncoder(encodePalette))

	scaleRelay := c.childRelay(invalidation.Relay{
		Rules: []invalidation.RelayRule{{
			When:  invalidation.SignalNeedsReapplication | invalidation.SignalNeedsRecalculation,
			Raise: invalidation.SignalNeedsRedraw,
			State: invalidation.StateScales,
		}},
	})
	switch k {
	case kindMap:
		c.geo = scales.NewGeo()
		c.RegisterDisposable(c.geo)
		c.ListenTo(c.geo, scaleRelay)
		c.seriesTypes = series.NewRegistry()
	default:
		c.xScale = scales.NewLinear()
		c.yScale = scales.NewLinear()
		for _, s := range []*scales.Linear{c.xScale, c.yScale} {
			c.RegisterDisposable(s)
			c.ListenTo(s, scaleRelay)
		}
		c.seriesTypes = series.CartesianTypes
		if k == kindPolar {
			c.seriesTypes = series.PolarTypes
			c.yScale.SetMinimum(0)
		}
	}
	def := series.TypeRangeStepArea
	if k != kindCartesian {
		def = series.TypePolarLine
	}
	c.defaultSeries = settings.Add(c.options, "defaultSeriesType", def, invalidation.StateNone,
		invalidation.SignalNone, settings.WithNormalizer(settings.String))
	return c
}

// childRelay wraps r so that signals raised by the chart's own draw pass
// do not dirty the chart again.
func (c *Chart) childRelay(r invalidation.Relay) invalidation.SignalHandler {
	h := c.Relay(r)
	return func(e invalidation.SignalEvent) {
		if c.drawing {
			return
		}
		h(e)
	}
}

func (c *Chart) childHandler(state invalidation.State, extra ...invalidation.RelayRule) invalidation.SignalHandler {
	rules := []invalidation.RelayRule{
		{When: invalidation.SignalNeedsRedraw, Raise: invalidation.SignalNeedsRedraw, State: state},
		{When: invalidation.SignalBoundsChanged, Raise: invalidation.SignalNeedsRedraw, State: invalidation.StateBounds},
		{When: invalidation.SignalNeedsRecalculation, Raise: invalidation.SignalNeedsRedraw, State: invalidation.StateScales},
	}
	return c.childRelay(invalidation.Relay{Rules: append(rules, extra...)})
}

// seriesDataRule recalculates the scales when a series' data or enabled
// state changes, since disabled series do not count toward the range.
var seriesDataRule = invalidation.RelayRule{
	When:  invalidation.SignalEnabledStateChanged | invalidation.SignalDataChanged,
	Raise: invalidation.SignalNeedsRedraw,
	State: invalidation.StateScales,
}

// Type returns the registered chart type.
func (c *Chart) Type() string { return c.typ }

// Options returns the option table.
func (c *Chart) Options() *settings.Table { return c.options }

// Background returns the fill behind the chart.
func (c *Chart) Background() surface.Fill { return c.background.Get() }

// SetBackground accepts any form settings.FillValue reads.
func (c *Chart) SetBackground(v any) error { return c.background.SetAny(v) }

// Padding returns the space between the chart bounds and the plot.
func (c *Chart) Padding() Padding { return c.padding.Get() }

// SetPadding accepts a Padding or any form PaddingValue reads.
func (c *Chart) SetPadding(v any) error { return c.padding.SetAny(v) }

// Palette returns the series colors.
func (c *Chart) Palette() []surface.Color { return c.palette.Get() }

// SetPalette accepts a list of colors.
func (c *Chart) SetPalette(v any) error { return c.palette.SetAny(v) }

// DefaultSeriesType returns the series type used when a configuration
// does not name one.
func (c *Chart) DefaultSeriesType() string { return c.defaultSeries.Get() }

// XScale returns the x scale of a cartesian or polar chart, or nil.
func (c *Chart) XScale() *scales.Linear { return c.xScale }

// YScale returns the y scale of a cartesian or polar chart, or nil.
func (c *Chart) YScale() *scales.Linear { return c.yScale }

// GeoScale returns the scale of a map chart, or nil.
func (c *Chart) GeoScale() *scales.Geo { return c.geo }

// SeriesTypes returns the registry series of this chart are created from.
func (c *Chart) SeriesTypes() *series.Registry { return c.seriesTypes }

// PlotBounds returns the area inside the padding, if the chart has bounds.
func (c *Chart) PlotBounds() (surface.Rect, bool) {
	b, ok := c.ParentBounds()
	if !ok {
		return surface.Rect{}, false
	}
	p := c.padding.Get()
	return b.Deflate(p.Top, p.Right, p.Bottom, p.Left), true
}

// Grid returns the major grid at index i, creating grids up to i.
func (c *Chart) Grid(i int) Grid {
	for len(c.grids) <= i {
		c.grids = append(c.grids, c.adopt(c.newGrid(false), zIndexGrid, invalidation.StateGrids))
	}
	return c.grids[i]
}

// MinorGrid returns the minor grid at index i, creating grids up to i.
func (c *Chart) MinorGrid(i int) Grid {
	for len(c.minorGrids) <= i {
		c.minorGrids = append(c.minorGrids, c.adopt(c.newGrid(true), zIndexMinorGrid, invalidation.StateGrids))
	}
	return c.minorGrids[i]
}

// Grids returns the major grids.
func (c *Chart) Grids() []Grid { return c.grids }

// MinorGrids returns the minor grids.
func (c *Chart) MinorGrids() []Grid { return c.minorGrids }

func (c *Chart) newGrid(minor bool) Grid {
	if c.kind == kindMap {
		g := grid.NewGeo()
		g.SetScale(c.geo)
		return g
	}
	if minor {
		return grid.NewMinor()
	}
	return grid.New()
}

func (c *Chart) adopt(g Grid, z float64, state invalidation.State) Grid {
	g.SetZIndex(z)
	c.RegisterDisposable(g)
	c.ListenTo(g, c.childHandler(state))
	c.Invalidate(state, invalidation.SignalNeedsRedraw)
	return g
}

// bindGridScale keeps a cartesian grid on the scale matching its layout.
func (c *Chart) bindGridScale(g Grid) {
	cg, ok := g.(*grid.Grid)
	if !ok || c.xScale == nil {
		return
	}
	if cg.IsHorizontal() {
		cg.SetScale(c.yScale)
	} else {
		cg.SetScale(c.xScale)
	}
}

// Series returns the series in drawing order.
func (c *Chart) Series() []series.Series { return c.series }

// AddSeries adds s, binds it to the chart scales and gives it the next
// palette color.
func (c *Chart) AddSeries(s series.Series) {
	s.SetZIndex(zIndexSeries + float64(len(c.series)))
	if c.xScale != nil {
		s.SetScales(c.xScale, c.yScale)
	}
	c.series = append(c.series, s)
	c.ListenTo(s, c.childHandler(invalidation.StateSeries, seriesDataRule))
	c.Invalidate(invalidation.StateSeries|invalidation.StateScales, invalidation.SignalNeedsRedraw)
}

// NewSeries creates a series of the named type ("" selects the default
// type), sets its data and adds it.
func (c *Chart) NewSeries(typ string, points ...series.Point) (series.Series, error) {
	if typ == "" {
		typ = c.defaultSeries.Get()
	}
	s, err := c.seriesTypes.New(typ)
	if err != nil {
		return nil, err
	}
	s.SetData(points...)
	c.AddSeries(s)
	return s, nil
}

// RemoveSeries removes and disposes s. Reports whether s belonged to the
// chart.
func (c *Chart) RemoveSeries(s series.Series) bool {
	for i, have := range c.series {
		if have != s {
			continue
		}
		c.StopListening(s)
		c.series = append(c.series[:i], c.series[i+1:]...)
		s.Dispose()
		c.Invalidate(invalidation.StateSeries|invalidation.StateScales, invalidation.SignalNeedsRedraw)
		return true
	}
	return false
}

// Dispose disposes the series, grids and scales and releases the chart.
func (c *Chart) Dispose() {
	for _, s := range c.series {
		s.Dispose()
	}
	c.series = nil
	c.Base.Dispose()
}

func (c *Chart) remove() {
	if c.root != nil {
		c.root.Remove()
	}
}

func (c *Chart) ensureElements() {
	if c.root != nil {
		return
	}
	sf := c.Container().Surface()
	c.root = sf.NewLayer()
	c.RegisterDisposable(c.root)
	c.bg = sf.NewPath()
	c.bg.SetZIndex(zIndexBackground)
	c.bg.SetParent(c.root)
}

// Draw lays out and draws the stale parts of the chart. A chart without
// bounds stays dirty until it gets them.
func (c *Chart) Draw() error {
	if !c.CheckDrawingNeeded(c.remove) {
		return nil
	}
	b, ok := c.ParentBounds()
	if !ok {
		return nil
	}
	c.drawing = true
	defer func() { c.drawing = false }()
	logging.Logger().Debug("chart draw", slog.String("type", c.typ), slog.String("state", c.State().String()))

	c.ensureElements()
	if c.HasInvalidationState(invalidation.StateZIndex) {
		c.root.SetZIndex(c.ZIndex())
		c.MarkConsistent(invalidation.StateZIndex)
	}
	if c.HasInvalidationState(invalidation.StateContainer) {
		c.root.SetParent(c.Container())
		c.MarkConsistent(invalidation.StateContainer)
	}
	if c.HasInvalidationState(invalidation.StateAppearance) {
		c.bg.SetFill(c.background.Get())
		c.MarkConsistent(invalidation.StateAppearance)
	}

	plot, _ := c.PlotBounds()
	if c.HasInvalidationState(invalidation.StateBounds) {
		rect(c.bg, b)
		if c.geo != nil {
			c.geo.SetPixelBounds(plot)
		}
		c.MarkConsistent(invalidation.StateBounds)
	}
	if c.HasInvalidationState(invalidation.StateSeries) {
		c.colorSeries()
	}
	if c.HasInvalidationState(invalidation.StateScales) {
		c.calculateScales()
		c.MarkConsistent(invalidation.StateScales)
	}

	var errs []error
	settled := true
	for _, g := range c.allGrids() {
		c.bindGridScale(g)
		g.SetContainer(c.root)
		g.SetParentBounds(plot)
		errs = append(errs, g.Draw())
		settled = settled && childSettled(g)
	}
	for _, s := range c.series {
		s.SetContainer(c.root)
		s.SetParentBounds(plot)
		errs = append(errs, s.Draw())
		settled = settled && childSettled(s)
	}
	err := stderrors.Join(errs...)
	// Children left dirty keep the chart dirty so the next pass retries them.
	if settled && err == nil {
		c.MarkConsistent(invalidation.StateGrids | invalidation.StateSeries)
	}
	return err
}

// childSettled reports whether d needs no further pass. Disabled children
// keep their stale bits until they are enabled again.
func childSettled(d invalidation.Drawable) bool {
	if e, ok := d.(interface{ Enabled() bool }); ok && !e.Enabled() {
		return true
	}
	return d.IsConsistent()
}

func (c *Chart) allGrids() []Grid {
	out := make([]Grid, 0, len(c.minorGrids)+len(c.grids))
	out = append(out, c.minorGrids...)
	return append(out, c.grids...)
}

// colorSeries hands out palette colors and marker types by series index.
func (c *Chart) colorSeries() {
	palette := c.palette.Get()
	for i, s := range c.series {
		if len(palette) > 0 {
			s.SetAutoColor(palette[i%len(palette)])
		}
		if m, ok := s.(interface{ SetAutoMarkerType(string) }); ok {
			m.SetAutoMarkerType(markers.AutoType(i))
		}
	}
}

// calculateScales resolves the automatic scale ranges from the data of the
// enabled series.
func (c *Chart) calculateScales() {
	if c.xScale == nil {
		return
	}
	c.xScale.StartAutoCalc()
	c.yScale.StartAutoCalc()
	for _, s := range c.series {
		if !s.Enabled() {
			continue
		}
		xs := s.XValues()
		c.xScale.ExtendDataRange(xs...)
		if c.kind == kindPolar {
			// one step past the last point so it does not meet the first
			c.xScale.ExtendDataRange(maxFinite(xs) + 1)
		}
		c.yScale.ExtendDataRange(s.YValues()...)
	}
	c.xScale.FinishAutoCalc()
	c.yScale.FinishAutoCalc()
}

func maxFinite(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			m = math.Max(m, v)
		}
	}
	return m
}

func rect(p surface.Path, r surface.Rect) {
	p.Clear()
	p.MoveTo(r.Left, r.Top)
	p.LineTo(r.Right, r.Top)
	p.LineTo(r.Right, r.Bottom)
	p.LineTo(r.Left, r.Bottom)
	p.Close()
}
