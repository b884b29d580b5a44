package grid

import (
	"math"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/scales"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// DefaultMinorStroke is the minor line stroke of a new map grid.
var DefaultMinorStroke = surface.SolidStroke(surface.RGB(0xEA, 0xEA, 0xEA), 1)

// GeoGrid is a map grid drawn along lines of constant latitude or
// longitude of a geo scale. It draws both major and minor lines; the major
// lines are stacked above the minor ones.
type GeoGrid struct {
	base

	minorStroke *settings.Property[surface.Stroke]

	scale     *scales.Geo
	major     surface.Path
	minorLine surface.Path
	transform surface.Matrix
}

// NewGeo creates a map grid.
func NewGeo() *GeoGrid {
	g := &GeoGrid{transform: surface.Identity()}
	g.init(g)
	g.minorStroke = settings.Add(g.options, "minorStroke", DefaultMinorStroke, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.StrokeValue), settings.WithEncoder(settings.EncodeStroke))
	return g
}

// MinorStroke returns the minor line stroke.
func (g *GeoGrid) MinorStroke() surface.Stroke { return g.minorStroke.Get() }

// SetMinorStroke accepts a surface.Stroke or any form settings.StrokeValue reads.
func (g *GeoGrid) SetMinorStroke(v any) error { return g.minorStroke.SetAny(v) }

// Scale returns the geo scale, or nil.
func (g *GeoGrid) Scale() *scales.Geo {
	return g.scale
}

// SetScale sets the geo scale the grid follows.
func (g *GeoGrid) SetScale(s *scales.Geo) {
	if g.scale == s {
		return
	}
	if g.scale != nil {
		g.StopListening(g.scale)
	}
	g.scale = s
	if s != nil {
		g.ListenTo(s, g.Relay(invalidation.GeoScaleRelay))
	}
	g.Invalidate(invalidation.StatePosition|invalidation.StateBounds,
		invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged)
}

// UpdateOnZoomOrMove applies a zoom or pan transform without redrawing.
func (g *GeoGrid) UpdateOnZoomOrMove(tx surface.Matrix) {
	g.transform = tx
	if g.root != nil {
		g.root.SetTransform(tx)
	}
}

// Draw redraws the stale aspects of the grid.
func (g *GeoGrid) Draw() error {
	if g.scale == nil {
		errors.ReportCode("geoGrid.Draw", errors.CodeScaleNotSet)
		return nil
	}
	if !g.CheckDrawingNeeded(g.remove) {
		return nil
	}

	if g.ensureElements() {
		sf := g.Container().Surface()
		g.minorLine = sf.NewPath()
		g.minorLine.SetZIndex(0)
		g.minorLine.SetParent(g.root)
		g.major = sf.NewPath()
		g.major.SetZIndex(1)
		g.major.SetParent(g.root)
		if !g.transform.IsIdentity() {
			g.root.SetTransform(g.transform)
		}
	}
	g.drawCommon()

	if g.HasInvalidationState(invalidation.StateAppearance) {
		g.major.SetStroke(g.stroke.Get())
		g.minorLine.SetStroke(g.minorStroke.Get())
		g.applyFills()
		g.MarkConsistent(invalidation.StateAppearance)
	}

	if g.HasInvalidationState(invalidation.StatePosition | invalidation.StateBounds) {
		g.drawGeometry()
		g.MarkConsistent(invalidation.StatePosition | invalidation.StateBounds)
	}
	return nil
}

// geoStrategy draws one line or one band for a layout.
type geoStrategy struct {
	line      func(g *GeoGrid, path surface.Path, value, precision float64)
	interlace func(g *GeoGrid, path surface.Path, value, prevValue, precision float64)
}

var geoStrategies = map[string]geoStrategy{
	LayoutHorizontal: {line: (*GeoGrid).drawLineHorizontal, interlace: (*GeoGrid).drawInterlaceHorizontal},
	LayoutVertical:   {line: (*GeoGrid).drawLineVertical, interlace: (*GeoGrid).drawInterlaceVertical},
}

func (g *GeoGrid) drawGeometry() {
	strategy := geoStrategies[g.layout.Get()]
	minLon, maxLon, minLat, maxLat := g.scale.Extent()

	var ticks, minorTicks []float64
	var scaleMin, scaleMax, precision float64
	if g.IsHorizontal() {
		ticks, minorTicks = g.scale.YTicks(), g.scale.YMinorTicks()
		scaleMin, scaleMax = minLat, maxLat
		precision = g.scale.Precision()[0]
	} else {
		ticks, minorTicks = g.scale.XTicks(), g.scale.XMinorTicks()
		scaleMin, scaleMax = minLon, maxLon
		precision = g.scale.Precision()[1]
	}

	g.clearFills()
	g.major.Clear()
	g.minorLine.Clear()

	band := 0
	if len(ticks) > 0 && ticks[0] > scaleMin {
		strategy.interlace(g, g.fillPath(band), ticks[0], scaleMin, precision)
		band++
	}
	last := len(ticks) - 1
	for i, v := range ticks {
		if i > 0 {
			strategy.interlace(g, g.fillPath(band), v, ticks[i-1], precision)
			band++
		}
		if (i > 0 || g.drawFirstLine.Get()) && (i < last || g.drawLastLine.Get()) {
			strategy.line(g, g.major, v, precision)
		}
	}
	if last >= 0 && ticks[last] != scaleMax {
		strategy.interlace(g, g.fillPath(band), scaleMax, ticks[last], precision)
	}

	for _, v := range minorTicks {
		strategy.line(g, g.minorLine, v, precision)
	}
}

// trace draws the geo segment from (lon0, lat0) to (lon1, lat1) along
// which one coordinate is constant. Curved projections are sampled every
// precision degrees. When move is true the segment starts a new subpath.
func (g *GeoGrid) trace(path surface.Path, lon0, lat0, lon1, lat1, precision float64, move bool) {
	steps := 1
	if !g.scale.Projection().IsLinear() && precision > 0 {
		span := math.Max(math.Abs(lon1-lon0), math.Abs(lat1-lat0))
		steps = max(1, int(math.Ceil(span/precision)))
	}
	for i := 0; i <= steps; i++ {
		if i == 0 && !move {
			continue
		}
		t := float64(i) / float64(steps)
		x, y := g.scale.Transform(lon0+(lon1-lon0)*t, lat0+(lat1-lat0)*t)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
}

func (g *GeoGrid) drawLineHorizontal(path surface.Path, lat, precision float64) {
	minLon, maxLon, _, _ := g.scale.Extent()
	g.trace(path, minLon, lat, maxLon, lat, precision, true)
}

func (g *GeoGrid) drawLineVertical(path surface.Path, lon, precision float64) {
	_, _, minLat, maxLat := g.scale.Extent()
	g.trace(path, lon, minLat, lon, maxLat, precision, true)
}

func (g *GeoGrid) drawInterlaceHorizontal(path surface.Path, lat, prevLat, precision float64) {
	minLon, maxLon, _, _ := g.scale.Extent()
	g.trace(path, minLon, lat, maxLon, lat, precision, true)
	g.trace(path, maxLon, lat, maxLon, prevLat, precision, false)
	g.trace(path, maxLon, prevLat, minLon, prevLat, precision, false)
	g.trace(path, minLon, prevLat, minLon, lat, precision, false)
	path.Close()
}

func (g *GeoGrid) drawInterlaceVertical(path surface.Path, lon, prevLon, precision float64) {
	_, _, minLat, maxLat := g.scale.Extent()
	g.trace(path, prevLon, minLat, lon, minLat, precision, true)
	g.trace(path, lon, minLat, lon, maxLat, precision, false)
	g.trace(path, lon, maxLat, prevLon, maxLat, precision, false)
	g.trace(path, prevLon, maxLat, prevLon, minLat, precision, false)
	path.Close()
}
