package grid

import (
	"math"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/scales"
	"github.com/go-drift/charts/pkg/surface"
)

// Grid is a cartesian grid laid out in its parent bounds.
type Grid struct {
	base

	scale scales.Scale
	minor bool
	line  surface.Path
	shift float64
}

// New creates a major grid.
func New() *Grid {
	g := &Grid{}
	g.init(g)
	return g
}

// NewMinor creates a grid drawn at the scale's minor ticks.
func NewMinor() *Grid {
	g := New()
	g.minor = true
	return g
}

// IsMinor reports whether the grid uses minor ticks.
func (g *Grid) IsMinor() bool {
	return g.minor
}

// Scale returns the scale, or nil.
func (g *Grid) Scale() scales.Scale {
	return g.scale
}

// SetScale sets the scale the grid follows. The grid listens to it until
// another scale is set or the grid is disposed.
func (g *Grid) SetScale(s scales.Scale) {
	if g.scale == s {
		return
	}
	if g.scale != nil {
		g.StopListening(g.scale)
	}
	g.scale = s
	if s != nil {
		g.ListenTo(s, g.Relay(invalidation.ScaleRelay))
	}
	g.Invalidate(invalidation.StatePosition|invalidation.StateBounds,
		invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged)
}

// Draw redraws the stale aspects of the grid.
func (g *Grid) Draw() error {
	if g.scale == nil {
		errors.ReportCode("grid.Draw", errors.CodeScaleNotSet)
		return nil
	}
	if !g.CheckDrawingNeeded(g.remove) {
		return nil
	}

	if g.ensureElements() {
		g.line = g.Container().Surface().NewPath()
		g.line.SetParent(g.root)
	}
	g.drawCommon()

	if g.HasInvalidationState(invalidation.StateAppearance) {
		g.line.SetStroke(g.stroke.Get())
		g.applyFills()
		if shift := pixelShift(g.stroke.Get().Thickness); shift != g.shift {
			g.shift = shift
			g.Invalidate(invalidation.StatePosition, invalidation.SignalNone)
		}
		g.MarkConsistent(invalidation.StateAppearance)
	}

	if g.HasInvalidationState(invalidation.StatePosition | invalidation.StateBounds) {
		bounds, ok := g.ParentBounds()
		if !ok {
			// laid out once the parent sets bounds
			return nil
		}
		g.drawGeometry(bounds)
		g.MarkConsistent(invalidation.StatePosition | invalidation.StateBounds)
	}
	return nil
}

func (g *Grid) ticks() []float64 {
	if g.minor {
		return g.scale.MinorTicks()
	}
	return g.scale.Ticks()
}

// gridStrategy draws one line or one band for a layout.
type gridStrategy struct {
	line      func(g *Grid, b surface.Rect, ratio float64)
	interlace func(g *Grid, b surface.Rect, path surface.Path, ratio, prevRatio float64)
}

var gridStrategies = map[string]gridStrategy{
	LayoutHorizontal: {line: (*Grid).drawLineHorizontal, interlace: (*Grid).drawInterlaceHorizontal},
	LayoutVertical:   {line: (*Grid).drawLineVertical, interlace: (*Grid).drawInterlaceVertical},
}

func (g *Grid) drawGeometry(b surface.Rect) {
	strategy := gridStrategies[g.layout.Get()]
	ticks := g.ticks()

	g.line.Clear()
	g.clearFills()

	prev := math.NaN()
	last := len(ticks) - 1
	for i, v := range ticks {
		ratio := g.scale.Transform(v)
		if i > 0 {
			strategy.interlace(g, b, g.fillPath(i-1), ratio, prev)
		}
		if (i > 0 || g.drawFirstLine.Get()) && (i < last || g.drawLastLine.Get()) {
			strategy.line(g, b, ratio)
		}
		prev = ratio
	}
}

// horizontalY is the pixel row of ratio, shifted toward the inside.
func (g *Grid) horizontalY(b surface.Rect, ratio float64) float64 {
	y := math.Round(b.Bottom - ratio*b.Height())
	if ratio == 1 {
		return y - g.shift
	}
	return y + g.shift
}

// verticalX is the pixel column of ratio, shifted toward the inside.
func (g *Grid) verticalX(b surface.Rect, ratio float64) float64 {
	x := math.Round(b.Left + ratio*b.Width())
	if ratio == 1 {
		return x + g.shift
	}
	return x - g.shift
}

func (g *Grid) drawLineHorizontal(b surface.Rect, ratio float64) {
	y := g.horizontalY(b, ratio)
	g.line.MoveTo(b.Left, y)
	g.line.LineTo(b.Right, y)
}

func (g *Grid) drawLineVertical(b surface.Rect, ratio float64) {
	x := g.verticalX(b, ratio)
	g.line.MoveTo(x, b.Bottom)
	g.line.LineTo(x, b.Top)
}

func (g *Grid) drawInterlaceHorizontal(b surface.Rect, path surface.Path, ratio, prevRatio float64) {
	if math.IsNaN(prevRatio) {
		return
	}
	y1 := g.horizontalY(b, prevRatio)
	y2 := g.horizontalY(b, ratio)
	path.MoveTo(b.Left, y1)
	path.LineTo(b.Right, y1)
	path.LineTo(b.Right, y2)
	path.LineTo(b.Left, y2)
	path.Close()
}

func (g *Grid) drawInterlaceVertical(b surface.Rect, path surface.Path, ratio, prevRatio float64) {
	if math.IsNaN(prevRatio) {
		return
	}
	x1 := g.verticalX(b, prevRatio)
	x2 := g.verticalX(b, ratio)
	path.MoveTo(x1, b.Top)
	path.LineTo(x2, b.Top)
	path.LineTo(x2, b.Bottom)
	path.LineTo(x1, b.Bottom)
	path.Close()
}

// Serialize returns the grid configuration.
func (g *Grid) Serialize() map[string]any {
	out := g.base.Serialize()
	out["isMinor"] = g.minor
	return out
}
