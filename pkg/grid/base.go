// Package grid draws cartesian and map grids: lines at scale ticks and
// interlaced fill bands between them.
//
// Both grid kinds follow the same draw policy. A missing scale is reported
// and leaves the grid dirty. Otherwise the stale aspects are redrawn in a
// fixed order (z-index, container, appearance, geometry) and each is marked
// consistent right after its work.
package grid

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Layouts.
const (
	LayoutHorizontal = "horizontal"
	LayoutVertical   = "vertical"
)

const supportedStates = invalidation.StateEnabled |
	invalidation.StateContainer |
	invalidation.StateZIndex |
	invalidation.StateBounds |
	invalidation.StateAppearance |
	invalidation.StatePosition

// DefaultStroke is the grid line stroke of a new grid.
var DefaultStroke = surface.SolidStroke(surface.RGB(0xCE, 0xCE, 0xCE), 1)

// base holds the options and drawing elements shared by Grid and GeoGrid.
type base struct {
	invalidation.Base

	options       *settings.Table
	stroke        *settings.Property[surface.Stroke]
	evenFill      *settings.Property[surface.Fill]
	oddFill       *settings.Property[surface.Fill]
	layout        *settings.Property[string]
	drawFirstLine *settings.Property[bool]
	drawLastLine  *settings.Property[bool]

	root surface.Layer
	even surface.Path
	odd  surface.Path
}

func (g *base) init(self any) {
	g.Init(self, supportedStates)
	g.options = settings.NewTable(&g.Base)
	appearance := func(name string, def surface.Fill) *settings.Property[surface.Fill] {
		return settings.Add(g.options, name, def, invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
			settings.WithNormalizer(settings.FillValue), settings.WithEncoder(settings.EncodeFill))
	}
	g.stroke = settings.Add(g.options, "stroke", DefaultStroke, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.StrokeValue), settings.WithEncoder(settings.EncodeStroke))
	g.evenFill = appearance("evenFill", surface.NoFill)
	g.oddFill = appearance("oddFill", surface.NoFill)
	g.layout = settings.Add(g.options, "layout", LayoutHorizontal, invalidation.StatePosition,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.Enum(LayoutHorizontal, LayoutVertical)))
	g.drawFirstLine = settings.Add(g.options, "drawFirstLine", true, invalidation.StatePosition,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.Bool))
	g.drawLastLine = settings.Add(g.options, "drawLastLine", true, invalidation.StatePosition,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.Bool))
}

// Stroke returns the line stroke.
func (g *base) Stroke() surface.Stroke { return g.stroke.Get() }

// SetStroke accepts a surface.Stroke or any form settings.StrokeValue reads.
func (g *base) SetStroke(v any) error { return g.stroke.SetAny(v) }

// EvenFill returns the fill of even bands.
func (g *base) EvenFill() surface.Fill { return g.evenFill.Get() }

// SetEvenFill accepts a surface.Fill or any form settings.FillValue reads.
func (g *base) SetEvenFill(v any) error { return g.evenFill.SetAny(v) }

// OddFill returns the fill of odd bands.
func (g *base) OddFill() surface.Fill { return g.oddFill.Get() }

// SetOddFill accepts a surface.Fill or any form settings.FillValue reads.
func (g *base) SetOddFill(v any) error { return g.oddFill.SetAny(v) }

// Layout returns LayoutHorizontal or LayoutVertical.
func (g *base) Layout() string { return g.layout.Get() }

// SetLayout sets the line direction.
func (g *base) SetLayout(layout string) error { return g.layout.SetAny(layout) }

// IsHorizontal reports whether lines run horizontally.
func (g *base) IsHorizontal() bool { return g.layout.Get() == LayoutHorizontal }

// SetDrawFirstLine toggles the line at the first tick.
func (g *base) SetDrawFirstLine(v bool) { g.drawFirstLine.Set(v) }

// SetDrawLastLine toggles the line at the last tick.
func (g *base) SetDrawLastLine(v bool) { g.drawLastLine.Set(v) }

// Options returns the option table.
func (g *base) Options() *settings.Table { return g.options }

func (g *base) remove() {
	if g.root != nil {
		g.root.Remove()
	}
}

// ensureElements creates the root layer and fill paths on first draw.
func (g *base) ensureElements() bool {
	if g.root != nil {
		return false
	}
	sf := g.Container().Surface()
	g.root = sf.NewLayer()
	g.RegisterDisposable(g.root)
	g.even = sf.NewPath()
	g.even.SetParent(g.root)
	g.odd = sf.NewPath()
	g.odd.SetParent(g.root)
	return true
}

// fillPath returns the path band i is drawn into.
func (g *base) fillPath(i int) surface.Path {
	if i%2 == 0 {
		return g.even
	}
	return g.odd
}

func (g *base) clearFills() {
	g.even.Clear()
	g.odd.Clear()
}

// drawCommon handles the z-index, container and fill aspects.
func (g *base) drawCommon() {
	if g.HasInvalidationState(invalidation.StateZIndex) {
		g.root.SetZIndex(g.ZIndex())
		g.MarkConsistent(invalidation.StateZIndex)
	}
	if g.HasInvalidationState(invalidation.StateContainer) {
		g.root.SetParent(g.Container())
		g.MarkConsistent(invalidation.StateContainer)
	}
}

func (g *base) applyFills() {
	g.even.SetFill(g.evenFill.Get())
	g.odd.SetFill(g.oddFill.Get())
}

// pixelShift aligns odd-width lines to the pixel grid.
func pixelShift(thickness float64) float64 {
	return -math.Mod(thickness, 2) / 2
}

// Serialize returns the grid configuration.
func (g *base) Serialize() map[string]any {
	return settings.SerializeCommon(g, g.options.Serialize(nil))
}

// SetupByJSON applies config in one batch.
func (g *base) SetupByJSON(config map[string]any) error {
	return settings.SetupElement(g, g.options, config)
}
