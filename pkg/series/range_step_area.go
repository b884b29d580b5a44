package series

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// TypeRangeStepArea is the cartesian range step area series type.
const TypeRangeStepArea = "rangeStepArea"

// RangeStepArea fills the band between the low and high values of each
// point, stepping halfway between neighboring points.
type RangeStepArea struct {
	Base

	highStroke *settings.Property[*surface.Stroke]
	lowStroke  *settings.Property[*surface.Stroke]

	path     surface.Path
	highPath surface.Path
	lowPath  surface.Path

	prevX, prevY float64
	lows         []surface.Offset
}

// NewRangeStepArea creates a range step area series.
func NewRangeStepArea() *RangeStepArea {
	s := &RangeStepArea{}
	s.init(s, TypeRangeStepArea, baseStates)
	optional := func(name string) *settings.Property[*surface.Stroke] {
		return settings.Add(s.options, name, (*surface.Stroke)(nil), invalidation.StateAppearance,
			invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.AutoStroke),
			settings.WithEncoder(settings.EncodeAutoStroke), settings.WithEqual(settings.AutoStrokeEqual))
	}
	s.highStroke = optional("highStroke")
	s.lowStroke = optional("lowStroke")
	return s
}

// SetHighStroke sets the stroke along the high values. "auto" uses the
// series stroke.
func (s *RangeStepArea) SetHighStroke(v any) error { return s.highStroke.SetAny(v) }

// SetLowStroke sets the stroke along the low values. "auto" uses the
// series stroke.
func (s *RangeStepArea) SetLowStroke(v any) error { return s.lowStroke.SetAny(v) }

// YValues returns the low and high of every point.
func (s *RangeStepArea) YValues() []float64 {
	out := make([]float64, 0, 2*len(s.points))
	for _, p := range s.points {
		out = append(out, p.Low, p.High)
	}
	return out
}

func (s *RangeStepArea) edgeStroke(p *settings.Property[*surface.Stroke]) surface.Stroke {
	def := settings.StrokeOr(s.stroke.Get(), surface.SolidStroke(s.autoColor.Darken(0.2), 1))
	return settings.StrokeOr(p.Get(), def)
}

// Draw redraws the stale aspects of the series.
func (s *RangeStepArea) Draw() error {
	if !s.checkScales("rangeStepArea.Draw") {
		return nil
	}
	if !s.CheckDrawingNeeded(s.remove) {
		return nil
	}
	if s.ensureRoot() {
		s.path = s.newPath(zIndexPath)
		s.highPath = s.newPath(zIndexPath + 0.1)
		s.lowPath = s.newPath(zIndexPath + 0.1)
	}
	s.drawCommon()

	if s.HasInvalidationState(invalidation.StateAppearance) {
		s.path.SetFill(settings.FillOr(s.fill.Get(), surface.SolidFill(s.autoColor.WithOpacity(0.65))))
		s.path.SetStroke(surface.NoStroke)
		s.highPath.SetStroke(s.edgeStroke(s.highStroke))
		s.lowPath.SetStroke(s.edgeStroke(s.lowStroke))
	}
	if s.HasInvalidationState(geometryStates) {
		if b, ok := s.ParentBounds(); ok {
			s.drawGeometry(b)
			s.MarkConsistent(geometryStates)
		}
	}
	return nil
}

func (s *RangeStepArea) area() pen {
	return pen{s.path, s.hatch}
}

func (s *RangeStepArea) drawGeometry(b surface.Rect) {
	pen{s.path, s.hatch, s.highPath, s.lowPath}.Clear()
	s.lows = s.lows[:0]

	segment := false
	for _, p := range s.points {
		x, low, high, ok := s.coords(b, p)
		if !ok {
			s.finalizeSegment()
			segment = false
			continue
		}
		if segment {
			s.drawSubsequentPoint(x, low, high)
		} else {
			s.drawFirstPoint(x, low, high)
			segment = true
		}
	}
	s.finalizeSegment()
}

func (s *RangeStepArea) coords(b surface.Rect, p Point) (x, low, high float64, ok bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Low) || math.IsNaN(p.High) {
		return 0, 0, 0, false
	}
	x = b.Left + s.xScale.Transform(p.X)*b.Width()
	low = b.Bottom - s.yScale.Transform(p.Low)*b.Height()
	high = b.Bottom - s.yScale.Transform(p.High)*b.Height()
	return x, low, high, true
}

func (s *RangeStepArea) drawFirstPoint(x, low, high float64) {
	s.finalizeSegment()
	s.area().MoveTo(x, low)
	s.area().LineTo(x, high)
	s.highPath.MoveTo(x, high)
	s.prevX, s.prevY = x, high
	s.lows = append(s.lows, surface.Offset{X: x, Y: low})
}

func (s *RangeStepArea) drawSubsequentPoint(x, low, high float64) {
	midX := (x + s.prevX) / 2
	for _, p := range []pen{s.area(), {s.highPath}} {
		p.LineTo(midX, s.prevY)
		p.LineTo(midX, high)
		p.LineTo(x, high)
	}
	s.prevX, s.prevY = x, high
	s.lows = append(s.lows, surface.Offset{X: x, Y: low})
}

// finalizeSegment walks the lows back to the first point of the segment
// and closes the area.
func (s *RangeStepArea) finalizeSegment() {
	if len(s.lows) == 0 {
		return
	}
	both := pen{s.path, s.hatch, s.lowPath}
	var prev surface.Offset
	for i := len(s.lows) - 1; i >= 0; i-- {
		l := s.lows[i]
		if i == len(s.lows)-1 {
			s.lowPath.MoveTo(l.X, l.Y)
		} else {
			midX := (l.X + prev.X) / 2
			both.LineTo(midX, prev.Y)
			both.LineTo(midX, l.Y)
		}
		both.LineTo(l.X, l.Y)
		prev = l
	}
	s.area().Close()
	s.lows = s.lows[:0]
}

// Serialize returns the series configuration.
func (s *RangeStepArea) Serialize() map[string]any {
	return s.serialize(nil)
}

// SetupByJSON applies config in one batch.
func (s *RangeStepArea) SetupByJSON(config map[string]any) error {
	return s.setup(config)
}
