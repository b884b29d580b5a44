package series

import (
	stderrors "errors"
	"math"
	"reflect"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/markers"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Polar series types.
const (
	TypePolarLine = "line"
	TypePolarArea = "area"
)

// Polar is a continuous series on a polar plot: x maps to the angle
// clockwise from the top, the value maps to the distance from the center.
type Polar struct {
	Base

	area           bool
	closed         *settings.Property[bool]
	connectMissing *settings.Property[bool]

	markers        *markers.Factory
	hoverMarkers   *markers.Factory
	autoMarkerType string
	hoverIndex     int

	path surface.Path

	// state of the current geometry pass
	center       surface.Offset
	first        surface.Offset
	firstMissing bool
	pointDrawn   bool
	segmentOpen  bool
	ring         bool
}

// NewPolarLine creates a polar line series.
func NewPolarLine() *Polar {
	return newPolar(TypePolarLine, false)
}

// NewPolarArea creates a polar area series.
func NewPolarArea() *Polar {
	return newPolar(TypePolarArea, true)
}

func newPolar(typ string, area bool) *Polar {
	s := &Polar{area: area, hoverIndex: -1, autoMarkerType: markers.TypeCircle}
	s.init(s, typ, baseStates|invalidation.StateMarkers)
	s.closed = settings.Add(s.options, "closed", true, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.Bool))
	s.connectMissing = settings.Add(s.options, "connectMissingPoints", false, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.Bool))

	s.markers = markers.New()
	s.markers.SetEnabled(false)
	s.markers.SetZIndex(zIndexMarkers)
	s.RegisterDisposable(s.markers)
	s.ListenTo(s.markers, s.Relay(invalidation.MarkersRelay))

	// reapplied on the next hover, so not listened to
	s.hoverMarkers = markers.NewHover()
	s.RegisterDisposable(s.hoverMarkers)
	return s
}

// Closed reports whether the last point connects back to the first.
func (s *Polar) Closed() bool { return s.closed.Get() }

// SetClosed sets whether the last point connects back to the first.
func (s *Polar) SetClosed(v bool) { s.closed.Set(v) }

// ConnectMissingPoints reports whether missing points are bridged.
func (s *Polar) ConnectMissingPoints() bool { return s.connectMissing.Get() }

// SetConnectMissingPoints sets whether missing points are bridged instead
// of breaking the outline.
func (s *Polar) SetConnectMissingPoints(v bool) { s.connectMissing.Set(v) }

// Markers returns the markers factory.
func (s *Polar) Markers() *markers.Factory { return s.markers }

// HoverMarkers returns the factory hovered points are drawn with.
func (s *Polar) HoverMarkers() *markers.Factory { return s.hoverMarkers }

// SetAutoMarkerType sets the marker type used while the factory type is
// automatic.
func (s *Polar) SetAutoMarkerType(t string) {
	if s.autoMarkerType == t {
		return
	}
	s.autoMarkerType = t
	s.Invalidate(invalidation.StateMarkers, invalidation.SignalNeedsRedraw)
}

// YValues returns the value of every point.
func (s *Polar) YValues() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

func (s *Polar) resolvedStroke() surface.Stroke {
	def := surface.SolidStroke(s.autoColor, 2)
	if s.area {
		def = surface.SolidStroke(s.autoColor.Darken(0.2), 1)
	}
	return settings.StrokeOr(s.stroke.Get(), def)
}

func (s *Polar) resolvedFill() surface.Fill {
	if !s.area {
		return surface.NoFill
	}
	return settings.FillOr(s.fill.Get(), surface.SolidFill(s.autoColor.WithOpacity(0.65)))
}

// Draw redraws the stale aspects of the series and its markers.
func (s *Polar) Draw() error {
	if !s.checkScales("polarSeries.Draw") {
		return nil
	}
	if !s.CheckDrawingNeeded(s.remove) {
		return nil
	}
	if s.ensureRoot() {
		s.path = s.newPath(zIndexPath)
	}

	s.startDrawing()
	defer s.endDrawing()
	s.drawCommon()
	if s.HasInvalidationState(invalidation.StateAppearance) {
		s.colorize()
	}
	if s.HasInvalidationState(geometryStates | invalidation.StateMarkers) {
		if b, ok := s.ParentBounds(); ok {
			s.drawGeometry(b)
			s.MarkConsistent(geometryStates | invalidation.StateMarkers)
		}
	}
	return s.markers.Draw()
}

// startDrawing prepares the markers factories. Their changes during the
// pass are held back so the series does not invalidate itself.
func (s *Polar) startDrawing() {
	s.markers.SuspendSignalsDispatching()
	s.hoverMarkers.SuspendSignalsDispatching()

	fill := settings.FillOr(s.fill.Get(), surface.SolidFill(s.autoColor))
	s.markers.SetAutoFill(fill)
	s.markers.SetAutoStroke(surface.SolidStroke(fill.Color.Darken(0.2), 1))
	s.markers.SetAutoType(s.autoMarkerType)
	s.markers.SetContainer(s.root)
	if b, ok := s.ParentBounds(); ok {
		s.markers.SetParentBounds(b)
	}
}

// endDrawing releases the factories and drops what they held back.
func (s *Polar) endDrawing() {
	s.markers.ResumeSignalsDispatching(false)
	s.hoverMarkers.ResumeSignalsDispatching(false)
	s.markers.MarkConsistent(invalidation.StateAll)
	s.hoverMarkers.MarkConsistent(invalidation.StateAll)
}

func (s *Polar) colorize() {
	s.path.SetStroke(s.resolvedStroke())
	s.path.SetFill(s.resolvedFill())
}

func (s *Polar) outline() pen {
	return pen{s.path, s.hatch}
}

func (s *Polar) drawGeometry(b surface.Rect) {
	s.outline().Clear()
	s.markers.Clear()

	s.center = b.Center()
	s.firstMissing = false
	s.pointDrawn = false
	s.segmentOpen = false
	s.ring = s.area && s.closed.Get() && !s.hasMissing()

	for i, p := range s.points {
		s.drawPoint(b, i, p)
	}
	if !s.area && s.closed.Get() && !s.firstMissing && s.pointDrawn && len(s.points) > 1 {
		s.outline().LineTo(s.first.X, s.first.Y)
	}
	s.finalizeSegment()
}

func (s *Polar) hasMissing() bool {
	for _, p := range s.points {
		if math.IsNaN(p.X) || math.IsNaN(p.Value) {
			return true
		}
	}
	return false
}

func (s *Polar) drawPoint(b surface.Rect, i int, p Point) {
	at, ok := s.position(b, p)
	if !ok {
		if i == 0 {
			s.firstMissing = true
		}
		if !s.connectMissing.Get() {
			s.finalizeSegment()
			s.pointDrawn = false
		}
		return
	}
	if i == 0 {
		s.first = at
	}
	if s.pointDrawn {
		s.outline().LineTo(at.X, at.Y)
	} else {
		s.startSegment(at)
	}
	s.pointDrawn = true
	s.drawMarker(i, at)
}

func (s *Polar) startSegment(at surface.Offset) {
	out := s.outline()
	if s.area && !s.ring {
		out.MoveTo(s.center.X, s.center.Y)
		out.LineTo(at.X, at.Y)
	} else {
		out.MoveTo(at.X, at.Y)
	}
	s.segmentOpen = true
}

func (s *Polar) finalizeSegment() {
	if !s.segmentOpen {
		return
	}
	if s.area {
		s.outline().Close()
	}
	s.segmentOpen = false
}

// position returns the pixel position of p, or false for a missing point.
func (s *Polar) position(b surface.Rect, p Point) (surface.Offset, bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Value) {
		return surface.Offset{}, false
	}
	c := b.Center()
	radius := math.Min(b.Width(), b.Height()) / 2 * s.yScale.Transform(p.Value)
	angle := (s.xScale.Transform(p.X)*360 - 90) * math.Pi / 180
	return surface.Offset{X: c.X + radius*math.Cos(angle), Y: c.Y + radius*math.Sin(angle)}, true
}

func (s *Polar) drawMarker(i int, at surface.Offset) {
	if !s.markers.Enabled() {
		return
	}
	m := s.markers.Add(i, at)
	if i == s.hoverIndex {
		m.SetFactory(s.hoverMarkers)
	}
	m.Draw()
}

// HoverPoint draws the marker of point i with the hover markers and
// restores the previously hovered one. Reports whether point i has a
// marker.
func (s *Polar) HoverPoint(i int) bool {
	if s.hoverIndex == i {
		return s.markers.Marker(i) != nil
	}
	s.restoreHovered()
	m := s.markers.Marker(i)
	if m == nil {
		s.hoverIndex = -1
		return false
	}
	m.SetFactory(s.hoverMarkers)
	m.Draw()
	s.hoverIndex = i
	return true
}

// Unhover restores the hovered marker.
func (s *Polar) Unhover() {
	s.restoreHovered()
	s.hoverIndex = -1
}

// HoverIndex returns the hovered point, or -1.
func (s *Polar) HoverIndex() int { return s.hoverIndex }

func (s *Polar) restoreHovered() {
	if s.hoverIndex < 0 {
		return
	}
	if m := s.markers.Marker(s.hoverIndex); m != nil {
		m.SetFactory(nil)
		m.Draw()
	}
}

// Serialize returns the series configuration.
func (s *Polar) Serialize() map[string]any {
	out := s.serialize(nil)
	out["markers"] = s.markers.Serialize()
	out["hoverMarkers"] = s.hoverMarkers.Serialize()
	return out
}

// SetupByJSON applies config in one batch.
func (s *Polar) SetupByJSON(config map[string]any) error {
	s.SuspendSignalsDispatching()
	defer s.ResumeSignalsDispatching(true)
	errs := []error{s.setup(config)}
	for key, f := range map[string]*markers.Factory{"markers": s.markers, "hoverMarkers": s.hoverMarkers} {
		v, ok := config[key]
		if !ok {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			errs = append(errs, &settings.TypeError{Option: key, Value: v, Want: reflect.TypeOf(m)})
			continue
		}
		errs = append(errs, f.SetupByJSON(m))
	}
	return stderrors.Join(errs...)
}
