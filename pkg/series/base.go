package series

import (
	"slices"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/scales"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Stacking order of the parts inside a series layer.
const (
	zIndexPath    = 30
	zIndexHatch   = 31
	zIndexMarkers = 40
)

const baseStates = invalidation.StateEnabled |
	invalidation.StateContainer |
	invalidation.StateZIndex |
	invalidation.StateBounds |
	invalidation.StateAppearance |
	invalidation.StateData |
	invalidation.StateHatchFill

// geometryStates are the aspects that rebuild the series outline.
const geometryStates = invalidation.StateBounds |
	invalidation.StateAppearance |
	invalidation.StateData

// DefaultColor is the auto color of a series no chart has styled.
var DefaultColor = surface.RGB(0x64, 0xB5, 0xF6)

// scaleRelay is ScaleRelay plus StateData on recalculation.
var scaleRelay = func() invalidation.Relay {
	r := invalidation.ScaleRelay
	r.Rules = append(slices.Clone(r.Rules), invalidation.RelayRule{
		When:  invalidation.SignalNeedsRecalculation,
		State: invalidation.StateData,
	})
	return r
}()

// Base holds the options, data and scales every series has.
type Base struct {
	invalidation.Base

	options   *settings.Table
	name      *settings.Property[string]
	stroke    *settings.Property[*surface.Stroke]
	fill      *settings.Property[*surface.Fill]
	hatchFill *settings.Property[surface.Fill]

	typ       string
	autoColor surface.Color
	points    []Point
	xScale    scales.Scale
	yScale    scales.Scale

	root  surface.Layer
	hatch surface.Path
}

func (s *Base) init(self any, typ string, supported invalidation.State) {
	s.Init(self, supported)
	s.typ = typ
	s.autoColor = DefaultColor
	s.options = settings.NewTable(&s.Base)
	// the name only feeds legends, it never dirties the drawing
	s.name = settings.NewProperty(settings.Producer(&s.Base), "name", "", invalidation.StateNone,
		invalidation.SignalMetaChanged, settings.WithNormalizer(settings.String))
	s.options.Register(s.name)
	s.stroke = settings.Add(s.options, "stroke", (*surface.Stroke)(nil), invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.AutoStroke),
		settings.WithEncoder(settings.EncodeAutoStroke), settings.WithEqual(settings.AutoStrokeEqual))
	s.fill = settings.Add(s.options, "fill", (*surface.Fill)(nil), invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.AutoFill),
		settings.WithEncoder(settings.EncodeAutoFill), settings.WithEqual(settings.AutoFillEqual))
	s.hatchFill = settings.Add(s.options, "hatchFill", surface.NoFill, invalidation.StateHatchFill,
		invalidation.SignalNeedsRedraw, settings.WithNormalizer(settings.FillValue),
		settings.WithEncoder(settings.EncodeFill))
}

// Type returns the registered type name.
func (s *Base) Type() string { return s.typ }

// Name returns the series name.
func (s *Base) Name() string { return s.name.Get() }

// SetName sets the series name.
func (s *Base) SetName(name string) { s.name.Set(name) }

// Stroke returns the configured stroke, or nil when it is automatic.
func (s *Base) Stroke() *surface.Stroke { return s.stroke.Get() }

// SetStroke accepts "auto" or any form settings.StrokeValue reads.
func (s *Base) SetStroke(v any) error { return s.stroke.SetAny(v) }

// Fill returns the configured fill, or nil when it is automatic.
func (s *Base) Fill() *surface.Fill { return s.fill.Get() }

// SetFill accepts "auto" or any form settings.FillValue reads.
func (s *Base) SetFill(v any) error { return s.fill.SetAny(v) }

// HatchFill returns the fill painted over the series area.
func (s *Base) HatchFill() surface.Fill { return s.hatchFill.Get() }

// SetHatchFill accepts any form settings.FillValue reads.
func (s *Base) SetHatchFill(v any) error { return s.hatchFill.SetAny(v) }

// AutoColor returns the color automatic paints derive from.
func (s *Base) AutoColor() surface.Color { return s.autoColor }

// SetAutoColor sets the color automatic paints derive from.
func (s *Base) SetAutoColor(c surface.Color) {
	if s.autoColor == c {
		return
	}
	s.autoColor = c
	s.Invalidate(invalidation.StateAppearance, invalidation.SignalNeedsRedraw)
}

// Options returns the option table.
func (s *Base) Options() *settings.Table { return s.options }

// Points returns a copy of the data.
func (s *Base) Points() []Point { return slices.Clone(s.points) }

// SetData replaces the data. Scales depending on the data range must be
// recalculated.
func (s *Base) SetData(points ...Point) {
	s.points = slices.Clone(points)
	s.InvalidateForced(invalidation.StateData,
		invalidation.SignalDataChanged|invalidation.SignalNeedsRedraw|invalidation.SignalNeedsRecalculation)
}

// XValues returns the x of every point.
func (s *Base) XValues() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.X
	}
	return out
}

// XScale returns the x scale, or nil.
func (s *Base) XScale() scales.Scale { return s.xScale }

// YScale returns the y scale, or nil.
func (s *Base) YScale() scales.Scale { return s.yScale }

// SetScales sets the scales points are mapped through. The series listens
// to both until they are replaced or the series is disposed.
func (s *Base) SetScales(x, y scales.Scale) {
	if s.xScale == x && s.yScale == y {
		return
	}
	for _, old := range []scales.Scale{s.xScale, s.yScale} {
		if old != nil {
			s.StopListening(old)
		}
	}
	s.xScale, s.yScale = x, y
	relay := s.Relay(scaleRelay)
	if x != nil {
		s.ListenTo(x, relay)
	}
	if y != nil && y != x {
		s.ListenTo(y, relay)
	}
	s.Invalidate(invalidation.StateBounds, invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged)
}

// checkScales reports a missing scale. The series stays dirty.
func (s *Base) checkScales(op string) bool {
	if s.xScale == nil || s.yScale == nil {
		errors.ReportCode(op, errors.CodeScaleNotSet)
		return false
	}
	return true
}

func (s *Base) remove() {
	if s.root != nil {
		s.root.Remove()
	}
}

// ensureRoot creates the series layer on first draw.
func (s *Base) ensureRoot() bool {
	if s.root != nil {
		return false
	}
	s.root = s.Container().Surface().NewLayer()
	s.RegisterDisposable(s.root)
	return true
}

func (s *Base) newPath(z float64) surface.Path {
	p := s.root.Surface().NewPath()
	p.SetZIndex(z)
	p.SetParent(s.root)
	return p
}

// drawCommon handles the z-index, container and hatch fill aspects.
func (s *Base) drawCommon() {
	if s.HasInvalidationState(invalidation.StateZIndex) {
		s.root.SetZIndex(s.ZIndex())
		s.MarkConsistent(invalidation.StateZIndex)
	}
	if s.HasInvalidationState(invalidation.StateContainer) {
		s.root.SetParent(s.Container())
		s.MarkConsistent(invalidation.StateContainer)
	}
	if s.HasInvalidationState(invalidation.StateHatchFill) {
		fill := s.hatchFill.Get()
		if s.hatch == nil && !fill.IsNone() {
			s.hatch = s.newPath(zIndexHatch)
			// outline it with the next geometry pass
			s.Invalidate(invalidation.StateData, invalidation.SignalNone)
		}
		if s.hatch != nil {
			s.hatch.SetFill(fill)
		}
		s.MarkConsistent(invalidation.StateHatchFill)
	}
}

func (s *Base) serialize(out map[string]any) map[string]any {
	out = settings.SerializeCommon(s, s.options.Serialize(out))
	out["seriesType"] = s.typ
	out["data"] = EncodeData(s.points)
	return out
}

func (s *Base) setup(config map[string]any) error {
	s.SuspendSignalsDispatching()
	defer s.ResumeSignalsDispatching(true)
	if v, ok := config["data"]; ok {
		points, err := ParseData(v)
		if err != nil {
			return &settings.ValueError{Option: "data", Err: err}
		}
		s.SetData(points...)
	}
	return settings.SetupElement(s, s.options, config)
}

// pen writes the same outline into several paths. Nil paths are skipped.
type pen []surface.Path

func (p pen) MoveTo(x, y float64) {
	for _, path := range p {
		if path != nil {
			path.MoveTo(x, y)
		}
	}
}

func (p pen) LineTo(x, y float64) {
	for _, path := range p {
		if path != nil {
			path.LineTo(x, y)
		}
	}
}

func (p pen) Close() {
	for _, path := range p {
		if path != nil {
			path.Close()
		}
	}
}

func (p pen) Clear() {
	for _, path := range p {
		if path != nil {
			path.Clear()
		}
	}
}
