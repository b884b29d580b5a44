// Package markers draws point markers for series.
//
// A Factory holds the marker settings shared by every point of a series
// and owns the marker paths. Series fill in the automatic type and colors,
// add one Marker per drawn point and draw the factory once per pass.
package markers

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

const supportedStates = invalidation.StateEnabled |
	invalidation.StateContainer |
	invalidation.StateZIndex |
	invalidation.StateBounds |
	invalidation.StateAppearance

// Default sizes.
const (
	DefaultSize      = 4.0
	DefaultHoverSize = 6.0
)

// Factory is the settings and drawing owner of a set of markers.
type Factory struct {
	invalidation.Base

	options  *settings.Table
	typ      *settings.Property[string]
	size     *settings.Property[float64]
	fill     *settings.Property[*surface.Fill]
	stroke   *settings.Property[*surface.Stroke]
	position *settings.Property[string]

	autoType   string
	autoFill   surface.Fill
	autoStroke surface.Stroke

	root    surface.Layer
	markers map[int]*Marker
	free    []*Marker
}

// New creates a factory of circle markers.
func New() *Factory {
	f := &Factory{markers: make(map[int]*Marker), autoType: TypeCircle}
	f.Init(f, supportedStates)
	f.options = settings.NewTable(&f.Base)
	f.typ = settings.Add(f.options, "type", "", invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
		settings.WithNormalizer(markerType), settings.WithEncoder(encodeType))
	f.size = settings.Add(f.options, "size", DefaultSize, invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
		settings.WithNormalizer(settings.NonNegative))
	f.fill = settings.Add(f.options, "fill", (*surface.Fill)(nil), invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
		settings.WithNormalizer(settings.AutoFill), settings.WithEncoder(settings.EncodeAutoFill),
		settings.WithEqual(settings.AutoFillEqual))
	f.stroke = settings.Add(f.options, "stroke", (*surface.Stroke)(nil), invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
		settings.WithNormalizer(settings.AutoStroke), settings.WithEncoder(settings.EncodeAutoStroke),
		settings.WithEqual(settings.AutoStrokeEqual))
	f.position = settings.Add(f.options, "position", PositionCenter, invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
		settings.WithNormalizer(settings.Enum(positions...)))
	return f
}

// NewHover creates a factory for hovered points. Unset type, fill and
// stroke fall back to the normal factory of the marker.
func NewHover() *Factory {
	f := New()
	f.size.SetDefault(DefaultHoverSize)
	return f
}

func markerType(v any) (string, error) {
	switch v {
	case nil, "", settings.Auto:
		return "", nil
	}
	s, err := settings.String(v)
	if err != nil {
		return "", err
	}
	if _, ok := shapes[s]; !ok {
		return "", fmt.Errorf("unknown marker type %q", s)
	}
	return s, nil
}

func encodeType(s string) any {
	if s == "" {
		return settings.Auto
	}
	return s
}

// Type returns the configured type, or "" when it is automatic.
func (f *Factory) Type() string { return f.typ.Get() }

// SetType sets the marker type. "auto" restores the automatic type.
func (f *Factory) SetType(v any) error { return f.typ.SetAny(v) }

// Size returns the marker radius in pixels.
func (f *Factory) Size() float64 { return f.size.Get() }

// SetSize sets the marker radius in pixels.
func (f *Factory) SetSize(v any) error { return f.size.SetAny(v) }

// Fill returns the configured fill, or nil when it is automatic.
func (f *Factory) Fill() *surface.Fill { return f.fill.Get() }

// SetFill accepts "auto" or any form settings.FillValue reads.
func (f *Factory) SetFill(v any) error { return f.fill.SetAny(v) }

// Stroke returns the configured stroke, or nil when it is automatic.
func (f *Factory) Stroke() *surface.Stroke { return f.stroke.Get() }

// SetStroke accepts "auto" or any form settings.StrokeValue reads.
func (f *Factory) SetStroke(v any) error { return f.stroke.SetAny(v) }

// Position returns the anchor placed on the point.
func (f *Factory) Position() string { return f.position.Get() }

// SetPosition sets the anchor placed on the point.
func (f *Factory) SetPosition(v any) error { return f.position.SetAny(v) }

// SetAutoType sets the type used while Type is automatic.
func (f *Factory) SetAutoType(t string) {
	if f.autoType == t {
		return
	}
	f.autoType = t
	f.Invalidate(invalidation.StateAppearance, invalidation.SignalNeedsRedraw)
}

// SetAutoFill sets the fill used while Fill is automatic.
func (f *Factory) SetAutoFill(fill surface.Fill) {
	if f.autoFill.Equal(fill) {
		return
	}
	f.autoFill = fill
	f.Invalidate(invalidation.StateAppearance, invalidation.SignalNeedsRedraw)
}

// SetAutoStroke sets the stroke used while Stroke is automatic.
func (f *Factory) SetAutoStroke(s surface.Stroke) {
	if f.autoStroke.Equal(s) {
		return
	}
	f.autoStroke = s
	f.Invalidate(invalidation.StateAppearance, invalidation.SignalNeedsRedraw)
}

// ResolvedType returns the type markers are drawn with.
func (f *Factory) ResolvedType() string {
	if t := f.typ.Get(); t != "" {
		return t
	}
	if f.autoType != "" {
		return f.autoType
	}
	return TypeCircle
}

// ResolvedFill returns the fill markers are drawn with.
func (f *Factory) ResolvedFill() surface.Fill {
	return settings.FillOr(f.fill.Get(), f.autoFill)
}

// ResolvedStroke returns the stroke markers are drawn with.
func (f *Factory) ResolvedStroke() surface.Stroke {
	return settings.StrokeOr(f.stroke.Get(), f.autoStroke)
}

// Add places the marker of point index at at. A marker cleared earlier is
// reused along with its path.
func (f *Factory) Add(index int, at surface.Offset) *Marker {
	m, ok := f.markers[index]
	if !ok {
		if n := len(f.free); n > 0 {
			m = f.free[n-1]
			f.free = f.free[:n-1]
		} else {
			m = &Marker{owner: f}
		}
		f.markers[index] = m
	}
	m.index = index
	m.at = at
	m.current = nil
	return m
}

// Marker returns the marker of point index, or nil.
func (f *Factory) Marker(index int) *Marker {
	return f.markers[index]
}

// Len returns the number of placed markers.
func (f *Factory) Len() int {
	return len(f.markers)
}

// Clear removes every marker. Their paths are kept for reuse.
func (f *Factory) Clear() {
	for _, i := range slices.Sorted(maps.Keys(f.markers)) {
		m := f.markers[i]
		m.Clear()
		f.free = append(f.free, m)
	}
	clear(f.markers)
}

// Draw redraws the stale aspects of the factory and its markers.
func (f *Factory) Draw() error {
	if !f.CheckDrawingNeeded(f.remove) {
		return nil
	}
	f.ensureLayer()

	if f.HasInvalidationState(invalidation.StateZIndex) {
		f.root.SetZIndex(f.ZIndex())
		f.MarkConsistent(invalidation.StateZIndex)
	}
	if f.HasInvalidationState(invalidation.StateContainer) {
		f.root.SetParent(f.Container())
		f.MarkConsistent(invalidation.StateContainer)
	}
	if f.HasInvalidationState(invalidation.StateAppearance | invalidation.StateBounds) {
		for _, i := range slices.Sorted(maps.Keys(f.markers)) {
			f.markers[i].Draw()
		}
		f.MarkConsistent(invalidation.StateAppearance | invalidation.StateBounds)
	}
	return nil
}

func (f *Factory) ensureLayer() bool {
	if f.root != nil {
		return true
	}
	c := f.Container()
	if c == nil {
		return false
	}
	f.root = c.Surface().NewLayer()
	f.RegisterDisposable(f.root)
	return true
}

func (f *Factory) remove() {
	if f.root != nil {
		f.root.Remove()
	}
}

// Serialize returns the factory configuration.
func (f *Factory) Serialize() map[string]any {
	return settings.SerializeCommon(f, f.options.Serialize(nil))
}

// SetupByJSON applies config in one batch.
func (f *Factory) SetupByJSON(config map[string]any) error {
	return settings.SetupElement(f, f.options, config)
}

// Marker is the marker of one point.
type Marker struct {
	owner   *Factory
	current *Factory
	index   int
	at      surface.Offset
	path    surface.Path
}

// Index returns the point index.
func (m *Marker) Index() int { return m.index }

// At returns the point the marker is anchored to.
func (m *Marker) At() surface.Offset { return m.at }

// SetAt moves the anchor. The marker is redrawn by the next Draw.
func (m *Marker) SetAt(at surface.Offset) { m.at = at }

// Path returns the marker path, or nil before the first draw.
func (m *Marker) Path() surface.Path { return m.path }

// SetFactory selects the factory whose settings the marker is drawn with,
// typically a hover factory. nil selects the owning factory.
func (m *Marker) SetFactory(f *Factory) {
	if f == m.owner {
		f = nil
	}
	m.current = f
}

// Draw outlines the marker with the selected settings.
func (m *Marker) Draw() {
	f := m.owner
	if !f.Enabled() || !f.ensureLayer() {
		return
	}
	if m.path == nil {
		m.path = f.root.Surface().NewPath()
		m.path.SetParent(f.root)
	}
	typ, size, fill, stroke, position := m.resolve()
	c := anchorCenter(position, m.at, size)
	m.path.Clear()
	shapes[typ](m.path, c.X, c.Y, size)
	m.path.SetFill(fill)
	m.path.SetStroke(stroke)
}

func (m *Marker) resolve() (typ string, size float64, fill surface.Fill, stroke surface.Stroke, position string) {
	f := m.owner
	cur := m.current
	if cur == nil {
		return f.ResolvedType(), f.Size(), f.ResolvedFill(), f.ResolvedStroke(), f.Position()
	}
	typ = cur.Type()
	if typ == "" {
		typ = f.ResolvedType()
	}
	fill = settings.FillOr(cur.Fill(), f.ResolvedFill())
	stroke = settings.StrokeOr(cur.Stroke(), f.ResolvedStroke())
	return typ, cur.Size(), fill, stroke, cur.Position()
}

// Clear empties the marker path.
func (m *Marker) Clear() {
	if m.path != nil && len(m.path.Commands()) > 0 {
		m.path.Clear()
	}
}
