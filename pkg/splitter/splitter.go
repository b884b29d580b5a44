// Package splitter draws a draggable bar dividing its parent bounds into a
// left and a right part (top and bottom for the horizontal layout).
//
// Charts placed in the two parts read LeftBounds and RightBounds. Moving the
// bar raises SignalBoundsChanged so they can re-layout, and a finished drag
// dispatches a ChangeEvent.
package splitter

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Layouts. A vertical splitter has a vertical bar between a left and a
// right part.
const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
)

// EventChange is the type of ChangeEvent.
const EventChange invalidation.EventType = "splitterchange"

// ChangeEvent is dispatched when a drag moves the splitter.
type ChangeEvent struct {
	Target   *Splitter
	Position settings.Length
	Left     surface.Rect
	Right    surface.Rect
}

// Type returns EventChange.
func (ChangeEvent) Type() invalidation.EventType { return EventChange }

const supportedStates = invalidation.StateEnabled |
	invalidation.StateContainer |
	invalidation.StateZIndex |
	invalidation.StateBounds |
	invalidation.StateAppearance |
	invalidation.StateSplitterPosition

const geometryStates = invalidation.StateBounds | invalidation.StateSplitterPosition

// Defaults of a new splitter.
var (
	DefaultFill        = surface.SolidFill(surface.RGB(0xCE, 0xCE, 0xCE))
	DefaultPreviewFill = surface.SolidFill(surface.RGBA(0, 0, 0, 0x4C))
)

// Splitter is a draggable divider.
type Splitter struct {
	invalidation.Base

	options               *settings.Table
	layout                *settings.Property[string]
	position              *settings.Property[settings.Length]
	splitterWidth         *settings.Property[float64]
	dragAreaLength        *settings.Property[float64]
	fill                  *settings.Property[surface.Fill]
	stroke                *settings.Property[surface.Stroke]
	dragPreviewFill       *settings.Property[surface.Fill]
	dragPreviewStroke     *settings.Property[surface.Stroke]
	dragAreaFill          *settings.Property[surface.Fill]
	dragAreaStroke        *settings.Property[surface.Stroke]
	leftLimitSize         *settings.Property[float64]
	rightLimitSize        *settings.Property[float64]
	considerSplitterWidth *settings.Property[bool]

	root     surface.Layer
	bar      surface.Path
	dragArea surface.Path
	preview  surface.Path

	dragging   bool
	grabOffset float64
	previewPos float64
}

// New creates a vertical splitter at 50%.
func New() *Splitter {
	s := &Splitter{}
	s.Init(s, supportedStates)
	s.options = settings.NewTable(&s.Base)

	moves := func(name string, def float64) *settings.Property[float64] {
		return settings.Add(s.options, name, def, invalidation.StateSplitterPosition,
			invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged, settings.WithNormalizer(settings.NonNegative))
	}
	fill := func(name string, def surface.Fill) *settings.Property[surface.Fill] {
		return settings.Add(s.options, name, def, invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
			settings.WithNormalizer(settings.FillValue), settings.WithEncoder(settings.EncodeFill))
	}
	stroke := func(name string) *settings.Property[surface.Stroke] {
		return settings.Add(s.options, name, surface.NoStroke, invalidation.StateAppearance, invalidation.SignalNeedsRedraw,
			settings.WithNormalizer(settings.StrokeValue), settings.WithEncoder(settings.EncodeStroke))
	}

	s.layout = settings.Add(s.options, "layout", LayoutVertical, invalidation.StateSplitterPosition,
		invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged,
		settings.WithNormalizer(settings.Enum(LayoutVertical, LayoutHorizontal)))
	s.position = settings.Add(s.options, "position", settings.PercentOf(50), invalidation.StateSplitterPosition,
		invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged,
		settings.WithNormalizer(settings.Percent), settings.WithEncoder(settings.EncodeLength))
	s.splitterWidth = moves("splitterWidth", 5)
	s.dragAreaLength = moves("dragAreaLength", 5)
	s.fill = fill("fill", DefaultFill)
	s.stroke = stroke("stroke")
	s.dragPreviewFill = fill("dragPreviewFill", DefaultPreviewFill)
	s.dragPreviewStroke = stroke("dragPreviewStroke")
	s.dragAreaFill = fill("dragAreaFill", surface.NoFill)
	s.dragAreaStroke = stroke("dragAreaStroke")
	s.leftLimitSize = moves("leftLimitSize", 0)
	s.rightLimitSize = moves("rightLimitSize", 0)
	s.considerSplitterWidth = settings.Add(s.options, "considerSplitterWidth", false, invalidation.StateSplitterPosition,
		invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged, settings.WithNormalizer(settings.Bool))
	return s
}

// Options returns the option table.
func (s *Splitter) Options() *settings.Table { return s.options }

// Layout returns LayoutVertical or LayoutHorizontal.
func (s *Splitter) Layout() string { return s.layout.Get() }

// SetLayout sets the bar direction.
func (s *Splitter) SetLayout(layout string) error { return s.layout.SetAny(layout) }

// Position returns the configured bar position.
func (s *Splitter) Position() settings.Length { return s.position.Get() }

// SetPosition accepts pixels or a percentage such as "30%".
func (s *Splitter) SetPosition(v any) error { return s.position.SetAny(v) }

// SetSplitterWidth sets the bar thickness.
func (s *Splitter) SetSplitterWidth(v any) error { return s.splitterWidth.SetAny(v) }

// SetDragAreaLength sets the thickness of the area that starts a drag.
func (s *Splitter) SetDragAreaLength(v any) error { return s.dragAreaLength.SetAny(v) }

// SetFill sets the bar fill.
func (s *Splitter) SetFill(v any) error { return s.fill.SetAny(v) }

// SetStroke sets the bar stroke.
func (s *Splitter) SetStroke(v any) error { return s.stroke.SetAny(v) }

// SetDragPreviewFill sets the fill of the bar preview shown while dragging.
func (s *Splitter) SetDragPreviewFill(v any) error { return s.dragPreviewFill.SetAny(v) }

// SetDragPreviewStroke sets the stroke of the drag preview.
func (s *Splitter) SetDragPreviewStroke(v any) error { return s.dragPreviewStroke.SetAny(v) }

// SetDragAreaFill sets the fill of the drag area.
func (s *Splitter) SetDragAreaFill(v any) error { return s.dragAreaFill.SetAny(v) }

// SetDragAreaStroke sets the stroke of the drag area.
func (s *Splitter) SetDragAreaStroke(v any) error { return s.dragAreaStroke.SetAny(v) }

// SetLeftLimitSize sets the minimum size of the left part.
func (s *Splitter) SetLeftLimitSize(v any) error { return s.leftLimitSize.SetAny(v) }

// SetRightLimitSize sets the minimum size of the right part.
func (s *Splitter) SetRightLimitSize(v any) error { return s.rightLimitSize.SetAny(v) }

// SetConsiderSplitterWidth sets whether the bar takes space between the
// parts. Otherwise the bar is centered on the border and overlaps both.
func (s *Splitter) SetConsiderSplitterWidth(v bool) { s.considerSplitterWidth.Set(v) }

func (s *Splitter) vertical() bool { return s.layout.Get() == LayoutVertical }

// axis returns the start and length of b along the split direction.
func (s *Splitter) axis(b surface.Rect) (start, length float64) {
	if s.vertical() {
		return b.Left, b.Width()
	}
	return b.Top, b.Height()
}

// available returns the length positions are resolved against.
func (s *Splitter) available(b surface.Rect) float64 {
	_, length := s.axis(b)
	if s.considerSplitterWidth.Get() {
		length -= s.splitterWidth.Get()
	}
	return math.Max(length, 0)
}

// clamp keeps pos inside the limits. The left limit wins when both cannot
// be satisfied.
func (s *Splitter) clamp(b surface.Rect, pos float64) float64 {
	avail := s.available(b)
	pos = math.Min(pos, avail-s.rightLimitSize.Get())
	pos = math.Max(pos, s.leftLimitSize.Get())
	return math.Max(0, math.Min(pos, avail))
}

func (s *Splitter) resolved(b surface.Rect) float64 {
	return s.clamp(b, s.position.Get().Resolve(s.available(b)))
}

// span returns the part of b between a and c along the split direction.
func (s *Splitter) span(b surface.Rect, a, c float64) surface.Rect {
	if s.vertical() {
		return surface.Rect{Left: a, Top: b.Top, Right: c, Bottom: b.Bottom}
	}
	return surface.Rect{Left: b.Left, Top: a, Right: b.Right, Bottom: c}
}

// barAt returns the bar rectangle for the resolved position pos.
func (s *Splitter) barAt(b surface.Rect, pos float64) surface.Rect {
	start, _ := s.axis(b)
	w := s.splitterWidth.Get()
	if s.considerSplitterWidth.Get() {
		return s.span(b, start+pos, start+pos+w)
	}
	return s.span(b, start+pos-w/2, start+pos+w/2)
}

func (s *Splitter) dragAreaAt(b surface.Rect, pos float64) surface.Rect {
	start, _ := s.axis(b)
	mid := start + pos
	if s.considerSplitterWidth.Get() {
		mid += s.splitterWidth.Get() / 2
	}
	half := math.Max(s.dragAreaLength.Get(), s.splitterWidth.Get()) / 2
	return s.span(b, mid-half, mid+half)
}

// LeftBounds returns the left (or top) part of the parent bounds.
func (s *Splitter) LeftBounds() surface.Rect {
	b, ok := s.ParentBounds()
	if !ok {
		return surface.Rect{}
	}
	start, _ := s.axis(b)
	return s.span(b, start, start+s.resolved(b))
}

// RightBounds returns the right (or bottom) part of the parent bounds.
func (s *Splitter) RightBounds() surface.Rect {
	b, ok := s.ParentBounds()
	if !ok {
		return surface.Rect{}
	}
	start, length := s.axis(b)
	from := start + s.resolved(b)
	if s.considerSplitterWidth.Get() {
		from += s.splitterWidth.Get()
	}
	return s.span(b, from, start+length)
}

// BarBounds returns the rectangle the bar is drawn in.
func (s *Splitter) BarBounds() surface.Rect {
	b, ok := s.ParentBounds()
	if !ok {
		return surface.Rect{}
	}
	return s.barAt(b, s.resolved(b))
}

func (s *Splitter) remove() {
	if s.root != nil {
		s.root.Remove()
	}
}

func (s *Splitter) ensureElements() {
	if s.root != nil {
		return
	}
	sf := s.Container().Surface()
	s.root = sf.NewLayer()
	s.RegisterDisposable(s.root)
	for _, p := range []*surface.Path{&s.bar, &s.dragArea, &s.preview} {
		*p = sf.NewPath()
		(*p).SetParent(s.root)
	}
	s.dragArea.SetZIndex(1)
	s.preview.SetZIndex(2)
}

// Draw redraws the stale aspects of the splitter.
func (s *Splitter) Draw() error {
	if !s.CheckDrawingNeeded(s.remove) {
		return nil
	}
	s.ensureElements()

	if s.HasInvalidationState(invalidation.StateZIndex) {
		s.root.SetZIndex(s.ZIndex())
		s.MarkConsistent(invalidation.StateZIndex)
	}
	if s.HasInvalidationState(invalidation.StateContainer) {
		s.root.SetParent(s.Container())
		s.MarkConsistent(invalidation.StateContainer)
	}
	if s.HasInvalidationState(invalidation.StateAppearance) {
		s.bar.SetFill(s.fill.Get())
		s.bar.SetStroke(s.stroke.Get())
		s.dragArea.SetFill(s.dragAreaFill.Get())
		s.dragArea.SetStroke(s.dragAreaStroke.Get())
		s.preview.SetFill(s.dragPreviewFill.Get())
		s.preview.SetStroke(s.dragPreviewStroke.Get())
		s.MarkConsistent(invalidation.StateAppearance)
	}
	if s.HasInvalidationState(geometryStates) {
		if b, ok := s.ParentBounds(); ok {
			pos := s.resolved(b)
			rect(s.bar, s.barAt(b, pos))
			rect(s.dragArea, s.dragAreaAt(b, pos))
			s.MarkConsistent(geometryStates)
		}
	}
	return nil
}

func rect(p surface.Path, r surface.Rect) {
	p.Clear()
	p.MoveTo(r.Left, r.Top)
	p.LineTo(r.Right, r.Top)
	p.LineTo(r.Right, r.Bottom)
	p.LineTo(r.Left, r.Bottom)
	p.Close()
}

func contains(r surface.Rect, at surface.Offset) bool {
	return at.X >= r.Left && at.X <= r.Right && at.Y >= r.Top && at.Y <= r.Bottom
}

// Dragging reports whether a drag is in progress.
func (s *Splitter) Dragging() bool { return s.dragging }

// StartDrag begins a drag when at lies in the drag area. Reports whether a
// drag started.
func (s *Splitter) StartDrag(at surface.Offset) bool {
	b, ok := s.ParentBounds()
	if !ok || !s.Enabled() || s.dragging {
		return false
	}
	pos := s.resolved(b)
	if !contains(s.dragAreaAt(b, pos), at) {
		return false
	}
	start, _ := s.axis(b)
	s.dragging = true
	s.grabOffset = s.along(at) - (start + pos)
	s.previewPos = pos
	return true
}

func (s *Splitter) along(at surface.Offset) float64 {
	if s.vertical() {
		return at.X
	}
	return at.Y
}

// DragTo moves the drag preview to at. The position is not changed until
// EndDrag.
func (s *Splitter) DragTo(at surface.Offset) {
	b, ok := s.ParentBounds()
	if !s.dragging || !ok {
		return
	}
	start, _ := s.axis(b)
	s.previewPos = s.clamp(b, s.along(at)-s.grabOffset-start)
	if s.preview != nil {
		rect(s.preview, s.barAt(b, s.previewPos))
	}
}

// PreviewBounds returns the drag preview rectangle, or an empty one when no
// drag is in progress.
func (s *Splitter) PreviewBounds() surface.Rect {
	b, ok := s.ParentBounds()
	if !s.dragging || !ok {
		return surface.Rect{}
	}
	return s.barAt(b, s.previewPos)
}

// EndDrag commits the previewed position in the unit of the current one
// and dispatches a ChangeEvent when it moved. Reports whether it moved.
func (s *Splitter) EndDrag() bool {
	if !s.dragging {
		return false
	}
	s.stopDrag()
	b, ok := s.ParentBounds()
	if !ok {
		return false
	}
	next := settings.Pixels(s.previewPos)
	if s.position.Get().Percent {
		avail := s.available(b)
		if avail <= 0 {
			return false
		}
		next = settings.PercentOf(s.previewPos / avail * 100)
	}
	if math.Abs(s.resolved(b)-s.previewPos) < 1e-9 || !s.position.Set(next) {
		return false
	}
	s.DispatchEvent(ChangeEvent{Target: s, Position: next, Left: s.LeftBounds(), Right: s.RightBounds()})
	return true
}

// CancelDrag ends a drag without moving the splitter.
func (s *Splitter) CancelDrag() {
	if s.dragging {
		s.stopDrag()
	}
}

func (s *Splitter) stopDrag() {
	s.dragging = false
	if s.preview != nil {
		s.preview.Clear()
	}
}

// Serialize returns the splitter configuration.
func (s *Splitter) Serialize() map[string]any {
	return settings.SerializeCommon(s, s.options.Serialize(nil))
}

// SetupByJSON applies config in one batch.
func (s *Splitter) SetupByJSON(config map[string]any) error {
	return settings.SetupElement(s, s.options, config)
}
