// Package stage hosts charts and other elements on one scene and keeps
// them drawn.
//
// Every element added to a stage draws into the scene root. Signals an
// element dispatches with NeedsRedraw or BoundsChanged schedule it on the
// stage pipeline; Flush draws everything scheduled in one pass.
package stage

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/logging"
	"github.com/go-drift/charts/pkg/splitter"
	"github.com/go-drift/charts/pkg/surface"
	"github.com/go-drift/charts/pkg/surface/raster"
)

// Element is anything a stage can host.
type Element interface {
	invalidation.Drawable
	invalidation.SignalSource
	SetContainer(l surface.Layer)
	SetParentBounds(r surface.Rect)
	Dispose()
}

const scheduleSignals = invalidation.SignalNeedsRedraw | invalidation.SignalBoundsChanged

type entry struct {
	el       Element
	full     bool
	unlisten func()
}

type split struct {
	sp          *splitter.Splitter
	left, right Element
	unlisten    []func()
}

// Stage owns a scene, a draw pipeline and the elements drawn on it.
type Stage struct {
	scene    *surface.Scene
	pipeline invalidation.Pipeline
	entries  []*entry
	splits   []*split
	disposed bool
}

// New creates a stage with a width × height scene.
func New(width, height float64) *Stage {
	return &Stage{scene: surface.NewScene(width, height)}
}

// Scene returns the scene the stage draws into.
func (s *Stage) Scene() *surface.Scene {
	return s.scene
}

// Bounds returns the full scene rectangle.
func (s *Stage) Bounds() surface.Rect {
	size := s.scene.Size()
	return surface.RectFromLTWH(0, 0, size.Width, size.Height)
}

// Add hosts e inside bounds and schedules its first draw.
func (s *Stage) Add(e Element, bounds surface.Rect) {
	s.add(e, bounds, false)
}

// AddFull hosts e over the whole scene. Its bounds follow Resize.
func (s *Stage) AddFull(e Element) {
	s.add(e, s.Bounds(), true)
}

func (s *Stage) add(e Element, bounds surface.Rect, full bool) {
	if s.find(e) >= 0 {
		return
	}
	en := &entry{el: e, full: full}
	en.unlisten = e.ListenSignals(func(ev invalidation.SignalEvent) {
		if ev.HasSignal(scheduleSignals) {
			s.pipeline.Schedule(e)
		}
	})
	s.entries = append(s.entries, en)
	e.SetContainer(s.scene.Root())
	e.SetParentBounds(bounds)
	s.pipeline.Schedule(e)
}

func (s *Stage) find(e Element) int {
	return slices.IndexFunc(s.entries, func(en *entry) bool { return en.el == e })
}

// Len returns the number of hosted elements.
func (s *Stage) Len() int {
	return len(s.entries)
}

// Remove stops hosting e and disposes it. Splits that reference e are
// dropped as well. It reports whether e was hosted; an unknown e is
// reported as WarnNotFound.
func (s *Stage) Remove(e Element) bool {
	i := s.find(e)
	if i < 0 {
		id := ""
		if ider, ok := e.(interface{ ID() uuid.UUID }); ok {
			id = ider.ID().String()
		}
		errors.Warn("stage.Remove", errors.WarnNotFound, fmt.Sprintf("%T", e), id)
		return false
	}
	en := s.entries[i]
	s.entries = slices.Delete(s.entries, i, i+1)
	en.unlisten()
	s.splits = slices.DeleteFunc(s.splits, func(sp *split) bool {
		if Element(sp.sp) != e && sp.left != e && sp.right != e {
			return false
		}
		for _, f := range sp.unlisten {
			f()
		}
		return true
	})
	e.Dispose()
	return true
}

// Resize changes the scene size and relays out full-stage elements.
func (s *Stage) Resize(width, height float64) {
	s.scene.Resize(width, height)
	for _, en := range s.entries {
		if en.full {
			en.el.SetParentBounds(s.Bounds())
		}
	}
}

// Split hosts sp over the whole stage and lays out left and right in the
// two panes. Moving the splitter, by option or by drag, relays out both
// panes.
func (s *Stage) Split(sp *splitter.Splitter, left, right Element) {
	s.AddFull(sp)
	sync := func() {
		left.SetParentBounds(sp.LeftBounds())
		right.SetParentBounds(sp.RightBounds())
	}
	s.Add(left, sp.LeftBounds())
	s.Add(right, sp.RightBounds())
	sl := &split{sp: sp, left: left, right: right}
	sl.unlisten = []func(){
		sp.ListenSignals(func(ev invalidation.SignalEvent) {
			if ev.HasSignal(invalidation.SignalBoundsChanged) {
				sync()
			}
		}),
		sp.Listen(splitter.EventChange, func(invalidation.Event) { sync() }),
	}
	s.splits = append(s.splits, sl)
}

func (s *Stage) syncSplits() {
	for _, sl := range s.splits {
		sl.left.SetParentBounds(sl.sp.LeftBounds())
		sl.right.SetParentBounds(sl.sp.RightBounds())
	}
}

// NeedsFlush reports whether any element is scheduled.
func (s *Stage) NeedsFlush() bool {
	return s.pipeline.NeedsFlush()
}

// Flush draws every scheduled element and returns how many drew.
func (s *Stage) Flush() int {
	if s.disposed {
		return 0
	}
	s.syncSplits()
	n := s.pipeline.Flush()
	logging.Logger().Debug("stage flushed", slog.Int("drawn", n), slog.Int("ops", s.scene.Ops()))
	return n
}

// Render flushes and rasterizes the scene.
func (s *Stage) Render(opts raster.Options) (*image.RGBA, error) {
	s.Flush()
	img, err := raster.Render(s.scene, opts)
	if err != nil {
		return nil, &errors.ChartError{Op: "stage.Render", Kind: errors.KindRender, Err: err}
	}
	return img, nil
}

// WritePNG flushes and encodes the scene to w.
func (s *Stage) WritePNG(w io.Writer, opts raster.Options) error {
	s.Flush()
	if err := raster.WritePNG(w, s.scene, opts); err != nil {
		return &errors.ChartError{Op: "stage.WritePNG", Kind: errors.KindRender, Err: err}
	}
	return nil
}

// Dispose disposes every hosted element. The stage is unusable afterwards.
func (s *Stage) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for _, sl := range s.splits {
		for _, f := range sl.unlisten {
			f()
		}
	}
	s.splits = nil
	for i := len(s.entries) - 1; i >= 0; i-- {
		en := s.entries[i]
		en.unlisten()
		en.el.Dispose()
	}
	s.entries = nil
}
