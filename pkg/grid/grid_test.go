package grid

import (
	"testing"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/scales"
	"github.com/go-drift/charts/pkg/surface"
)

type recordingHandler struct {
	errs []*errors.ChartError
}

func (h *recordingHandler) HandleError(err *errors.ChartError) { h.errs = append(h.errs, err) }
func (h *recordingHandler) HandleWarning(*errors.Warning)      {}
func (h *recordingHandler) HandlePanic(*errors.PanicError)     {}

func captureErrors(t *testing.T) *recordingHandler {
	t.Helper()
	h := &recordingHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func threeTickScale() *scales.Linear {
	s := scales.NewLinear()
	s.SetMinimum(0)
	s.SetMaximum(2)
	s.SetTicksInterval(1)
	return s
}

// bounds has bottom 220 and height 200.
var bounds = surface.RectFromLTWH(10, 20, 100, 200)

func newDrawnGrid(t *testing.T, stroke surface.Stroke) (*Grid, *surface.Scene) {
	t.Helper()
	scene := surface.NewScene(200, 300)
	g := New()
	g.SetScale(threeTickScale())
	g.SetContainer(scene.Root())
	g.SetParentBounds(bounds)
	if err := g.SetStroke(stroke); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g, scene
}

func TestGridWithoutScaleReportsAndLeavesSurfaceUntouched(t *testing.T) {
	h := captureErrors(t)
	scene := surface.NewScene(100, 100)
	g := New()
	g.SetContainer(scene.Root())
	g.SetParentBounds(bounds)

	if err := g.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.errs) != 1 || h.errs[0].Code != errors.CodeScaleNotSet {
		t.Fatalf("expected scale-not-set report, got %v", h.errs)
	}
	if scene.Ops() != 0 {
		t.Fatalf("expected no surface calls, got %d", scene.Ops())
	}
	if g.IsConsistent() {
		t.Fatalf("expected grid to stay dirty")
	}

	g.SetScale(threeTickScale())
	_ = g.Draw()
	if !g.IsConsistent() {
		t.Fatalf("expected retry to complete, state %v", g.State())
	}
}

func TestNewGridStartsDirty(t *testing.T) {
	if New().IsConsistent() {
		t.Fatalf("expected new grid to be dirty")
	}
}

func TestGridThreeTicksTwoBands(t *testing.T) {
	g, _ := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 2))

	even := g.even.Commands()
	odd := g.odd.Commands()
	if n := surface.CountOps(even, surface.PathOpClose) + surface.CountOps(odd, surface.PathOpClose); n != 2 {
		t.Fatalf("expected 2 bands, got %d", n)
	}

	// band 0 spans ticks 0 and 1: y = 220 - ratio*200
	want := []surface.PathCommand{
		{Op: surface.PathOpMoveTo, X: 10, Y: 220},
		{Op: surface.PathOpLineTo, X: 110, Y: 220},
		{Op: surface.PathOpLineTo, X: 110, Y: 120},
		{Op: surface.PathOpLineTo, X: 10, Y: 120},
		{Op: surface.PathOpClose},
	}
	if len(even) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), even)
	}
	for i := range want {
		if even[i] != want[i] {
			t.Fatalf("command %d: expected %+v, got %+v", i, want[i], even[i])
		}
	}
	if odd[0].Y != 120 || odd[2].Y != 20 {
		t.Fatalf("unexpected second band %v", odd)
	}

	lines := g.line.Commands()
	if n := surface.CountOps(lines, surface.PathOpMoveTo); n != 3 {
		t.Fatalf("expected 3 lines, got %d", n)
	}
	for i, y := range []float64{220, 120, 20} {
		if lines[2*i].Y != y {
			t.Fatalf("line %d: expected y %v, got %v", i, y, lines[2*i].Y)
		}
	}
}

func TestGridPixelShiftForOddThickness(t *testing.T) {
	g, _ := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 1))
	lines := g.line.Commands()
	if lines[0].Y != 219.5 {
		t.Fatalf("expected first line shifted to 219.5, got %v", lines[0].Y)
	}
	if lines[4].Y != 20.5 {
		t.Fatalf("expected last line shifted to 20.5, got %v", lines[4].Y)
	}
}

func TestGridDrawConverges(t *testing.T) {
	g, scene := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 1))
	if !g.IsConsistent() {
		t.Fatalf("expected consistent after draw, got %v", g.State())
	}
	ops := scene.Ops()
	_ = g.Draw()
	_ = g.Draw()
	if scene.Ops() != ops {
		t.Fatalf("expected no surface calls on redundant draws, %d -> %d", ops, scene.Ops())
	}
}

func TestGridFollowsScaleChanges(t *testing.T) {
	g, _ := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 2))
	s := g.Scale().(*scales.Linear)

	var got []invalidation.Signal
	g.ListenSignals(func(e invalidation.SignalEvent) { got = append(got, e.Signal) })

	s.SetMaximum(4)
	if !g.State().HasAll(invalidation.StateBounds | invalidation.StateAppearance) {
		t.Fatalf("expected bounds|appearance, got %v", g.State())
	}
	if len(got) != 1 || got[0] != invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged {
		t.Fatalf("unexpected signals %v", got)
	}

	_ = g.Draw()
	if n := surface.CountOps(g.line.Commands(), surface.PathOpMoveTo); n != 5 {
		t.Fatalf("expected 5 lines after range change, got %d", n)
	}
}

func TestGridAppearanceOnlyRestyles(t *testing.T) {
	g, _ := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 2))
	before := g.line.Commands()

	if err := g.SetStroke("4 red"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.HasInvalidationState(invalidation.StatePosition) {
		t.Fatalf("stroke must not invalidate position")
	}
	_ = g.Draw()
	if g.line.Stroke().Color != surface.ColorRed {
		t.Fatalf("expected restyled line")
	}
	after := g.line.Commands()
	if len(before) != len(after) || before[0] != after[0] {
		t.Fatalf("geometry with same pixel shift must be unchanged")
	}
}

func TestGridVerticalLayout(t *testing.T) {
	scene := surface.NewScene(200, 300)
	g := New()
	g.SetScale(threeTickScale())
	g.SetContainer(scene.Root())
	g.SetParentBounds(bounds)
	_ = g.SetStroke(surface.SolidStroke(surface.ColorBlack, 2))
	if err := g.SetLayout("vertical"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = g.Draw()

	lines := g.line.Commands()
	for i, x := range []float64{10, 60, 110} {
		if lines[2*i].X != x || lines[2*i].Y != bounds.Bottom || lines[2*i+1].Y != bounds.Top {
			t.Fatalf("line %d: unexpected %v %v", i, lines[2*i], lines[2*i+1])
		}
	}
}

func TestGridFirstAndLastLineGating(t *testing.T) {
	scene := surface.NewScene(200, 300)
	g := New()
	g.SetScale(threeTickScale())
	g.SetContainer(scene.Root())
	g.SetParentBounds(bounds)
	g.SetDrawFirstLine(false)
	g.SetDrawLastLine(false)
	_ = g.Draw()

	if n := surface.CountOps(g.line.Commands(), surface.PathOpMoveTo); n != 1 {
		t.Fatalf("expected only the middle line, got %d", n)
	}
	if n := surface.CountOps(g.even.Commands(), surface.PathOpClose); n != 1 {
		t.Fatalf("bands must not depend on line gating")
	}
}

func TestGridWithoutParentBoundsDefersGeometry(t *testing.T) {
	scene := surface.NewScene(200, 300)
	g := New()
	g.SetScale(threeTickScale())
	g.SetContainer(scene.Root())
	_ = g.Draw()

	if !g.HasInvalidationState(invalidation.StatePosition) {
		t.Fatalf("expected geometry to stay dirty")
	}
	if g.HasInvalidationState(invalidation.StateAppearance | invalidation.StateContainer) {
		t.Fatalf("expected other aspects done, got %v", g.State())
	}
	ops := scene.Ops()
	_ = g.Draw()
	if scene.Ops() != ops {
		t.Fatalf("deferred geometry must not touch the surface")
	}

	g.SetParentBounds(bounds)
	_ = g.Draw()
	if !g.IsConsistent() {
		t.Fatalf("expected consistent, got %v", g.State())
	}
}

func TestGridWithoutContainerIsNoop(t *testing.T) {
	g := New()
	g.SetScale(threeTickScale())
	if err := g.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.IsConsistent() {
		t.Fatalf("expected remaining bits dirty")
	}
}

func TestGridDisableRemovesLayer(t *testing.T) {
	g, scene := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 1))
	if len(scene.Root().Children()) != 1 {
		t.Fatalf("expected grid layer attached")
	}
	g.SetEnabled(false)
	_ = g.Draw()
	if len(scene.Root().Children()) != 0 {
		t.Fatalf("expected grid layer removed")
	}
	g.SetEnabled(true)
	_ = g.Draw()
	if len(scene.Root().Children()) != 1 {
		t.Fatalf("expected grid layer reattached")
	}
}

func TestGridSetupByJSONBatches(t *testing.T) {
	g := New()
	g.MarkConsistent(invalidation.StateAll)
	var got []invalidation.Signal
	g.ListenSignals(func(e invalidation.SignalEvent) { got = append(got, e.Signal) })

	err := g.SetupByJSON(map[string]any{
		"stroke":   "2 #000",
		"evenFill": "white",
		"oddFill":  "#eee 0.5",
		"layout":   "vertical",
		"zIndex":   11,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one consolidated signal, got %v", got)
	}
	if g.ZIndex() != 11 || g.Layout() != LayoutVertical {
		t.Fatalf("options not applied")
	}
	cfg := g.Serialize()
	if cfg["layout"] != "vertical" || cfg["evenFill"] != "#ffffff" || cfg["isMinor"] != false {
		t.Fatalf("unexpected serialization %v", cfg)
	}
}

func TestMinorGridUsesMinorTicks(t *testing.T) {
	scene := surface.NewScene(200, 300)
	g := NewMinor()
	s := threeTickScale()
	s.SetMinorTicksInterval(0.5)
	g.SetScale(s)
	g.SetContainer(scene.Root())
	g.SetParentBounds(bounds)
	_ = g.Draw()
	if n := surface.CountOps(g.line.Commands(), surface.PathOpMoveTo); n != 5 {
		t.Fatalf("expected 5 minor lines, got %d", n)
	}
}

func TestDisposeStopsListening(t *testing.T) {
	g, scene := newDrawnGrid(t, surface.SolidStroke(surface.ColorBlack, 1))
	s := g.Scale().(*scales.Linear)
	g.Dispose()
	if len(scene.Root().Children()) != 0 {
		t.Fatalf("expected layer disposed")
	}
	s.SetMaximum(10)
	if g.HasInvalidationState(invalidation.StateBounds) {
		t.Fatalf("disposed grid must not follow its scale")
	}
}
