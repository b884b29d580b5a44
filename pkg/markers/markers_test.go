package markers

import (
	"testing"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/surface"
)

func newAttached(t *testing.T) (*Factory, *surface.Scene) {
	t.Helper()
	scene := surface.NewScene(100, 100)
	f := New()
	f.SetContainer(scene.Root())
	return f, scene
}

func nonEmpty(paths []surface.Path) int {
	n := 0
	for _, p := range paths {
		if len(p.Commands()) > 0 {
			n++
		}
	}
	return n
}

func TestSquareMarkerCommands(t *testing.T) {
	f, scene := newAttached(t)
	if err := f.SetType("square"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.SetAutoFill(surface.SolidFill(surface.ColorRed))
	m := f.Add(0, surface.Offset{X: 10, Y: 20})
	if err := f.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []surface.PathCommand{
		{Op: surface.PathOpMoveTo, X: 6, Y: 16},
		{Op: surface.PathOpLineTo, X: 14, Y: 16},
		{Op: surface.PathOpLineTo, X: 14, Y: 24},
		{Op: surface.PathOpLineTo, X: 6, Y: 24},
		{Op: surface.PathOpClose},
	}
	got := m.Path().Commands()
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("command %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if m.Path().Fill().Color != surface.ColorRed {
		t.Fatalf("expected auto fill, got %v", m.Path().Fill())
	}
	if len(scene.Paths()) != 1 {
		t.Fatalf("expected one path, got %d", len(scene.Paths()))
	}
	if !f.IsConsistent() {
		t.Fatalf("expected consistent factory, state %v", f.State())
	}
}

func TestExplicitFillOverridesAutoFill(t *testing.T) {
	f, _ := newAttached(t)
	f.SetAutoFill(surface.SolidFill(surface.ColorRed))
	m := f.Add(0, surface.Offset{})
	_ = f.Draw()

	if err := f.SetFill("#0000ff"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = f.Draw()
	if m.Path().Fill().Color != surface.ColorBlue {
		t.Fatalf("expected explicit fill, got %v", m.Path().Fill())
	}

	if err := f.SetFill("auto"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = f.Draw()
	if m.Path().Fill().Color != surface.ColorRed {
		t.Fatalf("expected auto fill again, got %v", m.Path().Fill())
	}
	if f.Serialize()["fill"] != "auto" {
		t.Fatalf("expected auto to serialize, got %v", f.Serialize()["fill"])
	}
}

func TestSettersRaiseRedraw(t *testing.T) {
	f := New()
	f.MarkConsistent(invalidation.StateAll)
	var signals []invalidation.Signal
	f.ListenSignals(func(e invalidation.SignalEvent) { signals = append(signals, e.Signal) })

	if err := f.SetSize(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetSize(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 1 || signals[0] != invalidation.SignalNeedsRedraw {
		t.Fatalf("expected one redraw signal, got %v", signals)
	}

	f.MarkConsistent(invalidation.StateAll)
	signals = nil
	err := f.SetupByJSON(map[string]any{"size": 10, "type": "diamond", "fill": "red", "enabled": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected one consolidated signal, got %v", signals)
	}
	if f.Size() != 10 || f.Type() != TypeDiamond || f.Fill() == nil {
		t.Fatalf("unexpected settings %v", f.Serialize())
	}
}

func TestUnknownTypeIsRejected(t *testing.T) {
	f := New()
	if err := f.SetType("hexagon"); err == nil {
		t.Fatalf("expected error")
	}
	if f.ResolvedType() != TypeCircle {
		t.Fatalf("expected circle, got %q", f.ResolvedType())
	}
}

func TestClearReusesPaths(t *testing.T) {
	f, scene := newAttached(t)
	for i := range 3 {
		f.Add(i, surface.Offset{X: float64(10 * i), Y: 10})
	}
	_ = f.Draw()
	if nonEmpty(scene.Paths()) != 3 {
		t.Fatalf("expected 3 drawn markers, got %d", nonEmpty(scene.Paths()))
	}

	f.Clear()
	if f.Len() != 0 || f.Marker(0) != nil {
		t.Fatalf("expected no markers after clear")
	}
	f.Add(0, surface.Offset{X: 50, Y: 50}).Draw()
	f.Add(1, surface.Offset{X: 60, Y: 50}).Draw()

	if len(scene.Paths()) != 3 {
		t.Fatalf("expected paths to be reused, got %d", len(scene.Paths()))
	}
	if nonEmpty(scene.Paths()) != 2 {
		t.Fatalf("expected 2 drawn markers, got %d", nonEmpty(scene.Paths()))
	}
}

func TestHoverFactoryFallsBackToOwner(t *testing.T) {
	f, _ := newAttached(t)
	hover := NewHover()
	if err := f.SetType("square"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.SetAutoFill(surface.SolidFill(surface.ColorRed))
	m := f.Add(0, surface.Offset{})
	_ = f.Draw()

	m.SetFactory(hover)
	m.Draw()
	b := m.Path().Bounds()
	if b.Width() != 2*DefaultHoverSize {
		t.Fatalf("expected hover size, got bounds %v", b)
	}
	if m.Path().Fill().Color != surface.ColorRed {
		t.Fatalf("expected owner fill, got %v", m.Path().Fill())
	}

	if err := hover.SetFill("blue"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Draw()
	if m.Path().Fill().Color != surface.ColorBlue {
		t.Fatalf("expected hover fill, got %v", m.Path().Fill())
	}

	m.SetFactory(nil)
	m.Draw()
	if m.Path().Bounds().Width() != 2*DefaultSize {
		t.Fatalf("expected normal size, got %v", m.Path().Bounds())
	}
}

func TestPositionAnchorsMarker(t *testing.T) {
	f, _ := newAttached(t)
	_ = f.SetType("square")
	if err := f.SetPosition("left-top"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := f.Add(0, surface.Offset{})
	_ = f.Draw()
	b := m.Path().Bounds()
	if b.Left != 0 || b.Top != 0 || b.Right != 8 || b.Bottom != 8 {
		t.Fatalf("expected marker below right of the point, got %v", b)
	}
}

func TestDisableRemovesLayer(t *testing.T) {
	f, scene := newAttached(t)
	f.Add(0, surface.Offset{X: 5, Y: 5})
	_ = f.Draw()
	if len(scene.Root().Children()) != 1 {
		t.Fatalf("expected attached layer")
	}

	f.SetEnabled(false)
	_ = f.Draw()
	if len(scene.Root().Children()) != 0 {
		t.Fatalf("expected layer removed")
	}

	f.SetEnabled(true)
	_ = f.Draw()
	if len(scene.Root().Children()) != 1 {
		t.Fatalf("expected layer reattached")
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		typ    string
		points int
	}{
		{TypeCircle, circleSegments},
		{TypeSquare, 4},
		{TypeDiamond, 4},
		{TypeTriangleUp, 3},
		{TypeTriangleDown, 3},
		{TypeStar5, 10},
		{TypeCross, 12},
	}
	scene := surface.NewScene(10, 10)
	for _, tt := range tests {
		p := scene.NewPath()
		shapes[tt.typ](p, 0, 0, 5)
		cmds := p.Commands()
		got := surface.CountOps(cmds, surface.PathOpMoveTo) + surface.CountOps(cmds, surface.PathOpLineTo)
		if got != tt.points {
			t.Fatalf("%s: expected %d points, got %d", tt.typ, tt.points, got)
		}
		if b := p.Bounds(); b.Width() > 10.0001 || b.Height() > 10.0001 {
			t.Fatalf("%s: shape exceeds its radius: %v", tt.typ, b)
		}
	}
	if AutoType(len(Types)+1) != TypeSquare {
		t.Fatalf("expected auto types to cycle")
	}
}
