package surface

import "testing"

func TestSceneCountsMutations(t *testing.T) {
	s := NewScene(100, 50)
	if s.Ops() != 0 {
		t.Fatalf("expected fresh scene to have 0 ops, got %d", s.Ops())
	}

	layer := s.NewLayer()
	layer.SetParent(s.Root())
	path := s.NewPath()
	path.SetParent(layer)
	path.MoveTo(0, 0)
	path.LineTo(10, 0)
	path.SetStroke(SolidStroke(ColorBlack, 1))

	if got := s.Ops(); got != 7 {
		t.Fatalf("expected 7 ops, got %d", got)
	}

	_ = path.Commands()
	_ = layer.Children()
	_ = s.Paths()
	if got := s.Ops(); got != 7 {
		t.Fatalf("reads must not count as ops, got %d", got)
	}
}

func TestLayerChildrenPaintOrder(t *testing.T) {
	s := NewScene(10, 10)
	a := s.NewPath()
	b := s.NewPath()
	c := s.NewPath()
	a.SetParent(s.Root())
	b.SetParent(s.Root())
	c.SetParent(s.Root())
	a.SetZIndex(1)

	children := s.Root().Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	if children[0] != b || children[1] != c || children[2] != a {
		t.Fatalf("expected order b, c, a")
	}
}

func TestReparentAndDispose(t *testing.T) {
	s := NewScene(10, 10)
	first := s.NewLayer()
	second := s.NewLayer()
	first.SetParent(s.Root())
	second.SetParent(s.Root())

	p := s.NewPath()
	p.SetParent(first)
	p.SetParent(second)
	if len(first.Children()) != 0 {
		t.Fatalf("expected path detached from first layer")
	}
	if p.Parent() != second {
		t.Fatalf("expected path parent to be second layer")
	}

	second.Dispose()
	if !p.IsDisposed() {
		t.Fatalf("expected layer dispose to dispose children")
	}
	if len(s.Root().Children()) != 1 {
		t.Fatalf("expected disposed layer removed from root")
	}
}

func TestWalkAccumulatesTransforms(t *testing.T) {
	s := NewScene(10, 10)
	outer := s.NewLayer()
	outer.SetParent(s.Root())
	outer.SetTransform(TranslateMatrix(5, 0))
	inner := s.NewLayer()
	inner.SetParent(outer)
	inner.SetTransform(TranslateMatrix(0, 3))
	p := s.NewPath()
	p.SetParent(inner)

	var found bool
	s.Walk(func(e Element, m Matrix) {
		if e != p {
			return
		}
		found = true
		x, y := m.Apply(1, 1)
		if x != 6 || y != 4 {
			t.Fatalf("expected (6, 4), got (%v, %v)", x, y)
		}
	})
	if !found {
		t.Fatalf("expected walk to reach path")
	}
}

func TestPathBounds(t *testing.T) {
	s := NewScene(10, 10)
	p := s.NewPath()
	if !p.Bounds().IsEmpty() {
		t.Fatalf("expected empty bounds for empty path")
	}
	p.MoveTo(2, 8)
	p.LineTo(6, 1)
	p.Close()
	want := Rect{Left: 2, Top: 1, Right: 6, Bottom: 8}
	if got := p.Bounds(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestForeignParentPanics(t *testing.T) {
	a := NewScene(1, 1)
	b := NewScene(1, 1)
	p := a.NewPath()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for foreign parent")
		}
	}()
	p.SetParent(b.Root())
}

func TestStrokeAndFillNone(t *testing.T) {
	if !NoStroke.IsNone() || !NoFill.IsNone() {
		t.Fatalf("expected zero stroke and fill to draw nothing")
	}
	if SolidStroke(ColorBlack, 1).IsNone() {
		t.Fatalf("expected solid stroke to draw")
	}
	f := Fill{Gradient: &LinearGradient{Keys: []GradientKey{{Offset: 0, Color: ColorRed}}}}
	if f.IsNone() {
		t.Fatalf("expected gradient fill to paint")
	}
	if !f.Equal(Fill{Gradient: &LinearGradient{Keys: []GradientKey{{Offset: 0, Color: ColorRed}}}}) {
		t.Fatalf("expected equal gradients")
	}
}

func TestColorWithOpacity(t *testing.T) {
	c := ColorBlack.WithOpacity(0.5)
	if c.Alpha() != 128 {
		t.Fatalf("expected alpha 128, got %d", c.Alpha())
	}
	if c&0x00FFFFFF != 0 {
		t.Fatalf("expected rgb preserved")
	}
}
