package surface

import (
	"math"
	"slices"
)

// Scene is a retained in-memory Surface.
//
// Every mutating call on the scene or on one of its elements increments an
// operation counter. A draw pass that has nothing to do leaves Ops unchanged.
type Scene struct {
	size Size
	root *sceneLayer
	ops  int
	seq  int
}

// NewScene creates an empty scene of the given size.
func NewScene(width, height float64) *Scene {
	s := &Scene{size: Size{Width: width, Height: height}}
	s.root = &sceneLayer{transform: Identity()}
	s.root.node = node{scene: s, self: s.root}
	return s
}

// Root returns the top-level layer.
func (s *Scene) Root() Layer {
	return s.root
}

// NewLayer creates a detached layer.
func (s *Scene) NewLayer() Layer {
	s.ops++
	l := &sceneLayer{transform: Identity()}
	l.node = node{scene: s, self: l}
	return l
}

// NewPath creates a detached empty path.
func (s *Scene) NewPath() Path {
	s.ops++
	p := &scenePath{}
	p.node = node{scene: s, self: p}
	return p
}

// Size returns the scene size.
func (s *Scene) Size() Size {
	return s.size
}

// Resize changes the scene size.
func (s *Scene) Resize(width, height float64) {
	s.ops++
	s.size = Size{Width: width, Height: height}
}

// Ops returns the number of mutating calls made on the scene so far.
func (s *Scene) Ops() int {
	return s.ops
}

// Walk visits every element reachable from the root in paint order.
// The matrix passed to visit is the accumulated transform of the
// element's ancestors including its own when it is a layer.
func (s *Scene) Walk(visit func(e Element, m Matrix)) {
	walkLayer(s.root, Identity(), visit)
}

func walkLayer(l *sceneLayer, parent Matrix, visit func(Element, Matrix)) {
	m := parent.Multiply(l.transform)
	for _, child := range l.Children() {
		switch c := child.(type) {
		case *sceneLayer:
			visit(c, m.Multiply(c.transform))
			walkLayer(c, m, visit)
		default:
			visit(c, m)
		}
	}
}

// Paths returns every reachable path in paint order.
func (s *Scene) Paths() []Path {
	var out []Path
	s.Walk(func(e Element, _ Matrix) {
		if p, ok := e.(Path); ok {
			out = append(out, p)
		}
	})
	return out
}

type node struct {
	scene    *Scene
	self     Element
	parent   *sceneLayer
	z        float64
	order    int
	disposed bool
}

func (n *node) Surface() Surface {
	return n.scene
}

func (n *node) Parent() Layer {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) SetParent(parent Layer) {
	n.scene.ops++
	if n.parent != nil {
		n.parent.detach(n.self)
		n.parent = nil
	}
	if parent == nil {
		return
	}
	l, ok := parent.(*sceneLayer)
	if !ok || l.scene != n.scene {
		panic("surface: parent layer belongs to another surface")
	}
	n.scene.seq++
	n.order = n.scene.seq
	n.parent = l
	l.children = append(l.children, n.self)
}

func (n *node) Remove() {
	n.SetParent(nil)
}

func (n *node) ZIndex() float64 {
	return n.z
}

func (n *node) SetZIndex(z float64) {
	n.scene.ops++
	n.z = z
}

func (n *node) IsDisposed() bool {
	return n.disposed
}

type sceneLayer struct {
	node
	transform Matrix
	children  []Element
}

func (l *sceneLayer) Transform() Matrix {
	return l.transform
}

func (l *sceneLayer) SetTransform(m Matrix) {
	l.scene.ops++
	l.transform = m
}

func (l *sceneLayer) Children() []Element {
	out := slices.Clone(l.children)
	slices.SortStableFunc(out, func(a, b Element) int {
		za, zb := a.ZIndex(), b.ZIndex()
		switch {
		case za < zb:
			return -1
		case za > zb:
			return 1
		}
		return orderOf(a) - orderOf(b)
	})
	return out
}

func (l *sceneLayer) detach(e Element) {
	if i := slices.Index(l.children, e); i >= 0 {
		l.children = slices.Delete(l.children, i, i+1)
	}
}

func (l *sceneLayer) Dispose() {
	if l.disposed {
		return
	}
	for _, child := range slices.Clone(l.children) {
		child.Dispose()
	}
	l.Remove()
	l.disposed = true
}

func orderOf(e Element) int {
	switch v := e.(type) {
	case *sceneLayer:
		return v.order
	case *scenePath:
		return v.order
	}
	return 0
}

type scenePath struct {
	node
	cmds   []PathCommand
	stroke Stroke
	fill   Fill
}

func (p *scenePath) MoveTo(x, y float64) {
	p.scene.ops++
	p.cmds = append(p.cmds, PathCommand{Op: PathOpMoveTo, X: x, Y: y})
}

func (p *scenePath) LineTo(x, y float64) {
	p.scene.ops++
	p.cmds = append(p.cmds, PathCommand{Op: PathOpLineTo, X: x, Y: y})
}

func (p *scenePath) Close() {
	p.scene.ops++
	p.cmds = append(p.cmds, PathCommand{Op: PathOpClose})
}

func (p *scenePath) Clear() {
	p.scene.ops++
	p.cmds = p.cmds[:0]
}

func (p *scenePath) Commands() []PathCommand {
	return slices.Clone(p.cmds)
}

func (p *scenePath) Bounds() Rect {
	r := Rect{Left: math.Inf(1), Top: math.Inf(1), Right: math.Inf(-1), Bottom: math.Inf(-1)}
	empty := true
	for _, c := range p.cmds {
		if c.Op == PathOpClose {
			continue
		}
		empty = false
		r.Left = math.Min(r.Left, c.X)
		r.Top = math.Min(r.Top, c.Y)
		r.Right = math.Max(r.Right, c.X)
		r.Bottom = math.Max(r.Bottom, c.Y)
	}
	if empty {
		return Rect{}
	}
	return r
}

func (p *scenePath) Stroke() Stroke {
	return p.stroke
}

func (p *scenePath) SetStroke(s Stroke) {
	p.scene.ops++
	p.stroke = s
}

func (p *scenePath) Fill() Fill {
	return p.fill
}

func (p *scenePath) SetFill(f Fill) {
	p.scene.ops++
	p.fill = f
}

func (p *scenePath) Dispose() {
	if p.disposed {
		return
	}
	p.Remove()
	p.cmds = nil
	p.disposed = true
}
