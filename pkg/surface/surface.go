// Package surface defines the vector drawing surface charts draw onto and
// provides Scene, an in-memory retained implementation.
//
// Elements never read pixels back. They create layers and paths, attach them
// to a parent, and set stroke, fill and transforms. Scene records the
// resulting tree so it can be inspected in tests or handed to a rasterizer.
package surface

// Element is a node of the drawing surface tree.
type Element interface {
	// Surface returns the surface that created the element.
	Surface() Surface
	// Parent returns the layer this element is attached to, or nil.
	Parent() Layer
	// SetParent attaches the element to parent. Passing nil detaches it.
	SetParent(parent Layer)
	// Remove detaches the element from its parent.
	Remove()
	// ZIndex returns the stacking order among siblings.
	ZIndex() float64
	// SetZIndex sets the stacking order among siblings. Ties keep attach order.
	SetZIndex(z float64)
	// Dispose detaches the element and releases it. Layers dispose their
	// children as well.
	Dispose()
	// IsDisposed reports whether Dispose was called.
	IsDisposed() bool
}

// Layer groups elements under a common transform.
type Layer interface {
	Element
	// Transform returns the layer transform.
	Transform() Matrix
	// SetTransform replaces the layer transform.
	SetTransform(m Matrix)
	// Children returns the attached children in paint order.
	Children() []Element
}

// Path is a stroked and filled outline.
type Path interface {
	Element
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Close()
	// Clear removes all commands.
	Clear()
	// Commands returns a copy of the recorded commands.
	Commands() []PathCommand
	// Bounds returns the bounding box of the recorded points.
	Bounds() Rect
	Stroke() Stroke
	SetStroke(s Stroke)
	Fill() Fill
	SetFill(f Fill)
}

// Surface creates drawing primitives.
type Surface interface {
	// Root returns the top-level layer.
	Root() Layer
	// NewLayer creates a detached layer.
	NewLayer() Layer
	// NewPath creates a detached empty path.
	NewPath() Path
	// Size returns the surface size in pixels.
	Size() Size
}
