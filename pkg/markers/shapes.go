package markers

import (
	"math"

	"github.com/go-drift/charts/pkg/surface"
)

// Marker types.
const (
	TypeCircle       = "circle"
	TypeSquare       = "square"
	TypeDiamond      = "diamond"
	TypeTriangleUp   = "triangle-up"
	TypeTriangleDown = "triangle-down"
	TypeStar5        = "star5"
	TypeCross        = "cross"
)

// Types lists the marker types in the order series are assigned them.
var Types = []string{
	TypeCircle,
	TypeSquare,
	TypeDiamond,
	TypeTriangleUp,
	TypeTriangleDown,
	TypeStar5,
	TypeCross,
}

// AutoType returns the marker type for the i-th series of a chart.
func AutoType(i int) string {
	if i < 0 {
		i = -i
	}
	return Types[i%len(Types)]
}

// shapeFunc outlines a marker of radius r centered on (cx, cy).
type shapeFunc func(p surface.Path, cx, cy, r float64)

var shapes = map[string]shapeFunc{
	TypeCircle:       circle,
	TypeSquare:       square,
	TypeDiamond:      diamond,
	TypeTriangleUp:   triangleUp,
	TypeTriangleDown: triangleDown,
	TypeStar5:        star5,
	TypeCross:        cross,
}

const circleSegments = 24

func circle(p surface.Path, cx, cy, r float64) {
	p.MoveTo(cx+r, cy)
	for i := 1; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		p.LineTo(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	p.Close()
}

func square(p surface.Path, cx, cy, r float64) {
	polygon(p, []surface.Offset{
		{X: cx - r, Y: cy - r},
		{X: cx + r, Y: cy - r},
		{X: cx + r, Y: cy + r},
		{X: cx - r, Y: cy + r},
	})
}

func diamond(p surface.Path, cx, cy, r float64) {
	polygon(p, []surface.Offset{
		{X: cx, Y: cy - r},
		{X: cx + r, Y: cy},
		{X: cx, Y: cy + r},
		{X: cx - r, Y: cy},
	})
}

func triangleUp(p surface.Path, cx, cy, r float64) {
	polygon(p, []surface.Offset{
		{X: cx, Y: cy - r},
		{X: cx + r, Y: cy + r},
		{X: cx - r, Y: cy + r},
	})
}

func triangleDown(p surface.Path, cx, cy, r float64) {
	polygon(p, []surface.Offset{
		{X: cx - r, Y: cy - r},
		{X: cx + r, Y: cy - r},
		{X: cx, Y: cy + r},
	})
}

func star5(p surface.Path, cx, cy, r float64) {
	const points = 5
	inner := r * 0.4
	pts := make([]surface.Offset, 0, 2*points)
	for i := range 2 * points {
		radius := r
		if i%2 == 1 {
			radius = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/points
		pts = append(pts, surface.Offset{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}
	polygon(p, pts)
}

func cross(p surface.Path, cx, cy, r float64) {
	w := r / 3
	polygon(p, []surface.Offset{
		{X: cx - w, Y: cy - r},
		{X: cx + w, Y: cy - r},
		{X: cx + w, Y: cy - w},
		{X: cx + r, Y: cy - w},
		{X: cx + r, Y: cy + w},
		{X: cx + w, Y: cy + w},
		{X: cx + w, Y: cy + r},
		{X: cx - w, Y: cy + r},
		{X: cx - w, Y: cy + w},
		{X: cx - r, Y: cy + w},
		{X: cx - r, Y: cy - w},
		{X: cx - w, Y: cy - w},
	})
}

func polygon(p surface.Path, pts []surface.Offset) {
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
			continue
		}
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()
}

// Anchor positions.
const (
	PositionCenter       = "center"
	PositionLeftTop      = "left-top"
	PositionLeftCenter   = "left-center"
	PositionLeftBottom   = "left-bottom"
	PositionCenterTop    = "center-top"
	PositionCenterBottom = "center-bottom"
	PositionRightTop     = "right-top"
	PositionRightCenter  = "right-center"
	PositionRightBottom  = "right-bottom"
)

var positions = []string{
	PositionCenter,
	PositionLeftTop,
	PositionLeftCenter,
	PositionLeftBottom,
	PositionCenterTop,
	PositionCenterBottom,
	PositionRightTop,
	PositionRightCenter,
	PositionRightBottom,
}

// anchorCenter returns the marker center when the anchor point of a marker
// of radius r sits at at.
func anchorCenter(position string, at surface.Offset, r float64) surface.Offset {
	c := at
	switch position {
	case PositionLeftTop, PositionLeftCenter, PositionLeftBottom:
		c.X += r
	case PositionRightTop, PositionRightCenter, PositionRightBottom:
		c.X -= r
	}
	switch position {
	case PositionLeftTop, PositionCenterTop, PositionRightTop:
		c.Y += r
	case PositionLeftBottom, PositionCenterBottom, PositionRightBottom:
		c.Y -= r
	}
	return c
}
