package surface

import "fmt"

// LineJoin describes how stroke corners are drawn.
type LineJoin int

const (
	JoinMiter LineJoin = iota // Sharp corner (default)
	JoinRound                 // Rounded corner
	JoinBevel                 // Flattened corner
)

// String returns a human-readable representation of the line join.
func (j LineJoin) String() string {
	switch j {
	case JoinMiter:
		return "miter"
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return fmt.Sprintf("LineJoin(%d)", int(j))
	}
}

// LineCap describes how stroke endpoints are drawn.
type LineCap int

const (
	CapButt   LineCap = iota // Flat edge at endpoint (default)
	CapRound                 // Semicircle at endpoint
	CapSquare                // Square extending past endpoint
)

// String returns a human-readable representation of the line cap.
func (c LineCap) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return fmt.Sprintf("LineCap(%d)", int(c))
	}
}

// Stroke describes how a path outline is drawn.
// The zero Stroke draws nothing.
type Stroke struct {
	Color     Color
	Thickness float64
	Dash      []float64 // Alternating on/off lengths; nil = solid
	Join      LineJoin
	Cap       LineCap
}

// NoStroke is the stroke that draws nothing.
var NoStroke = Stroke{}

// SolidStroke returns a solid stroke of the given color and thickness.
func SolidStroke(color Color, thickness float64) Stroke {
	return Stroke{Color: color, Thickness: thickness}
}

// IsNone reports whether the stroke draws nothing.
func (s Stroke) IsNone() bool {
	return s.Thickness <= 0 || s.Color.Alpha() == 0
}

// Equal reports whether two strokes draw identically.
func (s Stroke) Equal(other Stroke) bool {
	if s.Color != other.Color || s.Thickness != other.Thickness || s.Join != other.Join || s.Cap != other.Cap {
		return false
	}
	if len(s.Dash) != len(other.Dash) {
		return false
	}
	for i := range s.Dash {
		if s.Dash[i] != other.Dash[i] {
			return false
		}
	}
	return true
}

// GradientKey is one color stop of a linear gradient.
type GradientKey struct {
	Offset float64 // Position in [0, 1]
	Color  Color
}

// LinearGradient fills along an angle in degrees (0 = left to right,
// -90 = bottom to top) across the filled shape's bounds.
type LinearGradient struct {
	Keys  []GradientKey
	Angle float64
}

// Fill describes how a path interior is painted.
// The zero Fill paints nothing.
type Fill struct {
	Color    Color
	Gradient *LinearGradient // If set, overrides Color
}

// NoFill is the fill that paints nothing.
var NoFill = Fill{}

// SolidFill returns a solid fill.
func SolidFill(color Color) Fill {
	return Fill{Color: color}
}

// IsNone reports whether the fill paints nothing.
func (f Fill) IsNone() bool {
	if f.Gradient != nil {
		return len(f.Gradient.Keys) == 0
	}
	return f.Color.Alpha() == 0
}

// Equal reports whether two fills paint identically.
func (f Fill) Equal(other Fill) bool {
	if f.Color != other.Color {
		return false
	}
	if (f.Gradient == nil) != (other.Gradient == nil) {
		return false
	}
	if f.Gradient == nil {
		return true
	}
	if f.Gradient.Angle != other.Gradient.Angle || len(f.Gradient.Keys) != len(other.Gradient.Keys) {
		return false
	}
	for i := range f.Gradient.Keys {
		if f.Gradient.Keys[i] != other.Gradient.Keys[i] {
			return false
		}
	}
	return true
}
