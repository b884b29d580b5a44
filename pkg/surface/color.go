package surface

import "math"

// maxByte is the maximum value of a byte, used for color normalization.
const maxByte = 255.0

// Color is stored as ARGB (0xAARRGGBB).
type Color uint32

// RGBA constructs a Color from red, green, blue, alpha bytes.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// RGBAF returns normalized color components (0.0 to 1.0).
func (c Color) RGBAF() (r, g, b, a float64) {
	return float64(uint8(c>>16)) / maxByte,
		float64(uint8(c>>8)) / maxByte,
		float64(uint8(c)) / maxByte,
		float64(uint8(c>>24)) / maxByte
}

// Alpha returns the alpha byte.
func (c Color) Alpha() uint8 {
	return uint8(c >> 24)
}

// WithAlpha returns a copy of the color with the given alpha (0-255).
func (c Color) WithAlpha(a uint8) Color {
	return Color(uint32(a)<<24 | uint32(c)&0x00FFFFFF)
}

// WithOpacity returns a copy of the color with alpha set from an opacity in [0, 1].
func (c Color) WithOpacity(opacity float64) Color {
	opacity = math.Max(0, math.Min(1, opacity))
	return c.WithAlpha(uint8(math.Round(opacity * maxByte)))
}

// Darken returns the color with each channel scaled toward black by amount in [0, 1].
func (c Color) Darken(amount float64) Color {
	amount = math.Max(0, math.Min(1, amount))
	k := 1 - amount
	return RGBA(
		uint8(math.Round(float64(uint8(c>>16))*k)),
		uint8(math.Round(float64(uint8(c>>8))*k)),
		uint8(math.Round(float64(uint8(c))*k)),
		c.Alpha(),
	)
}

// Common colors.
var (
	ColorTransparent = Color(0x00000000)
	ColorBlack       = Color(0xFF000000)
	ColorWhite       = Color(0xFFFFFFFF)
	ColorRed         = Color(0xFFFF0000)
	ColorGreen       = Color(0xFF00FF00)
	ColorBlue        = Color(0xFF0000FF)
)
