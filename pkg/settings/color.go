package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/go-drift/charts/pkg/surface"
)

// ParseColor accepts "#rgb", "#rrggbb", "#aarrggbb", "rgb(r,g,b)",
// "rgba(r,g,b,a)", "none", "transparent" and CSS color names.
func ParseColor(s string) (surface.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return surface.ColorTransparent, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex)
	}
	if args, ok := cutFunc(s, "rgba"); ok {
		return parseRGB(args, true)
	}
	if args, ok := cutFunc(s, "rgb"); ok {
		return parseRGB(args, false)
	}
	if c, ok := colornames.Map[s]; ok {
		return surface.RGBA(c.R, c.G, c.B, c.A), nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func cutFunc(s, name string) (string, bool) {
	rest, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, ")")
}

func parseHex(hex string) (surface.Color, error) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		fallthrough
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color #%s", hex)
		}
		return surface.Color(0xFF000000 | uint32(v)), nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color #%s", hex)
		}
		return surface.Color(uint32(v)), nil
	}
	return 0, fmt.Errorf("invalid color #%s", hex)
}

func parseRGB(args string, alpha bool) (surface.Color, error) {
	parts := strings.Split(args, ",")
	want := 3
	if alpha {
		want = 4
	}
	if len(parts) != want {
		return 0, fmt.Errorf("invalid color rgb(%s)", args)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return 0, fmt.Errorf("invalid color channel %q", parts[i])
		}
		ch[i] = uint8(n)
	}
	c := surface.RGB(ch[0], ch[1], ch[2])
	if alpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid alpha %q", parts[3])
		}
		c = c.WithOpacity(a)
	}
	return c, nil
}

// FormatColor returns "#rrggbb", dropping alpha.
func FormatColor(c surface.Color) string {
	return fmt.Sprintf("#%06x", uint32(c)&0x00FFFFFF)
}

func opacityOf(c surface.Color) float64 {
	return math.Round(float64(c.Alpha())/255*1000) / 1000
}
