package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/charts/pkg/surface"
)

// StrokeValue normalizes a stroke setting.
//
// String forms are "none", "color", "color opacity" and
// "thickness color [opacity]", for example "black 0.075" or "1px #000 0.5".
// Map forms use the keys color, thickness, opacity, dash, lineJoin and
// lineCap. A surface.Stroke is accepted unchanged.
func StrokeValue(v any) (surface.Stroke, error) {
	switch x := v.(type) {
	case nil:
		return surface.NoStroke, nil
	case surface.Stroke:
		return x, nil
	case string:
		return parseStrokeString(x)
	case map[string]any:
		return parseStrokeMap(x)
	}
	return surface.NoStroke, fmt.Errorf("invalid stroke %v (%T)", v, v)
}

func parseStrokeString(s string) (surface.Stroke, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || strings.EqualFold(fields[0], "none") {
		return surface.NoStroke, nil
	}
	thickness := 1.0
	if t, ok := parsePixels(fields[0]); ok {
		thickness = t
		fields = fields[1:]
		if len(fields) == 0 {
			return surface.NoStroke, fmt.Errorf("stroke %q has no color", s)
		}
	}
	c, err := ParseColor(fields[0])
	if err != nil {
		return surface.NoStroke, err
	}
	if len(fields) > 1 {
		o, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return surface.NoStroke, fmt.Errorf("invalid stroke opacity %q", fields[1])
		}
		c = c.WithOpacity(o)
	}
	return surface.Stroke{Color: c, Thickness: thickness}, nil
}

func parsePixels(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseStrokeMap(m map[string]any) (surface.Stroke, error) {
	out := surface.Stroke{Thickness: 1}
	if c, ok := m["color"]; ok {
		s, err := String(c)
		if err != nil {
			return surface.NoStroke, err
		}
		if out.Color, err = ParseColor(s); err != nil {
			return surface.NoStroke, err
		}
	} else {
		out.Color = surface.ColorBlack
	}
	if t, ok := m["thickness"]; ok {
		f, err := NonNegative(t)
		if err != nil {
			return surface.NoStroke, fmt.Errorf("thickness: %w", err)
		}
		out.Thickness = f
	}
	if o, ok := m["opacity"]; ok {
		f, err := FiniteFloat(o)
		if err != nil {
			return surface.NoStroke, fmt.Errorf("opacity: %w", err)
		}
		out.Color = out.Color.WithOpacity(f)
	}
	if d, ok := m["dash"]; ok {
		dash, err := parseDash(d)
		if err != nil {
			return surface.NoStroke, err
		}
		out.Dash = dash
	}
	if j, ok := m["lineJoin"]; ok {
		name, err := Enum("miter", "round", "bevel")(j)
		if err != nil {
			return surface.NoStroke, fmt.Errorf("lineJoin: %w", err)
		}
		out.Join = map[string]surface.LineJoin{"miter": surface.JoinMiter, "round": surface.JoinRound, "bevel": surface.JoinBevel}[name]
	}
	if c, ok := m["lineCap"]; ok {
		name, err := Enum("butt", "round", "square")(c)
		if err != nil {
			return surface.NoStroke, fmt.Errorf("lineCap: %w", err)
		}
		out.Cap = map[string]surface.LineCap{"butt": surface.CapButt, "round": surface.CapRound, "square": surface.CapSquare}[name]
	}
	return out, nil
}

func parseDash(v any) ([]float64, error) {
	switch x := v.(type) {
	case string:
		var out []float64
		for _, f := range strings.Fields(strings.ReplaceAll(x, ",", " ")) {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid dash %q", x)
			}
			out = append(out, n)
		}
		return out, nil
	case []any:
		out := make([]float64, 0, len(x))
		for _, e := range x {
			n, err := NonNegative(e)
			if err != nil {
				return nil, fmt.Errorf("dash: %w", err)
			}
			out = append(out, n)
		}
		return out, nil
	case []float64:
		return x, nil
	}
	return nil, fmt.Errorf("invalid dash %v (%T)", v, v)
}

// EncodeStroke serializes a stroke to the shortest form StrokeValue reads.
func EncodeStroke(s surface.Stroke) any {
	if s.IsNone() {
		return "none"
	}
	if len(s.Dash) == 0 && s.Join == surface.JoinMiter && s.Cap == surface.CapButt {
		out := strconv.FormatFloat(s.Thickness, 'f', -1, 64) + " " + FormatColor(s.Color)
		if s.Color.Alpha() != 0xFF {
			out += " " + strconv.FormatFloat(opacityOf(s.Color), 'f', -1, 64)
		}
		return out
	}
	m := map[string]any{
		"color":     FormatColor(s.Color),
		"thickness": s.Thickness,
		"opacity":   opacityOf(s.Color),
	}
	if len(s.Dash) > 0 {
		parts := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			parts[i] = strconv.FormatFloat(d, 'f', -1, 64)
		}
		m["dash"] = strings.Join(parts, " ")
	}
	if s.Join != surface.JoinMiter {
		m["lineJoin"] = s.Join.String()
	}
	if s.Cap != surface.CapButt {
		m["lineCap"] = s.Cap.String()
	}
	return m
}
