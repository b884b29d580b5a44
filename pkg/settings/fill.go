package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/charts/pkg/surface"
)

// FillValue normalizes a fill setting.
//
// String forms are "none", "color" and "color opacity", for example
// "#55f 0.3". Map forms are {color, opacity} for solid fills and
// {keys, angle, opacity} for linear gradients. Gradient keys are color
// strings spread evenly, or maps with offset, color and opacity.
func FillValue(v any) (surface.Fill, error) {
	switch x := v.(type) {
	case nil:
		return surface.NoFill, nil
	case surface.Fill:
		return x, nil
	case string:
		return parseFillString(x)
	case map[string]any:
		if keys, ok := x["keys"]; ok {
			return parseGradient(keys, x)
		}
		return parseSolidMap(x)
	}
	return surface.NoFill, fmt.Errorf("invalid fill %v (%T)", v, v)
}

func parseFillString(s string) (surface.Fill, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || strings.EqualFold(fields[0], "none") {
		return surface.NoFill, nil
	}
	c, err := ParseColor(fields[0])
	if err != nil {
		return surface.NoFill, err
	}
	if len(fields) > 1 {
		o, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return surface.NoFill, fmt.Errorf("invalid fill opacity %q", fields[1])
		}
		c = c.WithOpacity(o)
	}
	return surface.SolidFill(c), nil
}

func parseSolidMap(m map[string]any) (surface.Fill, error) {
	s, err := String(m["color"])
	if err != nil {
		return surface.NoFill, fmt.Errorf("color: %w", err)
	}
	c, err := ParseColor(s)
	if err != nil {
		return surface.NoFill, err
	}
	if o, ok := m["opacity"]; ok {
		f, err := FiniteFloat(o)
		if err != nil {
			return surface.NoFill, fmt.Errorf("opacity: %w", err)
		}
		c = c.WithOpacity(f)
	}
	return surface.SolidFill(c), nil
}

func parseGradient(keys any, m map[string]any) (surface.Fill, error) {
	list, ok := keys.([]any)
	if !ok {
		return surface.NoFill, fmt.Errorf("gradient keys must be a list, got %T", keys)
	}
	opacity := 1.0
	if o, ok := m["opacity"]; ok {
		f, err := FiniteFloat(o)
		if err != nil {
			return surface.NoFill, fmt.Errorf("opacity: %w", err)
		}
		opacity = f
	}
	g := &surface.LinearGradient{Keys: make([]surface.GradientKey, 0, len(list))}
	if a, ok := m["angle"]; ok {
		f, err := FiniteFloat(a)
		if err != nil {
			return surface.NoFill, fmt.Errorf("angle: %w", err)
		}
		g.Angle = f
	}
	for i, k := range list {
		key, err := parseGradientKey(k, i, len(list), opacity)
		if err != nil {
			return surface.NoFill, err
		}
		g.Keys = append(g.Keys, key)
	}
	return surface.Fill{Gradient: g}, nil
}

func parseGradientKey(v any, i, n int, opacity float64) (surface.GradientKey, error) {
	offset := 0.0
	if n > 1 {
		offset = float64(i) / float64(n-1)
	}
	switch x := v.(type) {
	case string:
		f, err := parseFillString(x)
		if err != nil {
			return surface.GradientKey{}, err
		}
		c := f.Color
		if !strings.Contains(strings.TrimSpace(x), " ") {
			c = c.WithOpacity(opacity)
		}
		return surface.GradientKey{Offset: offset, Color: c}, nil
	case map[string]any:
		if o, ok := x["offset"]; ok {
			f, err := FiniteFloat(o)
			if err != nil {
				return surface.GradientKey{}, fmt.Errorf("offset: %w", err)
			}
			offset = f
		}
		if _, ok := x["opacity"]; !ok {
			x = mergeOpacity(x, opacity)
		}
		f, err := parseSolidMap(x)
		if err != nil {
			return surface.GradientKey{}, err
		}
		return surface.GradientKey{Offset: offset, Color: f.Color}, nil
	}
	return surface.GradientKey{}, fmt.Errorf("invalid gradient key %v (%T)", v, v)
}

func mergeOpacity(m map[string]any, opacity float64) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["opacity"] = opacity
	return out
}

// EncodeFill serializes a fill to a form FillValue reads.
func EncodeFill(f surface.Fill) any {
	if f.IsNone() {
		return "none"
	}
	if f.Gradient == nil {
		out := FormatColor(f.Color)
		if f.Color.Alpha() != 0xFF {
			out += " " + strconv.FormatFloat(opacityOf(f.Color), 'f', -1, 64)
		}
		return out
	}
	keys := make([]any, len(f.Gradient.Keys))
	for i, k := range f.Gradient.Keys {
		keys[i] = map[string]any{
			"offset":  k.Offset,
			"color":   FormatColor(k.Color),
			"opacity": opacityOf(k.Color),
		}
	}
	return map[string]any{
		"keys":  keys,
		"angle": f.Gradient.Angle,
	}
}
