package chart

import (
	"fmt"

	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Padding is the space between the chart bounds and the plot, in pixels.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding returns the same padding on every side.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// PaddingValue accepts a Padding, a number (every side), a list of one,
// two or four numbers in CSS order, or a map with the keys top, right,
// bottom and left.
func PaddingValue(v any) (Padding, error) {
	switch x := v.(type) {
	case Padding:
		return x, nil
	case []any:
		nums := make([]float64, len(x))
		for i, e := range x {
			f, err := settings.NonNegative(e)
			if err != nil {
				return Padding{}, fmt.Errorf("padding[%d]: %w", i, err)
			}
			nums[i] = f
		}
		switch len(nums) {
		case 1:
			return UniformPadding(nums[0]), nil
		case 2:
			return Padding{Top: nums[0], Right: nums[1], Bottom: nums[0], Left: nums[1]}, nil
		case 4:
			return Padding{Top: nums[0], Right: nums[1], Bottom: nums[2], Left: nums[3]}, nil
		}
		return Padding{}, fmt.Errorf("padding needs 1, 2 or 4 values, got %d", len(nums))
	case map[string]any:
		var p Padding
		for key, dst := range map[string]*float64{"top": &p.Top, "right": &p.Right, "bottom": &p.Bottom, "left": &p.Left} {
			e, ok := x[key]
			if !ok {
				continue
			}
			f, err := settings.NonNegative(e)
			if err != nil {
				return Padding{}, fmt.Errorf("padding %s: %w", key, err)
			}
			*dst = f
		}
		return p, nil
	}
	f, err := settings.NonNegative(v)
	if err != nil {
		return Padding{}, err
	}
	return UniformPadding(f), nil
}

func encodePadding(p Padding) any {
	return []any{p.Top, p.Right, p.Bottom, p.Left}
}

func paletteValue(v any) ([]surface.Color, error) {
	switch x := v.(type) {
	case []surface.Color:
		return x, nil
	case []string:
		out := make([]surface.Color, len(x))
		for i, s := range x {
			c, err := settings.ParseColor(s)
			if err != nil {
				return nil, fmt.Errorf("palette[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case []any:
		out := make([]surface.Color, len(x))
		for i, e := range x {
			s, err := settings.String(e)
			if err != nil {
				return nil, fmt.Errorf("palette[%d]: %w", i, err)
			}
			if out[i], err = settings.ParseColor(s); err != nil {
				return nil, fmt.Errorf("palette[%d]: %w", i, err)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("palette must be a list of colors, got %T", v)
}

func encodePalette(colors []surface.Color) any {
	out := make([]any, len(colors))
	for i, c := range colors {
		out[i] = settings.FormatColor(c)
	}
	return out
}
