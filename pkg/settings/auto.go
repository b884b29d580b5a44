package settings

import (
	"github.com/go-drift/charts/pkg/surface"
)

// Auto is the configuration value of a paint option resolved by the
// owning element, for example from a palette.
const Auto = "auto"

// AutoStroke normalizes a stroke that may be left to the owner. nil and
// "auto" yield nil; anything else is read with StrokeValue.
func AutoStroke(v any) (*surface.Stroke, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *surface.Stroke:
		return x, nil
	case string:
		if x == Auto {
			return nil, nil
		}
	}
	s, err := StrokeValue(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeAutoStroke serializes nil as "auto".
func EncodeAutoStroke(s *surface.Stroke) any {
	if s == nil {
		return Auto
	}
	return EncodeStroke(*s)
}

// AutoStrokeEqual compares optional strokes.
func AutoStrokeEqual(a, b *surface.Stroke) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// AutoFill normalizes a fill that may be left to the owner. nil and
// "auto" yield nil; anything else is read with FillValue.
func AutoFill(v any) (*surface.Fill, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *surface.Fill:
		return x, nil
	case string:
		if x == Auto {
			return nil, nil
		}
	}
	f, err := FillValue(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// EncodeAutoFill serializes nil as "auto".
func EncodeAutoFill(f *surface.Fill) any {
	if f == nil {
		return Auto
	}
	return EncodeFill(*f)
}

// AutoFillEqual compares optional fills.
func AutoFillEqual(a, b *surface.Fill) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// StrokeOr returns *s, or def when s is nil.
func StrokeOr(s *surface.Stroke, def surface.Stroke) surface.Stroke {
	if s == nil {
		return def
	}
	return *s
}

// FillOr returns *f, or def when f is nil.
func FillOr(f *surface.Fill, def surface.Fill) surface.Fill {
	if f == nil {
		return def
	}
	return *f
}
