package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bool accepts booleans, "true"/"false" strings and numbers (non-zero is true).
func Bool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, fmt.Errorf("invalid boolean %q", x)
		}
		return b, nil
	}
	f, err := Float(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %v", v)
	}
	return f != 0, nil
}

// Float accepts any Go number, json.Number and numeric strings.
func Float(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("invalid number %v (%T)", v, v)
}

// FiniteFloat is Float rejecting NaN and infinities.
func FiniteFloat(v any) (float64, error) {
	f, err := Float(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %v is not finite", f)
	}
	return f, nil
}

// NonNegative is FiniteFloat rejecting negative values.
func NonNegative(v any) (float64, error) {
	f, err := FiniteFloat(v)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("number %v is negative", f)
	}
	return f, nil
}

// Int accepts whole numbers in any of the forms Float accepts.
func Int(v any) (int, error) {
	f, err := Float(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("number %v is not whole", f)
	}
	return int(f), nil
}

// String accepts strings and formats numbers and booleans.
func String(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	case bool, int, int64, float64:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("invalid string %v (%T)", v, v)
}

// Enum returns a normalizer accepting one of values, case-insensitively.
// The result is the canonical spelling from values.
func Enum(values ...string) Normalizer[string] {
	return func(v any) (string, error) {
		s, err := String(v)
		if err != nil {
			return "", err
		}
		s = strings.TrimSpace(s)
		for _, want := range values {
			if strings.EqualFold(s, want) {
				return want, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %s", s, strings.Join(values, ", "))
	}
}

// Length is an absolute pixel value or a percentage of a reference size.
type Length struct {
	Value   float64
	Percent bool
}

// Pixels returns an absolute length.
func Pixels(v float64) Length {
	return Length{Value: v}
}

// PercentOf returns a relative length.
func PercentOf(v float64) Length {
	return Length{Value: v, Percent: true}
}

// Resolve returns the length in pixels relative to total.
func (l Length) Resolve(total float64) float64 {
	if l.Percent {
		return total * l.Value / 100
	}
	return l.Value
}

// String formats the length as a number or "N%".
func (l Length) String() string {
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return s + "%"
	}
	return s
}

// EncodeLength serializes percentages as strings and pixels as numbers.
func EncodeLength(l Length) any {
	if l.Percent {
		return l.String()
	}
	return l.Value
}

// Percent accepts numbers (pixels) and strings such as "30%" or "30".
func Percent(v any) (Length, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if rest, found := strings.CutSuffix(s, "%"); found {
			f, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				return Length{}, fmt.Errorf("invalid percent %q", s)
			}
			return PercentOf(f), nil
		}
		s = strings.TrimSuffix(s, "px")
		v = s
	}
	f, err := FiniteFloat(v)
	if err != nil {
		return Length{}, err
	}
	return Pixels(f), nil
}
