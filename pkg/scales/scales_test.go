package scales

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/surface"
)

func listen(src invalidation.SignalSource) *[]invalidation.Signal {
	var got []invalidation.Signal
	src.ListenSignals(func(e invalidation.SignalEvent) { got = append(got, e.Signal) })
	return &got
}

func TestLinearExplicitRange(t *testing.T) {
	s := NewLinear()
	s.SetMinimum(0)
	s.SetMaximum(2)
	s.SetTicksInterval(1)

	if got := s.Ticks(); !reflect.DeepEqual(got, []float64{0, 1, 2}) {
		t.Fatalf("unexpected ticks %v", got)
	}
	if r := s.Transform(1); r != 0.5 {
		t.Fatalf("expected 0.5, got %v", r)
	}
	s.SetInverted(true)
	if r := s.Transform(0); r != 1 {
		t.Fatalf("expected inverted ratio 1, got %v", r)
	}
	if v := s.InverseTransform(1); v != 0 {
		t.Fatalf("expected 0, got %v", v)
	}
}

func TestLinearSettersDispatchReapplication(t *testing.T) {
	s := NewLinear()
	got := listen(s)

	s.SetMinimum(1)
	s.SetMinimum(1)
	if len(*got) != 1 || (*got)[0] != invalidation.SignalNeedsReapplication {
		t.Fatalf("unexpected signals %v", *got)
	}
}

func TestLinearBatchedSetup(t *testing.T) {
	s := NewLinear()
	got := listen(s)

	err := s.SetupByJSON(map[string]any{
		"minimum":       0,
		"maximum":       10,
		"ticksInterval": 2,
		"inverted":      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("expected one dispatch, got %v", *got)
	}
	if len(s.Ticks()) != 6 {
		t.Fatalf("unexpected ticks %v", s.Ticks())
	}
	cfg := s.Serialize()
	if cfg["type"] != "linear" || cfg["maximum"] != 10.0 {
		t.Fatalf("unexpected serialization %v", cfg)
	}
}

func TestLinearAutoCalc(t *testing.T) {
	s := NewLinear()
	s.StartAutoCalc()
	s.ExtendDataRange(3, 17, math.NaN())
	if !s.FinishAutoCalc() {
		t.Fatalf("expected first resolution to report change")
	}
	if s.Minimum() > 3 || s.Maximum() < 17 {
		t.Fatalf("range [%v, %v] does not cover data", s.Minimum(), s.Maximum())
	}
	if math.Mod(s.Minimum(), s.Interval()) != 0 || math.Mod(s.Maximum(), s.Interval()) != 0 {
		t.Fatalf("expected auto bounds on ticks, got [%v, %v] step %v", s.Minimum(), s.Maximum(), s.Interval())
	}

	got := listen(s)
	s.StartAutoCalc()
	s.ExtendDataRange(3, 17)
	if s.FinishAutoCalc() {
		t.Fatalf("expected unchanged range")
	}
	if len(*got) != 0 {
		t.Fatalf("unchanged range must not dispatch")
	}

	s.StartAutoCalc()
	s.ExtendDataRange(-40, 17)
	if !s.FinishAutoCalc() {
		t.Fatalf("expected changed range")
	}
	if len(*got) != 1 || (*got)[0] != invalidation.SignalNeedsRecalculation {
		t.Fatalf("expected recalculation signal, got %v", *got)
	}
}

func TestLinearDegenerateRange(t *testing.T) {
	s := NewLinear()
	s.StartAutoCalc()
	s.ExtendDataRange(5)
	s.FinishAutoCalc()
	if s.Minimum() >= s.Maximum() {
		t.Fatalf("expected non-empty range, got [%v, %v]", s.Minimum(), s.Maximum())
	}
}

func TestLinearMinorTicks(t *testing.T) {
	s := NewLinear()
	s.SetMinimum(0)
	s.SetMaximum(1)
	s.SetTicksInterval(1)
	if got := len(s.MinorTicks()); got != 6 {
		t.Fatalf("expected 6 minor ticks, got %d", got)
	}
	s.SetMinorTicksInterval(0.5)
	if got := s.MinorTicks(); !reflect.DeepEqual(got, []float64{0, 0.5, 1}) {
		t.Fatalf("unexpected minor ticks %v", got)
	}
}

func TestNiceInterval(t *testing.T) {
	tests := []struct {
		span float64
		want float64
	}{
		{10, 2},
		{100, 20},
		{1, 0.2},
		{37, 10},
	}
	for _, tt := range tests {
		if got := niceInterval(tt.span, 5); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("span %v: expected %v, got %v", tt.span, tt.want, got)
		}
	}
}

func TestGeoTransformFitsBounds(t *testing.T) {
	s := NewGeo()
	s.SetPixelBounds(surface.RectFromLTWH(0, 0, 360, 180))

	x, y := s.Transform(-180, 90)
	if math.Abs(x) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Fatalf("expected top-left corner, got (%v, %v)", x, y)
	}
	x, y = s.Transform(180, -90)
	if math.Abs(x-360) > 1e-9 || math.Abs(y-180) > 1e-9 {
		t.Fatalf("expected bottom-right corner, got (%v, %v)", x, y)
	}
}

func TestGeoPreservesAspectRatio(t *testing.T) {
	s := NewGeo()
	s.SetPixelBounds(surface.RectFromLTWH(0, 0, 720, 180))
	x, _ := s.Transform(-180, 0)
	if math.Abs(x-180) > 1e-9 {
		t.Fatalf("expected centered extent starting at 180, got %v", x)
	}
}

func TestGeoTicksIncludeBounds(t *testing.T) {
	s := NewGeo()
	s.SetExtent(-10, 45, 0, 50)
	s.SetTicksInterval(20, 20)
	if got := s.XTicks(); !reflect.DeepEqual(got, []float64{-10, 0, 20, 40, 45}) {
		t.Fatalf("unexpected x ticks %v", got)
	}
	if got := s.YTicks(); !reflect.DeepEqual(got, []float64{0, 20, 40, 50}) {
		t.Fatalf("unexpected y ticks %v", got)
	}
}

func TestGeoSignals(t *testing.T) {
	s := NewGeo()
	got := listen(s)
	s.SetExtent(-20, 20, -10, 10)
	s.SetPixelBounds(surface.RectFromLTWH(0, 0, 100, 100))
	s.SetPixelBounds(surface.RectFromLTWH(0, 0, 100, 100))
	if len(*got) != 2 {
		t.Fatalf("expected 2 dispatches, got %v", *got)
	}
	if err := s.SetProjection("Mercator"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Projection().Name() != "mercator" {
		t.Fatalf("expected mercator")
	}
	if err := s.SetProjection("orthographic"); err == nil {
		t.Fatalf("expected unknown projection error")
	}
}

func TestProjections(t *testing.T) {
	p, err := ProjectionByName("sinusoidal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsLinear() {
		t.Fatalf("sinusoidal must not be linear")
	}
	x, _ := p.Project(90, 60)
	if math.Abs(x-45) > 1e-9 {
		t.Fatalf("expected 45, got %v", x)
	}

	m, _ := ProjectionByName("mercator")
	_, y := m.Project(0, 0)
	if math.Abs(y) > 1e-9 {
		t.Fatalf("expected equator at 0, got %v", y)
	}
	_, top := m.Project(0, 90)
	if math.IsInf(top, 0) {
		t.Fatalf("expected clipped pole")
	}
}
