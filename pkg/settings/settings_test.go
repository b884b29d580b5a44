package settings

import (
	"testing"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/surface"
)

type testOwner struct {
	invalidation.Base
	signals []invalidation.Signal
}

func newTestOwner() *testOwner {
	o := &testOwner{}
	o.Init(o, invalidation.StateAppearance|invalidation.StateBounds|invalidation.StateData)
	o.MarkConsistent(invalidation.StateAll)
	o.ListenSignals(func(e invalidation.SignalEvent) {
		o.signals = append(o.signals, e.Signal)
	})
	return o
}

func TestPropertySetInvalidatesOnlyOnChange(t *testing.T) {
	o := newTestOwner()
	p := NewProperty(o, "stroke", surface.SolidStroke(surface.ColorBlack, 1),
		invalidation.StateAppearance, invalidation.SignalNeedsRedraw)

	if p.Set(surface.SolidStroke(surface.ColorBlack, 1)) {
		t.Fatalf("expected equal value to be ignored")
	}
	if !o.IsConsistent() {
		t.Fatalf("expected owner untouched")
	}
	if !p.Set(surface.SolidStroke(surface.ColorRed, 2)) {
		t.Fatalf("expected change")
	}
	if !o.HasInvalidationState(invalidation.StateAppearance) {
		t.Fatalf("expected appearance dirty")
	}
	if len(o.signals) != 1 || o.signals[0] != invalidation.SignalNeedsRedraw {
		t.Fatalf("unexpected signals %v", o.signals)
	}
	if p.IsDefault() {
		t.Fatalf("expected non-default")
	}
	p.Reset()
	if !p.IsDefault() {
		t.Fatalf("expected default after reset")
	}
}

func TestPropertySetAnyWithoutNormalizer(t *testing.T) {
	p := NewProperty[float64](nil, "size", 4, invalidation.StateNone, invalidation.SignalNone)
	if err := p.SetAny("big"); err == nil {
		t.Fatalf("expected type error")
	}
	if err := p.SetAny(6.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Get() != 6 {
		t.Fatalf("expected 6, got %v", p.Get())
	}
}

func TestSetDefaultFollowsUntouchedValue(t *testing.T) {
	p := NewProperty[string](nil, "layout", "horizontal", invalidation.StateNone, invalidation.SignalNone)
	p.SetDefault("vertical")
	if p.Get() != "vertical" {
		t.Fatalf("expected value to follow default")
	}
	p.Set("horizontal")
	p.SetDefault("radial")
	if p.Get() != "horizontal" {
		t.Fatalf("explicit value must be kept")
	}
}

func TestTableSetupDispatchesOnce(t *testing.T) {
	o := newTestOwner()
	table := NewTable(o)
	stroke := Add(table, "stroke", surface.NoStroke, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, WithNormalizer(StrokeValue), WithEncoder(EncodeStroke))
	fill := Add(table, "fill", surface.NoFill, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, WithNormalizer(FillValue), WithEncoder(EncodeFill))
	offset := Add(table, "offset", 0.0, invalidation.StateBounds,
		invalidation.SignalBoundsChanged, WithNormalizer(Float))

	err := table.Setup(map[string]any{
		"stroke":  "2 red",
		"fill":    "#55f 0.3",
		"offset":  5,
		"unknown": true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.signals) != 1 {
		t.Fatalf("expected one consolidated signal, got %v", o.signals)
	}
	if o.signals[0] != invalidation.SignalNeedsRedraw|invalidation.SignalBoundsChanged {
		t.Fatalf("unexpected signal %v", o.signals[0])
	}
	if stroke.Get().Thickness != 2 || stroke.Get().Color != surface.ColorRed {
		t.Fatalf("unexpected stroke %+v", stroke.Get())
	}
	if fill.Get().Color.Alpha() != 77 {
		t.Fatalf("unexpected fill alpha %d", fill.Get().Color.Alpha())
	}
	if offset.Get() != 5 {
		t.Fatalf("unexpected offset %v", offset.Get())
	}

	out := table.Serialize(nil)
	if out["stroke"] != "2 #ff0000" {
		t.Fatalf("unexpected serialized stroke %v", out["stroke"])
	}
	if out["fill"] != "#5555ff 0.302" {
		t.Fatalf("unexpected serialized fill %v", out["fill"])
	}
}

func TestTableSetupJoinsErrors(t *testing.T) {
	o := newTestOwner()
	table := NewTable(o)
	Add(table, "stroke", surface.NoStroke, invalidation.StateAppearance,
		invalidation.SignalNeedsRedraw, WithNormalizer(StrokeValue))
	size := Add(table, "size", 0.0, invalidation.StateBounds,
		invalidation.SignalNeedsRedraw, WithNormalizer(Float))

	err := table.Setup(map[string]any{"stroke": "2 notacolor", "size": 3})
	if err == nil {
		t.Fatalf("expected error")
	}
	if size.Get() != 3 {
		t.Fatalf("valid keys must still apply")
	}
}

func TestStrokeValue(t *testing.T) {
	tests := []struct {
		in        any
		thickness float64
		color     surface.Color
	}{
		{"none", 0, 0},
		{"black 0.075", 1, surface.ColorBlack.WithOpacity(0.075)},
		{"1px #000 0.5", 1, surface.ColorBlack.WithOpacity(0.5)},
		{"#ccc", 1, surface.RGB(0xCC, 0xCC, 0xCC)},
		{map[string]any{"color": "blue", "thickness": 3}, 3, surface.ColorBlue},
	}
	for _, tt := range tests {
		got, err := StrokeValue(tt.in)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", tt.in, err)
		}
		if got.Thickness != tt.thickness || got.Color != tt.color {
			t.Fatalf("%v: got %+v", tt.in, got)
		}
	}

	s, err := StrokeValue(map[string]any{"color": "red", "dash": "5 3", "lineJoin": "round"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Dash) != 2 || s.Join != surface.JoinRound {
		t.Fatalf("unexpected stroke %+v", s)
	}
}

func TestFillValueGradient(t *testing.T) {
	f, err := FillValue(map[string]any{
		"keys":    []any{"#fff", "#000"},
		"angle":   -90,
		"opacity": 0.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Gradient == nil || len(f.Gradient.Keys) != 2 {
		t.Fatalf("expected two-key gradient, got %+v", f)
	}
	if f.Gradient.Keys[1].Offset != 1 || f.Gradient.Angle != -90 {
		t.Fatalf("unexpected gradient %+v", f.Gradient)
	}
	if f.Gradient.Keys[0].Color.Alpha() != 128 {
		t.Fatalf("expected gradient opacity applied")
	}

	back, err := FillValue(EncodeFill(f))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(f) {
		t.Fatalf("expected encoded gradient to read back equal")
	}
}

func TestPercent(t *testing.T) {
	l, err := Percent("30%")
	if err != nil || !l.Percent || l.Resolve(200) != 60 {
		t.Fatalf("unexpected %+v %v", l, err)
	}
	l, err = Percent(40)
	if err != nil || l.Percent || l.Resolve(200) != 40 {
		t.Fatalf("unexpected %+v %v", l, err)
	}
	if EncodeLength(PercentOf(30)) != "30%" {
		t.Fatalf("unexpected encoding")
	}
	if _, err := Percent("abc%"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEnum(t *testing.T) {
	n := Enum("horizontal", "vertical")
	got, err := n("VERTICAL")
	if err != nil || got != "vertical" {
		t.Fatalf("unexpected %q %v", got, err)
	}
	if _, err := n("radial"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]surface.Color{
		"#f00":            surface.ColorRed,
		"#00ff00":         surface.ColorGreen,
		"white":           surface.ColorWhite,
		"none":            surface.ColorTransparent,
		"rgb(0, 0, 255)":  surface.ColorBlue,
		"rgba(0,0,0,0.5)": surface.ColorBlack.WithOpacity(0.5),
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %#x, got %#x", in, uint32(want), uint32(got))
		}
	}
	if _, err := ParseColor("blurple"); err == nil {
		t.Fatalf("expected unknown color error")
	}
}

func TestProducerDispatchesEveryChange(t *testing.T) {
	b := invalidation.NewBase(invalidation.StateNone)
	var got []invalidation.Signal
	b.ListenSignals(func(e invalidation.SignalEvent) { got = append(got, e.Signal) })

	table := NewTable(Producer(b))
	minimum := Add(table, "minimum", 0.0, invalidation.StateNone, invalidation.SignalNeedsReapplication,
		WithNormalizer(OptionalFloat), WithEqual(FloatEqual), WithEncoder(EncodeOptionalFloat))

	minimum.Set(1)
	minimum.Set(2)
	minimum.Set(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(got))
	}
	if err := minimum.SetAny("auto"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Serialize(nil)["minimum"] != nil {
		t.Fatalf("expected auto minimum to serialize as nil")
	}
}
