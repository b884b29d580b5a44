package testing

import (
	"testing"

	"github.com/go-drift/charts/pkg/chart"
	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/series"
	"github.com/go-drift/charts/pkg/surface"
)

func newChart(t *testing.T) *chart.Chart {
	t.Helper()
	c := chart.NewCartesian()
	if _, err := c.NewSeries("", series.RangePoint(0, 1, 3), series.RangePoint(1, 2, 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestStageTester_PumpElement(t *testing.T) {
	tester := NewStageTesterWithT(t)
	c := newChart(t)

	if drawn := tester.PumpElement(c); drawn != 1 {
		t.Fatalf("drawn = %d, want 1", drawn)
	}
	if !c.IsConsistent() {
		t.Fatalf("chart state = %v", c.State())
	}
	if tester.Pumps() != 1 {
		t.Errorf("pumps = %d, want 1", tester.Pumps())
	}
}

func TestStageTester_IdlePumpTouchesNothing(t *testing.T) {
	tester := NewStageTesterWithT(t)
	tester.PumpElement(newChart(t))

	ops := tester.Ops()
	if drawn := tester.Pump(); drawn != 0 {
		t.Fatalf("drawn = %d, want 0", drawn)
	}
	if tester.Ops() != ops {
		t.Fatalf("ops = %d, want %d", tester.Ops(), ops)
	}
}

func TestStageTester_OptionChangeRedraws(t *testing.T) {
	tester := NewStageTesterWithT(t)
	c := newChart(t)
	tester.PumpElement(c)

	if err := c.SetBackground("red"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tester.PumpAndSettle(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tester.Find(ByFillColor(surface.ColorRed)).Exists() {
		t.Error("expected a red background path")
	}
}

func TestStageTester_SetSize(t *testing.T) {
	tester := NewStageTesterWithT(t)
	c := newChart(t)
	tester.PumpElement(c)

	tester.SetSize(200, 100)
	tester.Pump()
	b, _ := c.ParentBounds()
	if want := surface.RectFromLTWH(0, 0, 200, 100); !b.Equal(want) {
		t.Fatalf("bounds = %+v, want %+v", b, want)
	}
}

func TestStageTester_RecordsReportedErrors(t *testing.T) {
	tester := NewStageTesterWithT(t)
	errors.Report(&errors.ChartError{Op: "test", Kind: errors.KindRender})
	errors.Warn("test", errors.WarnNotFound, "thing")

	if len(tester.Errors()) != 1 {
		t.Errorf("errors = %d, want 1", len(tester.Errors()))
	}
	if len(tester.Warnings()) != 1 {
		t.Errorf("warnings = %d, want 1", len(tester.Warnings()))
	}
	if len(tester.Panics()) != 0 {
		t.Errorf("panics = %d, want 0", len(tester.Panics()))
	}
}

func TestStageTester_CleanupRestoresHandler(t *testing.T) {
	tester := NewStageTester()
	c := newChart(t)
	tester.PumpElement(c)
	tester.Cleanup()

	if !c.IsDisposed() {
		t.Error("expected the chart disposed")
	}
	errors.Report(&errors.ChartError{Op: "test"})
	if len(tester.Errors()) != 0 {
		t.Error("expected reports after cleanup to bypass the tester")
	}
}
