// Package testing provides a stage testing harness for charts.
//
// # Quick Start
//
// Create a tester, pump a chart, and make assertions:
//
//	func TestMyChart(t *testing.T) {
//	    tester := charttest.NewStageTesterWithT(t)
//	    c := chart.NewCartesian()
//	    tester.PumpElement(c)
//
//	    // Change an option and check only the chart redraws
//	    c.SetBackground("red")
//	    if drawn := tester.Pump(); drawn != 1 {
//	        t.Errorf("drawn = %d", drawn)
//	    }
//
//	    // Find paths
//	    if !tester.Find(charttest.ByFillColor(surface.ColorRed)).Exists() {
//	        t.Error("expected a red background")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare scene snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/my_chart.snapshot.json")
//
// Update snapshots with:
//
//	CHARTS_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import charttest "github.com/go-drift/charts/pkg/testing"
package testing
