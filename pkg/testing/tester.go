package testing

import (
	stderrors "errors"
	"testing"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/stage"
	"github.com/go-drift/charts/pkg/surface"
)

const (
	// DefaultTestWidth is the default width of the test stage.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default height of the test stage.
	DefaultTestHeight = 600
	// maxSettlePasses bounds PumpAndSettle.
	maxSettlePasses = 16
)

// ErrNotSettled is returned when PumpAndSettle runs out of passes while
// elements keep scheduling themselves.
var ErrNotSettled = stderrors.New("PumpAndSettle: stage did not settle")

// StageTester drives a stage the way an application would: elements are
// added, options changed, and Pump draws what was scheduled. Errors
// reported through the errors package are recorded instead of logged.
type StageTester struct {
	stage    *stage.Stage
	reported []*errors.ChartError
	warnings []*errors.Warning
	panics   []*errors.PanicError
	pumps    int
}

// NewStageTester creates a tester with a stage of the default size.
// Call Cleanup() when done, or use NewStageTesterWithT() instead.
func NewStageTester() *StageTester {
	t := &StageTester{stage: stage.New(DefaultTestWidth, DefaultTestHeight)}
	errors.SetHandler(t)
	return t
}

// NewStageTesterWithT creates a tester and registers its cleanup with t.
func NewStageTesterWithT(t *testing.T) *StageTester {
	t.Helper()
	tester := NewStageTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup disposes the stage and restores the default error handler.
func (t *StageTester) Cleanup() {
	t.stage.Dispose()
	errors.SetHandler(nil)
}

// HandleError records err.
func (t *StageTester) HandleError(err *errors.ChartError) { t.reported = append(t.reported, err) }

// HandleWarning records w.
func (t *StageTester) HandleWarning(w *errors.Warning) { t.warnings = append(t.warnings, w) }

// HandlePanic records err.
func (t *StageTester) HandlePanic(err *errors.PanicError) { t.panics = append(t.panics, err) }

// Stage returns the stage under test.
func (t *StageTester) Stage() *stage.Stage {
	return t.stage
}

// Scene returns the stage scene.
func (t *StageTester) Scene() *surface.Scene {
	return t.stage.Scene()
}

// SetSize resizes the stage.
func (t *StageTester) SetSize(width, height float64) {
	t.stage.Resize(width, height)
}

// PumpElement adds e over the whole stage and draws it.
func (t *StageTester) PumpElement(e stage.Element) int {
	t.stage.AddFull(e)
	return t.Pump()
}

// Pump flushes the stage once and returns how many elements drew.
func (t *StageTester) Pump() int {
	t.pumps++
	return t.stage.Flush()
}

// PumpAndSettle flushes until nothing is scheduled.
func (t *StageTester) PumpAndSettle() error {
	for range maxSettlePasses {
		if !t.stage.NeedsFlush() {
			return nil
		}
		t.Pump()
	}
	if t.stage.NeedsFlush() {
		return ErrNotSettled
	}
	return nil
}

// Pumps returns how many times Pump ran.
func (t *StageTester) Pumps() int {
	return t.pumps
}

// Ops returns the scene operation count. Comparing it before and after a
// pump tells whether anything touched the surface.
func (t *StageTester) Ops() int {
	return t.stage.Scene().Ops()
}

// Errors returns the errors reported so far.
func (t *StageTester) Errors() []*errors.ChartError {
	return t.reported
}

// Warnings returns the warnings reported so far.
func (t *StageTester) Warnings() []*errors.Warning {
	return t.warnings
}

// Panics returns the recovered panics reported so far.
func (t *StageTester) Panics() []*errors.PanicError {
	return t.panics
}

// Find returns the scene paths matched by finder.
func (t *StageTester) Find(finder Finder) FinderResult {
	return FinderResult{paths: finder.Evaluate(t.stage.Scene()), finder: finder}
}

// CaptureSnapshot captures the current scene.
func (t *StageTester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.stage.Scene())
}
