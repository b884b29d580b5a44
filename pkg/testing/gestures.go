package testing

import (
	"fmt"

	"github.com/go-drift/charts/pkg/splitter"
	"github.com/go-drift/charts/pkg/surface"
)

// dragSteps is how many intermediate moves a drag sends.
const dragSteps = 4

// DragSplitter drags sp from the center of its bar by delta and pumps.
// It reports whether the drag moved the splitter.
func (t *StageTester) DragSplitter(sp *splitter.Splitter, delta surface.Offset) (bool, error) {
	bar := sp.BarBounds()
	if bar.IsEmpty() {
		return false, fmt.Errorf("DragSplitter: splitter has no bounds")
	}
	return t.DragSplitterFrom(sp, bar.Center(), delta)
}

// DragSplitterFrom drags sp from start by delta in a few moves, ends the
// drag and pumps. It reports whether the drag moved the splitter.
func (t *StageTester) DragSplitterFrom(sp *splitter.Splitter, start, delta surface.Offset) (bool, error) {
	if !sp.StartDrag(start) {
		return false, fmt.Errorf("DragSplitter: no drag area at (%v, %v)", start.X, start.Y)
	}
	for i := 1; i <= dragSteps; i++ {
		f := float64(i) / dragSteps
		sp.DragTo(surface.Offset{X: start.X + delta.X*f, Y: start.Y + delta.Y*f})
	}
	moved := sp.EndDrag()
	t.Pump()
	return moved, nil
}
