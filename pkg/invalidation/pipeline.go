package invalidation

import (
	"log/slog"
	"slices"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/logging"
)

// maxFlushPasses bounds how many times Flush re-collects drawables that
// were scheduled while it was drawing.
const maxFlushPasses = 8

// Drawable is an element with a draw pass.
type Drawable interface {
	// Draw redoes the stale work and clears the handled bits.
	Draw() error
	// IsConsistent reports whether there is nothing left to draw.
	IsConsistent() bool
}

// Pipeline tracks drawables that need a draw pass.
//
// Drawables reporting a Depth() int are drawn parents first (lower depth
// first); equal depths keep schedule order.
type Pipeline struct {
	dirty    []Drawable
	dirtySet map[Drawable]bool
}

// Schedule marks d as needing a draw pass. Scheduling twice before a flush
// is a no-op.
func (p *Pipeline) Schedule(d Drawable) {
	if d == nil {
		return
	}
	if p.dirtySet == nil {
		p.dirtySet = make(map[Drawable]bool)
	}
	if p.dirtySet[d] {
		return
	}
	p.dirtySet[d] = true
	p.dirty = append(p.dirty, d)
}

// NeedsFlush reports whether any drawable is scheduled.
func (p *Pipeline) NeedsFlush() bool {
	return len(p.dirty) > 0
}

// Flush draws the scheduled drawables and returns how many drew.
//
// Drawables that became consistent in the meantime are skipped. Draw errors
// are reported to the error handler and do not stop the flush. Drawables
// scheduled during the flush are drawn in the same call.
func (p *Pipeline) Flush() int {
	drawn := 0
	for pass := 0; pass < maxFlushPasses && len(p.dirty) > 0; pass++ {
		batch := p.dirty
		p.dirty = nil
		p.dirtySet = nil

		slices.SortStableFunc(batch, func(a, b Drawable) int {
			return getDepth(a) - getDepth(b)
		})

		for _, d := range batch {
			if d.IsConsistent() {
				continue
			}
			if err := d.Draw(); err != nil {
				errors.Report(&errors.ChartError{
					Op:   "pipeline.flush",
					Kind: errors.KindRender,
					Err:  err,
				})
			}
			drawn++
		}
	}
	if len(p.dirty) > 0 {
		logging.Logger().Warn("pipeline flush left drawables scheduled",
			slog.Int("pending", len(p.dirty)))
	}
	logging.Logger().Debug("pipeline flushed", slog.Int("drawn", drawn))
	return drawn
}

func getDepth(d Drawable) int {
	if getter, ok := d.(interface{ Depth() int }); ok {
		return getter.Depth()
	}
	return 0
}
