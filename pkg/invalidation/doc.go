// Package invalidation implements dirty-state tracking and incremental
// redraw for chart elements.
//
// Every element embeds Base, which owns a State bitset of stale aspects.
// Setters call Invalidate with the aspects they affect and the Signal that
// tells listeners why they should care. Draw passes inspect the bits, redo
// only the stale work and clear each aspect with MarkConsistent once it is
// done.
//
// Shared producers (scales, marker factories) dispatch signals that their
// consumers translate with a Relay:
//
//	grid.ListenTo(scale, grid.Relay(invalidation.ScaleRelay))
//
// Everything runs synchronously on the caller's goroutine. Signal dispatch
// completes before Invalidate returns, and listener panics reach the caller
// unchanged.
package invalidation
