package invalidation

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/go-drift/charts/pkg/logging"
	"github.com/go-drift/charts/pkg/surface"
)

// Disposable is a resource released when its owner is disposed.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func()

// Dispose calls f.
func (f DisposeFunc) Dispose() { f() }

type edge struct {
	src      SignalSource
	unlisten func()
}

// Base provides the invalidation protocol for visual elements.
//
// Concrete elements embed Base and call Init from their constructor:
//
//	g := &Grid{}
//	g.Init(g, supportedGridStates)
//
// A new element starts dirty in every supported bit so its first draw
// performs full initialization.
type Base struct {
	self      any
	id        uuid.UUID
	state     State
	supported State

	emitter   Emitter
	suspended int
	pending   Signal

	container       surface.Layer
	parentBounds    surface.Rect
	hasParentBounds bool

	disabled bool
	zIndex   float64

	edges       []edge
	disposables []Disposable
	disposed    bool
}

// NewBase returns a standalone element supporting the given bits.
func NewBase(supported State) *Base {
	b := &Base{}
	b.Init(b, supported)
	return b
}

// Init sets the element that events report as their target and marks
// every supported bit dirty.
func (b *Base) Init(self any, supported State) {
	b.self = self
	b.supported = supported
	b.state = supported
	if b.id == uuid.Nil {
		b.id = uuid.New()
	}
}

// ID returns the element's unique id.
func (b *Base) ID() uuid.UUID {
	if b.id == uuid.Nil {
		b.id = uuid.New()
	}
	return b.id
}

// State returns the dirty bits.
func (b *Base) State() State {
	return b.state
}

// Supported returns the bits this element tracks.
func (b *Base) Supported() State {
	return b.supported
}

// Invalidate marks state dirty and dispatches signal when at least one new
// bit was introduced. Bits outside the supported set are dropped. Returns
// the bits actually added.
func (b *Base) Invalidate(state State, signal Signal) State {
	added := state & b.supported &^ b.state
	if added == 0 {
		return StateNone
	}
	b.state |= added
	b.DispatchSignal(signal)
	return added
}

// InvalidateForced marks state dirty and dispatches signal even when no new
// bit was introduced.
func (b *Base) InvalidateForced(state State, signal Signal) State {
	added := state & b.supported &^ b.state
	b.state |= added
	b.DispatchSignal(signal)
	return added
}

// HasInvalidationState reports whether any bit of state is dirty.
func (b *Base) HasInvalidationState(state State) bool {
	return b.state&state != 0
}

// MarkConsistent clears state. Call it only after the work for those bits
// has completed.
func (b *Base) MarkConsistent(state State) {
	b.state &^= state
}

// IsConsistent reports whether no bit is dirty.
func (b *Base) IsConsistent() bool {
	return b.state == 0
}

// Listen registers h for events of typ.
func (b *Base) Listen(typ EventType, h EventHandler) (unlisten func()) {
	return b.emitter.Listen(typ, h)
}

// ListenSignals registers h for signal events.
func (b *Base) ListenSignals(h SignalHandler) (unlisten func()) {
	return b.emitter.Listen(EventSignal, func(e Event) {
		if se, ok := e.(SignalEvent); ok {
			h(se)
		}
	})
}

// DispatchEvent sends e to the listeners of its type. Signal events should
// go through DispatchSignal so suspension applies.
func (b *Base) DispatchEvent(e Event) {
	b.emitter.Emit(e)
}

// DispatchSignal dispatches signal to signal listeners regardless of the
// dirty state. While dispatching is suspended the bits are accumulated.
func (b *Base) DispatchSignal(signal Signal) {
	if signal == SignalNone {
		return
	}
	if b.suspended > 0 {
		b.pending |= signal
		return
	}
	b.emit(signal)
}

func (b *Base) emit(signal Signal) {
	if logging.Enabled(slog.LevelDebug) {
		logging.Logger().Debug("signal dispatched",
			slog.String("element", b.ID().String()),
			slog.String("signal", signal.String()),
			slog.String("state", b.state.String()),
		)
	}
	b.emitter.Emit(SignalEvent{Target: b.target(), Signal: signal})
}

func (b *Base) target() any {
	if b.self != nil {
		return b.self
	}
	return b
}

// SuspendSignalsDispatching defers signal dispatch until the matching
// ResumeSignalsDispatching. Calls nest.
func (b *Base) SuspendSignalsDispatching() {
	b.suspended++
}

// ResumeSignalsDispatching ends one level of suspension. On the outermost
// resume the signals accumulated meanwhile are dispatched as a single event
// when dispatch is true, and discarded otherwise.
func (b *Base) ResumeSignalsDispatching(dispatch bool) {
	if b.suspended == 0 {
		return
	}
	b.suspended--
	if b.suspended > 0 {
		return
	}
	pending := b.pending
	b.pending = SignalNone
	if dispatch && pending != SignalNone {
		b.emit(pending)
	}
}

// IsDispatchingSuspended reports whether signals are being held back.
func (b *Base) IsDispatchingSuspended() bool {
	return b.suspended > 0
}

// Relay returns a handler that translates upstream signals with r and
// invalidates this element with the result.
func (b *Base) Relay(r Relay) SignalHandler {
	return func(e SignalEvent) {
		state, signal := r.Translate(e)
		if state == StateNone {
			b.DispatchSignal(signal)
			return
		}
		b.Invalidate(state, signal)
	}
}

// ListenTo registers h on src and records the dependency so it is removed
// by StopListening or Dispose. The producer is not owned.
func (b *Base) ListenTo(src SignalSource, h SignalHandler) {
	if src == nil {
		return
	}
	b.edges = append(b.edges, edge{src: src, unlisten: src.ListenSignals(h)})
}

// StopListening removes every handler this element registered on src.
func (b *Base) StopListening(src SignalSource) {
	b.edges = slices.DeleteFunc(b.edges, func(e edge) bool {
		if e.src != src {
			return false
		}
		e.unlisten()
		return true
	})
}

// IsListeningTo reports whether this element has a handler on src.
func (b *Base) IsListeningTo(src SignalSource) bool {
	return slices.ContainsFunc(b.edges, func(e edge) bool { return e.src == src })
}

// Container returns the layer the element draws into.
func (b *Base) Container() surface.Layer {
	return b.container
}

// SetContainer sets the layer the element draws into.
func (b *Base) SetContainer(l surface.Layer) {
	if b.container == l {
		return
	}
	b.container = l
	b.Invalidate(StateContainer, SignalNeedsRedraw)
}

// ParentBounds returns the bounds set by the parent, if any.
func (b *Base) ParentBounds() (surface.Rect, bool) {
	return b.parentBounds, b.hasParentBounds
}

// SetParentBounds sets the bounds the element lays itself out in.
func (b *Base) SetParentBounds(r surface.Rect) {
	if b.hasParentBounds && b.parentBounds.Equal(r) {
		return
	}
	b.parentBounds = r
	b.hasParentBounds = true
	b.Invalidate(StateBounds, SignalBoundsChanged|SignalNeedsRedraw)
}

// Enabled reports whether the element draws. Elements are enabled by default.
func (b *Base) Enabled() bool {
	return !b.disabled
}

// SetEnabled turns drawing on or off.
func (b *Base) SetEnabled(enabled bool) {
	if b.disabled == !enabled {
		return
	}
	b.disabled = !enabled
	b.Invalidate(StateEnabled, SignalNeedsRedraw|SignalEnabledStateChanged)
}

// ZIndex returns the stacking order.
func (b *Base) ZIndex() float64 {
	return b.zIndex
}

// SetZIndex sets the stacking order.
func (b *Base) SetZIndex(z float64) {
	if b.zIndex == z {
		return
	}
	b.zIndex = z
	b.Invalidate(StateZIndex, SignalNeedsRedraw|SignalZIndexChanged)
}

// CheckDrawingNeeded is the common draw guard. It returns false when the
// element is consistent, disabled, or has no container.
//
// A disabled element with StateEnabled dirty runs remove to detach its
// drawing and clears StateEnabled. Without a container the remaining bits
// stay dirty until one is set.
func (b *Base) CheckDrawingNeeded(remove func()) bool {
	if b.IsConsistent() {
		return false
	}
	if b.disabled {
		if b.HasInvalidationState(StateEnabled) {
			if remove != nil {
				remove()
			}
			b.MarkConsistent(StateEnabled)
		}
		return false
	}
	if b.container == nil {
		b.MarkConsistent(StateEnabled)
		return false
	}
	if b.HasInvalidationState(StateEnabled) {
		// re-enabled: reattach on this pass
		b.state |= StateContainer & b.supported
		b.MarkConsistent(StateEnabled)
	}
	return true
}

// RegisterDisposable adds d to the resources released by Dispose.
func (b *Base) RegisterDisposable(d Disposable) {
	if d == nil {
		return
	}
	b.disposables = append(b.disposables, d)
}

// Dispose removes every dependency edge and listener and releases the
// registered disposables in reverse order. Subsequent calls are no-ops.
func (b *Base) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	for i := len(b.edges) - 1; i >= 0; i-- {
		b.edges[i].unlisten()
	}
	b.edges = nil
	for i := len(b.disposables) - 1; i >= 0; i-- {
		b.disposables[i].Dispose()
	}
	b.disposables = nil
	b.emitter.RemoveAll()
	b.container = nil
}

// IsDisposed reports whether Dispose was called.
func (b *Base) IsDisposed() bool {
	return b.disposed
}
