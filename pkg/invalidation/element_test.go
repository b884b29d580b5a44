package invalidation

import (
	"reflect"
	"testing"

	"github.com/go-drift/charts/pkg/surface"
)

const testSupported = StateEnabled | StateContainer | StateBounds | StateAppearance | StateData

// testElement is a minimal element embedding Base.
type testElement struct {
	Base
	draws int
}

func newTestElement() *testElement {
	e := &testElement{}
	e.Init(e, testSupported)
	return e
}

func (e *testElement) Draw() error {
	if !e.CheckDrawingNeeded(nil) {
		return nil
	}
	e.draws++
	e.MarkConsistent(StateAll)
	return nil
}

func recordSignals(b *Base) *[]Signal {
	var got []Signal
	b.ListenSignals(func(e SignalEvent) {
		got = append(got, e.Signal)
	})
	return &got
}

func TestNewElementStartsFullyDirty(t *testing.T) {
	e := newTestElement()
	if e.IsConsistent() {
		t.Fatalf("expected new element to be dirty")
	}
	if e.State() != testSupported {
		t.Fatalf("expected state %v, got %v", testSupported, e.State())
	}
	if e.ID().String() == "" {
		t.Fatalf("expected element id")
	}
}

func TestInvalidateMasksUnsupportedBits(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)

	added := e.Invalidate(StateBounds|StateMarkers, SignalNeedsRedraw)
	if added != StateBounds {
		t.Fatalf("expected only bounds added, got %v", added)
	}
	if !e.HasInvalidationState(StateBounds) {
		t.Fatalf("expected bounds dirty")
	}
	if e.HasInvalidationState(StateMarkers) {
		t.Fatalf("unsupported bit must not be set")
	}
}

func TestInvalidateDispatchesOnlyOnStateChange(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	got := recordSignals(&e.Base)

	e.Invalidate(StateAppearance, SignalNeedsRedraw)
	e.Invalidate(StateAppearance, SignalNeedsRedraw)

	if len(*got) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(*got))
	}

	e.InvalidateForced(StateAppearance, SignalNeedsRedraw)
	if len(*got) != 2 {
		t.Fatalf("expected forced dispatch, got %d", len(*got))
	}
}

func TestInvalidateWithoutStateNeverDispatches(t *testing.T) {
	e := newTestElement()
	got := recordSignals(&e.Base)

	e.Invalidate(StateNone, SignalNeedsRedraw)
	if len(*got) != 0 {
		t.Fatalf("expected no dispatch, got %d", len(*got))
	}

	e.DispatchSignal(SignalNeedsRedraw)
	if len(*got) != 1 {
		t.Fatalf("expected producer dispatch")
	}
}

func TestMarkConsistentRoundTrip(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	e.Invalidate(StateBounds|StateData, SignalNeedsRedraw)
	e.MarkConsistent(StateBounds | StateData)
	if !e.IsConsistent() {
		t.Fatalf("expected consistent, got %v", e.State())
	}
}

func TestPartialMarkConsistent(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateBounds)
	if e.HasInvalidationState(StateBounds) {
		t.Fatalf("expected bounds clean")
	}
	if !e.HasInvalidationState(StateAppearance) {
		t.Fatalf("expected appearance still dirty")
	}
}

func TestScaleRelayAlwaysInvalidatesBoundsAndAppearance(t *testing.T) {
	tests := []struct {
		name       string
		upstream   Signal
		wantSignal Signal
	}{
		{"recalculation", SignalNeedsRecalculation, SignalNeedsRecalculation | SignalBoundsChanged},
		{"reapplication", SignalNeedsReapplication, SignalNeedsRedraw | SignalBoundsChanged},
		{"both", SignalNeedsRecalculation | SignalNeedsReapplication,
			SignalNeedsRecalculation | SignalNeedsRedraw | SignalBoundsChanged},
		{"other", SignalMetaChanged, SignalBoundsChanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer := NewBase(StateNone)
			consumer := newTestElement()
			consumer.MarkConsistent(StateAll)
			got := recordSignals(&consumer.Base)
			consumer.ListenTo(producer, consumer.Relay(ScaleRelay))

			producer.DispatchSignal(tt.upstream)

			if !consumer.State().HasAll(StateBounds | StateAppearance) {
				t.Fatalf("expected bounds|appearance, got %v", consumer.State())
			}
			if len(*got) != 1 || (*got)[0] != tt.wantSignal {
				t.Fatalf("expected [%v], got %v", tt.wantSignal, *got)
			}
		})
	}
}

func TestGeoScaleRelayOmitsBoundsChanged(t *testing.T) {
	state, signal := GeoScaleRelay.Translate(SignalEvent{Signal: SignalNeedsReapplication})
	if state != StateBounds|StateAppearance {
		t.Fatalf("unexpected state %v", state)
	}
	if signal != SignalNeedsRedraw {
		t.Fatalf("unexpected signal %v", signal)
	}
}

func TestMarkersRelayOnlyOnRedraw(t *testing.T) {
	state, signal := MarkersRelay.Translate(SignalEvent{Signal: SignalBoundsChanged})
	if state != StateNone || signal != SignalNone {
		t.Fatalf("expected no translation, got %v %v", state, signal)
	}
	state, signal = MarkersRelay.Translate(SignalEvent{Signal: SignalNeedsRedraw})
	if state != StateMarkers || signal != SignalNeedsRedraw {
		t.Fatalf("expected markers redraw, got %v %v", state, signal)
	}
}

func TestSuspendedMutationsDispatchOnce(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	got := recordSignals(&e.Base)

	e.SuspendSignalsDispatching()
	e.Invalidate(StateBounds, SignalBoundsChanged)
	e.Invalidate(StateAppearance, SignalNeedsRedraw)
	e.Invalidate(StateData, SignalDataChanged)
	if len(*got) != 0 {
		t.Fatalf("expected no dispatch while suspended")
	}
	if !e.State().HasAll(StateBounds | StateAppearance | StateData) {
		t.Fatalf("expected state to accumulate while suspended")
	}
	e.ResumeSignalsDispatching(true)

	want := []Signal{SignalBoundsChanged | SignalNeedsRedraw | SignalDataChanged}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("expected %v, got %v", want, *got)
	}
}

func TestResumeWithoutDispatchDiscardsPending(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	got := recordSignals(&e.Base)

	e.SuspendSignalsDispatching()
	e.Invalidate(StateBounds, SignalBoundsChanged)
	e.ResumeSignalsDispatching(false)
	e.SuspendSignalsDispatching()
	e.ResumeSignalsDispatching(true)

	if len(*got) != 0 {
		t.Fatalf("expected discarded signals, got %v", *got)
	}
}

func TestNestedSuspension(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	got := recordSignals(&e.Base)

	e.SuspendSignalsDispatching()
	e.SuspendSignalsDispatching()
	e.Invalidate(StateBounds, SignalBoundsChanged)
	e.ResumeSignalsDispatching(true)
	if len(*got) != 0 {
		t.Fatalf("inner resume must not dispatch")
	}
	e.ResumeSignalsDispatching(true)
	if len(*got) != 1 {
		t.Fatalf("expected one dispatch on outer resume, got %d", len(*got))
	}
	e.ResumeSignalsDispatching(true)
	if len(*got) != 1 {
		t.Fatalf("unbalanced resume must be a no-op")
	}
}

func TestListenersFireInRegistrationOrder(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	var order []int
	h := func(id int) SignalHandler {
		return func(SignalEvent) { order = append(order, id) }
	}
	e.ListenSignals(h(1))
	e.ListenSignals(h(2))
	e.ListenSignals(h(1))

	e.Invalidate(StateData, SignalDataChanged)

	if !reflect.DeepEqual(order, []int{1, 2, 1}) {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestEventTargetIsEmbeddingElement(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	var target any
	e.ListenSignals(func(ev SignalEvent) { target = ev.Target })
	e.Invalidate(StateData, SignalDataChanged)
	if target != e {
		t.Fatalf("expected target to be the element")
	}
}

func TestUnlistenDuringDispatchSkipsListener(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	var calls []string
	var unlistenB func()
	e.ListenSignals(func(SignalEvent) {
		calls = append(calls, "a")
		unlistenB()
	})
	unlistenB = e.ListenSignals(func(SignalEvent) { calls = append(calls, "b") })

	e.Invalidate(StateData, SignalDataChanged)
	if !reflect.DeepEqual(calls, []string{"a"}) {
		t.Fatalf("expected removed listener skipped, got %v", calls)
	}
	unlistenB()
}

func TestListenDuringDispatchFiresNextTime(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	late := 0
	added := false
	e.ListenSignals(func(SignalEvent) {
		if !added {
			added = true
			e.ListenSignals(func(SignalEvent) { late++ })
		}
	})

	e.Invalidate(StateData, SignalDataChanged)
	if late != 0 {
		t.Fatalf("listener added during dispatch must not fire in it")
	}
	e.Invalidate(StateBounds, SignalBoundsChanged)
	if late != 1 {
		t.Fatalf("expected late listener to fire on next dispatch, got %d", late)
	}
}

func TestReentrantInvalidateOnSameElement(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	var calls []string
	e.ListenSignals(func(ev SignalEvent) {
		calls = append(calls, "a:"+ev.Signal.String())
		if ev.HasSignal(SignalNeedsRedraw) {
			e.Invalidate(StateData, SignalDataChanged)
		}
	})
	e.ListenSignals(func(ev SignalEvent) {
		calls = append(calls, "b:"+ev.Signal.String())
	})

	e.Invalidate(StateBounds, SignalNeedsRedraw)

	want := []string{
		"a:needs_redraw",
		"a:data_changed",
		"b:data_changed",
		"b:needs_redraw",
	}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	if !e.State().HasAll(StateBounds | StateData) {
		t.Fatalf("nested invalidate must not clear bits, got %v", e.State())
	}
}

func TestNestedInvalidateOnOtherElementCompletesFirst(t *testing.T) {
	parent := newTestElement()
	child := newTestElement()
	parent.MarkConsistent(StateAll)
	child.MarkConsistent(StateAll)

	var calls []string
	parent.ListenSignals(func(SignalEvent) { calls = append(calls, "parent") })
	child.ListenSignals(func(SignalEvent) {
		calls = append(calls, "child")
		parent.Invalidate(StateBounds, SignalNeedsRedraw)
		calls = append(calls, "child-after")
	})

	child.Invalidate(StateAppearance, SignalNeedsRedraw)
	want := []string{"child", "parent", "child-after"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestListenerPanicPropagates(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	e.ListenSignals(func(SignalEvent) { panic("boom") })

	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected panic to propagate, got %v", r)
		}
		if !e.HasInvalidationState(StateData) {
			t.Fatalf("expected state set before dispatch")
		}
	}()
	e.Invalidate(StateData, SignalNeedsRedraw)
}

func TestCheckDrawingNeeded(t *testing.T) {
	scene := surface.NewScene(10, 10)

	t.Run("consistent", func(t *testing.T) {
		e := newTestElement()
		e.MarkConsistent(StateAll)
		if e.CheckDrawingNeeded(nil) {
			t.Fatalf("expected false")
		}
	})

	t.Run("no container", func(t *testing.T) {
		e := newTestElement()
		if e.CheckDrawingNeeded(nil) {
			t.Fatalf("expected false without container")
		}
		if e.HasInvalidationState(StateEnabled) {
			t.Fatalf("expected enabled consistent")
		}
		if !e.HasInvalidationState(StateBounds) {
			t.Fatalf("expected remaining bits dirty")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		e := newTestElement()
		e.SetContainer(scene.Root())
		e.SetEnabled(false)
		removed := 0
		if e.CheckDrawingNeeded(func() { removed++ }) {
			t.Fatalf("expected false when disabled")
		}
		if removed != 1 {
			t.Fatalf("expected remove once, got %d", removed)
		}
		e.CheckDrawingNeeded(func() { removed++ })
		if removed != 1 {
			t.Fatalf("expected remove not repeated, got %d", removed)
		}
	})

	t.Run("re-enabled", func(t *testing.T) {
		e := newTestElement()
		e.SetContainer(scene.Root())
		e.SetEnabled(false)
		e.CheckDrawingNeeded(nil)
		e.MarkConsistent(StateAll)
		e.SetEnabled(true)
		if !e.CheckDrawingNeeded(nil) {
			t.Fatalf("expected draw needed")
		}
		if !e.HasInvalidationState(StateContainer) {
			t.Fatalf("expected container reattach")
		}
	})
}

func TestDrawConvergence(t *testing.T) {
	e := newTestElement()
	e.SetContainer(surface.NewScene(10, 10).Root())
	_ = e.Draw()
	_ = e.Draw()
	if e.draws != 1 {
		t.Fatalf("expected one effective draw, got %d", e.draws)
	}
	if !e.IsConsistent() {
		t.Fatalf("expected consistent after draw")
	}
}

func TestSettersGateOnChange(t *testing.T) {
	e := newTestElement()
	e.MarkConsistent(StateAll)
	got := recordSignals(&e.Base)

	r := surface.RectFromLTWH(0, 0, 10, 10)
	e.SetParentBounds(r)
	e.MarkConsistent(StateAll)
	e.SetParentBounds(r)
	if len(*got) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(*got))
	}
	if (*got)[0] != SignalBoundsChanged|SignalNeedsRedraw {
		t.Fatalf("unexpected signal %v", (*got)[0])
	}
	if b, ok := e.ParentBounds(); !ok || !b.Equal(r) {
		t.Fatalf("expected cached bounds")
	}

	e.SetZIndex(0)
	if len(*got) != 1 {
		t.Fatalf("unchanged z-index must not dispatch")
	}
}

func TestDisposeReleasesEdgesAndDisposables(t *testing.T) {
	producer := NewBase(StateNone)
	e := newTestElement()
	var order []int
	e.RegisterDisposable(DisposeFunc(func() { order = append(order, 1) }))
	e.RegisterDisposable(DisposeFunc(func() { order = append(order, 2) }))
	e.ListenTo(producer, e.Relay(ScaleRelay))
	if producer.emitter.ListenerCount(EventSignal) != 1 {
		t.Fatalf("expected producer listener")
	}

	e.Dispose()
	e.Dispose()

	if producer.emitter.ListenerCount(EventSignal) != 0 {
		t.Fatalf("expected listener removed")
	}
	if !reflect.DeepEqual(order, []int{2, 1}) {
		t.Fatalf("expected reverse order, got %v", order)
	}
	if !e.IsDisposed() {
		t.Fatalf("expected disposed")
	}
}

func TestStopListening(t *testing.T) {
	a := NewBase(StateNone)
	b := NewBase(StateNone)
	e := newTestElement()
	e.ListenTo(a, e.Relay(ScaleRelay))
	e.ListenTo(b, e.Relay(ScaleRelay))

	e.StopListening(a)
	if e.IsListeningTo(a) || !e.IsListeningTo(b) {
		t.Fatalf("expected only edge to b")
	}
	e.MarkConsistent(StateAll)
	a.DispatchSignal(SignalNeedsReapplication)
	if !e.IsConsistent() {
		t.Fatalf("expected no relay after StopListening")
	}
}

func TestStateString(t *testing.T) {
	if got := (StateBounds | StateAppearance).String(); got != "bounds|appearance" {
		t.Fatalf("unexpected %q", got)
	}
	if got := StateNone.String(); got != "none" {
		t.Fatalf("unexpected %q", got)
	}
	if got := (SignalNeedsRedraw | SignalBoundsChanged).String(); got != "needs_redraw|bounds_changed" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestStateHasAtLeastSixteenDistinctBits(t *testing.T) {
	all := []State{
		StateEnabled, StateContainer, StateZIndex, StateBounds, StateAppearance,
		StateData, StatePosition, StateMarkers, StateHatchFill, StateLabels,
		StateScales, StateGrids, StateSeries, StateSplitterPosition, StateHover,
		StateTransform,
	}
	var seen State
	for _, s := range all {
		if seen.Has(s) {
			t.Fatalf("bit %v collides", s)
		}
		seen |= s
		if seen|s != seen {
			t.Fatalf("or must be idempotent")
		}
	}
}
