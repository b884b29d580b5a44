package invalidation

import "slices"

// EventType names a kind of event.
type EventType string

// EventSignal is the type of SignalEvent.
const EventSignal EventType = "signal"

// Event is dispatched to listeners registered for its Type.
type Event interface {
	Type() EventType
}

// EventHandler receives events.
type EventHandler func(Event)

// SignalEvent carries the signal bits of one dispatch.
type SignalEvent struct {
	Target any
	Signal Signal
}

// Type returns EventSignal.
func (e SignalEvent) Type() EventType {
	return EventSignal
}

// HasSignal reports whether any bit of s is present.
func (e SignalEvent) HasSignal(s Signal) bool {
	return e.Signal&s != 0
}

// SignalHandler receives signal events.
type SignalHandler func(SignalEvent)

// SignalSource is anything that dispatches signal events.
type SignalSource interface {
	// ListenSignals registers h and returns a function that removes it.
	ListenSignals(h SignalHandler) (unlisten func())
}

type listener struct {
	handler EventHandler
	removed bool
}

// Emitter is a typed observer list. Handlers fire in registration order.
// The zero value is ready to use.
type Emitter struct {
	listeners map[EventType][]*listener
}

// Listen registers h for events of typ and returns a function that removes
// it. Calling the returned function more than once is a no-op.
func (em *Emitter) Listen(typ EventType, h EventHandler) (unlisten func()) {
	if em.listeners == nil {
		em.listeners = make(map[EventType][]*listener)
	}
	l := &listener{handler: h}
	em.listeners[typ] = append(em.listeners[typ], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := em.listeners[typ]
		if i := slices.Index(list, l); i >= 0 {
			em.listeners[typ] = slices.Delete(list, i, i+1)
		}
	}
}

// Emit dispatches e to the handlers registered for its type.
//
// The list is snapshotted first: handlers added during dispatch fire from
// the next Emit, handlers removed during dispatch are skipped.
func (em *Emitter) Emit(e Event) {
	list := em.listeners[e.Type()]
	if len(list) == 0 {
		return
	}
	snapshot := slices.Clone(list)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.handler(e)
	}
}

// ListenerCount returns how many handlers are registered for typ.
func (em *Emitter) ListenerCount(typ EventType) int {
	return len(em.listeners[typ])
}

// RemoveAll drops every handler.
func (em *Emitter) RemoveAll() {
	for _, list := range em.listeners {
		for _, l := range list {
			l.removed = true
		}
	}
	em.listeners = nil
}
