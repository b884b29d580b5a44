package invalidation

// RelayRule raises Signal and marks State on the consumer when the
// upstream event carries any bit of When.
type RelayRule struct {
	When  Signal
	Raise Signal
	State State
}

// Relay translates a producer's signal into a consumer's own state and
// signal. State and Signal apply to every event; Rules apply when matched.
type Relay struct {
	Rules  []RelayRule
	State  State
	Signal Signal
}

// Translate returns the consumer state and signal for e.
func (r Relay) Translate(e SignalEvent) (State, Signal) {
	state, signal := r.State, r.Signal
	for _, rule := range r.Rules {
		if e.HasSignal(rule.When) {
			state |= rule.State
			signal |= rule.Raise
		}
	}
	return state, signal
}

var (
	// ScaleRelay is used by elements that map values through a cartesian
	// scale. Any scale change invalidates the pixel mapping.
	ScaleRelay = Relay{
		Rules: []RelayRule{
			{When: SignalNeedsRecalculation, Raise: SignalNeedsRecalculation},
			{When: SignalNeedsReapplication, Raise: SignalNeedsRedraw},
		},
		State:  StateBounds | StateAppearance,
		Signal: SignalBoundsChanged,
	}

	// GeoScaleRelay is ScaleRelay for map elements, which keep their
	// bounds when the projection changes.
	GeoScaleRelay = Relay{
		Rules: []RelayRule{
			{When: SignalNeedsRecalculation, Raise: SignalNeedsRecalculation},
			{When: SignalNeedsReapplication, Raise: SignalNeedsRedraw},
		},
		State: StateBounds | StateAppearance,
	}

	// MarkersRelay is used by series listening to their markers factory.
	MarkersRelay = Relay{
		Rules: []RelayRule{
			{When: SignalNeedsRedraw, Raise: SignalNeedsRedraw, State: StateMarkers},
		},
	}
)
