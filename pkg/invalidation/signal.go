package invalidation

// Signal is a set of change-kind flags. It tells a listener why it should
// react: redraw, recalculate, or follow a bounds change.
type Signal uint32

const (
	SignalNeedsRedraw Signal = 1 << iota
	SignalNeedsRecalculation
	SignalNeedsReapplication
	SignalBoundsChanged
	SignalEnabledStateChanged
	SignalZIndexChanged
	SignalDataChanged
	SignalMetaChanged
	SignalNeedsRedrawAppearance
	SignalNeedsRedrawLabels
)

// SignalNone is the empty set.
const SignalNone Signal = 0

var signalNames = [...]string{
	"needs_redraw",
	"needs_recalculation",
	"needs_reapplication",
	"bounds_changed",
	"enabled_state_changed",
	"z_index_changed",
	"data_changed",
	"meta_changed",
	"needs_redraw_appearance",
	"needs_redraw_labels",
}

// Has reports whether any bit of s2 is set in s.
func (s Signal) Has(s2 Signal) bool {
	return s&s2 != 0
}

// HasAll reports whether every bit of s2 is set in s.
func (s Signal) HasAll(s2 Signal) bool {
	return s&s2 == s2
}

// Clear returns s without the bits of s2.
func (s Signal) Clear(s2 Signal) Signal {
	return s &^ s2
}

// String returns the bit names joined by "|".
func (s Signal) String() string {
	return flagString(uint32(s), signalNames[:])
}
