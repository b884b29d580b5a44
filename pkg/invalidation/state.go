package invalidation

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// State is a set of consistency flags. Each bit marks one independently
// trackable aspect of an element's output as stale.
type State uint32

const (
	StateEnabled State = 1 << iota
	StateContainer
	StateZIndex
	StateBounds
	StateAppearance
	StateData
	StatePosition
	StateMarkers
	StateHatchFill
	StateLabels
	StateScales
	StateGrids
	StateSeries
	StateSplitterPosition
	StateHover
	StateTransform
)

const (
	// StateNone is the empty set.
	StateNone State = 0
	// StateAll contains every bit.
	StateAll State = math.MaxUint32
)

var stateNames = [...]string{
	"enabled",
	"container",
	"z_index",
	"bounds",
	"appearance",
	"data",
	"position",
	"markers",
	"hatch_fill",
	"labels",
	"scales",
	"grids",
	"series",
	"splitter_position",
	"hover",
	"transform",
}

// Has reports whether any bit of s2 is set in s.
func (s State) Has(s2 State) bool {
	return s&s2 != 0
}

// HasAll reports whether every bit of s2 is set in s.
func (s State) HasAll(s2 State) bool {
	return s&s2 == s2
}

// Clear returns s without the bits of s2.
func (s State) Clear(s2 State) State {
	return s &^ s2
}

// String returns the bit names joined by "|".
func (s State) String() string {
	return flagString(uint32(s), stateNames[:])
}

func flagString(v uint32, names []string) string {
	if v == 0 {
		return "none"
	}
	var parts []string
	for v != 0 {
		i := bits.TrailingZeros32(v)
		if i < len(names) {
			parts = append(parts, names[i])
		} else {
			parts = append(parts, "bit"+strconv.Itoa(i))
		}
		v &^= 1 << i
	}
	return strings.Join(parts, "|")
}
