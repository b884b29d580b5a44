package surface

import "fmt"

// PathOp represents a path drawing operation type.
type PathOp int

const (
	PathOpMoveTo PathOp = iota // Start new subpath at point (x, y)
	PathOpLineTo               // Draw line to point (x, y)
	PathOpClose                // Close subpath with line to start point
)

// String returns a human-readable representation of the path operation.
func (o PathOp) String() string {
	switch o {
	case PathOpMoveTo:
		return "move_to"
	case PathOpLineTo:
		return "line_to"
	case PathOpClose:
		return "close"
	default:
		return fmt.Sprintf("PathOp(%d)", int(o))
	}
}

// PathCommand represents a single path operation with its coordinates.
// X and Y are zero for PathOpClose.
type PathCommand struct {
	Op PathOp
	X  float64
	Y  float64
}

// CountOps returns how many commands of op appear in cmds.
func CountOps(cmds []PathCommand, op PathOp) int {
	n := 0
	for _, c := range cmds {
		if c.Op == op {
			n++
		}
	}
	return n
}
