package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/charts/pkg/surface"
)

// Finder locates paths in a scene.
type Finder interface {
	// Evaluate returns all matching paths in paint order.
	Evaluate(scene *surface.Scene) []surface.Path
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	paths  []surface.Path
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() surface.Path {
	if len(r.paths) == 0 {
		panic(fmt.Sprintf("Finder found no paths: %s", r.description()))
	}
	return r.paths[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() surface.Path {
	if len(r.paths) == 0 {
		return nil
	}
	return r.paths[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) surface.Path {
	if index < 0 || index >= len(r.paths) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.paths), r.description()))
	}
	return r.paths[index]
}

// All returns all matches in paint order.
func (r FinderResult) All() []surface.Path {
	return r.paths
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.paths)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.paths) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// predicateFinder matches paths with a predicate.
type predicateFinder struct {
	match func(p surface.Path) bool
	desc  string
}

func (f predicateFinder) Evaluate(scene *surface.Scene) []surface.Path {
	var out []surface.Path
	for _, p := range scene.Paths() {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f predicateFinder) Description() string {
	return f.desc
}

// ByPredicate matches paths for which match returns true.
func ByPredicate(match func(p surface.Path) bool, desc string) Finder {
	return predicateFinder{match: match, desc: desc}
}

// ByFillColor matches paths with a solid fill of color.
func ByFillColor(color surface.Color) Finder {
	return predicateFinder{
		match: func(p surface.Path) bool {
			f := p.Fill()
			return !f.IsNone() && f.Gradient == nil && f.Color == color
		},
		desc: fmt.Sprintf("ByFillColor(%#08x)", uint32(color)),
	}
}

// ByStrokeColor matches stroked paths of color.
func ByStrokeColor(color surface.Color) Finder {
	return predicateFinder{
		match: func(p surface.Path) bool {
			s := p.Stroke()
			return !s.IsNone() && s.Color == color
		},
		desc: fmt.Sprintf("ByStrokeColor(%#08x)", uint32(color)),
	}
}

// ByZIndex matches paths with the given z-index among their siblings.
func ByZIndex(z float64) Finder {
	return predicateFinder{
		match: func(p surface.Path) bool { return p.ZIndex() == z },
		desc:  fmt.Sprintf("ByZIndex(%v)", z),
	}
}

// Painted matches paths that would put pixels on screen: they have commands
// and a fill or a stroke.
func Painted() Finder {
	return predicateFinder{
		match: func(p surface.Path) bool {
			return len(p.Commands()) > 0 && (!p.Fill().IsNone() || !p.Stroke().IsNone())
		},
		desc: "Painted()",
	}
}

// InRect matches paths whose bounds lie inside r.
func InRect(r surface.Rect) Finder {
	return predicateFinder{
		match: func(p surface.Path) bool {
			b := p.Bounds()
			return len(p.Commands()) > 0 && b.Left >= r.Left && b.Top >= r.Top && b.Right <= r.Right && b.Bottom <= r.Bottom
		},
		desc: fmt.Sprintf("InRect(%v, %v, %v, %v)", r.Left, r.Top, r.Right, r.Bottom),
	}
}

// andFinder matches paths matched by every finder.
type andFinder struct {
	finders []Finder
}

func (f andFinder) Evaluate(scene *surface.Scene) []surface.Path {
	if len(f.finders) == 0 {
		return nil
	}
	out := f.finders[0].Evaluate(scene)
	for _, other := range f.finders[1:] {
		keep := make(map[surface.Path]bool)
		for _, p := range other.Evaluate(scene) {
			keep[p] = true
		}
		filtered := out[:0]
		for _, p := range out {
			if keep[p] {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}
	return out
}

func (f andFinder) Description() string {
	descs := make([]string, len(f.finders))
	for i, finder := range f.finders {
		descs[i] = finder.Description()
	}
	return "And(" + strings.Join(descs, ", ") + ")"
}

// And matches paths matched by all finders.
func And(finders ...Finder) Finder {
	return andFinder{finders: finders}
}
