package scales

import (
	"fmt"
	"math"
)

// mercatorMaxLat is where the mercator projection is clipped.
const mercatorMaxLat = 85.0511287798

// Projection maps longitude and latitude in degrees to plane coordinates.
// The plane y axis points north.
type Projection interface {
	Name() string
	Project(lon, lat float64) (x, y float64)
	// IsLinear reports whether lines of constant latitude and longitude stay
	// straight, so two points describe them.
	IsLinear() bool
}

type equirectangular struct{}

func (equirectangular) Name() string   { return "equirectangular" }
func (equirectangular) IsLinear() bool { return true }
func (equirectangular) Project(lon, lat float64) (float64, float64) {
	return lon, lat
}

type mercator struct{}

func (mercator) Name() string   { return "mercator" }
func (mercator) IsLinear() bool { return true }
func (mercator) Project(lon, lat float64) (float64, float64) {
	lat = math.Max(-mercatorMaxLat, math.Min(mercatorMaxLat, lat))
	phi := lat * math.Pi / 180
	return lon, math.Log(math.Tan(math.Pi/4+phi/2)) * 180 / math.Pi
}

type sinusoidal struct{}

func (sinusoidal) Name() string   { return "sinusoidal" }
func (sinusoidal) IsLinear() bool { return false }
func (sinusoidal) Project(lon, lat float64) (float64, float64) {
	return lon * math.Cos(lat*math.Pi/180), lat
}

var projections = map[string]Projection{
	"equirectangular": equirectangular{},
	"mercator":        mercator{},
	"sinusoidal":      sinusoidal{},
}

// ProjectionByName returns a registered projection.
func ProjectionByName(name string) (Projection, error) {
	p, ok := projections[name]
	if !ok {
		return nil, fmt.Errorf("unknown projection %q", name)
	}
	return p, nil
}

// ProjectionNames lists the registered projections.
func ProjectionNames() []string {
	return []string{"equirectangular", "mercator", "sinusoidal"}
}
