package scales

import (
	"math"

	"github.com/go-drift/charts/pkg/invalidation"
	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// Geo maps longitude and latitude to pixels inside pixel bounds.
//
// The projected extent is fitted into the bounds preserving its aspect
// ratio and centered.
type Geo struct {
	invalidation.Base

	options             *settings.Table
	minimumX            *settings.Property[float64]
	maximumX            *settings.Property[float64]
	minimumY            *settings.Property[float64]
	maximumY            *settings.Property[float64]
	xTicksInterval      *settings.Property[float64]
	yTicksInterval      *settings.Property[float64]
	xMinorTicksInterval *settings.Property[float64]
	yMinorTicksInterval *settings.Property[float64]
	xPrecision          *settings.Property[float64]
	yPrecision          *settings.Property[float64]
	projection          *settings.Property[string]

	bounds surface.Rect

	fitted                  bool
	scale, offsetX, offsetY float64
	projMaxY                float64
}

// NewGeo creates a world-extent equirectangular scale.
func NewGeo() *Geo {
	s := &Geo{}
	s.Init(s, invalidation.StateNone)
	s.options = settings.NewTable(settings.Producer(&s.Base))
	num := func(name string, def float64, normalize settings.Normalizer[float64]) *settings.Property[float64] {
		return settings.Add(s.options, name, def, invalidation.StateNone, invalidation.SignalNeedsReapplication,
			settings.WithNormalizer(normalize))
	}
	s.minimumX = num("minimumX", -180, settings.FiniteFloat)
	s.maximumX = num("maximumX", 180, settings.FiniteFloat)
	s.minimumY = num("minimumY", -90, settings.FiniteFloat)
	s.maximumY = num("maximumY", 90, settings.FiniteFloat)
	s.xTicksInterval = num("xTicksInterval", 30, settings.NonNegative)
	s.yTicksInterval = num("yTicksInterval", 30, settings.NonNegative)
	s.xMinorTicksInterval = num("xMinorTicksInterval", 10, settings.NonNegative)
	s.yMinorTicksInterval = num("yMinorTicksInterval", 10, settings.NonNegative)
	s.xPrecision = num("xPrecision", 1, settings.NonNegative)
	s.yPrecision = num("yPrecision", 1, settings.NonNegative)
	s.projection = settings.Add(s.options, "projection", "equirectangular", invalidation.StateNone,
		invalidation.SignalNeedsReapplication, settings.WithNormalizer(settings.Enum(ProjectionNames()...)))
	// any option or bounds change moves the fitted extent
	s.ListenSignals(func(invalidation.SignalEvent) { s.fitted = false })
	return s
}

// SetExtent sets the longitude and latitude range in one dispatch.
func (s *Geo) SetExtent(minLon, maxLon, minLat, maxLat float64) {
	s.fitted = false
	s.SuspendSignalsDispatching()
	s.minimumX.Set(minLon)
	s.maximumX.Set(maxLon)
	s.minimumY.Set(minLat)
	s.maximumY.Set(maxLat)
	s.ResumeSignalsDispatching(true)
}

// Extent returns the longitude and latitude range.
func (s *Geo) Extent() (minLon, maxLon, minLat, maxLat float64) {
	return s.minimumX.Get(), s.maximumX.Get(), s.minimumY.Get(), s.maximumY.Get()
}

// SetTicksInterval sets the major tick steps in degrees.
func (s *Geo) SetTicksInterval(x, y float64) {
	s.SuspendSignalsDispatching()
	s.xTicksInterval.Set(x)
	s.yTicksInterval.Set(y)
	s.ResumeSignalsDispatching(true)
}

// SetMinorTicksInterval sets the minor tick steps in degrees.
func (s *Geo) SetMinorTicksInterval(x, y float64) {
	s.SuspendSignalsDispatching()
	s.xMinorTicksInterval.Set(x)
	s.yMinorTicksInterval.Set(y)
	s.ResumeSignalsDispatching(true)
}

// SetPrecision sets the step in degrees used to draw curved lines.
func (s *Geo) SetPrecision(x, y float64) {
	s.fitted = false
	s.SuspendSignalsDispatching()
	s.xPrecision.Set(x)
	s.yPrecision.Set(y)
	s.ResumeSignalsDispatching(true)
}

// Precision returns the curve steps in degrees along longitude and latitude.
func (s *Geo) Precision() [2]float64 {
	return [2]float64{s.xPrecision.Get(), s.yPrecision.Get()}
}

// SetProjection selects a projection by name.
func (s *Geo) SetProjection(name string) error {
	canonical, err := settings.Enum(ProjectionNames()...)(name)
	if err != nil {
		return err
	}
	s.fitted = false
	s.projection.Set(canonical)
	return nil
}

// Projection returns the active projection.
func (s *Geo) Projection() Projection {
	p, err := ProjectionByName(s.projection.Get())
	if err != nil {
		return equirectangular{}
	}
	return p
}

// SetPixelBounds sets the area the extent is fitted into.
func (s *Geo) SetPixelBounds(r surface.Rect) {
	if s.bounds.Equal(r) {
		return
	}
	s.bounds = r
	s.fitted = false
	s.DispatchSignal(invalidation.SignalNeedsReapplication)
}

// PixelBounds returns the fitting area.
func (s *Geo) PixelBounds() surface.Rect {
	return s.bounds
}

func (s *Geo) fit() {
	if s.fitted {
		return
	}
	proj := s.Projection()
	minLon, maxLon, minLat, maxLat := s.Extent()
	pMinX, pMaxX := math.Inf(1), math.Inf(-1)
	pMinY, pMaxY := math.Inf(1), math.Inf(-1)
	visit := func(lon, lat float64) {
		x, y := proj.Project(lon, lat)
		pMinX, pMaxX = math.Min(pMinX, x), math.Max(pMaxX, x)
		pMinY, pMaxY = math.Min(pMinY, y), math.Max(pMaxY, y)
	}
	step := s.yPrecision.Get()
	if proj.IsLinear() || step <= 0 {
		step = maxLat - minLat
	}
	for lat := minLat; ; lat += step {
		if lat > maxLat {
			lat = maxLat
		}
		visit(minLon, lat)
		visit(maxLon, lat)
		visit((minLon+maxLon)/2, lat)
		if lat >= maxLat || step <= 0 {
			break
		}
	}

	w, h := pMaxX-pMinX, pMaxY-pMinY
	s.scale = 0
	if w > 0 && h > 0 {
		s.scale = math.Min(s.bounds.Width()/w, s.bounds.Height()/h)
	}
	s.offsetX = s.bounds.Left + (s.bounds.Width()-w*s.scale)/2 - pMinX*s.scale
	s.offsetY = s.bounds.Top + (s.bounds.Height()-h*s.scale)/2
	s.projMaxY = pMaxY
	s.fitted = true
}

// Transform returns the pixel position of a longitude and latitude.
func (s *Geo) Transform(lon, lat float64) (x, y float64) {
	s.fit()
	px, py := s.Projection().Project(lon, lat)
	return s.offsetX + px*s.scale, s.offsetY + (s.projMaxY-py)*s.scale
}

// XTicks returns the longitude ticks, including both extent bounds.
func (s *Geo) XTicks() []float64 {
	return withBounds(ticksBetween(s.minimumX.Get(), s.maximumX.Get(), s.xTicksInterval.Get()),
		s.minimumX.Get(), s.maximumX.Get())
}

// YTicks returns the latitude ticks, including both extent bounds.
func (s *Geo) YTicks() []float64 {
	return withBounds(ticksBetween(s.minimumY.Get(), s.maximumY.Get(), s.yTicksInterval.Get()),
		s.minimumY.Get(), s.maximumY.Get())
}

// XMinorTicks returns the longitude minor ticks inside the extent.
func (s *Geo) XMinorTicks() []float64 {
	return ticksBetween(s.minimumX.Get(), s.maximumX.Get(), s.xMinorTicksInterval.Get())
}

// YMinorTicks returns the latitude minor ticks inside the extent.
func (s *Geo) YMinorTicks() []float64 {
	return ticksBetween(s.minimumY.Get(), s.maximumY.Get(), s.yMinorTicksInterval.Get())
}

func withBounds(ticks []float64, min, max float64) []float64 {
	if len(ticks) == 0 || ticks[0] > min {
		ticks = append([]float64{min}, ticks...)
	}
	if ticks[len(ticks)-1] < max {
		ticks = append(ticks, max)
	}
	return ticks
}

// Serialize returns the scale configuration.
func (s *Geo) Serialize() map[string]any {
	out := s.options.Serialize(nil)
	out["type"] = "geo"
	return out
}

// SetupByJSON applies config and dispatches at most one signal.
func (s *Geo) SetupByJSON(config map[string]any) error {
	s.fitted = false
	return s.options.Setup(config)
}
