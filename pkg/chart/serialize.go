package chart

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/go-drift/charts/pkg/settings"
)

type jsonSetter interface {
	SetupByJSON(config map[string]any) error
}

// Serialize returns the chart configuration: options, scales, grids and
// series.
func (c *Chart) Serialize() map[string]any {
	out := settings.SerializeCommon(c, c.options.Serialize(nil))
	out["type"] = c.typ
	if c.xScale != nil {
		out["xScale"] = c.xScale.Serialize()
		out["yScale"] = c.yScale.Serialize()
	}
	if c.geo != nil {
		out["geoScale"] = c.geo.Serialize()
	}
	out["grids"] = serializeGrids(c.grids)
	out["minorGrids"] = serializeGrids(c.minorGrids)
	list := make([]any, len(c.series))
	for i, s := range c.series {
		list[i] = s.Serialize()
	}
	out["series"] = list
	return out
}

func serializeGrids(grids []Grid) []any {
	out := make([]any, len(grids))
	for i, g := range grids {
		out[i] = g.Serialize()
	}
	return out
}

// SetupByJSON applies config in one batch. Grids are matched by index and
// created as needed; every series entry adds a series of its seriesType.
// Failures are joined and do not stop the remaining keys.
func (c *Chart) SetupByJSON(config map[string]any) error {
	c.SuspendSignalsDispatching()
	defer c.ResumeSignalsDispatching(true)

	errs := []error{settings.SetupElement(c, c.options, config)}
	scaleKeys := map[string]jsonSetter{}
	if c.xScale != nil {
		scaleKeys["xScale"] = c.xScale
		scaleKeys["yScale"] = c.yScale
	}
	if c.geo != nil {
		scaleKeys["geoScale"] = c.geo
	}
	for key, s := range scaleKeys {
		if v, ok := config[key]; ok {
			errs = append(errs, setupMap(key, v, s))
		}
	}
	if v, ok := config["grids"]; ok {
		errs = append(errs, eachMap("grids", v, func(i int, m map[string]any) error {
			return c.Grid(i).SetupByJSON(m)
		}))
	}
	if v, ok := config["minorGrids"]; ok {
		errs = append(errs, eachMap("minorGrids", v, func(i int, m map[string]any) error {
			return c.MinorGrid(i).SetupByJSON(m)
		}))
	}
	if v, ok := config["series"]; ok {
		errs = append(errs, eachMap("series", v, func(_ int, m map[string]any) error {
			typ, _ := m["seriesType"].(string)
			s, err := c.NewSeries(typ)
			if err != nil {
				return err
			}
			return s.SetupByJSON(m)
		}))
	}
	return stderrors.Join(errs...)
}

func setupMap(key string, v any, s jsonSetter) error {
	m, ok := v.(map[string]any)
	if !ok {
		return &settings.TypeError{Option: key, Value: v, Want: reflect.TypeOf(m)}
	}
	if err := s.SetupByJSON(m); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func eachMap(key string, v any, f func(i int, m map[string]any) error) error {
	list, ok := v.([]any)
	if !ok {
		return &settings.TypeError{Option: key, Value: v, Want: reflect.TypeOf(list)}
	}
	var errs []error
	for i, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			errs = append(errs, &settings.TypeError{Option: fmt.Sprintf("%s[%d]", key, i), Value: e, Want: reflect.TypeOf(m)})
			continue
		}
		if err := f(i, m); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", key, i, err))
		}
	}
	return stderrors.Join(errs...)
}

// FromJSON creates a chart of config["type"] (cartesian when absent) from
// the default registry and applies config.
func FromJSON(config map[string]any) (*Chart, error) {
	typ := TypeCartesian
	if v, ok := config["type"]; ok {
		s, err := settings.String(v)
		if err != nil {
			return nil, &settings.ValueError{Option: "type", Err: err}
		}
		typ = s
	}
	c, err := New(typ)
	if err != nil {
		return nil, err
	}
	if err := c.SetupByJSON(config); err != nil {
		return c, err
	}
	return c, nil
}
