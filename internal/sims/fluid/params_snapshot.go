package fluid

import (
	"strconv"

	"fluid-ca/internal/core"
)

func (s *Sim) Parameters() core.ParameterSnapshot {
	t := s.cfg.Terrain
	layout := s.cfg.Layout
	if layout == "" {
		layout = "-"
	}
	st := s.Stats()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", int64(s.grid.Width())),
				core.IntParam("h", "Height", int64(s.grid.Height())),
				core.IntParam("seed", "Seed", s.cfg.Seed),
				core.TextParam("layout", "Layout", layout),
				core.IntParam("disc_radius", "Disc radius", int64(s.cfg.DiscRadius)),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				core.FloatParam("pressure", "Pressure", Pressure),
				core.FloatParam("momentum_decay", "Momentum decay", MomentumDecay),
				core.IntParam("lateral_reach", "Lateral reach", LateralReach),
			},
		},
		{
			Name: "Terrain",
			Params: []core.Parameter{
				core.TextParam("terrain", "Enabled", strconv.FormatBool(t.Enabled)),
				core.IntParam("ground_level", "Ground level", int64(t.GroundLevel)),
				core.FloatParam("amplitude", "Amplitude", t.Amplitude),
				core.FloatParam("frequency", "Frequency", t.Frequency),
				core.IntParam("octaves", "Octaves", int64(t.Octaves)),
				core.FloatParam("persistence", "Persistence", t.Persistence),
				core.FloatParam("lacunarity", "Lacunarity", t.Lacunarity),
				core.IntParam("sources", "Sources", int64(t.Sources)),
				core.IntParam("sinks", "Sinks", int64(t.Sinks)),
				core.IntParam("pool_level", "Pool level", int64(t.PoolLevel)),
			},
		},
		{
			Name: "Tick",
			Params: []core.Parameter{
				core.IntParam("tick", "Tick", int64(st.Tick)),
				core.IntParam("changed", "Changed", int64(st.Changed)),
				core.IntParam("transfers", "Transfers", int64(st.Transfers)),
				core.FloatParam("mass", "Mass", st.Mass),
			},
		},
	}}
}

// ParameterControls lists the terrain knobs the HUD may adjust. They apply on
// the next Reset.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "disc_radius", Label: "Disc radius", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "ground_level", Label: "Ground level", Type: core.ParamTypeInt, Step: 2, Min: 0, HasMin: true},
		{Key: "amplitude", Label: "Amplitude", Type: core.ParamTypeFloat, Step: 4, Min: 0, HasMin: true},
		{Key: "frequency", Label: "Frequency", Type: core.ParamTypeFloat, Step: 0.005, Min: 0.001, HasMin: true, Max: 1, HasMax: true},
		{Key: "octaves", Label: "Octaves", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true, Max: 10, HasMax: true},
		{Key: "persistence", Label: "Persistence", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, HasMin: true, Max: 1, HasMax: true},
		{Key: "lacunarity", Label: "Lacunarity", Type: core.ParamTypeFloat, Step: 0.25, Min: 1, HasMin: true, Max: 10, HasMax: true},
		{Key: "sources", Label: "Sources", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "sinks", Label: "Sinks", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "pool_level", Label: "Pool level", Type: core.ParamTypeInt, Step: 2, Min: 0, HasMin: true},
	}
}

func (s *Sim) SetIntParameter(key string, value int) bool {
	if value < 0 {
		return false
	}
	t := &s.cfg.Terrain
	switch key {
	case "disc_radius":
		s.cfg.DiscRadius = value
	case "ground_level":
		t.GroundLevel = value
	case "octaves":
		if value < 1 {
			return false
		}
		t.Octaves = value
	case "sources":
		t.Sources = value
	case "sinks":
		t.Sinks = value
	case "pool_level":
		t.PoolLevel = value
	default:
		return false
	}
	return true
}

func (s *Sim) SetFloatParameter(key string, value float64) bool {
	t := &s.cfg.Terrain
	switch key {
	case "amplitude":
		if value < 0 {
			return false
		}
		t.Amplitude = value
	case "frequency":
		if value <= 0 {
			return false
		}
		t.Frequency = value
	case "persistence":
		if value <= 0 || value > 1 {
			return false
		}
		t.Persistence = value
	case "lacunarity":
		if value <= 0 {
			return false
		}
		t.Lacunarity = value
	default:
		return false
	}
	return true
}
