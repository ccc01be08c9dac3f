// Package config defines the recognised configuration surface (§6) and
// loads it from a file plus FOGSIM_-prefixed environment overrides via
// viper, the way niceyeti-tabular and go-coffee both configure their
// services.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"fogsim/fog"
	"fogsim/fogerr"
	"fogsim/geo"
	"fogsim/xrand"
)

// Topology configures fog-node placement.
type Topology struct {
	NBFogNodes    int
	MaxNeighbours int
	RandomDivider int
	Center        geo.Point
	FogShape      geo.Shape
	FogColor      geo.RGBA
}

// ResourcePreset is a stepped range per resource component.
type ResourcePreset struct {
	CPU     xrand.SteppedRange
	RAM     xrand.SteppedRange
	Storage xrand.SteppedRange
}

// Presets mirrors the LOW/MEDIUM/HIGH/EXTREME presets named in §6.
var Presets = map[string]ResourcePreset{
	"LOW":     {CPU: xrand.SteppedRange{Min: 10, Max: 30, Step: 5}, RAM: xrand.SteppedRange{Min: 256, Max: 1024, Step: 128}, Storage: xrand.SteppedRange{Min: 1, Max: 10, Step: 1}},
	"MEDIUM":  {CPU: xrand.SteppedRange{Min: 20, Max: 50, Step: 5}, RAM: xrand.SteppedRange{Min: 1024, Max: 4096, Step: 256}, Storage: xrand.SteppedRange{Min: 5, Max: 20, Step: 1}},
	"HIGH":    {CPU: xrand.SteppedRange{Min: 40, Max: 80, Step: 5}, RAM: xrand.SteppedRange{Min: 4096, Max: 16384, Step: 512}, Storage: xrand.SteppedRange{Min: 20, Max: 100, Step: 5}},
	"EXTREME": {CPU: xrand.SteppedRange{Min: 60, Max: 100, Step: 5}, RAM: xrand.SteppedRange{Min: 16384, Max: 65536, Step: 1024}, Storage: xrand.SteppedRange{Min: 100, Max: 1000, Step: 10}},
}

// LinkConfig derives the bandwidth range from the CPU preset's range
// divided by BandwidthDivisor (§6: "(cpu_range // k) for k ∈ {4,5}").
type LinkConfig struct {
	BandwidthDivisor int
}

// Bandwidth derives the link bandwidth SteppedRange from a CPU preset.
func (l LinkConfig) Bandwidth(cpu xrand.SteppedRange) xrand.SteppedRange {
	div := l.BandwidthDivisor
	if div <= 0 {
		div = 4
	}
	return xrand.SteppedRange{Min: cpu.Min / div, Max: cpu.Max / div, Step: max1(cpu.Step / div)}
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

// TaskConfig configures per-vehicle task generation. Task resource demand
// is sampled from its own (typically LOW) preset, independent of the fog
// nodes' own capacity preset.
type TaskConfig struct {
	Resource         ResourcePreset
	CountRange       xrand.IntRange
	DurationRange    xrand.SteppedRange
	CostRange        xrand.SteppedRange
	KBandwidthCharge float64
}

// QoSConfig holds the four QoS term weights.
type QoSConfig struct {
	KTasks, KNodes, KLinks, KCost float64
}

// Driver configures the per-run driver loop.
type Driver struct {
	PlotInterval int
	Seed         int64
	Mode         fog.Mode
}

// Config is the full recognised configuration surface of §6.
type Config struct {
	Topology  Topology
	Resources ResourcePreset
	Link      LinkConfig
	Task      TaskConfig
	QoS       QoSConfig
	Driver    Driver
}

// Default returns the spec's documented defaults.
func Default() *Config {
	return &Config{
		Topology: Topology{
			NBFogNodes:    10,
			MaxNeighbours: 3,
			RandomDivider: 3,
			Center:        geo.Point{X: 0, Y: 0},
			FogShape:      geo.Shape{{X: 0, Y: 0}, {X: 0, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 0}},
			FogColor:      geo.RGBA{R: 255, A: 255},
		},
		Resources: Presets["MEDIUM"],
		Link:      LinkConfig{BandwidthDivisor: 4},
		Task: TaskConfig{
			Resource:         Presets["LOW"],
			CountRange:       xrand.IntRange{Min: 1, Max: 3},
			DurationRange:    xrand.SteppedRange{Min: 10, Max: 60, Step: 5},
			CostRange:        xrand.SteppedRange{Min: 1, Max: 10, Step: 1},
			KBandwidthCharge: 0.5,
		},
		QoS: QoSConfig{KTasks: 3.0, KNodes: 1.0, KLinks: 1.0, KCost: 0.5},
		Driver: Driver{
			PlotInterval: 1,
			Seed:         0,
			Mode:         fog.NewMode(false, false, false),
		},
	}
}

// Load reads a config file (if path is non-empty) on top of Default(),
// validating the result before returning it. FOGSIM_SEED always overrides
// the seed; the other FOGSIM_-prefixed environment variables (e.g.
// FOGSIM_TOPOLOGY_NB_FOG_NODES) are only consulted when a file is given.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("FOGSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if v.IsSet("topology.nb_fog_nodes") {
			cfg.Topology.NBFogNodes = v.GetInt("topology.nb_fog_nodes")
		}
		if v.IsSet("topology.max_neighbours") {
			cfg.Topology.MaxNeighbours = v.GetInt("topology.max_neighbours")
		}
		if v.IsSet("topology.random_divider") {
			cfg.Topology.RandomDivider = v.GetInt("topology.random_divider")
		}
		if v.IsSet("resources_preset") {
			if preset, ok := Presets[v.GetString("resources_preset")]; ok {
				cfg.Resources = preset
			}
		}
		if v.IsSet("driver.seed") {
			cfg.Driver.Seed = v.GetInt64("driver.seed")
		}
		if v.IsSet("driver.plot_interval") {
			cfg.Driver.PlotInterval = v.GetInt("driver.plot_interval")
		}
		if v.IsSet("driver.mode.neighbours") || v.IsSet("driver.mode.qos") || v.IsSet("driver.mode.cost") {
			cfg.Driver.Mode = fog.NewMode(v.GetBool("driver.mode.neighbours"), v.GetBool("driver.mode.qos"), v.GetBool("driver.mode.cost"))
		}
	}

	if v.IsSet("SEED") {
		cfg.Driver.Seed = v.GetInt64("SEED")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports an INVALID_RANGE error for any degenerate stepped range
// in the configuration surface.
func (c *Config) Validate() error {
	ranges := []xrand.SteppedRange{
		c.Resources.CPU, c.Resources.RAM, c.Resources.Storage,
		c.Task.Resource.CPU, c.Task.Resource.RAM, c.Task.Resource.Storage,
		c.Task.DurationRange, c.Task.CostRange,
	}
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if c.Task.CountRange.Min > c.Task.CountRange.Max {
		return fogerr.InvalidRangef("task count range min %d > max %d", c.Task.CountRange.Min, c.Task.CountRange.Max)
	}
	if c.Topology.NBFogNodes < 0 {
		return fogerr.InvalidRangef("NB_FOG_NODES must be non-negative, got %d", c.Topology.NBFogNodes)
	}
	if c.Topology.MaxNeighbours < 0 {
		return fogerr.InvalidRangef("MAX_NEIGHBOURS must be non-negative, got %d", c.Topology.MaxNeighbours)
	}
	return nil
}
