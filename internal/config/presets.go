package config

import "sort"

var Presets = map[string]*Config{
	"tutorial": {
		Rows: 640, Cols: 640, BlockLow: 0.4, BlockHigh: 0.5, SeedValue: 0.005,
		Dt: 0.1, D: 1.0, Stepper: "loop", Iterations: 500,
	},
	"vectorized": {
		Rows: 640, Cols: 640, BlockLow: 0.4, BlockHigh: 0.5, SeedValue: 0.005,
		Dt: 0.1, D: 1.0, Stepper: "shift", Iterations: 500,
	},
	"small": {
		Rows: 64, Cols: 64, BlockLow: 0.4, BlockHigh: 0.5, SeedValue: 0.005,
		Dt: 0.1, D: 1.0, Stepper: "loop", Iterations: 100,
	},
	"wide": {
		Rows: 256, Cols: 1024, BlockLow: 0.4, BlockHigh: 0.5, SeedValue: 0.005,
		Dt: 0.1, D: 1.0, Stepper: "parallel", Iterations: 200,
	},
	"hotspot": {
		Rows: 128, Cols: 128, BlockLow: 0.48, BlockHigh: 0.52, SeedValue: 1.0,
		Dt: 0.2, D: 1.0, Stepper: "parallel", Iterations: 300,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
