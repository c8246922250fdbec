package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/experiment"
)

const DefaultIterations = 500

type Config struct {
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	BlockLow   float64 `yaml:"block_low"`
	BlockHigh  float64 `yaml:"block_high"`
	SeedValue  float64 `yaml:"seed_value"`
	Dt         float64 `yaml:"dt"`
	D          float64 `yaml:"d"`
	Stepper    string  `yaml:"stepper"`
	Iterations int     `yaml:"iterations"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:       experiment.DefaultRows,
		Cols:       experiment.DefaultCols,
		BlockLow:   experiment.DefaultBlockLow,
		BlockHigh:  experiment.DefaultBlockHigh,
		SeedValue:  experiment.DefaultSeedValue,
		Dt:         experiment.DefaultDt,
		D:          experiment.DefaultD,
		Stepper:    experiment.DefaultStepper,
		Iterations: DefaultIterations,
	}
}

// Load reads a YAML file, or an INI file when the extension is .ini.
// Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver is Load with keys missing from the file taken from base.
// base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		file, err := ini.Load(path)
		if err != nil {
			return nil, err
		}
		return fromINI(file, base), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// fromINI reads the [experiment] section.
func fromINI(file *ini.File, def *Config) *Config {
	sec := file.Section("experiment")
	return &Config{
		Rows:       sec.Key("rows").MustInt(def.Rows),
		Cols:       sec.Key("cols").MustInt(def.Cols),
		BlockLow:   sec.Key("block_low").MustFloat64(def.BlockLow),
		BlockHigh:  sec.Key("block_high").MustFloat64(def.BlockHigh),
		SeedValue:  sec.Key("seed_value").MustFloat64(def.SeedValue),
		Dt:         sec.Key("dt").MustFloat64(def.Dt),
		D:          sec.Key("d").MustFloat64(def.D),
		Stepper:    sec.Key("stepper").MustString(def.Stepper),
		Iterations: sec.Key("iterations").MustInt(def.Iterations),
	}
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Experiment converts the file settings into an experiment configuration.
func (c *Config) Experiment() experiment.Config {
	return experiment.Config{
		Rows:      c.Rows,
		Cols:      c.Cols,
		BlockLow:  c.BlockLow,
		BlockHigh: c.BlockHigh,
		SeedValue: c.SeedValue,
		Dt:        c.Dt,
		D:         c.D,
		Stepper:   c.Stepper,
	}
}
