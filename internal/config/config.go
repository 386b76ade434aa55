// Package config loads and saves solver/scenario configuration as yaml.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cookiew/ilqgames/internal/solver"
)

const (
	DefaultDt             = 0.1
	DefaultSteps          = 100
	DefaultFinalTime      = 10.0
	DefaultPlannerRuntime = 0.25
)

type Config struct {
	Scenario string         `yaml:"scenario"`
	Dt       float64        `yaml:"dt"`
	Steps    int            `yaml:"steps"`
	Solver   solver.Params  `yaml:"solver"`
	Receding RecedingConfig `yaml:"receding"`
}

type RecedingConfig struct {
	FinalTime      float64 `yaml:"final_time"`
	PlannerRuntime float64 `yaml:"planner_runtime"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "roundabout",
		Dt:       DefaultDt,
		Steps:    DefaultSteps,
		Solver:   solver.DefaultParams(),
		Receding: RecedingConfig{
			FinalTime:      DefaultFinalTime,
			PlannerRuntime: DefaultPlannerRuntime,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
