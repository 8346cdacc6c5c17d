package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultContainerRadius = 10.0
	DefaultEvents          = 1000
	DefaultBalls           = 15
	DefaultMass            = 1.0
	DefaultBallRadius      = 1.0
	DefaultRMSSpeed        = 5.0
	DefaultStateFile       = "initial.csv"
)

// Config describes a full simulation run: the container, how the initial
// configuration is obtained, and how long to replay.
type Config struct {
	ContainerRadius float64   `yaml:"container_radius"`
	Events          int       `yaml:"events"`
	StateFile       string    `yaml:"state_file"`
	Seed            int64     `yaml:"seed"`
	Generate        GenConfig `yaml:"generate"`
}

// GenConfig parameterizes procedural initial-state generation.
type GenConfig struct {
	Balls    int     `yaml:"balls"`
	Mass     float64 `yaml:"mass"`
	Radius   float64 `yaml:"radius"`
	RMSSpeed float64 `yaml:"rms_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		ContainerRadius: DefaultContainerRadius,
		Events:          DefaultEvents,
		StateFile:       DefaultStateFile,
		Generate: GenConfig{
			Balls:    DefaultBalls,
			Mass:     DefaultMass,
			Radius:   DefaultBallRadius,
			RMSSpeed: DefaultRMSSpeed,
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
	if err := cfg.Validate(); err != nil {
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

// Validate rejects parameter values the simulation cannot run with.
func (c *Config) Validate() error {
	if !positiveFinite(c.ContainerRadius) {
		return fmt.Errorf("config: container_radius must be positive and finite, got %v", c.ContainerRadius)
	}
	if c.Events <= 0 {
		return fmt.Errorf("config: events must be positive, got %d", c.Events)
	}
	if c.Generate.Balls <= 0 {
		return fmt.Errorf("config: generate.balls must be positive, got %d", c.Generate.Balls)
	}
	if !positiveFinite(c.Generate.Mass) {
		return fmt.Errorf("config: generate.mass must be positive and finite, got %v", c.Generate.Mass)
	}
	if !positiveFinite(c.Generate.Radius) {
		return fmt.Errorf("config: generate.radius must be positive and finite, got %v", c.Generate.Radius)
	}
	if c.Generate.Radius >= c.ContainerRadius {
		return fmt.Errorf("config: generate.radius %v must be smaller than the container", c.Generate.Radius)
	}
	if !positiveFinite(c.Generate.RMSSpeed) {
		return fmt.Errorf("config: generate.rms_speed must be positive and finite, got %v", c.Generate.RMSSpeed)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
