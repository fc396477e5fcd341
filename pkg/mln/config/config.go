package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

// Config describes one engine run: the hard weight, solver and trainer
// parameters, which predicates are queries, and where evidence lives.
type Config struct {
	WeightHard      float64       `yaml:"weight_hard"`
	Debug           bool          `yaml:"debug"`
	StorePath       string        `yaml:"store_path"`
	EvidencePath    string        `yaml:"evidence_path"`
	QueryPredicates []string      `yaml:"query_predicates"`
	Solver          SolverConfig  `yaml:"solver"`
	Trainer         TrainerConfig `yaml:"trainer"`
}

// SolverConfig tunes MaxWalkSAT.
type SolverConfig struct {
	MaxFlips int     `yaml:"max_flips"`
	MaxTries int     `yaml:"max_tries"`
	Noise    float64 `yaml:"noise"`
	Seed     int64   `yaml:"seed"`
}

// TrainerConfig tunes the perceptron trainer.
type TrainerConfig struct {
	Rate   float64 `yaml:"rate"`
	Epochs int     `yaml:"epochs"`
}

// Default returns a runnable configuration.
func Default() Config {
	return Config{
		WeightHard: 1000,
		Solver:     SolverConfig{MaxFlips: 100000, MaxTries: 3, Noise: 0.2, Seed: 1},
		Trainer:    TrainerConfig{Rate: 0.1, Epochs: 10},
	}
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.WeightHard <= 0 {
		return fmt.Errorf("weight_hard must be positive: %w", internalerr.ErrInvalidConfig)
	}
	if c.Solver.Noise < 0 || c.Solver.Noise > 1 {
		return fmt.Errorf("solver noise must be in [0,1]: %w", internalerr.ErrInvalidConfig)
	}
	if c.Trainer.Rate < 0 {
		return fmt.Errorf("trainer rate must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	return nil
}
