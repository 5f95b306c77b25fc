package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the run settings a host hands to the automaton
type Config struct {
	XLen                int           `json:"x_len" yaml:"x_len"`
	YLen                int           `json:"y_len" yaml:"y_len"`
	ZLen                int           `json:"z_len" yaml:"z_len"`
	Lifetime            uint8         `json:"lifetime" yaml:"lifetime"`
	FrameRate           time.Duration `json:"frame_rate" yaml:"frame_rate"`
	MaxGenerations      int           `json:"max_generations" yaml:"max_generations"`
	AutoRestart         bool          `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	UseParallel         bool          `json:"use_parallel" yaml:"use_parallel"`
	Workers             int           `json:"workers" yaml:"workers"`
	UseMemoryPool       bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	RandomDensity       float64       `json:"random_density" yaml:"random_density"`
	InjectionCount      int           `json:"injection_count" yaml:"injection_count"`
	Seed                int64         `json:"seed" yaml:"seed"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		XLen:                10,
		YLen:                10,
		ZLen:                10,
		Lifetime:            5,
		FrameRate:           150 * time.Millisecond,
		MaxGenerations:      1000,
		AutoRestart:         true,
		StagnationThreshold: 5,
		UseParallel:         true,
		Workers:             0, // one per CPU
		UseMemoryPool:       true,
		RandomDensity:       0.15,
		InjectionCount:      3,
		Seed:                1,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, picked by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.WithMessagef(err, "[LoadConfig] %+v", filename)
	}

	return config, nil
}

// Validate rejects settings the automaton cannot run with
func (c Config) Validate() error {
	switch {
	case c.XLen <= 0 || c.YLen <= 0 || c.ZLen <= 0:
		return errors.Wrapf(ErrInvalidConfig, "grid %dx%dx%d", c.XLen, c.YLen, c.ZLen)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "random_density %v outside [0,1]", c.RandomDensity)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers %d", c.Workers)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "frame_rate %v", c.FrameRate)
	}
	return nil
}

// Volume returns the number of cells the configured grid holds
func (c Config) Volume() int {
	return c.XLen * c.YLen * c.ZLen
}
