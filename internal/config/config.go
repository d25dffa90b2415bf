// Package config provides unified configuration loading for voter.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all voter configuration settings.
type Config struct {
	// Lattice describes the grid and its initial state.
	Lattice LatticeConfig `json:"lattice" yaml:"lattice"`

	// Run controls the driver loop.
	Run RunConfig `json:"run" yaml:"run"`

	// Output selects where run files are written.
	Output OutputConfig `json:"output" yaml:"output"`

	// Store configures the optional SQLite run index.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LatticeConfig describes the simulated grid.
type LatticeConfig struct {
	// Rows is the number of lattice rows.
	Rows int `json:"rows" yaml:"rows"`

	// Cols is the number of lattice columns.
	Cols int `json:"cols" yaml:"cols"`

	// InitialOrder is the starting order parameter in [-1, 1]; 0 is balanced.
	InitialOrder float64 `json:"initial_order" yaml:"initial_order"`

	// Stubborn is the number of sites that never change opinion.
	Stubborn int `json:"stubborn" yaml:"stubborn"`
}

// RunConfig controls the driver loop.
type RunConfig struct {
	// Sweeps is the number of sweeps; one sweep is rows*cols site updates.
	Sweeps int `json:"sweeps" yaml:"sweeps"`

	// Seed seeds the random source. 0 draws a fresh seed per run.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Animate rewrites Lattice.dat after every sweep instead of once at start.
	Animate bool `json:"animate" yaml:"animate"`

	// MaxLag bounds the autocorrelation function written at the end of a run.
	MaxLag int `json:"max_lag" yaml:"max_lag"`
}

// OutputConfig selects the output directory.
type OutputConfig struct {
	// Directory receives the run files. Empty means a timestamped directory.
	Directory string `json:"directory" yaml:"directory"`
}

// StoreConfig configures the SQLite run index.
type StoreConfig struct {
	// Enabled records runs and their samples in SQLite.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the database file. Empty means ~/.voter/runs.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures voter's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the per-sweep trace.jsonl in the output directory.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the standard simulation parameters.
func Default() *Config {
	return &Config{
		Lattice: LatticeConfig{
			Rows:         50,
			Cols:         50,
			InitialOrder: 0.0,
			Stubborn:     0,
		},
		Run: RunConfig{
			Sweeps: 10000,
			MaxLag: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the user configuration directory, ~/.voter.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".voter"), nil
}

// Path returns the default configuration file, ~/.voter/config.yaml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.voter/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	configPath, err := Path()
	if err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadPath loads configuration from path, falling back to Load when path is
// empty. Environment variables are applied in both cases.
func LoadPath(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys missing
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Output.Directory = os.ExpandEnv(config.Output.Directory)
	config.Store.Path = os.ExpandEnv(config.Store.Path)

	return config, nil
}

// Save writes the configuration as YAML to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Lattice.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", c.Lattice.Rows)
	}
	if c.Lattice.Cols <= 0 {
		return fmt.Errorf("cols must be positive, got %d", c.Lattice.Cols)
	}
	if math.IsNaN(c.Lattice.InitialOrder) || c.Lattice.InitialOrder < -1 || c.Lattice.InitialOrder > 1 {
		return fmt.Errorf("initial_order must be between -1 and 1, got %f", c.Lattice.InitialOrder)
	}
	if c.Lattice.Stubborn < 0 || c.Lattice.Stubborn > c.Lattice.Rows*c.Lattice.Cols {
		return fmt.Errorf("stubborn must be between 0 and %d, got %d", c.Lattice.Rows*c.Lattice.Cols, c.Lattice.Stubborn)
	}

	if c.Run.Sweeps <= 0 {
		return fmt.Errorf("sweeps must be positive, got %d", c.Run.Sweeps)
	}
	if c.Run.MaxLag < 0 {
		return fmt.Errorf("max_lag must be non-negative, got %d", c.Run.MaxLag)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Unparseable numeric values are ignored.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("VOTER_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Lattice.Rows = n
		}
	}
	if v := os.Getenv("VOTER_COLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Lattice.Cols = n
		}
	}
	if v := os.Getenv("VOTER_INITIAL_ORDER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Lattice.InitialOrder = f
		}
	}
	if v := os.Getenv("VOTER_STUBBORN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Lattice.Stubborn = n
		}
	}

	if v := os.Getenv("VOTER_SWEEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Run.Sweeps = n
		}
	}
	if v := os.Getenv("VOTER_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Run.Seed = n
		}
	}
	if v := os.Getenv("VOTER_ANIMATE"); v != "" {
		config.Run.Animate = v == "true" || v == "1"
	}

	if v := os.Getenv("VOTER_OUTPUT"); v != "" {
		config.Output.Directory = v
	}

	if v := os.Getenv("VOTER_STORE_PATH"); v != "" {
		config.Store.Enabled = true
		config.Store.Path = v
	}

	if v := os.Getenv("VOTER_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
