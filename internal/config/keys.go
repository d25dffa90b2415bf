package config

import (
	"fmt"
	"strconv"
)

// Keys lists every dot-notation key accepted by Get and Set, in display order.
var Keys = []string{
	"lattice.rows",
	"lattice.cols",
	"lattice.initial_order",
	"lattice.stubborn",
	"run.sweeps",
	"run.seed",
	"run.animate",
	"run.max_lag",
	"output.directory",
	"store.enabled",
	"store.path",
	"logging.level",
}

// Get retrieves a configuration value by dot-notation key.
func (c *Config) Get(key string) (interface{}, bool) {
	switch key {
	case "lattice.rows":
		return c.Lattice.Rows, true
	case "lattice.cols":
		return c.Lattice.Cols, true
	case "lattice.initial_order":
		return c.Lattice.InitialOrder, true
	case "lattice.stubborn":
		return c.Lattice.Stubborn, true
	case "run.sweeps":
		return c.Run.Sweeps, true
	case "run.seed":
		return c.Run.Seed, true
	case "run.animate":
		return c.Run.Animate, true
	case "run.max_lag":
		return c.Run.MaxLag, true
	case "output.directory":
		return c.Output.Directory, true
	case "store.enabled":
		return c.Store.Enabled, true
	case "store.path":
		return c.Store.Path, true
	case "logging.level":
		return c.Logging.Level, true
	default:
		return nil, false
	}
}

// Set sets a configuration value by dot-notation key. The result is not
// validated as a whole; call Validate afterwards.
func (c *Config) Set(key, value string) error {
	switch key {
	case "lattice.rows":
		return setInt(&c.Lattice.Rows, key, value)
	case "lattice.cols":
		return setInt(&c.Lattice.Cols, key, value)
	case "lattice.initial_order":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %s (must be a number between -1 and 1)", key, value)
		}
		c.Lattice.InitialOrder = f
	case "lattice.stubborn":
		return setInt(&c.Lattice.Stubborn, key, value)
	case "run.sweeps":
		return setInt(&c.Run.Sweeps, key, value)
	case "run.seed":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %s (must be a non-negative integer)", key, value)
		}
		c.Run.Seed = n
	case "run.animate":
		c.Run.Animate = value == "true" || value == "1"
	case "run.max_lag":
		return setInt(&c.Run.MaxLag, key, value)
	case "output.directory":
		c.Output.Directory = value
	case "store.enabled":
		c.Store.Enabled = value == "true" || value == "1"
	case "store.path":
		c.Store.Path = value
	case "logging.level":
		c.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %s (must be an integer)", key, value)
	}
	*dst = n
	return nil
}
