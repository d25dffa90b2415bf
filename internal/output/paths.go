// Package output lays out a run directory and writes the flat text files a
// simulation produces.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File names inside a run directory.
const (
	LatticeFile         = "Lattice.dat"
	OrderParameterFile  = "OrderParameter.dat"
	AutoCorrelationFile = "AutoCorrelation.dat"
	InputFile           = "Input.txt"
	ResultsFile         = "Results.txt"
)

// TimestampLayout names default run directories.
const TimestampLayout = "2006-01-02_15-04-05"

// Timestamp formats t as a directory name.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// MakeDirectory creates path and any missing parents.
// Returns nil if the directory already exists.
func MakeDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", path, err)
	}
	return nil
}

// ResolveDirectory returns dir, or a timestamped directory name under the
// working directory when dir is empty.
func ResolveDirectory(dir string, now time.Time) string {
	if dir == "" {
		return Timestamp(now)
	}
	return filepath.Clean(dir)
}
