package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the run index file name.
const DefaultFileName = "runs.db"

// GlobalPath returns the path to the shared run index.
// On Unix: ~/.voter/runs.db
// On Windows: %USERPROFILE%\.voter\runs.db
func GlobalPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".voter", DefaultFileName), nil
}

// ResolvePath returns path, or GlobalPath when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return GlobalPath()
}
