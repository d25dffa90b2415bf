package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Lattice.Rows != 50 || config.Lattice.Cols != 50 {
		t.Errorf("expected 50x50 lattice, got %dx%d", config.Lattice.Rows, config.Lattice.Cols)
	}
	if config.Lattice.InitialOrder != 0 {
		t.Errorf("expected InitialOrder 0, got %f", config.Lattice.InitialOrder)
	}
	if config.Lattice.Stubborn != 0 {
		t.Errorf("expected Stubborn 0, got %d", config.Lattice.Stubborn)
	}
	if config.Run.Sweeps != 10000 {
		t.Errorf("expected Sweeps 10000, got %d", config.Run.Sweeps)
	}
	if config.Run.Animate {
		t.Error("expected Animate to be false by default")
	}
	if config.Run.MaxLag != 100 {
		t.Errorf("expected MaxLag 100, got %d", config.Run.MaxLag)
	}
	if config.Output.Directory != "" {
		t.Errorf("expected empty output directory, got %q", config.Output.Directory)
	}
	if config.Store.Enabled {
		t.Error("expected Store.Enabled to be false by default")
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
lattice:
  rows: 20
  cols: 30
  initial_order: -0.5
  stubborn: 4

run:
  sweeps: 250
  seed: 12345
  animate: true

store:
  enabled: true
  path: ${VOTER_TEST_DIR}/runs.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("VOTER_TEST_DIR", "/data")

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Lattice.Rows != 20 || config.Lattice.Cols != 30 {
		t.Errorf("expected 20x30 lattice, got %dx%d", config.Lattice.Rows, config.Lattice.Cols)
	}
	if config.Lattice.InitialOrder != -0.5 {
		t.Errorf("expected InitialOrder -0.5, got %f", config.Lattice.InitialOrder)
	}
	if config.Lattice.Stubborn != 4 {
		t.Errorf("expected Stubborn 4, got %d", config.Lattice.Stubborn)
	}
	if config.Run.Sweeps != 250 {
		t.Errorf("expected Sweeps 250, got %d", config.Run.Sweeps)
	}
	if config.Run.Seed != 12345 {
		t.Errorf("expected Seed 12345, got %d", config.Run.Seed)
	}
	if !config.Run.Animate {
		t.Error("expected Animate to be true")
	}
	// Keys absent from the file keep their defaults.
	if config.Run.MaxLag != 100 {
		t.Errorf("expected default MaxLag 100, got %d", config.Run.MaxLag)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected default Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if !config.Store.Enabled || config.Store.Path != "/data/runs.db" {
		t.Errorf("expected expanded store path /data/runs.db, got enabled=%v path=%q", config.Store.Enabled, config.Store.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOTER_ROWS", "12")
	t.Setenv("VOTER_COLS", "14")
	t.Setenv("VOTER_INITIAL_ORDER", "0.25")
	t.Setenv("VOTER_STUBBORN", "3")
	t.Setenv("VOTER_SWEEPS", "77")
	t.Setenv("VOTER_SEED", "9")
	t.Setenv("VOTER_ANIMATE", "1")
	t.Setenv("VOTER_OUTPUT", "out")
	t.Setenv("VOTER_STORE_PATH", "/tmp/runs.db")
	t.Setenv("VOTER_LOG_LEVEL", "debug")

	config := Default()
	applyEnvOverrides(config)

	if config.Lattice.Rows != 12 || config.Lattice.Cols != 14 {
		t.Errorf("expected 12x14, got %dx%d", config.Lattice.Rows, config.Lattice.Cols)
	}
	if config.Lattice.InitialOrder != 0.25 {
		t.Errorf("expected InitialOrder 0.25, got %f", config.Lattice.InitialOrder)
	}
	if config.Lattice.Stubborn != 3 {
		t.Errorf("expected Stubborn 3, got %d", config.Lattice.Stubborn)
	}
	if config.Run.Sweeps != 77 || config.Run.Seed != 9 || !config.Run.Animate {
		t.Errorf("unexpected run config: %+v", config.Run)
	}
	if config.Output.Directory != "out" {
		t.Errorf("expected Output.Directory 'out', got %q", config.Output.Directory)
	}
	if !config.Store.Enabled || config.Store.Path != "/tmp/runs.db" {
		t.Errorf("unexpected store config: %+v", config.Store)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("VOTER_ROWS", "many")
	t.Setenv("VOTER_SEED", "-1")

	config := Default()
	applyEnvOverrides(config)

	if config.Lattice.Rows != 50 {
		t.Errorf("expected Rows to stay 50, got %d", config.Lattice.Rows)
	}
	if config.Run.Seed != 0 {
		t.Errorf("expected Seed to stay 0, got %d", config.Run.Seed)
	}
}

func TestLoad_UsesHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VOTER_SWEEPS", "")

	if err := os.MkdirAll(filepath.Join(home, ".voter"), 0700); err != nil {
		t.Fatal(err)
	}
	content := "run:\n  sweeps: 42\n"
	if err := os.WriteFile(filepath.Join(home, ".voter", "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Run.Sweeps != 42 {
		t.Errorf("expected Sweeps 42 from home config, got %d", config.Run.Sweeps)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := Default()
	config.Lattice.Rows = 8
	config.Run.Seed = 31
	config.Store.Enabled = true
	if err := config.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Lattice.Rows != 8 || loaded.Run.Seed != 31 || !loaded.Store.Enabled {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestValidate_Valid(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero rows", func(c *Config) { c.Lattice.Rows = 0 }},
		{"negative cols", func(c *Config) { c.Lattice.Cols = -3 }},
		{"order above 1", func(c *Config) { c.Lattice.InitialOrder = 1.1 }},
		{"order below -1", func(c *Config) { c.Lattice.InitialOrder = -2 }},
		{"order NaN", func(c *Config) { c.Lattice.InitialOrder = math.NaN() }},
		{"negative stubborn", func(c *Config) { c.Lattice.Stubborn = -1 }},
		{"too many stubborn", func(c *Config) { c.Lattice.Stubborn = 2501 }},
		{"zero sweeps", func(c *Config) { c.Run.Sweeps = 0 }},
		{"negative max lag", func(c *Config) { c.Run.MaxLag = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	validLevels := []string{"", "info", "debug", "trace"}

	for _, level := range validLevels {
		t.Run(level, func(t *testing.T) {
			config := Default()
			config.Logging.Level = level
			if err := config.Validate(); err != nil {
				t.Errorf("expected log level '%s' to be valid, got error: %v", level, err)
			}
		})
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
lattice:
  rows: [invalid yaml
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestGetSet(t *testing.T) {
	config := Default()

	for _, key := range Keys {
		if _, ok := config.Get(key); !ok {
			t.Errorf("Get(%q) not found", key)
		}
	}

	sets := map[string]string{
		"lattice.rows":          "64",
		"lattice.initial_order": "0.3",
		"run.seed":              "17",
		"run.animate":           "true",
		"store.path":            "/x/runs.db",
		"logging.level":         "trace",
	}
	for key, value := range sets {
		if err := config.Set(key, value); err != nil {
			t.Errorf("Set(%q, %q) error: %v", key, value, err)
		}
	}

	if v, _ := config.Get("lattice.rows"); v != 64 {
		t.Errorf("lattice.rows = %v, want 64", v)
	}
	if v, _ := config.Get("lattice.initial_order"); v != 0.3 {
		t.Errorf("lattice.initial_order = %v, want 0.3", v)
	}
	if v, _ := config.Get("run.seed"); v != uint64(17) {
		t.Errorf("run.seed = %v, want 17", v)
	}
	if v, _ := config.Get("run.animate"); v != true {
		t.Errorf("run.animate = %v, want true", v)
	}
}

func TestSet_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"lattice.rows", "ten"},
		{"lattice.initial_order", "half"},
		{"run.seed", "-4"},
		{"run.max_lag", "1.5"},
		{"nope.key", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := Default().Set(tt.key, tt.value); err == nil {
				t.Errorf("expected error for Set(%q, %q)", tt.key, tt.value)
			}
		})
	}

	if _, ok := Default().Get("nope.key"); ok {
		t.Error("expected unknown key lookup to fail")
	}
}

func TestLoadPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	path := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(path, []byte("lattice:\n  rows: 12\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOTER_SWEEPS", "77")

	config, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath() error = %v", err)
	}
	if config.Lattice.Rows != 12 {
		t.Errorf("expected rows 12 from file, got %d", config.Lattice.Rows)
	}
	if config.Run.Sweeps != 77 {
		t.Errorf("expected sweeps 77 from env, got %d", config.Run.Sweeps)
	}

	config, err = LoadPath("")
	if err != nil {
		t.Fatalf("LoadPath(\"\") error = %v", err)
	}
	if config.Lattice.Rows != 50 {
		t.Errorf("expected default rows without a file, got %d", config.Lattice.Rows)
	}

	if _, err := LoadPath(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
