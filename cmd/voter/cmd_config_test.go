package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCmd_SetGetList(t *testing.T) {
	home := isolateHome(t)

	out, err := execute(t, "config", "set", "run.sweeps", "1234")
	if err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if !strings.Contains(out, "Set run.sweeps = 1234") {
		t.Errorf("config set output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".voter", "config.yaml")); err != nil {
		t.Fatalf("config.yaml not written: %v", err)
	}

	out, err = execute(t, "config", "get", "run.sweeps")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "run.sweeps = 1234" {
		t.Errorf("config get output = %q", out)
	}

	out, err = execute(t, "config", "list")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	if !strings.Contains(out, "lattice.rows:") || !strings.Contains(out, "1234") {
		t.Errorf("config list output = %q", out)
	}

	out, err = execute(t, "config", "list", "--yaml")
	if err != nil {
		t.Fatalf("config list --yaml error = %v", err)
	}
	if !strings.Contains(out, "sweeps: 1234") {
		t.Errorf("config list --yaml output = %q", out)
	}
}

func TestConfigCmd_ExplicitPath(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(t.TempDir(), "alt.yaml")

	if _, err := execute(t, "config", "set", "lattice.rows", "9", "--config", path); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("explicit config file not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".voter", "config.yaml")); !os.IsNotExist(err) {
		t.Error("default config should be untouched when --config is given")
	}

	out, err := execute(t, "config", "get", "lattice.rows", "--config", path)
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "lattice.rows = 9" {
		t.Errorf("config get output = %q", out)
	}
}

func TestConfigCmd_EnvNotPersisted(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("VOTER_ROWS", "77")

	if _, err := execute(t, "config", "set", "run.sweeps", "5"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(home, ".voter", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "77") {
		t.Errorf("environment override leaked into config.yaml:\n%s", data)
	}
}

func TestConfigCmd_Errors(t *testing.T) {
	isolateHome(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown get key", []string{"config", "get", "nope"}},
		{"unknown set key", []string{"config", "set", "nope", "1"}},
		{"bad integer", []string{"config", "set", "lattice.rows", "many"}},
		{"fails validation", []string{"config", "set", "lattice.initial_order", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}
