package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/voter/internal/samples"
)

func writeSeriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "OrderParameter.dat")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	isolateHome(t)
	path := writeSeriesFile(t, "0 1\n1 2\n2 3\n3 4\n")

	out, err := execute(t, "analyze", path, "--max-lag", "3", "--json")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	var got struct {
		Samples         int       `json:"samples"`
		FinalOrder      float64   `json:"final_order"`
		Mean            float64   `json:"mean"`
		Error           *float64  `json:"error"`
		AutoCorrelation []float64 `json:"autocorrelation"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got.Samples != 4 || got.Mean != 2.5 || got.FinalOrder != 4 {
		t.Errorf("analyze = %+v", got)
	}
	if got.Error == nil || math.Abs(*got.Error-math.Sqrt(1.25/3)) > 1e-12 {
		t.Errorf("error = %v, want sqrt(1.25/3)", got.Error)
	}
	want := []float64{1, -0.2, -0.6}
	if len(got.AutoCorrelation) != len(want) {
		t.Fatalf("autocorrelation = %v, want %v", got.AutoCorrelation, want)
	}
	for i := range want {
		if math.Abs(got.AutoCorrelation[i]-want[i]) > 1e-12 {
			t.Errorf("autocorrelation[%d] = %v, want %v", i, got.AutoCorrelation[i], want[i])
		}
	}
}

func TestAnalyzeCmd_Truncated(t *testing.T) {
	series := samples.FromValues([]float64{1, 2, 3, 4})
	a := analyzeSeries(series, 2, true)
	if a.acErr != nil {
		t.Fatalf("analyzeSeries() acErr = %v", a.acErr)
	}
	if len(a.autoCorrelation) != 2 || math.Abs(a.autoCorrelation[1]-1.0/3) > 1e-12 {
		t.Errorf("truncated autocorrelation = %v, want [1 1/3]", a.autoCorrelation)
	}
}

func TestAnalyzeCmd_Text(t *testing.T) {
	isolateHome(t)
	path := writeSeriesFile(t, "0 0.5\n1 -0.5\n")

	out, err := execute(t, "analyze", path, "--max-lag", "5")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	for _, fragment := range []string{"Results...", "Mean-Order: ", "Auto-Correlation...", "0 1\n", "1 -1\n"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("analyze output missing %q:\n%s", fragment, out)
		}
	}
}

func TestAnalyzeCmd_ConstantSeries(t *testing.T) {
	isolateHome(t)
	path := writeSeriesFile(t, "0 1\n1 1\n2 1\n")

	out, err := execute(t, "analyze", path)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	if !strings.Contains(out, "Auto-Correlation: undefined") {
		t.Errorf("expected undefined autocorrelation for a constant series:\n%s", out)
	}
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	isolateHome(t)

	if _, err := execute(t, "analyze", filepath.Join(t.TempDir(), "missing.dat")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := execute(t, "analyze", writeSeriesFile(t, "0 1\n2 1\n")); err == nil {
		t.Error("expected error for a skipped index")
	}
	if _, err := execute(t, "analyze", writeSeriesFile(t, "0 1\n"), "--max-lag", "-2"); err == nil {
		t.Error("expected error for a negative max lag")
	}
	if _, err := execute(t, "analyze"); err == nil {
		t.Error("expected error without a file argument")
	}
}
