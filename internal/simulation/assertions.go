package simulation

import (
	"math"
	"os"
	"testing"

	"github.com/nvandessel/voter/internal/samples"
)

// AssertOrderBounded asserts that every recorded order parameter lies in
// [-1, 1].
func AssertOrderBounded(t *testing.T, result Result) {
	t.Helper()
	for i, m := range result.Series.Values() {
		if m < -1 || m > 1 || math.IsNaN(m) {
			t.Errorf("AssertOrderBounded: sweep %d: order parameter %v outside [-1, 1]", i, m)
		}
	}
}

// AssertSeriesEqual asserts that two series hold bit-identical values.
func AssertSeriesEqual(t *testing.T, got, want *samples.Series) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("AssertSeriesEqual: length %d, want %d", got.Len(), want.Len())
	}
	g, w := got.Values(), want.Values()
	for i := range w {
		if math.Float64bits(g[i]) != math.Float64bits(w[i]) {
			t.Errorf("AssertSeriesEqual: sample %d = %v, want %v", i, g[i], w[i])
		}
	}
}

// AssertSeriesFile asserts that the "<sweep> <value>" file at path holds
// exactly the result's series.
func AssertSeriesFile(t *testing.T, result Result, path string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("AssertSeriesFile: %v", err)
	}
	defer f.Close()

	stored := samples.New(result.Series.Len())
	if _, err := stored.ReadFrom(f); err != nil {
		t.Fatalf("AssertSeriesFile: reading %s: %v", path, err)
	}
	AssertSeriesEqual(t, stored, result.Series)
}

// AssertAutoCorrelationNormalized asserts that the autocorrelation starts
// at 1 and never leaves [-1, 1].
func AssertAutoCorrelationNormalized(t *testing.T, result Result) {
	t.Helper()
	ac := result.AutoCorrelation
	if len(ac) == 0 {
		return
	}
	if math.Abs(ac[0]-1) > 1e-12 {
		t.Errorf("AssertAutoCorrelationNormalized: lag 0 = %v, want 1", ac[0])
	}
	for lag, v := range ac {
		if math.Abs(v) > 1+1e-12 {
			t.Errorf("AssertAutoCorrelationNormalized: lag %d = %v outside [-1, 1]", lag, v)
		}
	}
}
