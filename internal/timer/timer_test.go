package timer

import (
	"testing"
	"time"
)

func TestTimer(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	tm := startWith(now)
	clock = clock.Add(1500 * time.Millisecond)
	if got := tm.Elapsed(); got != 1500*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 1.5s", got)
	}

	tm.Reset()
	clock = clock.Add(time.Second)
	if got := tm.Elapsed(); got != time.Second {
		t.Errorf("Elapsed() after Reset = %v, want 1s", got)
	}
}

func TestStart(t *testing.T) {
	tm := Start()
	if tm.Elapsed() < 0 {
		t.Error("Elapsed() is negative")
	}
}
