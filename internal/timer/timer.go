// Package timer measures wall-clock run time.
package timer

import "time"

// Timer records a start instant. The zero value is not usable; call Start.
type Timer struct {
	start time.Time
	now   func() time.Time
}

// Start returns a running timer.
func Start() *Timer {
	return startWith(time.Now)
}

func startWith(now func() time.Time) *Timer {
	return &Timer{start: now(), now: now}
}

// Elapsed returns the time since Start or the last Reset.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Reset restarts the timer.
func (t *Timer) Reset() {
	t.start = t.now()
}
