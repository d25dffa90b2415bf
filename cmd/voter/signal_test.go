package main

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

func TestWatchSignals_StopReleasesWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, stop := watchSignals(context.Background())
	if ctx.Err() != nil {
		t.Fatal("context cancelled before any signal")
	}
	stop()
	stop()
	if ctx.Err() == nil {
		t.Error("context should be cancelled after stop")
	}
}

func TestWatchSignals_ParentCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := watchSignals(parent)
	defer stop()

	cancel()
	<-ctx.Done()
}
