//go:build !windows

package main

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestWatchSignals_InterruptCancels(t *testing.T) {
	ctx, stop := watchSignals(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after SIGINT")
	}
}
