package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// watchSignals returns a context that is cancelled on the first interrupt.
// The returned stop function releases the handler and waits for the watcher
// goroutine to exit.
func watchSignals(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	notifySignals(ch)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ch:
			cancel()
		case <-done:
		case <-parent.Done():
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
			wg.Wait()
			cancel()
		})
	}
}
