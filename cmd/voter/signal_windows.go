//go:build windows

package main

import (
	"os"
	"os/signal"
)

// notifySignals routes the signals that stop a run early to ch.
// Windows delivers only os.Interrupt (Ctrl+C).
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
