package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// signalWatcher remembers which signal interrupted the run so the exit
// code can be 128 plus that signal's number.
type signalWatcher struct {
	mu  sync.Mutex
	sig syscall.Signal
}

// watchSignals returns a context cancelled on SIGINT or SIGTERM and a
// watcher recording which of the two arrived.
func watchSignals(parent context.Context) (context.Context, context.CancelFunc, *signalWatcher) {
	ctx, cancel := context.WithCancel(parent)
	w := &signalWatcher{}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case s := <-ch:
			if sig, ok := s.(syscall.Signal); ok {
				w.mu.Lock()
				w.sig = sig
				w.mu.Unlock()
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel, w
}

// Received returns the number of the signal that cancelled the run.
// Falls back to SIGINT when cancellation did not come from a signal.
func (w *signalWatcher) Received() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sig == 0 {
		return int(syscall.SIGINT)
	}
	return int(w.sig)
}
