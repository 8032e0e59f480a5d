// Package notify provides a coalescing change signal.
//
// A [Signal] never blocks the notifier: pending notifications collapse
// into one, so a slow receiver sees at most one wake-up per burst and
// re-reads the current state.
package notify

import "sync"

type Signal struct {
	mu     sync.Mutex
	ch     chan struct{}
	closed bool
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify wakes the receiver. No-op after Close.
func (s *Signal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the channel to wait on. It is closed by Close.
func (s *Signal) C() <-chan struct{} {
	return s.ch
}

func (s *Signal) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
