// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"sync/atomic"
	"time"
)

// CompletionSignal is a binary event: finished or pending. Waiters never
// take a lock; Set and Clear must be serialized by the caller, which the
// Mixer does with its registry lock.
type CompletionSignal struct {
	ch atomic.Pointer[chan struct{}]
}

// NewCompletionSignal returns a signal that starts finished when set is
// true.
func NewCompletionSignal(set bool) *CompletionSignal {
	s := &CompletionSignal{}
	ch := make(chan struct{})
	if set {
		close(ch)
	}
	s.ch.Store(&ch)
	return s
}

// Done returns a channel that is closed while the signal is set. A channel
// obtained while pending is closed by the next Set.
func (s *CompletionSignal) Done() <-chan struct{} {
	return *s.ch.Load()
}

func (s *CompletionSignal) IsSet() bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

// Set marks the signal finished and releases every waiter.
func (s *CompletionSignal) Set() {
	ch := *s.ch.Load()
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// Clear marks the signal pending. It is a no-op when already pending.
func (s *CompletionSignal) Clear() {
	if !s.IsSet() {
		return
	}
	ch := make(chan struct{})
	s.ch.Store(&ch)
}

// Wait blocks until the signal is set or timeout elapses and reports
// whether it was set. A timeout <= 0 waits forever.
func (s *CompletionSignal) Wait(timeout time.Duration) bool {
	done := s.Done()
	if timeout <= 0 {
		<-done
		return true
	}

	select {
	case <-done:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// WaitContext blocks until the signal is set or ctx is done.
func (s *CompletionSignal) WaitContext(ctx context.Context) bool {
	select {
	case <-s.Done():
		return true
	case <-ctx.Done():
		return false
	}
}
