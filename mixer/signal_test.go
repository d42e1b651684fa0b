// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionSignal_States(t *testing.T) {
	t.Parallel()

	s := NewCompletionSignal(true)
	assert.True(t, s.IsSet())

	s.Clear()
	assert.False(t, s.IsSet())
	s.Clear()
	assert.False(t, s.IsSet())

	s.Set()
	assert.True(t, s.IsSet())
	s.Set()
	assert.True(t, s.IsSet())

	assert.False(t, NewCompletionSignal(false).IsSet())
}

func TestCompletionSignal_Wait(t *testing.T) {
	t.Parallel()

	s := NewCompletionSignal(true)
	assert.True(t, s.Wait(0))
	assert.True(t, s.Wait(time.Millisecond))

	s.Clear()
	start := time.Now()
	assert.False(t, s.Wait(20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestCompletionSignal_SetReleasesWaiters(t *testing.T) {
	t.Parallel()

	s := NewCompletionSignal(false)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.Wait(0)
		}()
	}

	time.Sleep(10 * time.Millisecond)
	s.Set()
	wg.Wait()

	for _, r := range results {
		assert.True(t, r)
	}
}

func TestCompletionSignal_WaitContext(t *testing.T) {
	t.Parallel()

	s := NewCompletionSignal(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, s.WaitContext(ctx))

	s.Set()
	assert.True(t, s.WaitContext(context.Background()))
}

func TestCompletionSignal_DoneSurvivesClear(t *testing.T) {
	t.Parallel()

	s := NewCompletionSignal(false)
	done := s.Done()

	// Clear while pending keeps the same channel, so an earlier waiter is
	// still released by the next Set.
	s.Clear()
	s.Set()

	select {
	case <-done:
	default:
		t.Fatal("waiter was not released")
	}
}
