package collector

import (
	"context"
	"sync"
	"time"
)

// Throttle spaces out outgoing requests
type Throttle interface {
	Wait(ctx context.Context) error
}

// minDelayThrottle enforces a minimum delay between consecutive calls
type minDelayThrottle struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time
}

// NewThrottle creates a throttle. A zero delay never waits.
func NewThrottle(minDelay time.Duration) Throttle {
	return &minDelayThrottle{minDelay: minDelay}
}

// Wait blocks until minDelay has passed since the previous call
func (t *minDelayThrottle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	elapsed := time.Since(t.lastCall)
	if t.minDelay > 0 && elapsed < t.minDelay {
		timer := time.NewTimer(t.minDelay - elapsed)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	t.lastCall = time.Now()
	return nil
}
