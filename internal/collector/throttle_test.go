package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_ZeroDelayNeverWaits(t *testing.T) {
	th := NewThrottle(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestThrottle_SpacesCalls(t *testing.T) {
	th := NewThrottle(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestThrottle_Cancelled(t *testing.T) {
	th := NewThrottle(time.Hour)
	require.NoError(t, th.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, th.Wait(ctx), context.DeadlineExceeded)
}
