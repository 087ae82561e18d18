package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterDefaultsInterval(t *testing.T) {
	l := NewLimiter(0)
	require.Equal(t, DefaultInterval, l.Interval())

	l = NewLimiter(250 * time.Millisecond)
	require.Equal(t, 250*time.Millisecond, l.Interval())
}

func TestLimiterFirstCallImmediate(t *testing.T) {
	l := NewLimiter(time.Second)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiterSpacesSequentialCalls(t *testing.T) {
	interval := 50 * time.Millisecond
	l := NewLimiter(interval)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}

	// Three admissions need at least two intervals of spacing.
	require.GreaterOrEqual(t, time.Since(start), 2*interval)
}

func TestLimiterSerializesConcurrentCallers(t *testing.T) {
	interval := 30 * time.Millisecond
	l := NewLimiter(interval)

	const callers = 4
	times := make([]time.Time, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = l.Wait(context.Background())
			times[i] = time.Now()
		}()
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}

	for i := 0; i < callers; i++ {
		for j := i + 1; j < callers; j++ {
			gap := times[j].Sub(times[i])
			if gap < 0 {
				gap = -gap
			}
			// Allow a small scheduling tolerance.
			require.GreaterOrEqual(t, gap, interval-5*time.Millisecond,
				"admissions %d and %d closer than the interval", i, j)
		}
	}
}

func TestLimiterCancelledContext(t *testing.T) {
	l := NewLimiter(time.Hour)

	// Consume the immediate slot so the next Wait must block.
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
}
