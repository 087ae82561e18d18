package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lotscan/lotscan/cache"
	"github.com/lotscan/lotscan/logger"
	"github.com/lotscan/lotscan/types"
)

func TestNewSchedulerInvalidSchedule(t *testing.T) {
	store := cache.NewMemoryCache(logger.NewNop(), nil)

	_, err := NewScheduler(logger.NewNop(), store, &types.MaintenanceConfig{
		SweepSchedule: "not a cron expression",
	})
	require.Error(t, err)
}

func TestNewSchedulerInvalidTimezone(t *testing.T) {
	store := cache.NewMemoryCache(logger.NewNop(), nil)

	// An unknown timezone falls back to UTC rather than failing.
	s, err := NewScheduler(logger.NewNop(), store, &types.MaintenanceConfig{
		SweepSchedule: "0 */5 * * * *",
		Timezone:      "Mars/Olympus_Mons",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestSchedulerStartStop(t *testing.T) {
	store := cache.NewMemoryCache(logger.NewNop(), nil)

	s, err := NewScheduler(logger.NewNop(), store, &types.MaintenanceConfig{
		SweepSchedule: "0 */5 * * * *",
	})
	require.NoError(t, err)

	require.False(t, s.IsRunning())
	require.NoError(t, s.Start())
	require.True(t, s.IsRunning())

	require.ErrorIs(t, s.Start(), types.ErrSchedulerRunning)

	require.NoError(t, s.Stop())
	require.False(t, s.IsRunning())

	require.ErrorIs(t, s.Stop(), types.ErrSchedulerStopped)
}

func TestSchedulerSweepRuns(t *testing.T) {
	store := cache.NewMemoryCache(logger.NewNop(), nil)
	require.NoError(t, store.Set("key", "value", time.Minute))

	// Every second, to observe at least one firing without a long wait.
	s, err := NewScheduler(logger.NewNop(), store, &types.MaintenanceConfig{
		SweepSchedule: "* * * * * *",
	})
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()

	time.Sleep(1500 * time.Millisecond)

	// The live entry survives the sweep.
	require.True(t, store.Has("key"))
}
