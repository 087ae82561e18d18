package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lotscan/lotscan/types"
)

// Scheduler runs periodic cache maintenance. The cache itself only evicts
// lazily on reads, so without sweeps a quiet process accumulates stale
// entries until the next lookup touches them.
type Scheduler struct {
	logger  types.Logger
	cache   types.Cache
	config  *types.MaintenanceConfig
	cron    *cron.Cron
	running int32
}

func NewScheduler(logger types.Logger, cache types.Cache, config *types.MaintenanceConfig) (*Scheduler, error) {
	if config == nil {
		config = &types.MaintenanceConfig{}
	}

	timezone := time.UTC
	if config.Timezone != "" {
		loc, err := time.LoadLocation(config.Timezone)
		if err != nil {
			logger.Warn("Invalid maintenance timezone, using UTC",
				zap.String("timezone", config.Timezone), zap.Error(err))
		} else {
			timezone = loc
		}
	}

	s := &Scheduler{
		logger: logger,
		cache:  cache,
		config: config,
		cron: cron.New(
			cron.WithLocation(timezone),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{logger: logger})),
		),
	}

	if config.SweepSchedule != "" {
		if _, err := s.cron.AddFunc(config.SweepSchedule, s.sweep); err != nil {
			return nil, types.WrapError(err, "invalid sweep schedule")
		}
	}

	if config.StatsSchedule != "" {
		if _, err := s.cron.AddFunc(config.StatsSchedule, s.logStats); err != nil {
			return nil, types.WrapError(err, "invalid stats schedule")
		}
	}

	return s, nil
}

func (s *Scheduler) Start() error {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return types.ErrSchedulerRunning
	}

	s.cron.Start()
	s.logger.Info("Maintenance scheduler started",
		zap.String("sweep_schedule", s.config.SweepSchedule))
	return nil
}

func (s *Scheduler) Stop() error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return types.ErrSchedulerStopped
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("Maintenance scheduler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Scheduler) sweep() {
	expired := s.cache.Sweep()
	if expired > 0 {
		s.logger.Debug("Scheduled cache sweep", zap.Int("expired_entries", expired))
	}
}

func (s *Scheduler) logStats() {
	stats := s.cache.Stats()
	s.logger.Info("Cache statistics",
		zap.Int("entries", stats.Entries),
		zap.Uint64("hits", stats.Hits),
		zap.Uint64("misses", stats.Misses),
		zap.Uint64("evictions", stats.Evictions))
}

type cronLogger struct {
	logger types.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
