package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/lotscan/lotscan/types"
)

const DefaultInterval = time.Second

// Limiter spaces outbound requests so that no two proceed within the
// configured interval of each other. Concurrent callers serialize through a
// single shared watermark; there is no FIFO fairness guarantee. The interval
// is deliberately conservative because it fronts a rate-limit-sensitive
// origin.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Limiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the caller may proceed. A cancelled context releases
// the reservation, so an abandoned wait never consumes the shared slot.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return types.WrapError(err, "rate limiter wait interrupted")
	}
	return nil
}

// Interval reports the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
