package fetch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lotscan/lotscan/types"
)

type breakerState int32

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// BreakerRetriever wraps a retriever with a circuit breaker. Marketplace
// origins answer sustained overload with rate-limit and gateway errors;
// once the threshold of consecutive failures is reached the breaker opens
// and requests fail fast until the recovery timeout passes, after which a
// limited number of probes decide whether to close again.
type BreakerRetriever struct {
	logger    types.Logger
	inner     types.DocumentRetriever
	config    *types.BreakerConfig
	mu        sync.Mutex
	state     breakerState
	failures  int
	successes int
	openedAt  time.Time
}

func NewBreakerRetriever(logger types.Logger, inner types.DocumentRetriever, config *types.BreakerConfig) *BreakerRetriever {
	if config == nil {
		config = &types.BreakerConfig{}
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.HalfOpenRequests <= 0 {
		config.HalfOpenRequests = 2
	}

	return &BreakerRetriever{
		logger: logger,
		inner:  inner,
		config: config,
	}
}

func (b *BreakerRetriever) Retrieve(ctx context.Context, url string, headers map[string]string) (int, []byte, error) {
	if !b.allow() {
		return 0, nil, types.Errorf(types.ErrBreakerOpen, "url: %s", url)
	}

	status, body, err := b.inner.Retrieve(ctx, url, headers)

	if isBreakerFailure(status, err) {
		b.recordFailure()
	} else {
		b.recordSuccess()
	}

	return status, body, err
}

// Close releases the wrapped retriever's resources, when it holds any.
func (b *BreakerRetriever) Close() {
	if closer, ok := b.inner.(interface{ Close() }); ok {
		closer.Close()
	}
}

// State reports the breaker state for diagnostics.
func (b *BreakerRetriever) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

func (b *BreakerRetriever) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed, breakerHalfOpen:
		return true
	case breakerOpen:
		if time.Since(b.openedAt) > b.config.RecoveryTimeout {
			b.state = breakerHalfOpen
			b.successes = 0
			b.logger.Info("Circuit breaker transitioned to half-open")
			return true
		}
		return false
	}
	return true
}

func (b *BreakerRetriever) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		b.failures = 0
	case breakerHalfOpen:
		b.successes++
		if b.successes >= b.config.HalfOpenRequests {
			b.state = breakerClosed
			b.failures = 0
			b.successes = 0
			b.logger.Info("Circuit breaker closed")
		}
	}
}

func (b *BreakerRetriever) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.open()
		}
	case breakerHalfOpen:
		b.open()
	}
}

func (b *BreakerRetriever) open() {
	b.state = breakerOpen
	b.openedAt = time.Now()
	b.successes = 0
	b.logger.Warn("Circuit breaker opened",
		zap.Int("failures", b.failures),
		zap.Int("threshold", b.config.FailureThreshold))
}

// isBreakerFailure counts transport errors and overload statuses against the
// threshold. Ordinary 4xx answers are the origin working as intended.
func isBreakerFailure(status int, err error) bool {
	if err != nil {
		return true
	}
	switch status {
	case 408, 429, 502, 503, 504:
		return true
	default:
		return false
	}
}
