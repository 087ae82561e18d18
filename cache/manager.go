package cache

import (
	"time"

	"github.com/lotscan/lotscan/types"
)

// NewCache builds the memory cache and, when metrics are available, wraps
// it in the instrumented decorator.
func NewCache(logger types.Logger, config *types.CacheConfig, metrics types.MetricsManager) types.Cache {
	impl := NewMemoryCache(logger, config)
	if metrics == nil {
		return impl
	}
	return newInstrumentedCache(metrics, impl)
}

type instrumentedCache struct {
	impl    types.Cache
	metrics types.MetricsManager
}

func newInstrumentedCache(metrics types.MetricsManager, impl types.Cache) types.Cache {
	return &instrumentedCache{
		impl:    impl,
		metrics: metrics,
	}
}

func (ic *instrumentedCache) Get(key string) (interface{}, bool) {
	start := time.Now()
	value, exists := ic.impl.Get(key)
	duration := time.Since(start)

	result := "miss"
	if exists {
		result = "hit"
	}

	ic.recordMetric("get", result, duration)
	return value, exists
}

func (ic *instrumentedCache) Set(key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := ic.impl.Set(key, value, ttl)
	duration := time.Since(start)

	result := "success"
	if err != nil {
		result = "error"
	}

	ic.recordMetric("set", result, duration)
	return err
}

func (ic *instrumentedCache) Has(key string) bool {
	return ic.impl.Has(key)
}

func (ic *instrumentedCache) Delete(key string) bool {
	start := time.Now()
	existed := ic.impl.Delete(key)
	ic.recordMetric("delete", "success", time.Since(start))
	return existed
}

func (ic *instrumentedCache) Clear() {
	ic.impl.Clear()
	ic.recordMetric("clear", "success", 0)
}

func (ic *instrumentedCache) Size() int {
	return ic.impl.Size()
}

func (ic *instrumentedCache) Sweep() int {
	start := time.Now()
	expired := ic.impl.Sweep()
	ic.recordMetric("sweep", "success", time.Since(start))
	return expired
}

func (ic *instrumentedCache) GenerateKey(params map[string]interface{}) string {
	return ic.impl.GenerateKey(params)
}

func (ic *instrumentedCache) Stats() types.CacheStats {
	return ic.impl.Stats()
}

func (ic *instrumentedCache) recordMetric(operation, result string, duration time.Duration) {
	opCounter := ic.metrics.Counter("cache_operations_total", map[string]string{
		"operation": operation,
		"result":    result,
	})
	opCounter.Inc()

	opDuration := ic.metrics.Histogram("cache_operation_duration_seconds",
		[]float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		map[string]string{"operation": operation},
	)
	opDuration.Observe(duration.Seconds())
}
