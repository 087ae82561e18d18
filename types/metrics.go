package types

import (
	"time"
)

type MetricsManager interface {
	Counter(name string, labels map[string]string) Counter
	Histogram(name string, buckets []float64, labels map[string]string) Histogram
	Gather() ([]byte, error)
}

type Counter interface {
	Inc()
	Add(value float64)
}

type Histogram interface {
	Observe(value float64)
	ObserveDuration(start time.Time)
}
