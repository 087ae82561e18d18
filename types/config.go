package types

import (
	"time"
)

type ServiceConfig struct {
	Name        string             `yaml:"name" json:"name" validate:"required"`
	Version     string             `yaml:"version" json:"version" validate:"required"`
	Logger      *LoggerConfig      `yaml:"logger" json:"logger"`
	Cache       *CacheConfig       `yaml:"cache" json:"cache"`
	Scraper     *ScraperConfig     `yaml:"scraper" json:"scraper"`
	Metrics     *MetricsConfig     `yaml:"metrics" json:"metrics"`
	Maintenance *MaintenanceConfig `yaml:"maintenance" json:"maintenance"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
	File   string `yaml:"file" json:"file"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl" validate:"min=0"`
	MaxTTL     time.Duration `yaml:"max_ttl" json:"max_ttl" validate:"min=0"`
	MaxEntries int           `yaml:"max_entries" json:"max_entries" validate:"min=0"`
}

type ScraperConfig struct {
	Retriever       string            `yaml:"retriever" json:"retriever" validate:"oneof=http chrome"`
	RateInterval    time.Duration     `yaml:"rate_interval" json:"rate_interval" validate:"min=0"`
	RequestTimeout  time.Duration     `yaml:"request_timeout" json:"request_timeout" validate:"min=0"`
	Headers         map[string]string `yaml:"headers" json:"headers"`
	SearchPageSize  int               `yaml:"search_page_size" json:"search_page_size" validate:"min=1"`
	MaxSearchPages  int               `yaml:"max_search_pages" json:"max_search_pages" validate:"min=1"`
	ChromeHeadless  bool              `yaml:"chrome_headless" json:"chrome_headless"`
	ChromeUserAgent string            `yaml:"chrome_user_agent" json:"chrome_user_agent"`
	Breaker         *BreakerConfig    `yaml:"breaker" json:"breaker"`
}

type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled"`
	FailureThreshold int           `yaml:"failure_threshold" json:"failure_threshold" validate:"min=0"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout" json:"recovery_timeout" validate:"min=0"`
	HalfOpenRequests int           `yaml:"half_open_requests" json:"half_open_requests" validate:"min=0"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

type MaintenanceConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	SweepSchedule string `yaml:"sweep_schedule" json:"sweep_schedule" validate:"required_if=Enabled true"`
	StatsSchedule string `yaml:"stats_schedule" json:"stats_schedule"`
	Timezone      string `yaml:"timezone" json:"timezone"`
}
