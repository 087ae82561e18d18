package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lotscan/lotscan/types"
)

type Loader struct {
	validator *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (l *Loader) LoadFromFile(configPath string) (*types.ServiceConfig, error) {
	if configPath == "" {
		return nil, types.ErrConfigNotFound
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, types.WrapError(err, "file not found: "+configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, types.WrapError(err, "failed to read config file")
	}

	config := Defaults()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, types.Errorf(types.ErrConfigParseFailed, "%v", err)
	}

	if err := l.validator.Struct(config); err != nil {
		return nil, types.Errorf(types.ErrConfigValidateFailed, "%v", err)
	}

	return config, nil
}

func Defaults() *types.ServiceConfig {
	return &types.ServiceConfig{
		Name:    "lotscan",
		Version: "dev",
		Logger: &types.LoggerConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Cache: &types.CacheConfig{
			DefaultTTL: 30 * time.Minute,
			MaxTTL:     24 * time.Hour,
			MaxEntries: 10000,
		},
		Scraper: &types.ScraperConfig{
			Retriever:      "http",
			RateInterval:   time.Second,
			RequestTimeout: 30 * time.Second,
			SearchPageSize: 25,
			MaxSearchPages: 4,
			ChromeHeadless: true,
			Breaker: &types.BreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				RecoveryTimeout:  30 * time.Second,
				HalfOpenRequests: 2,
			},
		},
		Metrics: &types.MetricsConfig{
			Enabled:   true,
			Namespace: "lotscan",
		},
		Maintenance: &types.MaintenanceConfig{
			Enabled:       false,
			SweepSchedule: "0 */5 * * * *",
			Timezone:      "UTC",
		},
	}
}
