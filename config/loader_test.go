package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lotscan/lotscan/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
name: lotscan
version: "1.2.0"
logger:
  level: debug
  format: json
  output: stderr
cache:
  max_entries: 500
scraper:
  retriever: chrome
  search_page_size: 50
  max_search_pages: 2
`)

	config, err := NewLoader().LoadFromFile(path)
	require.NoError(t, err)

	require.Equal(t, "lotscan", config.Name)
	require.Equal(t, "1.2.0", config.Version)
	require.Equal(t, "debug", config.Logger.Level)
	require.Equal(t, "json", config.Logger.Format)
	require.Equal(t, 500, config.Cache.MaxEntries)
	require.Equal(t, "chrome", config.Scraper.Retriever)
	require.Equal(t, 50, config.Scraper.SearchPageSize)
	// Durations omitted from the file keep their defaults.
	require.Equal(t, 30*time.Minute, config.Cache.DefaultTTL)
	require.Equal(t, time.Second, config.Scraper.RateInterval)
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
name: lotscan
version: dev
`)

	config, err := NewLoader().LoadFromFile(path)
	require.NoError(t, err)

	// Omitted sections keep their defaults.
	require.Equal(t, 30*time.Minute, config.Cache.DefaultTTL)
	require.Equal(t, 24*time.Hour, config.Cache.MaxTTL)
	require.Equal(t, "http", config.Scraper.Retriever)
	require.Equal(t, time.Second, config.Scraper.RateInterval)
	require.True(t, config.Metrics.Enabled)
	require.False(t, config.Maintenance.Enabled)
}

func TestLoadFromFileEmptyPath(t *testing.T) {
	_, err := NewLoader().LoadFromFile("")
	require.ErrorIs(t, err, types.ErrConfigNotFound)
}

func TestLoadFromFileMissingFile(t *testing.T) {
	_, err := NewLoader().LoadFromFile("/nonexistent/config.yml")
	require.Error(t, err)
}

func TestLoadFromFileMalformedYAML(t *testing.T) {
	path := writeConfig(t, "name: [unclosed")

	_, err := NewLoader().LoadFromFile(path)
	require.ErrorIs(t, err, types.ErrConfigParseFailed)
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown retriever",
			content: `
name: lotscan
version: dev
scraper:
  retriever: selenium
`,
		},
		{
			name: "maintenance enabled without schedule",
			content: `
name: lotscan
version: dev
maintenance:
  enabled: true
  sweep_schedule: ""
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadFromFile(writeConfig(t, tt.content))
			require.ErrorIs(t, err, types.ErrConfigValidateFailed)
		})
	}
}

func TestDefaults(t *testing.T) {
	config := Defaults()

	require.NotNil(t, config.Logger)
	require.NotNil(t, config.Cache)
	require.NotNil(t, config.Scraper)
	require.NotNil(t, config.Metrics)
	require.NotNil(t, config.Maintenance)
	require.Equal(t, "http", config.Scraper.Retriever)
}
