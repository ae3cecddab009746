package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultAPIBaseURL is TheMealDB's public v1 endpoint (test key "1").
const DefaultAPIBaseURL = "https://www.themealdb.com/api/json/v1/1"

// Config holds application configuration.
type Config struct {
	// APIBaseURL is the recipe API root; endpoint paths such as
	// "/search.php" are appended to it.
	APIBaseURL string `json:"api_base_url,omitempty"`

	// HTTPTimeoutSeconds bounds each outbound API request.
	HTTPTimeoutSeconds int `json:"http_timeout_seconds,omitempty"`

	// EnrichLimit caps how many summaries are looked up by id per strategy.
	EnrichLimit int `json:"enrich_limit,omitempty"`

	// MaxConcurrentLookups bounds in-flight lookup-by-id requests during
	// enrichment. A value >= EnrichLimit issues the whole batch at once.
	MaxConcurrentLookups int `json:"max_concurrent_lookups,omitempty"`

	// RequestsPerSecond throttles outbound API calls. 0 means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`

	// StrictEnrichment makes a single failed lookup abort the whole search.
	// When false, failed lookups are dropped like "not found" entries.
	StrictEnrichment bool `json:"strict_enrichment,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:           DefaultAPIBaseURL,
		HTTPTimeoutSeconds:   10,
		EnrichLimit:          24,
		MaxConcurrentLookups: 24,
		LogLevel:             "info",
	}
}

// HTTPTimeout returns the per-request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.mealfind.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.APIBaseURL = strings.TrimRight(strings.TrimSpace(overlay.APIBaseURL), "/")
	if result.APIBaseURL == "" {
		result.APIBaseURL = base.APIBaseURL
	}

	result.HTTPTimeoutSeconds = overlay.HTTPTimeoutSeconds
	if result.HTTPTimeoutSeconds <= 0 {
		result.HTTPTimeoutSeconds = base.HTTPTimeoutSeconds
	}

	result.EnrichLimit = overlay.EnrichLimit
	if result.EnrichLimit <= 0 {
		result.EnrichLimit = base.EnrichLimit
	}

	result.MaxConcurrentLookups = overlay.MaxConcurrentLookups
	if result.MaxConcurrentLookups <= 0 {
		result.MaxConcurrentLookups = base.MaxConcurrentLookups
	}

	result.RequestsPerSecond = overlay.RequestsPerSecond
	if result.RequestsPerSecond <= 0 {
		result.RequestsPerSecond = base.RequestsPerSecond
	}

	result.LogLevel = strings.TrimSpace(overlay.LogLevel)
	if result.LogLevel == "" {
		result.LogLevel = base.LogLevel
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.StrictEnrichment = base.StrictEnrichment || overlay.StrictEnrichment

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
