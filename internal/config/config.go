package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Search log backends.
const (
	SearchLogStream = "stream"
	SearchLogRing   = "ring"
)

// Config holds the memorialdex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Search    SearchConfig    `yaml:"search"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Feed      FeedConfig      `yaml:"feed"`
	SearchLog SearchLogConfig `yaml:"search_log"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Keys guard the analytics routes only.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds content store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig tunes ranked search.
type SearchConfig struct {
	PrefixBoost   float64 `yaml:"prefix_boost"`
	SnippetRadius int     `yaml:"snippet_radius"`
}

// SuggestConfig tunes query suggestions.
type SuggestConfig struct {
	ScanLimit int `yaml:"scan_limit"` // visible memorials scanned per request
}

// FeedConfig tunes the obituary feed.
type FeedConfig struct {
	ScanLimit        int     `yaml:"scan_limit"`
	MaxDistanceMiles float64 `yaml:"max_distance_miles"`
}

// SearchLogConfig holds search log persistence settings.
type SearchLogConfig struct {
	Backend        string `yaml:"backend"` // stream (default) | ring
	QueueSize      int    `yaml:"queue_size"`
	Workers        int    `yaml:"workers"`
	Attempts       uint   `yaml:"attempts"`
	RetryDelayMs   int    `yaml:"retry_delay_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
	StreamMaxLen   int64  `yaml:"stream_max_len"`
	ReadBatch      int64  `yaml:"read_batch"`
	RingCapacity   int    `yaml:"ring_capacity"`
}

// AnalyticsConfig tunes search analytics.
type AnalyticsConfig struct {
	MaxEntries int `yaml:"max_entries"` // log entries read per report
}

// RateLimitRule is the limit of one route group.
type RateLimitRule struct {
	Requests  int64 `yaml:"requests"`
	WindowSec int   `yaml:"window_sec"`
}

// Window returns the rule window as a duration.
func (r RateLimitRule) Window() time.Duration {
	return time.Duration(r.WindowSec) * time.Second
}

// RateLimitConfig holds per-route-group request limits.
type RateLimitConfig struct {
	Enabled bool                     `yaml:"enabled"`
	Action  string                   `yaml:"action"` // "reject" (default) | "warn"
	Groups  map[string]RateLimitRule `yaml:"groups"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes a YAML document, expands ${VAR} references, applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.PrefixBoost == 0 {
		c.Search.PrefixBoost = 0.1
	}
	if c.Search.SnippetRadius <= 0 {
		c.Search.SnippetRadius = 60
	}
	if c.Suggest.ScanLimit <= 0 {
		c.Suggest.ScanLimit = 500
	}
	if c.Feed.ScanLimit <= 0 {
		c.Feed.ScanLimit = 500
	}
	if c.Feed.MaxDistanceMiles <= 0 {
		c.Feed.MaxDistanceMiles = 100
	}
	if c.SearchLog.Backend == "" {
		c.SearchLog.Backend = SearchLogStream
	}
	if c.SearchLog.QueueSize <= 0 {
		c.SearchLog.QueueSize = 1024
	}
	if c.SearchLog.Workers <= 0 {
		c.SearchLog.Workers = 2
	}
	if c.SearchLog.Attempts == 0 {
		c.SearchLog.Attempts = 3
	}
	if c.SearchLog.RetryDelayMs <= 0 {
		c.SearchLog.RetryDelayMs = 50
	}
	if c.SearchLog.WriteTimeoutMs <= 0 {
		c.SearchLog.WriteTimeoutMs = 2000
	}
	if c.SearchLog.StreamMaxLen <= 0 {
		c.SearchLog.StreamMaxLen = 1_000_000
	}
	if c.SearchLog.ReadBatch <= 0 {
		c.SearchLog.ReadBatch = 1000
	}
	if c.SearchLog.RingCapacity <= 0 {
		c.SearchLog.RingCapacity = 10_000
	}
	if c.Analytics.MaxEntries <= 0 {
		c.Analytics.MaxEntries = 100_000
	}
	if c.RateLimit.Action == "" {
		c.RateLimit.Action = "reject"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "memorialdex:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.PrefixBoost < 0 || c.Search.PrefixBoost > 1 {
		return fmt.Errorf("search.prefix_boost must be between 0 and 1, got %g", c.Search.PrefixBoost)
	}
	switch c.SearchLog.Backend {
	case SearchLogStream, SearchLogRing:
	default:
		return fmt.Errorf("search_log.backend must be %q or %q, got %q",
			SearchLogStream, SearchLogRing, c.SearchLog.Backend)
	}
	switch c.RateLimit.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf("rate_limit.action must be \"warn\" or \"reject\", got %q", c.RateLimit.Action)
	}
	for name, g := range c.RateLimit.Groups {
		if g.Requests <= 0 || g.WindowSec <= 0 {
			return fmt.Errorf("rate_limit.groups.%s: requests and window_sec must be positive", name)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
