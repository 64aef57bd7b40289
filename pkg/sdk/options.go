package memorialdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix string

	prefixBoost      float64
	maxDistanceMiles float64
	scanLimit        int

	streamLog    bool
	logCapacity  int
	logMaxLength int64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithACL sets the Redis ACL user and logical database.
func WithACL(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithKeyPrefix namespaces all keys and the index name. Default "memorialdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithRanking tunes the name-prefix boost and the feed proximity horizon.
// Zero values keep the defaults (0.1 and 100 miles); a negative prefixBoost
// disables the boost.
func WithRanking(prefixBoost, maxDistanceMiles float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.prefixBoost = prefixBoost
		c.maxDistanceMiles = maxDistanceMiles
	})
}

// WithScanLimit bounds how many memorials suggestions and the feed read per call.
// Default: 500.
func WithScanLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.scanLimit = n
	})
}

// WithMemoryLog keeps the search log in process, bounded to capacity entries.
// This is the default, with capacity 10000.
func WithMemoryLog(capacity int) Option {
	return optionFunc(func(c *clientConfig) {
		c.streamLog = false
		c.logCapacity = capacity
	})
}

// WithStreamLog keeps the search log in a Redis stream trimmed to roughly
// maxLen entries, shared with any server using the same key prefix.
func WithStreamLog(maxLen int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.streamLog = true
		c.logMaxLength = maxLen
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
