// Package searchlog records executed searches asynchronously. Recording never
// blocks or fails the search that produced the entry.
package searchlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
)

// Defaults for Config.
const (
	DefaultQueueSize    = 1024
	DefaultWorkers      = 2
	DefaultAttempts     = 3
	DefaultRetryDelay   = 50 * time.Millisecond
	DefaultWriteTimeout = 2 * time.Second
)

// ErrClosed is returned by HealthCheck after Close.
var ErrClosed = errors.New("search logger closed")

// ErrQueueFull is returned by HealthCheck while the queue has no free slot.
var ErrQueueFull = errors.New("search log queue full")

// Config tunes the logger.
type Config struct {
	QueueSize    int
	Workers      int
	Attempts     uint
	RetryDelay   time.Duration
	WriteTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Attempts == 0 {
		c.Attempts = DefaultAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Logger is a bounded queue drained by background writers.
type Logger struct {
	store  Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	closed  bool
	started bool
	queue   chan domlog.Entry
	wg      sync.WaitGroup
}

// New creates a Logger. Call Start before recording and Close on shutdown.
func New(store Store, cfg Config, logger *zap.Logger) *Logger {
	cfg.applyDefaults()
	return &Logger{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		queue:  make(chan domlog.Entry, cfg.QueueSize),
	}
}

// Start launches the writers. Writes run detached from ctx cancellation so
// that Close can drain the queue during shutdown. Calling Start twice is a no-op.
func (l *Logger) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.closed {
		return
	}
	l.started = true

	base := context.WithoutCancel(ctx)
	for range l.cfg.Workers {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			for e := range l.queue {
				l.write(base, e)
			}
		}()
	}
}

// Record enqueues e without blocking. A missing ID or timestamp is filled in.
// It reports whether the entry was accepted; overflow and calls after Close
// are dropped and counted.
func (l *Logger) Record(e domlog.Entry) bool {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now().UTC()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		metrics.SearchLogWritesTotal.WithLabelValues("dropped").Inc()
		return false
	}
	select {
	case l.queue <- e:
		return true
	default:
		metrics.SearchLogWritesTotal.WithLabelValues("dropped").Inc()
		l.logger.Warn("search log queue full, entry dropped", zap.String("entry_id", e.ID))
		return false
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	started := l.started
	l.mu.Unlock()

	if !started {
		metrics.SearchLogWritesTotal.WithLabelValues("dropped").Add(float64(len(l.queue)))
		return
	}
	l.wg.Wait()
}

// HealthCheck reports whether the logger can accept entries.
func (l *Logger) HealthCheck(_ context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	if len(l.queue) == cap(l.queue) {
		return ErrQueueFull
	}
	return nil
}

func (l *Logger) write(ctx context.Context, e domlog.Entry) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	err := retry.Do(
		func() error {
			if err := l.store.Append(ctx, e); err != nil {
				return fmt.Errorf("append search log: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(l.cfg.Attempts),
		retry.Delay(l.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			l.logger.Debug("retrying search log write",
				zap.String("entry_id", e.ID),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		metrics.SearchLogWritesTotal.WithLabelValues("error").Inc()
		l.logger.Warn("search log write failed",
			zap.String("entry_id", e.ID),
			zap.Error(err),
		)
		return
	}
	metrics.SearchLogWritesTotal.WithLabelValues("ok").Inc()
}
