package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// store is the consumer interface for window counters (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Store counts requests per fixed window on top of DB (INCRBY + EXPIRE NX).
type Store struct {
	store  store
	prefix string
}

// New creates a rate-limit window store. prefix namespaces the counter keys.
func New(s store, prefix string) *Store {
	return &Store{store: s, prefix: prefix}
}

// Hit counts one request for subject in the window starting at windowStart and
// returns the running count plus the time left in the window.
func (s *Store) Hit(ctx context.Context, subject string, windowStart time.Time, window time.Duration) (int64, time.Duration, error) {
	key := s.key(subject, windowStart)

	n, err := s.store.IncrBy(ctx, key, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit INCRBY %s: %w", key, err)
	}

	// Set TTL only if the key has no expiry yet (NX: not reset on repeat).
	if err := s.store.Expire(ctx, key, window, true); err != nil {
		return 0, 0, fmt.Errorf("ratelimit EXPIRE %s: %w", key, err)
	}

	ttl, err := s.store.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		// fall back to the nominal window end
		ttl = time.Until(windowStart.Add(window))
	}
	return n, ttl, nil
}

// key follows the pattern {prefix}ratelimit:{subject}:{windowUnix}.
func (s *Store) key(subject string, windowStart time.Time) string {
	return s.prefix + "ratelimit:" + subject + ":" + strconv.FormatInt(windowStart.Unix(), 10)
}
