package ratelimit

import (
	"context"
	"time"
)

// WindowStore counts hits per fixed window.
type WindowStore interface {
	Hit(ctx context.Context, subject string, windowStart time.Time, window time.Duration) (int64, time.Duration, error)
}
