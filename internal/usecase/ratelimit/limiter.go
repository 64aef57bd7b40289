// Package ratelimit enforces fixed-window request limits per route group and caller.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
)

// Action defines behavior when a limit is exceeded.
type Action string

const (
	// ActionWarn logs the breach but allows the request.
	ActionWarn Action = "warn"
	// ActionReject blocks the request.
	ActionReject Action = "reject"
)

// Rule is the limit of one route group.
type Rule struct {
	Requests int64
	Window   time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter checks requests against per-group rules. Groups without a rule are
// unlimited.
type Limiter struct {
	store  WindowStore
	rules  map[string]Rule
	action Action
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Limiter.
func New(store WindowStore, rules map[string]Rule, action Action, logger *zap.Logger) *Limiter {
	return &Limiter{store: store, rules: rules, action: action, logger: logger, now: time.Now}
}

// Allow counts one request by subject in group. A store failure is returned
// with an allowing decision so callers can fail open.
func (l *Limiter) Allow(ctx context.Context, group, subject string) (Decision, error) {
	rule, ok := l.rules[group]
	if !ok || rule.Requests <= 0 || rule.Window <= 0 {
		return Decision{Allowed: true}, nil
	}

	windowStart := l.now().UTC().Truncate(rule.Window)
	n, ttl, err := l.store.Hit(ctx, group+":"+subject, windowStart, rule.Window)
	if err != nil {
		return Decision{Allowed: true, Limit: rule.Requests}, fmt.Errorf("count request: %w", err)
	}

	d := Decision{Allowed: true, Limit: rule.Requests, Remaining: max(0, rule.Requests-n)}
	if n <= rule.Requests {
		return d, nil
	}

	metrics.RateLimitRejectionsTotal.WithLabelValues(group).Inc()
	if l.action == ActionWarn {
		l.logger.Warn("rate limit exceeded",
			zap.String("group", group),
			zap.String("subject", subject),
			zap.Int64("count", n),
			zap.Int64("limit", rule.Requests),
		)
		return d, nil
	}

	d.Allowed = false
	d.RetryAfter = max(ttl, time.Second)
	return d, domain.ErrRateLimited
}
