package chi

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	"github.com/kailas-cloud/memorialdex/internal/logger"
)

// RateLimitMiddleware throttles one route group per caller. The caller is
// the X-Actor-ID header, else the client IP. A nil limiter passes everything
// through, and so does a limiter that fails for any reason other than the
// limit itself.
func RateLimitMiddleware(limiter Limiter, group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := limiter.Allow(r.Context(), group, callerOf(r))
			if d.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(max(d.Remaining, 0), 10))
			}
			switch {
			case errors.Is(err, domain.ErrRateLimited):
				secs := int64(math.Ceil(d.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.FormatInt(max(secs, 1), 10))
				writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded, retry later")
				return
			case err != nil:
				logger.FromContext(r.Context()).Warn("rate limit check failed",
					zap.String("group", group), zap.Error(err))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerOf(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get(HeaderActorID)); actor != "" {
		return "actor:" + actor
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
