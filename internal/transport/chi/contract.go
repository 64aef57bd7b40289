package chi

import (
	"context"

	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	analyticsuc "github.com/kailas-cloud/memorialdex/internal/usecase/analytics"
	feeduc "github.com/kailas-cloud/memorialdex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/memorialdex/internal/usecase/health"
	"github.com/kailas-cloud/memorialdex/internal/usecase/ratelimit"
	searchuc "github.com/kailas-cloud/memorialdex/internal/usecase/search"
)

// Searcher runs ranked memorial searches.
type Searcher interface {
	Search(ctx context.Context, req *searchuc.Request) (searchuc.Response, error)
}

// Suggester completes partial queries.
type Suggester interface {
	Suggest(ctx context.Context, partial string) ([]suggestion.Suggestion, error)
}

// FeedProvider builds the obituary discovery feed.
type FeedProvider interface {
	Obituaries(ctx context.Context, req feeduc.Request) (feeduc.Response, error)
}

// AnalyticsReporter aggregates the search log.
type AnalyticsReporter interface {
	Report(ctx context.Context, kind analyticsuc.Kind, period analyticsuc.Period) analyticsuc.Report
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Limiter decides whether a caller may proceed within a route group.
type Limiter interface {
	Allow(ctx context.Context, group, subject string) (ratelimit.Decision, error)
}
