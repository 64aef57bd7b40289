package memorialdex

import (
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/result"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	"github.com/kailas-cloud/memorialdex/internal/usecase/analytics"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
)

// Record and filter types shared with the service.
type (
	Memorial   = dommem.Memorial
	Location   = dommem.Location
	Media      = dommem.Media
	Privacy    = dommem.Privacy
	Point      = geo.Point
	Filters    = filters.Filters
	DateRange  = filters.DateRange
	Place      = filters.Location
	Page       = filters.Page
	Highlight  = result.Highlight
	Suggestion = suggestion.Suggestion
	// SearchOptions are the advanced-search preprocessing toggles.
	SearchOptions = queryuc.Options
)

// Privacy levels.
const (
	Public   = dommem.Public
	Unlisted = dommem.Unlisted
	Private  = dommem.Private
)

// SearchRequest is one ranked search.
type SearchRequest struct {
	Query    string
	Filters  Filters
	Advanced bool
	Options  SearchOptions
	// ActorID and SessionID are recorded in the search log.
	ActorID   string
	SessionID string
}

// Hit is one ranked memorial.
type Hit struct {
	Memorial   Memorial
	Score      float64 // [0,1]
	Highlights []Highlight
}

// SearchPage is one page of ranked results.
type SearchPage struct {
	Hits  []Hit
	Total int
	// Filters are the effective filters, including any extracted from the
	// query text by advanced search.
	Filters Filters
}

// FeedRequest asks for the obituary feed around a point.
type FeedRequest struct {
	Lat, Lng    float64
	RadiusMiles float64 // 0 = unbounded
	Period      string  // week, month (default), quarter, year
	SortBy      string  // relevance (default), distance, recent, engagement
	Limit       int
}

// FeedEntry is a memorial annotated for the obituary feed.
type FeedEntry struct {
	Memorial      Memorial
	DistanceMiles *float64 // nil when the memorial has no coordinates
	DaysAgo       int
	Engagement    int
	Relevance     float64
}

// ReportKind selects an analytics report.
type ReportKind = analytics.Kind

// Report kinds.
const (
	ReportOverview    = analytics.KindOverview
	ReportPopular     = analytics.KindPopular
	ReportTrends      = analytics.KindTrends
	ReportPerformance = analytics.KindPerformance
)

// Report is one analytics report. Exactly one section is set.
type Report struct {
	Kind        ReportKind
	Since       time.Time
	Overview    *analytics.Overview
	Popular     []analytics.PopularQuery
	Trends      *analytics.Trends
	Performance *analytics.Performance
}
