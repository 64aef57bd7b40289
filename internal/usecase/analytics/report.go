package analytics

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain"
)

// Kind selects an analytics report.
type Kind string

// Report kinds.
const (
	KindOverview    Kind = "overview"
	KindPopular     Kind = "popular"
	KindTrends      Kind = "trends"
	KindPerformance Kind = "performance"
)

// ParseKind validates a report kind; empty means overview.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return KindOverview, nil
	case KindOverview, KindPopular, KindTrends, KindPerformance:
		return k, nil
	}
	return "", domain.NewValidationError("type", fmt.Sprintf("must be one of overview, popular, trends, performance, got %q", s))
}

// Period is the look-back window of a report.
type Period string

// Supported periods.
const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
)

// ParsePeriod validates a period; empty means 7d.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return Period7d, nil
	case Period24h, Period7d, Period30d, Period90d:
		return p, nil
	}
	return "", domain.NewValidationError("period", fmt.Sprintf("must be one of 24h, 7d, 30d, 90d, got %q", s))
}

// Duration returns the window length.
func (p Period) Duration() time.Duration {
	switch p {
	case Period24h:
		return 24 * time.Hour
	case Period30d:
		return 30 * 24 * time.Hour
	case Period90d:
		return 90 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Report is one analytics report; exactly one section is set, matching Kind.
type Report struct {
	Kind        Kind
	Since       time.Time
	Overview    *Overview
	Popular     []PopularQuery
	Trends      *Trends
	Performance *Performance
}

// Bucket is one point of a time series.
type Bucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// Overview summarises search volume and outcomes.
type Overview struct {
	TotalSearches  int      `json:"total_searches"`
	UniqueVisitors int      `json:"unique_visitors"`
	AvgResults     float64  `json:"avg_results"`
	ZeroResultRate float64  `json:"zero_result_rate"`
	Daily          []Bucket `json:"daily"`
}

// PopularQuery is one row of the query frequency table.
type PopularQuery struct {
	Query      string  `json:"query"`
	Count      int     `json:"count"`
	AvgResults float64 `json:"avg_results"`
}

// TermCount is a trending token and its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Trends holds hourly volume and trending terms.
type Trends struct {
	Hourly        []Bucket    `json:"hourly"`
	TrendingTerms []TermCount `json:"trending_terms"`
}

// LatencyBucket is one bar of the execution time histogram.
type LatencyBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Performance summarises execution time and query length.
type Performance struct {
	AvgExecutionMs float64         `json:"avg_execution_ms"`
	Latency        []LatencyBucket `json:"latency"`
	AvgQueryLength float64         `json:"avg_query_length"`
}
