// Package obituary holds the discovery-feed entry computed per request.
package obituary

import "github.com/kailas-cloud/memorialdex/internal/domain/memorial"

// Period is the death-date window of the feed.
type Period string

const (
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
	Year    Period = "year"
)

// Days returns the window length, defaulting to a month.
func (p Period) Days() int {
	switch p {
	case Week:
		return 7
	case Quarter:
		return 90
	case Year:
		return 365
	default:
		return 30
	}
}

// IsValid checks if the period is one of the supported values.
func (p Period) IsValid() bool {
	return p == Week || p == Month || p == Quarter || p == Year
}

// SortBy is the feed ordering.
type SortBy string

const (
	ByRelevance  SortBy = "relevance"
	ByDistance   SortBy = "distance"
	ByRecent     SortBy = "recent"
	ByEngagement SortBy = "engagement"
)

// IsValid checks if the ordering is one of the supported values.
func (s SortBy) IsValid() bool {
	return s == ByRelevance || s == ByDistance || s == ByRecent || s == ByEngagement
}

// Entry is a memorial annotated for the obituary feed. Distance is in miles
// and nil when either side lacks coordinates.
type Entry struct {
	Memorial   memorial.Memorial
	Distance   *float64
	DaysAgo    int
	Engagement int
	Recency    float64
	Proximity  float64
	Relevance  float64
}
