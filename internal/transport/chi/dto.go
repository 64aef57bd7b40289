package chi

import (
	"math"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/result"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
)

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query    string          `json:"query"`
	Filters  filters.Filters `json:"filters"`
	Advanced bool            `json:"advanced"`
	Options  queryuc.Options `json:"options"`
}

// SearchResult is one ranked memorial.
type SearchResult struct {
	Memorial   memorial.Memorial  `json:"memorial"`
	Score      float64            `json:"score"`
	Highlights []result.Highlight `json:"highlights"`
}

// SearchResponse is a ranked page. Filters echoes the effective filters of an
// advanced search, which may include ones extracted from the query text.
type SearchResponse struct {
	Results []SearchResult   `json:"results"`
	Total   int              `json:"total"`
	Filters *filters.Filters `json:"filters,omitempty"`
}

// SuggestionsResponse is the GET /search/suggestions body.
type SuggestionsResponse struct {
	Suggestions []suggestion.Suggestion `json:"suggestions"`
}

// ObituaryEntry is a memorial annotated for the feed. Distance is in the
// requested unit and null when the memorial has no coordinates.
type ObituaryEntry struct {
	memorial.Memorial
	Distance       *float64 `json:"distance"`
	DaysAgo        int      `json:"daysAgo"`
	Engagement     int      `json:"engagement"`
	RelevanceScore float64  `json:"relevanceScore"`
}

// ObituaryFilters echoes the feed request as applied.
type ObituaryFilters struct {
	Radius *float64        `json:"radius"`
	Unit   geo.Unit        `json:"unit"`
	Period obituary.Period `json:"period"`
	SortBy obituary.SortBy `json:"sortBy"`
	Limit  int             `json:"limit"`
}

// ObituariesResponse is the GET /obituaries body.
type ObituariesResponse struct {
	Obituaries []ObituaryEntry `json:"obituaries"`
	Count      int             `json:"count"`
	Location   geo.Point       `json:"location"`
	Filters    ObituaryFilters `json:"filters"`
}

// AnalyticsResponse is the GET /analytics/search body. Data holds the section
// named by Type.
type AnalyticsResponse struct {
	Type   string    `json:"type"`
	Period string    `json:"period"`
	Since  time.Time `json:"since"`
	Data   any       `json:"data"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResultsToDTO(rs []result.Result) []SearchResult {
	out := make([]SearchResult, len(rs))
	for i := range rs {
		r := &rs[i]
		hl := r.Highlights()
		if hl == nil {
			hl = []result.Highlight{}
		}
		out[i] = SearchResult{Memorial: r.Memorial(), Score: r.Score(), Highlights: hl}
	}
	return out
}

func obituaryToDTO(e *obituary.Entry, unit geo.Unit) ObituaryEntry {
	var dist *float64
	if e.Distance != nil {
		d := round2(unit.FromMiles(*e.Distance))
		dist = &d
	}
	return ObituaryEntry{
		Memorial:       e.Memorial,
		Distance:       dist,
		DaysAgo:        e.DaysAgo,
		Engagement:     e.Engagement,
		RelevanceScore: round2(e.Relevance),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
