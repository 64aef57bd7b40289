package db

import "github.com/kailas-cloud/memorialdex/internal/domain/search/filter"

// SearchQuery is the input for an FT.SEARCH call. Filters carry typed values;
// the store renders them with escaping and PARAMS, never by raw interpolation.
type SearchQuery struct {
	IndexName    string
	Filters      filter.Expression
	SortBy       string // empty keeps native text-match ordering
	Ascending    bool
	Offset       int
	Limit        int
	WithScores   bool
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
