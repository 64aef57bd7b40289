package search

import (
	"context"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/query"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/result"
	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
)

// Repository fetches one page of memorials for a built query.
type Repository interface {
	Fetch(ctx context.Context, q query.Query) (memorial.Page, error)
}

// QueryBuilder turns request text and filters into a store query.
type QueryBuilder interface {
	Build(q string, f filters.Filters) (query.Query, error)
	Advanced(q string, f filters.Filters, opts queryuc.Options) (query.Query, filters.Filters, error)
}

// Ranker scores and orders a fetched page. Ties follow order.
type Ranker interface {
	Rank(q string, terms []string, order filters.Sort, items []memorial.Scored) []result.Result
}

// Recorder records executed searches without blocking.
type Recorder interface {
	Record(e domlog.Entry) bool
}
