// Package search runs ranked memorial searches.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/query"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/result"
	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
)

// Request is one search call.
type Request struct {
	Query     string
	Filters   filters.Filters
	Advanced  bool
	Options   queryuc.Options
	ActorID   string
	SessionID string
}

// Response is one ranked page.
type Response struct {
	Results []result.Result
	Total   int
	// Filters are the effective filters, including any extracted by advanced preprocessing.
	Filters filters.Filters
}

// Service handles memorial search.
type Service struct {
	repo    Repository
	builder QueryBuilder
	ranker  Ranker
	log     Recorder
	now     func() time.Time
}

// New creates a search service. log can be nil (no search logging).
func New(repo Repository, builder QueryBuilder, ranker Ranker, log Recorder) *Service {
	return &Service{repo: repo, builder: builder, ranker: ranker, log: log, now: time.Now}
}

// Search validates the request, fetches one page from the store, ranks it and
// records the search. Results are ordered by score descending, ties broken
// by the requested sort.
func (s *Service) Search(ctx context.Context, req *Request) (Response, error) {
	start := s.now()
	mode := "basic"
	if req.Advanced {
		mode = "advanced"
	}

	q, effective, err := s.build(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "invalid").Inc()
		return Response{}, err
	}

	page, err := s.repo.Fetch(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "error").Inc()
		return Response{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	text, terms := queryText(&q)
	results := s.ranker.Rank(text, terms, effective.Sort, page.Items)

	metrics.SearchRequestsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.SearchResults.Observe(float64(len(results)))

	if s.log != nil {
		s.log.Record(domlog.Entry{
			Query:         req.Query,
			Filters:       effective.Summary(),
			ResultsCount:  page.Total,
			ExecutionTime: s.now().Sub(start),
			ActorID:       req.ActorID,
			SessionID:     req.SessionID,
		})
	}

	return Response{Results: results, Total: page.Total, Filters: effective}, nil
}

func (s *Service) build(req *Request) (query.Query, filters.Filters, error) {
	if req.Advanced {
		return s.builder.Advanced(req.Query, req.Filters, req.Options)
	}
	q, err := s.builder.Build(req.Query, req.Filters)
	return q, req.Filters.Normalize(), err
}

// queryText returns the typed text used for the name-prefix boost and every
// alternative spelling used for highlighting.
func queryText(q *query.Query) (string, []string) {
	t, ok := q.Text()
	if !ok {
		return "", nil
	}
	var terms []string
	for _, term := range t.Terms() {
		terms = append(terms, term.Alternatives()...)
	}
	return strings.Join(t.Words(), " "), terms
}
