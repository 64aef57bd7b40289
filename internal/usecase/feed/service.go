// Package feed serves the obituary discovery feed: recent public deaths
// ranked by recency and distance from the caller.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
	"github.com/kailas-cloud/memorialdex/internal/usecase/ranking"
)

// Feed limits.
const (
	DefaultLimit     = 20
	MaxLimit         = 100
	DefaultScanLimit = 500
)

// Request is one feed call. Radius is in miles; zero disables it.
type Request struct {
	Origin geo.Point
	Radius float64
	Period obituary.Period
	SortBy obituary.SortBy
	Limit  int
}

// Response is the ranked feed with the request as applied.
type Response struct {
	Entries []obituary.Entry
	Origin  geo.Point
	Radius  float64
	Period  obituary.Period
	SortBy  obituary.SortBy
	Limit   int
}

// Service builds obituary feeds.
type Service struct {
	repo      Repository
	scorer    Scorer
	scanLimit int
	now       func() time.Time
}

// New creates a feed service. scanLimit <= 0 uses DefaultScanLimit.
func New(repo Repository, scorer Scorer, scanLimit int) *Service {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &Service{repo: repo, scorer: scorer, scanLimit: scanLimit, now: time.Now}
}

// Obituaries returns public memorials whose death falls inside the period,
// scored and ordered for the caller's position.
func (s *Service) Obituaries(ctx context.Context, req Request) (Response, error) {
	if err := normalize(&req); err != nil {
		return Response{}, err
	}

	now := s.now().UTC()
	from := now.AddDate(0, 0, -req.Period.Days())
	ms, err := s.repo.DiedBetween(ctx, from, now, s.scanLimit)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	origin := req.Origin
	entries := s.scorer.Feed(ranking.FeedInput{
		Origin:      &origin,
		RadiusMiles: req.Radius,
		SortBy:      req.SortBy,
		Now:         now,
	}, ms)
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	return Response{
		Entries: entries,
		Origin:  req.Origin,
		Radius:  req.Radius,
		Period:  req.Period,
		SortBy:  req.SortBy,
		Limit:   req.Limit,
	}, nil
}

func normalize(req *Request) error {
	if !req.Origin.Valid() {
		return domain.ErrMissingCoordinates
	}
	if req.Radius < 0 || req.Radius != req.Radius {
		return domain.NewValidationError("radius", "must be a non-negative number")
	}
	if req.Period == "" {
		req.Period = obituary.Month
	}
	if !req.Period.IsValid() {
		return domain.NewValidationError("period", fmt.Sprintf("must be one of week, month, quarter, year, got %q", req.Period))
	}
	if req.SortBy == "" {
		req.SortBy = obituary.ByRelevance
	}
	if !req.SortBy.IsValid() {
		return domain.NewValidationError("sortBy", fmt.Sprintf("must be one of relevance, distance, recent, engagement, got %q", req.SortBy))
	}
	switch {
	case req.Limit < 0:
		return domain.NewValidationError("limit", "must be >= 0")
	case req.Limit == 0:
		req.Limit = DefaultLimit
	case req.Limit > MaxLimit:
		req.Limit = MaxLimit
	}
	return nil
}
