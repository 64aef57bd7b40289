// Package suggest completes partial queries from names, locations, tags and a
// fixed vocabulary of popular terms.
package suggest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	"github.com/kailas-cloud/memorialdex/internal/logger"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
)

// DefaultScanLimit bounds the memorials scanned per request.
const DefaultScanLimit = 500

// Service builds suggestion lists.
type Service struct {
	catalog   Catalog
	scanLimit int
}

// New creates a Service. scanLimit <= 0 uses DefaultScanLimit.
func New(catalog Catalog, scanLimit int) *Service {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &Service{catalog: catalog, scanLimit: scanLimit}
}

type pool struct {
	name string
	run  func(ctx context.Context, m matcher) ([]suggestion.Suggestion, error)
}

// Suggest returns at most suggestion.MaxResults completions for partial.
// Queries shorter than suggestion.MinQueryLength yield an empty list. A pool
// that fails is logged and contributes nothing.
func (s *Service) Suggest(ctx context.Context, partial string) ([]suggestion.Suggestion, error) {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < suggestion.MinQueryLength {
		return []suggestion.Suggestion{}, nil
	}
	m := newMatcher(partial)

	scan := sync.OnceValues(func() ([]memorial.Memorial, error) {
		return s.catalog.ListVisible(ctx, s.scanLimit)
	})
	fromScan := func(f func([]memorial.Memorial, matcher) []suggestion.Suggestion) func(context.Context, matcher) ([]suggestion.Suggestion, error) {
		return func(_ context.Context, m matcher) ([]suggestion.Suggestion, error) {
			ms, err := scan()
			if err != nil {
				return nil, err
			}
			return f(ms, m), nil
		}
	}

	pools := []pool{
		{"names", fromScan(names)},
		{"locations", fromScan(locations)},
		{"tags", fromScan(tags)},
		{"popular", func(_ context.Context, m matcher) ([]suggestion.Suggestion, error) { return popular(m), nil }},
	}

	results := make([][]suggestion.Suggestion, len(pools))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pools {
		g.Go(func() error {
			out, err := p.run(gctx, m)
			if err != nil {
				logger.FromContext(ctx).Warn("suggestion pool failed",
					zap.String("pool", p.name),
					zap.Error(err),
				)
				metrics.SuggestionPoolErrorsTotal.WithLabelValues(p.name).Inc()
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait() // pools never return errors

	return merge(m, slices.Concat(results...)), nil
}

// merge orders candidates by exact match, then prefix match, then count, and
// drops case-insensitive duplicates keeping the best-ranked one.
func merge(m matcher, all []suggestion.Suggestion) []suggestion.Suggestion {
	type keyed struct {
		s      suggestion.Suggestion
		folded string
		rank   int
	}
	ks := make([]keyed, 0, len(all))
	for _, s := range all {
		f := fold(s.Text)
		rank := 2
		switch {
		case f == m.q:
			rank = 0
		case strings.HasPrefix(f, m.q):
			rank = 1
		}
		ks = append(ks, keyed{s: s, folded: f, rank: rank})
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		if c := cmp.Compare(b.s.Count, a.s.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.folded, b.folded)
	})

	out := make([]suggestion.Suggestion, 0, suggestion.MaxResults)
	seen := make(map[string]bool, len(ks))
	for _, k := range ks {
		if seen[k.folded] {
			continue
		}
		seen[k.folded] = true
		out = append(out, k.s)
		if len(out) == suggestion.MaxResults {
			break
		}
	}
	return out
}
