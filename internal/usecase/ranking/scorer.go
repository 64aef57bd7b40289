// Package ranking orders memorials for text search and for the obituary feed.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/result"
)

// Defaults for Config.
const (
	DefaultPrefixBoost      = 0.1
	DefaultSnippetRadius    = 60
	DefaultMaxDistanceMiles = 100
)

// Config tunes the scorer.
type Config struct {
	// PrefixBoost is added when the record name starts with the query.
	PrefixBoost float64
	// SnippetRadius is the number of runes kept on each side of the first match.
	SnippetRadius int
	// MaxDistanceMiles is the distance at which feed proximity reaches zero.
	MaxDistanceMiles float64
}

// Scorer ranks memorials. Safe for concurrent use.
type Scorer struct {
	cfg Config
}

// New creates a Scorer, filling unset config fields with defaults. A negative
// PrefixBoost disables the boost.
func New(cfg Config) *Scorer {
	switch {
	case cfg.PrefixBoost == 0:
		cfg.PrefixBoost = DefaultPrefixBoost
	case cfg.PrefixBoost < 0:
		cfg.PrefixBoost = 0
	}
	if cfg.SnippetRadius <= 0 {
		cfg.SnippetRadius = DefaultSnippetRadius
	}
	if cfg.MaxDistanceMiles <= 0 {
		cfg.MaxDistanceMiles = DefaultMaxDistanceMiles
	}
	return &Scorer{cfg: cfg}
}

// Rank converts one store page into scored results. Raw text-match scores are
// normalised by the page maximum; without a query, or when the store reports
// no scores, every record starts at 1. Results come back by score descending;
// ties follow the requested sort, with relevance and newest breaking ties by
// most recent creation. Remaining ties keep the store order.
func (s *Scorer) Rank(q string, terms []string, order filters.Sort, items []memorial.Scored) []result.Result {
	q = strings.TrimSpace(q)

	maxRaw := 0.0
	for _, it := range items {
		maxRaw = max(maxRaw, it.TextScore)
	}

	fold := cases.Fold()
	prefix := fold.String(q)
	marks := compileTerms(terms)

	out := make([]result.Result, 0, len(items))
	for _, it := range items {
		score := 1.0
		if q != "" && maxRaw > 0 {
			score = max(it.TextScore, 0) / maxRaw
		}
		if prefix != "" && strings.HasPrefix(fold.String(it.Memorial.Name), prefix) {
			score += s.cfg.PrefixBoost
		}
		out = append(out, result.New(it.Memorial, score, s.highlights(&it.Memorial, marks)))
	}

	tie := tieBreak(order, fold)
	slices.SortStableFunc(out, func(a, b result.Result) int {
		if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
			return c
		}
		ma, mb := a.Memorial(), b.Memorial()
		return tie(&ma, &mb)
	})
	return out
}

func tieBreak(order filters.Sort, fold cases.Caser) func(a, b *memorial.Memorial) int {
	switch order {
	case filters.SortOldest:
		return func(a, b *memorial.Memorial) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case filters.SortName:
		return func(a, b *memorial.Memorial) int {
			return strings.Compare(fold.String(a.Name), fold.String(b.Name))
		}
	case filters.SortPopular:
		return func(a, b *memorial.Memorial) int { return cmp.Compare(b.ViewCount, a.ViewCount) }
	default:
		return func(a, b *memorial.Memorial) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

func (s *Scorer) highlights(m *memorial.Memorial, marks [][]rune) []result.Highlight {
	if len(marks) == 0 {
		return nil
	}
	fields := []struct{ name, text string }{
		{"name", m.Name},
		{"subtitle", m.Subtitle},
		{"description", m.Description},
		{"location", locationText(m)},
	}
	var out []result.Highlight
	for _, f := range fields {
		if snippet, ok := highlight(f.text, marks, s.cfg.SnippetRadius); ok {
			out = append(out, result.Highlight{Field: f.name, Snippet: snippet})
		}
	}
	return out
}

func locationText(m *memorial.Memorial) string {
	parts := make([]string, 0, 3)
	for _, l := range []memorial.Location{m.DeathLocation, m.RestingPlace, m.BirthLocation} {
		if s := l.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}
