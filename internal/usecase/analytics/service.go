// Package analytics aggregates the search log into dashboard reports.
package analytics

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
	"github.com/kailas-cloud/memorialdex/internal/logger"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
)

// Report limits.
const (
	DefaultMaxEntries = 100_000
	maxPopular        = 20
	maxTrending       = 10
	minTokenLength    = 3
	dayLayout         = "2006-01-02"
	hourLayout        = "2006-01-02T15:00"
)

var latencyBounds = []struct {
	label string
	upTo  time.Duration // inclusive; zero means unbounded
}{
	{"<100ms", 100*time.Millisecond - 1},
	{"100-500ms", 500*time.Millisecond - 1},
	{"500ms-1s", time.Second},
	{">1s", 0},
}

// Service builds reports. Read failures never surface: the report comes back
// zero-shaped instead.
type Service struct {
	logs       LogReader
	maxEntries int
	now        func() time.Time
}

// New creates a Service. maxEntries <= 0 uses DefaultMaxEntries.
func New(logs LogReader, maxEntries int) *Service {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Service{logs: logs, maxEntries: maxEntries, now: time.Now}
}

// Report builds the report of the given kind over the period ending now.
func (s *Service) Report(ctx context.Context, kind Kind, period Period) Report {
	return s.ReportSince(ctx, kind, s.now().UTC().Add(-period.Duration()))
}

// ReportSince builds the report of the given kind over entries logged at or after since.
func (s *Service) ReportSince(ctx context.Context, kind Kind, since time.Time) Report {
	entries, err := s.logs.Since(ctx, since, s.maxEntries)
	if err != nil {
		logger.FromContext(ctx).Warn("read search log failed, serving empty report",
			zap.String("report", string(kind)),
			zap.Error(err),
		)
		metrics.AnalyticsFailuresTotal.WithLabelValues(string(kind)).Inc()
		entries = nil
	}
	if len(entries) >= s.maxEntries {
		logger.FromContext(ctx).Debug("search log window capped to the most recent entries",
			zap.String("report", string(kind)),
			zap.Int("max_entries", s.maxEntries),
		)
	}

	r := Report{Kind: kind, Since: since}
	switch kind {
	case KindPopular:
		r.Popular = popular(entries)
	case KindTrends:
		t := trends(entries)
		r.Trends = &t
	case KindPerformance:
		p := performance(entries)
		r.Performance = &p
	default:
		r.Kind = KindOverview
		o := overview(entries)
		r.Overview = &o
	}
	return r
}

func overview(entries []domlog.Entry) Overview {
	o := Overview{TotalSearches: len(entries), Daily: series(entries, dayLayout)}
	if len(entries) == 0 {
		return o
	}

	visitors := make(map[string]struct{})
	results, zero := 0, 0
	for i := range entries {
		e := &entries[i]
		if k := e.VisitorKey(); k != "" {
			visitors[k] = struct{}{}
		}
		results += e.ResultsCount
		if e.ResultsCount == 0 {
			zero++
		}
	}
	o.UniqueVisitors = len(visitors)
	o.AvgResults = round2(float64(results) / float64(len(entries)))
	o.ZeroResultRate = round2(100 * float64(zero) / float64(len(entries)))
	return o
}

func popular(entries []domlog.Entry) []PopularQuery {
	type acc struct{ count, results int }
	fold := cases.Fold()
	byQuery := make(map[string]*acc)
	for i := range entries {
		q := fold.String(strings.TrimSpace(entries[i].Query))
		a, ok := byQuery[q]
		if !ok {
			a = &acc{}
			byQuery[q] = a
		}
		a.count++
		a.results += entries[i].ResultsCount
	}

	out := make([]PopularQuery, 0, len(byQuery))
	for q, a := range byQuery {
		out = append(out, PopularQuery{Query: q, Count: a.count, AvgResults: round2(float64(a.results) / float64(a.count))})
	}
	slices.SortFunc(out, func(a, b PopularQuery) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Query, b.Query)
	})
	if len(out) > maxPopular {
		out = out[:maxPopular]
	}
	return out
}

func trends(entries []domlog.Entry) Trends {
	fold := cases.Fold()
	counts := make(map[string]int)
	for i := range entries {
		for _, tok := range strings.Fields(entries[i].Query) {
			if utf8.RuneCountInString(tok) < minTokenLength {
				continue
			}
			counts[fold.String(tok)]++
		}
	}

	terms := make([]TermCount, 0, len(counts))
	for t, n := range counts {
		terms = append(terms, TermCount{Term: t, Count: n})
	}
	slices.SortFunc(terms, func(a, b TermCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if len(terms) > maxTrending {
		terms = terms[:maxTrending]
	}
	return Trends{Hourly: series(entries, hourLayout), TrendingTerms: terms}
}

func performance(entries []domlog.Entry) Performance {
	p := Performance{Latency: make([]LatencyBucket, len(latencyBounds))}
	for i, b := range latencyBounds {
		p.Latency[i].Label = b.label
	}
	if len(entries) == 0 {
		return p
	}

	var total time.Duration
	queryLen := 0
	for i := range entries {
		e := &entries[i]
		total += e.ExecutionTime
		queryLen += utf8.RuneCountInString(e.Query)
		p.Latency[latencyBucket(e.ExecutionTime)].Count++
	}
	n := float64(len(entries))
	p.AvgExecutionMs = round2(float64(total) / float64(time.Millisecond) / n)
	p.AvgQueryLength = round2(float64(queryLen) / n)
	return p
}

func latencyBucket(d time.Duration) int {
	for i, b := range latencyBounds {
		if b.upTo == 0 || d <= b.upTo {
			return i
		}
	}
	return len(latencyBounds) - 1
}

// series counts entries per UTC time bucket, chronologically. The layouts
// sort lexically in time order.
func series(entries []domlog.Entry, layout string) []Bucket {
	counts := make(map[string]int)
	for i := range entries {
		counts[entries[i].Timestamp.UTC().Format(layout)]++
	}
	out := make([]Bucket, 0, len(counts))
	for p, n := range counts {
		out = append(out, Bucket{Period: p, Count: n})
	}
	slices.SortFunc(out, func(a, b Bucket) int { return cmp.Compare(a.Period, b.Period) })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
