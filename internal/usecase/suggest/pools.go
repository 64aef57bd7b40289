package suggest

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
)

const (
	maxNames      = 5
	maxTags       = 5
	maxVocabulary = 3
)

// vocabulary is the fixed list of popular domain terms. Counts are static
// popularity weights, not derived from the search log.
var vocabulary = []suggestion.Suggestion{
	{Text: "memorial", Type: suggestion.Query, Count: 100},
	{Text: "obituary", Type: suggestion.Query, Count: 95},
	{Text: "tribute", Type: suggestion.Query, Count: 90},
	{Text: "funeral", Type: suggestion.Query, Count: 85},
	{Text: "celebration of life", Type: suggestion.Query, Count: 80},
	{Text: "in loving memory", Type: suggestion.Query, Count: 75},
	{Text: "remembrance", Type: suggestion.Query, Count: 70},
	{Text: "veteran", Type: suggestion.Query, Count: 65},
	{Text: "cemetery", Type: suggestion.Query, Count: 60},
	{Text: "guestbook", Type: suggestion.Query, Count: 55},
}

// matcher holds the case-folded partial query.
type matcher struct {
	q string
}

func newMatcher(q string) matcher { return matcher{q: fold(q)} }

func (m matcher) in(s string) bool { return s != "" && strings.Contains(fold(s), m.q) }

func fold(s string) string { return cases.Fold().String(s) }

// names returns records whose display name contains the query. Records come
// most viewed first, so the view count is the suggestion count.
func names(ms []memorial.Memorial, m matcher) []suggestion.Suggestion {
	var out []suggestion.Suggestion
	for i := range ms {
		if !m.in(ms[i].Name) {
			continue
		}
		out = append(out, suggestion.Suggestion{Text: ms[i].Name, Type: suggestion.Name, Count: ms[i].ViewCount})
		if len(out) == maxNames {
			break
		}
	}
	return out
}

// locations returns distinct matching cities ("City, ST") and states. A state
// match is skipped for a record whose city already matched.
func locations(ms []memorial.Memorial, m matcher) []suggestion.Suggestion {
	counts := newCounter()
	for i := range ms {
		for _, l := range []memorial.Location{ms[i].DeathLocation, ms[i].RestingPlace} {
			switch {
			case m.in(l.City):
				text := l.City
				if l.State != "" {
					text += ", " + l.State
				}
				counts.add(text)
			case m.in(l.State):
				counts.add(l.State)
			}
		}
	}
	return counts.top(suggestion.Location, 0)
}

// tags counts visible records per matching tag.
func tags(ms []memorial.Memorial, m matcher) []suggestion.Suggestion {
	counts := newCounter()
	for i := range ms {
		seen := make(map[string]bool, len(ms[i].Tags))
		for _, t := range ms[i].Tags {
			k := fold(t)
			if seen[k] || !m.in(t) {
				continue
			}
			seen[k] = true
			counts.add(t)
		}
	}
	return counts.top(suggestion.Tag, maxTags)
}

// popular matches the vocabulary by containment in either direction.
func popular(m matcher) []suggestion.Suggestion {
	var out []suggestion.Suggestion
	for _, v := range vocabulary {
		if strings.Contains(v.Text, m.q) || strings.Contains(m.q, v.Text) {
			out = append(out, v)
			if len(out) == maxVocabulary {
				break
			}
		}
	}
	return out
}

// counter tallies texts case-insensitively, keeping the first spelling seen.
type counter struct {
	order []string
	text  map[string]string
	n     map[string]int
}

func newCounter() *counter {
	return &counter{text: make(map[string]string), n: make(map[string]int)}
}

func (c *counter) add(s string) {
	k := fold(s)
	if _, ok := c.n[k]; !ok {
		c.order = append(c.order, k)
		c.text[k] = s
	}
	c.n[k]++
}

// top returns suggestions by count descending; limit <= 0 keeps all.
func (c *counter) top(t suggestion.Type, limit int) []suggestion.Suggestion {
	out := make([]suggestion.Suggestion, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, suggestion.Suggestion{Text: c.text[k], Type: t, Count: c.n[k]})
	}
	slices.SortStableFunc(out, func(a, b suggestion.Suggestion) int { return cmp.Compare(b.Count, a.Count) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
