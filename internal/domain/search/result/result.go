package result

import "github.com/kailas-cloud/memorialdex/internal/domain/memorial"

// Highlight is the first matching snippet of one field, with matched terms
// wrapped in <mark> tags.
type Highlight struct {
	Field   string `json:"field"`
	Snippet string `json:"snippet"`
}

// Result is a single ranked memorial.
type Result struct {
	memorial   memorial.Memorial
	score      float64
	highlights []Highlight
}

// New creates a search result. Score is clamped to [0,1].
func New(m memorial.Memorial, score float64, highlights []Highlight) Result {
	return Result{memorial: m, score: clamp01(score), highlights: highlights}
}

// Memorial returns the wrapped record.
func (r *Result) Memorial() memorial.Memorial { return r.memorial }

// Score returns the relevance score in [0,1].
func (r *Result) Score() float64 { return r.score }

// Highlights returns the matched snippets in field order.
func (r *Result) Highlights() []Highlight { return r.highlights }

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
