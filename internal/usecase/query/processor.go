// Package query turns a raw query string plus structured filters into a typed
// store query, and back.
package query

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/query"
)

// MaxQueryLength caps the raw query string, in runes.
const MaxQueryLength = 200

// recentWindow is the "recent" year-range cutoff.
const recentWindow = 365 * 24 * time.Hour

// fuzzyMinLength is the shortest word that gets approximate matching.
const fuzzyMinLength = 4

// prefixMinLength is the shortest trailing word completed as a prefix.
const prefixMinLength = 3

// Options are the advanced-search preprocessing toggles.
type Options struct {
	Fuzzy       bool `json:"fuzzy"`
	Synonyms    bool `json:"synonyms"`
	DateNLP     bool `json:"date_nlp"`
	LocationNLP bool `json:"location_nlp"`
}

// Processor builds store queries. Safe for concurrent use.
type Processor struct {
	now func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the wall clock used for relative date filters.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Build validates f and translates q and f into a store query. Every filter
// becomes an AND-ed predicate except tags, which match any-of.
func (p *Processor) Build(q string, f filters.Filters) (query.Query, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return query.Query{}, err
	}
	words, err := tokenize(q)
	if err != nil {
		return query.Query{}, err
	}
	terms, err := plainTerms(words)
	if err != nil {
		return query.Query{}, err
	}
	return p.build(terms, f)
}

// Advanced preprocesses q according to opts before building. It returns the
// effective filters, which include anything extracted from the text.
// Explicit filters always win over extracted ones.
func (p *Processor) Advanced(q string, f filters.Filters, opts Options) (query.Query, filters.Filters, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return query.Query{}, f, err
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return query.Query{}, f, tooLong()
	}

	now := p.now()
	if opts.DateNLP {
		var dr *filters.DateRange
		q, dr = extractDateRange(q, now)
		if f.DateRange == nil && dr != nil {
			f.DateRange = dr
		}
	}
	if opts.LocationNLP {
		var loc *filters.Location
		q, loc = extractLocation(q)
		if f.Location == nil && loc != nil {
			f.Location = loc
		}
	}

	words, err := tokenize(q)
	if err != nil {
		return query.Query{}, f, err
	}

	terms := make([]filter.Term, 0, len(words))
	for i, w := range words {
		var alts []string
		if opts.Synonyms {
			alts = synonymsOf(w)
		}
		term, err := filter.NewTerm(w, alts...)
		if err != nil {
			return query.Query{}, f, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		if opts.Fuzzy && utf8.RuneCountInString(w) >= fuzzyMinLength {
			term = term.WithFuzzy()
		}
		// the last word may still be mid-typing
		if opts.Fuzzy && i == len(words)-1 && utf8.RuneCountInString(w) >= prefixMinLength {
			term = term.WithPrefix()
		}
		terms = append(terms, term)
	}

	built, err := p.build(terms, f)
	return built, f, err
}

// Filters re-derives the structured filters from a built query. Privacy is a
// system predicate and is not reported.
func (p *Processor) Filters(q query.Query) filters.Filters {
	var f filters.Filters
	expr := q.Filter()

	for _, c := range expr.Must() {
		switch c.Key() {
		case dommem.FieldFuneralHomeID:
			f.FuneralHomeID = c.Match()
		case dommem.FieldDeathTS:
			if r := c.Range(); r != nil {
				f.DateRange = &filters.DateRange{Start: unixBound(r.GTE()), End: unixBound(r.LTE())}
			}
		case dommem.FieldDeathCity:
			location(&f).City = c.Match()
		case dommem.FieldDeathState:
			location(&f).State = c.Match()
		case dommem.FieldDeathCountry:
			location(&f).Country = c.Match()
		case dommem.FieldHasPhotos:
			f.MediaType = filters.MediaPhoto
		case dommem.FieldHasVideos:
			f.MediaType = filters.MediaVideo
		case dommem.FieldHasAudio:
			f.MediaType = filters.MediaAudio
		case dommem.FieldCreatedAt:
			if r := c.Range(); r != nil {
				if r.GTE() != nil {
					f.YearRange = filters.Recent
				} else if r.LT() != nil {
					f.YearRange = filters.Old
				}
			}
		}
	}
	for _, c := range expr.Should() {
		if c.Key() == dommem.FieldTags {
			f.Tags = append(f.Tags, c.Match())
		}
	}

	f.Sort = sortOf(q.SortField(), q.Ascending())
	f.Page = filters.Page{Limit: q.Limit(), Offset: q.Offset()}
	return f
}

func (p *Processor) build(terms []filter.Term, f filters.Filters) (query.Query, error) {
	must, err := p.predicates(f)
	if err != nil {
		return query.Query{}, fmt.Errorf("build predicates: %w", err)
	}
	if len(terms) > 0 {
		txt, err := filter.NewTextMatch(terms)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		cond, err := filter.NewText(txt)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		must = append([]filter.Condition{cond}, must...)
	}

	should := make([]filter.Condition, 0, len(f.Tags))
	for _, tag := range f.Tags {
		c, err := filter.NewMatch(dommem.FieldTags, tag)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		should = append(should, c)
	}

	expr, err := filter.NewExpression(must, should, nil)
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	field, asc := sortField(f.Sort)
	return query.New(expr, field, asc, f.Page.Limit, f.Page.Offset)
}

func (p *Processor) predicates(f filters.Filters) ([]filter.Condition, error) {
	var must []filter.Condition
	add := func(c filter.Condition, err error) error {
		if err != nil {
			return err
		}
		must = append(must, c)
		return nil
	}

	if err := add(filter.NewMatch(dommem.FieldPrivacy, string(dommem.Public))); err != nil {
		return nil, err
	}
	if f.FuneralHomeID != "" {
		if err := add(filter.NewMatch(dommem.FieldFuneralHomeID, f.FuneralHomeID)); err != nil {
			return nil, err
		}
	}
	if d := f.DateRange; !d.IsZero() {
		r, err := filter.NewRangeFilter(nil, unixValue(d.Start), nil, unixValue(d.End))
		if err != nil {
			return nil, err
		}
		if err := add(filter.NewRange(dommem.FieldDeathTS, r)); err != nil {
			return nil, err
		}
	}
	if l := f.Location; !l.IsZero() {
		for _, kv := range [][2]string{
			{dommem.FieldDeathCity, l.City},
			{dommem.FieldDeathState, l.State},
			{dommem.FieldDeathCountry, l.Country},
		} {
			if kv[1] == "" {
				continue
			}
			if err := add(filter.NewMatch(kv[0], kv[1])); err != nil {
				return nil, err
			}
		}
	}
	if f.MediaType != "" {
		if err := add(filter.NewMatch(mediaField(f.MediaType), dommem.FlagTrue)); err != nil {
			return nil, err
		}
	}
	if f.YearRange != "" {
		cutoff := float64(p.now().Add(-recentWindow).Unix())
		var r filter.Range
		var err error
		if f.YearRange == filters.Recent {
			r, err = filter.NewRangeFilter(nil, &cutoff, nil, nil)
		} else {
			r, err = filter.NewRangeFilter(nil, nil, &cutoff, nil)
		}
		if err != nil {
			return nil, err
		}
		if err := add(filter.NewRange(dommem.FieldCreatedAt, r)); err != nil {
			return nil, err
		}
	}
	return must, nil
}

// tokenize splits q into words on anything but letters, digits, apostrophes
// and inner hyphens. Extra words past the term cap are dropped.
func tokenize(q string) ([]string, error) {
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return nil, tooLong()
	}
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
	out := words[:0]
	for _, w := range words {
		if w = strings.Trim(w, "'-"); w != "" {
			out = append(out, w)
		}
	}
	if len(out) > filter.MaxTermsPerText {
		out = out[:filter.MaxTermsPerText]
	}
	return out, nil
}

func plainTerms(words []string) ([]filter.Term, error) {
	terms := make([]filter.Term, 0, len(words))
	for _, w := range words {
		t, err := filter.NewTerm(w)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		terms = append(terms, t)
	}
	return terms, nil
}

func tooLong() error {
	return domain.NewValidationError("query", fmt.Sprintf("must be at most %d characters", MaxQueryLength))
}

func sortField(s filters.Sort) (query.SortField, bool) {
	switch s {
	case filters.SortOldest:
		return query.SortCreatedAt, true
	case filters.SortName:
		return query.SortName, true
	case filters.SortPopular:
		return query.SortViews, false
	case filters.SortRelevance:
		return query.SortNone, false
	default:
		return query.SortCreatedAt, false
	}
}

func sortOf(field query.SortField, asc bool) filters.Sort {
	switch field {
	case query.SortCreatedAt:
		if asc {
			return filters.SortOldest
		}
		return filters.SortNewest
	case query.SortName:
		return filters.SortName
	case query.SortViews:
		return filters.SortPopular
	default:
		return filters.SortRelevance
	}
}

func mediaField(m filters.MediaType) string {
	switch m {
	case filters.MediaVideo:
		return dommem.FieldHasVideos
	case filters.MediaAudio:
		return dommem.FieldHasAudio
	default:
		return dommem.FieldHasPhotos
	}
}

func location(f *filters.Filters) *filters.Location {
	if f.Location == nil {
		f.Location = &filters.Location{}
	}
	return f.Location
}

func unixValue(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := float64(t.Unix())
	return &v
}

func unixBound(v *float64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(int64(*v), 0).UTC()
	return &t
}
