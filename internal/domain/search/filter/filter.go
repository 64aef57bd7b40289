package filter

import (
	"fmt"
	"strings"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// MaxTermsPerText caps the number of terms in one full-text condition.
const MaxTermsPerText = 16

// Expression is a structured filter with must/should/must_not boolean semantics.
// Values stay typed; rendering into a store query is the store adapter's job.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Text returns the first full-text condition in the must group, if any.
func (e Expression) Text() (*Text, bool) {
	for _, c := range e.must {
		if c.IsText() {
			return c.text, true
		}
	}
	return nil, false
}

// Condition is a single filter clause: a tag match, a numeric range or a full-text match.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
	text      *Text
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// NewText creates a full-text condition over all text fields of the index.
func NewText(t Text) (Condition, error) {
	if len(t.terms) == 0 {
		return Condition{}, fmt.Errorf("text condition requires at least one term")
	}
	return Condition{text: &t}, nil
}

// Key returns the field name. Empty for full-text conditions.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Text returns the full-text expression.
func (c Condition) Text() *Text { return c.text }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// IsText reports whether this is a full-text condition.
func (c Condition) IsText() bool { return c.text != nil }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Term is one query word with optional OR-alternatives (synonyms).
type Term struct {
	alternatives []string
	fuzzy        bool
	prefix       bool
}

// NewTerm creates a term. The first alternative is the word as typed.
func NewTerm(word string, alternatives ...string) (Term, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Term{}, fmt.Errorf("term is required")
	}
	alts := []string{word}
	seen := map[string]struct{}{strings.ToLower(word): {}}
	for _, a := range alternatives {
		a = strings.TrimSpace(a)
		k := strings.ToLower(a)
		if _, dup := seen[k]; dup || a == "" {
			continue
		}
		seen[k] = struct{}{}
		alts = append(alts, a)
	}
	return Term{alternatives: alts}, nil
}

// WithFuzzy returns a copy of the term allowing approximate matches.
func (t Term) WithFuzzy() Term { t.fuzzy = true; return t }

// WithPrefix returns a copy of the term matching word prefixes.
func (t Term) WithPrefix() Term { t.prefix = true; return t }

// Word returns the term as typed.
func (t Term) Word() string { return t.alternatives[0] }

// Alternatives returns the word followed by its synonyms.
func (t Term) Alternatives() []string { return t.alternatives }

// Fuzzy reports whether approximate matching is enabled.
func (t Term) Fuzzy() bool { return t.fuzzy }

// Prefix reports whether prefix matching is enabled.
func (t Term) Prefix() bool { return t.prefix }

// Text is an AND of terms, each term an OR of its alternatives.
type Text struct {
	terms []Term
}

// NewTextMatch validates and creates a Text expression.
func NewTextMatch(terms []Term) (Text, error) {
	if len(terms) == 0 {
		return Text{}, fmt.Errorf("at least one term is required")
	}
	if len(terms) > MaxTermsPerText {
		return Text{}, fmt.Errorf("too many terms (max %d)", MaxTermsPerText)
	}
	return Text{terms: terms}, nil
}

// Terms returns the terms.
func (t Text) Terms() []Term { return t.terms }

// Words returns the typed words, without synonyms.
func (t Text) Words() []string {
	out := make([]string, len(t.terms))
	for i, term := range t.terms {
		out[i] = term.Word()
	}
	return out
}
