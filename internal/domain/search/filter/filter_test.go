package filter

import (
	"strings"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestNewRangeFilter(t *testing.T) {
	tests := []struct {
		name             string
		gt, gte, lt, lte *float64
		wantErr          string
	}{
		{"gte only", nil, floatPtr(0), nil, nil, ""},
		{"lt only", nil, nil, floatPtr(10), nil, ""},
		{"gte+lte", nil, floatPtr(0), nil, floatPtr(10), ""},
		{"gt+lt", floatPtr(0), nil, floatPtr(10), nil, ""},
		{"none", nil, nil, nil, nil, "at least one"},
		{"gt and gte", floatPtr(1), floatPtr(1), nil, nil, "gt and gte"},
		{"lt and lte", nil, nil, floatPtr(1), floatPtr(1), "lt and lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRangeFilter(tt.gt, tt.gte, tt.lt, tt.lte)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (r.GT() == nil) != (tt.gt == nil) || (r.GTE() == nil) != (tt.gte == nil) ||
				(r.LT() == nil) != (tt.lt == nil) || (r.LTE() == nil) != (tt.lte == nil) {
				t.Error("bound accessors do not reflect input")
			}
		})
	}
}

func TestNewMatch(t *testing.T) {
	c, err := NewMatch("death_city", "Chicago")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "death_city" || c.Match() != "Chicago" {
		t.Errorf("got key=%q match=%q", c.Key(), c.Match())
	}
	if !c.IsMatch() || c.IsRange() || c.IsText() {
		t.Error("match condition reports the wrong kind")
	}

	if _, err := NewMatch("", "x"); err == nil || !strings.Contains(err.Error(), "key is required") {
		t.Errorf("expected key error, got %v", err)
	}
	if _, err := NewMatch("tags", ""); err == nil || !strings.Contains(err.Error(), "match value") {
		t.Errorf("expected value error, got %v", err)
	}
}

func TestNewRange(t *testing.T) {
	r, _ := NewRangeFilter(nil, floatPtr(0), nil, floatPtr(100))
	c, err := NewRange("death_ts", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsRange() || c.IsMatch() || c.IsText() {
		t.Error("range condition reports the wrong kind")
	}
	if *c.Range().LTE() != 100 {
		t.Errorf("LTE = %v", *c.Range().LTE())
	}
	if _, err := NewRange("", r); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestNewTerm_DedupesAlternatives(t *testing.T) {
	term, err := NewTerm(" Funeral ", "service", "FUNERAL", "", "memorial service", "Service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := term.Alternatives()
	want := []string{"Funeral", "service", "memorial service"}
	if len(got) != len(want) {
		t.Fatalf("alternatives = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("alternatives[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if term.Word() != "Funeral" {
		t.Errorf("Word() = %q", term.Word())
	}
	if _, err := NewTerm("  "); err == nil {
		t.Error("expected error for blank term")
	}
}

func TestTerm_Modifiers(t *testing.T) {
	base, _ := NewTerm("smith")
	fuzzy := base.WithFuzzy()
	prefix := base.WithPrefix()
	if base.Fuzzy() || base.Prefix() {
		t.Error("modifiers must not mutate the receiver")
	}
	if !fuzzy.Fuzzy() || !prefix.Prefix() {
		t.Error("modifiers not applied")
	}
}

func TestNewText(t *testing.T) {
	a, _ := NewTerm("john")
	b, _ := NewTerm("smith")
	txt, err := NewTextMatch([]Term{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	words := txt.Words()
	if len(words) != 2 || words[0] != "john" || words[1] != "smith" {
		t.Errorf("Words() = %v", words)
	}

	c, err := NewText(txt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsText() || c.Key() != "" {
		t.Error("text condition reports the wrong kind")
	}

	if _, err := NewTextMatch(nil); err == nil {
		t.Error("expected error for no terms")
	}
	many := make([]Term, MaxTermsPerText+1)
	for i := range many {
		many[i] = a
	}
	if _, err := NewTextMatch(many); err == nil {
		t.Error("expected error for too many terms")
	}
	if _, err := NewText(Text{}); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestExpression_Groups(t *testing.T) {
	m1, _ := NewMatch("privacy", "public")
	m2, _ := NewMatch("tags", "veteran")
	m3, _ := NewMatch("funeral_home_id", "fh-9")

	expr, err := NewExpression([]Condition{m1}, []Condition{m2}, []Condition{m3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Must()) != 1 || len(expr.Should()) != 1 || len(expr.MustNot()) != 1 {
		t.Error("expected 1 condition in each group")
	}
	if expr.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty expression")
	}
	if _, ok := expr.Text(); ok {
		t.Error("Text() found a condition that is not there")
	}

	empty, _ := NewExpression(nil, nil, nil)
	if !empty.IsEmpty() {
		t.Error("IsEmpty() = false for empty expression")
	}
}

func TestExpression_Text(t *testing.T) {
	term, _ := NewTerm("rose")
	txt, _ := NewTextMatch([]Term{term})
	tc, _ := NewText(txt)
	m, _ := NewMatch("privacy", "public")

	expr, _ := NewExpression([]Condition{m, tc}, nil, nil)
	got, ok := expr.Text()
	if !ok || got.Words()[0] != "rose" {
		t.Fatalf("Text() = %v, %v", got, ok)
	}
}

func TestNewExpression_Limits(t *testing.T) {
	conds := make([]Condition, MaxConditionsPerGroup+1)
	for i := range conds {
		conds[i] = Condition{key: "k", match: "v"}
	}
	groups := []struct {
		name                  string
		must, should, mustNot []Condition
	}{
		{"must", conds, nil, nil},
		{"should", nil, conds, nil},
		{"must_not", nil, nil, conds},
	}
	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			_, err := NewExpression(g.must, g.should, g.mustNot)
			if err == nil || !strings.Contains(err.Error(), "too many "+g.name) {
				t.Fatalf("expected too-many error, got %v", err)
			}
		})
	}

	atMax := conds[:MaxConditionsPerGroup]
	if _, err := NewExpression(atMax, atMax, atMax); err != nil {
		t.Fatalf("unexpected error at max: %v", err)
	}
}
