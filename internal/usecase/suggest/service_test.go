package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
)

// --- Mocks ---

type mockCatalog struct {
	listFn func(ctx context.Context, limit int) ([]memorial.Memorial, error)
	calls  atomic.Int32
}

func (m *mockCatalog) ListVisible(ctx context.Context, limit int) ([]memorial.Memorial, error) {
	m.calls.Add(1)
	return m.listFn(ctx, limit)
}

func catalogOf(ms ...memorial.Memorial) *mockCatalog {
	return &mockCatalog{listFn: func(context.Context, int) ([]memorial.Memorial, error) { return ms, nil }}
}

func rec(name, city, state string, views int, tags ...string) memorial.Memorial {
	return memorial.Memorial{
		Name:          name,
		DeathLocation: memorial.Location{City: city, State: state},
		ViewCount:     views,
		Tags:          tags,
		Privacy:       memorial.Public,
	}
}

func texts(ss []suggestion.Suggestion) string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, fmt.Sprintf("%s:%s:%d", s.Type, s.Text, s.Count))
	}
	return strings.Join(out, " | ")
}

// --- Tests ---

func TestSuggest_ShortQuery(t *testing.T) {
	cat := catalogOf(rec("Al", "", "", 1))
	svc := New(cat, 0)

	for _, q := range []string{"", "a", "  b  ", "é"} {
		got, err := svc.Suggest(context.Background(), q)
		if err != nil {
			t.Fatalf("Suggest(%q): %v", q, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Suggest(%q) = %v, want empty non-nil", q, got)
		}
	}
	if cat.calls.Load() != 0 {
		t.Errorf("catalog scanned %d times for short queries", cat.calls.Load())
	}
}

func TestSuggest_ScansOnceWithLimit(t *testing.T) {
	var gotLimit int
	cat := &mockCatalog{listFn: func(_ context.Context, limit int) ([]memorial.Memorial, error) {
		gotLimit = limit
		return nil, nil
	}}
	if _, err := New(cat, 42).Suggest(context.Background(), "mem"); err != nil {
		t.Fatal(err)
	}
	if cat.calls.Load() != 1 {
		t.Errorf("catalog scanned %d times, want 1", cat.calls.Load())
	}
	if gotLimit != 42 {
		t.Errorf("scan limit = %d, want 42", gotLimit)
	}
}

func TestSuggest_MergeOrder(t *testing.T) {
	cat := catalogOf(
		rec("Ann Smithers", "Smithfield", "NC", 3, "smithing"),
		rec("Smith", "Austin", "TX", 1),
		rec("John Smith", "", "", 9),
	)
	got, err := New(cat, 0).Suggest(context.Background(), "smith")
	if err != nil {
		t.Fatal(err)
	}

	// exact, then prefix matches, then containment by count
	want := "name:Smith:1 | location:Smithfield, NC:1 | tag:smithing:1 | name:John Smith:9 | name:Ann Smithers:3"
	if texts(got) != want {
		t.Errorf("got  %s\nwant %s", texts(got), want)
	}
}

func TestSuggest_DedupesCaseInsensitively(t *testing.T) {
	cat := catalogOf(
		rec("Veteran", "", "", 1, "veteran"),
		rec("Other", "", "", 1, "Veteran"),
	)
	got, err := New(cat, 0).Suggest(context.Background(), "VETERAN")
	if err != nil {
		t.Fatal(err)
	}
	// popular vocabulary "veteran" has the highest count among exact matches
	if len(got) != 1 || got[0].Type != suggestion.Query || got[0].Count != 65 {
		t.Errorf("got %s, want a single vocabulary suggestion", texts(got))
	}
}

func TestSuggest_CapsResults(t *testing.T) {
	var ms []memorial.Memorial
	for i := range 20 {
		ms = append(ms, rec(fmt.Sprintf("Mary %02d", i), fmt.Sprintf("Maryville %02d", i), "", i, fmt.Sprintf("mary-%02d", i)))
	}
	got, err := New(catalogOf(ms...), 0).Suggest(context.Background(), "mary")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != suggestion.MaxResults {
		t.Errorf("len = %d, want %d", len(got), suggestion.MaxResults)
	}
}

func TestSuggest_PoolFailureDegrades(t *testing.T) {
	cat := &mockCatalog{listFn: func(context.Context, int) ([]memorial.Memorial, error) {
		return nil, errors.New("connection refused")
	}}
	got, err := New(cat, 0).Suggest(context.Background(), "funeral home")
	if err != nil {
		t.Fatalf("pool failure must not surface: %v", err)
	}
	if texts(got) != "query:funeral:85" {
		t.Errorf("got %s, want only the vocabulary pool", texts(got))
	}
}

func TestLocations_StateSuppressedByCity(t *testing.T) {
	ms := []memorial.Memorial{
		rec("a", "Kansas City", "Kansas", 1),
		rec("b", "Topeka", "Kansas", 1),
		rec("c", "kansas city", "KANSAS", 1),
	}
	got := locations(ms, newMatcher("kansas"))
	if texts(got) != "location:Kansas City, Kansas:2 | location:Kansas:1" {
		t.Errorf("got %s", texts(got))
	}
}

func TestTags_CountsRecords(t *testing.T) {
	ms := []memorial.Memorial{
		rec("a", "", "", 0, "Navy Veteran", "navy veteran"),
		rec("b", "", "", 0, "navy veteran", "navy"),
		rec("c", "", "", 0, "army"),
		rec("d", "", "", 0, "navy"),
		rec("e", "", "", 0, "navy"),
	}
	got := tags(ms, newMatcher("nav"))
	if texts(got) != "tag:navy:3 | tag:Navy Veteran:2" {
		t.Errorf("got %s", texts(got))
	}
}

func TestNames_TopFive(t *testing.T) {
	var ms []memorial.Memorial
	for i := range 8 {
		ms = append(ms, rec(fmt.Sprintf("Lee %d", i), "", "", 10-i))
	}
	ms = append(ms, rec("Ann Jones", "", "", 100))
	got := names(ms, newMatcher("lee"))
	if len(got) != maxNames || got[0].Text != "Lee 0" {
		t.Errorf("got %s", texts(got))
	}
}

func TestPopular_ContainmentBothWays(t *testing.T) {
	tests := []struct {
		q, want string
	}{
		{"mem", "query:memorial:100 | query:in loving memory:75 | query:remembrance:70"},
		{"obituary notices", "query:obituary:95"},
		{"zzz", ""},
	}
	for _, tc := range tests {
		if got := texts(popular(newMatcher(tc.q))); got != tc.want {
			t.Errorf("popular(%q) = %s, want %s", tc.q, got, tc.want)
		}
	}
}
