package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
)

func died(id string, daysAgo int, at *geo.Point) memorial.Memorial {
	d := now.AddDate(0, 0, -daysAgo)
	return memorial.Memorial{
		ID:            id,
		Name:          id,
		DeathDate:     &d,
		CreatedAt:     now,
		DeathLocation: memorial.Location{Coordinates: at},
		Privacy:       memorial.Public,
	}
}

func entryIDs(es []obituary.Entry) string {
	return ids(es, func(e obituary.Entry) string { return e.Memorial.ID })
}

func TestFeed_ProximityFallsToZeroBeyondMaxDistance(t *testing.T) {
	s := New(Config{MaxDistanceMiles: 100})
	origin := &geo.Point{Lat: 0, Lng: 0}

	out := s.Feed(FeedInput{Origin: origin, Now: now}, []memorial.Memorial{
		died("far", 1, &geo.Point{Lat: 0, Lng: 90}),
		died("here", 1, &geo.Point{Lat: 0, Lng: 0}),
	})

	if len(out) != 2 {
		t.Fatalf("got %d entries, want 2", len(out))
	}
	if entryIDs(out) != "here,far" {
		t.Errorf("order = %s", entryIDs(out))
	}
	here, far := out[0], out[1]
	if here.Proximity != 1 || here.Recency != 1 || math.Abs(here.Relevance-1) > 1e-9 {
		t.Errorf("here = %+v", here)
	}
	if far.Proximity != 0 {
		t.Errorf("far proximity = %v, want 0", far.Proximity)
	}
	if math.Abs(far.Relevance-0.7) > 1e-9 {
		t.Errorf("far relevance = %v, want 0.7", far.Relevance)
	}
	if far.Distance == nil || math.Abs(*far.Distance-geo.EarthRadiusMiles*math.Pi/2) > 1e-6 {
		t.Errorf("far distance = %v", far.Distance)
	}
}

func TestFeed_Recency(t *testing.T) {
	s := New(Config{})
	half := died("half", 1, nil)
	half.CreatedAt = now.Add(-recencyHorizon / 2)
	stale := died("stale", 1, nil)
	stale.CreatedAt = now.AddDate(-2, 0, 0)
	future := died("future", 1, nil)
	future.CreatedAt = now.Add(time.Hour)

	out := s.Feed(FeedInput{Now: now}, []memorial.Memorial{half, stale, future})
	got := map[string]obituary.Entry{}
	for _, e := range out {
		got[e.Memorial.ID] = e
	}

	if r := got["half"].Recency; math.Abs(r-0.5) > 1e-9 {
		t.Errorf("half recency = %v", r)
	}
	if r := got["stale"].Recency; r != 0 {
		t.Errorf("stale recency = %v", r)
	}
	if r := got["future"].Recency; r != 1 {
		t.Errorf("future recency = %v", r)
	}
	for _, e := range out {
		if e.Proximity != unknownProximity || e.Distance != nil {
			t.Errorf("%s: unknown location must give neutral proximity, got %+v", e.Memorial.ID, e)
		}
	}
}

func TestFeed_ExcludesInvalidDeathDates(t *testing.T) {
	noDate := died("none", 1, nil)
	noDate.DeathDate = nil
	future := died("future", -3, nil)
	ok := died("ok", 0, nil)

	out := New(Config{}).Feed(FeedInput{Now: now}, []memorial.Memorial{noDate, future, ok})
	if entryIDs(out) != "ok" {
		t.Errorf("got %s, want ok", entryIDs(out))
	}
	if out[0].DaysAgo != 0 {
		t.Errorf("DaysAgo = %d", out[0].DaysAgo)
	}
}

func TestFeed_Radius(t *testing.T) {
	origin := &geo.Point{Lat: 40.7128, Lng: -74.0060}
	ms := []memorial.Memorial{
		died("brooklyn", 1, &geo.Point{Lat: 40.6782, Lng: -73.9442}),
		died("chicago", 1, &geo.Point{Lat: 41.8781, Lng: -87.6298}),
		died("unknown", 1, nil),
	}

	out := New(Config{}).Feed(FeedInput{Origin: origin, RadiusMiles: 25, Now: now}, ms)
	if entryIDs(out) != "brooklyn" {
		t.Errorf("got %s, want brooklyn", entryIDs(out))
	}

	out = New(Config{}).Feed(FeedInput{Origin: origin, Now: now}, ms)
	if len(out) != 3 {
		t.Errorf("without radius got %d entries, want 3", len(out))
	}
}

func TestFeed_SortOrders(t *testing.T) {
	origin := &geo.Point{Lat: 0, Lng: 0}
	a := died("a", 10, &geo.Point{Lat: 0, Lng: 1})
	a.ViewCount = 5
	b := died("b", 2, nil)
	b.ViewCount, b.GuestbookCount = 1, 10
	c := died("c", 5, &geo.Point{Lat: 0, Lng: 0.1})
	c.ViewCount = 3
	ms := []memorial.Memorial{a, b, c}

	tests := []struct {
		by   obituary.SortBy
		want string
	}{
		{obituary.ByDistance, "c,a,b"},
		{obituary.ByRecent, "b,c,a"},
		{obituary.ByEngagement, "b,a,c"},
	}
	s := New(Config{})
	for _, tc := range tests {
		t.Run(string(tc.by), func(t *testing.T) {
			out := s.Feed(FeedInput{Origin: origin, SortBy: tc.by, Now: now}, ms)
			if got := entryIDs(out); got != tc.want {
				t.Errorf("order = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFeed_StableOnTies(t *testing.T) {
	ms := []memorial.Memorial{died("x", 1, nil), died("y", 1, nil), died("z", 1, nil)}
	out := New(Config{}).Feed(FeedInput{Now: now}, ms)
	if entryIDs(out) != "x,y,z" {
		t.Errorf("order = %s, want input order", entryIDs(out))
	}
}
