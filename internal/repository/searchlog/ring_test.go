package searchlog

import (
	"context"
	"sync"
	"testing"
	"time"

	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
)

func TestRing_Overwrites(t *testing.T) {
	r := NewRing(3)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		_ = r.Append(context.Background(), domlog.Entry{
			Query:     string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}

	got, _ := r.Since(context.Background(), time.Time{}, 0)
	var queries string
	for _, e := range got {
		queries += e.Query
	}
	if queries != "cde" {
		t.Errorf("queries = %q, want oldest-first cde", queries)
	}
}

func TestRing_SinceAndLimit(t *testing.T) {
	r := NewRing(10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 4 {
		_ = r.Append(context.Background(), domlog.Entry{Timestamp: base.AddDate(0, 0, i)})
	}

	got, _ := r.Since(context.Background(), base.AddDate(0, 0, 1), 0)
	if len(got) != 3 {
		t.Errorf("since filter: %d entries, want 3", len(got))
	}
	got, _ = r.Since(context.Background(), base, 2)
	if len(got) != 2 || !got[0].Timestamp.Equal(base.AddDate(0, 0, 2)) || !got[1].Timestamp.Equal(base.AddDate(0, 0, 3)) {
		t.Errorf("limit must keep the newest entries oldest first: %+v", got)
	}
}

func TestRing_Concurrent(t *testing.T) {
	r := NewRing(64)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = r.Append(context.Background(), domlog.Entry{Timestamp: time.Now()})
				_, _ = r.Since(context.Background(), time.Time{}, 10)
			}
		}()
	}
	wg.Wait()
	if r.Len() != 64 {
		t.Errorf("Len = %d, want 64", r.Len())
	}
}
