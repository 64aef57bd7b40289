package obituary

import "testing"

func TestPeriodDays(t *testing.T) {
	tests := map[Period]int{Week: 7, Month: 30, Quarter: 90, Year: 365, "": 30, "decade": 30}
	for p, want := range tests {
		if got := p.Days(); got != want {
			t.Errorf("%q.Days() = %d, want %d", p, got, want)
		}
	}
}

func TestValidity(t *testing.T) {
	if Period("").IsValid() || Period("decade").IsValid() {
		t.Error("unexpected valid period")
	}
	for _, s := range []SortBy{ByRelevance, ByDistance, ByRecent, ByEngagement} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if SortBy("alphabetical").IsValid() {
		t.Error("unexpected valid sort")
	}
}
