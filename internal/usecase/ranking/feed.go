package ranking

import (
	"cmp"
	"slices"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
)

// Feed relevance weights.
const (
	recencyWeight   = 0.7
	proximityWeight = 0.3
	recencyHorizon  = 365 * 24 * time.Hour
	// unknownProximity is used when either side has no coordinates.
	unknownProximity = 0.5
)

// FeedInput describes one obituary feed request.
type FeedInput struct {
	// Origin is the caller position; nil means distance is unknown for every record.
	Origin *geo.Point
	// RadiusMiles drops records farther than this. Zero disables the radius.
	RadiusMiles float64
	SortBy      obituary.SortBy
	Now         time.Time
}

// Feed scores memorials for the discovery feed. Records with a missing or
// future death date are excluded. When a radius is set, records without
// coordinates are excluded too.
func (s *Scorer) Feed(in FeedInput, ms []memorial.Memorial) []obituary.Entry {
	out := make([]obituary.Entry, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		if !m.HasValidDeathDate(in.Now) {
			continue
		}

		var dist *float64
		if in.Origin != nil {
			if p, ok := m.Coordinates(); ok {
				d := in.Origin.Distance(p)
				dist = &d
			}
		}
		if in.RadiusMiles > 0 && (dist == nil || *dist > in.RadiusMiles) {
			continue
		}

		recency := s.recency(m.CreatedAt, in.Now)
		proximity := s.proximity(dist)
		out = append(out, obituary.Entry{
			Memorial:   *m,
			Distance:   dist,
			DaysAgo:    int(in.Now.Sub(*m.DeathDate) / (24 * time.Hour)),
			Engagement: m.Engagement(),
			Recency:    recency,
			Proximity:  proximity,
			Relevance:  recencyWeight*recency + proximityWeight*proximity,
		})
	}

	slices.SortStableFunc(out, feedOrder(in.SortBy))
	return out
}

func (s *Scorer) recency(created, now time.Time) float64 {
	age := now.Sub(created)
	return min(1, max(0, 1-float64(age)/float64(recencyHorizon)))
}

func (s *Scorer) proximity(dist *float64) float64 {
	if dist == nil {
		return unknownProximity
	}
	return max(0, 1-*dist/s.cfg.MaxDistanceMiles)
}

func feedOrder(by obituary.SortBy) func(a, b obituary.Entry) int {
	switch by {
	case obituary.ByDistance:
		return func(a, b obituary.Entry) int {
			switch {
			case a.Distance == nil && b.Distance == nil:
				return 0
			case a.Distance == nil:
				return 1
			case b.Distance == nil:
				return -1
			}
			return cmp.Compare(*a.Distance, *b.Distance)
		}
	case obituary.ByRecent:
		return func(a, b obituary.Entry) int {
			return b.Memorial.DeathDate.Compare(*a.Memorial.DeathDate)
		}
	case obituary.ByEngagement:
		return func(a, b obituary.Entry) int {
			return cmp.Compare(b.Engagement, a.Engagement)
		}
	default:
		return func(a, b obituary.Entry) int {
			return cmp.Compare(b.Relevance, a.Relevance)
		}
	}
}
