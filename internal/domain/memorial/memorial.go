// Package memorial holds the read-only memorial record owned by the content store.
package memorial

import (
	"strings"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
)

// Privacy controls who can discover a memorial.
type Privacy string

const (
	// Public memorials appear in search, suggestions and the obituary feed.
	Public Privacy = "public"
	// Unlisted memorials are reachable by link only.
	Unlisted Privacy = "unlisted"
	// Private memorials are visible to family members only.
	Private Privacy = "private"
)

// IsValid checks if the privacy level is one of the supported values.
func (p Privacy) IsValid() bool {
	return p == Public || p == Unlisted || p == Private
}

// Location is a place with optional coordinates.
type Location struct {
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Country     string     `json:"country,omitempty"`
	Coordinates *geo.Point `json:"coordinates,omitempty"`
}

// IsZero reports whether no part of the location is set.
func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.Country == "" && l.Coordinates == nil
}

// String renders "City, State, Country", skipping empty parts.
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Media flags which kinds of media a memorial carries.
type Media struct {
	Photos bool `json:"photos"`
	Videos bool `json:"videos"`
	Audio  bool `json:"audio"`
}

// Memorial is a published memorial page.
type Memorial struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Subtitle       string     `json:"subtitle,omitempty"`
	Description    string     `json:"description,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	DeathDate      *time.Time `json:"death_date,omitempty"`
	BirthLocation  Location   `json:"birth_location"`
	DeathLocation  Location   `json:"death_location"`
	RestingPlace   Location   `json:"resting_place"`
	Tags           []string   `json:"tags,omitempty"`
	Media          Media      `json:"media"`
	CreatedAt      time.Time  `json:"created_at"`
	Privacy        Privacy    `json:"privacy"`
	ViewCount      int        `json:"view_count"`
	GuestbookCount int        `json:"guestbook_count"`
	FuneralHomeID  string     `json:"funeral_home_id,omitempty"`
}

// Coordinates returns the death-location coordinate, falling back to the
// resting place. ok is false when neither carries a valid point.
func (m *Memorial) Coordinates() (geo.Point, bool) {
	for _, c := range []*geo.Point{m.DeathLocation.Coordinates, m.RestingPlace.Coordinates} {
		if c != nil && c.Valid() {
			return *c, true
		}
	}
	return geo.Point{}, false
}

// Engagement is view count plus twice the guestbook entry count.
func (m *Memorial) Engagement() int {
	return m.ViewCount + 2*m.GuestbookCount
}

// IsVisible reports whether the memorial is publicly discoverable.
func (m *Memorial) IsVisible() bool {
	return m.Privacy == Public
}

// HasValidDeathDate reports whether the death date is set and not after now.
func (m *Memorial) HasValidDeathDate(now time.Time) bool {
	return m.DeathDate != nil && !m.DeathDate.IsZero() && !m.DeathDate.After(now)
}
