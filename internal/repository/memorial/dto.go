package memorial

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
)

const tagSeparator = ","

// Prefixes of the per-location hash fields.
const (
	birthPrefix = "birth_"
	deathPrefix = "death_"
	restPrefix  = "rest_"
)

// buildHashFields converts a Memorial into a flat map[string]string for HSET.
func buildHashFields(m *dommem.Memorial) map[string]string {
	h := map[string]string{
		dommem.FieldID:          m.ID,
		dommem.FieldName:        m.Name,
		dommem.FieldPrivacy:     string(m.Privacy),
		dommem.FieldCreatedAt:   strconv.FormatInt(m.CreatedAt.Unix(), 10),
		dommem.FieldViewCount:   strconv.Itoa(m.ViewCount),
		dommem.FieldGuestbook:   strconv.Itoa(m.GuestbookCount),
		dommem.FieldHasPhotos:   flag(m.Media.Photos),
		dommem.FieldHasVideos:   flag(m.Media.Videos),
		dommem.FieldHasAudio:    flag(m.Media.Audio),
		dommem.FieldLocations:   locationsText(m),
		dommem.FieldDescription: m.Description,
		dommem.FieldSubtitle:    m.Subtitle,
	}
	if m.FuneralHomeID != "" {
		h[dommem.FieldFuneralHomeID] = m.FuneralHomeID
	}
	if len(m.Tags) > 0 {
		tags := make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			// the separator cannot appear inside a tag value
			if t = strings.TrimSpace(strings.ReplaceAll(t, tagSeparator, " ")); t != "" {
				tags = append(tags, t)
			}
		}
		h[dommem.FieldTags] = strings.Join(tags, tagSeparator)
	}
	if m.BirthDate != nil {
		h[dommem.FieldBirthTS] = strconv.FormatInt(m.BirthDate.Unix(), 10)
	}
	if m.DeathDate != nil {
		h[dommem.FieldDeathTS] = strconv.FormatInt(m.DeathDate.Unix(), 10)
	}
	putLocation(h, birthPrefix, m.BirthLocation)
	putLocation(h, deathPrefix, m.DeathLocation)
	putLocation(h, restPrefix, m.RestingPlace)
	return h
}

// parseHashFields converts a flat hash map back into a Memorial. Malformed
// numeric fields read as zero rather than failing the whole page.
func parseHashFields(id string, h map[string]string) dommem.Memorial {
	m := dommem.Memorial{
		ID:             id,
		Name:           h[dommem.FieldName],
		Subtitle:       h[dommem.FieldSubtitle],
		Description:    h[dommem.FieldDescription],
		Privacy:        dommem.Privacy(h[dommem.FieldPrivacy]),
		FuneralHomeID:  h[dommem.FieldFuneralHomeID],
		ViewCount:      atoi(h[dommem.FieldViewCount]),
		GuestbookCount: atoi(h[dommem.FieldGuestbook]),
		Media: dommem.Media{
			Photos: h[dommem.FieldHasPhotos] == dommem.FlagTrue,
			Videos: h[dommem.FieldHasVideos] == dommem.FlagTrue,
			Audio:  h[dommem.FieldHasAudio] == dommem.FlagTrue,
		},
		BirthLocation: getLocation(h, birthPrefix),
		DeathLocation: getLocation(h, deathPrefix),
		RestingPlace:  getLocation(h, restPrefix),
		BirthDate:     unixPtr(h[dommem.FieldBirthTS]),
		DeathDate:     unixPtr(h[dommem.FieldDeathTS]),
	}
	if v, ok := h[dommem.FieldID]; ok && v != "" {
		m.ID = v
	}
	if ts := unixPtr(h[dommem.FieldCreatedAt]); ts != nil {
		m.CreatedAt = *ts
	}
	if raw := h[dommem.FieldTags]; raw != "" {
		for _, t := range strings.Split(raw, tagSeparator) {
			if t = strings.TrimSpace(t); t != "" {
				m.Tags = append(m.Tags, t)
			}
		}
	}
	return m
}

func putLocation(h map[string]string, prefix string, l dommem.Location) {
	if l.City != "" {
		h[prefix+"city"] = l.City
	}
	if l.State != "" {
		h[prefix+"state"] = l.State
	}
	if l.Country != "" {
		h[prefix+"country"] = l.Country
	}
	if c := l.Coordinates; c != nil && c.Valid() {
		h[prefix+"lat"] = strconv.FormatFloat(c.Lat, 'f', -1, 64)
		h[prefix+"lng"] = strconv.FormatFloat(c.Lng, 'f', -1, 64)
	}
}

func getLocation(h map[string]string, prefix string) dommem.Location {
	l := dommem.Location{
		City:    h[prefix+"city"],
		State:   h[prefix+"state"],
		Country: h[prefix+"country"],
	}
	lat, errLat := strconv.ParseFloat(h[prefix+"lat"], 64)
	lng, errLng := strconv.ParseFloat(h[prefix+"lng"], 64)
	if errLat == nil && errLng == nil {
		p := geo.Point{Lat: lat, Lng: lng}
		if p.Valid() {
			l.Coordinates = &p
		}
	}
	return l
}

// locationsText is the searchable text of all three locations.
func locationsText(m *dommem.Memorial) string {
	parts := make([]string, 0, 3)
	for _, l := range []dommem.Location{m.DeathLocation, m.RestingPlace, m.BirthLocation} {
		if s := l.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

func flag(b bool) string {
	if b {
		return dommem.FlagTrue
	}
	return "0"
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func unixPtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
