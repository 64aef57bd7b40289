// Package filters holds the structured filter set accepted by memorial search.
package filters

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/memorialdex/internal/domain"
)

// Pagination limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxTags      = 10
)

// MediaType narrows results to memorials carrying a kind of media.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// YearRange is a convenience filter on the creation timestamp.
type YearRange string

const (
	// Recent means created within the last 365 days.
	Recent YearRange = "recent"
	// Old means created more than 365 days ago.
	Old YearRange = "old"
)

// Sort is the requested result ordering of the store fetch.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortName      Sort = "name"
	SortPopular   Sort = "popular"
	SortRelevance Sort = "relevance"
)

// DateRange bounds the death date. Either side may be open. Bounds are
// indexed at whole-second precision; Normalize truncates them to UTC seconds.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsZero reports whether neither bound is set.
func (d *DateRange) IsZero() bool { return d == nil || (d.Start == nil && d.End == nil) }

// Location constrains the death location. Empty parts are unconstrained.
type Location struct {
	City    string `json:"city,omitempty" validate:"max=100"`
	State   string `json:"state,omitempty" validate:"max=100"`
	Country string `json:"country,omitempty" validate:"max=100"`
}

// IsZero reports whether no part is set.
func (l *Location) IsZero() bool { return l == nil || (l.City == "" && l.State == "" && l.Country == "") }

// Page is offset pagination.
type Page struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// Filters is the optional structured filter set. A zero value matches everything.
type Filters struct {
	FuneralHomeID string     `json:"funeral_home_id,omitempty" validate:"max=64"`
	DateRange     *DateRange `json:"date_range,omitempty"`
	Location      *Location  `json:"location,omitempty"`
	Tags          []string   `json:"tags,omitempty" validate:"max=10,dive,required,max=64"`
	MediaType     MediaType  `json:"media_type,omitempty" validate:"omitempty,oneof=photo video audio"`
	YearRange     YearRange  `json:"year_range,omitempty" validate:"omitempty,oneof=recent old"`
	Sort          Sort       `json:"sort_by,omitempty" validate:"omitempty,oneof=newest oldest name popular relevance"`
	Page          Page       `json:"page"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and returns a *domain.ValidationError on the first failure.
func (f *Filters) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.NewValidationError(fieldName(fe), describe(fe))
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if d := f.DateRange; d != nil && d.Start != nil && d.End != nil && d.End.Before(*d.Start) {
		return domain.NewValidationError("date_range", "end must not be before start")
	}
	return nil
}

// Normalize trims strings, drops empty tags, truncates date bounds to whole
// UTC seconds and applies sort and pagination defaults.
func (f Filters) Normalize() Filters {
	f.FuneralHomeID = strings.TrimSpace(f.FuneralHomeID)
	if f.Location != nil {
		loc := Location{
			City:    strings.TrimSpace(f.Location.City),
			State:   strings.TrimSpace(f.Location.State),
			Country: strings.TrimSpace(f.Location.Country),
		}
		f.Location = &loc
		if loc.IsZero() {
			f.Location = nil
		}
	}
	if f.DateRange.IsZero() {
		f.DateRange = nil
	} else {
		f.DateRange = &DateRange{Start: toSecond(f.DateRange.Start), End: toSecond(f.DateRange.End)}
	}
	if len(f.Tags) > 0 {
		tags := make([]string, 0, len(f.Tags))
		for _, t := range f.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		f.Tags = tags
		if len(tags) == 0 {
			f.Tags = nil
		}
	}
	if f.Sort == "" {
		f.Sort = SortNewest
	}
	if f.Page.Limit == 0 {
		f.Page.Limit = DefaultLimit
	}
	if f.Page.Limit > MaxLimit {
		f.Page.Limit = MaxLimit
	}
	return f
}

// Summary renders a compact, stable description for search logs.
func (f *Filters) Summary() string {
	var parts []string
	if f.FuneralHomeID != "" {
		parts = append(parts, "funeral_home="+f.FuneralHomeID)
	}
	if d := f.DateRange; !d.IsZero() {
		parts = append(parts, "date="+formatDate(d.Start)+".."+formatDate(d.End))
	}
	if l := f.Location; !l.IsZero() {
		parts = append(parts, "location="+strings.Trim(l.City+"|"+l.State+"|"+l.Country, "|"))
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags="+strings.Join(f.Tags, ","))
	}
	if f.MediaType != "" {
		parts = append(parts, "media="+string(f.MediaType))
	}
	if f.YearRange != "" {
		parts = append(parts, "year="+string(f.YearRange))
	}
	if f.Sort != "" {
		parts = append(parts, "sort="+string(f.Sort))
	}
	return strings.Join(parts, " ")
}

func toSecond(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Second)
	return &u
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "FuneralHomeID":
		return "funeral_home_id"
	case "MediaType":
		return "media_type"
	case "YearRange":
		return "year_range"
	case "Sort":
		return "sort_by"
	}
	return strings.ToLower(fe.Field())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be >= " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "required":
		return "must not be empty"
	}
	return "is invalid"
}
