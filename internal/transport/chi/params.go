package chi

import (
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
)

// queryBinder binds form-style query parameters and keeps the first failure.
type queryBinder struct {
	values url.Values
	err    error
}

func newQueryBinder(u *url.URL) *queryBinder {
	return &queryBinder{values: u.Query()}
}

// bind decodes a single-valued parameter into dest. Absent parameters leave
// dest untouched.
func (b *queryBinder) bind(name string, dest any) {
	b.bindStyled(name, true, dest)
}

// list decodes a comma-separated parameter, e.g. tags=a,b.
func (b *queryBinder) list(name string, dest *[]string) {
	b.bindStyled(name, false, dest)
}

func (b *queryBinder) bindStyled(name string, explode bool, dest any) {
	if b.err != nil {
		return
	}
	if err := runtime.BindQueryParameter("form", explode, false, name, b.values, dest); err != nil {
		b.err = domain.NewValidationError(name, "is malformed")
	}
}

// date decodes an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func (b *queryBinder) date(name string) *time.Time {
	var raw string
	b.bind(name, &raw)
	if b.err != nil || raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	b.err = domain.NewValidationError(name, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
	return nil
}

// searchParams are the GET /search query parameters.
type searchParams struct {
	Query    string
	Filters  filters.Filters
	Advanced bool
	Options  queryuc.Options
}

func bindSearchParams(u *url.URL) (searchParams, error) {
	b := newQueryBinder(u)
	var (
		p                    searchParams
		city, state, country string
		mediaType, yearRange string
		sortBy               string
	)

	b.bind("q", &p.Query)
	b.bind("funeral_home_id", &p.Filters.FuneralHomeID)
	from := b.date("date_from")
	to := b.date("date_to")
	b.bind("city", &city)
	b.bind("state", &state)
	b.bind("country", &country)
	b.list("tags", &p.Filters.Tags)
	b.bind("media_type", &mediaType)
	b.bind("year_range", &yearRange)
	b.bind("sort_by", &sortBy)
	b.bind("limit", &p.Filters.Page.Limit)
	b.bind("offset", &p.Filters.Page.Offset)
	b.bind("advanced", &p.Advanced)
	b.bind("fuzzy", &p.Options.Fuzzy)
	b.bind("synonyms", &p.Options.Synonyms)
	b.bind("date_nlp", &p.Options.DateNLP)
	b.bind("location_nlp", &p.Options.LocationNLP)
	if b.err != nil {
		return searchParams{}, b.err
	}

	if from != nil || to != nil {
		p.Filters.DateRange = &filters.DateRange{Start: from, End: to}
	}
	if city != "" || state != "" || country != "" {
		p.Filters.Location = &filters.Location{City: city, State: state, Country: country}
	}
	p.Filters.MediaType = filters.MediaType(strings.ToLower(mediaType))
	p.Filters.YearRange = filters.YearRange(strings.ToLower(yearRange))
	p.Filters.Sort = filters.Sort(strings.ToLower(sortBy))
	return p, nil
}

// obituaryParams are the GET /obituaries query parameters.
type obituaryParams struct {
	Lat    *float64
	Lng    *float64
	Radius *float64
	Period string
	SortBy string
	Unit   string
	Limit  int
}

func bindObituaryParams(u *url.URL) (obituaryParams, error) {
	b := newQueryBinder(u)
	var p obituaryParams

	b.bind("lat", &p.Lat)
	b.bind("lng", &p.Lng)
	if b.err != nil || p.Lat == nil || p.Lng == nil {
		return obituaryParams{}, domain.ErrMissingCoordinates
	}
	b.bind("radius", &p.Radius)
	b.bind("period", &p.Period)
	b.bind("sortBy", &p.SortBy)
	b.bind("unit", &p.Unit)
	b.bind("limit", &p.Limit)
	if b.err != nil {
		return obituaryParams{}, b.err
	}
	return p, nil
}

// analyticsParams are the GET /analytics/search query parameters.
type analyticsParams struct {
	Period string
	Type   string
}

func bindAnalyticsParams(u *url.URL) (analyticsParams, error) {
	b := newQueryBinder(u)
	var p analyticsParams
	b.bind("period", &p.Period)
	b.bind("type", &p.Type)
	return p, b.err
}
