package query

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/search/filters"
)

// Date phrases, tried in order. Each match is removed from the query text.
var (
	reToday     = regexp.MustCompile(`(?i)\btoday\b`)
	reYesterday = regexp.MustCompile(`(?i)\byesterday\b`)
	rePastN     = regexp.MustCompile(`(?i)\b(?:past|last)\s+(\d{1,3})\s+(day|week|month|year)s?\b`)
	reLastUnit  = regexp.MustCompile(`(?i)\b(?:last|past)\s+(week|month|year)\b`)
	reThisUnit  = regexp.MustCompile(`(?i)\bthis\s+(week|month|year)\b`)
	reInYear    = regexp.MustCompile(`(?i)\b(?:in|during)\s+(\d{4})\b`)
)

// extractDateRange pulls the first recognised relative date phrase out of q.
// Unrecognised phrasing leaves q untouched and returns nil.
func extractDateRange(q string, now time.Time) (string, *filters.DateRange) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if loc := reToday.FindStringIndex(q); loc != nil {
		return cut(q, loc), span(today, now)
	}
	if loc := reYesterday.FindStringIndex(q); loc != nil {
		return cut(q, loc), span(today.AddDate(0, 0, -1), today.Add(-time.Second))
	}
	if m := rePastN.FindStringSubmatchIndex(q); m != nil {
		n, err := strconv.Atoi(q[m[2]:m[3]])
		if err == nil && n > 0 {
			return cut(q, m[:2]), span(back(now, strings.ToLower(q[m[4]:m[5]]), n), now)
		}
	}
	if m := reLastUnit.FindStringSubmatchIndex(q); m != nil {
		return cut(q, m[:2]), span(back(now, strings.ToLower(q[m[2]:m[3]]), 1), now)
	}
	if m := reThisUnit.FindStringSubmatchIndex(q); m != nil {
		var start time.Time
		switch strings.ToLower(q[m[2]:m[3]]) {
		case "week":
			// weeks start on Monday
			offset := (int(today.Weekday()) + 6) % 7
			start = today.AddDate(0, 0, -offset)
		case "month":
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		default:
			start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		}
		return cut(q, m[:2]), span(start, now)
	}
	if m := reInYear.FindStringSubmatchIndex(q); m != nil {
		year, err := strconv.Atoi(q[m[2]:m[3]])
		if err == nil && year >= 1800 && year <= now.Year() {
			start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
			return cut(q, m[:2]), span(start, start.AddDate(1, 0, 0).Add(-time.Second))
		}
	}
	return q, nil
}

func back(now time.Time, unit string, n int) time.Time {
	switch unit {
	case "day":
		return now.AddDate(0, 0, -n)
	case "week":
		return now.AddDate(0, 0, -7*n)
	case "month":
		return now.AddDate(0, -n, 0)
	default:
		return now.AddDate(-n, 0, 0)
	}
}

func span(start, end time.Time) *filters.DateRange {
	return &filters.DateRange{Start: &start, End: &end}
}

// Place phrases: "in/near" followed by a run of capitalised words, with an
// optional ", ST" state suffix.
var rePlace = regexp.MustCompile(`\b(?:[Ii]n|[Nn]ear)\s+([A-Z][\p{L}'.-]*(?:\s+[A-Z][\p{L}'.-]*){0,3})(?:,\s*([A-Z]{2})\b)?`)

var reStateName = func() *regexp.Regexp {
	names := make([]string, 0, len(stateByName))
	for name := range stateByName {
		names = append(names, regexp.QuoteMeta(name))
	}
	// longest first so "west virginia" wins over "virginia"
	slices.SortFunc(names, func(a, b string) int { return len(b) - len(a) })
	return regexp.MustCompile(`(?i)\b(?:in|near)\s+(` + strings.Join(names, "|") + `)\b`)
}()

// extractLocation pulls the first "in <Place>" or "near <Place>" out of q. A
// place naming a US state (full name or postal code) fills State, anything
// else fills City.
func extractLocation(q string) (string, *filters.Location) {
	if m := rePlace.FindStringSubmatchIndex(q); m != nil {
		place := q[m[2]:m[3]]
		if !notAPlace[strings.ToLower(strings.Fields(place)[0])] {
			loc := &filters.Location{}
			if code, ok := stateCode(place); ok {
				loc.State = code
			} else {
				loc.City = strings.TrimRight(place, ".")
			}
			if m[4] >= 0 {
				if code, ok := stateCode(q[m[4]:m[5]]); ok {
					loc.State = code
				}
			}
			return cut(q, m[:2]), loc
		}
	}
	if m := reStateName.FindStringSubmatchIndex(q); m != nil {
		if code, ok := stateCode(q[m[2]:m[3]]); ok {
			return cut(q, m[:2]), &filters.Location{State: code}
		}
	}
	return q, nil
}

func stateCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 2 {
		up := strings.ToUpper(s)
		if _, ok := stateNameByCode[up]; ok && s == up {
			return up, true
		}
	}
	code, ok := stateByName[strings.ToLower(s)]
	return code, ok
}

// cut removes q[loc[0]:loc[1]] and collapses the surrounding whitespace.
func cut(q string, loc []int) string {
	return strings.Join(strings.Fields(q[:loc[0]]+" "+q[loc[1]:]), " ")
}

// notAPlace are capitalised words that follow "in" without naming a place.
var notAPlace = map[string]bool{
	"january": true, "february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true, "november": true, "december": true,
	"memory": true, "loving": true, "honor": true, "honour": true, "peace": true, "heaven": true,
}

var stateByName = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR", "california": "CA",
	"colorado": "CO", "connecticut": "CT", "delaware": "DE", "florida": "FL", "georgia": "GA",
	"hawaii": "HI", "idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS", "missouri": "MO",
	"montana": "MT", "nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT",
	"virginia": "VA", "washington": "WA", "west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
	"district of columbia": "DC",
}

var stateNameByCode = func() map[string]string {
	m := make(map[string]string, len(stateByName))
	for name, code := range stateByName {
		m[code] = name
	}
	return m
}()
