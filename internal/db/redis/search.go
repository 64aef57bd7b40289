package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/memorialdex/internal/db"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filter"
)

// Search runs FT.SEARCH with a rendered filter expression. Numeric bounds are
// sent as PARAMS; tag values and text terms go through the escapers.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	queryStr, params := renderExpression(q.Filters)
	args := []string{q.IndexName, queryStr}

	if q.WithScores {
		args = append(args, "WITHSCORES")
	}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	if q.SortBy != "" {
		dir := "DESC"
		if q.Ascending {
			dir = "ASC"
		}
		args = append(args, "SORTBY", q.SortBy, dir)
	}
	args = append(args, "LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit))
	args = appendParams(args, params)
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw, q.WithScores)
}

// SearchCount returns the number of documents matching q via LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, q *db.SearchQuery) (int, error) {
	if err := validateQuery(q); err != nil {
		return 0, err
	}

	queryStr, params := renderExpression(q.Filters)
	args := []string{q.IndexName, queryStr, "LIMIT", "0", "0"}
	args = appendParams(args, params)
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

func validateQuery(q *db.SearchQuery) error {
	if q == nil {
		return errors.New("query is required")
	}
	if q.IndexName == "" {
		return errors.New("index name is required")
	}
	if q.Offset < 0 || q.Limit < 0 {
		return errors.New("offset and limit must not be negative")
	}
	return nil
}

func appendParams(args, params []string) []string {
	if len(params) == 0 {
		return args
	}
	args = append(args, "PARAMS", strconv.Itoa(len(params)))
	return append(args, params...)
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	// [total, key, fields, ...] or [total, key, score, fields, ...] with WITHSCORES
	stride := 2
	if withScores {
		stride = 3
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{Key: key}
		fieldsAt := i + 1
		if withScores {
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil {
				continue
			}
			entry.Score = score
			fieldsAt = i + 2
		}

		fields, err := raw[fieldsAt].ToArray()
		if err != nil {
			continue
		}
		entry.Fields = parseFieldPairs(fields)
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Expression rendering ---

// renderer accumulates PARAMS name/value pairs while rendering a query.
type renderer struct {
	params []string
}

func (r *renderer) param(v float64) string {
	name := "p" + strconv.Itoa(len(r.params)/2)
	r.params = append(r.params, name, strconv.FormatFloat(v, 'f', -1, 64))
	return "$" + name
}

// renderExpression translates filter.Expression into an FT.SEARCH query and its PARAMS.
func renderExpression(expr filter.Expression) (string, []string) {
	if expr.IsEmpty() {
		return "*", nil
	}

	r := &renderer{}
	var parts []string

	for _, cond := range expr.Must() {
		if s := r.condition(cond); s != "" {
			parts = append(parts, s)
		}
	}

	if group := r.shouldGroup(expr.Should()); group != "" {
		parts = append(parts, group)
	}

	for _, cond := range expr.MustNot() {
		if s := r.condition(cond); s != "" {
			parts = append(parts, "-"+s)
		}
	}

	if len(parts) == 0 {
		return "*", r.params
	}
	return strings.Join(parts, " "), r.params
}

func (r *renderer) condition(cond filter.Condition) string {
	switch {
	case cond.IsMatch():
		return buildTagFilter(cond.Key(), cond.Match())
	case cond.IsRange():
		return r.numeric(cond.Key(), *cond.Range())
	case cond.IsText():
		return buildTextFilter(*cond.Text())
	}
	return ""
}

func (r *renderer) shouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		if s := r.condition(cond); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func (r *renderer) numeric(key string, rng filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if rng.GT() != nil {
		minBound = "(" + r.param(*rng.GT())
	} else if rng.GTE() != nil {
		minBound = r.param(*rng.GTE())
	}

	if rng.LT() != nil {
		maxBound = "(" + r.param(*rng.LT())
	} else if rng.LTE() != nil {
		maxBound = r.param(*rng.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

// buildTextFilter renders each term as a union of its alternatives; terms are
// intersected. Fuzzy terms add %word%, prefix terms add word*.
func buildTextFilter(t filter.Text) string {
	terms := t.Terms()
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		var alts []string
		for _, alt := range term.Alternatives() {
			if s := escapePhrase(alt); s != "" {
				alts = append(alts, s)
			}
		}
		word := escapeQuery(term.Word())
		if term.Prefix() && word != "" && !strings.Contains(word, " ") {
			alts = append(alts, word+"*")
		}
		if term.Fuzzy() && word != "" && !strings.Contains(word, " ") {
			alts = append(alts, "%"+word+"%")
		}
		switch len(alts) {
		case 0:
		case 1:
			out = append(out, alts[0])
		default:
			out = append(out, "("+strings.Join(alts, " | ")+")")
		}
	}
	return strings.Join(out, " ")
}

// escapePhrase escapes each whitespace-separated word; multi-word phrases
// become an intersection group.
func escapePhrase(s string) string {
	words := strings.Fields(s)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return escapeQuery(words[0])
	}
	for i, w := range words {
		words[i] = escapeQuery(w)
	}
	return "(" + strings.Join(words, " ") + ")"
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`:`, `\:`,
	`+`, `\+`,
	` `, `\ `,
)
