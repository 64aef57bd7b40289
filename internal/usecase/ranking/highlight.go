package ranking

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
	ellipsis  = "..."
)

// compileTerms splits terms into words, deduplicated case-insensitively and
// longest first so overlapping matches prefer the longer word.
func compileTerms(terms []string) [][]rune {
	fold := cases.Fold()
	seen := make(map[string]bool)
	var out [][]rune
	for _, t := range terms {
		for _, w := range strings.Fields(t) {
			k := fold.String(w)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, []rune(w))
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && len(out[j]) > len(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// highlight returns an HTML-escaped snippet of text around the first match of
// any term, with every match inside the snippet wrapped in <mark>. ok is false
// when nothing matches.
func highlight(text string, terms [][]rune, radius int) (string, bool) {
	runes := []rune(text)

	first, firstLen := -1, 0
	for i := range runes {
		if n := matchAt(runes, i, terms); n > 0 {
			first, firstLen = i, n
			break
		}
	}
	if first < 0 {
		return "", false
	}

	start := max(0, first-radius)
	end := min(len(runes), first+firstLen+radius)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	plain := start
	for i := start; i < end; {
		n := matchAt(runes, i, terms)
		if n == 0 {
			i++
			continue
		}
		b.WriteString(html.EscapeString(string(runes[plain:i])))
		b.WriteString(markOpen)
		b.WriteString(html.EscapeString(string(runes[i : i+n])))
		b.WriteString(markClose)
		i += n
		plain = i
		// a match straddling the window edge is kept whole
		end = max(end, i)
	}
	b.WriteString(html.EscapeString(string(runes[plain:end])))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String(), true
}

// matchAt returns the length of the first term matching runes at i, ignoring case.
func matchAt(runes []rune, i int, terms [][]rune) int {
	for _, t := range terms {
		if len(t) == 0 || i+len(t) > len(runes) {
			continue
		}
		ok := true
		for j, r := range t {
			if !equalFold(runes[i+j], r) {
				ok = false
				break
			}
		}
		if ok {
			return len(t)
		}
	}
	return 0
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}
