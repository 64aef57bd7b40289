package query

import "strings"

// synonymGroups are fixed sets of interchangeable words. Expansion only adds
// alternatives, so it never narrows a match.
var synonymGroups = [][]string{
	{"memorial", "tribute", "remembrance"},
	{"obituary", "obit", "death notice"},
	{"funeral", "burial", "interment"},
	{"grave", "cemetery", "resting place"},
	{"passed", "died", "deceased"},
	{"mother", "mom", "mum"},
	{"father", "dad"},
	{"grandmother", "grandma", "nana"},
	{"grandfather", "grandpa"},
	{"veteran", "soldier", "serviceman"},
	{"husband", "spouse"},
	{"wife", "spouse"},
}

var synonymIndex = func() map[string][]string {
	idx := make(map[string][]string)
	for _, g := range synonymGroups {
		for _, w := range g {
			for _, other := range g {
				if other != w {
					idx[w] = append(idx[w], other)
				}
			}
		}
	}
	return idx
}()

// synonymsOf returns the alternatives for word, excluding word itself.
func synonymsOf(word string) []string {
	return synonymIndex[strings.ToLower(word)]
}
