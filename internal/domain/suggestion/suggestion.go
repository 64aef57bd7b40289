// Package suggestion holds query completion candidates.
package suggestion

// Type is the candidate pool a suggestion came from.
type Type string

const (
	Query    Type = "query"
	Location Type = "location"
	Name     Type = "name"
	Tag      Type = "tag"
)

// MaxResults caps the suggestion list returned to a client.
const MaxResults = 8

// MinQueryLength is the shortest partial query that yields suggestions.
const MinQueryLength = 2

// Suggestion is one completion candidate.
type Suggestion struct {
	Text  string `json:"text"`
	Type  Type   `json:"type"`
	Count int    `json:"count"`
}
