package memorial

import (
	"github.com/kailas-cloud/memorialdex/internal/db"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
)

// Text field weights. Name matches dominate, free text counts least.
const (
	nameWeight        = 5
	subtitleWeight    = 2
	locationsWeight   = 1.5
	descriptionWeight = 1
)

// buildIndex creates the FT index definition over memorial hashes.
func buildIndex(prefix string) *db.IndexDefinition {
	return db.NewIndex(indexName(prefix)).
		Prefix(keyPrefix(prefix)).
		TextWeighted(dommem.FieldName, nameWeight, true).
		TextWeighted(dommem.FieldSubtitle, subtitleWeight, false).
		TextWeighted(dommem.FieldDescription, descriptionWeight, false).
		TextWeighted(dommem.FieldLocations, locationsWeight, false).
		Tag(dommem.FieldPrivacy).
		TagWithOpts(dommem.FieldTags, tagSeparator, false).
		Tag(dommem.FieldFuneralHomeID).
		Tag(dommem.FieldDeathCity).
		Tag(dommem.FieldDeathState).
		Tag(dommem.FieldDeathCountry).
		Tag(dommem.FieldHasPhotos).
		Tag(dommem.FieldHasVideos).
		Tag(dommem.FieldHasAudio).
		NumericSortable(dommem.FieldCreatedAt).
		NumericSortable(dommem.FieldViewCount).
		Numeric(dommem.FieldGuestbook).
		Numeric(dommem.FieldBirthTS).
		Numeric(dommem.FieldDeathTS).
		MustBuild()
}

func indexName(prefix string) string { return prefix + "memorial:idx" }

func keyPrefix(prefix string) string { return prefix + "memorial:" }
