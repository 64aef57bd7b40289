package memorial

// Index field names shared by the query builder and the memorial repository.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldSubtitle      = "subtitle"
	FieldDescription   = "description"
	FieldLocations     = "locations"
	FieldPrivacy       = "privacy"
	FieldTags          = "tags"
	FieldFuneralHomeID = "funeral_home_id"
	FieldCreatedAt     = "created_at"
	FieldBirthTS       = "birth_ts"
	FieldDeathTS       = "death_ts"
	FieldViewCount     = "view_count"
	FieldGuestbook     = "guestbook_count"
	FieldDeathCity     = "death_city"
	FieldDeathState    = "death_state"
	FieldDeathCountry  = "death_country"
	FieldHasPhotos     = "has_photos"
	FieldHasVideos     = "has_videos"
	FieldHasAudio      = "has_audio"
)

// FlagTrue is the tag value stored for a set media flag.
const FlagTrue = "1"

// Scored is a memorial with the store's raw text-match score.
type Scored struct {
	Memorial  Memorial
	TextScore float64
}

// Page is one store fetch: the requested window plus the total match count.
type Page struct {
	Items []Scored
	Total int
}
