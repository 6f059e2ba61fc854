package domain

// Tag is a free-form label found on at least one stop.
// Tags are not stored separately; they are derived from Stop.Tags.
// Slug is the lowercase, hyphenated form used for prefix search.
type Tag struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	StopCount int64  `json:"stop_count"`
}
