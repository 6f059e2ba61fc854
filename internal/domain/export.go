package domain

import "time"

// ChangelogExportRow is a single row in the flat changelog export.
// One row is emitted per Change, so an entry holding three changes yields
// three rows with the entry fields repeated.
type ChangelogExportRow struct {
	// Entry fields, repeated for every change in the entry.
	EntryID        int64
	AuthorID       string
	Datetime       time.Time
	Address        string
	ContributionID *int64

	// Change fields.
	Position int
	Kind     string
	EntityID int32

	// Fields lists the patched field names of an update change, ordered
	// alphabetically. Empty for creations and deletions.
	Fields []string
}
