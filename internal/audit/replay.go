package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/uuid"

	"github.com/intermodalpt/catalogue/internal/history"
)

// ErrDeltaMismatch is returned by ReplayStop when a stored merge-patch
// delta disagrees with the typed patch it was recorded alongside.
var ErrDeltaMismatch = errors.New("audit: stored delta does not match patch")

// Revision is one state of a stop reconstructed from the changelog.
// Stop is nil once the stop has been deleted.
type Revision struct {
	EntryID        int64         `json:"entry_id"`
	AuthorID       uuid.UUID     `json:"author_id"`
	Datetime       time.Time     `json:"datetime"`
	ContributionID *int64        `json:"contribution_id"`
	Kind           string        `json:"kind"`
	Fields         []string      `json:"fields,omitempty"`
	Stop           *history.Stop `json:"stop"`
}

// ReplayStop rebuilds the revision history of stopID from entries, which
// must be in chronological order. Only the changelog is consulted.
func ReplayStop(entries []history.AuditEntry, stopID int32) ([]Revision, error) {
	var revs []Revision
	for _, e := range entries {
		for i, c := range e.Changes {
			rev := Revision{
				EntryID:        e.ID,
				AuthorID:       e.AuthorID,
				Datetime:       e.Datetime,
				ContributionID: e.ContributionID,
				Kind:           c.Kind(),
			}
			switch v := c.(type) {
			case history.StopCreation:
				if v.Data.ID != stopID {
					continue
				}
				s := v.Data
				rev.Stop = &s
			case history.StopUpdate:
				if v.Original.ID != stopID {
					continue
				}
				next, err := v.Patch.ApplyToSnapshot(v.Original)
				if err != nil {
					return nil, fmt.Errorf("audit.ReplayStop: entry %d: %w", e.ID, err)
				}
				if i < len(e.Deltas) {
					if err := checkDelta(v.Original, next, e.Deltas[i]); err != nil {
						return nil, fmt.Errorf("audit.ReplayStop: entry %d: %w", e.ID, err)
					}
				}
				rev.Fields = v.Patch.FieldNames()
				rev.Stop = &next
			case history.StopDeletion:
				if v.Data.ID != stopID {
					continue
				}
			default:
				continue
			}
			revs = append(revs, rev)
		}
	}
	return revs, nil
}

// checkDelta applies the stored delta to the original document and compares
// the outcome with the typed image. Merge patches express a cleared value by
// removing its key, so null members are ignored on both sides.
func checkDelta(original, next history.Stop, delta json.RawMessage) error {
	if len(delta) == 0 || bytes.Equal(delta, []byte("null")) {
		return nil
	}
	doc, err := json.Marshal(original)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(doc, delta)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeltaMismatch, err)
	}
	want, err := json.Marshal(next)
	if err != nil {
		return err
	}
	var got, expected any
	if err := json.Unmarshal(merged, &got); err != nil {
		return err
	}
	if err := json.Unmarshal(want, &expected); err != nil {
		return err
	}
	if !reflect.DeepEqual(stripNulls(got), stripNulls(expected)) {
		return ErrDeltaMismatch
	}
	return nil
}

func stripNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			out[k] = stripNulls(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stripNulls(val)
		}
		return out
	}
	return v
}
