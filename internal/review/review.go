// Package review renders a contribution for a moderator, showing each
// patched field against the snapshot the contributor saw.
package review

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/intermodalpt/catalogue/internal/audit"
	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

// earthRadiusMeters is the mean Earth radius.
const earthRadiusMeters = 6_371_008.8

// Review is the moderator view of a contribution.
type Review struct {
	ContributionID int64                      `json:"contribution_id"`
	AuthorID       uuid.UUID                  `json:"author_id"`
	Status         history.ContributionStatus `json:"status"`
	Submitted      time.Time                  `json:"submitted"`
	SubmittedAgo   string                     `json:"submitted_ago"`
	Comment        *string                    `json:"comment,omitempty"`
	Changes        []ChangeReview             `json:"changes"`
}

// ChangeReview describes one change of the contribution.
type ChangeReview struct {
	Kind         string        `json:"kind"`
	EntityID     int32         `json:"entity_id"`
	Fields       []FieldDiff   `json:"fields,omitempty"`
	Displacement *Displacement `json:"displacement,omitempty"`
	// Stale lists patched fields whose live value no longer matches the
	// snapshot the contribution was made against.
	Stale []string `json:"stale,omitempty"`
	// Missing is set when the entity no longer exists.
	Missing bool `json:"missing,omitempty"`
}

// FieldDiff is the before and after JSON value of one patched field.
// Edits is filled when both sides are strings.
type FieldDiff struct {
	Field  string          `json:"field"`
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
	Edits  []Edit          `json:"edits,omitempty"`
}

// Edit is one run of a character diff. Op is "=", "+" or "-".
type Edit struct {
	Op   string `json:"op"`
	Text string `json:"text"`
}

// Displacement is the great-circle distance between the original and the
// proposed position of a stop.
type Displacement struct {
	Meters float64 `json:"meters"`
	Human  string  `json:"human"`
}

// Renderer builds reviews.
type Renderer struct {
	dmp *diffmatchpatch.DiffMatchPatch
	now func() time.Time
}

// NewRenderer returns a Renderer using the wall clock for relative times.
func NewRenderer() *Renderer {
	return &Renderer{dmp: diffmatchpatch.New(), now: time.Now}
}

// Render reviews c. live holds the current state of the stops the
// contribution touches; a stop absent from it is reported as missing.
func (r *Renderer) Render(c history.Contribution, live map[int32]domain.Stop) (Review, error) {
	rv := Review{
		ContributionID: c.ID,
		AuthorID:       c.AuthorID,
		Status:         c.Status(),
		Submitted:      c.SubmissionDate,
		SubmittedAgo:   humanize.RelTime(c.SubmissionDate, r.now(), "ago", "from now"),
		Comment:        c.Comment,
		Changes:        make([]ChangeReview, 0, len(c.Changes)),
	}
	for i, ch := range c.Changes {
		cr, err := r.renderChange(ch, live)
		if err != nil {
			return Review{}, fmt.Errorf("review.Renderer.Render: change %d: %w", i, err)
		}
		rv.Changes = append(rv.Changes, cr)
	}
	return rv, nil
}

func (r *Renderer) renderChange(c history.Change, live map[int32]domain.Stop) (ChangeReview, error) {
	cr := ChangeReview{Kind: c.Kind(), EntityID: history.EntityID(c)}
	before, after, ok, err := audit.Images(c)
	if err != nil || !ok {
		return cr, err
	}
	names, _ := history.PatchedFields(c)
	beforeDoc, err := toDoc(before)
	if err != nil {
		return cr, err
	}
	afterDoc, err := toDoc(after)
	if err != nil {
		return cr, err
	}
	for _, name := range names {
		cr.Fields = append(cr.Fields, r.fieldDiff(name, beforeDoc[name], afterDoc[name]))
	}

	if u, isStop := c.(history.StopUpdate); isStop {
		img := after.(history.Stop)
		cr.Displacement = displacement(u.Original, img)
		cur, found := live[u.Original.ID]
		if !found {
			cr.Missing = true
			return cr, nil
		}
		stale, err := staleFields(u, beforeDoc, cur)
		if err != nil {
			return cr, err
		}
		cr.Stale = stale
	}
	return cr, nil
}

func (r *Renderer) fieldDiff(name string, before, after json.RawMessage) FieldDiff {
	fd := FieldDiff{Field: name, Before: orNull(before), After: orNull(after)}
	var a, b string
	if json.Unmarshal(before, &a) == nil && json.Unmarshal(after, &b) == nil {
		diffs := r.dmp.DiffMain(a, b, false)
		diffs = r.dmp.DiffCleanupSemantic(diffs)
		for _, d := range diffs {
			fd.Edits = append(fd.Edits, Edit{Op: opSymbol(d.Type), Text: d.Text})
		}
	}
	return fd
}

// Pretty renders the edits with terminal colors, or the raw after value
// when the field is not text.
func (fd FieldDiff) Pretty() string {
	if len(fd.Edits) == 0 {
		return fmt.Sprintf("%s -> %s", fd.Before, fd.After)
	}
	diffs := make([]diffmatchpatch.Diff, len(fd.Edits))
	for i, e := range fd.Edits {
		diffs[i] = diffmatchpatch.Diff{Type: opType(e.Op), Text: e.Text}
	}
	return diffmatchpatch.New().DiffPrettyText(diffs)
}

func displacement(original, next history.Stop) *Displacement {
	if original.Lat == nil || original.Lon == nil || next.Lat == nil || next.Lon == nil {
		return nil
	}
	if *original.Lat == *next.Lat && *original.Lon == *next.Lon {
		return nil
	}
	from := s2.LatLngFromDegrees(*original.Lat, *original.Lon)
	to := s2.LatLngFromDegrees(*next.Lat, *next.Lon)
	meters := from.Distance(to).Radians() * earthRadiusMeters
	return &Displacement{Meters: meters, Human: HumanDistance(meters)}
}

// HumanDistance formats a distance in meters, switching to kilometers from
// one kilometer up.
func HumanDistance(meters float64) string {
	if meters >= 1000 {
		return humanize.FtoaWithDigits(meters/1000, 2) + " km"
	}
	return humanize.FtoaWithDigits(meters, 1) + " m"
}

// staleFields reports patched fields whose live value differs from the
// value in the contribution's original snapshot.
func staleFields(u history.StopUpdate, originalDoc map[string]json.RawMessage, cur domain.Stop) ([]string, error) {
	liveDoc, err := toDoc(history.SnapshotStop(cur))
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, name := range u.Patch.FieldNames() {
		if !jsonEqual(originalDoc[name], liveDoc[name]) {
			stale = append(stale, name)
		}
	}
	return stale, nil
}

func toDoc(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func jsonEqual(a, b json.RawMessage) bool {
	var x, y any
	if json.Unmarshal(orNull(a), &x) != nil || json.Unmarshal(orNull(b), &y) != nil {
		return false
	}
	xb, _ := json.Marshal(x)
	yb, _ := json.Marshal(y)
	return string(xb) == string(yb)
}

func orNull(m json.RawMessage) json.RawMessage {
	if len(m) == 0 {
		return json.RawMessage("null")
	}
	return m
}

func opSymbol(op diffmatchpatch.Operation) string {
	switch op {
	case diffmatchpatch.DiffInsert:
		return "+"
	case diffmatchpatch.DiffDelete:
		return "-"
	}
	return "="
}

func opType(sym string) diffmatchpatch.Operation {
	switch sym {
	case "+":
		return diffmatchpatch.DiffInsert
	case "-":
		return diffmatchpatch.DiffDelete
	}
	return diffmatchpatch.DiffEqual
}
