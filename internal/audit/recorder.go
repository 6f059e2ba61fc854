// Package audit appends changelog entries and replays entity history from
// them.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

// Writer is the append-only sink the Recorder writes to.
// repo.ChangelogRepo satisfies it. Entries are never updated or deleted.
type Writer interface {
	Insert(ctx context.Context, entry history.AuditEntry) (int64, error)
}

// Recorder builds and appends audit entries.
type Recorder struct {
	now func() time.Time
}

// NewRecorder returns a Recorder stamping entries with the wall clock.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Append records changes performed by actor and returns the new entry id.
// contributionID links the entry to the contribution it came from, if any.
//
// Every update change gets a merge-patch delta from its original snapshot to
// the patched image. A changeset that is empty or holds an empty update
// patch is rejected before anything is written.
func (r *Recorder) Append(ctx context.Context, w Writer, actor domain.Actor, changes history.Changeset, contributionID *int64) (int64, error) {
	if err := changes.Validate(); err != nil {
		return 0, fmt.Errorf("audit.Recorder.Append: %w", err)
	}
	deltas := make([]json.RawMessage, len(changes))
	for i, c := range changes {
		d, err := Delta(c)
		if err != nil {
			return 0, fmt.Errorf("audit.Recorder.Append: change %d: %w", i, err)
		}
		deltas[i] = d
	}
	entry := history.AuditEntry{
		AuthorID:       actor.UserID,
		Changes:        changes,
		Datetime:       r.now().UTC(),
		Address:        actor.Address,
		ContributionID: contributionID,
		StopIDs:        changes.StopIDs(),
		Deltas:         deltas,
	}
	id, err := w.Insert(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("audit.Recorder.Append: %w", err)
	}
	return id, nil
}

// Delta returns the RFC 7386 merge patch that turns the original snapshot of
// an update change into its patched image, or nil for other kinds.
func Delta(c history.Change) (json.RawMessage, error) {
	before, after, ok, err := Images(c)
	if err != nil || !ok {
		return nil, err
	}
	return mergePatch(before, after)
}

// Images returns the original snapshot of an update change and the image
// its patch produces. ok is false for creations and deletions.
func Images(c history.Change) (before, after any, ok bool, err error) {
	switch v := c.(type) {
	case history.StopUpdate:
		next, err := v.Patch.ApplyToSnapshot(v.Original)
		if err != nil {
			return nil, nil, false, err
		}
		return v.Original, next, true, nil
	case history.RouteUpdate:
		next := v.Original
		v.Patch.Apply(&next)
		return v.Original, next, true, nil
	case history.SubrouteUpdate:
		next := v.Original
		v.Patch.Apply(&next)
		return v.Original, next, true, nil
	case history.DepartureUpdate:
		next := v.Original
		v.Patch.Apply(&next)
		return v.Original, next, true, nil
	case history.StopPicMetaUpdate:
		next := v.OriginalMeta
		v.MetaPatch.Apply(&next)
		return v.OriginalMeta, next, true, nil
	case history.IssueUpdate:
		live, err := v.Original.Live()
		if err != nil {
			return nil, nil, false, err
		}
		if err := v.Patch.Apply(&live); err != nil {
			return nil, nil, false, err
		}
		return v.Original, history.SnapshotIssue(live), true, nil
	case history.AbnormalityUpdate:
		next := v.Original
		v.Patch.Apply(&next)
		return v.Original, next, true, nil
	}
	return nil, nil, false, nil
}

func mergePatch(before, after any) (json.RawMessage, error) {
	a, err := json.Marshal(before)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(after)
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(p), nil
}
