package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContributionStatus is the decision state of a Contribution.
type ContributionStatus string

const (
	StatusPending  ContributionStatus = "pending"
	StatusAccepted ContributionStatus = "accepted"
	StatusDeclined ContributionStatus = "declined"
)

// Contribution is a changeset proposed by an untrusted author and queued for
// moderation. Accepted is nil while the contribution is pending.
type Contribution struct {
	ID             int64      `json:"id"`
	AuthorID       uuid.UUID  `json:"author_id"`
	Changes        Changeset  `json:"changes"`
	SubmissionDate time.Time  `json:"submission_date"`
	Accepted       *bool      `json:"accepted"`
	EvaluatorID    *uuid.UUID `json:"evaluator_id"`
	EvaluationDate *time.Time `json:"evaluation_date"`
	Comment        *string    `json:"comment"`
}

// Status reports the decision state.
func (c Contribution) Status() ContributionStatus {
	switch {
	case c.Accepted == nil:
		return StatusPending
	case *c.Accepted:
		return StatusAccepted
	}
	return StatusDeclined
}

// IsPending reports whether no decision has been recorded yet.
func (c Contribution) IsPending() bool { return c.Accepted == nil }

// AuditEntry is one immutable changelog record.
//
// Deltas holds, per change, the RFC 7386 merge patch turning the original
// snapshot into its patched image; it is null for non-update changes.
type AuditEntry struct {
	ID             int64             `json:"id"`
	AuthorID       uuid.UUID         `json:"author_id"`
	Changes        Changeset         `json:"changes"`
	Datetime       time.Time         `json:"datetime"`
	Address        string            `json:"address"`
	ContributionID *int64            `json:"contribution_id"`
	StopIDs        []int32           `json:"stop_ids"`
	Deltas         []json.RawMessage `json:"deltas"`
}
