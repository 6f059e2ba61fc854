package history

import (
	"encoding/json"
	"time"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// AbnormalityPatch is a sparse change to a domain.Abnormality.
type AbnormalityPatch struct {
	Summary      *string          `json:"summary,omitempty"`
	Message      *string          `json:"message,omitempty"`
	FromDatetime Field[time.Time] `json:"from_datetime,omitzero"`
	ToDatetime   Field[time.Time] `json:"to_datetime,omitzero"`
	Content      *json.RawMessage `json:"content,omitempty"`
	MarkResolved *bool            `json:"mark_resolved,omitempty"`
}

func (p *AbnormalityPatch) fields() []patchField {
	return []patchField{
		opt("summary", axisNone, &p.Summary),
		opt("message", axisNone, &p.Message),
		tri("from_datetime", axisNone, &p.FromDatetime),
		tri("to_datetime", axisNone, &p.ToDatetime),
		opt("content", axisNone, &p.Content),
		opt("mark_resolved", axisNone, &p.MarkResolved),
	}
}

// IsEmpty, FieldNames and DropFields mirror their StopPatch counterparts.
func (p AbnormalityPatch) IsEmpty() bool          { return fieldsEmpty(p.fields()) }
func (p AbnormalityPatch) FieldNames() []string   { return specifiedNames(p.fields()) }
func (p *AbnormalityPatch) DropFields(n FieldSet) { dropNamed(p.fields(), n) }

// DropNoops unsets every field whose outcome already matches the current value.
func (p *AbnormalityPatch) DropNoops(a domain.Abnormality) {
	dropOpt(&p.Summary, a.Summary, equal)
	dropOpt(&p.Message, a.Message, equal)
	dropNoop(&p.FromDatetime, a.FromDatetime, time.Time.Equal)
	dropNoop(&p.ToDatetime, a.ToDatetime, time.Time.Equal)
	dropOpt(&p.Content, a.Content, rawEq)
	dropOpt(&p.MarkResolved, a.MarkResolved, equal)
}

// Apply assigns every specified field.
func (p AbnormalityPatch) Apply(a *domain.Abnormality) {
	applyOpt(p.Summary, &a.Summary)
	applyOpt(p.Message, &a.Message)
	applyField(p.FromDatetime, &a.FromDatetime)
	applyField(p.ToDatetime, &a.ToDatetime)
	applyOpt(p.Content, &a.Content)
	applyOpt(p.MarkResolved, &a.MarkResolved)
}

// DeriveAbnormalityPatch returns the patch that turns current into proposed.
// The creation time is audit metadata and is not compared.
func DeriveAbnormalityPatch(proposed, current domain.Abnormality) AbnormalityPatch {
	return AbnormalityPatch{
		Summary:      diffValue(proposed.Summary, current.Summary, equal),
		Message:      diffValue(proposed.Message, current.Message, equal),
		FromDatetime: diffField(proposed.FromDatetime, current.FromDatetime, time.Time.Equal),
		ToDatetime:   diffField(proposed.ToDatetime, current.ToDatetime, time.Time.Equal),
		Content:      diffValue(proposed.Content, current.Content, rawEq),
		MarkResolved: diffValue(proposed.MarkResolved, current.MarkResolved, equal),
	}
}
