package history

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// Issue is the historical snapshot of a domain.Issue.
type Issue struct {
	ID                 int32           `json:"id"`
	Title              string          `json:"title"`
	Message            string          `json:"message"`
	Creation           time.Time       `json:"creation"`
	Category           IssueCategory   `json:"category"`
	Impact             int32           `json:"impact"`
	Lat                *float64        `json:"lat"`
	Lon                *float64        `json:"lon"`
	Content            json.RawMessage `json:"content"`
	State              IssueState      `json:"state"`
	StateJustification *string         `json:"state_justification"`
	RegionIDs          []int32         `json:"region_ids"`
	OperatorIDs        []int32         `json:"operator_ids"`
	RouteIDs           []int32         `json:"route_ids"`
	StopIDs            []int32         `json:"stop_ids"`
	PicIDs             []int32         `json:"pic_ids"`
}

// SnapshotIssue converts a live issue into its historical snapshot.
func SnapshotIssue(i domain.Issue) Issue {
	return Issue{
		ID:                 i.ID,
		Title:              i.Title,
		Message:            i.Message,
		Creation:           i.Creation,
		Category:           histIssueCategory(i.Category),
		Impact:             i.Impact,
		Lat:                i.Lat,
		Lon:                i.Lon,
		Content:            i.Content,
		State:              histIssueState(i.State),
		StateJustification: i.StateJustification,
		RegionIDs:          slices.Clone(i.RegionIDs),
		OperatorIDs:        slices.Clone(i.OperatorIDs),
		RouteIDs:           slices.Clone(i.RouteIDs),
		StopIDs:            slices.Clone(i.StopIDs),
		PicIDs:             slices.Clone(i.PicIDs),
	}
}

// Live converts the snapshot back into a live issue.
func (i Issue) Live() (domain.Issue, error) {
	category, err := i.Category.Live()
	if err != nil {
		return domain.Issue{}, err
	}
	state, err := i.State.Live()
	if err != nil {
		return domain.Issue{}, err
	}
	return domain.Issue{
		ID:                 i.ID,
		Title:              i.Title,
		Message:            i.Message,
		Creation:           i.Creation,
		Category:           category,
		Impact:             i.Impact,
		Lat:                i.Lat,
		Lon:                i.Lon,
		Content:            i.Content,
		State:              state,
		StateJustification: i.StateJustification,
		RegionIDs:          slices.Clone(i.RegionIDs),
		OperatorIDs:        slices.Clone(i.OperatorIDs),
		RouteIDs:           slices.Clone(i.RouteIDs),
		StopIDs:            slices.Clone(i.StopIDs),
		PicIDs:             slices.Clone(i.PicIDs),
	}, nil
}

// IssuePatch is a sparse change to a domain.Issue.
type IssuePatch struct {
	Title              *string          `json:"title,omitempty"`
	Message            *string          `json:"message,omitempty"`
	Creation           *time.Time       `json:"creation,omitempty"`
	Category           *IssueCategory   `json:"category,omitempty"`
	Impact             *int32           `json:"impact,omitempty"`
	Lat                Field[float64]   `json:"lat,omitzero"`
	Lon                Field[float64]   `json:"lon,omitzero"`
	Content            *json.RawMessage `json:"content,omitempty"`
	State              *IssueState      `json:"state,omitempty"`
	StateJustification Field[string]    `json:"state_justification,omitzero"`
	RegionIDs          *[]int32         `json:"region_ids,omitempty"`
	OperatorIDs        *[]int32         `json:"operator_ids,omitempty"`
	RouteIDs           *[]int32         `json:"route_ids,omitempty"`
	StopIDs            *[]int32         `json:"stop_ids,omitempty"`
	PicIDs             *[]int32         `json:"pic_ids,omitempty"`
}

func (p *IssuePatch) fields() []patchField {
	return []patchField{
		opt("title", axisNone, &p.Title),
		opt("message", axisNone, &p.Message),
		opt("creation", axisNone, &p.Creation),
		opt("category", axisNone, &p.Category),
		opt("impact", axisNone, &p.Impact),
		tri("lat", axisNone, &p.Lat),
		tri("lon", axisNone, &p.Lon),
		opt("content", axisNone, &p.Content),
		opt("state", axisNone, &p.State),
		tri("state_justification", axisNone, &p.StateJustification),
		opt("region_ids", axisNone, &p.RegionIDs),
		opt("operator_ids", axisNone, &p.OperatorIDs),
		opt("route_ids", axisNone, &p.RouteIDs),
		opt("stop_ids", axisNone, &p.StopIDs),
		opt("pic_ids", axisNone, &p.PicIDs),
	}
}

// IsEmpty, FieldNames and DropFields mirror their StopPatch counterparts.
func (p IssuePatch) IsEmpty() bool          { return fieldsEmpty(p.fields()) }
func (p IssuePatch) FieldNames() []string   { return specifiedNames(p.fields()) }
func (p *IssuePatch) DropFields(n FieldSet) { dropNamed(p.fields(), n) }

// DropNoops unsets fields whose outcome matches i. Category and state are
// compared after conversion.
func (p *IssuePatch) DropNoops(i domain.Issue) error {
	dropOpt(&p.Title, i.Title, equal)
	dropOpt(&p.Message, i.Message, equal)
	dropOpt(&p.Creation, i.Creation, time.Time.Equal)
	dropOpt(&p.Impact, i.Impact, equal)
	dropNoop(&p.Lat, i.Lat, equal)
	dropNoop(&p.Lon, i.Lon, equal)
	dropOpt(&p.Content, i.Content, rawEq)
	dropNoop(&p.StateJustification, i.StateJustification, equal)
	dropOpt(&p.RegionIDs, i.RegionIDs, slices.Equal)
	dropOpt(&p.OperatorIDs, i.OperatorIDs, slices.Equal)
	dropOpt(&p.RouteIDs, i.RouteIDs, slices.Equal)
	dropOpt(&p.StopIDs, i.StopIDs, slices.Equal)
	dropOpt(&p.PicIDs, i.PicIDs, slices.Equal)
	if p.Category != nil {
		c, err := p.Category.Live()
		if err != nil {
			return err
		}
		if c == i.Category {
			p.Category = nil
		}
	}
	if p.State != nil {
		s, err := p.State.Live()
		if err != nil {
			return err
		}
		if s == i.State {
			p.State = nil
		}
	}
	return nil
}

// Apply assigns every specified field into issue. On a conversion error the
// issue is left untouched.
func (p IssuePatch) Apply(issue *domain.Issue) error {
	next := *issue
	if p.Category != nil {
		c, err := p.Category.Live()
		if err != nil {
			return err
		}
		next.Category = c
	}
	if p.State != nil {
		s, err := p.State.Live()
		if err != nil {
			return err
		}
		next.State = s
	}
	applyOpt(p.Title, &next.Title)
	applyOpt(p.Message, &next.Message)
	applyOpt(p.Creation, &next.Creation)
	applyOpt(p.Impact, &next.Impact)
	applyField(p.Lat, &next.Lat)
	applyField(p.Lon, &next.Lon)
	applyOpt(p.Content, &next.Content)
	applyField(p.StateJustification, &next.StateJustification)
	applyOpt(p.RegionIDs, &next.RegionIDs)
	applyOpt(p.OperatorIDs, &next.OperatorIDs)
	applyOpt(p.RouteIDs, &next.RouteIDs)
	applyOpt(p.StopIDs, &next.StopIDs)
	applyOpt(p.PicIDs, &next.PicIDs)
	*issue = next
	return nil
}

// DeriveIssuePatch returns the patch that turns current into proposed.
func DeriveIssuePatch(proposed, current domain.Issue) IssuePatch {
	p := IssuePatch{
		Title:              diffValue(proposed.Title, current.Title, equal),
		Message:            diffValue(proposed.Message, current.Message, equal),
		Creation:           diffValue(proposed.Creation, current.Creation, time.Time.Equal),
		Impact:             diffValue(proposed.Impact, current.Impact, equal),
		Lat:                diffField(proposed.Lat, current.Lat, equal),
		Lon:                diffField(proposed.Lon, current.Lon, equal),
		Content:            diffValue(proposed.Content, current.Content, rawEq),
		StateJustification: diffField(proposed.StateJustification, current.StateJustification, equal),
		RegionIDs:          diffValue(slices.Clone(proposed.RegionIDs), current.RegionIDs, slices.Equal),
		OperatorIDs:        diffValue(slices.Clone(proposed.OperatorIDs), current.OperatorIDs, slices.Equal),
		RouteIDs:           diffValue(slices.Clone(proposed.RouteIDs), current.RouteIDs, slices.Equal),
		StopIDs:            diffValue(slices.Clone(proposed.StopIDs), current.StopIDs, slices.Equal),
		PicIDs:             diffValue(slices.Clone(proposed.PicIDs), current.PicIDs, slices.Equal),
	}
	if proposed.Category != current.Category {
		c := histIssueCategory(proposed.Category)
		p.Category = &c
	}
	if proposed.State != current.State {
		s := histIssueState(proposed.State)
		p.State = &s
	}
	return p
}

func rawEq(a, b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
}
