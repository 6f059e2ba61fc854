package history

import (
	"slices"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// RoutePatch is a sparse change to a domain.Route.
type RoutePatch struct {
	TypeID       *int32        `json:"type_id,omitempty"`
	OperatorID   *int32        `json:"operator_id,omitempty"`
	Code         Field[string] `json:"code,omitzero"`
	Name         *string       `json:"name,omitempty"`
	Circular     *bool         `json:"circular,omitempty"`
	Active       *bool         `json:"active,omitempty"`
	MainSubroute Field[int32]  `json:"main_subroute,omitzero"`
}

func (p *RoutePatch) fields() []patchField {
	return []patchField{
		opt("type_id", axisNone, &p.TypeID),
		opt("operator_id", axisNone, &p.OperatorID),
		tri("code", axisNone, &p.Code),
		opt("name", axisNone, &p.Name),
		opt("circular", axisNone, &p.Circular),
		opt("active", axisNone, &p.Active),
		tri("main_subroute", axisNone, &p.MainSubroute),
	}
}

// IsEmpty, FieldNames and DropFields mirror their StopPatch counterparts.
func (p RoutePatch) IsEmpty() bool          { return fieldsEmpty(p.fields()) }
func (p RoutePatch) FieldNames() []string   { return specifiedNames(p.fields()) }
func (p *RoutePatch) DropFields(n FieldSet) { dropNamed(p.fields(), n) }

// DropNoops unsets every field whose outcome already matches the current value.
func (p *RoutePatch) DropNoops(r domain.Route) {
	dropOpt(&p.TypeID, r.TypeID, equal)
	dropOpt(&p.OperatorID, r.OperatorID, equal)
	dropNoop(&p.Code, r.Code, equal)
	dropOpt(&p.Name, r.Name, equal)
	dropOpt(&p.Circular, r.Circular, equal)
	dropOpt(&p.Active, r.Active, equal)
	dropNoop(&p.MainSubroute, r.MainSubroute, equal)
}

// Apply assigns every specified field.
func (p RoutePatch) Apply(r *domain.Route) {
	applyOpt(p.TypeID, &r.TypeID)
	applyOpt(p.OperatorID, &r.OperatorID)
	applyField(p.Code, &r.Code)
	applyOpt(p.Name, &r.Name)
	applyOpt(p.Circular, &r.Circular)
	applyOpt(p.Active, &r.Active)
	applyField(p.MainSubroute, &r.MainSubroute)
}

// DeriveRoutePatch returns the patch that turns current into proposed.
// Identity is not compared.
func DeriveRoutePatch(proposed, current domain.Route) RoutePatch {
	return RoutePatch{
		TypeID:       diffValue(proposed.TypeID, current.TypeID, equal),
		OperatorID:   diffValue(proposed.OperatorID, current.OperatorID, equal),
		Code:         diffField(proposed.Code, current.Code, equal),
		Name:         diffValue(proposed.Name, current.Name, equal),
		Circular:     diffValue(proposed.Circular, current.Circular, equal),
		Active:       diffValue(proposed.Active, current.Active, equal),
		MainSubroute: diffField(proposed.MainSubroute, current.MainSubroute, equal),
	}
}

// SubroutePatch is a sparse change to a domain.Subroute.
type SubroutePatch struct {
	Group       *int32                `json:"group,omitempty"`
	Flag        *string               `json:"flag,omitempty"`
	Headsign    *string               `json:"headsign,omitempty"`
	Origin      *string               `json:"origin,omitempty"`
	Destination *string               `json:"destination,omitempty"`
	Via         *[]domain.SubrouteVia `json:"via,omitempty"`
	Circular    *bool                 `json:"circular,omitempty"`
	Polyline    Field[string]         `json:"polyline,omitzero"`
}

func (p *SubroutePatch) fields() []patchField {
	return []patchField{
		opt("group", axisNone, &p.Group),
		opt("flag", axisNone, &p.Flag),
		opt("headsign", axisNone, &p.Headsign),
		opt("origin", axisNone, &p.Origin),
		opt("destination", axisNone, &p.Destination),
		opt("via", axisNone, &p.Via),
		opt("circular", axisNone, &p.Circular),
		tri("polyline", axisNone, &p.Polyline),
	}
}

// IsEmpty, FieldNames and DropFields mirror their StopPatch counterparts.
func (p SubroutePatch) IsEmpty() bool          { return fieldsEmpty(p.fields()) }
func (p SubroutePatch) FieldNames() []string   { return specifiedNames(p.fields()) }
func (p *SubroutePatch) DropFields(n FieldSet) { dropNamed(p.fields(), n) }

// DropNoops unsets every field whose outcome already matches the current value.
func (p *SubroutePatch) DropNoops(s domain.Subroute) {
	dropOpt(&p.Group, s.Group, equal)
	dropOpt(&p.Flag, s.Flag, equal)
	dropOpt(&p.Headsign, s.Headsign, equal)
	dropOpt(&p.Origin, s.Origin, equal)
	dropOpt(&p.Destination, s.Destination, equal)
	dropOpt(&p.Via, s.Via, viaEq)
	dropOpt(&p.Circular, s.Circular, equal)
	dropNoop(&p.Polyline, s.Polyline, equal)
}

// Apply assigns every specified field.
func (p SubroutePatch) Apply(s *domain.Subroute) {
	applyOpt(p.Group, &s.Group)
	applyOpt(p.Flag, &s.Flag)
	applyOpt(p.Headsign, &s.Headsign)
	applyOpt(p.Origin, &s.Origin)
	applyOpt(p.Destination, &s.Destination)
	if p.Via != nil {
		s.Via = slices.Clone(*p.Via)
	}
	applyOpt(p.Circular, &s.Circular)
	applyField(p.Polyline, &s.Polyline)
}

// DeriveSubroutePatch returns the patch that turns current into proposed.
// Identity and the owning route are not compared.
func DeriveSubroutePatch(proposed, current domain.Subroute) SubroutePatch {
	return SubroutePatch{
		Group:       diffValue(proposed.Group, current.Group, equal),
		Flag:        diffValue(proposed.Flag, current.Flag, equal),
		Headsign:    diffValue(proposed.Headsign, current.Headsign, equal),
		Origin:      diffValue(proposed.Origin, current.Origin, equal),
		Destination: diffValue(proposed.Destination, current.Destination, equal),
		Via:         diffValue(slices.Clone(proposed.Via), current.Via, viaEq),
		Circular:    diffValue(proposed.Circular, current.Circular, equal),
		Polyline:    diffField(proposed.Polyline, current.Polyline, equal),
	}
}

func viaEq(a, b []domain.SubrouteVia) bool {
	return slices.EqualFunc(a, b, func(x, y domain.SubrouteVia) bool {
		return x.Name == y.Name && ptrEq(x.Stops, y.Stops)
	})
}

// DeparturePatch is a sparse change to a domain.Departure.
type DeparturePatch struct {
	Time       *int16 `json:"time,omitempty"`
	SubrouteID *int32 `json:"subroute_id,omitempty"`
	CalendarID *int32 `json:"calendar_id,omitempty"`
}

func (p *DeparturePatch) fields() []patchField {
	return []patchField{
		opt("time", axisNone, &p.Time),
		opt("subroute_id", axisNone, &p.SubrouteID),
		opt("calendar_id", axisNone, &p.CalendarID),
	}
}

// IsEmpty, FieldNames and DropFields mirror their StopPatch counterparts.
func (p DeparturePatch) IsEmpty() bool          { return fieldsEmpty(p.fields()) }
func (p DeparturePatch) FieldNames() []string   { return specifiedNames(p.fields()) }
func (p *DeparturePatch) DropFields(n FieldSet) { dropNamed(p.fields(), n) }

// DropNoops unsets every field whose outcome already matches the current value.
func (p *DeparturePatch) DropNoops(d domain.Departure) {
	dropOpt(&p.Time, d.Time, equal)
	dropOpt(&p.SubrouteID, d.SubrouteID, equal)
	dropOpt(&p.CalendarID, d.CalendarID, equal)
}

// Apply assigns every specified field.
func (p DeparturePatch) Apply(d *domain.Departure) {
	applyOpt(p.Time, &d.Time)
	applyOpt(p.SubrouteID, &d.SubrouteID)
	applyOpt(p.CalendarID, &d.CalendarID)
}

// DeriveDeparturePatch returns the patch that turns current into proposed.
func DeriveDeparturePatch(proposed, current domain.Departure) DeparturePatch {
	return DeparturePatch{
		Time:       diffValue(proposed.Time, current.Time, equal),
		SubrouteID: diffValue(proposed.SubrouteID, current.SubrouteID, equal),
		CalendarID: diffValue(proposed.CalendarID, current.CalendarID, equal),
	}
}
