package history

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// Change is one recorded mutation. The set of variants is closed; callers
// dispatch with a type switch.
//
// On the wire a change is externally tagged with its kind:
//
//	{"StopUpdate": {"original": {...}, "patch": {...}}}
//
// Kind names are persisted and must not be renamed.
type Change interface {
	Kind() string
	isChange()
}

// StopCreation records a new stop with its initial state.
type StopCreation struct {
	Data Stop `json:"data"`
}

// StopUpdate records a patch together with the stop it was applied to.
type StopUpdate struct {
	Original Stop      `json:"original"`
	Patch    StopPatch `json:"patch"`
}

// StopDeletion records the last state of a removed stop.
type StopDeletion struct {
	Data Stop `json:"data"`
}

// RouteCreation records a new route.
type RouteCreation struct {
	Data domain.Route `json:"data"`
}

// RouteUpdate records a route patch and the route it was applied to.
type RouteUpdate struct {
	Original domain.Route `json:"original"`
	Patch    RoutePatch   `json:"patch"`
}

// RouteDeletion records the last state of a removed route.
type RouteDeletion struct {
	Data domain.Route `json:"data"`
}

// SubrouteCreation records a new subroute.
type SubrouteCreation struct {
	Data domain.Subroute `json:"data"`
}

// SubrouteUpdate records a subroute patch and its original.
type SubrouteUpdate struct {
	Original domain.Subroute `json:"original"`
	Patch    SubroutePatch   `json:"patch"`
}

// SubrouteDeletion also carries the subroute's stop sequence and departures
// when they were known at deletion time.
type SubrouteDeletion struct {
	Subroute   domain.Subroute     `json:"subroute"`
	Stops      *[]int32            `json:"stops"`
	Departures *[]domain.Departure `json:"departures"`
}

// UnmarshalJSON also accepts older records that stored the subroute under
// "data".
func (c *SubrouteDeletion) UnmarshalJSON(b []byte) error {
	var raw struct {
		Subroute   *domain.Subroute    `json:"subroute"`
		Data       *domain.Subroute    `json:"data"`
		Stops      *[]int32            `json:"stops"`
		Departures *[]domain.Departure `json:"departures"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.Subroute != nil:
		c.Subroute = *raw.Subroute
	case raw.Data != nil:
		c.Subroute = *raw.Data
	default:
		return fmt.Errorf("history: SubrouteDeletion without subroute")
	}
	c.Stops, c.Departures = raw.Stops, raw.Departures
	return nil
}

// DepartureCreation records a new departure.
type DepartureCreation struct {
	Data domain.Departure `json:"data"`
}

// DepartureUpdate records a departure patch and its original.
type DepartureUpdate struct {
	Original domain.Departure `json:"original"`
	Patch    DeparturePatch   `json:"patch"`
}

// DepartureDeletion records the last state of a removed departure.
type DepartureDeletion struct {
	Data domain.Departure `json:"data"`
}

// StopPicUpload records a new stop picture and the stops it shows.
type StopPicUpload struct {
	Pic   domain.StopPic     `json:"pic"`
	Stops []domain.StopAttrs `json:"stops"`
}

// StopPicMetaUpdate records a picture metadata patch and the stop links
// before and after it.
type StopPicMetaUpdate struct {
	PicID         *int32                `json:"pic_id"`
	OriginalMeta  domain.StopPicDynMeta `json:"original_meta"`
	OriginalStops []domain.StopAttrs    `json:"original_stops"`
	MetaPatch     StopPicturePatch      `json:"meta_patch"`
	Stops         []domain.StopAttrs    `json:"stops"`
}

// StopPicDeletion records a removed picture and its stop links.
type StopPicDeletion struct {
	Pic   domain.StopPic     `json:"pic"`
	Stops []domain.StopAttrs `json:"stops"`
}

// IssueCreation records a new issue.
type IssueCreation struct {
	Data Issue `json:"data"`
}

// IssueUpdate records an issue patch and its original.
type IssueUpdate struct {
	Original Issue      `json:"original"`
	Patch    IssuePatch `json:"patch"`
}

// AbnormalityCreation records a new abnormality.
type AbnormalityCreation struct {
	Data domain.Abnormality `json:"data"`
}

// AbnormalityUpdate records an abnormality patch and its original.
type AbnormalityUpdate struct {
	Original domain.Abnormality `json:"original"`
	Patch    AbnormalityPatch   `json:"patch"`
}

// Kind returns the persisted tag of each change.
func (StopCreation) Kind() string        { return "StopCreation" }
func (StopUpdate) Kind() string          { return "StopUpdate" }
func (StopDeletion) Kind() string        { return "StopDeletion" }
func (RouteCreation) Kind() string       { return "RouteCreation" }
func (RouteUpdate) Kind() string         { return "RouteUpdate" }
func (RouteDeletion) Kind() string       { return "RouteDeletion" }
func (SubrouteCreation) Kind() string    { return "SubrouteCreation" }
func (SubrouteUpdate) Kind() string      { return "SubrouteUpdate" }
func (SubrouteDeletion) Kind() string    { return "SubrouteDeletion" }
func (DepartureCreation) Kind() string   { return "DepartureCreation" }
func (DepartureUpdate) Kind() string     { return "DepartureUpdate" }
func (DepartureDeletion) Kind() string   { return "DepartureDeletion" }
func (StopPicUpload) Kind() string       { return "StopPicUpload" }
func (StopPicMetaUpdate) Kind() string   { return "StopPicMetaUpdate" }
func (StopPicDeletion) Kind() string     { return "StopPicDeletion" }
func (IssueCreation) Kind() string       { return "IssueCreation" }
func (IssueUpdate) Kind() string         { return "IssueUpdate" }
func (AbnormalityCreation) Kind() string { return "AbnormalityCreation" }
func (AbnormalityUpdate) Kind() string   { return "AbnormalityUpdate" }

func (StopCreation) isChange()        {}
func (StopUpdate) isChange()          {}
func (StopDeletion) isChange()        {}
func (RouteCreation) isChange()       {}
func (RouteUpdate) isChange()         {}
func (RouteDeletion) isChange()       {}
func (SubrouteCreation) isChange()    {}
func (SubrouteUpdate) isChange()      {}
func (SubrouteDeletion) isChange()    {}
func (DepartureCreation) isChange()   {}
func (DepartureUpdate) isChange()     {}
func (DepartureDeletion) isChange()   {}
func (StopPicUpload) isChange()       {}
func (StopPicMetaUpdate) isChange()   {}
func (StopPicDeletion) isChange()     {}
func (IssueCreation) isChange()       {}
func (IssueUpdate) isChange()         {}
func (AbnormalityCreation) isChange() {}
func (AbnormalityUpdate) isChange()   {}

// MarshalChange encodes c in its externally tagged form.
func MarshalChange(c Change) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("history: nil change")
	}
	return json.Marshal(map[string]Change{c.Kind(): c})
}

// UnmarshalChange decodes an externally tagged change.
func UnmarshalChange(data []byte) (Change, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, err
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("history: change must have exactly one kind, got %d", len(tagged))
	}
	for kind, body := range tagged {
		c, err := newChange(kind)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, c); err != nil {
			return nil, fmt.Errorf("history: decoding %s: %w", kind, err)
		}
		return deref(c), nil
	}
	panic("unreachable")
}

func newChange(kind string) (any, error) {
	switch kind {
	case "StopCreation":
		return &StopCreation{}, nil
	case "StopUpdate":
		return &StopUpdate{}, nil
	case "StopDeletion":
		return &StopDeletion{}, nil
	case "RouteCreation":
		return &RouteCreation{}, nil
	case "RouteUpdate":
		return &RouteUpdate{}, nil
	case "RouteDeletion":
		return &RouteDeletion{}, nil
	case "SubrouteCreation":
		return &SubrouteCreation{}, nil
	case "SubrouteUpdate":
		return &SubrouteUpdate{}, nil
	case "SubrouteDeletion":
		return &SubrouteDeletion{}, nil
	case "DepartureCreation":
		return &DepartureCreation{}, nil
	case "DepartureUpdate":
		return &DepartureUpdate{}, nil
	case "DepartureDeletion":
		return &DepartureDeletion{}, nil
	case "StopPicUpload":
		return &StopPicUpload{}, nil
	case "StopPicMetaUpdate":
		return &StopPicMetaUpdate{}, nil
	case "StopPicDeletion":
		return &StopPicDeletion{}, nil
	case "IssueCreation":
		return &IssueCreation{}, nil
	case "IssueUpdate":
		return &IssueUpdate{}, nil
	case "AbnormalityCreation":
		return &AbnormalityCreation{}, nil
	case "AbnormalityUpdate":
		return &AbnormalityUpdate{}, nil
	}
	return nil, fmt.Errorf("history: unknown change kind %q", kind)
}

func deref(c any) Change {
	switch v := c.(type) {
	case *StopCreation:
		return *v
	case *StopUpdate:
		return *v
	case *StopDeletion:
		return *v
	case *RouteCreation:
		return *v
	case *RouteUpdate:
		return *v
	case *RouteDeletion:
		return *v
	case *SubrouteCreation:
		return *v
	case *SubrouteUpdate:
		return *v
	case *SubrouteDeletion:
		return *v
	case *DepartureCreation:
		return *v
	case *DepartureUpdate:
		return *v
	case *DepartureDeletion:
		return *v
	case *StopPicUpload:
		return *v
	case *StopPicMetaUpdate:
		return *v
	case *StopPicDeletion:
		return *v
	case *IssueCreation:
		return *v
	case *IssueUpdate:
		return *v
	case *AbnormalityCreation:
		return *v
	case *AbnormalityUpdate:
		return *v
	}
	panic(fmt.Sprintf("history: unexpected change type %T", c))
}

// Changeset is an ordered list of changes recorded together.
type Changeset []Change

// MarshalJSON encodes every change externally tagged.
func (cs Changeset) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(cs))
	for i, c := range cs {
		b, err := MarshalChange(c)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list of externally tagged changes.
func (cs *Changeset) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Changeset, len(raw))
	for i, r := range raw {
		c, err := UnmarshalChange(r)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		out[i] = c
	}
	*cs = out
	return nil
}

// Validate checks the shape of a submitted changeset: it must hold at least
// one change and no update may carry an empty patch.
func (cs Changeset) Validate() error {
	if len(cs) == 0 {
		return fmt.Errorf("%w: changeset is empty", domain.ErrValidation)
	}
	for i, c := range cs {
		if c == nil {
			return fmt.Errorf("%w: change %d is null", domain.ErrValidation, i)
		}
		if names, isUpdate := PatchedFields(c); isUpdate && len(names) == 0 {
			return fmt.Errorf("%w: change %d (%s) has an empty patch", domain.ErrValidation, i, c.Kind())
		}
	}
	return nil
}

// StopIDs lists, without repetition and in ascending order, the stops the
// changeset touches directly or through pictures.
func (cs Changeset) StopIDs() []int32 {
	var ids []int32
	for _, c := range cs {
		switch v := c.(type) {
		case StopCreation:
			ids = append(ids, v.Data.ID)
		case StopUpdate:
			ids = append(ids, v.Original.ID)
		case StopDeletion:
			ids = append(ids, v.Data.ID)
		case StopPicUpload:
			ids = appendAttrIDs(ids, v.Stops)
		case StopPicMetaUpdate:
			ids = appendAttrIDs(appendAttrIDs(ids, v.OriginalStops), v.Stops)
		case StopPicDeletion:
			ids = appendAttrIDs(ids, v.Stops)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func appendAttrIDs(ids []int32, attrs []domain.StopAttrs) []int32 {
	for _, a := range attrs {
		ids = append(ids, a.ID)
	}
	return ids
}

// EntityID returns the id of the entity a change is about.
func EntityID(c Change) int32 {
	switch v := c.(type) {
	case StopCreation:
		return v.Data.ID
	case StopUpdate:
		return v.Original.ID
	case StopDeletion:
		return v.Data.ID
	case RouteCreation:
		return v.Data.ID
	case RouteUpdate:
		return v.Original.ID
	case RouteDeletion:
		return v.Data.ID
	case SubrouteCreation:
		return v.Data.ID
	case SubrouteUpdate:
		return v.Original.ID
	case SubrouteDeletion:
		return v.Subroute.ID
	case DepartureCreation:
		return v.Data.ID
	case DepartureUpdate:
		return v.Original.ID
	case DepartureDeletion:
		return v.Data.ID
	case StopPicUpload:
		return v.Pic.ID
	case StopPicMetaUpdate:
		if v.PicID != nil {
			return *v.PicID
		}
		return 0
	case StopPicDeletion:
		return v.Pic.ID
	case IssueCreation:
		return v.Data.ID
	case IssueUpdate:
		return v.Original.ID
	case AbnormalityCreation:
		return v.Data.ID
	case AbnormalityUpdate:
		return v.Original.ID
	}
	return 0
}

// PatchedFields returns the specified field names of an update change. The
// second result is false for creations and deletions.
func PatchedFields(c Change) ([]string, bool) {
	switch v := c.(type) {
	case StopUpdate:
		return v.Patch.FieldNames(), true
	case RouteUpdate:
		return v.Patch.FieldNames(), true
	case SubrouteUpdate:
		return v.Patch.FieldNames(), true
	case DepartureUpdate:
		return v.Patch.FieldNames(), true
	case StopPicMetaUpdate:
		names := v.MetaPatch.FieldNames()
		if !slices.EqualFunc(v.OriginalStops, v.Stops, attrsEq) {
			names = append(names, "stops")
		}
		return names, true
	case IssueUpdate:
		return v.Patch.FieldNames(), true
	case AbnormalityUpdate:
		return v.Patch.FieldNames(), true
	}
	return nil, false
}

func attrsEq(a, b domain.StopAttrs) bool {
	return a.ID == b.ID && slices.Equal(a.Attrs, b.Attrs)
}
