package history

import (
	"slices"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// StopPatch is a sparse change to a domain.Stop.
//
// Non-nullable attributes are plain pointers (nil leaves them alone);
// nullable ones are Fields. The accessibility block is embedded so its keys
// sit flat beside the stop's own, mirroring the Stop snapshot.
type StopPatch struct {
	Name      *string       `json:"name,omitempty"`
	ShortName Field[string] `json:"short_name,omitzero"`
	Locality  Field[string] `json:"locality,omitzero"`
	Street    Field[string] `json:"street,omitzero"`
	Door      Field[string] `json:"door,omitzero"`
	Lat       *float64      `json:"lat,omitempty"`
	Lon       *float64      `json:"lon,omitempty"`
	Notes     Field[string] `json:"notes,omitzero"`
	Tags      *[]string     `json:"tags,omitempty"`
	A11yPatch

	VerificationLevel       *uint8                    `json:"verification_level,omitempty"`
	ServiceCheckDate        Field[openapi_types.Date] `json:"service_check_date,omitzero"`
	InfrastructureCheckDate Field[openapi_types.Date] `json:"infrastructure_check_date,omitzero"`

	License *string `json:"license,omitempty"`
	IsGhost *bool   `json:"is_ghost,omitempty"`
}

// A11yPatch is the accessibility part of a StopPatch. Enum attributes use
// their historical encodings.
type A11yPatch struct {
	Schedules Field[[]Schedule] `json:"schedules,omitzero"`
	Flags     Field[[]Flag]     `json:"flags,omitzero"`

	HasSidewalk        Field[bool]                        `json:"has_sidewalk,omitzero"`
	HasSidewalkedPath  Field[bool]                        `json:"has_sidewalked_path,omitzero"`
	HasShelter         Field[bool]                        `json:"has_shelter,omitzero"`
	HasCover           Field[bool]                        `json:"has_cover,omitzero"`
	HasBench           Field[bool]                        `json:"has_bench,omitzero"`
	HasTrashCan        Field[bool]                        `json:"has_trash_can,omitzero"`
	HasWaitingTimes    Field[bool]                        `json:"has_waiting_times,omitzero"`
	HasTicketSeller    Field[bool]                        `json:"has_ticket_seller,omitzero"`
	HasCostumerSupport Field[bool]                        `json:"has_costumer_support,omitzero"`
	AdvertisementQty   Field[AdvertisementQuantification] `json:"advertisement_qty,omitzero"`

	HasCrossing      Field[bool] `json:"has_crossing,omitzero"`
	HasWideAccess    Field[bool] `json:"has_wide_access,omitzero"`
	HasFlatAccess    Field[bool] `json:"has_flat_access,omitzero"`
	HasTactileAccess Field[bool] `json:"has_tactile_access,omitzero"`

	IlluminationStrength    Field[IlluminationStrength] `json:"illumination_strength,omitzero"`
	IlluminationPosition    Field[IlluminationPos]      `json:"illumination_position,omitzero"`
	HasIlluminatedPath      Field[bool]                 `json:"has_illuminated_path,omitzero"`
	HasVisibilityFromWithin Field[bool]                 `json:"has_visibility_from_within,omitzero"`
	HasVisibilityFromArea   Field[bool]                 `json:"has_visibility_from_area,omitzero"`
	IsVisibleFromOutside    Field[bool]                 `json:"is_visible_from_outside,omitzero"`

	ParkingVisibilityImpairment  Field[ParkingVisualLimitation] `json:"parking_visibility_impairment,omitzero"`
	ParkingLocalAccessImpairment Field[LocalParkingLimitation]  `json:"parking_local_access_impairment,omitzero"`
	ParkingAreaAccessImpairment  Field[AreaParkingLimitation]   `json:"parking_area_access_impairment,omitzero"`

	TmpIssues *[]string `json:"tmp_issues,omitempty"`
}

func (p *StopPatch) fields() []patchField {
	a := &p.A11yPatch
	return []patchField{
		opt("name", axisNone, &p.Name),
		tri("short_name", axisNone, &p.ShortName),
		tri("locality", axisNone, &p.Locality),
		tri("street", axisNone, &p.Street),
		tri("door", axisNone, &p.Door),
		opt("lat", axisPosition, &p.Lat),
		opt("lon", axisPosition, &p.Lon),
		tri("notes", axisNone, &p.Notes),
		opt("tags", axisNone, &p.Tags),

		tri("schedules", axisService, &a.Schedules),
		tri("flags", axisService, &a.Flags),

		tri("has_sidewalk", axisInfrastructure, &a.HasSidewalk),
		tri("has_sidewalked_path", axisInfrastructure, &a.HasSidewalkedPath),
		tri("has_shelter", axisInfrastructure, &a.HasShelter),
		tri("has_cover", axisInfrastructure, &a.HasCover),
		tri("has_bench", axisInfrastructure, &a.HasBench),
		tri("has_trash_can", axisInfrastructure, &a.HasTrashCan),
		tri("has_waiting_times", axisInfrastructure, &a.HasWaitingTimes),
		tri("has_ticket_seller", axisInfrastructure, &a.HasTicketSeller),
		tri("has_costumer_support", axisInfrastructure, &a.HasCostumerSupport),
		tri("advertisement_qty", axisInfrastructure, &a.AdvertisementQty),
		tri("has_crossing", axisInfrastructure, &a.HasCrossing),
		tri("has_wide_access", axisInfrastructure, &a.HasWideAccess),
		tri("has_flat_access", axisInfrastructure, &a.HasFlatAccess),
		tri("has_tactile_access", axisInfrastructure, &a.HasTactileAccess),
		tri("illumination_strength", axisInfrastructure, &a.IlluminationStrength),
		tri("illumination_position", axisInfrastructure, &a.IlluminationPosition),
		tri("has_illuminated_path", axisInfrastructure, &a.HasIlluminatedPath),
		tri("has_visibility_from_within", axisInfrastructure, &a.HasVisibilityFromWithin),
		tri("has_visibility_from_area", axisInfrastructure, &a.HasVisibilityFromArea),
		tri("is_visible_from_outside", axisInfrastructure, &a.IsVisibleFromOutside),
		tri("parking_visibility_impairment", axisInfrastructure, &a.ParkingVisibilityImpairment),
		tri("parking_local_access_impairment", axisInfrastructure, &a.ParkingLocalAccessImpairment),
		tri("parking_area_access_impairment", axisInfrastructure, &a.ParkingAreaAccessImpairment),
		opt("tmp_issues", axisNone, &a.TmpIssues),

		opt("verification_level", axisNone, &p.VerificationLevel),
		tri("service_check_date", axisNone, &p.ServiceCheckDate),
		tri("infrastructure_check_date", axisNone, &p.InfrastructureCheckDate),
		opt("license", axisNone, &p.License),
		opt("is_ghost", axisInfrastructure, &p.IsGhost),
	}
}

// IsEmpty reports whether no field is specified.
func (p StopPatch) IsEmpty() bool {
	return fieldsEmpty(p.fields())
}

// FieldNames lists the JSON keys of the specified fields.
func (p StopPatch) FieldNames() []string {
	return specifiedNames(p.fields())
}

// DropFields unsets every named field regardless of its value.
// Unknown names are ignored.
func (p *StopPatch) DropFields(names FieldSet) {
	dropNamed(p.fields(), names)
}

// DropNoops unsets every field whose outcome already matches stop.
// Enum fields are compared after conversion to the live model, so a stored
// variant the live model does not know fails the whole call.
func (p *StopPatch) DropNoops(stop domain.Stop) error {
	dropOpt(&p.Name, stop.Name, equal)
	dropNoop(&p.ShortName, stop.ShortName, equal)
	dropNoop(&p.Locality, stop.Locality, equal)
	dropNoop(&p.Street, stop.Street, equal)
	dropNoop(&p.Door, stop.Door, equal)
	dropOpt(&p.Lat, stop.Lat, equal)
	dropOpt(&p.Lon, stop.Lon, equal)
	dropNoop(&p.Notes, stop.Notes, equal)
	dropOpt(&p.Tags, stop.Tags, slices.Equal)
	dropOpt(&p.VerificationLevel, stop.VerificationLevel, equal)
	dropNoop(&p.ServiceCheckDate, stop.ServiceCheckDate, dateEq)
	dropNoop(&p.InfrastructureCheckDate, stop.InfrastructureCheckDate, dateEq)
	dropOpt(&p.License, stop.License, equal)
	dropOpt(&p.IsGhost, stop.IsGhost, equal)
	return p.A11yPatch.dropNoops(stop.A11y)
}

func (a *A11yPatch) dropNoops(cur domain.A11yMeta) error {
	if v, ok := a.Schedules.Get(); ok {
		live, err := liveSchedules(&v)
		if err != nil {
			return err
		}
		if cur.Schedules != nil && slices.EqualFunc(*live, *cur.Schedules, scheduleEq) {
			a.Schedules = Field[[]Schedule]{}
		}
	} else if a.Schedules.IsNull() && cur.Schedules == nil {
		a.Schedules = Field[[]Schedule]{}
	}
	if v, ok := a.Flags.Get(); ok {
		if cur.Flags != nil && slices.EqualFunc(*liveFlags(&v), *cur.Flags, flagEq) {
			a.Flags = Field[[]Flag]{}
		}
	} else if a.Flags.IsNull() && cur.Flags == nil {
		a.Flags = Field[[]Flag]{}
	}

	dropNoop(&a.HasSidewalk, cur.HasSidewalk, equal)
	dropNoop(&a.HasSidewalkedPath, cur.HasSidewalkedPath, equal)
	dropNoop(&a.HasShelter, cur.HasShelter, equal)
	dropNoop(&a.HasCover, cur.HasCover, equal)
	dropNoop(&a.HasBench, cur.HasBench, equal)
	dropNoop(&a.HasTrashCan, cur.HasTrashCan, equal)
	dropNoop(&a.HasWaitingTimes, cur.HasWaitingTimes, equal)
	dropNoop(&a.HasTicketSeller, cur.HasTicketSeller, equal)
	dropNoop(&a.HasCostumerSupport, cur.HasCostumerSupport, equal)
	dropNoop(&a.HasCrossing, cur.HasCrossing, equal)
	dropNoop(&a.HasWideAccess, cur.HasWideAccess, equal)
	dropNoop(&a.HasFlatAccess, cur.HasFlatAccess, equal)
	dropNoop(&a.HasTactileAccess, cur.HasTactileAccess, equal)
	dropNoop(&a.HasIlluminatedPath, cur.HasIlluminatedPath, equal)
	dropNoop(&a.HasVisibilityFromWithin, cur.HasVisibilityFromWithin, equal)
	dropNoop(&a.HasVisibilityFromArea, cur.HasVisibilityFromArea, equal)
	dropNoop(&a.IsVisibleFromOutside, cur.IsVisibleFromOutside, equal)
	dropOpt(&a.TmpIssues, cur.TmpIssues, slices.Equal)

	if err := dropEnumNoop(&a.AdvertisementQty, cur.AdvertisementQty); err != nil {
		return err
	}
	if err := dropEnumNoop(&a.IlluminationStrength, cur.IlluminationStrength); err != nil {
		return err
	}
	if err := dropEnumNoop(&a.IlluminationPosition, cur.IlluminationPosition); err != nil {
		return err
	}
	if err := dropEnumNoop(&a.ParkingVisibilityImpairment, cur.ParkingVisibilityImpairment); err != nil {
		return err
	}
	if err := dropEnumNoop(&a.ParkingLocalAccessImpairment, cur.ParkingLocalAccessImpairment); err != nil {
		return err
	}
	return dropEnumNoop(&a.ParkingAreaAccessImpairment, cur.ParkingAreaAccessImpairment)
}

// Apply assigns every specified field into stop. Enum conversions are
// performed on a copy first; on error stop is left untouched.
func (p StopPatch) Apply(stop *domain.Stop) error {
	next := *stop
	applyOpt(p.Name, &next.Name)
	applyField(p.ShortName, &next.ShortName)
	applyField(p.Locality, &next.Locality)
	applyField(p.Street, &next.Street)
	applyField(p.Door, &next.Door)
	applyOpt(p.Lat, &next.Lat)
	applyOpt(p.Lon, &next.Lon)
	applyField(p.Notes, &next.Notes)
	if p.Tags != nil {
		next.Tags = slices.Clone(*p.Tags)
	}
	if p.VerificationLevel != nil {
		// Reserved bits are never persisted.
		next.VerificationLevel = domain.UnpackVerification(*p.VerificationLevel).Pack()
	}
	applyField(p.ServiceCheckDate, &next.ServiceCheckDate)
	applyField(p.InfrastructureCheckDate, &next.InfrastructureCheckDate)
	applyOpt(p.License, &next.License)
	applyOpt(p.IsGhost, &next.IsGhost)
	if err := p.A11yPatch.apply(&next.A11y); err != nil {
		return err
	}
	*stop = next
	return nil
}

func (a A11yPatch) apply(dst *domain.A11yMeta) error {
	if a.Schedules.IsSpecified() {
		var hist *[]Schedule
		if v, ok := a.Schedules.Get(); ok {
			hist = &v
		}
		live, err := liveSchedules(hist)
		if err != nil {
			return err
		}
		dst.Schedules = live
	}
	if a.Flags.IsSpecified() {
		var hist *[]Flag
		if v, ok := a.Flags.Get(); ok {
			hist = &v
		}
		dst.Flags = liveFlags(hist)
	}

	applyField(a.HasSidewalk, &dst.HasSidewalk)
	applyField(a.HasSidewalkedPath, &dst.HasSidewalkedPath)
	applyField(a.HasShelter, &dst.HasShelter)
	applyField(a.HasCover, &dst.HasCover)
	applyField(a.HasBench, &dst.HasBench)
	applyField(a.HasTrashCan, &dst.HasTrashCan)
	applyField(a.HasWaitingTimes, &dst.HasWaitingTimes)
	applyField(a.HasTicketSeller, &dst.HasTicketSeller)
	applyField(a.HasCostumerSupport, &dst.HasCostumerSupport)
	applyField(a.HasCrossing, &dst.HasCrossing)
	applyField(a.HasWideAccess, &dst.HasWideAccess)
	applyField(a.HasFlatAccess, &dst.HasFlatAccess)
	applyField(a.HasTactileAccess, &dst.HasTactileAccess)
	applyField(a.HasIlluminatedPath, &dst.HasIlluminatedPath)
	applyField(a.HasVisibilityFromWithin, &dst.HasVisibilityFromWithin)
	applyField(a.HasVisibilityFromArea, &dst.HasVisibilityFromArea)
	applyField(a.IsVisibleFromOutside, &dst.IsVisibleFromOutside)
	if a.TmpIssues != nil {
		dst.TmpIssues = slices.Clone(*a.TmpIssues)
	}

	if err := applyEnum(a.AdvertisementQty, &dst.AdvertisementQty); err != nil {
		return err
	}
	if err := applyEnum(a.IlluminationStrength, &dst.IlluminationStrength); err != nil {
		return err
	}
	if err := applyEnum(a.IlluminationPosition, &dst.IlluminationPosition); err != nil {
		return err
	}
	if err := applyEnum(a.ParkingVisibilityImpairment, &dst.ParkingVisibilityImpairment); err != nil {
		return err
	}
	if err := applyEnum(a.ParkingLocalAccessImpairment, &dst.ParkingLocalAccessImpairment); err != nil {
		return err
	}
	return applyEnum(a.ParkingAreaAccessImpairment, &dst.ParkingAreaAccessImpairment)
}

// ApplyToSnapshot applies the patch to a historical snapshot, as needed when
// replaying the changelog.
func (p StopPatch) ApplyToSnapshot(s Stop) (Stop, error) {
	live, err := s.Live()
	if err != nil {
		return Stop{}, err
	}
	if err := p.Apply(&live); err != nil {
		return Stop{}, err
	}
	return SnapshotStop(live), nil
}

func dateEq(a, b openapi_types.Date) bool {
	return a.Time.Format(time.DateOnly) == b.Time.Format(time.DateOnly)
}

func scheduleEq(a, b domain.Schedule) bool {
	return ptrEq(a.Code, b.Code) && ptrEq(a.Discriminator, b.Discriminator) && a.Type == b.Type
}

func flagEq(a, b domain.Flag) bool {
	return a.ID == b.ID && ptrEq(a.Name, b.Name) && slices.Equal(a.RouteCodes, b.RouteCodes)
}
