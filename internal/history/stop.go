package history

import (
	"slices"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// Stop is the snapshot of a domain.Stop as stored in changelog records.
// Fields that are mandatory in the live model are optional here because
// older records predate them.
type Stop struct {
	ID        int32    `json:"id"`
	Name      *string  `json:"name"`
	ShortName *string  `json:"short_name"`
	Locality  *string  `json:"locality"`
	Street    *string  `json:"street"`
	Door      *string  `json:"door"`
	Parish    *int32   `json:"parish"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Notes     *string  `json:"notes"`
	Tags      []string `json:"tags"`
	A11yMeta

	VerificationLevel       uint8               `json:"verification_level"`
	ServiceCheckDate        *openapi_types.Date `json:"service_check_date"`
	InfrastructureCheckDate *openapi_types.Date `json:"infrastructure_check_date"`

	OSMID   *int64  `json:"osm_id"`
	License *string `json:"license"`
	IsGhost *bool   `json:"is_ghost"`
}

// A11yMeta is the historical accessibility block. It is embedded in Stop
// so that its attributes sit flat beside the stop's own.
type A11yMeta struct {
	Schedules *[]Schedule `json:"schedules"`
	Flags     *[]Flag     `json:"flags"`

	HasSidewalk        *bool                        `json:"has_sidewalk"`
	HasSidewalkedPath  *bool                        `json:"has_sidewalked_path"`
	HasShelter         *bool                        `json:"has_shelter"`
	HasCover           *bool                        `json:"has_cover"`
	HasBench           *bool                        `json:"has_bench"`
	HasTrashCan        *bool                        `json:"has_trash_can"`
	HasWaitingTimes    *bool                        `json:"has_waiting_times"`
	HasTicketSeller    *bool                        `json:"has_ticket_seller"`
	HasCostumerSupport *bool                        `json:"has_costumer_support"`
	AdvertisementQty   *AdvertisementQuantification `json:"advertisement_qty"`

	HasCrossing      *bool `json:"has_crossing"`
	HasWideAccess    *bool `json:"has_wide_access"`
	HasFlatAccess    *bool `json:"has_flat_access"`
	HasTactileAccess *bool `json:"has_tactile_access"`

	IlluminationStrength    *IlluminationStrength `json:"illumination_strength"`
	IlluminationPosition    *IlluminationPos      `json:"illumination_position"`
	HasIlluminatedPath      *bool                 `json:"has_illuminated_path"`
	HasVisibilityFromWithin *bool                 `json:"has_visibility_from_within"`
	HasVisibilityFromArea   *bool                 `json:"has_visibility_from_area"`
	IsVisibleFromOutside    *bool                 `json:"is_visible_from_outside"`

	ParkingVisibilityImpairment  *ParkingVisualLimitation `json:"parking_visibility_impairment"`
	ParkingLocalAccessImpairment *LocalParkingLimitation  `json:"parking_local_access_impairment"`
	ParkingAreaAccessImpairment  *AreaParkingLimitation   `json:"parking_area_access_impairment"`

	TmpIssues []string `json:"tmp_issues"`
}

// Flag is the historical form of domain.Flag.
type Flag struct {
	ID         string   `json:"id"`
	Name       *string  `json:"name"`
	RouteCodes []string `json:"route_codes"`
}

// Schedule is the historical form of domain.Schedule.
type Schedule struct {
	Code          *string      `json:"code"`
	Discriminator *string      `json:"discriminator"`
	Type          ScheduleType `json:"type"`
}

// SnapshotStop converts a live stop into its historical snapshot.
func SnapshotStop(s domain.Stop) Stop {
	name, license, ghost := s.Name, s.License, s.IsGhost
	lat, lon := s.Lat, s.Lon
	return Stop{
		ID:                      s.ID,
		Name:                    &name,
		ShortName:               s.ShortName,
		Locality:                s.Locality,
		Street:                  s.Street,
		Door:                    s.Door,
		Parish:                  s.Parish,
		Lat:                     &lat,
		Lon:                     &lon,
		Notes:                   s.Notes,
		Tags:                    slices.Clone(s.Tags),
		A11yMeta:                snapshotA11y(s.A11y),
		VerificationLevel:       s.VerificationLevel,
		ServiceCheckDate:        s.ServiceCheckDate,
		InfrastructureCheckDate: s.InfrastructureCheckDate,
		OSMID:                   s.OSMID,
		License:                 &license,
		IsGhost:                 &ghost,
	}
}

// Live converts the snapshot back into a live stop. A missing name or
// position, or an enum the live model does not know, is a conversion error.
// A missing license or ghost flag takes the live defaults.
func (s Stop) Live() (domain.Stop, error) {
	if s.Name == nil {
		return domain.Stop{}, domain.NewConversionError("Stop.name", "null")
	}
	if s.Lat == nil || s.Lon == nil {
		return domain.Stop{}, domain.NewConversionError("Stop.position", "null")
	}
	a11y, err := s.A11yMeta.Live()
	if err != nil {
		return domain.Stop{}, err
	}
	stop := domain.Stop{
		ID:                      s.ID,
		Name:                    *s.Name,
		ShortName:               s.ShortName,
		Locality:                s.Locality,
		Street:                  s.Street,
		Door:                    s.Door,
		Parish:                  s.Parish,
		Lat:                     *s.Lat,
		Lon:                     *s.Lon,
		Notes:                   s.Notes,
		Tags:                    slices.Clone(s.Tags),
		A11y:                    a11y,
		VerificationLevel:       s.VerificationLevel,
		ServiceCheckDate:        s.ServiceCheckDate,
		InfrastructureCheckDate: s.InfrastructureCheckDate,
		OSMID:                   s.OSMID,
		License:                 "?",
	}
	if s.License != nil {
		stop.License = *s.License
	}
	if s.IsGhost != nil {
		stop.IsGhost = *s.IsGhost
	}
	return stop, nil
}

func snapshotA11y(a domain.A11yMeta) A11yMeta {
	return A11yMeta{
		Schedules:                    snapshotSchedules(a.Schedules),
		Flags:                        snapshotFlags(a.Flags),
		HasSidewalk:                  a.HasSidewalk,
		HasSidewalkedPath:            a.HasSidewalkedPath,
		HasShelter:                   a.HasShelter,
		HasCover:                     a.HasCover,
		HasBench:                     a.HasBench,
		HasTrashCan:                  a.HasTrashCan,
		HasWaitingTimes:              a.HasWaitingTimes,
		HasTicketSeller:              a.HasTicketSeller,
		HasCostumerSupport:           a.HasCostumerSupport,
		AdvertisementQty:             histPtr(a.AdvertisementQty, histAdvertisementQuantification),
		HasCrossing:                  a.HasCrossing,
		HasWideAccess:                a.HasWideAccess,
		HasFlatAccess:                a.HasFlatAccess,
		HasTactileAccess:             a.HasTactileAccess,
		IlluminationStrength:         histPtr(a.IlluminationStrength, histIlluminationStrength),
		IlluminationPosition:         histPtr(a.IlluminationPosition, histIlluminationPos),
		HasIlluminatedPath:           a.HasIlluminatedPath,
		HasVisibilityFromWithin:      a.HasVisibilityFromWithin,
		HasVisibilityFromArea:        a.HasVisibilityFromArea,
		IsVisibleFromOutside:         a.IsVisibleFromOutside,
		ParkingVisibilityImpairment:  histPtr(a.ParkingVisibilityImpairment, histParkingVisualLimitation),
		ParkingLocalAccessImpairment: histPtr(a.ParkingLocalAccessImpairment, histLocalParkingLimitation),
		ParkingAreaAccessImpairment:  histPtr(a.ParkingAreaAccessImpairment, histAreaParkingLimitation),
		TmpIssues:                    slices.Clone(a.TmpIssues),
	}
}

// Live converts the historical block into the live one.
func (a A11yMeta) Live() (domain.A11yMeta, error) {
	out := domain.A11yMeta{
		HasSidewalk:             a.HasSidewalk,
		HasSidewalkedPath:       a.HasSidewalkedPath,
		HasShelter:              a.HasShelter,
		HasCover:                a.HasCover,
		HasBench:                a.HasBench,
		HasTrashCan:             a.HasTrashCan,
		HasWaitingTimes:         a.HasWaitingTimes,
		HasTicketSeller:         a.HasTicketSeller,
		HasCostumerSupport:      a.HasCostumerSupport,
		HasCrossing:             a.HasCrossing,
		HasWideAccess:           a.HasWideAccess,
		HasFlatAccess:           a.HasFlatAccess,
		HasTactileAccess:        a.HasTactileAccess,
		HasIlluminatedPath:      a.HasIlluminatedPath,
		HasVisibilityFromWithin: a.HasVisibilityFromWithin,
		HasVisibilityFromArea:   a.HasVisibilityFromArea,
		IsVisibleFromOutside:    a.IsVisibleFromOutside,
		TmpIssues:               slices.Clone(a.TmpIssues),
	}
	var err error
	if out.Schedules, err = liveSchedules(a.Schedules); err != nil {
		return domain.A11yMeta{}, err
	}
	out.Flags = liveFlags(a.Flags)
	if out.AdvertisementQty, err = livePtr[domain.AdvertisementQuantification](a.AdvertisementQty); err != nil {
		return domain.A11yMeta{}, err
	}
	if out.IlluminationStrength, err = livePtr[domain.IlluminationStrength](a.IlluminationStrength); err != nil {
		return domain.A11yMeta{}, err
	}
	if out.IlluminationPosition, err = livePtr[domain.IlluminationPos](a.IlluminationPosition); err != nil {
		return domain.A11yMeta{}, err
	}
	if out.ParkingVisibilityImpairment, err = livePtr[domain.ParkingVisualLimitation](a.ParkingVisibilityImpairment); err != nil {
		return domain.A11yMeta{}, err
	}
	if out.ParkingLocalAccessImpairment, err = livePtr[domain.LocalParkingLimitation](a.ParkingLocalAccessImpairment); err != nil {
		return domain.A11yMeta{}, err
	}
	if out.ParkingAreaAccessImpairment, err = livePtr[domain.AreaParkingLimitation](a.ParkingAreaAccessImpairment); err != nil {
		return domain.A11yMeta{}, err
	}
	return out, nil
}

func snapshotSchedules(in *[]domain.Schedule) *[]Schedule {
	if in == nil {
		return nil
	}
	out := make([]Schedule, len(*in))
	for i, s := range *in {
		out[i] = Schedule{Code: s.Code, Discriminator: s.Discriminator, Type: histScheduleType(s.Type)}
	}
	return &out
}

func liveSchedules(in *[]Schedule) (*[]domain.Schedule, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]domain.Schedule, len(*in))
	for i, s := range *in {
		t, err := s.Type.Live()
		if err != nil {
			return nil, err
		}
		out[i] = domain.Schedule{Code: s.Code, Discriminator: s.Discriminator, Type: t}
	}
	return &out, nil
}

func snapshotFlags(in *[]domain.Flag) *[]Flag {
	if in == nil {
		return nil
	}
	out := make([]Flag, len(*in))
	for i, f := range *in {
		out[i] = Flag{ID: f.ID, Name: f.Name, RouteCodes: slices.Clone(f.RouteCodes)}
	}
	return &out
}

func liveFlags(in *[]Flag) *[]domain.Flag {
	if in == nil {
		return nil
	}
	out := make([]domain.Flag, len(*in))
	for i, f := range *in {
		out[i] = domain.Flag{ID: f.ID, Name: f.Name, RouteCodes: slices.Clone(f.RouteCodes)}
	}
	return &out
}
