package history

import (
	"slices"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// StopProposal is the full desired state of a stop as sent by a trusted
// editor. Identity and external references are not part of it.
type StopProposal struct {
	Name      string          `json:"name"`
	ShortName *string         `json:"short_name"`
	Locality  *string         `json:"locality"`
	Street    *string         `json:"street"`
	Door      *string         `json:"door"`
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	Notes     *string         `json:"notes"`
	Tags      []string        `json:"tags"`
	A11y      domain.A11yMeta `json:"a11y"`

	VerificationLevel       uint8               `json:"verification_level"`
	ServiceCheckDate        *openapi_types.Date `json:"service_check_date"`
	InfrastructureCheckDate *openapi_types.Date `json:"infrastructure_check_date"`

	License string `json:"license"`
	IsGhost bool   `json:"is_ghost"`
}

// ProposalFromStop returns the proposal that would leave s unchanged.
func ProposalFromStop(s domain.Stop) StopProposal {
	return StopProposal{
		Name:                    s.Name,
		ShortName:               s.ShortName,
		Locality:                s.Locality,
		Street:                  s.Street,
		Door:                    s.Door,
		Lat:                     s.Lat,
		Lon:                     s.Lon,
		Notes:                   s.Notes,
		Tags:                    slices.Clone(s.Tags),
		A11y:                    s.A11y,
		VerificationLevel:       s.VerificationLevel,
		ServiceCheckDate:        s.ServiceCheckDate,
		InfrastructureCheckDate: s.InfrastructureCheckDate,
		License:                 s.License,
		IsGhost:                 s.IsGhost,
	}
}

// StopMetaProposal is what a contributor may propose for an existing stop.
// Names, position, verification and licensing stay with trusted editors.
type StopMetaProposal struct {
	Locality  *string         `json:"locality"`
	Street    *string         `json:"street"`
	Door      *string         `json:"door"`
	Notes     *string         `json:"notes"`
	Tags      []string        `json:"tags"`
	A11y      domain.A11yMeta `json:"a11y"`

	ServiceCheckDate        *openapi_types.Date `json:"service_check_date"`
	InfrastructureCheckDate *openapi_types.Date `json:"infrastructure_check_date"`
}

// DeriveStopPatch returns the patch that turns current into proposed.
func DeriveStopPatch(proposed StopProposal, current domain.Stop) StopPatch {
	return StopPatch{
		Name:                    diffValue(proposed.Name, current.Name, equal),
		ShortName:               diffField(proposed.ShortName, current.ShortName, equal),
		Locality:                diffField(proposed.Locality, current.Locality, equal),
		Street:                  diffField(proposed.Street, current.Street, equal),
		Door:                    diffField(proposed.Door, current.Door, equal),
		Lat:                     diffValue(proposed.Lat, current.Lat, equal),
		Lon:                     diffValue(proposed.Lon, current.Lon, equal),
		Notes:                   diffField(proposed.Notes, current.Notes, equal),
		Tags:                    diffValue(slices.Clone(proposed.Tags), current.Tags, slices.Equal),
		A11yPatch:               deriveA11yPatch(proposed.A11y, current.A11y),
		VerificationLevel:       diffValue(domain.UnpackVerification(proposed.VerificationLevel).Pack(), current.VerificationLevel, equal),
		ServiceCheckDate:        diffField(proposed.ServiceCheckDate, current.ServiceCheckDate, dateEq),
		InfrastructureCheckDate: diffField(proposed.InfrastructureCheckDate, current.InfrastructureCheckDate, dateEq),
		License:                 diffValue(proposed.License, current.License, equal),
		IsGhost:                 diffValue(proposed.IsGhost, current.IsGhost, equal),
	}
}

// DeriveStopMetaPatch returns the patch a contributor's proposal amounts to.
func DeriveStopMetaPatch(proposed StopMetaProposal, current domain.Stop) StopPatch {
	return StopPatch{
		Locality:                diffField(proposed.Locality, current.Locality, equal),
		Street:                  diffField(proposed.Street, current.Street, equal),
		Door:                    diffField(proposed.Door, current.Door, equal),
		Notes:                   diffField(proposed.Notes, current.Notes, equal),
		Tags:                    diffValue(slices.Clone(proposed.Tags), current.Tags, slices.Equal),
		A11yPatch:               deriveA11yPatch(proposed.A11y, current.A11y),
		ServiceCheckDate:        diffField(proposed.ServiceCheckDate, current.ServiceCheckDate, dateEq),
		InfrastructureCheckDate: diffField(proposed.InfrastructureCheckDate, current.InfrastructureCheckDate, dateEq),
	}
}

func deriveA11yPatch(proposed, cur domain.A11yMeta) A11yPatch {
	return A11yPatch{
		Schedules:                    diffSlice(proposed.Schedules, cur.Schedules, scheduleEq, snapshotSchedules),
		Flags:                        diffSlice(proposed.Flags, cur.Flags, flagEq, snapshotFlags),
		HasSidewalk:                  diffField(proposed.HasSidewalk, cur.HasSidewalk, equal),
		HasSidewalkedPath:            diffField(proposed.HasSidewalkedPath, cur.HasSidewalkedPath, equal),
		HasShelter:                   diffField(proposed.HasShelter, cur.HasShelter, equal),
		HasCover:                     diffField(proposed.HasCover, cur.HasCover, equal),
		HasBench:                     diffField(proposed.HasBench, cur.HasBench, equal),
		HasTrashCan:                  diffField(proposed.HasTrashCan, cur.HasTrashCan, equal),
		HasWaitingTimes:              diffField(proposed.HasWaitingTimes, cur.HasWaitingTimes, equal),
		HasTicketSeller:              diffField(proposed.HasTicketSeller, cur.HasTicketSeller, equal),
		HasCostumerSupport:           diffField(proposed.HasCostumerSupport, cur.HasCostumerSupport, equal),
		AdvertisementQty:             diffEnum(proposed.AdvertisementQty, cur.AdvertisementQty, histAdvertisementQuantification),
		HasCrossing:                  diffField(proposed.HasCrossing, cur.HasCrossing, equal),
		HasWideAccess:                diffField(proposed.HasWideAccess, cur.HasWideAccess, equal),
		HasFlatAccess:                diffField(proposed.HasFlatAccess, cur.HasFlatAccess, equal),
		HasTactileAccess:             diffField(proposed.HasTactileAccess, cur.HasTactileAccess, equal),
		IlluminationStrength:         diffEnum(proposed.IlluminationStrength, cur.IlluminationStrength, histIlluminationStrength),
		IlluminationPosition:         diffEnum(proposed.IlluminationPosition, cur.IlluminationPosition, histIlluminationPos),
		HasIlluminatedPath:           diffField(proposed.HasIlluminatedPath, cur.HasIlluminatedPath, equal),
		HasVisibilityFromWithin:      diffField(proposed.HasVisibilityFromWithin, cur.HasVisibilityFromWithin, equal),
		HasVisibilityFromArea:        diffField(proposed.HasVisibilityFromArea, cur.HasVisibilityFromArea, equal),
		IsVisibleFromOutside:         diffField(proposed.IsVisibleFromOutside, cur.IsVisibleFromOutside, equal),
		ParkingVisibilityImpairment:  diffEnum(proposed.ParkingVisibilityImpairment, cur.ParkingVisibilityImpairment, histParkingVisualLimitation),
		ParkingLocalAccessImpairment: diffEnum(proposed.ParkingLocalAccessImpairment, cur.ParkingLocalAccessImpairment, histLocalParkingLimitation),
		ParkingAreaAccessImpairment:  diffEnum(proposed.ParkingAreaAccessImpairment, cur.ParkingAreaAccessImpairment, histAreaParkingLimitation),
		TmpIssues:                    diffValue(slices.Clone(proposed.TmpIssues), cur.TmpIssues, slices.Equal),
	}
}

// diffEnum diffs two live enum values and stores the outcome historically.
func diffEnum[H any, L comparable](proposed, cur *L, conv func(L) H) Field[H] {
	if ptrEq(proposed, cur) {
		return Field[H]{}
	}
	if proposed == nil {
		return Null[H]()
	}
	return Set(conv(*proposed))
}

// diffSlice diffs two nullable live collections and stores the outcome
// historically.
func diffSlice[H, L any](proposed, cur *[]L, eq func(a, b L) bool, conv func(*[]L) *[]H) Field[[]H] {
	switch {
	case proposed == nil && cur == nil:
		return Field[[]H]{}
	case proposed != nil && cur != nil && slices.EqualFunc(*proposed, *cur, eq):
		return Field[[]H]{}
	case proposed == nil:
		return Null[[]H]()
	}
	return Set(*conv(proposed))
}
