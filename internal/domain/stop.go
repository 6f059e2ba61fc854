package domain

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Stop is a physical boarding location in the catalogue.
// Nullable attributes are pointers; nil means "unknown", not "false".
type Stop struct {
	ID        int32    `json:"id"`
	Name      string   `json:"name"`
	ShortName *string  `json:"short_name"`
	Locality  *string  `json:"locality"`
	Street    *string  `json:"street"`
	Door      *string  `json:"door"`
	Parish    *int32   `json:"parish"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Notes     *string  `json:"notes"`
	Tags      []string `json:"tags"`
	A11y      A11yMeta `json:"a11y"`

	// VerificationLevel is the packed StopVerification. Use Verification()
	// to read individual axes.
	VerificationLevel uint8 `json:"verification_level"`

	ServiceCheckDate        *openapi_types.Date `json:"service_check_date"`
	InfrastructureCheckDate *openapi_types.Date `json:"infrastructure_check_date"`

	OSMID   *int64 `json:"osm_id"`
	License string `json:"license"`
	IsGhost bool   `json:"is_ghost"`
}

// Verification unpacks the stop's verification level.
func (s Stop) Verification() StopVerification {
	return UnpackVerification(s.VerificationLevel)
}

// A11yMeta is the accessibility and amenity block attached to a Stop.
type A11yMeta struct {
	Schedules *[]Schedule `json:"schedules"`
	Flags     *[]Flag     `json:"flags"`

	// Amenities
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

	// Access
	HasCrossing      *bool `json:"has_crossing"`
	HasWideAccess    *bool `json:"has_wide_access"`
	HasFlatAccess    *bool `json:"has_flat_access"`
	HasTactileAccess *bool `json:"has_tactile_access"`

	// Visibility
	IlluminationStrength    *IlluminationStrength `json:"illumination_strength"`
	IlluminationPosition    *IlluminationPos      `json:"illumination_position"`
	HasIlluminatedPath      *bool                 `json:"has_illuminated_path"`
	HasVisibilityFromWithin *bool                 `json:"has_visibility_from_within"`
	HasVisibilityFromArea   *bool                 `json:"has_visibility_from_area"`
	IsVisibleFromOutside    *bool                 `json:"is_visible_from_outside"`

	// Parking
	ParkingVisibilityImpairment  *ParkingVisualLimitation `json:"parking_visibility_impairment"`
	ParkingLocalAccessImpairment *LocalParkingLimitation  `json:"parking_local_access_impairment"`
	ParkingAreaAccessImpairment  *AreaParkingLimitation   `json:"parking_area_access_impairment"`

	TmpIssues []string `json:"tmp_issues"`
}

// Flag is a physical pole sign listing the routes served at a stop.
type Flag struct {
	ID         string   `json:"id"`
	Name       *string  `json:"name"`
	RouteCodes []string `json:"route_codes"`
}

// Schedule is a timetable posted at a stop.
type Schedule struct {
	Code          *string      `json:"code"`
	Discriminator *string      `json:"discriminator"`
	Type          ScheduleType `json:"type"`
}

// ScheduleType is the kind of information a posted schedule gives.
type ScheduleType string

const (
	ScheduleOrigin     ScheduleType = "origin"
	SchedulePrediction ScheduleType = "prediction"
	ScheduleFrequency  ScheduleType = "frequency"
)

// IlluminationPos is where a stop's lighting comes from.
type IlluminationPos uint8

const (
	IlluminationIndirect IlluminationPos = 0
	IlluminationDirect   IlluminationPos = 10
	IlluminationOwn      IlluminationPos = 20
)

// IlluminationStrength grades the lighting at a stop.
type IlluminationStrength uint8

const (
	IlluminationNone   IlluminationStrength = 0
	IlluminationLow    IlluminationStrength = 1
	IlluminationMedium IlluminationStrength = 3
	IlluminationHigh   IlluminationStrength = 5
)

// AdvertisementQuantification grades how much advertising surrounds a stop.
type AdvertisementQuantification uint8

const (
	AdvertisementNone      AdvertisementQuantification = 0
	AdvertisementFew       AdvertisementQuantification = 2
	AdvertisementMany      AdvertisementQuantification = 4
	AdvertisementIntrusive AdvertisementQuantification = 6
)

// ParkingVisualLimitation grades how much parked vehicles hide a stop.
type ParkingVisualLimitation uint8

const (
	ParkingVisualNone   ParkingVisualLimitation = 0
	ParkingVisualLittle ParkingVisualLimitation = 2
	ParkingVisualSome   ParkingVisualLimitation = 4
	ParkingVisualVery   ParkingVisualLimitation = 6
)

// LocalParkingLimitation grades how much parking obstructs the stop itself.
type LocalParkingLimitation uint8

const (
	LocalParkingNone   LocalParkingLimitation = 0
	LocalParkingLow    LocalParkingLimitation = 2
	LocalParkingMedium LocalParkingLimitation = 4
	LocalParkingHigh   LocalParkingLimitation = 6
)

// AreaParkingLimitation grades how much parking obstructs access to the stop.
type AreaParkingLimitation uint8

const (
	AreaParkingNone   AreaParkingLimitation = 0
	AreaParkingLow    AreaParkingLimitation = 2
	AreaParkingMedium AreaParkingLimitation = 4
	AreaParkingHigh   AreaParkingLimitation = 6
)
