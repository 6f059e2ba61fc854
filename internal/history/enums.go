package history

import "github.com/intermodalpt/catalogue/internal/domain"

// Historical enums keep the encoding records were written with. Converting
// into the live model is fallible: a stored value that the live model no
// longer knows yields a *domain.ConversionError instead of a default.
// The hist* conversions carry an undeclared live value through unchanged, so
// it surfaces as a ConversionError rather than as the zero variant.

// IlluminationPos is the historical form of domain.IlluminationPos.
type IlluminationPos uint8

const (
	IlluminationIndirect IlluminationPos = 0
	IlluminationDirect   IlluminationPos = 10
	IlluminationOwn      IlluminationPos = 20
)

// Live converts v into domain.IlluminationPos.
func (v IlluminationPos) Live() (domain.IlluminationPos, error) {
	switch v {
	case IlluminationIndirect:
		return domain.IlluminationIndirect, nil
	case IlluminationDirect:
		return domain.IlluminationDirect, nil
	case IlluminationOwn:
		return domain.IlluminationOwn, nil
	}
	return 0, domain.NewConversionError("IlluminationPos", uint8(v))
}

func histIlluminationPos(v domain.IlluminationPos) IlluminationPos {
	switch v {
	case domain.IlluminationIndirect:
		return IlluminationIndirect
	case domain.IlluminationDirect:
		return IlluminationDirect
	case domain.IlluminationOwn:
		return IlluminationOwn
	}
	return IlluminationPos(v)
}

// IlluminationStrength is the historical form of domain.IlluminationStrength.
type IlluminationStrength uint8

const (
	IlluminationNone   IlluminationStrength = 0
	IlluminationLow    IlluminationStrength = 1
	IlluminationMedium IlluminationStrength = 3
	IlluminationHigh   IlluminationStrength = 5
)

// Live converts v into domain.IlluminationStrength.
func (v IlluminationStrength) Live() (domain.IlluminationStrength, error) {
	switch v {
	case IlluminationNone:
		return domain.IlluminationNone, nil
	case IlluminationLow:
		return domain.IlluminationLow, nil
	case IlluminationMedium:
		return domain.IlluminationMedium, nil
	case IlluminationHigh:
		return domain.IlluminationHigh, nil
	}
	return 0, domain.NewConversionError("IlluminationStrength", uint8(v))
}

func histIlluminationStrength(v domain.IlluminationStrength) IlluminationStrength {
	switch v {
	case domain.IlluminationNone:
		return IlluminationNone
	case domain.IlluminationLow:
		return IlluminationLow
	case domain.IlluminationMedium:
		return IlluminationMedium
	case domain.IlluminationHigh:
		return IlluminationHigh
	}
	return IlluminationStrength(v)
}

// AdvertisementQuantification is the historical form of
// domain.AdvertisementQuantification.
type AdvertisementQuantification uint8

const (
	AdvertisementNone      AdvertisementQuantification = 0
	AdvertisementFew       AdvertisementQuantification = 2
	AdvertisementMany      AdvertisementQuantification = 4
	AdvertisementIntrusive AdvertisementQuantification = 6
)

// Live converts v into domain.AdvertisementQuantification.
func (v AdvertisementQuantification) Live() (domain.AdvertisementQuantification, error) {
	switch v {
	case AdvertisementNone:
		return domain.AdvertisementNone, nil
	case AdvertisementFew:
		return domain.AdvertisementFew, nil
	case AdvertisementMany:
		return domain.AdvertisementMany, nil
	case AdvertisementIntrusive:
		return domain.AdvertisementIntrusive, nil
	}
	return 0, domain.NewConversionError("AdvertisementQuantification", uint8(v))
}

func histAdvertisementQuantification(v domain.AdvertisementQuantification) AdvertisementQuantification {
	switch v {
	case domain.AdvertisementNone:
		return AdvertisementNone
	case domain.AdvertisementFew:
		return AdvertisementFew
	case domain.AdvertisementMany:
		return AdvertisementMany
	case domain.AdvertisementIntrusive:
		return AdvertisementIntrusive
	}
	return AdvertisementQuantification(v)
}

// ParkingVisualLimitation is the historical form of
// domain.ParkingVisualLimitation.
type ParkingVisualLimitation uint8

const (
	ParkingVisualNone   ParkingVisualLimitation = 0
	ParkingVisualLittle ParkingVisualLimitation = 2
	ParkingVisualSome   ParkingVisualLimitation = 4
	ParkingVisualVery   ParkingVisualLimitation = 6
)

// Live converts v into domain.ParkingVisualLimitation.
func (v ParkingVisualLimitation) Live() (domain.ParkingVisualLimitation, error) {
	switch v {
	case ParkingVisualNone:
		return domain.ParkingVisualNone, nil
	case ParkingVisualLittle:
		return domain.ParkingVisualLittle, nil
	case ParkingVisualSome:
		return domain.ParkingVisualSome, nil
	case ParkingVisualVery:
		return domain.ParkingVisualVery, nil
	}
	return 0, domain.NewConversionError("ParkingVisualLimitation", uint8(v))
}

func histParkingVisualLimitation(v domain.ParkingVisualLimitation) ParkingVisualLimitation {
	switch v {
	case domain.ParkingVisualNone:
		return ParkingVisualNone
	case domain.ParkingVisualLittle:
		return ParkingVisualLittle
	case domain.ParkingVisualSome:
		return ParkingVisualSome
	case domain.ParkingVisualVery:
		return ParkingVisualVery
	}
	return ParkingVisualLimitation(v)
}

// LocalParkingLimitation is the historical form of
// domain.LocalParkingLimitation.
type LocalParkingLimitation uint8

const (
	LocalParkingNone   LocalParkingLimitation = 0
	LocalParkingLow    LocalParkingLimitation = 2
	LocalParkingMedium LocalParkingLimitation = 4
	LocalParkingHigh   LocalParkingLimitation = 6
)

// Live converts v into domain.LocalParkingLimitation.
func (v LocalParkingLimitation) Live() (domain.LocalParkingLimitation, error) {
	switch v {
	case LocalParkingNone:
		return domain.LocalParkingNone, nil
	case LocalParkingLow:
		return domain.LocalParkingLow, nil
	case LocalParkingMedium:
		return domain.LocalParkingMedium, nil
	case LocalParkingHigh:
		return domain.LocalParkingHigh, nil
	}
	return 0, domain.NewConversionError("LocalParkingLimitation", uint8(v))
}

func histLocalParkingLimitation(v domain.LocalParkingLimitation) LocalParkingLimitation {
	switch v {
	case domain.LocalParkingNone:
		return LocalParkingNone
	case domain.LocalParkingLow:
		return LocalParkingLow
	case domain.LocalParkingMedium:
		return LocalParkingMedium
	case domain.LocalParkingHigh:
		return LocalParkingHigh
	}
	return LocalParkingLimitation(v)
}

// AreaParkingLimitation is the historical form of
// domain.AreaParkingLimitation.
type AreaParkingLimitation uint8

const (
	AreaParkingNone   AreaParkingLimitation = 0
	AreaParkingLow    AreaParkingLimitation = 2
	AreaParkingMedium AreaParkingLimitation = 4
	AreaParkingHigh   AreaParkingLimitation = 6
)

// Live converts v into domain.AreaParkingLimitation.
func (v AreaParkingLimitation) Live() (domain.AreaParkingLimitation, error) {
	switch v {
	case AreaParkingNone:
		return domain.AreaParkingNone, nil
	case AreaParkingLow:
		return domain.AreaParkingLow, nil
	case AreaParkingMedium:
		return domain.AreaParkingMedium, nil
	case AreaParkingHigh:
		return domain.AreaParkingHigh, nil
	}
	return 0, domain.NewConversionError("AreaParkingLimitation", uint8(v))
}

func histAreaParkingLimitation(v domain.AreaParkingLimitation) AreaParkingLimitation {
	switch v {
	case domain.AreaParkingNone:
		return AreaParkingNone
	case domain.AreaParkingLow:
		return AreaParkingLow
	case domain.AreaParkingMedium:
		return AreaParkingMedium
	case domain.AreaParkingHigh:
		return AreaParkingHigh
	}
	return AreaParkingLimitation(v)
}

// ScheduleType is the historical form of domain.ScheduleType.
type ScheduleType string

const (
	ScheduleOrigin     ScheduleType = "origin"
	SchedulePrediction ScheduleType = "prediction"
	ScheduleFrequency  ScheduleType = "frequency"
)

// Live converts v into domain.ScheduleType.
func (v ScheduleType) Live() (domain.ScheduleType, error) {
	switch v {
	case ScheduleOrigin:
		return domain.ScheduleOrigin, nil
	case SchedulePrediction:
		return domain.SchedulePrediction, nil
	case ScheduleFrequency:
		return domain.ScheduleFrequency, nil
	}
	return "", domain.NewConversionError("ScheduleType", string(v))
}

func histScheduleType(v domain.ScheduleType) ScheduleType {
	switch v {
	case domain.ScheduleOrigin:
		return ScheduleOrigin
	case domain.SchedulePrediction:
		return SchedulePrediction
	case domain.ScheduleFrequency:
		return ScheduleFrequency
	}
	return ScheduleType(v)
}

// IssueCategory is the historical form of domain.IssueCategory.
type IssueCategory string

const (
	IssueStopIssue           IssueCategory = "stopissue"
	IssueStopImprovement     IssueCategory = "stopimprovement"
	IssueRouteImprovement    IssueCategory = "routeimprovement"
	IssueScheduleIssue       IssueCategory = "scheduleissue"
	IssueScheduleImprovement IssueCategory = "scheduleimprovement"
	IssueServiceImprovement  IssueCategory = "serviceimprovement"
	IssueGTFS                IssueCategory = "gtfs"
)

// Live converts v into domain.IssueCategory.
func (v IssueCategory) Live() (domain.IssueCategory, error) {
	switch v {
	case IssueStopIssue:
		return domain.IssueStopIssue, nil
	case IssueStopImprovement:
		return domain.IssueStopImprovement, nil
	case IssueRouteImprovement:
		return domain.IssueRouteImprovement, nil
	case IssueScheduleIssue:
		return domain.IssueScheduleIssue, nil
	case IssueScheduleImprovement:
		return domain.IssueScheduleImprovement, nil
	case IssueServiceImprovement:
		return domain.IssueServiceImprovement, nil
	case IssueGTFS:
		return domain.IssueGTFS, nil
	}
	return "", domain.NewConversionError("IssueCategory", string(v))
}

func histIssueCategory(v domain.IssueCategory) IssueCategory {
	return IssueCategory(v)
}

// IssueState is the historical form of domain.IssueState.
type IssueState string

const (
	IssueUnanswered    IssueState = "unanswered"
	IssueWontfix       IssueState = "wontfix"
	IssueFixInProgress IssueState = "fixinprogress"
	IssueFixDone       IssueState = "fixdone"
)

// Live converts v into domain.IssueState.
func (v IssueState) Live() (domain.IssueState, error) {
	switch v {
	case IssueUnanswered:
		return domain.IssueUnanswered, nil
	case IssueWontfix:
		return domain.IssueWontfix, nil
	case IssueFixInProgress:
		return domain.IssueFixInProgress, nil
	case IssueFixDone:
		return domain.IssueFixDone, nil
	}
	return "", domain.NewConversionError("IssueState", string(v))
}

func histIssueState(v domain.IssueState) IssueState {
	return IssueState(v)
}

// liveEnum is satisfied by every historical enum.
type liveEnum[L any] interface {
	Live() (L, error)
}

func livePtr[L any, H liveEnum[L]](h *H) (*L, error) {
	if h == nil {
		return nil, nil
	}
	l, err := (*h).Live()
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func histPtr[H, L any](l *L, conv func(L) H) *H {
	if l == nil {
		return nil
	}
	h := conv(*l)
	return &h
}
