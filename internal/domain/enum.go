package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Live enums reject values outside their declared variants wherever they are
// decoded. Errors match ErrValidation.

// Valid reports whether v is a declared ScheduleType variant.
func (v ScheduleType) Valid() bool {
	switch v {
	case ScheduleOrigin, SchedulePrediction, ScheduleFrequency:
		return true
	}
	return false
}

// Valid reports whether v is a declared IlluminationPos variant.
func (v IlluminationPos) Valid() bool {
	switch v {
	case IlluminationIndirect, IlluminationDirect, IlluminationOwn:
		return true
	}
	return false
}

// Valid reports whether v is a declared IlluminationStrength variant.
func (v IlluminationStrength) Valid() bool {
	switch v {
	case IlluminationNone, IlluminationLow, IlluminationMedium, IlluminationHigh:
		return true
	}
	return false
}

// Valid reports whether v is a declared AdvertisementQuantification variant.
func (v AdvertisementQuantification) Valid() bool {
	switch v {
	case AdvertisementNone, AdvertisementFew, AdvertisementMany, AdvertisementIntrusive:
		return true
	}
	return false
}

// Valid reports whether v is a declared ParkingVisualLimitation variant.
func (v ParkingVisualLimitation) Valid() bool {
	switch v {
	case ParkingVisualNone, ParkingVisualLittle, ParkingVisualSome, ParkingVisualVery:
		return true
	}
	return false
}

// Valid reports whether v is a declared LocalParkingLimitation variant.
func (v LocalParkingLimitation) Valid() bool {
	switch v {
	case LocalParkingNone, LocalParkingLow, LocalParkingMedium, LocalParkingHigh:
		return true
	}
	return false
}

// Valid reports whether v is a declared AreaParkingLimitation variant.
func (v AreaParkingLimitation) Valid() bool {
	switch v {
	case AreaParkingNone, AreaParkingLow, AreaParkingMedium, AreaParkingHigh:
		return true
	}
	return false
}

// Valid reports whether v is a declared IssueCategory variant.
func (v IssueCategory) Valid() bool {
	switch v {
	case IssueStopIssue, IssueStopImprovement, IssueRouteImprovement, IssueScheduleIssue,
		IssueScheduleImprovement, IssueServiceImprovement, IssueGTFS:
		return true
	}
	return false
}

// Valid reports whether v is a declared IssueState variant.
func (v IssueState) Valid() bool {
	switch v {
	case IssueUnanswered, IssueWontfix, IssueFixInProgress, IssueFixDone:
		return true
	}
	return false
}

// UnmarshalJSON rejects undeclared ScheduleType values with ErrValidation.
func (v *ScheduleType) UnmarshalJSON(data []byte) error {
	return decodeStringEnum(data, "ScheduleType", v)
}

// UnmarshalJSON rejects undeclared IlluminationPos values with ErrValidation.
func (v *IlluminationPos) UnmarshalJSON(data []byte) error {
	return decodeUint8Enum(data, "IlluminationPos", v)
}

// UnmarshalJSON rejects undeclared IlluminationStrength values with ErrValidation.
func (v *IlluminationStrength) UnmarshalJSON(data []byte) error {
	return decodeUint8Enum(data, "IlluminationStrength", v)
}

// UnmarshalJSON rejects undeclared AdvertisementQuantification values with ErrValidation.
func (v *AdvertisementQuantification) UnmarshalJSON(data []byte) error {
	return decodeUint8Enum(data, "AdvertisementQuantification", v)
}

// UnmarshalJSON rejects undeclared ParkingVisualLimitation values with ErrValidation.
func (v *ParkingVisualLimitation) UnmarshalJSON(data []byte) error {
	return decodeUint8Enum(data, "ParkingVisualLimitation", v)
}

// UnmarshalJSON rejects undeclared LocalParkingLimitation values with ErrValidation.
func (v *LocalParkingLimitation) UnmarshalJSON(data []byte) error {
	return decodeUint8Enum(data, "LocalParkingLimitation", v)
}

// UnmarshalJSON rejects undeclared AreaParkingLimitation values with ErrValidation.
func (v *AreaParkingLimitation) UnmarshalJSON(data []byte) error {
	return decodeUint8Enum(data, "AreaParkingLimitation", v)
}

// UnmarshalJSON rejects undeclared IssueCategory values with ErrValidation.
func (v *IssueCategory) UnmarshalJSON(data []byte) error {
	return decodeStringEnum(data, "IssueCategory", v)
}

// UnmarshalJSON rejects undeclared IssueState values with ErrValidation.
func (v *IssueState) UnmarshalJSON(data []byte) error {
	return decodeStringEnum(data, "IssueState", v)
}

type uint8Enum interface {
	~uint8
	Valid() bool
}

type stringEnum interface {
	~string
	Valid() bool
}

// decodeUint8Enum decodes through the underlying type so that dst's own
// UnmarshalJSON is not re-entered. A JSON null leaves dst untouched.
func decodeUint8Enum[T uint8Enum](data []byte, enum string, dst *T) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw uint8
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValidation, enum, err)
	}
	if !T(raw).Valid() {
		return fmt.Errorf("%w: unknown %s %d", ErrValidation, enum, raw)
	}
	*dst = T(raw)
	return nil
}

func decodeStringEnum[T stringEnum](data []byte, enum string, dst *T) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValidation, enum, err)
	}
	if !T(raw).Valid() {
		return fmt.Errorf("%w: unknown %s %q", ErrValidation, enum, raw)
	}
	*dst = T(raw)
	return nil
}

// Validate reports the first enum attribute holding an undeclared variant.
// Values decoded from JSON are already checked; this covers ones built in code.
func (a A11yMeta) Validate() error {
	if a.Schedules != nil {
		for _, s := range *a.Schedules {
			if !s.Type.Valid() {
				return fmt.Errorf("%w: unknown ScheduleType %q", ErrValidation, s.Type)
			}
		}
	}
	for _, err := range []error{
		checkEnum("AdvertisementQuantification", a.AdvertisementQty),
		checkEnum("IlluminationStrength", a.IlluminationStrength),
		checkEnum("IlluminationPos", a.IlluminationPosition),
		checkEnum("ParkingVisualLimitation", a.ParkingVisibilityImpairment),
		checkEnum("LocalParkingLimitation", a.ParkingLocalAccessImpairment),
		checkEnum("AreaParkingLimitation", a.ParkingAreaAccessImpairment),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func checkEnum[T interface{ Valid() bool }](enum string, p *T) error {
	if p == nil || (*p).Valid() {
		return nil
	}
	return fmt.Errorf("%w: unknown %s %v", ErrValidation, enum, *p)
}
