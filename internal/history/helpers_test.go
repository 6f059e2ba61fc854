package history_test

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/intermodalpt/catalogue/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func date(s string) *openapi_types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &openapi_types.Date{Time: t}
}

// sampleStop is a fully populated stop used as the current state in tests.
func sampleStop() domain.Stop {
	return domain.Stop{
		ID:        42,
		Name:      "Original",
		ShortName: ptr("Orig"),
		Locality:  ptr("Almada"),
		Street:    ptr("Barstreet"),
		Door:      ptr("12"),
		Lat:       38.6791,
		Lon:       -9.1567,
		Notes:     ptr("near the kiosk"),
		Tags:      []string{"kiosk", "school"},
		A11y: domain.A11yMeta{
			Schedules: &[]domain.Schedule{
				{Code: ptr("3001"), Type: domain.ScheduleOrigin},
			},
			Flags: &[]domain.Flag{
				{ID: "F1", Name: ptr("Praça"), RouteCodes: []string{"3001", "3002"}},
			},
			HasSidewalk:          ptr(true),
			HasShelter:           ptr(false),
			HasCrossing:          ptr(true),
			AdvertisementQty:     ptr(domain.AdvertisementFew),
			IlluminationStrength: ptr(domain.IlluminationMedium),
			IlluminationPosition: ptr(domain.IlluminationDirect),
			TmpIssues:            []string{"broken bench"},
		},
		VerificationLevel: domain.FullyVerified().Pack(),
		ServiceCheckDate:  date("2024-03-01"),
		License:           "CC0",
		IsGhost:           false,
	}
}
