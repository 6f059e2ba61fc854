package history_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

// Each case runs DropNoops twice: the remaining fields must be want, and the
// second pass must change nothing.

func TestSubroutePatch_DropNoops(t *testing.T) {
	current := domain.Subroute{
		ID: 7, Group: 1, Flag: "Cacilhas", Headsign: "Cacilhas",
		Via:      []domain.SubrouteVia{{Name: "Almada"}},
		Circular: false,
	}
	tests := []struct {
		name  string
		patch history.SubroutePatch
		want  []string
	}{
		{
			name:  "matching values are cleared",
			patch: history.SubroutePatch{Group: ptr(int32(1)), Headsign: ptr("Cacilhas"), Via: &[]domain.SubrouteVia{{Name: "Almada"}}},
			want:  nil,
		},
		{
			name:  "null polyline against nil is cleared",
			patch: history.SubroutePatch{Polyline: history.Null[string](), Flag: ptr("Seixal")},
			want:  []string{"flag"},
		},
		{
			name:  "setting a polyline is kept",
			patch: history.SubroutePatch{Polyline: history.Set("_p~iF~ps|U"), Circular: ptr(false)},
			want:  []string{"polyline"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := tt.patch
			patch.DropNoops(current)
			once := patch
			patch.DropNoops(current)

			assert.Equal(t, tt.want, patch.FieldNames())
			assert.Equal(t, once, patch)
		})
	}
}

func TestDeparturePatch_DropNoops(t *testing.T) {
	current := domain.Departure{ID: 3, SubrouteID: 7, Time: 480, CalendarID: 2}
	tests := []struct {
		name  string
		patch history.DeparturePatch
		want  []string
	}{
		{"matching values are cleared", history.DeparturePatch{Time: ptr(int16(480)), CalendarID: ptr(int32(2))}, nil},
		{"changes are kept", history.DeparturePatch{Time: ptr(int16(495)), SubrouteID: ptr(int32(7))}, []string{"time"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := tt.patch
			patch.DropNoops(current)
			once := patch
			patch.DropNoops(current)

			assert.Equal(t, tt.want, patch.FieldNames())
			assert.Equal(t, once, patch)
		})
	}
}

func TestAbnormalityPatch_DropNoops(t *testing.T) {
	from := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	current := domain.Abnormality{
		ID: 1, Summary: "Detour", Message: "Works on the avenue",
		FromDatetime: &from, Content: json.RawMessage(`{"v":1}`),
	}
	tests := []struct {
		name  string
		patch history.AbnormalityPatch
		want  []string
	}{
		{
			name: "matching values are cleared",
			patch: history.AbnormalityPatch{
				Summary:      ptr("Detour"),
				FromDatetime: history.Set(from.In(time.FixedZone("WEST", 3600))),
				Content:      ptr(json.RawMessage(`{"v":1}`)),
			},
			want: nil,
		},
		{
			name:  "null against nil is cleared",
			patch: history.AbnormalityPatch{ToDatetime: history.Null[time.Time](), MarkResolved: ptr(true)},
			want:  []string{"mark_resolved"},
		},
		{
			name:  "clearing a set time is kept",
			patch: history.AbnormalityPatch{FromDatetime: history.Null[time.Time]()},
			want:  []string{"from_datetime"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := tt.patch
			patch.DropNoops(current)
			once := patch
			patch.DropNoops(current)

			assert.Equal(t, tt.want, patch.FieldNames())
			assert.Equal(t, once, patch)
		})
	}
}

func TestStopPicturePatch_DropNoops(t *testing.T) {
	current := domain.StopPicDynMeta{
		Public: true, Lat: ptr(38.7), Lon: ptr(-9.1), Quality: 80,
		Tags: []string{"shelter"},
	}
	tests := []struct {
		name  string
		patch history.StopPicturePatch
		want  []string
	}{
		{
			name:  "matching values are cleared",
			patch: history.StopPicturePatch{Public: ptr(true), Lat: history.Set(38.7), Tags: &[]string{"shelter"}},
			want:  nil,
		},
		{
			name:  "null notes against nil are cleared",
			patch: history.StopPicturePatch{Notes: history.Null[string](), Quality: ptr(int16(90))},
			want:  []string{"quality"},
		},
		{
			name:  "clearing a set coordinate is kept",
			patch: history.StopPicturePatch{Lon: history.Null[float64](), Sensitive: ptr(false)},
			want:  []string{"lon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := tt.patch
			patch.DropNoops(current)
			once := patch
			patch.DropNoops(current)

			assert.Equal(t, tt.want, patch.FieldNames())
			assert.Equal(t, once, patch)
		})
	}
}

func TestSubroutePatch_ExclusionComposesWithNoops(t *testing.T) {
	current := domain.Subroute{ID: 7, Headsign: "Cacilhas"}
	patch := history.SubroutePatch{Headsign: ptr("Cacilhas"), Destination: ptr("Seixal"), Origin: ptr("Almada")}

	patch.DropFields(history.NewFieldSet("origin"))
	patch.DropNoops(current)

	assert.Equal(t, []string{"destination"}, patch.FieldNames())
}
