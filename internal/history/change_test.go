package history_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

// ---- Tagged encoding -------------------------------------------------------

func TestMarshalChange_ExternallyTagged(t *testing.T) {
	change := history.StopUpdate{
		Original: history.SnapshotStop(sampleStop()),
		Patch:    history.StopPatch{Name: ptr("New name")},
	}

	out, err := history.MarshalChange(change)
	require.NoError(t, err)

	var tagged map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &tagged))
	require.Contains(t, tagged, "StopUpdate")
	assert.JSONEq(t, `{"name":"New name"}`, string(tagged["StopUpdate"]["patch"]))
}

func TestChangeset_JSONRoundTrip(t *testing.T) {
	route := domain.Route{ID: 7, Name: "Cacilhas - Trafaria", Active: true}
	cs := history.Changeset{
		history.StopUpdate{
			Original: history.SnapshotStop(sampleStop()),
			Patch:    history.StopPatch{Street: history.Null[string]()},
		},
		history.RouteUpdate{Original: route, Patch: history.RoutePatch{Code: history.Set("124")}},
		history.DepartureDeletion{Data: domain.Departure{ID: 3, SubrouteID: 9, Time: 480}},
	}

	out, err := json.Marshal(cs)
	require.NoError(t, err)

	var got history.Changeset
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got, 3)

	update, ok := got[0].(history.StopUpdate)
	require.True(t, ok, "got %T", got[0])
	assert.True(t, update.Patch.Street.IsNull())
	assert.Equal(t, []string{"street"}, update.Patch.FieldNames())
	if diff := cmp.Diff(history.SnapshotStop(sampleStop()), update.Original); diff != "" {
		t.Errorf("original mismatch (-want +got):\n%s", diff)
	}

	routeUpdate, ok := got[1].(history.RouteUpdate)
	require.True(t, ok, "got %T", got[1])
	assert.Equal(t, route, routeUpdate.Original)
	code, _ := routeUpdate.Patch.Code.Get()
	assert.Equal(t, "124", code)

	assert.Equal(t, history.DepartureDeletion{Data: domain.Departure{ID: 3, SubrouteID: 9, Time: 480}}, got[2])
}

func TestUnmarshalChange_UnknownKind(t *testing.T) {
	_, err := history.UnmarshalChange([]byte(`{"StopTeleport":{}}`))

	assert.ErrorContains(t, err, "unknown change kind")
}

func TestUnmarshalChange_MultipleKinds(t *testing.T) {
	_, err := history.UnmarshalChange([]byte(`{"StopCreation":{},"StopDeletion":{}}`))

	assert.Error(t, err)
}

func TestUnmarshalChange_SubrouteDeletionLegacyData(t *testing.T) {
	c, err := history.UnmarshalChange([]byte(`{"SubrouteDeletion":{"data":{"id":5,"route_id":2,"flag":"A"}}}`))
	require.NoError(t, err)

	del, ok := c.(history.SubrouteDeletion)
	require.True(t, ok)
	assert.Equal(t, int32(5), del.Subroute.ID)
	assert.Equal(t, "A", del.Subroute.Flag)
	assert.Nil(t, del.Stops)
	assert.Nil(t, del.Departures)
}

// ---- Validation ------------------------------------------------------------

func TestChangeset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cs      history.Changeset
		wantErr bool
	}{
		{name: "empty", cs: history.Changeset{}, wantErr: true},
		{name: "empty patch", cs: history.Changeset{history.StopUpdate{}}, wantErr: true},
		{name: "nil change", cs: history.Changeset{nil}, wantErr: true},
		{name: "update", cs: history.Changeset{history.StopUpdate{Patch: history.StopPatch{Name: ptr("x")}}}},
		{name: "creation", cs: history.Changeset{history.StopCreation{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cs.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ---- Helpers ---------------------------------------------------------------

func TestChangeset_StopIDs(t *testing.T) {
	cs := history.Changeset{
		history.StopUpdate{Original: history.Stop{ID: 9}},
		history.StopCreation{Data: history.Stop{ID: 3}},
		history.StopPicUpload{Stops: []domain.StopAttrs{{ID: 9}, {ID: 4}}},
		history.RouteDeletion{Data: domain.Route{ID: 100}},
	}

	assert.Equal(t, []int32{3, 4, 9}, cs.StopIDs())
}

func TestPatchedFields(t *testing.T) {
	names, isUpdate := history.PatchedFields(history.IssueUpdate{
		Patch: history.IssuePatch{Title: ptr("t"), Lat: history.Null[float64]()},
	})
	assert.True(t, isUpdate)
	assert.Equal(t, []string{"title", "lat"}, names)

	_, isUpdate = history.PatchedFields(history.StopDeletion{})
	assert.False(t, isUpdate)
}
