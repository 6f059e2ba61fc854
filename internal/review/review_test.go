package review

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

func ptr[T any](v T) *T { return &v }

func fixedRenderer(now time.Time) *Renderer {
	r := NewRenderer()
	r.now = func() time.Time { return now }
	return r
}

func stop() domain.Stop {
	return domain.Stop{ID: 8, Name: "Rua Augusta", Street: ptr("Rua Augusta"), Lat: 38.7100, Lon: -9.1370, License: "CC0"}
}

func TestRender_StopUpdate(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	original := stop()
	patch := history.StopPatch{Name: ptr("Rua Augusta (Arco)"), Lat: ptr(38.7190)}
	c := history.Contribution{
		ID:             5,
		AuthorID:       uuid.New(),
		SubmissionDate: now.Add(-72 * time.Hour),
		Changes:        history.Changeset{history.StopUpdate{Original: history.SnapshotStop(original), Patch: patch}},
	}
	live := original
	live.Name = "Augusta"

	rv, err := fixedRenderer(now).Render(c, map[int32]domain.Stop{8: live})

	require.NoError(t, err)
	assert.Equal(t, history.StatusPending, rv.Status)
	assert.Equal(t, "3 days ago", rv.SubmittedAgo)
	require.Len(t, rv.Changes, 1)
	ch := rv.Changes[0]
	assert.Equal(t, "StopUpdate", ch.Kind)
	assert.Equal(t, int32(8), ch.EntityID)
	assert.Equal(t, []string{"name"}, ch.Stale)
	assert.False(t, ch.Missing)

	require.Len(t, ch.Fields, 2)
	name := ch.Fields[0]
	assert.Equal(t, "name", name.Field)
	assert.Equal(t, []Edit{{Op: "=", Text: "Rua Augusta"}, {Op: "+", Text: " (Arco)"}}, name.Edits)
	assert.JSONEq(t, `38.719`, string(ch.Fields[1].After))
	assert.Empty(t, ch.Fields[1].Edits)

	require.NotNil(t, ch.Displacement)
	assert.InDelta(t, 1000.8, ch.Displacement.Meters, 5)
	assert.True(t, strings.HasSuffix(ch.Displacement.Human, " km"))
}

func TestRender_MissingStop(t *testing.T) {
	c := history.Contribution{
		Changes: history.Changeset{history.StopUpdate{
			Original: history.SnapshotStop(stop()),
			Patch:    history.StopPatch{Notes: history.Set("bench missing")},
		}},
	}

	rv, err := NewRenderer().Render(c, nil)

	require.NoError(t, err)
	assert.True(t, rv.Changes[0].Missing)
	assert.Nil(t, rv.Changes[0].Displacement)
}

func TestRender_CreationHasNoFields(t *testing.T) {
	c := history.Contribution{Changes: history.Changeset{history.RouteCreation{Data: domain.Route{ID: 3}}}}

	rv, err := NewRenderer().Render(c, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(3), rv.Changes[0].EntityID)
	assert.Empty(t, rv.Changes[0].Fields)
}

func TestHumanDistance(t *testing.T) {
	assert.Equal(t, "12.5 m", HumanDistance(12.46))
	assert.Equal(t, "1.5 km", HumanDistance(1500))
}

func TestFieldDiff_Pretty(t *testing.T) {
	fd := FieldDiff{Before: []byte(`1`), After: []byte(`2`)}
	assert.Equal(t, "1 -> 2", fd.Pretty())

	text := FieldDiff{Edits: []Edit{{Op: "=", Text: "ab"}, {Op: "+", Text: "c"}}}
	assert.Contains(t, text.Pretty(), "ab")
	assert.Contains(t, text.Pretty(), "c")
}
