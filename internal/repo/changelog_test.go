package repo_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/repo"
	"github.com/intermodalpt/catalogue/testutil"
)

func entryFixture(stopID int32) history.AuditEntry {
	s := stopFixture()
	s.ID = stopID
	return history.AuditEntry{
		AuthorID: uuid.New(),
		Changes: history.Changeset{history.StopUpdate{
			Original: history.SnapshotStop(s),
			Patch:    history.StopPatch{Name: ptr("Terreiro do Paço")},
		}},
		Datetime: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
		Address:  "198.51.100.7",
		StopIDs:  []int32{stopID},
		Deltas:   []json.RawMessage{json.RawMessage(`{"name":"Terreiro do Paço"}`)},
	}
}

func TestChangelogRepo_InsertAndListByStop(t *testing.T) {
	r := repo.NewChangelogRepo(testutil.NewTx(t))
	ctx := context.Background()

	first, err := r.Insert(ctx, entryFixture(901))
	require.NoError(t, err)
	_, err = r.Insert(ctx, entryFixture(902))
	require.NoError(t, err)
	third, err := r.Insert(ctx, entryFixture(901))
	require.NoError(t, err)

	got, err := r.ListByStop(ctx, 901)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0].ID)
	assert.Equal(t, third, got[1].ID)
	assert.Equal(t, "198.51.100.7", got[0].Address)
	assert.Equal(t, []int32{901}, got[0].StopIDs)
	assert.JSONEq(t, `{"name":"Terreiro do Paço"}`, string(got[0].Deltas[0]))
	assert.True(t, got[0].Datetime.Equal(time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)))
	require.Len(t, got[0].Changes, 1)
	assert.Equal(t, "StopUpdate", got[0].Changes[0].Kind())
}

func TestChangelogRepo_List_NewestFirst(t *testing.T) {
	r := repo.NewChangelogRepo(testutil.NewTx(t))
	ctx := context.Background()
	var last int64
	for range 3 {
		id, err := r.Insert(ctx, entryFixture(903))
		require.NoError(t, err)
		last = id
	}
	limit := 2

	got, total, err := r.List(ctx, domain.NewPaginationParams(nil, &limit))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(3))
	require.Len(t, got, 2)
	assert.Equal(t, last, got[0].ID)
}

func TestChangelogRepo_NullDeltaSurvives(t *testing.T) {
	r := repo.NewChangelogRepo(testutil.NewTx(t))
	ctx := context.Background()
	e := entryFixture(904)
	e.Changes = history.Changeset{history.StopCreation{Data: e.Changes[0].(history.StopUpdate).Original}}
	e.Deltas = []json.RawMessage{nil}

	_, err := r.Insert(ctx, e)
	require.NoError(t, err)

	got, err := r.ListByStop(ctx, 904)
	require.NoError(t, err)
	require.Len(t, got[0].Deltas, 1)
	assert.Equal(t, "null", string(got[0].Deltas[0]))
}

// ---- Transactor ------------------------------------------------------------

func TestTransactor_RollsBackOnError(t *testing.T) {
	tx := testutil.NewTx(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.NewTransactor(tx).WithinTx(ctx, func(r repo.Repos) error {
		if _, err := r.Changelog.Insert(ctx, entryFixture(905)); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	got, err := repo.NewChangelogRepo(tx).ListByStop(ctx, 905)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransactor_Commits(t *testing.T) {
	tx := testutil.NewTx(t)
	ctx := context.Background()

	err := repo.NewTransactor(tx).WithinTx(ctx, func(r repo.Repos) error {
		_, err := r.Changelog.Insert(ctx, entryFixture(906))
		return err
	})

	require.NoError(t, err)
	got, err := repo.NewChangelogRepo(tx).ListByStop(ctx, 906)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
