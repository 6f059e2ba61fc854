package repo_test

import (
	"context"
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

func contributionFixture(author uuid.UUID) history.Contribution {
	s := stopFixture()
	s.ID = 7
	return history.Contribution{
		AuthorID: author,
		Changes: history.Changeset{history.StopUpdate{
			Original: history.SnapshotStop(s),
			Patch:    history.StopPatch{Notes: history.Set("shelter glass broken")},
		}},
		Comment: ptr("seen today"),
	}
}

// ---- Create / Get ----------------------------------------------------------

func TestContributionRepo_Create(t *testing.T) {
	r := repo.NewContributionRepo(testutil.NewTx(t))
	author := uuid.New()

	got, err := r.Create(context.Background(), contributionFixture(author))

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, author, got.AuthorID)
	assert.True(t, got.IsPending())
	assert.Nil(t, got.EvaluatorID)
	assert.False(t, got.SubmissionDate.IsZero())
	require.Len(t, got.Changes, 1)
	u, ok := got.Changes[0].(history.StopUpdate)
	require.True(t, ok)
	assert.Equal(t, []string{"notes"}, u.Patch.FieldNames())
}

func TestContributionRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewContributionRepo(testutil.NewTx(t))

	_, err := r.GetByID(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- MarkDecided -----------------------------------------------------------

func TestContributionRepo_MarkDecided(t *testing.T) {
	r := repo.NewContributionRepo(testutil.NewTx(t))
	ctx := context.Background()
	c, err := r.Create(ctx, contributionFixture(uuid.New()))
	require.NoError(t, err)
	evaluator := uuid.New()
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	err = r.MarkDecided(ctx, c.ID, true, evaluator, at)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, history.StatusAccepted, got.Status())
	assert.Equal(t, &evaluator, got.EvaluatorID)
	require.NotNil(t, got.EvaluationDate)
	assert.True(t, got.EvaluationDate.Equal(at))
}

func TestContributionRepo_MarkDecided_Twice(t *testing.T) {
	r := repo.NewContributionRepo(testutil.NewTx(t))
	ctx := context.Background()
	c, err := r.Create(ctx, contributionFixture(uuid.New()))
	require.NoError(t, err)
	require.NoError(t, r.MarkDecided(ctx, c.ID, false, uuid.New(), time.Now()))

	err = r.MarkDecided(ctx, c.ID, true, uuid.New(), time.Now())

	assert.True(t, errors.Is(err, domain.ErrDependenciesNotMet))
	got, _ := r.GetByID(ctx, c.ID)
	assert.Equal(t, history.StatusDeclined, got.Status(), "first decision must stand")
}

// ---- Listings --------------------------------------------------------------

func TestContributionRepo_Listings(t *testing.T) {
	r := repo.NewContributionRepo(testutil.NewTx(t))
	ctx := context.Background()
	author := uuid.New()

	var ids []int64
	for range 3 {
		c, err := r.Create(ctx, contributionFixture(author))
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	_, err := r.Create(ctx, contributionFixture(uuid.New()))
	require.NoError(t, err)
	require.NoError(t, r.MarkDecided(ctx, ids[0], true, uuid.New(), time.Now()))

	page := domain.NewPaginationParams(nil, nil)

	t.Run("undecided by author", func(t *testing.T) {
		got, total, err := r.ListByAuthor(ctx, author, false, page)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, ids[2], got[0].ID, "newest first")
	})

	t.Run("decided by author", func(t *testing.T) {
		got, total, err := r.ListByAuthor(ctx, author, true, page)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, ids[0], got[0].ID)
	})

	t.Run("pending by author oldest first", func(t *testing.T) {
		got, err := r.ListPendingByAuthor(ctx, author)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[1], got[0].ID)
	})

	t.Run("undecided paged", func(t *testing.T) {
		limit := 1
		got, total, err := r.ListUndecided(ctx, domain.NewPaginationParams(nil, &limit))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(3))
		assert.Len(t, got, 1)
	})
}
