package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/repo"
	"github.com/intermodalpt/catalogue/testutil"
)

func ptr[T any](v T) *T { return &v }

// stopFixture returns a Stop ready for insertion.
func stopFixture() domain.Stop {
	return domain.Stop{
		Name:     "Praça do Comércio",
		Street:   ptr("Praça do Comércio"),
		Locality: ptr("Lisboa"),
		Lat:      38.7075,
		Lon:      -9.1364,
		Tags:     []string{"Baixa", "tram"},
		A11y: domain.A11yMeta{
			HasShelter:           ptr(true),
			IlluminationStrength: ptr(domain.IlluminationMedium),
			Flags:                &[]domain.Flag{{ID: "F1", RouteCodes: []string{"15E"}}},
		},
		VerificationLevel: domain.FullyVerified().Pack(),
		ServiceCheckDate:  &openapi_types.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		License:           "CC0",
	}
}

func mustCreateStop(t *testing.T, r repo.StopRepo) domain.Stop {
	t.Helper()
	s, err := r.Create(context.Background(), stopFixture())
	require.NoError(t, err, "create stop")
	return s
}

// ---- Create / Get ----------------------------------------------------------

func TestStopRepo_Create(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))
	input := stopFixture()

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotZero(t, got.ID, "ID should be DB-generated")
	input.ID = got.ID
	assert.Equal(t, input, got)
}

func TestStopRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))

	_, err := r.GetByID(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStopRepo_GetForUpdate(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))
	created := mustCreateStop(t, r)

	got, err := r.GetForUpdate(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestStopRepo_ListByIDs(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))
	a := mustCreateStop(t, r)
	b := mustCreateStop(t, r)

	got, err := r.ListByIDs(context.Background(), []int32{a.ID, b.ID, -5})

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, a, got[a.ID])
}

func TestStopRepo_ListByIDs_Empty(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))

	got, err := r.ListByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

// ---- Update ----------------------------------------------------------------

func TestStopRepo_Update(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))
	s := mustCreateStop(t, r)
	s.Name = "Terreiro do Paço"
	s.Street = nil
	s.A11y.HasShelter = ptr(false)
	s.VerificationLevel = 0
	s.ServiceCheckDate = nil

	got, err := r.Update(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestStopRepo_Update_NotFound(t *testing.T) {
	r := repo.NewStopRepo(testutil.NewTx(t))
	s := stopFixture()
	s.ID = -1

	_, err := r.Update(context.Background(), s)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
