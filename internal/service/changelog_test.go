package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/service"
)

func TestChangelogService_Export_OneRowPerChange(t *testing.T) {
	author := uuid.New()
	patch := history.StopPatch{Name: ptr("Rato"), Notes: history.Set("exit 2")}
	changelog := &memChangelog{entries: []history.AuditEntry{
		{
			ID:       1,
			AuthorID: author,
			Datetime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Address:  "192.0.2.1",
			Changes: history.Changeset{
				history.StopUpdate{Original: history.SnapshotStop(liveStop()), Patch: patch},
				history.RouteDeletion{Data: domain.Route{ID: 8}},
			},
			ContributionID: ptr(int64(4)),
		},
	}}
	svc := service.NewChangelogService(changelog)

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.ChangelogExportRow{
		EntryID:        1,
		AuthorID:       author.String(),
		Datetime:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Address:        "192.0.2.1",
		ContributionID: ptr(int64(4)),
		Position:       0,
		Kind:           "StopUpdate",
		EntityID:       42,
		Fields:         []string{"name", "notes"},
	}, rows[0])
	assert.Equal(t, 1, rows[1].Position)
	assert.Equal(t, "RouteDeletion", rows[1].Kind)
	assert.Equal(t, int32(8), rows[1].EntityID)
	assert.Empty(t, rows[1].Fields)
}

func TestChangelogService_Export_Empty(t *testing.T) {
	rows, err := service.NewChangelogService(&memChangelog{}).Export(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestChangelogService_List(t *testing.T) {
	changelog := &memChangelog{entries: make([]history.AuditEntry, 3)}
	limit := 2

	page, err := service.NewChangelogService(changelog).List(context.Background(), domain.NewPaginationParams(nil, &limit))

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}
