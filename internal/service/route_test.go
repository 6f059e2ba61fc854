package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/repo"
	"github.com/intermodalpt/catalogue/internal/service"
)

func newRouteService(route domain.Route) (*service.RouteService, *memChangelog, *[]domain.Route) {
	changelog := &memChangelog{}
	var updates []domain.Route
	routes := &mockRouteRepo{
		getForUpdate: func(_ context.Context, id int32) (domain.Route, error) {
			if id != route.ID {
				return domain.Route{}, domain.ErrNotFound
			}
			return route, nil
		},
		update: func(_ context.Context, r domain.Route) (domain.Route, error) {
			updates = append(updates, r)
			return r, nil
		},
	}
	tx := &mockTransactor{repos: repo.Repos{Routes: routes, Changelog: changelog}}
	return service.NewRouteService(tx), changelog, &updates
}

func sampleRoute() domain.Route {
	return domain.Route{ID: 3, TypeID: 1, OperatorID: 1, Code: ptr("758"), Name: "Cais do Sodré - Portas de Benfica", Active: true}
}

func TestRouteService_Patch_OK(t *testing.T) {
	route := sampleRoute()
	svc, changelog, updates := newRouteService(route)
	proposed := route
	proposed.Active = false
	proposed.ID = 999

	got, err := svc.Patch(context.Background(), operator(), route.ID, proposed)

	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, route.ID, got.ID, "id comes from the path")
	require.Len(t, *updates, 1)
	require.Len(t, changelog.entries, 1)
	logged := changelog.entries[0].Changes[0].(history.RouteUpdate)
	assert.Equal(t, []string{"active"}, logged.Patch.FieldNames())
	assert.JSONEq(t, `{"active":false}`, string(changelog.entries[0].Deltas[0]))
}

func TestRouteService_Patch_NoChange(t *testing.T) {
	route := sampleRoute()
	svc, changelog, updates := newRouteService(route)

	got, err := svc.Patch(context.Background(), operator(), route.ID, route)

	require.NoError(t, err)
	assert.Equal(t, route, got)
	assert.Empty(t, *updates)
	assert.Empty(t, changelog.entries)
}

func TestRouteService_Patch_MissingName(t *testing.T) {
	route := sampleRoute()
	svc, _, _ := newRouteService(route)
	route.Name = ""

	_, err := svc.Patch(context.Background(), operator(), route.ID, route)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRouteService_Patch_NotFound(t *testing.T) {
	svc, _, _ := newRouteService(sampleRoute())

	_, err := svc.Patch(context.Background(), operator(), 4, sampleRoute())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
