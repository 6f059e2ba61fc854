package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/intermodalpt/catalogue/internal/audit"
	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/repo"
)

// RouteService implements trusted route edits.
type RouteService struct {
	tx       repo.Transactor
	recorder *audit.Recorder
}

// NewRouteService constructs a RouteService.
func NewRouteService(tx repo.Transactor) *RouteService {
	return &RouteService{tx: tx, recorder: audit.NewRecorder()}
}

// Patch brings route id to the proposed state and logs a RouteUpdate.
// The ID of proposed is ignored. A proposal that changes nothing returns the
// route untouched.
func (s *RouteService) Patch(ctx context.Context, actor domain.Actor, id int32, proposed domain.Route) (domain.Route, error) {
	if strings.TrimSpace(proposed.Name) == "" {
		return domain.Route{}, fmt.Errorf("service.RouteService.Patch: %w: name is required", domain.ErrValidation)
	}

	var result domain.Route
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		current, err := r.Routes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		proposed.ID = current.ID
		patch := history.DeriveRoutePatch(proposed, current)
		if patch.IsEmpty() {
			result = current
			return nil
		}
		next := current
		patch.Apply(&next)
		if result, err = r.Routes.Update(ctx, next); err != nil {
			return err
		}
		_, err = s.recorder.Append(ctx, r.Changelog, actor, history.Changeset{
			history.RouteUpdate{Original: current, Patch: patch},
		}, nil)
		return err
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Patch: %w", err)
	}
	return result, nil
}
