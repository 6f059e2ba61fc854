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

// StopService implements trusted, unmoderated stop edits. Every mutation is
// logged in the same transaction that performs it.
type StopService struct {
	stops     repo.StopRepo
	changelog repo.ChangelogRepo
	tx        repo.Transactor
	recorder  *audit.Recorder
}

// NewStopService constructs a StopService.
func NewStopService(stops repo.StopRepo, changelog repo.ChangelogRepo, tx repo.Transactor) *StopService {
	return &StopService{stops: stops, changelog: changelog, tx: tx, recorder: audit.NewRecorder()}
}

// Get returns a single stop by ID.
func (s *StopService) Get(ctx context.Context, id int32) (domain.Stop, error) {
	stop, err := s.stops.GetByID(ctx, id)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Get: %w", err)
	}
	return stop, nil
}

// Create validates and persists a new stop. New stops start with every
// verification axis NotVerified regardless of the proposal.
func (s *StopService) Create(ctx context.Context, actor domain.Actor, proposal history.StopProposal) (domain.Stop, error) {
	if strings.TrimSpace(proposal.Name) == "" {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w: name is required", domain.ErrValidation)
	}
	if err := proposal.A11y.Validate(); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	license := proposal.License
	if license == "" {
		license = "?"
	}
	stop := domain.Stop{
		Name:                    strings.TrimSpace(proposal.Name),
		ShortName:               proposal.ShortName,
		Locality:                proposal.Locality,
		Street:                  proposal.Street,
		Door:                    proposal.Door,
		Lat:                     proposal.Lat,
		Lon:                     proposal.Lon,
		Notes:                   proposal.Notes,
		Tags:                    proposal.Tags,
		A11y:                    proposal.A11y,
		VerificationLevel:       domain.Unverified().Pack(),
		ServiceCheckDate:        proposal.ServiceCheckDate,
		InfrastructureCheckDate: proposal.InfrastructureCheckDate,
		License:                 license,
		IsGhost:                 proposal.IsGhost,
	}

	var created domain.Stop
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Stops.Create(ctx, stop)
		if err != nil {
			return err
		}
		_, err = s.recorder.Append(ctx, r.Changelog, actor, history.Changeset{
			history.StopCreation{Data: history.SnapshotStop(created)},
		}, nil)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return created, nil
}

// Patch brings stop id to the proposed state.
//
// The patch is derived against the locked live row. A proposal that changes
// nothing returns the stop untouched and logs nothing. Unless the proposal
// sets the verification level itself, the cascade downgrades the axes the
// edit invalidates.
func (s *StopService) Patch(ctx context.Context, actor domain.Actor, id int32, proposal history.StopProposal) (domain.Stop, error) {
	if err := proposal.A11y.Validate(); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Patch: %w", err)
	}
	var result domain.Stop
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		current, err := r.Stops.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		patch := history.DeriveStopPatch(proposal, current)
		if patch.IsEmpty() {
			result = current
			return nil
		}
		if patch.VerificationLevel == nil {
			patch.Deverify(current.Verification())
		}

		next := current
		if err := patch.Apply(&next); err != nil {
			return err
		}
		result, err = r.Stops.Update(ctx, next)
		if err != nil {
			return err
		}
		_, err = s.recorder.Append(ctx, r.Changelog, actor, history.Changeset{
			history.StopUpdate{Original: history.SnapshotStop(current), Patch: patch},
		}, nil)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Patch: %w", err)
	}
	return result, nil
}

// History replays the changelog of a stop into its revisions, oldest first.
// A stop with no changelog entries yields an empty history if it exists and
// domain.ErrNotFound otherwise.
func (s *StopService) History(ctx context.Context, id int32) ([]audit.Revision, error) {
	entries, err := s.changelog.ListByStop(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.History: %w", err)
	}
	revs, err := audit.ReplayStop(entries, id)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.History: %w", err)
	}
	if len(revs) > 0 {
		return revs, nil
	}
	if _, err := s.stops.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("service.StopService.History: %w", err)
	}
	return []audit.Revision{}, nil
}
