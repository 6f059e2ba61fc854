// Package service contains the business logic of the catalogue.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/intermodalpt/catalogue/internal/audit"
	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/repo"
	"github.com/intermodalpt/catalogue/internal/review"
)

// ContributionService runs the moderated contribution pipeline: submission,
// evaluation, and the reads moderators and contributors need around it.
type ContributionService struct {
	contributions repo.ContributionRepo
	stops         repo.StopRepo
	tx            repo.Transactor
	recorder      *audit.Recorder
	reviews       *review.Renderer
	log           *slog.Logger
	now           func() time.Time
}

// NewContributionService constructs a ContributionService. Reads go through
// contributions and stops; every decision runs inside tx.
func NewContributionService(contributions repo.ContributionRepo, stops repo.StopRepo, tx repo.Transactor, log *slog.Logger) *ContributionService {
	return &ContributionService{
		contributions: contributions,
		stops:         stops,
		tx:            tx,
		recorder:      audit.NewRecorder(),
		reviews:       review.NewRenderer(),
		log:           log,
		now:           time.Now,
	}
}

// Submit stores changes as a pending contribution by author.
// Only the shape of the changeset is checked here; whether it still applies
// is decided on acceptance.
func (s *ContributionService) Submit(ctx context.Context, author uuid.UUID, changes history.Changeset, comment *string) (history.Contribution, error) {
	if err := changes.Validate(); err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Submit: %w", err)
	}
	c, err := s.contributions.Create(ctx, history.Contribution{AuthorID: author, Changes: changes, Comment: comment})
	if err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Submit: %w", err)
	}
	return c, nil
}

// SubmitStopMeta derives a patch from a contributor's proposal against the
// current state of the stop and submits it as a single StopUpdate.
func (s *ContributionService) SubmitStopMeta(ctx context.Context, author uuid.UUID, stopID int32, proposal history.StopMetaProposal, comment *string) (history.Contribution, error) {
	if err := proposal.A11y.Validate(); err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.SubmitStopMeta: %w", err)
	}
	stop, err := s.stops.GetByID(ctx, stopID)
	if err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.SubmitStopMeta: %w", err)
	}
	patch := history.DeriveStopMetaPatch(proposal, stop)
	if patch.IsEmpty() {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.SubmitStopMeta: %w: proposal changes nothing", domain.ErrValidation)
	}
	changes := history.Changeset{history.StopUpdate{Original: history.SnapshotStop(stop), Patch: patch}}
	return s.Submit(ctx, author, changes, comment)
}

// Get returns a contribution by id.
func (s *ContributionService) Get(ctx context.Context, id int64) (history.Contribution, error) {
	c, err := s.contributions.GetByID(ctx, id)
	if err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Get: %w", err)
	}
	return c, nil
}

// ListByAuthor returns one page of the author's decided or undecided contributions.
func (s *ContributionService) ListByAuthor(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) (domain.Page[history.Contribution], error) {
	items, total, err := s.contributions.ListByAuthor(ctx, author, decided, p)
	if err != nil {
		return domain.Page[history.Contribution]{}, fmt.Errorf("service.ContributionService.ListByAuthor: %w", err)
	}
	return domain.NewPage(items, total, p), nil
}

// ListUndecided returns one page of the moderation queue, oldest first.
func (s *ContributionService) ListUndecided(ctx context.Context, p domain.PaginationParams) (domain.Page[history.Contribution], error) {
	items, total, err := s.contributions.ListUndecided(ctx, p)
	if err != nil {
		return domain.Page[history.Contribution]{}, fmt.Errorf("service.ContributionService.ListUndecided: %w", err)
	}
	return domain.NewPage(items, total, p), nil
}

// Accept applies a pending contribution and records it in the changelog.
//
// Each stop is re-read under a row lock and the patch is re-reduced against
// it: fields in ignored are dropped, no-ops are eliminated and, unless verify
// is set, the verification cascade runs. The whole sequence is one
// transaction; any failure leaves no mutation and no audit entry behind.
func (s *ContributionService) Accept(ctx context.Context, id int64, evaluator domain.Actor, verify bool, ignored history.FieldSet) (history.Contribution, error) {
	c, err := s.pending(ctx, id)
	if err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Accept: %w", err)
	}

	applied := make(history.Changeset, len(c.Changes))
	now := s.now().UTC()
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		for i, change := range c.Changes {
			out, err := acceptChange(ctx, r.Stops, change, verify, ignored)
			if err != nil {
				return fmt.Errorf("change %d: %w", i, err)
			}
			applied[i] = out
		}
		author := domain.Actor{UserID: c.AuthorID, Address: evaluator.Address}
		if _, err := s.recorder.Append(ctx, r.Changelog, author, applied, &c.ID); err != nil {
			return err
		}
		return r.Contributions.MarkDecided(ctx, c.ID, true, evaluator.UserID, now)
	})
	if err != nil {
		s.log.WarnContext(ctx, "contribution rejected",
			"contribution_id", id,
			"evaluator_id", evaluator.UserID,
			"error", err,
		)
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Accept: %w", err)
	}

	accepted := true
	c.Changes = applied
	c.Accepted = &accepted
	c.EvaluatorID = &evaluator.UserID
	c.EvaluationDate = &now
	s.log.InfoContext(ctx, "contribution accepted",
		"contribution_id", id,
		"author_id", c.AuthorID,
		"evaluator_id", evaluator.UserID,
		"changes", len(applied),
		"verify", verify,
	)
	return c, nil
}

// acceptChange re-reduces one change against live state and persists it.
// It returns the change as it should be logged, with a fresh original.
func acceptChange(ctx context.Context, stops repo.StopRepo, change history.Change, verify bool, ignored history.FieldSet) (history.Change, error) {
	u, ok := change.(history.StopUpdate)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported change kind %s", domain.ErrValidation, change.Kind())
	}

	fresh, err := stops.GetForUpdate(ctx, u.Original.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: stop %d no longer exists", domain.ErrValidation, u.Original.ID)
	}
	if err != nil {
		return nil, err
	}

	patch := u.Patch
	patch.DropFields(ignored)
	if err := patch.DropNoops(fresh); err != nil {
		return nil, err
	}
	if !verify {
		patch.Deverify(fresh.Verification())
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: patch to stop %d no longer does anything", domain.ErrValidation, fresh.ID)
	}

	next := fresh
	if err := patch.Apply(&next); err != nil {
		return nil, err
	}
	if _, err := stops.Update(ctx, next); err != nil {
		return nil, err
	}
	return history.StopUpdate{Original: history.SnapshotStop(fresh), Patch: patch}, nil
}

// Decline marks a pending contribution as declined. Nothing else changes and
// nothing is logged.
func (s *ContributionService) Decline(ctx context.Context, id int64, evaluator domain.Actor) (history.Contribution, error) {
	c, err := s.pending(ctx, id)
	if err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Decline: %w", err)
	}
	now := s.now().UTC()
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		return r.Contributions.MarkDecided(ctx, id, false, evaluator.UserID, now)
	})
	if err != nil {
		return history.Contribution{}, fmt.Errorf("service.ContributionService.Decline: %w", err)
	}

	declined := false
	c.Accepted = &declined
	c.EvaluatorID = &evaluator.UserID
	c.EvaluationDate = &now
	s.log.InfoContext(ctx, "contribution declined",
		"contribution_id", id,
		"author_id", c.AuthorID,
		"evaluator_id", evaluator.UserID,
	)
	return c, nil
}

func (s *ContributionService) pending(ctx context.Context, id int64) (history.Contribution, error) {
	c, err := s.contributions.GetByID(ctx, id)
	if err != nil {
		return history.Contribution{}, err
	}
	if !c.IsPending() {
		return history.Contribution{}, fmt.Errorf("%w: contribution %d is already %s", domain.ErrDependenciesNotMet, id, c.Status())
	}
	return c, nil
}

// PendingStops previews the author's queued edits: every pending StopUpdate
// is folded, oldest first, onto the live stop it targets. Stops that no
// longer exist are left out. The result is ordered by stop id.
func (s *ContributionService) PendingStops(ctx context.Context, author uuid.UUID) ([]domain.Stop, error) {
	pending, err := s.contributions.ListPendingByAuthor(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("service.ContributionService.PendingStops: %w", err)
	}

	var ids []int32
	for _, c := range pending {
		for _, change := range c.Changes {
			if u, ok := change.(history.StopUpdate); ok {
				ids = append(ids, u.Original.ID)
			}
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	live, err := s.stops.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.ContributionService.PendingStops: %w", err)
	}
	for _, c := range pending {
		for _, change := range c.Changes {
			u, ok := change.(history.StopUpdate)
			if !ok {
				continue
			}
			stop, found := live[u.Original.ID]
			if !found {
				continue
			}
			if err := u.Patch.Apply(&stop); err != nil {
				return nil, fmt.Errorf("service.ContributionService.PendingStops: contribution %d: %w", c.ID, err)
			}
			live[stop.ID] = stop
		}
	}

	out := make([]domain.Stop, 0, len(live))
	for _, id := range ids {
		if stop, found := live[id]; found {
			out = append(out, stop)
		}
	}
	return out, nil
}

// Review renders a contribution for a moderator against the current state of
// the stops it touches.
func (s *ContributionService) Review(ctx context.Context, id int64) (review.Review, error) {
	c, err := s.contributions.GetByID(ctx, id)
	if err != nil {
		return review.Review{}, fmt.Errorf("service.ContributionService.Review: %w", err)
	}
	live, err := s.stops.ListByIDs(ctx, c.Changes.StopIDs())
	if err != nil {
		return review.Review{}, fmt.Errorf("service.ContributionService.Review: %w", err)
	}
	rv, err := s.reviews.Render(c, live)
	if err != nil {
		return review.Review{}, fmt.Errorf("service.ContributionService.Review: %w", err)
	}
	return rv, nil
}
