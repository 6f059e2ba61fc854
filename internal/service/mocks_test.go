package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which fails the test loudly.

// ---- StopRepo --------------------------------------------------------------

type mockStopRepo struct {
	create       func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	getByID      func(ctx context.Context, id int32) (domain.Stop, error)
	getForUpdate func(ctx context.Context, id int32) (domain.Stop, error)
	listByIDs    func(ctx context.Context, ids []int32) (map[int32]domain.Stop, error)
	update       func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
}

func (m *mockStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.create(ctx, stop)
}
func (m *mockStopRepo) GetByID(ctx context.Context, id int32) (domain.Stop, error) {
	return m.getByID(ctx, id)
}
func (m *mockStopRepo) GetForUpdate(ctx context.Context, id int32) (domain.Stop, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockStopRepo) ListByIDs(ctx context.Context, ids []int32) (map[int32]domain.Stop, error) {
	return m.listByIDs(ctx, ids)
}
func (m *mockStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.update(ctx, stop)
}

var _ repo.StopRepo = (*mockStopRepo)(nil)

// ---- RouteRepo -------------------------------------------------------------

type mockRouteRepo struct {
	create       func(ctx context.Context, route domain.Route) (domain.Route, error)
	getForUpdate func(ctx context.Context, id int32) (domain.Route, error)
	update       func(ctx context.Context, route domain.Route) (domain.Route, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	return m.create(ctx, route)
}
func (m *mockRouteRepo) GetForUpdate(ctx context.Context, id int32) (domain.Route, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockRouteRepo) Update(ctx context.Context, route domain.Route) (domain.Route, error) {
	return m.update(ctx, route)
}

var _ repo.RouteRepo = (*mockRouteRepo)(nil)

// ---- ContributionRepo ------------------------------------------------------

type mockContributionRepo struct {
	create              func(ctx context.Context, c history.Contribution) (history.Contribution, error)
	getByID             func(ctx context.Context, id int64) (history.Contribution, error)
	listByAuthor        func(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) ([]history.Contribution, int64, error)
	listUndecided       func(ctx context.Context, p domain.PaginationParams) ([]history.Contribution, int64, error)
	listPendingByAuthor func(ctx context.Context, author uuid.UUID) ([]history.Contribution, error)
	markDecided         func(ctx context.Context, id int64, accepted bool, evaluator uuid.UUID, at time.Time) error
}

func (m *mockContributionRepo) Create(ctx context.Context, c history.Contribution) (history.Contribution, error) {
	return m.create(ctx, c)
}
func (m *mockContributionRepo) GetByID(ctx context.Context, id int64) (history.Contribution, error) {
	return m.getByID(ctx, id)
}
func (m *mockContributionRepo) ListByAuthor(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) ([]history.Contribution, int64, error) {
	return m.listByAuthor(ctx, author, decided, p)
}
func (m *mockContributionRepo) ListUndecided(ctx context.Context, p domain.PaginationParams) ([]history.Contribution, int64, error) {
	return m.listUndecided(ctx, p)
}
func (m *mockContributionRepo) ListPendingByAuthor(ctx context.Context, author uuid.UUID) ([]history.Contribution, error) {
	return m.listPendingByAuthor(ctx, author)
}
func (m *mockContributionRepo) MarkDecided(ctx context.Context, id int64, accepted bool, evaluator uuid.UUID, at time.Time) error {
	return m.markDecided(ctx, id, accepted, evaluator, at)
}

var _ repo.ContributionRepo = (*mockContributionRepo)(nil)

// ---- ChangelogRepo ---------------------------------------------------------

// memChangelog keeps inserted entries in memory.
type memChangelog struct {
	entries   []history.AuditEntry
	insertErr error
}

func (m *memChangelog) Insert(_ context.Context, e history.AuditEntry) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return e.ID, nil
}
func (m *memChangelog) List(_ context.Context, p domain.PaginationParams) ([]history.AuditEntry, int64, error) {
	end := min(p.Offset()+p.Limit, len(m.entries))
	if p.Offset() >= end {
		return nil, int64(len(m.entries)), nil
	}
	return m.entries[p.Offset():end], int64(len(m.entries)), nil
}
func (m *memChangelog) ListByStop(_ context.Context, stopID int32) ([]history.AuditEntry, error) {
	var out []history.AuditEntry
	for _, e := range m.entries {
		for _, id := range e.StopIDs {
			if id == stopID {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}
func (m *memChangelog) ListAll(_ context.Context) ([]history.AuditEntry, error) {
	return m.entries, nil
}

var _ repo.ChangelogRepo = (*memChangelog)(nil)

// ---- TagRepo ---------------------------------------------------------------

type mockTagRepo struct {
	list func(ctx context.Context, prefix string) ([]domain.Tag, error)
}

func (m *mockTagRepo) List(ctx context.Context, prefix string) ([]domain.Tag, error) {
	return m.list(ctx, prefix)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

// ---- Transactor ------------------------------------------------------------

// mockTransactor hands its repos to fn and counts the units of work.
// It does not roll anything back; tests assert on what fn did before failing.
type mockTransactor struct {
	repos repo.Repos
	calls int
}

func (m *mockTransactor) WithinTx(_ context.Context, fn func(repo.Repos) error) error {
	m.calls++
	return fn(m.repos)
}

var _ repo.Transactor = (*mockTransactor)(nil)

// ---- helpers ---------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

// liveStop is a fully verified stop used as the current state.
func liveStop() domain.Stop {
	return domain.Stop{
		ID:                42,
		Name:              "Largo do Rato",
		Street:            ptr("Largo do Rato"),
		Lat:               38.7200,
		Lon:               -9.1540,
		Tags:              []string{"metro"},
		A11y:              domain.A11yMeta{HasCrossing: ptr(false), HasBench: ptr(true)},
		VerificationLevel: domain.FullyVerified().Pack(),
		License:           "CC0",
	}
}
