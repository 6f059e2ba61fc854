package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

// ChangelogRepo is the append-only audit log. It has no update or delete;
// the table trigger rejects both.
type ChangelogRepo interface {
	// Insert appends an entry and returns its id.
	Insert(ctx context.Context, entry history.AuditEntry) (int64, error)

	// List returns one page of entries, newest first, and the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]history.AuditEntry, int64, error)

	// ListByStop returns every entry touching the stop, oldest first.
	ListByStop(ctx context.Context, stopID int32) ([]history.AuditEntry, error)

	// ListAll returns every entry, oldest first.
	ListAll(ctx context.Context) ([]history.AuditEntry, error)
}

type pgChangelogRepo struct {
	db db
}

// NewChangelogRepo constructs a ChangelogRepo backed by the provided db connection.
func NewChangelogRepo(db db) ChangelogRepo {
	return &pgChangelogRepo{db: db}
}

const changelogColumns = `id, author_id, changes, datetime, address, contribution_id, stop_ids, deltas`

func (r *pgChangelogRepo) Insert(ctx context.Context, e history.AuditEntry) (int64, error) {
	const q = `
		INSERT INTO changelog (author_id, changes, datetime, address, contribution_id, stop_ids, deltas)
		VALUES (@author_id, @changes, @datetime, @address, @contribution_id, @stop_ids, @deltas)
		RETURNING id`

	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return 0, fmt.Errorf("repo.ChangelogRepo.Insert: encode changes: %w", err)
	}
	deltas, err := json.Marshal(e.Deltas)
	if err != nil {
		return 0, fmt.Errorf("repo.ChangelogRepo.Insert: encode deltas: %w", err)
	}
	stopIDs := e.StopIDs
	if stopIDs == nil {
		stopIDs = []int32{}
	}
	args := pgx.NamedArgs{
		"author_id":       e.AuthorID,
		"changes":         changes,
		"datetime":        e.Datetime,
		"address":         e.Address,
		"contribution_id": e.ContributionID,
		"stop_ids":        stopIDs,
		"deltas":          deltas,
	}

	var id int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return 0, fmt.Errorf("repo.ChangelogRepo.Insert: %w", err)
	}
	return id, nil
}

func (r *pgChangelogRepo) List(ctx context.Context, p domain.PaginationParams) ([]history.AuditEntry, int64, error) {
	const q = `
		SELECT ` + changelogColumns + `, count(*) OVER ()
		FROM changelog
		ORDER BY id DESC
		LIMIT @limit OFFSET @offset`

	var total int64
	entries, err := r.query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()}, &total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ChangelogRepo.List: %w", err)
	}
	return entries, total, nil
}

func (r *pgChangelogRepo) ListByStop(ctx context.Context, stopID int32) ([]history.AuditEntry, error) {
	const q = `
		SELECT ` + changelogColumns + `
		FROM changelog
		WHERE stop_ids @> ARRAY[@stop_id::integer]
		ORDER BY id`

	entries, err := r.query(ctx, q, pgx.NamedArgs{"stop_id": stopID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChangelogRepo.ListByStop: %w", err)
	}
	return entries, nil
}

func (r *pgChangelogRepo) ListAll(ctx context.Context) ([]history.AuditEntry, error) {
	const q = `SELECT ` + changelogColumns + ` FROM changelog ORDER BY id`

	entries, err := r.query(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.ChangelogRepo.ListAll: %w", err)
	}
	return entries, nil
}

func (r *pgChangelogRepo) query(ctx context.Context, q string, args pgx.NamedArgs, extra ...any) ([]history.AuditEntry, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []history.AuditEntry{}
	for rows.Next() {
		e, err := scanAuditEntry(rows, extra...)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

func scanAuditEntry(s scanner, extra ...any) (history.AuditEntry, error) {
	var (
		e       history.AuditEntry
		author  pgtype.UUID
		changes []byte
		deltas  []byte
	)
	dest := append([]any{&e.ID, &author, &changes, &e.Datetime, &e.Address,
		&e.ContributionID, &e.StopIDs, &deltas}, extra...)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history.AuditEntry{}, domain.ErrNotFound
		}
		return history.AuditEntry{}, err
	}
	e.AuthorID = uuid.UUID(author.Bytes)
	if err := json.Unmarshal(changes, &e.Changes); err != nil {
		return history.AuditEntry{}, fmt.Errorf("decode changes: %w", err)
	}
	if err := json.Unmarshal(deltas, &e.Deltas); err != nil {
		return history.AuditEntry{}, fmt.Errorf("decode deltas: %w", err)
	}
	return e, nil
}
