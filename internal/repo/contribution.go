package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

// ContributionRepo defines the persistence operations for Contributions.
type ContributionRepo interface {
	// Create inserts a pending contribution and returns it with its id and
	// submission date.
	Create(ctx context.Context, c history.Contribution) (history.Contribution, error)

	// GetByID retrieves a contribution.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (history.Contribution, error)

	// ListByAuthor returns one page of the author's contributions, newest first,
	// restricted to decided or undecided ones, and the total count.
	ListByAuthor(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) ([]history.Contribution, int64, error)

	// ListUndecided returns one page of pending contributions, oldest first,
	// and the total count.
	ListUndecided(ctx context.Context, p domain.PaginationParams) ([]history.Contribution, int64, error)

	// ListPendingByAuthor returns every pending contribution of the author,
	// oldest first.
	ListPendingByAuthor(ctx context.Context, author uuid.UUID) ([]history.Contribution, error)

	// MarkDecided records the decision on a pending contribution.
	// Returns domain.ErrDependenciesNotMet if it was already decided or does
	// not exist.
	MarkDecided(ctx context.Context, id int64, accepted bool, evaluator uuid.UUID, at time.Time) error
}

type pgContributionRepo struct {
	db db
}

// NewContributionRepo constructs a ContributionRepo backed by the provided db connection.
func NewContributionRepo(db db) ContributionRepo {
	return &pgContributionRepo{db: db}
}

const contributionColumns = `id, author_id, change, submission_date, accepted, evaluator_id, evaluation_date, comment`

func (r *pgContributionRepo) Create(ctx context.Context, c history.Contribution) (history.Contribution, error) {
	const q = `
		INSERT INTO contributions (author_id, change, comment)
		VALUES (@author_id, @change, @comment)
		RETURNING ` + contributionColumns

	changes, err := json.Marshal(c.Changes)
	if err != nil {
		return history.Contribution{}, fmt.Errorf("repo.ContributionRepo.Create: encode changes: %w", err)
	}
	args := pgx.NamedArgs{
		"author_id": c.AuthorID,
		"change":    changes,
		"comment":   c.Comment,
	}
	result, err := scanContribution(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return history.Contribution{}, fmt.Errorf("repo.ContributionRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgContributionRepo) GetByID(ctx context.Context, id int64) (history.Contribution, error) {
	const q = `SELECT ` + contributionColumns + ` FROM contributions WHERE id = @id`

	result, err := scanContribution(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return history.Contribution{}, fmt.Errorf("repo.ContributionRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgContributionRepo) ListByAuthor(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) ([]history.Contribution, int64, error) {
	const q = `
		SELECT ` + contributionColumns + `, count(*) OVER ()
		FROM contributions
		WHERE author_id = @author_id
		  AND (accepted IS NOT NULL) = @decided
		ORDER BY submission_date DESC, id DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"author_id": author, "decided": decided, "limit": p.Limit, "offset": p.Offset()}
	items, total, err := r.listPaged(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ContributionRepo.ListByAuthor: %w", err)
	}
	return items, total, nil
}

func (r *pgContributionRepo) ListUndecided(ctx context.Context, p domain.PaginationParams) ([]history.Contribution, int64, error) {
	const q = `
		SELECT ` + contributionColumns + `, count(*) OVER ()
		FROM contributions
		WHERE accepted IS NULL
		ORDER BY submission_date, id
		LIMIT @limit OFFSET @offset`

	items, total, err := r.listPaged(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ContributionRepo.ListUndecided: %w", err)
	}
	return items, total, nil
}

func (r *pgContributionRepo) ListPendingByAuthor(ctx context.Context, author uuid.UUID) ([]history.Contribution, error) {
	const q = `
		SELECT ` + contributionColumns + `
		FROM contributions
		WHERE author_id = @author_id AND accepted IS NULL
		ORDER BY submission_date, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"author_id": author})
	if err != nil {
		return nil, fmt.Errorf("repo.ContributionRepo.ListPendingByAuthor: %w", err)
	}
	defer rows.Close()

	var out []history.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ContributionRepo.ListPendingByAuthor: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ContributionRepo.ListPendingByAuthor: rows: %w", err)
	}
	return out, nil
}

func (r *pgContributionRepo) MarkDecided(ctx context.Context, id int64, accepted bool, evaluator uuid.UUID, at time.Time) error {
	const q = `
		UPDATE contributions
		SET accepted        = @accepted,
		    evaluator_id    = @evaluator_id,
		    evaluation_date = @evaluation_date
		WHERE id = @id AND accepted IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":              id,
		"accepted":        accepted,
		"evaluator_id":    evaluator,
		"evaluation_date": at,
	})
	if err != nil {
		return fmt.Errorf("repo.ContributionRepo.MarkDecided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ContributionRepo.MarkDecided: %w", domain.ErrDependenciesNotMet)
	}
	return nil
}

// listPaged runs a query whose last column is a window count of all
// matching rows.
func (r *pgContributionRepo) listPaged(ctx context.Context, q string, args pgx.NamedArgs) ([]history.Contribution, int64, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []history.Contribution
		total int64
	)
	for rows.Next() {
		c, err := scanContribution(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return out, total, nil
}

// scanContribution maps a row into a history.Contribution. extra receives any
// trailing columns.
func scanContribution(s scanner, extra ...any) (history.Contribution, error) {
	var (
		c         history.Contribution
		author    pgtype.UUID
		changes   []byte
		evaluator pgtype.UUID
	)
	dest := append([]any{&c.ID, &author, &changes, &c.SubmissionDate, &c.Accepted,
		&evaluator, &c.EvaluationDate, &c.Comment}, extra...)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history.Contribution{}, domain.ErrNotFound
		}
		return history.Contribution{}, err
	}
	if err := json.Unmarshal(changes, &c.Changes); err != nil {
		return history.Contribution{}, fmt.Errorf("decode changes: %w", err)
	}
	c.AuthorID = uuid.UUID(author.Bytes)
	if evaluator.Valid {
		id := uuid.UUID(evaluator.Bytes)
		c.EvaluatorID = &id
	}
	return c, nil
}
