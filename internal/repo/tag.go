package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// TagRepo reads the stop tag vocabulary. Tags live on stops.tags; there is
// no table of their own.
type TagRepo interface {
	// List returns every distinct tag whose lowercase form starts with the
	// lowercase prefix, with the number of stops carrying it, ordered by name.
	// Pass prefix="" to return all tags. Slug is left empty.
	List(ctx context.Context, prefix string) ([]domain.Tag, error)
}

type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

func (r *pgTagRepo) List(ctx context.Context, prefix string) ([]domain.Tag, error) {
	const q = `
		SELECT tag, count(*)
		FROM stops, unnest(tags) AS tag
		WHERE lower(tag) LIKE lower(@prefix) || '%'
		GROUP BY tag
		ORDER BY tag`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.Name, &t.StopCount); err != nil {
			return nil, fmt.Errorf("repo.TagRepo.List: scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: rows: %w", err)
	}
	return tags, nil
}
