package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/repo"
)

// ChangelogService reads the audit log.
type ChangelogService struct {
	changelog repo.ChangelogRepo
}

// NewChangelogService constructs a ChangelogService backed by the provided repo.
func NewChangelogService(changelog repo.ChangelogRepo) *ChangelogService {
	return &ChangelogService{changelog: changelog}
}

// List returns one page of the changelog, newest first.
func (s *ChangelogService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[history.AuditEntry], error) {
	items, total, err := s.changelog.List(ctx, p)
	if err != nil {
		return domain.Page[history.AuditEntry]{}, fmt.Errorf("service.ChangelogService.List: %w", err)
	}
	return domain.NewPage(items, total, p), nil
}

// Export flattens the whole changelog into one row per change, oldest first.
func (s *ChangelogService) Export(ctx context.Context) ([]domain.ChangelogExportRow, error) {
	entries, err := s.changelog.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ChangelogService.Export: %w", err)
	}
	rows := []domain.ChangelogExportRow{}
	for _, e := range entries {
		for i, c := range e.Changes {
			fields, _ := history.PatchedFields(c)
			fields = slices.Clone(fields)
			slices.Sort(fields)
			rows = append(rows, domain.ChangelogExportRow{
				EntryID:        e.ID,
				AuthorID:       e.AuthorID.String(),
				Datetime:       e.Datetime,
				Address:        e.Address,
				ContributionID: e.ContributionID,
				Position:       i,
				Kind:           c.Kind(),
				EntityID:       history.EntityID(c),
				Fields:         fields,
			})
		}
	}
	return rows, nil
}
