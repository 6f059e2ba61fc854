package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/repo"
)

// TagService lists the stop tag vocabulary.
type TagService struct {
	tags repo.TagRepo
}

// NewTagService constructs a TagService backed by the provided TagRepo.
func NewTagService(tags repo.TagRepo) *TagService {
	return &TagService{tags: tags}
}

// List returns the tags starting with prefix, case-insensitively, each with
// its slug filled in.
func (s *TagService) List(ctx context.Context, prefix string) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("service.TagService.List: %w", err)
	}
	for i := range tags {
		tags[i].Slug = Slugify(tags[i].Name)
	}
	return tags, nil
}

// Slugify lowercases name and joins its words with hyphens.
// "  Praça  do Comércio " becomes "praça-do-comércio".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
