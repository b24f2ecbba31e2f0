package audit

import (
	"context"

	"github.com/atlas-itsm/atlas/internal/shared"
)

// RepositoryPort defines read access to the audit trail.
type RepositoryPort interface {
	List(ctx context.Context, f Filter) ([]Entry, int, error)
}

// Service exposes audit trail listings.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns matching entries and pagination metadata.
func (s *Service) List(ctx context.Context, f Filter) ([]Entry, shared.Pagination, error) {
	entries, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return entries, shared.NewPagination(f.Page, f.PerPage, total), nil
}
