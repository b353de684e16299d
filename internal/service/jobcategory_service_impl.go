package service

import (
	"context"
	"fmt"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/repository"
)

type jobCategoryService struct {
	categories repository.JobCategoryRepo
	uow        db.UnitOfWork
}

func NewJobCategoryService(categories repository.JobCategoryRepo, uow db.UnitOfWork) JobCategoryService {
	return &jobCategoryService{categories: categories, uow: uow}
}

func (s *jobCategoryService) List(ctx context.Context) ([]domain.JobCategory, error) {
	return s.categories.List(ctx)
}

// Replace swaps the whole ordered list atomically. Duplicate or empty names
// are rejected; the submitted order is what every picker will show.
func (s *jobCategoryService) Replace(ctx context.Context, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("category name must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteJobCategoryRepo(tx).Replace(ctx, names)
	})
}
