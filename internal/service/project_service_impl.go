package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/repository"
)

type projectService struct {
	projects  repository.ProjectRepo
	workTypes repository.WorkTypeRepo
	uow       db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, workTypes repository.WorkTypeRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, workTypes: workTypes, uow: uow}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	existing, err := s.projects.List(ctx)
	if err != nil {
		return err
	}
	p.Position = len(existing)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectNotStarted
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Update(ctx, p)
	})
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

func (s *projectService) Reorder(ctx context.Context, orderedIDs []string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Reorder(ctx, orderedIDs)
	})
}

func (s *projectService) validate(ctx context.Context, p *domain.Project) error {
	if p.Name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if p.Status != "" && !domain.ValidProjectStatuses[string(p.Status)] {
		return fmt.Errorf("unknown project status %q", p.Status)
	}
	for _, wtID := range p.WorkTypeIDs {
		if _, err := s.workTypes.GetByID(ctx, wtID); err != nil {
			return fmt.Errorf("work type %s: %w", wtID, err)
		}
	}
	return nil
}
