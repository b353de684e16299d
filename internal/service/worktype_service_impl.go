package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/repository"
)

type workTypeService struct {
	workTypes repository.WorkTypeRepo
}

func NewWorkTypeService(workTypes repository.WorkTypeRepo) WorkTypeService {
	return &workTypeService{workTypes: workTypes}
}

func (s *workTypeService) Create(ctx context.Context, name string) (*domain.WorkType, error) {
	if name == "" {
		return nil, fmt.Errorf("work type name must not be empty")
	}
	existing, err := s.workTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	w := &domain.WorkType{
		ID:        uuid.New().String(),
		Name:      name,
		Position:  len(existing),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.workTypes.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workTypeService) GetByID(ctx context.Context, id string) (*domain.WorkType, error) {
	return s.workTypes.GetByID(ctx, id)
}

func (s *workTypeService) List(ctx context.Context) ([]*domain.WorkType, error) {
	return s.workTypes.List(ctx)
}

func (s *workTypeService) Rename(ctx context.Context, id, name string) error {
	if name == "" {
		return fmt.Errorf("work type name must not be empty")
	}
	w, err := s.workTypes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	w.Name = name
	w.UpdatedAt = time.Now().UTC()
	return s.workTypes.Update(ctx, w)
}

// Delete removes the work type; the schema cascades to its item forest and
// project associations.
func (s *workTypeService) Delete(ctx context.Context, id string) error {
	return s.workTypes.Delete(ctx, id)
}

func (s *workTypeService) Reorder(ctx context.Context, orderedIDs []string) error {
	return s.workTypes.Reorder(ctx, orderedIDs)
}
