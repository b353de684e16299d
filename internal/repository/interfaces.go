package repository

import (
	"context"
	"errors"
	"time"

	"github.com/knaito/nippo/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

type WorkTypeRepo interface {
	Create(ctx context.Context, w *domain.WorkType) error
	GetByID(ctx context.Context, id string) (*domain.WorkType, error)
	List(ctx context.Context) ([]*domain.WorkType, error)
	Update(ctx context.Context, w *domain.WorkType) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orderedIDs []string) error
}

// WorkItemRepo persists a work type's item forest. Registration order is
// append-only: positions are assigned once via NextPosition and never
// rewritten, since predecessor derivation depends on them.
type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByWorkType(ctx context.Context, workTypeID string) ([]*domain.WorkItem, error)
	ListAll(ctx context.Context) ([]*domain.WorkItem, error)
	NextPosition(ctx context.Context, workTypeID string) (int, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	DeleteMany(ctx context.Context, ids []string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByWorkType(ctx context.Context, workTypeID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orderedIDs []string) error
}

type JobCategoryRepo interface {
	List(ctx context.Context) ([]domain.JobCategory, error)
	// Replace swaps the whole ordered list; saves are wholesale.
	Replace(ctx context.Context, names []string) error
}

type AccountRepo interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, username string) error
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.DailyReport) error
	GetByID(ctx context.Context, id string) (*domain.DailyReport, error)
	GetByUserAndDate(ctx context.Context, username string, date time.Time) (*domain.DailyReport, error)
	ListByUser(ctx context.Context, username string) ([]*domain.DailyReport, error)
	ListAll(ctx context.Context) ([]*domain.DailyReport, error)
	Update(ctx context.Context, r *domain.DailyReport) error
	Delete(ctx context.Context, id string) error
}
