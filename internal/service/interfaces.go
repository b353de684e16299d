package service

import (
	"context"
	"errors"
	"time"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
	"github.com/knaito/nippo/internal/importer"
	"github.com/knaito/nippo/internal/reporting"
)

var (
	// ErrAdminAuthor is returned when the built-in admin tries to author a
	// daily report. Admins review; they do not report.
	ErrAdminAuthor = errors.New("admin accounts cannot author reports")

	// ErrAdminImmutable is returned on attempts to delete or demote the
	// built-in admin account.
	ErrAdminImmutable = errors.New("the built-in admin account cannot be removed")

	// ErrForbidden is returned when a non-admin requests an admin-only scope.
	ErrForbidden = errors.New("operation requires the admin role")

	// ErrBadCredentials is returned on a failed login.
	ErrBadCredentials = errors.New("unknown user or wrong password")
)

type WorkTypeService interface {
	Create(ctx context.Context, name string) (*domain.WorkType, error)
	GetByID(ctx context.Context, id string) (*domain.WorkType, error)
	List(ctx context.Context) ([]*domain.WorkType, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orderedIDs []string) error
}

type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByWorkType(ctx context.Context, workTypeID string) ([]*domain.WorkItem, error)
	Tree(ctx context.Context, workTypeID string) (*hierarchy.Tree, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	// Delete removes the item and its whole subtree atomically; it returns
	// the number of items removed.
	Delete(ctx context.Context, id string) (int, error)
	PredecessorCandidates(ctx context.Context, itemID string) ([]hierarchy.Predecessor, error)
	ImmediatePrevious(ctx context.Context, itemID string) (*hierarchy.Predecessor, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orderedIDs []string) error
}

type JobCategoryService interface {
	List(ctx context.Context) ([]domain.JobCategory, error)
	Replace(ctx context.Context, names []string) error
}

type AccountService interface {
	Create(ctx context.Context, a *domain.Account) error
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, username string) error
	// EnsureAdmin seeds the built-in admin account if it is missing.
	EnsureAdmin(ctx context.Context, password string) error
	// VisibleItems applies the account's category scope to a work type's
	// item list.
	VisibleItems(ctx context.Context, username, workTypeID string) ([]*domain.WorkItem, error)
}

// ImportResult holds the outcome of a master-data import.
type ImportResult struct {
	CategoryCount int
	WorkTypeCount int
	ItemCount     int
	ProjectCount  int
	AccountCount  int
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// ReportScope selects whose reports a listing covers.
type ReportScope string

const (
	ScopeOwn ReportScope = "own"
	ScopeAll ReportScope = "all"
)

// ReportViews bundles the four read-model projections over one report set.
type ReportViews struct {
	Timeline  []*domain.DailyReport
	ByDate    []reporting.DateGroup
	ByUser    reporting.UserView
	ByProject []reporting.WorkTypePanel
}

// ViewRequest parameterizes Views.
type ViewRequest struct {
	Requester   string
	Scope       ReportScope
	User        string // by-user view: selected user, "" for all
	Month       *reporting.YearMonth
	Granularity reporting.Granularity
}

type ReportService interface {
	// Save upserts the requester's report for its date.
	Save(ctx context.Context, requester string, rep *domain.DailyReport) error
	GetByUserAndDate(ctx context.Context, username string, date time.Time) (*domain.DailyReport, error)
	List(ctx context.Context, requester string, scope ReportScope) ([]*domain.DailyReport, error)
	Delete(ctx context.Context, requester, id string) error
	Views(ctx context.Context, req ViewRequest) (*ReportViews, error)
}
