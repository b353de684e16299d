package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/reporting"
	"github.com/knaito/nippo/internal/repository"
)

type reportService struct {
	reports   repository.ReportRepo
	accounts  repository.AccountRepo
	workTypes repository.WorkTypeRepo
	workItems repository.WorkItemRepo
	projects  repository.ProjectRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewReportService(
	reports repository.ReportRepo,
	accounts repository.AccountRepo,
	workTypes repository.WorkTypeRepo,
	workItems repository.WorkItemRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		reports:   reports,
		accounts:  accounts,
		workTypes: workTypes,
		workItems: workItems,
		projects:  projects,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Save upserts the requester's report for its date. A second save on the
// same date rewrites the first rather than adding a sibling.
func (s *reportService) Save(ctx context.Context, requester string, rep *domain.DailyReport) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "save-report",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user": requester, "date": rep.DateString()},
		})
	}()

	account, err := s.accounts.GetByUsername(ctx, requester)
	if err != nil {
		return err
	}
	if account.IsAdmin() {
		return ErrAdminAuthor
	}
	if rep.Date.IsZero() {
		return fmt.Errorf("report date must be set")
	}
	rep.Username = requester

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txReports := repository.NewSQLiteReportRepo(tx)
		now := time.Now().UTC()

		existing, err := txReports.GetByUserAndDate(ctx, requester, rep.Date)
		switch {
		case err == nil:
			rep.ID = existing.ID
			rep.CreatedAt = existing.CreatedAt
			rep.UpdatedAt = now
			return txReports.Update(ctx, rep)
		case errors.Is(err, repository.ErrNotFound):
			if rep.ID == "" {
				rep.ID = uuid.New().String()
			}
			rep.CreatedAt = now
			rep.UpdatedAt = now
			return txReports.Create(ctx, rep)
		default:
			return err
		}
	})
}

func (s *reportService) GetByUserAndDate(ctx context.Context, username string, date time.Time) (*domain.DailyReport, error) {
	return s.reports.GetByUserAndDate(ctx, username, date)
}

func (s *reportService) List(ctx context.Context, requester string, scope ReportScope) ([]*domain.DailyReport, error) {
	switch scope {
	case ScopeOwn:
		return s.reports.ListByUser(ctx, requester)
	case ScopeAll:
		account, err := s.accounts.GetByUsername(ctx, requester)
		if err != nil {
			return nil, err
		}
		if !account.IsAdmin() {
			return nil, ErrForbidden
		}
		return s.reports.ListAll(ctx)
	default:
		return nil, fmt.Errorf("unknown report scope %q", scope)
	}
}

// Delete removes a report. Users may delete their own; admins may delete any.
func (s *reportService) Delete(ctx context.Context, requester, id string) error {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rep.Username != requester {
		account, err := s.accounts.GetByUsername(ctx, requester)
		if err != nil {
			return err
		}
		if !account.IsAdmin() {
			return ErrForbidden
		}
	}
	return s.reports.Delete(ctx, id)
}

// Views composes the four read models over the requested report set. The
// built-in admin never appears in the by-user groupings.
func (s *reportService) Views(ctx context.Context, req ViewRequest) (views *ReportViews, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report-views",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"requester": req.Requester, "scope": string(req.Scope)},
		})
	}()

	reports, err := s.List(ctx, req.Requester, req.Scope)
	if err != nil {
		return nil, err
	}

	workTypes, err := s.workTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	itemsByWorkType := make(map[string][]*domain.WorkItem, len(workTypes))
	for _, wt := range workTypes {
		items, err := s.workItems.ListByWorkType(ctx, wt.ID)
		if err != nil {
			return nil, err
		}
		itemsByWorkType[wt.ID] = items
	}

	exclude := []string{domain.AdminUsername}
	byProject, err := reporting.ByProjectView(reports, workTypes, projects, itemsByWorkType, req.Granularity)
	if err != nil {
		return nil, err
	}

	return &ReportViews{
		Timeline:  reporting.TimelineView(reports),
		ByDate:    reporting.ByDateView(reports),
		ByUser:    reporting.ByUserView(reports, req.User, req.Month, exclude),
		ByProject: byProject,
	}, nil
}
