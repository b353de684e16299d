package service

import (
	"context"
	"fmt"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/importer"
	"github.com/knaito/nippo/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
}

func NewImportService(uow db.UnitOfWork) ImportService {
	return &importService{uow: uow}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema validates, converts, and persists the whole file in one
// transaction: a bad row leaves the database untouched.
func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	data := importer.Convert(schema)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		workTypes := repository.NewSQLiteWorkTypeRepo(tx)
		workItems := repository.NewSQLiteWorkItemRepo(tx)
		projects := repository.NewSQLiteProjectRepo(tx)
		accounts := repository.NewSQLiteAccountRepo(tx)

		if len(data.Categories) > 0 {
			if err := repository.NewSQLiteJobCategoryRepo(tx).Replace(ctx, data.Categories); err != nil {
				return fmt.Errorf("replacing categories: %w", err)
			}
		}
		for _, wt := range data.WorkTypes {
			if err := workTypes.Create(ctx, wt); err != nil {
				return fmt.Errorf("creating work type %q: %w", wt.Name, err)
			}
		}
		for _, w := range data.Items {
			if err := workItems.Create(ctx, w); err != nil {
				return fmt.Errorf("creating work item %q: %w", w.Name, err)
			}
		}
		for _, p := range data.Projects {
			if err := projects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %q: %w", p.Name, err)
			}
		}
		for _, a := range data.Accounts {
			if err := accounts.Create(ctx, a); err != nil {
				return fmt.Errorf("creating account %q: %w", a.Username, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		CategoryCount: len(data.Categories),
		WorkTypeCount: len(data.WorkTypes),
		ItemCount:     len(data.Items),
		ProjectCount:  len(data.Projects),
		AccountCount:  len(data.Accounts),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
