package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/knaito/nippo/internal/cli"
	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/repository"
	"github.com/knaito/nippo/internal/service"
)

const defaultAdminPassword = "password"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.nippo/nippo.db
	dbPath := os.Getenv("NIPPO_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".nippo", "nippo.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	workTypeRepo := repository.NewSQLiteWorkTypeRepo(database)
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	categoryRepo := repository.NewSQLiteJobCategoryRepo(database)
	accountRepo := repository.NewSQLiteAccountRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if os.Getenv("NIPPO_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	accountSvc := service.NewAccountService(accountRepo, workItemRepo)
	app := &cli.App{
		WorkTypes:  service.NewWorkTypeService(workTypeRepo),
		WorkItems:  service.NewWorkItemService(workItemRepo, workTypeRepo, uow),
		Projects:   service.NewProjectService(projectRepo, workTypeRepo, uow),
		Categories: service.NewJobCategoryService(categoryRepo, uow),
		Accounts:   accountSvc,
		Reports:    service.NewReportService(reportRepo, accountRepo, workTypeRepo, workItemRepo, projectRepo, uow, observers...),
		Import:     service.NewImportService(uow),
	}

	// Seed the built-in admin account on first run.
	adminPassword := os.Getenv("NIPPO_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}
	if err := accountSvc.EnsureAdmin(context.Background(), adminPassword); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}

	// Detect interactive terminal for the report wizard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
