package cli

import (
	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	WorkTypes  service.WorkTypeService
	WorkItems  service.WorkItemService
	Projects   service.ProjectService
	Categories service.JobCategoryService
	Accounts   service.AccountService
	Reports    service.ReportService
	Import     service.ImportService

	// IsInteractive reports whether stdin is a terminal; interactive
	// commands fall back to flags when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "nippo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "nippo",
		Short: "Daily work report manager for hierarchical work items",
	}

	root.AddCommand(
		newWorkTypeCmd(app),
		newItemCmd(app),
		newProjectCmd(app),
		newCategoryCmd(app),
		newAccountCmd(app),
		newReportCmd(app),
		newImportCmd(app),
	)

	return root
}
