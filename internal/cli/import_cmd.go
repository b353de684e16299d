package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Seed master data from a JSON file",
		Long: `Seed work types, item trees, categories, projects, and accounts from a
JSON file. The whole file is applied in one transaction; any validation
error aborts the import. Daily reports are never imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s work types, %s items, %s projects, %s accounts, %s categories\n",
				formatter.Bold(fmt.Sprintf("%d", result.WorkTypeCount)),
				formatter.Bold(fmt.Sprintf("%d", result.ItemCount)),
				formatter.Bold(fmt.Sprintf("%d", result.ProjectCount)),
				formatter.Bold(fmt.Sprintf("%d", result.AccountCount)),
				formatter.Bold(fmt.Sprintf("%d", result.CategoryCount)))
			return nil
		},
	}
}
