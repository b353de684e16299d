package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage the ordered job category list",
	}

	cmd.AddCommand(
		newCategoryListCmd(app),
		newCategorySetCmd(app),
	)

	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List job categories in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := app.Categories.List(context.Background())
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				fmt.Println(formatter.Dim("No categories yet. Set them with: nippo category set <name>..."))
				return nil
			}
			for _, c := range cats {
				fmt.Printf("%s %s\n", formatter.Dim(fmt.Sprintf("%2d", c.Position)), c.Name)
			}
			return nil
		},
	}
}

func newCategorySetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>...",
		Short: "Replace the whole ordered category list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Categories.Replace(context.Background(), args); err != nil {
				return err
			}
			fmt.Printf("Saved %d categories\n", len(args))
			return nil
		},
	}
}
