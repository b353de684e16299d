package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
	"github.com/knaito/nippo/internal/domain"
)

// resolveWorkTypeID accepts an exact id, an id prefix, or an exact
// case-insensitive name.
func resolveWorkTypeID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("work type is required")
	}
	types, err := app.WorkTypes.List(ctx)
	if err != nil {
		return "", err
	}

	for _, wt := range types {
		if wt.ID == input || strings.EqualFold(wt.Name, input) {
			return wt.ID, nil
		}
	}

	var matches []string
	for _, wt := range types {
		if strings.HasPrefix(wt.ID, input) {
			matches = append(matches, wt.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("work type not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("work type %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newWorkTypeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worktype",
		Short: "Manage work types (processes)",
	}

	cmd.AddCommand(
		newWorkTypeListCmd(app),
		newWorkTypeAddCmd(app),
		newWorkTypeRenameCmd(app),
		newWorkTypeRemoveCmd(app),
		newWorkTypeReorderCmd(app),
	)

	return cmd
}

func newWorkTypeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List work types in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.WorkTypes.List(context.Background())
			if err != nil {
				return err
			}
			if len(types) == 0 {
				fmt.Println(formatter.Dim("No work types yet. Add one with: nippo worktype add <name>"))
				return nil
			}
			rows := make([][]string, len(types))
			for i, wt := range types {
				rows[i] = []string{fmt.Sprintf("%d", wt.Position), wt.Name, formatter.Dim(shortID(wt.ID))}
			}
			fmt.Print(formatter.RenderTable([]string{"#", "Name", "ID"}, rows))
			return nil
		},
	}
}

func newWorkTypeAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new work type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wt, err := app.WorkTypes.Create(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created work type %s\n", formatter.Bold(wt.Name))
			return nil
		},
	}
}

func newWorkTypeRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <worktype> <new-name>",
		Short: "Rename a work type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkTypeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.WorkTypes.Rename(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed work type to %s\n", formatter.Bold(args[1]))
			return nil
		},
	}
}

func newWorkTypeRemoveCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "rm <worktype>",
		Short: "Delete a work type and its whole item tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkTypeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			items, err := app.WorkItems.ListByWorkType(ctx, id)
			if err != nil {
				return err
			}
			if len(items) > 0 && !force {
				return fmt.Errorf("work type has %d items; pass --force to delete them too", len(items))
			}
			if err := app.WorkTypes.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted work type and %d items\n", len(items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Delete even when the work type still has items")
	return cmd
}

func newWorkTypeReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <worktype>...",
		Short: "Set the display order of work types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ids := make([]string, len(args))
			for i, arg := range args {
				id, err := resolveWorkTypeID(ctx, app, arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}
			if err := app.WorkTypes.Reorder(ctx, ids); err != nil {
				return err
			}
			fmt.Println("Reordered work types")
			return nil
		},
	}
}

// shortID trims a uuid for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// attributeBadge renders an item's attribute and lead-time flags for tree
// and table displays.
func attributeBadge(w *domain.WorkItem) string {
	var parts []string
	switch w.Attribute {
	case domain.AttributeCycleTime:
		if w.TargetMinutes != nil {
			parts = append(parts, fmt.Sprintf("cycle %dm", *w.TargetMinutes))
		} else {
			parts = append(parts, "cycle")
		}
	case domain.AttributeTiming:
		parts = append(parts, "timing")
	}
	if w.InternalLeadtime {
		parts = append(parts, "lead:int")
	}
	if w.ExternalLeadtime {
		parts = append(parts, "lead:ext")
	}
	return strings.Join(parts, " ")
}
