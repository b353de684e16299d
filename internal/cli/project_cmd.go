package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
	"github.com/knaito/nippo/internal/domain"
)

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input || strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectAddCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectReorderCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projects, err := app.Projects.List(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println(formatter.Dim("No projects yet. Add one with: nippo project add <name>"))
				return nil
			}

			types, err := app.WorkTypes.List(ctx)
			if err != nil {
				return err
			}
			typeName := make(map[string]string, len(types))
			for _, wt := range types {
				typeName[wt.ID] = wt.Name
			}

			rows := make([][]string, len(projects))
			for i, p := range projects {
				names := make([]string, 0, len(p.WorkTypeIDs))
				for _, id := range p.WorkTypeIDs {
					if n, ok := typeName[id]; ok {
						names = append(names, n)
					}
				}
				rows[i] = []string{
					p.Name,
					formatter.StatusLabel(p.Status),
					strings.Join(names, ", "),
					formatter.Dim(shortID(p.ID)),
				}
			}
			fmt.Print(formatter.RenderTable([]string{"Name", "Status", "Work Types", "ID"}, rows))
			return nil
		},
	}
}

func newProjectAddCmd(app *App) *cobra.Command {
	var workTypes []string
	var status string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			ids := make([]string, len(workTypes))
			for i, wt := range workTypes {
				id, err := resolveWorkTypeID(ctx, app, wt)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			p := &domain.Project{
				Name:        args[0],
				Status:      domain.ProjectStatus(status),
				WorkTypeIDs: ids,
			}
			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}
			fmt.Printf("Created project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&workTypes, "type", nil, "Associated work type (repeatable)")
	cmd.Flags().StringVar(&status, "status", "not_started", "Status: not_started, in_progress or done")
	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, status string
	var workTypes []string

	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Update a project's name, status or work types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("status") {
				p.Status = domain.ProjectStatus(status)
			}
			if cmd.Flags().Changed("type") {
				ids := make([]string, len(workTypes))
				for i, wt := range workTypes {
					wtID, err := resolveWorkTypeID(ctx, app, wt)
					if err != nil {
						return err
					}
					ids[i] = wtID
				}
				p.WorkTypeIDs = ids
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Printf("Updated project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringSliceVar(&workTypes, "type", nil, "Replacement work type set (repeatable)")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project>",
		Short: "Delete a project (historical reports keep referencing it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted project")
			return nil
		},
	}
}

func newProjectReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <project>...",
		Short: "Set the display order of projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ids := make([]string, len(args))
			for i, arg := range args {
				id, err := resolveProjectID(ctx, app, arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}
			if err := app.Projects.Reorder(ctx, ids); err != nil {
				return err
			}
			fmt.Println("Reordered projects")
			return nil
		},
	}
}
