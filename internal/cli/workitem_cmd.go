package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
)

// resolveItemID matches an item inside one work type by exact id, id prefix,
// or exact case-insensitive name.
func resolveItemID(ctx context.Context, app *App, workTypeID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("work item is required")
	}
	items, err := app.WorkItems.ListByWorkType(ctx, workTypeID)
	if err != nil {
		return "", err
	}

	for _, w := range items {
		if w.ID == input || strings.EqualFold(w.Name, input) {
			return w.ID, nil
		}
	}

	var matches []string
	for _, w := range items {
		if strings.HasPrefix(w.ID, input) {
			matches = append(matches, w.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("work item not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("work item %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the work-item tree of a work type",
	}

	cmd.AddCommand(
		newItemListCmd(app),
		newItemAddCmd(app),
		newItemRemoveCmd(app),
		newItemPredecessorsCmd(app),
	)

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var workType, asUser string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a work type's item tree in hierarchical order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			wtID, err := resolveWorkTypeID(ctx, app, workType)
			if err != nil {
				return err
			}

			tree, err := app.WorkItems.Tree(ctx, wtID)
			if err != nil {
				return err
			}
			items := tree.DepthFirstOrder()
			if asUser != "" {
				items, err = app.Accounts.VisibleItems(ctx, asUser, wtID)
				if err != nil {
					return err
				}
			}
			if len(items) == 0 {
				fmt.Println(formatter.Dim("No items yet. Add one with: nippo item add"))
				return nil
			}
			fmt.Print(formatter.RenderTree(treeItems(tree, items)))
			return nil
		},
	}

	cmd.Flags().StringVar(&workType, "type", "", "Work type (name or id)")
	cmd.Flags().StringVar(&asUser, "as", "", "Apply a user's category visibility")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// treeItems maps domain items onto the tree renderer, computing last-child
// markers from the tree structure.
func treeItems(tree *hierarchy.Tree, items []*domain.WorkItem) []formatter.TreeItem {
	out := make([]formatter.TreeItem, len(items))
	for i, w := range items {
		last := false
		parent := ""
		if w.ParentID != nil {
			parent = *w.ParentID
		}
		siblings := tree.Children(parent)
		if n := len(siblings); n > 0 && siblings[n-1].ID == w.ID {
			last = true
		}
		out[i] = formatter.TreeItem{
			Title:  w.Name,
			Level:  w.Level,
			IsLast: last,
			Leaf:   tree.IsLeaf(w),
			Badge:  attributeBadge(w),
		}
	}
	return out
}

func newItemAddCmd(app *App) *cobra.Command {
	var workType, parent, attribute string
	var categories, checklist, method []string
	var target int
	var leaf, internalLead, externalLead bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a work item at the end of the process sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			wtID, err := resolveWorkTypeID(ctx, app, workType)
			if err != nil {
				return err
			}

			w := &domain.WorkItem{
				WorkTypeID:       wtID,
				Name:             args[0],
				Attribute:        domain.Attribute(attribute),
				Checklist:        checklist,
				Method:           method,
				Categories:       categories,
				InternalLeadtime: internalLead,
				ExternalLeadtime: externalLead,
			}
			if parent != "" {
				parentID, err := resolveItemID(ctx, app, wtID, parent)
				if err != nil {
					return err
				}
				w.ParentID = &parentID
			}
			if cmd.Flags().Changed("target") {
				w.TargetMinutes = &target
			}
			if cmd.Flags().Changed("leaf") {
				w.LeafOverride = &leaf
			}

			if err := app.WorkItems.Create(ctx, w); err != nil {
				return err
			}
			fmt.Printf("Added item %s at position %d\n", formatter.Bold(w.Name), w.Position)
			return nil
		},
	}

	cmd.Flags().StringVar(&workType, "type", "", "Work type (name or id)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item (name or id)")
	cmd.Flags().StringVar(&attribute, "attribute", "", "Attribute: cycle_time or timing")
	cmd.Flags().IntVar(&target, "target", 0, "Target minutes (cycle_time items)")
	cmd.Flags().StringSliceVar(&checklist, "check", nil, "Checklist line (repeatable)")
	cmd.Flags().StringSliceVar(&method, "method", nil, "Method line (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Job category (repeatable)")
	cmd.Flags().BoolVar(&leaf, "leaf", false, "Explicit leaf flag override")
	cmd.Flags().BoolVar(&internalLead, "internal-lead", false, "Track internal lead time")
	cmd.Flags().BoolVar(&externalLead, "external-lead", false, "Track external lead time")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	var workType string

	cmd := &cobra.Command{
		Use:   "rm <item>",
		Short: "Delete an item and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			wtID, err := resolveWorkTypeID(ctx, app, workType)
			if err != nil {
				return err
			}
			id, err := resolveItemID(ctx, app, wtID, args[0])
			if err != nil {
				return err
			}
			n, err := app.WorkItems.Delete(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d item(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&workType, "type", "", "Work type (name or id)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newItemPredecessorsCmd(app *App) *cobra.Command {
	var workType string

	cmd := &cobra.Command{
		Use:   "predecessors <item>",
		Short: "Show lead-time predecessor candidates for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			wtID, err := resolveWorkTypeID(ctx, app, workType)
			if err != nil {
				return err
			}
			id, err := resolveItemID(ctx, app, wtID, args[0])
			if err != nil {
				return err
			}

			cands, err := app.WorkItems.PredecessorCandidates(ctx, id)
			if err != nil {
				return err
			}
			prev, err := app.WorkItems.ImmediatePrevious(ctx, id)
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header("Candidates"))
			if len(cands) == 0 {
				fmt.Println(formatter.Dim("none"))
			}
			for _, c := range cands {
				marker := "  "
				if prev != nil && c.ID == prev.ID {
					marker = formatter.StyleGreen.Render("→ ")
				}
				fmt.Printf("%s%s\n", marker, c.DisplayPath)
			}
			if prev != nil {
				fmt.Printf("\nDefault (immediately previous leaf): %s\n", formatter.Bold(prev.DisplayPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workType, "type", "", "Work type (name or id)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
