package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
	"github.com/knaito/nippo/internal/domain"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage login accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
		newAccountUpdateCmd(app),
		newAccountRemoveCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := app.Accounts.List(context.Background())
			if err != nil {
				return err
			}
			rows := make([][]string, len(accounts))
			for i, a := range accounts {
				role := string(a.Role)
				if a.IsAdmin() {
					role = formatter.StylePurple.Render(role)
				}
				rows[i] = []string{a.Username, role, strings.Join(a.Categories, ", ")}
			}
			fmt.Print(formatter.RenderTable([]string{"Username", "Role", "Categories"}, rows))
			return nil
		},
	}
}

func newAccountAddCmd(app *App) *cobra.Command {
	var password, role string
	var categories []string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &domain.Account{
				Username:   args[0],
				Password:   password,
				Role:       domain.Role(role),
				Categories: categories,
			}
			if err := app.Accounts.Create(context.Background(), a); err != nil {
				return err
			}
			fmt.Printf("Created account %s\n", formatter.Bold(a.Username))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().StringVar(&role, "role", "user", "Role: admin or user")
	cmd.Flags().StringSliceVar(&categories, "category", nil,
		"Visible job category (repeatable; \"all\" for everything)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountUpdateCmd(app *App) *cobra.Command {
	var password string
	var categories []string

	cmd := &cobra.Command{
		Use:   "update <username>",
		Short: "Update an account's password or category scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := app.Accounts.GetByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("password") {
				a.Password = password
			}
			if cmd.Flags().Changed("category") {
				a.Categories = categories
			}
			if err := app.Accounts.Update(ctx, a); err != nil {
				return err
			}
			fmt.Printf("Updated account %s\n", formatter.Bold(a.Username))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Replacement category scope (repeatable)")
	return cmd
}

func newAccountRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <username>",
		Short: "Delete an account (the built-in admin is protected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Accounts.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted account")
			return nil
		},
	}
}
