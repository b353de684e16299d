package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/knaito/nippo/internal/cli/formatter"
	"github.com/knaito/nippo/internal/domain"
)

func nippoHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateDate requires a YYYY-MM-DD value.
func validateDate(s string) error {
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// dateForm collects the report date.
func dateForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Report date (YYYY-MM-DD)").
				Placeholder(time.Now().Format(domain.DateLayout)).
				Value(value).
				Validate(validateDate),
		),
	).WithTheme(nippoHuhTheme()).WithShowHelp(false)
}

// projectSelectForm collects the set of projects worked on.
func projectSelectForm(projects []*domain.Project, selected *[]string) *huh.Form {
	opts := make([]huh.Option[string], len(projects))
	for i, p := range projects {
		opts[i] = huh.NewOption(p.Name, p.ID)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Projects worked on").
				Options(opts...).
				Value(selected),
		),
	).WithTheme(nippoHuhTheme()).WithShowHelp(false)
}

// itemSelectForm collects the leaf items done for one project.
func itemSelectForm(projectName string, items []*domain.WorkItem, paths map[string]string, selected *[]string) *huh.Form {
	opts := make([]huh.Option[string], len(items))
	for i, w := range items {
		label := paths[w.ID]
		if label == "" {
			label = w.Name
		}
		opts[i] = huh.NewOption(label, w.ID)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Items done for %s", projectName)).
				Options(opts...).
				Value(selected),
		),
	).WithTheme(nippoHuhTheme()).WithShowHelp(false)
}

// minutesForm collects actual minutes for a cycle-time item.
func minutesForm(itemLabel string, target *int, value *string) *huh.Form {
	placeholder := "30"
	if target != nil {
		placeholder = strconv.Itoa(*target)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Minutes spent on %s", itemLabel)).
				Placeholder(placeholder).
				Value(value).
				Validate(validateNonNegativeInt),
		),
	).WithTheme(nippoHuhTheme()).WithShowHelp(false)
}

// checklistForm collects the checked lines of an item's checklist.
func checklistForm(itemLabel string, lines []string, checked *[]string) *huh.Form {
	opts := make([]huh.Option[string], len(lines))
	for i, line := range lines {
		opts[i] = huh.NewOption(line, line)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Checklist for %s", itemLabel)).
				Options(opts...).
				Value(checked),
		),
	).WithTheme(nippoHuhTheme()).WithShowHelp(false)
}
