package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/knaito/nippo/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusLabel returns a colored project status label such as "● in progress".
func StatusLabel(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectDone:
		return StyleGreen.Render("● done")
	case domain.ProjectInProgress:
		return StyleYellow.Render("● in progress")
	case domain.ProjectNotStarted:
		return StyleDim.Render("● not started")
	default:
		return StyleDim.Render("● unknown")
	}
}

// PresenceMark renders a by-project activity cell: a green check with the
// activity dates, or a dim dash.
func PresenceMark(present bool, dates []string) string {
	if !present {
		return StyleDim.Render("–")
	}
	if len(dates) == 0 {
		return StyleGreen.Render("✔")
	}
	return StyleGreen.Render("✔ ") + StyleDim.Render(strings.Join(dates, ", "))
}

// Mark renders a single presence marker for calendar cells.
func Mark(present bool) string {
	if present {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("·")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
