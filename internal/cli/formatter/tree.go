package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a work-item tree display.
type TreeItem struct {
	Title  string
	Level  int  // 1-based hierarchy level
	IsLast bool // last child of its parent
	Leaf   bool
	Badge  string // attribute or lead-time badge, right-aligned
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Leaf items carry a green bullet; badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 1 {
			prefix = strings.Repeat(treePipe, item.Level-2)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := StyleFg.Render(item.Title)
		if item.Leaf {
			title = StyleGreen.Render("• ") + title
		}

		contents[idx] = prefix + title
		if w := lipgloss.Width(contents[idx]); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for idx, item := range items {
		if item.Badge != "" {
			pad := maxWidth - lipgloss.Width(contents[idx])
			if pad < 0 {
				pad = 0
			}
			b.WriteString(contents[idx] + strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Badge+" ]") + "\n")
			continue
		}
		b.WriteString(contents[idx] + "\n")
	}

	return b.String()
}
