package reporting

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
)

// ViewMode selects one of the four report views. Mode and filter state are
// client-side concerns; these builders are pure and take every input
// explicitly.
type ViewMode string

const (
	ViewTimeline  ViewMode = "timeline"
	ViewByDate    ViewMode = "date"
	ViewByUser    ViewMode = "user"
	ViewByProject ViewMode = "project"
)

// Granularity is the tree depth a by-project view aggregates at:
// GranularityLeaf, or an explicit level 1..4.
type Granularity int

const GranularityLeaf Granularity = 0

// ParseGranularity accepts "leaf" or a level number "1".."4".
func ParseGranularity(s string) (Granularity, error) {
	if s == "" || s == "leaf" {
		return GranularityLeaf, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > domain.MaxLevel {
		return 0, fmt.Errorf("invalid granularity %q: want \"leaf\" or 1..%d", s, domain.MaxLevel)
	}
	return Granularity(n), nil
}

func (g Granularity) String() string {
	if g == GranularityLeaf {
		return "leaf"
	}
	return strconv.Itoa(int(g))
}

// TimelineView returns reports in their natural server order, ungrouped.
func TimelineView(reports []*domain.DailyReport) []*domain.DailyReport {
	return reports
}

// ByDateView groups reports by date, newest date first.
func ByDateView(reports []*domain.DailyReport) []DateGroup {
	return GroupByDate(reports)
}

// YearMonth selects a calendar month for the by-user calendar form.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a "2006-01" selector.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// UserView is the by-user view in one of its three forms: a presence
// calendar when a month is selected, a flat date-descending list when a
// single user is selected, otherwise per-user sections.
type UserView struct {
	Calendar []UserPresence
	Flat     []*domain.DailyReport
	Groups   []UserGroup
}

// ByUserView composes the by-user view. exclude names accounts (typically
// the admin) never shown in user groupings.
func ByUserView(reports []*domain.DailyReport, selectedUser string, month *YearMonth, exclude []string) UserView {
	if month != nil {
		scoped := reports
		if selectedUser != "" {
			scoped = nil
			for _, r := range reports {
				if r.Username == selectedUser {
					scoped = append(scoped, r)
				}
			}
		}
		return UserView{Calendar: CalendarPresence(scoped, month.Year, month.Month, exclude)}
	}

	if selectedUser != "" {
		var flat []*domain.DailyReport
		for _, r := range reports {
			if r.Username == selectedUser && !excluded(r.Username, exclude) {
				flat = append(flat, r)
			}
		}
		sort.SliceStable(flat, func(i, j int) bool { return flat[i].Date.After(flat[j].Date) })
		return UserView{Flat: flat}
	}

	return UserView{Groups: GroupByUser(reports, exclude)}
}

// ActivityCell is one (work item, project) cell of the by-project table.
type ActivityCell struct {
	Present bool
	Dates   []time.Time
}

// ProjectRow is one work item's row across a panel's project columns.
type ProjectRow struct {
	Item        *domain.WorkItem
	DisplayPath string
	Cells       []ActivityCell
}

// WorkTypePanel is the by-project table for one work type: its associated
// projects as columns and its items at the chosen granularity as rows.
type WorkTypePanel struct {
	WorkType *domain.WorkType
	Projects []*domain.Project
	Rows     []ProjectRow
}

// ByProjectView builds one panel per work type having at least one
// associated project. Rows are the work type's items at the granularity
// (leaf = nodes with no children; level N = nodes at that level) in
// hierarchical order; each cell rolls leaf activity up to the row's item.
// A malformed item list fails the whole view rather than rendering a
// partial panel.
func ByProjectView(reports []*domain.DailyReport, workTypes []*domain.WorkType,
	projects []*domain.Project, itemsByWorkType map[string][]*domain.WorkItem,
	gran Granularity) ([]WorkTypePanel, error) {

	var panels []WorkTypePanel
	for _, wt := range workTypes {
		var associated []*domain.Project
		for _, p := range projects {
			if p.HasWorkType(wt.ID) {
				associated = append(associated, p)
			}
		}
		if len(associated) == 0 {
			continue
		}

		tree, err := hierarchy.Build(itemsByWorkType[wt.ID])
		if err != nil {
			return nil, fmt.Errorf("building item tree for work type %s: %w", wt.ID, err)
		}
		index := ActivityByProject(reports, wt.ID)

		var rows []*domain.WorkItem
		for _, w := range tree.Items() {
			if gran == GranularityLeaf {
				if len(tree.Children(w.ID)) == 0 {
					rows = append(rows, w)
				}
			} else if w.Level == int(gran) {
				rows = append(rows, w)
			}
		}
		tree.SortItems(rows)

		panel := WorkTypePanel{WorkType: wt, Projects: associated}
		for _, w := range rows {
			row := ProjectRow{Item: w, DisplayPath: tree.DisplayPath(w.ID)}
			for _, p := range associated {
				a := HasActivity(w.ID, p.ID, index, tree)
				row.Cells = append(row.Cells, ActivityCell{Present: a.Present, Dates: a.Dates})
			}
			panel.Rows = append(panel.Rows, row)
		}
		panels = append(panels, panel)
	}
	return panels, nil
}
