package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/knaito/nippo/internal/cli/formatter"
	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
	"github.com/knaito/nippo/internal/reporting"
	"github.com/knaito/nippo/internal/service"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Author and browse daily reports",
	}

	cmd.AddCommand(
		newReportAddCmd(app),
		newReportEditCmd(app),
		newReportRemoveCmd(app),
		newReportListCmd(app),
	)

	return cmd
}

func newReportAddCmd(app *App) *cobra.Command {
	var (
		user    string
		date    string
		entries []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "File a daily report (interactive on a terminal)",
		Long: `File a daily report. On a terminal this walks through project and item
selection; otherwise supply --date and repeatable --entry flags in the form
project/item[=minutes].`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportSave(app, user, date, entries)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "reporting user (required)")
	cmd.Flags().StringVar(&date, "date", "", "report date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "project/item[=minutes], repeatable")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReportEditCmd(app *App) *cobra.Command {
	var (
		user    string
		date    string
		entries []string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Revise the report for a date",
		Long: `Revise a daily report. A report is keyed by user and date; editing the
same date replaces its entries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportSave(app, user, date, entries)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "reporting user (required)")
	cmd.Flags().StringVar(&date, "date", "", "report date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "project/item[=minutes], repeatable")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// runReportSave is shared by add and edit; Save upserts on (user, date).
func runReportSave(app *App, user, date string, entryFlags []string) error {
	ctx := context.Background()

	rep := &domain.DailyReport{Username: user}
	if date != "" {
		d, err := time.Parse(domain.DateLayout, date)
		if err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
		rep.Date = d
	} else {
		now := time.Now().UTC()
		rep.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	var err error
	if app.IsInteractive != nil && app.IsInteractive() && len(entryFlags) == 0 {
		err = fillReportInteractive(ctx, app, rep)
	} else {
		err = fillReportFromFlags(ctx, app, rep, entryFlags)
	}
	if err != nil {
		return err
	}
	if len(rep.Projects) == 0 {
		return fmt.Errorf("nothing to report: no entries given")
	}

	if err := app.Reports.Save(ctx, user, rep); err != nil {
		return err
	}
	fmt.Printf("Saved report for %s on %s\n", formatter.Bold(user), rep.DateString())
	return nil
}

// fillReportInteractive walks the wizard: pick projects, then per project
// the leaf items the user may see, then minutes and checklist per item.
func fillReportInteractive(ctx context.Context, app *App, rep *domain.DailyReport) error {
	dateStr := rep.DateString()
	if err := dateForm(&dateStr).Run(); err != nil {
		return err
	}
	d, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", dateStr)
	}
	rep.Date = d

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("no projects registered yet")
	}

	// Pre-select the projects of an existing report for this date.
	var selected []string
	if existing, err := app.Reports.GetByUserAndDate(ctx, rep.Username, rep.Date); err == nil {
		for _, pe := range existing.Projects {
			selected = append(selected, pe.ProjectID)
		}
	}
	if err := projectSelectForm(projects, &selected).Run(); err != nil {
		return err
	}

	projectByID := make(map[string]*domain.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	for _, pid := range selected {
		p := projectByID[pid]
		if p == nil {
			continue
		}
		entry := domain.ProjectEntry{ProjectID: pid}
		for _, wtID := range p.WorkTypeIDs {
			items, paths, err := selectableLeaves(ctx, app, rep.Username, wtID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				continue
			}
			var picked []string
			if err := itemSelectForm(p.Name, items, paths, &picked).Run(); err != nil {
				return err
			}
			itemByID := make(map[string]*domain.WorkItem, len(items))
			for _, w := range items {
				itemByID[w.ID] = w
			}
			for _, id := range picked {
				w := itemByID[id]
				if w == nil {
					continue
				}
				we, err := promptEntryDetails(w, paths[id])
				if err != nil {
					return err
				}
				entry.Items = append(entry.Items, we)
			}
		}
		if len(entry.Items) > 0 {
			rep.Projects = append(rep.Projects, entry)
		}
	}
	return nil
}

// selectableLeaves returns the leaf items of a work type visible to the
// user, with their display paths.
func selectableLeaves(ctx context.Context, app *App, username, workTypeID string) ([]*domain.WorkItem, map[string]string, error) {
	visible, err := app.Accounts.VisibleItems(ctx, username, workTypeID)
	if err != nil {
		return nil, nil, err
	}
	tree, err := app.WorkItems.Tree(ctx, workTypeID)
	if err != nil {
		return nil, nil, err
	}

	var leaves []*domain.WorkItem
	paths := make(map[string]string)
	for _, w := range visible {
		if !tree.IsLeaf(w) {
			continue
		}
		leaves = append(leaves, w)
		paths[w.ID] = tree.DisplayPath(w.ID)
	}
	return leaves, paths, nil
}

// promptEntryDetails collects minutes and checklist state for one item,
// snapshotting the item's current target and checklist lines.
func promptEntryDetails(w *domain.WorkItem, label string) (domain.WorkItemEntry, error) {
	we := domain.WorkItemEntry{WorkItemID: w.ID, WorkTypeID: w.WorkTypeID}

	if w.Attribute == domain.AttributeCycleTime {
		we.TargetMinutes = w.TargetMinutes
		var raw string
		if err := minutesForm(label, w.TargetMinutes, &raw).Run(); err != nil {
			return we, err
		}
		if raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return we, fmt.Errorf("invalid minutes %q", raw)
			}
			we.Minutes = &v
		}
	}

	if len(w.Checklist) > 0 {
		var checked []string
		if err := checklistForm(label, w.Checklist, &checked).Run(); err != nil {
			return we, err
		}
		checkedSet := make(map[string]bool, len(checked))
		for _, c := range checked {
			checkedSet[c] = true
		}
		for _, line := range w.Checklist {
			we.Checklist = append(we.Checklist, domain.ChecklistMark{Name: line, Checked: checkedSet[line]})
		}
	}
	return we, nil
}

// fillReportFromFlags parses repeatable --entry project/item[=minutes]
// flags. Project and item accept the same identifiers the other commands
// resolve: id, id prefix, or name.
func fillReportFromFlags(ctx context.Context, app *App, rep *domain.DailyReport, entryFlags []string) error {
	byProject := make(map[string]*domain.ProjectEntry)
	var order []string

	for _, raw := range entryFlags {
		spec := raw
		var minutes *int
		if eq := strings.LastIndex(spec, "="); eq >= 0 {
			v, err := strconv.Atoi(spec[eq+1:])
			if err != nil || v < 0 {
				return fmt.Errorf("invalid minutes in entry %q", raw)
			}
			minutes = &v
			spec = spec[:eq]
		}
		slash := strings.Index(spec, "/")
		if slash <= 0 || slash == len(spec)-1 {
			return fmt.Errorf("invalid entry %q: want project/item[=minutes]", raw)
		}

		projectID, err := resolveProjectID(ctx, app, spec[:slash])
		if err != nil {
			return err
		}
		p, err := app.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		w, err := findProjectItem(ctx, app, p, spec[slash+1:])
		if err != nil {
			return err
		}

		we := domain.WorkItemEntry{WorkItemID: w.ID, WorkTypeID: w.WorkTypeID}
		if w.Attribute == domain.AttributeCycleTime {
			we.TargetMinutes = w.TargetMinutes
			we.Minutes = minutes
		} else if minutes != nil {
			return fmt.Errorf("item %q does not track minutes", w.Name)
		}
		for _, line := range w.Checklist {
			we.Checklist = append(we.Checklist, domain.ChecklistMark{Name: line, Checked: false})
		}

		pe, ok := byProject[projectID]
		if !ok {
			pe = &domain.ProjectEntry{ProjectID: projectID}
			byProject[projectID] = pe
			order = append(order, projectID)
		}
		pe.Items = append(pe.Items, we)
	}

	for _, pid := range order {
		rep.Projects = append(rep.Projects, *byProject[pid])
	}
	return nil
}

// findProjectItem resolves an item reference within any of the project's
// work types.
func findProjectItem(ctx context.Context, app *App, p *domain.Project, ref string) (*domain.WorkItem, error) {
	for _, wtID := range p.WorkTypeIDs {
		id, err := resolveItemID(ctx, app, wtID, ref)
		if err != nil {
			continue
		}
		return app.WorkItems.GetByID(ctx, id)
	}
	return nil, fmt.Errorf("item not found in project %q: %q", p.Name, ref)
}

func newReportRemoveCmd(app *App) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "rm <report-id>",
		Short: "Delete a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Reports.Delete(context.Background(), user, args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted report")
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "requesting user (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReportListCmd(app *App) *cobra.Command {
	var (
		requester string
		scope     string
		view      string
		byUser    string
		month     string
		level     string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse reports in one of four views",
		Long: `Browse reports. Views: timeline (flat, newest first), date (grouped by
calendar date), user (grouped per user, or a monthly presence calendar with
--month), project (per work type, items against project columns).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			req := service.ViewRequest{
				Requester: requester,
				Scope:     service.ReportScope(scope),
				User:      byUser,
			}
			if month != "" {
				ym, err := reporting.ParseYearMonth(month)
				if err != nil {
					return err
				}
				req.Month = &ym
			}
			gran, err := reporting.ParseGranularity(level)
			if err != nil {
				return err
			}
			req.Granularity = gran

			views, err := app.Reports.Views(ctx, req)
			if err != nil {
				return err
			}

			switch reporting.ViewMode(view) {
			case reporting.ViewTimeline:
				return renderTimeline(ctx, app, views.Timeline)
			case reporting.ViewByDate:
				return renderByDate(ctx, app, views.ByDate)
			case reporting.ViewByUser:
				return renderByUser(ctx, app, views.ByUser, req.Month)
			case reporting.ViewByProject:
				renderByProject(views.ByProject)
				return nil
			default:
				return fmt.Errorf("unknown view %q: want timeline, date, user, or project", view)
			}
		},
	}
	cmd.Flags().StringVar(&requester, "as", "", "requesting user (required)")
	cmd.Flags().StringVar(&scope, "scope", "own", "own or all (all requires the admin role)")
	cmd.Flags().StringVar(&view, "view", "timeline", "timeline, date, user, or project")
	cmd.Flags().StringVar(&byUser, "user", "", "user view: restrict to one user")
	cmd.Flags().StringVar(&month, "month", "", "user view: presence calendar for YYYY-MM")
	cmd.Flags().StringVar(&level, "level", "leaf", "project view granularity: leaf or 1..4")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// itemLabels builds a display-path lookup across every work type. Entries
// whose ids no longer resolve fall back to the unknown-item sentinel.
func itemLabels(ctx context.Context, app *App) (map[string]string, map[string]string, error) {
	types, err := app.WorkTypes.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	itemPaths := make(map[string]string)
	projectNames := make(map[string]string)
	for _, wt := range types {
		tree, err := app.WorkItems.Tree(ctx, wt.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, w := range tree.Items() {
			itemPaths[w.ID] = tree.DisplayPath(w.ID)
		}
	}
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}
	return itemPaths, projectNames, nil
}

func labelOr(m map[string]string, id string) string {
	if s, ok := m[id]; ok {
		return s
	}
	return hierarchy.UnknownItemLabel
}

func printReportBody(r *domain.DailyReport, itemPaths, projectNames map[string]string, indent string) {
	for _, pe := range r.Projects {
		fmt.Printf("%s%s\n", indent, formatter.Bold(labelOr(projectNames, pe.ProjectID)))
		for _, we := range pe.Items {
			line := indent + "  " + labelOr(itemPaths, we.WorkItemID)
			if we.Minutes != nil {
				detail := fmt.Sprintf("%dm", *we.Minutes)
				if we.TargetMinutes != nil {
					detail += fmt.Sprintf(" / %dm target", *we.TargetMinutes)
				}
				line += "  " + formatter.Dim(detail)
			}
			if n := len(we.Checklist); n > 0 {
				done := 0
				for _, c := range we.Checklist {
					if c.Checked {
						done++
					}
				}
				line += "  " + formatter.Dim(fmt.Sprintf("[%d/%d]", done, n))
			}
			fmt.Println(line)
		}
	}
}

func renderTimeline(ctx context.Context, app *App, reports []*domain.DailyReport) error {
	if len(reports) == 0 {
		fmt.Println(formatter.Dim("No reports."))
		return nil
	}
	itemPaths, projectNames, err := itemLabels(ctx, app)
	if err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Printf("%s  %s  %s\n", formatter.Header(r.DateString()), r.Username, formatter.Dim(shortID(r.ID)))
		printReportBody(r, itemPaths, projectNames, "  ")
	}
	return nil
}

func renderByDate(ctx context.Context, app *App, groups []reporting.DateGroup) error {
	if len(groups) == 0 {
		fmt.Println(formatter.Dim("No reports."))
		return nil
	}
	itemPaths, projectNames, err := itemLabels(ctx, app)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Println(formatter.Header(g.Date.Format(domain.DateLayout)))
		for _, r := range g.Reports {
			fmt.Printf("  %s  %s\n", formatter.Bold(r.Username), formatter.Dim(shortID(r.ID)))
			printReportBody(r, itemPaths, projectNames, "    ")
		}
	}
	return nil
}

func renderByUser(ctx context.Context, app *App, view reporting.UserView, month *reporting.YearMonth) error {
	if month != nil {
		renderCalendar(view.Calendar, *month)
		return nil
	}

	itemPaths, projectNames, err := itemLabels(ctx, app)
	if err != nil {
		return err
	}

	if view.Flat != nil {
		for _, r := range view.Flat {
			fmt.Printf("%s  %s\n", formatter.Header(r.DateString()), formatter.Dim(shortID(r.ID)))
			printReportBody(r, itemPaths, projectNames, "  ")
		}
		return nil
	}

	if len(view.Groups) == 0 {
		fmt.Println(formatter.Dim("No reports."))
		return nil
	}
	for _, g := range view.Groups {
		fmt.Println(formatter.Header(g.Username))
		for _, r := range g.Reports {
			fmt.Printf("  %s  %s\n", formatter.Bold(r.DateString()), formatter.Dim(shortID(r.ID)))
			printReportBody(r, itemPaths, projectNames, "    ")
		}
	}
	return nil
}

// renderCalendar prints one row per user with a mark on each day that
// carries a report.
func renderCalendar(calendar []reporting.UserPresence, ym reporting.YearMonth) {
	if len(calendar) == 0 {
		fmt.Println(formatter.Dim("No reports in that month."))
		return
	}
	daysInMonth := time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	headers := []string{"User"}
	for d := 1; d <= daysInMonth; d++ {
		headers = append(headers, strconv.Itoa(d))
	}
	rows := make([][]string, len(calendar))
	for i, up := range calendar {
		row := []string{up.Username}
		for d := 1; d <= daysInMonth; d++ {
			if up.Days[d] {
				row = append(row, formatter.Mark(true))
			} else {
				row = append(row, formatter.Mark(false))
			}
		}
		rows[i] = row
	}
	fmt.Printf("%s\n", formatter.Header(fmt.Sprintf("%d-%02d", ym.Year, int(ym.Month))))
	fmt.Print(formatter.RenderTable(headers, rows))
}

func renderByProject(panels []reporting.WorkTypePanel) {
	if len(panels) == 0 {
		fmt.Println(formatter.Dim("No work types with associated projects."))
		return
	}
	for _, panel := range panels {
		fmt.Println(formatter.Header(panel.WorkType.Name))

		headers := []string{"Item"}
		for _, p := range panel.Projects {
			headers = append(headers, p.Name)
		}
		rows := make([][]string, len(panel.Rows))
		for i, row := range panel.Rows {
			cells := []string{row.DisplayPath}
			for _, c := range row.Cells {
				cells = append(cells, formatter.PresenceMark(c.Present, formatDates(c.Dates)))
			}
			rows[i] = cells
		}
		fmt.Print(formatter.RenderTable(headers, rows))
	}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("01/02")
	}
	sort.Strings(out)
	return out
}
