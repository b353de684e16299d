package reporting

import (
	"sort"
	"time"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
)

// ActivityIndex buckets report activity by project, then work item, then
// the dates it was reported on. Duplicate dates are kept: several entries
// for the same leaf on one day are distinct activity.
type ActivityIndex map[string]map[string][]time.Time

// ActivityByProject scans every work-item entry across the reports and
// indexes those belonging to the given work type. Entries under other work
// types are excluded from this index but contribute to their own when
// queried separately. Reports without project entries contribute nothing.
func ActivityByProject(reports []*domain.DailyReport, workTypeID string) ActivityIndex {
	index := make(ActivityIndex)
	for _, r := range reports {
		for _, pe := range r.Projects {
			for _, we := range pe.Items {
				if we.WorkTypeID != workTypeID {
					continue
				}
				byItem, ok := index[pe.ProjectID]
				if !ok {
					byItem = make(map[string][]time.Time)
					index[pe.ProjectID] = byItem
				}
				byItem[we.WorkItemID] = append(byItem[we.WorkItemID], r.Date)
			}
		}
	}
	return index
}

// Activity is the result of a rollup query: whether any activity exists and
// the deduplicated, ascending set of dates it happened on.
type Activity struct {
	Present bool
	Dates   []time.Time
}

// HasActivity reports whether the item itself, or any of its descendant
// leaves, has entries under the project in the index. Leaf-level activity
// therefore satisfies queries made at any ancestor level. Dates are the
// set-union across the item and its matching descendants.
func HasActivity(workItemID, projectID string, index ActivityIndex, tree *hierarchy.Tree) Activity {
	byItem := index[projectID]
	if byItem == nil {
		return Activity{}
	}

	seen := make(map[string]time.Time)
	collect := func(id string) {
		for _, d := range byItem[id] {
			seen[d.Format(domain.DateLayout)] = d
		}
	}

	collect(workItemID)
	for _, leaf := range tree.DescendantLeaves(workItemID) {
		if leaf.ID != workItemID {
			collect(leaf.ID)
		}
	}

	if len(seen) == 0 {
		return Activity{}
	}
	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return Activity{Present: true, Dates: dates}
}

// DateGroup holds the reports of one calendar date.
type DateGroup struct {
	Date    time.Time
	Reports []*domain.DailyReport
}

// GroupByDate groups reports by calendar date, newest date first. Report
// order within a date follows the input order.
func GroupByDate(reports []*domain.DailyReport) []DateGroup {
	byDate := make(map[string]*DateGroup)
	var keys []string
	for _, r := range reports {
		k := r.DateString()
		g, ok := byDate[k]
		if !ok {
			g = &DateGroup{Date: r.Date}
			byDate[k] = g
			keys = append(keys, k)
		}
		g.Reports = append(g.Reports, r)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	groups := make([]DateGroup, len(keys))
	for i, k := range keys {
		groups[i] = *byDate[k]
	}
	return groups
}

// UserGroup holds one user's reports, newest first.
type UserGroup struct {
	Username string
	Reports  []*domain.DailyReport
}

func excluded(username string, exclude []string) bool {
	for _, e := range exclude {
		if e == username {
			return true
		}
	}
	return false
}

// GroupByUser groups reports per user, users alphabetically, each user's
// reports sorted by date descending. Callers typically exclude the
// administrative account.
func GroupByUser(reports []*domain.DailyReport, exclude []string) []UserGroup {
	byUser := make(map[string][]*domain.DailyReport)
	var users []string
	for _, r := range reports {
		if excluded(r.Username, exclude) {
			continue
		}
		if _, ok := byUser[r.Username]; !ok {
			users = append(users, r.Username)
		}
		byUser[r.Username] = append(byUser[r.Username], r)
	}
	sort.Strings(users)

	groups := make([]UserGroup, len(users))
	for i, u := range users {
		rs := byUser[u]
		sort.SliceStable(rs, func(a, b int) bool { return rs[a].Date.After(rs[b].Date) })
		groups[i] = UserGroup{Username: u, Reports: rs}
	}
	return groups
}

// UserPresence marks which days of one month carry at least one report for
// a user. Duplicate reports on a day collapse to a single marker.
type UserPresence struct {
	Username string
	Days     map[int]bool
}

// CalendarPresence computes per-user day-of-month presence for the given
// month, users alphabetically.
func CalendarPresence(reports []*domain.DailyReport, year int, month time.Month, exclude []string) []UserPresence {
	byUser := make(map[string]map[int]bool)
	var users []string
	for _, r := range reports {
		if excluded(r.Username, exclude) {
			continue
		}
		if r.Date.Year() != year || r.Date.Month() != month {
			continue
		}
		days, ok := byUser[r.Username]
		if !ok {
			days = make(map[int]bool)
			byUser[r.Username] = days
			users = append(users, r.Username)
		}
		days[r.Date.Day()] = true
	}
	sort.Strings(users)

	out := make([]UserPresence, len(users))
	for i, u := range users {
		out[i] = UserPresence{Username: u, Days: byUser[u]}
	}
	return out
}
