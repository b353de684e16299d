package domain

import "time"

// DateLayout is the calendar-date format used throughout; reports carry no
// time component.
const DateLayout = "2006-01-02"

// DailyReport is a dated record of one user's work across projects.
type DailyReport struct {
	ID        string
	Username  string
	Date      time.Time // calendar date, truncated to midnight UTC
	Projects  []ProjectEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectEntry groups a report's work-item entries under one project.
type ProjectEntry struct {
	ProjectID string
	Items     []WorkItemEntry
}

// WorkItemEntry records activity on a single leaf work item. Minutes is
// present only when the referenced item's attribute is cycle_time;
// TargetMinutes is a snapshot taken at entry time and may diverge from the
// current master value.
type WorkItemEntry struct {
	WorkItemID    string
	WorkTypeID    string
	Minutes       *int
	TargetMinutes *int
	Checklist     []ChecklistMark
}

// ChecklistMark is a snapshot of one checklist line and its checked state.
type ChecklistMark struct {
	Name    string
	Checked bool
}

// DateString returns the report date in DateLayout form.
func (r *DailyReport) DateString() string {
	return r.Date.Format(DateLayout)
}
