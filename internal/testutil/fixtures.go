package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/domain"
)

// WorkType options
type WorkTypeOption func(*domain.WorkType)

func WithWorkTypePosition(p int) WorkTypeOption {
	return func(w *domain.WorkType) {
		w.Position = p
	}
}

func NewTestWorkType(name string, opts ...WorkTypeOption) *domain.WorkType {
	now := time.Now().UTC()
	w := &domain.WorkType{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithParent(parent *domain.WorkItem) WorkItemOption {
	return func(w *domain.WorkItem) {
		id := parent.ID
		w.ParentID = &id
		w.Level = parent.Level + 1
	}
}

func WithLeafOverride(leaf bool) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.LeafOverride = &leaf
	}
}

func WithCycleTime(targetMinutes int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Attribute = domain.AttributeCycleTime
		w.TargetMinutes = &targetMinutes
	}
}

func WithTiming() WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Attribute = domain.AttributeTiming
	}
}

func WithChecklist(lines ...string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Checklist = lines
	}
}

func WithMethod(lines ...string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Method = lines
	}
}

func WithItemCategories(cats ...string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Categories = cats
	}
}

func WithInternalLeadtime(predecessorID string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.InternalLeadtime = true
		w.InternalLeadtimeItems = []string{predecessorID}
	}
}

func WithExternalLeadtime(predecessorID string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.ExternalLeadtime = true
		w.ExternalLeadtimeItems = []string{predecessorID}
	}
}

func WithPosition(p int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Position = p
	}
}

// NewTestWorkItem builds a level-1 root item unless WithParent overrides it.
func NewTestWorkItem(workTypeID, name string, opts ...WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC()
	w := &domain.WorkItem{
		ID:         uuid.New().String(),
		WorkTypeID: workTypeID,
		Name:       name,
		Level:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectPosition(pos int) ProjectOption {
	return func(p *domain.Project) {
		p.Position = pos
	}
}

func NewTestProject(name string, workTypeIDs []string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Status:      domain.ProjectNotStarted,
		WorkTypeIDs: workTypeIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Account options
type AccountOption func(*domain.Account)

func WithRole(r domain.Role) AccountOption {
	return func(a *domain.Account) {
		a.Role = r
	}
}

func WithCategories(cats ...string) AccountOption {
	return func(a *domain.Account) {
		a.Categories = cats
	}
}

func NewTestAccount(username string, opts ...AccountOption) *domain.Account {
	now := time.Now().UTC()
	a := &domain.Account{
		Username:  username,
		Password:  "secret",
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Report options
type ReportOption func(*domain.DailyReport)

func WithEntry(projectID string, items ...domain.WorkItemEntry) ReportOption {
	return func(r *domain.DailyReport) {
		r.Projects = append(r.Projects, domain.ProjectEntry{ProjectID: projectID, Items: items})
	}
}

func NewTestReport(username string, date time.Time, opts ...ReportOption) *domain.DailyReport {
	now := time.Now().UTC()
	r := &domain.DailyReport{
		ID:        uuid.New().String(),
		Username:  username,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestEntry builds a report entry snapshotting the item's target and
// checklist the way the report form does.
func NewTestEntry(item *domain.WorkItem, minutes *int) domain.WorkItemEntry {
	e := domain.WorkItemEntry{
		WorkItemID: item.ID,
		WorkTypeID: item.WorkTypeID,
		Minutes:    minutes,
	}
	if item.TargetMinutes != nil {
		target := *item.TargetMinutes
		e.TargetMinutes = &target
	}
	for _, line := range item.Checklist {
		e.Checklist = append(e.Checklist, domain.ChecklistMark{Name: line})
	}
	return e
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// Date builds a UTC calendar date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
