package domain

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "not_started"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectDone       ProjectStatus = "done"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"not_started": true, "in_progress": true, "done": true,
}

// Attribute governs whether a work item tracks a numeric duration.
// Only cycle_time items carry a target-minutes value.
type Attribute string

const (
	AttributeNone      Attribute = ""
	AttributeCycleTime Attribute = "cycle_time"
	AttributeTiming    Attribute = "timing"
)

// ValidAttributes is the canonical set of accepted attribute strings.
var ValidAttributes = map[string]bool{
	"": true, "cycle_time": true, "timing": true,
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// AdminUsername is the built-in administrative account. It cannot be
// deleted, is excluded from the by-user report groupings, and cannot
// author daily reports.
const AdminUsername = "admin"

// CategoryAll is the wildcard category granting visibility over every
// work item regardless of its category assignments.
const CategoryAll = "all"
