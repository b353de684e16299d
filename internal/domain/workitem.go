package domain

import "time"

// MaxLevel is the deepest level a work-item tree may reach.
const MaxLevel = 4

// WorkItem is a node in a work type's ≤4-level item tree. Position is the
// registration order within the work type; it is the semantic backbone of
// the process sequence and must be preserved by every listing.
type WorkItem struct {
	ID         string
	WorkTypeID string
	Name       string
	Level      int     // 1..MaxLevel; parent's level + 1
	ParentID   *string // nil for level-1 nodes

	// LeafOverride, when set, wins over the derived "has no children" check.
	LeafOverride *bool

	Attribute     Attribute
	TargetMinutes *int // meaningful only when Attribute == AttributeCycleTime

	Checklist  []string
	Method     []string
	Categories []string

	// Lead-time tracking relative to a predecessor leaf. The item slices
	// hold at most one predecessor id each; they are slices for forward
	// compatibility with multi-predecessor lead times.
	InternalLeadtime      bool
	ExternalLeadtime      bool
	InternalLeadtimeItems []string
	ExternalLeadtimeItems []string

	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLeafOverride reports whether an explicit leaf flag was recorded.
func (w *WorkItem) HasLeafOverride() bool {
	return w.LeafOverride != nil
}
