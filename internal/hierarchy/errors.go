package hierarchy

import "fmt"

// ValidationError reports a malformed flat list: a dangling parent
// reference or a level inconsistent with the parent's. Build fails fast
// with it rather than rendering a partial tree.
type ValidationError struct {
	ItemID string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("work item %s: %s", e.ItemID, e.Reason)
}

// NotFoundError reports a single-entity lookup against an id the tree does
// not contain.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("work item not found: %s", e.ID)
}

// CycleDetectedError reports a parent-chain walk that exceeded the maximum
// depth without reaching a root. It indicates corrupt data.
type CycleDetectedError struct {
	ID string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("parent chain of work item %s exceeds max depth; cycle suspected", e.ID)
}
