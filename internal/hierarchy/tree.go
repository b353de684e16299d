package hierarchy

import (
	"sort"

	"github.com/knaito/nippo/internal/domain"
)

// UnknownItemLabel is the sentinel display name for ids that no longer
// resolve (e.g. a report entry referencing a deleted item).
const UnknownItemLabel = "unknown item"

// PathSeparator joins ancestor names in display paths.
const PathSeparator = " > "

// Tree is the queryable form of one work type's flat work-item list.
// The flat (registration) order is preserved in items, in every children
// slice, and in the index map; it encodes the process sequence.
type Tree struct {
	items    []*domain.WorkItem
	byID     map[string]*domain.WorkItem
	index    map[string]int
	children map[string][]*domain.WorkItem // key "" holds the roots
	paths    map[string][]string           // id -> root-to-self id path
}

func parentKey(w *domain.WorkItem) string {
	if w.ParentID == nil {
		return ""
	}
	return *w.ParentID
}

// Build normalizes a flat list into a Tree. It fails with *ValidationError
// on a dangling parent reference or a level inconsistent with the parent's
// level + 1, and with *CycleDetectedError if a parent chain does not reach
// a root within MaxLevel steps. Multiple level-1 roots are fine: the result
// is a forest.
func Build(items []*domain.WorkItem) (*Tree, error) {
	t := &Tree{
		items:    items,
		byID:     make(map[string]*domain.WorkItem, len(items)),
		index:    make(map[string]int, len(items)),
		children: make(map[string][]*domain.WorkItem),
		paths:    make(map[string][]string, len(items)),
	}

	for i, w := range items {
		t.byID[w.ID] = w
		t.index[w.ID] = i
	}

	for _, w := range items {
		if w.ParentID == nil {
			if w.Level != 1 {
				return nil, &ValidationError{ItemID: w.ID, Reason: "root item must have level 1"}
			}
		} else {
			parent, ok := t.byID[*w.ParentID]
			if !ok {
				return nil, &ValidationError{ItemID: w.ID, Reason: "parent does not resolve within the list"}
			}
			if w.Level != parent.Level+1 {
				return nil, &ValidationError{ItemID: w.ID, Reason: "level is not parent's level + 1"}
			}
		}
		if w.Level < 1 || w.Level > domain.MaxLevel {
			return nil, &ValidationError{ItemID: w.ID, Reason: "level out of range"}
		}
		t.children[parentKey(w)] = append(t.children[parentKey(w)], w)
	}

	for _, w := range items {
		path, err := t.walkPath(w.ID)
		if err != nil {
			return nil, err
		}
		t.paths[w.ID] = path
	}

	return t, nil
}

// walkPath follows parent pointers root-ward, bounded by MaxLevel steps.
func (t *Tree) walkPath(id string) ([]string, error) {
	path := make([]string, 0, domain.MaxLevel)
	cur, ok := t.byID[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	for steps := 0; ; steps++ {
		if steps >= domain.MaxLevel {
			return nil, &CycleDetectedError{ID: id}
		}
		path = append([]string{cur.ID}, path...)
		if cur.ParentID == nil {
			return path, nil
		}
		next, ok := t.byID[*cur.ParentID]
		if !ok {
			return nil, &ValidationError{ItemID: cur.ID, Reason: "parent does not resolve within the list"}
		}
		cur = next
	}
}

// Items returns the flat list in registration order.
func (t *Tree) Items() []*domain.WorkItem {
	return t.items
}

// Get looks up an item by id.
func (t *Tree) Get(id string) (*domain.WorkItem, bool) {
	w, ok := t.byID[id]
	return w, ok
}

// IndexOf returns the item's registration index, or -1 if absent.
func (t *Tree) IndexOf(id string) int {
	if i, ok := t.index[id]; ok {
		return i
	}
	return -1
}

// Children returns the direct children of nodeID in registration order.
// An unknown id yields an empty slice, not an error.
func (t *Tree) Children(nodeID string) []*domain.WorkItem {
	return t.children[nodeID]
}

// Roots returns the level-1 items in registration order.
func (t *Tree) Roots() []*domain.WorkItem {
	return t.children[""]
}

// IsLeaf reports whether the item is a leaf: the explicit override when
// recorded, otherwise "has no children".
func (t *Tree) IsLeaf(w *domain.WorkItem) bool {
	if w.HasLeafOverride() {
		return *w.LeafOverride
	}
	return len(t.children[w.ID]) == 0
}

// AncestorPath returns the root-to-node chain inclusive. It fails with
// *NotFoundError for an unknown id; a cycle surfaces as *CycleDetectedError
// from the bounded walk (possible only on trees built before the data was
// corrupted in place).
func (t *Tree) AncestorPath(nodeID string) ([]*domain.WorkItem, error) {
	ids, err := t.walkPath(nodeID)
	if err != nil {
		return nil, err
	}
	path := make([]*domain.WorkItem, len(ids))
	for i, id := range ids {
		path[i] = t.byID[id]
	}
	return path, nil
}

// DisplayPath returns the node's ancestor names joined by PathSeparator,
// or UnknownItemLabel when the id does not resolve.
func (t *Tree) DisplayPath(nodeID string) string {
	ids, ok := t.paths[nodeID]
	if !ok {
		return UnknownItemLabel
	}
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += PathSeparator
		}
		s += t.byID[id].Name
	}
	return s
}

// Less is the single hierarchical-sort comparator: items order by their
// root-to-self paths compared position-by-position using registration
// indexes, with the shallower item first when one path prefixes the other.
// Every display/ordering call site goes through it.
func (t *Tree) Less(a, b *domain.WorkItem) bool {
	pa, pb := t.paths[a.ID], t.paths[b.ID]
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if pa[i] != pb[i] {
			return t.index[pa[i]] < t.index[pb[i]]
		}
	}
	return len(pa) < len(pb)
}

// SortItems stable-sorts items in place by the hierarchical comparator.
func (t *Tree) SortItems(items []*domain.WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return t.Less(items[i], items[j])
	})
}

// DepthFirstOrder returns all items in canonical hierarchical display
// order: depth-first, siblings in registration order.
func (t *Tree) DepthFirstOrder() []*domain.WorkItem {
	out := make([]*domain.WorkItem, len(t.items))
	copy(out, t.items)
	t.SortItems(out)
	return out
}

// DescendantLeaves collects the leaves under nodeID depth-first in
// registration child order. A leaf returns itself; an unknown id returns
// an empty slice.
func (t *Tree) DescendantLeaves(nodeID string) []*domain.WorkItem {
	w, ok := t.byID[nodeID]
	if !ok {
		return nil
	}
	if t.IsLeaf(w) {
		return []*domain.WorkItem{w}
	}
	var leaves []*domain.WorkItem
	for _, child := range t.children[nodeID] {
		leaves = append(leaves, t.DescendantLeaves(child.ID)...)
	}
	return leaves
}

// DescendantIDs collects every id strictly below nodeID, children before
// their own subtrees, in registration child order. Cascade deletion removes
// these together with the node itself in one atomic operation.
func (t *Tree) DescendantIDs(nodeID string) []string {
	var ids []string
	for _, child := range t.children[nodeID] {
		ids = append(ids, child.ID)
		ids = append(ids, t.DescendantIDs(child.ID)...)
	}
	return ids
}
