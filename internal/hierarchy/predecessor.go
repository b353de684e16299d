package hierarchy

import "github.com/knaito/nippo/internal/domain"

// Predecessor is a leaf item usable as a lead-time dependency target.
type Predecessor struct {
	ID          string
	DisplayPath string
}

// sameParent reports whether two items share a parent (both roots counts).
func sameParent(a, b *domain.WorkItem) bool {
	if (a.ParentID == nil) != (b.ParentID == nil) {
		return false
	}
	if a.ParentID == nil {
		return true
	}
	return *a.ParentID == *b.ParentID
}

// siblingIndex returns w's position among the children of its parent.
func (t *Tree) siblingIndex(w *domain.WorkItem) int {
	for i, s := range t.children[parentKey(w)] {
		if s.ID == w.ID {
			return i
		}
	}
	return -1
}

// Candidates computes the ordered lead-time predecessor candidates for the
// item: leaves that are earlier siblings, leaves registered earlier in any
// other subtree, and descendant leaves of either kind of earlier item.
// The last rule can admit leaves registered later than the item when they
// hang under an earlier subtree; that matches the observed dropdown
// behavior and is kept deliberately.
//
// The result is ordered by the hierarchical comparator. Candidates never
// errors: an unknown id yields nil, and a non-leaf input still resolves by
// position (callers restrict use to leaves).
func (t *Tree) Candidates(itemID string) []Predecessor {
	item, ok := t.byID[itemID]
	if !ok {
		return nil
	}
	currentIndex := t.index[itemID]
	currentSibling := t.siblingIndex(item)

	// Earlier items by sibling order or raw registration order.
	previous := make(map[string]bool)
	for idx, wi := range t.items {
		if wi.ID == itemID {
			continue
		}
		if sameParent(wi, item) {
			if t.siblingIndex(wi) < currentSibling {
				previous[wi.ID] = true
			}
		} else if idx < currentIndex {
			previous[wi.ID] = true
		}
	}

	// Leaves inherited from earlier subtrees.
	inherited := make(map[string]bool)
	for id := range previous {
		for _, leaf := range t.DescendantLeaves(id) {
			inherited[leaf.ID] = true
		}
	}

	var leaves []*domain.WorkItem
	for idx, wi := range t.items {
		if wi.ID == itemID || !t.IsLeaf(wi) {
			continue
		}
		qualifies := inherited[wi.ID]
		if !qualifies {
			if sameParent(wi, item) {
				qualifies = t.siblingIndex(wi) < currentSibling
			} else {
				qualifies = idx < currentIndex
			}
		}
		if qualifies {
			leaves = append(leaves, wi)
		}
	}

	t.SortItems(leaves)
	out := make([]Predecessor, len(leaves))
	for i, leaf := range leaves {
		out[i] = Predecessor{ID: leaf.ID, DisplayPath: t.DisplayPath(leaf.ID)}
	}
	return out
}

// ImmediatePrevious returns the nearest leaf before the item by plain
// reverse registration scan, ignoring hierarchy. It backs the lead-time
// auto-fill default and is intentionally a different algorithm from
// Candidates: the two are independently user-visible and must not be
// unified.
func (t *Tree) ImmediatePrevious(itemID string) (Predecessor, bool) {
	idx, ok := t.index[itemID]
	if !ok {
		return Predecessor{}, false
	}
	for i := idx - 1; i >= 0; i-- {
		wi := t.items[i]
		if t.IsLeaf(wi) {
			return Predecessor{ID: wi.ID, DisplayPath: t.DisplayPath(wi.ID)}, true
		}
	}
	return Predecessor{}, false
}
