package hierarchy

import "github.com/knaito/nippo/internal/domain"

func categoriesIntersect(itemCats, userCats []string) bool {
	if len(itemCats) == 0 {
		return true
	}
	for _, uc := range userCats {
		for _, ic := range itemCats {
			if uc == ic {
				return true
			}
		}
	}
	return false
}

// accessibleLeafBelow reports whether the subtree rooted at id contains a
// leaf whose categories admit the user.
func (t *Tree) accessibleLeafBelow(id string, userCats []string) bool {
	w, ok := t.byID[id]
	if !ok {
		return false
	}
	if t.IsLeaf(w) {
		return categoriesIntersect(w.Categories, userCats)
	}
	for _, child := range t.children[id] {
		if t.accessibleLeafBelow(child.ID, userCats) {
			return true
		}
	}
	return false
}

// FilterForCategories returns, in registration order, the items a user with
// the given job categories may see: leaves whose categories intersect the
// user's (uncategorized leaves are visible to everyone), plus any ancestor
// with at least one such leaf below it. Admins and "all"-scoped users skip
// this filter entirely.
func (t *Tree) FilterForCategories(userCats []string) []*domain.WorkItem {
	var visible []*domain.WorkItem
	for _, w := range t.items {
		if t.IsLeaf(w) {
			if categoriesIntersect(w.Categories, userCats) {
				visible = append(visible, w)
			}
		} else if t.accessibleLeafBelow(w.ID, userCats) {
			visible = append(visible, w)
		}
	}
	return visible
}
