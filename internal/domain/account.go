package domain

import "time"

// Account is a login identity. Categories scopes which work items a regular
// user sees; CategoryAll (or an admin role) grants full visibility.
type Account struct {
	Username   string
	Password   string
	Role       Role
	Categories []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanSeeAll reports whether the account's category scope covers every item.
func (a *Account) CanSeeAll() bool {
	if a.IsAdmin() {
		return true
	}
	for _, c := range a.Categories {
		if c == CategoryAll {
			return true
		}
	}
	return false
}
