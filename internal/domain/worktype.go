package domain

import "time"

// WorkType is a named process owning its own work-item forest.
type WorkType struct {
	ID        string
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobCategory is an ordered label work is attributed to. The whole ordered
// list is authoritative: saves replace it wholesale.
type JobCategory struct {
	Name     string
	Position int
}
