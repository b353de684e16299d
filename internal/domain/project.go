package domain

import "time"

// Project is a tracked job that daily reports record work against.
// WorkTypeIDs lists the processes the project participates in; a project
// appears under each of them in the by-project report view.
type Project struct {
	ID          string
	Name        string
	Status      ProjectStatus
	WorkTypeIDs []string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasWorkType reports whether the project is associated with the work type.
func (p *Project) HasWorkType(workTypeID string) bool {
	for _, id := range p.WorkTypeIDs {
		if id == workTypeID {
			return true
		}
	}
	return false
}
