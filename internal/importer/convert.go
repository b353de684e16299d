package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/domain"
)

// MasterData holds converted domain objects ready for persistence, in
// file order.
type MasterData struct {
	Categories []string
	WorkTypes  []*domain.WorkType
	Items      []*domain.WorkItem
	Projects   []*domain.Project
	Accounts   []*domain.Account
}

// Convert transforms a validated ImportSchema into domain objects.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) *MasterData {
	now := time.Now().UTC()
	data := &MasterData{Categories: schema.Categories}

	typeIDs := make(map[string]string) // work type name -> id

	for pos, wti := range schema.WorkTypes {
		wt := &domain.WorkType{
			ID:        uuid.New().String(),
			Name:      wti.Name,
			Position:  pos,
			CreatedAt: now,
			UpdatedAt: now,
		}
		typeIDs[wt.Name] = wt.ID
		data.WorkTypes = append(data.WorkTypes, wt)

		refs := make(map[string]*domain.WorkItem) // ref -> converted item
		for i, ii := range wti.Items {
			w := &domain.WorkItem{
				ID:            uuid.New().String(),
				WorkTypeID:    wt.ID,
				Name:          ii.Name,
				Level:         1,
				LeafOverride:  ii.Leaf,
				Attribute:     domain.Attribute(ii.Attribute),
				TargetMinutes: ii.TargetMinutes,
				Checklist:     ii.Checklist,
				Method:        ii.Method,
				Categories:    ii.Categories,
				Position:      i,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if ii.ParentRef != nil && *ii.ParentRef != "" {
				parent := refs[*ii.ParentRef]
				w.ParentID = &parent.ID
				w.Level = parent.Level + 1
			}
			if ii.InternalLeadtime != nil {
				w.InternalLeadtime = true
				if ref := ii.InternalLeadtime.PredecessorRef; ref != "" {
					w.InternalLeadtimeItems = []string{refs[ref].ID}
				}
			}
			if ii.ExternalLeadtime != nil {
				w.ExternalLeadtime = true
				if ref := ii.ExternalLeadtime.PredecessorRef; ref != "" {
					w.ExternalLeadtimeItems = []string{refs[ref].ID}
				}
			}
			refs[ii.Ref] = w
			data.Items = append(data.Items, w)
		}
	}

	for pos, pi := range schema.Projects {
		status := domain.ProjectStatus(pi.Status)
		if pi.Status == "" {
			status = domain.ProjectNotStarted
		}
		ids := make([]string, len(pi.WorkTypes))
		for i, name := range pi.WorkTypes {
			ids[i] = typeIDs[name]
		}
		data.Projects = append(data.Projects, &domain.Project{
			ID:          uuid.New().String(),
			Name:        pi.Name,
			Status:      status,
			WorkTypeIDs: ids,
			Position:    pos,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, ai := range schema.Accounts {
		role := domain.Role(ai.Role)
		if ai.Role == "" {
			role = domain.RoleUser
		}
		data.Accounts = append(data.Accounts, &domain.Account{
			Username:   ai.Username,
			Password:   ai.Password,
			Role:       role,
			Categories: ai.Categories,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	return data
}
