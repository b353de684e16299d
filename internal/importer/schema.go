package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for a master-data import.
// It seeds work types with their item trees, plus optional job categories,
// accounts, and projects. Daily reports are never imported.
type ImportSchema struct {
	Categories []string         `json:"categories,omitempty"`
	WorkTypes  []WorkTypeImport `json:"work_types"`
	Projects   []ProjectImport  `json:"projects,omitempty"`
	Accounts   []AccountImport  `json:"accounts,omitempty"`
}

// WorkTypeImport defines one work type and its items. Item order in the
// file is the registration order.
type WorkTypeImport struct {
	Name  string       `json:"name"`
	Items []ItemImport `json:"items,omitempty"`
}

// ItemImport defines one work item. Ref names the item within the file so
// later items can point at it; ParentRef must reference an item that
// appears earlier in the same work type.
type ItemImport struct {
	Ref           string   `json:"ref"`
	ParentRef     *string  `json:"parent_ref,omitempty"`
	Name          string   `json:"name"`
	Attribute     string   `json:"attribute,omitempty"`
	TargetMinutes *int     `json:"target_minutes,omitempty"`
	Checklist     []string `json:"checklist,omitempty"`
	Method        []string `json:"method,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Leaf          *bool    `json:"leaf,omitempty"`

	// Lead-time flags; predecessor refs must resolve within the work type.
	InternalLeadtime *LeadtimeImport `json:"internal_leadtime,omitempty"`
	ExternalLeadtime *LeadtimeImport `json:"external_leadtime,omitempty"`
}

// LeadtimeImport enables one lead-time flag, optionally naming an explicit
// predecessor. An empty predecessor defers to the immediate-previous default.
type LeadtimeImport struct {
	PredecessorRef string `json:"predecessor_ref,omitempty"`
}

// ProjectImport defines a project by name against work types named earlier
// in the same file.
type ProjectImport struct {
	Name      string   `json:"name"`
	Status    string   `json:"status,omitempty"`
	WorkTypes []string `json:"work_types"`
}

// AccountImport defines a login account.
type AccountImport struct {
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Role       string   `json:"role,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// LoadImportSchema reads and parses a master-data import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
