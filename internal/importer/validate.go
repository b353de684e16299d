package importer

import (
	"fmt"

	"github.com/knaito/nippo/internal/domain"
)

var validRoles = map[string]bool{"": true, "user": true, "admin": true}

// ValidateImportSchema checks the import schema before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateCategories(schema.Categories)...)

	typeNames := make(map[string]bool)
	for i, wt := range schema.WorkTypes {
		errs = append(errs, validateWorkType(i, &wt, typeNames)...)
	}

	errs = append(errs, validateProjects(schema.Projects, typeNames)...)
	errs = append(errs, validateAccounts(schema.Accounts)...)

	return errs
}

func validateCategories(names []string) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, name := range names {
		if name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
	}
	return errs
}

func validateWorkType(idx int, wt *WorkTypeImport, typeNames map[string]bool) []error {
	var errs []error
	where := fmt.Sprintf("work_types[%d]", idx)

	if wt.Name == "" {
		errs = append(errs, fmt.Errorf("%s: name is required", where))
	} else if typeNames[wt.Name] {
		errs = append(errs, fmt.Errorf("%s: duplicate work type name %q", where, wt.Name))
	}
	typeNames[wt.Name] = true

	// Level is derived while walking: parent_ref must point backwards.
	levels := make(map[string]int)
	for i, item := range wt.Items {
		iw := fmt.Sprintf("%s.items[%d]", where, i)

		if item.Ref == "" {
			errs = append(errs, fmt.Errorf("%s: ref is required", iw))
		} else if _, dup := levels[item.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate ref %q", iw, item.Ref))
		}
		if item.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", iw))
		}
		if !domain.ValidAttributes[item.Attribute] {
			errs = append(errs, fmt.Errorf("%s: invalid attribute %q", iw, item.Attribute))
		}
		if item.TargetMinutes != nil {
			if item.Attribute != string(domain.AttributeCycleTime) {
				errs = append(errs, fmt.Errorf("%s: target_minutes requires the cycle_time attribute", iw))
			} else if *item.TargetMinutes < 0 {
				errs = append(errs, fmt.Errorf("%s: target_minutes must not be negative", iw))
			}
		}

		level := 1
		if item.ParentRef != nil && *item.ParentRef != "" {
			parentLevel, ok := levels[*item.ParentRef]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: parent_ref %q does not name an earlier item", iw, *item.ParentRef))
			} else if parentLevel >= domain.MaxLevel {
				errs = append(errs, fmt.Errorf("%s: parent %q is already at the deepest level %d", iw, *item.ParentRef, domain.MaxLevel))
			} else {
				level = parentLevel + 1
			}
		}
		if item.Ref != "" {
			levels[item.Ref] = level
		}

		for _, lt := range []struct {
			name string
			def  *LeadtimeImport
		}{{"internal_leadtime", item.InternalLeadtime}, {"external_leadtime", item.ExternalLeadtime}} {
			if lt.def == nil || lt.def.PredecessorRef == "" {
				continue
			}
			if _, ok := levels[lt.def.PredecessorRef]; !ok {
				errs = append(errs, fmt.Errorf("%s: %s.predecessor_ref %q does not name an earlier item", iw, lt.name, lt.def.PredecessorRef))
			}
		}
	}
	return errs
}

func validateProjects(projects []ProjectImport, typeNames map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, p := range projects {
		where := fmt.Sprintf("projects[%d]", i)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		} else if seen[p.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate project name %q", where, p.Name))
		}
		seen[p.Name] = true

		if p.Status != "" && !domain.ValidProjectStatuses[p.Status] {
			errs = append(errs, fmt.Errorf("%s: invalid status %q", where, p.Status))
		}
		if len(p.WorkTypes) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one work type is required", where))
		}
		for _, name := range p.WorkTypes {
			if !typeNames[name] {
				errs = append(errs, fmt.Errorf("%s: unknown work type %q", where, name))
			}
		}
	}
	return errs
}

func validateAccounts(accounts []AccountImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, a := range accounts {
		where := fmt.Sprintf("accounts[%d]", i)
		if a.Username == "" {
			errs = append(errs, fmt.Errorf("%s: username is required", where))
		} else if seen[a.Username] {
			errs = append(errs, fmt.Errorf("%s: duplicate username %q", where, a.Username))
		}
		seen[a.Username] = true

		if a.Username == domain.AdminUsername {
			errs = append(errs, fmt.Errorf("%s: username %q is reserved", where, domain.AdminUsername))
		}
		if a.Password == "" {
			errs = append(errs, fmt.Errorf("%s: password is required", where))
		}
		if !validRoles[a.Role] {
			errs = append(errs, fmt.Errorf("%s: invalid role %q", where, a.Role))
		}
	}
	return errs
}
