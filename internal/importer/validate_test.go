package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func validSchema() *ImportSchema {
	return &ImportSchema{
		Categories: []string{"design", "audit"},
		WorkTypes: []WorkTypeImport{
			{
				Name: "assembly",
				Items: []ItemImport{
					{Ref: "prep", Name: "Preparation"},
					{Ref: "prep-clean", ParentRef: strPtr("prep"), Name: "Cleaning",
						Attribute: "cycle_time", TargetMinutes: intPtr(30)},
					{Ref: "inspect", Name: "Inspection",
						ExternalLeadtime: &LeadtimeImport{PredecessorRef: "prep-clean"}},
				},
			},
		},
		Projects: []ProjectImport{
			{Name: "Line A", Status: "in_progress", WorkTypes: []string{"assembly"}},
		},
		Accounts: []AccountImport{
			{Username: "alice", Password: "secret", Role: "user", Categories: []string{"design"}},
		},
	}
}

func TestValidateImportSchema_Valid(t *testing.T) {
	errs := ValidateImportSchema(validSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_ParentMustAppearEarlier(t *testing.T) {
	s := validSchema()
	s.WorkTypes[0].Items[0].ParentRef = strPtr("inspect")

	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "parent_ref")
}

func TestValidateImportSchema_DepthLimit(t *testing.T) {
	s := &ImportSchema{WorkTypes: []WorkTypeImport{{
		Name: "deep",
		Items: []ItemImport{
			{Ref: "l1", Name: "one"},
			{Ref: "l2", ParentRef: strPtr("l1"), Name: "two"},
			{Ref: "l3", ParentRef: strPtr("l2"), Name: "three"},
			{Ref: "l4", ParentRef: strPtr("l3"), Name: "four"},
			{Ref: "l5", ParentRef: strPtr("l4"), Name: "five"},
		},
	}}}

	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "deepest level")
}

func TestValidateImportSchema_TargetRequiresCycleTime(t *testing.T) {
	s := validSchema()
	s.WorkTypes[0].Items[0].TargetMinutes = intPtr(10)

	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "cycle_time")
}

func TestValidateImportSchema_UnknownProjectWorkType(t *testing.T) {
	s := validSchema()
	s.Projects[0].WorkTypes = []string{"painting"}

	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unknown work type")
}

func TestValidateImportSchema_ReservedAdminUsername(t *testing.T) {
	s := validSchema()
	s.Accounts = append(s.Accounts, AccountImport{Username: "admin", Password: "x"})

	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "reserved")
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	s := &ImportSchema{
		Categories: []string{"", "dup", "dup"},
		WorkTypes:  []WorkTypeImport{{Name: ""}},
		Accounts:   []AccountImport{{Username: "", Password: ""}},
	}

	errs := ValidateImportSchema(s)
	assert.GreaterOrEqual(t, len(errs), 5)
}
