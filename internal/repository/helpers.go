package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/knaito/nippo/internal/domain"
)

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the int value.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableInt scans a sql.NullInt64 back into a *int.
func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// nullableString converts a *string to a value suitable for SQLite storage.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// nullableBoolToValue converts a *bool to a SQL NULL or 0/1 integer.
func nullableBoolToValue(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// stringsToJSON encodes a string slice for a TEXT column. A nil slice
// round-trips as the empty list.
func stringsToJSON(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// jsonToStrings decodes a TEXT column back into a string slice.
func jsonToStrings(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decoding string list: %w", err)
	}
	return s, nil
}

type checklistMarkJSON struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// checklistToJSON encodes checklist marks for a TEXT column.
func checklistToJSON(marks []domain.ChecklistMark) string {
	if len(marks) == 0 {
		return "[]"
	}
	out := make([]checklistMarkJSON, len(marks))
	for i, m := range marks {
		out[i] = checklistMarkJSON{Name: m.Name, Checked: m.Checked}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// jsonToChecklist decodes a TEXT column back into checklist marks.
func jsonToChecklist(raw string) ([]domain.ChecklistMark, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var in []checklistMarkJSON
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("decoding checklist: %w", err)
	}
	marks := make([]domain.ChecklistMark, len(in))
	for i, m := range in {
		marks[i] = domain.ChecklistMark{Name: m.Name, Checked: m.Checked}
	}
	return marks, nil
}

// parseTimestamps fills created/updated from their RFC3339 column strings.
func parseTimestamps(createdAt, updatedAt *time.Time, createdStr, updatedStr string) error {
	var err error
	*createdAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	*updatedAt, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}

// requireRowAffected turns a zero-row UPDATE or DELETE into ErrNotFound.
func requireRowAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
