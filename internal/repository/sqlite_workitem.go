package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, work_type_id, name, level, parent_id, is_leaf,
		attribute, target_minutes, checklist, method, categories,
		internal_leadtime, external_leadtime, internal_leadtime_items, external_leadtime_items,
		position, created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo using a SQLite database.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo. The connection may
// be a *sql.DB or a transaction.
func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: conn}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (id, work_type_id, name, level, parent_id, is_leaf,
		attribute, target_minutes, checklist, method, categories,
		internal_leadtime, external_leadtime, internal_leadtime_items, external_leadtime_items,
		position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.WorkTypeID,
		w.Name,
		w.Level,
		nullableString(w.ParentID),
		nullableBoolToValue(w.LeafOverride),
		string(w.Attribute),
		nullableIntToValue(w.TargetMinutes),
		stringsToJSON(w.Checklist),
		stringsToJSON(w.Method),
		stringsToJSON(w.Categories),
		boolToInt(w.InternalLeadtime),
		boolToInt(w.ExternalLeadtime),
		stringsToJSON(w.InternalLeadtimeItems),
		stringsToJSON(w.ExternalLeadtimeItems),
		w.Position,
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanWorkItem(row)
}

// ListByWorkType returns the work type's items in registration order. The
// position ordering is the backbone of the process sequence; every caller
// depends on it.
func (r *SQLiteWorkItemRepo) ListByWorkType(ctx context.Context, workTypeID string) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE work_type_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, workTypeID)
	if err != nil {
		return nil, fmt.Errorf("listing work items by work type: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) ListAll(ctx context.Context) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items ORDER BY work_type_id, position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

// NextPosition returns the next free registration slot within a work type.
func (r *SQLiteWorkItemRepo) NextPosition(ctx context.Context, workTypeID string) (int, error) {
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM work_items WHERE work_type_id = ?`
	var next int
	if err := r.db.QueryRowContext(ctx, query, workTypeID).Scan(&next); err != nil {
		return 0, fmt.Errorf("computing next work item position: %w", err)
	}
	return next, nil
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET work_type_id = ?, name = ?, level = ?, parent_id = ?, is_leaf = ?,
		attribute = ?, target_minutes = ?, checklist = ?, method = ?, categories = ?,
		internal_leadtime = ?, external_leadtime = ?,
		internal_leadtime_items = ?, external_leadtime_items = ?,
		position = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.WorkTypeID,
		w.Name,
		w.Level,
		nullableString(w.ParentID),
		nullableBoolToValue(w.LeafOverride),
		string(w.Attribute),
		nullableIntToValue(w.TargetMinutes),
		stringsToJSON(w.Checklist),
		stringsToJSON(w.Method),
		stringsToJSON(w.Categories),
		boolToInt(w.InternalLeadtime),
		boolToInt(w.ExternalLeadtime),
		stringsToJSON(w.InternalLeadtimeItems),
		stringsToJSON(w.ExternalLeadtimeItems),
		w.Position,
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return requireRowAffected(res, "work item")
}

// DeleteMany removes the given ids in one statement. The caller supplies the
// full subtree closure; run it inside a transaction alongside any master
// reorder so the delete is atomic.
func (r *SQLiteWorkItemRepo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	query := `DELETE FROM work_items WHERE id IN (` + placeholders + `)`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting work items: %w", err)
	}
	return nil
}

// scanWorkItem scans a single work item from a *sql.Row.
func (r *SQLiteWorkItemRepo) scanWorkItem(row *sql.Row) (*domain.WorkItem, error) {
	var raw workItemRow
	err := row.Scan(raw.dests()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work item: %w", err)
	}
	return raw.toDomain()
}

// scanWorkItems scans multiple work items from *sql.Rows.
func (r *SQLiteWorkItemRepo) scanWorkItems(rows *sql.Rows) ([]*domain.WorkItem, error) {
	var items []*domain.WorkItem
	for rows.Next() {
		var raw workItemRow
		if err := rows.Scan(raw.dests()...); err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}
		item, err := raw.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

// workItemRow holds the raw column values of one work_items row.
type workItemRow struct {
	id, workTypeID, name                   string
	level                                  int
	parentID                               sql.NullString
	isLeaf                                 sql.NullInt64
	attribute                              string
	targetMinutes                          sql.NullInt64
	checklist, method, categories          string
	internalLeadtime, externalLeadtime     int
	internalLeadItems, externalLeadItems   string
	position                               int
	createdAt, updatedAt                   string
}

func (raw *workItemRow) dests() []interface{} {
	return []interface{}{
		&raw.id, &raw.workTypeID, &raw.name, &raw.level, &raw.parentID, &raw.isLeaf,
		&raw.attribute, &raw.targetMinutes, &raw.checklist, &raw.method, &raw.categories,
		&raw.internalLeadtime, &raw.externalLeadtime, &raw.internalLeadItems, &raw.externalLeadItems,
		&raw.position, &raw.createdAt, &raw.updatedAt,
	}
}

func (raw *workItemRow) toDomain() (*domain.WorkItem, error) {
	w := &domain.WorkItem{
		ID:               raw.id,
		WorkTypeID:       raw.workTypeID,
		Name:             raw.name,
		Level:            raw.level,
		Attribute:        domain.Attribute(raw.attribute),
		TargetMinutes:    nullableInt(raw.targetMinutes),
		InternalLeadtime: intToBool(raw.internalLeadtime),
		ExternalLeadtime: intToBool(raw.externalLeadtime),
		Position:         raw.position,
	}
	if raw.parentID.Valid {
		parent := raw.parentID.String
		w.ParentID = &parent
	}
	if raw.isLeaf.Valid {
		leaf := intToBool(int(raw.isLeaf.Int64))
		w.LeafOverride = &leaf
	}

	var err error
	if w.Checklist, err = jsonToStrings(raw.checklist); err != nil {
		return nil, err
	}
	if w.Method, err = jsonToStrings(raw.method); err != nil {
		return nil, err
	}
	if w.Categories, err = jsonToStrings(raw.categories); err != nil {
		return nil, err
	}
	if w.InternalLeadtimeItems, err = jsonToStrings(raw.internalLeadItems); err != nil {
		return nil, err
	}
	if w.ExternalLeadtimeItems, err = jsonToStrings(raw.externalLeadItems); err != nil {
		return nil, err
	}
	if err := parseTimestamps(&w.CreatedAt, &w.UpdatedAt, raw.createdAt, raw.updatedAt); err != nil {
		return nil, err
	}
	return w, nil
}
