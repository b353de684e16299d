package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
)

// SQLiteWorkTypeRepo implements WorkTypeRepo using a SQLite database.
type SQLiteWorkTypeRepo struct {
	db db.DBTX
}

// NewSQLiteWorkTypeRepo creates a new SQLiteWorkTypeRepo. The connection may
// be a *sql.DB or a transaction.
func NewSQLiteWorkTypeRepo(conn db.DBTX) *SQLiteWorkTypeRepo {
	return &SQLiteWorkTypeRepo{db: conn}
}

func (r *SQLiteWorkTypeRepo) Create(ctx context.Context, w *domain.WorkType) error {
	query := `INSERT INTO work_types (id, name, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Name,
		w.Position,
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work type: %w", err)
	}
	return nil
}

func (r *SQLiteWorkTypeRepo) GetByID(ctx context.Context, id string) (*domain.WorkType, error) {
	query := `SELECT id, name, position, created_at, updated_at FROM work_types WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var w domain.WorkType
	var createdAtStr, updatedAtStr string
	err := row.Scan(&w.ID, &w.Name, &w.Position, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work type: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work type: %w", err)
	}
	if err := parseTimestamps(&w.CreatedAt, &w.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *SQLiteWorkTypeRepo) List(ctx context.Context) ([]*domain.WorkType, error) {
	query := `SELECT id, name, position, created_at, updated_at FROM work_types ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work types: %w", err)
	}
	defer rows.Close()

	var types []*domain.WorkType
	for rows.Next() {
		var w domain.WorkType
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&w.ID, &w.Name, &w.Position, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning work type row: %w", err)
		}
		if err := parseTimestamps(&w.CreatedAt, &w.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		types = append(types, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work types: %w", err)
	}
	return types, nil
}

func (r *SQLiteWorkTypeRepo) Update(ctx context.Context, w *domain.WorkType) error {
	query := `UPDATE work_types SET name = ?, position = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Name,
		w.Position,
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work type: %w", err)
	}
	return requireRowAffected(res, "work type")
}

func (r *SQLiteWorkTypeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work type: %w", err)
	}
	return requireRowAffected(res, "work type")
}

func (r *SQLiteWorkTypeRepo) Reorder(ctx context.Context, orderedIDs []string) error {
	now := nowUTC()
	for i, id := range orderedIDs {
		query := `UPDATE work_types SET position = ?, updated_at = ? WHERE id = ?`
		if _, err := r.db.ExecContext(ctx, query, i, now, id); err != nil {
			return fmt.Errorf("reordering work types: %w", err)
		}
	}
	return nil
}
