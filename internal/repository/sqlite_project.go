package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database. The
// work-type associations live in the project_work_types join table and are
// written wholesale on every Create/Update.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. The connection may
// be a *sql.DB or a transaction.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, name, status, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		string(p.Status),
		p.Position,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return r.replaceWorkTypes(ctx, p.ID, p.WorkTypeIDs)
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, name, status, position, created_at, updated_at FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := r.scanProject(row)
	if err != nil {
		return nil, err
	}
	if p.WorkTypeIDs, err = r.workTypeIDs(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT id, name, status, position, created_at, updated_at FROM projects ORDER BY position`
	return r.list(ctx, query)
}

// ListByWorkType returns the projects associated with a work type, in
// project registration order.
func (r *SQLiteProjectRepo) ListByWorkType(ctx context.Context, workTypeID string) ([]*domain.Project, error) {
	query := `SELECT p.id, p.name, p.status, p.position, p.created_at, p.updated_at
		FROM projects p
		JOIN project_work_types pw ON pw.project_id = p.id
		WHERE pw.work_type_id = ?
		ORDER BY p.position`
	return r.list(ctx, query, workTypeID)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, status = ?, position = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Status),
		p.Position,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if err := requireRowAffected(res, "project"); err != nil {
		return err
	}
	return r.replaceWorkTypes(ctx, p.ID, p.WorkTypeIDs)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireRowAffected(res, "project")
}

func (r *SQLiteProjectRepo) Reorder(ctx context.Context, orderedIDs []string) error {
	now := nowUTC()
	for i, id := range orderedIDs {
		query := `UPDATE projects SET position = ?, updated_at = ? WHERE id = ?`
		if _, err := r.db.ExecContext(ctx, query, i, now, id); err != nil {
			return fmt.Errorf("reordering projects: %w", err)
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var statusStr, createdAtStr, updatedAtStr string
		if err := rows.Scan(&p.ID, &p.Name, &statusStr, &p.Position, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		p.Status = domain.ProjectStatus(statusStr)
		if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	for _, p := range projects {
		var err error
		if p.WorkTypeIDs, err = r.workTypeIDs(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	var statusStr, createdAtStr, updatedAtStr string
	err := row.Scan(&p.ID, &p.Name, &statusStr, &p.Position, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Status = domain.ProjectStatus(statusStr)
	if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteProjectRepo) workTypeIDs(ctx context.Context, projectID string) ([]string, error) {
	query := `SELECT work_type_id FROM project_work_types WHERE project_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project work types: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning project work type: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project work types: %w", err)
	}
	return ids, nil
}

func (r *SQLiteProjectRepo) replaceWorkTypes(ctx context.Context, projectID string, workTypeIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_work_types WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing project work types: %w", err)
	}
	for i, wtID := range workTypeIDs {
		query := `INSERT INTO project_work_types (project_id, work_type_id, position) VALUES (?, ?, ?)`
		if _, err := r.db.ExecContext(ctx, query, projectID, wtID, i); err != nil {
			return fmt.Errorf("inserting project work type: %w", err)
		}
	}
	return nil
}
