package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
)

// SQLiteReportRepo implements ReportRepo using a SQLite database. A report
// spans three tables (reports, report_projects, report_entries); the child
// rows are rewritten wholesale on Update. None of the child rows reference
// the master tables, so deleted items leave history readable.
type SQLiteReportRepo struct {
	db db.DBTX
}

// NewSQLiteReportRepo creates a new SQLiteReportRepo. The connection may be
// a *sql.DB or a transaction.
func NewSQLiteReportRepo(conn db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: conn}
}

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.DailyReport) error {
	query := `INSERT INTO reports (id, username, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.Username,
		rep.Date.Format(domain.DateLayout),
		rep.CreatedAt.Format(time.RFC3339),
		rep.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return r.insertEntries(ctx, rep)
}

func (r *SQLiteReportRepo) GetByID(ctx context.Context, id string) (*domain.DailyReport, error) {
	query := `SELECT id, username, date, created_at, updated_at FROM reports WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	rep, err := r.scanReport(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *SQLiteReportRepo) GetByUserAndDate(ctx context.Context, username string, date time.Time) (*domain.DailyReport, error) {
	query := `SELECT id, username, date, created_at, updated_at
		FROM reports WHERE username = ? AND date = ?`
	row := r.db.QueryRowContext(ctx, query, username, date.Format(domain.DateLayout))

	rep, err := r.scanReport(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ListByUser returns a user's reports newest date first.
func (r *SQLiteReportRepo) ListByUser(ctx context.Context, username string) ([]*domain.DailyReport, error) {
	query := `SELECT id, username, date, created_at, updated_at
		FROM reports WHERE username = ? ORDER BY date DESC`
	return r.list(ctx, query, username)
}

// ListAll returns every report newest date first, users interleaved.
func (r *SQLiteReportRepo) ListAll(ctx context.Context) ([]*domain.DailyReport, error) {
	query := `SELECT id, username, date, created_at, updated_at
		FROM reports ORDER BY date DESC, username`
	return r.list(ctx, query)
}

func (r *SQLiteReportRepo) Update(ctx context.Context, rep *domain.DailyReport) error {
	query := `UPDATE reports SET username = ?, date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rep.Username,
		rep.Date.Format(domain.DateLayout),
		rep.UpdatedAt.Format(time.RFC3339),
		rep.ID,
	)
	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}
	if err := requireRowAffected(res, "report"); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM report_projects WHERE report_id = ?`, rep.ID); err != nil {
		return fmt.Errorf("clearing report projects: %w", err)
	}
	return r.insertEntries(ctx, rep)
}

func (r *SQLiteReportRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return requireRowAffected(res, "report")
}

func (r *SQLiteReportRepo) insertEntries(ctx context.Context, rep *domain.DailyReport) error {
	for i, pe := range rep.Projects {
		rpID := uuid.New().String()
		query := `INSERT INTO report_projects (id, report_id, project_id, position) VALUES (?, ?, ?, ?)`
		if _, err := r.db.ExecContext(ctx, query, rpID, rep.ID, pe.ProjectID, i); err != nil {
			return fmt.Errorf("inserting report project: %w", err)
		}
		for j, item := range pe.Items {
			query := `INSERT INTO report_entries (id, report_project_id, work_item_id, work_type_id,
				minutes, target_minutes, checklist, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
			_, err := r.db.ExecContext(ctx, query,
				uuid.New().String(),
				rpID,
				item.WorkItemID,
				item.WorkTypeID,
				nullableIntToValue(item.Minutes),
				nullableIntToValue(item.TargetMinutes),
				checklistToJSON(item.Checklist),
				j,
			)
			if err != nil {
				return fmt.Errorf("inserting report entry: %w", err)
			}
		}
	}
	return nil
}

func (r *SQLiteReportRepo) loadEntries(ctx context.Context, rep *domain.DailyReport) error {
	query := `SELECT id, project_id FROM report_projects WHERE report_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, rep.ID)
	if err != nil {
		return fmt.Errorf("listing report projects: %w", err)
	}
	defer rows.Close()

	var rpIDs []string
	for rows.Next() {
		var rpID, projectID string
		if err := rows.Scan(&rpID, &projectID); err != nil {
			return fmt.Errorf("scanning report project: %w", err)
		}
		rpIDs = append(rpIDs, rpID)
		rep.Projects = append(rep.Projects, domain.ProjectEntry{ProjectID: projectID})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating report projects: %w", err)
	}

	for i, rpID := range rpIDs {
		items, err := r.loadItems(ctx, rpID)
		if err != nil {
			return err
		}
		rep.Projects[i].Items = items
	}
	return nil
}

func (r *SQLiteReportRepo) loadItems(ctx context.Context, reportProjectID string) ([]domain.WorkItemEntry, error) {
	query := `SELECT work_item_id, work_type_id, minutes, target_minutes, checklist
		FROM report_entries WHERE report_project_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, reportProjectID)
	if err != nil {
		return nil, fmt.Errorf("listing report entries: %w", err)
	}
	defer rows.Close()

	var items []domain.WorkItemEntry
	for rows.Next() {
		var item domain.WorkItemEntry
		var minutes, targetMinutes sql.NullInt64
		var checklistStr string
		if err := rows.Scan(&item.WorkItemID, &item.WorkTypeID, &minutes, &targetMinutes, &checklistStr); err != nil {
			return nil, fmt.Errorf("scanning report entry: %w", err)
		}
		item.Minutes = nullableInt(minutes)
		item.TargetMinutes = nullableInt(targetMinutes)
		if item.Checklist, err = jsonToChecklist(checklistStr); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report entries: %w", err)
	}
	return items, nil
}

func (r *SQLiteReportRepo) list(ctx context.Context, query string, args ...interface{}) ([]*domain.DailyReport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.DailyReport
	for rows.Next() {
		var rep domain.DailyReport
		var dateStr, createdAtStr, updatedAtStr string
		if err := rows.Scan(&rep.ID, &rep.Username, &dateStr, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		if err := r.populateReport(&rep, dateStr, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	for _, rep := range reports {
		if err := r.loadEntries(ctx, rep); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (r *SQLiteReportRepo) scanReport(row *sql.Row) (*domain.DailyReport, error) {
	var rep domain.DailyReport
	var dateStr, createdAtStr, updatedAtStr string
	err := row.Scan(&rep.ID, &rep.Username, &dateStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	if err := r.populateReport(&rep, dateStr, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *SQLiteReportRepo) populateReport(rep *domain.DailyReport, dateStr, createdAtStr, updatedAtStr string) error {
	var err error
	rep.Date, err = time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("parsing report date: %w", err)
	}
	return parseTimestamps(&rep.CreatedAt, &rep.UpdatedAt, createdAtStr, updatedAtStr)
}
