package repository

import (
	"context"
	"fmt"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
)

// SQLiteJobCategoryRepo implements JobCategoryRepo using a SQLite database.
type SQLiteJobCategoryRepo struct {
	db db.DBTX
}

// NewSQLiteJobCategoryRepo creates a new SQLiteJobCategoryRepo. The
// connection may be a *sql.DB or a transaction.
func NewSQLiteJobCategoryRepo(conn db.DBTX) *SQLiteJobCategoryRepo {
	return &SQLiteJobCategoryRepo{db: conn}
}

func (r *SQLiteJobCategoryRepo) List(ctx context.Context) ([]domain.JobCategory, error) {
	query := `SELECT name, position FROM job_categories ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing job categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.JobCategory
	for rows.Next() {
		var c domain.JobCategory
		if err := rows.Scan(&c.Name, &c.Position); err != nil {
			return nil, fmt.Errorf("scanning job category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job categories: %w", err)
	}
	return cats, nil
}

// Replace swaps the entire ordered category list. Run inside a transaction
// when atomicity with other writes matters; the two statements here are not
// atomic on a bare connection.
func (r *SQLiteJobCategoryRepo) Replace(ctx context.Context, names []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM job_categories`); err != nil {
		return fmt.Errorf("clearing job categories: %w", err)
	}
	for i, name := range names {
		query := `INSERT INTO job_categories (name, position) VALUES (?, ?)`
		if _, err := r.db.ExecContext(ctx, query, name, i); err != nil {
			return fmt.Errorf("inserting job category: %w", err)
		}
	}
	return nil
}
