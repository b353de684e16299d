package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
)

// SQLiteAccountRepo implements AccountRepo using a SQLite database.
type SQLiteAccountRepo struct {
	db db.DBTX
}

// NewSQLiteAccountRepo creates a new SQLiteAccountRepo. The connection may
// be a *sql.DB or a transaction.
func NewSQLiteAccountRepo(conn db.DBTX) *SQLiteAccountRepo {
	return &SQLiteAccountRepo{db: conn}
}

func (r *SQLiteAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (username, password, role, categories, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.Username,
		a.Password,
		string(a.Role),
		stringsToJSON(a.Categories),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT username, password, role, categories, created_at, updated_at
		FROM accounts WHERE username = ?`
	row := r.db.QueryRowContext(ctx, query, username)

	var a domain.Account
	var roleStr, categoriesStr, createdAtStr, updatedAtStr string
	err := row.Scan(&a.Username, &a.Password, &roleStr, &categoriesStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	a.Role = domain.Role(roleStr)
	if a.Categories, err = jsonToStrings(categoriesStr); err != nil {
		return nil, err
	}
	if err := parseTimestamps(&a.CreatedAt, &a.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT username, password, role, categories, created_at, updated_at
		FROM accounts ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var a domain.Account
		var roleStr, categoriesStr, createdAtStr, updatedAtStr string
		if err := rows.Scan(&a.Username, &a.Password, &roleStr, &categoriesStr, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		a.Role = domain.Role(roleStr)
		if a.Categories, err = jsonToStrings(categoriesStr); err != nil {
			return nil, err
		}
		if err := parseTimestamps(&a.CreatedAt, &a.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *SQLiteAccountRepo) Update(ctx context.Context, a *domain.Account) error {
	query := `UPDATE accounts SET password = ?, role = ?, categories = ?, updated_at = ?
		WHERE username = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Password,
		string(a.Role),
		stringsToJSON(a.Categories),
		a.UpdatedAt.Format(time.RFC3339),
		a.Username,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return requireRowAffected(res, "account")
}

func (r *SQLiteAccountRepo) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return requireRowAffected(res, "account")
}
