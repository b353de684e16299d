package db

import (
	"database/sql"
	"fmt"
)

// migrations is the full schema, each statement idempotent so Migrate can
// re-run on every open.
//
// Report rows intentionally carry no foreign keys to the master tables:
// deleting a work item or project must leave historical reports readable
// (dangling ids resolve to the "unknown item" sentinel at display time).
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_types (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_items (
		id                      TEXT PRIMARY KEY,
		work_type_id            TEXT NOT NULL REFERENCES work_types(id) ON DELETE CASCADE,
		name                    TEXT NOT NULL,
		level                   INTEGER NOT NULL CHECK(level BETWEEN 1 AND 4),
		parent_id               TEXT REFERENCES work_items(id) ON DELETE CASCADE,
		is_leaf                 INTEGER,
		attribute               TEXT NOT NULL DEFAULT ''
		                        CHECK(attribute IN ('', 'cycle_time', 'timing')),
		target_minutes          INTEGER,
		checklist               TEXT NOT NULL DEFAULT '[]',
		method                  TEXT NOT NULL DEFAULT '[]',
		categories              TEXT NOT NULL DEFAULT '[]',
		internal_leadtime       INTEGER NOT NULL DEFAULT 0,
		external_leadtime       INTEGER NOT NULL DEFAULT 0,
		internal_leadtime_items TEXT NOT NULL DEFAULT '[]',
		external_leadtime_items TEXT NOT NULL DEFAULT '[]',
		position                INTEGER NOT NULL,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_work_type ON work_items(work_type_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_parent ON work_items(parent_id)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'not_started'
		           CHECK(status IN ('not_started', 'in_progress', 'done')),
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_work_types (
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		work_type_id TEXT NOT NULL REFERENCES work_types(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, work_type_id)
	)`,

	`CREATE TABLE IF NOT EXISTS job_categories (
		name     TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		username   TEXT PRIMARY KEY,
		password   TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'user' CHECK(role IN ('admin', 'user')),
		categories TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		date       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_username ON reports(username, date)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_date ON reports(date)`,

	`CREATE TABLE IF NOT EXISTS report_projects (
		id         TEXT PRIMARY KEY,
		report_id  TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		project_id TEXT NOT NULL,
		position   INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_projects_report ON report_projects(report_id, position)`,

	`CREATE TABLE IF NOT EXISTS report_entries (
		id                TEXT PRIMARY KEY,
		report_project_id TEXT NOT NULL REFERENCES report_projects(id) ON DELETE CASCADE,
		work_item_id      TEXT NOT NULL,
		work_type_id      TEXT NOT NULL,
		minutes           INTEGER,
		target_minutes    INTEGER,
		checklist         TEXT NOT NULL DEFAULT '[]',
		position          INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_entries_project ON report_entries(report_project_id, position)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
