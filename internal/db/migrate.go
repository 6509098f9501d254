package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id                  TEXT PRIMARY KEY,
		seq                 INTEGER NOT NULL UNIQUE,
		customer_id         TEXT NOT NULL,
		customer_name       TEXT NOT NULL DEFAULT '',
		owner_id            TEXT NOT NULL,
		owner_name          TEXT NOT NULL DEFAULT '',
		product_id          TEXT,
		project_name        TEXT NOT NULL DEFAULT '',
		planning_date       TEXT NOT NULL,
		activity_type       TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'created'
		                    CHECK(status IN ('created','reported')),
		manager_status      TEXT
		                    CHECK(manager_status IN ('pending','approved','rejected','escalated')),
		bod_status          TEXT
		                    CHECK(bod_status IN ('pending','success','failed')),
		lifecycle_status    TEXT NOT NULL DEFAULT 'active'
		                    CHECK(lifecycle_status IN ('active','under_review','completed','rejected','expired','failed')),
		submitted_at        TEXT,
		manager_reviewed_at TEXT,
		bod_reviewed_at     TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_customer_product ON plans(customer_id, product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_lifecycle ON plans(lifecycle_status)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_status_created ON plans(status, created_at)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id                    TEXT PRIMARY KEY,
		plan_id               TEXT NOT NULL UNIQUE REFERENCES plans(id) ON DELETE CASCADE,
		execution_date        TEXT NOT NULL,
		location              TEXT NOT NULL DEFAULT '',
		pic                   TEXT NOT NULL DEFAULT '',
		position              TEXT NOT NULL DEFAULT '',
		result_description    TEXT NOT NULL DEFAULT '',
		progress              TEXT NOT NULL DEFAULT '',
		is_success            INTEGER NOT NULL DEFAULT 0,
		is_late               INTEGER NOT NULL DEFAULT 0,
		next_planning_date    TEXT,
		next_activity_type    TEXT NOT NULL DEFAULT '',
		next_plan_description TEXT NOT NULL DEFAULT '',
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plan_status_logs (
		id              TEXT PRIMARY KEY,
		plan_id         TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		actor_id        TEXT NOT NULL DEFAULT '',
		field           TEXT NOT NULL,
		old_value       TEXT NOT NULL DEFAULT '',
		new_value       TEXT NOT NULL DEFAULT '',
		is_grace_period INTEGER NOT NULL DEFAULT 0,
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_status_logs_plan_field ON plan_status_logs(plan_id, field, created_at)`,

	`CREATE TABLE IF NOT EXISTS time_settings (
		id                         INTEGER PRIMARY KEY CHECK(id = 1),
		planning_warning_threshold REAL NOT NULL DEFAULT 14,
		planning_time_unit         TEXT NOT NULL DEFAULT 'days',
		plan_expiry_value          REAL NOT NULL DEFAULT 7,
		plan_expiry_unit           TEXT NOT NULL DEFAULT 'days',
		allowed_creation_days      TEXT NOT NULL DEFAULT 'Friday',
		testing_mode               INTEGER NOT NULL DEFAULT 0,
		time_offset_days           INTEGER NOT NULL DEFAULT 0,
		updated_at                 TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS daily_logs (
		id            TEXT PRIMARY KEY,
		seq           INTEGER NOT NULL UNIQUE,
		customer_id   TEXT NOT NULL,
		product_id    TEXT,
		activity_type TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		logged_at     TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_daily_logs_customer ON daily_logs(customer_id, product_id, activity_type)`,

	// Creation-order allocator shared by plans and daily logs.
	`CREATE TABLE IF NOT EXISTS record_sequences (
		scope    TEXT PRIMARY KEY,
		next_seq INTEGER NOT NULL
	)`,
}
