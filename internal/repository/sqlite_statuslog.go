package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
)

const statusLogColumns = `id, plan_id, actor_id, field, old_value, new_value,
		is_grace_period, notes, created_at`

// SQLiteStatusLogRepo implements StatusLogRepo using a SQLite database.
// Rows are append-only; the only deletions are the explicit admin resets.
type SQLiteStatusLogRepo struct {
	db db.DBTX
}

// NewSQLiteStatusLogRepo creates a new SQLiteStatusLogRepo over a *sql.DB or *sql.Tx.
func NewSQLiteStatusLogRepo(conn db.DBTX) *SQLiteStatusLogRepo {
	return &SQLiteStatusLogRepo{db: conn}
}

func (r *SQLiteStatusLogRepo) Append(ctx context.Context, l *domain.PlanStatusLog) error {
	query := `INSERT INTO plan_status_logs (` + statusLogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.PlanID,
		l.ActorID,
		string(l.Field),
		l.OldValue,
		l.NewValue,
		boolToInt(l.IsGracePeriod),
		l.Notes,
		l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending status log: %w", err)
	}
	return nil
}

func (r *SQLiteStatusLogRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.PlanStatusLog, error) {
	query := `SELECT ` + statusLogColumns + ` FROM plan_status_logs
		WHERE plan_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing status logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.PlanStatusLog
	for rows.Next() {
		l, err := scanStatusLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status logs: %w", err)
	}
	return logs, nil
}

// CountCountable counts the quota-consuming rows for one plan field.
// Escalations, pending reversions, and grace-period rows do not count.
func (r *SQLiteStatusLogRepo) CountCountable(ctx context.Context, planID string, field domain.LogField) (int, error) {
	query := `SELECT COUNT(*) FROM plan_status_logs
		WHERE plan_id = ? AND field = ? AND is_grace_period = 0
		  AND new_value IN ('approved', 'rejected')`
	var count int
	if err := r.db.QueryRowContext(ctx, query, planID, string(field)).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting countable status logs: %w", err)
	}
	return count, nil
}

// LastByField returns the most recent log row for a plan field, or nil
// when none exists.
func (r *SQLiteStatusLogRepo) LastByField(ctx context.Context, planID string, field domain.LogField) (*domain.PlanStatusLog, error) {
	query := `SELECT ` + statusLogColumns + ` FROM plan_status_logs
		WHERE plan_id = ? AND field = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`
	rows, err := r.db.QueryContext(ctx, query, planID, string(field))
	if err != nil {
		return nil, fmt.Errorf("loading last status log: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("loading last status log: %w", err)
		}
		return nil, nil
	}
	return scanStatusLog(rows)
}

func (r *SQLiteStatusLogRepo) DeleteByPlanField(ctx context.Context, planID string, field domain.LogField) error {
	query := `DELETE FROM plan_status_logs WHERE plan_id = ? AND field = ?`
	if _, err := r.db.ExecContext(ctx, query, planID, string(field)); err != nil {
		return fmt.Errorf("deleting status logs by field: %w", err)
	}
	return nil
}

func (r *SQLiteStatusLogRepo) DeleteByPlan(ctx context.Context, planID string) error {
	query := `DELETE FROM plan_status_logs WHERE plan_id = ?`
	if _, err := r.db.ExecContext(ctx, query, planID); err != nil {
		return fmt.Errorf("deleting status logs by plan: %w", err)
	}
	return nil
}

func (r *SQLiteStatusLogRepo) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_status_logs`); err != nil {
		return fmt.Errorf("truncating status logs: %w", err)
	}
	return nil
}

func scanStatusLog(rows *sql.Rows) (*domain.PlanStatusLog, error) {
	var l domain.PlanStatusLog
	var fieldStr string
	var graceInt int
	var createdAtStr string

	err := rows.Scan(
		&l.ID, &l.PlanID, &l.ActorID, &fieldStr, &l.OldValue, &l.NewValue,
		&graceInt, &l.Notes, &createdAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning status log: %w", err)
	}

	l.Field = domain.LogField(fieldStr)
	l.IsGracePeriod = intToBool(graceInt)

	var parseErr error
	l.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &l, nil
}
