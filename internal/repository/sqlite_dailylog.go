package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
)

const dailyLogColumns = `id, seq, customer_id, product_id, activity_type,
		description, logged_at, created_at`

// SQLiteDailyLogRepo implements DailyLogRepo using a SQLite database.
type SQLiteDailyLogRepo struct {
	db db.DBTX
}

// NewSQLiteDailyLogRepo creates a new SQLiteDailyLogRepo over a *sql.DB or *sql.Tx.
func NewSQLiteDailyLogRepo(conn db.DBTX) *SQLiteDailyLogRepo {
	return &SQLiteDailyLogRepo{db: conn}
}

func (r *SQLiteDailyLogRepo) Create(ctx context.Context, l *domain.DailyLog) error {
	query := `INSERT INTO daily_logs (` + dailyLogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.Seq,
		l.CustomerID,
		nullableString(l.ProductID),
		l.ActivityType,
		l.Description,
		l.LoggedAt.Format(dateLayout),
		l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting daily log: %w", err)
	}
	return nil
}

func (r *SQLiteDailyLogRepo) GetByID(ctx context.Context, id string) (*domain.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("loading daily log: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("loading daily log: %w", err)
		}
		return nil, fmt.Errorf("daily log: %w", ErrNotFound)
	}
	return scanDailyLog(rows)
}

func (r *SQLiteDailyLogRepo) ListLineage(ctx context.Context, customerID string, productID *string, activityType string) ([]*domain.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs
		WHERE customer_id = ? AND ` + productMatch(productID) + ` AND activity_type = ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, lineageArgs(customerID, productID, activityType)...)
	if err != nil {
		return nil, fmt.Errorf("listing daily log lineage: %w", err)
	}
	defer rows.Close()

	var logs []*domain.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily logs: %w", err)
	}
	return logs, nil
}

func scanDailyLog(rows *sql.Rows) (*domain.DailyLog, error) {
	var l domain.DailyLog
	var productID sql.NullString
	var loggedAtStr, createdAtStr string

	err := rows.Scan(
		&l.ID, &l.Seq, &l.CustomerID, &productID, &l.ActivityType,
		&l.Description, &loggedAtStr, &createdAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning daily log: %w", err)
	}

	l.ProductID = parseNullableString(productID)

	var parseErr error
	l.LoggedAt, parseErr = time.Parse(dateLayout, loggedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing logged_at: %w", parseErr)
	}
	l.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &l, nil
}
