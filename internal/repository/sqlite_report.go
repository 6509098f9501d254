package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
)

// reportColumns is the canonical SELECT column list for reports.
const reportColumns = `id, plan_id, execution_date, location, pic, position,
		result_description, progress, is_success, is_late,
		next_planning_date, next_activity_type, next_plan_description,
		created_at, updated_at`

// SQLiteReportRepo implements ReportRepo using a SQLite database.
type SQLiteReportRepo struct {
	db db.DBTX
}

// NewSQLiteReportRepo creates a new SQLiteReportRepo over a *sql.DB or *sql.Tx.
func NewSQLiteReportRepo(conn db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: conn}
}

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	query := `INSERT INTO reports (` + reportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.PlanID,
		rep.ExecutionDate.Format(dateLayout),
		rep.Location,
		rep.PIC,
		rep.Position,
		rep.ResultDescription,
		rep.Progress,
		boolToInt(rep.IsSuccess),
		boolToInt(rep.IsLate),
		nullableTimeToString(rep.NextPlanningDate, dateLayout),
		rep.NextActivityType,
		rep.NextPlanDescription,
		rep.CreatedAt.Format(time.RFC3339),
		rep.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *SQLiteReportRepo) GetByPlanID(ctx context.Context, planID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE plan_id = ?`
	row := r.db.QueryRowContext(ctx, query, planID)

	var rep domain.Report
	var executionDateStr string
	var isSuccessInt, isLateInt int
	var nextDateStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&rep.ID, &rep.PlanID, &executionDateStr, &rep.Location, &rep.PIC, &rep.Position,
		&rep.ResultDescription, &rep.Progress, &isSuccessInt, &isLateInt,
		&nextDateStr, &rep.NextActivityType, &rep.NextPlanDescription,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	rep.IsSuccess = intToBool(isSuccessInt)
	rep.IsLate = intToBool(isLateInt)
	rep.NextPlanningDate = parseNullableTime(nextDateStr, dateLayout)

	var parseErr error
	rep.ExecutionDate, parseErr = time.Parse(dateLayout, executionDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing execution_date: %w", parseErr)
	}
	rep.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rep.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &rep, nil
}

func (r *SQLiteReportRepo) Update(ctx context.Context, rep *domain.Report) error {
	query := `UPDATE reports SET execution_date = ?, location = ?, pic = ?, position = ?,
		result_description = ?, progress = ?, is_success = ?, is_late = ?,
		next_planning_date = ?, next_activity_type = ?, next_plan_description = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		rep.ExecutionDate.Format(dateLayout),
		rep.Location,
		rep.PIC,
		rep.Position,
		rep.ResultDescription,
		rep.Progress,
		boolToInt(rep.IsSuccess),
		boolToInt(rep.IsLate),
		nullableTimeToString(rep.NextPlanningDate, dateLayout),
		rep.NextActivityType,
		rep.NextPlanDescription,
		rep.UpdatedAt.Format(time.RFC3339),
		rep.ID,
	)
	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}
	return nil
}
