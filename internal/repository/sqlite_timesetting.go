package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
)

// SQLiteTimeSettingRepo implements TimeSettingRepo over the singleton
// time_settings row (id fixed to 1).
type SQLiteTimeSettingRepo struct {
	db db.DBTX
}

// NewSQLiteTimeSettingRepo creates a new SQLiteTimeSettingRepo over a *sql.DB or *sql.Tx.
func NewSQLiteTimeSettingRepo(conn db.DBTX) *SQLiteTimeSettingRepo {
	return &SQLiteTimeSettingRepo{db: conn}
}

func (r *SQLiteTimeSettingRepo) Get(ctx context.Context) (*domain.TimeSetting, error) {
	query := `SELECT planning_warning_threshold, planning_time_unit,
			plan_expiry_value, plan_expiry_unit, allowed_creation_days,
			testing_mode, time_offset_days, updated_at
		FROM time_settings WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)

	var s domain.TimeSetting
	var planningUnitStr, expiryUnitStr, allowedDaysStr string
	var testingInt int
	var updatedAtStr string

	err := row.Scan(
		&s.PlanningWarningThreshold, &planningUnitStr,
		&s.PlanExpiryValue, &expiryUnitStr, &allowedDaysStr,
		&testingInt, &s.TimeOffsetDays, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("time setting: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time setting: %w", err)
	}

	s.PlanningTimeUnit = domain.ParseTimeUnit(planningUnitStr)
	s.PlanExpiryUnit = domain.ParseTimeUnit(expiryUnitStr)
	s.AllowedCreationDays = domain.ParseWeekdays(allowedDaysStr)
	s.TestingMode = intToBool(testingInt)

	var parseErr error
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &s, nil
}

func (r *SQLiteTimeSettingRepo) Upsert(ctx context.Context, s *domain.TimeSetting) error {
	query := `INSERT INTO time_settings (id, planning_warning_threshold, planning_time_unit,
			plan_expiry_value, plan_expiry_unit, allowed_creation_days,
			testing_mode, time_offset_days, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			planning_warning_threshold = excluded.planning_warning_threshold,
			planning_time_unit = excluded.planning_time_unit,
			plan_expiry_value = excluded.plan_expiry_value,
			plan_expiry_unit = excluded.plan_expiry_unit,
			allowed_creation_days = excluded.allowed_creation_days,
			testing_mode = excluded.testing_mode,
			time_offset_days = excluded.time_offset_days,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.PlanningWarningThreshold,
		string(s.PlanningTimeUnit),
		s.PlanExpiryValue,
		string(s.PlanExpiryUnit),
		domain.FormatWeekdays(s.AllowedCreationDays),
		boolToInt(s.TestingMode),
		s.TimeOffsetDays,
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting time setting: %w", err)
	}
	return nil
}

// TimeOffsetDays satisfies clock.SettingsSource. A missing configuration
// row means no offset.
func (r *SQLiteTimeSettingRepo) TimeOffsetDays(ctx context.Context) (int, error) {
	s, err := r.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.TimeOffsetDays, nil
}
