package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
)

// planColumns is the canonical SELECT column list for plans.
const planColumns = `id, seq, customer_id, customer_name, owner_id, owner_name, product_id,
		project_name, planning_date, activity_type, description,
		status, manager_status, bod_status, lifecycle_status,
		submitted_at, manager_reviewed_at, bod_reviewed_at, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo over a *sql.DB or *sql.Tx.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Seq,
		p.CustomerID,
		p.CustomerName,
		p.OwnerID,
		p.OwnerName,
		nullableString(p.ProductID),
		p.ProjectName,
		p.PlanningDate.Format(dateLayout),
		p.ActivityType,
		p.Description,
		string(p.Status),
		nullableStatus(string(p.ManagerStatus)),
		nullableStatus(string(p.BODStatus)),
		string(p.LifecycleStatus),
		nullableTimeToString(p.SubmittedAt, time.RFC3339),
		nullableTimeToString(p.ManagerReviewedAt, time.RFC3339),
		nullableTimeToString(p.BODReviewedAt, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanPlan(row)
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET customer_id = ?, customer_name = ?, owner_id = ?, owner_name = ?,
		product_id = ?, project_name = ?, planning_date = ?, activity_type = ?, description = ?,
		status = ?, manager_status = ?, bod_status = ?, lifecycle_status = ?,
		submitted_at = ?, manager_reviewed_at = ?, bod_reviewed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.CustomerID,
		p.CustomerName,
		p.OwnerID,
		p.OwnerName,
		nullableString(p.ProductID),
		p.ProjectName,
		p.PlanningDate.Format(dateLayout),
		p.ActivityType,
		p.Description,
		string(p.Status),
		nullableStatus(string(p.ManagerStatus)),
		nullableStatus(string(p.BODStatus)),
		string(p.LifecycleStatus),
		nullableTimeToString(p.SubmittedAt, time.RFC3339),
		nullableTimeToString(p.ManagerReviewedAt, time.RFC3339),
		nullableTimeToString(p.BODReviewedAt, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM plans WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()
	return r.scanPlans(rows)
}

func (r *SQLitePlanRepo) ListLineage(ctx context.Context, customerID string, productID *string, activityType string) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE customer_id = ? AND ` + productMatch(productID) + ` AND activity_type = ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, lineageArgs(customerID, productID, activityType)...)
	if err != nil {
		return nil, fmt.Errorf("listing plan lineage: %w", err)
	}
	defer rows.Close()
	return r.scanPlans(rows)
}

func (r *SQLitePlanRepo) HasLaterPlan(ctx context.Context, customerID string, productID *string, seq int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM plans
		WHERE customer_id = ? AND ` + productMatch(productID) + ` AND seq > ?)`
	args := []any{customerID}
	if productID != nil {
		args = append(args, *productID)
	}
	args = append(args, seq)

	var exists int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking later plan: %w", err)
	}
	return intToBool(exists), nil
}

func (r *SQLitePlanRepo) FindFollowUpByDate(ctx context.Context, ownerID, customerID string, productID *string, planningDate time.Time) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE owner_id = ? AND customer_id = ? AND ` + productMatch(productID) + `
		  AND status = 'created' AND planning_date = ?
		ORDER BY seq LIMIT 1`
	args := []any{ownerID, customerID}
	if productID != nil {
		args = append(args, *productID)
	}
	args = append(args, planningDate.Format(dateLayout))
	row := r.db.QueryRowContext(ctx, query, args...)
	return r.scanPlan(row)
}

func (r *SQLitePlanRepo) FindFollowUpInWindow(ctx context.Context, ownerID, customerID string, productID *string, start, end time.Time, excludeID string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE owner_id = ? AND customer_id = ? AND ` + productMatch(productID) + `
		  AND status = 'created'
		  AND created_at BETWEEN ? AND ?
		  AND id != ?
		ORDER BY seq LIMIT 1`
	args := []any{ownerID, customerID}
	if productID != nil {
		args = append(args, *productID)
	}
	args = append(args, start.Format(time.RFC3339), end.Format(time.RFC3339), excludeID)
	row := r.db.QueryRowContext(ctx, query, args...)
	return r.scanPlan(row)
}

func (r *SQLitePlanRepo) ListExpiryCandidates(ctx context.Context, cutoff time.Time) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE status = 'created' AND lifecycle_status != 'expired' AND created_at <= ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, cutoff.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing expiry candidates: %w", err)
	}
	defer rows.Close()
	return r.scanPlans(rows)
}

func (r *SQLitePlanRepo) ListWarningCandidates(ctx context.Context, warningCutoff, expiryCutoff time.Time) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE status = 'created' AND lifecycle_status NOT IN ('expired', 'failed')
		  AND created_at <= ? AND created_at > ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query,
		warningCutoff.Format(time.RFC3339), expiryCutoff.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing warning candidates: %w", err)
	}
	defer rows.Close()
	return r.scanPlans(rows)
}

// productMatch builds the product predicate: a nil product matches NULL,
// mirroring how lineages distinguish "no product" from any product.
func productMatch(productID *string) string {
	if productID == nil {
		return `product_id IS NULL`
	}
	return `product_id = ?`
}

func lineageArgs(customerID string, productID *string, activityType string) []any {
	args := []any{customerID}
	if productID != nil {
		args = append(args, *productID)
	}
	return append(args, activityType)
}

// scanPlan scans a single plan from a *sql.Row.
func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.Plan, error) {
	var p domain.Plan
	var productID, managerStr, bodStr sql.NullString
	var statusStr, lifecycleStr, planningDateStr string
	var submittedStr, managerAtStr, bodAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Seq, &p.CustomerID, &p.CustomerName, &p.OwnerID, &p.OwnerName, &productID,
		&p.ProjectName, &planningDateStr, &p.ActivityType, &p.Description,
		&statusStr, &managerStr, &bodStr, &lifecycleStr,
		&submittedStr, &managerAtStr, &bodAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	return r.populatePlan(&p, productID, statusStr, managerStr, bodStr, lifecycleStr,
		planningDateStr, submittedStr, managerAtStr, bodAtStr, createdAtStr, updatedAtStr)
}

// scanPlans scans multiple plans from *sql.Rows.
func (r *SQLitePlanRepo) scanPlans(rows *sql.Rows) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	for rows.Next() {
		var p domain.Plan
		var productID, managerStr, bodStr sql.NullString
		var statusStr, lifecycleStr, planningDateStr string
		var submittedStr, managerAtStr, bodAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&p.ID, &p.Seq, &p.CustomerID, &p.CustomerName, &p.OwnerID, &p.OwnerName, &productID,
			&p.ProjectName, &planningDateStr, &p.ActivityType, &p.Description,
			&statusStr, &managerStr, &bodStr, &lifecycleStr,
			&submittedStr, &managerAtStr, &bodAtStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}

		plan, err := r.populatePlan(&p, productID, statusStr, managerStr, bodStr, lifecycleStr,
			planningDateStr, submittedStr, managerAtStr, bodAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// populatePlan fills in parsed fields on a Plan after scanning raw values.
func (r *SQLitePlanRepo) populatePlan(
	p *domain.Plan,
	productID sql.NullString,
	statusStr string,
	managerStr, bodStr sql.NullString,
	lifecycleStr, planningDateStr string,
	submittedStr, managerAtStr, bodAtStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.Plan, error) {
	p.ProductID = parseNullableString(productID)
	p.Status = domain.PlanStatus(statusStr)
	p.ManagerStatus = domain.ManagerStatus(managerStr.String)
	p.BODStatus = domain.BODStatus(bodStr.String)
	p.LifecycleStatus = domain.LifecycleStatus(lifecycleStr)

	p.SubmittedAt = parseNullableTime(submittedStr, time.RFC3339)
	p.ManagerReviewedAt = parseNullableTime(managerAtStr, time.RFC3339)
	p.BODReviewedAt = parseNullableTime(bodAtStr, time.RFC3339)

	var parseErr error
	p.PlanningDate, parseErr = time.Parse(dateLayout, planningDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing planning_date: %w", parseErr)
	}
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return p, nil
}
