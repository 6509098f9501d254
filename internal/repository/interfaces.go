package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/salesplan/internal/domain"
)

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	Update(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error

	// List returns all plans in creation order.
	List(ctx context.Context) ([]*domain.Plan, error)

	// ListLineage returns all plans for the same (customer, product,
	// activity type), ordered by creation. Feeds the activity-code walk.
	ListLineage(ctx context.Context, customerID string, productID *string, activityType string) ([]*domain.Plan, error)

	// HasLaterPlan reports whether a newer plan exists for the same
	// (customer, product) pair. Drives the derived is_history flag.
	HasLaterPlan(ctx context.Context, customerID string, productID *string, seq int64) (bool, error)

	// FindFollowUpByDate locates a generated follow-up plan by its exact
	// planning date.
	FindFollowUpByDate(ctx context.Context, ownerID, customerID string, productID *string, planningDate time.Time) (*domain.Plan, error)

	// FindFollowUpInWindow locates a follow-up plan created inside the
	// given window, excluding the parent. This fallback exists for data
	// predating the stored next-date field and can mismatch under
	// concurrent creation.
	FindFollowUpInWindow(ctx context.Context, ownerID, customerID string, productID *string, start, end time.Time, excludeID string) (*domain.Plan, error)

	// ListExpiryCandidates returns created, not-yet-expired plans whose
	// creation precedes the cutoff.
	ListExpiryCandidates(ctx context.Context, cutoff time.Time) ([]*domain.Plan, error)

	// ListWarningCandidates returns created plans whose creation falls
	// inside the warning band (after the expiry cutoff, before the
	// warning cutoff).
	ListWarningCandidates(ctx context.Context, warningCutoff, expiryCutoff time.Time) ([]*domain.Plan, error)
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.Report) error
	GetByPlanID(ctx context.Context, planID string) (*domain.Report, error)
	Update(ctx context.Context, r *domain.Report) error
}

type StatusLogRepo interface {
	Append(ctx context.Context, l *domain.PlanStatusLog) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.PlanStatusLog, error)
	CountCountable(ctx context.Context, planID string, field domain.LogField) (int, error)
	LastByField(ctx context.Context, planID string, field domain.LogField) (*domain.PlanStatusLog, error)
	DeleteByPlanField(ctx context.Context, planID string, field domain.LogField) error
	DeleteByPlan(ctx context.Context, planID string) error
	Truncate(ctx context.Context) error
}

type TimeSettingRepo interface {
	// Get returns the singleton configuration row, or ErrNotFound when
	// it has never been written.
	Get(ctx context.Context) (*domain.TimeSetting, error)
	Upsert(ctx context.Context, s *domain.TimeSetting) error
}

type DailyLogRepo interface {
	Create(ctx context.Context, l *domain.DailyLog) error
	GetByID(ctx context.Context, id string) (*domain.DailyLog, error)
	ListLineage(ctx context.Context, customerID string, productID *string, activityType string) ([]*domain.DailyLog, error)
}

// SequenceRepo allocates creation-order sequence values per scope.
type SequenceRepo interface {
	Next(ctx context.Context, scope string) (int64, error)
}

// Sequence scopes.
const (
	ScopePlans     = "plans"
	ScopeDailyLogs = "daily_logs"
)
