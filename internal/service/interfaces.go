package service

import (
	"context"
	"time"

	"github.com/alexanderramin/salesplan/internal/domain"
)

// Actor identifies who is performing a command. SuperAdmin is explicit:
// privileged bypass of locks and quotas is never inferred.
type Actor struct {
	ID         string
	Name       string
	SuperAdmin bool
}

// CreatePlanInput carries the fields for a new plan.
type CreatePlanInput struct {
	CustomerID   string
	CustomerName string
	OwnerID      string
	OwnerName    string
	ProductID    *string
	ProjectName  string
	PlanningDate time.Time
	ActivityType string
	Description  string
}

// ReportInput carries the fields of an execution report.
type ReportInput struct {
	ExecutionDate     time.Time
	Location          string
	PIC               string
	Position          string
	ResultDescription string
	Progress          string
	IsSuccess         bool

	NextPlanningDate    *time.Time
	NextActivityType    string
	NextPlanDescription string
}

// RevisionInput carries a plan revision. A nil Report branches a new
// plan and leaves the original untouched; a non-nil Report updates the
// original in place.
type RevisionInput struct {
	PlanningDate time.Time
	ActivityType string
	Description  string
	Report       *ReportInput
}

// TransitionResult is the outcome of a successful command: the updated
// plan snapshot plus the events for the notification collaborator.
type TransitionResult struct {
	Plan   *domain.Plan
	Events []domain.Event
}

// TrackInfo describes one approval track's change budget for a plan.
type TrackInfo struct {
	Remaining    int
	Max          int
	CanChange    bool
	GraceSeconds int
}

// StatusChangeInfo summarizes both tracks for display.
type StatusChangeInfo struct {
	Manager TrackInfo
	BOD     TrackInfo
}

type PlanService interface {
	CreatePlan(ctx context.Context, in CreatePlanInput) (*domain.Plan, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]*domain.Plan, error)
	GetReport(ctx context.Context, planID string) (*domain.Report, error)
	SubmitReport(ctx context.Context, planID string, in ReportInput, actor Actor) (*TransitionResult, error)
	Revise(ctx context.Context, planID string, in RevisionInput, actor Actor) (*TransitionResult, error)
	ActivityCode(ctx context.Context, planID string) (string, error)
	IsHistory(ctx context.Context, planID string) (bool, error)
}

type ReviewService interface {
	UpdateManagerStatus(ctx context.Context, planID string, newStatus domain.ManagerStatus, actor Actor, notes string) (*TransitionResult, error)
	UpdateBODStatus(ctx context.Context, planID string, newStatus domain.BODStatus, actor Actor, notes string) (*TransitionResult, error)
	MarkFailed(ctx context.Context, planID string, actor Actor) (*TransitionResult, error)
	ListStatusLogs(ctx context.Context, planID string) ([]*domain.PlanStatusLog, error)
	ResetStatusLogs(ctx context.Context, planID string, actor Actor) error
	ResetAllStatusLogs(ctx context.Context, actor Actor) error
	StatusChangeInfo(ctx context.Context, planID string, actor Actor) (*StatusChangeInfo, error)
}

// SweepResult reports a batch sweep outcome.
type SweepResult struct {
	Scanned int
	Applied int
	Skipped int
}

type SweepService interface {
	// ExpirePlans transitions overdue created plans to expired, one
	// transaction per plan; a failing plan is skipped, not fatal.
	ExpirePlans(ctx context.Context) (*SweepResult, error)
	// DeadlineWarnings returns warning events for plans in the early
	// warning band.
	DeadlineWarnings(ctx context.Context) ([]domain.Event, error)
}

type DailyLogService interface {
	Create(ctx context.Context, l *domain.DailyLog) error
	ActivityCode(ctx context.Context, id string) (string, error)
}
