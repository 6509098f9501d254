package testutil

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/salesplan/internal/domain"
)

var testSeqCounter atomic.Int64

// NextSeq allocates a process-unique sequence value for fixtures that
// are inserted directly through repositories, bypassing the allocator.
func NextSeq() int64 {
	return testSeqCounter.Add(1)
}

// Plan options
type PlanOption func(*domain.Plan)

func WithSeq(seq int64) PlanOption {
	return func(p *domain.Plan) { p.Seq = seq }
}

func WithOwner(id, name string) PlanOption {
	return func(p *domain.Plan) {
		p.OwnerID = id
		p.OwnerName = name
	}
}

func WithProduct(id string) PlanOption {
	return func(p *domain.Plan) { p.ProductID = &id }
}

func WithActivityType(t string) PlanOption {
	return func(p *domain.Plan) { p.ActivityType = t }
}

func WithPlanningDate(d time.Time) PlanOption {
	return func(p *domain.Plan) { p.PlanningDate = d }
}

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) { p.Status = s }
}

func WithManagerStatus(s domain.ManagerStatus) PlanOption {
	return func(p *domain.Plan) { p.ManagerStatus = s }
}

func WithBODStatus(s domain.BODStatus) PlanOption {
	return func(p *domain.Plan) { p.BODStatus = s }
}

func WithLifecycleStatus(s domain.LifecycleStatus) PlanOption {
	return func(p *domain.Plan) { p.LifecycleStatus = s }
}

func WithPlanCreatedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func WithSubmittedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) { p.SubmittedAt = &t }
}

func WithManagerReviewedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) { p.ManagerReviewedAt = &t }
}

func WithBODReviewedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) { p.BODReviewedAt = &t }
}

func NewTestPlan(customerID string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:              uuid.New().String(),
		Seq:             NextSeq(),
		CustomerID:      customerID,
		CustomerName:    "Customer " + customerID,
		OwnerID:         "user-1",
		OwnerName:       "Sales One",
		ProjectName:     "Test Project",
		PlanningDate:    now.AddDate(0, 0, 7),
		ActivityType:    "Visit",
		Description:     "Introductory visit",
		Status:          domain.PlanCreated,
		LifecycleStatus: domain.LifecycleActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report options
type ReportOption func(*domain.Report)

func WithProgress(progress string) ReportOption {
	return func(r *domain.Report) { r.Progress = progress }
}

func WithNextPlanningDate(d time.Time) ReportOption {
	return func(r *domain.Report) { r.NextPlanningDate = &d }
}

func WithoutNextPlanningDate() ReportOption {
	return func(r *domain.Report) { r.NextPlanningDate = nil }
}

func WithNextActivityType(t string) ReportOption {
	return func(r *domain.Report) { r.NextActivityType = t }
}

func WithExecutionDate(d time.Time) ReportOption {
	return func(r *domain.Report) { r.ExecutionDate = d }
}

func WithReportCreatedAt(t time.Time) ReportOption {
	return func(r *domain.Report) {
		r.CreatedAt = t
		r.UpdatedAt = t
	}
}

func NewTestReport(planID string, opts ...ReportOption) *domain.Report {
	now := time.Now().UTC()
	next := now.AddDate(0, 0, 7)
	r := &domain.Report{
		ID:                uuid.New().String(),
		PlanID:            planID,
		ExecutionDate:     now,
		Location:          "Customer HQ",
		PIC:               "Jane Roe",
		Position:          "Purchasing Manager",
		ResultDescription: "Met the purchasing team",
		Progress:          "50%",
		NextPlanningDate:  &next,
		NextActivityType:  "Call",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StatusLog options
type LogOption func(*domain.PlanStatusLog)

func WithLogCreatedAt(t time.Time) LogOption {
	return func(l *domain.PlanStatusLog) { l.CreatedAt = t }
}

func WithGracePeriod() LogOption {
	return func(l *domain.PlanStatusLog) { l.IsGracePeriod = true }
}

func WithOldValue(v string) LogOption {
	return func(l *domain.PlanStatusLog) { l.OldValue = v }
}

func NewTestStatusLog(planID string, field domain.LogField, newValue string, opts ...LogOption) *domain.PlanStatusLog {
	l := &domain.PlanStatusLog{
		ID:        uuid.New().String(),
		PlanID:    planID,
		ActorID:   "mgr-1",
		Field:     field,
		OldValue:  string(domain.ManagerPending),
		NewValue:  newValue,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TimeSetting options
type SettingOption func(*domain.TimeSetting)

func WithExpiry(value float64, unit domain.TimeUnit) SettingOption {
	return func(s *domain.TimeSetting) {
		s.PlanExpiryValue = value
		s.PlanExpiryUnit = unit
	}
}

func WithAllowedDays(days ...time.Weekday) SettingOption {
	return func(s *domain.TimeSetting) { s.AllowedCreationDays = days }
}

func WithTestingMode() SettingOption {
	return func(s *domain.TimeSetting) { s.TestingMode = true }
}

func WithOffsetDays(days int) SettingOption {
	return func(s *domain.TimeSetting) { s.TimeOffsetDays = days }
}

// NewTestTimeSetting builds a configuration row with the installation
// defaults except that creation is allowed on every weekday, so tests do
// not depend on the day they run.
func NewTestTimeSetting(opts ...SettingOption) *domain.TimeSetting {
	s := domain.DefaultTimeSetting()
	s.AllowedCreationDays = nil
	s.UpdatedAt = time.Now().UTC()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DailyLog options
type DailyLogOption func(*domain.DailyLog)

func WithDailyLogActivity(t string) DailyLogOption {
	return func(l *domain.DailyLog) { l.ActivityType = t }
}

func WithDailyLogProduct(id string) DailyLogOption {
	return func(l *domain.DailyLog) { l.ProductID = &id }
}

func NewTestDailyLog(customerID string, opts ...DailyLogOption) *domain.DailyLog {
	now := time.Now().UTC()
	l := &domain.DailyLog{
		ID:           uuid.New().String(),
		Seq:          NextSeq(),
		CustomerID:   customerID,
		ActivityType: "Call",
		Description:  "Checked in by phone",
		LoggedAt:     now,
		CreatedAt:    now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
