package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/salesplan/internal/clock"
	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/repository"
)

type planService struct {
	plans    repository.PlanRepo
	reports  repository.ReportRepo
	settings repository.TimeSettingRepo
	uow      db.UnitOfWork
	clock    clock.Clock
	observer UseCaseObserver
}

func NewPlanService(
	plans repository.PlanRepo,
	reports repository.ReportRepo,
	settings repository.TimeSettingRepo,
	uow db.UnitOfWork,
	clk clock.Clock,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:    plans,
		reports:  reports,
		settings: settings,
		uow:      uow,
		clock:    clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) CreatePlan(ctx context.Context, in CreatePlanInput) (plan *domain.Plan, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan.create", started, err, map[string]any{
			"customer_id": in.CustomerID,
		})
	}()

	if err := validateCreatePlan(in); err != nil {
		return nil, err
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	if !settings.CreationAllowedOn(now) {
		return nil, fmt.Errorf("plan creation is not allowed on %s: %w", now.Weekday(), ErrValidation)
	}

	p := &domain.Plan{
		ID:           uuid.New().String(),
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		OwnerID:      in.OwnerID,
		OwnerName:    in.OwnerName,
		ProductID:    in.ProductID,
		ProjectName:  in.ProjectName,
		PlanningDate: in.PlanningDate,
		ActivityType: in.ActivityType,
		Description:  in.Description,
		Status:       domain.PlanCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.LifecycleStatus = domain.DeriveLifecycle(p, domain.LifecycleInput{
		Expiry: settings.ExpiryPolicy(),
		Now:    now,
	})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txSeq := repository.NewSQLiteRecordSequenceRepo(tx)

		seq, err := txSeq.Next(ctx, repository.ScopePlans)
		if err != nil {
			return err
		}
		p.Seq = seq
		return txPlans.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *planService) GetReport(ctx context.Context, planID string) (*domain.Report, error) {
	return s.reports.GetByPlanID(ctx, planID)
}

func (s *planService) SubmitReport(ctx context.Context, planID string, in ReportInput, actor Actor) (result *TransitionResult, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan.submit_report", started, err, map[string]any{
			"plan_id": planID,
			"actor":   actor.ID,
		})
	}()

	if err := validateReport(in); err != nil {
		return nil, err
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txReports := repository.NewSQLiteReportRepo(tx)
		txSeq := repository.NewSQLiteRecordSequenceRepo(tx)

		p, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		if p.Status == domain.PlanReported {
			return fmt.Errorf("plan already has a report: %w", ErrValidation)
		}

		rep := newReport(p, in, now)
		if err := txReports.Create(ctx, rep); err != nil {
			return err
		}

		p.Status = domain.PlanReported
		p.ManagerStatus = domain.ManagerPending
		p.BODStatus = domain.BODPending
		p.SubmittedAt = &now
		p.UpdatedAt = now
		p.LifecycleStatus = domain.DeriveLifecycle(p, domain.LifecycleInput{
			HasReport: true,
			Expiry:    settings.ExpiryPolicy(),
			Now:       now,
		})
		if err := txPlans.Update(ctx, p); err != nil {
			return err
		}

		if _, err := generateFollowUp(ctx, txPlans, txSeq, p, rep, now); err != nil {
			return err
		}

		code, err := planActivityCode(ctx, txPlans, p)
		if err != nil {
			return err
		}
		result = &TransitionResult{
			Plan: p,
			Events: []domain.Event{domain.ReportSubmitted{
				PlanID:       p.ID,
				CustomerName: p.CustomerName,
				ActivityCode: code,
				ActorName:    actor.Name,
			}},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *planService) Revise(ctx context.Context, planID string, in RevisionInput, actor Actor) (result *TransitionResult, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan.revise", started, err, map[string]any{
			"plan_id":     planID,
			"actor":       actor.ID,
			"with_report": in.Report != nil,
		})
	}()

	if err := validateRevision(in); err != nil {
		return nil, err
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txReports := repository.NewSQLiteReportRepo(tx)
		txLogs := repository.NewSQLiteStatusLogRepo(tx)
		txSeq := repository.NewSQLiteRecordSequenceRepo(tx)

		p, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		rep, err := reportFor(ctx, txReports, p.ID)
		if err != nil {
			return err
		}

		// The follow-up generated from the pre-revision report is stale
		// either way; remove it before any new one is created.
		if err := deleteOrphanFollowUp(ctx, txPlans, p, rep); err != nil {
			return err
		}

		if in.Report == nil {
			result, err = s.reviseBranch(ctx, txPlans, txLogs, txSeq, p, in, actor, now)
			return err
		}
		result, err = s.reviseInPlace(ctx, txPlans, txReports, txLogs, txSeq, p, rep, in, actor, now, settings)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reviseBranch creates a fresh plan carrying the revised fields and
// leaves the original untouched so its rejected history stays visible.
func (s *planService) reviseBranch(
	ctx context.Context,
	txPlans *repository.SQLitePlanRepo,
	txLogs *repository.SQLiteStatusLogRepo,
	txSeq *repository.SQLiteRecordSequenceRepo,
	p *domain.Plan,
	in RevisionInput,
	actor Actor,
	now time.Time,
) (*TransitionResult, error) {
	seq, err := txSeq.Next(ctx, repository.ScopePlans)
	if err != nil {
		return nil, err
	}
	revised := &domain.Plan{
		ID:              uuid.New().String(),
		Seq:             seq,
		CustomerID:      p.CustomerID,
		CustomerName:    p.CustomerName,
		OwnerID:         p.OwnerID,
		OwnerName:       p.OwnerName,
		ProductID:       p.ProductID,
		ProjectName:     p.ProjectName,
		PlanningDate:    in.PlanningDate,
		ActivityType:    in.ActivityType,
		Description:     in.Description,
		Status:          domain.PlanCreated,
		ManagerStatus:   domain.ManagerPending,
		BODStatus:       domain.BODPending,
		LifecycleStatus: domain.LifecycleActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := txPlans.Create(ctx, revised); err != nil {
		return nil, err
	}

	err = txLogs.Append(ctx, &domain.PlanStatusLog{
		ID:        uuid.New().String(),
		PlanID:    p.ID,
		ActorID:   actor.ID,
		Field:     domain.FieldRevision,
		OldValue:  string(p.ManagerStatus),
		NewValue:  "revised",
		Notes:     fmt.Sprintf("revised into plan %s", revised.ID),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Plan: revised}, nil
}

// reviseInPlace rewrites the original plan's fields, upserts its report,
// resets both approval tracks, and regenerates the follow-up.
func (s *planService) reviseInPlace(
	ctx context.Context,
	txPlans *repository.SQLitePlanRepo,
	txReports *repository.SQLiteReportRepo,
	txLogs *repository.SQLiteStatusLogRepo,
	txSeq *repository.SQLiteRecordSequenceRepo,
	p *domain.Plan,
	rep *domain.Report,
	in RevisionInput,
	actor Actor,
	now time.Time,
	settings *domain.TimeSetting,
) (*TransitionResult, error) {
	oldManager := p.ManagerStatus

	p.PlanningDate = in.PlanningDate
	p.ActivityType = in.ActivityType
	p.Description = in.Description
	p.Status = domain.PlanReported
	p.ManagerStatus = domain.ManagerPending
	p.BODStatus = domain.BODPending
	p.BODReviewedAt = nil
	p.SubmittedAt = &now
	p.UpdatedAt = now
	p.LifecycleStatus = domain.DeriveLifecycle(p, domain.LifecycleInput{
		HasReport: true,
		Expiry:    settings.ExpiryPolicy(),
		Now:       now,
	})
	if err := txPlans.Update(ctx, p); err != nil {
		return nil, err
	}

	if rep == nil {
		rep = newReport(p, *in.Report, now)
		if err := txReports.Create(ctx, rep); err != nil {
			return nil, err
		}
	} else {
		applyReportInput(rep, p, *in.Report, now)
		if err := txReports.Update(ctx, rep); err != nil {
			return nil, err
		}
	}

	if _, err := generateFollowUp(ctx, txPlans, txSeq, p, rep, now); err != nil {
		return nil, err
	}

	err := txLogs.Append(ctx, &domain.PlanStatusLog{
		ID:        uuid.New().String(),
		PlanID:    p.ID,
		ActorID:   actor.ID,
		Field:     domain.FieldRevision,
		OldValue:  string(oldManager),
		NewValue:  "reported",
		Notes:     "revised with report",
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	code, err := planActivityCode(ctx, txPlans, p)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{
		Plan: p,
		Events: []domain.Event{domain.ReportSubmitted{
			PlanID:       p.ID,
			CustomerName: p.CustomerName,
			ActivityCode: code,
			ActorName:    actor.Name,
		}},
	}, nil
}

func (s *planService) ActivityCode(ctx context.Context, planID string) (string, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}
	return planActivityCode(ctx, s.plans, p)
}

func (s *planService) IsHistory(ctx context.Context, planID string) (bool, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return false, err
	}
	return s.plans.HasLaterPlan(ctx, p.CustomerID, p.ProductID, p.Seq)
}

// generateFollowUp creates the next plan seeded from a non-closing
// report's "next" fields. Both approval fields stay unset until its own
// report is filed. Returns nil without error when no follow-up applies.
func generateFollowUp(
	ctx context.Context,
	txPlans *repository.SQLitePlanRepo,
	txSeq *repository.SQLiteRecordSequenceRepo,
	parent *domain.Plan,
	rep *domain.Report,
	now time.Time,
) (*domain.Plan, error) {
	if rep.IsClosing() || rep.NextPlanningDate == nil {
		return nil, nil
	}

	seq, err := txSeq.Next(ctx, repository.ScopePlans)
	if err != nil {
		return nil, err
	}
	activityType := rep.NextActivityType
	if activityType == "" {
		activityType = parent.ActivityType
	}
	description := rep.NextPlanDescription
	if description == "" {
		description = "Follow up from previous report"
	}

	followUp := &domain.Plan{
		ID:              uuid.New().String(),
		Seq:             seq,
		CustomerID:      parent.CustomerID,
		CustomerName:    parent.CustomerName,
		OwnerID:         parent.OwnerID,
		OwnerName:       parent.OwnerName,
		ProductID:       parent.ProductID,
		ProjectName:     parent.ProjectName,
		PlanningDate:    *rep.NextPlanningDate,
		ActivityType:    activityType,
		Description:     description,
		Status:          domain.PlanCreated,
		LifecycleStatus: domain.LifecycleActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := txPlans.Create(ctx, followUp); err != nil {
		return nil, err
	}
	return followUp, nil
}

func newReport(p *domain.Plan, in ReportInput, now time.Time) *domain.Report {
	rep := &domain.Report{
		ID:        uuid.New().String(),
		PlanID:    p.ID,
		CreatedAt: now,
	}
	applyReportInput(rep, p, in, now)
	return rep
}

func applyReportInput(rep *domain.Report, p *domain.Plan, in ReportInput, now time.Time) {
	rep.ExecutionDate = in.ExecutionDate
	rep.Location = in.Location
	rep.PIC = in.PIC
	rep.Position = in.Position
	rep.ResultDescription = in.ResultDescription
	rep.Progress = in.Progress
	rep.IsSuccess = in.IsSuccess
	rep.IsLate = in.ExecutionDate.After(p.PlanningDate)
	rep.NextPlanningDate = in.NextPlanningDate
	rep.NextActivityType = in.NextActivityType
	rep.NextPlanDescription = in.NextPlanDescription
	rep.UpdatedAt = now
}

func validateCreatePlan(in CreatePlanInput) error {
	switch {
	case in.CustomerID == "":
		return fmt.Errorf("customer is required: %w", ErrValidation)
	case in.OwnerID == "":
		return fmt.Errorf("owner is required: %w", ErrValidation)
	case in.PlanningDate.IsZero():
		return fmt.Errorf("planning date is required: %w", ErrValidation)
	case in.ActivityType == "":
		return fmt.Errorf("activity type is required: %w", ErrValidation)
	case in.Description == "":
		return fmt.Errorf("description is required: %w", ErrValidation)
	}
	return nil
}

func validateReport(in ReportInput) error {
	switch {
	case in.ExecutionDate.IsZero():
		return fmt.Errorf("execution date is required: %w", ErrValidation)
	case in.Location == "":
		return fmt.Errorf("location is required: %w", ErrValidation)
	case in.PIC == "":
		return fmt.Errorf("PIC is required: %w", ErrValidation)
	case in.Position == "":
		return fmt.Errorf("position is required: %w", ErrValidation)
	case in.ResultDescription == "":
		return fmt.Errorf("result description is required: %w", ErrValidation)
	case in.Progress == "":
		return fmt.Errorf("progress is required: %w", ErrValidation)
	}
	if in.Progress != domain.ClosingProgress {
		if in.NextPlanningDate == nil {
			return fmt.Errorf("next planning date is required for a non-closing report: %w", ErrValidation)
		}
		if in.NextActivityType == "" {
			return fmt.Errorf("next activity type is required for a non-closing report: %w", ErrValidation)
		}
	}
	return nil
}

func validateRevision(in RevisionInput) error {
	switch {
	case in.PlanningDate.IsZero():
		return fmt.Errorf("planning date is required: %w", ErrValidation)
	case in.ActivityType == "":
		return fmt.Errorf("activity type is required: %w", ErrValidation)
	case in.Description == "":
		return fmt.Errorf("description is required: %w", ErrValidation)
	}
	if in.Report != nil {
		return validateReport(*in.Report)
	}
	return nil
}
