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

type reviewService struct {
	plans    repository.PlanRepo
	logs     repository.StatusLogRepo
	settings repository.TimeSettingRepo
	uow      db.UnitOfWork
	clock    clock.Clock
	observer UseCaseObserver
}

func NewReviewService(
	plans repository.PlanRepo,
	logs repository.StatusLogRepo,
	settings repository.TimeSettingRepo,
	uow db.UnitOfWork,
	clk clock.Clock,
	observers ...UseCaseObserver,
) ReviewService {
	return &reviewService{
		plans:    plans,
		logs:     logs,
		settings: settings,
		uow:      uow,
		clock:    clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reviewService) UpdateManagerStatus(ctx context.Context, planID string, newStatus domain.ManagerStatus, actor Actor, notes string) (result *TransitionResult, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "review.manager_status", started, err, map[string]any{
			"plan_id": planID,
			"status":  string(newStatus),
			"actor":   actor.ID,
		})
	}()

	switch newStatus {
	case domain.ManagerPending, domain.ManagerApproved, domain.ManagerRejected, domain.ManagerEscalated:
	default:
		return nil, fmt.Errorf("unknown manager status %q: %w", newStatus, ErrValidation)
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

		p, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		old := p.ManagerStatus

		// Re-escalation is allowed to refresh the reminder; every other
		// same-value transition is a no-op.
		if newStatus == old && newStatus != domain.ManagerEscalated {
			return ErrUnchanged
		}

		last, err := txLogs.LastByField(ctx, p.ID, domain.FieldManagerStatus)
		if err != nil {
			return err
		}
		inGrace := domain.GraceRemaining(last, now) > 0

		if !actor.SuperAdmin {
			if newStatus == domain.ManagerPending {
				return fmt.Errorf("resetting manager status requires a privileged actor: %w", ErrLocked)
			}
			if !p.CanManagerChange(now) {
				return fmt.Errorf("manager status cannot be changed: %w", ErrLocked)
			}
			if newStatus.Terminal() && !inGrace {
				countable, err := txLogs.CountCountable(ctx, p.ID, domain.FieldManagerStatus)
				if err != nil {
					return err
				}
				if domain.RemainingChanges(countable) == 0 {
					return fmt.Errorf("manager status: %w", ErrQuotaExceeded)
				}
			}
		}

		p.ManagerStatus = newStatus
		manualFailed := false
		switch newStatus {
		case domain.ManagerPending:
			// Full reset: the board restarts too, and the quota ledger
			// for this track is wiped.
			p.ManagerReviewedAt = nil
			p.BODStatus = domain.BODPending
			p.BODReviewedAt = nil
			if err := txLogs.DeleteByPlanField(ctx, p.ID, domain.FieldManagerStatus); err != nil {
				return err
			}
		case domain.ManagerRejected:
			p.ManagerReviewedAt = &now
			p.BODStatus = domain.BODFailed
			p.BODReviewedAt = &now
			manualFailed = true
			rep, err := reportFor(ctx, txReports, p.ID)
			if err != nil {
				return err
			}
			if err := deleteOrphanFollowUp(ctx, txPlans, p, rep); err != nil {
				return err
			}
		case domain.ManagerApproved, domain.ManagerEscalated:
			p.ManagerReviewedAt = &now
			if p.BODStatus == domain.BODFailed {
				p.BODStatus = domain.BODPending
				p.BODReviewedAt = nil
			}
		}

		p.LifecycleStatus = domain.DeriveLifecycle(p, domain.LifecycleInput{
			HasReport:    p.Status == domain.PlanReported,
			Expiry:       settings.ExpiryPolicy(),
			Now:          now,
			ManualFailed: manualFailed,
		})
		p.UpdatedAt = now
		if err := txPlans.Update(ctx, p); err != nil {
			return err
		}

		result = &TransitionResult{Plan: p}
		if newStatus == domain.ManagerPending {
			return nil
		}

		err = txLogs.Append(ctx, &domain.PlanStatusLog{
			ID:            uuid.New().String(),
			PlanID:        p.ID,
			ActorID:       actor.ID,
			Field:         domain.FieldManagerStatus,
			OldValue:      string(old),
			NewValue:      string(newStatus),
			IsGracePeriod: inGrace,
			Notes:         notes,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		code, err := planActivityCode(ctx, txPlans, p)
		if err != nil {
			return err
		}
		result.Events = []domain.Event{domain.PlanStatusChanged{
			PlanID:       p.ID,
			CustomerName: p.CustomerName,
			ActivityCode: code,
			Status:       string(newStatus),
			ActorName:    actor.Name,
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reviewService) UpdateBODStatus(ctx context.Context, planID string, newStatus domain.BODStatus, actor Actor, notes string) (result *TransitionResult, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "review.bod_status", started, err, map[string]any{
			"plan_id": planID,
			"status":  string(newStatus),
			"actor":   actor.ID,
		})
	}()

	switch newStatus {
	case domain.BODPending, domain.BODSuccess, domain.BODFailed:
	default:
		return nil, fmt.Errorf("unknown bod status %q: %w", newStatus, ErrValidation)
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

		p, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		old := p.BODStatus
		if newStatus == old {
			return ErrUnchanged
		}

		// Board outcomes are not countable values, so the change quota
		// never binds on this track; only the grace-window lock applies.
		if !actor.SuperAdmin && !p.CanBODChange(now) {
			return fmt.Errorf("bod status cannot be changed: %w", ErrLocked)
		}

		last, err := txLogs.LastByField(ctx, p.ID, domain.FieldBODStatus)
		if err != nil {
			return err
		}
		inGrace := domain.GraceRemaining(last, now) > 0

		p.BODStatus = newStatus
		manualFailed := false
		switch newStatus {
		case domain.BODPending:
			p.BODReviewedAt = nil
		case domain.BODSuccess:
			p.BODReviewedAt = &now
		case domain.BODFailed:
			p.BODReviewedAt = &now
			manualFailed = true
			rep, err := reportFor(ctx, txReports, p.ID)
			if err != nil {
				return err
			}
			if err := deleteOrphanFollowUp(ctx, txPlans, p, rep); err != nil {
				return err
			}
		}

		p.LifecycleStatus = domain.DeriveLifecycle(p, domain.LifecycleInput{
			HasReport:    p.Status == domain.PlanReported,
			Expiry:       settings.ExpiryPolicy(),
			Now:          now,
			ManualFailed: manualFailed,
		})
		p.UpdatedAt = now
		if err := txPlans.Update(ctx, p); err != nil {
			return err
		}

		err = txLogs.Append(ctx, &domain.PlanStatusLog{
			ID:            uuid.New().String(),
			PlanID:        p.ID,
			ActorID:       actor.ID,
			Field:         domain.FieldBODStatus,
			OldValue:      string(old),
			NewValue:      string(newStatus),
			IsGracePeriod: inGrace,
			Notes:         notes,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		result = &TransitionResult{Plan: p}
		if newStatus == domain.BODPending {
			return nil
		}

		code, err := planActivityCode(ctx, txPlans, p)
		if err != nil {
			return err
		}
		result.Events = []domain.Event{domain.PlanStatusChanged{
			PlanID:       p.ID,
			CustomerName: p.CustomerName,
			ActivityCode: code,
			Status:       string(newStatus),
			ActorName:    actor.Name,
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkFailed is the unconditional override: any actor may force a plan
// into the failed state, bypassing the normal guards so stuck plans can
// always be closed out.
func (s *reviewService) MarkFailed(ctx context.Context, planID string, actor Actor) (result *TransitionResult, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "review.mark_failed", started, err, map[string]any{
			"plan_id": planID,
			"actor":   actor.ID,
		})
	}()

	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txReports := repository.NewSQLiteReportRepo(tx)

		p, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}

		p.ManagerStatus = domain.ManagerRejected
		p.BODStatus = domain.BODFailed
		p.ManagerReviewedAt = &now
		p.BODReviewedAt = &now
		p.LifecycleStatus = domain.LifecycleFailed
		p.UpdatedAt = now
		if err := txPlans.Update(ctx, p); err != nil {
			return err
		}

		rep, err := reportFor(ctx, txReports, p.ID)
		if err != nil {
			return err
		}
		if err := deleteOrphanFollowUp(ctx, txPlans, p, rep); err != nil {
			return err
		}

		result = &TransitionResult{Plan: p}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reviewService) ListStatusLogs(ctx context.Context, planID string) ([]*domain.PlanStatusLog, error) {
	return s.logs.ListByPlan(ctx, planID)
}

func (s *reviewService) ResetStatusLogs(ctx context.Context, planID string, actor Actor) error {
	if !actor.SuperAdmin {
		return fmt.Errorf("resetting status logs requires a privileged actor: %w", ErrLocked)
	}
	return s.logs.DeleteByPlan(ctx, planID)
}

func (s *reviewService) ResetAllStatusLogs(ctx context.Context, actor Actor) error {
	if !actor.SuperAdmin {
		return fmt.Errorf("truncating status logs requires a privileged actor: %w", ErrLocked)
	}
	return s.logs.Truncate(ctx)
}

func (s *reviewService) StatusChangeInfo(ctx context.Context, planID string, actor Actor) (*StatusChangeInfo, error) {
	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	manager, err := s.trackInfo(ctx, p, domain.FieldManagerStatus, actor.SuperAdmin || p.CanManagerChange(now), now)
	if err != nil {
		return nil, err
	}
	bod, err := s.trackInfo(ctx, p, domain.FieldBODStatus, actor.SuperAdmin || p.CanBODChange(now), now)
	if err != nil {
		return nil, err
	}
	return &StatusChangeInfo{Manager: *manager, BOD: *bod}, nil
}

func (s *reviewService) trackInfo(ctx context.Context, p *domain.Plan, field domain.LogField, canChange bool, now time.Time) (*TrackInfo, error) {
	countable, err := s.logs.CountCountable(ctx, p.ID, field)
	if err != nil {
		return nil, err
	}
	last, err := s.logs.LastByField(ctx, p.ID, field)
	if err != nil {
		return nil, err
	}
	return &TrackInfo{
		Remaining:    domain.RemainingChanges(countable),
		Max:          domain.MaxStatusChanges,
		CanChange:    canChange,
		GraceSeconds: domain.GraceRemaining(last, now),
	}, nil
}
