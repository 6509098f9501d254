package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/salesplan/internal/clock"
	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/repository"
)

type sweepService struct {
	plans    repository.PlanRepo
	settings repository.TimeSettingRepo
	uow      db.UnitOfWork
	clock    clock.Clock
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewSweepService(
	plans repository.PlanRepo,
	settings repository.TimeSettingRepo,
	uow db.UnitOfWork,
	clk clock.Clock,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) SweepService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sweepService{
		plans:    plans,
		settings: settings,
		uow:      uow,
		clock:    clk,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sweepService) ExpirePlans(ctx context.Context) (result *SweepResult, err error) {
	started := time.Now()
	defer func() {
		fields := map[string]any{}
		if result != nil {
			fields["scanned"] = result.Scanned
			fields["applied"] = result.Applied
			fields["skipped"] = result.Skipped
		}
		observe(ctx, s.observer, "sweep.expire", started, err, fields)
	}()

	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	policy := settings.ExpiryPolicy()
	if !policy.Enabled() {
		return &SweepResult{}, nil
	}

	candidates, err := s.plans.ListExpiryCandidates(ctx, policy.Cutoff(now))
	if err != nil {
		return nil, err
	}

	result = &SweepResult{Scanned: len(candidates)}
	for _, candidate := range candidates {
		if !policy.IsExpired(candidate.CreatedAt, now) {
			result.Skipped++
			continue
		}
		// One transaction per plan: a failing plan must not abort the
		// rest of the batch.
		txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txPlans := repository.NewSQLitePlanRepo(tx)
			p, err := txPlans.GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if p.Status != domain.PlanCreated || p.LifecycleStatus == domain.LifecycleExpired {
				return nil
			}
			p.LifecycleStatus = domain.LifecycleExpired
			p.UpdatedAt = now
			return txPlans.Update(ctx, p)
		})
		if txErr != nil {
			s.logger.WarnContext(ctx, "expiring plan failed",
				"plan_id", candidate.ID, "error", txErr)
			result.Skipped++
			continue
		}
		result.Applied++
	}
	return result, nil
}

func (s *sweepService) DeadlineWarnings(ctx context.Context) (events []domain.Event, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "sweep.warnings", started, err, map[string]any{
			"events": len(events),
		})
	}()

	now, err := s.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	policy := settings.ExpiryPolicy()
	if !policy.Enabled() {
		return nil, nil
	}

	candidates, err := s.plans.ListWarningCandidates(ctx, policy.WarningCutoff(now), policy.Cutoff(now))
	if err != nil {
		return nil, err
	}

	for _, p := range candidates {
		if !policy.IsWarning(p.CreatedAt, now) {
			continue
		}
		code, err := planActivityCode(ctx, s.plans, p)
		if err != nil {
			return nil, err
		}
		events = append(events, domain.PlanDeadlineWarning{
			PlanID:       p.ID,
			CustomerName: p.CustomerName,
			ActivityCode: code,
			OwnerID:      p.OwnerID,
		})
	}
	return events, nil
}
