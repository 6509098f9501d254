package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/repository"
)

// followUpWindow is the creation-time tolerance used to match a
// generated follow-up plan when the parent report predates the stored
// next-date field.
const followUpWindow = time.Minute

// loadSettings returns the singleton configuration, or nil when none has
// been written yet. Callers treat nil as "defaults off": no expiry, no
// creation-day restriction, no offset.
func loadSettings(ctx context.Context, settings repository.TimeSettingRepo) (*domain.TimeSetting, error) {
	s, err := settings.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// planActivityCode walks the plan's (customer, product, activity type)
// lineage and derives its sequence code.
func planActivityCode(ctx context.Context, plans repository.PlanRepo, p *domain.Plan) (string, error) {
	lineage, err := plans.ListLineage(ctx, p.CustomerID, p.ProductID, p.ActivityType)
	if err != nil {
		return "", err
	}
	prefix := domain.ActivityPrefix(p.ActivityType)
	return domain.AssignCode(prefix, p.Seq, domain.PlanCodeRecords(lineage)), nil
}

// deleteOrphanFollowUp removes the follow-up plan generated from the
// given parent report, if one exists. Matching prefers the report's
// stored next planning date; older reports without one fall back to a
// creation-time window around the report, excluding the parent plan.
// A missing follow-up is not an error.
func deleteOrphanFollowUp(ctx context.Context, plans repository.PlanRepo, parent *domain.Plan, rep *domain.Report) error {
	if rep == nil {
		return nil
	}

	var followUp *domain.Plan
	var err error
	if rep.NextPlanningDate != nil {
		followUp, err = plans.FindFollowUpByDate(ctx, parent.OwnerID, parent.CustomerID, parent.ProductID, *rep.NextPlanningDate)
	} else {
		start := rep.CreatedAt.Add(-followUpWindow)
		end := rep.CreatedAt.Add(followUpWindow)
		followUp, err = plans.FindFollowUpInWindow(ctx, parent.OwnerID, parent.CustomerID, parent.ProductID, start, end, parent.ID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return plans.Delete(ctx, followUp.ID)
}

// reportFor loads the plan's report, mapping "no report yet" to nil.
func reportFor(ctx context.Context, reports repository.ReportRepo, planID string) (*domain.Report, error) {
	rep, err := reports.GetByPlanID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rep, nil
}
