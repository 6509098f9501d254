package domain

import "time"

// ManagerDecisionWindow is how long a non-pending manager decision stays
// correctable before the stale-decision lock engages.
const ManagerDecisionWindow = 7 * 24 * time.Hour

// BODGraceWindow is how long a finalized board decision stays correctable.
const BODGraceWindow = 5 * time.Minute

// Plan is one planned customer activity owned by a sales user.
type Plan struct {
	ID           string
	Seq          int64 // global creation order, allocated on insert
	CustomerID   string
	CustomerName string
	OwnerID      string
	OwnerName    string
	ProductID    *string
	ProjectName  string
	PlanningDate time.Time // date-only
	ActivityType string
	Description  string

	Status          PlanStatus
	ManagerStatus   ManagerStatus
	BODStatus       BODStatus
	LifecycleStatus LifecycleStatus

	SubmittedAt       *time.Time
	ManagerReviewedAt *time.Time
	BODReviewedAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanManagerChange reports whether a non-privileged actor may change the
// manager control status at the given instant. Privileged actors bypass
// this check entirely in the service layer.
func (p *Plan) CanManagerChange(now time.Time) bool {
	// Hard lock: board has finalized.
	if p.BODStatus.Finalized() {
		return false
	}
	// Decisions are final once made; only an admin reset reopens them.
	if p.ManagerStatus.Terminal() {
		return false
	}
	// Stale-decision lock: an escalation older than the window cannot be
	// touched anymore.
	if p.ManagerStatus == ManagerEscalated && p.ManagerReviewedAt != nil {
		if now.Sub(*p.ManagerReviewedAt) > ManagerDecisionWindow {
			return false
		}
	}
	return true
}

// ManagerGraceRemaining returns how long the manager decision window has
// left, or zero if no decision has been made or the window has passed.
func (p *Plan) ManagerGraceRemaining(now time.Time) time.Duration {
	if p.ManagerStatus == ManagerPending || p.ManagerStatus == ManagerNone || p.ManagerReviewedAt == nil {
		return 0
	}
	remaining := p.ManagerReviewedAt.Add(ManagerDecisionWindow).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanBODChange reports whether a non-privileged actor may change the
// board monitoring status at the given instant. The board may act on any
// manager outcome; once finalized, only a short correction window remains.
func (p *Plan) CanBODChange(now time.Time) bool {
	if p.BODStatus.Finalized() {
		if p.BODReviewedAt == nil {
			return true
		}
		if now.Sub(*p.BODReviewedAt) > BODGraceWindow {
			return false
		}
	}
	return true
}

// BODGraceRemaining returns how long the board correction window has
// left, or zero if the decision is not finalized or the window passed.
func (p *Plan) BODGraceRemaining(now time.Time) time.Duration {
	if !p.BODStatus.Finalized() || p.BODReviewedAt == nil {
		return 0
	}
	remaining := p.BODReviewedAt.Add(BODGraceWindow).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
