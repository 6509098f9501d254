package domain

import "time"

// LifecycleInput is everything the lifecycle derivation needs beyond the
// plan itself: whether a report exists, the policy in force, and the
// current (possibly simulated) instant.
type LifecycleInput struct {
	HasReport bool
	Expiry    ExpiryPolicy
	Now       time.Time

	// ManualFailed preserves an explicit mark-as-failed in the same
	// write; it is the single escape hatch bypassing derivation.
	ManualFailed bool
}

// DeriveLifecycle computes the aggregate lifecycle label as a pure
// function of the plan's other fields. It is recomputed before every
// persist; the stored column exists only for query efficiency.
func DeriveLifecycle(p *Plan, in LifecycleInput) LifecycleStatus {
	if in.ManualFailed {
		return LifecycleFailed
	}
	if p.ManagerStatus == ManagerApproved && p.BODStatus == BODSuccess {
		return LifecycleCompleted
	}
	if p.Status == PlanReported && p.BODStatus == BODFailed {
		return LifecycleRejected
	}
	if p.Status == PlanCreated && in.Expiry.IsExpired(p.CreatedAt, in.Now) {
		return LifecycleExpired
	}
	if p.Status == PlanReported {
		return LifecycleUnderReview
	}
	// The warning band is a display concern layered over active, never
	// persisted.
	return LifecycleActive
}
