package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLifecycle_Completed(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{
		Status:        PlanReported,
		ManagerStatus: ManagerApproved,
		BODStatus:     BODSuccess,
		CreatedAt:     now,
	}

	got := DeriveLifecycle(p, LifecycleInput{HasReport: true, Now: now})
	assert.Equal(t, LifecycleCompleted, got)
}

func TestDeriveLifecycle_RejectedOnBODFailure(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{
		Status:        PlanReported,
		ManagerStatus: ManagerApproved,
		BODStatus:     BODFailed,
		CreatedAt:     now,
	}

	got := DeriveLifecycle(p, LifecycleInput{HasReport: true, Now: now})
	assert.Equal(t, LifecycleRejected, got)
}

func TestDeriveLifecycle_ManualFailedWinsOverEverything(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{
		Status:        PlanReported,
		ManagerStatus: ManagerApproved,
		BODStatus:     BODSuccess,
		CreatedAt:     now,
	}

	got := DeriveLifecycle(p, LifecycleInput{HasReport: true, Now: now, ManualFailed: true})
	assert.Equal(t, LifecycleFailed, got)
}

func TestDeriveLifecycle_ExpiredOnlyBeforeReport(t *testing.T) {
	now := time.Now().UTC()
	policy := ExpiryPolicy{Value: 7, Unit: UnitDays}

	created := &Plan{Status: PlanCreated, CreatedAt: now.AddDate(0, 0, -10)}
	got := DeriveLifecycle(created, LifecycleInput{Expiry: policy, Now: now})
	assert.Equal(t, LifecycleExpired, got)

	// A reported plan never expires, no matter how old.
	reported := &Plan{
		Status:        PlanReported,
		ManagerStatus: ManagerPending,
		BODStatus:     BODPending,
		CreatedAt:     now.AddDate(0, 0, -10),
	}
	got = DeriveLifecycle(reported, LifecycleInput{HasReport: true, Expiry: policy, Now: now})
	assert.Equal(t, LifecycleUnderReview, got)
}

func TestDeriveLifecycle_FreshPlanIsActive(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{Status: PlanCreated, CreatedAt: now}

	got := DeriveLifecycle(p, LifecycleInput{Expiry: ExpiryPolicy{Value: 7, Unit: UnitDays}, Now: now})
	assert.Equal(t, LifecycleActive, got)
}

func TestDeriveLifecycle_Idempotent(t *testing.T) {
	now := time.Now().UTC()
	plans := []*Plan{
		{Status: PlanCreated, CreatedAt: now},
		{Status: PlanCreated, CreatedAt: now.AddDate(0, 0, -30)},
		{Status: PlanReported, ManagerStatus: ManagerPending, BODStatus: BODPending, CreatedAt: now},
		{Status: PlanReported, ManagerStatus: ManagerApproved, BODStatus: BODSuccess, CreatedAt: now},
		{Status: PlanReported, ManagerStatus: ManagerRejected, BODStatus: BODFailed, CreatedAt: now},
	}
	in := LifecycleInput{HasReport: true, Expiry: ExpiryPolicy{Value: 7, Unit: UnitDays}, Now: now}

	for _, p := range plans {
		first := DeriveLifecycle(p, in)
		p.LifecycleStatus = first
		second := DeriveLifecycle(p, in)
		assert.Equal(t, first, second, "derivation must not depend on the stored lifecycle value")
	}
}
