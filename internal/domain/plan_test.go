package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanManagerChange_BODFinalizedHardLock(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{Status: PlanReported, ManagerStatus: ManagerPending, BODStatus: BODSuccess}

	assert.False(t, p.CanManagerChange(now))

	p.BODStatus = BODFailed
	assert.False(t, p.CanManagerChange(now))
}

func TestCanManagerChange_TerminalDecisionIsFinal(t *testing.T) {
	now := time.Now().UTC()
	reviewed := now.Add(-time.Minute)
	p := &Plan{
		Status:            PlanReported,
		ManagerStatus:     ManagerApproved,
		BODStatus:         BODPending,
		ManagerReviewedAt: &reviewed,
	}

	assert.False(t, p.CanManagerChange(now), "approved is final even seconds after the decision")

	p.ManagerStatus = ManagerRejected
	assert.False(t, p.CanManagerChange(now))
}

func TestCanManagerChange_PendingAndEscalatedStayOpen(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{Status: PlanReported, ManagerStatus: ManagerPending, BODStatus: BODPending}
	assert.True(t, p.CanManagerChange(now))

	reviewed := now.Add(-48 * time.Hour)
	p.ManagerStatus = ManagerEscalated
	p.ManagerReviewedAt = &reviewed
	assert.True(t, p.CanManagerChange(now), "escalation within the window stays changeable")
}

func TestCanManagerChange_StaleEscalationLocks(t *testing.T) {
	now := time.Now().UTC()
	reviewed := now.Add(-ManagerDecisionWindow - time.Hour)
	p := &Plan{
		Status:            PlanReported,
		ManagerStatus:     ManagerEscalated,
		BODStatus:         BODPending,
		ManagerReviewedAt: &reviewed,
	}

	assert.False(t, p.CanManagerChange(now))
	assert.Zero(t, p.ManagerGraceRemaining(now))
}

func TestCanBODChange_GraceWindow(t *testing.T) {
	now := time.Now().UTC()

	reviewed := now.Add(-4 * time.Minute)
	p := &Plan{Status: PlanReported, BODStatus: BODSuccess, BODReviewedAt: &reviewed}
	assert.True(t, p.CanBODChange(now), "4 minutes after finalizing is inside the grace window")

	late := now.Add(-6 * time.Minute)
	p.BODReviewedAt = &late
	assert.False(t, p.CanBODChange(now), "6 minutes after finalizing is locked")
}

func TestCanBODChange_NotFinalizedAlwaysOpen(t *testing.T) {
	now := time.Now().UTC()
	p := &Plan{Status: PlanReported, BODStatus: BODPending}
	assert.True(t, p.CanBODChange(now))
	assert.Zero(t, p.BODGraceRemaining(now))
}

func TestBODGraceRemaining(t *testing.T) {
	now := time.Now().UTC()
	reviewed := now.Add(-3 * time.Minute)
	p := &Plan{BODStatus: BODFailed, BODReviewedAt: &reviewed}

	remaining := p.BODGraceRemaining(now)
	assert.InDelta(t, (2 * time.Minute).Seconds(), remaining.Seconds(), 1)
}
