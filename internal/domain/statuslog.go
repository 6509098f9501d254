package domain

import "time"

// MaxStatusChanges is the quota of countable transitions per (plan, field).
const MaxStatusChanges = 3

// LogGracePeriod is the undo window measured from the latest log row.
const LogGracePeriod = 5 * time.Minute

// PlanStatusLog is one immutable row of the status transition ledger.
// The ledger is the sole source of truth for remaining-change and
// grace-time computations.
type PlanStatusLog struct {
	ID            string
	PlanID        string
	ActorID       string
	Field         LogField
	OldValue      string
	NewValue      string
	IsGracePeriod bool
	Notes         string
	CreatedAt     time.Time
}

// Countable reports whether this row consumes quota. Escalations and
// reversions to pending are soft toggles and do not count.
func (l *PlanStatusLog) Countable() bool {
	if l.IsGracePeriod {
		return false
	}
	return l.NewValue == string(ManagerApproved) || l.NewValue == string(ManagerRejected)
}

// RemainingChanges converts a countable-row count into the remaining
// quota, never negative.
func RemainingChanges(countable int) int {
	if countable >= MaxStatusChanges {
		return 0
	}
	return MaxStatusChanges - countable
}

// GraceRemaining returns the seconds left in the undo window since the
// given log row was written, or 0 if the row is nil or the window passed.
func GraceRemaining(last *PlanStatusLog, now time.Time) int {
	if last == nil {
		return 0
	}
	remaining := last.CreatedAt.Add(LogGracePeriod).Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds())
}
