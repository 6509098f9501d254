package domain

import "time"

// ExpiryPolicy computes expiry and early-warning cutoffs from a
// configured threshold value and unit. The zero value is a disabled
// policy: with no configuration, nothing expires (fail open).
type ExpiryPolicy struct {
	Value float64
	Unit  TimeUnit
}

// warningFraction is the share of the expiry threshold after which a
// plan enters the warning band.
const warningFraction = 0.8

// Enabled reports whether a threshold is configured at all.
func (p ExpiryPolicy) Enabled() bool {
	return p.Value > 0
}

// unitMinutes returns the length of one threshold unit in minutes.
func (p ExpiryPolicy) unitMinutes() float64 {
	switch p.Unit {
	case UnitMinutes:
		return 1
	case UnitHours:
		return 60
	default:
		return 60 * 24
	}
}

// elapsedUnits returns the elapsed time in threshold units with
// fractional precision. Truncating to whole units would mis-expire
// plans near the boundary.
func (p ExpiryPolicy) elapsedUnits(createdAt, now time.Time) float64 {
	return now.Sub(createdAt).Minutes() / p.unitMinutes()
}

// IsExpired reports whether a plan created at createdAt has exceeded the
// threshold. Only meaningful for plans still awaiting a report; the
// caller checks the plan status.
func (p ExpiryPolicy) IsExpired(createdAt, now time.Time) bool {
	if !p.Enabled() {
		return false
	}
	return p.elapsedUnits(createdAt, now) >= p.Value
}

// IsWarning reports whether a plan is in the early-warning band: past
// 80% of the threshold but not yet expired.
func (p ExpiryPolicy) IsWarning(createdAt, now time.Time) bool {
	if !p.Enabled() || p.IsExpired(createdAt, now) {
		return false
	}
	return p.elapsedUnits(createdAt, now) >= p.Value*warningFraction
}

// Cutoff returns the instant before which a created_at timestamp means
// the plan is expired. Used by the batch sweep query.
func (p ExpiryPolicy) Cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(p.Value * p.unitMinutes() * float64(time.Minute)))
}

// WarningCutoff returns the instant before which a created_at timestamp
// puts the plan inside the early-warning band.
func (p ExpiryPolicy) WarningCutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(p.Value * warningFraction * p.unitMinutes() * float64(time.Minute)))
}
