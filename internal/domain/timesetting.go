package domain

import (
	"strings"
	"time"
)

// TimeSetting is the process-wide singleton configuration row. The
// engine reads it on every time-sensitive computation; it is written
// only by administrative actions.
type TimeSetting struct {
	PlanningWarningThreshold float64
	PlanningTimeUnit         TimeUnit
	PlanExpiryValue          float64
	PlanExpiryUnit           TimeUnit
	AllowedCreationDays      []time.Weekday
	TestingMode              bool
	TimeOffsetDays           int
	UpdatedAt                time.Time
}

// DefaultTimeSetting mirrors the installation defaults: 7-day expiry,
// 14-day inactivity warning, creation allowed on Fridays only.
func DefaultTimeSetting() *TimeSetting {
	return &TimeSetting{
		PlanningWarningThreshold: 14,
		PlanningTimeUnit:         UnitDays,
		PlanExpiryValue:          7,
		PlanExpiryUnit:           UnitDays,
		AllowedCreationDays:      []time.Weekday{time.Friday},
	}
}

// ExpiryPolicy returns the plan-expiry policy in force, or a disabled
// policy when the receiver is nil (missing configuration never fails a
// plan).
func (s *TimeSetting) ExpiryPolicy() ExpiryPolicy {
	if s == nil {
		return ExpiryPolicy{}
	}
	return ExpiryPolicy{Value: s.PlanExpiryValue, Unit: s.PlanExpiryUnit}
}

// CreationAllowedOn reports whether plan creation is permitted on the
// given instant's weekday. Testing mode and missing configuration allow
// every day.
func (s *TimeSetting) CreationAllowedOn(t time.Time) bool {
	if s == nil || s.TestingMode || len(s.AllowedCreationDays) == 0 {
		return true
	}
	for _, d := range s.AllowedCreationDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// ParseWeekdays parses a comma-separated weekday list ("Friday,Monday").
// Unknown names are skipped.
func ParseWeekdays(s string) []time.Weekday {
	names := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		if d, ok := names[strings.ToLower(strings.TrimSpace(part))]; ok {
			days = append(days, d)
		}
	}
	return days
}

// FormatWeekdays renders a weekday list back into the stored
// comma-separated form.
func FormatWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

// ParseTimeUnit normalizes a stored unit string; anything unrecognized
// falls back to days.
func ParseTimeUnit(s string) TimeUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minutes", "minute":
		return UnitMinutes
	case "hours", "hour":
		return UnitHours
	default:
		return UnitDays
	}
}
