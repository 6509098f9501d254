// Package clock supplies "now" to the lifecycle engine. All engine logic
// consults a Clock instead of the system clock so a configured offset can
// simulate future dates without touching transition code.
package clock

import (
	"context"
	"time"
)

// Clock returns the current engine instant.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// SettingsSource yields the configured day offset. Implemented by the
// time-setting repository; a missing configuration row means offset 0.
type SettingsSource interface {
	TimeOffsetDays(ctx context.Context) (int, error)
}

// SettingClock is wall-clock time shifted by the configured offset.
type SettingClock struct {
	settings SettingsSource
}

// NewSettingClock creates a Clock backed by the given settings source.
func NewSettingClock(settings SettingsSource) *SettingClock {
	return &SettingClock{settings: settings}
}

func (c *SettingClock) Now(ctx context.Context) (time.Time, error) {
	offset, err := c.settings.TimeOffsetDays(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().UTC().AddDate(0, 0, offset), nil
}

// Fixed is a Clock pinned to one instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f *Fixed) Now(context.Context) (time.Time, error) {
	return f.Instant, nil
}

// Set moves the fixed clock to a new instant.
func (f *Fixed) Set(t time.Time) { f.Instant = t }

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.Instant = f.Instant.Add(d) }
