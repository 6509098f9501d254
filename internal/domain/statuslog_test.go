package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusLogCountable(t *testing.T) {
	cases := []struct {
		name     string
		newValue string
		grace    bool
		want     bool
	}{
		{"approved counts", "approved", false, true},
		{"rejected counts", "rejected", false, true},
		{"escalated is free", "escalated", false, false},
		{"pending reversion is free", "pending", false, false},
		{"grace rows never count", "approved", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &PlanStatusLog{NewValue: tc.newValue, IsGracePeriod: tc.grace}
			assert.Equal(t, tc.want, l.Countable())
		})
	}
}

func TestRemainingChanges(t *testing.T) {
	assert.Equal(t, 3, RemainingChanges(0))
	assert.Equal(t, 1, RemainingChanges(2))
	assert.Equal(t, 0, RemainingChanges(3))
	assert.Equal(t, 0, RemainingChanges(7), "never negative")
}

func TestGraceRemaining(t *testing.T) {
	now := time.Now().UTC()

	assert.Zero(t, GraceRemaining(nil, now))

	recent := &PlanStatusLog{CreatedAt: now.Add(-2 * time.Minute)}
	assert.InDelta(t, 180, GraceRemaining(recent, now), 1)

	stale := &PlanStatusLog{CreatedAt: now.Add(-10 * time.Minute)}
	assert.Zero(t, GraceRemaining(stale, now))
}
