package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	offset int
	err    error
}

func (s stubSource) TimeOffsetDays(context.Context) (int, error) {
	return s.offset, s.err
}

func TestSettingClock_AppliesOffset(t *testing.T) {
	clk := NewSettingClock(stubSource{offset: 30})

	now, err := clk.Now(context.Background())
	require.NoError(t, err)

	wall := time.Now().UTC()
	assert.InDelta(t, wall.AddDate(0, 0, 30).Unix(), now.Unix(), 2)
}

func TestSettingClock_ZeroOffsetIsWallClock(t *testing.T) {
	clk := NewSettingClock(stubSource{})

	now, err := clk.Now(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, time.Now().UTC().Unix(), now.Unix(), 2)
}

func TestSettingClock_PropagatesSourceError(t *testing.T) {
	srcErr := errors.New("settings unavailable")
	clk := NewSettingClock(stubSource{err: srcErr})

	_, err := clk.Now(context.Background())
	assert.ErrorIs(t, err, srcErr)
}

func TestFixed(t *testing.T) {
	instant := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clk := &Fixed{Instant: instant}

	now, err := clk.Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, instant, now)

	clk.Advance(6 * time.Minute)
	now, _ = clk.Now(context.Background())
	assert.Equal(t, instant.Add(6*time.Minute), now)
}
