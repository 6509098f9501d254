package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/salesplan/internal/testutil"
)

func TestRecordSequenceRepo_StartsAtOneWhenEmpty(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRecordSequenceRepo(database)
	ctx := context.Background()

	seq, err := repo.Next(ctx, ScopePlans)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestRecordSequenceRepo_SeedsFromExistingRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	repo := NewSQLiteRecordSequenceRepo(database)
	ctx := context.Background()

	require.NoError(t, plans.Create(ctx, testutil.NewTestPlan("c1", testutil.WithSeq(41))))

	seq, err := repo.Next(ctx, ScopePlans)
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq, "the allocator resumes after the highest stored seq")
}

func TestRecordSequenceRepo_MonotonicPerScope(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRecordSequenceRepo(database)
	ctx := context.Background()

	first, err := repo.Next(ctx, ScopePlans)
	require.NoError(t, err)
	second, err := repo.Next(ctx, ScopePlans)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	// Scopes are independent counters.
	daily, err := repo.Next(ctx, ScopeDailyLogs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), daily)
}

func TestRecordSequenceRepo_UnknownScope(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRecordSequenceRepo(database)

	_, err := repo.Next(context.Background(), "invoices")
	assert.Error(t, err)
}
