package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/testutil"
)

func TestPlanRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	reviewed := time.Now().UTC().Truncate(time.Second)
	p := testutil.NewTestPlan("c1",
		testutil.WithProduct("prod-1"),
		testutil.WithPlanStatus(domain.PlanReported),
		testutil.WithManagerStatus(domain.ManagerApproved),
		testutil.WithBODStatus(domain.BODPending),
		testutil.WithManagerReviewedAt(reviewed),
	)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Seq, got.Seq)
	assert.Equal(t, "c1", got.CustomerID)
	require.NotNil(t, got.ProductID)
	assert.Equal(t, "prod-1", *got.ProductID)
	assert.Equal(t, domain.PlanReported, got.Status)
	assert.Equal(t, domain.ManagerApproved, got.ManagerStatus)
	assert.Equal(t, domain.BODPending, got.BODStatus)
	require.NotNil(t, got.ManagerReviewedAt)
	assert.True(t, got.ManagerReviewedAt.Equal(reviewed))
	assert.Nil(t, got.BODReviewedAt)
}

func TestPlanRepo_NullStatusRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("c1")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ManagerNone, got.ManagerStatus, "unset approval fields come back as the zero value")
	assert.Equal(t, domain.BODNone, got.BODStatus)
	assert.Nil(t, got.ProductID)
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("c1")
	require.NoError(t, repo.Create(ctx, p))

	p.Status = domain.PlanReported
	p.ManagerStatus = domain.ManagerPending
	p.BODStatus = domain.BODPending
	p.LifecycleStatus = domain.LifecycleUnderReview
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanReported, got.Status)
	assert.Equal(t, domain.LifecycleUnderReview, got.LifecycleStatus)
}

func TestPlanRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("c1")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_ListLineage_OrderAndProductScoping(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	first := testutil.NewTestPlan("c1", testutil.WithSeq(101), testutil.WithProduct("prod-1"))
	second := testutil.NewTestPlan("c1", testutil.WithSeq(102), testutil.WithProduct("prod-1"))
	otherProduct := testutil.NewTestPlan("c1", testutil.WithSeq(103))
	otherActivity := testutil.NewTestPlan("c1", testutil.WithSeq(104),
		testutil.WithProduct("prod-1"), testutil.WithActivityType("Call"))
	for _, p := range []*domain.Plan{second, first, otherProduct, otherActivity} {
		require.NoError(t, repo.Create(ctx, p))
	}

	productID := "prod-1"
	lineage, err := repo.ListLineage(ctx, "c1", &productID, "Visit")
	require.NoError(t, err)
	require.Len(t, lineage, 2)
	assert.Equal(t, first.ID, lineage[0].ID, "lineage is ordered by creation")
	assert.Equal(t, second.ID, lineage[1].ID)

	// A nil product matches only the NULL-product plan.
	lineage, err = repo.ListLineage(ctx, "c1", nil, "Visit")
	require.NoError(t, err)
	require.Len(t, lineage, 1)
	assert.Equal(t, otherProduct.ID, lineage[0].ID)
}

func TestPlanRepo_HasLaterPlan(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	early := testutil.NewTestPlan("c1", testutil.WithSeq(201))
	late := testutil.NewTestPlan("c1", testutil.WithSeq(202))
	require.NoError(t, repo.Create(ctx, early))
	require.NoError(t, repo.Create(ctx, late))

	isHistory, err := repo.HasLaterPlan(ctx, "c1", nil, early.Seq)
	require.NoError(t, err)
	assert.True(t, isHistory)

	isHistory, err = repo.HasLaterPlan(ctx, "c1", nil, late.Seq)
	require.NoError(t, err)
	assert.False(t, isHistory)
}

func TestPlanRepo_FindFollowUpByDate(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	followUp := testutil.NewTestPlan("c1", testutil.WithPlanningDate(date))
	reported := testutil.NewTestPlan("c1",
		testutil.WithPlanningDate(date), testutil.WithPlanStatus(domain.PlanReported))
	require.NoError(t, repo.Create(ctx, followUp))
	require.NoError(t, repo.Create(ctx, reported))

	got, err := repo.FindFollowUpByDate(ctx, "user-1", "c1", nil, date)
	require.NoError(t, err)
	assert.Equal(t, followUp.ID, got.ID, "only created plans qualify as follow-ups")

	_, err = repo.FindFollowUpByDate(ctx, "user-1", "c1", nil, date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_FindFollowUpInWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	anchor := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	parent := testutil.NewTestPlan("c1", testutil.WithPlanCreatedAt(anchor))
	inWindow := testutil.NewTestPlan("c1", testutil.WithPlanCreatedAt(anchor.Add(30*time.Second)))
	outside := testutil.NewTestPlan("c1", testutil.WithPlanCreatedAt(anchor.Add(5*time.Minute)))
	for _, p := range []*domain.Plan{parent, inWindow, outside} {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.FindFollowUpInWindow(ctx, "user-1", "c1", nil,
		anchor.Add(-time.Minute), anchor.Add(time.Minute), parent.ID)
	require.NoError(t, err)
	assert.Equal(t, inWindow.ID, got.ID, "the parent itself is excluded from the match")
}

func TestPlanRepo_ExpiryAndWarningCandidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	overdue := testutil.NewTestPlan("c1", testutil.WithPlanCreatedAt(now.AddDate(0, 0, -10)))
	warning := testutil.NewTestPlan("c1", testutil.WithPlanCreatedAt(now.AddDate(0, 0, -9)))
	fresh := testutil.NewTestPlan("c1", testutil.WithPlanCreatedAt(now.AddDate(0, 0, -1)))
	alreadyExpired := testutil.NewTestPlan("c1",
		testutil.WithPlanCreatedAt(now.AddDate(0, 0, -20)),
		testutil.WithLifecycleStatus(domain.LifecycleExpired))
	reported := testutil.NewTestPlan("c1",
		testutil.WithPlanCreatedAt(now.AddDate(0, 0, -20)),
		testutil.WithPlanStatus(domain.PlanReported))
	for _, p := range []*domain.Plan{overdue, warning, fresh, alreadyExpired, reported} {
		require.NoError(t, repo.Create(ctx, p))
	}

	expiryCutoff := now.AddDate(0, 0, -10)
	candidates, err := repo.ListExpiryCandidates(ctx, expiryCutoff)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "already-expired and reported plans are excluded")
	assert.Equal(t, overdue.ID, candidates[0].ID)

	warningCutoff := now.AddDate(0, 0, -8)
	band, err := repo.ListWarningCandidates(ctx, warningCutoff, expiryCutoff)
	require.NoError(t, err)
	require.Len(t, band, 1)
	assert.Equal(t, warning.ID, band[0].ID)
}

func TestPlanRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	a := testutil.NewTestPlan("c1", testutil.WithSeq(301))
	b := testutil.NewTestPlan("c2", testutil.WithSeq(302))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, a))

	plans, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, a.ID, plans[0].ID)
	assert.Equal(t, b.ID, plans[1].ID)
}
