package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/testutil"
)

func TestCreatePlan(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Seq)
	assert.Equal(t, domain.PlanCreated, p.Status)
	assert.Equal(t, domain.ManagerNone, p.ManagerStatus)
	assert.Equal(t, domain.BODNone, p.BODStatus)
	assert.Equal(t, domain.LifecycleActive, p.LifecycleStatus)
	assert.Equal(t, testInstant, p.CreatedAt)

	got, err := e.plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Seq, got.Seq)
}

func TestCreatePlan_Validation(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()

	in := validCreateInput()
	in.CustomerID = ""
	_, err := svc.CreatePlan(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePlan_AllowedDayGate(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	// The fixed clock sits on a Monday.
	require.NoError(t, e.settings.Upsert(ctx,
		testutil.NewTestTimeSetting(testutil.WithAllowedDays(time.Friday))))

	_, err := svc.CreatePlan(ctx, validCreateInput())
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, e.settings.Upsert(ctx, testutil.NewTestTimeSetting(
		testutil.WithAllowedDays(time.Friday), testutil.WithTestingMode())))
	_, err = svc.CreatePlan(ctx, validCreateInput())
	assert.NoError(t, err, "testing mode lifts the creation-day restriction")
}

func TestSubmitReport(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	in := validReportInput()
	result, err := svc.SubmitReport(ctx, p.ID, in, salesActor)
	require.NoError(t, err)

	got := result.Plan
	assert.Equal(t, domain.PlanReported, got.Status)
	assert.Equal(t, domain.ManagerPending, got.ManagerStatus)
	assert.Equal(t, domain.BODPending, got.BODStatus)
	assert.Equal(t, domain.LifecycleUnderReview, got.LifecycleStatus)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, testInstant, *got.SubmittedAt)

	rep, err := e.reports.GetByPlanID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "50%", rep.Progress)
	assert.False(t, rep.IsLate)

	require.Len(t, result.Events, 1)
	ev, ok := result.Events[0].(domain.ReportSubmitted)
	require.True(t, ok)
	assert.Equal(t, p.ID, ev.PlanID)
	assert.Equal(t, "V1", ev.ActivityCode)
}

func TestSubmitReport_GeneratesFollowUp(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	in := validReportInput()
	_, err = svc.SubmitReport(ctx, p.ID, in, salesActor)
	require.NoError(t, err)

	all, err := e.plans.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2, "exactly one follow-up is generated")

	followUp := all[1]
	assert.Equal(t, domain.PlanCreated, followUp.Status)
	assert.Equal(t, domain.ManagerNone, followUp.ManagerStatus, "follow-ups await their own report")
	assert.Equal(t, domain.BODNone, followUp.BODStatus)
	assert.Equal(t, domain.LifecycleActive, followUp.LifecycleStatus)
	assert.True(t, followUp.PlanningDate.Equal(*in.NextPlanningDate))
	assert.Equal(t, "Call", followUp.ActivityType)
	assert.Equal(t, p.CustomerID, followUp.CustomerID)
	assert.Equal(t, p.OwnerID, followUp.OwnerID)
	assert.Equal(t, "Follow up from previous report", followUp.Description)
}

func TestSubmitReport_ClosingSkipsFollowUp(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	in := validReportInput()
	in.Progress = domain.ClosingProgress
	in.NextPlanningDate = nil
	in.NextActivityType = ""
	in.IsSuccess = true
	_, err = svc.SubmitReport(ctx, p.ID, in, salesActor)
	require.NoError(t, err)

	all, err := e.plans.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "a closing report ends the chain")
}

func TestSubmitReport_LateExecution(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	in := validReportInput()
	in.ExecutionDate = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	_, err = svc.SubmitReport(ctx, p.ID, in, salesActor)
	require.NoError(t, err)

	rep, err := e.reports.GetByPlanID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, rep.IsLate)
}

func TestSubmitReport_DuplicateRejected(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = svc.SubmitReport(ctx, p.ID, validReportInput(), salesActor)
	require.NoError(t, err)
	_, err = svc.SubmitReport(ctx, p.ID, validReportInput(), salesActor)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitReport_NonClosingRequiresNextFields(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()

	in := validReportInput()
	in.NextPlanningDate = nil
	_, err := svc.SubmitReport(context.Background(), "whatever", in, salesActor)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitReport_RollsBackAtomically(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := testutil.NewTestPlan("c1")
	require.NoError(t, e.plans.Create(ctx, p))

	// Exec order inside the transition: report insert, plan update,
	// sequence seed, follow-up insert. Failing the last write must undo
	// everything.
	boom := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: e.sqlDB, FailOn: 4, Err: boom}
	svc := NewPlanService(e.plans, e.reports, e.settings, failing, e.clk)

	_, err := svc.SubmitReport(ctx, p.ID, validReportInput(), salesActor)
	assert.ErrorIs(t, err, boom)

	got, err := e.plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCreated, got.Status, "plan update must roll back")
	_, err = e.reports.GetByPlanID(ctx, p.ID)
	assert.Error(t, err, "report insert must roll back")
}

func TestRevise_BranchLeavesOriginalUntouched(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	original := testutil.NewTestPlan("c1",
		testutil.WithPlanStatus(domain.PlanReported),
		testutil.WithManagerStatus(domain.ManagerRejected),
		testutil.WithBODStatus(domain.BODFailed),
		testutil.WithLifecycleStatus(domain.LifecycleFailed),
	)
	require.NoError(t, e.plans.Create(ctx, original))

	in := RevisionInput{
		PlanningDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ActivityType: "Presentation",
		Description:  "Revised pitch",
	}
	result, err := svc.Revise(ctx, original.ID, in, salesActor)
	require.NoError(t, err)

	revised := result.Plan
	assert.NotEqual(t, original.ID, revised.ID)
	assert.Equal(t, domain.PlanCreated, revised.Status)
	assert.Equal(t, domain.ManagerPending, revised.ManagerStatus, "a branched revision starts under review gates")
	assert.Equal(t, domain.BODPending, revised.BODStatus)
	assert.Equal(t, domain.LifecycleActive, revised.LifecycleStatus)
	assert.Equal(t, "Presentation", revised.ActivityType)
	assert.Empty(t, result.Events)

	kept, err := e.plans.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ManagerRejected, kept.ManagerStatus)
	assert.Equal(t, domain.LifecycleFailed, kept.LifecycleStatus)

	logs, err := e.logs.ListByPlan(ctx, original.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.FieldRevision, logs[0].Field)
	assert.Equal(t, "revised", logs[0].NewValue)
	assert.Contains(t, logs[0].Notes, revised.ID)
}

func TestRevise_InPlaceRegeneratesFollowUp(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = svc.SubmitReport(ctx, p.ID, validReportInput(), salesActor)
	require.NoError(t, err)

	// Board rejects; the revision reopens both tracks in place.
	newNext := time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)
	rin := validReportInput()
	rin.NextPlanningDate = &newNext
	rin.ResultDescription = "Rescheduled after feedback"
	in := RevisionInput{
		PlanningDate: time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
		ActivityType: "Visit",
		Description:  "Second attempt",
		Report:       &rin,
	}
	result, err := svc.Revise(ctx, p.ID, in, salesActor)
	require.NoError(t, err)

	got := result.Plan
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, domain.PlanReported, got.Status)
	assert.Equal(t, domain.ManagerPending, got.ManagerStatus)
	assert.Equal(t, domain.BODPending, got.BODStatus)
	assert.Equal(t, domain.LifecycleUnderReview, got.LifecycleStatus)
	assert.Equal(t, "Second attempt", got.Description)

	rep, err := e.reports.GetByPlanID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rescheduled after feedback", rep.ResultDescription)

	// The stale follow-up is replaced, not duplicated.
	all, err := e.plans.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	followUp := all[1]
	assert.True(t, followUp.PlanningDate.Equal(newNext))

	logs, err := e.logs.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.FieldRevision, logs[0].Field)
	assert.Equal(t, "reported", logs[0].NewValue)

	require.Len(t, result.Events, 1)
	_, ok := result.Events[0].(domain.ReportSubmitted)
	assert.True(t, ok)
}

func TestActivityCode_WalksLineage(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	code, err := svc.ActivityCode(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "V1", code)

	// Reporting consumes the number; the follow-up seeds a Call lineage.
	_, err = svc.SubmitReport(ctx, p.ID, validReportInput(), salesActor)
	require.NoError(t, err)

	code, err = svc.ActivityCode(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "V1", code)

	all, err := e.plans.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	code, err = svc.ActivityCode(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "C1", code, "the follow-up starts its own activity lineage")
}

func TestIsHistory(t *testing.T) {
	e := newEnv(t)
	svc := e.planService()
	ctx := context.Background()

	first, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)
	second, err := svc.CreatePlan(ctx, validCreateInput())
	require.NoError(t, err)

	hist, err := svc.IsHistory(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, hist)

	hist, err = svc.IsHistory(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, hist)
}
