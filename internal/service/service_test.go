package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/salesplan/internal/clock"
	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/repository"
	"github.com/alexanderramin/salesplan/internal/testutil"
)

var (
	salesActor   = Actor{ID: "user-1", Name: "Sales One"}
	managerActor = Actor{ID: "mgr-1", Name: "Manager One"}
	adminActor   = Actor{ID: "admin-1", Name: "Admin", SuperAdmin: true}
)

// testInstant is a Monday morning; creation-day tests pick their allowed
// days relative to it.
var testInstant = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type env struct {
	sqlDB    *sql.DB
	plans    *repository.SQLitePlanRepo
	reports  *repository.SQLiteReportRepo
	logs     *repository.SQLiteStatusLogRepo
	settings *repository.SQLiteTimeSettingRepo
	daily    *repository.SQLiteDailyLogRepo
	uow      db.UnitOfWork
	clk      *clock.Fixed
}

func newEnv(t *testing.T) *env {
	t.Helper()
	sqlDB := testutil.NewTestDB(t)
	return &env{
		sqlDB:    sqlDB,
		plans:    repository.NewSQLitePlanRepo(sqlDB),
		reports:  repository.NewSQLiteReportRepo(sqlDB),
		logs:     repository.NewSQLiteStatusLogRepo(sqlDB),
		settings: repository.NewSQLiteTimeSettingRepo(sqlDB),
		daily:    repository.NewSQLiteDailyLogRepo(sqlDB),
		uow:      testutil.NewTestUoW(sqlDB),
		clk:      &clock.Fixed{Instant: testInstant},
	}
}

func (e *env) planService() PlanService {
	return NewPlanService(e.plans, e.reports, e.settings, e.uow, e.clk)
}

func (e *env) reviewService() ReviewService {
	return NewReviewService(e.plans, e.logs, e.settings, e.uow, e.clk)
}

func (e *env) sweepService() SweepService {
	return NewSweepService(e.plans, e.settings, e.uow, e.clk, nil)
}

func (e *env) dailyService() DailyLogService {
	return NewDailyLogService(e.daily, e.uow, e.clk)
}

func validCreateInput() CreatePlanInput {
	return CreatePlanInput{
		CustomerID:   "c1",
		CustomerName: "Acme Steel",
		OwnerID:      "user-1",
		OwnerName:    "Sales One",
		ProjectName:  "Mill Upgrade",
		PlanningDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		ActivityType: "Visit",
		Description:  "Introductory visit",
	}
}

func validReportInput() ReportInput {
	next := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	return ReportInput{
		ExecutionDate:     time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Location:          "Customer HQ",
		PIC:               "Jane Roe",
		Position:          "Purchasing Manager",
		ResultDescription: "Met the purchasing team",
		Progress:          "50%",
		NextPlanningDate:  &next,
		NextActivityType:  "Call",
	}
}
