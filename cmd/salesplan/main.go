package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/salesplan/internal/cli"
	"github.com/alexanderramin/salesplan/internal/clock"
	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/notify"
	"github.com/alexanderramin/salesplan/internal/repository"
	"github.com/alexanderramin/salesplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.salesplan/salesplan.db
	dbPath := os.Getenv("SALESPLAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".salesplan", "salesplan.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)
	logRepo := repository.NewSQLiteStatusLogRepo(database)
	settingRepo := repository.NewSQLiteTimeSettingRepo(database)
	dailyLogRepo := repository.NewSQLiteDailyLogRepo(database)

	// Wire unit of work for transactional transitions
	uow := db.NewSQLiteUnitOfWork(database)

	// Engine time flows through the configurable clock so the stored
	// offset can simulate future dates.
	clk := clock.NewSettingClock(settingRepo)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("SALESPLAN_VERBOSE") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Plans:     service.NewPlanService(planRepo, reportRepo, settingRepo, uow, clk, observer),
		Reviews:   service.NewReviewService(planRepo, logRepo, settingRepo, uow, clk, observer),
		Sweeps:    service.NewSweepService(planRepo, settingRepo, uow, clk, logger, observer),
		DailyLogs: service.NewDailyLogService(dailyLogRepo, uow, clk),
		Settings:  settingRepo,
		Notifier:  notify.NewLogNotifier(logger),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
