package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alexanderramin/salesplan/internal/clock"
	"github.com/alexanderramin/salesplan/internal/db"
	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/repository"
)

type dailyLogService struct {
	logs  repository.DailyLogRepo
	uow   db.UnitOfWork
	clock clock.Clock
}

func NewDailyLogService(logs repository.DailyLogRepo, uow db.UnitOfWork, clk clock.Clock) DailyLogService {
	return &dailyLogService{logs: logs, uow: uow, clock: clk}
}

func (s *dailyLogService) Create(ctx context.Context, l *domain.DailyLog) error {
	if l.CustomerID == "" {
		return fmt.Errorf("customer is required: %w", ErrValidation)
	}
	if l.ActivityType == "" {
		return fmt.Errorf("activity type is required: %w", ErrValidation)
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.LoggedAt.IsZero() {
		l.LoggedAt = now
	}
	l.CreatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLogs := repository.NewSQLiteDailyLogRepo(tx)
		txSeq := repository.NewSQLiteRecordSequenceRepo(tx)

		seq, err := txSeq.Next(ctx, repository.ScopeDailyLogs)
		if err != nil {
			return err
		}
		l.Seq = seq
		return txLogs.Create(ctx, l)
	})
}

func (s *dailyLogService) ActivityCode(ctx context.Context, id string) (string, error) {
	l, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	lineage, err := s.logs.ListLineage(ctx, l.CustomerID, l.ProductID, l.ActivityType)
	if err != nil {
		return "", err
	}
	prefix := domain.ActivityPrefix(l.ActivityType)
	return domain.AssignCode(prefix, l.Seq, domain.DailyLogCodeRecords(lineage)), nil
}
