package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/salesplan/internal/db"
)

// SQLiteRecordSequenceRepo allocates creation-order sequence values
// atomically using the record_sequences table. Plans and daily logs each
// draw from their own scope.
type SQLiteRecordSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteRecordSequenceRepo creates a new SQLiteRecordSequenceRepo.
func NewSQLiteRecordSequenceRepo(conn db.DBTX) *SQLiteRecordSequenceRepo {
	return &SQLiteRecordSequenceRepo{db: conn}
}

// Next returns the next available sequence value for a scope.
// Allocation is atomic and safe under concurrent writes.
func (r *SQLiteRecordSequenceRepo) Next(ctx context.Context, scope string) (int64, error) {
	var table string
	switch scope {
	case ScopePlans:
		table = "plans"
	case ScopeDailyLogs:
		table = "daily_logs"
	default:
		return 0, fmt.Errorf("unknown sequence scope %q", scope)
	}

	seedQuery := `INSERT OR IGNORE INTO record_sequences (scope, next_seq)
		SELECT ?, COALESCE(MAX(seq), 0) + 1 FROM ` + table
	if _, err := r.db.ExecContext(ctx, seedQuery, scope); err != nil {
		return 0, fmt.Errorf("seeding sequence for %s: %w", scope, err)
	}

	var next int64
	allocQuery := `UPDATE record_sequences
		SET next_seq = next_seq + 1
		WHERE scope = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, scope).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next seq for %s: %w", scope, err)
	}

	return next, nil
}
