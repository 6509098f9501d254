package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesAllTables(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"plans", "reports", "plan_status_logs", "time_settings", "daily_logs", "record_sequences"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// OpenDB already migrated once; a second run must be a no-op.
	require.NoError(t, Migrate(database))
}

func TestMigrate_EnforcesStatusChecks(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO plans
		(id, seq, customer_id, owner_id, planning_date, activity_type, status, created_at, updated_at)
		VALUES ('p1', 1, 'c1', 'u1', '2026-03-01', 'Visit', 'bogus', '2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z')`)
	assert.Error(t, err, "unknown plan status must be rejected by the schema")
}

func TestForeignKeys_CascadeDeleteReports(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO plans
		(id, seq, customer_id, owner_id, planning_date, activity_type, created_at, updated_at)
		VALUES ('p1', 1, 'c1', 'u1', '2026-03-01', 'Visit', '2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO reports
		(id, plan_id, execution_date, created_at, updated_at)
		VALUES ('r1', 'p1', '2026-03-02', '2026-03-02T00:00:00Z', '2026-03-02T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`DELETE FROM plans WHERE id = 'p1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&count))
	assert.Zero(t, count, "deleting a plan should cascade to its report")
}
