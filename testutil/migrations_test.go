package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/migrations"
	"github.com/pkordes/trailbook/backend/testutil"
)

// TestMigrations applies the schema from scratch, checks the tables and
// constraints Trailbook depends on, then rolls everything back.
// Skipped when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	tables := []string{"users", "trips", "day_entries", "blobs"}

	db := testutil.NewSQLDB(t)
	provider, err := migrations.NewProvider(db)
	require.NoError(t, err)
	ctx := context.Background()

	// Other packages' TestMain may already have migrated the shared database.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, len(tables), "one migration per table")

	statuses, err := provider.Status(ctx)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.Equal(t, goose.StateApplied, s.State, "migration %d", s.Source.Version)
	}

	for _, table := range tables {
		assert.True(t, tableExists(t, db, table), "table %q after up", table)
	}
	assert.True(t, constraintExists(t, db, "day_entries", "day_entries_trip_date_key"),
		"one day entry per trip and date")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range tables {
		assert.False(t, tableExists(t, db, table), "table %q after down", table)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}

func constraintExists(t *testing.T, db *sql.DB, table, name string) bool {
	t.Helper()
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE table_schema = 'public' AND table_name = $1 AND constraint_name = $2
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table, name).Scan(&exists))
	return exists
}
