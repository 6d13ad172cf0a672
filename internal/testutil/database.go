package testutil

import (
	"testing"

	"intake-go/internal/database"
	"intake-go/internal/database/migrations"
	"intake-go/internal/intake"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T, clock intake.Clock) intake.Database {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, clock, ":memory:")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
