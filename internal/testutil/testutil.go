// Package testutil provides test utilities for integration tests
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/migrations"
	schema "github.com/yigit/studentrecords/migrations"
)

// TestDB wraps a PostgreSQL connection pool for testing
type TestDB struct {
	Pool *pgxpool.Pool
}

// RequireIntegration skips the test if not running integration tests
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
}

// NewTestDB connects to DATABASE_URL and applies the schema migrations.
// The pool is closed when the test finishes.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	RequireIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := migrations.NewMigrator(pool, zerolog.Nop()).MigrateFS(ctx, schema.FS); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return &TestDB{Pool: pool}
}

// CleanTables empties the students table for test isolation
func (db *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	if _, err := db.Pool.Exec(context.Background(), "TRUNCATE TABLE students"); err != nil {
		t.Fatalf("Failed to truncate students: %v", err)
	}
}
