//go:build integration

// Package containers starts throwaway backing services for integration
// tests.
package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Schema is the subset of the application schema the enforcement cache
// touches.
const Schema = `
CREATE TABLE IF NOT EXISTS cases (
	regulator_id   TEXT PRIMARY KEY,
	agency_code    TEXT NOT NULL,
	offender_name  TEXT NOT NULL DEFAULT '',
	action_date    DATE,
	fine_amount    NUMERIC,
	breach         TEXT,
	action_type    TEXT,
	last_synced_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notices (
	regulator_id    TEXT PRIMARY KEY,
	agency_code     TEXT NOT NULL,
	offender_name   TEXT NOT NULL DEFAULT '',
	action_type     TEXT,
	notice_date     DATE,
	operative_date  DATE,
	compliance_date DATE,
	body            TEXT
);

CREATE TABLE IF NOT EXISTS metrics_snapshots (
	id                   TEXT NOT NULL,
	period               TEXT PRIMARY KEY,
	computed_at          TIMESTAMPTZ NOT NULL,
	recent_cases_count   INT NOT NULL,
	recent_notices_count INT NOT NULL,
	total_cases_count    INT NOT NULL,
	total_notices_count  INT NOT NULL,
	agency_stats         JSONB NOT NULL DEFAULT '{}',
	calculated_by        TEXT NOT NULL
);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// connection and the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("enforcement_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{Container: container, DB: db}
	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})
	return pc
}

// TruncateTables clears the given tables between tests.
func (c *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := c.DB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}
