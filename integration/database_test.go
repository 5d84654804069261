//go:build database

// Package integration contains database integration tests for sprintsync.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags database ./integration
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/internal/sink"
	"github.com/sprintsync/sprintsync/schema"
)

// issueRow builds a full issue table row for round-trip checks.
func issueRow(key, status string) map[string]any {
	return map[string]any{
		"key":         key,
		"issuetype":   "Story",
		"summary":     "Round trip " + key,
		"assignee":    "Dana",
		"reporter":    "Riley",
		"priority":    "Major",
		"status":      status,
		"resolution":  int64(0),
		"created":     "2023-05-01T09:00:00.000+0000",
		"updated":     "2023-05-02T09:00:00.000+0000",
		"duedate":     nil,
		"sprint":      "Sprint 2",
		"all_sprints": "Sprint 1, Sprint 2",
	}
}

var issueColumns = []string{
	"key", "issuetype", "summary", "assignee", "reporter", "priority",
	"status", "resolution", "created", "updated", "duedate",
	"sprint", "all_sprints",
}

// runSinkChecks exercises the upsert, query, status and migrate paths
// against a live backend.
func runSinkChecks(t *testing.T, cfg *contract.Config) {
	ctx := context.Background()

	store, err := sink.New(cfg)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// First pass inserts, second pass with a changed status must update in
	// place rather than add rows.
	rows := []map[string]any{issueRow("WEB-1", "In Progress"), issueRow("WEB-2", "Done")}
	require.NoError(t, store.Upsert(ctx, cfg.IssueTable, issueColumns, rows, []string{"key"}))

	rows[0]["status"] = "Done"
	require.NoError(t, store.Upsert(ctx, cfg.IssueTable, issueColumns, rows, []string{"key"}))

	got, err := store.Query(ctx, cfg.IssueTable, []string{"key", "status"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	statuses := make(map[string]any, len(got))
	for _, row := range got {
		statuses[fmt.Sprint(row["key"])] = row["status"]
	}
	assert.Equal(t, "Done", statuses["WEB-1"])
	assert.Equal(t, "Done", statuses["WEB-2"])

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(2), status.TableSizes[cfg.IssueTable])
	assert.Equal(t, int64(0), status.TableSizes[cfg.SprintTimeTable])

	// Roll the managed schema forward and back to its initial state.
	require.NoError(t, sink.Migrate(cfg, -1))
	require.NoError(t, sink.Migrate(cfg, 0))
}

// TestSinkWithMySQL tests the sink against a MySQL backend.
func TestSinkWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "sprintsync",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	cfg := &contract.Config{
		SinkBackend:     schema.MySQLBackend,
		DBEndpoint:      fmt.Sprintf("%s:%s", host, port.Port()),
		DBUser:          "root",
		DBPassword:      "secret123",
		DBName:          "sprintsync",
		IssueTable:      schema.DefaultIssueTable,
		SprintTimeTable: schema.DefaultSprintTimeTable,
	}
	runSinkChecks(t, cfg)
}

// TestSinkWithPostgres tests the sink against a PostgreSQL backend.
func TestSinkWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "secret123",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &contract.Config{
		SinkBackend:     schema.PostgreSQLBackend,
		DBEndpoint:      fmt.Sprintf("%s:%s", host, port.Port()),
		DBUser:          "postgres",
		DBPassword:      "secret123",
		DBName:          "postgres",
		IssueTable:      schema.DefaultIssueTable,
		SprintTimeTable: schema.DefaultSprintTimeTable,
	}
	runSinkChecks(t, cfg)
}
