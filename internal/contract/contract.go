// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/sprintsync/sprintsync/schema"
)

// TrackerClient defines the tracker operations both pipelines need.
// This allows the core pipeline logic to be tested without a live tracker.
type TrackerClient interface {
	// Search runs a JQL query and returns up to maxResults issues with their
	// full field sets.
	Search(ctx context.Context, jql string, maxResults int) ([]schema.Issue, error)

	// FetchFull retrieves one issue by id or key with every field populated,
	// including the worklog container.
	FetchFull(ctx context.Context, issueID string) (schema.Issue, error)

	// ListProjects returns all projects visible to the configured account.
	ListProjects(ctx context.Context) ([]schema.Project, error)
}

// Sink defines the relational persistence operations.
// This allows the pipelines to be tested against an in-memory store.
type Sink interface {
	// Upsert writes rows into table, inserting new rows and overwriting rows
	// whose conflict columns already match. The columns slice fixes the
	// statement's column order; every row must carry exactly those columns.
	Upsert(ctx context.Context, table string, columns []string, rows []map[string]any, conflict []string) error

	// Query reads the named columns back from table.
	Query(ctx context.Context, table string, columns []string) ([]map[string]any, error)

	// Status returns connectivity and row count information for diagnostics.
	Status(ctx context.Context) (schema.SinkStatus, error)

	// Close closes the underlying connection.
	Close() error
}
