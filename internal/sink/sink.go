// Package sink implements relational persistence for extracted rows.
package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/schema"
)

// Store implements the Sink contract over database/sql.
type Store struct {
	db      *sql.DB
	backend schema.SinkBackend
	tables  []string
}

var _ contract.Sink = &Store{} // Compile-time check

// New opens a connection for the configured backend and ensures the
// destination tables exist.
func New(cfg *contract.Config) (*Store, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and credentials are valid", cfg.SinkBackend, err)
	}

	s := &Store{db: db, backend: cfg.SinkBackend, tables: []string{cfg.IssueTable, cfg.SprintTimeTable}}
	if err := s.createTables(cfg.IssueTable, cfg.SprintTimeTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create destination tables: %w", err)
	}
	return s, nil
}

func open(cfg *contract.Config) (*sql.DB, error) {
	switch cfg.SinkBackend {
	case schema.SQLiteBackend:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", cfg.SQLitePath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		// multiStatements is required for multi-statement schema migrations.
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true", cfg.DBUser, cfg.DBPassword, cfg.DBEndpoint, cfg.DBName)
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		dsn := fmt.Sprintf("postgres://%s:%s@%s/%s", cfg.DBUser, cfg.DBPassword, cfg.DBEndpoint, cfg.DBName)
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.SinkBackend)
	}
}

// quoteIdent quotes an identifier for the backend. The issue key column is
// named "key", which MySQL reserves, so every identifier goes through here.
func (s *Store) quoteIdent(name string) string {
	if s.backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholder returns the i-th (1-based) statement placeholder.
func (s *Store) placeholder(i int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// Upsert writes rows into table inside a single transaction, so a failed run
// never leaves a partially updated batch behind.
func (s *Store) Upsert(ctx context.Context, table string, columns []string, rows []map[string]any, conflict []string) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := s.upsertStatement(table, columns, conflict)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare upsert for %s: %w", table, err)
	}
	defer func() { _ = prepared.Close() }()

	for i, row := range rows {
		args := make([]any, len(columns))
		for j, c := range columns {
			args[j] = row[c]
		}
		if _, err := prepared.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert row %d into %s: %w", i, table, err)
		}
	}
	return tx.Commit()
}

// upsertStatement builds the backend-specific insert-or-update statement.
func (s *Store) upsertStatement(table string, columns []string, conflict []string) string {
	quotedCols := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quotedCols[i] = s.quoteIdent(c)
		placeholders[i] = s.placeholder(i + 1)
	}

	conflictSet := make(map[string]bool, len(conflict))
	quotedConflict := make([]string, len(conflict))
	for i, c := range conflict {
		conflictSet[c] = true
		quotedConflict[i] = s.quoteIdent(c)
	}

	var updates []string
	for _, c := range columns {
		if conflictSet[c] {
			continue
		}
		qc := s.quoteIdent(c)
		if s.backend == schema.MySQLBackend {
			updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", qc, qc))
		} else {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", qc, qc))
		}
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.quoteIdent(table), strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "))

	if s.backend == schema.MySQLBackend {
		return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s", insert, strings.Join(updates, ", "))
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s",
		insert, strings.Join(quotedConflict, ", "), strings.Join(updates, ", "))
}

// Query reads the named columns back from table, in insertion-independent
// storage order.
func (s *Store) Query(ctx context.Context, table string, columns []string) ([]map[string]any, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = s.quoteIdent(c)
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), s.quoteIdent(table))

	result, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = result.Close() }()

	var rows []map[string]any
	for result.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := result.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make(map[string]any, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}

// Status returns connectivity and per-table row counts for diagnostics.
func (s *Store) Status(ctx context.Context) (schema.SinkStatus, error) {
	status := schema.SinkStatus{
		Backend:    string(s.backend),
		TableSizes: make(map[string]int64, len(s.tables)),
	}
	if err := s.db.PingContext(ctx); err != nil {
		return status, fmt.Errorf("ping: %w", err)
	}
	status.Connected = true

	for _, table := range s.tables {
		var count int64
		stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.quoteIdent(table))
		if err := s.db.QueryRowContext(ctx, stmt).Scan(&count); err != nil {
			return status, fmt.Errorf("count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
