package sink

import (
	"fmt"

	"github.com/sprintsync/sprintsync/schema"
)

// createTables creates the destination tables when they do not exist yet.
// The migrate command manages versioned schema changes on top of this.
func (s *Store) createTables(issueTable, sprintTimeTable string) error {
	tables := []struct {
		name  string
		query string
	}{
		{issueTable, s.createIssueTableQuery(issueTable)},
		{sprintTimeTable, s.createSprintTimeTableQuery(sprintTimeTable)},
	}

	for _, table := range tables {
		if _, err := s.db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// createIssueTableQuery returns the CREATE TABLE query for the issue
// snapshot table. One row per issue, keyed by the issue key.
func (s *Store) createIssueTableQuery(table string) string {
	quoted := s.quoteIdent(table)

	if s.backend == schema.MySQLBackend {
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				`+"`key`"+` VARCHAR(64) PRIMARY KEY,
				issuetype TEXT,
				summary TEXT,
				assignee TEXT,
				reporter TEXT,
				priority TEXT,
				status TEXT,
				resolution INT,
				created TEXT,
				updated TEXT,
				duedate TEXT,
				sprint TEXT,
				all_sprints TEXT
			);
		`, quoted)
	}

	// PostgreSQL and SQLite
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			"key" TEXT PRIMARY KEY,
			issuetype TEXT,
			summary TEXT,
			assignee TEXT,
			reporter TEXT,
			priority TEXT,
			status TEXT,
			resolution BIGINT,
			created TEXT,
			updated TEXT,
			duedate TEXT,
			sprint TEXT,
			all_sprints TEXT
		);
	`, quoted)
}

// createSprintTimeTableQuery returns the CREATE TABLE query for the sprint
// time table. One row per (issue, sprint) pair.
func (s *Store) createSprintTimeTableQuery(table string) string {
	quoted := s.quoteIdent(table)

	if s.backend == schema.MySQLBackend {
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				`+"`key`"+` VARCHAR(64) NOT NULL,
				sprint_name VARCHAR(255) NOT NULL,
				issuetype TEXT,
				summary TEXT,
				assignee TEXT,
				priority TEXT,
				status TEXT,
				resolution INT,
				created TEXT,
				updated TEXT,
				duedate TEXT,
				total_time_spent BIGINT,
				total_time_estimate BIGINT,
				original_time_estimate BIGINT,
				remaining_time_estimate BIGINT,
				sprint_id BIGINT,
				sprint_state TEXT,
				board_id BIGINT,
				sprint_start TEXT,
				sprint_end TEXT,
				sprint_time_spent_seconds BIGINT,
				PRIMARY KEY (`+"`key`"+`, sprint_name)
			);
		`, quoted)
	}

	// PostgreSQL and SQLite
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			"key" TEXT NOT NULL,
			sprint_name TEXT NOT NULL,
			issuetype TEXT,
			summary TEXT,
			assignee TEXT,
			priority TEXT,
			status TEXT,
			resolution BIGINT,
			created TEXT,
			updated TEXT,
			duedate TEXT,
			total_time_spent BIGINT,
			total_time_estimate BIGINT,
			original_time_estimate BIGINT,
			remaining_time_estimate BIGINT,
			sprint_id BIGINT,
			sprint_state TEXT,
			board_id BIGINT,
			sprint_start TEXT,
			sprint_end TEXT,
			sprint_time_spent_seconds BIGINT,
			PRIMARY KEY ("key", sprint_name)
		);
	`, quoted)
}
