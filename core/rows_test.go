package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintsync/sprintsync/schema"
)

func snapshotIssue(key string, sprintField string) schema.Issue {
	return schema.Issue{
		ID:  "1000" + key,
		Key: key,
		Fields: map[string]any{
			"issuetype":  map[string]any{"name": "Story"},
			"summary":    "Work on " + key,
			"assignee":   map[string]any{"displayName": "Dana"},
			"reporter":   map[string]any{"displayName": "Sam"},
			"priority":   map[string]any{"name": "Medium"},
			"status":     map[string]any{"name": "Done"},
			"resolution": map[string]any{"name": "Fixed"},
			"created":    "2023-05-01T10:00:00.000+0000",
			"updated":    "2023-05-10T10:00:00.000+0000",
			"duedate":    nil,
			sprintField: []any{
				"[id=1,name=Sprint 1,state=CLOSED]",
				"[id=2,name=Sprint 2,state=ACTIVE]",
			},
		},
	}
}

func TestIssueRows(t *testing.T) {
	field := schema.DefaultSprintField
	rows, err := IssueRows([]schema.Issue{snapshotIssue("ABC-1", field)}, field)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ABC-1", row["key"])
	assert.Equal(t, "Sprint 2", row["sprint"])
	assert.Equal(t, "Sprint 1, Sprint 2", row["all_sprints"])
	assert.Equal(t, "Story", row["issuetype"])
	assert.Equal(t, 1, row["resolution"])
	assert.Nil(t, row["duedate"])

	t.Run("missing sprint field is a schema violation", func(t *testing.T) {
		issue := snapshotIssue("ABC-2", field)
		delete(issue.Fields, field)
		_, err := IssueRows([]schema.Issue{issue}, field)
		require.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("empty membership fails the issue", func(t *testing.T) {
		issue := snapshotIssue("ABC-3", field)
		issue.Fields[field] = []any{}
		_, err := IssueRows([]schema.Issue{issue}, field)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func fullIssue(key string, sprintField string) schema.Issue {
	return schema.Issue{
		ID:  "2000" + key,
		Key: key,
		Fields: map[string]any{
			"issuetype":            map[string]any{"name": "Story"},
			"summary":              "Work on " + key,
			"assignee":             map[string]any{"displayName": "Dana"},
			"priority":             map[string]any{"name": "Medium"},
			"status":               map[string]any{"name": "Done"},
			"resolution":           map[string]any{"name": "Fixed"},
			"created":              "2023-05-01T10:00:00.000+0000",
			"updated":              "2023-05-20T10:00:00.000+0000",
			"duedate":              nil,
			"timespent":            float64(5400),
			"aggregatetimeestimate": nil,
			"timeoriginalestimate": float64(7200),
			"timeestimate":         float64(1800),
			sprintField: []any{
				map[string]any{
					"id": float64(1), "name": "Sprint 1", "state": "closed", "boardId": float64(3),
					"startDate": "2023-05-01T00:00:00Z", "endDate": "2023-05-14T23:59:59Z",
				},
				map[string]any{
					"id": float64(2), "name": "Sprint 2", "state": "active", "boardId": float64(3),
					"startDate": "2023-05-15T00:00:00Z", "endDate": "2023-05-28T23:59:59Z",
				},
			},
			"worklog": map[string]any{
				"worklogs": []any{
					map[string]any{"started": "2023-05-02T09:00:00.000+0000", "timeSpentSeconds": float64(3600)},
					map[string]any{"started": "2023-05-16T09:00:00.000+0000", "timeSpentSeconds": float64(1800)},
				},
			},
		},
	}
}

func TestSprintTimeRows(t *testing.T) {
	field := schema.DefaultSprintField
	issueRow, sprintRows, err := SprintTimeRows(fullIssue("ABC-1", field), field)
	require.NoError(t, err)

	assert.Equal(t, "ABC-1", issueRow["key"])
	assert.Equal(t, int64(5400), issueRow["total_time_spent"])
	assert.Equal(t, int64(0), issueRow["total_time_estimate"])
	assert.Equal(t, int64(7200), issueRow["original_time_estimate"])
	assert.Equal(t, int64(1800), issueRow["remaining_time_estimate"])

	require.Len(t, sprintRows, 2)
	assert.Equal(t, "Sprint 1", sprintRows[0]["sprint_name"])
	assert.Equal(t, int64(3600), sprintRows[0]["sprint_time_spent_seconds"])
	assert.Equal(t, "Sprint 2", sprintRows[1]["sprint_name"])
	assert.Equal(t, int64(1800), sprintRows[1]["sprint_time_spent_seconds"])

	t.Run("null sprint field yields no sprint rows", func(t *testing.T) {
		issue := fullIssue("ABC-2", field)
		issue.Fields[field] = nil
		row, sRows, err := SprintTimeRows(issue, field)
		require.NoError(t, err)
		assert.Equal(t, "ABC-2", row["key"])
		assert.Empty(t, sRows)
	})

	t.Run("malformed worklog timestamp fails the issue", func(t *testing.T) {
		issue := fullIssue("ABC-3", field)
		issue.Fields["worklog"] = map[string]any{
			"worklogs": []any{
				map[string]any{"started": "last tuesday", "timeSpentSeconds": float64(60)},
			},
		}
		_, _, err := SprintTimeRows(issue, field)
		require.ErrorIs(t, err, ErrMalformedTimestamp)
	})
}
