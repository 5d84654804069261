package core

import (
	"fmt"

	"github.com/sprintsync/sprintsync/schema"
)

// IssueRows builds one flat row per issue for the issue snapshot pipeline.
// Each row carries the standard task fields plus the resolved current sprint
// label, the full membership history and the issue key.
func IssueRows(issues []schema.Issue, sprintField string) ([]map[string]any, error) {
	rows := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		data, err := ExtractFields(issue, schema.TaskFields)
		if err != nil {
			return nil, err
		}

		raw, present := issue.Fields[sprintField]
		if !present {
			return nil, fmt.Errorf("issue %s field %q: %w", issue.Key, sprintField, ErrSchemaViolation)
		}
		sprints, err := schema.SprintsFromField(raw)
		if err != nil {
			return nil, fmt.Errorf("issue %s: %w", issue.Key, err)
		}
		last, err := LastSprint(sprints)
		if err != nil {
			return nil, fmt.Errorf("issue %s: %w", issue.Key, err)
		}

		data["sprint"] = last
		data["all_sprints"] = AllSprints(sprints)
		data[schema.KeyColumn] = issue.Key
		rows = append(rows, data)
	}
	return rows, nil
}

// SprintTimeRows builds the two row shapes the sprint time pipeline joins:
// one issue-level row with time tracking fields, and one row per sprint the
// issue belongs to with the seconds logged inside that sprint's window.
//
// A null sprint field means the issue was never in a sprint; it contributes
// an issue row but no sprint rows and drops out of the join. Time tracking
// fields are renamed to their column names and nulls collapse to 0 so the
// columns stay additive.
func SprintTimeRows(issue schema.Issue, sprintField string) (map[string]any, []map[string]any, error) {
	data, err := ExtractFields(issue, schema.SprintTaskFields)
	if err != nil {
		return nil, nil, err
	}
	row := make(map[string]any, len(data)+1)
	for name, val := range data {
		if col, ok := schema.TimeFieldRenames[name]; ok {
			n, _ := schema.AsInt64(val)
			row[col] = n
			continue
		}
		row[name] = val
	}
	row[schema.KeyColumn] = issue.Key

	raw, present := issue.Fields[sprintField]
	if !present {
		return nil, nil, fmt.Errorf("issue %s field %q: %w", issue.Key, sprintField, ErrSchemaViolation)
	}
	if raw == nil {
		return row, nil, nil
	}
	sprints, err := schema.SprintsFromField(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("issue %s: %w", issue.Key, err)
	}

	worklogs := schema.WorklogsFromField(issue.Fields["worklog"])
	sprintRows := make([]map[string]any, 0, len(sprints))
	for _, sp := range sprints {
		spent, err := SprintTimeSpent(worklogs, sp)
		if err != nil {
			return nil, nil, fmt.Errorf("issue %s sprint %q: %w", issue.Key, sp.Name, err)
		}
		sprintRows = append(sprintRows, map[string]any{
			schema.KeyColumn:            issue.Key,
			schema.SprintNameColumn:     sp.Name,
			"sprint_id":                 sp.ID,
			"sprint_state":              sp.State,
			"board_id":                  sp.BoardID,
			"sprint_start":              sp.StartDate,
			"sprint_end":                sp.EndDate,
			"sprint_time_spent_seconds": spent,
		})
	}
	return row, sprintRows, nil
}
