// Package parquet provides data structures and functions for exporting sink
// tables to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/sprintsync/sprintsync/schema"
)

// IssueRecord maps to the issue snapshot table.
type IssueRecord struct {
	Key        string  `parquet:"key,snappy"`
	IssueType  *string `parquet:"issuetype,optional,snappy"`
	Summary    *string `parquet:"summary,optional,snappy"`
	Assignee   *string `parquet:"assignee,optional,snappy"`
	Reporter   *string `parquet:"reporter,optional,snappy"`
	Priority   *string `parquet:"priority,optional,snappy"`
	Status     *string `parquet:"status,optional,snappy"`
	Resolution int64   `parquet:"resolution,snappy"`
	Created    *string `parquet:"created,optional,snappy"`
	Updated    *string `parquet:"updated,optional,snappy"`
	DueDate    *string `parquet:"duedate,optional,snappy"`
	Sprint     *string `parquet:"sprint,optional,snappy"`
	AllSprints *string `parquet:"all_sprints,optional,snappy"`
}

// SprintTimeRecord maps to the sprint time table.
type SprintTimeRecord struct {
	Key                    string  `parquet:"key,snappy"`
	SprintName             string  `parquet:"sprint_name,snappy"`
	SprintID               int64   `parquet:"sprint_id,snappy"`
	SprintState            *string `parquet:"sprint_state,optional,snappy"`
	BoardID                int64   `parquet:"board_id,snappy"`
	SprintStart            *string `parquet:"sprint_start,optional,snappy"`
	SprintEnd              *string `parquet:"sprint_end,optional,snappy"`
	TotalTimeSpent         int64   `parquet:"total_time_spent,snappy"`
	TotalTimeEstimate      int64   `parquet:"total_time_estimate,snappy"`
	OriginalTimeEstimate   int64   `parquet:"original_time_estimate,snappy"`
	RemainingTimeEstimate  int64   `parquet:"remaining_time_estimate,snappy"`
	SprintTimeSpentSeconds int64   `parquet:"sprint_time_spent_seconds,snappy"`
}

// IssueColumns is the column list to read for an issue export.
var IssueColumns = []string{
	"key", "issuetype", "summary", "assignee", "reporter", "priority",
	"status", "resolution", "created", "updated", "duedate", "sprint", "all_sprints",
}

// SprintTimeColumns is the column list to read for a sprint time export.
var SprintTimeColumns = []string{
	"key", "sprint_name", "sprint_id", "sprint_state", "board_id",
	"sprint_start", "sprint_end", "total_time_spent", "total_time_estimate",
	"original_time_estimate", "remaining_time_estimate", "sprint_time_spent_seconds",
}

// WriteIssueRecordsParquet writes issue records to a Parquet file.
func WriteIssueRecordsParquet(data []IssueRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the IssueRecord struct tags
	writer := parquet.NewGenericWriter[IssueRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteSprintTimeRecordsParquet writes sprint time records to a Parquet file.
func WriteSprintTimeRecordsParquet(data []SprintTimeRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the SprintTimeRecord struct tags
	writer := parquet.NewGenericWriter[SprintTimeRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertIssueRows converts raw sink rows into typed records for export.
func ConvertIssueRows(rows []map[string]any) []IssueRecord {
	result := make([]IssueRecord, len(rows))
	for i, row := range rows {
		result[i] = IssueRecord{
			Key:        schema.AsString(row["key"]),
			IssueType:  optString(row["issuetype"]),
			Summary:    optString(row["summary"]),
			Assignee:   optString(row["assignee"]),
			Reporter:   optString(row["reporter"]),
			Priority:   optString(row["priority"]),
			Status:     optString(row["status"]),
			Resolution: mustInt64(row["resolution"]),
			Created:    optString(row["created"]),
			Updated:    optString(row["updated"]),
			DueDate:    optString(row["duedate"]),
			Sprint:     optString(row["sprint"]),
			AllSprints: optString(row["all_sprints"]),
		}
	}
	return result
}

// ConvertSprintTimeRows converts raw sink rows into typed records for export.
func ConvertSprintTimeRows(rows []map[string]any) []SprintTimeRecord {
	result := make([]SprintTimeRecord, len(rows))
	for i, row := range rows {
		result[i] = SprintTimeRecord{
			Key:                    schema.AsString(row["key"]),
			SprintName:             schema.AsString(row["sprint_name"]),
			SprintID:               mustInt64(row["sprint_id"]),
			SprintState:            optString(row["sprint_state"]),
			BoardID:                mustInt64(row["board_id"]),
			SprintStart:            optString(row["sprint_start"]),
			SprintEnd:              optString(row["sprint_end"]),
			TotalTimeSpent:         mustInt64(row["total_time_spent"]),
			TotalTimeEstimate:      mustInt64(row["total_time_estimate"]),
			OriginalTimeEstimate:   mustInt64(row["original_time_estimate"]),
			RemainingTimeEstimate:  mustInt64(row["remaining_time_estimate"]),
			SprintTimeSpentSeconds: mustInt64(row["sprint_time_spent_seconds"]),
		}
	}
	return result
}

// MockFetchIssueRecords generates sample issue data for demonstration.
func MockFetchIssueRecords() []IssueRecord {
	story := "Story"
	bug := "Bug"
	dana := "Dana"
	riley := "Riley"
	major := "Major"
	done := "Done"
	inProgress := "In Progress"
	fixed := "Fixed"
	sprint2 := "Sprint 2"
	bothSprints := "Sprint 1, Sprint 2"
	summary1 := "Ship the login flow"
	summary2 := "Crash when the board is empty"
	created := "2023-05-01T09:00:00.000+0000"
	updated := "2023-05-12T16:30:00.000+0000"

	return []IssueRecord{
		{
			Key:        "WEB-101",
			IssueType:  &story,
			Summary:    &summary1,
			Assignee:   &dana,
			Reporter:   &riley,
			Priority:   &major,
			Status:     &done,
			Resolution: 1,
			Created:    &created,
			Updated:    &updated,
			Sprint:     &sprint2,
			AllSprints: &bothSprints,
		},
		{
			// DueDate and resolution left empty to demonstrate nullable fields
			Key:       "WEB-102",
			IssueType: &bug,
			Summary:   &summary2,
			Reporter:  &riley,
			Priority:  &major,
			Status:    &inProgress,
			Created:   &created,
			Updated:   &updated,
			Sprint:    &sprint2,
		},
		{
			Key:        "WEB-103",
			IssueType:  &bug,
			Assignee:   &dana,
			Reporter:   &riley,
			Priority:   &major,
			Status:     &fixed,
			Resolution: 1,
			Created:    &created,
			Updated:    &updated,
		},
	}
}

// MockFetchSprintTimeRecords generates sample sprint time data for demonstration.
func MockFetchSprintTimeRecords() []SprintTimeRecord {
	active := "active"
	closed := "closed"
	start1 := "2023-04-17T08:00:00Z"
	end1 := "2023-04-30T20:00:00Z"
	start2 := "2023-05-01T08:00:00Z"
	end2 := "2023-05-14T20:00:00Z"

	return []SprintTimeRecord{
		{
			Key:                    "WEB-101",
			SprintName:             "Sprint 1",
			SprintID:               11,
			SprintState:            &closed,
			BoardID:                3,
			SprintStart:            &start1,
			SprintEnd:              &end1,
			TotalTimeSpent:         14400,
			TotalTimeEstimate:      28800,
			OriginalTimeEstimate:   28800,
			RemainingTimeEstimate:  14400,
			SprintTimeSpentSeconds: 7200,
		},
		{
			Key:                    "WEB-101",
			SprintName:             "Sprint 2",
			SprintID:               12,
			SprintState:            &active,
			BoardID:                3,
			SprintStart:            &start2,
			SprintEnd:              &end2,
			TotalTimeSpent:         14400,
			TotalTimeEstimate:      28800,
			OriginalTimeEstimate:   28800,
			RemainingTimeEstimate:  14400,
			SprintTimeSpentSeconds: 7200,
		},
	}
}

func optString(v any) *string {
	if v == nil {
		return nil
	}
	s := schema.AsString(v)
	return &s
}

func mustInt64(v any) int64 {
	n, _ := schema.AsInt64(v)
	return n
}
