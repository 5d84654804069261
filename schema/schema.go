// Package schema has the shared data model, configs and constants for all parts of sprintsync.
package schema

// Issue is one work item as returned by the tracker. Fields holds the raw
// decoded field map keyed by tracker field name; individual fields may be
// absent from the map or present with a null value.
type Issue struct {
	ID     string
	Key    string
	Fields map[string]any
}

// Sprint is one sprint membership snapshot attached to an issue at extraction
// time. StartDate and EndDate keep the tracker's own string form; they are
// parsed only when a worklog window comparison needs them.
type Sprint struct {
	ID        int64
	Name      string
	State     string
	BoardID   int64
	StartDate string
	EndDate   string
}

// Worklog is one logged unit of time spent on an issue.
type Worklog struct {
	Author           string
	Started          string
	Updated          string
	TimeSpentSeconds int64
}

// Project is a tracker project visible to the configured credentials.
type Project struct {
	Key  string
	Name string
}

// FieldSpec names a tracker field to extract and the optional sub-key to
// resolve inside it. An empty SubKey means the field value is taken directly.
type FieldSpec struct {
	Name   string
	SubKey string
}

// SprintSummaryRow is one row of the per-sprint completion report derived
// after an issue snapshot run.
type SprintSummaryRow struct {
	Sprint    string
	Completed int
	Total     int
}

// SinkStatus describes the health and contents of the relational sink.
type SinkStatus struct {
	Backend    string
	Connected  bool
	TableSizes map[string]int64
}
