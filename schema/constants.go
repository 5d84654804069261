package schema

// SinkBackend represents the relational sink backend.
type SinkBackend string

// All sink backends supported.
const (
	SQLiteBackend     SinkBackend = "sqlite" // default
	MySQLBackend      SinkBackend = "mysql"
	PostgreSQLBackend SinkBackend = "postgresql"
)

// ValidSinkBackends lists all valid sink backends.
var ValidSinkBackends = map[SinkBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// Default table names for the two pipelines.
const (
	DefaultIssueTable      = "jira_issues"
	DefaultSprintTimeTable = "jira_sprint_time"
)

// DefaultSprintField is the tracker custom field carrying sprint memberships.
const DefaultSprintField = "customfield_10020"

// Search bounds for the two pipelines.
const (
	MaxSearchResults = 1000 // issue snapshot queries
	RecentIssueLimit = 100  // per-project recent issues for sprint time tracking
)

// Timestamp layouts used by the tracker. Worklog and issue timestamps carry an
// explicit offset (fractional seconds are accepted by the parser even though
// the layout omits them); sprint boundaries are fixed-format UTC with a
// literal Z suffix.
const (
	WorklogTimeLayout = "2006-01-02T15:04:05-0700"
	SprintTimeLayout  = "2006-01-02T15:04:05Z"
)

// FieldResolution is the field whose presence, not value, is persisted: a
// resolved issue stores 1, an unresolved one 0.
const FieldResolution = "resolution"

// DoneStatus is the status name (compared case-insensitively) that marks an
// issue as completed for sprint summaries.
const DoneStatus = "done"

// KeyColumn is the natural key column shared by both output tables.
const KeyColumn = "key"

// SprintNameColumn completes the composite key of the sprint time table.
const SprintNameColumn = "sprint_name"

// TaskFields is the issue projection persisted by the issue snapshot pipeline.
var TaskFields = []FieldSpec{
	{Name: "issuetype", SubKey: "name"},
	{Name: "summary"},
	{Name: "assignee", SubKey: "displayName"},
	{Name: "reporter", SubKey: "displayName"},
	{Name: "priority", SubKey: "name"},
	{Name: "status", SubKey: "name"},
	{Name: "resolution", SubKey: "name"},
	{Name: "created"},
	{Name: "updated"},
	{Name: "duedate"},
}

// SprintTaskFields is the issue projection used by the sprint time pipeline.
// The four time fields are renamed on output via TimeFieldRenames.
var SprintTaskFields = []FieldSpec{
	{Name: "issuetype", SubKey: "name"},
	{Name: "summary"},
	{Name: "assignee", SubKey: "displayName"},
	{Name: "priority", SubKey: "name"},
	{Name: "status", SubKey: "name"},
	{Name: "resolution", SubKey: "name"},
	{Name: "created"},
	{Name: "updated"},
	{Name: "duedate"},
	{Name: "timespent"},
	{Name: "aggregatetimeestimate"},
	{Name: "timeoriginalestimate"},
	{Name: "timeestimate"},
}

// TimeFieldRenames maps tracker time field names to persisted column names.
// These columns are never null in persisted output; missing values become 0.
var TimeFieldRenames = map[string]string{
	"timespent":             "total_time_spent",
	"aggregatetimeestimate": "total_time_estimate",
	"timeoriginalestimate":  "original_time_estimate",
	"timeestimate":          "remaining_time_estimate",
}
