package outwriter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/schema"
)

func TestWriteSprintSummary(t *testing.T) {
	rows := []schema.SprintSummaryRow{
		{Sprint: "Sprint 1", Completed: 2, Total: 2},
		{Sprint: "Sprint 2", Completed: 1, Total: 4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSprintSummary(&buf, "all_issues", rows, true))

	out := buf.String()
	assert.Contains(t, out, "all_issues")
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "Sprint 2")
	// A buffer is not a terminal, so labels come out plain.
	assert.Contains(t, out, contract.DoneValue)
	assert.Contains(t, out, contract.AtRiskValue)

	t.Run("empty summary prints nothing", func(t *testing.T) {
		var empty bytes.Buffer
		require.NoError(t, WriteSprintSummary(&empty, "nothing", nil, true))
		assert.Empty(t, empty.String())
	})
}

func TestWriteSinkStatus(t *testing.T) {
	status := schema.SinkStatus{
		Backend:   "sqlite",
		Connected: true,
		TableSizes: map[string]int64{
			schema.DefaultIssueTable:      12,
			schema.DefaultSprintTimeTable: 30,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSinkStatus(&buf, status))

	out := buf.String()
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, schema.DefaultIssueTable)
	assert.Contains(t, out, "30")
}
