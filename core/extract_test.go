package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintsync/sprintsync/schema"
)

func TestExtractFields(t *testing.T) {
	specs := []schema.FieldSpec{
		{Name: "summary"},
		{Name: "status", SubKey: "name"},
		{Name: "assignee", SubKey: "displayName"},
		{Name: "resolution", SubKey: "name"},
	}

	t.Run("nested and scalar values resolve", func(t *testing.T) {
		issue := schema.Issue{
			Key: "ABC-1",
			Fields: map[string]any{
				"summary":    "Fix the widget",
				"status":     map[string]any{"name": "In Progress"},
				"assignee":   map[string]any{"displayName": "Dana"},
				"resolution": map[string]any{"name": "Fixed"},
			},
		}
		got, err := ExtractFields(issue, specs)
		require.NoError(t, err)
		assert.Equal(t, "Fix the widget", got["summary"])
		assert.Equal(t, "In Progress", got["status"])
		assert.Equal(t, "Dana", got["assignee"])
		assert.Equal(t, 1, got["resolution"])
	})

	t.Run("unresolved resolution yields zero", func(t *testing.T) {
		issue := schema.Issue{
			Key: "ABC-2",
			Fields: map[string]any{
				"summary":    "Open task",
				"status":     map[string]any{"name": "To Do"},
				"assignee":   nil,
				"resolution": nil,
			},
		}
		got, err := ExtractFields(issue, specs)
		require.NoError(t, err)
		assert.Equal(t, 0, got["resolution"])
		assert.Nil(t, got["assignee"])
	})

	t.Run("missing field is a schema violation", func(t *testing.T) {
		issue := schema.Issue{Key: "ABC-3", Fields: map[string]any{"summary": "x"}}
		_, err := ExtractFields(issue, specs)
		require.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("nan string coerces to null", func(t *testing.T) {
		issue := schema.Issue{
			Key: "ABC-4",
			Fields: map[string]any{
				"summary":    "nan",
				"status":     map[string]any{"name": "NaN"},
				"assignee":   map[string]any{"displayName": "Dana"},
				"resolution": nil,
			},
		}
		got, err := ExtractFields(issue, specs)
		require.NoError(t, err)
		assert.Nil(t, got["summary"])
		assert.Nil(t, got["status"])
	})

	t.Run("missing sub-key defaults like a null container", func(t *testing.T) {
		issue := schema.Issue{
			Key: "ABC-5",
			Fields: map[string]any{
				"summary":    "s",
				"status":     map[string]any{"id": "3"},
				"assignee":   map[string]any{"displayName": "Dana"},
				"resolution": map[string]any{"id": "1"},
			},
		}
		got, err := ExtractFields(issue, specs)
		require.NoError(t, err)
		assert.Nil(t, got["status"])
		assert.Equal(t, 0, got["resolution"])
	})
}
