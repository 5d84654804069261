package jiraclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintsync/sprintsync/internal/contract"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(&contract.Config{
		TrackerServer: server.URL,
		TrackerUser:   "dana@example.com",
		TrackerToken:  "secret",
	})
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPrefix+"/search", r.URL.Path)
		assert.Equal(t, "project = ABC", r.URL.Query().Get("jql"))
		assert.Equal(t, "1000", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "*all", r.URL.Query().Get("fields"))

		user, token, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "dana@example.com", user)
		assert.Equal(t, "secret", token)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"issues": [
				{"id": "10001", "key": "ABC-1", "fields": {"summary": "First"}},
				{"id": "10002", "key": "ABC-2", "fields": {"summary": "Second"}}
			]
		}`))
	})

	issues, err := client.Search(context.Background(), "project = ABC", 1000)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "ABC-1", issues[0].Key)
	assert.Equal(t, "Second", issues[1].Fields["summary"])
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "jql is broken", http.StatusBadRequest)
	})

	_, err := client.Search(context.Background(), "not jql", 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestFetchFull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPrefix+"/issue/10001", r.URL.Path)
		assert.Equal(t, "*all", r.URL.Query().Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "10001", "key": "ABC-1",
			"fields": {"summary": "First", "worklog": {"worklogs": []}}
		}`))
	})

	issue, err := client.FetchFull(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", issue.Key)
	assert.Contains(t, issue.Fields, "worklog")
}

func TestListProjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPrefix+"/project", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"key": "ABC", "name": "Alphabet"},
			{"key": "XYZ", "name": "Zephyr"}
		]`))
	})

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "ABC", projects[0].Key)
	assert.Equal(t, "Zephyr", projects[1].Name)
}
