// Package jiraclient implements the tracker contract against the Jira REST API.
package jiraclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/schema"
)

const apiPrefix = "/rest/api/2"

// Client talks to a Jira server with basic authentication. It carries no
// request timeout: a batch run would rather wait on a slow search than
// fail it, and cancellation still works through the context.
type Client struct {
	baseURL string
	user    string
	token   string
	http    *http.Client
}

var _ contract.TrackerClient = (*Client)(nil)

// New builds a Client from the validated configuration.
func New(cfg *contract.Config) *Client {
	return &Client{
		baseURL: cfg.TrackerServer,
		user:    cfg.TrackerUser,
		token:   cfg.TrackerToken,
		http:    &http.Client{},
	}
}

// issuePayload mirrors the issue envelope shared by search results and
// single-issue responses. Fields stay raw; typing them is core's job.
type issuePayload struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Search runs a JQL query and returns up to maxResults issues with their
// full field sets.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]schema.Issue, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("fields", "*all")

	var payload struct {
		Issues []issuePayload `json:"issues"`
	}
	if err := c.get(ctx, "/search", query, &payload); err != nil {
		return nil, fmt.Errorf("jira search: %w", err)
	}
	issues := make([]schema.Issue, 0, len(payload.Issues))
	for _, it := range payload.Issues {
		issues = append(issues, schema.Issue{ID: it.ID, Key: it.Key, Fields: it.Fields})
	}
	return issues, nil
}

// FetchFull retrieves a single issue with every field populated.
func (c *Client) FetchFull(ctx context.Context, issueID string) (schema.Issue, error) {
	query := url.Values{}
	query.Set("fields", "*all")

	var payload issuePayload
	if err := c.get(ctx, "/issue/"+url.PathEscape(issueID), query, &payload); err != nil {
		return schema.Issue{}, fmt.Errorf("jira issue %s: %w", issueID, err)
	}
	return schema.Issue{ID: payload.ID, Key: payload.Key, Fields: payload.Fields}, nil
}

// ListProjects returns all projects visible to the configured account.
func (c *Client) ListProjects(ctx context.Context) ([]schema.Project, error) {
	var payload []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/project", nil, &payload); err != nil {
		return nil, fmt.Errorf("jira projects: %w", err)
	}
	projects := make([]schema.Project, 0, len(payload))
	for _, p := range payload {
		projects = append(projects, schema.Project{Key: p.Key, Name: p.Name})
	}
	return projects, nil
}
