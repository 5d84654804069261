package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/schema"
)

// Runner drives the two batch pipelines against a tracker and a sink. It is
// strictly sequential: queries, projects and issues are processed one at a
// time, and a failure in one unit never aborts its siblings.
type Runner struct {
	tracker contract.TrackerClient
	sink    contract.Sink
	cfg     *contract.Config
	log     zerolog.Logger

	// SummaryFn, when set, receives the per-query sprint summary for display.
	SummaryFn func(query string, rows []schema.SprintSummaryRow)
}

// NewRunner wires a Runner from its collaborators.
func NewRunner(cfg *contract.Config, tracker contract.TrackerClient, sink contract.Sink, log zerolog.Logger) *Runner {
	return &Runner{tracker: tracker, sink: sink, cfg: cfg, log: log}
}

// RefreshIssues runs the issue snapshot pipeline for every configured query,
// in name order. Per-query failures are logged and the remaining queries
// still run.
func (r *Runner) RefreshIssues(ctx context.Context) {
	names := make([]string, 0, len(r.cfg.Queries))
	for name := range r.cfg.Queries {
		names = append(names, name)
	}
	sort.Strings(names)

	r.log.Info().Int("queries", len(names)).Msg("refreshing issue snapshots")
	for _, name := range names {
		if err := r.runQuery(ctx, name, r.cfg.Queries[name]); err != nil {
			if errors.Is(err, ErrNoData) {
				r.log.Warn().Str("query", name).Msg("no data found for this query")
				continue
			}
			r.log.Warn().Err(err).Str("query", name).Msg("query aborted")
		}
	}
	r.log.Info().Msg("issue snapshot refresh complete")
}

func (r *Runner) runQuery(ctx context.Context, name, jql string) error {
	r.log.Debug().Str("query", name).Str("jql", jql).Msg("running query")
	issues, err := r.tracker.Search(ctx, jql, schema.MaxSearchResults)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	r.log.Info().Int("issues", len(issues)).Str("query", name).Msg("loaded issues")

	rows, err := IssueRows(issues, r.cfg.SprintField)
	if err != nil {
		return err
	}
	table, err := Flatten(rows)
	if err != nil {
		return err
	}

	if err := r.sink.Upsert(ctx, r.cfg.IssueTable, table.Columns, table.RowMaps(), []string{schema.KeyColumn}); err != nil {
		return fmt.Errorf("upload to %s: %w", r.cfg.IssueTable, err)
	}
	r.log.Info().Int("rows", table.Len()).Str("table", r.cfg.IssueTable).Msg("uploaded issue rows")

	r.reportSummary(name, issues, rows)
	return nil
}

// reportSummary computes and displays per-sprint completion counts. The
// counting path only understands the stringified descriptor representation;
// when the tracker hands back sprint records instead, the summary is skipped
// without failing the query, since the rows are already persisted.
func (r *Runner) reportSummary(name string, issues []schema.Issue, rows []map[string]any) {
	if r.SummaryFn == nil {
		return
	}
	totals, err := SprintCounts(issues, r.cfg.SprintField)
	if err != nil {
		r.log.Debug().Err(err).Str("query", name).Msg("skipping sprint summary")
		return
	}
	r.SummaryFn(name, SprintSummary(totals, CompletedCounts(rows)))
}

// RefreshSprintTime runs the sprint time pipeline for every visible project.
// Per-project failures are logged and the remaining projects still run.
func (r *Runner) RefreshSprintTime(ctx context.Context) {
	projects, err := r.tracker.ListProjects(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("cannot list projects")
		return
	}

	r.log.Info().Int("projects", len(projects)).Msg("refreshing sprint time")
	for _, p := range projects {
		if err := r.runProject(ctx, p.Key); err != nil {
			r.log.Warn().Err(err).Str("project", p.Key).Msg("project aborted")
		}
	}
	r.log.Info().Msg("sprint time refresh complete")
}

func (r *Runner) runProject(ctx context.Context, projectKey string) error {
	jql := fmt.Sprintf("project = %s ORDER BY updated DESC", projectKey)
	recent, err := r.tracker.Search(ctx, jql, schema.RecentIssueLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	r.log.Debug().Int("issues", len(recent)).Str("project", projectKey).Msg("loaded recent issues")

	var issueRows, sprintRows []map[string]any
	for _, stub := range recent {
		issue, err := r.tracker.FetchFull(ctx, stub.ID)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", stub.Key, err)
		}
		iRow, sRows, err := SprintTimeRows(issue, r.cfg.SprintField)
		if err != nil {
			// A missing field means the query or field configuration is
			// wrong for every issue in this project, not just this one.
			if errors.Is(err, ErrSchemaViolation) || errors.Is(err, ErrEmptyInput) {
				return err
			}
			// A malformed timestamp or bad membership aborts this issue
			// only; the rest of the project still gets processed.
			r.log.Warn().Err(err).Str("issue", issue.Key).Msg("skipping issue")
			continue
		}
		if len(sRows) == 0 {
			continue
		}
		issueRows = append(issueRows, iRow)
		sprintRows = append(sprintRows, sRows...)
	}

	joined := JoinOnKey(issueRows, sprintRows, schema.KeyColumn)
	if len(joined) == 0 {
		r.log.Info().Str("project", projectKey).Msg("no sprint rows this run")
		return nil
	}
	table, err := Flatten(joined)
	if err != nil {
		return err
	}

	conflict := []string{schema.KeyColumn, schema.SprintNameColumn}
	if err := r.sink.Upsert(ctx, r.cfg.SprintTimeTable, table.Columns, table.RowMaps(), conflict); err != nil {
		return fmt.Errorf("upload to %s: %w", r.cfg.SprintTimeTable, err)
	}
	r.log.Info().Int("rows", table.Len()).Str("project", projectKey).Str("table", r.cfg.SprintTimeTable).Msg("uploaded sprint time rows")
	return nil
}
