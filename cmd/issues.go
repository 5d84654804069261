package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sprintsync/sprintsync/core"
	"github.com/sprintsync/sprintsync/internal/jiraclient"
	"github.com/sprintsync/sprintsync/internal/outwriter"
	"github.com/sprintsync/sprintsync/internal/sink"
	"github.com/sprintsync/sprintsync/schema"
)

// issuesCmd runs the issue snapshot pipeline.
var issuesCmd = &cobra.Command{
	Use:     "issues",
	Short:   "Refresh issue snapshots for every configured query.",
	Long:    `Runs each JQL query from the queries file, flattens the matching issues into rows and upserts them into the issue table, then prints a per-sprint completion summary.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := sink.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		runner := core.NewRunner(cfg, jiraclient.New(cfg), store, log)
		runner.SummaryFn = func(query string, rows []schema.SprintSummaryRow) {
			if err := outwriter.WriteSprintSummary(os.Stdout, query, rows, cfg.UseColors); err != nil {
				log.Warn().Err(err).Msg("cannot print sprint summary")
			}
		}
		runner.RefreshIssues(rootCtx)
		return nil
	},
}
