package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sprintsync/sprintsync/core"
	"github.com/sprintsync/sprintsync/internal/jiraclient"
	"github.com/sprintsync/sprintsync/internal/sink"
)

// sprintsCmd runs the sprint time pipeline.
var sprintsCmd = &cobra.Command{
	Use:     "sprints",
	Short:   "Refresh per-sprint time tracking for recent issues.",
	Long:    `Walks every visible project, re-fetches its most recently updated issues and upserts one row per issue and sprint with the time logged inside that sprint's window.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := sink.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		runner := core.NewRunner(cfg, jiraclient.New(cfg), store, log)
		runner.RefreshSprintTime(rootCtx)
		return nil
	},
}
