package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprintsync/sprintsync/internal/outwriter"
	"github.com/sprintsync/sprintsync/internal/parquet"
	"github.com/sprintsync/sprintsync/internal/sink"
)

// sinkCmd groups the sink maintenance commands.
var sinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Inspect and maintain the relational sink.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// sinkStatusCmd reports connectivity and table sizes.
var sinkStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show sink connectivity and row counts.",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := sink.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		status, err := store.Status(rootCtx)
		if err != nil {
			return err
		}
		return outwriter.WriteSinkStatus(os.Stdout, status)
	},
}

// sinkExportCmd dumps both tables to parquet files.
var sinkExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export sink tables to parquet files.",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := sink.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		prefix := cfg.OutputFile
		if prefix == "" {
			prefix = "sprintsync"
		}

		issueRows, err := store.Query(rootCtx, cfg.IssueTable, parquet.IssueColumns)
		if err != nil {
			return err
		}
		issuesPath := prefix + "_issues.parquet"
		if err := parquet.WriteIssueRecordsParquet(parquet.ConvertIssueRows(issueRows), issuesPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %d issue rows to %s\n", len(issueRows), issuesPath)

		sprintRows, err := store.Query(rootCtx, cfg.SprintTimeTable, parquet.SprintTimeColumns)
		if err != nil {
			return err
		}
		sprintPath := prefix + "_sprint_time.parquet"
		if err := parquet.WriteSprintTimeRecordsParquet(parquet.ConvertSprintTimeRows(sprintRows), sprintPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %d sprint time rows to %s\n", len(sprintRows), sprintPath)

		return nil
	},
}

// sinkMigrateCmd runs versioned schema migrations.
var sinkMigrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Run sink schema migrations.",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return sink.Migrate(cfg, viper.GetInt("target-version"))
	},
}
