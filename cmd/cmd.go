// Package cmd defines the command-line interface for sprintsync.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(sprintsCmd)
	rootCmd.AddCommand(sinkCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the sink subcommands to the parent sink command
	sinkCmd.AddCommand(sinkStatusCmd)
	sinkCmd.AddCommand(sinkExportCmd)
	sinkCmd.AddCommand(sinkMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("queries", "q", "", "Path to the YAML queries file (default "+contract.DefaultQueriesFile+")")
	rootCmd.PersistentFlags().String("sink-backend", string(schema.SQLiteBackend), "Sink backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("sink-db-file", "", "SQLite database file for the sqlite backend")
	rootCmd.PersistentFlags().String("issue-table", "", "Destination table for issue snapshots")
	rootCmd.PersistentFlags().String("sprint-table", "", "Destination table for sprint time rows")
	rootCmd.PersistentFlags().String("sprint-field", schema.DefaultSprintField, "Custom field holding sprint memberships")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON lines")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of sinkExportCmd to Viper
	sinkExportCmd.Flags().String("output-file", "", "Prefix for exported parquet files")
	if err := viper.BindPFlags(sinkExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sink export flags", err)
	}

	// Bind all flags of sinkMigrateCmd to Viper
	sinkMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sinkMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sink migrate flags", err)
	}
}
