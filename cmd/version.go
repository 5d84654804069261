package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints detailed build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print detailed version information.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("sprintsync %s (commit %s, built %s)\n", version, commit, date)
	},
}
