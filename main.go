// main is the entry point for the sprintsync CLI.
package main

import (
	"github.com/sprintsync/sprintsync/cmd"
	"github.com/sprintsync/sprintsync/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error running command", err)
	}
}
