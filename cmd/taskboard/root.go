package main

import (
	"github.com/spf13/cobra"
)

// flagConfigFile is set by the --config flag.
var flagConfigFile string

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "taskboard is a task management REST microservice",
	Long: `taskboard serves CRUD operations over users, tasks and categories
backed by SQLite, with health and readiness probes.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default: taskboard.yaml in the working directory)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
