package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ai-platform",
	Short: "Conversational widget platform backed by GigaChat",
	Long: `ai-platform serves the conversational widget builder API.

Users chat in natural language; messages that look like widget-creation
commands mint UI widgets in the user's workspace, everything else is
answered by the GigaChat assistant. Running without a subcommand starts
the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
