package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show vault totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := application.Services.Stats.Summary(cmd.Context())
		if err != nil {
			return err
		}

		return printResult(cmd, summary, func() {
			fmt.Fprintf(cmd.OutOrStdout(),
				"users:       %d\ndocuments:   %d\nfolders:     %d\nlog entries: %d\ntotal bytes: %d\n",
				summary.Users, summary.Documents, summary.Folders,
				summary.LogEntries, summary.TotalBytes)
		})
	},
}

func registerStatsCommands() {
	rootCmd.AddCommand(statsCmd)
}
