package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/internal/types"
)

var (
	logTemplate string

	logCmd = &cobra.Command{
		Use:   "log",
		Short: "inspect the activity audit log",
	}

	logListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list audit entries, newest first",
		Aliases: []string{"list", "l"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.ListActivityRequest
			if err := loadRequest(cmd, logTemplate, &req); err != nil {
				return err
			}

			if err := validate(&req); err != nil {
				return err
			}

			entries, err := application.Services.Activity.List(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, entries, func() {
				for _, e := range entries {
					entity := "-"
					if e.EntityID != nil {
						entity = fmt.Sprintf("%s/%d", e.EntityType, *e.EntityID)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %-16s %s\n",
						e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, entity, e.Detail)
				}
			})
		},
	}
)

func registerActivityCommands() {
	logListCmd.Flags().String("actor", "", "filter by actor id or email")
	logListCmd.Flags().String("entity_type", "", "filter by entity type")
	logListCmd.Flags().String("action", "", "filter by action")
	logListCmd.Flags().Int("limit", 0, "max entries")
	logListCmd.Flags().StringVar(&logTemplate, "template", "", "request template file")

	logCmd.AddCommand(logListCmd)
	rootCmd.AddCommand(logCmd)
}
