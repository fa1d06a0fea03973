package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/internal/types"
)

var syncTemplate string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "reconcile remote files into local documents by content hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req types.SyncRequest
		if err := loadRequest(cmd, syncTemplate, &req); err != nil {
			return err
		}

		if err := validate(&req); err != nil {
			return err
		}

		result, err := application.Services.Sync.Sync(cmd.Context(), &req)
		if err != nil {
			return err
		}

		return printResult(cmd, result, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d skipped=%d\n",
				result.Created, result.Updated, result.Skipped)

			for _, d := range result.CreatedDocs {
				fmt.Fprintf(cmd.OutOrStdout(), "  + %d\t%s\n", d.ID, d.Name)
			}

			for _, d := range result.UpdatedDocs {
				fmt.Fprintf(cmd.OutOrStdout(), "  ~ %d\t%s\n", d.ID, d.Name)
			}
		})
	},
}

func registerSyncCommands() {
	syncCmd.Flags().String("owner", "", "owner id or email")
	syncCmd.Flags().String("folder_ref", "", "remote folder scope (default: whole account)")
	syncCmd.Flags().StringVar(&syncTemplate, "template", "", "request template file")

	rootCmd.AddCommand(syncCmd)
}
