package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/internal/types"
)

var (
	credTemplate string

	credCmd = &cobra.Command{
		Use:     "credential",
		Short:   "manage encrypted remote storage credentials",
		Aliases: []string{"cred"},
	}

	credSetCmd = &cobra.Command{
		Use:   "set",
		Short: "store or replace a user's remote credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.UpsertCredentialRequest
			if err := loadRequest(cmd, credTemplate, &req); err != nil {
				return err
			}

			if err := validate(&req); err != nil {
				return err
			}

			info, err := application.Services.Credential.Upsert(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, info, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "credential stored for user %d (active=%t)\n",
					info.UserID, info.Active)
			})
		},
	}

	credGetCmd = &cobra.Command{
		Use:   "get <owner>",
		Short: "show a user's credential record (email only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := application.Services.Credential.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if info == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no credential stored")

				return nil
			}

			return printResult(cmd, info, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "user:   %d\nemail:  %s\nactive: %t\n",
					info.UserID, info.Email, info.Active)
			})
		},
	}

	credToggleCmd = &cobra.Command{
		Use:   "toggle <owner>",
		Short: "flip the active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := application.Services.Credential.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "active=%t\n", active)

			return nil
		},
	}

	credDeleteCmd = &cobra.Command{
		Use:     "rm <owner>",
		Short:   "delete a user's credential record",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Services.Credential.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "credential deleted")

			return nil
		},
	}
)

func registerCredentialCommands() {
	credSetCmd.Flags().String("owner", "", "user id or email")
	credSetCmd.Flags().String("email", "", "remote storage access key")
	credSetCmd.Flags().String("password", "", "remote storage secret key")
	credSetCmd.Flags().Bool("active", true, "use this credential for gateway sessions")
	credSetCmd.Flags().StringVar(&credTemplate, "template", "", "request template file")

	credCmd.AddCommand(credSetCmd, credGetCmd, credToggleCmd, credDeleteCmd)
	rootCmd.AddCommand(credCmd)
}
