package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

var (
	userTemplate string

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "manage vault users",
	}

	userCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.CreateUserRequest
			if err := loadRequest(cmd, userTemplate, &req); err != nil {
				return err
			}

			if err := validate(&req); err != nil {
				return err
			}

			user, err := application.Services.User.Create(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, user, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "user %d created (%s)\n", user.ID, user.Email)
			})
		},
	}

	userListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list users",
		Aliases: []string{"list", "l"},
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := application.Services.User.List(cmd.Context())
			if err != nil {
				return err
			}

			return printResult(cmd, users, func() {
				for _, u := range users {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
				}
			})
		},
	}

	userGetCmd = &cobra.Command{
		Use:   "get <id|email>",
		Short: "show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := application.Services.User.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printResult(cmd, user, func() {
				printUser(cmd, user)
			})
		},
	}

	userUpdateCmd = &cobra.Command{
		Use:   "update",
		Short: "update user fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.UpdateUserRequest
			if err := loadRequest(cmd, userTemplate, &req); err != nil {
				return err
			}

			if err := validate(&req); err != nil {
				return err
			}

			user, err := application.Services.User.Update(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, user, func() {
				printUser(cmd, user)
			})
		},
	}

	userDeleteCmd = &cobra.Command{
		Use:     "rm <id|email>",
		Short:   "delete a user and all owned data",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Services.User.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "user deleted")

			return nil
		},
	}
)

func printUser(cmd *cobra.Command, u *model.User) {
	fmt.Fprintf(cmd.OutOrStdout(), "id:    %d\nuid:   %s\nname:  %s\nemail: %s\n",
		u.ID, u.UID, u.Name, u.Email)
}

func registerUserCommands() {
	userCreateCmd.Flags().String("name", "", "display name")
	userCreateCmd.Flags().String("email", "", "email address")
	userCreateCmd.Flags().String("password", "", "password")
	userCreateCmd.Flags().StringVar(&userTemplate, "template", "", "request template file")

	userUpdateCmd.Flags().String("owner", "", "user id or email")
	userUpdateCmd.Flags().String("name", "", "new display name")
	userUpdateCmd.Flags().String("email", "", "new email address")
	userUpdateCmd.Flags().StringVar(&userTemplate, "template", "", "request template file")

	userCmd.AddCommand(userCreateCmd, userListCmd, userGetCmd, userUpdateCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
