package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/internal/types"
)

var (
	folderTemplate string
	folderParentID uint

	folderCmd = &cobra.Command{
		Use:   "folder",
		Short: "manage folders",
	}

	folderCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "create a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.CreateFolderRequest
			if err := loadRequest(cmd, folderTemplate, &req); err != nil {
				return err
			}

			applyParentFlag(cmd, &req.ParentID)

			if err := validate(&req); err != nil {
				return err
			}

			folder, err := application.Services.Folder.Create(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, folder, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "folder %d created (%s)\n", folder.ID, folder.Name)
			})
		},
	}

	folderListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list folders of an owner",
		Aliases: []string{"list", "l"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.ListFoldersRequest
			if err := loadRequest(cmd, folderTemplate, &req); err != nil {
				return err
			}

			if err := validate(&req); err != nil {
				return err
			}

			folders, err := application.Services.Folder.List(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, folders, func() {
				for _, f := range folders {
					parent := "-"
					if f.ParentID != nil {
						parent = fmt.Sprintf("%d", *f.ParentID)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tparent=%s\n", f.ID, f.Name, parent)
				}
			})
		},
	}

	folderRenameCmd = &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			folder, err := application.Services.Folder.Rename(cmd.Context(), &types.RenameFolderRequest{
				ID:      id,
				NewName: args[1],
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "folder %d renamed to %s\n", folder.ID, folder.Name)

			return nil
		},
	}

	folderMoveCmd = &cobra.Command{
		Use:   "move <id>",
		Short: "move a folder under a new parent (omit --parent for root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := types.MoveFolderRequest{ID: id}
			applyParentFlag(cmd, &req.NewParentID)

			folder, err := application.Services.Folder.Move(cmd.Context(), &req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "folder %d moved\n", folder.ID)

			return nil
		},
	}

	folderDeleteCmd = &cobra.Command{
		Use:     "rm <id>",
		Short:   "delete a folder, promoting its children to root",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := application.Services.Folder.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "folder deleted")

			return nil
		},
	}
)

// applyParentFlag 把 --parent 旗标转成可空外键.
func applyParentFlag(cmd *cobra.Command, dst **uint) {
	if cmd.Flags().Changed("parent") && folderParentID > 0 {
		id := folderParentID
		*dst = &id
	}
}

func registerFolderCommands() {
	folderCreateCmd.Flags().String("owner", "", "owner id or email")
	folderCreateCmd.Flags().String("name", "", "folder name")
	folderCreateCmd.Flags().Bool("remote", false, "also create a remote folder marker")
	folderCreateCmd.Flags().UintVar(&folderParentID, "parent", 0, "parent folder id")
	folderCreateCmd.Flags().StringVar(&folderTemplate, "template", "", "request template file")

	folderListCmd.Flags().String("owner", "", "owner id or email")
	folderListCmd.Flags().StringVar(&folderTemplate, "template", "", "request template file")

	folderMoveCmd.Flags().UintVar(&folderParentID, "parent", 0, "new parent folder id")

	folderCmd.AddCommand(folderCreateCmd, folderListCmd, folderRenameCmd,
		folderMoveCmd, folderDeleteCmd)
	rootCmd.AddCommand(folderCmd)
}
