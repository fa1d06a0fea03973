package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

var (
	docTemplate string
	docFolderID uint

	docCmd = &cobra.Command{
		Use:     "document",
		Short:   "manage documents",
		Aliases: []string{"doc"},
	}

	docAddCmd = &cobra.Command{
		Use:   "add",
		Short: "create a document, optionally uploading a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.CreateDocumentRequest
			if err := loadRequest(cmd, docTemplate, &req); err != nil {
				return err
			}

			applyFolderFlag(cmd, &req.FolderID)

			if req.Name == "" && req.FilePath != "" {
				req.Name = filepath.Base(req.FilePath)
			}

			if err := validate(&req); err != nil {
				return err
			}

			var doc *model.Document

			if req.FilePath != "" {
				f, err := os.Open(req.FilePath)
				if err != nil {
					return fmt.Errorf("open %s: %w", req.FilePath, err)
				}
				defer f.Close()

				doc, err = application.Services.Document.Create(cmd.Context(), &req, f)
				if err != nil {
					return err
				}
			} else {
				var err error

				doc, err = application.Services.Document.Create(cmd.Context(), &req, nil)
				if err != nil {
					return err
				}
			}

			return printResult(cmd, doc, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "document %d created (%s)\n", doc.ID, doc.Name)
			})
		},
	}

	docListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list documents of an owner",
		Aliases: []string{"list", "l"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.ListDocumentsRequest
			if err := loadRequest(cmd, docTemplate, &req); err != nil {
				return err
			}

			applyFolderFlag(cmd, &req.FolderID)

			if err := validate(&req); err != nil {
				return err
			}

			docs, err := application.Services.Document.List(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, docs, func() {
				for _, d := range docs {
					marker := " "
					if d.Favorite {
						marker = "*"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s %d\t%s\t%s\t%d\t%s\n",
						marker, d.ID, d.Name, d.Type, d.Size, strings.Join(d.TagList(), ","))
				}
			})
		},
	}

	docGetCmd = &cobra.Command{
		Use:   "get <id>",
		Short: "show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			doc, err := application.Services.Document.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printResult(cmd, doc, func() {
				fmt.Fprintf(cmd.OutOrStdout(),
					"id:     %d\nname:   %s\ntype:   %s\nsize:   %d\nhash:   %s\nremote: %s\ntags:   %s\n",
					doc.ID, doc.Name, doc.Type, doc.Size, doc.Hash, doc.RemoteRef,
					strings.Join(doc.TagList(), ","))
			})
		},
	}

	docUpdateCmd = &cobra.Command{
		Use:   "update",
		Short: "update document metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.UpdateDocumentRequest
			if err := loadRequest(cmd, docTemplate, &req); err != nil {
				return err
			}

			applyFolderFlag(cmd, &req.FolderID)

			if err := validate(&req); err != nil {
				return err
			}

			doc, err := application.Services.Document.Update(cmd.Context(), &req)
			if err != nil {
				return err
			}

			return printResult(cmd, doc, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "document %d updated\n", doc.ID)
			})
		},
	}

	docDeleteCmd = &cobra.Command{
		Use:     "rm <id>",
		Short:   "delete a document (remote copy best effort)",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			scope, _ := cmd.Flags().GetString("scope")

			if err := application.Services.Document.Delete(cmd.Context(), &types.DeleteDocumentRequest{
				ID:             id,
				ScopeFolderRef: scope,
			}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "document deleted")

			return nil
		},
	}

	docFavCmd = &cobra.Command{
		Use:   "fav <id>",
		Short: "toggle the favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			fav, err := application.Services.Document.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "favorite=%t\n", fav)

			return nil
		},
	}

	docDownloadCmd = &cobra.Command{
		Use:   "download <id>",
		Short: "download the remote copy to a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			data, doc, err := application.Services.Document.Download(cmd.Context(), id)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = doc.Name
			}

			if err := writeFile(out, data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", out, len(data))

			return nil
		},
	}
)

// applyFolderFlag 把 --folder 旗标转成可空外键；0 不是合法文件夹 id.
func applyFolderFlag(cmd *cobra.Command, dst **uint) {
	if cmd.Flags().Changed("folder") && docFolderID > 0 {
		id := docFolderID
		*dst = &id
	}
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}

	return uint(id), nil
}

func registerDocumentCommands() {
	docAddCmd.Flags().String("owner", "", "owner id or email")
	docAddCmd.Flags().String("name", "", "document name")
	docAddCmd.Flags().String("file", "", "local file to upload")
	docAddCmd.Flags().String("description", "", "description")
	docAddCmd.Flags().StringSlice("tags", nil, "tags")
	docAddCmd.Flags().UintVar(&docFolderID, "folder", 0, "folder id")
	docAddCmd.Flags().StringVar(&docTemplate, "template", "", "request template file")

	docListCmd.Flags().String("owner", "", "owner id or email")
	docListCmd.Flags().Bool("favorite_only", false, "favorites only")
	docListCmd.Flags().Int("limit", 0, "max rows")
	docListCmd.Flags().UintVar(&docFolderID, "folder", 0, "folder id")
	docListCmd.Flags().StringVar(&docTemplate, "template", "", "request template file")

	docUpdateCmd.Flags().Uint("id", 0, "document id")
	docUpdateCmd.Flags().String("name", "", "new name")
	docUpdateCmd.Flags().String("description", "", "new description")
	docUpdateCmd.Flags().StringSlice("tags", nil, "tags to merge")
	docUpdateCmd.Flags().UintVar(&docFolderID, "folder", 0, "folder id")
	docUpdateCmd.Flags().StringVar(&docTemplate, "template", "", "request template file")

	docDeleteCmd.Flags().String("scope", "", "remote search scope folder")
	docDownloadCmd.Flags().String("out", "", "output path (default: document name)")

	docCmd.AddCommand(docAddCmd, docListCmd, docGetCmd, docUpdateCmd,
		docDeleteCmd, docFavCmd, docDownloadCmd)
	rootCmd.AddCommand(docCmd)
}
