// Package cmd 实现 docvault 的命令行界面.
package cmd

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/app"
)

var (
	configPath string
	debug      bool
	jsonOutput bool

	application *app.App

	rootCmd = &cobra.Command{
		Use:   "docvault",
		Short: "docvault manages documents, folders and their remote copies",
		Long: "docvault is a document vault CLI: relational metadata, " +
			"S3-compatible remote storage, encrypted credentials, audit log " +
			"and content-hash based synchronization.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error

			application, err = app.NewApp(cmd.Context(), configPath)

			return err
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose config debugging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")

	registerUserCommands()
	registerDocumentCommands()
	registerFolderCommands()
	registerCredentialCommands()
	registerActivityCommands()
	registerSyncCommands()
	registerStatsCommands()
	registerConfigsCommands()
	registerDBCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// printResult 输出命令结果：--json 时 sonic 编码，否则调用 human 渲染.
func printResult(cmd *cobra.Command, v any, human func()) error {
	if jsonOutput {
		b, err := sonic.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))

		return nil
	}

	human()

	return nil
}

// writeFile 下载结果落盘.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
