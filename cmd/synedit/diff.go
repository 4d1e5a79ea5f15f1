package main

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/synedit/engine"
	"github.com/oxhq/synedit/protocol"
)

func newDiffCommand() *cobra.Command {
	var (
		opsPath  string
		language string
	)

	cmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Preview a unified diff of applying operations, without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			operations, err := loadOperations(opsPath)
			if err != nil {
				return err
			}
			lang, err := detectLanguage(path, language)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			resp := engine.ProcessFile(protocol.Request{
				Content:    string(content),
				Language:   lang,
				Operations: operations,
			})
			if resp.Error {
				return reportOperationErrors(path, resp.OperationErrors)
			}
			if resp.Content == nil {
				fmt.Println("no changes")
				return nil
			}

			diff := difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(content)),
				B:        difflib.SplitLines(*resp.Content),
				FromFile: path,
				ToFile:   path,
				Context:  3,
			}
			text, err := difflib.GetUnifiedDiffString(diff)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&opsPath, "ops", "", "path to a JSON file holding the operations array (required)")
	cmd.Flags().StringVar(&language, "language", "", "override language detection")
	cmd.MarkFlagRequired("ops")

	return cmd
}
