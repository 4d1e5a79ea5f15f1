package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/engine"
	"github.com/oxhq/synedit/ops"
	"github.com/oxhq/synedit/protocol"
)

func newApplyCommand() *cobra.Command {
	var (
		glob     string
		opsPath  string
		dryRun   bool
		language string
	)

	cmd := &cobra.Command{
		Use:   "apply [files...]",
		Short: "Apply a set of operations to one or more source files",
		RunE: func(cmd *cobra.Command, args []string) error {
			operations, err := loadOperations(opsPath)
			if err != nil {
				return err
			}

			paths := args
			if glob != "" {
				matched, err := expandGlob(glob)
				if err != nil {
					return fmt.Errorf("expanding glob %q: %w", glob, err)
				}
				paths = append(paths, matched...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files given: pass paths or --glob")
			}

			if len(paths) == 1 {
				return applySingle(paths[0], language, operations, dryRun)
			}
			return applyBatch(paths, language, operations, dryRun)
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", "doublestar glob pattern to discover files (e.g. 'src/**/*.ts')")
	cmd.Flags().StringVar(&opsPath, "ops", "", "path to a JSON file holding the operations array (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview changes without writing them back")
	cmd.Flags().StringVar(&language, "language", "", "override language detection (typescript, tsx, javascript, jsx, css)")
	cmd.MarkFlagRequired("ops")

	return cmd
}

func loadOperations(path string) ([]ops.Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading operations file: %w", err)
	}
	var operations []ops.Operation
	if err := json.Unmarshal(data, &operations); err != nil {
		return nil, fmt.Errorf("parsing operations file: %w", err)
	}
	return operations, nil
}

func expandGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func detectLanguage(path, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	ext := filepath.Ext(path)
	for _, lang := range cst.Languages() {
		for _, candidate := range cst.Extensions(lang) {
			if candidate == ext {
				return string(lang), nil
			}
		}
	}
	return "", fmt.Errorf("cannot infer language for %s: pass --language", path)
}

func applySingle(path, languageOverride string, operations []ops.Operation, dryRun bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	language, err := detectLanguage(path, languageOverride)
	if err != nil {
		return err
	}

	resp := engine.ProcessFile(protocol.Request{
		Content:    string(content),
		Language:   language,
		Operations: operations,
		DryRun:     dryRun,
	})

	if resp.Error {
		return reportOperationErrors(path, resp.OperationErrors)
	}

	printChanges(path, resp.Changes)
	for _, w := range resp.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	if dryRun || resp.Content == nil {
		fmt.Printf("%s: %d change(s) previewed, nothing written\n", path, len(resp.Changes))
		return nil
	}
	if err := os.WriteFile(path, []byte(*resp.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("%s: %d change(s) applied\n", path, len(resp.Changes))
	return nil
}

func applyBatch(paths []string, languageOverride string, operations []ops.Operation, dryRun bool) error {
	var files []protocol.BatchFile
	contents := make(map[string][]byte, len(paths))

	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		language, err := detectLanguage(p, languageOverride)
		if err != nil {
			return err
		}
		contents[p] = content
		files = append(files, protocol.BatchFile{
			Path:       p,
			Content:    string(content),
			Language:   language,
			Operations: operations,
		})
	}

	resp := engine.ProcessBatch(protocol.BatchRequest{Files: files, DryRun: dryRun})

	for _, r := range resp.Results {
		printChanges(r.Path, r.Changes)
		if !dryRun && r.Content != nil {
			if err := os.WriteFile(r.Path, []byte(*r.Content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", r.Path, err)
			}
		}
		fmt.Printf("%s: %d change(s)\n", r.Path, r.EditsApplied)
	}
	for _, e := range resp.Errors {
		fmt.Fprintf(os.Stderr, "%s: %s (%s)\n", e.Path, e.Error, e.Code)
	}

	fmt.Printf("batch status: %s, total edits: %d\n", resp.Status, resp.TotalEdits)
	if resp.Status == protocol.StatusError {
		return fmt.Errorf("all files failed")
	}
	return nil
}

func printChanges(path string, changes []protocol.Change) {
	for _, c := range changes {
		fmt.Printf("  %s:%d:%d %s — %s\n", path, c.Line, c.Column, c.Kind, c.Summary)
	}
}

func reportOperationErrors(path string, errs []protocol.OpError) error {
	var sb strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&sb, "%s: operation %d failed [%s]: %s\n", path, e.OperationIndex, e.Code, e.Message)
	}
	return fmt.Errorf("%s", sb.String())
}
