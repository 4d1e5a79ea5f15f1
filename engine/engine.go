// Package engine implements the Orchestrator and Validator: the pipeline
// that turns a protocol.Request into a protocol.Response by driving the
// cst, edit and ops packages end to end (spec.md §4.6, §4.8).
package engine

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
	"github.com/oxhq/synedit/ops"
	"github.com/oxhq/synedit/protocol"
)

// diffWarningThreshold is the edit count above which the orchestrator
// attaches a unified diff to the response's warnings, so a caller applying
// a large mechanical change gets a human-reviewable summary rather than a
// silent big diff.
const diffWarningThreshold = 20

func langFromString(s string) (cst.Language, bool) {
	lang := cst.Language(s)
	return lang, cst.Supported(lang)
}

// ProcessFile runs the full pipeline for a single file (spec.md §4.8).
func ProcessFile(req protocol.Request) protocol.Response {
	lang, ok := langFromString(req.Language)
	if !ok {
		return requestError(protocol.ErrUnsupportedLanguage, "unsupported language %q", req.Language)
	}

	tree, err := cst.Parse([]byte(req.Content), lang)
	if err != nil {
		return requestError(protocol.ErrInvalidResult, "parse failed: %v", err)
	}
	defer tree.Close()

	if tree.HasErrors() {
		return requestError(protocol.ErrSourceHasErrors, "source already contains parse errors")
	}

	edits, opErr := runOperations(tree, req.Operations)
	if opErr != nil {
		return protocol.Response{
			Error:           true,
			Content:         nil,
			Changes:         []protocol.Change{},
			Warnings:        []string{},
			OperationErrors: []protocol.OpError{*opErr},
			Status:          protocol.StatusError,
		}
	}

	editSet, err := edit.FromEdits(edits)
	if err != nil {
		conflict := err.(*edit.Conflict)
		return requestError(protocol.ErrEditConflict, "operations %d and %d produced overlapping edits", conflict.AIndex, conflict.BIndex)
	}

	output := editSet.Apply(req.Content)

	outTree, err := cst.Parse([]byte(output), lang)
	if err != nil {
		return requestError(protocol.ErrInvalidResult, "re-parse failed: %v", err)
	}
	defer outTree.Close()
	if outTree.HasErrors() {
		return requestError(protocol.ErrInvalidResult, "candidate output failed to re-parse cleanly")
	}

	changes := changesFromEdits(req.Content, editSet.Edits())
	editCount := len(changes)

	var warnings []string
	if editCount > diffWarningThreshold {
		warnings = append(warnings, unifiedDiff(req.Content, output))
	}

	resp := protocol.Response{
		Error:           false,
		Changes:         changes,
		Warnings:        warnings,
		OperationErrors: []protocol.OpError{},
		EditCount:       &editCount,
	}
	if req.DryRun {
		resp.Content = nil
		resp.Status = protocol.StatusPreview
	} else {
		resp.Content = &output
		resp.Status = protocol.StatusApplied
	}
	return resp
}

// ProcessBatch runs ProcessFile independently over every file, per spec.md
// §5's "results of one file never influence another" guarantee.
func ProcessBatch(req protocol.BatchRequest) protocol.BatchResponse {
	var results []protocol.FileResult
	var errs []protocol.FileError
	totalEdits := 0

	for _, f := range req.Files {
		single := ProcessFile(protocol.Request{
			Content:    f.Content,
			Language:   f.Language,
			Operations: f.Operations,
			DryRun:     req.DryRun,
		})

		if single.Error {
			code, msg := firstErrorCode(single)
			errs = append(errs, protocol.FileError{Path: f.Path, Error: msg, Code: string(code)})
			continue
		}

		edits := 0
		if single.EditCount != nil {
			edits = *single.EditCount
		}
		totalEdits += edits
		results = append(results, protocol.FileResult{
			Path:         f.Path,
			Content:      single.Content,
			Changes:      single.Changes,
			Warnings:     single.Warnings,
			EditsApplied: edits,
		})
	}

	return protocol.BatchResponse{
		Results:    results,
		Errors:     errs,
		TotalEdits: totalEdits,
		Status:     batchStatus(req.DryRun, len(results), len(errs)),
	}
}

func batchStatus(dryRun bool, succeeded, failed int) protocol.Status {
	switch {
	case failed > 0 && succeeded > 0:
		return protocol.StatusPartial
	case failed > 0:
		return protocol.StatusError
	case dryRun:
		return protocol.StatusPreview
	default:
		return protocol.StatusApplied
	}
}

func firstErrorCode(resp protocol.Response) (protocol.ErrorCode, string) {
	if len(resp.OperationErrors) > 0 {
		return resp.OperationErrors[0].Code, resp.OperationErrors[0].Message
	}
	return protocol.ErrInvalidParams, "unknown error"
}

// runOperations invokes every executor in request order against the same
// original tree, stopping at the first operation-scoped error (spec.md §7:
// "the first per-operation error aborts edit computation for the file").
func runOperations(tree *cst.Tree, operations []ops.Operation) ([]edit.TextEdit, *protocol.OpError) {
	var edits []edit.TextEdit
	for i, op := range operations {
		op.Index = i
		produced, err := ops.Execute(tree, op)
		if err != nil {
			if oe, ok := err.(*ops.OpError); ok {
				code := protocol.FromOpCode(oe.Code)
				return nil, &protocol.OpError{OperationIndex: i, Code: code, Message: oe.Message}
			}
			return nil, &protocol.OpError{OperationIndex: i, Code: protocol.ErrInvalidParams, Message: err.Error()}
		}
		edits = append(edits, produced...)
	}
	return edits, nil
}

func requestError(code protocol.ErrorCode, format string, args ...any) protocol.Response {
	msg := fmt.Sprintf(format, args...)
	return protocol.Response{
		Error:           true,
		Content:         nil,
		Changes:         []protocol.Change{},
		Warnings:        []string{},
		OperationErrors: []protocol.OpError{{OperationIndex: -1, Code: code, Message: msg}},
		Status:          protocol.StatusError,
	}
}

// changesFromEdits reports one Change per edit, positioned against the
// original (pre-edit) source so line/column reflect where the edit
// originated, not where it landed.
func changesFromEdits(source string, edits []edit.TextEdit) []protocol.Change {
	changes := make([]protocol.Change, 0, len(edits))
	for _, e := range edits {
		line, col := lineColumn(source, e.Start)
		changes = append(changes, protocol.Change{
			Kind:    e.Label,
			Line:    line,
			Column:  col,
			Summary: summarize(e),
		})
	}
	return changes
}

func lineColumn(source string, offset int) (line, column int) {
	if offset > len(source) {
		offset = len(source)
	}
	line = 1 + strings.Count(source[:offset], "\n")
	lastNewline := strings.LastIndexByte(source[:offset], '\n')
	column = offset - lastNewline
	return line, column
}

func summarize(e edit.TextEdit) string {
	replacement := strings.SplitN(e.Replacement, "\n", 2)[0]
	if e.IsInsertion() {
		return e.Label + ": insert " + truncate(replacement, 60)
	}
	return e.Label + ": replace with " + truncate(replacement, 60)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func unifiedDiff(before, after string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "diff unavailable: " + err.Error()
	}
	return text
}
