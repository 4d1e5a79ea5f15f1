package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/synedit/ops"
	"github.com/oxhq/synedit/protocol"
)

// TestRenameIdentifierTypeScript is spec.md §8 scenario S1.
func TestRenameIdentifierTypeScript(t *testing.T) {
	resp := ProcessFile(protocol.Request{
		Content:  "const foo = 1;\nconsole.log(foo);\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "foo", To: "bar"}},
		},
	})

	require.False(t, resp.Error)
	require.Equal(t, protocol.StatusApplied, resp.Status)
	require.NotNil(t, resp.Content)
	assert.Equal(t, "const bar = 1;\nconsole.log(bar);\n", *resp.Content)
	require.Len(t, resp.Changes, 2)
	assert.Equal(t, 1, resp.Changes[0].Line)
	assert.Equal(t, 2, resp.Changes[1].Line)
}

// TestMergeIntoExistingImport is spec.md §8 scenario S2.
func TestMergeIntoExistingImport(t *testing.T) {
	resp := ProcessFile(protocol.Request{
		Content:  "import { useState } from 'react';\n\nconst App = () => {};\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.AddImport, AddImport: &ops.AddImportParams{Source: "react", Specifiers: []string{"useEffect"}}},
		},
	})

	require.False(t, resp.Error)
	require.NotNil(t, resp.Content)
	content := *resp.Content
	assert.Equal(t, 1, countOccurrences(content, "from 'react'"))
	assert.Contains(t, content, "useState")
	assert.Contains(t, content, "useEffect")
	assert.NotContains(t, content, `"react"`)
}

// TestDryRunMakeAsync is spec.md §8 scenario S3.
func TestDryRunMakeAsync(t *testing.T) {
	resp := ProcessFile(protocol.Request{
		Content:  "function fetchData(url: string) { return fetch(url); }\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.MakeAsync, MakeAsync: &ops.MakeAsyncParams{FunctionName: "fetchData"}},
		},
		DryRun: true,
	})

	require.False(t, resp.Error)
	assert.Equal(t, protocol.StatusPreview, resp.Status)
	assert.Nil(t, resp.Content)
	require.NotNil(t, resp.EditCount)
	assert.GreaterOrEqual(t, *resp.EditCount, 1)
}

// TestRenameSymbolNotFound is spec.md §8 scenario S4.
func TestRenameSymbolNotFound(t *testing.T) {
	resp := ProcessFile(protocol.Request{
		Content:  "const x = 1;\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "nonexistent", To: "y"}},
		},
	})

	require.True(t, resp.Error)
	assert.Equal(t, protocol.StatusError, resp.Status)
	require.Len(t, resp.OperationErrors, 1)
	assert.Equal(t, protocol.ErrSymbolNotFound, resp.OperationErrors[0].Code)
}

// TestBatchOfTwoFiles is spec.md §8 scenario S5.
func TestBatchOfTwoFiles(t *testing.T) {
	resp := ProcessBatch(protocol.BatchRequest{
		Files: []protocol.BatchFile{
			{
				Path:     "a.tsx",
				Content:  "const count = 0;\nfunction Counter() { return count; }\n",
				Language: "tsx",
				Operations: []ops.Operation{
					{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "count", To: "value"}},
				},
			},
			{
				Path:     "b.ts",
				Content:  "function formatDate(date: Date) { return date.toISOString(); }\n",
				Language: "typescript",
				Operations: []ops.Operation{
					{Kind: ops.MakeAsync, MakeAsync: &ops.MakeAsyncParams{FunctionName: "formatDate"}},
				},
			},
		},
	})

	assert.Equal(t, protocol.StatusApplied, resp.Status)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	require.NotNil(t, first.Content)
	assert.Contains(t, *first.Content, "value")
	assert.NotContains(t, *first.Content, "count")

	second := resp.Results[1]
	require.NotNil(t, second.Content)
	assert.Contains(t, *second.Content, "async")
}

// TestEditConflict is spec.md §8 scenario S6.
func TestEditConflict(t *testing.T) {
	resp := ProcessFile(protocol.Request{
		Content:  "const foo = 1;\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "foo", To: "bar"}},
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "foo", To: "baz"}},
		},
	})

	require.True(t, resp.Error)
	assert.Equal(t, protocol.StatusError, resp.Status)
	require.Len(t, resp.OperationErrors, 1)
	assert.Equal(t, protocol.ErrEditConflict, resp.OperationErrors[0].Code)
}

func TestSourceHasErrorsAborts(t *testing.T) {
	resp := ProcessFile(protocol.Request{
		Content:  "const x = ;;;(",
		Language: "typescript",
	})

	require.True(t, resp.Error)
	require.Len(t, resp.OperationErrors, 1)
	assert.Equal(t, protocol.ErrSourceHasErrors, resp.OperationErrors[0].Code)
}

func TestUnsupportedLanguage(t *testing.T) {
	resp := ProcessFile(protocol.Request{Content: "x", Language: "rust"})

	require.True(t, resp.Error)
	assert.Equal(t, protocol.ErrUnsupportedLanguage, resp.OperationErrors[0].Code)
}

func TestDryRunEditCountMatchesNonDryRunChangeCount(t *testing.T) {
	req := protocol.Request{
		Content:  "const foo = 1;\nconsole.log(foo);\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "foo", To: "bar"}},
		},
	}

	applied := ProcessFile(req)
	req.DryRun = true
	preview := ProcessFile(req)

	require.NotNil(t, preview.EditCount)
	assert.Equal(t, len(applied.Changes), *preview.EditCount)
	assert.Nil(t, preview.Content)
}

func TestBatchIndependenceOnFailure(t *testing.T) {
	makeBatch := func(files []protocol.BatchFile) protocol.BatchResponse {
		return ProcessBatch(protocol.BatchRequest{Files: files})
	}

	good := protocol.BatchFile{
		Path:     "good.ts",
		Content:  "const a = 1;\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "a", To: "b"}},
		},
	}
	bad := protocol.BatchFile{
		Path:     "bad.ts",
		Content:  "const a = 1;\n",
		Language: "typescript",
		Operations: []ops.Operation{
			{Kind: ops.RenameSymbol, RenameSymbol: &ops.RenameSymbolParams{From: "missing", To: "b"}},
		},
	}

	withBoth := makeBatch([]protocol.BatchFile{good, bad})
	withoutBad := makeBatch([]protocol.BatchFile{good})

	require.Len(t, withBoth.Results, 1)
	require.Len(t, withoutBad.Results, 1)
	assert.Equal(t, *withoutBad.Results[0].Content, *withBoth.Results[0].Content)
	assert.Equal(t, protocol.StatusPartial, withBoth.Status)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
