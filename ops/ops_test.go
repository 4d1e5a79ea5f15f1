package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
)

func apply(t *testing.T, source string, lang cst.Language, op Operation) string {
	t.Helper()
	tree, err := cst.Parse([]byte(source), lang)
	require.NoError(t, err)
	defer tree.Close()

	edits, err := Execute(tree, op)
	require.NoError(t, err)

	set, err := edit.FromEdits(edits)
	require.NoError(t, err)
	return set.Apply(source)
}

func TestRenameSymbol(t *testing.T) {
	source := "const foo = 1;\nconsole.log(foo);\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:         RenameSymbol,
		RenameSymbol: &RenameSymbolParams{From: "foo", To: "bar"},
	})
	assert.Equal(t, "const bar = 1;\nconsole.log(bar);\n", out)
}

func TestRenameSymbolExcludesStringsAndComments(t *testing.T) {
	source := "const foo = 1; // foo is used here\nconst s = 'foo';\nconsole.log(foo);\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:         RenameSymbol,
		RenameSymbol: &RenameSymbolParams{From: "foo", To: "bar"},
	})
	assert.Contains(t, out, "// foo is used here")
	assert.Contains(t, out, "'foo'")
	assert.Contains(t, out, "const bar = 1;")
	assert.Contains(t, out, "console.log(bar);")
}

func TestRenameSymbolNotFound(t *testing.T) {
	tree, err := cst.Parse([]byte("const x = 1;\n"), cst.TypeScript)
	require.NoError(t, err)
	defer tree.Close()

	_, err = Execute(tree, Operation{
		Kind:         RenameSymbol,
		RenameSymbol: &RenameSymbolParams{From: "nonexistent", To: "y"},
	})
	require.Error(t, err)
	opErr, ok := err.(*OpError)
	require.True(t, ok)
	assert.Equal(t, ErrSymbolNotFound, opErr.Code)
}

func TestAddImportMergesIntoExisting(t *testing.T) {
	source := "import { useState } from 'react';\n\nconst App = () => {};\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:      AddImport,
		AddImport: &AddImportParams{Source: "react", Specifiers: []string{"useEffect"}},
	})
	assert.Contains(t, out, "useState")
	assert.Contains(t, out, "useEffect")
	assert.Equal(t, 1, countOccurrences(out, "from 'react'"))
}

func TestAddImportIsIdempotent(t *testing.T) {
	tree, err := cst.Parse([]byte("import { useState } from 'react';\n"), cst.TypeScript)
	require.NoError(t, err)
	defer tree.Close()

	edits, err := Execute(tree, Operation{
		Kind:      AddImport,
		AddImport: &AddImportParams{Source: "react", Specifiers: []string{"useState"}},
	})
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestAddImportInsertsNewDeclaration(t *testing.T) {
	source := "const x = 1;\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:      AddImport,
		AddImport: &AddImportParams{Source: "lodash", DefaultImport: "_"},
	})
	assert.Contains(t, out, "import _ from 'lodash';")
}

func TestRemoveImportWholeDeclaration(t *testing.T) {
	source := "import { useState } from 'react';\nconst x = 1;\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:         RemoveImport,
		RemoveImport: &RemoveImportParams{Source: "react"},
	})
	assert.NotContains(t, out, "react")
	assert.Contains(t, out, "const x = 1;")
}

func TestRemoveImportSpecifierLeavesOthers(t *testing.T) {
	source := "import { useState, useEffect } from 'react';\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:         RemoveImport,
		RemoveImport: &RemoveImportParams{Source: "react", Specifiers: []string{"useEffect"}},
	})
	assert.Contains(t, out, "useState")
	assert.NotContains(t, out, "useEffect")
}

func TestUpdateImportPathsExactMatch(t *testing.T) {
	source := "import { x } from './old';\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:              UpdateImportPaths,
		UpdateImportPaths: &UpdateImportPathsParams{OldPath: "./old", NewPath: "./new", MatchMode: "exact"},
	})
	assert.Contains(t, out, "'./new'")
	assert.NotContains(t, out, "'./old'")
}

func TestUpdateImportPathsPrefixMatch(t *testing.T) {
	source := "import { x } from '@app/old/thing';\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:              UpdateImportPaths,
		UpdateImportPaths: &UpdateImportPathsParams{OldPath: "@app/old", NewPath: "@app/new", MatchMode: "prefix"},
	})
	assert.Contains(t, out, "'@app/new/thing'")
}

func TestAddParameterFirstAndLast(t *testing.T) {
	source := "function f(a, b) {}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind:         AddParameter,
		AddParameter: &AddParameterParams{FunctionName: "f", ParamName: "z", Position: "first"},
	})
	assert.Contains(t, out, "function f(z, a, b) {}")

	out = apply(t, source, cst.JavaScript, Operation{
		Kind:         AddParameter,
		AddParameter: &AddParameterParams{FunctionName: "f", ParamName: "z", Position: "last"},
	})
	assert.Contains(t, out, "function f(a, b, z) {}")
}

func TestAddParameterIntoEmptyList(t *testing.T) {
	source := "function f() {}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind:         AddParameter,
		AddParameter: &AddParameterParams{FunctionName: "f", ParamName: "only", Position: "first"},
	})
	assert.Contains(t, out, "function f(only) {}")
}

func TestAddParameterWithTypeAndDefault(t *testing.T) {
	source := "function f(a) {}\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind: AddParameter,
		AddParameter: &AddParameterParams{
			FunctionName: "f", ParamName: "b", ParamType: "number", DefaultValue: "0", Position: "last",
		},
	})
	assert.Contains(t, out, "function f(a, b: number = 0) {}")
}

func TestRemoveParameterMiddle(t *testing.T) {
	source := "function f(a, b, c) {}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind:            RemoveParameter,
		RemoveParameter: &RemoveParameterParams{FunctionName: "f", ParamName: "b"},
	})
	assert.Contains(t, out, "function f(a, c) {}")
}

func TestRemoveParameterOnlyOne(t *testing.T) {
	source := "function f(a) {}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind:            RemoveParameter,
		RemoveParameter: &RemoveParameterParams{FunctionName: "f", ParamName: "a"},
	})
	assert.Contains(t, out, "function f() {}")
}

func TestMakeAsyncInsertsKeyword(t *testing.T) {
	source := "function fetchData(url) { return fetch(url); }\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind:      MakeAsync,
		MakeAsync: &MakeAsyncParams{FunctionName: "fetchData"},
	})
	assert.Contains(t, out, "async function fetchData(url)")
}

func TestMakeAsyncIsIdempotent(t *testing.T) {
	tree, err := cst.Parse([]byte("async function f() {}\n"), cst.JavaScript)
	require.NoError(t, err)
	defer tree.Close()

	edits, err := Execute(tree, Operation{Kind: MakeAsync, MakeAsync: &MakeAsyncParams{FunctionName: "f"}})
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestMakeAsyncLeavesReturnTypeUntouched(t *testing.T) {
	source := "function f(): string { return ''; }\n"
	out := apply(t, source, cst.TypeScript, Operation{
		Kind:      MakeAsync,
		MakeAsync: &MakeAsyncParams{FunctionName: "f"},
	})
	assert.Contains(t, out, "async function f(): string")
}

func TestWrapInBlockIf(t *testing.T) {
	source := "function f() {\n  doThing();\n}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind: WrapInBlock,
		WrapInBlock: &WrapInBlockParams{
			StartLine: 2, EndLine: 2, WrapKind: "if", Condition: "ready",
		},
	})
	assert.Contains(t, out, "if (ready) {\n    doThing();\n  }")
}

func TestWrapInBlockTryCatch(t *testing.T) {
	source := "function f() {\n  risky();\n}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind: WrapInBlock,
		WrapInBlock: &WrapInBlockParams{
			StartLine: 2, EndLine: 2, WrapKind: "try_catch", Condition: "err",
		},
	})
	assert.Contains(t, out, "try {\n    risky();\n  } catch (err) {")
}

func TestWrapInBlockAcceptsSingleStatementLine(t *testing.T) {
	source := "function f() {\n  a();\n  b();\n}\n"
	tree, err := cst.Parse([]byte(source), cst.JavaScript)
	require.NoError(t, err)
	defer tree.Close()

	_, err = Execute(tree, Operation{
		Kind: WrapInBlock,
		WrapInBlock: &WrapInBlockParams{
			StartLine: 2, EndLine: 2, WrapKind: "if", Condition: "x",
		},
	})
	require.NoError(t, err) // line 2 alone ("a();") is a whole statement, should succeed
}

func TestExtractToVariable(t *testing.T) {
	source := "function f() {\n  return a.b.c + a.b.c;\n}\n"
	out := apply(t, source, cst.JavaScript, Operation{
		Kind: ExtractToVariable,
		ExtractToVariable: &ExtractToVariableParams{
			Expression: "a.b.c", VariableName: "val", VarKind: "const",
		},
	})
	assert.Contains(t, out, "const val = a.b.c;")
	assert.Contains(t, out, "return val + val;")
}

func TestExtractToVariableNotFound(t *testing.T) {
	tree, err := cst.Parse([]byte("function f() { return 1; }\n"), cst.JavaScript)
	require.NoError(t, err)
	defer tree.Close()

	_, err = Execute(tree, Operation{
		Kind: ExtractToVariable,
		ExtractToVariable: &ExtractToVariableParams{
			Expression: "nope.here", VariableName: "x", VarKind: "const",
		},
	})
	require.Error(t, err)
	opErr, ok := err.(*OpError)
	require.True(t, ok)
	assert.Equal(t, ErrSymbolNotFound, opErr.Code)
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}
