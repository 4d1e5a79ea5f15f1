// Package cst implements the parser adapter: it wraps a tree-sitter grammar
// per supported language and exposes parsing, node navigation and the query
// library used by operation executors.
package cst

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language is one of the five grammars this engine understands.
type Language string

const (
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	JavaScript Language = "javascript"
	JSX        Language = "jsx"
	CSS        Language = "css"
)

type languageDef struct {
	grammar    *sitter.Language
	extensions []string
}

// registry is populated once at init and never mutated afterward, matching
// the "parser grammars... loaded once and treated as immutable shared data"
// requirement.
var registry = map[Language]languageDef{
	TypeScript: {grammar: typescript.GetLanguage(), extensions: []string{".ts", ".d.ts"}},
	TSX:        {grammar: tsx.GetLanguage(), extensions: []string{".tsx"}},
	JavaScript: {grammar: javascript.GetLanguage(), extensions: []string{".js", ".mjs", ".cjs"}},
	JSX:        {grammar: javascript.GetLanguage(), extensions: []string{".jsx"}},
	CSS:        {grammar: css.GetLanguage(), extensions: []string{".css"}},
}

// Supported reports whether lang is one of the five supported grammars.
func Supported(lang Language) bool {
	_, ok := registry[lang]
	return ok
}

// Extensions returns the file extensions conventionally associated with lang.
func Extensions(lang Language) []string {
	return registry[lang].extensions
}

// Languages returns every supported language tag.
func Languages() []Language {
	return []Language{TypeScript, TSX, JavaScript, JSX, CSS}
}
