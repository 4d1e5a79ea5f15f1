package ops

import (
	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
)

// RenameSymbolParams are the parameters of rename_symbol (spec.md §4.5).
type RenameSymbolParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Scope string `json:"scope,omitempty"`
}

func execRenameSymbol(tree *cst.Tree, index int, p *RenameSymbolParams) ([]edit.TextEdit, error) {
	if p.From == "" || p.To == "" {
		return nil, newOpError(ErrInvalidParams, "rename_symbol requires from and to")
	}

	startByte, endByte := 0, len(tree.Source)
	if p.Scope != "" {
		scopeNode, err := resolveScope(tree, p.Scope)
		if err != nil {
			return nil, err
		}
		startByte = int(scopeNode.StartByte())
		endByte = int(scopeNode.EndByte())
	}

	matches := cst.Query(tree, "identifier", p.From)
	var edits []edit.TextEdit
	for _, m := range matches {
		start, end := int(m.Node.StartByte()), int(m.Node.EndByte())
		if start < startByte || end > endByte {
			continue
		}
		if cst.IsStringOrComment(tree.Lang, m.Node) {
			continue
		}
		edits = append(edits, edit.NewTextEdit(start, end, p.To, "rename_symbol", 0, index))
	}

	if len(edits) == 0 {
		return nil, newOpError(ErrSymbolNotFound, "no identifier %q found", p.From)
	}
	return edits, nil
}

// resolveScope finds the unique enclosing declaration named scopeName
// (function, method, or class), per spec.md §9's stipulated resolution.
func resolveScope(tree *cst.Tree, scopeName string) (*cst.Node, error) {
	var candidates []cst.Match
	for _, qt := range []string{"function", "class"} {
		candidates = append(candidates, cst.Query(tree, qt, scopeName)...)
	}

	if len(candidates) == 0 {
		return nil, newOpError(ErrSymbolNotFound, "no scope named %q found", scopeName)
	}

	// Drop candidates nested inside another candidate to avoid counting an
	// enclosing declaration and a member declaration with the same name as
	// two distinct scopes unless they are genuinely siblings.
	unique := dedupeAncestors(candidates)
	if len(unique) > 1 {
		return nil, newOpError(ErrAmbiguousMatch, "multiple scopes named %q found", scopeName)
	}
	return unique[0].Node, nil
}

func dedupeAncestors(matches []cst.Match) []cst.Match {
	var result []cst.Match
	for _, m := range matches {
		nested := false
		for _, other := range matches {
			if other.Node == m.Node {
				continue
			}
			if int(other.Node.StartByte()) <= int(m.Node.StartByte()) && int(other.Node.EndByte()) >= int(m.Node.EndByte()) && other.Node != m.Node {
				nested = true
				break
			}
		}
		if !nested {
			result = append(result, m)
		}
	}
	if len(result) == 0 {
		return matches
	}
	return result
}
