package cst

import (
	"context"
	"fmt"
	"sync/atomic"

	sitter "github.com/smacker/go-tree-sitter"
)

// Node is a concrete syntax tree node. It is tree-sitter's own node handle:
// tree-sitter already holds its nodes in a flat, index-addressed arena, so a
// second arena on top of it would only duplicate bookkeeping (see SPEC_FULL.md).
type Node = sitter.Node

// Tree is a CST produced by parsing one source file. It is request-scoped:
// callers must call Close when done with it.
type Tree struct {
	Lang     Language
	Source   []byte
	sitter   *sitter.Tree
	hasError bool
}

// Stats counts parses and parser-pool activity performed by this package.
// Apart from the parser pools in pool.go, it is the only package-level
// mutable state the adapter holds, and it never influences parsing behavior — purely an observability counter
// (SPEC_FULL.md §10, grounded in providers.Stats / providers/base/cache.go's
// atomic hit counters).
var Stats struct {
	Parses      atomic.Int64
	ParseErrors atomic.Int64
	Borrowed    atomic.Int64
	Returned    atomic.Int64
}

// Parse parses source under lang. Parsing is total: it never returns an
// error for malformed input. A non-nil error here means lang itself is
// unsupported or the grammar failed to initialize — a engine-level defect,
// not a reflection of the input's validity.
func Parse(source []byte, lang Language) (*Tree, error) {
	def, ok := registry[lang]
	if !ok {
		return nil, fmt.Errorf("cst: unsupported language %q", lang)
	}

	parser := borrowParser(lang, def.grammar)
	defer releaseParser(lang, def.grammar, parser)

	sitterTree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || sitterTree == nil {
		return nil, fmt.Errorf("cst: parse failed for %s: %w", lang, err)
	}
	Stats.Parses.Add(1)

	t := &Tree{Lang: lang, Source: source, sitter: sitterTree}
	t.hasError = hasErrorNode(sitterTree.RootNode())
	if t.hasError {
		Stats.ParseErrors.Add(1)
	}
	return t, nil
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node {
	return t.sitter.RootNode()
}

// HasErrors reports whether any ERROR or MISSING node exists in the tree,
// distinct from a query simply finding no match.
func (t *Tree) HasErrors() bool {
	return t.hasError
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.sitter != nil {
		t.sitter.Close()
	}
}

func hasErrorNode(n *Node) bool {
	if n.IsError() || n.IsMissing() {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if hasErrorNode(n.Child(i)) {
			return true
		}
	}
	return false
}

// Text returns the exact byte slice of node n within source.
func Text(n *Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// NearestAncestor walks parent links from n (exclusive) and returns the
// first ancestor whose Type() is in kinds, or nil.
func NearestAncestor(n *Node, kinds ...string) *Node {
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := set[p.Type()]; ok {
			return p
		}
	}
	return nil
}

// Walk invokes fn for n and every descendant, in pre-order.
func Walk(n *Node, fn func(*Node)) {
	fn(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), fn)
	}
}

// EnclosingStatement returns the nearest ancestor that represents a
// statement-list member (the unit wrap_in_block and extract_to_variable
// insert relative to). A node that is itself a top-level statement, or that
// has no parent at all, is returned as is.
func EnclosingStatement(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		parent := cur.Parent()
		if parent == nil {
			return cur
		}
		switch parent.Type() {
		case "statement_block", "program", "class_body", "switch_body":
			return cur
		}
	}
	return n
}
