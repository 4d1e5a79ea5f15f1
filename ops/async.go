package ops

import (
	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
)

// MakeAsyncParams are the parameters of make_async (spec.md §4.5).
type MakeAsyncParams struct {
	FunctionName string `json:"function_name"`
}

// execMakeAsync inserts the async keyword and nothing else. spec.md §4.5 and
// §9 disagree on whether an existing non-Promise return-type annotation
// should be rewritten; §9 resolves it as the conservative reading ("left
// alone rather than guessing the wrapped form, to avoid introducing a
// potentially incorrect type"), so return types are never touched here
// (see DESIGN.md).
func execMakeAsync(tree *cst.Tree, index int, p *MakeAsyncParams) ([]edit.TextEdit, error) {
	if p.FunctionName == "" {
		return nil, newOpError(ErrInvalidParams, "make_async requires function_name")
	}

	fn, err := findFunction(tree, p.FunctionName)
	if err != nil {
		return nil, err
	}

	if functionIsAsync(fn) {
		return nil, nil // idempotent no-op
	}

	point := asyncInsertionPoint(fn)
	return []edit.TextEdit{
		edit.NewTextEdit(point, point, "async ", "make_async", 0, index),
	}, nil
}

func functionIsAsync(fn *cst.Node) bool {
	for i := 0; i < int(fn.ChildCount()); i++ {
		if fn.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

// asyncInsertionPoint finds the byte offset where the "async " keyword
// belongs: right after any leading modifier keywords (static, get, set) on
// a method_definition, or at the start of the node otherwise.
func asyncInsertionPoint(fn *cst.Node) int {
	if fn.Type() != "method_definition" {
		return int(fn.StartByte())
	}
	insert := int(fn.StartByte())
	for i := 0; i < int(fn.ChildCount()); i++ {
		c := fn.Child(i)
		switch c.Type() {
		case "static", "get", "set", "readonly", "accessibility_modifier", "override_modifier":
			insert = int(c.EndByte()) + 1 // skip the separating space
		default:
			return insert
		}
	}
	return insert
}
