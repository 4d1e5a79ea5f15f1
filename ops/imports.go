package ops

import (
	"strings"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
	"github.com/oxhq/synedit/format"
)

// AddImportParams are the parameters of add_import (spec.md §4.5).
type AddImportParams struct {
	Source        string   `json:"source"`
	Specifiers    []string `json:"specifiers,omitempty"`
	DefaultImport string   `json:"default_import,omitempty"`
	TypeOnly      bool     `json:"type_only,omitempty"`
}

// RemoveImportParams are the parameters of remove_import.
type RemoveImportParams struct {
	Source     string   `json:"source"`
	Specifiers []string `json:"specifiers,omitempty"`
}

// UpdateImportPathsParams are the parameters of update_import_paths.
type UpdateImportPathsParams struct {
	OldPath   string `json:"old_path"`
	NewPath   string `json:"new_path"`
	MatchMode string `json:"match_mode"` // "exact" | "prefix"
}

func importStatements(tree *cst.Tree) []*cst.Node {
	var nodes []*cst.Node
	cst.Walk(tree.Root(), func(n *cst.Node) {
		if n.Type() == "import_statement" {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

func isTypeOnlyImport(n *cst.Node, source []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(cst.Text(n, source)), "import type ")
}

func importSourceLiteral(n *cst.Node) *cst.Node {
	return n.ChildByFieldName("source")
}

func importSourcePath(n *cst.Node, source []byte) string {
	lit := importSourceLiteral(n)
	if lit == nil {
		return ""
	}
	return strings.Trim(cst.Text(lit, source), `"'`)
}

func namedImportsNode(n *cst.Node) *cst.Node {
	clause := findChildOfType(n, "import_clause")
	if clause == nil {
		return nil
	}
	return findChildOfType(clause, "named_imports")
}

func findChildOfType(n *cst.Node, kind string) *cst.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == kind {
			return c
		}
	}
	return nil
}

func specifierNames(namedImports *cst.Node, source []byte) []string {
	if namedImports == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(namedImports.ChildCount()); i++ {
		c := namedImports.Child(i)
		if c.Type() != "import_specifier" {
			continue
		}
		if alias := c.ChildByFieldName("alias"); alias != nil {
			names = append(names, cst.Text(alias, source))
			continue
		}
		if name := c.ChildByFieldName("name"); name != nil {
			names = append(names, cst.Text(name, source))
		}
	}
	return names
}

func execAddImport(tree *cst.Tree, index int, p *AddImportParams) ([]edit.TextEdit, error) {
	if p.Source == "" {
		return nil, newOpError(ErrInvalidParams, "add_import requires source")
	}

	for _, stmt := range importStatements(tree) {
		if importSourcePath(stmt, tree.Source) != p.Source {
			continue
		}
		if isTypeOnlyImport(stmt, tree.Source) != p.TypeOnly {
			continue
		}
		return mergeIntoImport(tree, index, stmt, p)
	}

	return insertNewImport(tree, index, p)
}

func mergeIntoImport(tree *cst.Tree, index int, stmt *cst.Node, p *AddImportParams) ([]edit.TextEdit, error) {
	existing := namedImportsNode(stmt)
	existingNames := specifierNames(existing, tree.Source)
	present := make(map[string]bool, len(existingNames))
	for _, n := range existingNames {
		present[n] = true
	}

	var toAdd []string
	for _, s := range p.Specifiers {
		if !present[s] {
			toAdd = append(toAdd, s)
		}
	}
	if len(toAdd) == 0 {
		return nil, nil // idempotent no-op
	}

	merged := append(append([]string{}, existingNames...), toAdd...)
	list := "{ " + strings.Join(merged, ", ") + " }"

	if existing != nil {
		return []edit.TextEdit{
			edit.NewTextEdit(int(existing.StartByte()), int(existing.EndByte()), list, "add_import", 0, index),
		}, nil
	}

	// No named_imports block yet: insert ", { a, b }" before "from".
	clause := findChildOfType(stmt, "import_clause")
	if clause == nil {
		return nil, newOpError(ErrInvalidParams, "import has no bindings to extend")
	}
	insertAt := int(clause.EndByte())
	return []edit.TextEdit{
		edit.NewTextEdit(insertAt, insertAt, ", "+list, "add_import", 0, index),
	}, nil
}

func insertNewImport(tree *cst.Tree, index int, p *AddImportParams) ([]edit.TextEdit, error) {
	quote := format.QuoteStyle(string(tree.Source))
	src := format.Quote(p.Source, quote)

	var clause string
	switch {
	case p.DefaultImport != "" && len(p.Specifiers) > 0:
		clause = p.DefaultImport + ", { " + strings.Join(p.Specifiers, ", ") + " }"
	case p.DefaultImport != "":
		clause = p.DefaultImport
	case len(p.Specifiers) > 0:
		clause = "{ " + strings.Join(p.Specifiers, ", ") + " }"
	default:
		return nil, newOpError(ErrInvalidParams, "add_import requires specifiers or default_import")
	}

	line := "import "
	if p.TypeOnly {
		line += "type "
	}
	line += clause + " from " + src + ";"

	stmts := importStatements(tree)
	if len(stmts) == 0 {
		return []edit.TextEdit{
			edit.NewTextEdit(0, 0, line+"\n", "add_import", 0, index),
		}, nil
	}
	last := stmts[len(stmts)-1]
	insertAt := int(last.EndByte())
	return []edit.TextEdit{
		edit.NewTextEdit(insertAt, insertAt, "\n"+line, "add_import", 0, index),
	}, nil
}

func execRemoveImport(tree *cst.Tree, index int, p *RemoveImportParams) ([]edit.TextEdit, error) {
	if p.Source == "" {
		return nil, newOpError(ErrInvalidParams, "remove_import requires source")
	}

	var edits []edit.TextEdit
	found := false
	for _, stmt := range importStatements(tree) {
		if importSourcePath(stmt, tree.Source) != p.Source {
			continue
		}
		found = true

		if len(p.Specifiers) == 0 {
			edits = append(edits, removeWholeStatement(tree, index, stmt))
			continue
		}

		named := namedImportsNode(stmt)
		remaining := removeSpecifiers(named, tree.Source, p.Specifiers)
		if named == nil {
			continue // nothing to remove
		}
		if len(remaining) == 0 && !hasDefaultOrNamespace(stmt) {
			edits = append(edits, removeWholeStatement(tree, index, stmt))
			continue
		}
		if len(remaining) == len(specifierNames(named, tree.Source)) {
			continue // none of the requested specifiers were present
		}
		list := "{ " + strings.Join(remaining, ", ") + " }"
		edits = append(edits, edit.NewTextEdit(int(named.StartByte()), int(named.EndByte()), list, "remove_import", 0, index))
	}

	if !found {
		return nil, newOpError(ErrSymbolNotFound, "no import from %q found", p.Source)
	}
	return edits, nil
}

func hasDefaultOrNamespace(stmt *cst.Node) bool {
	clause := findChildOfType(stmt, "import_clause")
	if clause == nil {
		return false
	}
	for i := 0; i < int(clause.ChildCount()); i++ {
		switch clause.Child(i).Type() {
		case "identifier", "namespace_import":
			return true
		}
	}
	return false
}

func removeSpecifiers(named *cst.Node, source []byte, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[r] = true
	}
	var remaining []string
	for _, n := range specifierNames(named, source) {
		if !drop[n] {
			remaining = append(remaining, n)
		}
	}
	return remaining
}

func removeWholeStatement(tree *cst.Tree, index int, stmt *cst.Node) edit.TextEdit {
	start := int(stmt.StartByte())
	end := int(stmt.EndByte())
	// Consume a single trailing newline so removal doesn't leave a blank line.
	if end < len(tree.Source) && tree.Source[end] == '\n' {
		end++
	}
	return edit.NewTextEdit(start, end, "", "remove_import", 0, index)
}

func execUpdateImportPaths(tree *cst.Tree, index int, p *UpdateImportPathsParams) ([]edit.TextEdit, error) {
	if p.OldPath == "" || (p.MatchMode != "exact" && p.MatchMode != "prefix") {
		return nil, newOpError(ErrInvalidParams, "update_import_paths requires old_path and match_mode in {exact,prefix}")
	}

	var edits []edit.TextEdit
	cst.Walk(tree.Root(), func(n *cst.Node) {
		var lit *cst.Node
		switch n.Type() {
		case "import_statement", "export_statement":
			lit = importSourceLiteral(n)
		case "call_expression":
			if fn := n.ChildByFieldName("function"); fn != nil && cst.Text(fn, tree.Source) == "import" {
				if args := n.ChildByFieldName("arguments"); args != nil && args.ChildCount() > 0 {
					if first := args.Child(1); first != nil && (first.Type() == "string" || first.Type() == "template_string") {
						lit = first
					}
				}
			}
		}
		if lit == nil {
			return
		}
		quote := byte('\'')
		raw := cst.Text(lit, tree.Source)
		if len(raw) >= 2 {
			quote = raw[0]
		}
		path := strings.Trim(raw, `"'`)

		var newPath string
		switch p.MatchMode {
		case "exact":
			if path != p.OldPath {
				return
			}
			newPath = p.NewPath
		case "prefix":
			if !strings.HasPrefix(path, p.OldPath) {
				return
			}
			newPath = p.NewPath + strings.TrimPrefix(path, p.OldPath)
		}

		replacement := format.Quote(newPath, quote)
		edits = append(edits, edit.NewTextEdit(int(lit.StartByte()), int(lit.EndByte()), replacement, "update_import_paths", 0, index))
	})

	if len(edits) == 0 {
		return nil, newOpError(ErrSymbolNotFound, "no import path matching %q found", p.OldPath)
	}
	return edits, nil
}
