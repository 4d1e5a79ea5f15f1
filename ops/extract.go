package ops

import (
	"strings"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
	"github.com/oxhq/synedit/format"
)

// ExtractToVariableParams are the parameters of extract_to_variable
// (spec.md §4.5).
type ExtractToVariableParams struct {
	Expression     string `json:"expression"`
	VariableName   string `json:"variable_name"`
	VarKind        string `json:"var_kind"`
	TypeAnnotation string `json:"type_annotation,omitempty"`
}

func execExtractToVariable(tree *cst.Tree, index int, p *ExtractToVariableParams) ([]edit.TextEdit, error) {
	if p.Expression == "" || p.VariableName == "" || p.VarKind == "" {
		return nil, newOpError(ErrInvalidParams, "extract_to_variable requires expression, variable_name and var_kind")
	}

	target := normalizeWhitespace(p.Expression)
	occurrences := findExpressionOccurrences(tree, target)
	if len(occurrences) == 0 {
		return nil, newOpError(ErrSymbolNotFound, "no expression matching %q found", p.Expression)
	}

	first := occurrences[0]
	stmt := cst.EnclosingStatement(first)
	if stmt == nil {
		return nil, newOpError(ErrInvalidParams, "extracted expression has no enclosing statement")
	}

	indent := format.IndentAt(string(tree.Source), int(stmt.StartByte()))
	decl := p.VarKind + " " + p.VariableName
	if p.TypeAnnotation != "" {
		decl += ": " + p.TypeAnnotation
	}
	decl += " = " + p.Expression + ";\n" + indent

	edits := []edit.TextEdit{
		edit.NewTextEdit(int(stmt.StartByte()), int(stmt.StartByte()), decl, "extract_to_variable", 0, index),
	}
	for _, occ := range occurrences {
		edits = append(edits, edit.NewTextEdit(int(occ.StartByte()), int(occ.EndByte()), p.VariableName, "extract_to_variable", 1, index))
	}
	return edits, nil
}

// findExpressionOccurrences walks the whole tree for nodes whose
// whitespace-normalized text matches target, keeping only the outermost
// match at each position so a nested subexpression of a matching
// expression isn't also extracted (spec.md §4.5: exact CST-node textual
// equivalence with whitespace-normalized comparison, not a substring scan).
func findExpressionOccurrences(tree *cst.Tree, target string) []*cst.Node {
	var matches []*cst.Node
	cst.Walk(tree.Root(), func(n *cst.Node) {
		if !isExpressionNode(n) {
			return
		}
		if normalizeWhitespace(cst.Text(n, tree.Source)) == target {
			matches = append(matches, n)
		}
	})
	return dedupeOuterNodes(matches)
}

func isExpressionNode(n *cst.Node) bool {
	switch n.Type() {
	case "program", "statement_block", "class_body", "expression_statement":
		return false
	}
	return n.IsNamed()
}

func dedupeOuterNodes(nodes []*cst.Node) []*cst.Node {
	var result []*cst.Node
	for _, n := range nodes {
		nested := false
		for _, other := range nodes {
			if other == n {
				continue
			}
			if int(other.StartByte()) <= int(n.StartByte()) && int(other.EndByte()) >= int(n.EndByte()) && other != n {
				nested = true
				break
			}
		}
		if !nested {
			result = append(result, n)
		}
	}
	return result
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
