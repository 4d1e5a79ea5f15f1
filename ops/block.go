package ops

import (
	"strings"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
	"github.com/oxhq/synedit/format"
)

// WrapInBlockParams are the parameters of wrap_in_block (spec.md §4.5). Lines
// are 1-based and inclusive, addressing whole statements rather than byte
// ranges, so callers never need to know offsets.
type WrapInBlockParams struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	WrapKind  string `json:"wrap_kind"` // "if" | "while" | "try_catch" | "for_of" | "for_in"
	Condition string `json:"condition,omitempty"`
	Item      string `json:"item,omitempty"`
	Iterable  string `json:"iterable,omitempty"`
}

func execWrapInBlock(tree *cst.Tree, index int, p *WrapInBlockParams) ([]edit.TextEdit, error) {
	if p.StartLine <= 0 || p.EndLine < p.StartLine {
		return nil, newOpError(ErrInvalidParams, "wrap_in_block requires start_line <= end_line, both >= 1")
	}
	prefix, err := wrapPrefix(p)
	if err != nil {
		return nil, err
	}

	lineStarts := lineStartOffsets(tree.Source)
	if p.EndLine > len(lineStarts) {
		return nil, newOpError(ErrInvalidParams, "end_line %d is past end of file", p.EndLine)
	}
	rangeStart := lineStarts[p.StartLine-1]
	var rangeEnd int
	if p.EndLine < len(lineStarts) {
		rangeEnd = lineStarts[p.EndLine]
	} else {
		rangeEnd = len(tree.Source)
	}

	stmts, err := statementsInRange(tree, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	first, last := stmts[0], stmts[len(stmts)-1]
	bodyStart, bodyEnd := int(first.StartByte()), int(last.EndByte())
	source := string(tree.Source)

	// bodyStart sits after the statement's leading whitespace (tree-sitter
	// node spans never include it), so the wrapper prefix belongs at
	// lineStart, one level shallower than the re-indented body.
	indent := format.IndentAt(source, bodyStart)
	lineStart := bodyStart - len(indent)
	innerIndent := format.Indent(source, indent)
	unit := innerIndent[len(indent):]

	suffix := "\n" + indent + "}"
	if p.WrapKind == "try_catch" {
		catchParam := p.Condition
		if catchParam == "" {
			catchParam = "err"
		}
		suffix = "\n" + indent + "} catch (" + catchParam + ") {\n" + innerIndent + "}"
	}

	body := reindentBody(source[bodyStart:bodyEnd], unit)

	// One replacement spans the original indentation plus the wrapped
	// body, so the wrapper prefix and the body's extra indent level land
	// together; the suffix is a separate trailing insertion.
	return []edit.TextEdit{
		edit.NewTextEdit(lineStart, bodyEnd, indent+prefix+innerIndent+body, "wrap_in_block", 0, index),
		edit.NewTextEdit(bodyEnd, bodyEnd, suffix, "wrap_in_block", 1, index),
	}, nil
}

// reindentBody extends every line after the first with one extra indent
// unit, so a multi-line wrapped body nests one level deeper along with the
// wrapper's opening brace. The first line's indentation is handled by the
// caller, since it precedes this slice (spec.md §4.5: the body's existing
// relative structure is kept, just nested one level further in).
func reindentBody(body, unit string) string {
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		lines[i] = unit + lines[i]
	}
	return strings.Join(lines, "\n")
}

func wrapPrefix(p *WrapInBlockParams) (string, error) {
	switch p.WrapKind {
	case "if":
		if p.Condition == "" {
			return "", newOpError(ErrInvalidParams, "wrap_kind %q requires condition", p.WrapKind)
		}
		return "if (" + p.Condition + ") {\n", nil
	case "while":
		if p.Condition == "" {
			return "", newOpError(ErrInvalidParams, "wrap_kind %q requires condition", p.WrapKind)
		}
		return "while (" + p.Condition + ") {\n", nil
	case "try_catch":
		return "try {\n", nil
	case "for_of":
		if p.Item == "" || p.Iterable == "" {
			return "", newOpError(ErrInvalidParams, "wrap_kind %q requires item and iterable", p.WrapKind)
		}
		return "for (const " + p.Item + " of " + p.Iterable + ") {\n", nil
	case "for_in":
		if p.Item == "" || p.Iterable == "" {
			return "", newOpError(ErrInvalidParams, "wrap_kind %q requires item and iterable", p.WrapKind)
		}
		return "for (const " + p.Item + " in " + p.Iterable + ") {\n", nil
	default:
		return "", newOpError(ErrInvalidParams, "unknown wrap_kind %q", p.WrapKind)
	}
}

func lineStartOffsets(source []byte) []int {
	offsets := []int{0}
	for i, b := range source {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// statementsInRange locates the statement siblings fully spanning
// [start, end), validating that the requested line range lines up with
// statement boundaries rather than slicing through the middle of one
// (spec.md §4.5: misaligned ranges are rejected as INVALID_PARAMS).
func statementsInRange(tree *cst.Tree, start, end int) ([]*cst.Node, error) {
	enclosing := smallestBlockContaining(tree.Root(), start, end)
	if enclosing == nil {
		return nil, newOpError(ErrInvalidParams, "no enclosing block contains the requested line range")
	}

	var covered []*cst.Node
	n := int(enclosing.NamedChildCount())
	for i := 0; i < n; i++ {
		child := enclosing.NamedChild(i)
		cs, ce := int(child.StartByte()), int(child.EndByte())
		if ce <= start || cs >= end {
			continue
		}
		if cs < start || ce > end {
			return nil, newOpError(ErrInvalidParams, "line range does not align with statement boundaries")
		}
		covered = append(covered, child)
	}
	if len(covered) == 0 {
		return nil, newOpError(ErrInvalidParams, "no statements found in the requested line range")
	}
	return covered, nil
}

func smallestBlockContaining(n *cst.Node, start, end int) *cst.Node {
	var best *cst.Node
	cst.Walk(n, func(node *cst.Node) {
		switch node.Type() {
		case "program", "statement_block", "class_body", "switch_body":
		default:
			return
		}
		ns, ne := int(node.StartByte()), int(node.EndByte())
		if ns <= start && ne >= end {
			best = node
		}
	})
	return best
}
