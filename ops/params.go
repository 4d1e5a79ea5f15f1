package ops

import (
	"strconv"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
)

// AddParameterParams are the parameters of add_parameter (spec.md §4.5).
type AddParameterParams struct {
	FunctionName string `json:"function_name"`
	ParamName    string `json:"param_name"`
	ParamType    string `json:"param_type,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Position     string `json:"position"` // "first" | "last" | "<index>"
}

// RemoveParameterParams are the parameters of remove_parameter.
type RemoveParameterParams struct {
	FunctionName string `json:"function_name"`
	ParamName    string `json:"param_name"`
}

func findFunction(tree *cst.Tree, name string) (*cst.Node, error) {
	matches := cst.Query(tree, "function", name)
	if len(matches) == 0 {
		return nil, newOpError(ErrSymbolNotFound, "no function named %q found", name)
	}
	if len(matches) > 1 {
		return nil, newOpError(ErrAmbiguousMatch, "multiple functions named %q found", name)
	}
	return matches[0].Node, nil
}

func parameterList(fn *cst.Node) *cst.Node {
	return fn.ChildByFieldName("parameters")
}

func parameterNodes(params *cst.Node) []*cst.Node {
	if params == nil {
		return nil
	}
	var nodes []*cst.Node
	n := int(params.NamedChildCount())
	for i := 0; i < n; i++ {
		nodes = append(nodes, params.NamedChild(i))
	}
	return nodes
}

func parameterName(p *cst.Node, source []byte) string {
	switch p.Type() {
	case "required_parameter", "optional_parameter":
		if pat := p.ChildByFieldName("pattern"); pat != nil {
			return cst.Text(pat, source)
		}
	case "identifier":
		return cst.Text(p, source)
	}
	// object/array destructuring or anything else: fall back to full text.
	return cst.Text(p, source)
}

func execAddParameter(tree *cst.Tree, index int, p *AddParameterParams) ([]edit.TextEdit, error) {
	if p.FunctionName == "" || p.ParamName == "" || p.Position == "" {
		return nil, newOpError(ErrInvalidParams, "add_parameter requires function_name, param_name and position")
	}

	fn, err := findFunction(tree, p.FunctionName)
	if err != nil {
		return nil, err
	}
	list := parameterList(fn)
	if list == nil {
		return nil, newOpError(ErrInvalidParams, "function %q has no parameter list", p.FunctionName)
	}
	params := parameterNodes(list)

	text := p.ParamName
	if p.ParamType != "" {
		text += ": " + p.ParamType
	}
	if p.DefaultValue != "" {
		text += " = " + p.DefaultValue
	}

	pos, err := resolvePosition(p.Position, len(params))
	if err != nil {
		return nil, err
	}

	var e edit.TextEdit
	switch {
	case len(params) == 0:
		e = edit.NewTextEdit(int(list.StartByte())+1, int(list.StartByte())+1, text, "add_parameter", 0, index)
	case pos >= len(params):
		last := params[len(params)-1]
		e = edit.NewTextEdit(int(last.EndByte()), int(last.EndByte()), ", "+text, "add_parameter", 0, index)
	default:
		target := params[pos]
		e = edit.NewTextEdit(int(target.StartByte()), int(target.StartByte()), text+", ", "add_parameter", 0, index)
	}
	return []edit.TextEdit{e}, nil
}

func resolvePosition(position string, count int) (int, error) {
	switch position {
	case "first":
		return 0, nil
	case "last":
		return count, nil
	default:
		idx, err := strconv.Atoi(position)
		if err != nil || idx < 0 {
			return 0, newOpError(ErrInvalidParams, "invalid position %q", position)
		}
		return idx, nil
	}
}

func execRemoveParameter(tree *cst.Tree, index int, p *RemoveParameterParams) ([]edit.TextEdit, error) {
	if p.FunctionName == "" || p.ParamName == "" {
		return nil, newOpError(ErrInvalidParams, "remove_parameter requires function_name and param_name")
	}

	fn, err := findFunction(tree, p.FunctionName)
	if err != nil {
		return nil, err
	}
	list := parameterList(fn)
	params := parameterNodes(list)

	idx := -1
	for i, param := range params {
		if parameterName(param, tree.Source) == p.ParamName {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, newOpError(ErrSymbolNotFound, "no parameter %q on %q", p.ParamName, p.FunctionName)
	}

	target := params[idx]
	var start, end int
	switch {
	case len(params) == 1:
		start, end = int(target.StartByte()), int(target.EndByte())
	case idx == 0:
		start, end = int(target.StartByte()), int(params[idx+1].StartByte())
	default:
		start, end = int(params[idx-1].EndByte()), int(target.EndByte())
	}

	return []edit.TextEdit{
		edit.NewTextEdit(start, end, "", "remove_parameter", 0, index),
	}, nil
}
