package cst

import "strings"

// ExtractName derives the identifier a node is known by, the way the
// teacher's per-language ExtractNodeName methods do (providers/typescript
// and providers/javascript config.go), merged here since TS and JS share
// almost the entire grammar shape.
func ExtractName(lang Language, n *Node, source []byte) string {
	switch lang {
	case CSS:
		return extractCSSName(n, source)
	default:
		return extractJSFamilyName(n, source)
	}
}

func extractJSFamilyName(n *Node, source []byte) string {
	switch n.Type() {
	case "function_declaration", "class_declaration", "class_expression",
		"interface_declaration", "type_alias_declaration", "enum_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			return Text(name, source)
		}
	case "method_definition", "method_signature":
		if key := n.ChildByFieldName("key"); key != nil {
			return Text(key, source)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "property_identifier" {
				return Text(c, source)
			}
		}
	case "public_field_definition", "private_field_definition", "field_definition", "property_signature":
		if name := n.ChildByFieldName("name"); name != nil {
			return Text(name, source)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "property_identifier" {
				return Text(c, source)
			}
		}
	case "variable_declarator":
		if id := n.ChildByFieldName("id"); id != nil {
			return Text(id, source)
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "variable_declarator" {
				if id := c.ChildByFieldName("id"); id != nil {
					return Text(id, source)
				}
			}
		}
	case "import_statement", "export_statement":
		if src := n.ChildByFieldName("source"); src != nil {
			return strings.Trim(Text(src, source), `"'`)
		}
	case "arrow_function", "function_expression":
		return arrowFunctionName(n, source)
	case "jsx_attribute":
		if name := n.ChildByFieldName("name"); name != nil {
			return Text(name, source)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "property_identifier" {
				return Text(c, source)
			}
		}
	case "jsx_element", "jsx_self_closing_element":
		if tag := jsxTagName(n); tag != nil {
			return Text(tag, source)
		}
	case "comment":
		return commentSummary(string(source[n.StartByte():n.EndByte()]))
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "identifier" {
			return Text(c, source)
		}
	}
	return ""
}

func jsxTagName(n *Node) *Node {
	nameField := n.ChildByFieldName("name")
	if nameField != nil {
		return nameField
	}
	opening := n.ChildByFieldName("open_tag")
	if opening != nil {
		return opening.ChildByFieldName("name")
	}
	return nil
}

func arrowFunctionName(n *Node, source []byte) string {
	parent := n.Parent()
	if parent == nil {
		return "anonymous"
	}
	switch parent.Type() {
	case "variable_declarator":
		if id := parent.ChildByFieldName("id"); id != nil && id.Type() == "identifier" {
			return Text(id, source)
		}
	case "pair":
		if key := parent.ChildByFieldName("key"); key != nil {
			return Text(key, source)
		}
	case "method_definition", "public_field_definition":
		if key := parent.ChildByFieldName("key"); key != nil {
			return Text(key, source)
		}
		for i := 0; i < int(parent.ChildCount()); i++ {
			if c := parent.Child(i); c.Type() == "property_identifier" {
				return Text(c, source)
			}
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil {
			if left.Type() == "member_expression" {
				if prop := left.ChildByFieldName("property"); prop != nil {
					return Text(prop, source)
				}
			} else {
				return Text(left, source)
			}
		}
	}
	return "anonymous"
}

func commentSummary(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "///")
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.TrimPrefix(trimmed, "/**")
	trimmed = strings.TrimPrefix(trimmed, "/*")
	trimmed = strings.TrimSuffix(trimmed, "*/")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
}

func extractCSSName(n *Node, source []byte) string {
	switch n.Type() {
	case "class_selector", "id_selector", "tag_name":
		return Text(n, source)
	case "property_name":
		return Text(n, source)
	case "rule_set":
		if sel := n.ChildByFieldName("selectors"); sel != nil {
			return Text(sel, source)
		}
	case "declaration":
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "property_name" {
				return Text(c, source)
			}
		}
	case "comment":
		return commentSummary(string(source[n.StartByte():n.EndByte()]))
	}
	return ""
}
