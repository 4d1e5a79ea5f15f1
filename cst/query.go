package cst

import "strings"

// Match is a node found by Query, together with the name used to filter it.
type Match struct {
	Node *Node
	Name string
}

// aliasMap maps the colloquial query types the Query Library understands to
// the grammar-specific node kinds that realize them. Ported from the
// teacher's providers/typescript/config.go and providers/javascript/config.go
// alias tables, merged and extended with CSS.
func aliasMap(lang Language) map[string][]string {
	switch lang {
	case TypeScript, TSX:
		return map[string][]string{
			"function":  {"function_declaration", "function_expression", "arrow_function", "method_definition", "method_signature"},
			"class":     {"class_declaration", "class_expression"},
			"interface": {"interface_declaration"},
			"type":      {"type_alias_declaration"},
			"variable":  {"variable_declaration", "lexical_declaration", "variable_declarator"},
			"import":    {"import_statement"},
			"export":    {"export_statement"},
			"property":  {"public_field_definition", "private_field_definition", "property_signature"},
			"jsx_element":   {"jsx_element", "jsx_self_closing_element"},
			"jsx_attribute": {"jsx_attribute"},
			"identifier":    {"identifier", "property_identifier", "type_identifier", "shorthand_property_identifier"},
			"comment":       {"comment"},
			"call":          {"call_expression"},
		}
	case JavaScript, JSX:
		return map[string][]string{
			"function":      {"function_declaration", "function_expression", "arrow_function", "method_definition"},
			"class":         {"class_declaration", "class_expression"},
			"variable":      {"variable_declaration", "lexical_declaration", "variable_declarator"},
			"import":        {"import_statement"},
			"export":        {"export_statement"},
			"property":      {"field_definition"},
			"jsx_element":   {"jsx_element", "jsx_self_closing_element"},
			"jsx_attribute": {"jsx_attribute"},
			"identifier":    {"identifier", "property_identifier", "shorthand_property_identifier"},
			"comment":       {"comment"},
			"call":          {"call_expression"},
		}
	case CSS:
		return map[string][]string{
			"rule":       {"rule_set"},
			"selector":   {"class_selector", "id_selector", "tag_name", "pseudo_class_selector", "attribute_selector"},
			"declaration": {"declaration"},
			"property":   {"property_name"},
			"import":     {"import_statement"},
			"media":      {"media_statement"},
			"keyframes":  {"keyframes_statement"},
			"comment":    {"comment"},
		}
	}
	return nil
}

// MatchPattern reports whether name satisfies pattern, which may be "",
// "*", "prefix*", "*suffix", "prefix*suffix" or "*middle*". Ported from the teacher's
// providers/base/provider.go matchesPattern.
func MatchPattern(name, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	if strings.Contains(pattern, "*") {
		parts := strings.Split(pattern, "*")
		switch {
		case len(parts) == 2 && parts[0] != "" && parts[1] != "":
			return strings.HasPrefix(name, parts[0]) && strings.HasSuffix(name, parts[1])
		case len(parts) == 3 && parts[0] == "" && parts[2] == "":
			return strings.Contains(name, parts[1])
		case parts[0] == "" && len(parts) == 2:
			return strings.HasSuffix(name, parts[1])
		case parts[len(parts)-1] == "" && len(parts) == 2:
			return strings.HasPrefix(name, parts[0])
		}
	}
	return name == pattern
}

// Query walks tree and returns every node whose kind maps from queryType
// and whose extracted name satisfies namePattern ("" or "*" matches all).
func Query(tree *Tree, queryType string, namePattern string) []Match {
	kinds, ok := aliasMap(tree.Lang)[queryType]
	if !ok {
		kinds = []string{queryType}
	}
	kindSet := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		kindSet[k] = struct{}{}
	}

	var matches []Match
	Walk(tree.Root(), func(n *Node) {
		if _, ok := kindSet[n.Type()]; !ok {
			return
		}
		name := ExtractName(tree.Lang, n, tree.Source)
		if !MatchPattern(name, namePattern) {
			return
		}
		matches = append(matches, Match{Node: n, Name: name})
	})
	return matches
}

// IsStringOrComment reports whether n is a string-literal or comment node,
// the exclusion predicate rename_symbol uses to avoid rewriting identifiers
// that merely happen to appear inside text (spec.md §4.5, §9).
func IsStringOrComment(lang Language, n *Node) bool {
	switch n.Type() {
	case "comment", "string", "string_fragment", "template_string", "raw_string_literal":
		return true
	}
	if lang == CSS && (n.Type() == "string_value" || n.Type() == "plain_value" && n.Parent() != nil && n.Parent().Type() == "comment") {
		return true
	}
	return false
}
