// Package format provides the shaping helpers operation executors use when
// generating brand-new source text to insert. These helpers never touch
// existing bytes; they only decide how newly generated text should look so
// it blends with its surroundings (spec.md §4.3).
package format

import "strings"

// IndentAt returns the exact leading-whitespace string of the line
// containing byte offset pos in source.
func IndentAt(source string, pos int) string {
	lineStart := strings.LastIndexByte(source[:pos], '\n') + 1
	end := lineStart
	for end < len(source) && (source[end] == ' ' || source[end] == '\t') {
		end++
	}
	return source[lineStart:end]
}

// Unit infers the file's prevailing single indentation unit (tab, two
// spaces, or four spaces) by sampling indented lines, so nested insertions
// can extend an existing indent by one level.
func Unit(source string) string {
	counts := map[string]int{"\t": 0, "  ": 0, "    ": 0}
	lines := strings.Split(source, "\n")
	sampled := 0
	for _, line := range lines {
		if sampled >= 40 {
			break
		}
		if line == "" {
			continue
		}
		if line[0] == '\t' {
			counts["\t"]++
			sampled++
			continue
		}
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		if n == 0 {
			continue
		}
		sampled++
		switch {
		case n%4 == 0:
			counts["    "]++
		case n%2 == 0:
			counts["  "]++
		}
	}

	best, bestCount := "  ", -1
	for unit, c := range counts {
		if c > bestCount {
			best, bestCount = unit, c
		}
	}
	return best
}

// Indent extends indent by one level using the file's inferred unit.
func Indent(source, indent string) string {
	return indent + Unit(source)
}

// QuoteStyle counts the literals opened with single and with double quotes
// across the whole source and returns the more frequent style; single
// quotes win a tie and are the default when none exist. It does not look
// at which literal is nearest or at what kind of literal each one is.
func QuoteStyle(source string) byte {
	single, double := 0, 0
	inString := byte(0)
	for i := 0; i < len(source); i++ {
		c := source[i]
		if inString != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inString {
				inString = 0
			}
			continue
		}
		if c == '\'' {
			single++
			inString = '\''
		} else if c == '"' {
			double++
			inString = '"'
		}
	}
	if double > single {
		return '"'
	}
	return '\''
}

// TrailingSemicolon inspects the last non-blank, non-comment line of the
// enclosing block text to decide whether new statements should end in ';'.
func TrailingSemicolon(blockText string) bool {
	lines := strings.Split(blockText, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*") {
			continue
		}
		return strings.HasSuffix(line, ";")
	}
	return true
}

// PreservesFinalNewline reports whether source ends with a newline; new
// trailing inserts must preserve that rather than introduce one.
func PreservesFinalNewline(source string) bool {
	return strings.HasSuffix(source, "\n")
}

// Quote wraps value in the given quote style.
func Quote(value string, style byte) string {
	return string(style) + value + string(style)
}
