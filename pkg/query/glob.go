// Package query implements the fluent filter-chain builder over a graph
// (spec layer L4): node-type, in-file, property, name, glob, and custom
// predicates composed conjunctively with Execute/Count/Exists terminals.
package query

import "strings"

// globMatch implements the narrow glob subset from §4.5: a single `*`
// matches within one path segment's worth of characters, `**` matches
// across directory boundaries. No character classes or alternation.
func globMatch(pattern, path string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		if len(parts) == 2 {
			prefix := parts[0]
			suffix := strings.TrimPrefix(parts[1], "/")

			if prefix != "" && !strings.HasPrefix(path, prefix) {
				return false
			}

			if strings.Contains(suffix, "*") {
				if idx := strings.LastIndex(path, "/"); idx >= 0 {
					return globMatch(suffix, path[idx+1:])
				}
				return globMatch(suffix, path)
			}

			if suffix != "" && !strings.HasSuffix(path, suffix) {
				return false
			}
			return true
		}
	}

	patternParts := strings.Split(pattern, "*")
	if len(patternParts) == 1 {
		return pattern == path
	}

	// Each `*` may only consume characters other than "/".
	pos := 0
	for i, part := range patternParts {
		switch {
		case i == 0:
			if !strings.HasPrefix(path, part) {
				return false
			}
			pos = len(part)
		case i == len(patternParts)-1:
			rest := path[pos:]
			return strings.HasSuffix(rest, part) && !strings.Contains(rest[:len(rest)-len(part)], "/")
		default:
			idx := strings.Index(path[pos:], part)
			if idx < 0 || strings.Contains(path[pos:pos+idx], "/") {
				return false
			}
			pos += idx + len(part)
		}
	}
	return true
}

// regexMatch implements the deliberately narrow name_matches subset from
// §4.5: only leading `^` and trailing `$` anchors are recognized; with
// both present it's exact match, with one it's prefix/suffix match, with
// neither it's substring match.
func regexMatch(pattern, text string) bool {
	startsWith := strings.HasPrefix(pattern, "^")
	endsWith := strings.HasSuffix(pattern, "$")

	trimmed := strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")

	switch {
	case startsWith && endsWith:
		return text == trimmed
	case startsWith:
		return strings.HasPrefix(text, trimmed)
	case endsWith:
		return strings.HasSuffix(text, trimmed)
	default:
		return strings.Contains(text, trimmed)
	}
}
