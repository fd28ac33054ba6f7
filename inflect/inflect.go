// Package inflect derives stable identifiers from registered type names.
// It is a pure string transform: no reflection over live types, every
// declarable component supplies its bare name explicitly.
package inflect

import (
	"strings"
	"unicode"
)

// Underscore converts a bare type name to its snake_case identifier.
// Examples:
//   - "Users" -> "users"
//   - "UserTasks" -> "user_tasks"
//   - "HTTPLog" -> "http_log"
//   - "already_done" -> "already_done"
//
// The transform is stable: applying it to its own output is a no-op.
func Underscore(s string) string {
	tokens := tokenize(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return strings.Join(tokens, "_")
}

// tokenize splits a CamelCase, camelCase or separator-delimited name
// into tokens, keeping acronyms together ("XMLParser" -> "XML", "Parser").
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			continue
		}

		if i > 0 && shouldStartToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// shouldStartToken determines if a new token starts at position i.
func shouldStartToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prev)

	// lower -> upper transition, e.g. "userTasks" splits before 'T'
	if isUpper && !isPrevUpper && !isSeparator(prev) {
		return true
	}

	// end of acronym, e.g. "HTTPLog" splits before 'L'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	return false
}
