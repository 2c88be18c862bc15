// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package session

import (
	"fmt"
	"strings"
)

// splitFields is a POSIX-style word splitter: it honors single quotes
// (literal), double quotes (literal except backslash before " or \), and
// a bare backslash escaping the next character outside quotes. It is
// deliberately hand-rolled rather than borrowed from a shell-quoting
// library: none of the shell-argument splitters present in the retrieval
// corpus are exercised as direct dependencies there (each only appears as
// an indirect, unused-by-us transitive pull), and the one case that
// actually matters here — `tools run` left unsplit — is bypassed before
// this function is ever called.
func splitFields(s string) ([]string, error) {
	var fields []string
	var current strings.Builder
	inField := false

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\'':
			inField = true
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				current.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("session: unterminated single quote")
			}
			i = j + 1
		case c == '"':
			inField = true
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				if runes[j] == '\\' && j+1 < len(runes) && (runes[j+1] == '"' || runes[j+1] == '\\') {
					current.WriteRune(runes[j+1])
					j += 2
					continue
				}
				current.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("session: unterminated double quote")
			}
			i = j + 1
		case c == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("session: trailing backslash")
			}
			inField = true
			current.WriteRune(runes[i+1])
			i += 2
		case c == ' ' || c == '\t' || c == '\n':
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
			i++
		default:
			inField = true
			current.WriteRune(c)
			i++
		}
	}
	if inField {
		fields = append(fields, current.String())
	}
	return fields, nil
}

// extractQuotedCode pulls the inner contents out of a triple-quoted,
// single-quoted, or double-quoted code argument, per spec.md §4.6's
// `tools run` special case. It returns false if s isn't wrapped in one of
// the recognized quote styles.
func extractQuotedCode(s string) (string, bool) {
	if len(s) >= 6 && strings.HasPrefix(s, `"""`) && strings.HasSuffix(s, `"""`) {
		return s[3 : len(s)-3], true
	}
	if len(s) >= 6 && strings.HasPrefix(s, "'''") && strings.HasSuffix(s, "'''") {
		return s[3 : len(s)-3], true
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return s[1 : len(s)-1], true
	}
	return "", false
}
