// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package pattern translates shell extended-glob patterns (`*`, `?`,
// `[...]`) into Go regular expressions, for pathname expansion and for
// the `case` and `[[ == ]]` pattern-matching operators.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode tweaks how a pattern is translated.
type Mode uint

const (
	// NoGlobStar disables ** descending into directories; unused here
	// since vfs globbing never recurses, but kept for parity with the
	// upstream option shape other example repos use.
	NoGlobStar Mode = 1 << iota
)

// Regexp translates a shell pattern into an equivalent Go regexp string,
// anchored to match the whole input.
func Regexp(pat string, mode Mode) (string, error) {
	var sb strings.Builder
	sb.WriteString("^")
	runes := []rune(pat)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			end := closingBracket(runes, i)
			if end < 0 {
				sb.WriteString(regexp.QuoteMeta("["))
				continue
			}
			sb.WriteString(translateClass(runes[i : end+1]))
			i = end
		case '\\':
			if i+1 < len(runes) {
				sb.WriteString(regexp.QuoteMeta(string(runes[i+1])))
				i++
			} else {
				sb.WriteString(regexp.QuoteMeta(`\`))
			}
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")
	return sb.String(), nil
}

// Match reports whether name matches the shell pattern pat.
func Match(pat, name string) (bool, error) {
	reStr, err := Regexp(pat, 0)
	if err != nil {
		return false, err
	}
	re, err := regexp.Compile(reStr)
	if err != nil {
		return false, fmt.Errorf("pattern: %w", err)
	}
	return re.MatchString(name), nil
}

// HasMeta reports whether s contains any unescaped glob metacharacter.
func HasMeta(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[':
			return true
		case '\\':
			i++
		}
	}
	return false
}

// QuoteMeta escapes every glob metacharacter in s so it matches itself
// literally, used when building a pattern from an already-expanded,
// quote-protected word part.
func QuoteMeta(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func closingBracket(runes []rune, start int) int {
	i := start + 1
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		i++
	}
	if i < len(runes) && runes[i] == ']' {
		i++
	}
	for i < len(runes) {
		if runes[i] == ']' {
			return i
		}
		i++
	}
	return -1
}

func translateClass(runes []rune) string {
	inner := runes[1 : len(runes)-1]
	var sb strings.Builder
	sb.WriteString("[")
	i := 0
	if i < len(inner) && (inner[i] == '!' || inner[i] == '^') {
		sb.WriteString("^")
		i++
	}
	for ; i < len(inner); i++ {
		c := inner[i]
		switch c {
		case '\\', ']', '^':
			sb.WriteString(`\`)
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteString("]")
	return sb.String()
}
