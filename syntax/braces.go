// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strconv"

// SplitBraces walks w's literal word-parts looking for `{a,b,c}` and
// `{m..n[..step]}` brace-expansion syntax and lifts any it finds into
// BraceExp parts, splitting the surrounding literal text as needed. The
// cartesian-product fan-out into multiple words happens later, during
// expansion, not here: at parse time a brace group is just one more
// word-part.
func SplitBraces(w *Word) *Word {
	var newParts []WordPart
	for _, part := range w.Parts {
		lit, ok := part.(*Lit)
		if !ok {
			newParts = append(newParts, part)
			continue
		}
		pieces, err := splitBraceLit(lit)
		if err != nil {
			newParts = append(newParts, part)
			continue
		}
		newParts = append(newParts, pieces...)
	}
	return &Word{Parts: newParts}
}

func splitBraceLit(lit *Lit) ([]WordPart, error) {
	s := lit.Value
	i := indexByte(s, '{')
	if i < 0 {
		return []WordPart{lit}, nil
	}
	depth := 0
	j := -1
	for k := i; k < len(s); k++ {
		switch s[k] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				j = k
			}
		}
		if j >= 0 {
			break
		}
	}
	if j < 0 {
		return []WordPart{lit}, nil
	}
	inner := s[i+1 : j]
	var be *BraceExp
	if elems := splitTopLevelCommas(inner); len(elems) >= 2 {
		be = &BraceExp{Position: lit.ValuePos, Elems: make([]*Word, 0, len(elems))}
		for _, e := range elems {
			ew, err := parseWordString(e)
			if err != nil {
				return nil, err
			}
			be.Elems = append(be.Elems, ew)
		}
	} else if start, end, step, chars, ok := parseBraceSequence(inner); ok {
		be = &BraceExp{Position: lit.ValuePos, Sequence: true, Chars: chars}
		mk := func(v string) *Word { return &Word{Parts: []WordPart{&Lit{ValuePos: lit.ValuePos, Value: v}}} }
		be.Elems = append(be.Elems, mk(start), mk(end))
		if step != "" {
			be.Elems = append(be.Elems, mk(step))
		}
	} else {
		head := &Lit{ValuePos: lit.ValuePos, Value: s[:i+1]}
		restParts, err := splitBraceLit(&Lit{ValuePos: lit.ValuePos, Value: s[i+1:]})
		if err != nil {
			return nil, err
		}
		return append([]WordPart{head}, restParts...), nil
	}
	var result []WordPart
	if i > 0 {
		result = append(result, &Lit{ValuePos: lit.ValuePos, Value: s[:i]})
	}
	result = append(result, be)
	if j+1 < len(s) {
		restParts, err := splitBraceLit(&Lit{ValuePos: lit.ValuePos, Value: s[j+1:]})
		if err != nil {
			return nil, err
		}
		result = append(result, restParts...)
	}
	return result, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseBraceSequence(inner string) (start, end, step string, chars, ok bool) {
	var parts []string
	depth := 0
	segStart := 0
	for i := 0; i+1 < len(inner); i++ {
		if inner[i] == '.' && inner[i+1] == '.' && depth == 0 {
			parts = append(parts, inner[segStart:i])
			segStart = i + 2
			i++
		}
	}
	parts = append(parts, inner[segStart:])
	if len(parts) != 2 && len(parts) != 3 {
		return "", "", "", false, false
	}
	start, end = parts[0], parts[1]
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return "", "", "", false, false
		}
		step = parts[2]
	}
	if isSignedInt(start) && isSignedInt(end) {
		return start, end, step, false, true
	}
	if len(start) == 1 && len(end) == 1 && isAsciiAlpha(start[0]) && isAsciiAlpha(end[0]) {
		return start, end, step, true, true
	}
	return "", "", "", false, false
}

func isSignedInt(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isAsciiAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
