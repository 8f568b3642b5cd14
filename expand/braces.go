// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"
	"strconv"

	"github.com/vshlang/vsh/syntax"
)

// Braces performs the cartesian-product fan-out of every BraceExp
// word-part SplitBraces left structural, producing one or more Words
// (spec.md §4.4 stage 1). It runs before any other expansion stage and
// is purely syntactic: no variable, command, or glob evaluation happens
// here.
func Braces(w *syntax.Word) []*syntax.Word {
	combos := expandPartsList(w.Parts)
	words := make([]*syntax.Word, len(combos))
	for i, c := range combos {
		words[i] = &syntax.Word{Parts: c}
	}
	return words
}

func expandPartsList(parts []syntax.WordPart) [][]syntax.WordPart {
	if len(parts) == 0 {
		return [][]syntax.WordPart{nil}
	}
	head, rest := parts[0], parts[1:]
	restCombos := expandPartsList(rest)

	be, ok := head.(*syntax.BraceExp)
	if !ok {
		combos := make([][]syntax.WordPart, 0, len(restCombos))
		for _, rc := range restCombos {
			combo := append([]syntax.WordPart{head}, rc...)
			combos = append(combos, combo)
		}
		return combos
	}

	var combos [][]syntax.WordPart
	for _, altParts := range braceAlternatives(be) {
		for _, altCombo := range expandPartsList(altParts) {
			for _, rc := range restCombos {
				combo := append(append([]syntax.WordPart{}, altCombo...), rc...)
				combos = append(combos, combo)
			}
		}
	}
	return combos
}

func braceAlternatives(be *syntax.BraceExp) [][]syntax.WordPart {
	if !be.Sequence {
		alts := make([][]syntax.WordPart, len(be.Elems))
		for i, e := range be.Elems {
			alts[i] = e.Parts
		}
		return alts
	}
	values := sequenceValues(be)
	alts := make([][]syntax.WordPart, len(values))
	for i, v := range values {
		alts[i] = []syntax.WordPart{&syntax.Lit{ValuePos: be.Position, Value: v}}
	}
	return alts
}

func sequenceValues(be *syntax.BraceExp) []string {
	start := be.Elems[0].Lit()
	end := be.Elems[1].Lit()
	step := 1
	if len(be.Elems) == 3 {
		if n, err := strconv.Atoi(be.Elems[2].Lit()); err == nil && n != 0 {
			step = abs(n)
		}
	}
	if be.Chars {
		return charSequence(start[0], end[0], step)
	}
	return numericSequence(start, end, step)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func charSequence(start, end byte, step int) []string {
	var out []string
	if start <= end {
		for c := int(start); c <= int(end); c += step {
			out = append(out, string(rune(c)))
		}
	} else {
		for c := int(start); c >= int(end); c -= step {
			out = append(out, string(rune(c)))
		}
	}
	return out
}

func numericSequence(startS, endS string, step int) []string {
	start, _ := strconv.Atoi(startS)
	end, _ := strconv.Atoi(endS)
	width := 0
	if hasLeadingZero(startS) || hasLeadingZero(endS) {
		width = max(len(trimSign(startS)), len(trimSign(endS)))
	}
	var out []string
	emit := func(v int) {
		if width > 0 {
			out = append(out, fmt.Sprintf("%0*d", width, v))
		} else {
			out = append(out, strconv.Itoa(v))
		}
	}
	if start <= end {
		for v := start; v <= end; v += step {
			emit(v)
		}
	} else {
		for v := start; v >= end; v -= step {
			emit(v)
		}
	}
	return out
}

func hasLeadingZero(s string) bool {
	s = trimSign(s)
	return len(s) > 1 && s[0] == '0'
}

func trimSign(s string) string {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return s[1:]
	}
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
