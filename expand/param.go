// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vshlang/vsh/pattern"
	"github.com/vshlang/vsh/syntax"
)

// arrayElems returns name's `name[i]` entries in index order, aliasing
// bare `name` to index 0 per spec.md §3.
func arrayElems(env Environ, name string) []string {
	indexed := map[int]string{}
	prefix := name + "["
	env.Each(func(k, v string) {
		if !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, "]") {
			return
		}
		idxStr := k[len(prefix) : len(k)-1]
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return
		}
		indexed[idx] = v
	})
	if v, ok := env.Get(name); ok {
		if _, has0 := indexed[0]; !has0 {
			indexed[0] = v
		}
	}
	if len(indexed) == 0 {
		return nil
	}
	idxs := make([]int, 0, len(indexed))
	for i := range indexed {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = indexed[idx]
	}
	return out
}

// paramResult is one resolved ${...} expansion: either a scalar or, for
// `name[@]`/`name[*]`, a list of fields that word splitting must keep
// separate from each other regardless of IFS (spec.md §9's array note).
type paramResult struct {
	fields []string
	array  bool
}

func (r paramResult) join(ifs string) string {
	sep := " "
	if ifs != "" {
		sep = ifs[:1]
	}
	return strings.Join(r.fields, sep)
}

// Param resolves a ParamExp node to its field(s), applying the modifier
// table in spec.md §4.4 and queuing any `:=`/`=` pending assignment
// onto cfg.Pending.
func Param(pe *syntax.ParamExp, cfg *Config) (paramResult, error) {
	name := pe.Param
	isAll := pe.Index != nil && (pe.Index.Lit() == "@" || pe.Index.Lit() == "*")

	raw, set := resolveBase(pe, cfg, name, isAll)

	if pe.Length {
		if isAll {
			return paramResult{fields: []string{strconv.Itoa(len(arrayElems(cfg.Env, name)))}}, nil
		}
		return paramResult{fields: []string{strconv.Itoa(utf8.RuneCountInString(raw.join(cfg.ifs())))}}, nil
	}

	empty := len(raw.fields) == 0 || (len(raw.fields) == 1 && raw.fields[0] == "")

	if pe.Exp != nil {
		res, err := applyExpOp(pe, cfg, name, raw, set, empty)
		if err != nil {
			return paramResult{}, err
		}
		raw = res
	} else if !set {
		if cfg.NoUnset {
			return paramResult{}, UnsetError{Name: name}
		}
		raw = paramResult{fields: []string{""}}
	}

	if pe.Slice != nil {
		s, err := applySlice(pe.Slice, cfg, raw.join(cfg.ifs()))
		if err != nil {
			return paramResult{}, err
		}
		raw = paramResult{fields: []string{s}}
	}
	if pe.Repl != nil {
		pat, err := Literal(pe.Repl.Orig, cfg)
		if err != nil {
			return paramResult{}, err
		}
		repl, err := Literal(pe.Repl.With, cfg)
		if err != nil {
			return paramResult{}, err
		}
		for i, f := range raw.fields {
			raw.fields[i] = replacePattern(f, pat, repl, pe.Repl.All, pe.Repl.Anchored)
		}
	}
	return raw, nil
}

func resolveBase(pe *syntax.ParamExp, cfg *Config, name string, isAll bool) (paramResult, bool) {
	if pe.Index != nil {
		if isAll {
			elems := arrayElems(cfg.Env, name)
			return paramResult{fields: elems, array: pe.Index.Lit() == "@"}, len(elems) > 0
		}
		idxVal, _ := Literal(pe.Index, cfg)
		idx, _ := strconv.Atoi(idxVal)
		v, ok := cfg.Env.Get(fmt.Sprintf("%s[%d]", name, idx))
		if !ok && idx == 0 {
			v, ok = cfg.Env.Get(name)
		}
		return paramResult{fields: []string{v}}, ok
	}
	switch name {
	case "#":
		return paramResult{fields: []string{strconv.Itoa(len(cfg.Positional))}}, true
	case "@", "*":
		return paramResult{fields: append([]string(nil), cfg.Positional...), array: name == "@"}, len(cfg.Positional) > 0
	case "?":
		return paramResult{fields: []string{strconv.Itoa(cfg.LastExit)}}, true
	case "$":
		v, ok := cfg.Env.Get("$")
		return paramResult{fields: []string{v}}, ok
	case "!":
		v, ok := cfg.Env.Get("!")
		return paramResult{fields: []string{v}}, ok
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n >= 1 && n <= len(cfg.Positional) {
			return paramResult{fields: []string{cfg.Positional[n-1]}}, true
		}
		return paramResult{fields: []string{""}}, false
	}
	v, ok := cfg.Env.Get(name)
	return paramResult{fields: []string{v}}, ok
}

func applyExpOp(pe *syntax.ParamExp, cfg *Config, name string, raw paramResult, set, empty bool) (paramResult, error) {
	op := pe.Exp.Op
	word := pe.Exp.Word

	needsAlt := set && !empty
	wordVal := func() (string, error) { return Literal(word, cfg) }

	switch op {
	case syntax.ParDefault, syntax.ParDefaultUns:
		useDefault := !set || (op == syntax.ParDefault && empty)
		if !useDefault {
			return raw, nil
		}
		v, err := wordVal()
		return paramResult{fields: []string{v}}, err
	case syntax.ParAssign, syntax.ParAssignUns:
		useDefault := !set || (op == syntax.ParAssign && empty)
		if !useDefault {
			return raw, nil
		}
		v, err := wordVal()
		if err != nil {
			return paramResult{}, err
		}
		cfg.defer_(func() { cfg.Env.Set(name, v) })
		return paramResult{fields: []string{v}}, nil
	case syntax.ParAlt, syntax.ParAltUns:
		useAlt := set && (op == syntax.ParAltUns || !empty)
		if !useAlt {
			return paramResult{fields: []string{""}}, nil
		}
		v, err := wordVal()
		return paramResult{fields: []string{v}}, err
	case syntax.ParError, syntax.ParErrorUns:
		fail := !set || (op == syntax.ParError && empty)
		if !fail {
			return raw, nil
		}
		msg, _ := wordVal()
		if msg == "" {
			msg = "parameter null or not set"
		}
		return paramResult{}, ParamError{Name: name, Message: msg}
	case syntax.ParRemSmallPre, syntax.ParRemLargePre, syntax.ParRemSmallSuf, syntax.ParRemLargeSuf:
		pat, err := wordVal()
		if err != nil {
			return paramResult{}, err
		}
		longest := op == syntax.ParRemLargePre || op == syntax.ParRemLargeSuf
		suffix := op == syntax.ParRemSmallSuf || op == syntax.ParRemLargeSuf
		out := make([]string, len(raw.fields))
		for i, f := range raw.fields {
			if suffix {
				out[i] = stripSuffix(f, pat, longest)
			} else {
				out[i] = stripPrefix(f, pat, longest)
			}
		}
		return paramResult{fields: out, array: raw.array}, nil
	case syntax.ParUpperFirst, syntax.ParUpperAll, syntax.ParLowerFirst, syntax.ParLowerAll:
		out := make([]string, len(raw.fields))
		for i, f := range raw.fields {
			out[i] = applyCase(f, op)
		}
		return paramResult{fields: out, array: raw.array}, nil
	}
	_ = needsAlt
	return raw, nil
}

func applyCase(s string, op syntax.ParamExpOp) string {
	if s == "" {
		return s
	}
	switch op {
	case syntax.ParUpperAll:
		return strings.ToUpper(s)
	case syntax.ParLowerAll:
		return strings.ToLower(s)
	case syntax.ParUpperFirst:
		r, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(r)) + s[size:]
	case syntax.ParLowerFirst:
		r, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToLower(r)) + s[size:]
	}
	return s
}

func stripPrefix(s, pat string, longest bool) string {
	if longest {
		for i := len(s); i >= 0; i-- {
			if ok, _ := pattern.Match(pat, s[:i]); ok {
				return s[i:]
			}
		}
		return s
	}
	for i := 0; i <= len(s); i++ {
		if ok, _ := pattern.Match(pat, s[:i]); ok {
			return s[i:]
		}
	}
	return s
}

func stripSuffix(s, pat string, longest bool) string {
	if longest {
		for i := 0; i <= len(s); i++ {
			if ok, _ := pattern.Match(pat, s[i:]); ok {
				return s[:i]
			}
		}
		return s
	}
	for i := len(s); i >= 0; i-- {
		if ok, _ := pattern.Match(pat, s[i:]); ok {
			return s[:i]
		}
	}
	return s
}

// replacePattern scans s left to right for the first (or, with all, every
// non-overlapping) substring that pat glob-matches, preferring the
// longest match at each start position the way shell glob "*" greedily
// consumes. anchored restricts the match to the start ('#') or end ('%').
func replacePattern(s, pat, repl string, all bool, anchored byte) string {
	var out strings.Builder
	i := 0
	replaced := false
	for i <= len(s) {
		if anchored == '#' && i != 0 {
			break
		}
		if replaced && !all {
			break
		}
		matchEnd := -1
		maxEnd := len(s)
		if anchored == '%' {
			maxEnd = len(s)
		}
		for end := maxEnd; end >= i; end-- {
			if anchored == '%' && end != len(s) {
				continue
			}
			if ok, _ := pattern.Match(pat, s[i:end]); ok {
				matchEnd = end
				break
			}
		}
		if matchEnd < 0 {
			if i < len(s) {
				out.WriteByte(s[i])
			}
			i++
			continue
		}
		out.WriteString(repl)
		replaced = true
		if matchEnd == i {
			if i < len(s) {
				out.WriteByte(s[i])
			}
			i++
		} else {
			i = matchEnd
		}
	}
	if i < len(s) {
		out.WriteString(s[i:])
	}
	return out.String()
}

func applySlice(sl *syntax.ParamSlice, cfg *Config, s string) (string, error) {
	off, err := Arithm(sl.Offset.X, cfg)
	if err != nil {
		return "", err
	}
	runes := []rune(s)
	n := int64(len(runes))
	if off < 0 {
		off += n
		if off < 0 {
			off = 0
		}
	}
	if off > n {
		off = n
	}
	length := n - off
	if sl.Length != nil {
		l, err := Arithm(sl.Length.X, cfg)
		if err != nil {
			return "", err
		}
		if l < 0 {
			l = n - off + l
		}
		if l < 0 {
			l = 0
		}
		length = l
	}
	end := off + length
	if end > n {
		end = n
	}
	if end < off {
		end = off
	}
	return string(runes[off:end]), nil
}
