// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"strconv"
	"strings"

	"github.com/vshlang/vsh/pattern"
	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

// seg is one run of already-resolved text inside a word under
// construction. quoted marks text that must never be word-split or
// globbed; splitAfter forces a field boundary right after this segment
// even inside a quoted run, which is how a quoted array reference
// ("${arr[@]}") still yields one field per element.
type seg struct {
	text       string
	quoted     bool
	splitAfter bool
}

// Fields runs the full expansion pipeline from spec.md §4.4 on w: brace
// expansion, tilde, variable/command/arithmetic substitution, IFS word
// splitting, pathname expansion, and quote removal, in that order.
func Fields(w *syntax.Word, cfg *Config) ([]string, error) {
	var out []string
	for _, bw := range Braces(w) {
		segs, err := expandParts(bw.Parts, cfg, false)
		if err != nil {
			return nil, err
		}
		fields := splitSegments(segs, cfg.ifs())
		for _, f := range fields {
			globbed, err := globField(f, segs, cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, globbed...)
		}
	}
	return out, nil
}

// Literal expands w to exactly one field: no word splitting, no pathname
// expansion. Used for assignment values, redirection targets, case
// scrutinees, and parameter-expansion operands.
func Literal(w *syntax.Word, cfg *Config) (string, error) {
	segs, err := expandParts(w.Parts, cfg, true)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.text)
	}
	return sb.String(), nil
}

// Pattern expands w into glob-pattern text for `case`/`[[ == ]]`
// matching: quoted runs are escaped so they match themselves literally,
// unquoted runs keep their glob metacharacters live.
func Pattern(w *syntax.Word, cfg *Config) (string, error) {
	segs, err := expandParts(w.Parts, cfg, false)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, s := range segs {
		if s.quoted {
			sb.WriteString(pattern.QuoteMeta(s.text))
		} else {
			sb.WriteString(s.text)
		}
	}
	return sb.String(), nil
}

func expandParts(parts []syntax.WordPart, cfg *Config, quoted bool) ([]seg, error) {
	var segs []seg
	for _, part := range parts {
		switch p := part.(type) {
		case *syntax.Lit:
			segs = append(segs, seg{text: p.Value, quoted: quoted})
		case *syntax.SglQuoted:
			segs = append(segs, seg{text: p.Value, quoted: true})
		case *syntax.DblQuoted:
			inner, err := expandParts(p.Parts, cfg, true)
			if err != nil {
				return nil, err
			}
			segs = append(segs, inner...)
		case *syntax.Tilde:
			segs = append(segs, seg{text: expandTilde(p, cfg), quoted: true})
		case *syntax.ParamExp:
			s, err := expandParam(p, cfg, quoted)
			if err != nil {
				return nil, err
			}
			segs = append(segs, s...)
		case *syntax.CmdSubst:
			out, err := cfg.CmdSubst(p.Stmts)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg{text: out, quoted: quoted})
		case *syntax.ArithmExp:
			v, err := Arithm(p.X, cfg)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg{text: strconv.FormatInt(v, 10), quoted: quoted})
		case *syntax.BraceExp:
			// Braces() already fanned these out before expandParts runs;
			// reaching here means a nested nested case Braces missed.
			// Fall back to the first alternative so expansion still
			// terminates rather than dropping the word.
			if len(p.Elems) > 0 {
				inner, err := expandParts(p.Elems[0].Parts, cfg, quoted)
				if err != nil {
					return nil, err
				}
				segs = append(segs, inner...)
			}
		}
	}
	return segs, nil
}

func expandTilde(t *syntax.Tilde, cfg *Config) string {
	if t.Suffix == "" {
		home, _ := cfg.Env.Get("HOME")
		return home
	}
	return "~" + t.Suffix
}

func expandParam(p *syntax.ParamExp, cfg *Config, quoted bool) ([]seg, error) {
	res, err := Param(p, cfg)
	if err != nil {
		return nil, err
	}
	if res.array {
		segs := make([]seg, len(res.fields))
		for i, f := range res.fields {
			segs[i] = seg{text: f, quoted: true, splitAfter: i < len(res.fields)-1}
		}
		if len(segs) == 0 {
			return []seg{{text: "", quoted: quoted}}, nil
		}
		return segs, nil
	}
	return []seg{{text: res.join(cfg.ifs()), quoted: quoted}}, nil
}

func isIFSByte(b byte, ifs string) bool {
	return strings.IndexByte(ifs, b) >= 0
}

// splitSegments applies IFS word splitting to a rendered word's
// segments: unquoted runs split on IFS bytes (consecutive separators
// collapse, matching the common default-IFS case); quoted runs and
// splitAfter boundaries never merge with a neighboring field.
func splitSegments(segs []seg, ifs string) []string {
	var fields []string
	var cur strings.Builder
	has := false
	flush := func() {
		fields = append(fields, cur.String())
		cur.Reset()
		has = false
	}
	for _, sg := range segs {
		if sg.quoted {
			cur.WriteString(sg.text)
			has = true
		} else {
			text := sg.text
			i := 0
			for i < len(text) {
				if isIFSByte(text[i], ifs) {
					if has || cur.Len() > 0 {
						flush()
					}
					i++
					for i < len(text) && isIFSByte(text[i], ifs) {
						i++
					}
					continue
				}
				cur.WriteByte(text[i])
				has = true
				i++
			}
		}
		if sg.splitAfter {
			flush()
		}
	}
	if has || cur.Len() > 0 {
		flush()
	}
	return fields
}

// globField applies pathname expansion to field if the word it came from
// has a glob metacharacter in an unquoted segment; when every
// metacharacter in the word is quoted, or the field has none, the field
// passes through unchanged. The check is made per word, so in a word
// that mixes quoted and unquoted metacharacters every field is globbed.
// On no match, the pattern expands to itself unless shell_opts.noglob.
func globField(field string, segs []seg, cfg *Config) ([]string, error) {
	if cfg.NoGlob || cfg.FS == nil || !pattern.HasMeta(field) {
		return []string{field}, nil
	}
	live := false
	for _, s := range segs {
		if !s.quoted && pattern.HasMeta(s.text) {
			live = true
			break
		}
	}
	if !live {
		return []string{field}, nil
	}
	matches, err := globPath(cfg.FS, cfg.Cwd, field)
	if err != nil || len(matches) == 0 {
		return []string{field}, nil
	}
	return matches, nil
}

// globPath expands a single pathname pattern against fs, matching
// segment by segment so that `*` in one directory component only
// matches within that component (spec.md §4.4).
func globPath(fs *vfs.FS, cwd, pat string) ([]string, error) {
	abs := vfs.Clean(cwd, pat)
	segs := strings.Split(strings.TrimPrefix(abs, "/"), "/")
	results := []string{"/"}
	for _, segPat := range segs {
		if segPat == "" {
			continue
		}
		var next []string
		literal := !pattern.HasMeta(segPat)
		for _, dir := range results {
			if literal {
				candidate := joinPath(dir, segPat)
				if fs.Exists(candidate) {
					next = append(next, candidate)
				}
				continue
			}
			names, err := fs.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, name := range names {
				if strings.HasPrefix(name, ".") && !strings.HasPrefix(segPat, ".") {
					continue
				}
				ok, err := pattern.Match(segPat, name)
				if err != nil || !ok {
					continue
				}
				next = append(next, joinPath(dir, name))
			}
		}
		results = next
		if len(results) == 0 {
			return nil, nil
		}
	}
	if len(results) == 1 && results[0] == "/" && !strings.Contains(pat, "/") {
		return nil, nil
	}
	out := make([]string, len(results))
	rel := !strings.HasPrefix(pat, "/")
	for i, r := range results {
		if rel && strings.HasPrefix(r, cwd) {
			trimmed := strings.TrimPrefix(r, cwd)
			trimmed = strings.TrimPrefix(trimmed, "/")
			if trimmed == "" {
				trimmed = "."
			}
			out[i] = trimmed
		} else {
			out[i] = r
		}
	}
	return out, nil
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
