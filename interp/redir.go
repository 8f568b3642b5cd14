// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"strings"

	"github.com/vshlang/vsh/expand"
	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

// resolveStdin scans redirs for the input-side operators spec.md §4.5
// lists (<, <<, <<-, <<<) and returns the stdin a command should read,
// falling back to whatever a pipeline stage handed it. The last input
// redirect in source order wins, matching a real shell's fd table.
func (r *Runner) resolveStdin(redirs []*syntax.Redirect, cfg *expand.Config, fallback string) (string, error) {
	stdin := fallback
	for _, rd := range redirs {
		switch rd.Op {
		case syntax.RedirIn:
			path, err := expand.Literal(rd.Word, cfg)
			if err != nil {
				return "", err
			}
			data, err := r.St.FS.ReadFile(resolvePath(r.St.Cwd, path))
			if err != nil {
				return "", err
			}
			stdin = string(data)
		case syntax.RedirHeredoc, syntax.RedirHeredocD:
			if rd.Quoted {
				stdin = literalWord(rd.Hdoc)
			} else {
				body, err := expand.Literal(rd.Hdoc, cfg)
				if err != nil {
					return "", err
				}
				stdin = body
			}
		case syntax.RedirHereStr:
			body, err := expand.Literal(rd.Word, cfg)
			if err != nil {
				return "", err
			}
			stdin = body + "\n"
		}
	}
	return stdin, nil
}

// literalWord renders a word's literal parts verbatim, used for
// quoted-delimiter heredocs (<<'EOF') where no expansion ever applies.
func literalWord(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range w.Parts {
		if lit, ok := p.(*syntax.Lit); ok {
			sb.WriteString(lit.Value)
		}
	}
	return sb.String()
}

// applyRedirs applies the output-side operators (>, >>, &>, &>>, n>&m)
// in declaration order against res's stdout/stderr buffers, then writes
// whatever remains unredirected back out unchanged.
func (r *Runner) applyRedirs(redirs []*syntax.Redirect, st *State, res Result) Result {
	cfg := (&Runner{St: st, Ctx: r.Ctx}).cfg()
	out, errb := res.Stdout, res.Stderr
	for _, rd := range redirs {
		switch rd.Op {
		case syntax.RedirOut, syntax.RedirAppend:
			fd := rd.Fd
			if !rd.HasFd {
				fd = 1
			}
			path, err := expand.Literal(rd.Word, cfg)
			if err != nil {
				return failf(1, "bash: %s\n", err)
			}
			var buf *string
			if fd == 2 {
				buf = &errb
			} else {
				buf = &out
			}
			if err := writeRedirTarget(st, path, *buf, rd.Op == syntax.RedirAppend); err != nil {
				return failf(1, "bash: %s: %s\n", path, redirErrText(err))
			}
			*buf = ""
		case syntax.RedirAll, syntax.RedirAllAppend:
			path, err := expand.Literal(rd.Word, cfg)
			if err != nil {
				return failf(1, "bash: %s\n", err)
			}
			combined := out + errb
			if err := writeRedirTarget(st, path, combined, rd.Op == syntax.RedirAllAppend); err != nil {
				return failf(1, "bash: %s: %s\n", path, redirErrText(err))
			}
			out, errb = "", ""
		case syntax.RedirDupOut:
			fd := rd.Fd
			if !rd.HasFd {
				fd = 1
			}
			target := literalWord(rd.Word)
			switch {
			case fd == 1 && target == "2":
				errb += out
				out = ""
			case fd == 2 && target == "1":
				out += errb
				errb = ""
			}
		}
	}
	res.Stdout, res.Stderr = out, errb
	return res
}

func redirErrText(err error) string {
	if k, ok := vfs.KindOf(err); ok {
		return k.String()
	}
	return err.Error()
}

func writeRedirTarget(st *State, path, data string, appendMode bool) error {
	abs := resolvePath(st.Cwd, path)
	if abs == "/dev/null" {
		return nil
	}
	if appendMode {
		if existing, err := st.FS.ReadFile(abs); err == nil {
			data = string(existing) + data
		}
	}
	return st.FS.WriteFile(abs, []byte(data))
}
