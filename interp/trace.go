// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"strings"

	"github.com/fatih/color"
)

// traceCommand renders one `set -x` line for an expanded argv, the way
// the teacher's interp/trace.go renders a re-printed *syntax.Stmt — but
// against the already-expanded words, since this interpreter carries no
// AST printer (spec.md §6.1 names no formatter in the host API). The
// PS4 variable supplies the prefix; quoting mirrors the minimal
// word-needs-quotes heuristic a trace line actually needs.
func (r *Runner) traceCommand(argv []string) string {
	prefix, _ := r.St.Get("PS4")
	if prefix == "" {
		prefix = "+ "
	}
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = traceQuote(a)
	}
	line := prefix + strings.Join(quoted, " ") + "\n"
	if !r.St.Opts.Color {
		return line
	}
	var sb strings.Builder
	c := color.New(color.FgCyan)
	c.EnableColor()
	c.Fprint(&sb, line)
	return sb.String()
}

func traceQuote(s string) string {
	if s == "" {
		return "''"
	}
	needsQuote := strings.ContainsAny(s, " \t\n'\"$`\\|&;()<>*?[]")
	if !needsQuote {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
