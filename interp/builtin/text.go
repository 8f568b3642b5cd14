// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vshlang/vsh/interp"
)

var textBuiltins = map[string]interp.Builtin{
	"grep": bGrep,
	"sed":  bSed,
	"awk":  bAwk,
	"sort": bSort,
	"wc":   bWc,
	"head": bHead,
	"tail": bTail,
	"uniq": bUniq,
	"tr":   bTr,
	"cut":  bCut,
	"tee":  bTee,
}

func readInput(st *interp.State, stdin io.Reader, paths []string) (string, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	var sb strings.Builder
	for _, p := range paths {
		if p == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", err
			}
			sb.Write(data)
			continue
		}
		data, err := st.FS.ReadFile(resolvePath(st, p))
		if err != nil {
			return "", err
		}
		sb.Write(data)
	}
	return sb.String(), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// bGrep supports the literal/-v/-i/-n/-c subset plus POSIX ERE, which
// Go's regexp already implements, per SPEC_FULL.md §6.2.
func bGrep(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	var invert, ignoreCase, withNum, countOnly bool
	args := argv[1:]
	i := 0
	for ; i < len(args); i++ {
		switch args[i] {
		case "-v":
			invert = true
		case "-i":
			ignoreCase = true
		case "-n":
			withNum = true
		case "-c":
			countOnly = true
		default:
			goto parsed
		}
	}
parsed:
	if i >= len(args) {
		errw.WriteString("grep: usage: grep [-vinc] pattern [file...]\n")
		return 2, interp.Signal{}
	}
	pat := args[i]
	files := args[i+1:]
	if ignoreCase {
		pat = "(?i)" + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		errw.WriteString("grep: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("grep: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	matches := 0
	for lineNo, line := range splitLines(content) {
		m := re.MatchString(line)
		if invert {
			m = !m
		}
		if !m {
			continue
		}
		matches++
		if countOnly {
			continue
		}
		if withNum {
			out.WriteString(strconv.Itoa(lineNo + 1) + ":")
		}
		out.WriteString(line + "\n")
	}
	if countOnly {
		out.WriteString(strconv.Itoa(matches) + "\n")
	}
	if matches == 0 {
		return 1, interp.Signal{}
	}
	return 0, interp.Signal{}
}

// bSed supports `s/pat/repl/[g]`, `-n` with `p`, and line-address
// deletes (`Nd` / `N,Md`), the subset SPEC_FULL.md §6.2 names.
func bSed(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	quiet := false
	if len(args) > 0 && args[0] == "-n" {
		quiet = true
		args = args[1:]
	}
	if len(args) == 0 {
		errw.WriteString("sed: usage: sed [-n] script [file...]\n")
		return 2, interp.Signal{}
	}
	script := args[0]
	files := args[1:]
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("sed: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	lines := splitLines(content)

	if strings.HasPrefix(script, "s") && len(script) > 1 {
		re, repl, global, err := parseSedSubst(script)
		if err != nil {
			errw.WriteString("sed: " + err.Error() + "\n")
			return 2, interp.Signal{}
		}
		for _, line := range lines {
			if global {
				line = re.ReplaceAllString(line, repl)
			} else {
				replaced := false
				line = re.ReplaceAllStringFunc(line, func(m string) string {
					if replaced {
						return m
					}
					replaced = true
					return re.ReplaceAllString(m, repl)
				})
			}
			out.WriteString(line + "\n")
		}
		return 0, interp.Signal{}
	}

	if delStart, delEnd, ok := parseSedAddrDelete(script); ok {
		for i, line := range lines {
			n := i + 1
			if n >= delStart && n <= delEnd {
				continue
			}
			out.WriteString(line + "\n")
		}
		return 0, interp.Signal{}
	}

	if script == "p" {
		for _, line := range lines {
			out.WriteString(line + "\n")
			if !quiet {
				out.WriteString(line + "\n")
			}
		}
		return 0, interp.Signal{}
	}

	errw.WriteString("sed: unsupported script: " + script + "\n")
	return 2, interp.Signal{}
}

func parseSedSubst(script string) (re *regexp.Regexp, repl string, global bool, err error) {
	if len(script) < 2 {
		return nil, "", false, errStr("empty substitution")
	}
	delim := script[1]
	parts := strings.Split(script[2:], string(delim))
	if len(parts) < 2 {
		return nil, "", false, errStr("malformed s" + string(delim) + "pat" + string(delim) + "repl" + string(delim))
	}
	pat := parts[0]
	repl = parts[1]
	flags := ""
	if len(parts) > 2 {
		flags = parts[2]
	}
	re, err = regexp.Compile(pat)
	if err != nil {
		return nil, "", false, err
	}
	return re, sedReplToGo(repl), strings.Contains(flags, "g"), nil
}

// sedReplToGo rewrites \1-style backreferences to regexp's ${1} form.
func sedReplToGo(repl string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '\\' && i+1 < len(repl) && repl[i+1] >= '0' && repl[i+1] <= '9' {
			sb.WriteString("${" + string(repl[i+1]) + "}")
			i++
			continue
		}
		sb.WriteByte(repl[i])
	}
	return sb.String()
}

func parseSedAddrDelete(script string) (start, end int, ok bool) {
	if !strings.HasSuffix(script, "d") {
		return 0, 0, false
	}
	addr := strings.TrimSuffix(script, "d")
	if addr == "" {
		return 0, 0, false
	}
	if lo, hi, found := strings.Cut(addr, ","); found {
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return l, h, true
	}
	n, err := strconv.Atoi(addr)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

type sedError string

func (e sedError) Error() string { return string(e) }
func errStr(s string) error      { return sedError(s) }

// bAwk implements the `{print $N}` / `{print}` / `-F` / `BEGIN{}` / NF /
// NR subset SPEC_FULL.md §6.2 names, not a general awk program language.
func bAwk(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	fieldSep := " "
	if len(args) >= 2 && args[0] == "-F" {
		fieldSep = args[1]
		args = args[2:]
	}
	if len(args) == 0 {
		errw.WriteString("awk: usage: awk [-F sep] program [file...]\n")
		return 2, interp.Signal{}
	}
	program := args[0]
	files := args[1:]
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("awk: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}

	beginAction, mainAction := parseAwkProgram(program)
	if beginAction != "" {
		out.WriteString(runAwkAction(beginAction, nil, 0, 0))
	}
	lines := splitLines(content)
	for i, line := range lines {
		var fields []string
		if fieldSep == " " {
			fields = strings.Fields(line)
		} else {
			fields = strings.Split(line, fieldSep)
		}
		out.WriteString(runAwkAction(mainAction, fields, len(fields), i+1))
	}
	return 0, interp.Signal{}
}

// parseAwkProgram splits `BEGIN{...}{...}` into its two action bodies;
// a program with no BEGIN block is treated as the main action alone.
func parseAwkProgram(program string) (begin, main string) {
	program = strings.TrimSpace(program)
	if strings.HasPrefix(program, "BEGIN") {
		rest := strings.TrimSpace(strings.TrimPrefix(program, "BEGIN"))
		begin, rest = extractBraces(rest)
		main, _ = extractBraces(strings.TrimSpace(rest))
		return begin, main
	}
	main, _ = extractBraces(program)
	return "", main
}

func extractBraces(s string) (inside, rest string) {
	if !strings.HasPrefix(s, "{") {
		return "", s
	}
	depth := 0
	for i, c := range s {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:]
			}
		}
	}
	return strings.TrimPrefix(s, "{"), ""
}

func runAwkAction(action string, fields []string, nf, nr int) string {
	action = strings.TrimSpace(action)
	if action == "" || action == "print" {
		return strings.Join(fields, " ") + "\n"
	}
	if !strings.HasPrefix(action, "print") {
		return ""
	}
	argsStr := strings.TrimSpace(strings.TrimPrefix(action, "print"))
	if argsStr == "" {
		return strings.Join(fields, " ") + "\n"
	}
	var parts []string
	for _, tok := range strings.Split(argsStr, ",") {
		tok = strings.TrimSpace(tok)
		parts = append(parts, awkField(tok, fields, nf, nr))
	}
	return strings.Join(parts, " ") + "\n"
}

func awkField(tok string, fields []string, nf, nr int) string {
	switch tok {
	case "NF":
		return strconv.Itoa(nf)
	case "NR":
		return strconv.Itoa(nr)
	case "$0":
		return strings.Join(fields, " ")
	}
	if strings.HasPrefix(tok, "$") {
		n, err := strconv.Atoi(tok[1:])
		if err == nil && n >= 1 && n <= len(fields) {
			return fields[n-1]
		}
		return ""
	}
	return strings.Trim(tok, `"`)
}

// bSort supports -n/-r/-u/-k per SPEC_FULL.md §6.2.
func bSort(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	var numeric, reverse, unique bool
	key := 0
	var files []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			numeric = true
		case "-r":
			reverse = true
		case "-u":
			unique = true
		case "-k":
			if i+1 < len(args) {
				i++
				key, _ = strconv.Atoi(args[i])
			}
		default:
			files = append(files, args[i])
		}
	}
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("sort: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	lines := splitLines(content)
	keyOf := func(line string) string {
		if key <= 0 {
			return line
		}
		fs := strings.Fields(line)
		if key <= len(fs) {
			return fs[key-1]
		}
		return ""
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := keyOf(lines[i]), keyOf(lines[j])
		var less bool
		if numeric {
			na, _ := strconv.ParseFloat(strings.TrimSpace(a), 64)
			nb, _ := strconv.ParseFloat(strings.TrimSpace(b), 64)
			less = na < nb
		} else {
			less = a < b
		}
		if reverse {
			return !less
		}
		return less
	})
	if unique {
		lines = dedupAdjacent(lines)
	}
	for _, l := range lines {
		out.WriteString(l + "\n")
	}
	return 0, interp.Signal{}
}

func dedupAdjacent(lines []string) []string {
	var out []string
	for i, l := range lines {
		if i == 0 || l != lines[i-1] {
			out = append(out, l)
		}
	}
	return out
}

// bWc supports -l/-w/-c with GNU-style right-aligned fixed width output.
func bWc(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	var onlyLines, onlyWords, onlyBytes bool
	var files []string
	for _, a := range args {
		switch a {
		case "-l":
			onlyLines = true
		case "-w":
			onlyWords = true
		case "-c":
			onlyBytes = true
		default:
			files = append(files, a)
		}
	}
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("wc: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	lines := len(splitLines(content))
	words := len(strings.Fields(content))
	bytes := len(content)

	var fields []int
	switch {
	case onlyLines:
		fields = []int{lines}
	case onlyWords:
		fields = []int{words}
	case onlyBytes:
		fields = []int{bytes}
	default:
		fields = []int{lines, words, bytes}
	}
	for _, f := range fields {
		out.WriteString(padWidth(f, 7) + " ")
	}
	out.WriteString(strings.Join(files, " "))
	out.WriteString("\n")
	return 0, interp.Signal{}
}

func padWidth(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = " " + s
	}
	return s
}

func bHead(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	n, files := parseHeadTailArgs(argv[1:])
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("head: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	lines := splitLines(content)
	if n > len(lines) {
		n = len(lines)
	}
	for _, l := range lines[:n] {
		out.WriteString(l + "\n")
	}
	return 0, interp.Signal{}
}

func bTail(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	n, files := parseHeadTailArgs(argv[1:])
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("tail: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	lines := splitLines(content)
	start := len(lines) - n
	if start < 0 {
		start = 0
	}
	for _, l := range lines[start:] {
		out.WriteString(l + "\n")
	}
	return 0, interp.Signal{}
}

func parseHeadTailArgs(args []string) (n int, files []string) {
	n = 10
	for i := 0; i < len(args); i++ {
		if args[i] == "-n" && i+1 < len(args) {
			n, _ = strconv.Atoi(args[i+1])
			i++
			continue
		}
		if strings.HasPrefix(args[i], "-") && len(args[i]) > 1 {
			if v, err := strconv.Atoi(args[i][1:]); err == nil {
				n = v
				continue
			}
		}
		files = append(files, args[i])
	}
	return n, files
}

func bUniq(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	withCount := false
	args := argv[1:]
	if len(args) > 0 && args[0] == "-c" {
		withCount = true
		args = args[1:]
	}
	content, err := readInput(st, stdin, args)
	if err != nil {
		errw.WriteString("uniq: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	lines := splitLines(content)
	i := 0
	for i < len(lines) {
		j := i + 1
		for j < len(lines) && lines[j] == lines[i] {
			j++
		}
		if withCount {
			out.WriteString(padWidth(j-i, 7) + " " + lines[i] + "\n")
		} else {
			out.WriteString(lines[i] + "\n")
		}
		i = j
	}
	return 0, interp.Signal{}
}

func bTr(_ context.Context, _ *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	del := false
	if len(args) > 0 && args[0] == "-d" {
		del = true
		args = args[1:]
	}
	if len(args) == 0 {
		errw.WriteString("tr: usage: tr [-d] set1 [set2]\n")
		return 2, interp.Signal{}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		errw.WriteString("tr: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	from := expandTrSet(args[0])
	if del {
		out.WriteString(strings.Map(func(r rune) rune {
			if strings.ContainsRune(from, r) {
				return -1
			}
			return r
		}, string(data)))
		return 0, interp.Signal{}
	}
	if len(args) < 2 {
		errw.WriteString("tr: missing set2\n")
		return 2, interp.Signal{}
	}
	to := expandTrSet(args[1])
	out.WriteString(strings.Map(func(r rune) rune {
		idx := strings.IndexRune(from, r)
		if idx < 0 {
			return r
		}
		if idx < len(to) {
			return rune(to[idx])
		}
		return rune(to[len(to)-1])
	}, string(data)))
	return 0, interp.Signal{}
}

func expandTrSet(set string) string {
	if strings.Contains(set, "-") && len(set) == 3 && set[1] == '-' {
		var sb strings.Builder
		for c := set[0]; c <= set[2]; c++ {
			sb.WriteByte(c)
		}
		return sb.String()
	}
	return set
}

func bCut(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	delim := "\t"
	var fieldsArg string
	var files []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-d":
			if i+1 < len(args) {
				i++
				delim = args[i]
			}
		case "-f":
			if i+1 < len(args) {
				i++
				fieldsArg = args[i]
			}
		default:
			files = append(files, args[i])
		}
	}
	content, err := readInput(st, stdin, files)
	if err != nil {
		errw.WriteString("cut: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	idxs := parseCutFields(fieldsArg)
	for _, line := range splitLines(content) {
		parts := strings.Split(line, delim)
		var selected []string
		for _, idx := range idxs {
			if idx >= 1 && idx <= len(parts) {
				selected = append(selected, parts[idx-1])
			}
		}
		out.WriteString(strings.Join(selected, delim) + "\n")
	}
	return 0, interp.Signal{}
}

func parseCutFields(spec string) []int {
	var idxs []int
	for _, part := range strings.Split(spec, ",") {
		if lo, hi, found := strings.Cut(part, "-"); found {
			l, err1 := strconv.Atoi(lo)
			h, err2 := strconv.Atoi(hi)
			if err1 == nil && err2 == nil {
				for n := l; n <= h; n++ {
					idxs = append(idxs, n)
				}
			}
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			idxs = append(idxs, n)
		}
	}
	return idxs
}

func bTee(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	appendMode := false
	args := argv[1:]
	if len(args) > 0 && args[0] == "-a" {
		appendMode = true
		args = args[1:]
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		errw.WriteString("tee: " + err.Error() + "\n")
		return 1, interp.Signal{}
	}
	out.Write(data)
	for _, p := range args {
		abs := resolvePath(st, p)
		content := string(data)
		if appendMode {
			if existing, err := st.FS.ReadFile(abs); err == nil {
				content = string(existing) + content
			}
		}
		if err := st.FS.WriteFile(abs, []byte(content)); err != nil {
			errw.WriteString("tee: " + p + ": " + errText(err) + "\n")
			return 1, interp.Signal{}
		}
	}
	return 0, interp.Signal{}
}
