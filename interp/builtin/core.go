// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

var coreBuiltins = map[string]interp.Builtin{
	":":        bNoop,
	"true":     bTrue,
	"false":    bFalse,
	"echo":     bEcho,
	"printf":   bPrintf,
	"cat":      bCat,
	"test":     bTest,
	"[":        bBracket,
	"set":      bSet,
	"export":   bExport,
	"unset":    bUnset,
	"local":    bLocal,
	"read":     bRead,
	"source":   bSource,
	".":        bSource,
	"exit":     bExit,
	"return":   bReturn,
	"break":    bBreak,
	"continue": bContinue,
	"shift":    bShift,
	"cd":       bCd,
	"pwd":      bPwd,
	"env":      bEnv,
	"printenv": bPrintenv,
}

func bNoop(_ context.Context, _ *interp.State, _ []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	return 0, interp.Signal{}
}

func bTrue(ctx context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	return 0, interp.Signal{}
}

func bFalse(_ context.Context, _ *interp.State, _ []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	return 1, interp.Signal{}
}

func bEcho(_ context.Context, _ *interp.State, argv []string, _ io.Reader, out, _ *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	newline := true
	interpretEscapes := false
	for len(args) > 0 {
		switch args[0] {
		case "-n":
			newline = false
		case "-e":
			interpretEscapes = true
		case "-E":
			interpretEscapes = false
		default:
			goto printed
		}
		args = args[1:]
	}
printed:
	for i, a := range args {
		if i > 0 {
			out.WriteByte(' ')
		}
		if interpretEscapes {
			a = expandEchoEscapes(a)
		}
		out.WriteString(a)
	}
	if newline {
		out.WriteByte('\n')
	}
	return 0, interp.Signal{}
}

func expandEchoEscapes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func bPrintf(_ context.Context, _ *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString("printf: usage: printf format [args...]\n")
		return 2, interp.Signal{}
	}
	format := argv[1]
	args := argv[2:]
	result, err := runPrintf(format, args)
	if err != nil {
		errw.WriteString("printf: " + err.Error() + "\n")
		return 1, interp.Signal{}
	}
	out.WriteString(result)
	return 0, interp.Signal{}
}

// runPrintf implements the %s/%d/%i/%x/%o/%c/%%/\n-\t subset spec.md's
// text pipeline commands actually exercise, looping the format over
// args the way POSIX printf(1) does when more args than verbs remain.
func runPrintf(format string, args []string) (string, error) {
	var out strings.Builder
	consumed := 0
	nextArg := func() string {
		if consumed < len(args) {
			a := args[consumed]
			consumed++
			return a
		}
		return ""
	}
	applyOnce := func() {
		for i := 0; i < len(format); i++ {
			c := format[i]
			if c == '\\' && i+1 < len(format) {
				i++
				switch format[i] {
				case 'n':
					out.WriteByte('\n')
				case 't':
					out.WriteByte('\t')
				case '\\':
					out.WriteByte('\\')
				default:
					out.WriteByte('\\')
					out.WriteByte(format[i])
				}
				continue
			}
			if c != '%' || i+1 >= len(format) {
				out.WriteByte(c)
				continue
			}
			i++
			switch format[i] {
			case '%':
				out.WriteByte('%')
			case 's':
				out.WriteString(nextArg())
			case 'd', 'i':
				n, _ := strconv.ParseInt(strings.TrimSpace(nextArg()), 10, 64)
				fmt.Fprintf(&out, "%d", n)
			case 'x':
				n, _ := strconv.ParseInt(strings.TrimSpace(nextArg()), 10, 64)
				fmt.Fprintf(&out, "%x", n)
			case 'o':
				n, _ := strconv.ParseInt(strings.TrimSpace(nextArg()), 10, 64)
				fmt.Fprintf(&out, "%o", n)
			case 'c':
				a := nextArg()
				if len(a) > 0 {
					out.WriteByte(a[0])
				}
			default:
				out.WriteByte('%')
				out.WriteByte(format[i])
			}
		}
	}
	if len(args) == 0 {
		applyOnce()
		return out.String(), nil
	}
	for consumed < len(args) {
		before := consumed
		applyOnce()
		if consumed == before {
			break
		}
	}
	return out.String(), nil
}

func bCat(_ context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	paths := argv[1:]
	if len(paths) == 0 {
		data, _ := io.ReadAll(stdin)
		out.Write(data)
		return 0, interp.Signal{}
	}
	exit := uint8(0)
	for _, p := range paths {
		if p == "-" {
			data, _ := io.ReadAll(stdin)
			out.Write(data)
			continue
		}
		data, err := st.FS.ReadFile(resolvePath(st, p))
		if err != nil {
			errw.WriteString("cat: " + p + ": " + errText(err) + "\n")
			exit = 1
			continue
		}
		out.Write(data)
	}
	return exit, interp.Signal{}
}

func bSet(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	i := 0
	for ; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			i++
			break
		}
		if len(a) < 2 || (a[0] != '-' && a[0] != '+') {
			break
		}
		on := a[0] == '-'
		switch a {
		case "-e", "+e":
			st.Opts.Errexit = on
		case "-u", "+u":
			st.Opts.Nounset = on
		case "-x", "+x":
			st.Opts.XTrace = on
		case "-f", "+f":
			st.Opts.NoGlob = on
		case "-o", "+o":
			if i+1 < len(args) {
				i++
				switch args[i] {
				case "pipefail":
					st.Opts.Pipefail = on
				case "errexit":
					st.Opts.Errexit = on
				case "nounset":
					st.Opts.Nounset = on
				case "xtrace":
					st.Opts.XTrace = on
				case "noglob":
					st.Opts.NoGlob = on
				}
			}
		default:
			errw.WriteString("set: unknown option " + a + "\n")
			return 2, interp.Signal{}
		}
	}
	if i < len(args) {
		st.Positional = args[i:]
	}
	return 0, interp.Signal{}
}

func bExport(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	for _, a := range argv[1:] {
		if a == "-p" {
			continue
		}
		name, value, hasValue := strings.Cut(a, "=")
		if hasValue {
			st.Set(name, value)
		}
		st.MarkExported(name)
	}
	return 0, interp.Signal{}
}

func bLocal(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	for _, a := range argv[1:] {
		name, value, _ := strings.Cut(a, "=")
		st.SetLocal(name, value)
	}
	return 0, interp.Signal{}
}

func bUnset(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	for _, a := range argv[1:] {
		if a == "-v" || a == "-f" {
			continue
		}
		st.Unset(a)
		delete(st.Functions, a)
	}
	return 0, interp.Signal{}
}

func bRead(_ context.Context, st *interp.State, argv []string, stdin io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	names := argv[1:]
	if len(names) == 0 {
		names = []string{"REPLY"}
	}
	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return 1, interp.Signal{}
	}
	line = strings.TrimSuffix(line, "\n")
	ifs, ok := st.Get("IFS")
	if !ok {
		ifs = " \t\n"
	}
	fields := strings.FieldsFunc(line, func(r rune) bool { return strings.ContainsRune(ifs, r) })
	for i, name := range names {
		if i == len(names)-1 && i < len(fields) {
			st.Set(name, strings.Join(fields[i:], " "))
		} else if i < len(fields) {
			st.Set(name, fields[i])
		} else {
			st.Set(name, "")
		}
	}
	return 0, interp.Signal{}
}

func bSource(ctx context.Context, st *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString(argv[0] + ": usage: " + argv[0] + " file\n")
		return 2, interp.Signal{}
	}
	path := resolvePath(st, argv[1])
	data, err := st.FS.ReadFile(path)
	if err != nil {
		errw.WriteString(argv[0] + ": " + argv[1] + ": " + errText(err) + "\n")
		return 1, interp.Signal{}
	}
	file, err := syntax.Parse(string(data), argv[1])
	if err != nil {
		errw.WriteString(argv[0] + ": " + err.Error() + "\n")
		return 1, interp.Signal{}
	}
	saved := st.Positional
	if len(argv) > 2 {
		st.Positional = argv[2:]
	}
	res := interp.NewRunner(ctx, st).Run(file.Stmts)
	st.Positional = saved
	out.WriteString(res.Stdout)
	errw.WriteString(res.Stderr)
	if res.Signal.Kind == interp.SigReturn {
		return uint8(res.Signal.Level), interp.Signal{}
	}
	return res.Exit, res.Signal
}

func bExit(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	code := uint8(st.LastExit)
	if len(argv) > 1 {
		n, err := strconv.Atoi(argv[1])
		if err != nil {
			errw.WriteString("exit: " + argv[1] + ": numeric argument required\n")
			return 2, interp.Signal{}
		}
		code = uint8(n)
	}
	return code, interp.Signal{Kind: interp.SigExit}
}

func bReturn(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	code := 0
	if len(argv) > 1 {
		code, _ = strconv.Atoi(argv[1])
	} else {
		code = st.LastExit
	}
	return uint8(code), interp.Signal{Kind: interp.SigReturn, Level: code}
}

func bBreak(_ context.Context, _ *interp.State, argv []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	n := 1
	if len(argv) > 1 {
		if v, err := strconv.Atoi(argv[1]); err == nil && v > 0 {
			n = v
		}
	}
	return 0, interp.Signal{Kind: interp.SigBreak, Level: n}
}

func bContinue(_ context.Context, _ *interp.State, argv []string, _ io.Reader, _, _ *strings.Builder) (uint8, interp.Signal) {
	n := 1
	if len(argv) > 1 {
		if v, err := strconv.Atoi(argv[1]); err == nil && v > 0 {
			n = v
		}
	}
	return 0, interp.Signal{Kind: interp.SigContinue, Level: n}
}

func bShift(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	n := 1
	if len(argv) > 1 {
		v, err := strconv.Atoi(argv[1])
		if err != nil {
			errw.WriteString("shift: numeric argument required\n")
			return 1, interp.Signal{}
		}
		n = v
	}
	if n > len(st.Positional) {
		st.Positional = nil
	} else {
		st.Positional = st.Positional[n:]
	}
	return 0, interp.Signal{}
}

func bCd(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	target := "/"
	if home, ok := st.Get("HOME"); ok {
		target = home
	}
	if len(argv) > 1 {
		target = argv[1]
	}
	abs := resolvePath(st, target)
	info, err := st.FS.Stat(abs)
	if err != nil || info.Kind != vfs.KindDir {
		errw.WriteString("cd: " + target + ": not a directory\n")
		return 1, interp.Signal{}
	}
	st.Cwd = abs
	st.Set("PWD", abs)
	return 0, interp.Signal{}
}

func bPwd(_ context.Context, st *interp.State, _ []string, _ io.Reader, out, _ *strings.Builder) (uint8, interp.Signal) {
	out.WriteString(st.Cwd + "\n")
	return 0, interp.Signal{}
}

func bEnv(_ context.Context, st *interp.State, _ []string, _ io.Reader, out, _ *strings.Builder) (uint8, interp.Signal) {
	var lines []string
	st.ExportedEach(func(name, value string) {
		lines = append(lines, name+"="+value)
	})
	sort.Strings(lines)
	for _, l := range lines {
		out.WriteString(l + "\n")
	}
	return 0, interp.Signal{}
}

func bPrintenv(_ context.Context, st *interp.State, argv []string, _ io.Reader, out, _ *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		return bEnv(nil, st, argv, nil, out, nil)
	}
	if !st.IsExported(argv[1]) {
		return 1, interp.Signal{}
	}
	v, _ := st.Get(argv[1])
	out.WriteString(v + "\n")
	return 0, interp.Signal{}
}

func resolvePath(st *interp.State, p string) string {
	return vfs.Clean(st.Cwd, p)
}

func errText(err error) string {
	if k, ok := vfs.KindOf(err); ok {
		return k.String()
	}
	return err.Error()
}

