// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/vshlang/vsh/interp"
)

var miscBuiltins = map[string]interp.Builtin{
	"date":  bDate,
	"seq":   bSeq,
	"xargs": bXargs,
	"fetch": bFetch,
}

// bDate is UTC-only and driven by State.Clock (never time.Now), per the
// Open Question resolved in SPEC_FULL.md §9.
func bDate(_ context.Context, st *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if st.Clock == nil {
		errw.WriteString("date: no clock configured\n")
		return 1, interp.Signal{}
	}
	out.WriteString(st.Clock() + "\n")
	return 0, interp.Signal{}
}

func bSeq(_ context.Context, _ *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	var start, step int64 = 1, 1
	var end int64
	var err error
	switch len(args) {
	case 1:
		end, err = strconv.ParseInt(args[0], 10, 64)
	case 2:
		start, err = strconv.ParseInt(args[0], 10, 64)
		if err == nil {
			end, err = strconv.ParseInt(args[1], 10, 64)
		}
	case 3:
		start, err = strconv.ParseInt(args[0], 10, 64)
		if err == nil {
			step, err = strconv.ParseInt(args[1], 10, 64)
		}
		if err == nil {
			end, err = strconv.ParseInt(args[2], 10, 64)
		}
	default:
		errw.WriteString("seq: usage: seq [first [step]] last\n")
		return 2, interp.Signal{}
	}
	if err != nil {
		errw.WriteString("seq: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	if step == 0 {
		errw.WriteString("seq: step must not be zero\n")
		return 1, interp.Signal{}
	}
	if step > 0 {
		for n := start; n <= end; n += step {
			out.WriteString(strconv.FormatInt(n, 10) + "\n")
		}
	} else {
		for n := start; n >= end; n += step {
			out.WriteString(strconv.FormatInt(n, 10) + "\n")
		}
	}
	return 0, interp.Signal{}
}

// bXargs runs a single command once per whitespace-split stdin token
// batch, with no -P concurrency (spec.md §5 forbids it anyway).
func bXargs(ctx context.Context, st *interp.State, argv []string, stdin io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString("xargs: usage: xargs command [args...]\n")
		return 2, interp.Signal{}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		errw.WriteString("xargs: " + err.Error() + "\n")
		return 1, interp.Signal{}
	}
	tokens := strings.Fields(string(data))
	name := argv[1]
	baseArgs := argv[2:]
	fullArgv := append(append([]string{}, name), append(baseArgs, tokens...)...)
	b, found := st.Builtins[name]
	if !found {
		errw.WriteString("xargs: " + name + ": command not found\n")
		return 127, interp.Signal{}
	}
	var bout, berr strings.Builder
	exit, sig := b(ctx, st, fullArgv, strings.NewReader(""), &bout, &berr)
	out.WriteString(bout.String())
	errw.WriteString(berr.String())
	return exit, sig
}

// bFetch is the only builtin allowed to touch HTTPCapability, per
// SPEC_FULL.md §4.11/§6.3: absent capability or a disallowed host never
// panics or performs a real DNS lookup, it just fails the command.
func bFetch(_ context.Context, st *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString("fetch: usage: fetch url\n")
		return 2, interp.Signal{}
	}
	if st.HTTP == nil {
		errw.WriteString("fetch: no HTTP capability configured\n")
		return 1, interp.Signal{}
	}
	status, body, err := st.HTTP.Fetch(argv[1])
	if err != nil {
		errw.WriteString("fetch: " + err.Error() + "\n")
		return 1, interp.Signal{}
	}
	if status < 200 || status >= 300 {
		errw.WriteString("fetch: " + argv[1] + ": http " + strconv.Itoa(status) + "\n")
		return 1, interp.Signal{}
	}
	out.WriteString(body)
	return 0, interp.Signal{}
}
