// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/interp/builtin"
	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

func newState(t *testing.T) *interp.State {
	t.Helper()
	st := interp.NewState(vfs.New(nil), "/home/user")
	st.Builtins = builtin.Registry()
	return st
}

func run(t *testing.T, st *interp.State, src string) interp.Result {
	t.Helper()
	file, err := syntax.Parse(src, "")
	require.NoError(t, err)
	r := interp.NewRunner(context.Background(), st)
	return r.Run(file.Stmts)
}

func TestPipeline(t *testing.T) {
	res := run(t, newState(t), "echo one two three | cut -d ' ' -f 2")
	require.Equal(t, "two\n", res.Stdout)
	require.EqualValues(t, 0, res.Exit)
}

func TestPipelineNegation(t *testing.T) {
	st := newState(t)
	res := run(t, st, "! true | false")
	require.EqualValues(t, 0, res.Exit, "negating a failing pipeline succeeds")

	res = run(t, st, "! true | true")
	require.NotEqualValues(t, 0, res.Exit, "negating a succeeding pipeline fails")
}

func TestPipefail(t *testing.T) {
	st := newState(t)
	run(t, st, "set -o pipefail")
	res := run(t, st, "false | true")
	require.NotEqualValues(t, 0, res.Exit)
}

func TestRedirectOutputToFile(t *testing.T) {
	st := newState(t)
	run(t, st, "echo hi > /out.txt")
	data, err := st.FS.ReadFile("/out.txt")
	require.NoError(t, err)
	require.Equal(t, "hi\n", string(data))
}

func TestRedirectAppend(t *testing.T) {
	st := newState(t)
	run(t, st, "echo one > /out.txt")
	run(t, st, "echo two >> /out.txt")
	data, err := st.FS.ReadFile("/out.txt")
	require.NoError(t, err)
	require.Equal(t, "one\ntwo\n", string(data))
}

func TestStdoutRedirectToStderr(t *testing.T) {
	st := newState(t)
	res := run(t, st, "echo oops 1>&2")
	require.Equal(t, "", res.Stdout)
	require.Equal(t, "oops\n", res.Stderr)
}

func TestHeredoc(t *testing.T) {
	res := run(t, newState(t), "cat <<EOF\nline1\nline2\nEOF")
	require.Equal(t, "line1\nline2\n", res.Stdout)
}

func TestTemporaryAssignmentDoesNotLeak(t *testing.T) {
	st := newState(t)
	run(t, st, "FOO=bar true")
	_, ok := st.Get("FOO")
	require.False(t, ok, "a per-command assignment must not persist")
}

func TestPermanentAssignmentPersists(t *testing.T) {
	st := newState(t)
	run(t, st, "FOO=bar")
	v, ok := st.Get("FOO")
	require.True(t, ok)
	require.Equal(t, "bar", v)
}

func TestBreakStopsLoop(t *testing.T) {
	res := run(t, newState(t), "for i in 1 2 3 4; do [ $i -eq 3 ] && break; echo $i; done")
	require.Equal(t, "1\n2\n", res.Stdout)
}

func TestContinueSkipsIteration(t *testing.T) {
	res := run(t, newState(t), "for i in 1 2 3; do [ $i -eq 2 ] && continue; echo $i; done")
	require.Equal(t, "1\n3\n", res.Stdout)
}

func TestFunctionReturnValue(t *testing.T) {
	res := run(t, newState(t), "f(){ return 7; }; f; echo $?")
	require.Equal(t, "7\n", res.Stdout)
}

func TestCaseMatching(t *testing.T) {
	res := run(t, newState(t), `x=b; case $x in a) echo A;; b) echo B;; *) echo Z;; esac`)
	require.Equal(t, "B\n", res.Stdout)
}

func TestXTraceEmitsPS4Lines(t *testing.T) {
	st := newState(t)
	st.Opts.XTrace = true
	res := run(t, st, "echo hi")
	require.Contains(t, res.Stderr, "+ echo hi")
	require.Equal(t, "hi\n", res.Stdout)
}
