// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/interp/builtin"
	"github.com/vshlang/vsh/vfs"
)

func newState(t *testing.T) *interp.State {
	t.Helper()
	st := interp.NewState(vfs.New(nil), "/home/user")
	st.Builtins = builtin.Registry()
	return st
}

func call(t *testing.T, st *interp.State, argv []string, stdin string) (uint8, string, string) {
	t.Helper()
	b, ok := st.Builtins[argv[0]]
	require.True(t, ok, "builtin %q must be registered", argv[0])
	var out, errw strings.Builder
	exit, _ := b(context.Background(), st, argv, strings.NewReader(stdin), &out, &errw)
	return exit, out.String(), errw.String()
}

func TestRegistryHasRequiredBuiltins(t *testing.T) {
	reg := builtin.Registry()
	required := []string{
		"cat", "echo", "printf", "true", "false", ":", "test", "[",
		"set", "export", "unset", "read", "source", ".", "exit", "return",
		"break", "continue", "shift", "cd", "pwd", "env", "printenv",
		"grep", "sed", "awk", "sort",
	}
	for _, name := range required {
		_, ok := reg[name]
		require.True(t, ok, "missing required builtin %q", name)
	}
}

func TestEchoJoinsArgsWithSpaces(t *testing.T) {
	exit, out, _ := call(t, newState(t), []string{"echo", "a", "b", "c"}, "")
	require.EqualValues(t, 0, exit)
	require.Equal(t, "a b c\n", out)
}

func TestTrueFalseExitCodes(t *testing.T) {
	exit, _, _ := call(t, newState(t), []string{"true"}, "")
	require.EqualValues(t, 0, exit)
	exit, _, _ = call(t, newState(t), []string{"false"}, "")
	require.EqualValues(t, 1, exit)
}

func TestGrepFiltersMatchingLines(t *testing.T) {
	exit, out, _ := call(t, newState(t), []string{"grep", "b"}, "a\nb\nc\n")
	require.EqualValues(t, 0, exit)
	require.Equal(t, "b\n", out)
}

func TestGrepInvertMatch(t *testing.T) {
	_, out, _ := call(t, newState(t), []string{"grep", "-v", "b"}, "a\nb\nc\n")
	require.Equal(t, "a\nc\n", out)
}

func TestSortNumeric(t *testing.T) {
	_, out, _ := call(t, newState(t), []string{"sort", "-n"}, "10\n2\n1\n")
	require.Equal(t, "1\n2\n10\n", out)
}

func TestWcLineWordByteCounts(t *testing.T) {
	_, out, _ := call(t, newState(t), []string{"wc"}, "one two\nthree\n")
	fields := strings.Fields(out)
	require.Equal(t, []string{"2", "3", "14"}, fields)
}

func TestSedSubstitution(t *testing.T) {
	_, out, _ := call(t, newState(t), []string{"sed", "s/foo/bar/"}, "foo baz\n")
	require.Equal(t, "bar baz\n", out)
}

func TestAwkPrintField(t *testing.T) {
	_, out, _ := call(t, newState(t), []string{"awk", "{print $2}"}, "one two three\n")
	require.Equal(t, "two\n", out)
}

func TestExportMarksVariableForEnv(t *testing.T) {
	st := newState(t)
	st.Set("FOO", "bar")
	call(t, st, []string{"export", "FOO"}, "")
	_, out, _ := call(t, st, []string{"env"}, "")
	require.Contains(t, out, "FOO=bar")
}

func TestUnsetRemovesVariable(t *testing.T) {
	st := newState(t)
	st.Set("FOO", "bar")
	call(t, st, []string{"unset", "FOO"}, "")
	_, ok := st.Get("FOO")
	require.False(t, ok)
}

func TestCdChangesCwd(t *testing.T) {
	st := newState(t)
	require.NoError(t, st.FS.Mkdir("/home/user/sub", true))
	exit, _, errw := call(t, st, []string{"cd", "sub"}, "")
	require.EqualValues(t, 0, exit, errw)
	require.Equal(t, "/home/user/sub", st.Cwd)
}

func TestTestBuiltinStringEquality(t *testing.T) {
	exit, _, _ := call(t, newState(t), []string{"test", "foo", "=", "foo"}, "")
	require.EqualValues(t, 0, exit)
	exit, _, _ = call(t, newState(t), []string{"test", "foo", "=", "bar"}, "")
	require.EqualValues(t, 1, exit)
}

func TestMkdirAndLs(t *testing.T) {
	st := newState(t)
	call(t, st, []string{"mkdir", "-p", "/a/b"}, "")
	call(t, st, []string{"touch", "/a/b/file.txt"}, "")
	_, out, _ := call(t, st, []string{"ls", "/a/b"}, "")
	require.Equal(t, "file.txt\n", out)
}

func TestSeqRange(t *testing.T) {
	_, out, _ := call(t, newState(t), []string{"seq", "1", "3"}, "")
	require.Equal(t, "1\n2\n3\n", out)
}

func TestDateUsesStateClock(t *testing.T) {
	st := newState(t)
	st.Clock = func() string { return "2024-01-01T00:00:00Z" }
	_, out, _ := call(t, st, []string{"date"}, "")
	require.Equal(t, "2024-01-01T00:00:00Z\n", out)
}

func TestFetchWithoutCapability(t *testing.T) {
	exit, _, errw := call(t, newState(t), []string{"fetch", "http://example.com"}, "")
	require.NotEqualValues(t, 0, exit)
	require.NotEmpty(t, errw)
}
