// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vsh_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/vsh"
)

func run(t *testing.T, opts vsh.Options, src string) vsh.Result {
	t.Helper()
	st, err := vsh.New(opts)
	require.NoError(t, err)
	res, err := st.Exec(context.Background(), src)
	require.NoError(t, err)
	return res
}

func TestEcho(t *testing.T) {
	res := run(t, vsh.Options{}, "echo hello")
	require.Equal(t, "hello\n", res.Stdout)
	require.Equal(t, 0, res.ExitCode)
}

func TestArithmeticLoop(t *testing.T) {
	res := run(t, vsh.Options{}, "x=3; for i in 1 2 3; do x=$((x+i)); done; echo $x")
	require.Equal(t, "9\n", res.Stdout)
	require.Equal(t, 0, res.ExitCode)
}

func TestShortCircuitAndOr(t *testing.T) {
	res := run(t, vsh.Options{}, "false && echo nope; echo ok")
	require.Equal(t, "ok\n", res.Stdout)
	require.Equal(t, 0, res.ExitCode)
}

func TestErrexitStopsScript(t *testing.T) {
	res := run(t, vsh.Options{ShellOpts: interp.ShellOpts{Errexit: true}}, "set -e; false; echo unreachable")
	require.Equal(t, "", res.Stdout)
	require.NotEqual(t, 0, res.ExitCode)
}

func TestFunctionLocalScope(t *testing.T) {
	res := run(t, vsh.Options{}, `f(){ local x=in; echo $x; }; x=out; f; echo $x`)
	require.Equal(t, "in\nout\n", res.Stdout)
}

func TestNestedCommandSubstitution(t *testing.T) {
	res := run(t, vsh.Options{}, `echo "$(echo nested $(echo deep))"`)
	require.Equal(t, "nested deep\n", res.Stdout)
}

func TestUnsetRequiredParameter(t *testing.T) {
	res := run(t, vsh.Options{}, `echo ${UNSET:?required}`)
	require.Equal(t, "", res.Stdout)
	require.Contains(t, res.Stderr, "required")
	require.NotEqual(t, 0, res.ExitCode)
}

func TestSeededFileAndGrep(t *testing.T) {
	opts := vsh.Options{
		Files: map[string]vsh.FileSeed{
			"/a.txt": {Data: []byte("a\nb\nc\n")},
		},
	}
	res := run(t, opts, "grep b /a.txt")
	require.Equal(t, "b\n", res.Stdout)
	require.Equal(t, 0, res.ExitCode)
}

func TestPipelineIntoAwk(t *testing.T) {
	res := run(t, vsh.Options{}, "echo one two | awk '{print $2}'")
	require.Equal(t, "two\n", res.Stdout)
}

func TestDeterministicPID(t *testing.T) {
	st1, err := vsh.New(vsh.Options{})
	require.NoError(t, err)
	st2, err := vsh.New(vsh.Options{})
	require.NoError(t, err)
	res1, err := st1.Exec(context.Background(), "echo $$")
	require.NoError(t, err)
	res2, err := st2.Exec(context.Background(), "echo $$")
	require.NoError(t, err)
	require.Equal(t, res1.Stdout, res2.Stdout, "identical Options must yield identical $$")
}

func TestForkIsolation(t *testing.T) {
	st, err := vsh.New(vsh.Options{})
	require.NoError(t, err)
	_, err = st.Exec(context.Background(), "x=1")
	require.NoError(t, err)

	child := st.Fork()
	_, err = child.Exec(context.Background(), "x=2; touch /from-child")
	require.NoError(t, err)

	res, err := st.Exec(context.Background(), "echo $x; ls /")
	require.NoError(t, err)
	require.Equal(t, "1\nhome\n", res.Stdout)
	require.False(t, strings.Contains(res.Stdout, "from-child"), "parent state must not see child's writes")
}

func TestFetchWithoutCapabilityFails(t *testing.T) {
	res := run(t, vsh.Options{}, "fetch http://example.com/")
	require.NotEqual(t, 0, res.ExitCode)
	require.NotEmpty(t, res.Stderr)
}

func TestOptionsFromYAML(t *testing.T) {
	data := []byte(`
cwd: /home/user
env:
  GREETING: hi
files:
  /greeting.txt: "hi\n"
shell_opts:
  errexit: true
`)
	opts, err := vsh.OptionsFromYAML(data)
	require.NoError(t, err)
	require.Equal(t, "/home/user", opts.Cwd)
	require.Equal(t, "hi", opts.Env["GREETING"])
	require.True(t, opts.ShellOpts.Errexit)

	res := run(t, opts, "echo $GREETING; cat /greeting.txt")
	require.Equal(t, "hi\nhi\n", res.Stdout)
}

