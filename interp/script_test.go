// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Golden scenario tests: each testdata/script/*.txt file names a shell
// fragment and the stdout/stderr/exit code it must produce, the same
// acceptance table spec.md §8 describes. The harness mirrors the
// teacher's own cmd/shfmt testscript setup, but the "vshrun" command
// runs the fragment in-process against vsh rather than exec'ing a real
// binary, since there is no real process boundary to cross.
package interp_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rogpeppe/go-internal/testscript"

	"github.com/vshlang/vsh/vsh"
)

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"vshrun": cmdVshrun,
		},
	})
}

// cmdVshrun runs args[0] (a script file already materialized in the
// testscript work dir) against a fresh sandbox and writes its stdout,
// stderr, and exit code into actual.stdout/actual.stderr/actual.exitcode
// so the rest of the .txt script can `cmp` them against golden files.
func cmdVshrun(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: vshrun script.sh")
	}
	src := ts.ReadFile(args[0])

	st, err := vsh.New(vsh.Options{})
	if err != nil {
		ts.Fatalf("vsh.New: %v", err)
	}
	res, err := st.Exec(context.Background(), src)
	if err != nil {
		ts.Fatalf("vsh.Exec: %v", err)
	}

	writeActual(ts, "actual.stdout", res.Stdout)
	writeActual(ts, "actual.stderr", res.Stderr)
	writeActual(ts, "actual.exitcode", strconv.Itoa(res.ExitCode)+"\n")

	failed := res.ExitCode != 0
	if neg && !failed {
		ts.Fatalf("vshrun: expected a non-zero exit, got 0")
	}
	if !neg && failed {
		ts.Fatalf("vshrun: script exited %d\nstderr:\n%s", res.ExitCode, unifiedDiff("", res.Stderr))
	}
}

// unifiedDiff renders want vs. got as a unified diff, the way
// taskguild's own test failure reporting does, so a vshrun mismatch
// reads like a patch instead of two opaque blobs.
func unifiedDiff(want, got string) string {
	if want == got {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	return strings.TrimRight(text, "\n")
}

func writeActual(ts *testscript.TestScript, name, content string) {
	path := ts.MkAbs(name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		ts.Fatalf("writing %s: %v", name, err)
	}
}

