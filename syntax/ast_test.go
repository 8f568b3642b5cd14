// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/vshlang/vsh/syntax"
)

// literalArgs flattens a simple command's argv into plain strings,
// ignoring position info, so tests can diff AST shape without caring
// where in the source each token started.
func literalArgs(t *testing.T, call *syntax.CallExpr) []string {
	t.Helper()
	var args []string
	for _, w := range call.Args {
		var s string
		for _, part := range w.Parts {
			lit, ok := part.(*syntax.Lit)
			require.True(t, ok, "expected a literal word part, got %T", part)
			s += lit.Value
		}
		args = append(args, s)
	}
	return args
}

func TestParseSimpleCommandShape(t *testing.T) {
	file, err := syntax.Parse("echo one two three", "")
	require.NoError(t, err)
	require.Len(t, file.Stmts, 1)

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	require.True(t, ok)

	got := literalArgs(t, call)
	want := []string{"echo", "one", "two", "three"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipelineShape(t *testing.T) {
	file, err := syntax.Parse("echo hi | cat", "")
	require.NoError(t, err)
	require.Len(t, file.Stmts, 1)

	bc, ok := file.Stmts[0].Cmd.(*syntax.BinaryCmd)
	require.True(t, ok)
	require.Equal(t, syntax.Pipe, bc.Op)

	left, ok := bc.X.Cmd.(*syntax.CallExpr)
	require.True(t, ok)
	right, ok := bc.Y.Cmd.(*syntax.CallExpr)
	require.True(t, ok)

	if diff := cmp.Diff([]string{"echo", "hi"}, literalArgs(t, left)); diff != "" {
		t.Errorf("left stage mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cat"}, literalArgs(t, right)); diff != "" {
		t.Errorf("right stage mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoundTripIgnoringPositions(t *testing.T) {
	a, err := syntax.Parse("echo hi", "a")
	require.NoError(t, err)
	b, err := syntax.Parse("echo hi", "b")
	require.NoError(t, err)

	opt := cmpopts.IgnoreFields(syntax.Pos{}, "Line", "Col")
	opt2 := cmpopts.IgnoreFields(syntax.File{}, "Name")
	if diff := cmp.Diff(a, b, opt, opt2); diff != "" {
		t.Errorf("two parses of identical source should have identical shape (-a +b):\n%s", diff)
	}
}
