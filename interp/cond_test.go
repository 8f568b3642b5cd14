// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubleBracketStringEquality(t *testing.T) {
	res := run(t, newState(t), `x=foo; if [[ $x == foo ]]; then echo yes; else echo no; fi`)
	require.Equal(t, "yes\n", res.Stdout)
}

func TestDoubleBracketGlobMatch(t *testing.T) {
	res := run(t, newState(t), `x=hello.txt; if [[ $x == *.txt ]]; then echo match; fi`)
	require.Equal(t, "match\n", res.Stdout)
}

func TestDoubleBracketRegexMatch(t *testing.T) {
	res := run(t, newState(t), `x=abc123; if [[ $x =~ ^[a-z]+[0-9]+$ ]]; then echo match; fi`)
	require.Equal(t, "match\n", res.Stdout)
}

func TestDoubleBracketAndOr(t *testing.T) {
	res := run(t, newState(t), `x=5; if [[ $x -gt 0 && $x -lt 10 ]]; then echo in-range; fi`)
	require.Equal(t, "in-range\n", res.Stdout)
}

func TestDoubleBracketNegation(t *testing.T) {
	res := run(t, newState(t), `x=""; if [[ ! -n $x ]]; then echo empty; fi`)
	require.Equal(t, "empty\n", res.Stdout)
}

func TestDoubleBracketFileExistence(t *testing.T) {
	st := newState(t)
	run(t, st, "touch /marker")
	res := run(t, st, `if [[ -e /marker ]]; then echo present; fi`)
	require.Equal(t, "present\n", res.Stdout)
}
