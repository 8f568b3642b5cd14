// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshlang/vsh/pattern"
)

func TestMatchStar(t *testing.T) {
	ok, err := pattern.Match("*.txt", "notes.txt")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = pattern.Match("*.txt", "notes.md")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchQuestionMark(t *testing.T) {
	ok, err := pattern.Match("fil?.txt", "file.txt")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = pattern.Match("fil?.txt", "file2.txt")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchCharClass(t *testing.T) {
	ok, err := pattern.Match("[abc].txt", "b.txt")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = pattern.Match("[abc].txt", "d.txt")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchIsWholeStringAnchored(t *testing.T) {
	ok, err := pattern.Match("foo", "foobar")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasMeta(t *testing.T) {
	require.True(t, pattern.HasMeta("*.txt"))
	require.True(t, pattern.HasMeta("fil?.txt"))
	require.True(t, pattern.HasMeta("[abc]"))
	require.False(t, pattern.HasMeta("plain.txt"))
}

func TestQuoteMetaEscapesGlobChars(t *testing.T) {
	quoted := pattern.QuoteMeta("a*b?c")
	require.False(t, pattern.HasMeta(quoted))
	ok, err := pattern.Match(quoted, "a*b?c")
	require.NoError(t, err)
	require.True(t, ok)
}
