// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vsh

import "github.com/vshlang/vsh/syntax"

// Parse parses source into a syntax tree without executing it, for
// callers that want to inspect or validate a script before running it.
func Parse(source string) (*syntax.File, error) {
	return syntax.Parse(source, "")
}

// Tokenize scans source into its flat token stream, independent of
// grammar context.
func Tokenize(source string) ([]syntax.Token, error) {
	return syntax.Tokenize(source)
}
