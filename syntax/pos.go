// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package syntax implements the lexer, recursive-descent parser and
// arithmetic Pratt parser for the shell language, producing an
// immutable AST.
package syntax

import "fmt"

// Pos is a source position as a 1-based line and column. It is
// comparable and zero-valued when absent.
type Pos struct {
	Line, Col uint32
}

func (p Pos) After(p2 Pos) bool {
	if p.Line != p2.Line {
		return p.Line > p2.Line
	}
	return p.Col > p2.Col
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
