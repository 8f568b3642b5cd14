// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"
)

// This file holds the character-level scanning primitives shared by the
// word-part lexer and the statement grammar in parser.go. Both operate
// on the same *Parser cursor, mirroring how a hand-written POSIX-shell
// lexer and parser cooperate in practice: word boundaries can only be
// decided with grammar context (is this name position a keyword?), so
// the two stages share a cursor rather than communicating over an
// independent token channel.

func isBlank(b byte) bool { return b == ' ' || b == '\t' }

func isWordBreak(b byte) bool {
	switch b {
	case 0, ' ', '\t', '\n', '|', '&', ';', '<', '>', '(', ')':
		return true
	}
	return false
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameCont(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}

// ValidName reports whether s is a valid shell identifier.
func ValidName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameCont(s[i]) {
			return false
		}
	}
	return true
}

func (p *Parser) eof() bool { return p.pos >= len(p.src) }

func (p *Parser) byteAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *Parser) cur() byte { return p.byteAt(0) }

func (p *Parser) curPos() Pos { return Pos{Line: p.line, Col: p.col} }

// adv consumes and returns the current byte, or 0 at EOF.
func (p *Parser) adv() byte {
	if p.eof() {
		return 0
	}
	b := p.src[p.pos]
	p.pos++
	if b == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return b
}

func (p *Parser) skipBlanks() {
	for isBlank(p.cur()) {
		p.adv()
	}
}

// skipBlanksAndComment skips blanks and, if a comment starts, the rest
// of the line (not the newline itself).
func (p *Parser) skipBlanksAndComment() {
	for {
		p.skipBlanks()
		if p.cur() == '#' {
			for !p.eof() && p.cur() != '\n' {
				p.adv()
			}
			continue
		}
		if p.cur() == '\\' && p.byteAt(1) == '\n' {
			p.adv()
			p.adv()
			continue
		}
		break
	}
}

func (p *Parser) errf(pos Pos, format string, args ...any) error {
	return &ParseError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) lexErrf(pos Pos, format string, args ...any) error {
	return &LexError{Position: pos, Reason: fmt.Sprintf(format, args...)}
}

// captureBalanced reads from just after an opening delimiter (already
// consumed by the caller) up to and including its matching closer,
// honoring quotes and nested instances of the same opener, and returns
// the text in between (byte-accurate, per spec.md §4.1).
func (p *Parser) captureBalanced(open, close byte, startPos Pos) (string, error) {
	depth := 1
	start := p.pos
	for {
		if p.eof() {
			return "", p.lexErrf(startPos, "reached EOF without matching %q", close)
		}
		b := p.cur()
		switch b {
		case '\\':
			p.adv()
			if !p.eof() {
				p.adv()
			}
			continue
		case '\'':
			p.adv()
			for !p.eof() && p.cur() != '\'' {
				p.adv()
			}
			if p.eof() {
				return "", p.lexErrf(startPos, "reached EOF without closing quote")
			}
			p.adv()
			continue
		case '"':
			p.adv()
			for !p.eof() && p.cur() != '"' {
				if p.cur() == '\\' {
					p.adv()
				}
				if !p.eof() {
					p.adv()
				}
			}
			if p.eof() {
				return "", p.lexErrf(startPos, "reached EOF without closing quote")
			}
			p.adv()
			continue
		case open:
			depth++
			p.adv()
			continue
		case close:
			depth--
			p.adv()
			if depth == 0 {
				return p.src[start : p.pos-1], nil
			}
			continue
		default:
			p.adv()
		}
	}
}

// captureUntilBacktick reads up to the next unescaped backtick.
func (p *Parser) captureUntilBacktick(startPos Pos) (string, error) {
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.lexErrf(startPos, "reached EOF without closing backtick")
		}
		b := p.cur()
		if b == '`' {
			p.adv()
			return sb.String(), nil
		}
		if b == '\\' && (p.byteAt(1) == '`' || p.byteAt(1) == '\\' || p.byteAt(1) == '$') {
			p.adv()
			sb.WriteByte(p.adv())
			continue
		}
		sb.WriteByte(p.adv())
	}
}
