// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// lexWord reads one Word starting at the cursor, stopping at the first
// unquoted, unescaped blank, newline, or operator character. It returns
// (nil, nil) if the cursor is already sitting on a word boundary.
func (p *Parser) lexWord() (*Word, error) {
	w := &Word{}
	for {
		if p.eof() {
			break
		}
		b := p.cur()
		switch {
		case b == '\'':
			part, err := p.lexSingleQuoted()
			if err != nil {
				return nil, err
			}
			w.Parts = append(w.Parts, part)
		case b == '"':
			part, err := p.lexDoubleQuoted()
			if err != nil {
				return nil, err
			}
			w.Parts = append(w.Parts, part)
		case b == '$':
			part, err := p.lexDollar()
			if err != nil {
				return nil, err
			}
			if part != nil {
				w.Parts = append(w.Parts, part)
			}
		case b == '`':
			part, err := p.lexBacktick()
			if err != nil {
				return nil, err
			}
			w.Parts = append(w.Parts, part)
		case b == '~' && len(w.Parts) == 0:
			w.Parts = append(w.Parts, p.lexTilde())
		case b == '\\':
			if p.byteAt(1) == '\n' {
				p.adv()
				p.adv()
				continue
			}
			pos := p.curPos()
			p.adv()
			c := p.adv()
			w.Parts = append(w.Parts, &Lit{ValuePos: pos, Value: string(c)})
		case isWordBreak(b) || isBlank(b):
			goto done
		default:
			lit := p.lexLitRun()
			w.Parts = append(w.Parts, lit)
		}
	}
done:
	if len(w.Parts) == 0 {
		return nil, nil
	}
	return SplitBraces(w), nil
}

// lexHeredocWord lexes an entire heredoc body (already isolated to just
// its own lines) as a single Word. Unlike lexWord, blanks and newlines
// are ordinary literal content, and single/double quotes carry no
// special meaning: only $, `, and backslash stay significant.
func (p *Parser) lexHeredocWord() (*Word, error) {
	w := &Word{}
	for !p.eof() {
		switch p.cur() {
		case '$':
			part, err := p.lexDollar()
			if err != nil {
				return nil, err
			}
			if part != nil {
				w.Parts = append(w.Parts, part)
			}
		case '`':
			part, err := p.lexBacktick()
			if err != nil {
				return nil, err
			}
			w.Parts = append(w.Parts, part)
		case '\\':
			switch p.byteAt(1) {
			case '$', '`', '\\':
				pos := p.curPos()
				p.adv()
				c := p.adv()
				w.Parts = append(w.Parts, &Lit{ValuePos: pos, Value: string(c)})
			case '\n':
				p.adv()
				p.adv()
			default:
				pos := p.curPos()
				p.adv()
				w.Parts = append(w.Parts, &Lit{ValuePos: pos, Value: "\\"})
			}
		default:
			pos := p.curPos()
			start := p.pos
			for !p.eof() {
				c := p.cur()
				if c == '$' || c == '`' || c == '\\' {
					break
				}
				p.adv()
			}
			w.Parts = append(w.Parts, &Lit{ValuePos: pos, Value: p.src[start:p.pos]})
		}
	}
	return w, nil
}

func isLitStop(b byte) bool {
	switch b {
	case 0, '\'', '"', '$', '`', '\\':
		return true
	}
	return isWordBreak(b) || isBlank(b)
}

func (p *Parser) lexLitRun() *Lit {
	pos := p.curPos()
	start := p.pos
	for !p.eof() && !isLitStop(p.cur()) {
		p.adv()
	}
	return &Lit{ValuePos: pos, Value: p.src[start:p.pos]}
}

func (p *Parser) lexSingleQuoted() (*SglQuoted, error) {
	pos := p.curPos()
	p.adv() // '
	start := p.pos
	for !p.eof() && p.cur() != '\'' {
		p.adv()
	}
	if p.eof() {
		return nil, p.lexErrf(pos, "reached EOF without closing quote '")
	}
	val := p.src[start:p.pos]
	p.adv() // '
	return &SglQuoted{Position: pos, Value: val}, nil
}

func (p *Parser) lexDoubleQuoted() (*DblQuoted, error) {
	pos := p.curPos()
	p.adv() // "
	q := &DblQuoted{Position: pos}
	for {
		if p.eof() {
			return nil, p.lexErrf(pos, "reached EOF without closing quote \"")
		}
		b := p.cur()
		if b == '"' {
			p.adv()
			return q, nil
		}
		switch b {
		case '\\':
			nxt := p.byteAt(1)
			switch nxt {
			case '$', '`', '"', '\\':
				lpos := p.curPos()
				p.adv()
				c := p.adv()
				q.Parts = append(q.Parts, &Lit{ValuePos: lpos, Value: string(c)})
			case '\n':
				p.adv()
				p.adv()
			default:
				lpos := p.curPos()
				p.adv()
				q.Parts = append(q.Parts, &Lit{ValuePos: lpos, Value: "\\"})
			}
		case '$':
			part, err := p.lexDollar()
			if err != nil {
				return nil, err
			}
			if part != nil {
				q.Parts = append(q.Parts, part)
			}
		case '`':
			part, err := p.lexBacktick()
			if err != nil {
				return nil, err
			}
			q.Parts = append(q.Parts, part)
		default:
			lpos := p.curPos()
			start := p.pos
			for !p.eof() {
				c := p.cur()
				if c == '"' || c == '\\' || c == '$' || c == '`' {
					break
				}
				p.adv()
			}
			q.Parts = append(q.Parts, &Lit{ValuePos: lpos, Value: p.src[start:p.pos]})
		}
	}
}

func (p *Parser) lexBacktick() (*CmdSubst, error) {
	pos := p.curPos()
	p.adv() // `
	body, err := p.captureUntilBacktick(pos)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseNested(body)
	if err != nil {
		return nil, err
	}
	return &CmdSubst{Position: pos, Stmts: stmts, Backtick: true}, nil
}

func (p *Parser) lexDollar() (WordPart, error) {
	pos := p.curPos()
	switch p.byteAt(1) {
	case '{':
		p.adv()
		p.adv()
		body, err := p.captureBalanced('{', '}', pos)
		if err != nil {
			return nil, err
		}
		return parseParamExpBody(p, body, pos)
	case '(':
		if p.byteAt(2) == '(' {
			p.adv()
			p.adv()
			p.adv()
			body, err := p.captureBalanced('(', ')', pos)
			if err != nil {
				return nil, err
			}
			if p.cur() != ')' {
				return nil, p.lexErrf(pos, "reached EOF without closing $(( with ))")
			}
			p.adv()
			x, err := parseArithmString(body, pos)
			if err != nil {
				return nil, err
			}
			return &ArithmExp{Position: pos, X: x}, nil
		}
		p.adv()
		p.adv()
		body, err := p.captureBalanced('(', ')', pos)
		if err != nil {
			return nil, err
		}
		stmts, err := p.parseNested(body)
		if err != nil {
			return nil, err
		}
		return &CmdSubst{Position: pos, Stmts: stmts}, nil
	}
	nxt := p.byteAt(1)
	if nxt == 0 || (!isNameStart(nxt) && !isDigit(nxt) && strings.IndexByte("?$!#@*-", nxt) < 0) {
		// Bare '$' not followed by anything expansion-worthy: literal.
		p.adv()
		return &Lit{ValuePos: pos, Value: "$"}, nil
	}
	p.adv() // $
	if isDigit(nxt) || strings.IndexByte("?$!#@*", nxt) >= 0 {
		p.adv()
		return &ParamExp{Position: pos, Short: true, Param: string(nxt)}, nil
	}
	start := p.pos
	for !p.eof() && isNameCont(p.cur()) {
		p.adv()
	}
	name := p.src[start:p.pos]
	pe := &ParamExp{Position: pos, Short: true, Param: name}
	if p.cur() == '[' {
		idxPos := p.curPos()
		p.adv()
		body, err := p.captureBalanced('[', ']', idxPos)
		if err != nil {
			return nil, err
		}
		idxWord, err := parseWordString(body)
		if err != nil {
			return nil, err
		}
		pe.Index = idxWord
	}
	return pe, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (p *Parser) lexTilde() *Tilde {
	pos := p.curPos()
	p.adv() // ~
	if p.cur() == '/' || isWordBreak(p.cur()) || isBlank(p.cur()) || p.eof() {
		return &Tilde{Position: pos}
	}
	// ~user form: leave as literal text by backing off conceptually —
	// simplest correct behaviour is to fold the rest of the run into
	// the tilde's suffix and let expansion decide it has no matching
	// user database, rendering it back out unexpanded.
	start := p.pos
	for !p.eof() && !isWordBreak(p.cur()) && !isBlank(p.cur()) && p.cur() != '/' {
		p.adv()
	}
	return &Tilde{Position: pos, Suffix: p.src[start:p.pos]}
}
