// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

var testUnaryOps = map[string]TestUnaryOp{
	"-e": TestExists,
	"-f": TestRegular,
	"-d": TestDir,
	"-r": TestReadable,
	"-w": TestWritable,
	"-x": TestExecutable,
	"-s": TestNonEmptyFile,
	"-L": TestSymlink,
	"-h": TestSymlink,
	"-v": TestSet,
	"-z": TestStrEmpty,
	"-n": TestStrNonEmpty,
	"-b": TestUnsupported,
	"-c": TestUnsupported,
	"-p": TestUnsupported,
	"-S": TestUnsupported,
	"-g": TestUnsupported,
	"-u": TestUnsupported,
	"-t": TestUnsupported,
}

var testBinOps = []struct {
	op  string
	res TestBinaryOp
}{
	{"-eq", TestIntEq}, {"-ne", TestIntNe}, {"-le", TestIntLe}, {"-ge", TestIntGe},
	{"-lt", TestIntLt}, {"-gt", TestIntGt},
	{"-nt", TestNewer}, {"-ot", TestOlder}, {"-ef", TestSameFile},
	{"==", TestStrEq}, {"=~", TestReMatch}, {"!=", TestStrNe},
	{"=", TestStrEq}, {"<", TestStrLt}, {">", TestStrGt},
}

// parseTestExpr parses the boolean tree inside `[[ ... ]]`.
func (p *Parser) parseTestExpr() (TestExpr, error) {
	return p.parseTestOr()
}

func (p *Parser) parseTestOr() (TestExpr, error) {
	x, err := p.parseTestAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipBlanksAndComment()
		if p.cur() == '|' && p.byteAt(1) == '|' {
			p.adv()
			p.adv()
			p.skipSeparators()
			y, err := p.parseTestAnd()
			if err != nil {
				return nil, err
			}
			x = &OrTest{X: x, Y: y}
			continue
		}
		return x, nil
	}
}

func (p *Parser) parseTestAnd() (TestExpr, error) {
	x, err := p.parseTestPrimary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipBlanksAndComment()
		if p.cur() == '&' && p.byteAt(1) == '&' {
			p.adv()
			p.adv()
			p.skipSeparators()
			y, err := p.parseTestPrimary()
			if err != nil {
				return nil, err
			}
			x = &AndTest{X: x, Y: y}
			continue
		}
		return x, nil
	}
}

func (p *Parser) parseTestPrimary() (TestExpr, error) {
	p.skipBlanksAndComment()
	if p.cur() == '!' && (isBlank(p.byteAt(1)) || p.byteAt(1) == '\n') {
		pos := p.curPos()
		p.adv()
		p.skipSeparators()
		x, err := p.parseTestPrimary()
		if err != nil {
			return nil, err
		}
		return &NotTest{Bang: pos, X: x}, nil
	}
	if p.cur() == '(' {
		pos := p.curPos()
		p.adv()
		p.skipSeparators()
		x, err := p.parseTestOr()
		if err != nil {
			return nil, err
		}
		p.skipBlanksAndComment()
		if p.cur() != ')' {
			return nil, p.errf(pos, "expected ) in [[ ]] expression")
		}
		p.adv()
		return &ParenTest{Lparen: pos, X: x}, nil
	}
	if op := p.peekTestOpWord(); op != "" {
		if unOp, ok := testUnaryOps[op]; ok {
			pos := p.curPos()
			p.consumeLit(op)
			p.skipBlanks()
			operand, err := p.lexWord()
			if err != nil {
				return nil, err
			}
			if operand == nil {
				return nil, p.errf(pos, "expected operand after %s", op)
			}
			return &UnaryTest{OpPos: pos, Op: unOp, X: operand}, nil
		}
	}
	left, err := p.lexWord()
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, p.errf(p.curPos(), "expected expression in [[ ]]")
	}
	p.skipBlanks()
	if binOp, n, ok := p.peekTestBinOp(); ok {
		pos := p.curPos()
		for i := 0; i < n; i++ {
			p.adv()
		}
		p.skipBlanks()
		right, err := p.lexWord()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.errf(pos, "expected operand after operator")
		}
		return &BinaryTest{OpPos: pos, Op: binOp, X: left, Y: right}, nil
	}
	return &WordTest{X: left}, nil
}

func (p *Parser) peekTestOpWord() string {
	if p.cur() != '-' {
		return ""
	}
	j := p.pos + 1
	for j < len(p.src) && isNameCont(p.src[j]) {
		j++
	}
	return p.src[p.pos:j]
}

func (p *Parser) peekTestBinOp() (TestBinaryOp, int, bool) {
	for _, c := range testBinOps {
		n := len(c.op)
		if p.pos+n > len(p.src) || p.src[p.pos:p.pos+n] != c.op {
			continue
		}
		if c.op[0] == '-' {
			if p.pos+n < len(p.src) && isNameCont(p.src[p.pos+n]) {
				continue
			}
		}
		return c.res, n, true
	}
	return 0, 0, false
}
