// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

// ArithmExpr is the tagged-union interface for arithmetic-expression AST
// nodes produced by the Pratt parser (spec.md §4.3).
type ArithmExpr interface {
	Node
	arithmExprNode()
}

func (*WordArithm) arithmExprNode()   {}
func (*BinaryArithm) arithmExprNode() {}
func (*UnaryArithm) arithmExprNode()  {}
func (*ParenArithm) arithmExprNode()  {}
func (*TernaryArithm) arithmExprNode() {}
func (*AssignArithm) arithmExprNode() {}
func (*CommaArithm) arithmExprNode()  {}

// WordArithm wraps a Word leaf: an integer literal or a variable name to
// be resolved dynamically by the evaluator.
type WordArithm struct {
	X *Word
}

func (w *WordArithm) Pos() Pos { return w.X.Pos() }

// ArithmOp enumerates every operator the arithmetic grammar accepts.
type ArithmOp int

const (
	ArAdd ArithmOp = iota
	ArSub
	ArMul
	ArQuo
	ArRem
	ArPow
	ArEql
	ArNeq
	ArLss
	ArGtr
	ArLeq
	ArGeq
	ArAndArith // &
	ArOrArith  // |
	ArXorArith // ^
	ArShl
	ArShr
	ArLand // &&
	ArLor  // ||
	ArComma
	ArNot    // !
	ArBitNeg // ~
	ArInc
	ArDec
	ArAssign
	ArAddAssign
	ArSubAssign
	ArMulAssign
	ArQuoAssign
	ArRemAssign
	ArAndAssign
	ArOrAssign
	ArXorAssign
	ArShlAssign
	ArShrAssign
)

// BinaryArithm is a left-op-right arithmetic expression.
type BinaryArithm struct {
	OpPos Pos
	Op    ArithmOp
	X, Y  ArithmExpr
}

func (b *BinaryArithm) Pos() Pos { return b.X.Pos() }

// UnaryArithm is a prefix or postfix unary arithmetic expression: -x, !x,
// ~x, ++x, x++, --x, x--.
type UnaryArithm struct {
	OpPos Pos
	Op    ArithmOp
	X     ArithmExpr
	Post  bool
}

func (u *UnaryArithm) Pos() Pos { return u.OpPos }

// ParenArithm is a parenthesized sub-expression.
type ParenArithm struct {
	Lparen Pos
	X      ArithmExpr
}

func (p *ParenArithm) Pos() Pos { return p.Lparen }

// TernaryArithm is `cond ? then : else`.
type TernaryArithm struct {
	Cond, Then, Else ArithmExpr
}

func (t *TernaryArithm) Pos() Pos { return t.Cond.Pos() }

// AssignArithm is `name op= expr` (including plain `name = expr`).
type AssignArithm struct {
	Name string
	Op   ArithmOp
	X    ArithmExpr
}

func (a *AssignArithm) Pos() Pos { return a.X.Pos() }

// CommaArithm is the comma-sequence operator: `a, b, c` evaluates all
// and yields the last.
type CommaArithm struct {
	Exprs []ArithmExpr
}

func (c *CommaArithm) Pos() Pos {
	if len(c.Exprs) == 0 {
		return Pos{}
	}
	return c.Exprs[0].Pos()
}

// TestExpr is the tagged-union interface for the boolean tree inside a
// `[[ ... ]]` conditional (spec.md §4.5).
type TestExpr interface {
	Node
	testExprNode()
}

func (*UnaryTest) testExprNode()  {}
func (*BinaryTest) testExprNode() {}
func (*NotTest) testExprNode()    {}
func (*AndTest) testExprNode()    {}
func (*OrTest) testExprNode()     {}
func (*ParenTest) testExprNode()  {}
func (*WordTest) testExprNode()   {}

// TestUnaryOp enumerates the single-operand file/string tests.
type TestUnaryOp int

const (
	TestExists TestUnaryOp = iota // -e
	TestRegular                   // -f
	TestDir                       // -d
	TestReadable                  // -r
	TestWritable                  // -w
	TestExecutable                // -x
	TestNonEmptyFile              // -s
	TestSymlink                   // -L / -h
	TestSet                       // -v
	TestStrEmpty                  // -z
	TestStrNonEmpty               // -n
	TestUnsupported                // -b -c -p -S -g -u -t: always false
)

// UnaryTest is `-op word`.
type UnaryTest struct {
	OpPos Pos
	Op    TestUnaryOp
	X     *Word
}

func (u *UnaryTest) Pos() Pos { return u.OpPos }

// TestBinaryOp enumerates the two-operand tests.
type TestBinaryOp int

const (
	TestStrEq  TestBinaryOp = iota // = / ==  (glob match)
	TestStrNe                      // !=      (glob match)
	TestStrLt                      // <
	TestStrGt                      // >
	TestReMatch                    // =~
	TestIntEq                      // -eq
	TestIntNe                      // -ne
	TestIntLt                      // -lt
	TestIntLe                      // -le
	TestIntGt                      // -gt
	TestIntGe                      // -ge
	TestNewer                      // -nt
	TestOlder                      // -ot
	TestSameFile                   // -ef
)

// BinaryTest is `word op word`.
type BinaryTest struct {
	OpPos Pos
	Op    TestBinaryOp
	X, Y  *Word
}

func (b *BinaryTest) Pos() Pos { return b.OpPos }

// NotTest is `! expr`.
type NotTest struct {
	Bang Pos
	X    TestExpr
}

func (n *NotTest) Pos() Pos { return n.Bang }

// AndTest is `expr && expr`.
type AndTest struct{ X, Y TestExpr }

func (a *AndTest) Pos() Pos { return a.X.Pos() }

// OrTest is `expr || expr`.
type OrTest struct{ X, Y TestExpr }

func (o *OrTest) Pos() Pos { return o.X.Pos() }

// ParenTest is a parenthesized sub-expression.
type ParenTest struct {
	Lparen Pos
	X      TestExpr
}

func (p *ParenTest) Pos() Pos { return p.Lparen }

// WordTest is a single bare word, true when it's non-empty after
// expansion (the implicit `-n` of a lone `[[ $x ]]`).
type WordTest struct{ X *Word }

func (w *WordTest) Pos() Pos { return w.X.Pos() }
