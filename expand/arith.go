// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"strconv"
	"strings"

	"github.com/vshlang/vsh/syntax"
)

// Arithm evaluates an arithmetic expression tree against cfg's
// environment, per the coercion and error rules in spec.md §4.3: reads
// coerce string-to-integer via trimmed-decimal parsing (falling back to
// 0 on failure), writes store the decimal string, division/modulo by
// zero return ArithError, and `x**n` for n<0 yields 0.
func Arithm(x syntax.ArithmExpr, cfg *Config) (int64, error) {
	return evalArithm(x, cfg)
}

func evalArithm(x syntax.ArithmExpr, cfg *Config) (int64, error) {
	switch x := x.(type) {
	case *syntax.WordArithm:
		return readArithmWord(x.X, cfg)
	case *syntax.ParenArithm:
		return evalArithm(x.X, cfg)
	case *syntax.CommaArithm:
		var last int64
		for _, e := range x.Exprs {
			v, err := evalArithm(e, cfg)
			if err != nil {
				return 0, err
			}
			last = v
		}
		return last, nil
	case *syntax.TernaryArithm:
		c, err := evalArithm(x.Cond, cfg)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return evalArithm(x.Then, cfg)
		}
		return evalArithm(x.Else, cfg)
	case *syntax.UnaryArithm:
		return evalUnary(x, cfg)
	case *syntax.BinaryArithm:
		return evalBinary(x, cfg)
	case *syntax.AssignArithm:
		return evalAssign(x, cfg)
	}
	return 0, nil
}

func readArithmWord(w *syntax.Word, cfg *Config) (int64, error) {
	lit := w.Lit()
	if lit == "" {
		return 0, nil
	}
	if isArithmName(lit) {
		v, _ := cfg.Env.Get(lit)
		return coerceInt(v), nil
	}
	return parseIntLit(lit), nil
}

func isArithmName(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func parseIntLit(lit string) int64 {
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return 0
	}
	return v
}

// coerceInt implements the read coercion from spec.md §4.3: trimmed
// decimal parse, 0 on failure.
func coerceInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func evalUnary(u *syntax.UnaryArithm, cfg *Config) (int64, error) {
	if u.Op == syntax.ArInc || u.Op == syntax.ArDec {
		name := arithmVarName(u.X)
		cur, err := evalArithm(u.X, cfg)
		if err != nil {
			return 0, err
		}
		next := cur + 1
		if u.Op == syntax.ArDec {
			next = cur - 1
		}
		if name != "" {
			cfg.Env.Set(name, strconv.FormatInt(next, 10))
		}
		if u.Post {
			return cur, nil
		}
		return next, nil
	}
	v, err := evalArithm(u.X, cfg)
	if err != nil {
		return 0, err
	}
	switch u.Op {
	case syntax.ArAdd:
		return v, nil
	case syntax.ArSub:
		return -v, nil
	case syntax.ArNot:
		if v == 0 {
			return 1, nil
		}
		return 0, nil
	case syntax.ArBitNeg:
		return ^v, nil
	}
	return v, nil
}

func arithmVarName(x syntax.ArithmExpr) string {
	w, ok := x.(*syntax.WordArithm)
	if !ok {
		return ""
	}
	lit := w.X.Lit()
	if isArithmName(lit) {
		return lit
	}
	return ""
}

func evalBinary(b *syntax.BinaryArithm, cfg *Config) (int64, error) {
	// Short-circuit && and ||: the right operand must not evaluate
	// (and must not apply its side effects) when the left decides it.
	if b.Op == syntax.ArLand {
		x, err := evalArithm(b.X, cfg)
		if err != nil {
			return 0, err
		}
		if x == 0 {
			return 0, nil
		}
		y, err := evalArithm(b.Y, cfg)
		if err != nil {
			return 0, err
		}
		return boolInt(y != 0), nil
	}
	if b.Op == syntax.ArLor {
		x, err := evalArithm(b.X, cfg)
		if err != nil {
			return 0, err
		}
		if x != 0 {
			return 1, nil
		}
		y, err := evalArithm(b.Y, cfg)
		if err != nil {
			return 0, err
		}
		return boolInt(y != 0), nil
	}
	x, err := evalArithm(b.X, cfg)
	if err != nil {
		return 0, err
	}
	y, err := evalArithm(b.Y, cfg)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case syntax.ArAdd:
		return x + y, nil
	case syntax.ArSub:
		return x - y, nil
	case syntax.ArMul:
		return x * y, nil
	case syntax.ArQuo:
		if y == 0 {
			return 0, ArithError{Op: "division"}
		}
		return x / y, nil
	case syntax.ArRem:
		if y == 0 {
			return 0, ArithError{Op: "remainder"}
		}
		return x % y, nil
	case syntax.ArPow:
		return intPow(x, y), nil
	case syntax.ArEql:
		return boolInt(x == y), nil
	case syntax.ArNeq:
		return boolInt(x != y), nil
	case syntax.ArLss:
		return boolInt(x < y), nil
	case syntax.ArGtr:
		return boolInt(x > y), nil
	case syntax.ArLeq:
		return boolInt(x <= y), nil
	case syntax.ArGeq:
		return boolInt(x >= y), nil
	case syntax.ArAndArith:
		return x & y, nil
	case syntax.ArOrArith:
		return x | y, nil
	case syntax.ArXorArith:
		return x ^ y, nil
	case syntax.ArShl:
		return x << uint(y), nil
	case syntax.ArShr:
		return x >> uint(y), nil
	}
	return 0, nil
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func evalAssign(a *syntax.AssignArithm, cfg *Config) (int64, error) {
	rhs, err := evalArithm(a.X, cfg)
	if err != nil {
		return 0, err
	}
	if a.Op == syntax.ArAssign {
		cfg.Env.Set(a.Name, strconv.FormatInt(rhs, 10))
		return rhs, nil
	}
	cur := coerceInt(firstOr(cfg.Env, a.Name))
	var next int64
	switch a.Op {
	case syntax.ArAddAssign:
		next = cur + rhs
	case syntax.ArSubAssign:
		next = cur - rhs
	case syntax.ArMulAssign:
		next = cur * rhs
	case syntax.ArQuoAssign:
		if rhs == 0 {
			return 0, ArithError{Op: "division"}
		}
		next = cur / rhs
	case syntax.ArRemAssign:
		if rhs == 0 {
			return 0, ArithError{Op: "remainder"}
		}
		next = cur % rhs
	case syntax.ArAndAssign:
		next = cur & rhs
	case syntax.ArOrAssign:
		next = cur | rhs
	case syntax.ArXorAssign:
		next = cur ^ rhs
	case syntax.ArShlAssign:
		next = cur << uint(rhs)
	case syntax.ArShrAssign:
		next = cur >> uint(rhs)
	}
	cfg.Env.Set(a.Name, strconv.FormatInt(next, 10))
	return next, nil
}

func firstOr(env Environ, name string) string {
	v, _ := env.Get(name)
	return v
}
