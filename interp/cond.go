// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"regexp"

	"github.com/vshlang/vsh/expand"
	"github.com/vshlang/vsh/pattern"
	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

// evalTest walks the boolean tree inside `[[ ... ]]` (spec.md §4.5). File
// tests go through vfs.FS; string/glob/regexp tests reuse the expand and
// pattern packages so the semantics never drift from word expansion.
func (r *Runner) evalTest(x syntax.TestExpr) (bool, error) {
	cfg := r.cfg()
	switch t := x.(type) {
	case *syntax.WordTest:
		s, err := expand.Literal(t.X, cfg)
		if err != nil {
			return false, err
		}
		return s != "", nil
	case *syntax.NotTest:
		b, err := r.evalTest(t.X)
		return !b, err
	case *syntax.AndTest:
		b, err := r.evalTest(t.X)
		if err != nil || !b {
			return false, err
		}
		return r.evalTest(t.Y)
	case *syntax.OrTest:
		b, err := r.evalTest(t.X)
		if err != nil || b {
			return b, err
		}
		return r.evalTest(t.Y)
	case *syntax.ParenTest:
		return r.evalTest(t.X)
	case *syntax.UnaryTest:
		return r.evalUnaryTest(t, cfg)
	case *syntax.BinaryTest:
		return r.evalBinaryTest(t, cfg)
	}
	return false, nil
}

func (r *Runner) evalUnaryTest(t *syntax.UnaryTest, cfg *expand.Config) (bool, error) {
	s, err := expand.Literal(t.X, cfg)
	if err != nil {
		return false, err
	}
	switch t.Op {
	case syntax.TestStrEmpty:
		return s == "", nil
	case syntax.TestStrNonEmpty:
		return s != "", nil
	case syntax.TestSet:
		_, ok := r.St.Get(s)
		return ok, nil
	case syntax.TestUnsupported:
		return false, nil
	}

	path := resolvePath(r.St.Cwd, s)
	switch t.Op {
	case syntax.TestExists:
		return r.St.FS.Exists(path), nil
	case syntax.TestRegular:
		info, err := r.St.FS.Stat(path)
		return err == nil && info.Kind == vfs.KindFile, nil
	case syntax.TestDir:
		info, err := r.St.FS.Stat(path)
		return err == nil && info.Kind == vfs.KindDir, nil
	case syntax.TestSymlink:
		info, err := r.St.FS.Lstat(path)
		return err == nil && info.Kind == vfs.KindSymlink, nil
	case syntax.TestNonEmptyFile:
		info, err := r.St.FS.Stat(path)
		return err == nil && info.Size > 0, nil
	case syntax.TestReadable, syntax.TestWritable, syntax.TestExecutable:
		return r.St.FS.Exists(path), nil
	}
	return false, nil
}

func (r *Runner) evalBinaryTest(t *syntax.BinaryTest, cfg *expand.Config) (bool, error) {
	switch t.Op {
	case syntax.TestStrEq, syntax.TestStrNe:
		lhs, err := expand.Literal(t.X, cfg)
		if err != nil {
			return false, err
		}
		pat, err := expand.Pattern(t.Y, cfg)
		if err != nil {
			return false, err
		}
		m, err := matchPattern(pat, lhs)
		if err != nil {
			return false, err
		}
		if t.Op == syntax.TestStrNe {
			return !m, nil
		}
		return m, nil
	case syntax.TestStrLt, syntax.TestStrGt:
		lhs, err := expand.Literal(t.X, cfg)
		if err != nil {
			return false, err
		}
		rhs, err := expand.Literal(t.Y, cfg)
		if err != nil {
			return false, err
		}
		if t.Op == syntax.TestStrLt {
			return lhs < rhs, nil
		}
		return lhs > rhs, nil
	case syntax.TestReMatch:
		lhs, err := expand.Literal(t.X, cfg)
		if err != nil {
			return false, err
		}
		restr, err := expand.Literal(t.Y, cfg)
		if err != nil {
			return false, err
		}
		re, err := regexp.Compile(restr)
		if err != nil {
			return false, err
		}
		return re.MatchString(lhs), nil
	case syntax.TestIntEq, syntax.TestIntNe, syntax.TestIntLt, syntax.TestIntLe, syntax.TestIntGt, syntax.TestIntGe:
		lhs, err := intOperand(t.X, cfg)
		if err != nil {
			return false, err
		}
		rhs, err := intOperand(t.Y, cfg)
		if err != nil {
			return false, err
		}
		switch t.Op {
		case syntax.TestIntEq:
			return lhs == rhs, nil
		case syntax.TestIntNe:
			return lhs != rhs, nil
		case syntax.TestIntLt:
			return lhs < rhs, nil
		case syntax.TestIntLe:
			return lhs <= rhs, nil
		case syntax.TestIntGt:
			return lhs > rhs, nil
		case syntax.TestIntGe:
			return lhs >= rhs, nil
		}
	case syntax.TestNewer, syntax.TestOlder, syntax.TestSameFile:
		lhsPath, err := expand.Literal(t.X, cfg)
		if err != nil {
			return false, err
		}
		rhsPath, err := expand.Literal(t.Y, cfg)
		if err != nil {
			return false, err
		}
		li, lerr := r.St.FS.Stat(resolvePath(r.St.Cwd, lhsPath))
		ri, rerr := r.St.FS.Stat(resolvePath(r.St.Cwd, rhsPath))
		if lerr != nil || rerr != nil {
			return false, nil
		}
		switch t.Op {
		case syntax.TestNewer:
			return li.MTime.After(ri.MTime), nil
		case syntax.TestOlder:
			return li.MTime.Before(ri.MTime), nil
		case syntax.TestSameFile:
			return li.MTime.Equal(ri.MTime) && li.Kind == ri.Kind && li.Size == ri.Size, nil
		}
	}
	return false, nil
}

func intOperand(w *syntax.Word, cfg *expand.Config) (int64, error) {
	s, err := expand.Literal(w, cfg)
	if err != nil {
		return 0, err
	}
	return coerceToInt(s), nil
}

func coerceToInt(s string) int64 {
	var n int64
	neg := false
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

func matchPattern(pat, s string) (bool, error) {
	if !pattern.HasMeta(pat) {
		return pat == s, nil
	}
	return pattern.Match(pat, s)
}

func resolvePath(cwd, p string) string {
	return vfs.Clean(cwd, p)
}
