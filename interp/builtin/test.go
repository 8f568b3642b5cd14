// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/vfs"
)

// bTest and bBracket implement the argv-form `test`/`[ ... ]` builtins,
// a plain string-argument grammar distinct from the AST-driven `[[ ]]`
// evaluator in interp/cond.go (spec.md §4.5 treats them as separate
// surfaces sharing the same primitive set).
func bTest(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	ok, err := evalTestArgs(st, argv[1:])
	if err != nil {
		errw.WriteString("test: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	if ok {
		return 0, interp.Signal{}
	}
	return 1, interp.Signal{}
}

func bBracket(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	if len(args) == 0 || args[len(args)-1] != "]" {
		errw.WriteString("[: missing closing ]\n")
		return 2, interp.Signal{}
	}
	ok, err := evalTestArgs(st, args[:len(args)-1])
	if err != nil {
		errw.WriteString("[: " + err.Error() + "\n")
		return 2, interp.Signal{}
	}
	if ok {
		return 0, interp.Signal{}
	}
	return 1, interp.Signal{}
}

func evalTestArgs(st *interp.State, args []string) (bool, error) {
	if len(args) > 0 && args[0] == "!" {
		ok, err := evalTestArgs(st, args[1:])
		return !ok, err
	}
	if len(args) == 3 && args[0] == "(" && args[2] == ")" {
		return evalTestArgs(st, args[1:2])
	}
	switch len(args) {
	case 0:
		return false, nil
	case 1:
		return args[0] != "", nil
	case 2:
		return evalUnary(st, args[0], args[1])
	case 3:
		return evalBinary(args[0], args[1], args[2])
	}
	return false, nil
}

func evalUnary(st *interp.State, op, operand string) (bool, error) {
	path := resolvePath(st, operand)
	switch op {
	case "-z":
		return operand == "", nil
	case "-n":
		return operand != "", nil
	case "-e":
		return st.FS.Exists(path), nil
	case "-f":
		info, err := st.FS.Stat(path)
		return err == nil && info.Kind == vfs.KindFile, nil
	case "-d":
		info, err := st.FS.Stat(path)
		return err == nil && info.Kind == vfs.KindDir, nil
	case "-L", "-h":
		info, err := st.FS.Lstat(path)
		return err == nil && info.Kind == vfs.KindSymlink, nil
	case "-s":
		info, err := st.FS.Stat(path)
		return err == nil && info.Size > 0, nil
	case "-r", "-w", "-x":
		return st.FS.Exists(path), nil
	case "-v":
		_, ok := st.Get(operand)
		return ok, nil
	}
	return false, nil
}

func evalBinary(lhs, op, rhs string) (bool, error) {
	switch op {
	case "=", "==":
		return lhs == rhs, nil
	case "!=":
		return lhs != rhs, nil
	case "<":
		return lhs < rhs, nil
	case ">":
		return lhs > rhs, nil
	case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
		l, err := strconv.ParseInt(strings.TrimSpace(lhs), 10, 64)
		if err != nil {
			return false, err
		}
		r, err := strconv.ParseInt(strings.TrimSpace(rhs), 10, 64)
		if err != nil {
			return false, err
		}
		switch op {
		case "-eq":
			return l == r, nil
		case "-ne":
			return l != r, nil
		case "-lt":
			return l < r, nil
		case "-le":
			return l <= r, nil
		case "-gt":
			return l > r, nil
		case "-ge":
			return l >= r, nil
		}
	}
	return false, nil
}
