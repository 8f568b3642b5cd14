// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"io"
	"strings"
)

// Builtin is the command contract from spec.md §6.2: it reads stdin and
// argv, writes to out/errw, and returns an exit code plus any control
// signal (break/continue/return/exit) it produced. Builtins never touch
// the host OS — only st's VFS and environment.
type Builtin func(ctx context.Context, st *State, argv []string, stdin io.Reader, out, errw *strings.Builder) (exit uint8, sig Signal)

// ExecContext carries the ambient context.Context for cancellation of
// one command invocation.
type ExecContext struct {
	Ctx context.Context
}
