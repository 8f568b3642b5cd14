// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package vsh is the host-facing entry point to the sandboxed shell: it
// wires a virtual filesystem, an environment, and the builtin registry
// into an interp.State, and exposes the single Exec call a caller needs
// to run a script against it. Nothing under vsh ever touches the real
// filesystem, network, or process table except through the capabilities
// a caller opts into via Options.
package vsh

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/interp/builtin"
	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

// FileSeed describes one file to populate into the virtual filesystem
// before a script runs: either static Data or a lazily evaluated
// ContentFunc (never both; Data wins if both are set).
type FileSeed struct {
	Data    []byte
	Content vfs.ContentFunc
}

// Options configures a new sandbox. The zero Options is valid and
// produces a fully deterministic, empty, network-dead shell rooted at
// /home/user.
type Options struct {
	Files map[string]FileSeed
	Env   map[string]string
	Cwd   string

	ShellOpts interp.ShellOpts

	// HTTP, when non-nil, is the only egress a fetch builtin may use.
	// Omitting it leaves the sandbox fully network-dead.
	HTTP *HTTPCapability

	// Entropy and Clock seed $$/$! (see ids.go) and `date`. Both are
	// optional; their zero values give fully deterministic output.
	Entropy io.Reader
	Clock   time.Time

	Color bool
}

// State is a running shell sandbox: an interp.State plus the identifiers
// derived from Options at construction time.
type State struct {
	inner *interp.State
	pid   string
}

// Result is the outcome of one Exec call, the Go-native rendering of
// spec.md §7's {stdout, stderr, exit_code} contract.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// New builds a sandbox from opts: seeds the virtual filesystem, the
// environment, and the builtin registry, then returns a State ready for
// Exec. It never touches the host filesystem or network.
func New(opts Options) (*State, error) {
	cwd := opts.Cwd
	if cwd == "" {
		cwd = "/home/user"
	}
	clock := opts.Clock
	fs := vfs.New(func() time.Time { return clock })
	if err := fs.Mkdir(cwd, true); err != nil {
		return nil, fmt.Errorf("vsh: seeding cwd %q: %w", cwd, err)
	}
	for name, seed := range opts.Files {
		abs := vfs.Clean(cwd, name)
		if err := fs.Mkdir(path.Dir(abs), true); err != nil {
			return nil, fmt.Errorf("vsh: seeding %q: %w", name, err)
		}
		if seed.Content != nil {
			if err := fs.WriteContentFunc(abs, seed.Content); err != nil {
				return nil, fmt.Errorf("vsh: seeding %q: %w", name, err)
			}
			continue
		}
		if err := fs.WriteFile(abs, seed.Data); err != nil {
			return nil, fmt.Errorf("vsh: seeding %q: %w", name, err)
		}
	}

	st := interp.NewState(fs, cwd)
	st.Opts = opts.ShellOpts
	st.Opts.Color = opts.Color
	st.Builtins = builtin.Registry()
	st.Clock = func() string { return clock.UTC().Format(time.RFC3339) }
	if opts.HTTP != nil {
		st.HTTP = opts.HTTP
	}
	for name, val := range opts.Env {
		st.Set(name, val)
		st.MarkExported(name)
	}

	pid := newID(opts.Entropy, clock)
	st.Set("$", pid)
	st.Set("!", pid)

	return &State{inner: st, pid: pid}, nil
}

// Exec parses and runs source against s, mutating s in place. The error
// return is reserved for host-level misuse; a script that fails on its
// own terms is reported through Result, never through error.
func (s *State) Exec(ctx context.Context, source string) (Result, error) {
	if s == nil {
		return Result{}, fmt.Errorf("vsh: Exec called on nil State")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	file, err := syntax.Parse(source, "")
	if err != nil {
		return Result{Stderr: err.Error() + "\n", ExitCode: 2}, nil
	}
	runner := interp.NewRunner(ctx, s.inner)
	res := runner.Run(file.Stmts)
	s.inner.LastExit = int(res.Exit)
	s.inner.Set("?", fmt.Sprint(res.Exit))
	return Result{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: int(res.Exit)}, nil
}

// Fork returns an isolated copy of s: a cloned virtual filesystem and
// environment, so mutations in the copy never reach s. This gives a
// caller the same subshell isolation `(...)` gets internally, exposed at
// the host boundary.
func (s *State) Fork() *State {
	return &State{inner: s.inner.Clone(), pid: s.pid}
}

