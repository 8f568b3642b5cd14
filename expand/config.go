// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"

	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

// Config bundles everything a word expansion needs to consult: the
// variable scope, the working directory and filesystem for globbing and
// tilde expansion, and a callback to run a nested command substitution
// (kept as a closure rather than an interface to avoid expand importing
// interp, which imports expand).
type Config struct {
	Env Environ
	FS  *vfs.FS
	Cwd string

	// Positional holds $1.. for $#, $@, $*, and numeric parameter
	// references; LastExit backs $?.
	Positional []string
	LastExit   int

	// IFS drives word splitting; the zero value means " \t\n" (the
	// default from spec.md §6.4), not "no splitting".
	IFS string

	// NoGlob mirrors `shell_opts.noglob`: when true, pathname expansion
	// never runs and patterns pass through literally.
	NoGlob bool

	// NoUnset mirrors `shell_opts.nounset` (`set -u`): when true, a bare
	// reference to an unset parameter is an error instead of expanding
	// to "".
	NoUnset bool

	// CmdSubst executes a captured $(...)/`...` body and returns its
	// trimmed stdout. Supplied by the interp Runner (Runner.cfg) so that
	// command substitution runs in a forked, isolated copy of the shell
	// state (spec.md §4.4, §5).
	CmdSubst func(stmts []*syntax.Stmt) (string, error)

	// Pending collects the side-effects a `${VAR:=word}` or `${VAR=word}`
	// expansion produces, to be applied once the whole command's word
	// list has finished expanding (spec.md §4.4). Arithmetic assignments
	// are not queued here: they write to Env as soon as they are evaluated.
	Pending []func()
}

func (c *Config) ifs() string {
	if c.IFS == "" {
		return " \t\n"
	}
	return c.IFS
}

func (c *Config) defer_(fn func()) { c.Pending = append(c.Pending, fn) }

// ApplyPending runs and clears every queued side-effect. The executor
// calls this once per simple command, after all of its words have
// expanded and before the command runs.
func (c *Config) ApplyPending() {
	for _, fn := range c.Pending {
		fn()
	}
	c.Pending = nil
}

// UnsetError is raised by a bare `${var}` reference under `nounset` for
// a variable that was never assigned.
type UnsetError struct {
	Name string
}

func (e UnsetError) Error() string { return fmt.Sprintf("%s: unbound variable", e.Name) }

// ParamError is `${var:?message}` firing on an unset or empty parameter.
type ParamError struct {
	Name    string
	Message string
}

func (e ParamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: parameter null or not set", e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ArithError reports a division/modulo by zero (spec.md §4.3).
type ArithError struct {
	Op string
}

func (e ArithError) Error() string { return fmt.Sprintf("arithmetic: %s by zero", e.Op) }
