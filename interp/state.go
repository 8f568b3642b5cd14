// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package interp executes a parsed shell script against a State: an
// environment, a function table, and a virtual filesystem. Nothing here
// touches the host process — every side effect is visible only through
// the State and the stdout/stderr buffers a caller passes in.
package interp

import (
	"strconv"
	"strings"

	"github.com/vshlang/vsh/syntax"
	"github.com/vshlang/vsh/vfs"
)

// ShellOpts mirrors the `set -o` flags spec.md §3 names.
type ShellOpts struct {
	Errexit  bool
	Nounset  bool
	Pipefail bool
	XTrace   bool
	NoGlob   bool

	// Color enables ANSI decoration of xtrace output (spec.md §4.8).
	Color bool
}

// Signal is the control-flow payload Break/Continue/Return attach to a
// result instead of raising a panic (spec.md §4.5).
type Signal struct {
	Kind  SignalKind
	Level int // Break(n)/Continue(n) levels remaining; Return's exit code
}

type SignalKind int

const (
	SigNone SignalKind = iota
	SigBreak
	SigContinue
	SigReturn
	SigExit
)

// scope is one frame of variable bindings. State keeps a slice of these;
// only the top frame ("local" scope, pushed by function calls) is
// writable by `local`, matching the teacher's interp/vars.go shadowing.
type scope struct {
	vars  map[string]string
	local map[string]bool
}

func newScope() *scope {
	return &scope{vars: map[string]string{}, local: map[string]bool{}}
}

// State is the mutable shell environment threaded through execution:
// spec.md §3's `{env, functions, cwd, fs, last_exit, shell_opts,
// trap_table, positional}` record, realized as a Go struct instead of a
// persistent functional record — State.Fork (vsh.State.Fork) gives
// callers the copy-on-write isolation spec.md's functional notation
// implies, without forcing every internal step to return a new State.
type State struct {
	scopes     []*scope
	Functions  map[string]*FuncDecl
	Cwd        string
	FS         *vfs.FS
	LastExit   int
	Opts       ShellOpts
	Traps      map[string]string
	Positional []string

	Clock func() string // RFC3339 "now" for `date`; never time.Now directly

	HTTP HTTPCapability

	// Builtins is populated by the host (vsh.New) from interp/builtin's
	// registry, kept as data on State rather than a package-level map so
	// interp never imports interp/builtin (which imports interp).
	Builtins map[string]Builtin

	exported exportSet
}

// FuncDecl is a stored function body, as declared by `name() { ... }` or
// `function name { ... }`.
type FuncDecl struct {
	Name string
	Body *syntax.Stmt
}

// HTTPCapability is the narrow egress surface spec.md §4.11/§6.1 allows:
// absent by default, wired in only when a host opts in via vsh.Options.
type HTTPCapability interface {
	Fetch(url string) (status int, body string, err error)
}

// NewState builds a State with spec.md §6.4's default environment
// populated into its single root scope.
func NewState(fs *vfs.FS, cwd string) *State {
	st := &State{
		scopes:    []*scope{newScope()},
		Functions: map[string]*FuncDecl{},
		Cwd:       cwd,
		FS:        fs,
		Traps:     map[string]string{},
		Opts:      ShellOpts{},
	}
	st.Set("HOME", "/home/user")
	st.Set("PATH", "/bin:/usr/bin")
	st.Set("PWD", cwd)
	st.Set("IFS", " \t\n")
	st.Set("?", "0")
	st.Set("PS4", "+ ")
	return st
}

// Get implements expand.Environ.
func (st *State) Get(name string) (string, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if v, ok := st.scopes[i].vars[name]; ok {
			return v, true
		}
		if st.scopes[i].local[name] {
			// declared local but unset: stop searching outward.
			return "", false
		}
	}
	return "", false
}

// Set implements expand.Environ: writes land in the innermost scope that
// already declared the name (bash assignment semantics without an
// explicit `local`), or the root scope otherwise.
func (st *State) Set(name, value string) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if _, ok := st.scopes[i].vars[name]; ok {
			st.scopes[i].vars[name] = value
			return
		}
	}
	st.scopes[0].vars[name] = value
}

// SetLocal declares name in the current (innermost) scope, shadowing any
// outer binding until the scope is popped.
func (st *State) SetLocal(name, value string) {
	top := st.scopes[len(st.scopes)-1]
	top.vars[name] = value
	top.local[name] = true
}

// Unset implements expand.Environ.
func (st *State) Unset(name string) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if _, ok := st.scopes[i].vars[name]; ok {
			delete(st.scopes[i].vars, name)
			return
		}
	}
}

// Each implements expand.Environ, walking outer to inner so shadowed
// names are visited only once, with the innermost value winning.
func (st *State) Each(fn func(name, value string)) {
	seen := map[string]string{}
	for _, sc := range st.scopes {
		for k, v := range sc.vars {
			seen[k] = v
		}
	}
	for k, v := range seen {
		fn(k, v)
	}
}

// pushScope/popScope bracket a function call's local-variable lifetime.
func (st *State) pushScope() { st.scopes = append(st.scopes, newScope()) }
func (st *State) popScope()  { st.scopes = st.scopes[:len(st.scopes)-1] }

// Clone returns an independent State for subshell/command-substitution
// isolation (spec.md §5): a forked VFS and copied env/functions, so the
// child's mutations never propagate back to st.
func (st *State) Clone() *State {
	cp := &State{
		Functions:  make(map[string]*FuncDecl, len(st.Functions)),
		Cwd:        st.Cwd,
		FS:         st.FS.Clone(),
		LastExit:   st.LastExit,
		Opts:       st.Opts,
		Traps:      make(map[string]string, len(st.Traps)),
		Positional: append([]string(nil), st.Positional...),
		Clock:      st.Clock,
		HTTP:       st.HTTP,
		Builtins:   st.Builtins,
		exported:   make(exportSet, len(st.exported)),
	}
	for k, v := range st.exported {
		cp.exported[k] = v
	}
	for _, sc := range st.scopes {
		ns := newScope()
		for k, v := range sc.vars {
			ns.vars[k] = v
		}
		for k, v := range sc.local {
			ns.local[k] = v
		}
		cp.scopes = append(cp.scopes, ns)
	}
	for k, v := range st.Functions {
		cp.Functions[k] = v
	}
	for k, v := range st.Traps {
		cp.Traps[k] = v
	}
	return cp
}

// Merge folds env/cwd/functions/shell-opts/last_exit changes from a
// single-command pipeline's sole, forked stage back into st (spec.md
// §4.5's "last stage merges back only when the pipeline has no pipe").
func (st *State) Merge(child *State) {
	st.Cwd = child.Cwd
	st.LastExit = child.LastExit
	st.Opts = child.Opts
	st.Positional = child.Positional
	for k := range st.Functions {
		delete(st.Functions, k)
	}
	for k, v := range child.Functions {
		st.Functions[k] = v
	}
	for k := range st.Traps {
		delete(st.Traps, k)
	}
	for k, v := range child.Traps {
		st.Traps[k] = v
	}
	root := st.scopes[0]
	root.vars = map[string]string{}
	root.local = map[string]bool{}
	if len(child.scopes) > 0 {
		for k, v := range child.scopes[0].vars {
			root.vars[k] = v
		}
	}
	for k, v := range child.exported {
		if st.exported == nil {
			st.exported = exportSet{}
		}
		st.exported[k] = v
	}
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func splitNonEmpty(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' })
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
