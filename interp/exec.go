// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vshlang/vsh/expand"
	"github.com/vshlang/vsh/syntax"
)

// maxLoopIterations bounds while/until/for so a runaway script can never
// hang the sandbox (spec.md §4.5/§5).
const maxLoopIterations = 1000

// Runner walks a parsed AST against a State. It never spawns goroutines:
// pipelines and command substitutions are staged sequentially through
// materialized buffers, exactly as spec.md §5 requires.
type Runner struct {
	St  *State
	Ctx context.Context

	// injectedStdin, when non-nil, is consumed once by the next simple
	// command run directly inside this Runner (used to thread a
	// pipeline stage's stdin into a called function's first command).
	injectedStdin *string
}

func NewRunner(ctx context.Context, st *State) *Runner {
	return &Runner{St: st, Ctx: ctx}
}

// Run executes stmts in order, accumulating their stdout and stderr,
// honoring errexit and propagating any control signal
// (break/continue/return/exit) that reaches top level.
func (r *Runner) Run(stmts []*syntax.Stmt) Result {
	var res Result
	var stdout, stderr strings.Builder
	for _, st := range stmts {
		res = r.runStmt(st)
		stdout.WriteString(res.Stdout)
		stderr.WriteString(res.Stderr)
		res.Stdout, res.Stderr = stdout.String(), stderr.String()
		r.St.LastExit = int(res.Exit)
		r.St.Set("?", strconv.Itoa(int(res.Exit)))
		if res.Signal.Kind != SigNone {
			return res
		}
		if r.St.Opts.Errexit && res.Exit != 0 && !isAndOr(st.Cmd) {
			return res
		}
	}
	return res
}

func isAndOr(cmd syntax.Command) bool {
	bc, ok := cmd.(*syntax.BinaryCmd)
	return ok && (bc.Op == syntax.AndStmt || bc.Op == syntax.OrStmt)
}

func invertExit(exit uint8) uint8 {
	if exit == 0 {
		return 1
	}
	return 0
}

func (r *Runner) runStmt(st *syntax.Stmt) Result {
	if bc, ok := st.Cmd.(*syntax.BinaryCmd); ok {
		switch bc.Op {
		case syntax.Pipe:
			stages, negated := flattenPipeline(st)
			return r.runPipeline(stages, negated)
		case syntax.AndStmt:
			left := r.runStmt(bc.X)
			if left.Signal.Kind != SigNone || left.Exit != 0 {
				return left
			}
			right := r.runStmt(bc.Y)
			right.Stdout, right.Stderr = left.Stdout+right.Stdout, left.Stderr+right.Stderr
			return right
		case syntax.OrStmt:
			left := r.runStmt(bc.X)
			if left.Signal.Kind != SigNone || left.Exit == 0 {
				return left
			}
			right := r.runStmt(bc.Y)
			right.Stdout, right.Stderr = left.Stdout+right.Stdout, left.Stderr+right.Stderr
			return right
		}
	}
	res := r.runLeafStmt(st)
	if st.Negated {
		res.Exit = invertExit(res.Exit)
	}
	return res
}

// flattenPipeline unrolls a left-associative chain of `|`-joined Stmts
// into ordered stages, reporting the leading `!` the parser attached to
// the leftmost stage as the pipeline's overall negation (spec.md §4.5).
func flattenPipeline(st *syntax.Stmt) (stages []*syntax.Stmt, negated bool) {
	if bc, ok := st.Cmd.(*syntax.BinaryCmd); ok && bc.Op == syntax.Pipe {
		left, neg := flattenPipeline(bc.X)
		return append(left, bc.Y), neg
	}
	return []*syntax.Stmt{st}, st.Negated
}

func (r *Runner) runPipeline(stages []*syntax.Stmt, negated bool) Result {
	if len(stages) == 1 {
		res := r.runLeafStmt(stages[0])
		if negated {
			res.Exit = invertExit(res.Exit)
		}
		return res
	}
	var stdin string
	var final Result
	var rightmostNonZero uint8
	for i, stage := range stages {
		child := r.St.Clone()
		cr := &Runner{St: child, Ctx: r.Ctx}
		res := cr.runLeafStmtWithStdin(stage, stdin)
		stdin = res.Stdout
		final.Stderr += res.Stderr
		if res.Exit != 0 {
			rightmostNonZero = res.Exit
		}
		if i == len(stages)-1 {
			final.Stdout = res.Stdout
			final.Exit = res.Exit
			final.Signal = res.Signal
		}
	}
	if r.St.Opts.Pipefail && rightmostNonZero != 0 {
		final.Exit = rightmostNonZero
	}
	if negated {
		final.Exit = invertExit(final.Exit)
	}
	return final
}

func (r *Runner) runLeafStmt(st *syntax.Stmt) Result {
	return r.runLeafStmtWithStdin(st, "")
}

func (r *Runner) runLeafStmtWithStdin(st *syntax.Stmt, pipeStdin string) Result {
	execState := r.St
	isSimple := false
	if _, ok := st.Cmd.(*syntax.CallExpr); ok || st.Cmd == nil {
		isSimple = true
	}

	if len(st.Assigns) > 0 {
		if isSimple && st.Cmd != nil {
			execState = r.St.Clone()
		}
		if err := r.applyAssigns(st.Assigns, execState); err != nil {
			return failf(1, "bash: %s\n", err)
		}
	}

	if st.Cmd == nil {
		return ok()
	}

	fallback := pipeStdin
	if fallback == "" && r.injectedStdin != nil {
		fallback = *r.injectedStdin
		r.injectedStdin = nil
	}
	runner := &Runner{St: execState, Ctx: r.Ctx}
	stdin, err := runner.resolveStdin(st.Redirs, runner.cfg(), fallback)
	if err != nil {
		return failf(1, "bash: %s\n", err)
	}
	var res Result
	switch cmd := st.Cmd.(type) {
	case *syntax.CallExpr:
		res = runner.runSimple(cmd, stdin)
	case *syntax.IfClause:
		res = runner.runIf(cmd)
	case *syntax.WhileClause:
		res = runner.runWhile(cmd)
	case *syntax.ForClause:
		res = runner.runFor(cmd)
	case *syntax.CaseClause:
		res = runner.runCase(cmd)
	case *syntax.Block:
		res = runner.Run(cmd.Stmts)
	case *syntax.Subshell:
		sub := execState.Clone()
		subRunner := &Runner{St: sub, Ctx: r.Ctx}
		res = subRunner.Run(cmd.Stmts)
	case *syntax.FuncDecl:
		body := cmd.Body
		execState.Functions[cmd.Name] = &FuncDecl{Name: cmd.Name, Body: body}
		res = ok()
	case *syntax.ArithmCmd:
		v, err := expand.Arithm(cmd.X, runner.cfg())
		if err != nil {
			res = failf(1, "bash: %s\n", err)
		} else if v == 0 {
			res = Result{Exit: 1}
		} else {
			res = ok()
		}
	case *syntax.TestClause:
		b, err := runner.evalTest(cmd.X)
		if err != nil {
			res = failf(1, "bash: %s\n", err)
		} else if !b {
			res = Result{Exit: 1}
		} else {
			res = ok()
		}
	default:
		res = ok()
	}

	return r.applyRedirs(st.Redirs, execState, res)
}

func (r *Runner) cfg() *expand.Config {
	return &expand.Config{
		Env:        r.St,
		FS:         r.St.FS,
		Cwd:        r.St.Cwd,
		IFS:        ifsOrDefault(r.St),
		NoGlob:     r.St.Opts.NoGlob,
		NoUnset:    r.St.Opts.Nounset,
		Positional: r.St.Positional,
		LastExit:   r.St.LastExit,
		CmdSubst:   r.cmdSubst,
	}
}

func ifsOrDefault(st *State) string {
	v, ok := st.Get("IFS")
	if !ok {
		return " \t\n"
	}
	return v
}

func (r *Runner) cmdSubst(stmts []*syntax.Stmt) (string, error) {
	child := r.St.Clone()
	cr := &Runner{St: child, Ctx: r.Ctx}
	res := cr.Run(stmts)
	return strings.TrimRight(res.Stdout, "\n"), nil
}

func (r *Runner) applyAssigns(assigns []*syntax.Assign, st *State) error {
	cfg := (&Runner{St: st, Ctx: r.Ctx}).cfg()
	for _, a := range assigns {
		if len(a.Array) > 0 {
			for i, w := range a.Array {
				v, err := expand.Literal(w, cfg)
				if err != nil {
					return err
				}
				st.Set(fmt.Sprintf("%s[%d]", a.Name, i), v)
			}
			continue
		}
		v, err := expand.Literal(a.Value, cfg)
		if err != nil {
			return err
		}
		name := a.Name
		if a.Index != nil {
			idx, err := expand.Literal(a.Index, cfg)
			if err != nil {
				return err
			}
			name = fmt.Sprintf("%s[%s]", a.Name, idx)
		}
		if a.Append {
			cur, _ := st.Get(name)
			v = cur + v
		}
		st.Set(name, v)
		cfg.ApplyPending()
	}
	return nil
}

func (r *Runner) runSimple(call *syntax.CallExpr, stdin string) Result {
	cfg := r.cfg()
	var argv []string
	for _, w := range call.Args {
		fields, err := expand.Fields(w, cfg)
		if err != nil {
			return failf(1, "bash: %s\n", err)
		}
		argv = append(argv, fields...)
	}
	cfg.ApplyPending()
	if len(argv) == 0 {
		return ok()
	}

	var trace string
	if r.St.Opts.XTrace {
		trace = r.traceCommand(argv)
	}

	name := argv[0]
	if fn, found := r.St.Functions[name]; found {
		res := r.runFunction(fn, argv[1:], stdin)
		res.Stderr = trace + res.Stderr
		return res
	}
	if b, found := r.St.Builtins[name]; found {
		var out, errw strings.Builder
		exit, sig := b(r.Ctx, r.St, argv, strings.NewReader(stdin), &out, &errw)
		return Result{Stdout: out.String(), Stderr: trace + errw.String(), Exit: exit, Signal: sig}
	}
	return Result{Stderr: trace + fmt.Sprintf("bash: %s: command not found\n", name), Exit: 127}
}

func (r *Runner) runFunction(fn *FuncDecl, args []string, stdin string) Result {
	st := r.St
	saved := st.Positional
	st.Positional = args
	st.pushScope()
	runner := &Runner{St: st, Ctx: r.Ctx, injectedStdin: &stdin}
	var res Result
	if block, ok := fn.Body.Cmd.(*syntax.Block); ok {
		res = runner.Run(block.Stmts)
	} else {
		res = runner.runStmt(fn.Body)
	}
	st.popScope()
	st.Positional = saved
	if res.Signal.Kind == SigReturn {
		res.Exit = uint8(res.Signal.Level)
		res.Signal = Signal{}
	}
	return res
}

func (r *Runner) runIf(cl *syntax.IfClause) Result {
	var out, errs string
	withConds := func(res Result) Result {
		res.Stdout, res.Stderr = out+res.Stdout, errs+res.Stderr
		return res
	}
	cond := r.Run(cl.CondStmts)
	if cond.Signal.Kind != SigNone {
		return cond
	}
	out, errs = cond.Stdout, cond.Stderr
	if cond.Exit == 0 {
		return withConds(r.Run(cl.ThenStmts))
	}
	for _, elif := range cl.Elifs {
		c := r.Run(elif.CondStmts)
		if c.Signal.Kind != SigNone {
			return withConds(c)
		}
		out, errs = out+c.Stdout, errs+c.Stderr
		if c.Exit == 0 {
			return withConds(r.Run(elif.ThenStmts))
		}
	}
	if cl.ElseStmts != nil {
		return withConds(r.Run(cl.ElseStmts))
	}
	return withConds(ok())
}

func (r *Runner) runWhile(cl *syntax.WhileClause) Result {
	var last Result
	for i := 0; i < maxLoopIterations; i++ {
		cond := r.Run(cl.CondStmts)
		last.Stdout += cond.Stdout
		last.Stderr += cond.Stderr
		if cond.Signal.Kind != SigNone {
			cond.Stdout, cond.Stderr = last.Stdout, last.Stderr
			return cond
		}
		want := cond.Exit == 0
		if cl.Until {
			want = cond.Exit != 0
		}
		if !want {
			return last
		}
		body := r.Run(cl.DoStmts)
		last = Result{Stdout: last.Stdout + body.Stdout, Stderr: last.Stderr + body.Stderr, Exit: body.Exit}
		if body.Signal.Kind != SigNone {
			if stop, prop := consumeBreak(body.Signal); stop {
				if prop.Kind == SigNone {
					return last
				}
				last.Signal = prop
				return last
			}
			if cont, prop := consumeContinue(body.Signal); cont {
				if prop.Kind != SigNone {
					last.Signal = prop
					return last
				}
				continue
			}
			last.Signal = body.Signal
			return last
		}
	}
	last.Stderr += "bash: loop iteration limit exceeded\n"
	return last
}

func (r *Runner) runFor(cl *syntax.ForClause) Result {
	if cl.CStyle != nil {
		return r.runCStyleFor(cl)
	}
	cfg := r.cfg()
	var items []string
	for _, w := range cl.Items {
		fields, err := expand.Fields(w, cfg)
		if err != nil {
			return failf(1, "bash: %s\n", err)
		}
		items = append(items, fields...)
	}
	var last Result
	for _, item := range items {
		r.St.Set(cl.Name, item)
		body := r.Run(cl.DoStmts)
		last = Result{Stdout: last.Stdout + body.Stdout, Stderr: last.Stderr + body.Stderr, Exit: body.Exit}
		if body.Signal.Kind != SigNone {
			if stop, prop := consumeBreak(body.Signal); stop {
				if prop.Kind == SigNone {
					return last
				}
				last.Signal = prop
				return last
			}
			if cont, prop := consumeContinue(body.Signal); cont {
				if prop.Kind != SigNone {
					last.Signal = prop
					return last
				}
				continue
			}
			last.Signal = body.Signal
			return last
		}
	}
	return last
}

func (r *Runner) runCStyleFor(cl *syntax.ForClause) Result {
	cfg := r.cfg()
	if cl.CStyle.Init != nil {
		if _, err := expand.Arithm(cl.CStyle.Init, cfg); err != nil {
			return failf(1, "bash: %s\n", err)
		}
	}
	var last Result
	for i := 0; i < maxLoopIterations; i++ {
		if cl.CStyle.Cond != nil {
			v, err := expand.Arithm(cl.CStyle.Cond, cfg)
			if err != nil {
				return failf(1, "bash: %s\n", err)
			}
			if v == 0 {
				return last
			}
		}
		body := r.Run(cl.DoStmts)
		last = Result{Stdout: last.Stdout + body.Stdout, Stderr: last.Stderr + body.Stderr, Exit: body.Exit}
		if body.Signal.Kind != SigNone {
			if stop, prop := consumeBreak(body.Signal); stop {
				if prop.Kind == SigNone {
					return last
				}
				last.Signal = prop
				return last
			}
			if cont, prop := consumeContinue(body.Signal); cont {
				if prop.Kind != SigNone {
					last.Signal = prop
					return last
				}
			} else {
				last.Signal = body.Signal
				return last
			}
		}
		if cl.CStyle.Post != nil {
			if _, err := expand.Arithm(cl.CStyle.Post, cfg); err != nil {
				return failf(1, "bash: %s\n", err)
			}
		}
	}
	last.Stderr += "bash: loop iteration limit exceeded\n"
	return last
}

func (r *Runner) runCase(cl *syntax.CaseClause) Result {
	cfg := r.cfg()
	word, err := expand.Literal(cl.Word, cfg)
	if err != nil {
		return failf(1, "bash: %s\n", err)
	}
	for _, item := range cl.Items {
		for _, pw := range item.Patterns {
			pat, err := expand.Pattern(pw, cfg)
			if err != nil {
				continue
			}
			if ok, _ := matchPattern(pat, word); ok {
				return r.Run(item.Stmts)
			}
		}
	}
	return ok()
}
