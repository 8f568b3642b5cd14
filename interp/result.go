// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import "fmt"

// Result is the outcome of running one command, pipeline, or script
// fragment: accumulated output plus the exit/control-flow payload
// spec.md §4.5/§7 describe. Builtins and the executor both produce and
// consume Result values; nothing here is ever a Go panic.
type Result struct {
	Stdout string
	Stderr string
	Exit   uint8
	Signal Signal
}

func ok() Result { return Result{} }

func failf(exit uint8, format string, args ...any) Result {
	return Result{Exit: exit, Stderr: fmt.Sprintf(format, args...)}
}
