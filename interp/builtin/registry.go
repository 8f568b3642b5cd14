// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package builtin implements the shell builtins spec.md §6.2 and
// SPEC_FULL.md §6.3 require, all built on interp.State/vfs.FS — never
// the host OS. It imports interp (for Builtin/State/Signal); interp
// itself never imports this package, so the host wires the registry in
// at construction time.
package builtin

import "github.com/vshlang/vsh/interp"

// Registry returns every builtin by name, ready to be assigned onto an
// interp.State's Builtins map. Kept as a function rather than a package
// variable so a caller can copy and override entries without mutating a
// shared map (mirrors the teacher's IsBuiltin table, turned into data).
func Registry() map[string]interp.Builtin {
	reg := map[string]interp.Builtin{}
	for name, fn := range coreBuiltins {
		reg[name] = fn
	}
	for name, fn := range textBuiltins {
		reg[name] = fn
	}
	for name, fn := range fsBuiltins {
		reg[name] = fn
	}
	for name, fn := range miscBuiltins {
		reg[name] = fn
	}
	return reg
}
