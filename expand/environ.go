// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package expand implements word expansion: brace, tilde, parameter,
// command and arithmetic substitution, word splitting, pathname
// expansion (globbing), and quote removal, in the fixed order spec.md
// §4.4 mandates.
package expand

// Environ is the minimal read/write variable store expansion needs. A
// shell's State (interp package) implements it directly against its own
// scope chain; expand never assumes a flat map so that `local` shadowing
// stays interp's concern.
type Environ interface {
	Get(name string) (value string, set bool)
	Set(name, value string)
	// Unset removes name entirely, distinguishing "set to empty" from
	// "not set" for nounset/-v checks.
	Unset(name string)
	// Each calls fn once per defined variable, in no particular order.
	// Used to enumerate `name[i]` array entries for `${name[@]}`.
	Each(fn func(name, value string))
}

// MapEnviron is a bare map-backed Environ, used by tests and by any
// caller that doesn't need scoping.
type MapEnviron map[string]string

func (m MapEnviron) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapEnviron) Set(name, value string) { m[name] = value }
func (m MapEnviron) Unset(name string)      { delete(m, name) }

func (m MapEnviron) Each(fn func(name, value string)) {
	for k, v := range m {
		fn(k, v)
	}
}
