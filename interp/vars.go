// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

// Exported tracks which variable names the `export` builtin has marked,
// mirroring the teacher's interp/vars.go distinction between a plain
// assignment and one visible to a spawned child process. Nothing here
// spawns a child process, but `env`/`printenv` still need to list only
// the exported subset.
type exportSet map[string]bool

// MarkExported records name as exported, for `export`.
func (st *State) MarkExported(name string) {
	if st.exported == nil {
		st.exported = exportSet{}
	}
	st.exported[name] = true
}

// IsExported reports whether `export` has marked name.
func (st *State) IsExported(name string) bool {
	return st.exported != nil && st.exported[name]
}

// ExportedEach calls fn for every name/value pair currently marked
// exported, in no particular order.
func (st *State) ExportedEach(fn func(name, value string)) {
	if st.exported == nil {
		return
	}
	for name := range st.exported {
		if v, ok := st.Get(name); ok {
			fn(name, v)
		}
	}
}
