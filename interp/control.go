// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

// consumeBreak reports whether sig is a Break that this loop level
// should swallow, returning the (possibly decremented) signal to keep
// propagating otherwise. Mirrors the teacher's breakEnclosing counter,
// generalized to a Signal value instead of a Runner field.
func consumeBreak(sig Signal) (stop bool, propagate Signal) {
	if sig.Kind != SigBreak {
		return false, sig
	}
	if sig.Level <= 1 {
		return true, Signal{}
	}
	return true, Signal{Kind: SigBreak, Level: sig.Level - 1}
}

// consumeContinue reports whether sig is a Continue this loop level
// should act on (re-check the condition) versus propagate outward.
func consumeContinue(sig Signal) (cont bool, propagate Signal) {
	if sig.Kind != SigContinue {
		return false, sig
	}
	if sig.Level <= 1 {
		return true, Signal{}
	}
	return true, Signal{Kind: SigContinue, Level: sig.Level - 1}
}

// stopsLoop reports whether sig should end a for/while/until loop
// outright: true only for a return or an exit signal.
func stopsLoop(sig Signal) bool {
	return sig.Kind == SigReturn || sig.Kind == SigExit
}
