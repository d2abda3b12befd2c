// Package protect implements the protected-call boundary. The
// original interpreter uses setjmp/longjmp to unwind an arbitrary number of
// native C stack frames back to the nearest tea_pcall; this interpreter's
// dispatch loop is flat (every Teascript call pushes a frame and loops,
// it never recurses in Go), so an ordinary returned error already unwinds
// any depth of script calls on its own. Run exists for the one case a
// plain error return can't cover: a host native panicking (a bad type
// assertion, an out-of-bounds slice access) partway through a callback,
// which must not take the whole embedding host down with it. Every native
// invocation (vm/calls.go's callNative) and every top-level host entry
// point (api.State's Call/Interpret) runs through it.
package protect

import (
	"fmt"

	"teascript/object"
	"teascript/state"
)

// Snapshot captures the parts of interpreter state a failed protected call
// must roll back: the operand stack depth, call-frame depth, and
// open-upvalue chain at entry. Mirrors tea_state.c's tea_pcall, which
// resets "top, base, frame array, and open-upvalue list" to their state at
// the protected call's entry.
type Snapshot struct {
	stackTop     int
	frameDepth   int
	openUpvalues *object.Upvalue
}

func Snap(s *state.State) Snapshot {
	return Snapshot{
		stackTop:     s.Top(),
		frameDepth:   len(s.Frames),
		openUpvalues: s.OpenUpvalues,
	}
}

func (sn Snapshot) Restore(s *state.State) {
	if len(s.Frames) > sn.frameDepth {
		s.Frames = s.Frames[:sn.frameDepth]
	}
	s.SetTop(sn.stackTop)
	s.OpenUpvalues = sn.openUpvalues
}

// Run executes f as a protected call: a returned error unwinds normally
// after state is restored to its entry snapshot; a Go panic raised by a
// native is recovered, converted to an error, and likewise rolled back
// rather than propagating out through the host.
func Run(s *state.State, f func() error) (err error) {
	return RunWithPanicHandler(s, f, nil)
}

// RunWithPanicHandler behaves like Run, additionally invoking onPanic with
// the recovered value before it is converted to an error, so a host
// registered via api.State.SetPanicHandler can log or report a panicking
// native without changing the escape path itself.
func RunWithPanicHandler(s *state.State, f func() error, onPanic func(recovered interface{})) (err error) {
	snap := Snap(s)
	defer func() {
		if r := recover(); r != nil {
			snap.Restore(s)
			if onPanic != nil {
				onPanic(r)
			}
			err = fmt.Errorf("panic in protected call: %v", r)
		}
	}()

	if err = f(); err != nil {
		snap.Restore(s)
		return err
	}
	return nil
}
