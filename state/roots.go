package state

import (
	"teascript/object"
	"teascript/table"
	"teascript/value"
)

// MarkRoots implements gc.RootSet: every value reachable without first
// walking the heap graph (operand stack, call-frame closures, open
// upvalues, globals, the module cache, cached classes, and the two
// perpetually-held strings) must be marked here, mirroring
// tea_memory.c's markRoots.
func (s *State) MarkRoots(mark func(value.Value)) {
	for _, v := range s.Stack {
		mark(v)
	}
	for _, f := range s.Frames {
		if f.Closure != nil {
			mark(value.Object(f.Closure))
		}
	}
	for uv := s.OpenUpvalues; uv != nil; uv = uv.OpenNext {
		mark(value.Object(uv))
	}

	table.Mark(&s.Globals, func(o value.HeapObject) { mark(value.Object(o)) }, mark)

	for _, m := range s.Modules {
		mark(value.Object(m))
	}
	if s.LastModule != nil {
		mark(value.Object(s.LastModule))
	}

	for _, c := range []*object.Class{s.StringClass, s.ListClass, s.MapClass, s.RangeClass, s.FileClass} {
		if c != nil {
			mark(value.Object(c))
		}
	}

	if s.ConstructorString != nil {
		mark(value.Object(s.ConstructorString))
	}
	if s.ReplString != nil {
		mark(value.Object(s.ReplString))
	}
}
