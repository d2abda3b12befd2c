package vm

import (
	"teascript/object"
	"teascript/state"
	"teascript/value"
)

// captureUpvalue finds or creates the open upvalue for stack slot index,
// keeping State.OpenUpvalues sorted by descending stack index so a linear
// scan can stop as soon as it passes where a matching upvalue would be.
func captureUpvalue(s *state.State, index int) *object.Upvalue {
	var prev *object.Upvalue
	uv := s.OpenUpvalues
	for uv != nil && uv.StackIndex > index {
		prev = uv
		uv = uv.OpenNext
	}
	if uv != nil && uv.StackIndex == index {
		return uv
	}

	created := s.NewUpvalue(&s.Stack[index], index)
	created.OpenNext = uv
	if prev == nil {
		s.OpenUpvalues = created
	} else {
		prev.OpenNext = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above stack index last,
// copying the live stack value into the upvalue's own Closed field and
// repointing Location at it so the value survives its frame popping.
func closeUpvalues(s *state.State, last int) {
	for s.OpenUpvalues != nil && s.OpenUpvalues.StackIndex >= last {
		uv := s.OpenUpvalues
		uv.Closed = *uv.Location
		uv.Location = &uv.Closed
		s.OpenUpvalues = uv.OpenNext
	}
}

func getUpvalueLocation(uv *object.Upvalue) value.Value {
	return *uv.Location
}

func setUpvalueLocation(uv *object.Upvalue, v value.Value) {
	*uv.Location = v
}
