package vm

import (
	"fmt"

	"teascript/object"
	"teascript/state"
	"teascript/value"
)

// VM drives one State's bytecode execution. It is a thin wrapper rather
// than an owner: all durable data (stack, frames, globals, GC) lives in
// State so embedding hosts and natives can share a *state.State across
// multiple VM.run invocations (e.g. a native's CallValue reentering the
// interpreter).
type VM struct {
	S  *state.State
	rt *Runtime

	loader  Loader
	natives map[string]*object.Module
}

func New(s *state.State) *VM {
	vm := &VM{S: s}
	vm.rt = &Runtime{s: s, vm: vm}
	return vm
}

// RuntimeError is a script-level error carrying the frame stack at the
// point of failure: Traceback names each active frame's function,
// innermost first. Error returns only Message, and cmd/teascript prints
// only that; it does not print Traceback.
type RuntimeError struct {
	Message   string
	Traceback []string
}

func (e *RuntimeError) Error() string { return e.Message }

func (vm *VM) runtimeError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	tb := make([]string, 0, len(vm.S.Frames))
	for i := len(vm.S.Frames) - 1; i >= 0; i-- {
		f := vm.S.Frames[i]
		name := "script"
		if f.Closure != nil && f.Closure.Function.Name != "" {
			name = f.Closure.Function.Name
		}
		tb = append(tb, fmt.Sprintf("  in %s", name))
	}
	return &RuntimeError{Message: msg, Traceback: tb}
}

func typeName(v value.Value) string {
	switch v.Tag() {
	case value.TagNull:
		return "null"
	case value.TagBool:
		return "bool"
	case value.TagNumber:
		return "number"
	case value.TagObject:
		return v.AsObject().ObjKind().String()
	default:
		return "value"
	}
}

// Interpret loads closure as a fresh top-level call and runs it to
// completion.
func (vm *VM) Interpret(closure *object.Closure) error {
	vm.S.Push(value.Object(closure))
	if err := vm.callValue(value.Object(closure), 0); err != nil {
		return err
	}
	return vm.run(0)
}
