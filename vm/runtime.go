package vm

import (
	"teascript/object"
	"teascript/ordmap"
	"teascript/state"
	"teascript/value"
)

// Runtime is the object.Runtime a native function sees: its arguments and
// optional receiver live directly on the operand stack below its call
// frame, exactly where teaD_call_value's callc left them, rather than
// being copied into a separate args slice.
type Runtime struct {
	s           *state.State
	vm          *VM
	base        int // stack index of the callee/receiver slot
	argCount    int
	hasReceiver bool
}

func (rt *Runtime) ArgCount() int { return rt.argCount }

func (rt *Runtime) Arg(i int) value.Value {
	if i < 0 || i >= rt.argCount {
		return value.Null
	}
	return rt.s.Stack[rt.base+1+i]
}

func (rt *Runtime) Receiver() value.Value {
	if !rt.hasReceiver {
		return value.Null
	}
	return rt.s.Stack[rt.base]
}

func (rt *Runtime) NewString(s string) *object.String     { return rt.s.NewString(s) }
func (rt *Runtime) NewList() *object.List                 { return rt.s.NewList() }
func (rt *Runtime) NewMap() *object.Map                   { return rt.s.NewMap() }
func (rt *Runtime) NewUserdata(size int) *object.Userdata { return rt.s.NewUserdata(size) }

func (rt *Runtime) ThrowError(format string, args ...interface{}) error {
	return rt.vm.runtimeError(format, args...)
}

func (rt *Runtime) CallValue(callee value.Value, args []value.Value) (value.Value, error) {
	return rt.vm.CallValue(callee, args)
}

// MapSet and MapGet let a native populate or read a general-key map it
// built via NewMap without importing package ordmap directly, the same
// role DefineNative plays for a module's string-keyed table.
func (rt *Runtime) MapSet(m *object.Map, key, v value.Value) bool {
	return ordmap.Set(m, key, v)
}

func (rt *Runtime) MapGet(m *object.Map, key value.Value) (value.Value, bool) {
	return ordmap.Get(m, key)
}
