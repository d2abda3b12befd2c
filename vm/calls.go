package vm

import (
	"fmt"

	"teascript/object"
	"teascript/protect"
	"teascript/state"
	"teascript/value"
)

// ensureStack grows the operand stack to hold needed slots if it doesn't
// already, reporting a stack overflow only once state.GrowStack's hard
// ceiling is exceeded. Called once per call (needed = current top +
// callee.MaxSlots) so nothing inside a frame's execution needs to
// re-check capacity; max_slots is the declared upper bound on that frame's
// stack growth.
func ensureStack(s *state.State, needed int) error {
	return s.GrowStack(needed)
}

// pushFrame appends a new call frame for closure, whose argCount
// arguments (as reconciled by call()) sit above the callee slot at the top
// of the stack.
func pushFrame(s *state.State, closure *object.Closure, argCount int) error {
	if len(s.Frames) == s.Opts.MaxFrames {
		return fmt.Errorf("stack overflow")
	}
	needed := len(s.Stack) + closure.Function.MaxSlots
	if err := ensureStack(s, needed); err != nil {
		return err
	}
	base := len(s.Stack) - argCount - 1 // -1 for the callee slot itself
	s.Frames = append(s.Frames, state.Frame{Closure: closure, IP: 0, Base: base})
	return nil
}

// call reconciles arg_count against closure's declared arity, optional
// count, and variadic flag exactly as tea_do.c's call() does: too few
// errors unless the shortfall is exactly the missing variadic (filled with
// an empty list); too many collects the extras into the variadic list (or
// errors if not variadic); an exact variadic call wraps the single trailing
// argument into a one-element list.
func call(s *state.State, closure *object.Closure, argCount int) (int, error) {
	fn := closure.Function
	switch {
	case argCount < fn.Arity:
		if fn.Variadic && argCount+1 == fn.Arity {
			list := s.NewList()
			s.Push(value.Object(list))
			argCount++
			break
		}
		return argCount, fmt.Errorf("expected %d arguments, but got %d", fn.Arity, argCount)

	case argCount > fn.Arity+fn.ArityOptional:
		if !fn.Variadic {
			return argCount, fmt.Errorf("expected %d arguments, but got %d", fn.Arity+fn.ArityOptional, argCount)
		}
		arity := fn.Arity + fn.ArityOptional
		varargs := argCount - arity + 1
		list := s.NewList()
		list.Items = make([]value.Value, varargs)
		for i := 0; i < varargs; i++ {
			list.Items[i] = s.Peek(varargs - 1 - i)
		}
		s.SetTop(s.Top() - varargs)
		s.Push(value.Object(list))
		argCount = arity

	case fn.Variadic:
		// exact count: the trailing argument becomes a one-element variadic list.
		last := s.Peek(0)
		list := s.NewList()
		list.Items = append(list.Items, last)
		s.SetTop(s.Top() - 1)
		s.Push(value.Object(list))
	}

	if err := pushFrame(s, closure, argCount); err != nil {
		return argCount, err
	}
	return argCount, nil
}

// callNative invokes native under protect.Run: a Go panic escaping a badly
// written native (a bad type assertion, an out-of-bounds slice access — see
// stdlib/dblib/dblib.go, stdlib/netlib/netlib.go) is recovered here, at the nearest
// protected-call boundary to where it actually happened, rather than
// being left to unwind the whole embedding host. Also rolls back the
// operand stack and frame depth to their state at entry on any error,
// script-raised or recovered panic alike, mirroring tea_vm.c/tea_state.c's
// tea_pcall snapshot-and-restore contract.
func callNative(s *state.State, rt *Runtime, native *object.Native, argCount int) error {
	base := s.Top() - argCount - 1
	rt.base = base
	rt.argCount = argCount
	if native.Kind == object.NativeMethod || native.Kind == object.NativeProperty {
		rt.hasReceiver = true
	} else {
		rt.hasReceiver = false
	}

	var result value.Value
	err := protect.Run(s, func() error {
		var fnErr error
		result, fnErr = native.Fn(rt)
		return fnErr
	})
	if err != nil {
		return err
	}
	s.SetTop(base)
	s.Push(result)
	return nil
}

// callValue dispatches a call to whatever kind of callable occupies the
// stack slot argCount below the top:
// bound methods rebind the receiver and redispatch; classes construct an
// instance and invoke its constructor (or error if args were given to a
// constructor-less class); closures and natives call directly.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	if !callee.IsObject() {
		return vm.runtimeError("%s is not callable", typeName(callee))
	}

	switch o := callee.AsObject().(type) {
	case *object.BoundMethod:
		vm.S.Stack[vm.S.Top()-argCount-1] = o.Receiver
		return vm.callValue(o.Method, argCount)

	case *object.Class:
		instance := vm.S.NewInstance(o)
		vm.S.Stack[vm.S.Top()-argCount-1] = value.Object(instance)
		if !o.Constructor.IsNull() {
			return vm.callValue(o.Constructor, argCount)
		}
		if argCount != 0 {
			return vm.runtimeError("expected 0 arguments but got %d", argCount)
		}
		return nil

	case *object.Closure:
		_, err := call(vm.S, o, argCount)
		return err

	case *object.Native:
		return callNative(vm.S, vm.rt, o, argCount)

	default:
		return vm.runtimeError("%s is not callable", typeName(callee))
	}
}

// CallValue invokes a script or native value with args and returns its
// single result, satisfying object.Runtime.CallValue for natives that call
// back into script code (e.g. a comparator passed to a sort native). The
// whole call runs under protect.Run, so a script error or a native's panic
// leaves the stack exactly as it was before callee/args were pushed,
// instead of stranding them there for the caller to clean up.
func (vm *VM) CallValue(callee value.Value, args []value.Value) (value.Value, error) {
	var result value.Value
	err := protect.Run(vm.S, func() error {
		vm.S.Push(callee)
		for _, a := range args {
			vm.S.Push(a)
		}
		if err := vm.S.PushCCall(); err != nil {
			return err
		}
		defer vm.S.PopCCall()

		framesBefore := len(vm.S.Frames)
		if err := vm.callValue(callee, len(args)); err != nil {
			return err
		}
		if len(vm.S.Frames) == framesBefore {
			// a native ran synchronously and already left one result on the stack.
			result = vm.S.Pop()
			return nil
		}
		if err := vm.run(framesBefore); err != nil {
			return err
		}
		result = vm.S.Pop()
		return nil
	})
	return result, err
}
