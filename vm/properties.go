package vm

import (
	"teascript/object"
	"teascript/table"
	"teascript/value"
)

// getProperty implements OP_GET_PROPERTY/OP_GET_PROPERTY_NO_POP:
// instance fields win over methods, methods bind to the receiver, classes
// expose their statics walking the superclass chain, modules expose their
// top-level values, and every other kind falls back to its cached builtin
// class's methods (string.len(), list.push(), ...), grounded on tea_vm.c's
// get_property.
func (vm *VM) getProperty(receiver value.Value, name *object.String) (value.Value, error) {
	if !receiver.IsObject() {
		return value.Null, vm.runtimeError("only objects have properties")
	}

	switch o := receiver.AsObject().(type) {
	case *object.Instance:
		if v, ok := table.Get(&o.Fields, name); ok {
			return v, nil
		}
		if m, ok := lookupMethod(o.Class, name.Bytes); ok {
			return value.Object(vm.S.NewBoundMethod(receiver, m)), nil
		}
		for c := o.Class; c != nil; c = c.Super {
			if v, ok := table.Get(&c.Statics, name); ok {
				return v, nil
			}
		}
		return value.Null, vm.runtimeError("undefined property '%s'", name.Bytes)

	case *object.Class:
		for c := o; c != nil; c = c.Super {
			if v, ok := table.Get(&c.Statics, name); ok {
				return v, nil
			}
		}
		return value.Null, vm.runtimeError("undefined property '%s'", name.Bytes)

	case *object.Module:
		if v, ok := table.Get(&o.Values, name); ok {
			return v, nil
		}
		return value.Null, vm.runtimeError("undefined property '%s'", name.Bytes)

	default:
		class := vm.builtinClass(receiver)
		if class == nil {
			return value.Null, vm.runtimeError("%s has no properties", typeName(receiver))
		}
		if m, ok := lookupMethod(class, name.Bytes); ok {
			return value.Object(vm.S.NewBoundMethod(receiver, m)), nil
		}
		return value.Null, vm.runtimeError("undefined property '%s'", name.Bytes)
	}
}

// setProperty implements OP_SET_PROPERTY: only instances, classes and
// modules carry mutable field/static/value storage.
func (vm *VM) setProperty(receiver value.Value, name *object.String, v value.Value) error {
	switch o := receiver.AsObject().(type) {
	case *object.Instance:
		table.Set(&o.Fields, name, v)
		return nil
	case *object.Class:
		table.Set(&o.Statics, name, v)
		return nil
	case *object.Module:
		table.Set(&o.Values, name, v)
		return nil
	default:
		return vm.runtimeError("cannot set property on type %s", typeName(receiver))
	}
}

func (vm *VM) builtinClass(v value.Value) *object.Class {
	switch {
	case v.Is(value.KindString):
		return vm.S.StringClass
	case v.Is(value.KindList):
		return vm.S.ListClass
	case v.Is(value.KindMap):
		return vm.S.MapClass
	case v.Is(value.KindRange):
		return vm.S.RangeClass
	case v.Is(value.KindFile):
		return vm.S.FileClass
	default:
		return nil
	}
}
