package vm

import (
	"strings"

	"teascript/object"
	"teascript/ordmap"
	"teascript/value"
)

// subscript implements OP_SUBSCRIPT's read side: range/list/string
// indexing allows negative indexes counted from the end; map indexing
// requires a hashable key. Grounded on tea_vm.c's subscript().
func (vm *VM) subscript(recv, idx value.Value) (value.Value, error) {
	if !recv.IsObject() {
		return value.Null, vm.runtimeError("%s is not subscriptable", typeName(recv))
	}

	switch o := recv.AsObject().(type) {
	case *object.Range:
		if !idx.IsNumber() {
			return value.Null, vm.runtimeError("range index must be a number")
		}
		length := (o.End - o.Start) / o.Step
		i := idx.AsNumber()
		if i < 0 {
			i = length + i
		}
		if i >= 0 && i < length {
			return value.Number(o.Start + i*o.Step), nil
		}
		return value.Null, vm.runtimeError("range index out of bounds")

	case *object.List:
		if !idx.IsNumber() {
			return value.Null, vm.runtimeError("list index must be a number")
		}
		i := int(idx.AsNumber())
		if i < 0 {
			i = len(o.Items) + i
		}
		if i >= 0 && i < len(o.Items) {
			return o.Items[i], nil
		}
		return value.Null, vm.runtimeError("list index out of bounds")

	case *object.Map:
		v, ok := ordmap.Get(o, idx)
		if !ok {
			return value.Null, vm.runtimeError("key does not exist within map")
		}
		return v, nil

	case *object.String:
		if !idx.IsNumber() {
			return value.Null, vm.runtimeError("string index must be a number")
		}
		runes := []rune(o.Bytes)
		i := int(idx.AsNumber())
		if i < 0 {
			i = len(runes) + i
		}
		if i >= 0 && i < len(runes) {
			return value.Object(vm.S.NewString(string(runes[i]))), nil
		}
		return value.Null, vm.runtimeError("string index out of bounds")

	default:
		return value.Null, vm.runtimeError("%s is not subscriptable", typeName(recv))
	}
}

// subscriptStore implements OP_SUBSCRIPT_STORE/OP_SUBSCRIPT_PUSH's write
// side: only lists and maps support item assignment.
func (vm *VM) subscriptStore(recv, idx, item value.Value) error {
	switch o := recv.AsObject().(type) {
	case *object.List:
		if !idx.IsNumber() {
			return vm.runtimeError("list index must be a number")
		}
		i := int(idx.AsNumber())
		if i < 0 {
			i = len(o.Items) + i
		}
		if i >= 0 && i < len(o.Items) {
			o.Items[i] = item
			return nil
		}
		return vm.runtimeError("list index out of bounds")

	case *object.Map:
		ordmap.Set(o, idx, item)
		return nil

	default:
		return vm.runtimeError("%s does not support item assignment", typeName(recv))
	}
}

// contains implements OP_IN: substring search for strings, bounds
// check for ranges, element search for lists, key presence for maps.
func (vm *VM) contains(container, needle value.Value) (bool, error) {
	if !container.IsObject() {
		return false, vm.runtimeError("%s is not an iterable", typeName(container))
	}
	switch o := container.AsObject().(type) {
	case *object.String:
		if !needle.Is(value.KindString) {
			return false, nil
		}
		return strings.Contains(o.Bytes, needle.AsObject().(*object.String).Bytes), nil
	case *object.Range:
		if !needle.IsNumber() {
			return false, nil
		}
		n := needle.AsNumber()
		return n >= o.Start && n <= o.End, nil
	case *object.List:
		for _, it := range o.Items {
			if object.DeepEqual(it, needle) {
				return true, nil
			}
		}
		return false, nil
	case *object.Map:
		return ordmap.Has(o, needle), nil
	default:
		return false, vm.runtimeError("%s is not an iterable", typeName(container))
	}
}
