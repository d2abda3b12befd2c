package vm

import "teascript/value"

// compare implements the four ordering comparisons: numeric fast
// path, else an operator-overload method lookup, matching BINARY_OP's
// handling for GREATER/GREATER_EQUAL/LESS/LESS_EQUAL in tea_vm.c.
func (vm *VM) compare(op Op, a, b value.Value) (value.Value, error) {
	if a.IsNumber() && b.IsNumber() {
		x, y := a.AsNumber(), b.AsNumber()
		switch op {
		case OpGreater:
			return value.Bool(x > y), nil
		case OpGreaterEqual:
			return value.Bool(x >= y), nil
		case OpLess:
			return value.Bool(x < y), nil
		case OpLessEqual:
			return value.Bool(x <= y), nil
		}
	}

	if name, ok := operatorName(op); ok {
		if v, err, handled := vm.tryOperatorOverloadByName(a, b, name); handled {
			return v, err
		}
	}
	return value.Null, vm.runtimeError("attempt to use %s operator with %s and %s", opString(op), typeName(a), typeName(b))
}
