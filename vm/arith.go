package vm

import (
	"math"

	"teascript/object"
	"teascript/ordmap"
	"teascript/value"
)

// arith implements the ADD/SUBTRACT/MULTIPLY/DIVIDE/MOD/POW/bitwise family
//: numeric fast paths plus ADD's string-concat/list-concat/map-union
// special cases and MULTIPLY's string-repeat special case, grounded on
// tea_vm.c's BINARY_OP macro and the ADD/MULTIPLY/MOD/POW cases. Anything
// that isn't two numbers (or one of ADD/MULTIPLY's special pairs) falls
// back to an operator-overload method lookup on an instance operand.
func (vm *VM) arith(op Op, a, b value.Value) (value.Value, error) {
	switch op {
	case OpAdd:
		if a.Is(value.KindString) && b.Is(value.KindString) {
			return value.Object(vm.S.NewString(a.AsObject().(*object.String).Bytes + b.AsObject().(*object.String).Bytes)), nil
		}
		if a.Is(value.KindList) && b.Is(value.KindList) {
			l1, l2 := a.AsObject().(*object.List), b.AsObject().(*object.List)
			out := vm.S.NewList()
			out.Items = append(append([]value.Value{}, l1.Items...), l2.Items...)
			return value.Object(out), nil
		}
		if a.Is(value.KindMap) && b.Is(value.KindMap) {
			return value.Object(ordmap.Union(a.AsObject().(*object.Map), b.AsObject().(*object.Map))), nil
		}
	case OpMultiply:
		if a.Is(value.KindString) && b.IsNumber() {
			return value.Object(vm.S.NewString(repeatString(a.AsObject().(*object.String).Bytes, b.AsNumber()))), nil
		}
		if a.IsNumber() && b.Is(value.KindString) {
			return value.Object(vm.S.NewString(repeatString(b.AsObject().(*object.String).Bytes, a.AsNumber()))), nil
		}
	}

	if a.IsNumber() && b.IsNumber() {
		x, y := a.AsNumber(), b.AsNumber()
		switch op {
		case OpAdd:
			return value.Number(x + y), nil
		case OpSubtract:
			return value.Number(x - y), nil
		case OpMultiply:
			return value.Number(x * y), nil
		case OpDivide:
			return value.Number(x / y), nil
		case OpMod:
			return value.Number(math.Mod(x, y)), nil
		case OpPow:
			return value.Number(math.Pow(x, y)), nil
		case OpBAnd:
			return value.Number(float64(int64(x) & int64(y))), nil
		case OpBOr:
			return value.Number(float64(int64(x) | int64(y))), nil
		case OpBXor:
			return value.Number(float64(int64(x) ^ int64(y))), nil
		case OpLShift:
			return value.Number(float64(int64(x) << uint(int64(y)))), nil
		case OpRShift:
			return value.Number(float64(int64(x) >> uint(int64(y)))), nil
		}
	}

	if name, ok := operatorName(op); ok {
		if v, err, handled := vm.tryOperatorOverloadByName(a, b, name); handled {
			return v, err
		}
	}
	return value.Null, vm.runtimeError("attempt to use %s operator with %s and %s", opString(op), typeName(a), typeName(b))
}

func repeatString(s string, n float64) string {
	count := int(n)
	if count <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*count)
	for i := 0; i < count; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func operatorName(op Op) (string, bool) {
	switch op {
	case OpAdd:
		return "+", true
	case OpSubtract:
		return "-", true
	case OpMultiply:
		return "*", true
	case OpDivide:
		return "/", true
	case OpMod:
		return "%", true
	case OpPow:
		return "**", true
	case OpGreater:
		return ">", true
	case OpGreaterEqual:
		return ">=", true
	case OpLess:
		return "<", true
	case OpLessEqual:
		return "<=", true
	case OpEqual:
		return "==", true
	}
	return "", false
}

func opString(op Op) string {
	if s, ok := operatorName(op); ok {
		return s
	}
	return "operator"
}

// tryOperatorOverloadByName dispatches op(a, b) to whichever operand is an
// instance whose class defines a method of that name, calling it as a
// bound method with the other operand as its sole argument — a
// deliberately simplified, uniform stand-in for tea_vm.c's INVOKE_METHOD
// macro (which pushes a differing, compiler-dependent argument shape per
// opcode family that only a real compiler front end would ever produce;
// see DESIGN.md).
func (vm *VM) tryOperatorOverloadByName(a, b value.Value, name string) (value.Value, error, bool) {
	if a.Is(value.KindInstance) {
		inst := a.AsObject().(*object.Instance)
		if m, ok := lookupMethod(inst.Class, name); ok {
			v, err := vm.CallValue(value.Object(vm.S.NewBoundMethod(a, m)), []value.Value{b})
			return v, err, true
		}
	}
	if b.Is(value.KindInstance) {
		inst := b.AsObject().(*object.Instance)
		if m, ok := lookupMethod(inst.Class, name); ok {
			v, err := vm.CallValue(value.Object(vm.S.NewBoundMethod(b, m)), []value.Value{a})
			return v, err, true
		}
	}
	return value.Null, nil, false
}

func lookupMethod(class *object.Class, name string) (value.Value, bool) {
	for c := class; c != nil; c = c.Super {
		for i := 0; i < c.Methods.Capacity; i++ {
			e := &c.Methods.Entries[i]
			if e.Key != nil && e.Key.Bytes == name {
				return e.Value, true
			}
		}
	}
	return value.Null, false
}
