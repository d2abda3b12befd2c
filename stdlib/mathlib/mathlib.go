// Package mathlib wires the "math" native module: the numeric
// surface a script reaches through import("math"). Grounded on the
// teacher's stdlib/database_funcs.go registration shape (one Go function
// per native, argument-count/type checking up front, a Register* entry
// point), implemented on the standard library since Go's math package
// already covers every operation named here and no example repo brings in
// a specialized numerics dependency for this concern.
package mathlib

import (
	"math"

	"teascript/api"
	"teascript/object"
	"teascript/value"
)

// Register installs the math module so script code can `import "math"`.
func Register(st *api.State) {
	m := st.NewModule("math")

	st.DefineNative(m, "sqrt", object.NativeFunction, unary(math.Sqrt))
	st.DefineNative(m, "abs", object.NativeFunction, unary(math.Abs))
	st.DefineNative(m, "floor", object.NativeFunction, unary(math.Floor))
	st.DefineNative(m, "ceil", object.NativeFunction, unary(math.Ceil))
	st.DefineNative(m, "round", object.NativeFunction, unary(math.Round))
	st.DefineNative(m, "sin", object.NativeFunction, unary(math.Sin))
	st.DefineNative(m, "cos", object.NativeFunction, unary(math.Cos))
	st.DefineNative(m, "tan", object.NativeFunction, unary(math.Tan))
	st.DefineNative(m, "log", object.NativeFunction, unary(math.Log))
	st.DefineNative(m, "exp", object.NativeFunction, unary(math.Exp))

	st.DefineNative(m, "pow", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 2 {
			return value.Null, rt.ThrowError("pow expects 2 arguments: base, exponent")
		}
		a, ok1 := numArg(rt, 0)
		b, ok2 := numArg(rt, 1)
		if !ok1 || !ok2 {
			return value.Null, rt.ThrowError("pow expects numbers")
		}
		return value.Number(math.Pow(a, b)), nil
	})
	st.DefineNative(m, "min", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 2 {
			return value.Null, rt.ThrowError("min expects 2 arguments")
		}
		a, ok1 := numArg(rt, 0)
		b, ok2 := numArg(rt, 1)
		if !ok1 || !ok2 {
			return value.Null, rt.ThrowError("min expects numbers")
		}
		return value.Number(math.Min(a, b)), nil
	})
	st.DefineNative(m, "max", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 2 {
			return value.Null, rt.ThrowError("max expects 2 arguments")
		}
		a, ok1 := numArg(rt, 0)
		b, ok2 := numArg(rt, 1)
		if !ok1 || !ok2 {
			return value.Null, rt.ThrowError("max expects numbers")
		}
		return value.Number(math.Max(a, b)), nil
	})

	st.DefineNative(m, "pi", object.NativeProperty, func(rt object.Runtime) (value.Value, error) {
		return value.Number(math.Pi), nil
	})
	st.DefineNative(m, "infinity", object.NativeProperty, func(rt object.Runtime) (value.Value, error) {
		return value.Number(math.Inf(1)), nil
	})

	st.RegisterModule("math", m)
}

func numArg(rt object.Runtime, i int) (float64, bool) {
	v := rt.Arg(i)
	if !v.IsNumber() {
		return 0, false
	}
	return v.AsNumber(), true
}

func unary(f func(float64) float64) object.NativeFn {
	return func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 {
			return value.Null, rt.ThrowError("expected 1 argument")
		}
		n, ok := numArg(rt, 0)
		if !ok {
			return value.Null, rt.ThrowError("expected a number")
		}
		return value.Number(f(n)), nil
	}
}
