package api

import (
	"strings"

	"teascript/object"
	"teascript/value"
)

// registerBuiltinMethods populates the cached String/List/Map classes with
// the handful of methods getProperty's default case (vm/properties.go)
// falls back to for a bare value — e.g. "abc".upper() or [1,2].push(3) —
// through AddMethod, the same registration path a host embedding its own
// classes would use. Grounded on tea_vm.c's built-in OBJ_STRING/OBJ_LIST
// method tables; this is a representative slice, not the full standard
// method set, since nothing upstream of here names the rest.
func registerBuiltinMethods(st *State) {
	s := st.Runtime()

	st.AddMethod(s.ListClass, "len", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		l := rt.Receiver().AsObject().(*object.List)
		return value.Number(float64(len(l.Items))), nil
	})
	st.AddMethod(s.ListClass, "push", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		l := rt.Receiver().AsObject().(*object.List)
		for i := 0; i < rt.ArgCount(); i++ {
			l.Items = append(l.Items, rt.Arg(i))
		}
		return rt.Receiver(), nil
	})
	st.AddMethod(s.ListClass, "pop", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		l := rt.Receiver().AsObject().(*object.List)
		if len(l.Items) == 0 {
			return value.Null, rt.ThrowError("pop from an empty list")
		}
		last := l.Items[len(l.Items)-1]
		l.Items = l.Items[:len(l.Items)-1]
		return last, nil
	})

	st.AddMethod(s.StringClass, "len", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		str := rt.Receiver().AsObject().(*object.String)
		return value.Number(float64(len(str.Bytes))), nil
	})
	st.AddMethod(s.StringClass, "upper", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		str := rt.Receiver().AsObject().(*object.String)
		return value.Object(rt.NewString(strings.ToUpper(str.Bytes))), nil
	})
	st.AddMethod(s.StringClass, "lower", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		str := rt.Receiver().AsObject().(*object.String)
		return value.Object(rt.NewString(strings.ToLower(str.Bytes))), nil
	})

	st.AddMethod(s.MapClass, "len", object.NativeMethod, func(rt object.Runtime) (value.Value, error) {
		m := rt.Receiver().AsObject().(*object.Map)
		return value.Number(float64(m.Count)), nil
	})
}
