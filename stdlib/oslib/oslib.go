// Package oslib wires the "os" native module: environment variables,
// process arguments/exit, and whole-file read/write on plain strings (no
// File heap objects are created). is_terminal wires github.com/mattn/go-isatty, the pack's terminal
// -detection library, rather than hand-rolling an ioctl/GetConsoleMode
// check.
package oslib

import (
	"os"

	"github.com/mattn/go-isatty"

	"teascript/api"
	"teascript/object"
	"teascript/value"
)

func Register(st *api.State) {
	m := st.NewModule("os")

	st.DefineNative(m, "getenv", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).Is(value.KindString) {
			return value.Null, rt.ThrowError("getenv expects 1 string argument")
		}
		v, ok := os.LookupEnv(rt.Arg(0).AsObject().(*object.String).Bytes)
		if !ok {
			return value.Null, nil
		}
		return value.Object(rt.NewString(v)), nil
	})
	st.DefineNative(m, "args", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		list := rt.NewList()
		for _, a := range os.Args[1:] {
			list.Items = append(list.Items, value.Object(rt.NewString(a)))
		}
		return value.Object(list), nil
	})
	st.DefineNative(m, "exit", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		code := 0
		if rt.ArgCount() >= 1 && rt.Arg(0).IsNumber() {
			code = int(rt.Arg(0).AsNumber())
		}
		os.Exit(code)
		return value.Null, nil
	})
	st.DefineNative(m, "is_terminal", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		return value.Bool(isatty.IsTerminal(os.Stdout.Fd())), nil
	})
	st.DefineNative(m, "read_file", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).Is(value.KindString) {
			return value.Null, rt.ThrowError("read_file expects 1 string argument")
		}
		data, err := os.ReadFile(rt.Arg(0).AsObject().(*object.String).Bytes)
		if err != nil {
			return value.Null, rt.ThrowError("read_file: %v", err)
		}
		return value.Object(rt.NewString(string(data))), nil
	})
	st.DefineNative(m, "write_file", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 2 || !rt.Arg(0).Is(value.KindString) || !rt.Arg(1).Is(value.KindString) {
			return value.Null, rt.ThrowError("write_file expects 2 string arguments: path, contents")
		}
		path := rt.Arg(0).AsObject().(*object.String).Bytes
		contents := rt.Arg(1).AsObject().(*object.String).Bytes
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			return value.Null, rt.ThrowError("write_file: %v", err)
		}
		return value.Bool(true), nil
	})

	st.RegisterModule("os", m)
}
