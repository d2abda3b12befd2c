// Package fmtlib wires the "fmt" native module: value formatting plus
// two small identity/encoding primitives scripts otherwise have no way to
// reach — github.com/google/uuid for random identifiers, and
// golang.org/x/crypto/blake2b as an alternate content hash alongside the
// interning table's built-in FNV-1a, plus github.com/dustin/go-
// humanize for the remaining formatting helpers it covers (commas, byte
// counts) that the standard library's fmt package doesn't.
package fmtlib

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"teascript/api"
	"teascript/object"
	"teascript/value"
)

func Register(st *api.State) {
	m := st.NewModule("fmt")

	st.DefineNative(m, "to_string", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 {
			return value.Null, rt.ThrowError("to_string expects 1 argument")
		}
		return value.Object(rt.NewString(object.ToString(rt.Arg(0)))), nil
	})
	st.DefineNative(m, "comma", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).IsNumber() {
			return value.Null, rt.ThrowError("comma expects 1 numeric argument")
		}
		return value.Object(rt.NewString(humanize.Commaf(rt.Arg(0).AsNumber()))), nil
	})
	st.DefineNative(m, "bytes", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).IsNumber() {
			return value.Null, rt.ThrowError("bytes expects 1 numeric argument")
		}
		return value.Object(rt.NewString(humanize.Bytes(uint64(rt.Arg(0).AsNumber())))), nil
	})
	st.DefineNative(m, "uuid", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		return value.Object(rt.NewString(uuid.New().String())), nil
	})
	st.DefineNative(m, "hash", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).Is(value.KindString) {
			return value.Null, rt.ThrowError("hash expects 1 string argument")
		}
		sum := blake2b.Sum256([]byte(rt.Arg(0).AsObject().(*object.String).Bytes))
		const hexDigits = "0123456789abcdef"
		out := make([]byte, len(sum)*2)
		for i, b := range sum {
			out[i*2] = hexDigits[b>>4]
			out[i*2+1] = hexDigits[b&0xf]
		}
		return value.Object(rt.NewString(string(out))), nil
	})

	st.RegisterModule("fmt", m)
}
