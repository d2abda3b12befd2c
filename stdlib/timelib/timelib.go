// Package timelib wires the "time" native module: wall-clock access
// and humanized duration formatting. now/unix/sleep are plain stdlib time;
// ago wires github.com/dustin/go-humanize (the pack's general-purpose
// humanize helper) so scripts get natural-language relative timestamps
// without reimplementing humanize's calendar-aware thresholds.
package timelib

import (
	"time"

	"github.com/dustin/go-humanize"

	"teascript/api"
	"teascript/object"
	"teascript/value"
)

func Register(st *api.State) {
	m := st.NewModule("time")

	st.DefineNative(m, "now", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
	})
	st.DefineNative(m, "unix", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).IsNumber() {
			return value.Null, rt.ThrowError("unix expects 1 numeric argument")
		}
		return value.Object(rt.NewString(time.Unix(int64(rt.Arg(0).AsNumber()), 0).UTC().Format(time.RFC3339))), nil
	})
	st.DefineNative(m, "sleep", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).IsNumber() {
			return value.Null, rt.ThrowError("sleep expects 1 numeric argument (seconds)")
		}
		time.Sleep(time.Duration(rt.Arg(0).AsNumber() * float64(time.Second)))
		return value.Null, nil
	})
	st.DefineNative(m, "ago", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).IsNumber() {
			return value.Null, rt.ThrowError("ago expects 1 numeric argument (unix seconds)")
		}
		t := time.Unix(int64(rt.Arg(0).AsNumber()), 0)
		return value.Object(rt.NewString(humanize.Time(t))), nil
	})

	st.RegisterModule("time", m)
}
