// Package netlib wires the "net" native module: a
// websocket client reachable from script, backed by
// github.com/gorilla/websocket for transport.
// Follows the same userdata-handle pattern as stdlib/dblib: the
// live *websocket.Conn rides behind object.Userdata.Host rather than a
// plain byte buffer, since a real network connection has no useful
// byte-buffer representation.
package netlib

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"teascript/api"
	"teascript/object"
	"teascript/value"
)

func wrapConn(rt object.Runtime, conn *websocket.Conn) value.Value {
	u := rt.NewUserdata(0)
	u.Host = conn
	return value.Object(u)
}

func wsConn(rt object.Runtime, i int) (*websocket.Conn, error) {
	if rt.ArgCount() <= i {
		return nil, rt.ThrowError("expected a websocket handle argument")
	}
	v := rt.Arg(i)
	if !v.Is(value.KindUserdata) {
		return nil, rt.ThrowError("expected a websocket handle")
	}
	u := v.AsObject().(*object.Userdata)
	conn, ok := u.Host.(*websocket.Conn)
	if !ok || conn == nil {
		return nil, rt.ThrowError("websocket handle is closed or invalid")
	}
	return conn, nil
}

var dialer = websocket.Dialer{HandshakeTimeout: 10 * time.Second}

func Register(st *api.State) {
	m := st.NewModule("net")

	st.DefineNative(m, "ws_dial", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 1 || !rt.Arg(0).Is(value.KindString) {
			return value.Null, rt.ThrowError("ws_dial expects 1 string argument: url")
		}
		raw := rt.Arg(0).AsObject().(*object.String).Bytes
		u, err := url.Parse(raw)
		if err != nil {
			return value.Null, rt.ThrowError("ws_dial: %v", err)
		}
		conn, _, err := dialer.Dial(u.String(), http.Header{})
		if err != nil {
			return value.Null, rt.ThrowError("ws_dial: %v", err)
		}
		return wrapConn(rt, conn), nil
	})

	st.DefineNative(m, "ws_send", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		conn, err := wsConn(rt, 0)
		if err != nil {
			return value.Null, err
		}
		if rt.ArgCount() != 2 || !rt.Arg(1).Is(value.KindString) {
			return value.Null, rt.ThrowError("ws_send expects a handle and a string message")
		}
		msg := rt.Arg(1).AsObject().(*object.String).Bytes
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return value.Null, rt.ThrowError("ws_send: %v", err)
		}
		return value.Bool(true), nil
	})

	st.DefineNative(m, "ws_recv", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		conn, err := wsConn(rt, 0)
		if err != nil {
			return value.Null, err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return value.Null, rt.ThrowError("ws_recv: %v", err)
		}
		return value.Object(rt.NewString(string(data))), nil
	})

	st.DefineNative(m, "ws_close", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		conn, err := wsConn(rt, 0)
		if err != nil {
			return value.Null, err
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		if err := conn.Close(); err != nil {
			return value.Bool(false), nil
		}
		rt.Arg(0).AsObject().(*object.Userdata).Host = nil
		return value.Bool(true), nil
	})

	st.RegisterModule("net", m)
}
