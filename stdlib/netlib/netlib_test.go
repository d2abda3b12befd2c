package netlib

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"teascript/api"
	"teascript/object"
	"teascript/state"
	"teascript/table"
	"teascript/value"
)

func setup(t *testing.T) (*api.State, func(name string) value.Value) {
	t.Helper()
	st := api.New(state.Options{})
	Register(st)
	rt := st.Runtime()

	get := func(name string) value.Value {
		m, ok := rt.Modules["net"]
		if !ok {
			t.Fatalf("net module not registered")
		}
		v, ok := table.Get(&m.Values, rt.NewString(name))
		if !ok {
			t.Fatalf("net.%s not found", name)
		}
		return v
	}
	return st, get
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, msg); err != nil {
				return
			}
		}
	}))
}

func TestWsDialSendRecvClose(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	st, get := setup(t)
	rt := st.Runtime()

	handle, err := st.Call(get("ws_dial"), value.Object(rt.NewString(wsURL)))
	if err != nil {
		t.Fatalf("ws_dial: %v", err)
	}

	ok, err := st.Call(get("ws_send"), handle, value.Object(rt.NewString("hello")))
	if err != nil {
		t.Fatalf("ws_send: %v", err)
	}
	if !ok.Truthy() {
		t.Error("ws_send should report true")
	}

	reply, err := st.Call(get("ws_recv"), handle)
	if err != nil {
		t.Fatalf("ws_recv: %v", err)
	}
	if got := object.ToString(reply); got != "hello" {
		t.Errorf("ws_recv = %q, want echoed %q", got, "hello")
	}

	closed, err := st.Call(get("ws_close"), handle)
	if err != nil {
		t.Fatalf("ws_close: %v", err)
	}
	if !closed.Truthy() {
		t.Error("ws_close should report true")
	}
}

func TestWsDialRejectsBadURL(t *testing.T) {
	st, get := setup(t)
	rt := st.Runtime()
	if _, err := st.Call(get("ws_dial"), value.Object(rt.NewString("not a url"))); err == nil {
		t.Error("expected an error dialing an invalid websocket URL")
	}
}

func TestWsSendRequiresHandle(t *testing.T) {
	st, get := setup(t)
	rt := st.Runtime()
	if _, err := st.Call(get("ws_send"), value.Number(1), value.Object(rt.NewString("hi"))); err == nil {
		t.Error("expected an error calling ws_send with a non-handle first argument")
	}
}
