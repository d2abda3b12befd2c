package timelib

import (
	"testing"
	"time"

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
		m, ok := rt.Modules["time"]
		if !ok {
			t.Fatalf("time module not registered")
		}
		v, ok := table.Get(&m.Values, rt.NewString(name))
		if !ok {
			t.Fatalf("time.%s not found", name)
		}
		return v
	}
	return st, get
}

func TestNowReturnsCurrentUnixSeconds(t *testing.T) {
	st, get := setup(t)
	before := float64(time.Now().UnixNano()) / 1e9
	result, err := st.Call(get("now"))
	if err != nil {
		t.Fatalf("now: %v", err)
	}
	after := float64(time.Now().UnixNano()) / 1e9
	if result.AsNumber() < before || result.AsNumber() > after {
		t.Errorf("now() = %v, want within [%v, %v]", result.AsNumber(), before, after)
	}
}

func TestUnixFormatsRFC3339(t *testing.T) {
	st, get := setup(t)
	result, err := st.Call(get("unix"), value.Number(0))
	if err != nil {
		t.Fatalf("unix(0): %v", err)
	}
	want := time.Unix(0, 0).UTC().Format(time.RFC3339)
	if got := object.ToString(result); got != want {
		t.Errorf("unix(0) = %q, want %q", got, want)
	}
}

func TestAgoReturnsHumanizedString(t *testing.T) {
	st, get := setup(t)
	result, err := st.Call(get("ago"), value.Number(float64(time.Now().Add(-time.Hour).Unix())))
	if err != nil {
		t.Fatalf("ago: %v", err)
	}
	if !result.Is(value.KindString) {
		t.Errorf("ago() should return a string, got %v", result)
	}
}

func TestUnixWrongArgType(t *testing.T) {
	st, get := setup(t)
	if _, err := st.Call(get("unix"), value.Bool(true)); err == nil {
		t.Error("expected an error calling unix with a non-number argument")
	}
}

func TestSleepWrongArgCount(t *testing.T) {
	st, get := setup(t)
	if _, err := st.Call(get("sleep")); err == nil {
		t.Error("expected an error calling sleep with no arguments")
	}
}
