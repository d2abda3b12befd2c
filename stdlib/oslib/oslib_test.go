package oslib

import (
	"os"
	"path/filepath"
	"testing"

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
		m, ok := rt.Modules["os"]
		if !ok {
			t.Fatalf("os module not registered")
		}
		v, ok := table.Get(&m.Values, rt.NewString(name))
		if !ok {
			t.Fatalf("os.%s not found", name)
		}
		return v
	}
	return st, get
}

func TestGetenv(t *testing.T) {
	t.Setenv("TEASCRIPT_TEST_VAR", "hello")
	st, get := setup(t)
	result, err := st.Call(get("getenv"), value.Object(st.Runtime().NewString("TEASCRIPT_TEST_VAR")))
	if err != nil {
		t.Fatalf("getenv: %v", err)
	}
	if got := object.ToString(result); got != "hello" {
		t.Errorf("getenv = %q, want %q", got, "hello")
	}
}

func TestGetenvMissingReturnsNull(t *testing.T) {
	st, get := setup(t)
	result, err := st.Call(get("getenv"), value.Object(st.Runtime().NewString("TEASCRIPT_DEFINITELY_UNSET_VAR")))
	if err != nil {
		t.Fatalf("getenv: %v", err)
	}
	if !result.IsNull() {
		t.Errorf("getenv(unset) = %v, want null", result)
	}
}

func TestGetenvWrongArgType(t *testing.T) {
	st, get := setup(t)
	if _, err := st.Call(get("getenv"), value.Number(1)); err == nil {
		t.Error("expected an error calling getenv with a non-string argument")
	}
}

func TestReadWriteFile(t *testing.T) {
	st, get := setup(t)
	path := filepath.Join(t.TempDir(), "f.txt")
	rt := st.Runtime()

	_, err := st.Call(get("write_file"), value.Object(rt.NewString(path)), value.Object(rt.NewString("data")))
	if err != nil {
		t.Fatalf("write_file: %v", err)
	}

	result, err := st.Call(get("read_file"), value.Object(rt.NewString(path)))
	if err != nil {
		t.Fatalf("read_file: %v", err)
	}
	if got := object.ToString(result); got != "data" {
		t.Errorf("read_file = %q, want %q", got, "data")
	}
}

func TestReadFileMissing(t *testing.T) {
	st, get := setup(t)
	rt := st.Runtime()
	if _, err := st.Call(get("read_file"), value.Object(rt.NewString("/nonexistent/path"))); err == nil {
		t.Error("expected an error reading a nonexistent file")
	}
}

func TestArgs(t *testing.T) {
	st, get := setup(t)
	result, err := st.Call(get("args"))
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	if !result.Is(value.KindList) {
		t.Errorf("args() should return a list, got %v", result)
	}
	l := result.AsObject().(*object.List)
	if len(l.Items) != len(os.Args)-1 {
		t.Errorf("args() returned %d items, want %d", len(l.Items), len(os.Args)-1)
	}
}
