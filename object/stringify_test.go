package object

import (
	"testing"

	"teascript/value"
)

func TestToStringScalars(t *testing.T) {
	cases := []struct {
		v    value.Value
		want string
	}{
		{value.Null, "null"},
		{value.Bool(true), "true"},
		{value.Bool(false), "false"},
		{value.Number(42), "42"},
		{value.Number(1.5), "1.5"},
	}
	for _, c := range cases {
		if got := ToString(c.v); got != c.want {
			t.Errorf("ToString(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestToStringString(t *testing.T) {
	s := NewString("hello", 0)
	if got := ToString(value.Object(s)); got != "hello" {
		t.Errorf("ToString(string) = %q, want %q", got, "hello")
	}
}

func TestToStringListQuotesNestedStrings(t *testing.T) {
	l := NewList()
	l.Items = []value.Value{value.Number(1), value.Object(NewString("a", 0))}
	if got := ToString(value.Object(l)); got != `[1, "a"]` {
		t.Errorf("ToString(list) = %q, want %q", got, `[1, "a"]`)
	}
}

func TestToStringListSelfReference(t *testing.T) {
	l := NewList()
	l.Items = []value.Value{value.Object(l)}
	if got := ToString(value.Object(l)); got != "[[...]]" {
		t.Errorf("ToString(self-referential list) = %q, want %q", got, "[[...]]")
	}
}

func TestToStringMap(t *testing.T) {
	m := NewMap()
	m.Items = []MapItem{{Key: value.Object(NewString("k", 0)), Val: value.Number(1)}}
	m.Count = 1
	if got := ToString(value.Object(m)); got != `{"k": 1}` {
		t.Errorf("ToString(map) = %q, want %q", got, `{"k": 1}`)
	}
}

func TestToStringRange(t *testing.T) {
	r := NewRange(1, 10, 2)
	if got := ToString(value.Object(r)); got != "1..10..2" {
		t.Errorf("ToString(range) = %q, want %q", got, "1..10..2")
	}
}

func TestToStringClosureAndNative(t *testing.T) {
	fn := NewFunction("foo")
	cl := NewClosure(fn)
	if got := ToString(value.Object(cl)); got != "<fn foo>" {
		t.Errorf("ToString(closure) = %q, want %q", got, "<fn foo>")
	}

	n := NewNative("bar", NativeFunction, func(rt Runtime) (value.Value, error) { return value.Null, nil })
	if got := ToString(value.Object(n)); got != "<native fn bar>" {
		t.Errorf("ToString(native) = %q, want %q", got, "<native fn bar>")
	}
}

func TestToStringClassAndInstance(t *testing.T) {
	class := NewClass(NewString("Foo", 0), nil)
	if got := ToString(value.Object(class)); got != "<class Foo>" {
		t.Errorf("ToString(class) = %q, want %q", got, "<class Foo>")
	}

	inst := NewInstance(class)
	if got := ToString(value.Object(inst)); got != "<Foo instance>" {
		t.Errorf("ToString(instance) = %q, want %q", got, "<Foo instance>")
	}
}
