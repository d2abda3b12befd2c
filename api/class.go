package api

import (
	"teascript/object"
	"teascript/table"
	"teascript/value"
)

// MethodDescriptor names one native entered into a class's method or
// static table by CreateClass or AddMethod/AddStatic, mirroring the
// {name, cfunction} array tea_api.c's tea_create_class takes instead of
// one registration call per method.
type MethodDescriptor struct {
	Name string
	Kind object.NativeKind
	Fn   object.NativeFn
}

// CreateClass builds a class named name, inheriting from super (nil for
// none — state.NewClass already copies super's method/static tables into
// the new class the way OP_INHERIT does for a script-defined subclass),
// and populates its method table from descriptors in one call instead of
// one DefineNative-equivalent per entry.
func (st *State) CreateClass(name string, super *object.Class, descriptors []MethodDescriptor) *object.Class {
	c := st.s.NewClass(st.s.NewString(name), super)
	for _, d := range descriptors {
		st.AddMethod(c, d.Name, d.Kind, d.Fn)
	}
	return c
}

// AddMethod defines one native method on an already-built class, the same
// incremental registration DefineNative gives a module.
func (st *State) AddMethod(c *object.Class, name string, kind object.NativeKind, fn object.NativeFn) {
	n := st.s.NewNative(name, kind, fn)
	key := st.s.NewString(name)
	table.Set(&c.Methods, key, value.Object(n))
	if key == st.s.ConstructorString {
		c.Constructor = value.Object(n)
	}
}

// AddStatic defines one native static (class-level) method.
func (st *State) AddStatic(c *object.Class, name string, kind object.NativeKind, fn object.NativeFn) {
	n := st.s.NewNative(name, kind, fn)
	table.Set(&c.Statics, st.s.NewString(name), value.Object(n))
}

// PushClass pushes an already-built class value, for symmetry with
// PushList/PushMap.
func (st *State) PushClass(c *object.Class) {
	st.s.Push(value.Object(c))
}
