// Package api is Teascript's embedding surface: a host-addressable
// value stack, push/pop primitives for every value kind, type predicates,
// aggregate (list/map) construction, global and module access, and script
// invocation. Grounded on tea_api.c's tea_push*/tea_get*/tea_call family,
// restated as Go methods returning errors instead of C's bool-return +
// error-state pattern.
package api

import (
	"fmt"

	"teascript/chunk"
	"teascript/object"
	"teascript/protect"
	"teascript/state"
	"teascript/value"
	"teascript/vm"
)

// State is one embeddable interpreter instance.
type State struct {
	s            *state.State
	vm           *vm.VM
	panicHandler func(recovered interface{})
}

// New creates an interpreter with the given options (zero value is a
// usable default configuration).
func New(opts state.Options) *State {
	s := state.New(opts)
	st := &State{s: s, vm: vm.New(s)}
	initBuiltinClasses(st)
	return st
}

func initBuiltinClasses(st *State) {
	s := st.s
	s.StringClass = s.NewClass(s.NewString("String"), nil)
	s.ListClass = s.NewClass(s.NewString("List"), nil)
	s.MapClass = s.NewClass(s.NewString("Map"), nil)
	s.RangeClass = s.NewClass(s.NewString("Range"), nil)
	s.FileClass = s.NewClass(s.NewString("File"), nil)
	registerBuiltinMethods(st)
}

// --- stack addressing: positive indexes count from the bottom of the
// whole stack (1-based like tea_api.c's), negative from the top.

func (st *State) abs(index int) int {
	if index > 0 {
		return index - 1
	}
	return st.s.Top() + index
}

func (st *State) GetTop() int        { return st.s.Top() }
func (st *State) SetTop(n int)       { st.s.SetTop(n) }
func (st *State) Pop(n int) {
	st.s.SetTop(st.s.Top() - n)
}

func (st *State) Get(index int) value.Value {
	i := st.abs(index)
	if i < 0 || i >= st.s.Top() {
		return value.Null
	}
	return st.s.Stack[i]
}

func (st *State) Set(index int, v value.Value) {
	i := st.abs(index)
	if i >= 0 && i < st.s.Top() {
		st.s.Stack[i] = v
	}
}

// --- push primitives ---

func (st *State) PushNull()          { st.s.Push(value.Null) }
func (st *State) PushBool(b bool)    { st.s.Push(value.Bool(b)) }
func (st *State) PushNumber(n float64) { st.s.Push(value.Number(n)) }
func (st *State) PushString(s string) { st.s.Push(value.Object(st.s.NewString(s))) }
func (st *State) PushValue(v value.Value) { st.s.Push(v) }

// PushList pushes an empty list the host can fill with AddItem/SetItem, matching
// the "build aggregate, push pointer, populate" idiom tea_api.c uses to
// keep the aggregate GC-reachable while under construction.
func (st *State) PushList() *object.List {
	l := st.s.NewList()
	st.s.Push(value.Object(l))
	return l
}

func (st *State) PushMap() *object.Map {
	m := st.s.NewMap()
	st.s.Push(value.Object(m))
	return m
}

// --- type predicates / query ---

func (st *State) IsNull(index int) bool   { return st.Get(index).IsNull() }
func (st *State) IsBool(index int) bool   { return st.Get(index).IsBool() }
func (st *State) IsNumber(index int) bool { return st.Get(index).IsNumber() }
func (st *State) IsString(index int) bool { return st.Get(index).Is(value.KindString) }
func (st *State) IsList(index int) bool   { return st.Get(index).Is(value.KindList) }
func (st *State) IsMap(index int) bool    { return st.Get(index).Is(value.KindMap) }
func (st *State) IsCallable(index int) bool {
	v := st.Get(index)
	if !v.IsObject() {
		return false
	}
	switch v.AsObject().ObjKind() {
	case value.KindClosure, value.KindNative, value.KindClass, value.KindBoundMethod:
		return true
	default:
		return false
	}
}

func (st *State) ToBool(index int) bool { return st.Get(index).Truthy() }

func (st *State) ToNumber(index int) (float64, error) {
	v := st.Get(index)
	if !v.IsNumber() {
		return 0, fmt.Errorf("expected a number, got %s", object.ToString(v))
	}
	return v.AsNumber(), nil
}

func (st *State) ToString(index int) (string, error) {
	v := st.Get(index)
	if !v.Is(value.KindString) {
		return "", fmt.Errorf("expected a string, got %s", object.ToString(v))
	}
	return v.AsObject().(*object.String).Bytes, nil
}

// Stringify renders any value via 's canonical string form, used by a
// host for e.g. a print() builtin.
func (st *State) Stringify(index int) string { return object.ToString(st.Get(index)) }

// --- globals and modules ---

func (st *State) SetGlobal(name string, v value.Value) {
	setGlobal(st.s, st.s.NewString(name), v)
}

func (st *State) GetGlobal(name string) (value.Value, bool) {
	key := st.s.NewString(name)
	return getGlobal(st.s, key)
}

// RegisterModule installs a host-provided (native) module under name so
// script code can `import name`.
func (st *State) RegisterModule(name string, m *object.Module) {
	st.vm.RegisterNativeModule(name, m)
	st.s.Modules[name] = m
}

// NewModule is a convenience constructor for a native module's container,
// used by stdlib packages before populating its Values table.
func (st *State) NewModule(name string) *object.Module {
	return st.s.NewModule(st.s.NewString(name), name)
}

func (st *State) DefineNative(m *object.Module, name string, kind object.NativeKind, fn object.NativeFn) {
	n := st.s.NewNative(name, kind, fn)
	setModuleValue(m, st.s.NewString(name), value.Object(n))
}

// --- invocation ---

// Protect runs f as a protected call, the embedding-surface equivalent of
// tea_pcall: a returned error or a panic escaping a native reachable from f
// is recovered and rolls the operand stack and call-frame depth back to
// their state at entry, rather than either corrupting the stack for
// subsequent calls or taking the embedding host down. Call and Interpret
// are both already wrapped in Protect; it is exposed directly for a host
// that wants to isolate its own sequence of API calls (e.g. several Call
// invocations it wants to treat as one unit) the same way.
func (st *State) Protect(f func() error) error {
	return protect.RunWithPanicHandler(st.s, f, st.panicHandler)
}

// Call invokes callee with args and returns its single result, protected
// against a panicking native or script error rolling back the stack.
func (st *State) Call(callee value.Value, args ...value.Value) (value.Value, error) {
	var result value.Value
	err := st.Protect(func() error {
		var callErr error
		result, callErr = st.vm.CallValue(callee, args)
		return callErr
	})
	return result, err
}

// Interpret runs a top-level compiled closure to completion (the host's
// entry point after a Loader has produced one), protected the same way
// Call is.
func (st *State) Interpret(entry *object.Closure) error {
	return st.Protect(func() error {
		return st.vm.Interpret(entry)
	})
}

// SetLoader installs the script-module resolver used by `import`.
func (st *State) SetLoader(l vm.Loader) { st.vm.SetLoader(l) }

// NewChunk starts a fresh bytecode chunk anchored on this state's operand
// stack for constant-pool GC safety.
func (st *State) NewChunk() *chunk.Chunk { return chunk.New() }

// Anchor exposes the state's stack as a chunk.Anchor for chunk.AddConstant.
func (st *State) Anchor() chunk.Anchor { return st.s }

// Runtime exposes the underlying state for packages (stdlib) that need
// direct GC-tracked constructors beyond the stack-level API above.
func (st *State) Runtime() *state.State { return st.s }

// --- push primitives, continued: range, generic native, userdata ---

func (st *State) PushRange(start, end, step float64) *object.Range {
	r := st.s.NewRange(start, end, step)
	st.s.Push(value.Object(r))
	return r
}

// PushCFunction pushes a standalone native value not attached to any
// module or class, e.g. a one-off callback a host builds itself and hands
// to a script as a global.
func (st *State) PushCFunction(name string, kind object.NativeKind, fn object.NativeFn) *object.Native {
	n := st.s.NewNative(name, kind, fn)
	st.s.Push(value.Object(n))
	return n
}

func (st *State) PushUserdata(size int) *object.Userdata {
	u := st.s.NewUserdata(size)
	st.s.Push(value.Object(u))
	return u
}

// GetRange reads the Start/End/Step triple out of the range at index.
func (st *State) GetRange(index int) (start, end, step float64, err error) {
	v := st.Get(index)
	if !v.Is(value.KindRange) {
		return 0, 0, 0, fmt.Errorf("expected a range, got %s", object.ToString(v))
	}
	r := v.AsObject().(*object.Range)
	return r.Start, r.End, r.Step, nil
}

// --- generic type query / equality ---

// TypeTag returns the value tag at index (null/bool/number/object),
// letting a host switch on the coarse value category without importing
// package value's constructors directly; TypeName gives the finer
// heap-object kind for the TagObject case.
func (st *State) TypeTag(index int) value.Tag { return st.Get(index).Tag() }

// TypeName renders a human-readable type name, the same name a runtime
// error message would use (e.g. "number", "string", "List").
func (st *State) TypeName(index int) string { return typeName(st.Get(index)) }

func typeName(v value.Value) string {
	if !v.IsObject() {
		switch {
		case v.IsNull():
			return "null"
		case v.IsBool():
			return "bool"
		case v.IsNumber():
			return "number"
		default:
			return "value"
		}
	}
	switch v.AsObject().(type) {
	case *object.String:
		return "string"
	case *object.List:
		return "List"
	case *object.Map:
		return "Map"
	case *object.Range:
		return "Range"
	case *object.Closure, *object.Native, *object.BoundMethod:
		return "function"
	case *object.Class:
		return "Class"
	case *object.Instance:
		return "Instance"
	case *object.Module:
		return "Module"
	case *object.Userdata:
		return "Userdata"
	case *object.File:
		return "File"
	default:
		return "object"
	}
}

// Equals reports whether the two stack values are equal under the
// language's own equality rule, object.DeepEqual (value equality for
// primitives and strings, element-wise equality for lists, maps and
// ranges, identity for every other heap object).
func (st *State) Equals(index1, index2 int) bool {
	return object.DeepEqual(st.Get(index1), st.Get(index2))
}

// --- stack manipulation by index ---

// Remove deletes the value at index, sliding everything above it down by
// one slot.
func (st *State) Remove(index int) {
	i := st.abs(index)
	if i < 0 || i >= st.s.Top() {
		return
	}
	copy(st.s.Stack[i:], st.s.Stack[i+1:st.s.Top()])
	st.s.SetTop(st.s.Top() - 1)
}

// Insert pushes v, then slides it down to index, shifting everything
// originally at or above index up by one slot.
func (st *State) Insert(index int, v value.Value) {
	st.s.Push(v)
	i := st.abs(index)
	top := st.s.Top() - 1
	if i < 0 || i >= top {
		return
	}
	copy(st.s.Stack[i+1:top+1], st.s.Stack[i:top])
	st.s.Stack[i] = v
}

// Replace stores v at index, overwriting whatever was there; the stack
// top is left unchanged.
func (st *State) Replace(index int, v value.Value) { st.Set(index, v) }

// Copy duplicates the value at fromIndex into toIndex, overwriting
// whatever was there.
func (st *State) Copy(fromIndex, toIndex int) {
	st.Set(toIndex, st.Get(fromIndex))
}

// --- lifecycle ---

// Close releases references the state holds that would otherwise keep
// large graphs reachable after the host is done with this interpreter
// (open upvalues, call frames, the operand stack itself); Go's own garbage
// collector reclaims the rest once the *State itself goes unreferenced.
// Safe to call more than once.
func (st *State) Close() {
	st.s.SetTop(0)
	st.s.Frames = st.s.Frames[:0]
	st.s.OpenUpvalues = nil
}

// SetAllocator installs a hook invoked with the byte size of every
// allocation the collector tracks, the closest Go equivalent of
// lua_setallocf's accounting role (Go's runtime owns the actual
// allocator; this lets a host meter or cap interpreter memory use without
// replacing it).
func (st *State) SetAllocator(hook func(delta int64)) {
	st.s.GC.AllocHook = hook
}

// SetPanicHandler installs a callback invoked with the recovered value
// whenever Protect (or Call/Interpret, which route through it) recovers a
// panicking native, before it is converted into a returned error.
func (st *State) SetPanicHandler(h func(recovered interface{})) {
	st.panicHandler = h
}

// --- error construction and argument checking ---

// Error formats a plain Go error from format and args, for a host that
// wants to raise one from outside a native callback (e.g. validating a
// Call's arguments before invoking it). Unlike a native's ThrowError it
// does not build a *vm.RuntimeError and carries no traceback.
func (st *State) Error(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// CheckNumber reads index as a number, erroring with Error's convention if
// it isn't one — the Go-embedding equivalent of luaL_checknumber.
func (st *State) CheckNumber(index int) (float64, error) { return st.ToNumber(index) }

// CheckString reads index as a string.
func (st *State) CheckString(index int) (string, error) { return st.ToString(index) }

// CheckList reads index as a list.
func (st *State) CheckList(index int) (*object.List, error) {
	v := st.Get(index)
	if !v.Is(value.KindList) {
		return nil, st.Error("expected a list, got %s", typeName(v))
	}
	return v.AsObject().(*object.List), nil
}

// CheckMap reads index as a map.
func (st *State) CheckMap(index int) (*object.Map, error) {
	v := st.Get(index)
	if !v.Is(value.KindMap) {
		return nil, st.Error("expected a map, got %s", typeName(v))
	}
	return v.AsObject().(*object.Map), nil
}
