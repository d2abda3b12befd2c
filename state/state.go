// Package state owns the interpreter's mutable runtime: the operand stack,
// call frames, global/module tables, the string-interning table, the
// open-upvalue chain, and the small set of cached per-kind classes that let
// every value respond to method calls. It
// also implements gc.RootSet and chunk.Anchor so the collector and the
// chunk builder can each see exactly the slice of State they need without
// either package importing this one.
//
// Grounded on sentra/internal/vm's VM struct (stack/frames/globals layout)
// and tea_state.h's TeaState (string table, cached classes, constructor
// string, last module, call-frame bound).
package state

import (
	"fmt"

	"teascript/gc"
	"teascript/object"
	"teascript/strtable"
	"teascript/table"
	"teascript/value"
)

const (
	defaultMaxFrames  = 256     // mirrors TEA_FRAMES_MAX
	defaultMaxCCalls  = 200     // mirrors TEA_MAX_CCALLS
	initialStackSlots = 1024    // starting operand-stack capacity; grows on demand, see GrowStack
	maxStackSlots     = 1 << 24 // hard ceiling on operand-stack growth, guarding against a pathological MaxSlots request exhausting host memory
)

// Options configures a State at construction; the zero value is usable and
// fills in the documented defaults. GCGrowthFactor is not read: the
// collector always grows its threshold by a factor of 2.
type Options struct {
	StressGC       bool
	GCGrowthFactor int64
	MaxFrames      int
	MaxCCalls      int
}

// Frame is one call-frame on the call stack: the closure being executed,
// its instruction pointer, and the base index of its operand-stack window.
type Frame struct {
	Closure *object.Closure
	IP      int
	Base    int
}

// State is one independent interpreter instance.
type State struct {
	Stack  []value.Value
	Frames []Frame

	Globals object.Table
	Strings strtable.Table
	Modules map[string]*object.Module

	OpenUpvalues *object.Upvalue

	StringClass *object.Class
	ListClass   *object.Class
	MapClass    *object.Class
	RangeClass  *object.Class
	FileClass   *object.Class

	ConstructorString *object.String
	ReplString        *object.String

	LastModule *object.Module

	GC   *gc.Collector
	Opts Options

	cCallDepth int
}

func New(opts Options) *State {
	if opts.MaxFrames == 0 {
		opts.MaxFrames = defaultMaxFrames
	}
	if opts.MaxCCalls == 0 {
		opts.MaxCCalls = defaultMaxCCalls
	}
	s := &State{
		Stack:   make([]value.Value, 0, initialStackSlots),
		Modules: make(map[string]*object.Module),
		Opts:    opts,
	}
	s.GC = gc.New(&s.Strings)
	s.GC.StressGC = opts.StressGC
	s.ConstructorString = s.NewString("constructor")
	s.ReplString = s.NewString("_")
	return s
}

// --- operand stack, also satisfying chunk.Anchor ---

func (s *State) Push(v value.Value) {
	s.Stack = append(s.Stack, v)
}

func (s *State) Pop() value.Value {
	n := len(s.Stack) - 1
	v := s.Stack[n]
	s.Stack = s.Stack[:n]
	return v
}

func (s *State) Peek(distanceFromTop int) value.Value {
	return s.Stack[len(s.Stack)-1-distanceFromTop]
}

func (s *State) SetTop(n int) {
	s.Stack = s.Stack[:n]
}

func (s *State) Top() int { return len(s.Stack) }

// GrowStack reallocates the operand stack to the next power of two at
// least as large as needed slots, then repoints every open upvalue's
// Location at its slot in the new backing array. A no-op if the stack
// already has enough capacity; an error if needed exceeds maxStackSlots,
// the hard ceiling past which growth is refused rather than risking an
// unbounded allocation off a pathological MaxSlots.
//
// Mirrors tea_do.c's teaD_ensure_stack: "the stack is reallocated to the
// next power of two >= required; all references (frame bases, open-
// upvalue locations, top, base) are adjusted by the delta." Frame bases
// and Top/Base are plain indices into Stack, so they stay valid across the
// copy unchanged; only OpenUpvalues.Location, a raw *value.Value into the
// old backing array, needs fixing up, and StackIndex (recorded when the
// upvalue was captured) gives the new pointer without any pointer
// arithmetic on the moved slice, which Go disallows.
func (s *State) GrowStack(needed int) error {
	if needed <= cap(s.Stack) {
		return nil
	}
	if needed > maxStackSlots {
		return fmt.Errorf("stack overflow")
	}
	newCap := nextPow2(needed)
	newStack := make([]value.Value, len(s.Stack), newCap)
	copy(newStack, s.Stack)
	s.Stack = newStack
	for uv := s.OpenUpvalues; uv != nil; uv = uv.OpenNext {
		uv.Location = &s.Stack[uv.StackIndex]
	}
	return nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PushCCall increments the C-call reentrancy depth, erroring once
// Opts.MaxCCalls is exceeded.
func (s *State) PushCCall() error {
	s.cCallDepth++
	if s.cCallDepth > s.Opts.MaxCCalls {
		s.cCallDepth--
		return fmt.Errorf("C call overflow")
	}
	return nil
}

func (s *State) PopCCall() {
	s.cCallDepth--
}

// --- allocation: every heap object a native or the VM creates flows
// through one of these so the collector learns about it and the GC
// threshold check runs uniformly.

func (s *State) NewString(bytes string) *object.String {
	return s.Strings.Intern(bytes, func(b string, hash uint64) *object.String {
		str := object.NewString(b, hash)
		s.GC.Track(str, int64(32+len(b)), s)
		return str
	})
}

func (s *State) NewList() *object.List {
	l := object.NewList()
	s.GC.Track(l, 24, s)
	return l
}

func (s *State) NewMap() *object.Map {
	m := object.NewMap()
	s.GC.Track(m, 24, s)
	return m
}

func (s *State) NewRange(start, end, step float64) *object.Range {
	r := object.NewRange(start, end, step)
	s.GC.Track(r, 32, s)
	return r
}

func (s *State) NewFunction(name string) *object.Function {
	fn := object.NewFunction(name)
	s.GC.Track(fn, 64, s)
	return fn
}

func (s *State) NewClosure(fn *object.Function) *object.Closure {
	cl := object.NewClosure(fn)
	s.GC.Track(cl, int64(32+8*fn.UpvalueCount), s)
	return cl
}

func (s *State) NewUpvalue(loc *value.Value, stackIndex int) *object.Upvalue {
	uv := object.NewUpvalue(loc, stackIndex)
	s.GC.Track(uv, 32, s)
	return uv
}

func (s *State) NewNative(name string, kind object.NativeKind, fn object.NativeFn) *object.Native {
	n := object.NewNative(name, kind, fn)
	s.GC.Track(n, 40, s)
	return n
}

func (s *State) NewClass(name *object.String, super *object.Class) *object.Class {
	c := object.NewClass(name, super)
	if super != nil {
		table.AddAll(&super.Methods, &c.Methods)
		table.AddAll(&super.Statics, &c.Statics)
	}
	s.GC.Track(c, 64, s)
	return c
}

func (s *State) NewInstance(class *object.Class) *object.Instance {
	i := object.NewInstance(class)
	s.GC.Track(i, 48, s)
	return i
}

func (s *State) NewBoundMethod(receiver, method value.Value) *object.BoundMethod {
	b := object.NewBoundMethod(receiver, method)
	s.GC.Track(b, 32, s)
	return b
}

func (s *State) NewModule(name *object.String, path string) *object.Module {
	m := object.NewModule(name, path)
	s.GC.Track(m, 64, s)
	return m
}

func (s *State) NewUserdata(size int) *object.Userdata {
	u := object.NewUserdata(size)
	s.GC.Track(u, int64(32+size), s)
	return u
}

func (s *State) NewFile(path, mode string) *object.File {
	f := object.NewFile(path, mode)
	s.GC.Track(f, 48, s)
	return f
}

// MaybeCollect runs a collection if the allocation threshold was crossed
// without going through Track (e.g. a native that mutates an existing
// container rather than allocating one).
func (s *State) MaybeCollect() {
	s.GC.MaybeCollect(s)
}
