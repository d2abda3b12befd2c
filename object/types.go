package object

import (
	"os"

	"teascript/value"
)

// String is an immutable, interned byte sequence. Two strings with
// equal bytes are the same object (strtable guarantees this), so Value
// equality on strings reduces to pointer identity like any other object.
type String struct {
	Header
	Bytes string
	Hash  uint64
}

func (s *String) IsEmpty() bool { return len(s.Bytes) == 0 }

// KeyHash satisfies table.Key so interned strings can key the string-keyed
// hash table without that package importing object (and vice versa).
func (s *String) KeyHash() uint64 { return s.Hash }

// Range is the three-double start/end/step object.
type Range struct {
	Header
	Start float64
	End   float64
	Step  float64
}

// List is a dynamic, insertion-ordered value array.
type List struct {
	Header
	Items []value.Value
}

func (l *List) IsEmpty() bool { return len(l.Items) == 0 }

// Entry is one slot of a string-keyed Table. A tombstone is
// represented by Key == nil with Value holding BOOL_VAL(true), matching
// tea_table.c exactly.
type Entry struct {
	Key   *String
	Value value.Value
}

// Table is the open-addressed, string-keyed hash table used for globals,
// module values, class methods/statics, and instance fields. It is plain
// data here; the probing algorithm lives in package table so that this
// package never needs to import it (object -> table would otherwise cycle
// with table -> object for the *String key type).
type Table struct {
	Entries  []Entry
	Count    int
	Capacity int
}

// MapItem is one slot of a general-key Map. Empty marks a slot with no
// live entry: an unused slot has Val == value.Null, and a deleted entry
// becomes a tombstone with Empty set and Val == value.Bool(true) until
// reuse (see package ordmap for the exact tombstone rule).
type MapItem struct {
	Key   value.Value
	Val   value.Value
	Empty bool
}

// Map is the open-addressed, general-hashable-key map backing the
// user-facing map value; no enum kind is built on it.
type Map struct {
	Header
	Items    []MapItem
	Count    int
	Capacity int
}

func (m *Map) IsEmpty() bool { return m.Count == 0 }

// UpvalueDesc describes one upvalue captured by OP_CLOSURE: whether it
// captures a local slot of the enclosing frame, or copies an upvalue of the
// enclosing closure, and at which index.
type UpvalueDesc struct {
	IsLocal bool
	Index   int
}

// Function is a compiled function prototype: fixed arity, optional
// arity, variadic flag, upvalue count, max operand slots, owning module,
// optional name, and its chunk.
type Function struct {
	Header
	Name           string
	Arity          int
	ArityOptional  int
	Variadic       bool
	UpvalueCount   int
	MaxSlots       int
	Module         *Module
	Chunk          FunctionChunk
	UpvalueDescs   []UpvalueDesc
}

// FunctionChunk is satisfied by *chunk.Chunk; declared here as an interface
// so object does not need to import chunk for field typing while chunk
// stays free of any object dependency. The vm/state packages hold the
// concrete *chunk.Chunk and use it directly.
type FunctionChunk interface {
	InstructionCount() int
}

// Closure pairs a function prototype with its captured upvalues.
type Closure struct {
	Header
	Function *Function
	Upvalues []*Upvalue
}

// Upvalue is open (Location points into the live operand stack) or closed
// (Location points at Closed). OpenNext threads the state's sorted
// open-upvalue list; it is distinct from Header.Next, the GC allocation
// list.
type Upvalue struct {
	Header
	Location   *value.Value
	Closed     value.Value
	OpenNext   *Upvalue
	StackIndex int // valid while open; lets the VM order/compare open upvalues without pointer arithmetic
}

// NativeKind distinguishes a regular function from a bound method or a
// property getter.
type NativeKind uint8

const (
	NativeFunction NativeKind = iota
	NativeMethod
	NativeProperty
)

// Runtime is the minimal surface a native callback needs: its arguments,
// an optional receiver, object constructors, error raising, and the
// ability to call back into a script value. Declared here (not in package
// api) so object.Native can hold a NativeFn without object importing api;
// package api's *api.State satisfies this interface structurally.
type Runtime interface {
	ArgCount() int
	Arg(i int) value.Value
	Receiver() value.Value
	NewString(s string) *String
	NewList() *List
	NewMap() *Map
	NewUserdata(size int) *Userdata
	ThrowError(format string, args ...interface{}) error
	CallValue(callee value.Value, args []value.Value) (value.Value, error)
	MapSet(m *Map, key, v value.Value) bool
	MapGet(m *Map, key value.Value) (value.Value, bool)
}

// NativeFn is a host callback. It always produces exactly one result value
// ... replaces all of them with the single result").
type NativeFn func(rt Runtime) (value.Value, error)

// Native is a host-provided function, bound method, or property getter.
type Native struct {
	Header
	Name string
	Kind NativeKind
	Fn   NativeFn
}

// Class has a name, optional superclass, a constructor value cached from
// methods["constructor"], and string-keyed methods/statics tables.
type Class struct {
	Header
	Name        *String
	Super       *Class
	Constructor value.Value
	Methods     Table
	Statics     Table
}

// Instance is a class reference plus a string-keyed fields table.
type Instance struct {
	Header
	Class  *Class
	Fields Table
}

// BoundMethod pairs a receiver with a method value (closure or native).
type BoundMethod struct {
	Header
	Receiver value.Value
	Method   value.Value
}

// Module has a name, a filesystem path (for relative imports), and a
// string-keyed values table.
type Module struct {
	Header
	Name   *String
	Path   string
	Values Table
}

// Userdata is an opaque host-owned buffer with recorded size. Host lets
// real embedders (see stdlib/dblib, stdlib/netlib) stash an arbitrary
// Go object (a *sql.DB, a *websocket.Conn) behind a userdata handle, the
// same role Lua's userdata-plus-metatable pairing fills in practice.
type Userdata struct {
	Header
	Data []byte
	Size int
	Host interface{}
}

// File is a host file handle, path, mode, and open flag.
type File struct {
	Header
	Handle *os.File
	Path   string
	Mode   string
	IsOpen bool
}
