// Package value defines Teascript's runtime value representation: a
// uniformly sized cell holding exactly one of null, boolean, number, or a
// heap-object reference (see tea_value.h / TeaValue in the original source).
//
// A raw NaN-boxed uint64 (as sentra/internal/vmregister does for its
// register VM) would hide heap pointers from Go's own garbage collector
// inside an integer, which fights the mark-sweep collector this module
// implements — Go's runtime would be free to think a NaN-boxed pointer is
// just a number and is free to, at minimum, leave the GC confused about
// liveness. A small tagged struct keeps the same "one cell, one tag check"
// shape without hiding pointers from the host runtime.
package value

// Tag identifies which alternative of the Value union is populated.
type Tag uint8

const (
	TagNull Tag = iota
	TagBool
	TagNumber
	TagObject
)

// Kind identifies the concrete heap object type backing a TagObject Value.
// Mirrors TeaObjectType in tea_object.h.
type Kind uint8

const (
	KindString Kind = iota
	KindRange
	KindList
	KindMap
	KindFunction
	KindClosure
	KindUpvalue
	KindNative
	KindClass
	KindInstance
	KindBoundMethod
	KindModule
	KindUserdata
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindRange:
		return "range"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFunction, KindClosure:
		return "function"
	case KindUpvalue:
		return "upvalue"
	case KindNative:
		return "function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindBoundMethod:
		return "method"
	case KindModule:
		return "module"
	case KindUserdata:
		return "userdata"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// HeapObject is implemented by every heap-allocated object kind via the
// embedded Header. It is the interface the GC and allocation list traffic
// in, and the Value union's object alternative.
type HeapObject interface {
	ObjKind() Kind
	ObjMarked() bool
	SetObjMarked(bool)
	ObjNext() HeapObject
	SetObjNext(HeapObject)
}

// Value is the VM's uniformly-sized value cell.
type Value struct {
	tag Tag
	num float64
	obj HeapObject
}

var Null = Value{tag: TagNull}

func Bool(b bool) Value {
	n := 0.0
	if b {
		n = 1.0
	}
	return Value{tag: TagBool, num: n}
}

func Number(n float64) Value { return Value{tag: TagNumber, num: n} }

func Object(o HeapObject) Value {
	if o == nil {
		return Null
	}
	return Value{tag: TagObject, obj: o}
}

func (v Value) Tag() Tag        { return v.tag }
func (v Value) IsNull() bool    { return v.tag == TagNull }
func (v Value) IsBool() bool    { return v.tag == TagBool }
func (v Value) IsNumber() bool  { return v.tag == TagNumber }
func (v Value) IsObject() bool  { return v.tag == TagObject }
func (v Value) AsBool() bool    { return v.num != 0 }
func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsObject() HeapObject { return v.obj }

// Is reports whether v is a heap object of the given kind.
func (v Value) Is(k Kind) bool {
	return v.tag == TagObject && v.obj != nil && v.obj.ObjKind() == k
}

// Truthy reports whether v counts as true: null, false, numeric zero,
// empty string, empty list, empty map are falsey; everything else is
// truthy. Emptiness of strings/lists/maps is judged through the Falseyer
// interface so this package stays independent of the object package.
func (v Value) Truthy() bool {
	switch v.tag {
	case TagNull:
		return false
	case TagBool:
		return v.AsBool()
	case TagNumber:
		return v.num != 0
	case TagObject:
		if f, ok := v.obj.(Falseyer); ok {
			return !f.IsEmpty()
		}
		return true
	default:
		return true
	}
}

// Falseyer is implemented by heap objects whose emptiness participates in
// truthiness (string, list, map).
type Falseyer interface {
	IsEmpty() bool
}

// Equal implements shallow, tag-first equality: numbers and bools compare
// by value; heap references compare by identity (which is correct for
// interned strings and for any other heap kind whose deep/structural
// equality is not otherwise defined here — see object.DeepEqual for
// list/map/range structural comparison).
func Equal(a, b Value) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagNull:
		return true
	case TagBool:
		return a.AsBool() == b.AsBool()
	case TagNumber:
		return a.num == b.num
	case TagObject:
		return a.obj == b.obj
	default:
		return false
	}
}
