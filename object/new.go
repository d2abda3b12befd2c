package object

import "teascript/value"

// The New* constructors build a bare heap object with its Kind set and
// Marked/Next left at zero value. They do not link the object into any
// allocation list or account its bytes — that is the GC's job (see
// gc.Collector.Track), kept separate so this package never needs to know
// about the collector.

func NewString(bytes string, hash uint64) *String {
	return &String{Header: Header{Kind: value.KindString}, Bytes: bytes, Hash: hash}
}

func NewRange(start, end, step float64) *Range {
	return &Range{Header: Header{Kind: value.KindRange}, Start: start, End: end, Step: step}
}

func NewList() *List {
	return &List{Header: Header{Kind: value.KindList}}
}

func NewMap() *Map {
	return &Map{Header: Header{Kind: value.KindMap}}
}

func NewFunction(name string) *Function {
	return &Function{Header: Header{Kind: value.KindFunction}, Name: name}
}

func NewClosure(fn *Function) *Closure {
	return &Closure{
		Header:   Header{Kind: value.KindClosure},
		Function: fn,
		Upvalues: make([]*Upvalue, fn.UpvalueCount),
	}
}

func NewUpvalue(loc *value.Value, stackIndex int) *Upvalue {
	return &Upvalue{Header: Header{Kind: value.KindUpvalue}, Location: loc, StackIndex: stackIndex}
}

func NewNative(name string, kind NativeKind, fn NativeFn) *Native {
	return &Native{Header: Header{Kind: value.KindNative}, Name: name, Kind: kind, Fn: fn}
}

func NewClass(name *String, super *Class) *Class {
	return &Class{Header: Header{Kind: value.KindClass}, Name: name, Super: super, Constructor: value.Null}
}

func NewInstance(class *Class) *Instance {
	return &Instance{Header: Header{Kind: value.KindInstance}, Class: class}
}

func NewBoundMethod(receiver, method value.Value) *BoundMethod {
	return &BoundMethod{Header: Header{Kind: value.KindBoundMethod}, Receiver: receiver, Method: method}
}

func NewModule(name *String, path string) *Module {
	return &Module{Header: Header{Kind: value.KindModule}, Name: name, Path: path}
}

func NewUserdata(size int) *Userdata {
	return &Userdata{Header: Header{Kind: value.KindUserdata}, Data: make([]byte, size), Size: size}
}

func NewFile(path, mode string) *File {
	return &File{Header: Header{Kind: value.KindFile}, Path: path, Mode: mode}
}
