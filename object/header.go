// Package object implements Teascript's heap object model: the common GC
// header every heap kind embeds, and the concrete kinds themselves (string,
// range, list, map, function, closure, upvalue, native, class, instance,
// bound method, module, userdata, file). Grounded on tea_object.h/.c and
// adapted from the struct layout of sentra/internal/vmregister's Object
// header (Type/Marked/Next).
package object

import "teascript/value"

// Header is the common part of every heap object: its kind, GC mark bit,
// and intrusive singly-linked allocation-list pointer.
type Header struct {
	Kind   value.Kind
	Marked bool
	Next   value.HeapObject
}

func (h *Header) ObjKind() value.Kind        { return h.Kind }
func (h *Header) ObjMarked() bool            { return h.Marked }
func (h *Header) SetObjMarked(m bool)        { h.Marked = m }
func (h *Header) ObjNext() value.HeapObject  { return h.Next }
func (h *Header) SetObjNext(n value.HeapObject) { h.Next = n }

// HashFNV1a computes the FNV-1a hash of a byte sequence, used for string
// hashing and as the default string-table
// hash used by the interning substrate (strtable).
func HashFNV1a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
