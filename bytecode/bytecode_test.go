package bytecode

import (
	"bytes"
	"testing"

	"teascript/chunk"
	"teascript/object"
	"teascript/value"
)

// internTable is a minimal stand-in for strtable.Table.Intern, deduping by
// content so round-tripped string constants keep pointer identity without
// pulling the state package into this test.
type internTable struct {
	m map[string]*object.String
}

func newInternTable() *internTable { return &internTable{m: map[string]*object.String{}} }

func (t *internTable) intern(s string) *object.String {
	if existing, ok := t.m[s]; ok {
		return existing
	}
	o := object.NewString(s, object.HashFNV1a(s))
	t.m[s] = o
	return o
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fn := object.NewFunction("main")
	fn.Arity = 1
	fn.ArityOptional = 1
	fn.UpvalueCount = 2
	fn.MaxSlots = 8
	fn.Variadic = true
	fn.UpvalueDescs = []object.UpvalueDesc{{IsLocal: true, Index: 0}, {IsLocal: false, Index: 1}}

	c := chunk.New()
	c.Code = []byte{1, 2, 3, 4, 5}
	c.Constants = []value.Value{value.Number(42), value.Object(object.NewString("hi", 0))}
	fn.Chunk = c

	var buf bytes.Buffer
	if err := Save(&buf, fn); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tbl := newInternTable()
	got, err := Load(&buf, tbl.intern)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Name != "main" || got.Arity != 1 || got.ArityOptional != 1 ||
		got.UpvalueCount != 2 || got.MaxSlots != 8 || !got.Variadic {
		t.Fatalf("round-tripped function header mismatch: %+v", got)
	}
	if len(got.UpvalueDescs) != 2 || got.UpvalueDescs[0] != fn.UpvalueDescs[0] || got.UpvalueDescs[1] != fn.UpvalueDescs[1] {
		t.Fatalf("upvalue descs mismatch: %+v", got.UpvalueDescs)
	}

	gotChunk, ok := got.Chunk.(*chunk.Chunk)
	if !ok {
		t.Fatal("loaded function's Chunk is not a *chunk.Chunk")
	}
	if !bytes.Equal(gotChunk.Code, c.Code) {
		t.Errorf("code = %v, want %v", gotChunk.Code, c.Code)
	}
	if len(gotChunk.Constants) != 2 || gotChunk.Constants[0].AsNumber() != 42 {
		t.Fatalf("constants mismatch: %+v", gotChunk.Constants)
	}
	str, ok := gotChunk.Constants[1].AsObject().(*object.String)
	if !ok || str.Bytes != "hi" {
		t.Fatalf("string constant mismatch: %+v", gotChunk.Constants[1])
	}
}

func TestLoadInternsStringConstantsByIdentity(t *testing.T) {
	fn := object.NewFunction("f")
	c := chunk.New()
	c.Constants = []value.Value{
		value.Object(object.NewString("same", 0)),
		value.Object(object.NewString("same", 0)),
	}
	fn.Chunk = c

	var buf bytes.Buffer
	if err := Save(&buf, fn); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tbl := newInternTable()
	got, err := Load(&buf, tbl.intern)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gotChunk := got.Chunk.(*chunk.Chunk)
	a := gotChunk.Constants[0].AsObject().(*object.String)
	b := gotChunk.Constants[1].AsObject().(*object.String)
	if a != b {
		t.Error("two constants with equal string content should be interned to the same object after Load")
	}
}

func TestSaveLoadNestedFunctionConstant(t *testing.T) {
	inner := object.NewFunction("inner")
	innerChunk := chunk.New()
	innerChunk.Code = []byte{9}
	inner.Chunk = innerChunk

	outer := object.NewFunction("outer")
	outerChunk := chunk.New()
	outerChunk.Constants = []value.Value{value.Object(inner)}
	outer.Chunk = outerChunk

	var buf bytes.Buffer
	if err := Save(&buf, outer); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tbl := newInternTable()
	got, err := Load(&buf, tbl.intern)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gotChunk := got.Chunk.(*chunk.Chunk)
	if len(gotChunk.Constants) != 1 {
		t.Fatalf("expected one nested function constant, got %d", len(gotChunk.Constants))
	}
	nested, ok := gotChunk.Constants[0].AsObject().(*object.Function)
	if !ok || nested.Name != "inner" {
		t.Fatalf("nested constant = %+v, want function named inner", gotChunk.Constants[0])
	}
}

func TestLoadRejectsBadSignature(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("nope")
	if _, err := Load(&buf, func(s string) *object.String { return object.NewString(s, 0) }); err == nil {
		t.Error("expected an error loading a buffer with a bad signature")
	}
}
