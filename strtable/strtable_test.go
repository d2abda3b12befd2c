package strtable

import (
	"testing"

	"teascript/object"
)

func alloc(bytes string, hash uint64) *object.String {
	return object.NewString(bytes, hash)
}

func TestInternReturnsSamePointerForEqualBytes(t *testing.T) {
	var tbl Table
	a := tbl.Intern("hello", alloc)
	b := tbl.Intern("hello", alloc)
	if a != b {
		t.Error("interning the same bytes twice should return the same *object.String")
	}
}

func TestInternDistinctBytes(t *testing.T) {
	var tbl Table
	a := tbl.Intern("hello", alloc)
	b := tbl.Intern("world", alloc)
	if a == b {
		t.Error("interning distinct bytes should return distinct objects")
	}
}

func TestRemoveWhiteDropsUnmarkedStrings(t *testing.T) {
	var tbl Table
	live := tbl.Intern("live", alloc)
	dead := tbl.Intern("dead", alloc)
	live.Marked = true
	dead.Marked = false

	tbl.RemoveWhite()

	if tbl.Intern("live", alloc) != live {
		t.Error("marked string should survive RemoveWhite and still be findable")
	}
	if again := tbl.Intern("dead", alloc); again == dead {
		t.Error("unmarked string should have been removed, forcing a fresh allocation")
	}
}
