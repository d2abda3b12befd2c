// Package strtable implements the string-interning substrate: a
// dedicated table keyed on (hash, length, bytes) that canonicalizes
// string content so two strings with equal bytes are the same object.
// Backed by package table's probing logic, since the interned-string set
// is itself exactly a string-keyed table used as a set (each key is the
// interned *object.String, stored with the value true).
package strtable

import (
	"teascript/object"
	"teascript/table"
	"teascript/value"
)

// Table owns the interning set. The GC walks Strings (via RemoveWhite)
// before sweeping unmarked strings so no dangling key survives.
type Table struct {
	Strings object.Table
}

// Intern returns the canonical *object.String for bytes, allocating and
// linking a new one via alloc if no equal string exists yet. alloc is
// supplied by the caller (state/gc) so this package never needs to import
// the collector.
func (t *Table) Intern(bytes string, alloc func(bytes string, hash uint64) *object.String) *object.String {
	hash := object.HashFNV1a(bytes)
	if existing := table.FindString(&t.Strings, bytes, hash); existing != nil {
		return existing
	}
	s := alloc(bytes, hash)
	table.Set(&t.Strings, s, value.Bool(true))
	return s
}

// RemoveWhite deletes every interned entry whose string is unmarked; call
// before the sweep phase frees those strings.
func (t *Table) RemoveWhite() {
	table.RemoveWhite(&t.Strings)
}
