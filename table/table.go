// Package table implements the open-addressed, string-keyed hash table:
// linear probing, power-of-two capacity, load factor <= 0.75, tombstone
// deletion. Grounded line-for-line on tea_table.c.
//
// The table itself (object.Table / object.Entry) lives in package object so
// that object.Class/Instance/Module can embed it by value without object
// importing this package; this package holds only the algorithm.
package table

import (
	"teascript/object"
	"teascript/value"
)

const maxLoad = 0.75

func growCapacity(cap int) int {
	if cap < 8 {
		return 8
	}
	return cap * 2
}

func findEntry(entries []object.Entry, capacity int, key *object.String) *object.Entry {
	index := key.Hash & uint64(capacity-1)
	var tombstone *object.Entry
	for {
		entry := &entries[index]
		if entry.Key == nil {
			if entry.Value.IsNull() {
				if tombstone != nil {
					return tombstone
				}
				return entry
			}
			if tombstone == nil {
				tombstone = entry
			}
		} else if entry.Key == key {
			return entry
		}
		index = (index + 1) & uint64(capacity-1)
	}
}

func adjustCapacity(t *object.Table, capacity int) {
	entries := make([]object.Entry, capacity)
	for i := range entries {
		entries[i] = object.Entry{Value: value.Null}
	}

	t.Count = 0
	for i := 0; i < t.Capacity; i++ {
		entry := &t.Entries[i]
		if entry.Key == nil {
			continue
		}
		dest := findEntry(entries, capacity, entry.Key)
		dest.Key = entry.Key
		dest.Value = entry.Value
		t.Count++
	}

	t.Entries = entries
	t.Capacity = capacity
}

// Get returns the value stored under key, or (Null, false) if absent.
func Get(t *object.Table, key *object.String) (value.Value, bool) {
	if t.Count == 0 {
		return value.Null, false
	}
	entry := findEntry(t.Entries, t.Capacity, key)
	if entry.Key == nil {
		return value.Null, false
	}
	return entry.Value, true
}

// Set stores value under key, growing the table if needed, and reports
// whether key was new.
func Set(t *object.Table, key *object.String, v value.Value) bool {
	if float64(t.Count+1) > float64(t.Capacity)*maxLoad {
		adjustCapacity(t, growCapacity(t.Capacity))
	}

	entry := findEntry(t.Entries, t.Capacity, key)
	isNewKey := entry.Key == nil
	if isNewKey && entry.Value.IsNull() {
		t.Count++
	}

	entry.Key = key
	entry.Value = v
	return isNewKey
}

// Delete removes key, leaving a tombstone (nil key, true value) so later
// probes do not stop short.
func Delete(t *object.Table, key *object.String) bool {
	if t.Count == 0 {
		return false
	}
	entry := findEntry(t.Entries, t.Capacity, key)
	if entry.Key == nil {
		return false
	}
	entry.Key = nil
	entry.Value = value.Bool(true)
	return true
}

// AddAll copies every entry of from into to (used by INHERIT to seed a
// subclass's methods/statics with its superclass's defaults).
func AddAll(from, to *object.Table) {
	for i := 0; i < from.Capacity; i++ {
		entry := &from.Entries[i]
		if entry.Key != nil {
			Set(to, entry.Key, entry.Value)
		}
	}
}

// FindString looks up an interned candidate by raw bytes/hash before its
// object.String exists yet — the chicken-and-egg step string interning
// needs (you can't look up "by pointer" if you don't have the pointer).
func FindString(t *object.Table, chars string, hash uint64) *object.String {
	if t.Count == 0 {
		return nil
	}
	index := hash & uint64(t.Capacity-1)
	for {
		entry := &t.Entries[index]
		if entry.Key == nil {
			if entry.Value.IsNull() {
				return nil
			}
		} else if entry.Key.Hash == hash && entry.Key.Bytes == chars {
			return entry.Key
		}
		index = (index + 1) & uint64(t.Capacity-1)
	}
}

// RemoveWhite deletes every entry whose key object is unmarked. Called by
// the collector on the global string table before sweep frees those
// strings, so no dangling key survives into the next lookup.
func RemoveWhite(t *object.Table) {
	for i := 0; i < t.Capacity; i++ {
		entry := &t.Entries[i]
		if entry.Key != nil && !entry.Key.Marked {
			Delete(t, entry.Key)
		}
	}
}

// Mark calls mark on every live key and value in t (used by the collector
// while blackening an object that owns a Table field).
func Mark(t *object.Table, markObject func(value.HeapObject), markValue func(value.Value)) {
	for i := 0; i < t.Capacity; i++ {
		entry := &t.Entries[i]
		if entry.Key != nil {
			markObject(entry.Key)
		}
		markValue(entry.Value)
	}
}
