// Package ordmap implements a general-key map: same open-addressing
// discipline as package table, but keyed on any hashable Value (null,
// bool, number, string, range) instead of only interned strings, and
// slots carry an Empty flag instead of a sentinel key.
//
// Backs object.Map (the heap "Map" kind); nothing in this module builds
// enums with it, since package vm has no ENUM opcode.
package ordmap

import (
	"math"

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

// Hash computes the hash of any hashable value. Ranges and
// numbers hash on their bit patterns; strings reuse their cached hash
// (interning already deduplicated them); null and booleans are constants.
func Hash(v value.Value) uint64 {
	switch v.Tag() {
	case value.TagNull:
		return 0x9e3779b97f4a7c15
	case value.TagBool:
		if v.AsBool() {
			return 1
		}
		return 0
	case value.TagNumber:
		return hashBits(v.AsNumber())
	case value.TagObject:
		switch o := v.AsObject().(type) {
		case *object.String:
			return o.Hash
		case *object.Range:
			return hashBits(o.Start) ^ (hashBits(o.End) << 1) ^ (hashBits(o.Step) << 2)
		default:
			return 0
		}
	default:
		return 0
	}
}

func hashBits(f float64) uint64 {
	if f == 0 {
		f = 0 // normalize -0 to 0 so they hash (and compare) equal
	}
	bits := math.Float64bits(f)
	bits ^= bits >> 33
	bits *= 0xff51afd7ed558ccd
	bits ^= bits >> 33
	return bits
}

func valuesEqual(a, b value.Value) bool {
	return object.DeepEqual(a, b)
}

// A slot is either live (Empty == false), truly unused (Empty == true,
// Val == Null), or a tombstone left by Delete (Empty == true, Val ==
// Bool(true)) — the same null-vs-bool(true) marker convention package
// table uses to tell "stop probing" from "tombstone, keep probing" apart.
func findItem(items []object.MapItem, capacity int, key value.Value, hash uint64) *object.MapItem {
	index := hash & uint64(capacity-1)
	var tombstone *object.MapItem
	for {
		item := &items[index]
		if item.Empty {
			if item.Val.IsNull() {
				if tombstone != nil {
					return tombstone
				}
				return item
			}
			if tombstone == nil {
				tombstone = item
			}
		} else if valuesEqual(item.Key, key) {
			return item
		}
		index = (index + 1) & uint64(capacity-1)
	}
}

func adjustCapacity(m *object.Map, capacity int) {
	items := make([]object.MapItem, capacity)
	for i := range items {
		items[i] = object.MapItem{Empty: true}
	}

	m.Count = 0
	for i := 0; i < m.Capacity; i++ {
		item := &m.Items[i]
		if item.Empty {
			continue
		}
		dest := findItem(items, capacity, item.Key, Hash(item.Key))
		dest.Key = item.Key
		dest.Val = item.Val
		dest.Empty = false
		m.Count++
	}

	m.Items = items
	m.Capacity = capacity
}

// Get returns the value stored under key, or (Null, false) if absent or
// key is not hashable.
func Get(m *object.Map, key value.Value) (value.Value, bool) {
	if m.Count == 0 {
		return value.Null, false
	}
	item := findItem(m.Items, m.Capacity, key, Hash(key))
	if item.Empty {
		return value.Null, false
	}
	return item.Val, true
}

// Set stores value under key and reports whether key was new.
func Set(m *object.Map, key, v value.Value) bool {
	if float64(m.Count+1) > float64(m.Capacity)*maxLoad {
		adjustCapacity(m, growCapacity(m.Capacity))
	}

	item := findItem(m.Items, m.Capacity, key, Hash(key))
	isNewKey := item.Empty
	if isNewKey && item.Val.IsNull() {
		m.Count++
	}
	item.Key = key
	item.Val = v
	item.Empty = false
	return isNewKey
}

// Delete removes key, leaving a tombstone (Empty == true, Val == true) so
// later probes keep searching past it instead of stopping short.
func Delete(m *object.Map, key value.Value) bool {
	if m.Count == 0 {
		return false
	}
	item := findItem(m.Items, m.Capacity, key, Hash(key))
	if item.Empty {
		return false
	}
	item.Empty = true
	item.Val = value.Bool(true)
	return true
}

// Has reports key membership without returning the value (used by IN).
func Has(m *object.Map, key value.Value) bool {
	_, ok := Get(m, key)
	return ok
}

// Union implements map + map: a right-biased union into a new map.
func Union(a, b *object.Map) *object.Map {
	out := object.NewMap()
	for i := 0; i < a.Capacity; i++ {
		item := &a.Items[i]
		if !item.Empty {
			Set(out, item.Key, item.Val)
		}
	}
	for i := 0; i < b.Capacity; i++ {
		item := &b.Items[i]
		if !item.Empty {
			Set(out, item.Key, item.Val)
		}
	}
	return out
}

// Mark calls markValue on every live key and value in m.
func Mark(m *object.Map, markValue func(value.Value)) {
	for i := 0; i < m.Capacity; i++ {
		item := &m.Items[i]
		if !item.Empty {
			markValue(item.Key)
			markValue(item.Val)
		}
	}
}
