package object

import (
	"testing"

	"teascript/value"
)

func TestDeepEqualScalarsFallBackToValueEqual(t *testing.T) {
	if !DeepEqual(value.Number(1), value.Number(1)) {
		t.Error("equal numbers should be DeepEqual")
	}
	if DeepEqual(value.Null, value.Bool(false)) {
		t.Error("null and false should not be DeepEqual")
	}
}

func TestDeepEqualLists(t *testing.T) {
	a := NewList()
	a.Items = []value.Value{value.Number(1), value.Number(2)}
	b := NewList()
	b.Items = []value.Value{value.Number(1), value.Number(2)}
	c := NewList()
	c.Items = []value.Value{value.Number(1), value.Number(3)}

	if !DeepEqual(value.Object(a), value.Object(b)) {
		t.Error("lists with equal elements should be DeepEqual")
	}
	if DeepEqual(value.Object(a), value.Object(c)) {
		t.Error("lists with differing elements should not be DeepEqual")
	}
}

func TestDeepEqualListsDifferentLength(t *testing.T) {
	a := NewList()
	a.Items = []value.Value{value.Number(1)}
	b := NewList()
	b.Items = []value.Value{value.Number(1), value.Number(2)}
	if DeepEqual(value.Object(a), value.Object(b)) {
		t.Error("lists of different length should not be DeepEqual")
	}
}

func TestDeepEqualMaps(t *testing.T) {
	a := NewMap()
	a.Items = []MapItem{{Key: value.Number(1), Val: value.Number(10)}}
	a.Count = 1
	b := NewMap()
	b.Items = []MapItem{{Key: value.Number(1), Val: value.Number(10)}}
	b.Count = 1

	if !DeepEqual(value.Object(a), value.Object(b)) {
		t.Error("maps with the same key/value pairs should be DeepEqual")
	}
}

func TestDeepEqualMapsIgnoresTombstones(t *testing.T) {
	a := NewMap()
	a.Items = []MapItem{
		{Empty: true, Val: value.Bool(true)},
		{Key: value.Number(1), Val: value.Number(10)},
	}
	a.Count = 1
	b := NewMap()
	b.Items = []MapItem{{Key: value.Number(1), Val: value.Number(10)}}
	b.Count = 1

	if !DeepEqual(value.Object(a), value.Object(b)) {
		t.Error("a tombstone entry should not affect map equality")
	}
}

func TestDeepEqualRanges(t *testing.T) {
	a := NewRange(1, 10, 1)
	b := NewRange(1, 10, 1)
	c := NewRange(1, 10, 2)

	if !DeepEqual(value.Object(a), value.Object(b)) {
		t.Error("ranges with equal fields should be DeepEqual")
	}
	if DeepEqual(value.Object(a), value.Object(c)) {
		t.Error("ranges with differing step should not be DeepEqual")
	}
}

func TestDeepEqualDifferentKinds(t *testing.T) {
	l := NewList()
	m := NewMap()
	if DeepEqual(value.Object(l), value.Object(m)) {
		t.Error("objects of different kinds should never be DeepEqual")
	}
}

func TestDeepEqualSameIdentity(t *testing.T) {
	l := NewList()
	if !DeepEqual(value.Object(l), value.Object(l)) {
		t.Error("an object should be DeepEqual to itself")
	}
}
