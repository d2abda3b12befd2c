package ordmap

import (
	"testing"

	"teascript/object"
	"teascript/value"
)

func TestSetGetDelete(t *testing.T) {
	m := object.NewMap()
	k := value.Object(object.NewString("a", 0))

	if isNew := Set(m, k, value.Number(1)); !isNew {
		t.Error("expected a to be a new key")
	}
	if v, ok := Get(m, k); !ok || v.AsNumber() != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if !Delete(m, k) {
		t.Error("expected Delete(a) to report true")
	}
	if _, ok := Get(m, k); ok {
		t.Error("expected a to be gone after Delete")
	}
}

func TestSetOverwrite(t *testing.T) {
	m := object.NewMap()
	k := value.Number(1)
	Set(m, k, value.Number(10))
	if isNew := Set(m, k, value.Number(20)); isNew {
		t.Error("overwriting an existing key should report isNewKey=false")
	}
	v, _ := Get(m, k)
	if v.AsNumber() != 20 {
		t.Errorf("Get(1) = %v, want 20", v)
	}
}

func TestGrowthKeepsAllEntriesReachable(t *testing.T) {
	m := object.NewMap()
	for i := 0; i < 64; i++ {
		Set(m, value.Number(float64(i)), value.Number(float64(i*2)))
	}
	for i := 0; i < 64; i++ {
		v, ok := Get(m, value.Number(float64(i)))
		if !ok || v.AsNumber() != float64(i*2) {
			t.Fatalf("entry %d lost after growth: got %v, %v", i, v, ok)
		}
	}
}

func TestHasMirrorsGet(t *testing.T) {
	m := object.NewMap()
	Set(m, value.Bool(true), value.Number(1))
	if !Has(m, value.Bool(true)) {
		t.Error("Has should report true for a present key")
	}
	if Has(m, value.Bool(false)) {
		t.Error("Has should report false for an absent key")
	}
}

func TestUnionIsRightBiased(t *testing.T) {
	a := object.NewMap()
	Set(a, value.Number(1), value.Number(100))
	b := object.NewMap()
	Set(b, value.Number(1), value.Number(200))
	Set(b, value.Number(2), value.Number(2))

	out := Union(a, b)
	v1, _ := Get(out, value.Number(1))
	if v1.AsNumber() != 200 {
		t.Errorf("Union should take b's value for a shared key, got %v", v1)
	}
	v2, ok := Get(out, value.Number(2))
	if !ok || v2.AsNumber() != 2 {
		t.Errorf("Union should include b-only keys, got %v, %v", v2, ok)
	}
}

func TestHashNullAndBoolAreStable(t *testing.T) {
	if Hash(value.Null) != Hash(value.Null) {
		t.Error("Hash(null) should be stable")
	}
	if Hash(value.Bool(true)) == Hash(value.Bool(false)) {
		t.Error("Hash(true) and Hash(false) should differ")
	}
}

func TestMarkVisitsAllLiveEntries(t *testing.T) {
	m := object.NewMap()
	Set(m, value.Number(1), value.Number(2))
	Set(m, value.Number(3), value.Number(4))

	var seen []value.Value
	Mark(m, func(v value.Value) { seen = append(seen, v) })
	if len(seen) != 4 {
		t.Errorf("Mark visited %d values, want 4 (2 keys + 2 values)", len(seen))
	}
}
