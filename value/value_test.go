package value

import "testing"

type fakeObj struct {
	kind  Kind
	empty bool
}

func (f *fakeObj) ObjKind() Kind         { return f.kind }
func (f *fakeObj) ObjMarked() bool       { return false }
func (f *fakeObj) SetObjMarked(bool)     {}
func (f *fakeObj) ObjNext() HeapObject   { return nil }
func (f *fakeObj) SetObjNext(HeapObject) {}
func (f *fakeObj) IsEmpty() bool         { return f.empty }

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", Number(0), false},
		{"nonzero", Number(1), true},
		{"negative", Number(-1), true},
		{"empty object", Object(&fakeObj{kind: KindString, empty: true}), false},
		{"nonempty object", Object(&fakeObj{kind: KindString, empty: false}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEqualIdentityForObjects(t *testing.T) {
	a := &fakeObj{kind: KindList}
	b := &fakeObj{kind: KindList}

	if !Equal(Object(a), Object(a)) {
		t.Error("same object should be equal to itself")
	}
	if Equal(Object(a), Object(b)) {
		t.Error("distinct objects of equal shape should not be Equal (identity, not structural)")
	}
}

func TestEqualAcrossTags(t *testing.T) {
	if Equal(Null, Bool(false)) {
		t.Error("null should never equal false")
	}
	if Equal(Number(0), Bool(false)) {
		t.Error("number 0 should never equal bool false")
	}
}

func TestObjectOfNilIsNull(t *testing.T) {
	var o HeapObject
	if got := Object(o); !got.IsNull() {
		t.Errorf("Object(nil) should be Null, got tag %v", got.Tag())
	}
}

func TestIs(t *testing.T) {
	v := Object(&fakeObj{kind: KindMap})
	if !v.Is(KindMap) {
		t.Error("expected Is(KindMap) to be true")
	}
	if v.Is(KindList) {
		t.Error("expected Is(KindList) to be false")
	}
	if Number(1).Is(KindMap) {
		t.Error("a number should never report Is(any kind)")
	}
}
