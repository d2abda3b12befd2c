package api

import (
	"fmt"

	"teascript/object"
	"teascript/ordmap"
	"teascript/table"
	"teascript/value"
)

// GetField pops a key off the top of the stack and pushes the value it
// resolves to against the container at index (or null if absent), the
// stack-based protocol tea_api.c's tea_get_field left as an empty stub in
// the original (see SPEC_FULL.md's Open Question 1 resolution). index is
// resolved against the stack as it stands before the key is popped, so a
// negative index naming "the container just below the key" still works.
func (st *State) GetField(index int) {
	i := st.abs(index)
	key := st.s.Pop()
	result := value.Null
	if i >= 0 && i < st.s.Top() {
		result = fieldGet(st.s.Stack[i], key)
	}
	st.s.Push(result)
}

// SetField pops a value then a key off the top of the stack and stores
// value under key on the container at index, mirroring GetField's stack
// discipline.
func (st *State) SetField(index int) {
	i := st.abs(index)
	v := st.s.Pop()
	key := st.s.Pop()
	if i >= 0 && i < st.s.Top() {
		fieldSet(st.s.Stack[i], key, v)
	}
}

func fieldGet(container, key value.Value) value.Value {
	if !container.IsObject() {
		return value.Null
	}
	switch o := container.AsObject().(type) {
	case *object.Map:
		if v, ok := ordmap.Get(o, key); ok {
			return v
		}
	case *object.List:
		if !key.IsNumber() {
			return value.Null
		}
		i := listIndex(o, key)
		if i >= 0 && i < len(o.Items) {
			return o.Items[i]
		}
	case *object.Module:
		if v, ok := stringKeyGet(&o.Values, key); ok {
			return v
		}
	case *object.Instance:
		if v, ok := stringKeyGet(&o.Fields, key); ok {
			return v
		}
	case *object.Class:
		if v, ok := stringKeyGet(&o.Methods, key); ok {
			return v
		}
		if v, ok := stringKeyGet(&o.Statics, key); ok {
			return v
		}
	}
	return value.Null
}

func fieldSet(container, key, v value.Value) {
	if !container.IsObject() {
		return
	}
	switch o := container.AsObject().(type) {
	case *object.Map:
		ordmap.Set(o, key, v)
	case *object.List:
		if !key.IsNumber() {
			return
		}
		i := listIndex(o, key)
		if i >= 0 && i < len(o.Items) {
			o.Items[i] = v
		}
	case *object.Module:
		stringKeySet(&o.Values, key, v)
	case *object.Instance:
		stringKeySet(&o.Fields, key, v)
	case *object.Class:
		stringKeySet(&o.Methods, key, v)
	}
}

func listIndex(l *object.List, key value.Value) int {
	i := int(key.AsNumber())
	if i < 0 {
		i += len(l.Items)
	}
	return i
}

func stringKeyGet(t *object.Table, key value.Value) (value.Value, bool) {
	if !key.Is(value.KindString) {
		return value.Null, false
	}
	return table.Get(t, key.AsObject().(*object.String))
}

func stringKeySet(t *object.Table, key, v value.Value) {
	if !key.Is(value.KindString) {
		return
	}
	table.Set(t, key.AsObject().(*object.String), v)
}

// --- list per-item access, addressed by Go int rather than the stack key
// protocol GetField/SetField use, for a host that already holds the
// *object.List (e.g. from PushList or Get+type assertion). ---

// ListLen returns the number of items in the list at index.
func (st *State) ListLen(index int) (int, error) {
	l, err := st.CheckList(index)
	if err != nil {
		return 0, err
	}
	return len(l.Items), nil
}

// GetItem returns the i'th element of the list at index (negative i counts
// from the end, as listIndex/fieldGet does).
func (st *State) GetItem(index, i int) (value.Value, error) {
	l, err := st.CheckList(index)
	if err != nil {
		return value.Null, err
	}
	if i < 0 {
		i += len(l.Items)
	}
	if i < 0 || i >= len(l.Items) {
		return value.Null, fmt.Errorf("list index %d out of range (len %d)", i, len(l.Items))
	}
	return l.Items[i], nil
}

// SetItem overwrites the i'th element of the list at index.
func (st *State) SetItem(index, i int, v value.Value) error {
	l, err := st.CheckList(index)
	if err != nil {
		return err
	}
	if i < 0 {
		i += len(l.Items)
	}
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("list index %d out of range (len %d)", i, len(l.Items))
	}
	l.Items[i] = v
	return nil
}

// AddItem appends v to the end of the list at index.
func (st *State) AddItem(index int, v value.Value) error {
	l, err := st.CheckList(index)
	if err != nil {
		return err
	}
	l.Items = append(l.Items, v)
	return nil
}

// --- string-keyed table access for a host holding an already-pushed
// module, class, or instance (DefineNative and CreateClass populate a
// module/class directly from a Go-held pointer instead, since they build
// one before it is ever on the stack; GetKey/SetKey cover the case where
// the host only has a stack index to work from). ---

// GetKey reads a string key out of the module/class/instance at index.
func (st *State) GetKey(index int, key string) (value.Value, bool) {
	v := st.Get(index)
	if !v.IsObject() {
		return value.Null, false
	}
	var t *object.Table
	switch o := v.AsObject().(type) {
	case *object.Module:
		t = &o.Values
	case *object.Instance:
		t = &o.Fields
	case *object.Class:
		t = &o.Methods
	default:
		return value.Null, false
	}
	return table.Get(t, st.s.NewString(key))
}

// SetKey stores v under a string key on the module/class/instance at
// index.
func (st *State) SetKey(index int, key string, v value.Value) error {
	val := st.Get(index)
	if !val.IsObject() {
		return fmt.Errorf("expected a module, class, or instance, got %s", typeName(val))
	}
	var t *object.Table
	switch o := val.AsObject().(type) {
	case *object.Module:
		t = &o.Values
	case *object.Instance:
		t = &o.Fields
	case *object.Class:
		t = &o.Methods
	default:
		return fmt.Errorf("expected a module, class, or instance, got %s", typeName(val))
	}
	table.Set(t, st.s.NewString(key), v)
	return nil
}
