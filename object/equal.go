package object

import "teascript/value"

// DeepEqual implements the structural half of 's equality rule: lists
// and maps compare elementwise/key-wise, ranges compare field-wise; every
// other heap kind (and all non-object values) falls back to value.Equal's
// identity/scalar comparison.
func DeepEqual(a, b value.Value) bool {
	if a.Tag() != value.TagObject || b.Tag() != value.TagObject {
		return value.Equal(a, b)
	}
	ao, bo := a.AsObject(), b.AsObject()
	if ao == bo {
		return true
	}
	if ao.ObjKind() != bo.ObjKind() {
		return false
	}
	switch ao.ObjKind() {
	case value.KindList:
		al, bl := ao.(*List), bo.(*List)
		if len(al.Items) != len(bl.Items) {
			return false
		}
		for i := range al.Items {
			if !DeepEqual(al.Items[i], bl.Items[i]) {
				return false
			}
		}
		return true
	case value.KindMap:
		am, bm := ao.(*Map), bo.(*Map)
		if am.Count != bm.Count {
			return false
		}
		for _, e := range am.Items {
			if e.Empty {
				continue
			}
			bv, ok := mapLookupLinear(bm, e.Key)
			if !ok || !DeepEqual(e.Val, bv) {
				return false
			}
		}
		return true
	case value.KindRange:
		ar, br := ao.(*Range), bo.(*Range)
		return ar.Start == br.Start && ar.End == br.End && ar.Step == br.Step
	default:
		return false // identity already checked above and failed
	}
}

// mapLookupLinear is a plain linear scan used only by DeepEqual, which must
// not import package ordmap (ordmap imports object for *Map/*MapItem, so
// the reverse import would cycle). It need not be fast: it only runs when
// comparing two maps for equality.
func mapLookupLinear(m *Map, key value.Value) (value.Value, bool) {
	for _, e := range m.Items {
		if !e.Empty && DeepEqual(e.Key, key) {
			return e.Val, true
		}
	}
	return value.Null, false
}
