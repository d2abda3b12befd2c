package object

import (
	"strconv"
	"strings"

	"teascript/value"
)

// ToString renders the canonical string form of a value. Numbers
// format as the shortest round-tripping decimal; self-referential
// containers render as "[...]"/"{...}" at the first recursive encounter.
func ToString(v value.Value) string {
	return toString(v, nil)
}

func toString(v value.Value, seen []value.HeapObject) string {
	switch v.Tag() {
	case value.TagNull:
		return "null"
	case value.TagBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case value.TagNumber:
		return formatNumber(v.AsNumber())
	case value.TagObject:
		return stringifyObject(v.AsObject(), seen)
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func containsObj(seen []value.HeapObject, o value.HeapObject) bool {
	for _, s := range seen {
		if s == o {
			return true
		}
	}
	return false
}

func stringifyObject(o value.HeapObject, seen []value.HeapObject) string {
	switch o.ObjKind() {
	case value.KindString:
		return o.(*String).Bytes
	case value.KindRange:
		r := o.(*Range)
		return formatNumber(r.Start) + ".." + formatNumber(r.End) + ".." + formatNumber(r.Step)
	case value.KindList:
		l := o.(*List)
		if containsObj(seen, o) {
			return "[...]"
		}
		inner := append(append([]value.HeapObject{}, seen...), o)
		parts := make([]string, len(l.Items))
		for i, it := range l.Items {
			parts[i] = quoteIfString(it, inner)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case value.KindMap:
		m := o.(*Map)
		if containsObj(seen, o) {
			return "{...}"
		}
		inner := append(append([]value.HeapObject{}, seen...), o)
		parts := make([]string, 0, m.Count)
		for _, e := range m.Items {
			if e.Empty {
				continue
			}
			parts = append(parts, quoteIfString(e.Key, inner)+": "+quoteIfString(e.Val, inner))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case value.KindFunction:
		return "<fn " + o.(*Function).Name + ">"
	case value.KindClosure:
		return "<fn " + o.(*Closure).Function.Name + ">"
	case value.KindNative:
		return "<native fn " + o.(*Native).Name + ">"
	case value.KindUpvalue:
		return "<upvalue>"
	case value.KindClass:
		return "<class " + o.(*Class).Name.Bytes + ">"
	case value.KindInstance:
		i := o.(*Instance)
		return "<" + i.Class.Name.Bytes + " instance>"
	case value.KindBoundMethod:
		return "<bound method " + methodName(o.(*BoundMethod).Method) + ">"
	case value.KindModule:
		return "<module " + o.(*Module).Name.Bytes + ">"
	case value.KindUserdata:
		return "<userdata>"
	case value.KindFile:
		return "<file " + o.(*File).Path + ">"
	default:
		return "<object>"
	}
}

func methodName(v value.Value) string {
	if !v.IsObject() {
		return "?"
	}
	switch o := v.AsObject().(type) {
	case *Closure:
		return o.Function.Name
	case *Native:
		return o.Name
	default:
		return "?"
	}
}

// quoteIfString renders nested strings inside list/map literals with quotes
// (e.g. print([1, "a"]) -> [1, "a"]) while top-level print(x) of a bare
// string renders unquoted; matches the common clox-lineage convention the
// teacher and original both follow for container stringification.
func quoteIfString(v value.Value, seen []value.HeapObject) string {
	if v.Is(value.KindString) {
		return "\"" + v.AsObject().(*String).Bytes + "\""
	}
	return toString(v, seen)
}
