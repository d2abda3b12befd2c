// Package gc implements a tri-color mark-sweep collector: an
// intrusive singly-linked allocation list, a gray worklist, root marking via
// a caller-supplied RootSet, string-table cleanup before sweep, and a
// bytes-allocated threshold that grows by a fixed factor of 2 after each
// collection. Grounded on tea_memory.c's collectGarbage/markRoots/
// traceReferences/sweep pipeline.
package gc

import (
	"teascript/object"
	"teascript/strtable"
	"teascript/table"
	"teascript/value"
)

// RootSet is implemented by the interpreter state: every live reference
// reachable without going through the heap graph itself (operand stack,
// call frames, globals, the module cache, cached classes, open upvalues)
// must be handed to mark during MarkRoots. Declared here, not imported from
// package state, so gc never needs to import state (state imports gc).
type RootSet interface {
	MarkRoots(mark func(value.Value))
}

// Collector owns the allocation list and gray worklist. Strings is a
// pointer to the interpreter's intern table so RemoveWhite can run against
// it between mark and sweep.
type Collector struct {
	head      value.HeapObject
	gray      []value.HeapObject
	strings   *strtable.Table

	bytesAllocated int64
	nextGC         int64
	growthFactor   int64

	// StressGC forces a collection on every Track call (useful for tests
	// chasing use-after-free-style bugs). The growth factor is set to 2 by
	// New and is not configurable.
	StressGC bool

	// Log, when non-nil, receives a line per collection (bytes before/
	// after, objects freed) — wired to the interpreter's configured
	// logger rather than hardcoded so embedding hosts can silence it.
	Log func(before, after int64, freed int)

	// AllocHook, when non-nil, is called with the signed byte delta of
	// every Track (always positive; Go's own GC reclaims freed memory,
	// this collector only tracks liveness for collection timing) so a
	// host can meter or cap memory use the way a custom allocator would.
	AllocHook func(delta int64)
}

const defaultNextGC = 1 << 20 // 1 MiB, matches tea_memory.c's initial threshold

func New(strings *strtable.Table) *Collector {
	return &Collector{
		strings:      strings,
		nextGC:       defaultNextGC,
		growthFactor: 2,
	}
}

// Track links a freshly allocated object into the allocation list and
// accounts its approximate size, running a collection first if the stress
// flag is set or the threshold has been crossed.
func (c *Collector) Track(o value.HeapObject, size int64, roots RootSet) {
	c.bytesAllocated += size
	if c.AllocHook != nil {
		c.AllocHook(size)
	}
	if c.StressGC || c.bytesAllocated > c.nextGC {
		c.Collect(roots)
	}
	o.SetObjNext(c.head)
	c.head = o
}

// MaybeCollect runs a collection only if the threshold has been crossed;
// callers that allocate many small objects in a loop without individually
// calling Track (e.g. a native building a list) can batch-check once.
func (c *Collector) MaybeCollect(roots RootSet) {
	if c.StressGC || c.bytesAllocated > c.nextGC {
		c.Collect(roots)
	}
}

// Collect runs one full mark-sweep cycle: mark roots, trace until the gray
// worklist is empty, drop dead interned strings, sweep unmarked objects.
func (c *Collector) Collect(roots RootSet) {
	before := c.bytesAllocated
	freed := 0

	roots.MarkRoots(c.markValue)
	c.traceReferences()
	if c.strings != nil {
		c.strings.RemoveWhite()
	}
	freed = c.sweep()

	c.bytesAllocated = approxLiveBytes(c.head)
	c.nextGC = c.bytesAllocated * c.growthFactor
	if c.nextGC < defaultNextGC {
		c.nextGC = defaultNextGC
	}

	if c.Log != nil {
		c.Log(before, c.bytesAllocated, freed)
	}
}

func (c *Collector) markValue(v value.Value) {
	if v.IsObject() && v.AsObject() != nil {
		c.markObject(v.AsObject())
	}
}

func (c *Collector) markObject(o value.HeapObject) {
	if o == nil || o.ObjMarked() {
		return
	}
	o.SetObjMarked(true)
	c.gray = append(c.gray, o)
}

func (c *Collector) traceReferences() {
	for len(c.gray) > 0 {
		n := len(c.gray) - 1
		o := c.gray[n]
		c.gray = c.gray[:n]
		c.blacken(o)
	}
}

// blacken marks every reference a live object holds, switching on kind to
// reach the fields specific to each heap object.
func (c *Collector) blacken(o value.HeapObject) {
	switch v := o.(type) {
	case *object.String, *object.Native:
		// no outgoing references
	case *object.Range:
		// plain doubles, no outgoing references
	case *object.List:
		for _, item := range v.Items {
			c.markValue(item)
		}
	case *object.Map:
		for _, item := range v.Items {
			if !item.Empty {
				c.markValue(item.Key)
				c.markValue(item.Val)
			}
		}
	case *object.Function:
		if v.Module != nil {
			c.markObject(v.Module)
		}
		if chunk, ok := v.Chunk.(interface{ GetConstants() []value.Value }); ok {
			for _, k := range chunk.GetConstants() {
				c.markValue(k)
			}
		}
	case *object.Closure:
		c.markObject(v.Function)
		for _, uv := range v.Upvalues {
			if uv != nil {
				c.markObject(uv)
			}
		}
	case *object.Upvalue:
		if v.Location != nil {
			c.markValue(*v.Location)
		}
		c.markValue(v.Closed)
	case *object.Class:
		c.markObject(v.Name)
		if v.Super != nil {
			c.markObject(v.Super)
		}
		c.markValue(v.Constructor)
		table.Mark(&v.Methods, c.markObject, c.markValue)
		table.Mark(&v.Statics, c.markObject, c.markValue)
	case *object.Instance:
		c.markObject(v.Class)
		table.Mark(&v.Fields, c.markObject, c.markValue)
	case *object.BoundMethod:
		c.markValue(v.Receiver)
		c.markValue(v.Method)
	case *object.Module:
		c.markObject(v.Name)
		table.Mark(&v.Values, c.markObject, c.markValue)
	case *object.Userdata, *object.File:
		// no script-visible outgoing references
	}
}

// sweep walks the allocation list, freeing every unmarked node and
// clearing the mark bit on survivors for the next cycle.
func (c *Collector) sweep() int {
	var prev value.HeapObject
	node := c.head
	freed := 0
	for node != nil {
		if node.ObjMarked() {
			node.SetObjMarked(false)
			prev = node
			node = node.ObjNext()
			continue
		}
		unreached := node
		node = node.ObjNext()
		if prev != nil {
			prev.SetObjNext(node)
		} else {
			c.head = node
		}
		_ = unreached
		freed++
	}
	return freed
}

func approxLiveBytes(head value.HeapObject) int64 {
	var total int64
	for n := head; n != nil; n = n.ObjNext() {
		total += objectSize(n)
	}
	return total
}

// objectSize is a coarse per-kind estimate used only to drive the growth
// heuristic, not an exact byte accounting.
func objectSize(o value.HeapObject) int64 {
	switch v := o.(type) {
	case *object.String:
		return int64(32 + len(v.Bytes))
	case *object.List:
		return int64(24 + 16*len(v.Items))
	case *object.Map:
		return int64(24 + 40*len(v.Items))
	default:
		return 48
	}
}
