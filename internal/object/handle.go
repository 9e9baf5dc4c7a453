package object

import (
	"sync/atomic"

	"github.com/mabhi256/jvmgo/internal/descriptor"
)

// record is the heap-allocated body a Handle points at: a shared schema
// plus either an instance or array payload.
type record struct {
	schema *ClassSchema

	refCount int32 // shared ownership via reference counting

	instance []Value // len == schema.SlotCount(), nil for arrays

	arrLen int
	arrPrim []Value   // primitive array elements; nil for object arrays
	arrRef  []*Handle // object array elements (nullable); nil for primitive arrays
}

// Handle is a non-null opaque object reference. The absence
// of an object is represented one level up, as a nil *Handle, not by any
// state inside Handle itself.
type Handle struct {
	rec *record
}

// NewInstance allocates a zero-initialized instance record for schema,
// whose fields are already known (inherited-first) from schema.Fields.
func NewInstance(schema *ClassSchema) *Handle {
	slots := make([]Value, len(schema.Fields))
	for i, f := range schema.Fields {
		slots[i] = zeroValue(f.Descriptor)
	}
	return &Handle{rec: &record{schema: schema, refCount: 1, instance: slots}}
}

// NewArray allocates a zero-initialized array record of the given length.
func NewArray(schema *ClassSchema, length int) *Handle {
	r := &record{schema: schema, refCount: 1, arrLen: length}
	if isReferenceKind(schema.ElemKind) {
		r.arrRef = make([]*Handle, length)
	} else {
		r.arrPrim = make([]Value, length)
		for i := range r.arrPrim {
			r.arrPrim[i] = Value{Kind: schema.ElemKind}
		}
	}
	return &Handle{rec: r}
}

// isReferenceKind reports whether a descriptor kind is stored as a handle
// (object references and, since an array element can itself be an array,
// array-of-array elements too).
func isReferenceKind(k descriptor.Kind) bool {
	return k == descriptor.KindObject || k == descriptor.KindArray
}

// Schema returns the handle's shared class/array schema.
func (h *Handle) Schema() *ClassSchema { return h.rec.schema }

// Retain increments the handle's reference count (shared-owner semantics).
// Go's garbage collector still owns the underlying memory; this tracks a
// JVM-level ownership model on top of it, not allocation.
func (h *Handle) Retain() *Handle {
	atomic.AddInt32(&h.rec.refCount, 1)
	return h
}

// Release decrements the handle's reference count and reports whether it
// reached zero (the point at which a real allocator would reclaim the
// record; here it's informational, since pure reference counting leaks
// cycles and reclaiming them would need a tracing pass this VM doesn't do).
func (h *Handle) Release() bool {
	return atomic.AddInt32(&h.rec.refCount, -1) == 0
}

// RefCount returns the current reference count, for diagnostics and tests.
func (h *Handle) RefCount() int32 { return atomic.LoadInt32(&h.rec.refCount) }

// Same reports whether h and other are handles to the same record.
func (h *Handle) Same(other *Handle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.rec == other.rec
}
