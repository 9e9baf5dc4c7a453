package object

import "github.com/mabhi256/jvmgo/internal/descriptor"

// Value is a typed field/array element: the runtime realization of one
// 8-byte slot. Which member is meaningful is determined by
// Kind, mirroring the constant pool Entry's tagged-union shape.
//
// Reference-typed slots hold an actual *Handle rather than a disguised
// integer: packing a live pointer into a raw uint64 slot (as a literal
// byte-for-byte reading of "8-byte slot" might suggest) would hide it from
// Go's GC and risk the referent being collected out from under the slot.
// Value keeps the conceptual one-slot-per-field layout while staying
// memory-safe.
type Value struct {
	Kind descriptor.Kind

	Int    int64 // byte/char/short/int/boolean (sign- or zero-extended) and long
	Float  float32
	Double float64
	Ref    *Handle // nil is the null reference
}

func IntValue(kind descriptor.Kind, v int64) Value { return Value{Kind: kind, Int: v} }
func LongValue(v int64) Value                       { return Value{Kind: descriptor.KindLong, Int: v} }
func FloatValue(v float32) Value                     { return Value{Kind: descriptor.KindFloat, Float: v} }
func DoubleValue(v float64) Value                    { return Value{Kind: descriptor.KindDouble, Double: v} }
func RefValue(h *Handle) Value                       { return Value{Kind: descriptor.KindObject, Ref: h} }

// IsNull reports whether a reference-typed Value holds the null reference.
func (v Value) IsNull() bool { return v.Kind == descriptor.KindObject && v.Ref == nil }

// zeroValue is a field/array element's zero-initialized state, typed to
// desc's kind.
func zeroValue(desc descriptor.Descriptor) Value {
	kind := desc.Kind
	if kind == descriptor.KindArray {
		kind = descriptor.KindObject
	}
	return Value{Kind: kind}
}

// ZeroValue is zeroValue exported for callers outside the package building
// their own typed slots, e.g. a static field table before <clinit> runs.
func ZeroValue(desc descriptor.Descriptor) Value { return zeroValue(desc) }

// sameKind reports whether storing v into a slot typed for desc would
// satisfy the field's declared type without a mismatch. Object and Array
// descriptors share one reference representation.
func sameKind(desc descriptor.Descriptor, v Value) bool {
	want := desc.Kind
	if want == descriptor.KindArray {
		want = descriptor.KindObject
	}
	return want == v.Kind
}
