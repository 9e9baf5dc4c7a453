package object

import (
	"testing"

	"github.com/mabhi256/jvmgo/internal/descriptor"
)

func mustParse(t *testing.T, s string) descriptor.Descriptor {
	t.Helper()
	d, err := descriptor.Parse(s)
	if err != nil {
		t.Fatalf("descriptor.Parse(%q): %v", s, err)
	}
	return d
}

func TestInstanceSchemaInheritsFieldsFirst(t *testing.T) {
	base := NewInstanceSchema("pkg/Base", nil, []FieldDecl{
		{Name: "x", Descriptor: mustParse(t, "I")},
	})
	child := NewInstanceSchema("pkg/Child", base, []FieldDecl{
		{Name: "y", Descriptor: mustParse(t, "J")},
	})
	if len(child.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(child.Fields))
	}
	if child.Fields[0].Name != "x" || child.Fields[1].Name != "y" {
		t.Errorf("field order = %+v, want inherited-first [x, y]", child.Fields)
	}
	if child.Fields[1].Offset != 1 {
		t.Errorf("y offset = %d, want 1", child.Fields[1].Offset)
	}
}

func TestInstanceFieldReadWrite(t *testing.T) {
	schema := NewInstanceSchema("pkg/Point", nil, []FieldDecl{
		{Name: "x", Descriptor: mustParse(t, "I")},
		{Name: "y", Descriptor: mustParse(t, "I")},
	})
	h := NewInstance(schema)

	v, ok := h.GetField("x")
	if !ok || v.Kind != descriptor.KindInt || v.Int != 0 {
		t.Fatalf("zero-init x = %+v, ok=%v", v, ok)
	}

	if err := h.SetField("x", IntValue(descriptor.KindInt, 42)); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	v, _ = h.GetField("x")
	if v.Int != 42 {
		t.Errorf("x = %d, want 42", v.Int)
	}
}

func TestFieldTypeMismatch(t *testing.T) {
	schema := NewInstanceSchema("pkg/Box", nil, []FieldDecl{
		{Name: "n", Descriptor: mustParse(t, "I")},
	})
	h := NewInstance(schema)
	err := h.SetField("n", LongValue(5))
	if err == nil {
		t.Fatal("expected FieldTypeMismatch")
	}
	if _, ok := err.(*FieldTypeMismatch); !ok {
		t.Errorf("got %T, want *FieldTypeMismatch", err)
	}
}

func TestArraySchemaIsSingleton(t *testing.T) {
	reg := NewRegistry()
	a := reg.ArraySchema(mustParse(t, "I"))
	b := reg.ArraySchema(mustParse(t, "I"))
	if a != b {
		t.Error("expected the same schema instance for repeated int array lookups")
	}
	c := reg.ArraySchema(mustParse(t, "J"))
	if a == c {
		t.Error("expected distinct schemas for int vs long arrays")
	}
}

func TestArrayZeroInitAndReadWrite(t *testing.T) {
	reg := NewRegistry()
	schema := reg.ArraySchema(mustParse(t, "I"))
	arr := NewArray(schema, 3)
	if arr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arr.Len())
	}
	for i := 0; i < 3; i++ {
		if v := arr.GetElement(i); v.Int != 0 {
			t.Errorf("element %d = %d, want 0", i, v.Int)
		}
	}
	if err := arr.SetElement(1, IntValue(descriptor.KindInt, 99), nil); err != nil {
		t.Fatalf("SetElement: %v", err)
	}
	if v := arr.GetElement(1); v.Int != 99 {
		t.Errorf("element 1 = %d, want 99", v.Int)
	}
}

func TestObjectArrayStoreException(t *testing.T) {
	reg := NewRegistry()
	schema := reg.ArraySchema(mustParse(t, "Ljava/lang/String;"))
	arr := NewArray(schema, 2)
	err := arr.SetElement(0, IntValue(descriptor.KindInt, 1), nil)
	if _, ok := err.(*ArrayStoreException); !ok {
		t.Errorf("got %T (%v), want *ArrayStoreException", err, err)
	}
}

// TestObjectArrayStoreExceptionOnIncompatibleClass covers the genuine
// covariant case: a well-formed object reference whose Kind matches, but
// whose class isn't assignable to the array's declared element class (e.g.
// storing an Integer into a declared String[]), as opposed to a primitive
// vs. reference Kind mismatch.
func TestObjectArrayStoreExceptionOnIncompatibleClass(t *testing.T) {
	reg := NewRegistry()
	schema := reg.ArraySchema(mustParse(t, "Ljava/lang/String;"))
	arr := NewArray(schema, 2)

	intSchema := &ClassSchema{ClassName: "java/lang/Integer"}
	elem := &Handle{rec: &record{schema: intSchema, refCount: 1}}

	onlyExactMatch := func(className, target string) bool { return className == target }
	err := arr.SetElement(0, RefValue(elem), onlyExactMatch)
	if _, ok := err.(*ArrayStoreException); !ok {
		t.Fatalf("got %T (%v), want *ArrayStoreException", err, err)
	}

	// A matching class, or a nil isAssignable (caller opted out of the
	// check), must still succeed.
	strSchema := &ClassSchema{ClassName: "java/lang/String"}
	strElem := &Handle{rec: &record{schema: strSchema, refCount: 1}}
	if err := arr.SetElement(0, RefValue(strElem), onlyExactMatch); err != nil {
		t.Fatalf("SetElement with matching class: %v", err)
	}
	if err := arr.SetElement(1, RefValue(elem), nil); err != nil {
		t.Fatalf("SetElement with nil isAssignable: %v", err)
	}
}

func TestPrimitiveArrayCopy(t *testing.T) {
	reg := NewRegistry()
	schema := reg.ArraySchema(mustParse(t, "I"))
	src := NewArray(schema, 4)
	for i := 0; i < 4; i++ {
		src.SetElement(i, IntValue(descriptor.KindInt, int64(i+1)), nil)
	}
	dst := NewArray(schema, 4)
	if err := CopyArray(src, 1, dst, 0, 2); err != nil {
		t.Fatalf("CopyArray: %v", err)
	}
	if v := dst.GetElement(0); v.Int != 2 {
		t.Errorf("dst[0] = %d, want 2", v.Int)
	}
	if v := dst.GetElement(1); v.Int != 3 {
		t.Errorf("dst[1] = %d, want 3", v.Int)
	}
}

func TestPrimitiveArrayCopyTypeMismatch(t *testing.T) {
	reg := NewRegistry()
	intSchema := reg.ArraySchema(mustParse(t, "I"))
	longSchema := reg.ArraySchema(mustParse(t, "J"))
	src := NewArray(intSchema, 2)
	dst := NewArray(longSchema, 2)
	err := CopyArray(src, 0, dst, 0, 2)
	if _, ok := err.(*TypeMismatch); !ok {
		t.Errorf("got %T, want *TypeMismatch", err)
	}
}

func TestHandleRetainRelease(t *testing.T) {
	schema := NewInstanceSchema("pkg/Thing", nil, nil)
	h := NewInstance(schema)
	if h.RefCount() != 1 {
		t.Fatalf("initial RefCount = %d, want 1", h.RefCount())
	}
	h.Retain()
	if h.RefCount() != 2 {
		t.Fatalf("after Retain, RefCount = %d, want 2", h.RefCount())
	}
	if h.Release() {
		t.Error("Release should not report zero yet")
	}
	if !h.Release() {
		t.Error("second Release should report refcount reached zero")
	}
}

func TestHashStableForEqualState(t *testing.T) {
	schema := NewInstanceSchema("pkg/Pair", nil, []FieldDecl{
		{Name: "a", Descriptor: mustParse(t, "I")},
		{Name: "b", Descriptor: mustParse(t, "I")},
	})
	h1 := NewInstance(schema)
	h2 := NewInstance(schema)
	h1.SetField("a", IntValue(descriptor.KindInt, 7))
	h2.SetField("a", IntValue(descriptor.KindInt, 7))
	if Hash(h1) != Hash(h2) {
		t.Error("expected equal-state instances to hash equally")
	}
}
