package natives

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/object"
	"github.com/mabhi256/jvmgo/internal/runtime"
)

func newTestInterp(t *testing.T) (*interp.Interp, *runtime.Env) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	cp := &classpath.ClassPath{Discovered: map[string]classpath.Source{}}
	loader := classpath.NewLoader(cp, nil)
	env := runtime.New(loader, log)
	table := NewTable()
	return interp.New(env, table, nil), env
}

func call(t *testing.T, i *interp.Interp, key string, args []object.Value) (object.Value, error) {
	t.Helper()
	table := NewTable()
	fn, ok := table.Lookup(key)
	if !ok {
		t.Fatalf("no native registered for %s", key)
	}
	return fn(i, args)
}

func TestMathSqrtAbsMinMax(t *testing.T) {
	i, _ := newTestInterp(t)

	v, err := call(t, i, "java/lang/Math/sqrt(D)D", []object.Value{object.DoubleValue(16)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Double != 4 {
		t.Fatalf("sqrt(16) = %v, want 4", v.Double)
	}

	v, err = call(t, i, "java/lang/Math/abs(I)I", []object.Value{object.IntValue(descriptor.KindInt, -7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int32(v.Int) != 7 {
		t.Fatalf("abs(-7) = %d, want 7", int32(v.Int))
	}

	v, err = call(t, i, "java/lang/Math/max(II)I", []object.Value{object.IntValue(descriptor.KindInt, 3), object.IntValue(descriptor.KindInt, 9)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int32(v.Int) != 9 {
		t.Fatalf("max(3,9) = %d, want 9", int32(v.Int))
	}

	v, err = call(t, i, "java/lang/Math/min(II)I", []object.Value{object.IntValue(descriptor.KindInt, 3), object.IntValue(descriptor.KindInt, 9)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int32(v.Int) != 3 {
		t.Fatalf("min(3,9) = %d, want 3", int32(v.Int))
	}
}

// hashCode must be stable across repeated calls on the same handle.
func TestObjectHashCodeStable(t *testing.T) {
	i, env := newTestInterp(t)
	schema, err := env.InstanceSchema("java/lang/Object")
	if err != nil {
		// java/lang/Object isn't loadable on this empty class path; build a
		// bare schema directly the way materializeException does.
		schema = object.NewInstanceSchema("java/lang/Object", nil, nil)
	}
	h := object.NewInstance(schema)

	v1, err := call(t, i, "java/lang/Object/hashCode()I", []object.Value{object.RefValue(h)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := call(t, i, "java/lang/Object/hashCode()I", []object.Value{object.RefValue(h)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1.Int != v2.Int {
		t.Fatalf("hashCode not stable: %d != %d", v1.Int, v2.Int)
	}
}

func TestObjectHashCodeNullThrows(t *testing.T) {
	i, _ := newTestInterp(t)
	_, err := call(t, i, "java/lang/Object/hashCode()I", []object.Value{object.RefValue(nil)})
	if err == nil {
		t.Fatalf("expected an error for a null receiver")
	}
}

func TestStringBuilderAppendToString(t *testing.T) {
	i, _ := newTestInterp(t)

	sb, err := NewStringBuilder(i)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hello, err := i.NewJavaString("hello ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = call(t, i, "java/lang/StringBuilder/append(Ljava/lang/String;)Ljava/lang/StringBuilder;",
		[]object.Value{object.RefValue(sb), object.RefValue(hello)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = call(t, i, "java/lang/StringBuilder/append(I)Ljava/lang/StringBuilder;",
		[]object.Value{object.RefValue(sb), object.IntValue(descriptor.KindInt, 42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := call(t, i, "java/lang/StringBuilder/toString()Ljava/lang/String;", []object.Value{object.RefValue(sb)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := interp.JavaStringValue(result.Ref)
	if !ok {
		t.Fatalf("toString result is not a java/lang/String")
	}
	if s != "hello 42" {
		t.Fatalf("got %q, want %q", s, "hello 42")
	}
}

func TestPrintStreamPrintlnWritesToEnvOut(t *testing.T) {
	i, env := newTestInterp(t)
	var buf bytes.Buffer
	env.Out = &buf

	hello, err := i.NewJavaString("hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = call(t, i, "java/io/PrintStream/println(Ljava/lang/String;)V",
		[]object.Value{{}, object.RefValue(hello)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "hi\n" {
		t.Fatalf("got %q, want %q", got, "hi\n")
	}
}
