package interp

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/internal/object"
	"github.com/mabhi256/jvmgo/internal/runtime"
)

// newTestEnv builds an Env over an empty, always-miss class path: enough to
// run self-contained bytecode that never references a class file, and to
// exercise materializeException's synthetic-schema fallback for runtime
// exception classes like java/lang/NullPointerException that no minimal
// test class path carries.
func newTestEnv() *runtime.Env {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	cp := &classpath.ClassPath{Discovered: map[string]classpath.Source{}}
	loader := classpath.NewLoader(cp, nil)
	return runtime.New(loader, log)
}

// method builds a single static method with no arguments named "test",
// backed by the given raw bytecode.
func method(code []byte, maxStack, maxLocals int) *classfile.Member {
	return &classfile.Member{
		Name:       "test",
		Descriptor: "()I",
		Code: &classfile.Code{
			MaxStack:     uint16(maxStack),
			MaxLocals:    uint16(maxLocals),
			Instructions: code,
		},
	}
}

func runMethod(t *testing.T, code []byte, maxStack, maxLocals int) (object.Value, error) {
	t.Helper()
	env := newTestEnv()
	i := New(env, nil, nil)
	cls := &classfile.Class{}
	m := method(code, maxStack, maxLocals)
	return i.Invoke(cls, m, nil, 1, 0)
}

// Scenario: ((7*6)-5)/4 == 9.
func TestArithmeticExpression(t *testing.T) {
	code := []byte{
		0x10, 0x07, // bipush 7
		0x10, 0x06, // bipush 6
		0x68,       // imul
		0x10, 0x05, // bipush 5
		0x64,       // isub
		0x07,       // iconst_4
		0x6C,       // idiv
		0xAC,       // ireturn
	}
	v, err := runMethod(t, code, 4, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int32(v.Int); got != 9 {
		t.Fatalf("got %d, want 9", got)
	}
}

// Scenario: allocate a 5-element int array, store 42 at index 2, load it
// back.
func TestArrayStoreLoad(t *testing.T) {
	code := []byte{
		0x08,       // iconst_5
		0xBC, 0x0A, // newarray int
		0x59,       // dup
		0x05,       // iconst_2
		0x10, 0x2A, // bipush 42
		0x4F,       // iastore
		0x05,       // iconst_2
		0x2E,       // iaload
		0xAC,       // ireturn
	}
	v, err := runMethod(t, code, 4, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int32(v.Int); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

// Scenario: arraylength on a null reference raises NullPointerException,
// surfaced as a JavaException whose object's class is the right name even
// though java/lang/NullPointerException isn't on this minimal test class
// path (materializeException's synthetic-schema fallback).
func TestNullArrayLength(t *testing.T) {
	code := []byte{
		0x01, // aconst_null
		0xBE, // arraylength
		0xAC, // ireturn (unreached)
	}
	_, err := runMethod(t, code, 2, 0)
	if err == nil {
		t.Fatalf("expected an exception, got none")
	}
	javaExc, ok := err.(*JavaException)
	if !ok {
		t.Fatalf("expected *JavaException, got %T: %v", err, err)
	}
	if name := GetClassName(javaExc.Object); name != "java/lang/NullPointerException" {
		t.Fatalf("got class %q, want java/lang/NullPointerException", name)
	}
}

// Scenario: a not-taken conditional branch falls through to the 42 path.
func TestBranchFallthrough(t *testing.T) {
	code := []byte{
		0x04,       // iconst_1
		0x99, 0x00, 0x06, // ifeq +6 -> pos 7
		0x10, 0x2A, // bipush 42
		0xAC,       // ireturn
		0x03,       // L1: iconst_0
		0xAC,       // ireturn
	}
	v, err := runMethod(t, code, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int32(v.Int); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

// Scenario: a taken conditional branch skips to the 0 path.
func TestBranchTaken(t *testing.T) {
	code := []byte{
		0x03,             // iconst_0
		0x99, 0x00, 0x06, // ifeq +6 -> pos 7
		0x10, 0x2A, // bipush 42
		0xAC, // ireturn
		0x03, // L1: iconst_0
		0xAC, // ireturn
	}
	v, err := runMethod(t, code, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int32(v.Int); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

// Scenario: division by zero raises ArithmeticException.
func TestDivideByZero(t *testing.T) {
	code := []byte{
		0x04, // iconst_1
		0x03, // iconst_0
		0x6C, // idiv
		0xAC, // ireturn
	}
	_, err := runMethod(t, code, 2, 0)
	javaExc, ok := err.(*JavaException)
	if !ok {
		t.Fatalf("expected *JavaException, got %T: %v", err, err)
	}
	if name := GetClassName(javaExc.Object); name != "java/lang/ArithmeticException" {
		t.Fatalf("got class %q, want java/lang/ArithmeticException", name)
	}
}

// Scenario: an exception table entry catches the ArithmeticException and
// the handler pushes a sentinel instead of propagating.
func TestExceptionHandlerCatches(t *testing.T) {
	code := []byte{
		0x04, // pos0: iconst_1
		0x03, // pos1: iconst_0
		0x6C, // pos2: idiv
		0xAC, // pos3: ireturn (unreached on exception)
		0x57, // pos4: handler: pop (discard the exception object)
		0x10, 0x63, // pos5: bipush 99
		0xAC, // pos7: ireturn
	}
	env := newTestEnv()
	i := New(env, nil, nil)
	cls := &classfile.Class{}
	m := method(code, 2, 0)
	m.Code.ExceptionTable = []classfile.ExceptionHandler{
		{PCStart: 0, PCEnd: 4, HandlerPC: 4, CatchType: 0},
	}
	v, err := i.Invoke(cls, m, nil, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int32(v.Int); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}
