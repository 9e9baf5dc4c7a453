package classfile

import (
	"bytes"
	"testing"
)

// buildMinimalClass hand-assembles the byte stream for a trivial class:
//
//	public class Empty extends java/lang/Object {}
func buildMinimalClass() []byte {
	w := newWriterT()
	w.u4(magic)
	w.u2(0)  // minor
	w.u2(55) // major
	// Constant pool: #1 Class(Empty) -> #3 Utf8("Empty")
	//                #2 Class(Object) -> #4 Utf8("java/lang/Object")
	w.u2(5) // constant_pool_count (4 entries + unused slot 0)
	w.u1(uint8(TagClass))
	w.u2(3)
	w.u1(uint8(TagClass))
	w.u2(4)
	w.u1(uint8(TagUTF8))
	w.u2(5)
	w.raw([]byte("Empty"))
	w.u1(uint8(TagUTF8))
	w.u2(16)
	w.raw([]byte("java/lang/Object"))

	w.u2(AccPublic | AccSuper) // access_flags
	w.u2(1)                    // this_class
	w.u2(2)                    // super_class
	w.u2(0)                    // interfaces_count
	w.u2(0)                    // fields_count
	w.u2(0)                    // methods_count
	w.u2(0)                    // attributes_count
	return w.buf
}

type writerT struct{ buf []byte }

func newWriterT() *writerT { return &writerT{} }
func (w *writerT) u1(v uint8) { w.buf = append(w.buf, v) }
func (w *writerT) u2(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}
func (w *writerT) u4(v uint32) {
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func (w *writerT) raw(b []byte) { w.buf = append(w.buf, b...) }

func TestParseMinimalClass(t *testing.T) {
	data := buildMinimalClass()
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Version.Major != 55 {
		t.Errorf("major = %d, want 55", c.Version.Major)
	}
	name, err := c.Name()
	if err != nil || name != "Empty" {
		t.Errorf("Name() = %q, %v; want Empty, nil", name, err)
	}
	super, err := c.SuperName()
	if err != nil || super != "java/lang/Object" {
		t.Errorf("SuperName() = %q, %v; want java/lang/Object, nil", super, err)
	}
}

func TestParseBadMagic(t *testing.T) {
	data := append([]byte{0, 0, 0, 0}, buildMinimalClass()[4:]...)
	_, err := Parse(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	data := buildMinimalClass()
	data[6], data[7] = 0, 200 // major = 200
	_, err := Parse(bytes.NewReader(data))
	var uv *ErrUnsupportedVersion
	if err == nil {
		t.Fatal("expected unsupported version error")
	}
	if !errorsAs(err, &uv) {
		t.Errorf("expected ErrUnsupportedVersion, got %T: %v", err, err)
	}
}

func TestParseWriteRoundTrip(t *testing.T) {
	data := buildMinimalClass()
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := Write(c)
	if !bytes.Equal(data, out) {
		t.Errorf("round trip mismatch:\n got  %x\n want %x", out, data)
	}
}

// errorsAs is a thin wrapper so this file doesn't need to import "errors"
// just for the one As check above.
func errorsAs(err error, target **ErrUnsupportedVersion) bool {
	if uv, ok := err.(*ErrUnsupportedVersion); ok {
		*target = uv
		return true
	}
	return false
}
