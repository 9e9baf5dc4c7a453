package binreader

import (
	"bytes"
	"testing"
)

func TestReaderPrimitives(t *testing.T) {
	data := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x37, 0xFF}
	r := New(bytes.NewReader(data))

	t.Run("U4 magic", func(t *testing.T) {
		v, err := r.U4()
		if err != nil {
			t.Fatalf("U4: %v", err)
		}
		if v != 0xCAFEBABE {
			t.Errorf("got 0x%X, want 0xCAFEBABE", v)
		}
	})

	t.Run("U2 version", func(t *testing.T) {
		v, err := r.U2()
		if err != nil {
			t.Fatalf("U2: %v", err)
		}
		if v != 0x37 {
			t.Errorf("got %d, want 55", v)
		}
	})

	t.Run("I1 negative", func(t *testing.T) {
		v, err := r.I1()
		if err != nil {
			t.Fatalf("I1: %v", err)
		}
		if v != -1 {
			t.Errorf("got %d, want -1", v)
		}
	})

	t.Run("position tracked", func(t *testing.T) {
		if r.Pos() != 7 {
			t.Errorf("got pos %d, want 7", r.Pos())
		}
	})
}

func TestReaderShortRead(t *testing.T) {
	r := New(bytes.NewReader([]byte{0x01}))
	if _, err := r.U2(); err == nil {
		t.Error("expected error on short read")
	}
}

func TestU2Vector(t *testing.T) {
	data := []byte{0x00, 0x03, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	r := New(bytes.NewReader(data))
	got, err := r.U2Vector()
	if err != nil {
		t.Fatalf("U2Vector: %v", err)
	}
	want := []uint16{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U4(0xCAFEBABE)
	w.U2(0x37)
	w.U1(0xFF)

	r := New(bytes.NewReader(w.Bytes()))
	magic, _ := r.U4()
	version, _ := r.U2()
	tag, _ := r.U1()

	if magic != 0xCAFEBABE || version != 0x37 || tag != 0xFF {
		t.Errorf("round trip mismatch: %x %x %x", magic, version, tag)
	}
}
