package classfile

import "testing"

func TestModifiedUTF8RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    string
	}{
		{"ascii", "hello world"},
		{"nul byte", "a\x00b"},
		{"two-byte range", "café"},
		{"three-byte range", "日本語"},
		{"supplementary", "\U0001F600"}, // emoji, needs six-byte surrogate form
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := EncodeModifiedUTF8(tt.s)
			got, err := DecodeModifiedUTF8(enc)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.s {
				t.Errorf("got %q, want %q", got, tt.s)
			}
		})
	}
}

func TestModifiedUTF8NulEncoding(t *testing.T) {
	enc := EncodeModifiedUTF8("\x00")
	want := []byte{0xC0, 0x80}
	if len(enc) != 2 || enc[0] != want[0] || enc[1] != want[1] {
		t.Errorf("got %v, want %v", enc, want)
	}
}

func TestLongDoublePlaceholder(t *testing.T) {
	// Build a minimal pool: [0]=unused, [1]=Long, [2]=placeholder, [3]=Integer
	w := &poolBuilder{}
	w.addLong(42)
	w.addInteger(7)
	pool := w.pool()

	if pool[2].Tag != tagPlaceholder {
		t.Fatalf("expected placeholder at index 2, got tag %d", pool[2].Tag)
	}
	if pool.valid(2) {
		t.Error("index 2 (placeholder) must not be considered valid")
	}
	if !pool.valid(3) {
		t.Error("index 3 (Integer) should be valid")
	}
}

// poolBuilder is test-only scaffolding for hand-assembling a Pool without
// going through the byte-stream parser.
type poolBuilder struct {
	entries []Entry
}

func (b *poolBuilder) addLong(v int64) {
	b.entries = append(b.entries, Entry{Tag: TagLong, LongVal: v}, Entry{Tag: tagPlaceholder})
}

func (b *poolBuilder) addInteger(v int32) {
	b.entries = append(b.entries, Entry{Tag: TagInteger, IntVal: v})
}

func (b *poolBuilder) pool() Pool {
	out := make(Pool, len(b.entries)+1)
	copy(out[1:], b.entries)
	return out
}

func TestAsClassName(t *testing.T) {
	pool := Pool{
		{},
		{Tag: TagUTF8, UTF8: "java/lang/Object"},
		{Tag: TagClass, Index: 1},
	}
	name, err := pool.AsClassName(2)
	if err != nil {
		t.Fatalf("AsClassName: %v", err)
	}
	if name != "java/lang/Object" {
		t.Errorf("got %q, want java/lang/Object", name)
	}
}

func TestAsMemberRef(t *testing.T) {
	pool := Pool{
		{},
		{Tag: TagUTF8, UTF8: "java/lang/String"},
		{Tag: TagClass, Index: 1},
		{Tag: TagUTF8, UTF8: "length"},
		{Tag: TagUTF8, UTF8: "()I"},
		{Tag: TagNameAndType, NameIndex: 3, DescriptorIndex: 4},
		{Tag: TagMethodref, ClassIndex: 2, NameAndTypeIndex: 5},
	}
	ref, err := pool.AsMemberRef(6)
	if err != nil {
		t.Fatalf("AsMemberRef: %v", err)
	}
	if ref.ClassName != "java/lang/String" || ref.Name != "length" || ref.Descriptor != "()I" {
		t.Errorf("got %+v", ref)
	}
}

func TestInvalidIndexOutOfRange(t *testing.T) {
	pool := Pool{{}}
	if _, err := pool.AsUTF8(5); err == nil {
		t.Error("expected error for out-of-range index")
	}
}
