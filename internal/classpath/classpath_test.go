package classpath

import (
	"os"
	"path/filepath"
	"testing"
)

// buildMinimalClass hand-assembles a trivial "public class <name> extends
// java/lang/Object {}" byte stream, mirroring internal/classfile's own test
// helper since that package's is unexported.
func buildMinimalClass(name string) []byte {
	var buf []byte
	u1 := func(v byte) { buf = append(buf, v) }
	u2 := func(v uint16) { buf = append(buf, byte(v>>8), byte(v)) }
	u4 := func(v uint32) { buf = append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }
	raw := func(s string) { buf = append(buf, []byte(s)...) }

	u4(0xCAFEBABE)
	u2(0)  // minor
	u2(55) // major
	u2(5)  // constant_pool_count
	u1(7)  // Class
	u2(3)
	u1(7) // Class
	u2(4)
	u1(1) // Utf8
	u2(uint16(len(name)))
	raw(name)
	u1(1) // Utf8
	u2(16)
	raw("java/lang/Object")

	u2(0x0021) // access_flags: public super
	u2(1)      // this_class
	u2(2)      // super_class
	u2(0)       // interfaces
	u2(0)       // fields
	u2(0)       // methods
	u2(0)       // attributes
	return buf
}

func TestClassPathPreloadLooseDir(t *testing.T) {
	dir := t.TempDir()
	data := buildMinimalClass("com/example/Foo")
	if err := os.WriteFile(filepath.Join(dir, "Foo.class"), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cp := New([]string{dir}, "", nil)
	if err := cp.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	src, ok := cp.Discovered["com/example/Foo"]
	if !ok {
		t.Fatal("expected com/example/Foo to be discovered")
	}
	if src.Kind != SourceLooseFile {
		t.Errorf("Kind = %v, want SourceLooseFile", src.Kind)
	}
}

func TestClassPathFirstRootWins(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	os.WriteFile(filepath.Join(dir1, "A.class"), buildMinimalClass("pkg/A"), 0o644)
	os.WriteFile(filepath.Join(dir2, "A.class"), buildMinimalClass("pkg/A"), 0o644)

	cp := New([]string{dir1, dir2}, "", nil)
	if err := cp.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	src := cp.Discovered["pkg/A"]
	if src.Path != filepath.Join(dir1, "A.class") {
		t.Errorf("expected first root to win, got %q", src.Path)
	}
}

func TestLoaderAttemptLoadResolvesSuperclass(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "Base.class"), buildMinimalClass("pkg/Base"), 0o644)

	var buf []byte
	u1 := func(v byte) { buf = append(buf, v) }
	u2 := func(v uint16) { buf = append(buf, byte(v>>8), byte(v)) }
	u4 := func(v uint32) { buf = append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }
	raw := func(s string) { buf = append(buf, []byte(s)...) }
	u4(0xCAFEBABE)
	u2(0)
	u2(55)
	u2(5)
	u1(7)
	u2(3)
	u1(7)
	u2(4)
	u1(1)
	u2(uint16(len("pkg/Child")))
	raw("pkg/Child")
	u1(1)
	u2(uint16(len("pkg/Base")))
	raw("pkg/Base")
	u2(0x0021)
	u2(1)
	u2(2)
	u2(0)
	u2(0)
	u2(0)
	u2(0)
	os.WriteFile(filepath.Join(dir, "Child.class"), buf, 0o644)

	cp := New([]string{dir}, "", nil)
	if err := cp.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	loader := NewLoader(cp, nil)
	ok, err := loader.AttemptLoad("pkg/Child")
	if err != nil {
		t.Fatalf("AttemptLoad: %v", err)
	}
	if !ok {
		t.Fatal("expected AttemptLoad to succeed")
	}
	if _, loaded := loader.Registry["pkg/Base"]; !loaded {
		t.Error("expected superclass pkg/Base to be recursively loaded")
	}
}
