package classpath

import "testing"

func TestParseManifestBasic(t *testing.T) {
	data := []byte("Manifest-Version: 1.0\r\n" +
		"Created-By: 17.0 (jvmgo)\r\n" +
		"Main-Class: com.example.Main\r\n" +
		"Class-Path: lib/a.jar lib/b.jar\r\n" +
		"\r\n" +
		"Name: com/example/Main.class\r\n" +
		"SHA-256-Digest: MDEyMzQ1Njc4OWFiY2RlZg==\r\n")

	mf, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if mf.MainClass != "com.example.Main" {
		t.Errorf("MainClass = %q", mf.MainClass)
	}
	if len(mf.ClassPath) != 2 || mf.ClassPath[0] != "lib/a.jar" {
		t.Errorf("ClassPath = %v", mf.ClassPath)
	}
	if len(mf.Entries) != 1 || mf.Entries[0].Name != "com/example/Main.class" {
		t.Fatalf("Entries = %+v", mf.Entries)
	}
}

func TestParseManifestContinuationLine(t *testing.T) {
	// A long attribute value continued on a following line starting with a
	// single space, per the 72-byte soft line limit.
	data := []byte("Manifest-Version: 1.0\r\n" +
		"Class-Path: lib/a.jar lib/b.jar\r\n" +
		"  lib/c.jar\r\n")
	mf, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(mf.ClassPath) != 3 || mf.ClassPath[2] != "lib/c.jar" {
		t.Errorf("ClassPath = %v, want 3 entries ending in lib/c.jar", mf.ClassPath)
	}
}

func TestMultiReleaseMergeOverridesOnlyDeclaredAttrs(t *testing.T) {
	base := &Manifest{MainClass: "com/example/Old", CreatedBy: "base-tool"}
	override := &Manifest{MainClass: "com/example/New"}

	merged := mergeManifest(base, override)
	if merged.MainClass != "com/example/New" {
		t.Errorf("MainClass = %q, want override", merged.MainClass)
	}
	if merged.CreatedBy != "base-tool" {
		t.Errorf("CreatedBy = %q, want base value preserved", merged.CreatedBy)
	}
}

func TestSelectMultiReleasePicksHighestWithinBound(t *testing.T) {
	entries := []string{
		"META-INF/versions/9/com/example/Foo.class",
		"META-INF/versions/11/com/example/Foo.class",
		"META-INF/versions/17/com/example/Foo.class",
		"com/example/Foo.class",
	}
	version, dir := selectMultiRelease(entries, 11)
	if version != 11 {
		t.Errorf("version = %d, want 11 (17 exceeds bound)", version)
	}
	if dir != "META-INF/versions/11" {
		t.Errorf("dir = %q", dir)
	}
}
