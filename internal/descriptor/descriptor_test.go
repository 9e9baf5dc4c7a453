package descriptor

import (
	"reflect"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"B", "C", "D", "F", "I", "J", "S", "Z", "V",
		"Ljava/lang/String;",
		"[I",
		"[[Ljava/lang/String;",
		"(IDLjava/lang/Thread;)Ljava/lang/Object;",
		"()V",
		"([Ljava/lang/String;)V",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			d, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q): %v", s, err)
			}
			if got := d.String(); got != s {
				t.Errorf("String() = %q, want %q", got, s)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{"", "X", "L", "Ljava/lang/String", "(I", "(I)", "[I]"}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			if _, err := Parse(s); err == nil {
				t.Errorf("Parse(%q): expected error", s)
			}
		})
	}
}

func TestIsCategory2(t *testing.T) {
	j, _ := Parse("J")
	d, _ := Parse("D")
	i, _ := Parse("I")
	if !j.IsCategory2() || !d.IsCategory2() {
		t.Error("J and D should be category 2")
	}
	if i.IsCategory2() {
		t.Error("I should not be category 2")
	}
}

func TestClassUsage(t *testing.T) {
	d, err := Parse("(Ljava/lang/String;[Ljava/util/List;)Ljava/lang/Object;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := d.ClassUsage()
	want := []string{"java/lang/String", "java/util/List", "java/lang/Object"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClassUsage() = %v, want %v", got, want)
	}
}

func TestClassUsageDedup(t *testing.T) {
	d, err := Parse("(Ljava/lang/String;)Ljava/lang/String;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := d.ClassUsage()
	if len(got) != 1 || got[0] != "java/lang/String" {
		t.Errorf("ClassUsage() = %v, want single java/lang/String", got)
	}
}

func TestNestedArray(t *testing.T) {
	d, err := Parse("[[[I")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Kind != KindArray || d.Elem.Kind != KindArray || d.Elem.Elem.Kind != KindArray || d.Elem.Elem.Elem.Kind != KindInt {
		t.Errorf("unexpected structure: %+v", d)
	}
}
