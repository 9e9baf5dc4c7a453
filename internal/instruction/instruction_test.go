package instruction

import (
	"reflect"
	"testing"
)

func TestDecodeSimpleSequence(t *testing.T) {
	// iconst_1; istore_0; iload_0; ireturn
	code := []byte{byte(Iconst1), byte(Istore0), byte(Iload0), byte(Ireturn)}
	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []Op{Iconst1, Istore0, Iload0, Ireturn}
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(got), len(want))
	}
	for i, op := range want {
		if got[i].Op != op {
			t.Errorf("instr %d: op = %s, want %s", i, Mnemonic(got[i].Op), Mnemonic(op))
		}
		if got[i].Pos != i {
			t.Errorf("instr %d: pos = %d, want %d", i, got[i].Pos, i)
		}
	}
}

func TestDecodeBipushSipush(t *testing.T) {
	code := []byte{byte(Bipush), 0xFF, byte(Sipush), 0x01, 0x00}
	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].Const != -1 {
		t.Errorf("bipush 0xFF = %d, want -1", got[0].Const)
	}
	if got[1].Const != 256 {
		t.Errorf("sipush = %d, want 256", got[1].Const)
	}
}

func TestDecodeIinc(t *testing.T) {
	code := []byte{byte(Iinc), 3, 0xFF} // local 3, const -1
	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].Var != 3 || got[0].Const != -1 {
		t.Errorf("got Var=%d Const=%d, want 3,-1", got[0].Var, got[0].Const)
	}
}

func TestDecodeBranchOffset(t *testing.T) {
	// goto at pos 0 with offset -1 (self-loop-ish encoding)
	code := []byte{byte(Goto), 0xFF, 0xFF}
	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].Offset != -1 {
		t.Errorf("offset = %d, want -1", got[0].Offset)
	}
	if got[0].Target() != -1 {
		t.Errorf("target = %d, want -1", got[0].Target())
	}
}

func TestDecodeWidePrefix(t *testing.T) {
	code := []byte{byte(Wide), byte(Iload), 0x01, 0x00}
	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].Op != Iload || got[0].Var != 256 || !got[0].Wide {
		t.Errorf("got %+v", got[0])
	}
}

func TestDecodeInvokeinterfaceBadPad(t *testing.T) {
	code := []byte{byte(Invokeinterface), 0, 1, 1, 1}
	if _, err := Decode(code); err == nil {
		t.Error("expected error for nonzero invokeinterface padding")
	}
}

func TestTableswitchRoundTrip(t *testing.T) {
	// tableswitch at pos 0, padding to 4, default=10, low=0, high=2, offsets
	code := []byte{
		byte(Tableswitch), 0, 0, 0, // opcode + 3 pad bytes -> aligned at 4
		0, 0, 0, 10, // default
		0, 0, 0, 0, // low
		0, 0, 0, 2, // high
		0, 0, 0, 20, // offset[0]
		0, 0, 0, 30, // offset[1]
		0, 0, 0, 40, // offset[2]
	}
	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	in := got[0]
	if in.Default != 10 || in.Low != 0 || in.High != 2 {
		t.Fatalf("got %+v", in)
	}
	want := []int32{20, 30, 40}
	if !reflect.DeepEqual(in.Offsets, want) {
		t.Errorf("offsets = %v, want %v", in.Offsets, want)
	}
	out := Encode(got)
	if !reflect.DeepEqual(out, code) {
		t.Errorf("round trip mismatch:\n got  %v\n want %v", out, code)
	}
}

func TestLookupswitchStrictlyAscending(t *testing.T) {
	code := []byte{
		byte(Lookupswitch), 0, 0, 0,
		0, 0, 0, 0, // default
		0, 0, 0, 2, // npairs
		0, 0, 0, 5, 0, 0, 0, 1, // match 5 -> offset 1
		0, 0, 0, 3, 0, 0, 0, 2, // match 3 (not ascending) -> error
	}
	if _, err := Decode(code); err == nil {
		t.Error("expected error for non-ascending match keys")
	}
}

func TestEncodeAutoWidensOverflow(t *testing.T) {
	instrs := []Instruction{{Op: Iload, Var: 300}}
	out := Encode(instrs)
	if out[0] != byte(Wide) {
		t.Errorf("expected auto wide prefix, got %x", out[0])
	}
	back, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back[0].Var != 300 {
		t.Errorf("got Var=%d, want 300", back[0].Var)
	}
}

func TestParseWriteRoundTripMixed(t *testing.T) {
	code := []byte{
		byte(Bipush), 5,
		byte(Istore0),
		byte(Iload0),
		byte(Ifeq), 0, 6,
		byte(Goto), 0xFF, 0xFD,
		byte(Return),
	}
	instrs, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out := Encode(instrs)
	if !reflect.DeepEqual(out, code) {
		t.Errorf("round trip mismatch:\n got  %v\n want %v", out, code)
	}
}

func TestRuntimeExceptionsTable(t *testing.T) {
	if exs := RuntimeExceptions(Idiv); len(exs) != 1 || exs[0] != "java/lang/ArithmeticException" {
		t.Errorf("Idiv exceptions = %v", exs)
	}
	if exs := RuntimeExceptions(Aastore); len(exs) != 3 {
		t.Errorf("Aastore exceptions = %v, want 3 entries", exs)
	}
	if exs := RuntimeExceptions(Nop); exs != nil {
		t.Errorf("Nop exceptions = %v, want nil", exs)
	}
}
