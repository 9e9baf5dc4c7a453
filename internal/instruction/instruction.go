package instruction

import (
	"encoding/binary"
	"fmt"
)

// Instruction is a tagged sum over the full opcode list.
// Not every field is meaningful for every Op; which fields apply is
// determined entirely by Op.
type Instruction struct {
	Op  Op
	Pos int // byte offset of this instruction's opcode within the method

	Var     int   // local variable index: loads/stores, iinc, ret
	Index   uint16 // constant pool index: ldc family, field/method refs, new, (a)newarray, checkcast, instanceof
	Const   int32  // bipush/sipush immediate, newarray type tag, iinc increment
	Offset  int32  // branch target, as a signed byte delta from Pos
	Count   uint8  // invokeinterface argument count
	Dims    uint8  // multianewarray dimension count
	Wide    bool   // true if decoded via (or must encode with) the wide prefix

	// tableswitch / lookupswitch
	Default int32
	Low     int32
	High    int32
	Offsets []int32      // tableswitch: jump_offsets[high-low+1]
	Pairs   []LookupPair // lookupswitch: strictly ascending by Match
}

// LookupPair is one (match, offset) entry of a lookupswitch.
type LookupPair struct {
	Match  int32
	Offset int32
}

// Target resolves a branch instruction's absolute destination offset.
func (in Instruction) Target() int { return in.Pos + int(in.Offset) }

// Decode parses an entire method body's bytecode into its instruction list.
// Each instruction records its own byte offset (Pos) so branch targets and
// exception-table ranges can be resolved by offset rather than by index.
func Decode(code []byte) ([]Instruction, error) {
	var out []Instruction
	pos := 0
	for pos < len(code) {
		start := pos
		op := Op(code[pos])
		pos++

		var in Instruction
		in.Op = op
		in.Pos = start

		var err error
		switch {
		case op == Wide:
			in, pos, err = decodeWide(code, pos, start)
		case op == Tableswitch:
			in, pos, err = decodeTableswitch(code, pos, start)
		case op == Lookupswitch:
			in, pos, err = decodeLookupswitch(code, pos, start)
		case isShortLoadStore(op):
			in = decodeShortLoadStore(op, start)
		case op == Bipush:
			in.Const = int32(int8(code[pos]))
			pos++
		case op == Sipush:
			in.Const = int32(int16(binary.BigEndian.Uint16(code[pos:])))
			pos += 2
		case op == Ldc:
			in.Index = uint16(code[pos])
			pos++
		case op == LdcW, op == Ldc2W:
			in.Index = binary.BigEndian.Uint16(code[pos:])
			pos += 2
		case isIndexedLocalOp(op):
			in.Var = int(code[pos])
			pos++
		case op == Iinc:
			in.Var = int(code[pos])
			in.Const = int32(int8(code[pos+1]))
			pos += 2
		case isBranchOp(op):
			in.Offset = int32(int16(binary.BigEndian.Uint16(code[pos:])))
			pos += 2
		case op == GotoW || op == JsrW:
			in.Offset = int32(binary.BigEndian.Uint32(code[pos:]))
			pos += 4
		case isPoolRef2(op):
			in.Index = binary.BigEndian.Uint16(code[pos:])
			pos += 2
		case op == Invokeinterface:
			in.Index = binary.BigEndian.Uint16(code[pos:])
			in.Count = code[pos+2]
			if code[pos+3] != 0 {
				return nil, fmt.Errorf("instruction: invokeinterface at %d: trailing byte must be zero, got %d", start, code[pos+3])
			}
			pos += 4
		case op == Invokedynamic:
			in.Index = binary.BigEndian.Uint16(code[pos:])
			if code[pos+2] != 0 || code[pos+3] != 0 {
				return nil, fmt.Errorf("instruction: invokedynamic at %d: padding bytes must be zero", start)
			}
			pos += 4
		case op == Newarray:
			in.Const = int32(code[pos])
			pos++
		case op == Multianewarray:
			in.Index = binary.BigEndian.Uint16(code[pos:])
			in.Dims = code[pos+2]
			pos += 3
		case op == Ret:
			in.Var = int(code[pos])
			pos++
		default:
			// no operand: nop, aconst_null, iconst/lconst/fconst/dconst family,
			// stack ops, arithmetic, conversions, compares, returns,
			// arraylength, athrow, monitorenter/exit.
		}
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func isShortLoadStore(op Op) bool {
	switch op {
	case Iload0, Iload1, Iload2, Iload3,
		Lload0, Lload1, Lload2, Lload3,
		Fload0, Fload1, Fload2, Fload3,
		Dload0, Dload1, Dload2, Dload3,
		Aload0, Aload1, Aload2, Aload3,
		Istore0, Istore1, Istore2, Istore3,
		Lstore0, Lstore1, Lstore2, Lstore3,
		Fstore0, Fstore1, Fstore2, Fstore3,
		Dstore0, Dstore1, Dstore2, Dstore3,
		Astore0, Astore1, Astore2, Astore3:
		return true
	}
	return false
}

func decodeShortLoadStore(op Op, pos int) Instruction {
	return Instruction{Op: op, Pos: pos, Var: int(shortIndex(op))}
}

// shortIndex returns the embedded 0..3 local index of a short load/store form.
func shortIndex(op Op) byte {
	switch {
	case op >= Iload0 && op <= Iload3:
		return byte(op - Iload0)
	case op >= Lload0 && op <= Lload3:
		return byte(op - Lload0)
	case op >= Fload0 && op <= Fload3:
		return byte(op - Fload0)
	case op >= Dload0 && op <= Dload3:
		return byte(op - Dload0)
	case op >= Aload0 && op <= Aload3:
		return byte(op - Aload0)
	case op >= Istore0 && op <= Istore3:
		return byte(op - Istore0)
	case op >= Lstore0 && op <= Lstore3:
		return byte(op - Lstore0)
	case op >= Fstore0 && op <= Fstore3:
		return byte(op - Fstore0)
	case op >= Dstore0 && op <= Dstore3:
		return byte(op - Dstore0)
	case op >= Astore0 && op <= Astore3:
		return byte(op - Astore0)
	}
	return 0
}

func isIndexedLocalOp(op Op) bool {
	switch op {
	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore:
		return true
	}
	return false
}

func isBranchOp(op Op) bool {
	switch op {
	case Ifeq, Ifne, Iflt, Ifge, Ifgt, Ifle,
		IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmpge, IfIcmpgt, IfIcmple,
		IfAcmpeq, IfAcmpne, Goto, Jsr, Ifnull, Ifnonnull:
		return true
	}
	return false
}

func isPoolRef2(op Op) bool {
	switch op {
	case Getstatic, Putstatic, Getfield, Putfield,
		Invokevirtual, Invokespecial, Invokestatic,
		New, Anewarray, Checkcast, Instanceof:
		return true
	}
	return false
}

// decodeWide handles the 0xC4 prefix: the next byte selects which opcode is
// being widened, and its operand becomes a 16-bit (iinc: 16-bit index + 16-bit
// signed const) value instead of the usual 8-bit one.
func decodeWide(code []byte, pos, start int) (Instruction, int, error) {
	if pos >= len(code) {
		return Instruction{}, 0, fmt.Errorf("instruction: wide at %d: truncated", start)
	}
	inner := Op(code[pos])
	pos++
	in := Instruction{Op: inner, Pos: start, Wide: true}
	switch inner {
	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore, Ret:
		in.Var = int(binary.BigEndian.Uint16(code[pos:]))
		pos += 2
	case Iinc:
		in.Var = int(binary.BigEndian.Uint16(code[pos:]))
		in.Const = int32(int16(binary.BigEndian.Uint16(code[pos+2:])))
		pos += 4
	default:
		return Instruction{}, 0, fmt.Errorf("instruction: wide at %d: opcode %s cannot be widened", start, Mnemonic(inner))
	}
	return in, pos, nil
}

// decodeTableswitch reads {default_offset, low, high, jump_offsets[]} after
// padding the stream to 4-byte alignment measured from the method's start
// (i.e. from byte 0, not from this instruction's position).
func decodeTableswitch(code []byte, pos, start int) (Instruction, int, error) {
	pos = skipPadding(pos)
	if pos+12 > len(code) {
		return Instruction{}, 0, fmt.Errorf("instruction: tableswitch at %d: truncated header", start)
	}
	def := int32(binary.BigEndian.Uint32(code[pos:]))
	low := int32(binary.BigEndian.Uint32(code[pos+4:]))
	high := int32(binary.BigEndian.Uint32(code[pos+8:]))
	pos += 12
	if high < low {
		return Instruction{}, 0, fmt.Errorf("instruction: tableswitch at %d: high %d < low %d", start, high, low)
	}
	n := int(high-low) + 1
	offsets := make([]int32, n)
	for i := 0; i < n; i++ {
		if pos+4 > len(code) {
			return Instruction{}, 0, fmt.Errorf("instruction: tableswitch at %d: truncated jump table", start)
		}
		offsets[i] = int32(binary.BigEndian.Uint32(code[pos:]))
		pos += 4
	}
	return Instruction{Op: Tableswitch, Pos: start, Default: def, Low: low, High: high, Offsets: offsets}, pos, nil
}

// decodeLookupswitch reads {default_offset, npairs, (match,offset) pairs},
// likewise 4-byte aligned from the method's start.
func decodeLookupswitch(code []byte, pos, start int) (Instruction, int, error) {
	pos = skipPadding(pos)
	if pos+8 > len(code) {
		return Instruction{}, 0, fmt.Errorf("instruction: lookupswitch at %d: truncated header", start)
	}
	def := int32(binary.BigEndian.Uint32(code[pos:]))
	npairs := int32(binary.BigEndian.Uint32(code[pos+4:]))
	pos += 8
	pairs := make([]LookupPair, npairs)
	var prevMatch int32
	for i := range pairs {
		if pos+8 > len(code) {
			return Instruction{}, 0, fmt.Errorf("instruction: lookupswitch at %d: truncated pair table", start)
		}
		match := int32(binary.BigEndian.Uint32(code[pos:]))
		offset := int32(binary.BigEndian.Uint32(code[pos+4:]))
		if i > 0 && match <= prevMatch {
			return Instruction{}, 0, fmt.Errorf("instruction: lookupswitch at %d: match keys not strictly ascending", start)
		}
		pairs[i] = LookupPair{Match: match, Offset: offset}
		prevMatch = match
		pos += 8
	}
	return Instruction{Op: Lookupswitch, Pos: start, Default: def, Pairs: pairs}, pos, nil
}

// skipPadding advances pos to the next multiple of 4, measured from the
// start of the method (i.e. from absolute position 0).
func skipPadding(pos int) int {
	for pos%4 != 0 {
		pos++
	}
	return pos
}

// Encode serializes instrs back to bytecode, the exact inverse of Decode.
// Indexed loads/stores whose local index exceeds a single unsigned byte, and
// iinc whose index or increment exceeds one byte, are automatically emitted
// with a wide prefix even if Wide was not set; a decoded Instruction
// re-encodes to its original bytes.
func Encode(instrs []Instruction) []byte {
	var buf []byte
	for _, in := range instrs {
		buf = encodeOne(buf, in)
	}
	return buf
}

func encodeOne(buf []byte, in Instruction) []byte {
	start := len(buf)
	needsWide := in.Wide || (usesIndexedLocal(in.Op) && in.Var > 0xFF) ||
		(in.Op == Iinc && (in.Var > 0xFF || in.Const < -128 || in.Const > 127))

	if needsWide {
		buf = append(buf, byte(Wide), byte(in.Op))
		switch in.Op {
		case Iinc:
			buf = append32(buf, uint16(in.Var))
			buf = append32(buf, uint16(int16(in.Const)))
		default:
			buf = append32(buf, uint16(in.Var))
		}
		_ = start
		return buf
	}

	switch {
	case isShortLoadStore(in.Op):
		buf = append(buf, byte(in.Op))
	case in.Op == Bipush:
		buf = append(buf, byte(in.Op), byte(int8(in.Const)))
	case in.Op == Sipush:
		buf = append(buf, byte(in.Op))
		buf = append32(buf, uint16(int16(in.Const)))
	case in.Op == Ldc:
		buf = append(buf, byte(in.Op), byte(in.Index))
	case in.Op == LdcW || in.Op == Ldc2W:
		buf = append(buf, byte(in.Op))
		buf = append32(buf, in.Index)
	case isIndexedLocalOp(in.Op):
		buf = append(buf, byte(in.Op), byte(in.Var))
	case in.Op == Iinc:
		buf = append(buf, byte(in.Op), byte(in.Var), byte(int8(in.Const)))
	case isBranchOp(in.Op):
		buf = append(buf, byte(in.Op))
		buf = append32(buf, uint16(int16(in.Offset)))
	case in.Op == GotoW || in.Op == JsrW:
		buf = append(buf, byte(in.Op))
		buf = append(buf, byte(in.Offset>>24), byte(in.Offset>>16), byte(in.Offset>>8), byte(in.Offset))
	case isPoolRef2(in.Op):
		buf = append(buf, byte(in.Op))
		buf = append32(buf, in.Index)
	case in.Op == Invokeinterface:
		buf = append(buf, byte(in.Op))
		buf = append32(buf, in.Index)
		buf = append(buf, in.Count, 0)
	case in.Op == Invokedynamic:
		buf = append(buf, byte(in.Op))
		buf = append32(buf, in.Index)
		buf = append(buf, 0, 0)
	case in.Op == Newarray:
		buf = append(buf, byte(in.Op), byte(in.Const))
	case in.Op == Multianewarray:
		buf = append(buf, byte(in.Op))
		buf = append32(buf, in.Index)
		buf = append(buf, in.Dims)
	case in.Op == Ret:
		buf = append(buf, byte(in.Op), byte(in.Var))
	case in.Op == Tableswitch:
		buf = append(buf, byte(in.Op))
		buf = padTo4(buf, start)
		buf = append32be(buf, uint32(in.Default))
		buf = append32be(buf, uint32(in.Low))
		buf = append32be(buf, uint32(in.High))
		for _, off := range in.Offsets {
			buf = append32be(buf, uint32(off))
		}
	case in.Op == Lookupswitch:
		buf = append(buf, byte(in.Op))
		buf = padTo4(buf, start)
		buf = append32be(buf, uint32(in.Default))
		buf = append32be(buf, uint32(len(in.Pairs)))
		for _, p := range in.Pairs {
			buf = append32be(buf, uint32(p.Match))
			buf = append32be(buf, uint32(p.Offset))
		}
	default:
		buf = append(buf, byte(in.Op))
	}
	return buf
}

func usesIndexedLocal(op Op) bool { return isIndexedLocalOp(op) }

func append32(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func append32be(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// padTo4 appends zero bytes so that len(buf) is a multiple of 4, where start
// is the position of the opcode byte itself (already appended by the caller
// before calling this).
func padTo4(buf []byte, start int) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	_ = start
	return buf
}
