package interp

import (
	"math"

	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// arithmeticError mirrors idiv/irem/ldiv/lrem with a zero divisor raising
// ArithmeticException, delivered as a runtime exception the caller turns
// into a thrown Throwable object.
type arithmeticError struct{ msg string }

func (e *arithmeticError) Error() string { return e.msg }

// binaryOp dispatches the int/long/float/double arithmetic and bitwise
// family. Shifts mask their shift count (0x1F for int, 0x3F for long);
// iushr/lushr are logical (unsigned) right shifts.
func (f *Frame) binaryOp(op instruction.Op) error {
	switch op {
	case instruction.Iadd, instruction.Isub, instruction.Imul, instruction.Idiv, instruction.Irem,
		instruction.Iand, instruction.Ior, instruction.Ixor, instruction.Ishl, instruction.Ishr, instruction.Iushr:
		b := int32(f.pop().Int)
		a := int32(f.pop().Int)
		v, err := intBinary(op, a, b)
		if err != nil {
			return err
		}
		f.push(object.IntValue(iKind, int64(v)))

	case instruction.Ladd, instruction.Lsub, instruction.Lmul, instruction.Ldiv, instruction.Lrem,
		instruction.Land, instruction.Lor, instruction.Lxor, instruction.Lshl, instruction.Lshr, instruction.Lushr:
		b := f.pop().Int
		a := f.pop().Int
		v, err := longBinary(op, a, b)
		if err != nil {
			return err
		}
		f.push(object.LongValue(v))

	case instruction.Fadd, instruction.Fsub, instruction.Fmul, instruction.Fdiv, instruction.Frem:
		b := f.pop().Float
		a := f.pop().Float
		f.push(object.FloatValue(floatBinary(op, a, b)))

	case instruction.Dadd, instruction.Dsub, instruction.Dmul, instruction.Ddiv, instruction.Drem:
		b := f.pop().Double
		a := f.pop().Double
		f.push(object.DoubleValue(doubleBinary(op, a, b)))
	}
	return nil
}

func intBinary(op instruction.Op, a, b int32) (int32, error) {
	switch op {
	case instruction.Iadd:
		return a + b, nil
	case instruction.Isub:
		return a - b, nil
	case instruction.Imul:
		return a * b, nil
	case instruction.Idiv:
		if b == 0 {
			return 0, &arithmeticError{msg: "/ by zero"}
		}
		return a / b, nil
	case instruction.Irem:
		if b == 0 {
			return 0, &arithmeticError{msg: "/ by zero"}
		}
		return a % b, nil
	case instruction.Iand:
		return a & b, nil
	case instruction.Ior:
		return a | b, nil
	case instruction.Ixor:
		return a ^ b, nil
	case instruction.Ishl:
		return a << (uint32(b) & 0x1F), nil
	case instruction.Ishr:
		return a >> (uint32(b) & 0x1F), nil
	case instruction.Iushr:
		return int32(uint32(a) >> (uint32(b) & 0x1F)), nil
	}
	return 0, nil
}

func longBinary(op instruction.Op, a, b int64) (int64, error) {
	switch op {
	case instruction.Ladd:
		return a + b, nil
	case instruction.Lsub:
		return a - b, nil
	case instruction.Lmul:
		return a * b, nil
	case instruction.Ldiv:
		if b == 0 {
			return 0, &arithmeticError{msg: "/ by zero"}
		}
		return a / b, nil
	case instruction.Lrem:
		if b == 0 {
			return 0, &arithmeticError{msg: "/ by zero"}
		}
		return a % b, nil
	case instruction.Land:
		return a & b, nil
	case instruction.Lor:
		return a | b, nil
	case instruction.Lxor:
		return a ^ b, nil
	case instruction.Lshl:
		// The shift distance operand is always an int (popped separately as
		// b here holds its low bits since both slots are int64-backed).
		return a << (uint64(b) & 0x3F), nil
	case instruction.Lshr:
		return a >> (uint64(b) & 0x3F), nil
	case instruction.Lushr:
		return int64(uint64(a) >> (uint64(b) & 0x3F)), nil
	}
	return 0, nil
}

func floatBinary(op instruction.Op, a, b float32) float32 {
	switch op {
	case instruction.Fadd:
		return a + b
	case instruction.Fsub:
		return a - b
	case instruction.Fmul:
		return a * b
	case instruction.Fdiv:
		return a / b
	case instruction.Frem:
		return float32(math.Mod(float64(a), float64(b)))
	}
	return 0
}

func doubleBinary(op instruction.Op, a, b float64) float64 {
	switch op {
	case instruction.Dadd:
		return a + b
	case instruction.Dsub:
		return a - b
	case instruction.Dmul:
		return a * b
	case instruction.Ddiv:
		return a / b
	case instruction.Drem:
		return math.Mod(a, b)
	}
	return 0
}

// unaryNeg implements ineg/lneg/fneg/dneg.
func (f *Frame) unaryNeg(op instruction.Op) {
	switch op {
	case instruction.Ineg:
		f.push(object.IntValue(iKind, int64(-int32(f.pop().Int))))
	case instruction.Lneg:
		f.push(object.LongValue(-f.pop().Int))
	case instruction.Fneg:
		f.push(object.FloatValue(-f.pop().Float))
	case instruction.Dneg:
		f.push(object.DoubleValue(-f.pop().Double))
	}
}

// compare implements lcmp/fcmpl/fcmpg/dcmpl/dcmpg, pushing -1/0/1. The g/l
// suffix only matters for NaN: *g returns 1 on an unordered comparison,
// *l returns -1.
func (f *Frame) compare(op instruction.Op) {
	switch op {
	case instruction.Lcmp:
		b := f.pop().Int
		a := f.pop().Int
		f.push(object.IntValue(iKind, int64(cmp3(a, b))))
	case instruction.Fcmpg, instruction.Fcmpl:
		b := f.pop().Float
		a := f.pop().Float
		f.push(object.IntValue(iKind, int64(floatCmp3(a, b, op == instruction.Fcmpg))))
	case instruction.Dcmpg, instruction.Dcmpl:
		b := f.pop().Double
		a := f.pop().Double
		f.push(object.IntValue(iKind, int64(doubleCmp3(a, b, op == instruction.Dcmpg))))
	}
}

func cmp3(a, b int64) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func floatCmp3(a, b float32, nanPositive bool) int32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		if nanPositive {
			return 1
		}
		return -1
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func doubleCmp3(a, b float64, nanPositive bool) int32 {
	if math.IsNaN(a) || math.IsNaN(b) {
		if nanPositive {
			return 1
		}
		return -1
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
