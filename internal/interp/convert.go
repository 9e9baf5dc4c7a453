package interp

import (
	"math"

	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// convert implements the d2f/d2i/.../l2i family: JVM widening/narrowing
// rules, not Go's. d2i/f2i/d2l/f2l truncate toward zero, saturate to the
// target type's extreme on overflow, and produce 0 for NaN —
// exactly the opposite of a bare Go numeric conversion, which wraps instead
// of saturating and turns a NaN float into an unspecified int.
func (f *Frame) convert(op instruction.Op) {
	switch op {
	case instruction.I2l:
		f.push(object.LongValue(int64(int32(f.pop().Int))))
	case instruction.I2f:
		f.push(object.FloatValue(float32(int32(f.pop().Int))))
	case instruction.I2d:
		f.push(object.DoubleValue(float64(int32(f.pop().Int))))
	case instruction.I2b:
		f.push(object.IntValue(iKind, int64(int8(int32(f.pop().Int)))))
	case instruction.I2c:
		f.push(object.IntValue(descriptor.KindChar, int64(uint16(int32(f.pop().Int)))))
	case instruction.I2s:
		f.push(object.IntValue(iKind, int64(int16(int32(f.pop().Int)))))

	case instruction.L2i:
		f.push(object.IntValue(iKind, int64(int32(f.pop().Int))))
	case instruction.L2f:
		f.push(object.FloatValue(float32(f.pop().Int)))
	case instruction.L2d:
		f.push(object.DoubleValue(float64(f.pop().Int)))

	case instruction.F2i:
		f.push(object.IntValue(iKind, int64(float32ToInt32(f.pop().Float))))
	case instruction.F2l:
		f.push(object.LongValue(float32ToInt64(f.pop().Float)))
	case instruction.F2d:
		f.push(object.DoubleValue(float64(f.pop().Float)))

	case instruction.D2i:
		f.push(object.IntValue(iKind, int64(float64ToInt32(f.pop().Double))))
	case instruction.D2l:
		f.push(object.LongValue(float64ToInt64(f.pop().Double)))
	case instruction.D2f:
		f.push(object.FloatValue(float32(f.pop().Double)))
	}
}

// float32ToInt32 implements JVM float-to-int narrowing: NaN becomes 0,
// out-of-range values saturate.
func float32ToInt32(v float32) int32 {
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

func float32ToInt64(v float32) int64 {
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(v)
	}
}

func float64ToInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

func float64ToInt64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(v)
	}
}
