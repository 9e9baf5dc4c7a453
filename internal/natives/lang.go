package natives

import (
	"math"
	"time"

	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/object"
)

// registerSystem installs java/lang/System's natives: wall-clock queries
// and the array-copy primitive.
func registerSystem(t *Table) {
	t.Register("java/lang/System", "currentTimeMillis", "()J", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		return object.LongValue(time.Now().UnixMilli()), nil
	})
	t.Register("java/lang/System", "nanoTime", "()J", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		return object.LongValue(time.Now().UnixNano()), nil
	})
	t.Register("java/lang/System", "identityHashCode", "(Ljava/lang/Object;)I", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return wrongArgs("System.identityHashCode: want 1 arg")
		}
		if args[0].IsNull() {
			return object.IntValue(descriptor.KindInt, 0), nil
		}
		return object.IntValue(descriptor.KindInt, int64(object.Hash(args[0].Ref))), nil
	})
	t.Register("java/lang/System", "arraycopy", "(Ljava/lang/Object;ILjava/lang/Object;II)V", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 5 {
			return wrongArgs("System.arraycopy: want 5 args")
		}
		src, srcOff, dst, dstOff, length := args[0], args[1], args[2], args[3], args[4]
		if src.IsNull() || dst.IsNull() {
			return object.Value{}, interp.NullPointerError("arraycopy")
		}
		return object.Value{}, object.CopyArray(src.Ref, int(srcOff.Int), dst.Ref, int(dstOff.Int), int(length.Int))
	})
}

// registerObject installs java/lang/Object's two natives every instance
// inherits: hashCode and toString (via the string helper rather than
// reimplementing UTF-16 boxing here). getClass is not registered.
func registerObject(t *Table) {
	t.Register("java/lang/Object", "hashCode", "()I", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 1 || args[0].IsNull() {
			return object.Value{}, interp.NullPointerError("hashCode")
		}
		return object.IntValue(descriptor.KindInt, int64(object.Hash(args[0].Ref))), nil
	})
	t.Register("java/lang/Object", "toString", "()Ljava/lang/String;", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 1 || args[0].IsNull() {
			return object.Value{}, interp.NullPointerError("toString")
		}
		h, err := i.NewJavaString(defaultToString(args[0].Ref))
		if err != nil {
			return object.Value{}, err
		}
		return object.RefValue(h), nil
	})
}

// defaultToString renders Object.toString's default "ClassName@hexHash"
// form (JLS 11.3).
func defaultToString(h *object.Handle) string {
	return interp.GetClassName(h) + "@" + hex32(object.Hash(h))
}

func hex32(v int32) string {
	const digits = "0123456789abcdef"
	u := uint32(v)
	if u == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = digits[u&0xF]
		u >>= 4
	}
	return string(buf[i:])
}

// registerMath installs the java/lang/Math natives bytecode has no opcode
// for (sqrt needs an FPU instruction the JVM doesn't define).
func registerMath(t *Table) {
	t.Register("java/lang/Math", "sqrt", "(D)D", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return wrongArgs("Math.sqrt: want 1 arg")
		}
		return object.DoubleValue(math.Sqrt(args[0].Double)), nil
	})
	t.Register("java/lang/Math", "abs", "(I)I", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		v := int32(args[0].Int)
		if v < 0 {
			v = -v
		}
		return object.IntValue(descriptor.KindInt, int64(v)), nil
	})
	t.Register("java/lang/Math", "max", "(II)I", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		a, b := int32(args[0].Int), int32(args[1].Int)
		if a > b {
			return object.IntValue(descriptor.KindInt, int64(a)), nil
		}
		return object.IntValue(descriptor.KindInt, int64(b)), nil
	})
	t.Register("java/lang/Math", "min", "(II)I", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		a, b := int32(args[0].Int), int32(args[1].Int)
		if a < b {
			return object.IntValue(descriptor.KindInt, int64(a)), nil
		}
		return object.IntValue(descriptor.KindInt, int64(b)), nil
	})
}
