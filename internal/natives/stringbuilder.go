package natives

import (
	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/object"
)

const stringBuilderClassName = "java/lang/StringBuilder"

// stringBuilderSchema builds java/lang/StringBuilder's instance layout the
// same way interp's stringSchema builds java/lang/String's: a backing char
// array plus a count of occupied slots (laid out like the real JDK's
// AbstractStringBuilder without needing its class file on the path). Each
// append replaces the array with a new one of exactly the new length.
func stringBuilderSchema(env *interp.Interp) *object.ClassSchema {
	if s, ok := env.Env().Schemas.Instance(stringBuilderClassName); ok {
		return s
	}
	s := object.NewInstanceSchema(stringBuilderClassName, nil, []object.FieldDecl{
		{Name: "value", Descriptor: descriptor.Descriptor{Kind: descriptor.KindArray, Elem: &descriptor.Descriptor{Kind: descriptor.KindChar}}},
		{Name: "count", Descriptor: descriptor.Descriptor{Kind: descriptor.KindInt}},
	})
	env.Env().Schemas.RegisterInstance(s)
	return s
}

// NewStringBuilder allocates an empty java/lang/StringBuilder instance.
// Real bytecode reaches one through `new`+invokespecial <init>, which needs
// a loadable java/lang/StringBuilder class file; this constructor is the
// shim's substitute for test harnesses and embedding hosts that want one
// without a class file on the path, the same role ldc's special-casing
// plays for java/lang/String.
func NewStringBuilder(i *interp.Interp) (*object.Handle, error) {
	h := object.NewInstance(stringBuilderSchema(i))
	if err := sbSetChars(i, h, nil); err != nil {
		return nil, err
	}
	return h, nil
}

func sbChars(h *object.Handle) []uint16 {
	v, ok := h.GetField("value")
	if !ok || v.Ref == nil {
		return nil
	}
	count, _ := h.GetField("count")
	n := int(count.Int)
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(v.Ref.GetElement(i).Int)
	}
	return out
}

func sbSetChars(env *interp.Interp, h *object.Handle, units []uint16) error {
	charSchema := env.Env().Schemas.ArraySchema(descriptor.Descriptor{Kind: descriptor.KindChar})
	arr := object.NewArray(charSchema, len(units))
	for i, u := range units {
		if err := arr.SetElement(i, object.IntValue(descriptor.KindChar, int64(u)), nil); err != nil {
			return err
		}
	}
	if err := h.SetField("value", object.RefValue(arr)); err != nil {
		return err
	}
	return h.SetField("count", object.IntValue(descriptor.KindInt, int64(len(units))))
}

// registerStringBuilder installs a minimal java/lang/StringBuilder: the
// no-arg constructor's field init happens lazily on first append since the
// shim has no hook into <init> (natives answer method calls, not
// constructors run through bytecode's invokespecial, which already zeroes
// fields via the object's schema defaults).
func registerStringBuilder(t *Table) {
	t.Register(stringBuilderClassName, "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 2 || args[0].IsNull() {
			return object.Value{}, interp.NullPointerError("StringBuilder.append")
		}
		self := args[0].Ref
		existing := sbChars(self)
		var appended []uint16
		if !args[1].IsNull() {
			s, _ := interp.JavaStringValue(args[1].Ref)
			appended = utf16UnitsOf(s)
		} else {
			appended = utf16UnitsOf("null")
		}
		if err := sbSetChars(i, self, append(existing, appended...)); err != nil {
			return object.Value{}, err
		}
		return args[0], nil
	})
	t.Register(stringBuilderClassName, "append", "(I)Ljava/lang/StringBuilder;", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 2 || args[0].IsNull() {
			return object.Value{}, interp.NullPointerError("StringBuilder.append")
		}
		self := args[0].Ref
		existing := sbChars(self)
		appended := utf16UnitsOf(itoa(int64(int32(args[1].Int))))
		if err := sbSetChars(i, self, append(existing, appended...)); err != nil {
			return object.Value{}, err
		}
		return args[0], nil
	})
	t.Register(stringBuilderClassName, "toString", "()Ljava/lang/String;", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 1 || args[0].IsNull() {
			return object.Value{}, interp.NullPointerError("StringBuilder.toString")
		}
		units := sbChars(args[0].Ref)
		h, err := i.NewJavaString(utf16StringOf(units))
		if err != nil {
			return object.Value{}, err
		}
		return object.RefValue(h), nil
	})
	t.Register(stringBuilderClassName, "length", "()I", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		if len(args) != 1 || args[0].IsNull() {
			return object.Value{}, interp.NullPointerError("StringBuilder.length")
		}
		return object.IntValue(descriptor.KindInt, int64(len(sbChars(args[0].Ref)))), nil
	})
}

// utf16UnitsOf/utf16StringOf duplicate interp's private UTF-16 codec rather
// than exporting it wholesale; StringBuilder only ever needs to round-trip
// through the codepoint level, same as interp's own newJavaString.
func utf16UnitsOf(s string) []uint16 {
	var out []uint16
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, uint16(r))
			continue
		}
		v := r - 0x10000
		out = append(out, uint16(0xD800+(v>>10)), uint16(0xDC00+(v&0x3FF)))
	}
	return out
}

func utf16StringOf(units []uint16) string {
	var out []rune
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
			r := 0x10000 + (rune(u)-0xD800)<<10 + (rune(units[i+1]) - 0xDC00)
			out = append(out, r)
			i++
			continue
		}
		out = append(out, rune(u))
	}
	return string(out)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
