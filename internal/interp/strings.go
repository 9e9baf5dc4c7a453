package interp

import (
	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/object"
)

// stringClassName is the synthetic schema this interpreter builds for
// ldc'd string literals: a single "value" char array field, mirroring the
// real JDK's internal String layout closely enough for Tier-1 programs
// (print/concat/compare via the native shim) without requiring java/lang/
// String's actual class file to be on the class path.
const stringClassName = "java/lang/String"

func (i *Interp) stringSchema() *object.ClassSchema {
	if s, ok := i.env.Schemas.Instance(stringClassName); ok {
		return s
	}
	s := object.NewInstanceSchema(stringClassName, nil, []object.FieldDecl{
		{Name: "value", Descriptor: descriptor.Descriptor{Kind: descriptor.KindArray, Elem: &descriptor.Descriptor{Kind: descriptor.KindChar}}},
	})
	i.env.Schemas.RegisterInstance(s)
	return s
}

// newJavaString allocates a java/lang/String instance whose "value" field
// holds s encoded as a char array of UTF-16 code units.
func (i *Interp) newJavaString(s string) (*object.Handle, error) {
	units := utf16Units(s)
	charSchema := i.env.Schemas.ArraySchema(descriptor.Descriptor{Kind: descriptor.KindChar})
	arr := object.NewArray(charSchema, len(units))
	for idx, u := range units {
		if err := arr.SetElement(idx, object.IntValue(descriptor.KindChar, int64(u)), nil); err != nil {
			return nil, err
		}
	}
	h := object.NewInstance(i.stringSchema())
	if err := h.SetField("value", object.RefValue(arr)); err != nil {
		return nil, err
	}
	return h, nil
}

// NewJavaString exports newJavaString for the native shim (internal/natives,
// §4.J), which needs to box plain Go strings (Object.toString,
// StringBuilder.toString) into java/lang/String instances the same way
// ldc does.
func (i *Interp) NewJavaString(s string) (*object.Handle, error) { return i.newJavaString(s) }

// JavaStringValue exports javaStringValue for the native shim.
func JavaStringValue(h *object.Handle) (string, bool) { return javaStringValue(h) }

// javaStringValue recovers a Go string from a java/lang/String instance
// built by newJavaString, for natives/logging that need to print it.
func javaStringValue(h *object.Handle) (string, bool) {
	if h == nil || h.Schema().ClassName != stringClassName {
		return "", false
	}
	v, ok := h.GetField("value")
	if !ok || v.Ref == nil {
		return "", false
	}
	arr := v.Ref
	units := make([]uint16, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		units[i] = uint16(arr.GetElement(i).Int)
	}
	return string(utf16Decode(units)), true
}

// utf16Units encodes a Go string (UTF-8) into UTF-16 code units, the form
// java/lang/String stores characters in.
func utf16Units(s string) []uint16 {
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

// utf16Decode is the inverse of utf16Units.
func utf16Decode(units []uint16) []rune {
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
	return out
}
