package interp

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// nullPointer and indexOutOfBounds are the exceptions array load/store
// raise themselves (a store can also fail SetElement's type check); run
// converts them into a thrown Throwable the same way as an arithmeticError.
type nullPointer struct{ msg string }

func (e *nullPointer) Error() string { return e.msg }

// NullPointerError lets the native shim (internal/natives) raise the same
// NullPointerException-mapped error array opcodes do, without exporting the
// nullPointer type itself.
func NullPointerError(msg string) error { return &nullPointer{msg: msg} }

type indexOutOfBounds struct{ msg string }

func (e *indexOutOfBounds) Error() string { return e.msg }

type negativeArraySize struct{ msg string }

func (e *negativeArraySize) Error() string { return e.msg }

// arrayLoad implements the {a,b,c,d,f,i,l,s}aload family.
func (f *Frame) arrayLoad() error {
	index := int32(f.pop().Int)
	ref := f.pop()
	if ref.IsNull() {
		return &nullPointer{msg: "array load"}
	}
	arr := ref.Ref
	if index < 0 || int(index) >= arr.Len() {
		return &indexOutOfBounds{msg: fmt.Sprintf("index %d out of bounds for length %d", index, arr.Len())}
	}
	f.push(arr.GetElement(int(index)))
	return nil
}

// arrayStore implements the {a,b,c,d,f,i,l,s}astore family.
func (i *Interp) arrayStore(f *Frame) error {
	value := f.pop()
	index := int32(f.pop().Int)
	ref := f.pop()
	if ref.IsNull() {
		return &nullPointer{msg: "array store"}
	}
	arr := ref.Ref
	if index < 0 || int(index) >= arr.Len() {
		return &indexOutOfBounds{msg: fmt.Sprintf("index %d out of bounds for length %d", index, arr.Len())}
	}
	if !arr.IsObjectArray() && value.Kind == iKind {
		v := int32(value.Int)
		switch k := arr.Schema().ElemKind; k {
		case descriptor.KindByte:
			value = object.IntValue(k, int64(int8(v)))
		case descriptor.KindBoolean:
			value = object.IntValue(k, int64(v&1))
		case descriptor.KindChar:
			value = object.IntValue(k, int64(uint16(v)))
		case descriptor.KindShort:
			value = object.IntValue(k, int64(int16(v)))
		}
	}
	return arr.SetElement(int(index), value, i.isInstanceOf)
}

// newarray's type-tag constants.
var newarrayKind = map[int32]descriptor.Kind{
	instruction.ArrBoolean: descriptor.KindBoolean,
	instruction.ArrChar:    descriptor.KindChar,
	instruction.ArrFloat:   descriptor.KindFloat,
	instruction.ArrDouble:  descriptor.KindDouble,
	instruction.ArrByte:    descriptor.KindByte,
	instruction.ArrShort:   descriptor.KindShort,
	instruction.ArrInt:     descriptor.KindInt,
	instruction.ArrLong:    descriptor.KindLong,
}

// opNewarray implements newarray: a primitive-element array.
func (i *Interp) opNewarray(f *Frame, in instruction.Instruction) error {
	length := int32(f.pop().Int)
	if length < 0 {
		return &negativeArraySize{msg: fmt.Sprintf("%d", length)}
	}
	kind, ok := newarrayKind[in.Const]
	if !ok {
		return fmt.Errorf("interp: newarray: unknown type tag %d", in.Const)
	}
	schema := i.env.Schemas.ArraySchema(descriptor.Descriptor{Kind: kind})
	f.push(object.RefValue(object.NewArray(schema, int(length))))
	return nil
}

// opAnewarray implements anewarray: a reference-element array of the class
// the pool index names.
func (i *Interp) opAnewarray(f *Frame, in instruction.Instruction) error {
	length := int32(f.pop().Int)
	if length < 0 {
		return &negativeArraySize{msg: fmt.Sprintf("%d", length)}
	}
	className, err := f.Class.Pool.AsClassName(in.Index)
	if err != nil {
		return err
	}
	schema := i.env.Schemas.ArraySchema(descriptor.Descriptor{Kind: descriptor.KindObject, ClassName: className})
	f.push(object.RefValue(object.NewArray(schema, int(length))))
	return nil
}

// opMultianewarray implements multianewarray: allocates nested arrays
// dims deep. The dimension lengths are popped off the stack last-first: the
// leftmost dimension is deepest on the stack, is popped last and becomes
// lengths[0].
func (i *Interp) opMultianewarray(f *Frame, in instruction.Instruction) error {
	arrName, err := f.Class.Pool.AsClassName(in.Index)
	if err != nil {
		return err
	}
	desc, err := descriptor.Parse(arrName)
	if err != nil {
		return fmt.Errorf("interp: multianewarray: %w", err)
	}
	lengths := make([]int32, in.Dims)
	for d := int(in.Dims) - 1; d >= 0; d-- {
		lengths[d] = int32(f.pop().Int)
	}
	h, err := i.buildMultiArray(desc, lengths)
	if err != nil {
		return err
	}
	f.push(object.RefValue(h))
	return nil
}

func (i *Interp) buildMultiArray(desc descriptor.Descriptor, lengths []int32) (*object.Handle, error) {
	length := lengths[0]
	if length < 0 {
		return nil, &negativeArraySize{msg: fmt.Sprintf("%d", length)}
	}
	schema := i.env.Schemas.ArraySchema(*desc.Elem)
	arr := object.NewArray(schema, int(length))
	if len(lengths) == 1 {
		return arr, nil
	}
	for idx := 0; idx < int(length); idx++ {
		sub, err := i.buildMultiArray(*desc.Elem, lengths[1:])
		if err != nil {
			return nil, err
		}
		if err := arr.SetElement(idx, object.RefValue(sub), i.isInstanceOf); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// arrayLength implements arraylength.
func (f *Frame) arrayLength() error {
	ref := f.pop()
	if ref.IsNull() {
		return &nullPointer{msg: "arraylength"}
	}
	f.push(object.IntValue(iKind, int64(ref.Ref.Len())))
	return nil
}
