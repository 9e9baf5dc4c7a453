package interp

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// pushConst pushes the literal value a constant-family opcode denotes.
func (f *Frame) pushConst(op instruction.Op) {
	switch op {
	case instruction.AconstNull:
		f.push(object.RefValue(nil))
	case instruction.IconstM1:
		f.push(object.IntValue(iKind, -1))
	case instruction.Iconst0:
		f.push(object.IntValue(iKind, 0))
	case instruction.Iconst1:
		f.push(object.IntValue(iKind, 1))
	case instruction.Iconst2:
		f.push(object.IntValue(iKind, 2))
	case instruction.Iconst3:
		f.push(object.IntValue(iKind, 3))
	case instruction.Iconst4:
		f.push(object.IntValue(iKind, 4))
	case instruction.Iconst5:
		f.push(object.IntValue(iKind, 5))
	case instruction.Lconst0:
		f.push(object.LongValue(0))
	case instruction.Lconst1:
		f.push(object.LongValue(1))
	case instruction.Fconst0:
		f.push(object.FloatValue(0))
	case instruction.Fconst1:
		f.push(object.FloatValue(1))
	case instruction.Fconst2:
		f.push(object.FloatValue(2))
	case instruction.Dconst0:
		f.push(object.DoubleValue(0))
	case instruction.Dconst1:
		f.push(object.DoubleValue(1))
	}
}

// pushBipushSipush pushes bipush/sipush's sign-extended immediate as an int.
func (f *Frame) pushBipushSipush(in instruction.Instruction) {
	f.push(object.IntValue(iKind, int64(in.Const)))
}

// loadConstant implements ldc/ldc_w/ldc2_w: resolve the pool entry by tag
// and push its runtime representation. String constants become
// java/lang/String instances via newJavaString; class literals are pushed as
// null references, since no java/lang/Class object model is built.
func (i *Interp) loadConstant(cls *classfile.Class, in instruction.Instruction, f *Frame) error {
	e := cls.Pool[in.Index]
	switch e.Tag {
	case classfile.TagInteger:
		f.push(object.IntValue(iKind, int64(e.IntVal)))
	case classfile.TagFloat:
		f.push(object.FloatValue(e.FloatVal))
	case classfile.TagLong:
		f.push(object.LongValue(e.LongVal))
	case classfile.TagDouble:
		f.push(object.DoubleValue(e.DoubleVal))
	case classfile.TagString:
		s, err := cls.Pool.AsString(in.Index)
		if err != nil {
			return err
		}
		h, err := i.newJavaString(s)
		if err != nil {
			return err
		}
		f.push(object.RefValue(h))
	case classfile.TagClass:
		// Class literals are represented as a null placeholder: no
		// java/lang/Class object model is built for Tier-1 programs.
		f.push(object.RefValue(nil))
	default:
		return fmt.Errorf("interp: ldc: unsupported constant pool tag %d", e.Tag)
	}
	return nil
}
