package interp

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// opNew implements new: consult the schema registry (building it from the
// class file on first reference) and allocate a zero-initialized instance.
func (i *Interp) opNew(f *Frame, in instruction.Instruction) error {
	className, err := f.Class.Pool.AsClassName(in.Index)
	if err != nil {
		return err
	}
	schema, err := i.env.InstanceSchema(className)
	if err != nil {
		return err
	}
	f.push(object.RefValue(object.NewInstance(schema)))
	return nil
}

// opGetfield/opPutfield implement instance field access.
func (i *Interp) opGetfield(f *Frame, in instruction.Instruction) error {
	ref, err := f.Class.Pool.AsMemberRef(in.Index)
	if err != nil {
		return err
	}
	h := f.pop()
	if h.IsNull() {
		return &nullPointer{msg: "getfield " + ref.Name}
	}
	v, ok := h.Ref.GetField(ref.Name)
	if !ok {
		return fmt.Errorf("interp: getfield: no field %s on %s", ref.Name, h.Ref.Schema().ClassName)
	}
	f.push(v)
	return nil
}

func (i *Interp) opPutfield(f *Frame, in instruction.Instruction) error {
	ref, err := f.Class.Pool.AsMemberRef(in.Index)
	if err != nil {
		return err
	}
	v := f.pop()
	h := f.pop()
	if h.IsNull() {
		return &nullPointer{msg: "putfield " + ref.Name}
	}
	return h.Ref.SetField(ref.Name, v)
}

// opGetstatic/opPutstatic implement static field access, against the
// runtime environment's per-class static field table — no module-level
// globals.
func (i *Interp) opGetstatic(f *Frame, in instruction.Instruction) error {
	ref, err := f.Class.Pool.AsMemberRef(in.Index)
	if err != nil {
		return err
	}
	if _, err := i.env.InstanceSchema(ref.ClassName); err != nil {
		return err
	}
	table := i.env.StaticFields(ref.ClassName)
	f.push(table[ref.Name])
	return nil
}

func (i *Interp) opPutstatic(f *Frame, in instruction.Instruction) error {
	ref, err := f.Class.Pool.AsMemberRef(in.Index)
	if err != nil {
		return err
	}
	if _, err := i.env.InstanceSchema(ref.ClassName); err != nil {
		return err
	}
	table := i.env.StaticFields(ref.ClassName)
	table[ref.Name] = f.pop()
	return nil
}

// opCheckcast/opInstanceof implement the two class-test opcodes: checkcast
// raises ClassCastException on mismatch and leaves the reference on the
// stack; instanceof pops it and pushes a boolean int.
func (i *Interp) opCheckcast(f *Frame, in instruction.Instruction) error {
	className, err := f.Class.Pool.AsClassName(in.Index)
	if err != nil {
		return err
	}
	v := f.peek(0)
	if v.IsNull() {
		return nil
	}
	if !i.isInstanceOf(v.Ref.Schema().ClassName, className) {
		return &classCastException{msg: fmt.Sprintf("%s cannot be cast to %s", v.Ref.Schema().ClassName, className)}
	}
	return nil
}

func (i *Interp) opInstanceof(f *Frame, in instruction.Instruction) error {
	className, err := f.Class.Pool.AsClassName(in.Index)
	if err != nil {
		return err
	}
	v := f.pop()
	if v.IsNull() {
		f.push(object.IntValue(iKind, 0))
		return nil
	}
	if i.isInstanceOf(v.Ref.Schema().ClassName, className) {
		f.push(object.IntValue(iKind, 1))
	} else {
		f.push(object.IntValue(iKind, 0))
	}
	return nil
}

// opAthrow implements athrow: pop the object handle and surface it as a
// JavaException for run's catch-dispatch to search exception tables with.
// A null receiver raises NullPointerException instead (JVM spec 6.5).
func (i *Interp) opAthrow(f *Frame) error {
	v := f.pop()
	if v.IsNull() {
		return &nullPointer{msg: "athrow"}
	}
	return &JavaException{Object: v.Ref}
}

// invokeKind distinguishes the four invoke opcodes' dispatch rules.
type invokeKind int

const (
	invokeStatic invokeKind = iota
	invokeSpecial
	invokeVirtual
	invokeInterface
)

// opInvoke implements invokestatic/invokespecial/invokevirtual/
// invokeinterface: resolve {class,name,descriptor}, pop the receiver and
// argument values off the operand stack in declaration order, perform
// dynamic dispatch for virtual/interface calls by walking the receiver's
// actual class chain, and recurse into Invoke. A non-void result is pushed
// onto the caller's operand stack; the returned hasReturn is always false,
// since an invoke does not end the caller's frame.
func (i *Interp) opInvoke(f *Frame, in instruction.Instruction, kind invokeKind, threadID int64, depth int) (object.Value, bool, error) {
	ref, err := f.Class.Pool.AsMemberRef(in.Index)
	if err != nil {
		return object.Value{}, false, err
	}
	sig, err := descriptor.Parse(ref.Descriptor)
	if err != nil {
		return object.Value{}, false, err
	}

	args := make([]object.Value, len(sig.Args))
	for idx := len(sig.Args) - 1; idx >= 0; idx-- {
		args[idx] = f.pop()
	}

	className := ref.ClassName
	var receiver object.Value
	if kind != invokeStatic {
		receiver = f.pop()
		if receiver.IsNull() {
			return object.Value{}, false, &nullPointer{msg: ref.Name}
		}
		if kind == invokeVirtual || kind == invokeInterface {
			className = receiver.Ref.Schema().ClassName
		}
	}

	targetCls, targetMethod, err := i.resolveMethod(className, ref.Name, ref.Descriptor, kind)
	if err != nil {
		return object.Value{}, false, err
	}

	var allArgs []object.Value
	if kind != invokeStatic {
		allArgs = append([]object.Value{receiver}, args...)
	} else {
		allArgs = args
	}

	ret, err := i.Invoke(targetCls, targetMethod, allArgs, threadID, depth+1)
	if err != nil {
		return object.Value{}, false, err
	}
	if sig.Returns != nil && sig.Returns.Kind != descriptor.KindVoid {
		f.push(ret)
	}
	return object.Value{}, false, nil
}

// resolveMethod finds {name,descriptor} starting at className and walking
// the superclass chain (virtual/interface dispatch and invokespecial both
// need this; invokestatic's className is already the declaring class).
func (i *Interp) resolveMethod(className, name, desc string, kind invokeKind) (*classfile.Class, *classfile.Member, error) {
	cur := className
	for cur != "" {
		cls, err := i.env.Class(cur)
		if err != nil {
			return nil, nil, err
		}
		if m := cls.FindMethod(name, desc); m != nil {
			return cls, m, nil
		}
		super, err := cls.SuperName()
		if err != nil {
			return nil, nil, err
		}
		cur = super
	}
	return nil, nil, fmt.Errorf("interp: NoSuchMethodError: %s.%s%s", className, name, desc)
}
