package interp

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// step executes a single decoded instruction against f, returning the
// method's return value and hasReturn=true if this instruction was a
// return. A single switch over the Op sum type, rather than a dynamic
// dispatch object per opcode, lets the compiler build a jump table.
func (i *Interp) step(f *Frame, in instruction.Instruction, threadID int64, depth int) (object.Value, bool, error) {
	op := in.Op

	switch {
	case op == instruction.Nop:
		return object.Value{}, false, nil

	case op == instruction.AconstNull || (op >= instruction.IconstM1 && op <= instruction.Dconst1):
		f.pushConst(op)
		return object.Value{}, false, nil

	case op == instruction.Bipush || op == instruction.Sipush:
		f.pushBipushSipush(in)
		return object.Value{}, false, nil

	case op == instruction.Ldc || op == instruction.LdcW || op == instruction.Ldc2W:
		return object.Value{}, false, i.loadConstant(f.Class, in, f)

	case isLoadOp(op):
		f.loadLocal(in)
		return object.Value{}, false, nil

	case isStoreOp(op):
		f.storeLocal(in)
		return object.Value{}, false, nil

	case isArrayLoadOp(op):
		return object.Value{}, false, f.arrayLoad()

	case isArrayStoreOp(op):
		return object.Value{}, false, i.arrayStore(f)

	case op == instruction.Pop:
		f.opPop()
		return object.Value{}, false, nil
	case op == instruction.Pop2:
		f.opPop2()
		return object.Value{}, false, nil
	case op == instruction.Dup:
		f.opDup()
		return object.Value{}, false, nil
	case op == instruction.DupX1:
		f.opDupX1()
		return object.Value{}, false, nil
	case op == instruction.DupX2:
		f.opDupX2()
		return object.Value{}, false, nil
	case op == instruction.Dup2:
		f.opDup2()
		return object.Value{}, false, nil
	case op == instruction.Dup2X1:
		f.opDup2X1()
		return object.Value{}, false, nil
	case op == instruction.Dup2X2:
		f.opDup2X2()
		return object.Value{}, false, nil
	case op == instruction.Swap:
		f.opSwap()
		return object.Value{}, false, nil

	case isBinaryMathOp(op):
		return object.Value{}, false, f.binaryOp(op)
	case isNegOp(op):
		f.unaryNeg(op)
		return object.Value{}, false, nil
	case op == instruction.Iinc:
		f.setLocal(in.Var, object.IntValue(iKind, int64(int32(f.getLocal(in.Var).Int)+in.Const)))
		return object.Value{}, false, nil

	case isConvertOp(op):
		f.convert(op)
		return object.Value{}, false, nil
	case isCompareOp(op):
		f.compare(op)
		return object.Value{}, false, nil

	case isBranchOp(op):
		if branchTaken(f, op) {
			return object.Value{}, false, jumpTo(f, in)
		}
		return object.Value{}, false, nil
	case op == instruction.Jsr || op == instruction.JsrW:
		// return address, for ret: the next instruction's byte position
		retPos := int64(-1)
		if f.ip < len(f.Instrs) {
			retPos = int64(f.Instrs[f.ip].Pos)
		}
		f.push(object.IntValue(iKind, retPos))
		return object.Value{}, false, jumpTo(f, in)
	case op == instruction.Ret:
		ix, ok := f.IndexAt(int(f.getLocal(in.Var).Int))
		if !ok {
			return object.Value{}, false, fmt.Errorf("interp: ret: invalid return address")
		}
		f.ip = ix
		return object.Value{}, false, nil

	case op == instruction.Tableswitch:
		key := int32(f.pop().Int)
		return object.Value{}, false, jumpToOffset(f, in.Pos, tableswitchTarget(in, key))
	case op == instruction.Lookupswitch:
		key := int32(f.pop().Int)
		return object.Value{}, false, jumpToOffset(f, in.Pos, lookupswitchTarget(in, key))

	case isReturnOp(op):
		return returnValue(f, op), true, nil

	case op == instruction.Getstatic:
		return object.Value{}, false, i.opGetstatic(f, in)
	case op == instruction.Putstatic:
		return object.Value{}, false, i.opPutstatic(f, in)
	case op == instruction.Getfield:
		return object.Value{}, false, i.opGetfield(f, in)
	case op == instruction.Putfield:
		return object.Value{}, false, i.opPutfield(f, in)

	case op == instruction.Invokestatic:
		return i.opInvoke(f, in, invokeStatic, threadID, depth)
	case op == instruction.Invokespecial:
		return i.opInvoke(f, in, invokeSpecial, threadID, depth)
	case op == instruction.Invokevirtual:
		return i.opInvoke(f, in, invokeVirtual, threadID, depth)
	case op == instruction.Invokeinterface:
		return i.opInvoke(f, in, invokeInterface, threadID, depth)
	case op == instruction.Invokedynamic:
		return object.Value{}, false, fmt.Errorf("interp: invokedynamic not supported (not required for Tier-1 programs)")

	case op == instruction.New:
		return object.Value{}, false, i.opNew(f, in)
	case op == instruction.Newarray:
		return object.Value{}, false, i.opNewarray(f, in)
	case op == instruction.Anewarray:
		return object.Value{}, false, i.opAnewarray(f, in)
	case op == instruction.Multianewarray:
		return object.Value{}, false, i.opMultianewarray(f, in)
	case op == instruction.Arraylength:
		return object.Value{}, false, f.arrayLength()

	case op == instruction.Athrow:
		return object.Value{}, false, i.opAthrow(f)
	case op == instruction.Checkcast:
		return object.Value{}, false, i.opCheckcast(f, in)
	case op == instruction.Instanceof:
		return object.Value{}, false, i.opInstanceof(f, in)

	case op == instruction.Monitorenter:
		return object.Value{}, false, i.monitorEnter(f, threadID)
	case op == instruction.Monitorexit:
		return object.Value{}, false, i.monitorExit(f, threadID)
	}

	return object.Value{}, false, fmt.Errorf("interp: unimplemented opcode %s (0x%02X)", instruction.Mnemonic(op), byte(op))
}

// jumpTo relocates the instruction cursor to in's branch target by
// resolving the absolute byte position through the frame's position index
// (built once in NewFrame), an O(1) lookup instead of walking the decoded
// list until the cumulative byte delta matches.
func jumpTo(f *Frame, in instruction.Instruction) error {
	ix, ok := f.IndexAt(in.Target())
	if !ok {
		return fmt.Errorf("interp: branch target %d is not an instruction boundary", in.Target())
	}
	f.ip = ix
	return nil
}

func jumpToOffset(f *Frame, fromPos int, offset int32) error {
	ix, ok := f.IndexAt(fromPos + int(offset))
	if !ok {
		return fmt.Errorf("interp: switch target %d is not an instruction boundary", fromPos+int(offset))
	}
	f.ip = ix
	return nil
}

func isLoadOp(op instruction.Op) bool {
	switch {
	case op == instruction.Iload || op == instruction.Lload || op == instruction.Fload ||
		op == instruction.Dload || op == instruction.Aload:
		return true
	case op >= instruction.Iload0 && op <= instruction.Aload3:
		return true
	}
	return false
}

func isStoreOp(op instruction.Op) bool {
	switch {
	case op == instruction.Istore || op == instruction.Lstore || op == instruction.Fstore ||
		op == instruction.Dstore || op == instruction.Astore:
		return true
	case op >= instruction.Istore0 && op <= instruction.Astore3:
		return true
	}
	return false
}

func isArrayLoadOp(op instruction.Op) bool {
	switch op {
	case instruction.Iaload, instruction.Laload, instruction.Faload, instruction.Daload,
		instruction.Aaload, instruction.Baload, instruction.Caload, instruction.Saload:
		return true
	}
	return false
}

func isArrayStoreOp(op instruction.Op) bool {
	switch op {
	case instruction.Iastore, instruction.Lastore, instruction.Fastore, instruction.Dastore,
		instruction.Aastore, instruction.Bastore, instruction.Castore, instruction.Sastore:
		return true
	}
	return false
}

func isBinaryMathOp(op instruction.Op) bool {
	switch op {
	case instruction.Iadd, instruction.Isub, instruction.Imul, instruction.Idiv, instruction.Irem,
		instruction.Iand, instruction.Ior, instruction.Ixor, instruction.Ishl, instruction.Ishr, instruction.Iushr,
		instruction.Ladd, instruction.Lsub, instruction.Lmul, instruction.Ldiv, instruction.Lrem,
		instruction.Land, instruction.Lor, instruction.Lxor, instruction.Lshl, instruction.Lshr, instruction.Lushr,
		instruction.Fadd, instruction.Fsub, instruction.Fmul, instruction.Fdiv, instruction.Frem,
		instruction.Dadd, instruction.Dsub, instruction.Dmul, instruction.Ddiv, instruction.Drem:
		return true
	}
	return false
}

func isNegOp(op instruction.Op) bool {
	switch op {
	case instruction.Ineg, instruction.Lneg, instruction.Fneg, instruction.Dneg:
		return true
	}
	return false
}

func isConvertOp(op instruction.Op) bool {
	switch op {
	case instruction.I2l, instruction.I2f, instruction.I2d, instruction.I2b, instruction.I2c, instruction.I2s,
		instruction.L2i, instruction.L2f, instruction.L2d,
		instruction.F2i, instruction.F2l, instruction.F2d,
		instruction.D2i, instruction.D2l, instruction.D2f:
		return true
	}
	return false
}

func isCompareOp(op instruction.Op) bool {
	switch op {
	case instruction.Lcmp, instruction.Fcmpl, instruction.Fcmpg, instruction.Dcmpl, instruction.Dcmpg:
		return true
	}
	return false
}

func isBranchOp(op instruction.Op) bool {
	switch op {
	case instruction.Ifeq, instruction.Ifne, instruction.Iflt, instruction.Ifge, instruction.Ifgt, instruction.Ifle,
		instruction.IfIcmpeq, instruction.IfIcmpne, instruction.IfIcmplt, instruction.IfIcmpge,
		instruction.IfIcmpgt, instruction.IfIcmple, instruction.IfAcmpeq, instruction.IfAcmpne,
		instruction.Ifnull, instruction.Ifnonnull, instruction.Goto, instruction.GotoW:
		return true
	}
	return false
}
