package interp

import (
	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// branchTaken evaluates a conditional branch's popped operand(s) against
// its opcode. All conditional branches pop their operands regardless of
// outcome.
func branchTaken(f *Frame, op instruction.Op) bool {
	switch op {
	case instruction.Ifeq, instruction.Ifne, instruction.Iflt, instruction.Ifge, instruction.Ifgt, instruction.Ifle:
		v := int32(f.pop().Int)
		return compareToZero(op, v)

	case instruction.IfIcmpeq, instruction.IfIcmpne, instruction.IfIcmplt,
		instruction.IfIcmpge, instruction.IfIcmpgt, instruction.IfIcmple:
		b := int32(f.pop().Int)
		a := int32(f.pop().Int)
		return compareInts(op, a, b)

	case instruction.IfAcmpeq, instruction.IfAcmpne:
		b := f.pop()
		a := f.pop()
		same := a.IsNull() && b.IsNull() || (!a.IsNull() && !b.IsNull() && a.Ref.Same(b.Ref))
		if op == instruction.IfAcmpeq {
			return same
		}
		return !same

	case instruction.Ifnull:
		return f.pop().IsNull()
	case instruction.Ifnonnull:
		return !f.pop().IsNull()

	case instruction.Goto, instruction.GotoW:
		return true
	}
	return false
}

func compareToZero(op instruction.Op, v int32) bool {
	switch op {
	case instruction.Ifeq:
		return v == 0
	case instruction.Ifne:
		return v != 0
	case instruction.Iflt:
		return v < 0
	case instruction.Ifge:
		return v >= 0
	case instruction.Ifgt:
		return v > 0
	case instruction.Ifle:
		return v <= 0
	}
	return false
}

func compareInts(op instruction.Op, a, b int32) bool {
	switch op {
	case instruction.IfIcmpeq:
		return a == b
	case instruction.IfIcmpne:
		return a != b
	case instruction.IfIcmplt:
		return a < b
	case instruction.IfIcmpge:
		return a >= b
	case instruction.IfIcmpgt:
		return a > b
	case instruction.IfIcmple:
		return a <= b
	}
	return false
}

// tableswitchTarget and lookupswitchTarget resolve a switch instruction's
// jump offset for the top-of-stack key, falling back to the default offset.
func tableswitchTarget(in instruction.Instruction, key int32) int32 {
	if key < in.Low || key > in.High {
		return in.Default
	}
	return in.Offsets[key-in.Low]
}

func lookupswitchTarget(in instruction.Instruction, key int32) int32 {
	for _, p := range in.Pairs {
		if p.Match == key {
			return p.Offset
		}
	}
	return in.Default
}

// monitorEnter/monitorExit implement monitorenter/monitorexit: a null
// receiver raises NullPointerException; the reentrant owner+count lock
// itself lives in runtime.Env, shared across every thread's Interp.
func (i *Interp) monitorEnter(f *Frame, threadID int64) error {
	ref := f.pop()
	if ref.IsNull() {
		return &nullPointer{msg: "monitorenter"}
	}
	i.env.MonitorEnter(ref.Ref, threadID)
	return nil
}

func (i *Interp) monitorExit(f *Frame, threadID int64) error {
	ref := f.pop()
	if ref.IsNull() {
		return &nullPointer{msg: "monitorexit"}
	}
	if err := i.env.MonitorExit(ref.Ref, threadID); err != nil {
		return &illegalMonitorState{msg: err.Error()}
	}
	return nil
}

// returnValue implements the ireturn/lreturn/freturn/dreturn/areturn/return
// family; the zero object.Value stands for a void return.
func returnValue(f *Frame, op instruction.Op) object.Value {
	switch op {
	case instruction.Return:
		return object.Value{}
	default:
		return f.pop()
	}
}

func isReturnOp(op instruction.Op) bool {
	switch op {
	case instruction.Ireturn, instruction.Lreturn, instruction.Freturn,
		instruction.Dreturn, instruction.Areturn, instruction.Return:
		return true
	}
	return false
}
