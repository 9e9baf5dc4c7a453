package interp

import "github.com/mabhi256/jvmgo/internal/instruction"

// loadLocal implements the iload/lload/fload/dload/aload family, including
// their short (*_0..3) forms, which the instruction decoder already folds
// into a plain Var index (internal/instruction/instruction.go).
func (f *Frame) loadLocal(in instruction.Instruction) {
	f.push(f.getLocal(in.Var))
}

// storeLocal implements the istore/lstore/fstore/dstore/astore family.
func (f *Frame) storeLocal(in instruction.Instruction) {
	f.setLocal(in.Var, f.pop())
}
