// Package interp is the bytecode interpreter: a Frame per invocation holding
// locals and an operand stack, dispatching decoded instructions one at a
// time over the full opcode set.
package interp

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/instruction"
	"github.com/mabhi256/jvmgo/internal/object"
)

// Frame is one method activation: locals sized to max_locals, an operand
// stack with capacity max_stack, and the decoded instruction list with a
// byte-offset index for O(1) branch re-location (built once up front into a
// lookup table instead of walking the decoded list on every branch taken).
type Frame struct {
	Class  *classfile.Class
	Method *classfile.Member

	Locals []object.Value
	stack  []object.Value
	sp     int

	Instrs  []instruction.Instruction
	posToIx map[int]int
	ip      int // index into Instrs of the instruction about to execute
}

// NewFrame builds a frame for method, decoding its Code attribute's
// bytecode once up front.
func NewFrame(class *classfile.Class, method *classfile.Member) (*Frame, error) {
	if method.Code == nil {
		return nil, fmt.Errorf("interp: %s has no Code attribute", method.Name)
	}
	instrs, err := instruction.Decode(method.Code.Instructions)
	if err != nil {
		return nil, fmt.Errorf("interp: decoding %s%s: %w", method.Name, method.Descriptor, err)
	}
	posToIx := make(map[int]int, len(instrs))
	for i, in := range instrs {
		posToIx[in.Pos] = i
	}
	return &Frame{
		Class:   class,
		Method:  method,
		Locals:  make([]object.Value, method.Code.MaxLocals),
		stack:   make([]object.Value, method.Code.MaxStack),
		Instrs:  instrs,
		posToIx: posToIx,
	}, nil
}

// Reset clears the operand stack and moves the frame to instruction index
// ix, used when an exception handler takes over: the caller then pushes the
// exception handle, so the stack holds exactly that.
func (f *Frame) Reset(ix int) {
	f.sp = 0
	f.ip = ix
}

// IndexAt resolves an absolute byte position to its instruction index.
func (f *Frame) IndexAt(pos int) (int, bool) {
	ix, ok := f.posToIx[pos]
	return ix, ok
}

func (f *Frame) push(v object.Value) {
	if f.sp >= len(f.stack) {
		panic(fmt.Sprintf("interp: operand stack overflow in %s%s", f.Method.Name, f.Method.Descriptor))
	}
	f.stack[f.sp] = v
	f.sp++
}

func (f *Frame) pop() object.Value {
	if f.sp <= 0 {
		panic(fmt.Sprintf("interp: operand stack underflow in %s%s", f.Method.Name, f.Method.Descriptor))
	}
	f.sp--
	return f.stack[f.sp]
}

// peek looks at the nth value from the top without popping (0 is the top).
func (f *Frame) peek(n int) object.Value { return f.stack[f.sp-1-n] }

func (f *Frame) getLocal(i int) object.Value { return f.Locals[i] }
func (f *Frame) setLocal(i int, v object.Value) { f.Locals[i] = v }

// isCategory2 reports whether v occupies two JVM-visible slots (long,
// double), even though the engine's own stack/locals arrays give it one Go
// slot either way.
func isCategory2(v object.Value) bool {
	return v.Kind == descriptor.KindLong || v.Kind == descriptor.KindDouble
}
