package interp

import "github.com/mabhi256/jvmgo/internal/object"

// pop discards one category-1 value; pop2 discards two category units (two
// category-1 values, or one long/double).
func (f *Frame) opPop()  { f.pop() }
func (f *Frame) opPop2() { f.popCategoryUnits() }

func (f *Frame) opDup()   { f.push(f.peek(0)) }
func (f *Frame) opSwap()  { a := f.pop(); b := f.pop(); f.push(a); f.push(b) }

func (f *Frame) opDupX1() {
	a := f.pop()
	b := f.pop()
	f.push(a)
	f.push(b)
	f.push(a)
}

func (f *Frame) opDupX2() {
	a := f.pop()
	b := f.pop()
	if isCategory2(b) {
		f.push(a)
		f.push(b)
		f.push(a)
		return
	}
	c := f.pop()
	f.push(a)
	f.push(c)
	f.push(b)
	f.push(a)
}

func (f *Frame) opDup2() {
	top := f.peek(0)
	if isCategory2(top) {
		f.push(top)
		return
	}
	b := f.peek(1)
	a := f.peek(0)
	f.push(b)
	f.push(a)
}

// opDup2X1 and opDup2X2 follow the JVM spec's category-aware forms of
// dup2_x1/dup2_x2 directly (JVM spec §6.5), rather than a generic
// slice-rotate, since the generic form silently mistreats a long/double
// operand as two category-1 units.
func (f *Frame) opDup2X1() {
	g1 := f.popCategoryUnits() // value1 [, value2]
	v3 := f.pop()
	pushReversed(f, g1)
	f.push(v3)
	pushReversed(f, g1)
}

func (f *Frame) opDup2X2() {
	g1 := f.popCategoryUnits()
	g2 := f.popCategoryUnits()
	pushReversed(f, g1)
	pushReversed(f, g2)
	pushReversed(f, g1)
}

// popCategoryUnits pops engine slots off the top of the stack until exactly
// two JVM-visible category units have been consumed (one long/double slot,
// or two category-1 slots), returning them in pop order (index 0 is the
// value that was on top).
func (f *Frame) popCategoryUnits() []object.Value {
	top := f.pop()
	if isCategory2(top) {
		return []object.Value{top}
	}
	return []object.Value{top, f.pop()}
}

// pushReversed restores a popCategoryUnits-ordered group to the stack in
// its original bottom-to-top relative order.
func pushReversed(f *Frame, g []object.Value) {
	for i := len(g) - 1; i >= 0; i-- {
		f.push(g[i])
	}
}
