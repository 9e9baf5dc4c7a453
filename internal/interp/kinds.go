package interp

import "github.com/mabhi256/jvmgo/internal/descriptor"

// Short aliases for the descriptor kinds opcodes tag their operands with,
// used throughout the arithmetic/conversion/array dispatch tables below.
const (
	iKind = descriptor.KindInt
	lKind = descriptor.KindLong
	fKind = descriptor.KindFloat
	dKind = descriptor.KindDouble
)
