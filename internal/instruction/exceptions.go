package instruction

// RuntimeExceptions returns the JVM exception class names the interpreter
// may raise executing op. It is advisory: the interpreter itself decides
// exceptions from actual runtime state, not from this table.
func RuntimeExceptions(op Op) []string {
	switch op {
	case Iaload, Laload, Faload, Daload, Baload, Caload, Saload:
		return []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}
	case Aaload:
		return []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}
	case Iastore, Lastore, Fastore, Dastore, Bastore, Castore, Sastore:
		return []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}
	case Aastore:
		return []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException", "java/lang/ArrayStoreException"}
	case Anewarray, Newarray, Multianewarray:
		return []string{"java/lang/NegativeArraySizeException"}
	case Ireturn, Lreturn, Freturn, Dreturn, Areturn, Return:
		return []string{"java/lang/IllegalMonitorStateException"}
	case Monitorenter, Monitorexit:
		return []string{"java/lang/NullPointerException", "java/lang/IllegalMonitorStateException"}
	case Idiv, Irem, Ldiv, Lrem:
		return []string{"java/lang/ArithmeticException"}
	case Checkcast:
		return []string{"java/lang/ClassCastException"}
	case Getfield, Putfield, Invokevirtual, Invokespecial, Invokeinterface, Arraylength, Athrow:
		return []string{"java/lang/NullPointerException"}
	default:
		return nil
	}
}
