package natives

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/object"
)

// registerPrintStream installs java/io/PrintStream's print/println overload
// set against i.Env().Out, the writer System.out is bound to: runtime.Env's
// Out field, not a hardcoded os.Stdout, so tests can swap in a
// bytes.Buffer.
func registerPrintStream(t *Table) {
	for _, sig := range []struct {
		descriptor string
		format     func(i *interp.Interp, v object.Value) string
	}{
		{"(Ljava/lang/String;)V", func(i *interp.Interp, v object.Value) string {
			if v.IsNull() {
				return "null"
			}
			s, _ := interp.JavaStringValue(v.Ref)
			return s
		}},
		{"(I)V", func(i *interp.Interp, v object.Value) string { return fmt.Sprintf("%d", int32(v.Int)) }},
		{"(J)V", func(i *interp.Interp, v object.Value) string { return fmt.Sprintf("%d", v.Int) }},
		{"(Z)V", func(i *interp.Interp, v object.Value) string {
			if v.Int != 0 {
				return "true"
			}
			return "false"
		}},
		{"(C)V", func(i *interp.Interp, v object.Value) string { return string(rune(v.Int)) }},
		{"(D)V", func(i *interp.Interp, v object.Value) string { return fmt.Sprintf("%g", v.Double) }},
	} {
		format := sig.format
		t.Register("java/io/PrintStream", "println", sig.descriptor, func(i *interp.Interp, args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return wrongArgs("PrintStream.println: want receiver+1 arg")
			}
			fmt.Fprintln(i.Env().Out, format(i, args[1]))
			return object.Value{}, nil
		})
		t.Register("java/io/PrintStream", "print", sig.descriptor, func(i *interp.Interp, args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return wrongArgs("PrintStream.print: want receiver+1 arg")
			}
			fmt.Fprint(i.Env().Out, format(i, args[1]))
			return object.Value{}, nil
		})
	}
	t.Register("java/io/PrintStream", "println", "()V", func(i *interp.Interp, args []object.Value) (object.Value, error) {
		fmt.Fprintln(i.Env().Out)
		return object.Value{}, nil
	})
}
