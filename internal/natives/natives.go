// Package natives is the Native Interface Shim: a table of
// host-implemented methods keyed by "<class>/<name><descriptor>", consulted
// by the interpreter before it would otherwise fail on a NATIVE-flagged
// method with no Code attribute. Implementations get the interpreter
// itself (for re-entrant allocation — building a java/lang/String, say)
// rather than a narrower capability object, and work directly against
// object.Handle/Value for the handle-based object representation.
package natives

import (
	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/object"
)

// Func is interp.NativeFunc's shape, restated locally so this package
// doesn't need to import interp just to name the type at every call site.
type Func = interp.NativeFunc

// Table is a simple map-backed implementation of interp.NativeTable.
type Table struct {
	fns map[string]Func
}

// NewTable builds a table pre-populated with every built-in native this
// package defines (System, Object, Math, PrintStream, StringBuilder).
func NewTable() *Table {
	t := &Table{fns: make(map[string]Func)}
	registerSystem(t)
	registerObject(t)
	registerMath(t)
	registerPrintStream(t)
	registerStringBuilder(t)
	return t
}

// Lookup implements interp.NativeTable.
func (t *Table) Lookup(key string) (Func, bool) {
	fn, ok := t.fns[key]
	return fn, ok
}

// Register installs fn under "<class>/<name><descriptor>", the native key
// convention this table looks methods up by. Exposed so a host embedding
// this VM can add natives beyond the built-in set without forking the
// package.
func (t *Table) Register(class, name, descriptor string, fn Func) {
	t.fns[class+"/"+name+descriptor] = fn
}

// argError reports an argument-shape mismatch the table's own registration
// should never produce — a defensive backstop, not a user-reachable error.
type argError struct{ msg string }

func (e *argError) Error() string { return e.msg }

func wrongArgs(msg string) (object.Value, error) {
	return object.Value{}, &argError{msg: msg}
}
