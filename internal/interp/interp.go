package interp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/object"
	"github.com/mabhi256/jvmgo/internal/runtime"
	"github.com/mabhi256/jvmgo/internal/thread"
)

// maxFrameDepth bounds recursion the way daimatz-gojvm/pkg/vm.go's
// maxFrameDepth does: past it Invoke returns a "StackOverflowError" error
// instead of crashing the host process. runtimeExceptionClass has no case
// for that error, so the program sees it thrown as java/lang/Error; no
// java/lang/StackOverflowError object is built.
const maxFrameDepth = 2048

// NativeTable is the subset of the native shim (internal/natives) the
// interpreter consults before falling back to bytecode: looked up by
// "<class>/<name><descriptor>".
type NativeTable interface {
	Lookup(key string) (NativeFunc, bool)
}

// NativeFunc runs a native method given its bound args (args[0] is the
// receiver for an instance method) and the interpreter for re-entrant
// allocation/invocation.
type NativeFunc func(i *Interp, args []object.Value) (object.Value, error)

// AfterInstruction is the Thread Manager's post-instruction hook: after
// every instruction, the interpreter calls into the Thread Manager to
// observe any pending state request. A non-nil return unwinds the current
// frame as a thrown exception (asynchronous throw/interrupt delivery).
type AfterInstruction func(threadID int64) error

// Interp is the bytecode evaluator. It holds no per-thread state, only the
// shared runtime environment, the native table, the post-instruction hook,
// an optional thread registry and a logger, so each Java thread's goroutine drives its own call stack
// through the same Interp value, one host goroutine per Java thread.
type Interp struct {
	env     *runtime.Env
	natives NativeTable
	hook    AfterInstruction
	threads *thread.Registry
	log     *logrus.Entry
}

// New builds an interpreter bound to env. natives and hook may both be nil
// (no native methods resolvable, no thread-manager observation point),
// enough to run a program without a Thread Manager or Native Shim wired in.
func New(env *runtime.Env, natives NativeTable, hook AfterInstruction) *Interp {
	log := logrus.NewEntry(env.Log).WithField("component", "interp")
	return &Interp{env: env, natives: natives, hook: hook, log: log}
}

// WithThreads attaches a Thread Manager registry for call-stack bookkeeping:
// on invoke the manager pushes the receiver and {class,name,descriptor}; on
// return it pops. Optional — nil (the New default) is enough for
// single-threaded execution.
func (i *Interp) WithThreads(r *thread.Registry) *Interp {
	i.threads = r
	return i
}

// JavaException carries a thrown Handle up through Go's error-return
// machinery so athrow/invoke propagation and exception-table search can
// tell a VM-level throw apart from a Go-level failure (malformed class
// file, native link error, ...).
type JavaException struct {
	Object *object.Handle
}

func (e *JavaException) Error() string {
	className := "?"
	if e.Object != nil {
		className = e.Object.Schema().ClassName
	}
	return fmt.Sprintf("uncaught exception: %s", className)
}

// classCastException and illegalMonitorState round out the Go-level
// runtime-error family materializeException translates into thrown
// Throwable objects.
type classCastException struct{ msg string }

func (e *classCastException) Error() string { return e.msg }

// illegalMonitorState wraps runtime.IllegalMonitorState so this package's
// runtimeExceptionClass switch doesn't need to import runtime's type into
// its case list directly (kept local for symmetry with the other runtime
// error types defined alongside their opcodes).
type illegalMonitorState struct{ msg string }

func (e *illegalMonitorState) Error() string { return e.msg }

// ExecuteMain resolves and runs mainClass's public static void main(String[])
// with a null argument array on thread 1.
func (i *Interp) ExecuteMain(mainClass string) error {
	cls, err := i.env.Class(mainClass)
	if err != nil {
		return err
	}
	method := cls.FindMethod("main", "([Ljava/lang/String;)V")
	if method == nil {
		return fmt.Errorf("interp: %s has no main([Ljava/lang/String;)V", mainClass)
	}
	_, err = i.Invoke(cls, method, []object.Value{object.RefValue(nil)}, 1, 0)
	return err
}

// Invoke executes method with args already bound as its initial locals
// (args[0] is the receiver for an instance method, by convention of the
// caller), on behalf of threadID, at call-stack depth, returning its
// return value.
func (i *Interp) Invoke(cls *classfile.Class, method *classfile.Member, args []object.Value, threadID int64, depth int) (object.Value, error) {
	if method.AccessFlags&classfile.AccNative != 0 {
		return i.invokeNative(cls, method, args)
	}
	if method.AccessFlags&classfile.AccAbstract != 0 {
		return object.Value{}, fmt.Errorf("interp: AbstractMethodError: %s.%s%s", classNameOf(cls), method.Name, method.Descriptor)
	}
	if depth > maxFrameDepth {
		return object.Value{}, fmt.Errorf("interp: StackOverflowError in %s.%s%s", classNameOf(cls), method.Name, method.Descriptor)
	}

	frame, err := NewFrame(cls, method)
	if err != nil {
		return object.Value{}, err
	}
	for idx, a := range args {
		frame.setLocal(idx, a)
	}

	if i.threads != nil {
		if info, ok := i.threads.Lookup(threadID); ok {
			var receiver *object.Handle
			if method.AccessFlags&classfile.AccStatic == 0 && len(args) > 0 {
				receiver = args[0].Ref
			}
			info.PushFrame(thread.CallFrame{
				Receiver:   receiver,
				Class:      classNameOf(cls),
				Name:       method.Name,
				Descriptor: method.Descriptor,
			})
			defer info.PopFrame()
		}
	}

	return i.run(frame, threadID, depth)
}

func (i *Interp) invokeNative(cls *classfile.Class, method *classfile.Member, args []object.Value) (object.Value, error) {
	if i.natives == nil {
		return object.Value{}, fmt.Errorf("interp: UnsatisfiedLinkError: %s.%s%s", classNameOf(cls), method.Name, method.Descriptor)
	}
	key := classNameOf(cls) + "/" + method.Name + method.Descriptor
	fn, ok := i.natives.Lookup(key)
	if !ok {
		return object.Value{}, fmt.Errorf("interp: UnsatisfiedLinkError: %s", key)
	}
	return fn(i, args)
}

func classNameOf(cls *classfile.Class) string {
	name, _ := cls.Name()
	return name
}

// run is the per-frame fetch/execute loop (decode already happened once in
// NewFrame). On an instruction error it checks whether this frame's
// exception table catches it; if not, the error propagates to Invoke's
// caller, whose own frame tries the same search.
func (i *Interp) run(f *Frame, threadID int64, depth int) (object.Value, error) {
	for f.ip < len(f.Instrs) {
		in := f.Instrs[f.ip]
		f.ip++

		ret, hasReturn, err := i.step(f, in, threadID, depth)

		if err == nil && i.hook != nil {
			err = i.hook(threadID)
		}

		if err != nil {
			javaExc, isJavaExc := err.(*JavaException)
			if !isJavaExc {
				javaExc, err = i.materializeException(err)
				if err != nil {
					return object.Value{}, err
				}
			}
			handlerIx, ok := i.findHandler(f, in.Pos, javaExc.Object)
			if ok {
				f.Reset(handlerIx)
				f.push(object.RefValue(javaExc.Object))
				continue
			}
			return object.Value{}, javaExc
		}
		if hasReturn {
			return ret, nil
		}
	}
	// Falling off the end of the bytecode is an implicit void return.
	return object.Value{}, nil
}

// findHandler searches f's exception table for the first range covering pc
// whose catch type is an ancestor of (or equal to, or catch-all for) exc's
// class.
func (i *Interp) findHandler(f *Frame, pc int, exc *object.Handle) (int, bool) {
	for _, h := range f.Method.Code.ExceptionTable {
		if !h.Covers(pc) {
			continue
		}
		if h.CatchType == 0 {
			return f.IndexAt(int(h.HandlerPC))
		}
		catchClass, err := f.Class.Pool.AsClassName(h.CatchType)
		if err != nil {
			continue
		}
		if i.isInstanceOf(exc.Schema().ClassName, catchClass) {
			return f.IndexAt(int(h.HandlerPC))
		}
	}
	return 0, false
}

// isInstanceOf walks className's superclass chain (and, recursively, each
// ancestor's declared interfaces) looking for target: the instanceof/
// checkcast/catch-match primitive.
func (i *Interp) isInstanceOf(className, target string) bool {
	if className == target {
		return true
	}
	cls, err := i.env.Class(className)
	if err != nil {
		return false
	}
	if ifaces, err := cls.InterfaceNames(); err == nil {
		for _, iface := range ifaces {
			if i.isInstanceOf(iface, target) {
				return true
			}
		}
	}
	super, err := cls.SuperName()
	if err != nil || super == "" {
		return false
	}
	return i.isInstanceOf(super, target)
}

// materializeException builds a Throwable-shaped object for a Go-level
// runtime error (arithmeticError, nullPointer, ...), wrapping it as a
// JavaException so run's catch-dispatch doesn't need to special-case Go
// error types versus thrown Java objects. If the exception class isn't
// itself loadable (a minimal test class path commonly omits java/lang/*),
// a bare field-less schema stands in so the VM can still unwind and the
// catch/getClass().name() machinery still works.
func (i *Interp) materializeException(err error) (*JavaException, error) {
	className := runtimeExceptionClass(err)
	schema, loadErr := i.env.InstanceSchema(className)
	if loadErr != nil {
		schema = &object.ClassSchema{ClassName: className}
	}
	return &JavaException{Object: object.NewInstance(schema)}, nil
}

// runtimeExceptionClass maps a Go-level runtime error to the JVM exception
// class name it corresponds to.
func runtimeExceptionClass(err error) string {
	switch err.(type) {
	case *arithmeticError:
		return "java/lang/ArithmeticException"
	case *nullPointer:
		return "java/lang/NullPointerException"
	case *indexOutOfBounds:
		return "java/lang/ArrayIndexOutOfBoundsException"
	case *negativeArraySize:
		return "java/lang/NegativeArraySizeException"
	case *object.ArrayStoreException, *object.TypeMismatch:
		return "java/lang/ArrayStoreException"
	case *classCastException:
		return "java/lang/ClassCastException"
	case *illegalMonitorState:
		return "java/lang/IllegalMonitorStateException"
	case *thread.InterruptedError:
		return "java/lang/InterruptedException"
	default:
		return "java/lang/Error"
	}
}

// GetClassName exposes getClass().name() without building a full
// java/lang/Class object, used by native String/Object implementations.
func GetClassName(h *object.Handle) string {
	return h.Schema().ClassName
}

// Env exposes the shared runtime environment to the native shim
// (internal/natives, §4.J), which needs the schema registry (to build
// array/instance schemas for StringBuilder/HashMap-style natives) and the
// System.out writer.
func (i *Interp) Env() *runtime.Env { return i.env }
