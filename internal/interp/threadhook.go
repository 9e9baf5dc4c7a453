package interp

import "github.com/mabhi256/jvmgo/internal/thread"

// ThreadManagerHook adapts a thread.Registry into the AfterInstruction
// callback interp.New accepts: the per-instruction observation point the
// interpreter calls into the Thread Manager through. An observed Interrupt
// surfaces as a plain Go error (materialized
// into a java/lang/InterruptedException-shaped Throwable the same way any
// other runtime error is, via runtimeExceptionClass); an observed
// Throw(h) surfaces directly as the JavaException run's catch-dispatch
// already knows how to unwind.
func ThreadManagerHook(reg *thread.Registry) AfterInstruction {
	return func(threadID int64) error {
		info, ok := reg.Lookup(threadID)
		if !ok {
			return nil
		}
		err := info.ObserveRequest()
		if err == nil {
			return nil
		}
		if async, ok := err.(*thread.AsyncThrow); ok {
			return &JavaException{Object: async.Object}
		}
		return err
	}
}
