// Package thread is the Thread Manager: a process-wide registry of Java
// threads, their state machine, and their pending suspend/interrupt/throw
// requests. It owns no bytecode-execution logic itself — the
// interpreter calls back into it, once per instruction, to observe whatever
// request is pending for the calling thread.
//
// The registry is dual-keyed (thread ID and java object handle) with
// active/completed partitioning, guarded by a single reader-writer lock so
// a live inspector can list threads without blocking execution.
package thread

import (
	"fmt"
	"sync"

	"github.com/mabhi256/jvmgo/internal/object"
)

// State is a Java thread's position in the thread state machine.
type State int

const (
	Running State = iota
	Suspended
	Stopped
	Interrupted
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Suspended:
		return "SUSPENDED"
	case Stopped:
		return "STOPPED"
	case Interrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// requestKind is the pending_request sum type: None, Park, Interrupt, or
// Throw(handle).
type requestKind int

const (
	reqNone requestKind = iota
	reqPark
	reqInterrupt
	reqThrow
)

// CallFrame is one call-stack bookkeeping entry: the receiver (nil for a
// static call) plus the {class, name, descriptor} triple being executed.
type CallFrame struct {
	Receiver   *object.Handle
	Class      string
	Name       string
	Descriptor string
}

// Info is one thread's {handle, state, pending request, native identity,
// call stack} record.
type Info struct {
	mu sync.Mutex

	ID         int64
	JavaHandle *object.Handle
	state      State

	reqKind  requestKind
	reqThrow *object.Handle

	parkCond *sync.Cond
	callStack []CallFrame
}

// Registry is the process-wide thread table. Monitors live alongside it in
// runtime.Env (see internal/runtime/monitor.go) since the interpreter needs
// monitor primitives before a Thread Manager is necessarily wired in.
type Registry struct {
	mu sync.RWMutex

	byID     map[int64]*Info
	byHandle map[*object.Handle]*Info

	nextID int64

	startedCount   int
	completedCount int
}

// NewRegistry creates an empty thread registry. Thread 1 is conventionally
// reserved for the VM's initial (main) thread; Spawn still assigns it
// explicitly rather than special-casing ID 1 here.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[int64]*Info),
		byHandle: make(map[*object.Handle]*Info),
	}
}

// Spawn registers a new thread, backed by javaHandle (the java.lang.Thread
// instance; nil for the VM-internal main thread), and returns its Info.
func (r *Registry) Spawn(javaHandle *object.Handle) *Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	info := &Info{ID: r.nextID, JavaHandle: javaHandle, state: Running}
	info.parkCond = sync.NewCond(&info.mu)

	r.byID[info.ID] = info
	if javaHandle != nil {
		r.byHandle[javaHandle] = info
	}
	r.startedCount++
	return info
}

// Lookup finds a thread by ID.
func (r *Registry) Lookup(id int64) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byID[id]
	return info, ok
}

// LookupByHandle finds the Info for a live java.lang.Thread instance.
func (r *Registry) LookupByHandle(h *object.Handle) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byHandle[h]
	return info, ok
}

// Active lists every thread not yet Stopped.
func (r *Registry) Active() []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Info
	for _, info := range r.byID {
		if info.State() != Stopped {
			out = append(out, info)
		}
	}
	return out
}

// Exit transitions a thread to Stopped and moves it from the started to the
// completed count, on a normal return from its top frame.
func (r *Registry) Exit(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.byID[id]
	if !ok {
		return
	}
	info.mu.Lock()
	already := info.state == Stopped
	info.state = Stopped
	info.mu.Unlock()
	if !already {
		r.startedCount--
		r.completedCount++
	}
}

// Counts returns the current started/completed totals, for the debugger's
// summary view.
func (r *Registry) Counts() (started, completed int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.startedCount, r.completedCount
}

// State reads a thread's current state.
func (info *Info) State() State {
	info.mu.Lock()
	defer info.mu.Unlock()
	return info.state
}

// PushFrame records an invocation for call-stack bookkeeping: on every
// invoke the manager pushes the receiver and the {class,name,descriptor}
// being entered.
func (info *Info) PushFrame(f CallFrame) {
	info.mu.Lock()
	defer info.mu.Unlock()
	info.callStack = append(info.callStack, f)
}

// PopFrame removes the most recent call-stack entry, on return.
func (info *Info) PopFrame() {
	info.mu.Lock()
	defer info.mu.Unlock()
	if len(info.callStack) > 0 {
		info.callStack = info.callStack[:len(info.callStack)-1]
	}
}

// CallStack returns a snapshot of the thread's current call stack, deepest
// frame last, for stack-depth queries and the debugger TUI.
func (info *Info) CallStack() []CallFrame {
	info.mu.Lock()
	defer info.mu.Unlock()
	out := make([]CallFrame, len(info.callStack))
	copy(out, info.callStack)
	return out
}

// Suspend marks this thread Suspended and blocks the calling goroutine
// (which must be the thread itself) right away, until Resume, Interrupt or
// Throw sets it Running again. It queues no park request: ObserveRequest
// handles only interrupt and throw requests, and nothing in the
// AfterInstruction hook calls Suspend.
func (info *Info) Suspend() {
	info.mu.Lock()
	defer info.mu.Unlock()
	info.state = Suspended
	for info.state == Suspended {
		info.parkCond.Wait()
	}
}

// Resume wakes a suspended thread back to Running.
func (info *Info) Resume() {
	info.mu.Lock()
	defer info.mu.Unlock()
	if info.state == Suspended {
		info.state = Running
		info.parkCond.Broadcast()
	}
}

// Interrupt sets pending_request = Interrupt and, if the thread is parked,
// wakes it so it can observe the request.
func (info *Info) Interrupt() {
	info.mu.Lock()
	defer info.mu.Unlock()
	info.reqKind = reqInterrupt
	if info.state == Suspended {
		info.state = Running
		info.parkCond.Broadcast()
	}
}

// Throw sets pending_request = Throw(h): the next AfterInstruction
// observation unwinds the thread's current frame with h as the thrown
// exception.
func (info *Info) Throw(h *object.Handle) {
	info.mu.Lock()
	defer info.mu.Unlock()
	info.reqKind = reqThrow
	info.reqThrow = h
	if info.state == Suspended {
		info.state = Running
		info.parkCond.Broadcast()
	}
}

// InterruptedError is one of the two pending-request outcomes
// ObserveRequest can hand back to the interpreter's hook (the other,
// AsyncThrow, carries an explicit Throwable instead).
type InterruptedError struct{ threadID int64 }

func (e *InterruptedError) Error() string { return fmt.Sprintf("thread %d interrupted", e.threadID) }

// AsyncThrow carries a pending Throw(h) request out to the interpreter,
// which unwinds the current frame exactly as if athrow had executed it.
type AsyncThrow struct{ Object *object.Handle }

func (e *AsyncThrow) Error() string { return "asynchronous throw requested" }

// ObserveRequest is the per-instruction observation point: after every
// instruction, the interpreter observes the current thread's pending
// request. A non-nil return unwinds the current frame (interp.Interp's run
// loop treats any error the same way, whether from a failed instruction or
// this hook).
func (info *Info) ObserveRequest() error {
	info.mu.Lock()
	defer info.mu.Unlock()

	switch info.reqKind {
	case reqInterrupt:
		info.reqKind = reqNone
		info.state = Interrupted
		return &InterruptedError{threadID: info.ID}
	case reqThrow:
		info.reqKind = reqNone
		h := info.reqThrow
		info.reqThrow = nil
		return &AsyncThrow{Object: h}
	}
	return nil
}
