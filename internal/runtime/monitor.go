package runtime

import (
	"fmt"
	"sync"

	"github.com/mabhi256/jvmgo/internal/object"
)

// Monitor is one object's mutual-exclusion primitive: owner+count
// reentrancy (a single held/not-held boolean can't express a thread
// re-entering its own lock), with a condition variable wait queue for
// blocked acquirers.
type Monitor struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64 // thread ID; 0 means unheld (thread IDs are assigned starting at 1)
	count int
}

func newMonitor() *Monitor {
	m := &Monitor{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// IllegalMonitorState is raised unlocking a monitor the caller doesn't hold.
type IllegalMonitorState struct{ msg string }

func (e *IllegalMonitorState) Error() string { return e.msg }

// Lock acquires obj's monitor for threadID, blocking if another thread
// holds it, and incrementing the hold count on reentry.
func (m *Monitor) Lock(threadID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.owner != 0 && m.owner != threadID {
		m.cond.Wait()
	}
	m.owner = threadID
	m.count++
}

// Unlock releases one level of threadID's hold, waking a blocked waiter
// once the count reaches zero. Unlocking a monitor the caller doesn't hold
// is an IllegalMonitorStateException.
func (m *Monitor) Unlock(threadID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != threadID {
		return &IllegalMonitorState{msg: fmt.Sprintf("thread %d does not hold this monitor", threadID)}
	}
	m.count--
	if m.count == 0 {
		m.owner = 0
		m.cond.Signal()
	}
	return nil
}

// monitorFor returns obj's monitor, creating one on first reference. The
// monitor table is guarded by its own mutex, monitorsMu, not by Env's
// reader-writer lock.
func (e *Env) monitorFor(obj *object.Handle) *Monitor {
	e.monitorsMu.Lock()
	defer e.monitorsMu.Unlock()
	m, ok := e.monitors[obj]
	if !ok {
		m = newMonitor()
		e.monitors[obj] = m
	}
	return m
}

// MonitorEnter acquires obj's monitor on behalf of threadID.
func (e *Env) MonitorEnter(obj *object.Handle, threadID int64) {
	e.monitorFor(obj).Lock(threadID)
}

// MonitorExit releases obj's monitor on behalf of threadID.
func (e *Env) MonitorExit(obj *object.Handle, threadID int64) error {
	return e.monitorFor(obj).Unlock(threadID)
}
