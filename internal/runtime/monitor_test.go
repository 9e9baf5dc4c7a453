package runtime

import (
	"sync"
	"testing"
	"time"

	"github.com/mabhi256/jvmgo/internal/object"
)

// Scenario: a thread can re-enter its own monitor (owner+count reentrancy),
// and unlocking by a non-owner raises IllegalMonitorState.
func TestMonitorReentrant(t *testing.T) {
	env := New(nil, nil)
	obj := object.NewInstance(&object.ClassSchema{ClassName: "test/Obj"})

	env.MonitorEnter(obj, 1)
	env.MonitorEnter(obj, 1) // reentrant: same thread, no deadlock

	if err := env.MonitorExit(obj, 2); err == nil {
		t.Fatalf("expected IllegalMonitorState unlocking from a non-owner thread")
	}

	if err := env.MonitorExit(obj, 1); err != nil {
		t.Fatalf("unexpected error releasing first hold: %v", err)
	}
	if err := env.MonitorExit(obj, 1); err != nil {
		t.Fatalf("unexpected error releasing second hold: %v", err)
	}
	if err := env.MonitorExit(obj, 1); err == nil {
		t.Fatalf("expected IllegalMonitorState releasing an already-unlocked monitor")
	}
}

// Scenario: a second thread blocks until the first releases the monitor,
// then proceeds, exercising a genuine two-goroutine handoff rather than a
// single-thread reentrancy check.
func TestMonitorTwoThreadHandoff(t *testing.T) {
	env := New(nil, nil)
	obj := object.NewInstance(&object.ClassSchema{ClassName: "test/Counter"})

	env.MonitorEnter(obj, 1)

	var mu sync.Mutex
	var order []string
	acquired := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(acquired)
		env.MonitorEnter(obj, 2)
		mu.Lock()
		order = append(order, "thread2")
		mu.Unlock()
		if err := env.MonitorExit(obj, 2); err != nil {
			t.Errorf("thread2 unlock: %v", err)
		}
	}()

	<-acquired
	time.Sleep(20 * time.Millisecond) // give thread 2 a chance to block on Lock

	mu.Lock()
	order = append(order, "thread1")
	mu.Unlock()
	if err := env.MonitorExit(obj, 1); err != nil {
		t.Fatalf("thread1 unlock: %v", err)
	}

	wg.Wait()
	if len(order) != 2 || order[0] != "thread1" || order[1] != "thread2" {
		t.Fatalf("got order %v, want [thread1 thread2]", order)
	}
}
