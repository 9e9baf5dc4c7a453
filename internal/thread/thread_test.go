package thread

import (
	"testing"
	"time"
)

func TestSpawnAndExit(t *testing.T) {
	reg := NewRegistry()
	info := reg.Spawn(nil)

	if got := info.State(); got != Running {
		t.Fatalf("got state %v, want Running", got)
	}
	started, completed := reg.Counts()
	if started != 1 || completed != 0 {
		t.Fatalf("got (%d,%d), want (1,0)", started, completed)
	}

	reg.Exit(info.ID)
	if got := info.State(); got != Stopped {
		t.Fatalf("got state %v, want Stopped", got)
	}
	started, completed = reg.Counts()
	if started != 0 || completed != 1 {
		t.Fatalf("got (%d,%d), want (0,1)", started, completed)
	}
}

func TestSuspendResume(t *testing.T) {
	reg := NewRegistry()
	info := reg.Spawn(nil)

	done := make(chan struct{})
	go func() {
		info.Suspend()
		close(done)
	}()

	// give the goroutine time to actually park
	time.Sleep(20 * time.Millisecond)
	if got := info.State(); got != Suspended {
		t.Fatalf("got state %v, want Suspended", got)
	}

	info.Resume()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Suspend did not return after Resume")
	}
	if got := info.State(); got != Running {
		t.Fatalf("got state %v, want Running", got)
	}
}

func TestInterruptWakesSuspended(t *testing.T) {
	reg := NewRegistry()
	info := reg.Spawn(nil)

	done := make(chan struct{})
	go func() {
		info.Suspend()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	info.Interrupt()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Interrupt did not wake a suspended thread")
	}

	err := info.ObserveRequest()
	if _, ok := err.(*InterruptedError); !ok {
		t.Fatalf("got %T, want *InterruptedError", err)
	}
	if got := info.State(); got != Interrupted {
		t.Fatalf("got state %v, want Interrupted", got)
	}
}

func TestCallStackBookkeeping(t *testing.T) {
	reg := NewRegistry()
	info := reg.Spawn(nil)

	info.PushFrame(CallFrame{Class: "Main", Name: "main", Descriptor: "([Ljava/lang/String;)V"})
	info.PushFrame(CallFrame{Class: "Main", Name: "helper", Descriptor: "()I"})

	stack := info.CallStack()
	if len(stack) != 2 {
		t.Fatalf("got %d frames, want 2", len(stack))
	}
	if stack[1].Name != "helper" {
		t.Fatalf("got top frame %q, want helper", stack[1].Name)
	}

	info.PopFrame()
	stack = info.CallStack()
	if len(stack) != 1 || stack[0].Name != "main" {
		t.Fatalf("got %v after pop, want [main]", stack)
	}
}
