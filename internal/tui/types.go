package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/mabhi256/jvmgo/internal/thread"
)

// Model is the debugger's bubbletea state: a snapshot of the thread
// registry refreshed on a timer, plus the usual tab/scroll UI state. It
// never drives the interpreter directly (§5's read-only attachment rule) —
// RunDebugger starts ExecuteMain on its own goroutine and the Model only
// polls threads.Registry through RLock-guarded reads.
type Model struct {
	threads *thread.Registry
	running bool
	err     error

	currentTab TabType
	width      int
	height     int
	selected   int

	keys KeyMap
}

type TabType int

const (
	ThreadsTab TabType = iota
	StackTab
)

type KeyMap struct {
	Tab1  key.Binding
	Tab2  key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

func k(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1: k([]string{"1"}, "1", "threads"),
		Tab2: k([]string{"2"}, "2", "call stack"),
		Up:   k([]string{"up", "k"}, "↑/k", "up"),
		Down: k([]string{"down", "j"}, "↓/j", "down"),
		Quit: k([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}
