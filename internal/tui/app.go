package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/jvmgo/internal/thread"
)

// tickMsg drives the debugger's poll loop: a fixed interval re-read of the
// thread registry, since the Model never drives the interpreter itself.
type tickMsg time.Time

// execDoneMsg reports ExecuteMain's outcome once the background goroutine
// RunDebugger started finishes.
type execDoneMsg struct{ err error }

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(threads *thread.Registry) *Model {
	return &Model{
		threads:    threads,
		running:    true,
		currentTab: ThreadsTab,
		keys:       DefaultKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case execDoneMsg:
		m.running = false
		m.err = msg.err
		return m, nil

	case tickMsg:
		if !m.running {
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.currentTab = ThreadsTab
		case "2":
			m.currentTab = StackTab
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			active := m.threads.Active()
			if m.selected < len(active)-1 {
				m.selected++
			}
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.currentTab {
	case ThreadsTab:
		content = m.renderThreads()
	case StackTab:
		content = m.renderSelectedStack()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), content, m.renderStatus())
}

func (m *Model) activeSorted() []*thread.Info {
	active := m.threads.Active()
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

func (m *Model) renderHeader() string {
	tabs := []string{}
	tabNames := []string{"Threads", "Call Stack"}
	for i, name := range tabNames {
		style := TabInactiveStyle
		indicator := " "
		if TabType(i) == m.currentTab {
			style = TabActiveStyle
			indicator = "*"
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s %s [%d]", indicator, name, i+1)))
	}
	border := strings.Repeat("-", m.width)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(tabs, "  "), border)
}

func (m *Model) renderStatus() string {
	started, completed := m.threads.Counts()
	state := GoodStyle.Render("running")
	if !m.running {
		state = MutedStyle.Render("finished")
		if m.err != nil {
			state = CriticalStyle.Render("error: " + m.err.Error())
		}
	}
	return HelpBarStyle.Width(m.width).Render(
		fmt.Sprintf("%s  started=%d completed=%d  q: quit", state, started, completed))
}

func (m *Model) renderThreads() string {
	active := m.activeSorted()
	if len(active) == 0 {
		return TextStyle.Render("no active threads")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Threads"))
	b.WriteString("\n")
	for i, info := range active {
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		depth := len(info.CallStack())
		line := fmt.Sprintf("%sthread %d  %-11s  %d frame(s)", marker, info.ID, info.State(), depth)
		if i == m.selected {
			line = InfoStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return BoxStyle.Render(b.String())
}

func (m *Model) renderSelectedStack() string {
	active := m.activeSorted()
	if len(active) == 0 {
		return TextStyle.Render("no active threads")
	}
	if m.selected >= len(active) {
		m.selected = len(active) - 1
	}
	info := active[m.selected]
	frames := info.CallStack()

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Call stack: thread %d", info.ID)))
	b.WriteString("\n")
	if len(frames) == 0 {
		b.WriteString(MutedStyle.Render("(empty)"))
	}
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		recv := "static"
		if f.Receiver != nil {
			recv = f.Receiver.Schema().ClassName
		}
		sig := fmt.Sprintf("%s.%s%s  (receiver: %s)", f.Class, f.Name, f.Descriptor, recv)
		if m.width > 0 {
			sig = TruncateString(sig, m.width-8)
		}
		b.WriteString(fmt.Sprintf("  #%d  %s\n", len(frames)-1-i, sig))
	}
	return BoxStyle.Render(b.String())
}

// RunDebugger runs execute (the program's main) on its own goroutine,
// then launches the TUI as a live, read-only view over the same registry.
func RunDebugger(threads *thread.Registry, execute func() error) error {
	model := initialModel(threads)

	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		err := execute()
		program.Send(execDoneMsg{err: err})
	}()

	_, err := program.Run()
	return err
}
