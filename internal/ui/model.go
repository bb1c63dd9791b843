package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sys/unix"

	"github.com/caffeine8/caffeine8/internal/status"
)

// toggleSettleDelay gives the daemon time to process a toggle signal before
// the panel re-reads the status file.
const toggleSettleDelay = 300 * time.Millisecond

// keyMap defines the panel keybindings.
type keyMap struct {
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Refresh, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle inhibitors"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh status"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+d", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// killFunc sends a signal to a process; injectable for tests.
type killFunc func(pid int, sig unix.Signal) error

type statusMsg struct {
	snapshot status.Snapshot
	haveData bool
}

type watchMsg struct{}

type tickMsg time.Time

type toggledMsg struct {
	activating bool
	err        error
}

// Model is the Bubble Tea model for the status panel.
type Model struct {
	version    string
	targetPID  int
	statusPath string

	snapshot   status.Snapshot
	haveData   bool
	lastAction string
	width      int
	height     int

	help  help.Model
	keys  keyMap
	theme *Theme

	watch <-chan struct{}
	kill  killFunc
}

// NewModel creates the status panel model. watch may be nil, in which case
// only the refresh tick keeps the panel current.
func NewModel(version string, targetPID int, statusPath string, watch <-chan struct{}) Model {
	return Model{
		version:    version,
		targetPID:  targetPID,
		statusPath: statusPath,
		snapshot:   status.Placeholder(),
		help:       help.New(),
		keys:       defaultKeyMap(),
		theme:      DefaultTheme(),
		watch:      watch,
		kill:       unix.Kill,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.readStatus(), m.waitForChange(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.snapshot = msg.snapshot
		m.haveData = msg.haveData
		return m, nil

	case watchMsg:
		return m, tea.Batch(m.readStatus(), m.waitForChange())

	case tickMsg:
		return m, tea.Batch(m.readStatus(), tickCmd())

	case toggledMsg:
		if msg.err != nil {
			m.lastAction = "Failed to signal caffeine8 process."
			return m, nil
		}
		if msg.activating {
			m.lastAction = "Toggle requested: acquire inhibitors."
		} else {
			m.lastAction = "Toggle requested: release inhibitors."
		}
		return m, tea.Tick(toggleSettleDelay, func(time.Time) tea.Msg {
			return tickMsg(time.Time{})
		})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.lastAction = "Status refreshed."
			return m, m.readStatus()
		case key.Matches(msg, m.keys.Toggle):
			if m.targetPID <= 0 {
				m.lastAction = "No active caffeine8 process."
				return m, nil
			}
			return m, m.toggle()
		}
	}
	return m, nil
}

func (m Model) View() string {
	t := m.theme

	lines := []string{
		t.Title.Render("caffeine8") + t.Subtle.Render(" v"+m.version),
		"",
		m.row("Target PID", pidString(m.targetPID)),
	}

	if m.haveData {
		active := t.Inactive.Render("inactive")
		if m.snapshot.Active {
			active = t.Active.Render("ACTIVE")
		}
		debug := "disabled"
		if m.snapshot.Debug {
			debug = "enabled"
		}
		lines = append(lines,
			m.row("Loop PID", pidString(m.snapshot.PID)),
			t.Label.Render("Inhibitors: ")+active,
			m.row("Debug mode", debug),
			m.row("Status", m.snapshot.Message),
		)
	} else {
		lines = append(lines, m.row("Status", m.snapshot.Message))
	}

	if m.lastAction != "" {
		lines = append(lines, "", t.Warning.Render("Last action: "+m.lastAction))
	}
	lines = append(lines, "", m.help.View(m.keys))

	var body string
	for i, line := range lines {
		if i > 0 {
			body += "\n"
		}
		body += line
	}
	return t.Box.Render(body)
}

func (m Model) row(label, value string) string {
	return m.theme.Label.Render(label+": ") + m.theme.Value.Render(value)
}

func pidString(pid int) string {
	if pid <= 0 {
		return "N/A"
	}
	return strconv.Itoa(pid)
}

// readStatus re-reads the status file.
func (m Model) readStatus() tea.Cmd {
	path := m.statusPath
	return func() tea.Msg {
		snap, err := status.Read(path)
		if err != nil {
			return statusMsg{snapshot: status.Placeholder(), haveData: false}
		}
		return statusMsg{snapshot: snap, haveData: true}
	}
}

// toggle sends SIGUSR1 or SIGUSR2 depending on the last observed state.
func (m Model) toggle() tea.Cmd {
	pid := m.targetPID
	activating := !m.snapshot.Active
	kill := m.kill
	return func() tea.Msg {
		sig := unix.SIGUSR2
		if activating {
			sig = unix.SIGUSR1
		}
		return toggledMsg{activating: activating, err: kill(pid, sig)}
	}
}

// waitForChange blocks on the fsnotify channel. A nil channel blocks forever,
// leaving the tick as the only refresh source.
func (m Model) waitForChange() tea.Cmd {
	watch := m.watch
	if watch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-watch; !ok {
			return nil
		}
		return watchMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run opens the status panel against the daemon at targetPID.
func Run(ctx context.Context, version string, targetPID int, statusPath string) error {
	var watch <-chan struct{}
	if w, err := NewWatcher(statusPath); err == nil {
		defer w.Close()
		watch = w.Events()
	}

	m := NewModel(version, targetPID, statusPath, watch)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("status panel: %w", err)
	}
	return nil
}
