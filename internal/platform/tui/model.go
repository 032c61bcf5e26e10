package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/frame"
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Options configures the host.
type Options struct {
	Console   *Console
	Driver    *frame.Driver
	Level     string // shown in the status line
	TableAddr uint16
	Capacity  int
}

// driverDoneMsg reports that the frame loop returned.
type driverDoneMsg struct{ err error }

// driverResult is written once by the driver goroutine before done is
// closed.
type driverResult struct {
	done chan struct{}
	err  error
}

// Model is the Bubble Tea model hosting the console. The frame driver
// runs in its own goroutine; the model feeds it vertical blanks and key
// presses through the console and draws what reaches VRAM.
type Model struct {
	opts   Options
	keys   KeyMap
	help   help.Model
	screen *core.Screen
	rate   int

	ctx    context.Context
	cancel context.CancelFunc
	result *driverResult

	err      error
	quitting bool
}

// NewModel creates a host model. Start launches the driver.
func NewModel(ctx context.Context, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		screen: core.NewScreen(ScreenCols, ScreenRows),
		rate:   opts.Driver.Runtime().Region.RefreshRate(),
		ctx:    ctx,
		cancel: cancel,
		result: &driverResult{done: make(chan struct{})},
	}
}

// Start boots the console and runs the frame loop in a new goroutine.
// The loop blocks on the first vertical blank until the model ticks.
func (m Model) Start() {
	go func() {
		err := m.opts.Driver.Boot(m.ctx)
		if err == nil {
			err = m.opts.Driver.Run(m.ctx)
		}
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		m.result.err = err
		close(m.result.done)
	}()
}

// Init starts the vertical blank clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.rate), waitDriver(m.result))
}

func waitDriver(r *driverResult) tea.Cmd {
	return func() tea.Msg {
		<-r.done
		return driverDoneMsg{err: r.err}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.opts.Console.VBlank()
		return m, tickCmd(m.rate)

	case driverDoneMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if press, ok := m.keys.Resolve(msg, m.opts.Console); ok {
		m.opts.Console.Press(press.Pad, press.Buttons)
	}
	return m, nil
}

// View renders the console picture, a status line and key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.opts.Console.Snapshot(m.opts.TableAddr, m.opts.Capacity)
	DrawSnapshot(m.screen, snap)

	parts := []string{
		borderStyle.Render(RenderScreen(m.screen, snap.Brightness)),
		statusStyle.Render(m.statusLine(snap)),
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusLine(snap Snapshot) string {
	f := snap.Last
	music := "-"
	if snap.Playing {
		music = string(snap.Track)
	}
	return fmt.Sprintf("%s  %s  frame %d  %s  sprites %d/%d  keys %d  music %s",
		m.opts.Level, f.State, f.Frame, f.Topology, f.Sprites, m.opts.Capacity, f.KeyEvents, music)
}

// Run starts the Bubble Tea program and returns when the user quits or
// the frame loop fails.
func Run(ctx context.Context, opts Options) error {
	model := NewModel(ctx, opts)
	defer model.cancel()
	model.Start()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	// Stop the frame loop if the user quit, then report how it ended.
	model.cancel()
	<-model.result.done
	if model.result.err != nil {
		return model.result.err
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
