// Package tui hosts the console core in a terminal: a virtual console
// implementing the hardware interfaces, a renderer for its sprite table
// and the Bubble Tea loop that supplies vertical blanks and key presses.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is one vertical blank of the host clock.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg after one refresh period.
func tickCmd(refreshRate int) tea.Cmd {
	interval := time.Second / time.Duration(refreshRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
