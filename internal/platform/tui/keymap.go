package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/input"
)

// PlayerKeys are the keyboard keys of one player slot.
type PlayerKeys struct {
	Left  key.Binding
	Right key.Binding
	Jump  key.Binding
	Start key.Binding
}

// KeyMap defines the host key bindings. Player keys are routed to the pad
// the player's slot reads under the current controller topology, so the
// same keys work with or without a multi-tap.
type KeyMap struct {
	Players [core.MaxPlayers]PlayerKeys
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	p := k.Players[0]
	return []key.Binding{p.Left, p.Right, p.Jump, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	rows := make([][]key.Binding, 0, len(k.Players)+1)
	for _, p := range k.Players {
		rows = append(rows, []key.Binding{p.Left, p.Right, p.Jump, p.Start})
	}
	return append(rows, []key.Binding{k.Help, k.Quit})
}

func playerKeys(n int, left, right, jump, start []string) PlayerKeys {
	return PlayerKeys{
		Left: key.NewBinding(
			key.WithKeys(left...),
			key.WithHelp(left[0], fmt.Sprintf("P%d left", n)),
		),
		Right: key.NewBinding(
			key.WithKeys(right...),
			key.WithHelp(right[0], fmt.Sprintf("P%d right", n)),
		),
		Jump: key.NewBinding(
			key.WithKeys(jump...),
			key.WithHelp(jump[0], fmt.Sprintf("P%d jump", n)),
		),
		Start: key.NewBinding(
			key.WithKeys(start...),
			key.WithHelp(start[0], fmt.Sprintf("P%d start", n)),
		),
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Players: [core.MaxPlayers]PlayerKeys{
			playerKeys(1, []string{"left"}, []string{"right"}, []string{"up", " "}, []string{"enter"}),
			playerKeys(2, []string{"a"}, []string{"d"}, []string{"w"}, []string{"tab"}),
			playerKeys(3, []string{"j"}, []string{"l"}, []string{"i"}, []string{"u"}),
			playerKeys(4, []string{"4"}, []string{"6"}, []string{"8"}, []string{"5"}),
		},
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// PadPress is a key press translated to console buttons.
type PadPress struct {
	Pad     core.Pad
	Buttons core.Button
}

// Resolve maps a key message to a pad press using the routes of the
// topology the ports currently have. It reports false for keys that are
// not player keys or whose slot has no pad.
func (k KeyMap) Resolve(msg tea.KeyMsg, ports input.Ports) (PadPress, bool) {
	for slot, pk := range k.Players {
		var b core.Button
		switch {
		case key.Matches(msg, pk.Left):
			b = core.ButtonLeft
		case key.Matches(msg, pk.Right):
			b = core.ButtonRight
		case key.Matches(msg, pk.Jump):
			b = core.ButtonA
		case key.Matches(msg, pk.Start):
			b = core.ButtonStart
		default:
			continue
		}
		pad, ok := padFor(core.PlayerID(slot), ports)
		if !ok {
			return PadPress{}, false
		}
		return PadPress{Pad: pad, Buttons: b}, true
	}
	return PadPress{}, false
}

func padFor(slot core.PlayerID, ports input.Ports) (core.Pad, bool) {
	for _, r := range input.Routes(input.DetectTopology(ports), false) {
		if r.Slot == slot {
			return r.Pad, true
		}
	}
	return 0, false
}
