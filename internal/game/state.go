package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpnbump/internal/core"
)

// DefaultFadeFrames is the length of every palette fade.
const DefaultFadeFrames = 30

// State is one of Boot, Menu or Playing.
type State interface {
	fmt.Stringer
	state()
}

// Boot is the initial state. Its first step sets up the menu.
type Boot struct{}

// MenuState runs the menu until the players confirm.
type MenuState struct{}

// Playing hands every frame to the level.
type Playing struct{}

func (Boot) state()      {}
func (MenuState) state() {}
func (Playing) state()   {}

func (Boot) String() string      { return "boot" }
func (MenuState) String() string { return "menu" }
func (Playing) String() string   { return "playing" }

// Machine drives the top level state transitions.
type Machine struct {
	menu    Menu
	level   Level
	display Display
	music   Music
	logger  *log.Logger

	fadeFrames  int
	current     State
	transitions int
}

// Collaborators groups everything the machine calls into.
type Collaborators struct {
	Menu    Menu
	Level   Level
	Display Display
	Music   Music
}

// NewMachine creates a machine in the Boot state.
func NewMachine(c Collaborators, fadeFrames int, logger *log.Logger) *Machine {
	if fadeFrames <= 0 {
		fadeFrames = DefaultFadeFrames
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Machine{
		menu:       c.Menu,
		level:      c.Level,
		display:    c.Display,
		music:      c.Music,
		logger:     logger,
		fadeFrames: fadeFrames,
		current:    Boot{},
	}
}

// State returns the active state.
func (m *Machine) State() State {
	return m.current
}

// Transitions returns how many state changes happened.
func (m *Machine) Transitions() int {
	return m.transitions
}

// Step runs one frame of the active state.
func (m *Machine) Step(rt *Runtime) {
	var next State
	switch m.current.(type) {
	case Boot:
		next = m.stepBoot(rt)
	case MenuState:
		next = m.stepMenu(rt)
	case Playing:
		next = m.stepPlaying(rt)
	default:
		panic(fmt.Sprintf("game: unknown state %T", m.current))
	}

	if next != m.current {
		m.logger.Info("state changed", "from", m.current, "to", next, "frame", rt.Frame)
		m.current = next
		m.transitions++
	}
}

func (m *Machine) stepBoot(rt *Runtime) State {
	m.menu.Load()
	m.menu.Init(rt)
	m.display.FadeIn(m.fadeFrames)
	m.music.Start(TrackFor(rt.Region))
	return MenuState{}
}

func (m *Machine) stepMenu(rt *Runtime) State {
	if m.menu.Frame(rt) != MenuConfirmed {
		return MenuState{}
	}

	// One more frame consumes the confirming press.
	m.menu.Frame(rt)
	m.display.FadeOut(m.fadeFrames)
	m.menu.Unload()
	m.music.Stop()

	m.level.Load()
	m.level.Init(rt)
	m.display.FadeIn(m.fadeFrames)
	rt.EndScoreReached = false
	return Playing{}
}

func (m *Machine) stepPlaying(rt *Runtime) State {
	m.level.Frame(rt)
	return Playing{}
}

// TrackFor picks the music arrangement for a video region.
func TrackFor(r core.Region) Track {
	if r == core.RegionPAL {
		return TrackPAL
	}
	return TrackNTSC
}
