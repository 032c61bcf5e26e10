package demo

import (
	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/game"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
)

// AttractFrames is how long the menu waits before starting on its own
// when every slot is computer controlled.
const AttractFrames = 600

// Menu is the title screen. Any human jump press starts the game.
type Menu struct {
	controls Controls
	frames   int
	loaded   bool
}

// NewMenu creates the title menu.
func NewMenu() *Menu {
	return &Menu{}
}

// Load marks the menu resources as resident.
func (m *Menu) Load() {
	m.loaded = true
}

// Init places one rabbit per slot on the title screen.
func (m *Menu) Init(rt *game.Runtime) {
	m.controls.Reset()
	m.frames = 0
	rt.Keys.Reset()
	for i := range rt.Players {
		p := &rt.Players[i]
		p.Reset()
		p.X = (64 + i*64) * Sub
		p.Y = (FloorY - RabbitPx) * Sub
		p.Alive = true
		p.Anim.Set(core.AnimStand)
	}
}

// Frame reads the keys and draws the rabbits. Holding left or right turns
// a rabbit around; jump confirms.
func (m *Menu) Frame(rt *game.Runtime) game.MenuStatus {
	m.controls.Drain(rt.Keys)
	m.frames++

	humans := 0
	confirmed := false
	for i := range rt.Players {
		p := &rt.Players[i]
		ctl := m.controls[i]
		if !p.IsAI {
			humans++
			confirmed = confirmed || ctl.JumpEdge
		}
		switch {
		case ctl.Left:
			p.Direction = 1
		case ctl.Right:
			p.Direction = 0
		}
		if ctl.Jump {
			p.Anim.Set(core.AnimRise)
		} else {
			p.Anim.Set(core.AnimStand)
		}
		p.Anim.Advance()
	}
	drawRabbits(rt, nil)

	if confirmed || (humans == 0 && m.frames >= AttractFrames) {
		return game.MenuConfirmed
	}
	return game.MenuContinue
}

// Unload releases the menu.
func (m *Menu) Unload() {
	m.loaded = false
}

// Loaded reports whether the menu is between Load and Unload.
func (m *Menu) Loaded() bool {
	return m.loaded
}

// drawRabbits emits a sprite for every rabbit visible is true for, or for
// all of them when visible is nil. It stops at the first sprite the table
// rejects; the frame driver applies the overflow policy from
// Table.Overflows.
func drawRabbits(rt *game.Runtime, visible func(i int) bool) {
	for i := range rt.Players {
		if visible != nil && !visible(i) {
			continue
		}
		if err := rt.Emit(rabbitSprite(&rt.Players[i])); err != nil {
			return
		}
	}
}

// rabbitSprite builds the descriptor for a player's current frame.
func rabbitSprite(p *core.PlayerSlot) sprite.Descriptor {
	return sprite.Descriptor{
		X:    int16(p.X/Sub + sprite.ScreenOffset),
		Y:    int16(p.Y/Sub + sprite.ScreenOffset),
		Size: sprite.SizeCells(RabbitCells, RabbitCells),
		Attr: sprite.Attribute(
			uint16(RabbitTileBase+p.Anim.Image()*RabbitCells*RabbitCells),
			uint8(p.ID),
			false,
			p.Direction == 1,
			false,
		),
	}
}
