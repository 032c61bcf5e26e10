// Package game holds the top level state machine (boot, menu, playing)
// and the runtime context threaded through every state step.
package game

import (
	"math/rand"

	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/input"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
)

// Runtime is the program-wide state. It is created once at boot and
// survives every state transition.
type Runtime struct {
	Players [core.MaxPlayers]core.PlayerSlot
	Sprites *sprite.Table
	Keys    *input.Queue
	Region  core.Region

	// EndScoreReached is set by gameplay when a player wins the round.
	EndScoreReached bool

	// Frame counts completed frames since boot.
	Frame uint64

	rng *rand.Rand
}

// NewRuntime creates the runtime with all slots human controlled.
func NewRuntime(cfg core.RuntimeConfig, sprites *sprite.Table, keys *input.Queue) *Runtime {
	rt := &Runtime{
		Sprites: sprites,
		Keys:    keys,
		Region:  cfg.Region,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
	for i := range rt.Players {
		rt.Players[i].ID = core.PlayerID(i)
	}
	return rt
}

// IsAI reports whether a slot is computer controlled. Out of range ids
// count as AI so they never produce input.
func (rt *Runtime) IsAI(id core.PlayerID) bool {
	if !id.Valid() {
		return true
	}
	return rt.Players[id].IsAI
}

// SetAI marks slots as computer controlled. Missing entries are human.
func (rt *Runtime) SetAI(flags []bool) {
	for i := range rt.Players {
		rt.Players[i].IsAI = i < len(flags) && flags[i]
	}
}

// Rand returns a pseudo random number in [0, max).
func (rt *Runtime) Rand(max int) int {
	if max <= 0 {
		return 0
	}
	return rt.rng.Intn(max)
}

// Emit appends a sprite for the current frame.
func (rt *Runtime) Emit(d sprite.Descriptor) error {
	return rt.Sprites.Append(d)
}
