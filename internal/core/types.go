// Package core provides fundamental types shared by the console core:
// player slots, controller ports, button masks and key codes.
// It has no dependencies on the host platform so the frame loop stays
// testable without a terminal.
package core

// MaxPlayers is the number of logical player slots the game supports.
const MaxPlayers = 4

// PlayerID identifies a logical player slot (0..MaxPlayers-1).
type PlayerID int

// Player slot identifiers.
const (
	Player1 PlayerID = iota
	Player2
	Player3
	Player4
)

// Valid reports whether the id addresses an existing slot.
func (id PlayerID) Valid() bool {
	return id >= 0 && id < MaxPlayers
}

// Region is the video timing of the console.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

// String returns the lowercase region name used in config files.
func (r Region) String() string {
	switch r {
	case RegionNTSC:
		return "ntsc"
	case RegionPAL:
		return "pal"
	default:
		return "unknown"
	}
}

// RefreshRate returns the vertical blank frequency in Hz.
func (r Region) RefreshRate() int {
	if r == RegionPAL {
		return 50
	}
	return 60
}

// ParseRegion converts a config string to a Region.
func ParseRegion(s string) (Region, bool) {
	switch s {
	case "ntsc", "NTSC", "":
		return RegionNTSC, true
	case "pal", "PAL":
		return RegionPAL, true
	}
	return RegionNTSC, false
}

// PlayerSlot is the per-player state that lives for the whole program.
// Position and velocity belong to the gameplay code; the frame loop only
// reads IsAI.
type PlayerSlot struct {
	ID   PlayerID
	IsAI bool

	Anim AnimState

	// Gameplay-owned state, in 1/256 pixel units.
	X, Y   int
	VX, VY int

	Alive     bool
	Direction int // 0 = right, 1 = left
	InAir     bool
	Score     int
}

// Reset clears gameplay state at level init. ID and IsAI survive.
func (p *PlayerSlot) Reset() {
	*p = PlayerSlot{ID: p.ID, IsAI: p.IsAI}
}
