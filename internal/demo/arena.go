package demo

import (
	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/game"
	"github.com/vovakirdan/jumpnbump/internal/registry"
)

// Playfield geometry in pixels.
const (
	ScreenW = 320
	ScreenH = 224
	FloorY  = 208 // feet rest here on the ground

	RabbitPx       = 16
	RabbitCells    = RabbitPx / 8
	RabbitTileBase = 1
)

// Physics constants in 1/256 pixel units per frame.
const (
	Sub          = 256
	Gravity      = 48
	JumpSpeed    = -1152
	RunAccel     = 64
	Friction     = 32
	MaxRunSpeed  = 384
	MaxFallSpeed = 1024
)

// Rules.
const (
	EndScore      = 10
	RespawnFrames = 60
)

// Platform is a one way ledge: rabbits land on it from above and jump
// through it from below.
type Platform struct {
	X, Y, W int
}

// DefaultPlatforms is the arena layout.
var DefaultPlatforms = []Platform{
	{X: 0, Y: 72, W: 64},
	{X: 256, Y: 72, W: 64},
	{X: 128, Y: 112, W: 64},
	{X: 40, Y: 160, W: 72},
	{X: 208, Y: 160, W: 72},
}

func init() {
	registry.Register("arena", func() registry.Level { return NewArena() })
}

// Arena is a single screen stomp match: landing on another rabbit scores
// a point, first to EndScore wins.
type Arena struct {
	platforms []Platform
	controls  Controls
	respawn   [core.MaxPlayers]int
	winner    core.PlayerID
}

// NewArena creates the arena level.
func NewArena() *Arena {
	return &Arena{platforms: DefaultPlatforms, winner: -1}
}

// ID returns the registry identifier.
func (a *Arena) ID() string { return "arena" }

// Title returns the display name.
func (a *Arena) Title() string { return "Rabbit Arena" }

// Load restores the default layout.
func (a *Arena) Load() {
	a.platforms = DefaultPlatforms
}

// Init spawns every rabbit at a random free spot.
func (a *Arena) Init(rt *game.Runtime) {
	a.controls.Reset()
	a.winner = -1
	rt.Keys.Reset()
	for i := range rt.Players {
		p := &rt.Players[i]
		p.Reset()
		a.spawn(rt, p)
		a.respawn[i] = 0
	}
}

// Winner returns the slot that reached EndScore, or -1.
func (a *Arena) Winner() core.PlayerID {
	return a.winner
}

// Frame advances the match by one frame and draws it.
func (a *Arena) Frame(rt *game.Runtime) {
	a.controls.Drain(rt.Keys)

	if a.winner < 0 {
		for i := range rt.Players {
			p := &rt.Players[i]
			if !p.Alive {
				a.respawn[i]--
				if a.respawn[i] <= 0 {
					a.spawn(rt, p)
				}
				continue
			}
			ctl := a.controls[i]
			if p.IsAI {
				ctl = a.think(rt, p)
			}
			a.move(p, ctl)
		}
		a.collide(rt)
	}

	for i := range rt.Players {
		p := &rt.Players[i]
		if p.Alive || p.Anim.Anim == core.AnimDead {
			p.Anim.Advance()
		}
	}
	// dead rabbits stay on screen for the first half of the respawn wait
	drawRabbits(rt, func(i int) bool {
		return rt.Players[i].Alive || a.respawn[i] > RespawnFrames/2
	})
}

func (a *Arena) spawn(rt *game.Runtime, p *core.PlayerSlot) {
	spots := len(a.platforms) + 1
	n := rt.Rand(spots)
	x, y := rt.Rand(ScreenW-RabbitPx), FloorY
	if n < len(a.platforms) {
		pl := a.platforms[n]
		x, y = pl.X+rt.Rand(max(pl.W-RabbitPx, 1)), pl.Y
	}
	p.X = x * Sub
	p.Y = (y - RabbitPx) * Sub
	p.VX, p.VY = 0, 0
	p.InAir = false
	p.Alive = true
	p.Anim.Set(core.AnimStand)
}

// move applies one frame of input and physics to a live rabbit.
func (a *Arena) move(p *core.PlayerSlot, ctl Control) {
	switch {
	case ctl.Left && !ctl.Right:
		p.VX = max(p.VX-RunAccel, -MaxRunSpeed)
		p.Direction = 1
	case ctl.Right && !ctl.Left:
		p.VX = min(p.VX+RunAccel, MaxRunSpeed)
		p.Direction = 0
	case p.VX > 0:
		p.VX = max(p.VX-Friction, 0)
	case p.VX < 0:
		p.VX = min(p.VX+Friction, 0)
	}

	if ctl.JumpEdge && !p.InAir {
		p.VY = JumpSpeed
		p.InAir = true
	}
	// releasing jump early cuts the jump short
	if !ctl.Jump && p.VY < JumpSpeed/4 {
		p.VY = JumpSpeed / 4
	}

	p.X += p.VX
	if p.X < 0 {
		p.X, p.VX = 0, 0
	}
	if limit := (ScreenW - RabbitPx) * Sub; p.X > limit {
		p.X, p.VX = limit, 0
	}

	feet := p.Y + RabbitPx*Sub
	p.VY = min(p.VY+Gravity, MaxFallSpeed)
	p.Y += p.VY
	a.land(p, feet)

	switch {
	case p.InAir && p.VY < -Gravity*4:
		p.Anim.Set(core.AnimRise)
	case p.InAir && p.VY <= Gravity*4:
		p.Anim.Set(core.AnimApex)
	case p.InAir:
		p.Anim.Set(core.AnimFall)
	case p.VX != 0:
		p.Anim.Set(core.AnimRun)
	default:
		p.Anim.Set(core.AnimStand)
	}
}

// land stops a falling rabbit on the ground or on a ledge its feet
// crossed this frame.
func (a *Arena) land(p *core.PlayerSlot, prevFeet int) {
	feet := p.Y + RabbitPx*Sub
	if feet >= FloorY*Sub {
		a.settle(p, FloorY)
		return
	}
	if p.VY < 0 {
		p.InAir = true
		return
	}
	x := p.X / Sub
	for _, pl := range a.platforms {
		top := pl.Y * Sub
		if prevFeet <= top && feet >= top && x+RabbitPx > pl.X && x < pl.X+pl.W {
			a.settle(p, pl.Y)
			return
		}
	}
	p.InAir = true
}

func (a *Arena) settle(p *core.PlayerSlot, y int) {
	if p.InAir {
		p.Anim.Set(core.AnimLand)
	}
	p.Y = (y - RabbitPx) * Sub
	p.VY = 0
	p.InAir = false
}

// collide resolves stomps: a falling rabbit overlapping the top half of
// another one kills it.
func (a *Arena) collide(rt *game.Runtime) {
	for i := range rt.Players {
		top := &rt.Players[i]
		if !top.Alive || top.VY <= 0 {
			continue
		}
		for j := range rt.Players {
			bottom := &rt.Players[j]
			if i == j || !bottom.Alive || !overlap(top, bottom) {
				continue
			}
			if top.Y >= bottom.Y-RabbitPx*Sub/2 {
				continue
			}
			bottom.Alive = false
			bottom.Anim.Set(core.AnimDead)
			a.respawn[j] = RespawnFrames
			top.VY = JumpSpeed / 2
			top.InAir = true
			top.Score++
			if top.Score >= EndScore && a.winner < 0 {
				a.winner = top.ID
				rt.EndScoreReached = true
			}
		}
	}
}

func overlap(p, q *core.PlayerSlot) bool {
	size := RabbitPx * Sub
	return p.X < q.X+size && q.X < p.X+size && p.Y < q.Y+size && q.Y < p.Y+size
}

// think picks keys for a computer rabbit: chase the nearest live rabbit
// and jump when it is above or on a whim.
func (a *Arena) think(rt *game.Runtime, p *core.PlayerSlot) Control {
	var target *core.PlayerSlot
	best := 0
	for i := range rt.Players {
		q := &rt.Players[i]
		if q == p || !q.Alive {
			continue
		}
		d := abs(q.X-p.X) + abs(q.Y-p.Y)
		if target == nil || d < best {
			target, best = q, d
		}
	}

	var ctl Control
	if target == nil {
		return ctl
	}
	dx := target.X - p.X
	ctl.Left = dx < -Sub*4
	ctl.Right = dx > Sub*4
	wantJump := target.Y < p.Y-RabbitPx*Sub/2 || rt.Rand(64) == 0
	ctl.Jump = wantJump || p.InAir
	ctl.JumpEdge = wantJump && !p.InAir
	return ctl
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
