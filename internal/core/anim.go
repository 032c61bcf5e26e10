package core

// Animation indices into PlayerAnims.
const (
	AnimStand = iota
	AnimRun
	AnimRise
	AnimApex
	AnimFall
	AnimLand
	AnimDead

	NumAnims
)

// AnimHold is a tick count long enough to never advance.
const AnimHold = 0x7fff

// AnimFrame is one image of a player animation and how long it shows.
type AnimFrame struct {
	Image int
	Ticks int
}

// PlayerAnim describes a looping animation. After the last frame playback
// restarts at RestartFrame.
type PlayerAnim struct {
	NumFrames    int
	RestartFrame int
	Frames       [4]AnimFrame
}

// packed rows: num_frames, restart_frame, then four (image, ticks) pairs.
var playerAnimData = [NumAnims][10]int{
	{1, 0, 0, AnimHold, 0, 0, 0, 0, 0, 0},
	{4, 0, 0, 4, 1, 4, 2, 4, 3, 4},
	{1, 0, 4, AnimHold, 0, 0, 0, 0, 0, 0},
	{4, 2, 5, 8, 6, 10, 7, 3, 6, 3},
	{1, 0, 6, AnimHold, 0, 0, 0, 0, 0, 0},
	{2, 1, 5, 8, 4, AnimHold, 0, 0, 0, 0},
	{1, 0, 8, 5, 0, 0, 0, 0, 0, 0},
}

// PlayerAnims is the animation table shared by all player slots.
var PlayerAnims = buildPlayerAnims()

func buildPlayerAnims() [NumAnims]PlayerAnim {
	var anims [NumAnims]PlayerAnim
	for i, row := range playerAnimData {
		anims[i].NumFrames = row[0]
		anims[i].RestartFrame = row[1]
		for f := range anims[i].Frames {
			anims[i].Frames[f] = AnimFrame{Image: row[2+f*2], Ticks: row[3+f*2]}
		}
	}
	return anims
}

// AnimState is a player's position inside PlayerAnims.
type AnimState struct {
	Anim  int
	Frame int
	Ticks int
}

// Set switches to another animation, restarting it. Setting the animation
// that is already playing does nothing.
func (a *AnimState) Set(anim int) {
	if anim == a.Anim && a.Ticks > 0 {
		return
	}
	a.Anim = anim
	a.Frame = 0
	a.Ticks = PlayerAnims[anim].Frames[0].Ticks
}

// Advance moves the animation forward by one tick.
func (a *AnimState) Advance() {
	anim := &PlayerAnims[a.Anim]
	a.Ticks--
	if a.Ticks > 0 {
		return
	}
	a.Frame++
	if a.Frame >= anim.NumFrames {
		a.Frame = anim.RestartFrame
	}
	a.Ticks = anim.Frames[a.Frame].Ticks
}

// Image returns the sprite image index of the current frame.
func (a AnimState) Image() int {
	return PlayerAnims[a.Anim].Frames[a.Frame].Image
}
