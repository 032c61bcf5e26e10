package game

// MenuStatus is what a menu frame reports back.
type MenuStatus int

const (
	// MenuContinue keeps the menu running.
	MenuContinue MenuStatus = iota
	// MenuConfirmed means the players chose to start a round.
	MenuConfirmed
)

// Menu is the title and player setup screen.
type Menu interface {
	Load()
	Init(rt *Runtime)
	Frame(rt *Runtime) MenuStatus
	Unload()
}

// Level is the gameplay. Frame runs one tick of simulation and emits
// the sprites for it.
type Level interface {
	Load()
	Init(rt *Runtime)
	Frame(rt *Runtime)
}

// Display controls palette fades. A fade lasts the given number of
// frames; the hardware steps it on each vertical blank and runs fades in
// the order they were requested.
type Display interface {
	FadeIn(frames int)
	FadeOut(frames int)
}

// Track identifies a background music track.
type Track string

// Music tracks. The tempo differs per video region, so each region has
// its own arrangement.
const (
	TrackNTSC Track = "jump_ntsc"
	TrackPAL  Track = "jump_pal"
)

// Music plays background tracks.
type Music interface {
	Start(track Track)
	Stop()
}
