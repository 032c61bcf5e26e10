package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpnbump/internal/config"
	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/frame"
	"github.com/vovakirdan/jumpnbump/internal/game"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
	"github.com/vovakirdan/jumpnbump/internal/storage"
)

// VRAMSize is the size of the console's video memory.
const VRAMSize = config.VRAMSize

// HoldTime is how long a key press keeps a pad button down. Terminals
// report presses and repeats but no releases.
const HoldTime = 150 * time.Millisecond

// MaxBrightness is the fully faded in palette level.
const MaxBrightness = 7

// Console is the virtual hardware the frame driver runs on. The driver
// goroutine and the Bubble Tea goroutine share it; every field is
// guarded by mu.
type Console struct {
	mu sync.Mutex

	ports    [2]core.PortType
	multitap [2]bool
	held     [core.NumPads][]heldButton

	pending []sprite.Transfer
	vram    [VRAMSize]byte

	brightness int
	display    []displayOp // pending fades and logo changes, in call order

	logo    string
	track   game.Track
	playing bool

	last   storage.FrameRecord
	tracer frame.Tracer

	vblank chan struct{}
	logger *log.Logger
	now    func() time.Time
}

type heldButton struct {
	button core.Button
	until  time.Time
}

// displayOp is a fade or a logo change. A fade occupies the head of the
// queue until the brightness reaches its target, so the ops behind it
// wait for it to finish.
type displayOp struct {
	logo   bool
	name   string // logo to show, empty to hide
	target int
	step   int // vblanks per brightness level, 0 for an instant change
	wait   int
}

// NewConsole creates a console with the given devices plugged into ports
// 1 and 2. The screen starts black.
func NewConsole(port1, port2 core.PortType, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.Default()
	}
	return &Console{
		ports:  [2]core.PortType{port1, port2},
		vblank: make(chan struct{}, 1),
		logger: logger,
		now:    time.Now,
	}
}

// portOf returns the physical port a pad is wired to and whether it is a
// multi-tap sub-port.
func portOf(pad core.Pad) (core.Port, bool) {
	switch pad {
	case core.Joy1:
		return core.Port1, false
	case core.Joy2:
		return core.Port2, false
	case core.Joy3, core.Joy4, core.Joy5:
		return core.Port1, true
	default:
		return core.Port2, true
	}
}

// PortType reports what is plugged into a port.
func (c *Console) PortType(port core.Port) core.PortType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ports[port]
}

// EnableMultiTap switches a port into multi-tap reading mode.
func (c *Console) EnableMultiTap(port core.Port) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ports[port] == core.PortMultiTap {
		c.multitap[port] = true
	}
}

// ReadPad returns the buttons currently held on a pad. Sub-ports read
// nothing until their hub is enabled.
func (c *Console) ReadPad(pad core.Pad) core.Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected(pad) {
		return 0
	}
	now := c.now()
	var b core.Button
	for _, h := range c.held[pad] {
		if now.Before(h.until) {
			b |= h.button
		}
	}
	return b
}

func (c *Console) connected(pad core.Pad) bool {
	if pad < 0 || pad >= core.NumPads {
		return false
	}
	port, sub := portOf(pad)
	switch c.ports[port] {
	case core.PortNone:
		return false
	case core.PortStandalone:
		return !sub
	}
	return !sub || c.multitap[port]
}

// Press holds buttons on a pad for HoldTime. Pressing again extends it.
func (c *Console) Press(pad core.Pad, buttons core.Button) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pad < 0 || pad >= core.NumPads {
		return
	}
	now := c.now()
	until := now.Add(HoldTime)
	kept := c.held[pad][:0]
	for _, h := range c.held[pad] {
		if h.button&buttons != 0 || !now.Before(h.until) {
			continue
		}
		kept = append(kept, h)
	}
	c.held[pad] = append(kept, heldButton{button: buttons, until: until})
}

// QueueDMA stores a transfer until the next vertical blank.
func (c *Console) QueueDMA(req sprite.Transfer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, req)
}

// WaitVBlank flushes queued transfers into VRAM and blocks until the
// host signals the next vertical blank.
func (c *Console) WaitVBlank(ctx context.Context) error {
	c.flush()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.vblank:
		return nil
	}
}

func (c *Console) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, req := range c.pending {
		n := min(req.Words*2, len(req.Data))
		copy(c.vram[int(req.Dest):], req.Data[:n])
	}
	c.pending = c.pending[:0]
}

// VBlank signals a vertical blank. Called from the host's tick; a blank
// the driver has not consumed yet is not queued twice.
func (c *Console) VBlank() {
	c.mu.Lock()
	c.stepFade()
	c.mu.Unlock()

	select {
	case c.vblank <- struct{}{}:
	default:
	}
}

// stepFade advances the display queue by one vblank.
func (c *Console) stepFade() {
	c.applyInstant()
	if len(c.display) == 0 {
		return
	}
	op := &c.display[0]
	op.wait--
	if op.wait > 0 {
		return
	}
	op.wait = op.step
	if c.brightness < op.target {
		c.brightness++
	} else {
		c.brightness--
	}
	if c.brightness == op.target {
		c.display = c.display[1:]
		c.applyInstant()
	}
}

// applyInstant runs the ops at the head of the queue that need no vblank:
// logo changes, zero length fades and fades already at their target.
func (c *Console) applyInstant() {
	for len(c.display) > 0 {
		op := c.display[0]
		switch {
		case op.logo:
			c.logo = op.name
		case op.step == 0 || c.brightness == op.target:
			c.brightness = op.target
		default:
			return
		}
		c.display = c.display[1:]
	}
}

func (c *Console) queueDisplay(op displayOp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.display = append(c.display, op)
	c.applyInstant()
}

// FadeIn queues a palette fade to full brightness over frames vblanks.
// It starts once the fades queued before it have finished.
func (c *Console) FadeIn(frames int) {
	c.fade(MaxBrightness, frames)
}

// FadeOut queues a palette fade to black over frames vblanks.
func (c *Console) FadeOut(frames int) {
	c.fade(0, frames)
}

func (c *Console) fade(target, frames int) {
	op := displayOp{target: target}
	if frames > 0 {
		op.step = max(frames/MaxBrightness, 1)
		op.wait = op.step
	}
	c.queueDisplay(op)
}

// ShowLogo puts a boot logo on screen after any pending fade.
func (c *Console) ShowLogo(name string) {
	c.queueDisplay(displayOp{logo: true, name: name})
}

// HideLogo removes the boot logo once pending fades have finished, so a
// fade out darkens the logo before it disappears.
func (c *Console) HideLogo() {
	c.queueDisplay(displayOp{logo: true})
}

// Start plays a music track. The host has no sound; the track is shown
// in the status line.
func (c *Console) Start(t game.Track) {
	c.mu.Lock()
	c.track, c.playing = t, true
	c.mu.Unlock()
	c.logger.Info("music started", "track", t)
}

// Stop silences the music.
func (c *Console) Stop() {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
	c.logger.Info("music stopped")
}

// SetTracer forwards frame records to t, typically a storage.Recorder.
func (c *Console) SetTracer(t frame.Tracer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracer = t
}

// RecordFrame keeps the latest frame record for the status line and
// forwards it. A failing forward tracer is dropped; the console keeps
// tracking so the status line stays live.
func (c *Console) RecordFrame(ctx context.Context, f storage.FrameRecord) error {
	c.mu.Lock()
	c.last = f
	t := c.tracer
	c.mu.Unlock()

	if t == nil {
		return nil
	}
	if err := t.RecordFrame(ctx, f); err != nil {
		c.logger.Error("frame recorder disabled", "error", err)
		c.SetTracer(nil)
	}
	return nil
}

// Snapshot is a copy of what the host needs to draw one picture.
type Snapshot struct {
	SAT        []byte
	Brightness int
	Logo       string
	Track      game.Track
	Playing    bool
	Last       storage.FrameRecord
}

// Snapshot copies the sprite table at addr (capacity entries) and the
// display state.
func (c *Console) Snapshot(addr uint16, capacity int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	end := min(int(addr)+capacity*sprite.DescriptorBytes, VRAMSize)
	sat := make([]byte, end-int(addr))
	copy(sat, c.vram[addr:end])
	return Snapshot{
		SAT:        sat,
		Brightness: c.brightness,
		Logo:       c.logo,
		Track:      c.track,
		Playing:    c.playing,
		Last:       c.last,
	}
}
