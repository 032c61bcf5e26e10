// Package frame runs the console's main loop: one iteration per vertical
// blank, sampling input, stepping the game state machine and sending the
// sprite table to video memory.
package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpnbump/internal/config"
	"github.com/vovakirdan/jumpnbump/internal/game"
	"github.com/vovakirdan/jumpnbump/internal/input"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
	"github.com/vovakirdan/jumpnbump/internal/storage"
)

// VSync is the platform's frame synchronisation primitive. WaitVBlank
// flushes queued DMA transfers and blocks until the next vertical blank.
type VSync interface {
	WaitVBlank(ctx context.Context) error
}

// Splash shows the boot logos.
type Splash interface {
	ShowLogo(name string)
	HideLogo()
}

// Tracer receives a record of every frame. storage.Recorder implements it.
type Tracer interface {
	RecordFrame(ctx context.Context, f storage.FrameRecord) error
}

// Hardware groups the platform services the driver calls directly.
type Hardware struct {
	Ports   input.Ports
	VSync   VSync
	Display game.Display
	Splash  Splash
}

// Options configures a Driver.
type Options struct {
	Overflow    config.OverflowPolicy
	Logos       []string
	LogoTimeout time.Duration
	FadeFrames  int
	AI          []bool
}

// OptionsFromConfig extracts the driver options from a console config.
func OptionsFromConfig(cfg config.ConsoleConfig) Options {
	return Options{
		Overflow:    cfg.Sprites.Overflow,
		Logos:       cfg.Boot.Logos,
		LogoTimeout: time.Duration(cfg.Boot.LogoTimeoutMS) * time.Millisecond,
		FadeFrames:  cfg.Boot.FadeFrames,
		AI:          cfg.Players.AI,
	}
}

// Stats summarises the frames run so far.
type Stats struct {
	Frames      uint64
	Overflows   int
	Overruns    int
	LastSprites int
	LastEvents  int
	LastWords   int // size of the last sprite table transfer
	Topology    input.Topology
}

// Driver owns the main loop.
type Driver struct {
	rt      *game.Runtime
	mux     *input.Multiplexer
	machine *game.Machine
	hw      Hardware
	opts    Options
	logger  *log.Logger
	tracer  Tracer
	budget  time.Duration
	now     func() time.Time

	stats Stats
}

// New creates a driver. The runtime's sprite table and key queue must be
// the ones the multiplexer and collaborators use.
func New(rt *game.Runtime, mux *input.Multiplexer, machine *game.Machine, hw Hardware, opts Options, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Overflow == "" {
		opts.Overflow = config.OverflowDrop
	}
	if opts.FadeFrames <= 0 {
		opts.FadeFrames = game.DefaultFadeFrames
	}
	return &Driver{
		rt:      rt,
		mux:     mux,
		machine: machine,
		hw:      hw,
		opts:    opts,
		logger:  logger,
		budget:  time.Second / time.Duration(rt.Region.RefreshRate()),
		now:     time.Now,
	}
}

// SetTracer records every following frame into t. Nil disables tracing.
func (d *Driver) SetTracer(t Tracer) {
	d.tracer = t
}

// Stats returns the loop statistics.
func (d *Driver) Stats() Stats {
	return d.stats
}

// Runtime returns the runtime context the driver threads through the
// state machine.
func (d *Driver) Runtime() *game.Runtime {
	return d.rt
}

// Frame runs one iteration of the main loop and then waits for the next
// vertical blank, the only point where it blocks.
func (d *Driver) Frame(ctx context.Context) error {
	start := d.now()
	rt := d.rt

	rt.Sprites.BeginFrame()

	queued, dropped := rt.Keys.Len(), rt.Keys.Dropped()
	topo := d.mux.Poll(rt)
	events := rt.Keys.Len() - queued + rt.Keys.Dropped() - dropped

	overflowsBefore := rt.Sprites.Overflows()
	d.machine.Step(rt)
	overflows := rt.Sprites.Overflows() - overflowsBefore

	req := rt.Sprites.EndFrame()

	work := d.now().Sub(start)
	overrun := work > d.budget
	d.account(topo, req, events, overflows, overrun)
	d.trace(ctx, topo, events, overflows, work, overrun)

	if overflows > 0 {
		if d.opts.Overflow == config.OverflowFatal {
			return fmt.Errorf("frame: %d dropped sprites in frame %d: %w", overflows, rt.Frame, sprite.ErrCapacityExceeded)
		}
		d.logger.Warn("sprite table full", "frame", rt.Frame, "dropped", overflows, "capacity", rt.Sprites.Capacity())
	}
	if overrun {
		d.logger.Debug("frame overran refresh period", "frame", rt.Frame, "work", work, "budget", d.budget)
	}

	rt.Frame++
	if err := d.hw.VSync.WaitVBlank(ctx); err != nil {
		return fmt.Errorf("frame: wait for vblank: %w", err)
	}
	return nil
}

func (d *Driver) account(topo input.Topology, req sprite.Transfer, events, overflows int, overrun bool) {
	if topo != d.stats.Topology || d.stats.Frames == 0 {
		d.logger.Info("controller topology", "topology", topo)
	}
	d.stats.Frames++
	d.stats.Topology = topo
	d.stats.LastEvents = events
	d.stats.LastSprites = d.rt.Sprites.Used()
	d.stats.Overflows += overflows
	d.stats.LastWords = req.Words
	if overrun {
		d.stats.Overruns++
	}
}

func (d *Driver) trace(ctx context.Context, topo input.Topology, events, overflows int, work time.Duration, overrun bool) {
	if d.tracer == nil {
		return
	}
	err := d.tracer.RecordFrame(ctx, storage.FrameRecord{
		Frame:     d.rt.Frame,
		State:     d.machine.State().String(),
		Topology:  topo.String(),
		KeyEvents: events,
		Sprites:   d.rt.Sprites.Used(),
		Overflows: overflows,
		Work:      work,
		Overrun:   overrun,
	})
	if err != nil {
		d.logger.Error("frame trace disabled", "error", err)
		d.tracer = nil
	}
}

// Run loops Frame until ctx is cancelled or a frame fails. The console
// itself never leaves this loop; cancellation only exists for the host.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("frame loop started", "region", d.rt.Region, "budget", d.budget)
	for {
		if ctx.Err() != nil {
			d.logger.Info("frame loop stopped", "frames", d.stats.Frames)
			return nil
		}
		if err := d.Frame(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				d.logger.Info("frame loop stopped", "frames", d.stats.Frames)
				return nil
			}
			return err
		}
	}
}
