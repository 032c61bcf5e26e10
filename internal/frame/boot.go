package frame

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/jumpnbump/internal/core"
)

// Boot prepares the console before the main loop: enables multi-tap
// hubs, shows the logos and resets the player slots.
func (d *Driver) Boot(ctx context.Context) error {
	if hubs := d.mux.EnableHubs(); hubs > 0 {
		d.logger.Info("multi-tap enabled", "hubs", hubs)
	}

	for _, logo := range d.opts.Logos {
		if err := d.showLogo(ctx, logo); err != nil {
			return fmt.Errorf("frame: logo %s: %w", logo, err)
		}
	}

	d.rt.SetAI(d.opts.AI)
	d.logger.Debug("player slots ready", "ai", d.opts.AI)

	// Send an empty sprite table so the hardware never reads garbage.
	d.rt.Sprites.BeginFrame()
	d.rt.Sprites.EndFrame()
	if err := d.hw.VSync.WaitVBlank(ctx); err != nil {
		return fmt.Errorf("frame: wait for vblank: %w", err)
	}
	return nil
}

func (d *Driver) showLogo(ctx context.Context, name string) error {
	d.hw.Splash.ShowLogo(name)
	d.hw.Display.FadeIn(d.opts.FadeFrames)

	pressed, err := d.waitPress(ctx, d.opts.LogoTimeout)
	if err != nil {
		return err
	}
	d.logger.Debug("logo done", "logo", name, "skipped", pressed)

	d.hw.Display.FadeOut(d.opts.FadeFrames)
	d.hw.Splash.HideLogo()
	return nil
}

// waitPress waits for a new press of any button on any pad, or for
// timeout to elapse, counted in vertical blanks. It reports whether a
// button ended the wait.
func (d *Driver) waitPress(ctx context.Context, timeout time.Duration) (bool, error) {
	frames := int(timeout * time.Duration(d.rt.Region.RefreshRate()) / time.Second)
	held := d.mux.AnyPressed(core.ButtonAll)
	for i := 0; i < frames; i++ {
		down := d.mux.AnyPressed(core.ButtonAll)
		if down && !held {
			return true, nil
		}
		held = down
		if err := d.hw.VSync.WaitVBlank(ctx); err != nil {
			return false, err
		}
	}
	return false, nil
}
