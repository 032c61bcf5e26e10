package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
	"github.com/vovakirdan/jumpnbump/internal/storage"
)

func newTestConsole(port1, port2 core.PortType) (*Console, *time.Time) {
	c := NewConsole(port1, port2, log.New(io.Discard))
	clock := time.Unix(1000, 0)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestConsolePadConnections(t *testing.T) {
	tests := []struct {
		name    string
		port1   core.PortType
		port2   core.PortType
		enable  bool
		pad     core.Pad
		visible bool
	}{
		{"standalone joy1", core.PortStandalone, core.PortStandalone, false, core.Joy1, true},
		{"standalone sub-port", core.PortStandalone, core.PortStandalone, false, core.Joy3, false},
		{"empty port", core.PortNone, core.PortStandalone, false, core.Joy1, false},
		{"hub not enabled", core.PortMultiTap, core.PortStandalone, false, core.Joy4, false},
		{"hub enabled", core.PortMultiTap, core.PortStandalone, true, core.Joy4, true},
		{"hub first pad always", core.PortMultiTap, core.PortStandalone, false, core.Joy1, true},
		{"port 2 hub", core.PortStandalone, core.PortMultiTap, true, core.Joy8, true},
		{"out of range", core.PortMultiTap, core.PortMultiTap, true, core.Pad(9), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestConsole(tc.port1, tc.port2)
			if tc.enable {
				c.EnableMultiTap(core.Port1)
				c.EnableMultiTap(core.Port2)
			}
			c.Press(tc.pad, core.ButtonA)
			got := c.ReadPad(tc.pad) == core.ButtonA
			if got != tc.visible {
				t.Errorf("ReadPad(%d) visible = %v, expected %v", tc.pad, got, tc.visible)
			}
		})
	}
}

func TestConsoleEnableMultiTapNeedsHub(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	c.EnableMultiTap(core.Port1)
	c.Press(core.Joy3, core.ButtonA)
	if c.ReadPad(core.Joy3) != 0 {
		t.Error("enabling a hub on a standalone port exposed sub-ports")
	}
}

func TestConsoleKeyHold(t *testing.T) {
	c, clock := newTestConsole(core.PortStandalone, core.PortStandalone)

	c.Press(core.Joy1, core.ButtonLeft)
	*clock = clock.Add(HoldTime / 2)
	c.Press(core.Joy1, core.ButtonA)

	if got := c.ReadPad(core.Joy1); got != core.ButtonLeft|core.ButtonA {
		t.Errorf("ReadPad() = %#x, expected left|A", got)
	}

	*clock = clock.Add(HoldTime / 2)
	if got := c.ReadPad(core.Joy1); got != core.ButtonA {
		t.Errorf("ReadPad() = %#x after left expired, expected A", got)
	}

	// Repeat extends the hold
	c.Press(core.Joy1, core.ButtonA)
	*clock = clock.Add(HoldTime - time.Millisecond)
	if got := c.ReadPad(core.Joy1); got != core.ButtonA {
		t.Errorf("ReadPad() = %#x, expected repeated A still held", got)
	}
	*clock = clock.Add(time.Millisecond)
	if got := c.ReadPad(core.Joy1); got != 0 {
		t.Errorf("ReadPad() = %#x, expected released", got)
	}
}

func TestConsoleDMAFlushOnVBlank(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	tbl, err := sprite.NewTable(8, sprite.DefaultTableAddr, c)
	if err != nil {
		t.Fatal(err)
	}

	tbl.BeginFrame()
	tbl.Append(sprite.Descriptor{X: 200, Y: 150})
	tbl.Append(sprite.Descriptor{X: 210, Y: 150})
	tbl.EndFrame()

	if chain := sprite.Chain(c.Snapshot(sprite.DefaultTableAddr, 8).SAT); len(chain) != 1 || chain[0].X != 0 {
		t.Fatalf("VRAM changed before vblank: %+v", chain)
	}

	c.VBlank()
	if err := c.WaitVBlank(context.Background()); err != nil {
		t.Fatalf("WaitVBlank() failed: %v", err)
	}

	chain := sprite.Chain(c.Snapshot(sprite.DefaultTableAddr, 8).SAT)
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, expected 2", len(chain))
	}
	if chain[1].X != 210 || chain[1].Link != 0 {
		t.Errorf("second entry = %+v, expected X=210 terminator", chain[1])
	}
}

func TestConsoleWaitVBlankBlocks(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)

	done := make(chan error, 1)
	go func() { done <- c.WaitVBlank(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitVBlank() returned before a vblank")
	case <-time.After(20 * time.Millisecond):
	}

	c.VBlank()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitVBlank() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitVBlank() did not return after VBlank()")
	}
}

func TestConsoleWaitVBlankCancel(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.WaitVBlank(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("WaitVBlank() = %v, expected context.Canceled", err)
	}
}

func TestConsoleVBlankDoesNotQueueTwice(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	c.VBlank()
	c.VBlank()
	if err := c.WaitVBlank(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.WaitVBlank(ctx); err == nil {
		t.Error("second WaitVBlank() consumed a vblank that should have been merged")
	}
}

func TestConsoleFade(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	brightness := func() int { return c.Snapshot(sprite.DefaultTableAddr, 1).Brightness }

	c.FadeIn(MaxBrightness * 2)
	for i := 0; i < MaxBrightness*2; i++ {
		c.VBlank()
	}
	if b := brightness(); b != MaxBrightness {
		t.Errorf("brightness = %d after fade in, expected %d", b, MaxBrightness)
	}

	c.FadeOut(MaxBrightness)
	for i := 0; i < 3; i++ {
		c.VBlank()
	}
	if b := brightness(); b != MaxBrightness-3 {
		t.Errorf("brightness = %d mid fade out, expected %d", b, MaxBrightness-3)
	}

	for i := 0; i < MaxBrightness; i++ {
		c.VBlank()
	}
	c.FadeIn(0)
	if b := brightness(); b != MaxBrightness {
		t.Errorf("brightness = %d after instant fade, expected %d", b, MaxBrightness)
	}
}

func TestConsoleFadeOutFinishesBeforeFadeIn(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	c.FadeIn(0)

	// Both fades are queued inside one frame, as on a menu confirm.
	c.FadeOut(30)
	c.FadeIn(30)

	var levels []int
	for i := 0; i < 60; i++ {
		c.VBlank()
		levels = append(levels, c.Snapshot(sprite.DefaultTableAddr, 1).Brightness)
	}

	darkAt := -1
	for i, b := range levels {
		if b == 0 {
			darkAt = i
			break
		}
	}
	if darkAt < 0 {
		t.Fatalf("screen never went dark: %v", levels)
	}
	for i := 1; i <= darkAt; i++ {
		if levels[i] > levels[i-1] {
			t.Fatalf("brightness rose before the fade out finished: %v", levels)
		}
	}
	if last := levels[len(levels)-1]; last != MaxBrightness {
		t.Errorf("brightness = %d after both fades, expected %d (%v)", last, MaxBrightness, levels)
	}
}

func TestConsoleHideLogoWaitsForFadeOut(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	c.ShowLogo("jnb")
	c.FadeIn(0)

	c.FadeOut(MaxBrightness)
	c.HideLogo()
	c.ShowLogo("sgdk")
	c.FadeIn(MaxBrightness)

	for i := 0; i < MaxBrightness-1; i++ {
		c.VBlank()
		if snap := c.Snapshot(sprite.DefaultTableAddr, 1); snap.Logo != "jnb" {
			t.Fatalf("logo = %q at brightness %d, expected jnb until the fade out ends", snap.Logo, snap.Brightness)
		}
	}

	c.VBlank()
	snap := c.Snapshot(sprite.DefaultTableAddr, 1)
	if snap.Brightness != 0 || snap.Logo != "sgdk" {
		t.Errorf("Snapshot() = brightness %d logo %q, expected 0 and sgdk", snap.Brightness, snap.Logo)
	}
}

func TestConsoleSplashAndMusic(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)

	c.ShowLogo("sgdk")
	c.Start("jump_pal")
	snap := c.Snapshot(sprite.DefaultTableAddr, 1)
	if snap.Logo != "sgdk" || !snap.Playing || snap.Track != "jump_pal" {
		t.Errorf("Snapshot() = %+v", snap)
	}

	c.HideLogo()
	c.Stop()
	snap = c.Snapshot(sprite.DefaultTableAddr, 1)
	if snap.Logo != "" || snap.Playing {
		t.Errorf("Snapshot() = %+v after hide/stop", snap)
	}
}

type failingTracer struct{ calls int }

func (f *failingTracer) RecordFrame(context.Context, storage.FrameRecord) error {
	f.calls++
	return errors.New("closed")
}

func TestConsoleRecordFrame(t *testing.T) {
	c, _ := newTestConsole(core.PortStandalone, core.PortStandalone)
	next := &failingTracer{}
	c.SetTracer(next)

	ctx := context.Background()
	for i := uint64(0); i < 3; i++ {
		if err := c.RecordFrame(ctx, storage.FrameRecord{Frame: i, State: "menu"}); err != nil {
			t.Fatalf("RecordFrame() = %v, expected nil", err)
		}
	}
	if next.calls != 1 {
		t.Errorf("forward tracer called %d times, expected 1", next.calls)
	}
	if last := c.Snapshot(sprite.DefaultTableAddr, 1).Last; last.Frame != 2 {
		t.Errorf("last frame = %d, expected 2", last.Frame)
	}
}
