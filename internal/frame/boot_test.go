package frame

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/jumpnbump/internal/core"
)

func TestBootLogosTimeOut(t *testing.T) {
	r := newRig(t, 16, Options{
		Logos:       []string{"jnb", "sgdk"},
		LogoTimeout: 100 * time.Millisecond, // 6 frames at 60 Hz
		AI:          []bool{false, false, true, true},
	})

	if err := r.driver.Boot(context.Background()); err != nil {
		t.Fatalf("Boot() failed: %v", err)
	}
	if len(r.logos) != 2 || r.logos[0] != "jnb" || r.logos[1] != "sgdk" {
		t.Errorf("logos = %v", r.logos)
	}
	// 6 per logo plus the final flush
	if r.vblanks != 13 {
		t.Errorf("vblanks = %d, expected 13", r.vblanks)
	}
	if !r.driver.rt.IsAI(core.Player3) || r.driver.rt.IsAI(core.Player1) {
		t.Error("Boot() did not apply AI flags")
	}
	if len(r.transfers) != 1 || r.transfers[0].Count() != 1 {
		t.Errorf("boot should send one empty sprite table, got %+v", r.transfers)
	}
}

func TestBootLogoSkippedByPress(t *testing.T) {
	r := newRig(t, 16, Options{
		Logos:       []string{"jnb"},
		LogoTimeout: 5 * time.Second,
	})
	r.onVBlank = func(n int) {
		if n == 3 {
			r.pads[core.Joy2] = core.ButtonStart
		}
	}

	if err := r.driver.Boot(context.Background()); err != nil {
		t.Fatalf("Boot() failed: %v", err)
	}
	// Pressed after the third vblank, then the final flush
	if r.vblanks != 4 {
		t.Errorf("vblanks = %d, expected 4", r.vblanks)
	}
}

func TestBootIgnoresButtonHeldFromBefore(t *testing.T) {
	r := newRig(t, 16, Options{
		Logos:       []string{"jnb"},
		LogoTimeout: 100 * time.Millisecond,
	})
	r.pads[core.Joy1] = core.ButtonA

	if err := r.driver.Boot(context.Background()); err != nil {
		t.Fatalf("Boot() failed: %v", err)
	}
	if r.vblanks != 7 {
		t.Errorf("vblanks = %d, expected full timeout of 6 plus flush", r.vblanks)
	}
}

func TestBootEnablesHubs(t *testing.T) {
	r := newRig(t, 16, Options{})
	r.types = [2]core.PortType{core.PortMultiTap, core.PortStandalone}
	if err := r.driver.Boot(context.Background()); err != nil {
		t.Fatal(err)
	}
	hubs := 0
	for _, c := range r.calls {
		if c == "hub" {
			hubs++
		}
	}
	if hubs != 1 {
		t.Errorf("enabled %d hubs, expected 1", hubs)
	}
}

func TestBootCancelled(t *testing.T) {
	r := newRig(t, 16, Options{Logos: []string{"jnb"}, LogoTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.driver.Boot(ctx); err == nil {
		t.Error("Boot() with cancelled context should fail")
	}
}
