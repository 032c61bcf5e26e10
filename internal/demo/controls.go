// Package demo provides a title menu and a small arena level so the
// console core can be played end to end on the host.
package demo

import (
	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/input"
)

// Control is the held state of one player's keys.
type Control struct {
	Left, Right, Jump bool

	// JumpEdge is set on the frame the jump key went down.
	JumpEdge bool
}

// Controls tracks the keys of every slot from the key queue.
type Controls [core.MaxPlayers]Control

// Drain consumes every queued key event.
func (c *Controls) Drain(q *input.Queue) {
	for i := range c {
		c[i].JumpEdge = false
	}
	for {
		ev, ok := q.Pop()
		if !ok {
			return
		}
		base, id := core.SplitKey(ev.Code)
		if !id.Valid() {
			continue
		}
		ctl := &c[id]
		switch base {
		case core.KeyPL1Left:
			ctl.Left = ev.Pressed
		case core.KeyPL1Right:
			ctl.Right = ev.Pressed
		case core.KeyPL1Jump:
			if ev.Pressed && !ctl.Jump {
				ctl.JumpEdge = true
			}
			ctl.Jump = ev.Pressed
		}
	}
}

// Reset releases every key.
func (c *Controls) Reset() {
	*c = Controls{}
}
