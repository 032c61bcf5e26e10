// Package input samples the controller ports once per frame and turns the
// button state of every human player into key events.
package input

import "github.com/vovakirdan/jumpnbump/internal/core"

// KeyEvent is an abstract key transition pushed into the key queue.
type KeyEvent struct {
	Code    core.KeyCode
	Pressed bool
}

// Pack encodes the event for the key sink: low 15 bits are the key code,
// bit 15 is set when the key is released.
func (e KeyEvent) Pack() uint16 {
	v := uint16(e.Code) & 0x7fff
	if !e.Pressed {
		v |= core.KeyReleasedFlag
	}
	return v
}

// Unpack decodes a packed key code.
func Unpack(v uint16) KeyEvent {
	return KeyEvent{
		Code:    core.KeyCode(v & 0x7fff),
		Pressed: v&core.KeyReleasedFlag == 0,
	}
}

// KeySink receives packed key codes. It must accept 3 events per human
// player per frame without blocking.
type KeySink interface {
	AddKey(code uint16)
}

// Ports is the console's controller hardware.
type Ports interface {
	// PortType reports what is plugged into a physical port.
	PortType(port core.Port) core.PortType

	// ReadPad returns the pressed buttons of a pad. Absent pads read 0.
	ReadPad(pad core.Pad) core.Button

	// EnableMultiTap switches a port into multi-tap reading mode.
	EnableMultiTap(port core.Port)
}

// AIFlags tells the multiplexer which slots are computer controlled.
type AIFlags interface {
	IsAI(id core.PlayerID) bool
}
