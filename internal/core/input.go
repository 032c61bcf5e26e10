package core

// Button is a controller state bitmask. A set bit means pressed.
type Button uint16

// Pad buttons, matching the console's joypad read layout.
const (
	ButtonUp    Button = 0x0001
	ButtonDown  Button = 0x0002
	ButtonLeft  Button = 0x0004
	ButtonRight Button = 0x0008
	ButtonB     Button = 0x0010
	ButtonC     Button = 0x0020
	ButtonA     Button = 0x0040
	ButtonStart Button = 0x0080
	ButtonZ     Button = 0x0100
	ButtonY     Button = 0x0200
	ButtonX     Button = 0x0400
	ButtonMode  Button = 0x0800

	ButtonAll Button = 0x0FFF
)

// Has reports whether every bit of mask is pressed.
func (b Button) Has(mask Button) bool {
	return b&mask == mask
}

// Port is a physical controller port on the console.
type Port int

const (
	Port1 Port = iota
	Port2
)

// PortType is what the console detects plugged into a port.
type PortType int

const (
	PortStandalone PortType = iota
	PortMultiTap
	PortNone
)

// String returns the config name of the port type.
func (t PortType) String() string {
	switch t {
	case PortStandalone:
		return "standalone"
	case PortMultiTap:
		return "multitap"
	case PortNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParsePortType converts a config string to a PortType.
func ParsePortType(s string) (PortType, bool) {
	switch s {
	case "standalone", "":
		return PortStandalone, true
	case "multitap":
		return PortMultiTap, true
	case "none":
		return PortNone, true
	}
	return PortNone, false
}

// Pad is a logical joypad address. Joy1 and Joy2 are the plain ports,
// Joy3..Joy5 are the extra sub-ports of a multi-tap on port 1 and
// Joy6..Joy8 those of a multi-tap on port 2.
type Pad int

const (
	Joy1 Pad = iota
	Joy2
	Joy3
	Joy4
	Joy5
	Joy6
	Joy7
	Joy8

	NumPads = 8
)

// KeyCode is an abstract key identity pushed into the key queue.
type KeyCode uint16

// Player 1 key codes. Player k uses the same codes plus KeySlotStride*k.
const (
	KeyPL1Left  KeyCode = 0x01
	KeyPL1Right KeyCode = 0x02
	KeyPL1Jump  KeyCode = 0x03

	KeySlotStride KeyCode = 0x10
)

// KeyReleasedFlag is set in a packed key code when the key is up.
const KeyReleasedFlag uint16 = 0x8000

// KeyFor returns the key code of base for the given player slot.
func KeyFor(base KeyCode, id PlayerID) KeyCode {
	return base + KeySlotStride*KeyCode(id)
}

// SplitKey is the inverse of KeyFor.
func SplitKey(k KeyCode) (KeyCode, PlayerID) {
	return k % KeySlotStride, PlayerID(k / KeySlotStride)
}
