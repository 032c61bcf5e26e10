package input

import "github.com/vovakirdan/jumpnbump/internal/core"

// monitored lists the buttons turned into key events, in push order.
var monitored = []struct {
	button core.Button
	key    core.KeyCode
}{
	{core.ButtonA, core.KeyPL1Jump},
	{core.ButtonLeft, core.KeyPL1Left},
	{core.ButtonRight, core.KeyPL1Right},
}

// EventsPerPlayer is how many key events one human slot produces per poll.
const EventsPerPlayer = 3

// Config controls the multiplexer.
type Config struct {
	// LegacyAIGuard reproduces the cartridge's guard aliasing for the
	// fourth multi-tap slot.
	LegacyAIGuard bool
}

// Multiplexer reads every routed pad once per frame and pushes key events
// for the human slots.
type Multiplexer struct {
	ports Ports
	sink  KeySink
	cfg   Config
}

// NewMultiplexer creates a multiplexer reading ports and pushing into sink.
func NewMultiplexer(ports Ports, sink KeySink, cfg Config) *Multiplexer {
	return &Multiplexer{ports: ports, sink: sink, cfg: cfg}
}

// Poll samples the controllers. The topology is detected on every call so
// pads can be hot-plugged between frames. It returns the topology used.
func (m *Multiplexer) Poll(ai AIFlags) Topology {
	topo := DetectTopology(m.ports)
	for _, r := range Routes(topo, m.cfg.LegacyAIGuard) {
		if ai.IsAI(r.Guard) {
			continue
		}
		m.emit(r.Slot, m.ports.ReadPad(r.Pad))
	}
	return topo
}

func (m *Multiplexer) emit(slot core.PlayerID, state core.Button) {
	for _, b := range monitored {
		ev := KeyEvent{
			Code:    core.KeyFor(b.key, slot),
			Pressed: state&b.button != 0,
		}
		m.sink.AddKey(ev.Pack())
	}
}

// AnyPressed reports whether any button in mask is held on any pad.
func (m *Multiplexer) AnyPressed(mask core.Button) bool {
	for pad := core.Joy1; pad < core.NumPads; pad++ {
		if m.ports.ReadPad(pad)&mask != 0 {
			return true
		}
	}
	return false
}

// EnableHubs turns on multi-tap reading for every port that has a hub.
// It returns how many hubs were found.
func (m *Multiplexer) EnableHubs() int {
	n := 0
	for _, port := range []core.Port{core.Port1, core.Port2} {
		if m.ports.PortType(port) == core.PortMultiTap {
			m.ports.EnableMultiTap(port)
			n++
		}
	}
	return n
}
