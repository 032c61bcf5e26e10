package input

import "github.com/vovakirdan/jumpnbump/internal/core"

// Topology is the controller arrangement seen during one poll.
type Topology int

const (
	// TopologyStandalone means plain pads on port 1 and port 2.
	TopologyStandalone Topology = iota
	// TopologyMultiTapPort1 means a multi-tap hub on port 1.
	TopologyMultiTapPort1
	// TopologyMultiTapPort2 means a multi-tap hub on port 2 (and none on port 1).
	TopologyMultiTapPort2
)

// String returns a human-readable name for the topology.
func (t Topology) String() string {
	switch t {
	case TopologyStandalone:
		return "standalone"
	case TopologyMultiTapPort1:
		return "multitap-port1"
	case TopologyMultiTapPort2:
		return "multitap-port2"
	default:
		return "unknown"
	}
}

// DetectTopology derives the topology from the two physical ports.
// A hub on port 1 wins over one on port 2.
func DetectTopology(p Ports) Topology {
	switch {
	case p.PortType(core.Port1) == core.PortMultiTap:
		return TopologyMultiTapPort1
	case p.PortType(core.Port2) == core.PortMultiTap:
		return TopologyMultiTapPort2
	default:
		return TopologyStandalone
	}
}

// Route connects a logical player slot to the pad it reads. Guard is the
// slot whose AI flag suppresses the route; it equals Slot except in the
// legacy table.
type Route struct {
	Slot  core.PlayerID
	Pad   core.Pad
	Guard core.PlayerID
}

func straight(slot core.PlayerID, pad core.Pad) Route {
	return Route{Slot: slot, Pad: pad, Guard: slot}
}

// routeTable maps each topology to its routes. Without a hub only slots 0
// and 1 can be reached; slots 2 and 3 get no input at all.
var routeTable = map[Topology][]Route{
	TopologyStandalone: {
		straight(core.Player1, core.Joy1),
		straight(core.Player2, core.Joy2),
	},
	TopologyMultiTapPort1: {
		straight(core.Player1, core.Joy1),
		straight(core.Player2, core.Joy3),
		straight(core.Player3, core.Joy4),
		straight(core.Player4, core.Joy5),
	},
	TopologyMultiTapPort2: {
		straight(core.Player1, core.Joy2),
		straight(core.Player2, core.Joy6),
		straight(core.Player3, core.Joy7),
		straight(core.Player4, core.Joy8),
	},
}

// Routes returns the routes of a topology. With legacyGuard set, the
// fourth hub slot is guarded by the third slot's AI flag, reproducing how
// the shipped cartridge behaves: player 4 is only read when player 3 is
// human, whatever player 4's own flag says.
func Routes(t Topology, legacyGuard bool) []Route {
	base := routeTable[t]
	out := make([]Route, len(base))
	copy(out, base)
	if legacyGuard && t != TopologyStandalone {
		for i := range out {
			if out[i].Slot == core.Player4 {
				out[i].Guard = core.Player3
			}
		}
	}
	return out
}
