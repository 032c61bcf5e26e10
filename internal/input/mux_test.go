package input

import (
	"testing"

	"github.com/vovakirdan/jumpnbump/internal/core"
)

// fakePorts is a scripted controller setup.
type fakePorts struct {
	types   [2]core.PortType
	pads    [core.NumPads]core.Button
	reads   []core.Pad
	enabled []core.Port
}

func (f *fakePorts) PortType(port core.Port) core.PortType { return f.types[port] }

func (f *fakePorts) ReadPad(pad core.Pad) core.Button {
	f.reads = append(f.reads, pad)
	return f.pads[pad]
}

func (f *fakePorts) EnableMultiTap(port core.Port) { f.enabled = append(f.enabled, port) }

// sliceSink records packed codes.
type sliceSink []uint16

func (s *sliceSink) AddKey(code uint16) { *s = append(*s, code) }

// aiSet marks slots as AI.
type aiSet map[core.PlayerID]bool

func (a aiSet) IsAI(id core.PlayerID) bool { return a[id] }

// slotsIn returns which player slots produced events, by key code stride.
func slotsIn(codes []uint16) map[core.PlayerID]int {
	out := make(map[core.PlayerID]int)
	for _, c := range codes {
		ev := Unpack(c)
		out[core.PlayerID(ev.Code/core.KeySlotStride)]++
	}
	return out
}

func TestKeyEventPack(t *testing.T) {
	tests := []struct {
		ev       KeyEvent
		expected uint16
	}{
		{KeyEvent{Code: core.KeyPL1Jump, Pressed: true}, 0x0003},
		{KeyEvent{Code: core.KeyPL1Jump, Pressed: false}, 0x8003},
		{KeyEvent{Code: 0x32, Pressed: false}, 0x8032},
	}
	for _, tc := range tests {
		if got := tc.ev.Pack(); got != tc.expected {
			t.Errorf("Pack(%+v) = %#04x, expected %#04x", tc.ev, got, tc.expected)
		}
		if back := Unpack(tc.expected); back != tc.ev {
			t.Errorf("Unpack(%#04x) = %+v, expected %+v", tc.expected, back, tc.ev)
		}
	}
}

func TestPollStandaloneOnlyFirstTwoSlots(t *testing.T) {
	ports := &fakePorts{}
	var sink sliceSink
	m := NewMultiplexer(ports, &sink, Config{})

	topo := m.Poll(aiSet{})
	if topo != TopologyStandalone {
		t.Fatalf("Poll() topology = %v, expected standalone", topo)
	}
	if len(sink) != 2*EventsPerPlayer {
		t.Fatalf("got %d events, expected %d", len(sink), 2*EventsPerPlayer)
	}

	// Known limitation: players 3 and 4 cannot be reached without a hub
	slots := slotsIn(sink)
	if slots[core.Player3] != 0 || slots[core.Player4] != 0 {
		t.Errorf("slots 2/3 produced events without a multi-tap: %v", slots)
	}
	if ports.reads[0] != core.Joy1 || ports.reads[1] != core.Joy2 {
		t.Errorf("read pads %v, expected [Joy1 Joy2]", ports.reads)
	}
}

func TestPollEventOrderAndReleasedFlag(t *testing.T) {
	ports := &fakePorts{}
	ports.pads[core.Joy1] = core.ButtonA | core.ButtonRight
	var sink sliceSink
	m := NewMultiplexer(ports, &sink, Config{})

	m.Poll(aiSet{core.Player2: true})

	expected := []uint16{0x0003, 0x8001, 0x0002}
	if len(sink) != len(expected) {
		t.Fatalf("got %d events, expected %d", len(sink), len(expected))
	}
	for i := range expected {
		if sink[i] != expected[i] {
			t.Errorf("event %d = %#04x, expected %#04x", i, sink[i], expected[i])
		}
	}
}

func TestPollAbsentPadIsAllReleased(t *testing.T) {
	ports := &fakePorts{}
	var sink sliceSink
	NewMultiplexer(ports, &sink, Config{}).Poll(aiSet{})
	for _, c := range sink {
		if c&core.KeyReleasedFlag == 0 {
			t.Errorf("absent pad produced pressed event %#04x", c)
		}
	}
}

func TestPollMultiTapKeyStride(t *testing.T) {
	tests := []struct {
		name  string
		types [2]core.PortType
		pads  []core.Pad
		topo  Topology
	}{
		{"hub on port 1", [2]core.PortType{core.PortMultiTap, core.PortStandalone},
			[]core.Pad{core.Joy1, core.Joy3, core.Joy4, core.Joy5}, TopologyMultiTapPort1},
		{"hub on port 2", [2]core.PortType{core.PortStandalone, core.PortMultiTap},
			[]core.Pad{core.Joy2, core.Joy6, core.Joy7, core.Joy8}, TopologyMultiTapPort2},
		{"hubs on both ports", [2]core.PortType{core.PortMultiTap, core.PortMultiTap},
			[]core.Pad{core.Joy1, core.Joy3, core.Joy4, core.Joy5}, TopologyMultiTapPort1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ports := &fakePorts{types: tc.types}
			for _, p := range tc.pads {
				ports.pads[p] = core.ButtonA
			}
			var sink sliceSink
			m := NewMultiplexer(ports, &sink, Config{})

			if topo := m.Poll(aiSet{}); topo != tc.topo {
				t.Fatalf("Poll() topology = %v, expected %v", topo, tc.topo)
			}
			if len(sink) != 4*EventsPerPlayer {
				t.Fatalf("got %d events, expected %d", len(sink), 4*EventsPerPlayer)
			}
			for k := 0; k < 4; k++ {
				jump := Unpack(sink[k*EventsPerPlayer])
				expected := core.KeyPL1Jump + 0x10*core.KeyCode(k)
				if jump.Code != expected || !jump.Pressed {
					t.Errorf("slot %d jump = %+v, expected code %#x pressed", k, jump, expected)
				}
			}
			for i, p := range tc.pads {
				if ports.reads[i] != p {
					t.Errorf("read %d = pad %d, expected %d", i, ports.reads[i], p)
				}
			}
		})
	}
}

func TestPollSkipsAISlots(t *testing.T) {
	ports := &fakePorts{types: [2]core.PortType{core.PortMultiTap, core.PortStandalone}}
	var sink sliceSink
	m := NewMultiplexer(ports, &sink, Config{})

	m.Poll(aiSet{core.Player1: true, core.Player3: true})
	slots := slotsIn(sink)
	if slots[core.Player1] != 0 || slots[core.Player3] != 0 {
		t.Errorf("AI slots produced events: %v", slots)
	}
	if slots[core.Player2] != EventsPerPlayer || slots[core.Player4] != EventsPerPlayer {
		t.Errorf("human slots missing events: %v", slots)
	}
}

// The cartridge guards the fourth hub slot with the third slot's AI flag.
// These cases pin both the legacy behaviour and the corrected one so a
// change to either table shows up here.
func TestPollFourthSlotGuard(t *testing.T) {
	tests := []struct {
		name      string
		legacy    bool
		ai        aiSet
		wantSlot3 int
		wantSlot4 int
	}{
		{"legacy: slot 3 AI silences slot 4", true, aiSet{core.Player3: true}, 0, 0},
		{"legacy: slot 4 AI is ignored", true, aiSet{core.Player4: true}, EventsPerPlayer, EventsPerPlayer},
		{"fixed: slot 3 AI leaves slot 4", false, aiSet{core.Player3: true}, 0, EventsPerPlayer},
		{"fixed: slot 4 AI silences slot 4", false, aiSet{core.Player4: true}, EventsPerPlayer, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, types := range [][2]core.PortType{
				{core.PortMultiTap, core.PortStandalone},
				{core.PortStandalone, core.PortMultiTap},
			} {
				ports := &fakePorts{types: types}
				var sink sliceSink
				NewMultiplexer(ports, &sink, Config{LegacyAIGuard: tc.legacy}).Poll(tc.ai)

				slots := slotsIn(sink)
				if slots[core.Player3] != tc.wantSlot3 || slots[core.Player4] != tc.wantSlot4 {
					t.Errorf("ports %v: slot3=%d slot4=%d, expected %d/%d",
						types, slots[core.Player3], slots[core.Player4], tc.wantSlot3, tc.wantSlot4)
				}
			}
		})
	}
}

func TestPollRedetectsTopology(t *testing.T) {
	ports := &fakePorts{}
	var sink sliceSink
	m := NewMultiplexer(ports, &sink, Config{})

	if m.Poll(aiSet{}) != TopologyStandalone {
		t.Fatal("expected standalone before hot-plug")
	}
	ports.types[core.Port2] = core.PortMultiTap
	if m.Poll(aiSet{}) != TopologyMultiTapPort2 {
		t.Error("hub plugged between frames was not detected")
	}
}

func TestAnyPressedAndEnableHubs(t *testing.T) {
	ports := &fakePorts{types: [2]core.PortType{core.PortMultiTap, core.PortMultiTap}}
	m := NewMultiplexer(ports, &sliceSink{}, Config{})

	if m.AnyPressed(core.ButtonAll) {
		t.Error("AnyPressed() with no buttons held should be false")
	}
	ports.pads[core.Joy7] = core.ButtonStart
	if !m.AnyPressed(core.ButtonAll) {
		t.Error("AnyPressed() should see Start on Joy7")
	}
	if m.AnyPressed(core.ButtonA) {
		t.Error("AnyPressed(A) should ignore Start")
	}

	if n := m.EnableHubs(); n != 2 || len(ports.enabled) != 2 {
		t.Errorf("EnableHubs() = %d (enabled %v), expected 2", n, ports.enabled)
	}
}

func TestRoutesDoNotAliasTable(t *testing.T) {
	r := Routes(TopologyMultiTapPort1, true)
	r[0].Pad = core.Joy8
	if Routes(TopologyMultiTapPort1, false)[0].Pad != core.Joy1 {
		t.Error("Routes() returned the shared table")
	}
}
