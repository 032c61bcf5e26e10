package input

import (
	"testing"

	"github.com/vovakirdan/jumpnbump/internal/core"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	q.AddKey(KeyEvent{Code: 1, Pressed: true}.Pack())
	q.AddKey(KeyEvent{Code: 2}.Pack())

	ev, ok := q.Pop()
	if !ok || ev.Code != 1 || !ev.Pressed {
		t.Errorf("Pop() = %+v, %v, expected code 1 pressed", ev, ok)
	}
	ev, ok = q.Pop()
	if !ok || ev.Code != 2 || ev.Pressed {
		t.Errorf("Pop() = %+v, %v, expected code 2 released", ev, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should fail")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	for i := 0; i < 5; i++ {
		q.AddKey(uint16(i))
	}
	if q.Len() != 2 || q.Dropped() != 3 {
		t.Errorf("Len()=%d Dropped()=%d, expected 2/3", q.Len(), q.Dropped())
	}

	// Wraps around after draining
	q.Pop()
	q.AddKey(9)
	q.Pop()
	ev, _ := q.Pop()
	if ev.Code != 9 {
		t.Errorf("Pop() after wrap = %d, expected 9", ev.Code)
	}
}

func TestQueueHoldsOneFullPoll(t *testing.T) {
	q := NewQueue(0)
	if q.Cap() != DefaultQueueCapacity {
		t.Fatalf("Cap() = %d, expected %d", q.Cap(), DefaultQueueCapacity)
	}

	ports := &fakePorts{types: [2]core.PortType{core.PortMultiTap, core.PortStandalone}}
	m := NewMultiplexer(ports, q, Config{})
	m.Poll(aiSet{})
	if q.Len() != core.MaxPlayers*EventsPerPlayer || q.Dropped() != 0 {
		t.Errorf("Len()=%d Dropped()=%d after full poll", q.Len(), q.Dropped())
	}

	q.Reset()
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Reset", q.Len())
	}
}
