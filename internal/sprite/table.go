package sprite

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the hardware sprite limit in 320 pixel wide mode.
const DefaultCapacity = 80

// MaxCapacity is the largest table the 7-bit link field can address.
const MaxCapacity = 127

// DefaultTableAddr is the VRAM address of the sprite attribute table.
const DefaultTableAddr uint16 = 0xF800

// ErrCapacityExceeded is returned by Append when the table is full.
var ErrCapacityExceeded = errors.New("sprite: table capacity exceeded")

// Transfer is one DMA request from the table to VRAM.
// Data aliases the table's buffer and is valid until the next EndFrame.
type Transfer struct {
	Dest  uint16 // VRAM destination address
	Data  []byte // source bytes, Words*2 long
	Words int    // length in 16-bit units
}

// Count returns how many descriptors the transfer covers.
func (t Transfer) Count() int {
	return t.Words / DescriptorWords
}

// DMA queues transfers to video memory. Requests complete before the next
// vertical blank returns; QueueDMA must not block.
type DMA interface {
	QueueDMA(req Transfer)
}

// Table is the shared sprite descriptor arena for one frame.
// The cursor starts at 1 each frame: it is both the next free slot plus
// one and the link value the appended descriptor gets.
type Table struct {
	entries   []Descriptor
	buf       []byte
	cursor    int
	addr      uint16
	dma       DMA
	overflows int
}

// NewTable creates a table with room for capacity descriptors.
func NewTable(capacity int, addr uint16, dma DMA) (*Table, error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("sprite: capacity %d out of range 1..%d", capacity, MaxCapacity)
	}
	if dma == nil {
		return nil, errors.New("sprite: nil DMA queue")
	}
	t := &Table{
		entries: make([]Descriptor, capacity),
		buf:     make([]byte, capacity*DescriptorBytes),
		addr:    addr,
		dma:     dma,
	}
	t.BeginFrame()
	return t, nil
}

// BeginFrame resets the cursor for a new frame. Calling it again before
// any Append has no further effect.
func (t *Table) BeginFrame() {
	t.cursor = 1
}

// Append writes d at the cursor and advances it. The link field of d is
// overwritten to chain to the next slot. When the table is full the
// descriptor is discarded and ErrCapacityExceeded is returned.
func (t *Table) Append(d Descriptor) error {
	if t.cursor > len(t.entries) {
		t.overflows++
		return fmt.Errorf("sprite: append at slot %d: %w", t.cursor-1, ErrCapacityExceeded)
	}
	d.Link = uint8(t.cursor)
	t.entries[t.cursor-1] = d
	t.cursor++
	return nil
}

// Used returns how many descriptors have been appended this frame.
func (t *Table) Used() int {
	return t.cursor - 1
}

// Cursor returns the current cursor position.
func (t *Table) Cursor() int {
	return t.cursor
}

// Capacity returns the size of the arena.
func (t *Table) Capacity() int {
	return len(t.entries)
}

// Remaining returns how many more descriptors fit this frame.
func (t *Table) Remaining() int {
	return len(t.entries) - t.Used()
}

// Overflows returns the total number of rejected appends since creation.
func (t *Table) Overflows() int {
	return t.overflows
}

// Descriptor returns entry i of the arena.
func (t *Table) Descriptor(i int) Descriptor {
	return t.entries[i]
}

// EndFrame terminates the chain and queues exactly one DMA transfer.
// With no sprites, entry 0 is moved off screen and terminated so the
// hardware always reads a valid one-entry chain.
func (t *Table) EndFrame() Transfer {
	used := t.Used()
	count := used
	if used > 0 {
		t.entries[used-1].Link = 0
	} else {
		t.entries[0].Y = 0
		t.entries[0].Link = 0
		count = 1
	}

	for i := 0; i < count; i++ {
		t.entries[i].Encode(t.buf[i*DescriptorBytes:])
	}

	req := Transfer{
		Dest:  t.addr,
		Data:  t.buf[:count*DescriptorBytes],
		Words: count * DescriptorWords,
	}
	t.dma.QueueDMA(req)
	return req
}
