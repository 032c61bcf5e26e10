package input

// DefaultQueueCapacity holds four frames worth of events for four players.
const DefaultQueueCapacity = EventsPerPlayer * 4 * 4

// Queue is a fixed size FIFO of key events. It is the key sink the
// gameplay code drains once per frame. Not safe for concurrent use.
type Queue struct {
	buf     []uint16
	head    int
	size    int
	dropped int
}

// NewQueue creates a queue holding up to capacity events.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{buf: make([]uint16, capacity)}
}

// AddKey appends a packed key code. When the queue is full the code is
// dropped and counted.
func (q *Queue) AddKey(code uint16) {
	if q.size == len(q.buf) {
		q.dropped++
		return
	}
	q.buf[(q.head+q.size)%len(q.buf)] = code
	q.size++
}

// Pop removes the oldest event.
func (q *Queue) Pop() (KeyEvent, bool) {
	if q.size == 0 {
		return KeyEvent{}, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return Unpack(v), true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return q.size
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Dropped returns how many events were lost to a full queue.
func (q *Queue) Dropped() int {
	return q.dropped
}

// Reset empties the queue.
func (q *Queue) Reset() {
	q.head = 0
	q.size = 0
}
