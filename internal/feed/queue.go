// Package feed implements the producer/consumer stages between a media
// source and the line composer: demux -> packet queues, packet queues ->
// decoded frame double-buffers, decoded -> rescaled/resampled frame
// double-buffers. Each queue owns its own sync.Mutex and two sync.Cond
// (not-empty / not-full) so a wakeup on one queue never disturbs waiters
// on another.
package feed

import (
	"sync"

	"github.com/SarahRoseLives/hacktv/internal/herr"
)

// QueueState is the lifecycle state of a PacketQueue.
type QueueState int

const (
	Open QueueState = iota
	EOF
	Aborted
)

// DefaultQueueCapacity bounds a queue's total payload bytes.
const DefaultQueueCapacity = 15 << 20 // 15 MiB

// Packet is an opaque compressed packet with a monotonic stream timestamp.
type Packet struct {
	PTS  int64 // stream-timebase presentation timestamp
	Data []byte
}

// PacketQueue is a bounded FIFO of opaque compressed packets, bound by
// total payload bytes. Writers block when capacity would be exceeded;
// readers block when empty and not at EOF.
type PacketQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	capacity int
	size     int
	items    []Packet
	state    QueueState
	lastPTS  int64
	havePTS  bool
}

// NewPacketQueue creates a queue bound by capacity bytes.
func NewPacketQueue(capacity int) *PacketQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &PacketQueue{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Write enqueues a packet, blocking while doing so would exceed capacity.
// It enforces monotonic stream time within the queue and returns an
// Aborted error if the queue is aborted while blocked.
func (q *PacketQueue) Write(p Packet) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size+len(p.Data) > q.capacity && q.state == Open {
		q.notFull.Wait()
	}
	if q.state == Aborted {
		return herr.New(herr.Aborted, "packet queue aborted")
	}
	if q.state == EOF {
		return herr.New(herr.IoError, "write after EOF")
	}
	if q.havePTS && p.PTS < q.lastPTS {
		return herr.New(herr.DecodeError, "packet queue: non-monotonic PTS")
	}
	q.lastPTS, q.havePTS = p.PTS, true

	q.items = append(q.items, p)
	q.size += len(p.Data)
	q.notEmpty.Signal()
	return nil
}

// Read dequeues the next packet, blocking while the queue is empty and not
// at EOF/aborted. ok is false once the queue is drained and at EOF.
func (q *PacketQueue) Read() (p Packet, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && q.state == Open {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		if q.state == Aborted {
			return Packet{}, false, herr.New(herr.Aborted, "packet queue aborted")
		}
		return Packet{}, false, nil // EOF, drained
	}
	p = q.items[0]
	q.items = q.items[1:]
	q.size -= len(p.Data)
	q.notFull.Signal()
	return p, true, nil
}

// CloseEOF marks the queue at EOF: no more writes, reads drain remaining
// items then report ok=false.
func (q *PacketQueue) CloseEOF() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == Open {
		q.state = EOF
	}
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Abort marks the queue aborted, waking all blocked readers/writers.
func (q *PacketQueue) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = Aborted
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the current total payload size in bytes (test/metrics use).
func (q *PacketQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
