package audio

import "sync/atomic"

type eventKind uint8

const (
	eventNoteOn eventKind = iota
	eventNoteOff
)

type noteEvent struct {
	kind     eventKind
	pitch    int
	velocity int
}

// eventBuffer is a lock-free spsc queue of note events. The control thread pushes,
// the audio thread drains at the start of each block.
type eventBuffer struct {
	events      []noteEvent
	read, write atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{events: make([]noteEvent, size)}
}

// push adds ev to the queue. It never blocks and reports false when the queue is
// full.
func (b *eventBuffer) push(ev noteEvent) bool {
	write := b.write.Load()
	if write-b.read.Load() == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	b.write.Store(write + 1)
	return true
}

// drain calls f for every queued event in push order.
func (b *eventBuffer) drain(f func(noteEvent)) {
	read := b.read.Load()
	write := b.write.Load()
	for read != write {
		f(b.events[read%uint32(len(b.events))])
		read++
	}
	b.read.Store(read)
}

// applyEvents drains q into the notebook under one write lock.
func (b *Notebook) applyEvents(q *eventBuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q.drain(func(ev noteEvent) {
		if ev.pitch < 0 || ev.pitch >= numPitches {
			return
		}
		switch ev.kind {
		case eventNoteOn:
			b.noteOn(ev.pitch, ev.velocity)
		case eventNoteOff:
			b.noteOff(ev.pitch)
		}
	})
}
